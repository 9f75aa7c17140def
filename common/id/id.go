// Package id generates unique, time-sortable 64-bit ids.
package id

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node     *snowflake.Node
	nodeOnce sync.Once
	nodeErr  error
)

// New returns a new snowflake id. The node number is taken from NODE_ID
// (0 when unset) so multiple instances never collide.
func New() int64 {
	nodeOnce.Do(func() {
		nodeNum := int64(0)
		if v := os.Getenv("NODE_ID"); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				nodeErr = fmt.Errorf("parsing NODE_ID: %w", err)
				return
			}
			nodeNum = n
		}
		node, nodeErr = snowflake.NewNode(nodeNum)
	})
	if nodeErr != nil {
		panic(nodeErr)
	}
	return node.Generate().Int64()
}
