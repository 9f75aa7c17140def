package dto

import (
	"strconv"

	"github.com/manideepyelugam/Fairlx-sub016/internal/myspace"
)

// AggregatedResponse is the envelope of every cross-workspace read. Partial
// is true when one or more workspace shards failed and were omitted.
type AggregatedResponse[T any] struct {
	Records            []T      `json:"records"`
	ExcludedWorkspaces []string `json:"excluded_workspaces,omitempty"`
	Tier               string   `json:"tier"`
	MaxAgeSeconds      int      `json:"max_age_seconds"`
	Partial            bool     `json:"partial"`
}

func ToAggregatedResponse[M, T any](res myspace.Result[M], convert func([]M) []T) AggregatedResponse[T] {
	records := convert(res.Records)
	if records == nil {
		records = []T{}
	}
	var excluded []string
	for _, id := range res.ExcludedWorkspaces {
		excluded = append(excluded, strconv.FormatInt(id, 10))
	}
	return AggregatedResponse[T]{
		Records:            records,
		ExcludedWorkspaces: excluded,
		Tier:               string(res.Tier),
		MaxAgeSeconds:      int(res.Tier.MaxAge().Seconds()),
		Partial:            res.Partial,
	}
}
