package main

import (
	"golang.org/x/tools/go/analysis"

	"github.com/manideepyelugam/Fairlx-sub016/tools/linters/enumvalidator"
)

type AnalyzerPlugin struct{}

func (*AnalyzerPlugin) GetAnalyzers() []*analysis.Analyzer {
	return []*analysis.Analyzer{
		enumvalidator.Analyzer,
	}
}

func New(conf any) ([]*analysis.Analyzer, error) {
	return []*analysis.Analyzer{enumvalidator.Analyzer}, nil
}

// main is never called; it exists so the package links when built
// without -buildmode=plugin.
func main() {}
