package pipeline

import (
	"iresa/export"
	"iresa/imaging"
)

// Stage is the pipeline step a per-file failure happened in.
type Stage string

const (
	StageResize  Stage = "resize"
	StageConvert Stage = "convert"
	StageWrite   Stage = "write"
)

// Result is the outcome for one size in one format: Path when Err is nil,
// otherwise the failing Stage.
type Result struct {
	Size   int
	Format export.Format
	Path   string
	Stage  Stage
	Err    error
}

func (r Result) OK() bool {
	return r.Err == nil
}

// Report lists results in processing order.
type Report struct {
	Source  *imaging.Source
	Results []Result
}

// Written returns the paths of all files written.
func (r *Report) Written() []string {
	var paths []string
	for _, res := range r.Results {
		if res.OK() {
			paths = append(paths, res.Path)
		}
	}
	return paths
}

func (r *Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if !res.OK() {
			failed = append(failed, res)
		}
	}
	return failed
}
