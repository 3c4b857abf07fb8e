package proc

import "errors"

// Report is the reduced outcome of a Terminate call.
type Report struct {
	// Name is the process name that was searched for.
	Name string

	// Results holds one entry per matched process, in match order, or a
	// single StepLookup entry when the process table could not be queried.
	Results []Result

	// Path is the last executable path successfully read, or empty.
	Path string
}

// Reduce folds per-process results into a Report. When several processes
// report a path, the last one wins; see Multiple.
func Reduce(name string, results []Result) Report {
	rep := Report{Name: name, Results: results}
	for _, r := range results {
		if r.Process.Path != "" {
			rep.Path = r.Process.Path
		}
	}
	return rep
}

// Failed reports whether any process could not be stopped.
func (r Report) Failed() bool {
	for _, res := range r.Results {
		if res.Failed() {
			return true
		}
	}
	return false
}

// Matched returns the number of processes found.
func (r Report) Matched() int {
	n := 0
	for _, res := range r.Results {
		if res.Step != StepLookup {
			n++
		}
	}
	return n
}

// Multiple reports whether more than one instance was matched, in which
// case Path only identifies the last of them.
func (r Report) Multiple() bool {
	return r.Matched() > 1
}

// Stopped returns the number of processes killed successfully.
func (r Report) Stopped() int {
	n := 0
	for _, res := range r.Results {
		if !res.Failed() {
			n++
		}
	}
	return n
}

// Err joins every per-process error, or returns nil.
func (r Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return errors.Join(errs...)
}
