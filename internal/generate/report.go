package generate

import "strings"

// Entry is the outcome of writing one test class.
type Entry struct {
	// Class is the simple name of the source class.
	Class     string
	TestClass string
	Path      string
	Err       error
}

// Report summarizes a run.
type Report struct {
	// CommonBase is the base class file written by this run, if any.
	CommonBase string
	Entries    []Entry
}

// Empty reports whether no test class was attempted.
func (r *Report) Empty() bool {
	return r == nil || len(r.Entries) == 0
}

// Failed counts the entries that could not be written.
func (r *Report) Failed() int {
	n := 0
	for _, e := range r.Entries {
		if e.Err != nil {
			n++
		}
	}
	return n
}

// String renders one "success -> Class" or "failed -> Class" line per entry,
// naming the source class.
func (r *Report) String() string {
	if r == nil {
		return ""
	}
	var b strings.Builder
	for _, e := range r.Entries {
		if e.Err != nil {
			b.WriteString("failed -> ")
		} else {
			b.WriteString("success -> ")
		}
		b.WriteString(e.Class)
		b.WriteByte('\n')
	}
	return b.String()
}
