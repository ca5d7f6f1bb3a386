package artifact

import "encoding/json"

// Stage names the persisted snapshot a pipeline state produces.
type Stage string

const (
	StageDetailed  Stage = "detailed"
	StageShortened Stage = "shortened"
	StageReported  Stage = "reported"
)

// Result is one per-path analysis. Unanalyzed is the explicit sentinel that
// separates "not analyzed" from "analyzed, nothing to report".
type Result struct {
	Path       string `json:"path"`
	Analysis   string `json:"analysis,omitempty"`
	Unanalyzed bool   `json:"unanalyzed,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// Set is an ordered collection of per-path results. Order follows the
// source sequence, never completion order.
type Set struct {
	Results []Result `json:"results"`
}

// Put appends or replaces the result for r.Path, keeping existing order.
func (s *Set) Put(r Result) {
	for i := range s.Results {
		if s.Results[i].Path == r.Path {
			s.Results[i] = r
			return
		}
	}
	s.Results = append(s.Results, r)
}

// Get returns the result for path if present.
func (s *Set) Get(path string) (Result, bool) {
	for _, r := range s.Results {
		if r.Path == path {
			return r, true
		}
	}
	return Result{}, false
}

// Paths returns all paths in set order.
func (s *Set) Paths() []string {
	out := make([]string, len(s.Results))
	for i, r := range s.Results {
		out[i] = r.Path
	}
	return out
}

// Unanalyzed returns the paths carrying the sentinel, in set order.
func (s *Set) Unanalyzed() []string {
	var out []string
	for _, r := range s.Results {
		if r.Unanalyzed {
			out = append(out, r.Path)
		}
	}
	return out
}

// AllUnanalyzed reports total failure: a non-empty set where no path was
// successfully analyzed.
func (s *Set) AllUnanalyzed() bool {
	if len(s.Results) == 0 {
		return false
	}
	for _, r := range s.Results {
		if !r.Unanalyzed {
			return false
		}
	}
	return true
}

// Covers reports whether the set holds exactly the given paths in the given
// order. Used to decide whether a stored artifact may satisfy a resume.
func (s *Set) Covers(paths []string) bool {
	if len(s.Results) != len(paths) {
		return false
	}
	for i, r := range s.Results {
		if r.Path != paths[i] {
			return false
		}
	}
	return true
}

// Report is the single project-level artifact of a run. Paths records the
// ordered source set the report was derived from, so a stored report is
// only ever resumed for the exact same set.
type Report struct {
	Text       string   `json:"text"`
	Paths      []string `json:"paths,omitempty"`
	Unanalyzed []string `json:"unanalyzed,omitempty"`
}

// Covers reports whether the report was built from exactly the given paths
// in the given order.
func (r *Report) Covers(paths []string) bool {
	if len(r.Paths) != len(paths) {
		return false
	}
	for i, p := range r.Paths {
		if p != paths[i] {
			return false
		}
	}
	return true
}

func EncodeSet(s *Set) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

func DecodeSet(data []byte) (*Set, error) {
	var s Set
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func EncodeReport(r *Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

func DecodeReport(data []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
