package models

import "fmt"

// AnalysisState records how much of the pipeline ran for a result
type AnalysisState int

const (
	// StateFull means every stage produced a measured value
	StateFull AnalysisState = iota
	// StatePartial means the container was read but at least one pixel analyzer used its default
	StatePartial
	// StateFallback means the container could not be read and the card was built from the label
	StateFallback
)

func (s AnalysisState) String() string {
	switch s {
	case StateFull:
		return "full"
	case StatePartial:
		return "partial"
	case StateFallback:
		return "fallback"
	}
	return fmt.Sprintf("AnalysisState(%d)", int(s))
}

// ParseAnalysisState is the inverse of String
func ParseAnalysisState(s string) (AnalysisState, error) {
	for _, st := range []AnalysisState{StateFull, StatePartial, StateFallback} {
		if st.String() == s {
			return st, nil
		}
	}
	return StateFull, fmt.Errorf("unknown analysis state %q", s)
}

// MarshalText encodes the state by name
func (s AnalysisState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name
func (s *AnalysisState) UnmarshalText(text []byte) error {
	parsed, err := ParseAnalysisState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
