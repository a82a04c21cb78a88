package analyzer

import (
	"fmt"
	"sort"
)

var detectors = map[string]func() Detector{
	"ink":      func() Detector { return NewInkDetector() },
	"contrast": func() Detector { return NewContrastDetector() },
}

// NewDetector returns the detector registered under kind. The empty kind
// selects ink.
func NewDetector(kind string) (Detector, error) {
	if kind == "" {
		kind = "ink"
	}
	if kind == "ocr" {
		return nil, fmt.Errorf("ocr detector not yet implemented")
	}
	ctor, ok := detectors[kind]
	if !ok {
		return nil, fmt.Errorf("unknown detector %q (have %v)", kind, Kinds())
	}
	return ctor(), nil
}

// Kinds lists the registered detector names.
func Kinds() []string {
	kinds := make([]string, 0, len(detectors))
	for k := range detectors {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
