package cpm

import (
	"fmt"
	"strings"
)

// Style selects which planning tool's behaviour the engine reproduces.
type Style int

const (
	// StyleMSProject follows Microsoft Project.
	StyleMSProject Style = iota
	// StyleP6 follows Primavera P6, including progress and out-of-sequence handling.
	StyleP6
)

func (s Style) String() string {
	switch s {
	case StyleMSProject:
		return "msproject"
	case StyleP6:
		return "p6"
	default:
		return fmt.Sprintf("style(%d)", int(s))
	}
}

// ParseStyle accepts "msproject" or "p6" and a few common aliases.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "msproject", "ms-project", "mpp", "microsoft":
		return StyleMSProject, nil
	case "p6", "primavera":
		return StyleP6, nil
	default:
		return 0, fmt.Errorf("unknown schedule style %q", s)
	}
}
