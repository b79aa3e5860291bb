package age

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Unit is the granularity of an Age.
type Unit int

const (
	Months Unit = iota
	Years
)

// Age is a positive repository age such as "8 years" or "6 months".
type Age struct {
	N    int
	Unit Unit
}

// Presets are the choices offered by the interactive picker, youngest first.
var Presets = []Age{
	{3, Months},
	{6, Months},
	{1, Years},
	{2, Years},
	{5, Years},
	{8, Years},
}

// DefaultPreset indexes Presets at the 2-year option.
const DefaultPreset = 3

// Parse parses the CLI age grammar <integer><unit> where unit is 'y' for
// years or 'm' for months. Leading/trailing space and case are ignored.
func Parse(s string) (Age, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 2 {
		return Age{}, fmt.Errorf("invalid age %q: want <number><unit>, e.g. 8y or 6m", s)
	}
	numStr, unit := s[:len(s)-1], s[len(s)-1]
	n, err := strconv.Atoi(numStr)
	if err != nil {
		return Age{}, fmt.Errorf("invalid number in age %q", numStr)
	}
	if n <= 0 {
		return Age{}, fmt.Errorf("age must be positive, got %d", n)
	}
	switch unit {
	case 'y':
		return Age{N: n, Unit: Years}, nil
	case 'm':
		return Age{N: n, Unit: Months}, nil
	default:
		return Age{}, fmt.Errorf("invalid age unit %q: use 'y' for years or 'm' for months (e.g. 8y, 6m)", string(unit))
	}
}

// Cutoff returns now minus the age. Repositories created strictly before the
// cutoff are archive candidates.
func (a Age) Cutoff(now time.Time) time.Time {
	if a.Unit == Years {
		return now.AddDate(-a.N, 0, 0)
	}
	return now.AddDate(0, -a.N, 0)
}

func (a Age) String() string {
	unit := "month"
	if a.Unit == Years {
		unit = "year"
	}
	if a.N == 1 {
		return fmt.Sprintf("%d %s", a.N, unit)
	}
	return fmt.Sprintf("%d %ss", a.N, unit)
}
