package staffdb

import (
	"fmt"
	"strconv"
	"strings"
)

type SortCriterion int

const (
	ByID SortCriterion = iota
	ByName
	ByDepartment
	ByBaseCompensation
	ByPerformanceRating
	ByTotalCompensation
	BySubtype
)

var criterionNames = [...]string{
	ByID:                "id",
	ByName:              "name",
	ByDepartment:        "department",
	ByBaseCompensation:  "salary",
	ByPerformanceRating: "rating",
	ByTotalCompensation: "total",
	BySubtype:           "type",
}

func (c SortCriterion) String() string {
	if c >= 0 && int(c) < len(criterionNames) {
		return criterionNames[c]
	}
	return fmt.Sprintf("SortCriterion(%d)", int(c))
}

// IsNumeric reports whether ProjectNumeric yields a meaningful value for c.
func (c SortCriterion) IsNumeric() bool {
	return c == ByBaseCompensation || c == ByPerformanceRating || c == ByTotalCompensation
}

// ParseCriterion accepts the short names used by String plus a few aliases.
func ParseCriterion(s string) (SortCriterion, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "id":
		return ByID, nil
	case "name":
		return ByName, nil
	case "department", "dept":
		return ByDepartment, nil
	case "salary", "base":
		return ByBaseCompensation, nil
	case "rating", "performance":
		return ByPerformanceRating, nil
	case "total", "total_salary":
		return ByTotalCompensation, nil
	case "type", "subtype":
		return BySubtype, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCriterion, s)
}

type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

func (o SortOrder) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}

func ParseOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOrder, s)
}

// Projector maps a record and criterion to a searchable value.
type Projector struct {
	Policy CompensationPolicy
}

func (p Projector) total(r Record) float64 {
	if p.Policy == nil {
		return DefaultCompensation(r.BaseCompensation, r.Subtype)
	}
	return p.Policy(r.BaseCompensation, r.Subtype)
}

// Project returns the textual projection, case preserved. Numbers are
// rendered the way the record files have always written them ("80000.0").
func (p Projector) Project(r Record, c SortCriterion) string {
	switch c {
	case ByID:
		return r.ID
	case ByName:
		return r.Name
	case ByDepartment:
		return r.Department
	case ByBaseCompensation:
		return formatFloat(r.BaseCompensation)
	case ByPerformanceRating:
		return strconv.Itoa(r.PerformanceRating)
	case ByTotalCompensation:
		return formatFloat(p.total(r))
	case BySubtype:
		return r.Subtype.String()
	}
	return ""
}

// ProjectNumeric returns 0 for criteria that are not numeric.
func (p Projector) ProjectNumeric(r Record, c SortCriterion) float64 {
	switch c {
	case ByBaseCompensation:
		return r.BaseCompensation
	case ByPerformanceRating:
		return float64(r.PerformanceRating)
	case ByTotalCompensation:
		return p.total(r)
	}
	return 0
}

// formatFloat renders v with the shortest representation that round
// trips, always keeping a fractional digit. Magnitudes outside
// [1e-3, 1e7) use the "1.0E7" exponent form.
func formatFloat(v float64) string {
	abs := v
	if abs < 0 {
		abs = -abs
	}
	if abs == 0 || (abs >= 1e-3 && abs < 1e7) {
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.ContainsAny(s, ".NI") {
			s += ".0"
		}
		return s
	}
	s := strconv.FormatFloat(v, 'E', -1, 64)
	mantissa, exp, ok := strings.Cut(s, "E")
	if !ok {
		return s
	}
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	neg := strings.HasPrefix(exp, "-")
	exp = strings.TrimLeft(exp, "+-")
	exp = strings.TrimLeft(exp, "0")
	if exp == "" {
		exp = "0"
	}
	if neg {
		exp = "-" + exp
	}
	return mantissa + "E" + exp
}
