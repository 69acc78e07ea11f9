package staffdb

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

type Subtype uint8

const (
	Regular Subtype = iota
	Manager
	Intern
)

var subtypeNames = [...]string{
	Regular: "Regular",
	Manager: "Manager",
	Intern:  "Intern",
}

func (s Subtype) String() string {
	if int(s) < len(subtypeNames) {
		return subtypeNames[s]
	}
	return fmt.Sprintf("Subtype(%d)", uint8(s))
}

// ParseSubtype accepts the subtype name in any case.
func ParseSubtype(s string) (Subtype, error) {
	for i, name := range subtypeNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return Subtype(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSubtype, s)
}

func (s Subtype) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Subtype) UnmarshalText(text []byte) error {
	v, err := ParseSubtype(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// CompensationPolicy derives the total compensation of a record from its
// base compensation and subtype.
type CompensationPolicy func(base float64, subtype Subtype) float64

// DefaultCompensation gives managers a 10% and interns a 50% automatic
// adjustment on top of the base.
func DefaultCompensation(base float64, subtype Subtype) float64 {
	switch subtype {
	case Manager:
		return base + base*0.10
	case Intern:
		return base + base*0.50
	default:
		return base
	}
}

type Record struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Department        string  `json:"department"`
	BaseCompensation  float64 `json:"salary"`
	PerformanceRating int     `json:"rating"`
	Subtype           Subtype `json:"type"`
}

func (c Record) IsEmpty() bool {
	return len(c.ID) <= 0
}

// Key is the case-folded identifier used for uniqueness checks.
func (c Record) Key() string {
	return strings.ToLower(c.ID)
}

func (c Record) String() string {
	return "ID: " + c.ID +
		", Name: " + c.Name +
		", Dept: " + c.Department +
		", Base Salary: " + formatFloat(c.BaseCompensation) +
		", Performance: " + fmt.Sprint(c.PerformanceRating)
}

// validate rejects values the JSON encoding cannot carry.
func (c Record) validate() error {
	if math.IsNaN(c.BaseCompensation) || math.IsInf(c.BaseCompensation, 0) {
		return fmt.Errorf("%w: %s has %v", ErrInvalidCompensation, c.ID, c.BaseCompensation)
	}
	return nil
}

func (c Record) ToJson() string {
	marshal, err := c.ToBytes()
	if err != nil {
		return ""
	}
	return string(marshal)
}

func (c Record) ToBytes() ([]byte, error) {
	return json.Marshal(c)
}

func FromBytes(src []byte) (Record, error) {
	var r Record
	err := json.Unmarshal(src, &r)
	return r, err
}
