package staffdb

import (
	"fmt"
)

// Standing classifies a performance rating.
type Standing int

const (
	Satisfactory Standing = iota
	Warning
	Appreciation
)

func (s Standing) String() string {
	switch s {
	case Warning:
		return "warning"
	case Appreciation:
		return "appreciation"
	}
	return "satisfactory"
}

// StandingOf maps ratings of 2 and below to Warning and 4 and above to
// Appreciation.
func StandingOf(rating int) Standing {
	switch {
	case rating <= 2:
		return Warning
	case rating >= 4:
		return Appreciation
	}
	return Satisfactory
}

// Letter is the notice issued to r for its current rating.
func Letter(r Record) string {
	switch StandingOf(r.PerformanceRating) {
	case Warning:
		return "Warning letter issued to " + r.Name
	case Appreciation:
		return "Appreciation letter issued to " + r.Name
	}
	return r.Name + "'s performance is satisfactory"
}

// Payslip breaks the total compensation of a record into its parts.
type Payslip struct {
	Base  float64
	Bonus float64
	Total float64
	Fine  float64
	Final float64
}

func (c Payslip) String() string {
	return fmt.Sprintf("base %.2f, bonus %.2f, total %.2f, fine %.2f, final %.2f",
		c.Base, c.Bonus, c.Total, c.Fine, c.Final)
}

// Payslip computes the automatic bonus of r under the policy and deducts
// fine from the total. The stored record is not changed.
func (p Projector) Payslip(r Record, fine float64) (Payslip, error) {
	if fine < 0 {
		return Payslip{}, fmt.Errorf("%w: %v", ErrNegativeFine, fine)
	}
	total := p.total(r)
	return Payslip{
		Base:  r.BaseCompensation,
		Bonus: total - r.BaseCompensation,
		Total: total,
		Fine:  fine,
		Final: total - fine,
	}, nil
}
