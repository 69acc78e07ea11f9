package staffdb

import (
	"cmp"
	"strings"
)

// Comparator orders two records: negative when a sorts first, zero when
// they tie, positive when b sorts first.
type Comparator func(a, b Record) int

// Comparator builds the ordering for criterion and order. Strings compare
// byte-wise with case preserved; numbers compare numerically.
func (p Projector) Comparator(criterion SortCriterion, order SortOrder) Comparator {
	var base Comparator
	switch criterion {
	case ByID, ByName, ByDepartment, BySubtype:
		base = func(a, b Record) int {
			return strings.Compare(p.Project(a, criterion), p.Project(b, criterion))
		}
	case ByBaseCompensation, ByPerformanceRating, ByTotalCompensation:
		base = func(a, b Record) int {
			return cmp.Compare(p.ProjectNumeric(a, criterion), p.ProjectNumeric(b, criterion))
		}
	default:
		base = func(a, b Record) int { return 0 }
	}
	if order == Descending {
		return func(a, b Record) int { return -base(a, b) }
	}
	return base
}
