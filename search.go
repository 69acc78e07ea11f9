package staffdb

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// HybridFuzzyDistance is the edit distance HybridSearch tolerates on names.
const HybridFuzzyDistance = 2

func (p Projector) contains(r Record, c SortCriterion, lowerTerm string) bool {
	return strings.Contains(strings.ToLower(p.Project(r, c)), lowerTerm)
}

func (p Projector) linearIndexes(rows []Record, term string, c SortCriterion) []int {
	lower := strings.ToLower(term)
	var hits []int
	for i, r := range rows {
		if p.contains(r, c, lower) {
			hits = append(hits, i)
		}
	}
	return hits
}

func fuzzyIndexes(rows []Record, term string, maxDistance int) []int {
	lower := strings.ToLower(term)
	var hits []int
	for i, r := range rows {
		if Levenshtein(lower, strings.ToLower(r.Name)) <= maxDistance {
			hits = append(hits, i)
		}
	}
	return hits
}

func pick(rows []Record, indexes []int) []Record {
	out := make([]Record, 0, len(indexes))
	for _, i := range indexes {
		out = append(out, rows[i])
	}
	return out
}

// LinearSearch returns every record whose projection contains term,
// ignoring case, in input order.
func (p Projector) LinearSearch(rows []Record, term string, c SortCriterion) []Record {
	return pick(rows, p.linearIndexes(rows, term, c))
}

// BinarySearch probes a slice sorted ascending by the lower-cased string
// projection of c and returns the first record whose projection equals
// term ignoring case.
//
// The probe always compares strings, numeric criteria included, so a
// slice sorted numerically by salary is not a valid input once values
// differ in digit count ("9.0" sorts after "10.0").
func (p Projector) BinarySearch(sorted []Record, term string, c SortCriterion) (Record, bool) {
	lower := strings.ToLower(term)
	left, right := 0, len(sorted)-1
	for left <= right {
		mid := left + (right-left)/2
		switch v := strings.Compare(strings.ToLower(p.Project(sorted[mid], c)), lower); {
		case v == 0:
			return sorted[mid], true
		case v < 0:
			left = mid + 1
		default:
			right = mid - 1
		}
	}
	return Record{}, false
}

// AdvancedSearch keeps records matching every criterion's term as a case
// insensitive substring. An empty map keeps everything.
func (p Projector) AdvancedSearch(rows []Record, terms map[SortCriterion]string) []Record {
	lowered := make(map[SortCriterion]string, len(terms))
	for c, t := range terms {
		lowered[c] = strings.ToLower(t)
	}
	out := make([]Record, 0)
	for _, r := range rows {
		ok := true
		for c, t := range lowered {
			if !p.contains(r, c, t) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, r)
		}
	}
	return out
}

// RangeSearch keeps records whose numeric projection lies in [min, max].
// Non-numeric criteria project to 0 for every record.
func (p Projector) RangeSearch(rows []Record, c SortCriterion, min, max float64) []Record {
	out := make([]Record, 0)
	for _, r := range rows {
		v := p.ProjectNumeric(r, c)
		if v >= min && v <= max {
			out = append(out, r)
		}
	}
	return out
}

// FuzzySearch keeps records whose lower-cased name is within maxDistance
// edits of the lower-cased term.
func FuzzySearch(rows []Record, term string, maxDistance int) []Record {
	return pick(rows, fuzzyIndexes(rows, term, maxDistance))
}

// HybridSearch returns the substring matches for c followed, when c is
// ByName, by fuzzy name matches that were not already matched. A record
// is identified by its position in rows.
func (p Projector) HybridSearch(rows []Record, term string, c SortCriterion) []Record {
	hits := p.linearIndexes(rows, term, c)
	if c == ByName {
		seen := mapset.NewThreadUnsafeSet(hits...)
		for _, i := range fuzzyIndexes(rows, term, HybridFuzzyDistance) {
			if seen.Add(i) {
				hits = append(hits, i)
			}
		}
	}
	return pick(rows, hits)
}
