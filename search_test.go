package staffdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staff() []Record {
	return []Record{
		{ID: "M001", Name: "John", Department: "Engineering", BaseCompensation: 80000, PerformanceRating: 5, Subtype: Manager},
		{ID: "I001", Name: "Jane", Department: "Sales", BaseCompensation: 30000, PerformanceRating: 3, Subtype: Intern},
		{ID: "R001", Name: "Bob", Department: "Engineering", BaseCompensation: 60000, PerformanceRating: 4, Subtype: Regular},
		{ID: "R002", Name: "Alice", Department: "HR", BaseCompensation: 45000, PerformanceRating: 2, Subtype: Regular},
	}
}

func ids(rows []Record) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}

func TestLinearSearch(t *testing.T) {
	rows := staff()
	tests := []struct {
		name      string
		term      string
		criterion SortCriterion
		want      []string
	}{
		{"case insensitive", "ENGIN", ByDepartment, []string{"M001", "R001"}},
		{"substring of name", "o", ByName, []string{"M001", "R001"}},
		{"empty term matches all", "", ByID, []string{"M001", "I001", "R001", "R002"}},
		{"numeric projection", "000.0", ByBaseCompensation, []string{"M001", "I001", "R001", "R002"}},
		{"rating", "4", ByPerformanceRating, []string{"R001"}},
		{"subtype", "reg", BySubtype, []string{"R001", "R002"}},
		{"no match", "zzz", ByName, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(LinearSearch(rows, tt.term, tt.criterion)))
		})
	}
}

func TestLinearSearchDoesNotMutate(t *testing.T) {
	rows := staff()
	before := staff()
	LinearSearch(rows, "o", ByName)
	HybridSearch(rows, "jon", ByName)
	AdvancedSearch(rows, map[SortCriterion]string{ByName: "a"})
	assert.Equal(t, before, rows)
}

func TestBinarySearch(t *testing.T) {
	rows := []Record{{ID: "1", Name: "Alice"}, {ID: "2", Name: "Bob"}, {ID: "3", Name: "Carol"}}

	r, ok := BinarySearch(rows, "bob", ByName)
	require.True(t, ok)
	assert.Equal(t, "Bob", r.Name)

	for _, name := range []string{"alice", "CAROL"} {
		_, ok := BinarySearch(rows, name, ByName)
		assert.True(t, ok, name)
	}

	_, ok = BinarySearch(rows, "bo", ByName)
	assert.False(t, ok, "binary search needs an exact projection match")

	_, ok = BinarySearch(nil, "bob", ByName)
	assert.False(t, ok)
}

func TestBinarySearchComparesNumbersAsStrings(t *testing.T) {
	// numerically ascending, but "10.0" < "2.0" as strings
	rows := []Record{
		{ID: "a", BaseCompensation: 2},
		{ID: "b", BaseCompensation: 10},
		{ID: "c", BaseCompensation: 30},
	}
	_, ok := BinarySearch(rows, "2.0", ByBaseCompensation)
	assert.False(t, ok)

	_, ok = BinarySearch(rows, "10.0", ByBaseCompensation)
	assert.True(t, ok)
}

func TestAdvancedSearch(t *testing.T) {
	rows := staff()

	got := AdvancedSearch(rows, map[SortCriterion]string{
		ByDepartment: "engineering",
		ByName:       "B",
	})
	assert.Equal(t, []string{"R001"}, ids(got))

	assert.Equal(t, ids(rows), ids(AdvancedSearch(rows, nil)))
	assert.Equal(t, ids(rows), ids(AdvancedSearch(rows, map[SortCriterion]string{})))
	assert.Empty(t, AdvancedSearch(rows, map[SortCriterion]string{ByName: "john", BySubtype: "intern"}))
}

func TestRangeSearch(t *testing.T) {
	rows := staff()

	assert.Equal(t, []string{"I001", "R002"}, ids(RangeSearch(rows, ByBaseCompensation, 30000, 45000)),
		"bounds are inclusive")
	assert.Equal(t, []string{"M001", "R001"}, ids(RangeSearch(rows, ByPerformanceRating, 4, 5)))
	assert.Equal(t, []string{"I001", "R001", "R002"}, ids(RangeSearch(rows, ByTotalCompensation, 45000, 60000)))
	assert.Empty(t, RangeSearch(rows, ByBaseCompensation, 50000, 40000))
}

func TestRangeSearchNonNumericCriterion(t *testing.T) {
	rows := staff()
	assert.Len(t, RangeSearch(rows, ByName, -1, 1), len(rows))
	assert.Empty(t, RangeSearch(rows, ByName, 1, 2))
}

func TestFuzzySearch(t *testing.T) {
	rows := []Record{{ID: "1", Name: "John"}, {ID: "2", Name: "Jane"}, {ID: "3", Name: "Bob"}}

	got := FuzzySearch(rows, "jon", 1)
	require.Len(t, got, 1)
	assert.Equal(t, "John", got[0].Name)

	assert.Len(t, FuzzySearch(rows, "jon", 3), 3)
	assert.Empty(t, FuzzySearch(rows, "xyz", 0))
	assert.Empty(t, FuzzySearch(nil, "jon", 5))
}

func TestHybridSearch(t *testing.T) {
	rows := []Record{
		{ID: "1", Name: "John"},
		{ID: "2", Name: "Bo"},
		{ID: "3", Name: "Jon"},
		{ID: "4", Name: "Joan"},
		{ID: "5", Name: "Maximilian"},
	}

	got := HybridSearch(rows, "jo", ByName)
	assert.Equal(t, []string{"1", "3", "4", "2"}, ids(got),
		"exact matches first, then fuzzy matches not already present")
}

func TestHybridSearchIdenticalRecords(t *testing.T) {
	twin := Record{ID: "T", Name: "Jon"}
	rows := []Record{twin, twin}
	assert.Len(t, HybridSearch(rows, "jon", ByName), 2, "records are identified by position")
}

func TestHybridSearchOtherCriterion(t *testing.T) {
	rows := staff()
	assert.Equal(t, []string{"M001", "R001"}, ids(HybridSearch(rows, "engineer", ByDepartment)))
	assert.Empty(t, HybridSearch(rows, "Jhn", ByDepartment), "fuzzy names only apply to ByName")
	assert.Equal(t, []string{"M001", "I001"}, ids(HybridSearch(rows, "Jhn", ByName)))
}
