package staffdb

import (
	"github.com/rs/zerolog"
)

// Engine bundles the compensation policy and logger that sorting and
// searching run with. It holds no state between calls; sort methods own
// the slice only for the duration of the call.
type Engine struct {
	Projector
	logger zerolog.Logger
}

type Option func(*Engine)

func WithPolicy(policy CompensationPolicy) Option {
	return func(e *Engine) {
		if policy != nil {
			e.Policy = policy
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		Projector: Projector{Policy: DefaultCompensation},
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) QuickSort(rows []Record, c SortCriterion, o SortOrder) {
	run(rows, e.Comparator(c, o), algorithms[QuickSortName])
}

func (e *Engine) MergeSort(rows []Record, c SortCriterion, o SortOrder) {
	run(rows, e.Comparator(c, o), algorithms[MergeSortName])
}

func (e *Engine) HeapSort(rows []Record, c SortCriterion, o SortOrder) {
	run(rows, e.Comparator(c, o), algorithms[HeapSortName])
}

func (e *Engine) InsertionSort(rows []Record, c SortCriterion, o SortOrder) {
	run(rows, e.Comparator(c, o), algorithms[InsertionSortName])
}

func (e *Engine) FuzzySearch(rows []Record, term string, maxDistance int) []Record {
	return FuzzySearch(rows, term, maxDistance)
}

var std = NewEngine()

func Project(r Record, c SortCriterion) string {
	return std.Project(r, c)
}

func ProjectNumeric(r Record, c SortCriterion) float64 {
	return std.ProjectNumeric(r, c)
}

func NewComparator(c SortCriterion, o SortOrder) Comparator {
	return std.Comparator(c, o)
}

func QuickSort(rows []Record, c SortCriterion, o SortOrder) {
	std.QuickSort(rows, c, o)
}

func MergeSort(rows []Record, c SortCriterion, o SortOrder) {
	std.MergeSort(rows, c, o)
}

func HeapSort(rows []Record, c SortCriterion, o SortOrder) {
	std.HeapSort(rows, c, o)
}

func InsertionSort(rows []Record, c SortCriterion, o SortOrder) {
	std.InsertionSort(rows, c, o)
}

func SortWithMetrics(rows []Record, c SortCriterion, o SortOrder, algorithmName string) SortingMetrics {
	return std.SortWithMetrics(rows, c, o, algorithmName)
}

func LinearSearch(rows []Record, term string, c SortCriterion) []Record {
	return std.LinearSearch(rows, term, c)
}

func BinarySearch(sorted []Record, term string, c SortCriterion) (Record, bool) {
	return std.BinarySearch(sorted, term, c)
}

func AdvancedSearch(rows []Record, terms map[SortCriterion]string) []Record {
	return std.AdvancedSearch(rows, terms)
}

func RangeSearch(rows []Record, c SortCriterion, min, max float64) []Record {
	return std.RangeSearch(rows, c, min, max)
}

func HybridSearch(rows []Record, term string, c SortCriterion) []Record {
	return std.HybridSearch(rows, term, c)
}
