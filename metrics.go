package staffdb

import (
	"fmt"
	"strings"
	"time"
)

type SortingMetrics struct {
	Algorithm   string
	Elapsed     time.Duration
	Comparisons int
	Swaps       int
}

func (m SortingMetrics) String() string {
	return fmt.Sprintf("%s: %dms, %d comparisons, %d swaps",
		m.Algorithm, m.Elapsed.Milliseconds(), m.Comparisons, m.Swaps)
}

// SortWithMetrics sorts rows with the algorithm named (case-insensitive)
// by algorithmName and reports the wall-clock time along with the
// comparisons and swaps performed. Known names are reported as given;
// unknown names fall back to quicksort and are reported as "quicksort".
func (e *Engine) SortWithMetrics(rows []Record, c SortCriterion, o SortOrder, algorithmName string) SortingMetrics {
	name := algorithmName
	alg, ok := algorithms[strings.ToLower(name)]
	if !ok {
		name = QuickSortName
		alg = algorithms[name]
	}

	start := time.Now()
	s := run(rows, e.Comparator(c, o), alg)
	m := SortingMetrics{
		Algorithm:   name,
		Elapsed:     time.Since(start),
		Comparisons: s.comparisons,
		Swaps:       s.swaps,
	}
	e.logger.Debug().
		Str("algorithm", m.Algorithm).
		Stringer("criterion", c).
		Stringer("order", o).
		Int("rows", len(rows)).
		Dur("elapsed", m.Elapsed).
		Int("comparisons", m.Comparisons).
		Int("swaps", m.Swaps).
		Msg("sorted records")
	return m
}
