package staffdb

// sorter runs one algorithm over one slice and counts the work done.
// swaps counts element exchanges for quicksort and heapsort and element
// writes for mergesort and insertion sort.
type sorter struct {
	rows        []Record
	compare     Comparator
	comparisons int
	swaps       int
}

func newSorter(rows []Record, compare Comparator) *sorter {
	return &sorter{rows: rows, compare: compare}
}

func (s *sorter) cmp(a, b Record) int {
	s.comparisons++
	return s.compare(a, b)
}

func (s *sorter) swap(i, j int) {
	s.swaps++
	s.rows[i], s.rows[j] = s.rows[j], s.rows[i]
}

func (s *sorter) set(i int, r Record) {
	s.swaps++
	s.rows[i] = r
}

// quickSort sorts rows[lo..hi] inclusive. It recurses into the smaller
// partition and loops on the larger one so the stack stays O(log n) even
// for sorted input, where the last-element pivot degrades to O(n²) time.
func (s *sorter) quickSort(lo, hi int) {
	for lo < hi {
		p := s.partition(lo, hi)
		if p-lo < hi-p {
			s.quickSort(lo, p-1)
			lo = p + 1
		} else {
			s.quickSort(p+1, hi)
			hi = p - 1
		}
	}
}

// partition is Lomuto's scheme with rows[hi] as pivot.
func (s *sorter) partition(lo, hi int) int {
	pivot := s.rows[hi]
	i := lo - 1
	for j := lo; j < hi; j++ {
		if s.cmp(s.rows[j], pivot) <= 0 {
			i++
			s.swap(i, j)
		}
	}
	s.swap(i+1, hi)
	return i + 1
}

func (s *sorter) mergeSort(lo, hi int) {
	if lo >= hi {
		return
	}
	mid := lo + (hi-lo)/2
	s.mergeSort(lo, mid)
	s.mergeSort(mid+1, hi)
	s.merge(lo, mid, hi)
}

// merge combines rows[lo..mid] and rows[mid+1..hi]. Ties take the left
// element first.
func (s *sorter) merge(lo, mid, hi int) {
	left := make([]Record, mid-lo+1)
	right := make([]Record, hi-mid)
	copy(left, s.rows[lo:mid+1])
	copy(right, s.rows[mid+1:hi+1])

	i, j, k := 0, 0, lo
	for i < len(left) && j < len(right) {
		if s.cmp(left[i], right[j]) <= 0 {
			s.set(k, left[i])
			i++
		} else {
			s.set(k, right[j])
			j++
		}
		k++
	}
	for ; i < len(left); i++ {
		s.set(k, left[i])
		k++
	}
	for ; j < len(right); j++ {
		s.set(k, right[j])
		k++
	}
}

func (s *sorter) heapSort() {
	n := len(s.rows)
	for i := n/2 - 1; i >= 0; i-- {
		s.siftDown(i, n)
	}
	for i := n - 1; i > 0; i-- {
		s.swap(0, i)
		s.siftDown(0, i)
	}
}

// siftDown restores the heap property below root within rows[:n]. The
// root of the heap is the element that sorts last under the comparator.
func (s *sorter) siftDown(root, n int) {
	for {
		largest := root
		left, right := 2*root+1, 2*root+2
		if left < n && s.cmp(s.rows[left], s.rows[largest]) > 0 {
			largest = left
		}
		if right < n && s.cmp(s.rows[right], s.rows[largest]) > 0 {
			largest = right
		}
		if largest == root {
			return
		}
		s.swap(root, largest)
		root = largest
	}
}

func (s *sorter) insertionSort() {
	for i := 1; i < len(s.rows); i++ {
		key := s.rows[i]
		j := i - 1
		for j >= 0 && s.cmp(s.rows[j], key) > 0 {
			s.set(j+1, s.rows[j])
			j--
		}
		s.set(j+1, key)
	}
}

type algorithm func(s *sorter)

const (
	QuickSortName     = "quicksort"
	MergeSortName     = "mergesort"
	HeapSortName      = "heapsort"
	InsertionSortName = "insertionsort"
)

var algorithms = map[string]algorithm{
	QuickSortName:     func(s *sorter) { s.quickSort(0, len(s.rows)-1) },
	MergeSortName:     func(s *sorter) { s.mergeSort(0, len(s.rows)-1) },
	HeapSortName:      func(s *sorter) { s.heapSort() },
	InsertionSortName: func(s *sorter) { s.insertionSort() },
}

// Algorithms lists the names SortWithMetrics dispatches on.
func Algorithms() []string {
	return []string{QuickSortName, MergeSortName, HeapSortName, InsertionSortName}
}

func run(rows []Record, compare Comparator, alg algorithm) *sorter {
	s := newSorter(rows, compare)
	if len(rows) > 1 {
		alg(s)
	}
	return s
}
