package analysis

import (
	"errors"
	"sort"
)

// ErrEmptyDataset is returned by Analyze when there are no labels to count.
// It is not fatal: the accompanying report renders as "no data".
var ErrEmptyDataset = errors.New("no labels to analyze")

// DefaultTarget is the label whose probability is reported when none is configured.
const DefaultTarget Label = "RED"

// Options controls frequency analysis.
type Options struct {
	// Target is the label whose empirical probability is reported.
	Target Label
}

// DefaultOptions returns the analysis defaults.
func DefaultOptions() Options {
	return Options{Target: DefaultTarget}
}

// CategoryCount is one row of a frequency table.
type CategoryCount struct {
	Value Label `json:"value"`
	Count int   `json:"count"`
}

// FrequencyMap maps each distinct label to its occurrence count. Order keeps
// the first-seen order of keys so iteration and tie-breaks are deterministic.
type FrequencyMap struct {
	Counts map[Label]int
	Order  []Label
}

// Count builds a FrequencyMap in a single pass over labels.
func Count(labels LabelSequence) FrequencyMap {
	fm := FrequencyMap{Counts: make(map[Label]int)}
	for _, l := range labels {
		if _, ok := fm.Counts[l]; !ok {
			fm.Order = append(fm.Order, l)
		}
		fm.Counts[l]++
	}
	return fm
}

// Len returns the number of distinct labels.
func (f FrequencyMap) Len() int { return len(f.Order) }

// Total returns the sum of all counts.
func (f FrequencyMap) Total() int {
	n := 0
	for _, c := range f.Counts {
		n += c
	}
	return n
}

// Get returns the count for l, zero when absent.
func (f FrequencyMap) Get(l Label) int { return f.Counts[l] }

// Entries returns the counts in first-seen order.
func (f FrequencyMap) Entries() []CategoryCount {
	out := make([]CategoryCount, 0, len(f.Order))
	for _, l := range f.Order {
		out = append(out, CategoryCount{Value: l, Count: f.Counts[l]})
	}
	return out
}

// Ranked returns the counts ordered by count descending; equal counts keep
// first-seen order.
func (f FrequencyMap) Ranked() []CategoryCount {
	out := f.Entries()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Mode returns the most frequent label. When several labels share the
// maximum count the one seen first in the sequence wins.
func (f FrequencyMap) Mode() (Label, bool) {
	var best Label
	bestN := 0
	for _, l := range f.Order {
		if n := f.Counts[l]; n > bestN {
			best, bestN = l, n
		}
	}
	return best, bestN > 0
}

// Variance returns the population variance (divisor N) of the per-label counts.
func (f FrequencyMap) Variance() float64 {
	n := len(f.Order)
	if n == 0 {
		return 0
	}
	var sum float64
	for _, l := range f.Order {
		sum += float64(f.Counts[l])
	}
	mean := sum / float64(n)
	var ss float64
	for _, l := range f.Order {
		d := float64(f.Counts[l]) - mean
		ss += d * d
	}
	return ss / float64(n)
}

// Median is the middle of a lexicographically sorted label sequence. For an
// even number of labels both middle elements are kept; categorical values
// cannot be averaged.
type Median struct {
	Low  Label `json:"low"`
	High Label `json:"high"`
	// Pair is set for even-length input, even when Low equals High.
	Pair bool `json:"pair"`
}

// String renders "B" for odd-length input and "B and C" for even-length input.
func (m Median) String() string {
	if !m.Pair {
		return string(m.Low)
	}
	return string(m.Low) + " and " + string(m.High)
}

// MedianOf returns the median of labels and false when labels is empty.
func MedianOf(labels LabelSequence) (Median, bool) {
	n := len(labels)
	if n == 0 {
		return Median{}, false
	}
	sorted := make(LabelSequence, n)
	copy(sorted, labels)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	if n%2 == 1 {
		return Median{Low: sorted[n/2], High: sorted[n/2]}, true
	}
	return Median{Low: sorted[n/2-1], High: sorted[n/2], Pair: true}, true
}

// Probability returns count(target)/len(labels); zero for an absent target
// or an empty sequence.
func Probability(f FrequencyMap, target Label, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(f.Get(target)) / float64(total)
}

// Analyze computes the frequency report for labels. Empty input yields a
// report with Empty set and ErrEmptyDataset; no partial statistics are filled.
func Analyze(labels LabelSequence, opt Options) (*Report, error) {
	target := opt.Target
	if target == "" {
		target = DefaultTarget
	}
	rep := &Report{Target: target, Total: len(labels)}
	if len(labels) == 0 {
		rep.Empty = true
		return rep, ErrEmptyDataset
	}
	freq := Count(labels)
	rep.Frequencies = freq
	rep.Mode, _ = freq.Mode()
	rep.Median, _ = MedianOf(labels)
	rep.Variance = freq.Variance()
	rep.Probability = Probability(freq, target, len(labels))
	return rep, nil
}
