package exam

import (
	"math"
	"sort"
)

// Allocate turns an area weight table and a target exam size into a
// per-subject question plan proportional to the weights, summing
// exactly to target. Pure and deterministic; randomness enters only in
// selection.
//
// Every included subject gets at least 1 question. When target is
// smaller than the number of subjects that floor makes the exact sum
// unreachable and the result over-shoots; valid exam sizes (40/80/120
// against ~10 subjects) never hit that case.
func Allocate(weights []SubjectWeight, target int) []SubjectCount {
	if len(weights) == 0 || target < 1 {
		return nil
	}

	baseline := 0
	for _, sw := range weights {
		baseline += sw.Weight
	}
	if baseline <= 0 {
		return nil
	}

	proportion := float64(target) / float64(baseline)

	counts := make([]SubjectCount, len(weights))
	total := 0
	for i, sw := range weights {
		scaled := int(math.Round(float64(sw.Weight) * proportion))
		if scaled < 1 {
			scaled = 1
		}
		counts[i] = SubjectCount{Slug: sw.Slug, Count: scaled}
		total += scaled
	}

	diff := target - total
	if diff == 0 {
		return counts
	}

	// Unit adjustments go to subjects in weight-biased order: heaviest
	// first when adding, lightest first when removing. Stable sort keeps
	// canonical order among equal weights.
	order := make([]int, len(weights))
	for i := range order {
		order[i] = i
	}
	if diff > 0 {
		sort.SliceStable(order, func(a, b int) bool {
			return weights[order[a]].Weight > weights[order[b]].Weight
		})
	} else {
		sort.SliceStable(order, func(a, b int) bool {
			return weights[order[a]].Weight < weights[order[b]].Weight
		})
	}

	step := 1
	if diff < 0 {
		step = -1
		diff = -diff
	}
	for i := 0; i < diff; i++ {
		idx := order[i%len(order)]
		next := counts[idx].Count + step
		if next >= 1 {
			counts[idx].Count = next
		}
	}

	return counts
}
