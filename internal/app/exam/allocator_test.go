package exam

import (
	"reflect"
	"testing"
)

func countsBySlug(counts []SubjectCount) map[string]int {
	out := make(map[string]int, len(counts))
	for _, c := range counts {
		out[c.Slug] = c.Count
	}
	return out
}

func sumCounts(counts []SubjectCount) int {
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	return total
}

func TestAllocateExactSumForValidSizes(t *testing.T) {
	cfg := DefaultConfig()
	for areaID, area := range cfg.Areas {
		for _, target := range []int{40, 80, 120} {
			got := Allocate(cfg.OrderedWeights(area), target)
			if sum := sumCounts(got); sum != target {
				t.Errorf("%s target %d: allocation sums to %d", areaID, target, sum)
			}
			for _, c := range got {
				if c.Count < 1 {
					t.Errorf("%s target %d: subject %s allocated %d", areaID, target, c.Slug, c.Count)
				}
			}
		}
	}
}

func TestAllocateArea1At40(t *testing.T) {
	cfg := DefaultConfig()
	area := cfg.Areas["area_1"]

	got := countsBySlug(Allocate(cfg.OrderedWeights(area), 40))
	want := map[string]int{
		"espanol":            7,
		"fisica":             5,
		"matematicas":        10,
		"literatura":         3,
		"geografia":          3,
		"biologia":           3,
		"quimica":            3,
		"historia_universal": 3,
		"historia_mexico":    3,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("allocation mismatch\n got: %v\nwant: %v", got, want)
	}
}

func TestAllocateArea1At80TrimsLightestFirst(t *testing.T) {
	cfg := DefaultConfig()
	area := cfg.Areas["area_1"]

	got := countsBySlug(Allocate(cfg.OrderedWeights(area), 80))
	want := map[string]int{
		"espanol":            12,
		"fisica":             11,
		"matematicas":        17,
		"literatura":         6,
		"geografia":          6,
		"biologia":           7,
		"quimica":            7,
		"historia_universal": 7,
		"historia_mexico":    7,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("allocation mismatch\n got: %v\nwant: %v", got, want)
	}
}

func TestAllocateFullSizeMatchesWeights(t *testing.T) {
	cfg := DefaultConfig()
	for areaID, area := range cfg.Areas {
		got := countsBySlug(Allocate(cfg.OrderedWeights(area), 120))
		if !reflect.DeepEqual(got, area.Weights) {
			t.Errorf("%s: full-size allocation should equal the weight table\n got: %v\nwant: %v", areaID, got, area.Weights)
		}
	}
}

func TestAllocatePreservesCanonicalOrder(t *testing.T) {
	cfg := DefaultConfig()
	area := cfg.Areas["area_4"]

	got := Allocate(cfg.OrderedWeights(area), 80)
	if len(got) != len(cfg.SubjectOrder) {
		t.Fatalf("expected %d subjects, got %d", len(cfg.SubjectOrder), len(got))
	}
	for i, c := range got {
		if c.Slug != cfg.SubjectOrder[i] {
			t.Errorf("position %d: got %s, want %s", i, c.Slug, cfg.SubjectOrder[i])
		}
	}
}

func TestAllocateTinyTargetKeepsFloorOfOne(t *testing.T) {
	weights := []SubjectWeight{
		{Slug: "a", Weight: 1},
		{Slug: "b", Weight: 1},
		{Slug: "c", Weight: 1},
	}
	got := Allocate(weights, 2)

	// With fewer slots than subjects the floor of one per subject wins
	// over the exact sum.
	if sum := sumCounts(got); sum != 3 {
		t.Errorf("expected overshoot to 3, got %d", sum)
	}
	for _, c := range got {
		if c.Count != 1 {
			t.Errorf("subject %s: got %d, want 1", c.Slug, c.Count)
		}
	}
}

func TestAllocateDegenerateInputs(t *testing.T) {
	if got := Allocate(nil, 40); got != nil {
		t.Errorf("nil weights: got %v, want nil", got)
	}
	if got := Allocate([]SubjectWeight{{Slug: "a", Weight: 10}}, 0); got != nil {
		t.Errorf("zero target: got %v, want nil", got)
	}
	if got := Allocate([]SubjectWeight{{Slug: "a", Weight: 0}}, 10); got != nil {
		t.Errorf("zero baseline: got %v, want nil", got)
	}
}

func TestAllocateDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	area := cfg.Areas["area_2"]

	first := Allocate(cfg.OrderedWeights(area), 80)
	second := Allocate(cfg.OrderedWeights(area), 80)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("allocation is not deterministic:\n%v\n%v", first, second)
	}
}
