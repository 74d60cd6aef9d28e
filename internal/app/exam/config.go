package exam

// Area is one exam track with its per-subject question weights. The
// weights of an area sum to the nominal full-exam size (120 questions).
type Area struct {
	Name    string
	Color   string
	Weights map[string]int // subject slug -> weight
}

// Config is the immutable exam configuration: the area weight tables
// plus the canonical subject display order. It is injected into the
// allocator and selector at call time so tests can substitute their own
// tables.
type Config struct {
	Areas        map[string]Area
	SubjectOrder []string
}

type SubjectWeight struct {
	Slug   string
	Weight int
}

type SubjectCount struct {
	Slug  string
	Count int
}

// Area returns the configuration for an area ID.
func (c *Config) Area(id string) (Area, bool) {
	a, ok := c.Areas[id]
	return a, ok
}

// OrderedWeights lists an area's subject weights in canonical order.
// Subjects absent from the area are skipped.
func (c *Config) OrderedWeights(a Area) []SubjectWeight {
	out := make([]SubjectWeight, 0, len(a.Weights))
	for _, slug := range c.SubjectOrder {
		if w, ok := a.Weights[slug]; ok {
			out = append(out, SubjectWeight{Slug: slug, Weight: w})
		}
	}
	return out
}

const (
	ExamDurationMinutes = 180
	TotalQuestions      = 120
)

// ValidQuestionCount reports whether a requested exam size is one of
// the supported sizes.
func ValidQuestionCount(n int) bool {
	return n == 40 || n == 80 || n == 120
}

// DefaultConfig returns the UNAM admission exam configuration.
func DefaultConfig() *Config {
	return &Config{
		SubjectOrder: []string{
			"espanol", "fisica", "matematicas", "literatura", "geografia",
			"biologia", "quimica", "historia_universal", "historia_mexico", "filosofia",
		},
		Areas: map[string]Area{
			"area_1": {
				Name:  "Ciencias Físico-Matemáticas e Ingenierías",
				Color: "#3B82F6",
				Weights: map[string]int{
					"espanol": 18, "matematicas": 26, "fisica": 16,
					"literatura": 10, "geografia": 10, "biologia": 10,
					"quimica": 10, "historia_universal": 10, "historia_mexico": 10,
				},
			},
			"area_2": {
				Name:  "Ciencias Biológicas, Químicas y de la Salud",
				Color: "#10B981",
				Weights: map[string]int{
					"espanol": 18, "matematicas": 24, "fisica": 12,
					"biologia": 13, "quimica": 13, "literatura": 10,
					"geografia": 10, "historia_universal": 10, "historia_mexico": 10,
				},
			},
			"area_3": {
				Name:  "Ciencias Sociales",
				Color: "#F59E0B",
				Weights: map[string]int{
					"espanol": 18, "matematicas": 24, "fisica": 10,
					"biologia": 10, "quimica": 10, "literatura": 10,
					"geografia": 10, "historia_universal": 14, "historia_mexico": 14,
				},
			},
			"area_4": {
				Name:  "Humanidades y Artes",
				Color: "#EF4444",
				Weights: map[string]int{
					"espanol": 18, "matematicas": 22, "fisica": 10,
					"biologia": 10, "quimica": 10, "literatura": 10,
					"geografia": 10, "historia_universal": 10, "historia_mexico": 10,
					"filosofia": 10,
				},
			},
		},
	}
}
