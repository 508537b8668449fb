package grades

import (
	"fmt"
	"strings"

	"coffeerange/internal/apperrors"
	"coffeerange/internal/model"
)

// Set is the recognised grade list. In strict mode grades outside the list are
// rejected; otherwise any non-empty code is accepted.
type Set struct {
	list   []string
	known  map[string]struct{}
	strict bool
}

// NewSet builds a Set. An empty list falls back to model.KnownGrades.
func NewSet(list []string, strict bool) *Set {
	if len(list) == 0 {
		list = model.KnownGrades
	}

	known := make(map[string]struct{}, len(list))
	normalized := make([]string, 0, len(list))
	for _, g := range list {
		g = Normalize(g)
		if _, ok := known[g]; ok || g == "" {
			continue
		}
		known[g] = struct{}{}
		normalized = append(normalized, g)
	}

	return &Set{list: normalized, known: known, strict: strict}
}

// Normalize trims and upper-cases a grade code.
func Normalize(grade string) string {
	return strings.ToUpper(strings.TrimSpace(grade))
}

// List returns the configured grades in their configured order.
func (that *Set) List() []string {
	out := make([]string, len(that.list))
	copy(out, that.list)
	return out
}

func (that *Set) Strict() bool {
	return that.strict
}

func (that *Set) Contains(grade string) bool {
	_, ok := that.known[Normalize(grade)]
	return ok
}

// Check returns the normalized grade, or ErrUnknownGrade.
func (that *Set) Check(grade string) (string, error) {
	g := Normalize(grade)
	if g == "" {
		return "", fmt.Errorf("empty grade: %w", apperrors.ErrUnknownGrade)
	}

	if that.strict && !that.Contains(g) {
		return "", fmt.Errorf("grade %q: %w", g, apperrors.ErrUnknownGrade)
	}

	return g, nil
}

// GroupByCategory groups grades by category, keeping the input order inside each group.
func GroupByCategory(list []string) map[model.Category][]string {
	groups := make(map[model.Category][]string)
	for _, g := range list {
		c := model.CategoryOf(g)
		groups[c] = append(groups[c], g)
	}
	return groups
}
