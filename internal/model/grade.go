package model

import "strings"

// Category groups grades by their code prefix.
type Category string

const (
	CategoryLUBPAA Category = "LUBPAA"
	CategoryLWBP   Category = "LWBP"
	CategoryLWSD   Category = "LWSD"
	CategoryLWYC   Category = "LWYC"
	CategoryOther  Category = "Other"
)

// Categories in display order.
var Categories = []Category{CategoryLUBPAA, CategoryLWBP, CategoryLWSD, CategoryLWYC, CategoryOther}

// KnownGrades is the grade list used by the entry form and the batch range query.
var KnownGrades = []string{
	"LUBPAA1", "LUBPAA2", "LUBPAA3", "LUBPAA4", "LUBPAA5",
	"LWBP1", "LWBP2", "LWBP3", "LWBP4",
	"LWSD1", "LWSD2", "LWSD3", "LWSD4",
	"LWYC1", "LWYC2", "LWYC3", "LWYC4",
}

// CategoryOf returns the category of a grade code. LUBPAA is checked before
// the shorter prefixes.
func CategoryOf(grade string) Category {
	for _, c := range Categories[:4] {
		if strings.HasPrefix(grade, string(c)) {
			return c
		}
	}
	return CategoryOther
}

// Name returns the display name of the category.
func (c Category) Name() string {
	switch c {
	case CategoryLUBPAA:
		return "Premium Arabica"
	case CategoryLWBP:
		return "Washed Arabica"
	case CategoryLWSD:
		return "Semi-Dry Arabica"
	case CategoryLWYC:
		return "Yellow Cherry"
	default:
		return string(c)
	}
}

// Description returns a short description of the category.
func (c Category) Description() string {
	switch c {
	case CategoryLUBPAA:
		return "Highest quality arabica beans"
	case CategoryLWBP:
		return "Washed process arabica"
	case CategoryLWSD:
		return "Semi-dry process arabica"
	case CategoryLWYC:
		return "Yellow cherry arabica"
	default:
		return "Other coffee grades"
	}
}
