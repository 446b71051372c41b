package entity

import "strings"

// Category is the normalized emergency-service category. It is derived once
// from the free-text type string when external data enters the store, so
// downstream logic never repeats string matching.
type Category int

const (
	CategoryOther Category = iota
	CategoryHospital
	CategoryFire
	CategoryEMS
	CategoryLawEnforcement
)

// String returns the human-readable category name.
func (c Category) String() string {
	switch c {
	case CategoryHospital:
		return "hospital"
	case CategoryFire:
		return "fire"
	case CategoryEMS:
		return "ems"
	case CategoryLawEnforcement:
		return "law_enforcement"
	default:
		return "other"
	}
}

// Classify maps a free-text service type to a Category.
// Matching is case-insensitive substring matching because source data words
// the same category inconsistently ("Hospital", "General Hospital",
// "hospital - trauma center"). Two differently-worded types for the same
// category are only unified through this function.
func Classify(serviceType string) Category {
	t := strings.ToLower(serviceType)

	switch {
	case strings.Contains(t, "hospital"):
		return CategoryHospital
	case strings.Contains(t, "fire"):
		return CategoryFire
	case strings.Contains(t, "ems"),
		strings.Contains(t, "ambulance"),
		strings.Contains(t, "emergency medical"):
		return CategoryEMS
	case strings.Contains(t, "police"),
		strings.Contains(t, "sheriff"),
		strings.Contains(t, "law enforcement"):
		return CategoryLawEnforcement
	default:
		return CategoryOther
	}
}
