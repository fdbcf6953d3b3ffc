package enums

import "fmt"

// EventCategory classifies the kind of event a brief describes.
type EventCategory string

const (
	EventCategoryWedding    EventCategory = "wedding"
	EventCategoryBirthday   EventCategory = "birthday"
	EventCategoryConference EventCategory = "conference"
	EventCategoryConcert    EventCategory = "concert"
	EventCategoryFuneral    EventCategory = "funeral"
	EventCategoryOther      EventCategory = "other"
)

var validEventCategories = []EventCategory{
	EventCategoryWedding,
	EventCategoryBirthday,
	EventCategoryConference,
	EventCategoryConcert,
	EventCategoryFuneral,
	EventCategoryOther,
}

// String implements fmt.Stringer.
func (e EventCategory) String() string {
	return string(e)
}

// IsValid reports whether the value is a known EventCategory.
func (e EventCategory) IsValid() bool {
	for _, candidate := range validEventCategories {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEventCategory converts raw input into an EventCategory.
func ParseEventCategory(value string) (EventCategory, error) {
	for _, candidate := range validEventCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event category %q", value)
}
