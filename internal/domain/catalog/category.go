package catalog

// Category is the kind of a bookable Service.
type Category string

const (
	CategoryWalking    Category = "walking"
	CategoryBoarding   Category = "boarding"
	CategoryTraining   Category = "training"
	CategoryGrooming   Category = "grooming"
	CategoryPetSitting Category = "pet_sitting"
	CategoryOther      Category = "other"
)

var categories = []Category{
	CategoryWalking,
	CategoryBoarding,
	CategoryTraining,
	CategoryGrooming,
	CategoryPetSitting,
	CategoryOther,
}

func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func IsValidCategory(s string) bool {
	for _, c := range categories {
		if string(c) == s {
			return true
		}
	}
	return false
}

// RequiresEndDate reports whether bookings of this category span a date range.
// Only boarding does; pet sitting is booked per visit like walking.
func RequiresEndDate(c Category) bool {
	return c == CategoryBoarding
}
