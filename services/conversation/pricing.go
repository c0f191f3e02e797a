package conversation

import (
	"fmt"
	"math/rand"
	"strings"
)

// PriceAndAvailability looks up units and nightly price for a category.
// Unknown categories yield zero values.
func PriceAndAvailability(category string) (units, price int) {
	c, ok := RoomCategories[category]
	if !ok {
		return 0, 0
	}
	return c.Units, c.Price
}

// CorporatePackagePrice returns the per-person package total.
func CorporatePackagePrice(pkg string, people int) int {
	base := 2000
	if pkg == "package2" {
		base = 3500
	}
	return base * maxPeople(people)
}

// CustomPackageEstimate prices a custom corporate package from the guest's
// free-text notes.
func CustomPackageEstimate(people int, notes string) int {
	perPerson := 2800
	if strings.Contains(strings.ToLower(notes), "three meals") {
		perPerson = 3800
	}
	return perPerson * maxPeople(people)
}

// OutdoorDeposit returns the tiered reservation deposit.
func OutdoorDeposit(people int) int {
	switch {
	case people <= 20:
		return 10000
	case people <= 50:
		return 20000
	default:
		return 40000
	}
}

var roomPrefixes = map[string]string{
	"regular":   "R",
	"mid-size":  "M",
	"penthouse": "P",
}

// AssignRoomNumber is a mock allocator: category-prefixed letter plus a
// random three-digit number. Not unique, not persisted.
func AssignRoomNumber(category string) string {
	prefix, ok := roomPrefixes[category]
	if !ok {
		prefix = "R"
	}
	return fmt.Sprintf("%s%d", prefix, 100+rand.Intn(900))
}

func maxPeople(people int) int {
	if people < 1 {
		return 1
	}
	return people
}
