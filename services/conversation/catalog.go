package conversation

// RoomCategory is a static catalog entry. Units are not actually
// decremented by a booking; the catalog is mock inventory.
type RoomCategory struct {
	Units int
	Price int // KES per night
}

// RoomCategories is the room inventory and pricing catalog.
var RoomCategories = map[string]RoomCategory{
	"regular":   {Units: 5, Price: 5000},
	"mid-size":  {Units: 3, Price: 8000},
	"penthouse": {Units: 1, Price: 15000},
}

// Button codes returned by the Twilio interactive templates.
var (
	MainOptions = map[string]string{
		"1": "bookings_and_availability",
		"2": "event_booking",
		"3": "outdoor_service",
	}
	RoomOptions = map[string]string{
		"101": "regular",
		"102": "mid-size",
		"103": "penthouse",
	}
	PackageOptions = map[string]string{
		"201": "package1",
		"202": "package2",
		"203": "custom",
	}
)

// Templates holds the content-template SIDs for the three interactive menus.
type Templates struct {
	MainMenu    string
	RoomMenu    string
	PackageMenu string
}
