package models

// ReminderPayload is the asynq task payload for an event reminder.
type ReminderPayload struct {
	BookingRef string `json:"bookingRef"`
	WaID       string `json:"waId"`
	EventDate  string `json:"eventDate"` // YYYY-MM-DD
	Package    string `json:"package,omitempty"`
	Amount     int    `json:"amount,omitempty"`
}
