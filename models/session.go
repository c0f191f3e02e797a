package models

// Step is a node in the conversation state machine.
type Step string

const (
	StepMainMenu Step = "MAIN_MENU"

	// Flow A: room bookings & availability.
	StepBookSelectCategory Step = "BOOK_SELECT_CATEGORY"
	StepBookConfirmProceed Step = "BOOK_CONFIRM_PROCEED"
	StepBookAskMpesa       Step = "BOOK_ASK_MPESA"
	StepBookPaymentPrompt  Step = "BOOK_PAYMENT_PROMPT"

	// Flow B: corporate & event bookings.
	StepCorpAskDate         Step = "CORP_ASK_DATE"
	StepCorpOfferReschedule Step = "CORP_OFFER_RESCHEDULE"
	StepCorpAskPeople       Step = "CORP_ASK_PEOPLE"
	StepCorpShowPackages    Step = "CORP_SHOW_PACKAGES"
	StepCorpCustomDetails   Step = "CORP_CUSTOM_DETAILS"
	StepCorpAskMpesa        Step = "CORP_ASK_MPESA"
	StepCorpPaymentPrompt   Step = "CORP_PAYMENT_PROMPT"

	// Flow C: outdoor services.
	StepOutdoorAskDateType     Step = "OUTDOOR_ASK_DATE_TYPE"
	StepOutdoorAskPeople       Step = "OUTDOOR_ASK_PEOPLE"
	StepOutdoorOfferReschedule Step = "OUTDOOR_OFFER_RESCHEDULE"
	StepOutdoorReserveOrAgent  Step = "OUTDOOR_RESERVE_OR_AGENT"
	StepOutdoorPaymentMpesa    Step = "OUTDOOR_PAYMENT_MPESA"
	StepOutdoorPaymentPrompt   Step = "OUTDOOR_PAYMENT_PROMPT"
)

// AllSteps lists every node of the state machine.
var AllSteps = []Step{
	StepMainMenu,
	StepBookSelectCategory,
	StepBookConfirmProceed,
	StepBookAskMpesa,
	StepBookPaymentPrompt,
	StepCorpAskDate,
	StepCorpOfferReschedule,
	StepCorpAskPeople,
	StepCorpShowPackages,
	StepCorpCustomDetails,
	StepCorpAskMpesa,
	StepCorpPaymentPrompt,
	StepOutdoorAskDateType,
	StepOutdoorAskPeople,
	StepOutdoorOfferReschedule,
	StepOutdoorReserveOrAgent,
	StepOutdoorPaymentMpesa,
	StepOutdoorPaymentPrompt,
}

// Valid reports whether s belongs to the fixed step enumeration.
func (s Step) Valid() bool {
	for _, known := range AllSteps {
		if s == known {
			return true
		}
	}
	return false
}

// SessionData holds the fields accumulated along one booking attempt.
// Each field is written only by the step that produces it; the whole
// struct is cleared when the session resets to the main menu.
type SessionData struct {
	RoomCategory   string `json:"roomCategory,omitempty"`
	UnitsAvailable int    `json:"unitsAvailable,omitempty"`
	Price          int    `json:"price,omitempty"`
	MpesaNumber    string `json:"mpesaNumber,omitempty"`
	RoomNumber     string `json:"roomNumber,omitempty"`
	Date           string `json:"date,omitempty"`
	People         int    `json:"people,omitempty"`
	Package        string `json:"package,omitempty"`
	Amount         int    `json:"amount,omitempty"`
	CustomNotes    string `json:"customNotes,omitempty"`
	OutdoorType    string `json:"outdoorType,omitempty"`
}

// Session is the per-sender conversation record.
type Session struct {
	WaID string      `json:"waId"`
	Step Step        `json:"step"`
	Data SessionData `json:"data"`
}

// NewSession returns a fresh session positioned at the main menu.
func NewSession(waID string) *Session {
	return &Session{WaID: waID, Step: StepMainMenu}
}

// Reset returns the session to the main menu and clears accumulated data.
func (s *Session) Reset() {
	s.Step = StepMainMenu
	s.Data = SessionData{}
}
