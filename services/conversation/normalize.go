package conversation

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	yesTokens   = []string{"yes", "y", "yeah", "proceed", "ok", "okay", "sure"}
	noTokens    = []string{"no", "n", "nope", "back", "cancel"}
	resetTokens = []string{"menu", "main", "hi", "hello", "start", "hey"}
	paidTokens  = []string{"paid", "done", "confirmed"}

	isoDateRe  = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	nonDigitRe = regexp.MustCompile(`\D`)
)

func equalsAny(s string, tokens []string) bool {
	low := strings.ToLower(strings.TrimSpace(s))
	for _, t := range tokens {
		if low == t {
			return true
		}
	}
	return false
}

// IsAffirmative reports an exact-match yes token.
func IsAffirmative(s string) bool { return equalsAny(s, yesTokens) }

// IsNegative reports an exact-match no token.
func IsNegative(s string) bool { return equalsAny(s, noTokens) }

// IsReset reports a greeting/reset token that short-circuits any step.
func IsReset(s string) bool { return equalsAny(s, resetTokens) }

// IsPaid reports a payment confirmation token.
func IsPaid(s string) bool { return equalsAny(s, paidTokens) }

// CanonicalMpesa normalizes a Kenyan mobile number for payment collection.
// Accepts "07XXXXXXXX", "7XXXXXXXX", "+2547XXXXXXXX" or "2547XXXXXXXX";
// anything else fails and the caller re-prompts.
func CanonicalMpesa(s string) (string, bool) {
	digits := nonDigitRe.ReplaceAllString(s, "")
	switch {
	case len(digits) == 9 && strings.HasPrefix(digits, "7"):
		return "+254" + digits, true
	case len(digits) == 10 && strings.HasPrefix(digits, "07"):
		return "+254" + digits[1:], true
	case (len(digits) == 12 || len(digits) == 13) && strings.HasPrefix(digits, "2547"):
		return "+" + digits, true
	}
	return "", false
}

// ExtractDate returns the first YYYY-MM-DD substring in the message.
func ExtractDate(s string) (string, bool) {
	if m := isoDateRe.FindString(s); m != "" {
		return m, true
	}
	return "", false
}

// ClassifyOutdoorEvent maps free text to an outdoor event category.
// First match wins; order is significant.
func ClassifyOutdoorEvent(text string) string {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "pool"):
		return "pool party"
	case strings.Contains(t, "garden"):
		return "garden event"
	case strings.Contains(t, "lunch"):
		return "outdoor lunch"
	case strings.Contains(t, "wedding"):
		return "outdoor wedding"
	default:
		return "outdoor event"
	}
}

// matchMainIntent resolves a main-menu choice: exact button code first,
// then a light keyword heuristic so typed words work too.
func matchMainIntent(msg string) string {
	if choice, ok := MainOptions[msg]; ok {
		return choice
	}
	low := strings.ToLower(msg)
	switch {
	case containsAny(low, "book", "room", "availability"):
		return "bookings_and_availability"
	case containsAny(low, "event", "conference", "corporate", "meeting"):
		return "event_booking"
	case containsAny(low, "outdoor", "garden", "pool", "wedding", "lunch"):
		return "outdoor_service"
	}
	return ""
}

// matchRoomCategory resolves a room selection: exact button code first,
// then keywords.
func matchRoomCategory(msg string) string {
	if cat, ok := RoomOptions[msg]; ok {
		return cat
	}
	low := strings.ToLower(msg)
	switch {
	case containsAny(low, "regular", "standard"):
		return "regular"
	case containsAny(low, "mid", "midsize"):
		return "mid-size"
	case containsAny(low, "penthouse", "suite", "premium"):
		return "penthouse"
	}
	return ""
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// titleCase renders "mid-size" as "Mid-Size" for guest-facing text.
func titleCase(s string) string {
	parts := strings.Split(s, "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "-")
}

// formatKES groups thousands with commas, e.g. 15000 -> "15,000".
func formatKES(n int) string {
	if n < 0 {
		return "-" + formatKES(-n)
	}
	s := strconv.Itoa(n)
	var sb strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
