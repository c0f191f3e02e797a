package conversation

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"serenity/models"
)

// Flow B: corporate & event bookings.

func (e *Engine) handleCorpAskDate(ctx context.Context, s *models.Session, msg string) {
	date, ok := ExtractDate(msg)
	if !ok {
		e.say(ctx, s, msg, "Ask them again for a valid date in YYYY-MM-DD format.", nil)
		return
	}
	s.Data.Date = date

	if !e.dateOpen(date) {
		s.Step = models.StepCorpOfferReschedule
		e.say(ctx, s, msg,
			fmt.Sprintf("Inform them %s is fully booked and ask if they'd like to reschedule (yes/no).", date), nil)
		return
	}

	s.Step = models.StepCorpAskPeople
	e.say(ctx, s, msg,
		fmt.Sprintf("Confirm %s is open and ask how many people are expected.", date), nil)
}

func (e *Engine) handleCorpOfferReschedule(ctx context.Context, s *models.Session, msg string) {
	switch {
	case IsAffirmative(msg):
		s.Step = models.StepCorpAskDate
		e.say(ctx, s, msg, "Ask for an alternative date in YYYY-MM-DD format.", nil)

	case IsNegative(msg):
		s.Reset()
		e.say(ctx, s, msg, "Acknowledge and say you'll show the main menu.", nil)
		e.sendTemplate(ctx, s, e.Templates.MainMenu)

	default:
		e.say(ctx, s, msg, "Ask them to reply yes to reschedule or no to return to main menu.", nil)
	}
}

func (e *Engine) handleCorpAskPeople(ctx context.Context, s *models.Session, msg string) {
	num, err := strconv.Atoi(msg)
	if err != nil || num < 1 {
		e.say(ctx, s, msg, "Ask for a valid number of people.", nil)
		return
	}
	s.Data.People = num

	s.Step = models.StepCorpShowPackages
	e.say(ctx, s, msg, "Briefly list Package 1, Package 2, and Custom, and ask them to choose from the package menu I will send now.", nil)
	e.sendTemplate(ctx, s, e.Templates.PackageMenu)
}

func (e *Engine) handleCorpShowPackages(ctx context.Context, s *models.Session, msg string) {
	switch pick := PackageOptions[msg]; pick {
	case "package1", "package2":
		s.Data.Package = pick
		s.Data.Amount = CorporatePackagePrice(pick, s.Data.People)
		s.Step = models.StepCorpAskMpesa
		e.say(ctx, s, msg,
			fmt.Sprintf("Acknowledge they chose %s, share the total of KES %s, and ask for their M-Pesa number in 07XXXXXXXX format.", pick, formatKES(s.Data.Amount)),
			map[string]any{"package": pick, "total": formatKES(s.Data.Amount)})

	case "custom":
		s.Data.Package = "custom"
		s.Step = models.StepCorpCustomDetails
		e.say(ctx, s, msg, "Ask them to describe what they would like (meals, AV, snacks, duration, etc.).", nil)

	default:
		e.say(ctx, s, msg, "Ask them to tap one of the package options from the menu I will send.", nil)
		e.sendTemplate(ctx, s, e.Templates.PackageMenu)
	}
}

func (e *Engine) handleCorpCustomDetails(ctx context.Context, s *models.Session, msg string) {
	s.Data.CustomNotes = msg
	s.Data.Amount = CustomPackageEstimate(s.Data.People, msg)

	s.Step = models.StepCorpAskMpesa
	e.say(ctx, s, msg,
		fmt.Sprintf("Confirm a custom package is prepared, share the estimated total of KES %s, and ask for the M-Pesa number (07XXXXXXXX).", formatKES(s.Data.Amount)),
		map[string]any{"estimate": formatKES(s.Data.Amount)})
}

func (e *Engine) handleCorpAskMpesa(ctx context.Context, s *models.Session, msg string) {
	mpesa, ok := CanonicalMpesa(msg)
	if !ok {
		e.say(ctx, s, msg, "Tell them the number seems invalid and ask for the M-Pesa number in 07XXXXXXXX format.", nil)
		return
	}
	s.Data.MpesaNumber = mpesa

	s.Step = models.StepCorpPaymentPrompt
	e.say(ctx, s, msg,
		fmt.Sprintf("Tell them you are initiating the M-Pesa prompt for KES %s and ask them to reply 'paid' after approval.", formatKES(s.Data.Amount)),
		map[string]any{"total": formatKES(s.Data.Amount)})
}

func (e *Engine) handleCorpPaymentPrompt(ctx context.Context, s *models.Session, msg string) {
	if !IsPaid(msg) {
		e.say(ctx, s, msg, "Remind them to reply 'paid' after approving the M-Pesa prompt.", nil)
		return
	}

	eventDate := s.Data.Date
	ref := bookingRef()
	e.scheduleReminder(ctx, models.ReminderPayload{
		BookingRef: ref,
		WaID:       s.WaID,
		EventDate:  eventDate,
		Package:    s.Data.Package,
		Amount:     s.Data.Amount,
	})

	s.Reset()
	e.say(ctx, s, msg,
		fmt.Sprintf("Confirm payment received and that their event is booked for %s (reference %s). Mention we'll send a reminder ahead of time. Thank them and say you'll show the main menu.", eventDate, ref), nil)
	e.sendTemplate(ctx, s, e.Templates.MainMenu)
}

// scheduleReminder is best-effort; a failed enqueue never blocks the
// confirmation.
func (e *Engine) scheduleReminder(ctx context.Context, p models.ReminderPayload) {
	if e.Reminders == nil {
		return
	}
	if err := e.Reminders.ScheduleEventReminder(ctx, p); err != nil {
		e.Logger.Error("Failed to schedule event reminder",
			zap.String("waId", p.WaID), zap.String("eventDate", p.EventDate), zap.Error(err))
	}
}
