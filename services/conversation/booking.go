package conversation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"serenity/models"
)

// Flow A: room bookings & availability.

func (e *Engine) handleBookSelectCategory(ctx context.Context, s *models.Session, msg string) {
	cat := matchRoomCategory(msg)
	if cat == "" {
		e.say(ctx, s, msg, "They sent an invalid option. Ask them to choose a room category from the menu I will send.", nil)
		e.sendTemplate(ctx, s, e.Templates.RoomMenu)
		return
	}

	units, price := PriceAndAvailability(cat)
	s.Data.RoomCategory = cat
	s.Data.UnitsAvailable = units
	s.Data.Price = price

	s.Step = models.StepBookConfirmProceed
	e.say(ctx, s, msg,
		fmt.Sprintf("Tell the guest the selected category is %s with %d available units, and ask if they want to proceed (yes/no).", titleCase(cat), units),
		map[string]any{"category": titleCase(cat), "unitsAvailable": units})
}

func (e *Engine) handleBookConfirmProceed(ctx context.Context, s *models.Session, msg string) {
	switch {
	case IsAffirmative(msg):
		s.Step = models.StepBookAskMpesa
		e.say(ctx, s, msg,
			fmt.Sprintf("Tell the guest the price for %s is KES %s per night and ask them to enter their M-Pesa number in 07XXXXXXXX format.", titleCase(s.Data.RoomCategory), formatKES(s.Data.Price)),
			map[string]any{"category": titleCase(s.Data.RoomCategory), "price": formatKES(s.Data.Price)})

	case IsNegative(msg):
		s.Reset()
		e.say(ctx, s, msg, "Acknowledge and ask if they'd like anything else. Say you'll show the main menu now.", nil)
		e.sendTemplate(ctx, s, e.Templates.MainMenu)

	default:
		e.say(ctx, s, msg, "Ask them to reply yes to proceed or no to return to the main menu.", nil)
	}
}

func (e *Engine) handleBookAskMpesa(ctx context.Context, s *models.Session, msg string) {
	mpesa, ok := CanonicalMpesa(msg)
	if !ok {
		e.say(ctx, s, msg, "Tell them that number doesn't look valid and ask for the M-Pesa number in 07XXXXXXXX format.", nil)
		return
	}
	s.Data.MpesaNumber = mpesa

	s.Step = models.StepBookPaymentPrompt
	e.say(ctx, s, msg,
		fmt.Sprintf("Tell them you are initiating the M-Pesa prompt for KES %s and to reply 'paid' once they approve.", formatKES(s.Data.Price)),
		map[string]any{"amount": formatKES(s.Data.Price)})
}

func (e *Engine) handleBookPaymentPrompt(ctx context.Context, s *models.Session, msg string) {
	if !IsPaid(msg) {
		e.say(ctx, s, msg, "Remind them to reply 'paid' after approving the M-Pesa prompt.", nil)
		return
	}

	room := AssignRoomNumber(s.Data.RoomCategory)
	s.Data.RoomNumber = room
	ref := bookingRef()

	s.Reset()
	e.say(ctx, s, msg,
		fmt.Sprintf("Confirm payment received and share the assigned room number %s (booking reference %s). Thank them for choosing %s and say you'll show the main menu.", room, ref, e.HotelName),
		map[string]any{"roomNumber": room, "bookingRef": ref})
	e.sendTemplate(ctx, s, e.Templates.MainMenu)
}

// bookingRef is a short human-quotable reference for closing messages.
func bookingRef() string {
	return uuid.New().String()[:8]
}
