package conversation

import (
	"context"
	"fmt"
	"strconv"

	"serenity/models"
)

// Flow C: outdoor services.

func (e *Engine) handleOutdoorAskDateType(ctx context.Context, s *models.Session, msg string) {
	date, ok := ExtractDate(msg)
	if !ok {
		e.say(ctx, s, msg, "Ask them to provide the date first in YYYY-MM-DD format and mention the outdoor event type.", nil)
		return
	}
	s.Data.Date = date
	s.Data.OutdoorType = ClassifyOutdoorEvent(msg)

	s.Step = models.StepOutdoorAskPeople
	e.say(ctx, s, msg, "Acknowledge and ask how many people will be catered for.", nil)
}

func (e *Engine) handleOutdoorAskPeople(ctx context.Context, s *models.Session, msg string) {
	num, err := strconv.Atoi(msg)
	if err != nil || num < 1 {
		e.say(ctx, s, msg, "Ask for a valid number of people.", nil)
		return
	}
	s.Data.People = num

	if !e.dateOpen(s.Data.Date) {
		s.Step = models.StepOutdoorOfferReschedule
		e.say(ctx, s, msg,
			fmt.Sprintf("Inform them %s is booked and ask if they'd like to reschedule (yes/no).", s.Data.Date), nil)
		return
	}

	s.Step = models.StepOutdoorReserveOrAgent
	e.say(ctx, s, msg,
		fmt.Sprintf("Tell them %s is available for a %s and ask them to reply 'reserve' to set a reservation.", s.Data.Date, s.Data.OutdoorType), nil)
}

func (e *Engine) handleOutdoorOfferReschedule(ctx context.Context, s *models.Session, msg string) {
	switch {
	case IsAffirmative(msg):
		s.Step = models.StepOutdoorAskDateType
		e.say(ctx, s, msg, "Ask for the new date (YYYY-MM-DD) and the event type.", nil)

	case IsNegative(msg):
		s.Reset()
		e.say(ctx, s, msg, "Acknowledge and say you'll show the main menu.", nil)
		e.sendTemplate(ctx, s, e.Templates.MainMenu)

	default:
		e.say(ctx, s, msg, "Ask them to reply yes to reschedule or no to return to the main menu.", nil)
	}
}

func (e *Engine) handleOutdoorReserveOrAgent(ctx context.Context, s *models.Session, msg string) {
	if !equalsAny(msg, []string{"reserve", "yes"}) {
		s.Reset()
		e.say(ctx, s, msg, "Acknowledge and say you'll return to the main menu.", nil)
		e.sendTemplate(ctx, s, e.Templates.MainMenu)
		return
	}

	s.Data.Amount = OutdoorDeposit(s.Data.People)
	s.Step = models.StepOutdoorPaymentMpesa
	e.say(ctx, s, msg,
		fmt.Sprintf("Explain a deposit of KES %s is required to secure the reservation and ask for the M-Pesa number (07XXXXXXXX).", formatKES(s.Data.Amount)),
		map[string]any{"deposit": formatKES(s.Data.Amount)})
}

func (e *Engine) handleOutdoorPaymentMpesa(ctx context.Context, s *models.Session, msg string) {
	mpesa, ok := CanonicalMpesa(msg)
	if !ok {
		e.say(ctx, s, msg, "Tell them that doesn't look like a valid M-Pesa number and ask again in 07XXXXXXXX format.", nil)
		return
	}
	s.Data.MpesaNumber = mpesa

	s.Step = models.StepOutdoorPaymentPrompt
	e.say(ctx, s, msg,
		fmt.Sprintf("Tell them you are initiating the M-Pesa prompt for the deposit of KES %s and to reply 'paid' once they approve.", formatKES(s.Data.Amount)),
		map[string]any{"deposit": formatKES(s.Data.Amount)})
}

func (e *Engine) handleOutdoorPaymentPrompt(ctx context.Context, s *models.Session, msg string) {
	if !IsPaid(msg) {
		e.say(ctx, s, msg, "Remind them to reply 'paid' after approving the M-Pesa prompt.", nil)
		return
	}

	outdoorType, eventDate := s.Data.OutdoorType, s.Data.Date
	s.Reset()
	e.say(ctx, s, msg,
		fmt.Sprintf("Confirm deposit received and say you will connect them to an agent to capture details for their %s on %s. Thank them for choosing %s and say you'll show the main menu.", outdoorType, eventDate, e.HotelName), nil)
	e.sendTemplate(ctx, s, e.Templates.MainMenu)
}
