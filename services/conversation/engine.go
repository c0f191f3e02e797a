package conversation

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"serenity/database/repository/session"
	"serenity/models"
	"serenity/services/intelligence"
	"serenity/services/messaging"
)

// CalendarFunc reports whether a date is open for events. The trivial
// implementation is AlwaysOpen; production logic can be substituted
// without touching transition code.
type CalendarFunc func(date string) bool

// AlwaysOpen treats every date as available.
func AlwaysOpen(string) bool { return true }

// ReminderScheduler enqueues a pre-event reminder. Optional; a nil
// scheduler disables reminders.
type ReminderScheduler interface {
	ScheduleEventReminder(ctx context.Context, p models.ReminderPayload) error
}

// Engine is the conversation state machine. Given the current session and
// one inbound message it decides the next step, the session mutation and
// the outbound sends. Collaborator failures never surface to the guest:
// sends and composition degrade, transitions do not.
type Engine struct {
	Sessions  session.Repository
	Messenger messaging.Messenger
	Composer  intelligence.Composer
	Calendar  CalendarFunc
	Reminders ReminderScheduler
	Templates Templates
	HotelName string
	Logger    *zap.Logger
}

// HandleMessage runs one conversation turn for an inbound WhatsApp message.
// Turns for the same sender serialize on the repository's per-sender lock.
func (e *Engine) HandleMessage(ctx context.Context, from, raw string) error {
	msg := strings.TrimSpace(raw)

	unlock := e.Sessions.Lock(from)
	defer unlock()

	sess, err := e.Sessions.Get(ctx, from)
	if err != nil {
		return fmt.Errorf("load session for %s: %w", from, err)
	}

	// Greeting/reset tokens short-circuit every step.
	if IsReset(msg) {
		sess.Reset()
		e.say(ctx, sess, msg,
			fmt.Sprintf("Greet the guest and tell them they can pick a service from the main menu that I will now send. Mention %s by name.", e.HotelName), nil)
		e.sendTemplate(ctx, sess, e.Templates.MainMenu)
		return e.save(ctx, sess)
	}

	switch sess.Step {
	case models.StepMainMenu:
		e.handleMainMenu(ctx, sess, msg)

	case models.StepBookSelectCategory:
		e.handleBookSelectCategory(ctx, sess, msg)
	case models.StepBookConfirmProceed:
		e.handleBookConfirmProceed(ctx, sess, msg)
	case models.StepBookAskMpesa:
		e.handleBookAskMpesa(ctx, sess, msg)
	case models.StepBookPaymentPrompt:
		e.handleBookPaymentPrompt(ctx, sess, msg)

	case models.StepCorpAskDate:
		e.handleCorpAskDate(ctx, sess, msg)
	case models.StepCorpOfferReschedule:
		e.handleCorpOfferReschedule(ctx, sess, msg)
	case models.StepCorpAskPeople:
		e.handleCorpAskPeople(ctx, sess, msg)
	case models.StepCorpShowPackages:
		e.handleCorpShowPackages(ctx, sess, msg)
	case models.StepCorpCustomDetails:
		e.handleCorpCustomDetails(ctx, sess, msg)
	case models.StepCorpAskMpesa:
		e.handleCorpAskMpesa(ctx, sess, msg)
	case models.StepCorpPaymentPrompt:
		e.handleCorpPaymentPrompt(ctx, sess, msg)

	case models.StepOutdoorAskDateType:
		e.handleOutdoorAskDateType(ctx, sess, msg)
	case models.StepOutdoorAskPeople:
		e.handleOutdoorAskPeople(ctx, sess, msg)
	case models.StepOutdoorOfferReschedule:
		e.handleOutdoorOfferReschedule(ctx, sess, msg)
	case models.StepOutdoorReserveOrAgent:
		e.handleOutdoorReserveOrAgent(ctx, sess, msg)
	case models.StepOutdoorPaymentMpesa:
		e.handleOutdoorPaymentMpesa(ctx, sess, msg)
	case models.StepOutdoorPaymentPrompt:
		e.handleOutdoorPaymentPrompt(ctx, sess, msg)

	default:
		// Unreachable via normal transitions; recover by resetting.
		e.Logger.Warn("Session in unknown step, resetting",
			zap.String("waId", sess.WaID), zap.String("step", string(sess.Step)))
		sess.Reset()
		e.say(ctx, sess, msg,
			"Say you didn't quite catch that and invite them to pick from the main menu you will now send.", nil)
		e.sendTemplate(ctx, sess, e.Templates.MainMenu)
	}

	return e.save(ctx, sess)
}

func (e *Engine) save(ctx context.Context, sess *models.Session) error {
	if err := e.Sessions.Save(ctx, sess); err != nil {
		return fmt.Errorf("save session for %s: %w", sess.WaID, err)
	}
	return nil
}

// say composes one outbound sentence for the current step and sends it.
// Send failures are logged and swallowed; a missing reply is an accepted
// degraded outcome.
func (e *Engine) say(ctx context.Context, sess *models.Session, userMsg, instruction string, data map[string]any) {
	text := instruction
	if e.Composer != nil {
		text = e.Composer.Compose(ctx, models.ComposeRequest{
			Step:        sess.Step,
			Session:     sess,
			UserMessage: userMsg,
			DevMessage:  instruction,
			Data:        data,
		})
	}
	if err := e.Messenger.SendText(ctx, sess.WaID, text); err != nil {
		e.Logger.Error("Failed to send text", zap.String("to", sess.WaID), zap.Error(err))
	}
}

func (e *Engine) sendTemplate(ctx context.Context, sess *models.Session, templateSID string) {
	if err := e.Messenger.SendTemplate(ctx, sess.WaID, templateSID); err != nil {
		e.Logger.Error("Failed to send template",
			zap.String("to", sess.WaID), zap.String("template", templateSID), zap.Error(err))
	}
}

func (e *Engine) dateOpen(date string) bool {
	if e.Calendar == nil {
		return true
	}
	return e.Calendar(date)
}

// handleMainMenu routes the three service flows: exact button code first,
// then the keyword heuristic, else re-show the main menu.
func (e *Engine) handleMainMenu(ctx context.Context, s *models.Session, msg string) {
	switch matchMainIntent(msg) {
	case "bookings_and_availability":
		s.Step = models.StepBookSelectCategory
		e.say(ctx, s, msg, "Ask the guest to choose a room category from the menu I will send now. Keep it to one friendly sentence.", nil)
		e.sendTemplate(ctx, s, e.Templates.RoomMenu)

	case "event_booking":
		s.Step = models.StepCorpAskDate
		e.say(ctx, s, msg, "Ask for the event/conference date in YYYY-MM-DD format.", nil)

	case "outdoor_service":
		s.Step = models.StepOutdoorAskDateType
		e.say(ctx, s, msg, "Ask for the date (YYYY-MM-DD) and the type of outdoor event (e.g., garden lunch, pool party).", nil)

	default:
		e.say(ctx, s, msg, "Briefly explain you can help with room bookings, corporate events, or outdoor services, and ask them to pick from the main menu I will send.", nil)
		e.sendTemplate(ctx, s, e.Templates.MainMenu)
	}
}
