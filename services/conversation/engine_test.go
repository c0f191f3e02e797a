package conversation

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	sessionRepo "serenity/database/repository/session"
	"serenity/models"
	"serenity/services/intelligence"
)

const testSender = "whatsapp:+254700000001"

type fakeMessenger struct {
	texts     []string
	templates []string
}

func (m *fakeMessenger) SendText(_ context.Context, _, body string) error {
	m.texts = append(m.texts, body)
	return nil
}

func (m *fakeMessenger) SendTemplate(_ context.Context, _, sid string) error {
	m.templates = append(m.templates, sid)
	return nil
}

func (m *fakeMessenger) lastText() string {
	if len(m.texts) == 0 {
		return ""
	}
	return m.texts[len(m.texts)-1]
}

type fakeScheduler struct {
	payloads []models.ReminderPayload
}

func (s *fakeScheduler) ScheduleEventReminder(_ context.Context, p models.ReminderPayload) error {
	s.payloads = append(s.payloads, p)
	return nil
}

type stubLM struct {
	reply string
	err   error
}

func (s stubLM) GenerateContent(context.Context, string) (string, error) {
	return s.reply, s.err
}

func newTestEngine(t *testing.T) (*Engine, *fakeMessenger, *fakeScheduler) {
	t.Helper()
	m := &fakeMessenger{}
	sched := &fakeScheduler{}
	e := &Engine{
		Sessions:  sessionRepo.NewMemoryRepo(),
		Messenger: m,
		Composer:  &intelligence.DefaultComposer{Logger: zap.NewNop()}, // no LM: always falls back
		Calendar:  AlwaysOpen,
		Reminders: sched,
		Templates: Templates{MainMenu: "tmpl-main", RoomMenu: "tmpl-room", PackageMenu: "tmpl-pkg"},
		HotelName: "Serenity Hotel",
		Logger:    zap.NewNop(),
	}
	return e, m, sched
}

func drive(t *testing.T, e *Engine, inputs ...string) {
	t.Helper()
	for _, in := range inputs {
		require.NoError(t, e.HandleMessage(context.Background(), testSender, in))
	}
}

func currentSession(t *testing.T, e *Engine) *models.Session {
	t.Helper()
	sess, err := e.Sessions.Get(context.Background(), testSender)
	require.NoError(t, err)
	return sess
}

func TestRoomBookingFlowEndToEnd(t *testing.T) {
	e, m, _ := newTestEngine(t)

	drive(t, e, "hi")
	assert.Equal(t, []string{"tmpl-main"}, m.templates)

	drive(t, e, "1")
	assert.Equal(t, models.StepBookSelectCategory, currentSession(t, e).Step)
	assert.Equal(t, "tmpl-room", m.templates[len(m.templates)-1])

	drive(t, e, "101")
	sess := currentSession(t, e)
	assert.Equal(t, models.StepBookConfirmProceed, sess.Step)
	assert.Equal(t, "regular", sess.Data.RoomCategory)
	assert.Equal(t, 5, sess.Data.UnitsAvailable)
	assert.Equal(t, 5000, sess.Data.Price)

	drive(t, e, "yes")
	assert.Equal(t, models.StepBookAskMpesa, currentSession(t, e).Step)
	assert.Contains(t, m.lastText(), "5,000")

	drive(t, e, "0712345678")
	sess = currentSession(t, e)
	assert.Equal(t, models.StepBookPaymentPrompt, sess.Step)
	assert.Equal(t, "+254712345678", sess.Data.MpesaNumber)

	drive(t, e, "paid")
	sess = currentSession(t, e)
	assert.Equal(t, models.StepMainMenu, sess.Step)
	assert.Equal(t, models.SessionData{}, sess.Data)
	assert.Regexp(t, `R\d{3}`, m.lastText()) // room number confirmation
	assert.Equal(t, "tmpl-main", m.templates[len(m.templates)-1])
}

func TestBookingDeclineReturnsToMainMenu(t *testing.T) {
	e, m, _ := newTestEngine(t)

	drive(t, e, "1", "102", "no")
	sess := currentSession(t, e)
	assert.Equal(t, models.StepMainMenu, sess.Step)
	assert.Equal(t, models.SessionData{}, sess.Data)
	assert.Equal(t, "tmpl-main", m.templates[len(m.templates)-1])
}

func TestCorporateFlowEndToEnd(t *testing.T) {
	e, m, sched := newTestEngine(t)

	drive(t, e, "2")
	assert.Equal(t, models.StepCorpAskDate, currentSession(t, e).Step)

	drive(t, e, "2024-01-01")
	sess := currentSession(t, e)
	assert.Equal(t, models.StepCorpAskPeople, sess.Step)
	assert.Equal(t, "2024-01-01", sess.Data.Date)

	drive(t, e, "10")
	assert.Equal(t, models.StepCorpShowPackages, currentSession(t, e).Step)
	assert.Equal(t, "tmpl-pkg", m.templates[len(m.templates)-1])

	drive(t, e, "201")
	sess = currentSession(t, e)
	assert.Equal(t, models.StepCorpAskMpesa, sess.Step)
	assert.Equal(t, "package1", sess.Data.Package)
	assert.Equal(t, 20000, sess.Data.Amount)

	drive(t, e, "0712345678", "paid")
	sess = currentSession(t, e)
	assert.Equal(t, models.StepMainMenu, sess.Step)
	assert.Equal(t, models.SessionData{}, sess.Data)
	assert.Contains(t, m.lastText(), "2024-01-01") // event date echoed in closing

	require.Len(t, sched.payloads, 1)
	assert.Equal(t, "2024-01-01", sched.payloads[0].EventDate)
	assert.Equal(t, testSender, sched.payloads[0].WaID)
	assert.Equal(t, "package1", sched.payloads[0].Package)
}

func TestCorporateCustomPackage(t *testing.T) {
	e, _, _ := newTestEngine(t)

	drive(t, e, "2", "2024-05-05", "4", "203")
	assert.Equal(t, models.StepCorpCustomDetails, currentSession(t, e).Step)

	drive(t, e, "we need three meals and a projector")
	sess := currentSession(t, e)
	assert.Equal(t, models.StepCorpAskMpesa, sess.Step)
	assert.Equal(t, "custom", sess.Data.Package)
	assert.Equal(t, 4*3800, sess.Data.Amount)
	assert.Equal(t, "we need three meals and a projector", sess.Data.CustomNotes)
}

func TestOutdoorFlowEndToEnd(t *testing.T) {
	e, m, _ := newTestEngine(t)

	drive(t, e, "3")
	assert.Equal(t, models.StepOutdoorAskDateType, currentSession(t, e).Step)

	drive(t, e, "2024-02-02 pool party")
	sess := currentSession(t, e)
	assert.Equal(t, models.StepOutdoorAskPeople, sess.Step)
	assert.Equal(t, "2024-02-02", sess.Data.Date)
	assert.Equal(t, "pool party", sess.Data.OutdoorType)

	drive(t, e, "15")
	assert.Equal(t, models.StepOutdoorReserveOrAgent, currentSession(t, e).Step)

	drive(t, e, "reserve")
	sess = currentSession(t, e)
	assert.Equal(t, models.StepOutdoorPaymentMpesa, sess.Step)
	assert.Equal(t, 10000, sess.Data.Amount) // 15 people is the lowest deposit tier
	assert.Contains(t, m.lastText(), "10,000")

	drive(t, e, "0712345678", "paid")
	sess = currentSession(t, e)
	assert.Equal(t, models.StepMainMenu, sess.Step)
	assert.Equal(t, models.SessionData{}, sess.Data)
	assert.Contains(t, m.lastText(), "pool party")
	assert.Contains(t, m.lastText(), "2024-02-02")
}

func TestResetTokenFromEveryStep(t *testing.T) {
	for _, step := range models.AllSteps {
		t.Run(string(step), func(t *testing.T) {
			e, m, _ := newTestEngine(t)
			ctx := context.Background()

			sess := currentSession(t, e)
			sess.Step = step
			sess.Data = models.SessionData{RoomCategory: "regular", People: 9, Amount: 1234}
			require.NoError(t, e.Sessions.Save(ctx, sess))

			drive(t, e, "menu")
			sess = currentSession(t, e)
			assert.Equal(t, models.StepMainMenu, sess.Step)
			assert.Equal(t, models.SessionData{}, sess.Data)
			assert.Equal(t, "tmpl-main", m.templates[len(m.templates)-1])
		})
	}
}

func TestInvalidInputIsIdempotent(t *testing.T) {
	tests := []struct {
		step  models.Step
		data  models.SessionData
		input string
	}{
		{models.StepMainMenu, models.SessionData{}, "9"},
		{models.StepBookSelectCategory, models.SessionData{}, "104"},
		{models.StepBookConfirmProceed, models.SessionData{RoomCategory: "regular", Price: 5000}, "maybe"},
		{models.StepBookAskMpesa, models.SessionData{RoomCategory: "regular", Price: 5000}, "12345"},
		{models.StepBookPaymentPrompt, models.SessionData{RoomCategory: "regular", Price: 5000, MpesaNumber: "+254712345678"}, "pending"},
		{models.StepCorpAskDate, models.SessionData{}, "next tuesday"},
		{models.StepCorpAskPeople, models.SessionData{Date: "2024-01-01"}, "a few"},
		{models.StepCorpAskPeople, models.SessionData{Date: "2024-01-01"}, "0"},
		{models.StepCorpShowPackages, models.SessionData{Date: "2024-01-01", People: 10}, "205"},
		{models.StepCorpOfferReschedule, models.SessionData{Date: "2024-01-01"}, "perhaps"},
		{models.StepOutdoorAskDateType, models.SessionData{}, "pool party"},
		{models.StepOutdoorAskPeople, models.SessionData{Date: "2024-02-02", OutdoorType: "pool party"}, "-4"},
		{models.StepOutdoorPaymentMpesa, models.SessionData{Date: "2024-02-02", Amount: 10000}, "0812345678"},
		{models.StepOutdoorPaymentPrompt, models.SessionData{Date: "2024-02-02", Amount: 10000, MpesaNumber: "+254712345678"}, "waiting"},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("%s/%s", tc.step, tc.input), func(t *testing.T) {
			e, m, _ := newTestEngine(t)
			ctx := context.Background()

			sess := currentSession(t, e)
			sess.Step = tc.step
			sess.Data = tc.data
			require.NoError(t, e.Sessions.Save(ctx, sess))

			drive(t, e, tc.input)
			sess = currentSession(t, e)
			assert.Equal(t, tc.step, sess.Step, "step must not advance")
			assert.Equal(t, tc.data, sess.Data, "data must not change")
			assert.NotEmpty(t, m.lastText(), "a re-prompt must be sent")
		})
	}
}

func TestClosedCalendarOffersReschedule(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.Calendar = func(string) bool { return false }

	drive(t, e, "2", "2024-01-01")
	assert.Equal(t, models.StepCorpOfferReschedule, currentSession(t, e).Step)

	drive(t, e, "yes")
	assert.Equal(t, models.StepCorpAskDate, currentSession(t, e).Step)

	drive(t, e, "2024-01-02", "no")
	sess := currentSession(t, e)
	assert.Equal(t, models.StepMainMenu, sess.Step)
	assert.Equal(t, models.SessionData{}, sess.Data)
}

func TestClosedCalendarOutdoorReschedule(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.Calendar = func(string) bool { return false }

	drive(t, e, "3", "2024-02-02 garden lunch", "30")
	assert.Equal(t, models.StepOutdoorOfferReschedule, currentSession(t, e).Step)

	drive(t, e, "yes")
	assert.Equal(t, models.StepOutdoorAskDateType, currentSession(t, e).Step)
}

func TestUnknownStepRecoversToMainMenu(t *testing.T) {
	e, m, _ := newTestEngine(t)
	ctx := context.Background()

	sess := currentSession(t, e)
	sess.Step = models.Step("BOGUS_STEP")
	require.NoError(t, e.Sessions.Save(ctx, sess))

	drive(t, e, "anything")
	sess = currentSession(t, e)
	assert.Equal(t, models.StepMainMenu, sess.Step)
	assert.Equal(t, "tmpl-main", m.templates[len(m.templates)-1])
}

func TestStepsStayWithinEnumeration(t *testing.T) {
	e, _, _ := newTestEngine(t)
	inputs := []string{
		"hi", "1", "101", "yes", "0712345678", "paid",
		"2", "2024-01-01", "10", "202", "0712345678", "paid",
		"3", "2024-02-02 wedding", "60", "reserve", "0712345678", "paid",
		"garbage", "menu", "9", "banana",
	}
	for _, in := range inputs {
		drive(t, e, in)
		assert.True(t, currentSession(t, e).Step.Valid(), "after input %q", in)
	}
}

// The composer may reword output but never redirect state: a failing
// language model must leave transitions and session data identical to a
// succeeding one.
func TestComposerFailureDoesNotAffectTransitions(t *testing.T) {
	inputs := []string{"hi", "1", "101", "yes", "0712345678"}

	run := func(client intelligence.LMClient) (*models.Session, *fakeMessenger) {
		e, m, _ := newTestEngine(t)
		e.Composer = &intelligence.DefaultComposer{Client: client, HotelName: "Serenity Hotel", Logger: zap.NewNop()}
		drive(t, e, inputs...)
		return currentSession(t, e), m
	}

	okSess, okMsgs := run(stubLM{reply: `{"assistant_text":"Polished reply.","extracted":{}}`})
	failSess, failMsgs := run(stubLM{err: fmt.Errorf("rate limited")})

	assert.Equal(t, okSess.Step, failSess.Step)
	assert.Equal(t, okSess.Data, failSess.Data)
	require.Equal(t, len(okMsgs.texts), len(failMsgs.texts))
	assert.Equal(t, okMsgs.templates, failMsgs.templates)
	for _, text := range failMsgs.texts {
		assert.NotEmpty(t, text)
	}
}
