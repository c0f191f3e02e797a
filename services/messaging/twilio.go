package messaging

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// TwilioMessenger delivers text and content-template messages over the
// Twilio WhatsApp API.
type TwilioMessenger struct {
	client *twilio.RestClient
	from   string // e.g. "whatsapp:+14155238886"
	logger *zap.Logger
}

func NewTwilioMessenger(accountSID, authToken, from string, logger *zap.Logger) (*TwilioMessenger, error) {
	if accountSID == "" || authToken == "" {
		return nil, fmt.Errorf("twilio: missing account SID or auth token")
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioMessenger{client: client, from: from, logger: logger}, nil
}

// SendText sends a plain WhatsApp text message. The Twilio SDK manages its
// own HTTP timeouts; ctx is accepted for interface symmetry.
func (m *TwilioMessenger) SendText(_ context.Context, to, body string) error {
	params := &openapi.CreateMessageParams{}
	params.SetFrom(m.from)
	params.SetTo(to)
	params.SetBody(body)

	msg, err := m.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send text: %w", err)
	}
	if msg.Sid != nil {
		m.logger.Info("Text sent", zap.String("to", to), zap.String("sid", *msg.Sid))
	}
	return nil
}

// SendTemplate sends an interactive content template by SID.
func (m *TwilioMessenger) SendTemplate(_ context.Context, to, templateSID string) error {
	params := &openapi.CreateMessageParams{}
	params.SetFrom(m.from)
	params.SetTo(to)
	params.SetContentSid(templateSID)

	msg, err := m.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send template: %w", err)
	}
	if msg.Sid != nil {
		m.logger.Info("Template sent", zap.String("to", to), zap.String("template", templateSID), zap.String("sid", *msg.Sid))
	}
	return nil
}
