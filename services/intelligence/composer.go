// File: services/intelligence/composer.go
package intelligence

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"serenity/models"
)

const fallbackText = "Thanks — let's continue."

// DefaultComposer phrases one WhatsApp reply per turn through the language
// model, with a bounded wait and a deterministic fallback. All failures are
// logged and swallowed here so the conversation proceeds unaffected.
type DefaultComposer struct {
	Client    LMClient        // nil means always fall back
	Log       *InteractionLog // optional
	HotelName string
	Timeout   time.Duration
	Logger    *zap.Logger
}

func (c *DefaultComposer) Compose(ctx context.Context, req models.ComposeRequest) string {
	fallback := strings.TrimSpace(req.DevMessage)
	if fallback == "" {
		fallback = fallbackText
	}

	reply, err := c.generate(ctx, req)
	if err != nil {
		c.Logger.Warn("Reply composition failed, using fallback",
			zap.String("step", string(req.Step)), zap.Error(err))
		reply = models.AIReply{AssistantText: fallback}
	}
	if strings.TrimSpace(reply.AssistantText) == "" {
		reply.AssistantText = fallback
	}

	c.record(req, reply, err)
	return reply.AssistantText
}

func (c *DefaultComposer) generate(ctx context.Context, req models.ComposeRequest) (models.AIReply, error) {
	if c.Client == nil {
		return models.AIReply{}, fmt.Errorf("no language model configured")
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := c.Client.GenerateContent(ctx, c.buildPrompt(req))
	if err != nil {
		return models.AIReply{}, err
	}
	return parseReply(raw)
}

func (c *DefaultComposer) buildPrompt(req models.ComposeRequest) string {
	var data models.SessionData
	if req.Session != nil {
		data = req.Session.Data
	}
	sessionData, _ := json.Marshal(data)

	hint := req.DevMessage
	if len(req.Data) > 0 {
		extra, _ := json.Marshal(req.Data)
		hint += "\nDATA: " + string(extra)
	}
	hint += "\nKeep it warm, concise, and on-topic for this exact step."

	var sb strings.Builder
	fmt.Fprintf(&sb, `You are "%s Assistant", a friendly WhatsApp concierge.
Your job is to write empathetic, concise replies — BUT you never decide flow.
The app controls the steps, you only:
1. Rephrase the developer message into a warm assistant reply.
2. Extract values from the user message (intent, date, yes/no, mpesa, etc.).

Return JSON only:
{
  "assistant_text": "polished reply to user based on the developer message",
  "extracted": {
    "intent"?: "bookings" | "corporate" | "outdoor" | "other",
    "date"?: "YYYY-MM-DD",
    "people"?: number,
    "category"?: "regular" | "mid-size" | "penthouse",
    "pkg"?: "package1" | "package2" | "custom",
    "mpesa"?: string,
    "yesno"?: "yes" | "no"
  }
}

IMPORTANT: Return ONLY valid JSON, with no additional text or explanations.

`, c.HotelName)
	fmt.Fprintf(&sb, "STEP: %s\n", req.Step)
	fmt.Fprintf(&sb, "SESSION_DATA: %s\n", sessionData)
	fmt.Fprintf(&sb, "USER_MESSAGE: %s\n", req.UserMessage)
	fmt.Fprintf(&sb, "DEVELOPER_MESSAGE: %s\n\n", hint)
	sb.WriteString("Now return the JSON only.")
	return sb.String()
}

// parseReply extracts the first JSON object from the model output. Models
// occasionally wrap the JSON in prose or code fences.
func parseReply(raw string) (models.AIReply, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return models.AIReply{}, fmt.Errorf("empty model response")
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return models.AIReply{}, fmt.Errorf("no JSON object in model response")
	}

	var reply models.AIReply
	if err := json.Unmarshal([]byte(text[start:end+1]), &reply); err != nil {
		return models.AIReply{}, fmt.Errorf("malformed model JSON: %w", err)
	}
	return reply, nil
}

func (c *DefaultComposer) record(req models.ComposeRequest, reply models.AIReply, err error) {
	if c.Log == nil {
		return
	}
	rec := models.InteractionRecord{
		Timestamp:   time.Now().UTC(),
		Step:        req.Step,
		UserMessage: req.UserMessage,
		DevMessage:  req.DevMessage,
		Reply:       reply,
	}
	if req.Session != nil {
		rec.WaID = req.Session.WaID
		rec.Session = req.Session.Data
	}
	if err != nil {
		rec.Error = err.Error()
	}
	c.Log.Record(context.Background(), rec)
}
