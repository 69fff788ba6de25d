package concierge

import (
	"context"
	"strings"
	"time"

	"github.com/Marser321/punta-360-sub001/internal/observability/metrics"
	"github.com/Marser321/punta-360-sub001/pkg/logging"
)

// DefaultFallbackReply is returned whenever the generative service fails.
// It steers the visitor back into the contact-capture funnel.
const DefaultFallbackReply = "En este momento no puedo responderte por aquí. Dejanos tu WhatsApp o tu correo y un asesor de Punta360 te contacta enseguida."

const (
	defaultMaxTokens   = 512
	defaultTemperature = 0.7
)

// Responder is the bridge between the chat widget and the generative service:
// it composes the prompt, makes a single completion round trip, and absorbs
// every upstream failure into a fixed fallback reply.
type Responder struct {
	client   LLMClient
	model    string
	fallback string
	logger   *logging.Logger
	metrics  *metrics.ChatMetrics
}

// NewResponder creates a concierge responder. The model id is forwarded to the
// client (Gemini ignores it, Bedrock requires it). A non-empty whatsapp number
// is appended to the fallback reply.
func NewResponder(client LLMClient, model, whatsapp string, m *metrics.ChatMetrics, logger *logging.Logger) *Responder {
	if logger == nil {
		logger = logging.Default()
	}
	fallback := DefaultFallbackReply
	if strings.TrimSpace(whatsapp) != "" {
		fallback = fallback + " WhatsApp: " + strings.TrimSpace(whatsapp)
	}
	return &Responder{
		client:   client,
		model:    model,
		fallback: fallback,
		logger:   logger,
		metrics:  m,
	}
}

// FallbackReply returns the fixed reply used when the upstream service fails.
func (r *Responder) FallbackReply() string {
	return r.fallback
}

// Respond builds the prompt from the conversation history plus the new user
// message and returns the model's reply. Any upstream error yields the
// fallback reply; errors never propagate to the caller.
func (r *Responder) Respond(ctx context.Context, userMessage string, history []ChatMessage, property *PropertyContext) string {
	messages := make([]ChatMessage, 0, len(history)+1)
	for _, msg := range history {
		if strings.TrimSpace(msg.Content) == "" {
			continue
		}
		messages = append(messages, msg)
	}
	messages = append(messages, ChatMessage{Role: ChatRoleUser, Content: userMessage})

	req := LLMRequest{
		Model:       r.model,
		System:      BuildSystemPrompt(property),
		Messages:    messages,
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
	}

	start := time.Now()
	resp, err := r.client.Complete(ctx, req)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		r.logger.Warn("concierge: completion failed, serving fallback reply",
			"error", err,
			"history_len", len(history),
		)
		r.metrics.ObserveConcierge("fallback", elapsed)
		return r.fallback
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		r.logger.Warn("concierge: empty completion, serving fallback reply")
		r.metrics.ObserveConcierge("fallback", elapsed)
		return r.fallback
	}

	r.metrics.ObserveConcierge("ok", elapsed)
	return text
}
