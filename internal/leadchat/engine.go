package leadchat

import (
	"context"
	"fmt"
	"strings"

	"github.com/Marser321/punta-360-sub001/internal/concierge"
	"github.com/Marser321/punta-360-sub001/internal/observability/metrics"
	"github.com/Marser321/punta-360-sub001/pkg/logging"
)

// LeadSink receives finalized contact captures. Implementations persist the
// lead; the engine treats the write as fire-and-forget.
type LeadSink interface {
	CaptureLead(ctx context.Context, propertyID, contact, visitorName string, intent IntentSnapshot) error
}

// Responder answers non-scripted utterances. It must absorb its own failures
// and always return a usable reply.
type Responder interface {
	Respond(ctx context.Context, userMessage string, history []concierge.ChatMessage, property *concierge.PropertyContext) string
}

// PropertyContextSource resolves the listing the chat was opened from.
type PropertyContextSource interface {
	PropertyContext(ctx context.Context, propertyID string) (*concierge.PropertyContext, error)
}

// Engine drives one conversation turn at a time: contact detection first,
// then the scripted policy, then the concierge for everything else.
type Engine struct {
	store      SessionStore
	sink       LeadSink
	concierge  Responder
	properties PropertyContextSource
	metrics    *metrics.ChatMetrics
	logger     *logging.Logger
}

// NewEngine creates the chat engine. concierge and properties may be nil: the
// scripted flow works without them.
func NewEngine(store SessionStore, sink LeadSink, responder Responder, properties PropertyContextSource, m *metrics.ChatMetrics, logger *logging.Logger) *Engine {
	if store == nil {
		panic("leadchat: session store required")
	}
	if sink == nil {
		panic("leadchat: lead sink required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{
		store:      store,
		sink:       sink,
		concierge:  responder,
		properties: properties,
		metrics:    m,
		logger:     logger,
	}
}

// StartSession opens a fresh session and returns the greeting turn.
func (e *Engine) StartSession(ctx context.Context, propertyID string) (*Session, Reply, error) {
	session := NewSession(propertyID)
	greeting := Greeting()
	session.Append(FromBot, greeting.Text, greeting.Options)

	if err := e.store.Save(ctx, session); err != nil {
		return nil, Reply{}, fmt.Errorf("leadchat: failed to save new session: %w", err)
	}

	e.logger.Info("chat session started",
		"session_id", session.ID,
		"property_id", session.PropertyID,
	)
	return session, greeting, nil
}

// Session returns the stored session, for transcript reads.
func (e *Engine) Session(ctx context.Context, sessionID string) (*Session, error) {
	return e.store.Load(ctx, sessionID)
}

// HandleTurn processes one visitor input and returns the bot reply. Contact
// detection runs before the policy; a contact capture bypasses the policy
// entirely. Persistence and concierge failures never surface to the visitor.
func (e *Engine) HandleTurn(ctx context.Context, sessionID, text string) (*Session, Reply, error) {
	session, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return nil, Reply{}, err
	}

	// History as it stood before this input; the concierge appends the new
	// message itself.
	history := session.History()
	session.Append(FromVisitor, text, nil)

	var reply Reply
	var outcome string

	switch {
	case IsContact(text):
		reply = ContactAck()
		if session.LeadCaptured {
			// First contact wins: re-acknowledge, never insert twice.
			outcome = "duplicate_contact"
			break
		}
		session.LeadCaptured = true
		outcome = "lead_captured"
		e.captureLead(ctx, session, text)
	default:
		var matched bool
		reply, session.Intent, matched = Advance(text, session.Intent)
		if matched {
			outcome = StateFor(session.Intent).String()
			break
		}
		outcome = "generic"
		if e.concierge != nil {
			reply = Reply{Text: e.concierge.Respond(ctx, text, history, e.propertyContext(ctx, session))}
			outcome = "concierge"
		}
	}

	session.Append(FromBot, reply.Text, reply.Options)
	if err := e.store.Save(ctx, session); err != nil {
		return nil, Reply{}, fmt.Errorf("leadchat: failed to save session: %w", err)
	}

	e.metrics.ObserveTurn(outcome)
	return session, reply, nil
}

// captureLead persists the contact fire-and-forget: a failed write is logged
// and counted, the conversation continues either way.
func (e *Engine) captureLead(ctx context.Context, session *Session, contact string) {
	snapshot := session.Intent.Snapshot()
	if err := e.sink.CaptureLead(ctx, session.PropertyID, strings.TrimSpace(contact), session.VisitorName, snapshot); err != nil {
		e.logger.Error("lead persist failed, dropping capture",
			"error", err,
			"session_id", session.ID,
			"property_id", session.PropertyID,
		)
		e.metrics.ObserveLeadPersistError()
		return
	}
	e.metrics.ObserveLeadCaptured()
	e.logger.Info("lead captured",
		"session_id", session.ID,
		"property_id", session.PropertyID,
		"qualified", session.Intent.Qualified(),
	)
}

func (e *Engine) propertyContext(ctx context.Context, session *Session) *concierge.PropertyContext {
	if e.properties == nil || session.PropertyID == "" {
		return nil
	}
	property, err := e.properties.PropertyContext(ctx, session.PropertyID)
	if err != nil {
		e.logger.Warn("property context lookup failed",
			"error", err,
			"property_id", session.PropertyID,
		)
		return nil
	}
	return property
}
