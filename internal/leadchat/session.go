package leadchat

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Marser321/punta-360-sub001/internal/concierge"
)

// Originator identifies who produced a turn.
type Originator string

const (
	FromBot     Originator = "bot"
	FromVisitor Originator = "visitor"
)

// Turn is one message in the conversation. Turns are append-only: never
// mutated, never deleted.
type Turn struct {
	ID      string     `json:"id"`
	Text    string     `json:"text"`
	From    Originator `json:"from"`
	Options []string   `json:"options,omitempty"`
	At      time.Time  `json:"at"`
}

// Session is one visitor conversation: the turn log, the qualification
// accumulator and the capture flag. Exactly one goroutine owns a session at a
// time, so there is no locking here.
type Session struct {
	ID           string       `json:"id"`
	PropertyID   string       `json:"property_id,omitempty"`
	VisitorName  string       `json:"visitor_name"`
	Turns        []Turn       `json:"turns"`
	Intent       IntentRecord `json:"intent"`
	LeadCaptured bool         `json:"lead_captured"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// NewSession creates a fresh session, optionally anchored to a property page.
func NewSession(propertyID string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:          uuid.New().String(),
		PropertyID:  propertyID,
		VisitorName: generateVisitorName(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Append records a new turn and returns it.
func (s *Session) Append(from Originator, text string, options []string) Turn {
	turn := Turn{
		ID:      uuid.New().String(),
		Text:    text,
		From:    from,
		Options: options,
		At:      time.Now().UTC(),
	}
	s.Turns = append(s.Turns, turn)
	s.UpdatedAt = turn.At
	return turn
}

// History converts the turn log to chat messages for the concierge prompt.
func (s *Session) History() []concierge.ChatMessage {
	history := make([]concierge.ChatMessage, 0, len(s.Turns))
	for _, turn := range s.Turns {
		role := concierge.ChatRoleUser
		if turn.From == FromBot {
			role = concierge.ChatRoleAssistant
		}
		history = append(history, concierge.ChatMessage{Role: role, Content: turn.Text})
	}
	return history
}

// generateVisitorName labels the anonymous visitor for the lead row.
func generateVisitorName() string {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "Visitante web"
	}
	return fmt.Sprintf("Visitante %s", hex.EncodeToString(b))
}
