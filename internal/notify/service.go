package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Marser321/punta-360-sub001/internal/leads"
	"github.com/Marser321/punta-360-sub001/pkg/logging"
)

const defaultSendTimeout = 15 * time.Second

// Service emails the sales inbox whenever the chat captures a lead. Delivery
// is fire-and-forget: a failed send is logged, never surfaced to the chat.
type Service struct {
	sender      EmailSender
	salesInbox  string
	salesName   string
	sendTimeout time.Duration
	logger      *logging.Logger

	// async is disabled in tests so sends can be asserted synchronously.
	async bool
}

// NewService creates the notification service. A nil sender or empty inbox
// disables it.
func NewService(sender EmailSender, salesInbox, salesName string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		sender:      sender,
		salesInbox:  salesInbox,
		salesName:   salesName,
		sendTimeout: defaultSendTimeout,
		logger:      logger,
		async:       true,
	}
}

// Enabled reports whether lead notifications are configured.
func (s *Service) Enabled() bool {
	return s != nil && s.sender != nil && s.salesInbox != ""
}

// LeadCaptured emails the sales inbox about a fresh capture. The chat turn
// has already answered the visitor, so delivery happens off the request path.
func (s *Service) LeadCaptured(ctx context.Context, lead *leads.Lead) {
	if !s.Enabled() || lead == nil {
		return
	}

	msg := EmailMessage{
		To:      s.salesInbox,
		ToName:  s.salesName,
		Subject: leadSubject(lead),
		Body:    leadBody(lead),
	}

	if !s.async {
		s.deliver(ctx, msg, lead.ID)
		return
	}

	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), s.sendTimeout)
		defer cancel()
		s.deliver(sendCtx, msg, lead.ID)
	}()
}

func (s *Service) deliver(ctx context.Context, msg EmailMessage, leadID string) {
	if err := s.sender.Send(ctx, msg); err != nil {
		s.logger.Error("lead notification failed", "error", err, "lead_id", leadID)
		return
	}
	s.logger.Info("lead notification sent", "lead_id", leadID, "to", msg.To)
}

func leadSubject(lead *leads.Lead) string {
	if lead.Qualified() {
		return fmt.Sprintf("Nuevo lead calificado: %s", lead.VisitorContact)
	}
	return fmt.Sprintf("Nuevo lead: %s", lead.VisitorContact)
}

func leadBody(lead *leads.Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "El chat capturó un nuevo contacto.\n\n")
	fmt.Fprintf(&b, "Contacto: %s\n", lead.VisitorContact)
	fmt.Fprintf(&b, "Visitante: %s\n", lead.VisitorName)
	if lead.PropertyID != "" {
		fmt.Fprintf(&b, "Propiedad: %s\n", lead.PropertyID)
	}
	if lead.IntentData.Intent != "" {
		fmt.Fprintf(&b, "Interés: %s\n", lead.IntentData.Intent)
	}
	if lead.IntentData.Timeline != "" {
		fmt.Fprintf(&b, "Plazo: %s\n", lead.IntentData.Timeline)
	}
	if lead.IntentData.Budget != "" {
		fmt.Fprintf(&b, "Presupuesto: %s\n", lead.IntentData.Budget)
	}
	fmt.Fprintf(&b, "\nCapturado: %s\n", lead.CreatedAt.Format(time.RFC3339))
	return b.String()
}
