package leads

import (
	"context"
	"fmt"

	"github.com/Marser321/punta-360-sub001/internal/leadchat"
	"github.com/Marser321/punta-360-sub001/pkg/logging"
)

// Notifier is told about fresh captures; delivery failures stay inside the
// notifier.
type Notifier interface {
	LeadCaptured(ctx context.Context, lead *Lead)
}

// Recorder adapts the repository to the chat engine's capture hook and fans
// out a notification once the row is safely stored.
type Recorder struct {
	repo     Repository
	notifier Notifier
	logger   *logging.Logger
}

// NewRecorder wires the capture path. The notifier may be nil.
func NewRecorder(repo Repository, notifier Notifier, logger *logging.Logger) *Recorder {
	if repo == nil {
		panic("leads: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Recorder{repo: repo, notifier: notifier, logger: logger}
}

// CaptureLead persists the contact shared in a chat session.
func (r *Recorder) CaptureLead(ctx context.Context, propertyID, contact, visitorName string, intent leadchat.IntentSnapshot) error {
	lead, err := r.repo.Create(ctx, &CreateLeadRequest{
		PropertyID:     propertyID,
		VisitorContact: contact,
		VisitorName:    visitorName,
		IntentData:     intent,
	})
	if err != nil {
		return fmt.Errorf("leads: capture failed: %w", err)
	}

	if r.notifier != nil {
		r.notifier.LeadCaptured(ctx, lead)
	}
	return nil
}
