package leads

import (
	"strings"
	"time"

	"github.com/Marser321/punta-360-sub001/internal/leadchat"
)

// Lead is a captured visitor contact together with whatever qualification
// data the chat collected before the visitor shared it.
type Lead struct {
	ID             string                  `json:"id"`
	PropertyID     string                  `json:"property_id,omitempty"`
	VisitorContact string                  `json:"visitor_contact"`
	VisitorName    string                  `json:"visitor_name"`
	IntentData     leadchat.IntentSnapshot `json:"intent_data"`
	IsRead         bool                    `json:"is_read"`
	CreatedAt      time.Time               `json:"created_at"`
}

// Qualified reports whether all three qualification fields were answered
// before the contact arrived.
func (l *Lead) Qualified() bool {
	return l.IntentData.Intent != "" && l.IntentData.Timeline != "" && l.IntentData.Budget != ""
}

// CreateLeadRequest carries a new capture into the repository.
type CreateLeadRequest struct {
	PropertyID     string
	VisitorContact string
	VisitorName    string
	IntentData     leadchat.IntentSnapshot
}

// Validate checks the request before it reaches storage.
func (r *CreateLeadRequest) Validate() error {
	if strings.TrimSpace(r.VisitorContact) == "" {
		return ErrMissingContact
	}
	return nil
}

// ListLeadsFilter narrows and pages the admin lead listing.
type ListLeadsFilter struct {
	UnreadOnly bool
	PropertyID string
	Limit      int
	Offset     int
}
