package leads

import (
	"context"
	"testing"

	"github.com/Marser321/punta-360-sub001/internal/leadchat"
	"github.com/Marser321/punta-360-sub001/pkg/logging"
)

type recordingNotifier struct {
	leads []*Lead
}

func (n *recordingNotifier) LeadCaptured(ctx context.Context, lead *Lead) {
	n.leads = append(n.leads, lead)
}

func TestRecorderPersistsAndNotifies(t *testing.T) {
	repo := NewInMemoryRepository()
	notifier := &recordingNotifier{}
	recorder := NewRecorder(repo, notifier, logging.Default())

	snapshot := leadchat.IntentSnapshot{Intent: "Vivir", Timeline: "Este mes", Budget: "300k - 500k"}
	err := recorder.CaptureLead(context.Background(), "prop-1", "59899111222", "Visitante abc123", snapshot)
	if err != nil {
		t.Fatalf("capture failed: %v", err)
	}

	stored, err := repo.List(context.Background(), ListLeadsFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected 1 lead, got %d", len(stored))
	}
	if stored[0].IntentData != snapshot {
		t.Errorf("intent data = %+v, want %+v", stored[0].IntentData, snapshot)
	}
	if !stored[0].Qualified() {
		t.Error("fully answered snapshot should be qualified")
	}

	if len(notifier.leads) != 1 || notifier.leads[0].VisitorContact != "59899111222" {
		t.Errorf("notifier not invoked with stored lead: %+v", notifier.leads)
	}
}

func TestRecorderRejectsEmptyContact(t *testing.T) {
	notifier := &recordingNotifier{}
	recorder := NewRecorder(NewInMemoryRepository(), notifier, logging.Default())

	err := recorder.CaptureLead(context.Background(), "", "  ", "Visitante abc123", leadchat.IntentSnapshot{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(notifier.leads) != 0 {
		t.Error("notifier must not fire on failed persist")
	}
}
