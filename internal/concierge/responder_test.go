package concierge

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Marser321/punta-360-sub001/pkg/logging"
)

type stubLLMClient struct {
	lastReq   LLMRequest
	responses []LLMResponse
	err       error
	calls     int
}

func (s *stubLLMClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	s.lastReq = req
	s.calls++
	if s.err != nil {
		return LLMResponse{}, s.err
	}
	if len(s.responses) == 0 {
		return LLMResponse{Text: "ok"}, nil
	}
	resp := s.responses[0]
	if len(s.responses) > 1 {
		s.responses = s.responses[1:]
	}
	return resp, nil
}

func TestRespondReturnsTrimmedText(t *testing.T) {
	client := &stubLLMClient{responses: []LLMResponse{{Text: "  La Brava tiene vista al mar.  "}}}
	r := NewResponder(client, "", "", nil, logging.Default())

	got := r.Respond(context.Background(), "¿Tiene vista al mar?", nil, nil)
	if got != "La Brava tiene vista al mar." {
		t.Fatalf("unexpected reply: %q", got)
	}
}

func TestRespondFallbackOnError(t *testing.T) {
	client := &stubLLMClient{err: errors.New("upstream exploded")}
	r := NewResponder(client, "", "", nil, logging.Default())

	got := r.Respond(context.Background(), "hola", nil, nil)
	if got != DefaultFallbackReply {
		t.Fatalf("expected exact fallback reply, got %q", got)
	}
}

func TestRespondFallbackOnEmptyCompletion(t *testing.T) {
	client := &stubLLMClient{responses: []LLMResponse{{Text: "   "}}}
	r := NewResponder(client, "", "", nil, logging.Default())

	if got := r.Respond(context.Background(), "hola", nil, nil); got != DefaultFallbackReply {
		t.Fatalf("expected fallback on empty completion, got %q", got)
	}
}

func TestRespondAppendsWhatsAppToFallback(t *testing.T) {
	client := &stubLLMClient{err: errors.New("down")}
	r := NewResponder(client, "", "+598 99 123 456", nil, logging.Default())

	got := r.Respond(context.Background(), "hola", nil, nil)
	if !strings.HasPrefix(got, DefaultFallbackReply) || !strings.Contains(got, "+598 99 123 456") {
		t.Fatalf("fallback should carry the whatsapp number, got %q", got)
	}
}

func TestRespondComposesPromptWithHistoryAndProperty(t *testing.T) {
	client := &stubLLMClient{}
	r := NewResponder(client, "model-x", "", nil, logging.Default())

	history := []ChatMessage{
		{Role: ChatRoleAssistant, Content: "¡Hola! ¿Buscás para vivir o invertir?"},
		{Role: ChatRoleUser, Content: "Inversión"},
		{Role: ChatRoleUser, Content: ""}, // blank turns are dropped
	}
	property := &PropertyContext{Title: "Penthouse La Brava", Location: "Punta del Este", PriceUSD: 450000}

	r.Respond(context.Background(), "¿Qué renta deja?", history, property)

	req := client.lastReq
	if req.Model != "model-x" {
		t.Errorf("model not forwarded: %q", req.Model)
	}
	if len(req.Messages) != 3 {
		t.Fatalf("expected 3 messages (history minus blank + user), got %d", len(req.Messages))
	}
	last := req.Messages[len(req.Messages)-1]
	if last.Role != ChatRoleUser || last.Content != "¿Qué renta deja?" {
		t.Errorf("last message should be the new user turn, got %+v", last)
	}
	if len(req.System) != 2 {
		t.Fatalf("expected persona + property context blocks, got %d", len(req.System))
	}
	if !strings.Contains(req.System[1], "Penthouse La Brava") || !strings.Contains(req.System[1], "USD 450000") {
		t.Errorf("property context missing from system prompt: %q", req.System[1])
	}
}

func TestRespondNeverPanicsOrPropagates(t *testing.T) {
	client := &stubLLMClient{err: context.DeadlineExceeded}
	r := NewResponder(client, "", "", nil, logging.Default())
	// Must return the fallback, not an error value of any kind.
	if got := r.Respond(context.Background(), "hola", nil, nil); got == "" {
		t.Fatal("reply must never be empty")
	}
}
