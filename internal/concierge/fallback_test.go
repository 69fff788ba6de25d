package concierge

import (
	"context"
	"errors"
	"testing"
)

func TestFallbackClientPrimarySucceeds(t *testing.T) {
	primary := &stubLLMClient{responses: []LLMResponse{{Text: "primary"}}}
	secondary := &stubLLMClient{responses: []LLMResponse{{Text: "secondary"}}}
	c := NewFallbackClient(primary, secondary, nil)

	resp, err := c.Complete(context.Background(), LLMRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "primary" {
		t.Errorf("expected primary response, got %q", resp.Text)
	}
	if secondary.calls != 0 {
		t.Error("secondary should not be called when primary succeeds")
	}
}

func TestFallbackClientUsesSecondary(t *testing.T) {
	primary := &stubLLMClient{err: errors.New("quota exceeded")}
	secondary := &stubLLMClient{responses: []LLMResponse{{Text: "secondary"}}}
	c := NewFallbackClient(primary, secondary, nil)

	resp, err := c.Complete(context.Background(), LLMRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "secondary" {
		t.Errorf("expected secondary response, got %q", resp.Text)
	}
}

func TestFallbackClientNoSecondary(t *testing.T) {
	primaryErr := errors.New("boom")
	c := NewFallbackClient(&stubLLMClient{err: primaryErr}, nil, nil)

	_, err := c.Complete(context.Background(), LLMRequest{})
	if !errors.Is(err, primaryErr) {
		t.Fatalf("expected primary error, got %v", err)
	}
}

func TestFallbackClientBothFail(t *testing.T) {
	secondaryErr := errors.New("also down")
	c := NewFallbackClient(&stubLLMClient{err: errors.New("down")}, &stubLLMClient{err: secondaryErr}, nil)

	_, err := c.Complete(context.Background(), LLMRequest{})
	if !errors.Is(err, secondaryErr) {
		t.Fatalf("expected secondary error as last attempt, got %v", err)
	}
}
