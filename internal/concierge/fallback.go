package concierge

import (
	"context"
	"log/slog"
)

// FallbackClient wraps a primary LLM client with a secondary provider.
// If the primary fails, it automatically retries with the secondary.
type FallbackClient struct {
	primary   LLMClient
	secondary LLMClient
	logger    *slog.Logger
}

// NewFallbackClient creates a provider-fallback LLM client. If secondary is
// nil, only the primary provider is used.
func NewFallbackClient(primary, secondary LLMClient, logger *slog.Logger) *FallbackClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackClient{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}
}

// Complete sends a completion request to the primary LLM and retries with the
// secondary provider when the primary fails.
func (c *FallbackClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	resp, err := c.primary.Complete(ctx, req)
	if err == nil {
		return resp, nil
	}

	c.logger.Warn("primary LLM failed, attempting secondary provider",
		"error", err.Error(),
		"secondary_available", c.secondary != nil,
	)

	if c.secondary == nil {
		return LLMResponse{}, err
	}

	secondResp, secondErr := c.secondary.Complete(ctx, req)
	if secondErr != nil {
		c.logger.Error("secondary LLM also failed",
			"primary_error", err.Error(),
			"secondary_error", secondErr.Error(),
		)
		return LLMResponse{}, secondErr
	}

	c.logger.Info("secondary LLM succeeded after primary failure")
	return secondResp, nil
}
