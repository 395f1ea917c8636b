package advisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"routine-advisor-be/internal/entity"
	"routine-advisor-be/internal/pkg/logger"
	"routine-advisor-be/pkg/llm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "routine-advisor-be/pkg/advisor"

// Pipeline sends transcripts to the completion boundary. One attempt per call, no retry.
type Pipeline struct {
	provider llm.LLMProvider
	logger   logger.ILogger
}

func NewPipeline(provider llm.LLMProvider, log logger.ILogger) *Pipeline {
	return &Pipeline{provider: provider, logger: log}
}

// Send returns the completion text or an error wrapping llm.ErrCompletionUnavailable.
func (p *Pipeline) Send(ctx context.Context, transcript []entity.ConversationTurn) (string, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "advisor.Send")
	defer span.End()
	span.SetAttributes(attribute.Int("advisor.turns", len(transcript)))

	history := make([]llm.Message, len(transcript))
	for i, turn := range transcript {
		history[i] = llm.Message{Role: turn.Role, Content: turn.Content}
	}

	start := time.Now()
	reply, err := p.provider.Chat(ctx, history)
	elapsed := time.Since(start)

	if err != nil {
		if !errors.Is(err, llm.ErrCompletionUnavailable) {
			err = fmt.Errorf("%w: %v", llm.ErrCompletionUnavailable, err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		p.logger.Error("Pipeline", "Completion failed", map[string]interface{}{
			"error":       err,
			"turns":       len(transcript),
			"duration_ms": elapsed.Milliseconds(),
		})
		return "", err
	}

	p.logger.Info("Pipeline", "Completion received", map[string]interface{}{
		"turns":       len(transcript),
		"reply_chars": len(reply),
		"duration_ms": elapsed.Milliseconds(),
	})
	return reply, nil
}
