package advisor

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"routine-advisor-be/internal/entity"
	"routine-advisor-be/internal/pkg/logger"
	"routine-advisor-be/pkg/conversation"
	"routine-advisor-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	reply    string
	err      error
	received []llm.Message
	calls    int
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	s.calls++
	s.received = history
	return s.reply, s.err
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func TestSendReturnsCompletion(t *testing.T) {
	provider := &stubProvider{reply: "Use retinol at night."}
	pipeline := NewPipeline(provider, logger.NewNopLogger())

	got, err := pipeline.Send(context.Background(), []entity.ConversationTurn{
		{Role: "system", Content: "persona"},
		{Role: "user", Content: "When do I use retinol?"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Use retinol at night.", got)
	assert.Equal(t, []llm.Message{
		{Role: "system", Content: "persona"},
		{Role: "user", Content: "When do I use retinol?"},
	}, provider.received)
}

func TestSendFailureLeavesTranscriptUnchanged(t *testing.T) {
	provider := &stubProvider{err: fmt.Errorf("%w: dial tcp: connection refused", llm.ErrCompletionUnavailable)}
	pipeline := NewPipeline(provider, logger.NewNopLogger())

	conv := conversation.NewManager()
	transcript, err := BuildFollowUpRequest(conv, "What is retinol?", false)
	require.NoError(t, err)
	before := conv.Snapshot()

	_, err = pipeline.Send(context.Background(), transcript)

	assert.ErrorIs(t, err, llm.ErrCompletionUnavailable)
	assert.Equal(t, before, conv.Snapshot())
	assert.Equal(t, 1, provider.calls, "no retry")
}

func TestSendWrapsForeignErrors(t *testing.T) {
	pipeline := NewPipeline(&stubProvider{err: errors.New("quota exceeded")}, logger.NewNopLogger())

	_, err := pipeline.Send(context.Background(), []entity.ConversationTurn{{Role: "user", Content: "hi"}})
	assert.ErrorIs(t, err, llm.ErrCompletionUnavailable)
	assert.Contains(t, err.Error(), "quota exceeded")
}
