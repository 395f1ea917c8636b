package advisor

import (
	"strings"
	"testing"

	"routine-advisor-be/internal/constant"
	"routine-advisor-be/internal/entity"
	"routine-advisor-be/pkg/conversation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRoutineRequestRejectsEmptySelection(t *testing.T) {
	conv := conversation.NewManager()
	conv.AppendUser("earlier question")

	transcript, err := BuildRoutineRequest(conv, nil)

	assert.ErrorIs(t, err, ErrEmptySelection)
	assert.Nil(t, transcript)
	assert.Equal(t, 1, conv.Len(), "transcript must be untouched")
}

func TestBuildRoutineRequest(t *testing.T) {
	conv := conversation.NewManager()
	conv.AppendSystemIfAbsent("old persona")
	conv.AppendUser("old question")
	conv.AppendAssistant("old answer")

	selected := []entity.Product{
		{Id: 1, Brand: "L", Name: "Serum", Category: "skincare", Description: "hydrating"},
		{Id: 2, Brand: "Garnier", Name: "Shampoo", Category: "haircare", Description: "strengthening"},
	}

	transcript, err := BuildRoutineRequest(conv, selected)
	require.NoError(t, err)
	require.Len(t, transcript, 2)

	assert.Equal(t, entity.ConversationTurn{Role: "system", Content: constant.RoutineSystemPrompt}, transcript[0])
	assert.Equal(t, "user", transcript[1].Role)
	assert.Contains(t, transcript[1].Content, "- L Serum (skincare): hydrating\n- Garnier Shampoo (haircare): strengthening")
	assert.True(t, strings.HasPrefix(transcript[1].Content, "Please create a personalized routine using these products:\n\n"))
	assert.True(t, strings.HasSuffix(transcript[1].Content, "Provide a step-by-step routine with tips on how to use each product effectively."))

	assert.Equal(t, transcript, conv.Snapshot())
}

func TestBuildFollowUpRequestOnEmptyTranscript(t *testing.T) {
	conv := conversation.NewManager()

	transcript, err := BuildFollowUpRequest(conv, "What is retinol?", false)
	require.NoError(t, err)

	assert.Equal(t, []entity.ConversationTurn{
		{Role: "system", Content: constant.FollowUpSystemPrompt},
		{Role: "user", Content: "What is retinol?"},
	}, transcript)
	assert.Equal(t, transcript, conv.Snapshot())
}

func TestBuildFollowUpRequestContinuesConversation(t *testing.T) {
	conv := conversation.NewManager()
	conv.AppendSystemIfAbsent(constant.RoutineSystemPrompt)
	conv.AppendUser("routine please")
	conv.AppendAssistant("step 1")

	transcript, err := BuildFollowUpRequest(conv, "  Can I skip step 1?  ", false)
	require.NoError(t, err)

	require.Len(t, transcript, 4)
	assert.Equal(t, constant.RoutineSystemPrompt, transcript[0].Content)
	assert.Equal(t, entity.ConversationTurn{Role: "user", Content: "Can I skip step 1?"}, transcript[3])
}

func TestBuildFollowUpRequestWebSearchIsTransient(t *testing.T) {
	conv := conversation.NewManager()

	outgoing, err := BuildFollowUpRequest(conv, "Latest Revitalift launch?", true)
	require.NoError(t, err)

	require.Len(t, outgoing, 2)
	assert.Equal(t, constant.FollowUpWebSearchSystemPrompt, outgoing[0].Content)
	assert.Equal(t, "Latest Revitalift launch?"+constant.WebSearchInstructionSuffix, outgoing[1].Content)

	stored := conv.Snapshot()
	assert.Equal(t, "Latest Revitalift launch?", stored[1].Content)
}

func TestBuildFollowUpRequestIgnoresBlankQuestion(t *testing.T) {
	conv := conversation.NewManager()

	_, err := BuildFollowUpRequest(conv, " \n\t", true)
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Equal(t, 0, conv.Len())
}
