package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"routine-advisor-be/internal/constant"
	"routine-advisor-be/internal/dto"
	"routine-advisor-be/internal/entity"
	"routine-advisor-be/internal/pkg/logger"
	"routine-advisor-be/internal/repository/memory"
	"routine-advisor-be/pkg/advisor"
	"routine-advisor-be/pkg/catalog"
	"routine-advisor-be/pkg/conversation"
	"routine-advisor-be/pkg/events"
	"routine-advisor-be/pkg/llm"
	"routine-advisor-be/pkg/selection"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTopic = "advisor.changes"

type staticSource struct {
	products []entity.Product
	err      error
}

func (s staticSource) Fetch(ctx context.Context) ([]entity.Product, error) {
	return s.products, s.err
}

type scriptedProvider struct {
	reply    string
	err      error
	calls    int
	received []llm.Message

	// when set, Chat signals started and waits for release
	started chan struct{}
	release chan struct{}
}

func (p *scriptedProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	p.calls++
	p.received = history
	if p.started != nil {
		close(p.started)
		<-p.release
	}
	return p.reply, p.err
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

// flakyPreferences fails reads while readErr is set.
type flakyPreferences struct {
	*memory.PreferenceRepository
	readErr error
}

func (p *flakyPreferences) FindOne(ctx context.Context, profileId uuid.UUID, key string) (*entity.Preference, error) {
	if p.readErr != nil {
		return nil, p.readErr
	}
	return p.PreferenceRepository.FindOne(ctx, profileId, key)
}

type fixture struct {
	service  IAdvisorService
	provider *scriptedProvider
	prefs    *flakyPreferences
	sessions *memory.SessionRepository
	messages <-chan *message.Message
}

func testCatalog() []entity.Product {
	return []entity.Product{
		{Id: 1, Brand: "CeraVe", Name: "Foaming Cleanser", Category: "cleanser", Description: "Gentle daily wash"},
		{Id: 2, Brand: "La Roche-Posay", Name: "Toleriane Cream", Category: "moisturizer", Description: "Barrier repair"},
		{Id: 3, Brand: "CeraVe", Name: "Hydrating Cleanser", Category: "cleanser", Description: "Non-foaming"},
	}
}

func newFixture(t *testing.T, source catalog.Source) *fixture {
	t.Helper()
	log := logger.NewNopLogger()

	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })
	messages, err := pubSub.Subscribe(context.Background(), testTopic)
	require.NoError(t, err)

	provider := &scriptedProvider{reply: "Use the cleanser first."}
	prefs := &flakyPreferences{PreferenceRepository: memory.NewPreferenceRepository()}
	sessions := memory.NewSessionRepository(time.Hour)

	svc := NewAdvisorService(
		catalog.NewCache(source, log),
		prefs,
		sessions,
		advisor.NewPipeline(provider, log),
		NewPublisherService(testTopic, pubSub),
		log,
	)

	return &fixture{service: svc, provider: provider, prefs: prefs, sessions: sessions, messages: messages}
}

func (f *fixture) nextEvent(t *testing.T) events.BaseEvent {
	t.Helper()
	select {
	case msg := <-f.messages:
		msg.Ack()
		var event events.BaseEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &event))
		return event
	case <-time.After(time.Second):
		t.Fatal("no change event published")
		return events.BaseEvent{}
	}
}

func selectedIds(response *dto.SelectionResponse) []int {
	ids := make([]int, len(response.Products))
	for i, p := range response.Products {
		ids[i] = p.Id
	}
	return ids
}

func TestListProducts(t *testing.T) {
	f := newFixture(t, staticSource{products: testCatalog()})
	ctx := context.Background()
	profile := uuid.New()

	tests := []struct {
		name        string
		request     dto.ListProductsRequest
		want        []int
		placeholder string
	}{
		{name: "no filter", request: dto.ListProductsRequest{}, want: []int{1, 2, 3}},
		{name: "category", request: dto.ListProductsRequest{Category: "cleanser"}, want: []int{1, 3}},
		{name: "category and query", request: dto.ListProductsRequest{Category: "cleanser", Query: "  FOAMING "}, want: []int{1, 3}},
		{name: "query only", request: dto.ListProductsRequest{Query: "barrier"}, want: []int{2}},
		{name: "no match", request: dto.ListProductsRequest{Query: "sunscreen"}, want: []int{}, placeholder: constant.MessageNoProductsFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response, err := f.service.ListProducts(ctx, profile, &tt.request)
			require.NoError(t, err)

			got := make([]int, 0, len(response.Products))
			for _, p := range response.Products {
				got = append(got, p.Id)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.placeholder, response.Placeholder)
		})
	}
}

func TestListProductsMarksSelection(t *testing.T) {
	f := newFixture(t, staticSource{products: testCatalog()})
	ctx := context.Background()
	profile := uuid.New()

	_, err := f.service.ToggleSelection(ctx, profile, &dto.ToggleSelectionRequest{ProductId: 2})
	require.NoError(t, err)

	response, err := f.service.ListProducts(ctx, profile, &dto.ListProductsRequest{})
	require.NoError(t, err)
	for _, p := range response.Products {
		assert.Equal(t, p.Id == 2, p.Selected, "product %d", p.Id)
	}
}

func TestListProductsCatalogUnavailable(t *testing.T) {
	f := newFixture(t, staticSource{err: catalog.ErrCatalogUnavailable})

	_, err := f.service.ListProducts(context.Background(), uuid.New(), &dto.ListProductsRequest{})
	assert.ErrorIs(t, err, catalog.ErrCatalogUnavailable)

	_, err = f.service.ListCategories(context.Background())
	assert.ErrorIs(t, err, catalog.ErrCatalogUnavailable)
}

func TestListCategories(t *testing.T) {
	f := newFixture(t, staticSource{products: testCatalog()})

	response, err := f.service.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"cleanser", "moisturizer"}, response.Categories)
}

func TestToggleSelectionFlow(t *testing.T) {
	f := newFixture(t, staticSource{products: testCatalog()})
	ctx := context.Background()
	profile := uuid.New()

	response, err := f.service.ToggleSelection(ctx, profile, &dto.ToggleSelectionRequest{ProductId: 3})
	require.NoError(t, err)
	assert.Equal(t, []int{3}, selectedIds(response))
	event := f.nextEvent(t)
	assert.Equal(t, events.TypeSelectionChanged, event.Type)
	assert.Equal(t, profile.String(), event.ProfileID)

	response, err = f.service.ToggleSelection(ctx, profile, &dto.ToggleSelectionRequest{ProductId: 1})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, selectedIds(response))
	f.nextEvent(t)

	response, err = f.service.ToggleSelection(ctx, profile, &dto.ToggleSelectionRequest{ProductId: 3})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, selectedIds(response))
	assert.Equal(t, 1, response.Count)
	f.nextEvent(t)

	// A fresh session for the same profile restores from the preference store
	f.sessions.Delete(profile.String())
	restored, err := f.service.GetSelection(ctx, profile)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, selectedIds(restored))
}

func TestToggleSelectionUnknownProduct(t *testing.T) {
	f := newFixture(t, staticSource{products: testCatalog()})

	_, err := f.service.ToggleSelection(context.Background(), uuid.New(), &dto.ToggleSelectionRequest{ProductId: 99})
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestRemoveAndClearSelection(t *testing.T) {
	f := newFixture(t, staticSource{products: testCatalog()})
	ctx := context.Background()
	profile := uuid.New()

	for _, id := range []int{1, 2, 3} {
		_, err := f.service.ToggleSelection(ctx, profile, &dto.ToggleSelectionRequest{ProductId: id})
		require.NoError(t, err)
	}

	response, err := f.service.RemoveSelection(ctx, profile, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, selectedIds(response))

	_, err = f.service.RemoveSelection(ctx, profile, 2)
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)

	response, err = f.service.ClearSelection(ctx, profile)
	require.NoError(t, err)
	assert.Empty(t, response.Products)
	assert.Equal(t, constant.MessageNoSelection, response.Placeholder)
}

func TestGenerateRoutineRequiresSelection(t *testing.T) {
	f := newFixture(t, staticSource{products: testCatalog()})

	_, err := f.service.GenerateRoutine(context.Background(), uuid.New())
	assert.ErrorIs(t, err, advisor.ErrEmptySelection)
	assert.Zero(t, f.provider.calls)
}

func TestGenerateRoutine(t *testing.T) {
	f := newFixture(t, staticSource{products: testCatalog()})
	ctx := context.Background()
	profile := uuid.New()

	_, err := f.service.ToggleSelection(ctx, profile, &dto.ToggleSelectionRequest{ProductId: 1})
	require.NoError(t, err)

	response, err := f.service.GenerateRoutine(ctx, profile)
	require.NoError(t, err)
	assert.Equal(t, ModeRoutine, response.Mode)
	assert.Equal(t, "Use the cleanser first.", response.Reply)

	require.Len(t, response.Transcript, 3)
	assert.Equal(t, constant.ConversationRoleSystem, response.Transcript[0].Role)
	assert.Contains(t, response.Transcript[1].Content, "- CeraVe Foaming Cleanser (cleanser): Gentle daily wash")
	assert.Equal(t, constant.ConversationRoleAssistant, response.Transcript[2].Role)
	assert.Len(t, f.provider.received, 2)
}

func TestGenerateRoutineFailureKeepsUserTurn(t *testing.T) {
	f := newFixture(t, staticSource{products: testCatalog()})
	ctx := context.Background()
	profile := uuid.New()
	f.provider.err = errors.New("connection refused")

	_, err := f.service.ToggleSelection(ctx, profile, &dto.ToggleSelectionRequest{ProductId: 2})
	require.NoError(t, err)

	_, err = f.service.GenerateRoutine(ctx, profile)
	assert.ErrorIs(t, err, llm.ErrCompletionUnavailable)

	transcript, err := f.service.GetTranscript(ctx, profile)
	require.NoError(t, err)
	require.Len(t, transcript.Turns, 2)
	assert.Equal(t, constant.ConversationRoleUser, transcript.Turns[1].Role)
	assert.False(t, transcript.Busy)
}

func TestSubmitQuestion(t *testing.T) {
	f := newFixture(t, staticSource{products: testCatalog()})
	ctx := context.Background()
	profile := uuid.New()

	response, err := f.service.SubmitQuestion(ctx, profile, &dto.SubmitQuestionRequest{Question: "Is retinol safe?", WebSearch: true})
	require.NoError(t, err)
	assert.Equal(t, ModeWebSearch, response.Mode)
	require.Len(t, response.Transcript, 3)
	assert.Equal(t, constant.FollowUpWebSearchSystemPrompt, response.Transcript[0].Content)
	assert.Equal(t, "Is retinol safe?", response.Transcript[1].Content)

	// The outgoing request carries the search instruction, the stored turn does not
	require.Len(t, f.provider.received, 2)
	assert.Equal(t, "Is retinol safe?"+constant.WebSearchInstructionSuffix, f.provider.received[1].Content)

	response, err = f.service.SubmitQuestion(ctx, profile, &dto.SubmitQuestionRequest{Question: "And at night?"})
	require.NoError(t, err)
	assert.Equal(t, ModeDefault, response.Mode)
	assert.Len(t, response.Transcript, 5)
}

func TestSubmitBlankQuestionIsIgnored(t *testing.T) {
	f := newFixture(t, staticSource{products: testCatalog()})
	ctx := context.Background()
	profile := uuid.New()

	_, err := f.service.SubmitQuestion(ctx, profile, &dto.SubmitQuestionRequest{Question: "   "})
	assert.ErrorIs(t, err, advisor.ErrEmptyInput)
	assert.Zero(t, f.provider.calls)

	transcript, err := f.service.GetTranscript(ctx, profile)
	require.NoError(t, err)
	assert.Empty(t, transcript.Turns)
}

func TestConcurrentQuestionIsRejected(t *testing.T) {
	f := newFixture(t, staticSource{products: testCatalog()})
	ctx := context.Background()
	profile := uuid.New()
	f.provider.started = make(chan struct{})
	f.provider.release = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := f.service.SubmitQuestion(ctx, profile, &dto.SubmitQuestionRequest{Question: "first"})
		done <- err
	}()
	<-f.provider.started

	_, err := f.service.SubmitQuestion(ctx, profile, &dto.SubmitQuestionRequest{Question: "second"})
	assert.ErrorIs(t, err, conversation.ErrConversationBusy)
	assert.ErrorIs(t, f.service.ResetConversation(ctx, profile), conversation.ErrConversationBusy)

	close(f.provider.release)
	require.NoError(t, <-done)

	transcript, err := f.service.GetTranscript(ctx, profile)
	require.NoError(t, err)
	assert.Len(t, transcript.Turns, 3)
	assert.False(t, transcript.Busy)
}

func TestResetConversationKeepsSelection(t *testing.T) {
	f := newFixture(t, staticSource{products: testCatalog()})
	ctx := context.Background()
	profile := uuid.New()

	_, err := f.service.ToggleSelection(ctx, profile, &dto.ToggleSelectionRequest{ProductId: 1})
	require.NoError(t, err)
	_, err = f.service.GenerateRoutine(ctx, profile)
	require.NoError(t, err)

	require.NoError(t, f.service.ResetConversation(ctx, profile))

	transcript, err := f.service.GetTranscript(ctx, profile)
	require.NoError(t, err)
	assert.Empty(t, transcript.Turns)

	current, err := f.service.GetSelection(ctx, profile)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, selectedIds(current))
}

func TestDirection(t *testing.T) {
	f := newFixture(t, staticSource{products: testCatalog()})
	ctx := context.Background()
	profile := uuid.New()

	response, err := f.service.GetDirection(ctx, profile)
	require.NoError(t, err)
	assert.Equal(t, "ltr", response.Direction)
	assert.Equal(t, "en", response.Lang)

	response, err = f.service.ToggleDirection(ctx, profile)
	require.NoError(t, err)
	assert.Equal(t, "rtl", response.Direction)
	assert.Equal(t, "ar", response.Lang)
	event := f.nextEvent(t)
	assert.Equal(t, events.TypeDirectionChanged, event.Type)

	response, err = f.service.SetDirection(ctx, profile, &dto.SetDirectionRequest{Direction: "ltr"})
	require.NoError(t, err)
	assert.Equal(t, "ltr", response.Direction)

	stored, err := f.prefs.FindOne(ctx, profile, constant.PreferenceKeyTextDirection)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.JSONEq(t, `"ltr"`, string(stored.Value))
}

func TestForgetProfile(t *testing.T) {
	f := newFixture(t, staticSource{products: testCatalog()})
	ctx := context.Background()
	profile := uuid.New()

	_, err := f.service.ToggleSelection(ctx, profile, &dto.ToggleSelectionRequest{ProductId: 1})
	require.NoError(t, err)
	_, err = f.service.ToggleDirection(ctx, profile)
	require.NoError(t, err)

	require.NoError(t, f.service.ForgetProfile(ctx, profile))

	stored, err := f.prefs.FindOne(ctx, profile, constant.PreferenceKeySelectedProducts)
	require.NoError(t, err)
	assert.Nil(t, stored)

	current, err := f.service.GetSelection(ctx, profile)
	require.NoError(t, err)
	assert.Empty(t, current.Products)

	direction, err := f.service.GetDirection(ctx, profile)
	require.NoError(t, err)
	assert.Equal(t, "ltr", direction.Direction)
}

func TestUnreadableStoreKeepsStoredSelection(t *testing.T) {
	f := newFixture(t, staticSource{products: testCatalog()})
	ctx := context.Background()
	profile := uuid.New()

	for _, id := range []int{1, 2, 3} {
		_, err := f.service.ToggleSelection(ctx, profile, &dto.ToggleSelectionRequest{ProductId: id})
		require.NoError(t, err)
	}
	f.sessions.Delete(profile.String())

	f.prefs.readErr = errors.New("connection reset")
	_, err := f.service.ToggleSelection(ctx, profile, &dto.ToggleSelectionRequest{ProductId: 2})
	assert.ErrorIs(t, err, selection.ErrStoreUnavailable)
	_, err = f.service.ToggleDirection(ctx, profile)
	assert.ErrorIs(t, err, selection.ErrStoreUnavailable)
	_, found := f.sessions.Get(profile.String())
	assert.False(t, found)

	f.prefs.readErr = nil
	restored, err := f.service.GetSelection(ctx, profile)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, selectedIds(restored))
}

func TestForgetProfileDetachesLiveSession(t *testing.T) {
	f := newFixture(t, staticSource{products: testCatalog()})
	ctx := context.Background()
	profile := uuid.New()

	_, err := f.service.ToggleSelection(ctx, profile, &dto.ToggleSelectionRequest{ProductId: 1})
	require.NoError(t, err)
	stale, found := f.sessions.Get(profile.String())
	require.True(t, found)

	require.NoError(t, f.service.ForgetProfile(ctx, profile))

	// a toggle that still holds the old session lands after the delete
	stale.Selection.Toggle(ctx, testCatalog()[1])

	stored, err := f.prefs.FindOne(ctx, profile, constant.PreferenceKeySelectedProducts)
	require.NoError(t, err)
	assert.Nil(t, stored)
}
