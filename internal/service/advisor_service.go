package service

import (
	"context"
	"errors"

	"routine-advisor-be/internal/constant"
	"routine-advisor-be/internal/dto"
	"routine-advisor-be/internal/entity"
	"routine-advisor-be/internal/pkg/logger"
	"routine-advisor-be/internal/repository/contract"
	"routine-advisor-be/internal/repository/memory"
	"routine-advisor-be/pkg/advisor"
	"routine-advisor-be/pkg/catalog"
	"routine-advisor-be/pkg/conversation"
	"routine-advisor-be/pkg/events"
	"routine-advisor-be/pkg/selection"
	"routine-advisor-be/pkg/store"

	"github.com/google/uuid"
)

const (
	ModeRoutine   = "routine"
	ModeDefault   = "default"
	ModeWebSearch = "web_search"
)

// IAdvisorService exposes the commands behind the widget: browsing, selecting, and chatting.
type IAdvisorService interface {
	ListProducts(ctx context.Context, profileId uuid.UUID, request *dto.ListProductsRequest) (*dto.ListProductsResponse, error)
	ListCategories(ctx context.Context) (*dto.ListCategoriesResponse, error)

	GetSelection(ctx context.Context, profileId uuid.UUID) (*dto.SelectionResponse, error)
	ToggleSelection(ctx context.Context, profileId uuid.UUID, request *dto.ToggleSelectionRequest) (*dto.SelectionResponse, error)
	RemoveSelection(ctx context.Context, profileId uuid.UUID, productId int) (*dto.SelectionResponse, error)
	ClearSelection(ctx context.Context, profileId uuid.UUID) (*dto.SelectionResponse, error)

	GenerateRoutine(ctx context.Context, profileId uuid.UUID) (*dto.ChatReplyResponse, error)
	SubmitQuestion(ctx context.Context, profileId uuid.UUID, request *dto.SubmitQuestionRequest) (*dto.ChatReplyResponse, error)
	GetTranscript(ctx context.Context, profileId uuid.UUID) (*dto.TranscriptResponse, error)
	ResetConversation(ctx context.Context, profileId uuid.UUID) error

	GetDirection(ctx context.Context, profileId uuid.UUID) (*dto.DirectionResponse, error)
	SetDirection(ctx context.Context, profileId uuid.UUID, request *dto.SetDirectionRequest) (*dto.DirectionResponse, error)
	ToggleDirection(ctx context.Context, profileId uuid.UUID) (*dto.DirectionResponse, error)
	ForgetProfile(ctx context.Context, profileId uuid.UUID) error
}

type advisorService struct {
	catalogCache   *catalog.Cache
	preferenceRepo contract.PreferenceRepository
	sessionRepo    *memory.SessionRepository
	pipeline       *advisor.Pipeline
	publisher      IPublisherService
	logger         logger.ILogger
}

func NewAdvisorService(
	catalogCache *catalog.Cache,
	preferenceRepo contract.PreferenceRepository,
	sessionRepo *memory.SessionRepository,
	pipeline *advisor.Pipeline,
	publisher IPublisherService,
	log logger.ILogger,
) IAdvisorService {
	return &advisorService{
		catalogCache:   catalogCache,
		preferenceRepo: preferenceRepo,
		sessionRepo:    sessionRepo,
		pipeline:       pipeline,
		publisher:      publisher,
		logger:         log,
	}
}

// session returns the profile's live session. When the preference store cannot be read no
// session is cached, so the next request retries the restore.
func (s *advisorService) session(ctx context.Context, profileId uuid.UUID) (*store.Session, error) {
	return s.sessionRepo.GetOrCreate(profileId.String(), func() (*store.Session, error) {
		prefs := selection.NewPreferenceStore(s.preferenceRepo, profileId, s.logger)
		sel, err := selection.NewManager(ctx, prefs, s.logger)
		if err != nil {
			return nil, err
		}
		s.logger.Debug("AdvisorService", "Session restored", map[string]interface{}{
			"profile_id": profileId,
			"selected":   len(sel.List()),
		})
		return store.NewSession(profileId, sel, conversation.NewManager(), prefs), nil
	})
}

// notify publishes a change notification; the command has already succeeded, so failures
// are only logged.
func (s *advisorService) notify(ctx context.Context, eventType string, profileId uuid.UUID, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewEvent(eventType, profileId.String(), data)); err != nil {
		s.logger.Warn("AdvisorService", "Failed to publish change event", map[string]interface{}{
			"type":  eventType,
			"error": err.Error(),
		})
	}
}

// --- Catalog ---

func (s *advisorService) ListProducts(ctx context.Context, profileId uuid.UUID, request *dto.ListProductsRequest) (*dto.ListProductsResponse, error) {
	sess, err := s.session(ctx, profileId)
	if err != nil {
		return nil, err
	}
	filter := catalog.NewFilterState(request.Category, request.Query)
	sess.SetFilter(filter)

	products, err := s.catalogCache.EnsureLoaded(ctx)
	if err != nil {
		return nil, err
	}

	filtered := catalog.Apply(products, filter)
	response := &dto.ListProductsResponse{
		Category: filter.Category,
		Query:    filter.Query,
		Products: make([]*dto.ProductResponse, 0, len(filtered)),
	}
	for _, p := range filtered {
		response.Products = append(response.Products, &dto.ProductResponse{
			Product:  p,
			Selected: sess.Selection.Contains(p.Id),
		})
	}
	if len(filtered) == 0 {
		response.Placeholder = constant.MessageNoProductsFound
	}

	return response, nil
}

func (s *advisorService) ListCategories(ctx context.Context) (*dto.ListCategoriesResponse, error) {
	products, err := s.catalogCache.EnsureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ListCategoriesResponse{Categories: catalog.Categories(products)}, nil
}

// --- Selection ---

func selectionResponse(products []entity.Product) *dto.SelectionResponse {
	response := &dto.SelectionResponse{Products: products, Count: len(products)}
	if len(products) == 0 {
		response.Placeholder = constant.MessageNoSelection
	}
	return response
}

func (s *advisorService) selectionChanged(ctx context.Context, profileId uuid.UUID, products []entity.Product) *dto.SelectionResponse {
	ids := make([]int, len(products))
	for i, p := range products {
		ids[i] = p.Id
	}
	s.notify(ctx, events.TypeSelectionChanged, profileId, map[string]interface{}{"product_ids": ids})
	return selectionResponse(products)
}

func (s *advisorService) GetSelection(ctx context.Context, profileId uuid.UUID) (*dto.SelectionResponse, error) {
	sess, err := s.session(ctx, profileId)
	if err != nil {
		return nil, err
	}
	return selectionResponse(sess.Selection.List()), nil
}

func (s *advisorService) ToggleSelection(ctx context.Context, profileId uuid.UUID, request *dto.ToggleSelectionRequest) (*dto.SelectionResponse, error) {
	sess, err := s.session(ctx, profileId)
	if err != nil {
		return nil, err
	}

	product, found := sess.Selection.Get(request.ProductId)
	if !found {
		product, found, err = s.catalogCache.Find(ctx, request.ProductId)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, catalog.ErrProductNotFound
		}
	}

	return s.selectionChanged(ctx, profileId, sess.Selection.Toggle(ctx, product)), nil
}

func (s *advisorService) RemoveSelection(ctx context.Context, profileId uuid.UUID, productId int) (*dto.SelectionResponse, error) {
	sess, err := s.session(ctx, profileId)
	if err != nil {
		return nil, err
	}

	product, found := sess.Selection.Get(productId)
	if !found {
		return nil, catalog.ErrProductNotFound
	}

	return s.selectionChanged(ctx, profileId, sess.Selection.Toggle(ctx, product)), nil
}

func (s *advisorService) ClearSelection(ctx context.Context, profileId uuid.UUID) (*dto.SelectionResponse, error) {
	sess, err := s.session(ctx, profileId)
	if err != nil {
		return nil, err
	}
	sess.Selection.Clear(ctx)
	return s.selectionChanged(ctx, profileId, sess.Selection.List()), nil
}

// --- Conversation ---

func (s *advisorService) GenerateRoutine(ctx context.Context, profileId uuid.UUID) (*dto.ChatReplyResponse, error) {
	sess, err := s.session(ctx, profileId)
	if err != nil {
		return nil, err
	}
	selected := sess.Selection.List()
	if len(selected) == 0 {
		return nil, advisor.ErrEmptySelection
	}

	if err := sess.Conversation.TryBegin(); err != nil {
		return nil, err
	}
	defer sess.Conversation.End()

	transcript, err := advisor.BuildRoutineRequest(sess.Conversation, selected)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, events.TypeTranscriptChanged, profileId, pendingData(transcript, constant.MessageGeneratingRoutine))

	return s.complete(ctx, sess, transcript, ModeRoutine)
}

func (s *advisorService) SubmitQuestion(ctx context.Context, profileId uuid.UUID, request *dto.SubmitQuestionRequest) (*dto.ChatReplyResponse, error) {
	sess, err := s.session(ctx, profileId)
	if err != nil {
		return nil, err
	}

	if err := sess.Conversation.TryBegin(); err != nil {
		return nil, err
	}
	defer sess.Conversation.End()

	transcript, err := advisor.BuildFollowUpRequest(sess.Conversation, request.Question, request.WebSearch)
	if err != nil {
		return nil, err
	}
	mode, status := ModeDefault, constant.MessageThinking
	if request.WebSearch {
		mode, status = ModeWebSearch, constant.MessageSearchingWeb
	}
	s.notify(ctx, events.TypeTranscriptChanged, profileId, pendingData(transcript, status))

	return s.complete(ctx, sess, transcript, mode)
}

// pendingData describes a transcript waiting on the assistant; status is the loading hint.
func pendingData(transcript []entity.ConversationTurn, status string) map[string]interface{} {
	return map[string]interface{}{"turns": len(transcript), "pending": true, "status": status}
}

// complete sends the transcript and records the reply. On failure nothing is appended: the
// user's turn stays, unanswered.
func (s *advisorService) complete(ctx context.Context, sess *store.Session, transcript []entity.ConversationTurn, mode string) (*dto.ChatReplyResponse, error) {
	reply, err := s.pipeline.Send(ctx, transcript)
	if err != nil {
		s.logger.Error("AdvisorService", "Assistant request failed", map[string]interface{}{
			"profile_id": sess.ProfileID,
			"mode":       mode,
			"error":      err,
		})
		return nil, err
	}

	sess.Conversation.AppendAssistant(reply)
	snapshot := sess.Conversation.Snapshot()
	s.notify(ctx, events.TypeTranscriptChanged, sess.ProfileID, map[string]interface{}{"turns": len(snapshot), "pending": false})

	return &dto.ChatReplyResponse{
		Reply:      reply,
		Mode:       mode,
		Transcript: snapshot,
	}, nil
}

func (s *advisorService) GetTranscript(ctx context.Context, profileId uuid.UUID) (*dto.TranscriptResponse, error) {
	sess, err := s.session(ctx, profileId)
	if err != nil {
		return nil, err
	}
	return &dto.TranscriptResponse{
		Turns: sess.Conversation.Snapshot(),
		Busy:  sess.Conversation.Busy(),
	}, nil
}

func (s *advisorService) ResetConversation(ctx context.Context, profileId uuid.UUID) error {
	sess, err := s.session(ctx, profileId)
	if err != nil {
		return err
	}
	if err := sess.Conversation.TryBegin(); err != nil {
		return err
	}
	sess.Conversation.Reset()
	sess.Conversation.End()
	s.notify(ctx, events.TypeTranscriptChanged, profileId, map[string]interface{}{"turns": 0, "pending": false})
	return nil
}

// --- Preferences ---

func directionResponse(d selection.Direction) *dto.DirectionResponse {
	return &dto.DirectionResponse{Direction: string(d), Lang: d.Lang()}
}

func (s *advisorService) GetDirection(ctx context.Context, profileId uuid.UUID) (*dto.DirectionResponse, error) {
	sess, err := s.session(ctx, profileId)
	if err != nil {
		return nil, err
	}
	direction, err := sess.Preferences.LoadDirection(ctx)
	if err != nil {
		return nil, err
	}
	return directionResponse(direction), nil
}

func (s *advisorService) SetDirection(ctx context.Context, profileId uuid.UUID, request *dto.SetDirectionRequest) (*dto.DirectionResponse, error) {
	sess, err := s.session(ctx, profileId)
	if err != nil {
		return nil, err
	}
	direction, _ := selection.ParseDirection(request.Direction)
	return s.saveDirection(ctx, sess, direction)
}

func (s *advisorService) ToggleDirection(ctx context.Context, profileId uuid.UUID) (*dto.DirectionResponse, error) {
	sess, err := s.session(ctx, profileId)
	if err != nil {
		return nil, err
	}
	current, err := sess.Preferences.LoadDirection(ctx)
	if err != nil {
		return nil, err
	}
	return s.saveDirection(ctx, sess, current.Toggle())
}

func (s *advisorService) saveDirection(ctx context.Context, sess *store.Session, direction selection.Direction) (*dto.DirectionResponse, error) {
	if err := sess.Preferences.SaveDirection(ctx, direction); err != nil {
		s.logger.Error("AdvisorService", "Failed to persist text direction", map[string]interface{}{
			"profile_id": sess.ProfileID,
			"error":      err,
		})
	}
	s.notify(ctx, events.TypeDirectionChanged, sess.ProfileID, map[string]interface{}{"direction": string(direction)})
	return directionResponse(direction), nil
}

// ForgetProfile drops everything stored for the profile and ends its live session. The old
// session is detached first so a toggle still holding it cannot write the selection back.
func (s *advisorService) ForgetProfile(ctx context.Context, profileId uuid.UUID) error {
	err := s.sessionRepo.Evict(profileId.String(), func(sess *store.Session) error {
		if sess != nil {
			if sess.Conversation.Busy() {
				return conversation.ErrConversationBusy
			}
			sess.Selection.Detach()
		}
		return s.preferenceRepo.DeleteAllByProfileId(ctx, profileId)
	})
	if errors.Is(err, conversation.ErrConversationBusy) {
		return err
	}
	if err != nil {
		// the live session is already detached; let the next request restore a fresh one
		s.sessionRepo.Delete(profileId.String())
		return err
	}

	s.notify(ctx, events.TypeSelectionChanged, profileId, map[string]interface{}{"product_ids": []int{}})
	s.notify(ctx, events.TypeDirectionChanged, profileId, map[string]interface{}{"direction": string(selection.DirectionLTR)})
	return nil
}
