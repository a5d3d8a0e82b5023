// Package conversation owns the conversation aggregate: it applies user turns,
// drives the dialogue policy and finalizes the classification exactly once.
package conversation

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"lead-qualifier/internal/classification"
	"lead-qualifier/internal/common/errors"
	"lead-qualifier/internal/common/logger"
	"lead-qualifier/internal/common/metrics"
	"lead-qualifier/internal/common/observability"
	"lead-qualifier/internal/dialogue"
	"lead-qualifier/internal/extraction"
	"lead-qualifier/internal/lead"
	"lead-qualifier/internal/models"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel/attribute"
)

// PersistenceWarning is returned with a turn whose classification could not be
// written to the ledger. The classification itself still stands.
const PersistenceWarning = "classification saved with warnings"

type IndustryLookup interface {
	Get(id string) (models.IndustryConfig, error)
}

type Ledger interface {
	Append(ctx context.Context, record models.ClassificationRecord) error
}

type Notifier interface {
	Notify(ctx context.Context, record models.ClassificationRecord) error
}

type Dependencies struct {
	Repository    Repository
	Industries    IndustryLookup
	Ledger        Ledger
	Notifier      Notifier
	Extractor     extraction.Extractor
	Clock         clockwork.Clock
	Observability *observability.Observability
	IDs           func() string
}

type Service struct {
	config     *Config
	repo       Repository
	industries IndustryLookup
	ledger     Ledger
	notifier   Notifier
	extractor  extraction.Extractor
	clock      clockwork.Clock
	obs        *observability.Observability
	newID      func() string
	trigger    Trigger
	locks      *Locker
	logger     logger.Logger
}

func NewService(cfg *Config, deps Dependencies, log logger.Logger) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.Extractor == nil {
		deps.Extractor = extraction.NewEngine(deps.Clock)
	}
	if deps.Observability == nil {
		deps.Observability = observability.NewNoop()
	}
	if deps.IDs == nil {
		deps.IDs = uuid.NewString
	}

	return &Service{
		config:     cfg,
		repo:       deps.Repository,
		industries: deps.Industries,
		ledger:     deps.Ledger,
		notifier:   deps.Notifier,
		extractor:  deps.Extractor,
		clock:      deps.Clock,
		obs:        deps.Observability,
		newID:      deps.IDs,
		trigger:    Trigger{GenericMinimumAge: cfg.GenericMinimumAge},
		locks:      NewLocker(),
		logger:     log.WithFields(map[string]interface{}{"component": "conversation-service"}),
	}
}

// CreateResult carries the greeting and, when the lead arrived with an
// initial message, the reply to it.
type CreateResult struct {
	ConversationID string                       `json:"conversationId"`
	SessionID      string                       `json:"sessionId"`
	Greeting       string                       `json:"greeting"`
	InitialReply   string                       `json:"initialReply,omitempty"`
	Classification *models.ClassificationResult `json:"classification,omitempty"`
}

type TurnResult struct {
	BotResponse    string                       `json:"botResponse"`
	Classification *models.ClassificationResult `json:"classification,omitempty"`
	Warning        string                       `json:"warning,omitempty"`
}

// CreateConversation opens a conversation owned by sessionID. An empty
// sessionID gets a fresh one, returned in the result.
func (s *Service) CreateConversation(ctx context.Context, sessionID string, info lead.Info) (*CreateResult, error) {
	if err := lead.Validate(info); err != nil {
		return nil, err
	}
	info = lead.Normalize(info, s.config.PhoneRegion, s.config.DefaultIndustry)

	industry, err := s.industries.Get(info.Industry)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(sessionID) == "" {
		sessionID = s.newID()
	}

	now := s.clock.Now()
	conv := &models.Conversation{
		ID:             s.newID(),
		OwnerSessionID: sessionID,
		Lead:           info.ToModel(),
		Industry:       industry,
		Messages:       []models.Message{},
		Status:         models.StatusActive,
		StartTime:      now,
		LastUpdateTime: now,
	}
	greeting := dialogue.Greeting(industry.ID, conv.Lead.Name)
	conv.AppendMessage(s.newID(), models.SenderBot, greeting, now)

	result := &CreateResult{ConversationID: conv.ID, SessionID: sessionID, Greeting: greeting}

	var turn turnOutcome
	if info.InitialMessage != "" {
		turn = s.applyTurn(ctx, conv, info.InitialMessage)
		result.InitialReply = turn.reply
	}

	if err := s.repo.Create(ctx, conv); err != nil {
		return nil, errors.NewPersistenceFailedError("conversation", err)
	}
	metrics.ConversationsCreated.WithLabelValues(industry.ID).Inc()

	s.logger.Info("conversation created", map[string]interface{}{
		"conversationId": conv.ID,
		"industry":       industry.ID,
		"source":         conv.Lead.Source,
	})

	if turn.finalized {
		result.Classification = conv.Classification
		s.publish(ctx, conv)
	}
	return result, nil
}

// SubmitUserMessage applies one user turn. Turns on the same conversation are
// serialized; only the owning session may submit.
func (s *Service) SubmitUserMessage(ctx context.Context, conversationID, sessionID, text string) (*TurnResult, error) {
	if strings.TrimSpace(conversationID) == "" {
		return nil, errors.NewValidationError("conversation id is required")
	}
	if strings.TrimSpace(text) == "" {
		return nil, errors.NewValidationError("message text is required")
	}

	unlock := s.locks.Lock(conversationID)
	defer unlock()

	conv, err := s.load(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv.OwnerSessionID != sessionID {
		s.logger.Warn("rejected message from non-owning session", map[string]interface{}{
			"conversationId": conversationID,
		})
		return nil, errors.NewAuthorizationError("session does not own conversation " + conversationID)
	}

	start := s.clock.Now()
	ctx, span := s.obs.StartSpan(ctx, "conversation.turn",
		attribute.String("conversation.id", conv.ID),
		attribute.String("industry", conv.Industry.ID),
	)

	turn := s.applyTurn(ctx, conv, text)

	if err := s.repo.Save(ctx, conv); err != nil {
		observability.EndSpan(span, err)
		return nil, errors.NewPersistenceFailedError("conversation", err)
	}

	result := &TurnResult{BotResponse: turn.reply}
	if turn.finalized {
		result.Classification = conv.Classification
		result.Warning = s.publish(ctx, conv)
	}

	elapsed := s.clock.Now().Sub(start)
	metrics.TurnsProcessed.WithLabelValues(conv.Industry.ID, turn.outcome).Inc()
	metrics.TurnDuration.WithLabelValues(conv.Industry.ID).Observe(elapsed.Seconds())
	s.obs.RecordTurn(ctx, conv.Industry.ID, turn.outcome, elapsed)
	observability.EndSpan(span, nil)

	return result, nil
}

func (s *Service) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.NewValidationError("conversation id is required")
	}
	return s.load(ctx, id)
}

func (s *Service) ListConversations(ctx context.Context) ([]*models.Conversation, error) {
	convs, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return convs, nil
}

// FinalizeResult.Applied is false when the conversation had already been
// classified.
type FinalizeResult struct {
	Classification *models.ClassificationResult `json:"classification"`
	Applied        bool                         `json:"applied"`
	Warning        string                       `json:"warning,omitempty"`
}

// Finalize classifies an active conversation regardless of readiness. A
// conversation that is already classified keeps its result and no second
// record is written. Only the owning session may finalize.
func (s *Service) Finalize(ctx context.Context, id, sessionID string) (*FinalizeResult, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.NewValidationError("conversation id is required")
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	conv, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if conv.OwnerSessionID != sessionID {
		s.logger.Warn("rejected finalize from non-owning session", map[string]interface{}{
			"conversationId": id,
		})
		return nil, errors.NewAuthorizationError("session does not own conversation " + id)
	}
	if conv.Status != models.StatusActive {
		return &FinalizeResult{Classification: conv.Classification}, nil
	}

	s.classify(conv)
	if err := s.repo.Save(ctx, conv); err != nil {
		return nil, errors.NewPersistenceFailedError("conversation", err)
	}
	return &FinalizeResult{
		Classification: conv.Classification,
		Applied:        true,
		Warning:        s.publish(ctx, conv),
	}, nil
}

func (s *Service) load(ctx context.Context, id string) (*models.Conversation, error) {
	conv, err := s.repo.Get(ctx, id)
	if stderrors.Is(err, ErrConversationNotFound) {
		return nil, errors.NewNotFoundError("conversation", id)
	}
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return conv, nil
}

type turnOutcome struct {
	reply     string
	finalized bool
	outcome   string
}

const (
	outcomeReplied          = "replied"
	outcomeClassified       = "classified"
	outcomeExtractionFailed = "extraction_failed"
)

// applyTurn mutates conv in place: user message, metadata merge, bot reply,
// then the readiness check.
func (s *Service) applyTurn(ctx context.Context, conv *models.Conversation, text string) turnOutcome {
	now := s.clock.Now()
	history := conv.UserTexts()
	conv.AppendMessage(s.newID(), models.SenderUser, text, now)

	out := turnOutcome{outcome: outcomeReplied}

	update, err := s.extract(text, conv.Industry, history)
	if err != nil {
		s.logger.WithError(err).Warn("metadata extraction failed, keeping previous metadata", map[string]interface{}{
			"conversationId": conv.ID,
		})
		out.reply = dialogue.PolicyFor(conv.Industry.ID).Fallback()
		out.outcome = outcomeExtractionFailed
	} else {
		conv.MergeMetadata(update)
		out.reply = dialogue.NextReply(conv)
	}
	conv.AppendMessage(s.newID(), models.SenderBot, out.reply, now)

	if s.trigger.ShouldClassify(conv, now) {
		_, span := s.obs.StartSpan(ctx, "conversation.classify", attribute.String("conversation.id", conv.ID))
		out.finalized = s.classify(conv)
		observability.EndSpan(span, nil)
		if out.finalized && out.outcome == outcomeReplied {
			out.outcome = outcomeClassified
		}
	}
	return out
}

// extract contains extractor failures, panics included.
func (s *Service) extract(text string, industry models.IndustryConfig, history []string) (update models.Metadata, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.NewExtractionFailedError(fmt.Errorf("extractor panic: %v", r))
		}
	}()

	update, err = s.extractor.Extract(text, industry, history)
	if err != nil {
		return models.Metadata{}, errors.NewExtractionFailedError(err)
	}
	return update, nil
}

func (s *Service) classify(conv *models.Conversation) bool {
	result := classification.Classify(conv.Messages, conv.Metadata, conv.Industry)
	if !conv.MarkClassified(result) {
		return false
	}

	metrics.Classifications.WithLabelValues(conv.Industry.ID, string(result.Status)).Inc()
	s.obs.RecordClassification(context.Background(), conv.Industry.ID, string(result.Status))
	s.logger.Info("conversation classified", map[string]interface{}{
		"conversationId": conv.ID,
		"status":         result.Status,
		"confidence":     result.Confidence,
	})
	return true
}

// publish appends the record and notifies. Neither can undo the
// classification; a ledger failure only yields the warning text.
func (s *Service) publish(ctx context.Context, conv *models.Conversation) string {
	record, ok := models.NewClassificationRecord(conv, s.clock.Now())
	if !ok {
		return ""
	}

	warning := ""
	appendCtx, cancel := context.WithTimeout(ctx, s.config.PersistenceTimeout)
	err := s.ledger.Append(appendCtx, record)
	cancel()
	if err != nil {
		metrics.LedgerAppendFailures.WithLabelValues(s.config.LedgerBackend).Inc()
		s.logger.WithError(errors.NewPersistenceFailedError("ledger", err)).Warn("failed to persist classification record", map[string]interface{}{
			"conversationId": conv.ID,
			"backend":        s.config.LedgerBackend,
		})
		warning = PersistenceWarning
	}

	if s.notifier != nil {
		notifyCtx, cancel := context.WithTimeout(ctx, s.config.NotificationTimeout)
		if err := s.notifier.Notify(notifyCtx, record); err != nil {
			s.logger.WithError(err).Warn("lead notification failed", map[string]interface{}{
				"conversationId": conv.ID,
			})
		}
		cancel()
	}
	return warning
}

// Now is the service clock, exposed for callers that stamp responses.
func (s *Service) Now() time.Time {
	return s.clock.Now()
}
