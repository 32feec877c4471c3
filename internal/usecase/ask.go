package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"faq-agent/internal/domain"
	"faq-agent/internal/faq"
	"faq-agent/internal/transcript"
)

const defaultMaxQuestion = 1000

type AskService struct {
	router         *faq.Router
	fallback       *FallbackResponder
	store          transcript.Store
	maxQuestionLen int
	logger         *slog.Logger
}

type AskInput struct {
	Question  string
	SessionID string
}

type AskOutput struct {
	Answer    string
	SessionID string
	Source    Source
	Topic     faq.Topic
	Messages  []domain.Message
}

func NewAskService(router *faq.Router, fallback *FallbackResponder, store transcript.Store, maxQuestionLen int, logger *slog.Logger) (*AskService, error) {
	if router == nil {
		return nil, errors.New("usecase: router must not be nil")
	}
	if store == nil {
		return nil, errors.New("usecase: transcript store must not be nil")
	}
	if fallback == nil {
		fallback = NewFallbackResponder(nil, logger)
	}
	if maxQuestionLen <= 0 {
		maxQuestionLen = defaultMaxQuestion
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AskService{
		router:         router,
		fallback:       fallback,
		store:          store,
		maxQuestionLen: maxQuestionLen,
		logger:         logger,
	}, nil
}

// Ask answers one question within a session, creating the session when no id
// is given, and persists the new turn.
func (s *AskService) Ask(ctx context.Context, in AskInput) (AskOutput, error) {
	question := strings.TrimSpace(in.Question)
	if question == "" {
		return AskOutput{}, newError(ErrorInvalidInput, "empty_question", nil)
	}
	if len(question) > s.maxQuestionLen {
		return AskOutput{}, newError(ErrorInvalidInput, "question_too_long", nil)
	}

	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		sessionID = newUUID()
	}

	t, err := s.load(ctx, sessionID)
	if err != nil {
		return AskOutput{}, err
	}
	offset := t.Len() - 1

	conv := NewConversation(s.router, s.fallback, t)
	reply := conv.Respond(ctx, question)

	stored := t.Stored()
	user, bot := stored[offset], stored[offset+1]
	if err := s.store.AppendTurn(ctx, sessionID, offset, user, bot); err != nil {
		if errors.Is(err, transcript.ErrOffsetConflict) {
			return AskOutput{}, newError(ErrorInternal, "transcript_conflict", err)
		}
		return AskOutput{}, newError(ErrorInternal, "transcript_write_error", err)
	}

	s.logger.InfoContext(ctx, "answered question",
		"session_id", sessionID,
		"source", string(reply.Source),
		"topic", string(reply.Topic),
	)

	return AskOutput{
		Answer:    reply.Answer,
		SessionID: sessionID,
		Source:    reply.Source,
		Topic:     reply.Topic,
		Messages:  t.All(),
	}, nil
}

// Transcript returns the full transcript of a session, greeting included.
// Unknown sessions yield just the greeting.
func (s *AskService) Transcript(ctx context.Context, sessionID string) ([]domain.Message, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, newError(ErrorInvalidInput, "empty_session_id", nil)
	}
	t, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return t.All(), nil
}

func (s *AskService) load(ctx context.Context, sessionID string) (*transcript.Transcript, error) {
	stored, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, newError(ErrorInternal, "transcript_read_error", err)
	}
	return transcript.Restore(stored), nil
}

var newUUID = func() string {
	return uuid.NewString()
}
