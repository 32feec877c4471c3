package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"faq-agent/internal/domain"
	"faq-agent/internal/faq"
	"faq-agent/internal/transcript"
)

type mockStore struct {
	stored    []domain.Message
	loadErr   error
	appendErr error

	appendInvoked bool
	savedSession  string
	savedOffset   int
	savedUser     domain.Message
	savedBot      domain.Message
}

func (m *mockStore) Load(_ context.Context, _ string) ([]domain.Message, error) {
	return m.stored, m.loadErr
}

func (m *mockStore) AppendTurn(_ context.Context, sessionID string, offset int, user, bot domain.Message) error {
	m.appendInvoked = true
	m.savedSession = sessionID
	m.savedOffset = offset
	m.savedUser = user
	m.savedBot = bot
	return m.appendErr
}

func newTestService(t *testing.T, c Completer, s transcript.Store) *AskService {
	t.Helper()
	svc, err := NewAskService(faq.DefaultRouter(), NewFallbackResponder(c, nil), s, 300, nil)
	require.NoError(t, err)
	return svc
}

func expectAskError(t *testing.T, err error, code ErrorCode, reason string) {
	t.Helper()
	var usecaseErr *Error
	require.ErrorAs(t, err, &usecaseErr)
	require.Equal(t, code, usecaseErr.Code)
	require.Equal(t, reason, usecaseErr.Reason)
}

func TestNewAskService_ValidatesDependencies(t *testing.T) {
	_, err := NewAskService(nil, nil, &mockStore{}, 0, nil)
	require.Error(t, err)

	_, err = NewAskService(faq.DefaultRouter(), nil, nil, 0, nil)
	require.Error(t, err)

	svc, err := NewAskService(faq.DefaultRouter(), nil, &mockStore{}, 0, nil)
	require.NoError(t, err)
	require.Equal(t, defaultMaxQuestion, svc.maxQuestionLen)
	require.False(t, svc.fallback.Available())
}

func TestAsk_HappyPath(t *testing.T) {
	store := &mockStore{}
	svc := newTestService(t, nil, store)

	out, err := svc.Ask(context.Background(), AskInput{Question: "  How long is the course?  ", SessionID: "s-1"})
	require.NoError(t, err)
	require.Equal(t, faqAnswer(t, faq.TopicDuration), out.Answer)
	require.Equal(t, "s-1", out.SessionID)
	require.Equal(t, SourceKeyword, out.Source)
	require.Equal(t, faq.TopicDuration, out.Topic)
	require.Len(t, out.Messages, 3)

	require.True(t, store.appendInvoked)
	require.Equal(t, "s-1", store.savedSession)
	require.Equal(t, 0, store.savedOffset)
	require.Equal(t, domain.UserMessage("How long is the course?"), store.savedUser)
	require.Equal(t, domain.BotMessage(out.Answer), store.savedBot)
}

func TestAsk_ContinuesExistingSession(t *testing.T) {
	store := &mockStore{stored: []domain.Message{
		domain.UserMessage("hi"), domain.BotMessage(DefaultAnswer),
	}}
	svc := newTestService(t, nil, store)

	out, err := svc.Ask(context.Background(), AskInput{Question: "Is it online?", SessionID: "s-1"})
	require.NoError(t, err)
	require.Equal(t, 2, store.savedOffset)
	require.Len(t, out.Messages, 5)
	require.Equal(t, domain.BotMessage(transcript.Greeting), out.Messages[0])
	require.Equal(t, domain.UserMessage("hi"), out.Messages[1])
	require.Equal(t, domain.UserMessage("Is it online?"), out.Messages[3])
}

func TestAsk_MissingSessionID_GeneratesID(t *testing.T) {
	orig := newUUID
	newUUID = func() string { return "generated-id" }
	t.Cleanup(func() { newUUID = orig })

	store := &mockStore{}
	svc := newTestService(t, nil, store)

	out, err := svc.Ask(context.Background(), AskInput{Question: "Who are the mentors?"})
	require.NoError(t, err)
	require.Equal(t, "generated-id", out.SessionID)
	require.Equal(t, "generated-id", store.savedSession)
}

func TestAsk_FallbackAndDefault(t *testing.T) {
	svc := newTestService(t, &mockCompleter{answer: "Remote says hi."}, &mockStore{})
	out, err := svc.Ask(context.Background(), AskInput{Question: "What is the fee?", SessionID: "s"})
	require.NoError(t, err)
	require.Equal(t, "Remote says hi.", out.Answer)
	require.Equal(t, SourceFallback, out.Source)

	svc = newTestService(t, &mockCompleter{err: errors.New("boom")}, &mockStore{})
	out, err = svc.Ask(context.Background(), AskInput{Question: "What is the fee?", SessionID: "s"})
	require.NoError(t, err)
	require.Equal(t, DefaultAnswer, out.Answer)
	require.Equal(t, SourceDefault, out.Source)
}

func TestAsk_ValidationErrors(t *testing.T) {
	store := &mockStore{}
	svc := newTestService(t, nil, store)

	_, err := svc.Ask(context.Background(), AskInput{Question: "   "})
	expectAskError(t, err, ErrorInvalidInput, "empty_question")

	_, err = svc.Ask(context.Background(), AskInput{Question: strings.Repeat("a", 301)})
	expectAskError(t, err, ErrorInvalidInput, "question_too_long")

	require.False(t, store.appendInvoked)
}

func TestAsk_StoreErrors(t *testing.T) {
	svc := newTestService(t, nil, &mockStore{loadErr: errors.New("read failed")})
	_, err := svc.Ask(context.Background(), AskInput{Question: "Is it online?", SessionID: "s"})
	expectAskError(t, err, ErrorInternal, "transcript_read_error")

	svc = newTestService(t, nil, &mockStore{appendErr: errors.New("write failed")})
	_, err = svc.Ask(context.Background(), AskInput{Question: "Is it online?", SessionID: "s"})
	expectAskError(t, err, ErrorInternal, "transcript_write_error")

	svc = newTestService(t, nil, &mockStore{appendErr: transcript.ErrOffsetConflict})
	_, err = svc.Ask(context.Background(), AskInput{Question: "Is it online?", SessionID: "s"})
	expectAskError(t, err, ErrorInternal, "transcript_conflict")
	require.ErrorIs(t, err, transcript.ErrOffsetConflict)
}

func TestAsk_WithMemoryStore_GrowsByTwoPerCall(t *testing.T) {
	store := transcript.NewMemoryStore()
	svc := newTestService(t, nil, store)
	ctx := context.Background()

	questions := []string{"What programs do you offer?", "gibberish", "Do I get a certificate?"}
	for _, q := range questions {
		_, err := svc.Ask(ctx, AskInput{Question: q, SessionID: "s-1"})
		require.NoError(t, err)
	}

	msgs, err := svc.Transcript(ctx, "s-1")
	require.NoError(t, err)
	require.Len(t, msgs, 1+2*len(questions))
	for i := 1; i < len(msgs); i++ {
		want := domain.RoleUser
		if i%2 == 0 {
			want = domain.RoleBot
		}
		require.Equal(t, want, msgs[i].Role, "index %d", i)
	}
	require.Equal(t, DefaultAnswer, msgs[4].Content)
}

func TestTranscript_UnknownSessionHasGreetingOnly(t *testing.T) {
	svc := newTestService(t, nil, transcript.NewMemoryStore())
	msgs, err := svc.Transcript(context.Background(), "nope")
	require.NoError(t, err)
	require.Equal(t, []domain.Message{domain.BotMessage(transcript.Greeting)}, msgs)

	_, err = svc.Transcript(context.Background(), " ")
	expectAskError(t, err, ErrorInvalidInput, "empty_session_id")
}
