package faq

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustAnswer(t *testing.T, s *Store, topic Topic) string {
	t.Helper()
	a, ok := s.Answer(topic)
	require.True(t, ok, "topic %q missing", topic)
	return a
}

func TestMatch_DefaultTable(t *testing.T) {
	r := DefaultRouter()
	s := DefaultStore()

	cases := []struct {
		input string
		topic Topic
	}{
		{"What programs do you offer?", TopicPrograms},
		{"How long is the course?", TopicDuration},
		{"Is it ONLINE?", TopicMode},
		{"online or offline please", TopicMode},
		{"Do I get a certificate?", TopicCertificates},
		{"Who are the coaches here", TopicMentors},
		{"tell me about your MENTORS", TopicMentors},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got, ok := r.Match(tc.input)
			require.True(t, ok)
			require.Equal(t, mustAnswer(t, s, tc.topic), got)

			topic, ok := r.MatchTopic(tc.input)
			require.True(t, ok)
			require.Equal(t, tc.topic, topic)
		})
	}
}

func TestMatch_NoMatch(t *testing.T) {
	r := DefaultRouter()
	got, ok := r.Match("asdkjasd random gibberish")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestMatch_NoTrimmingOrTokenization(t *testing.T) {
	r := DefaultRouter()
	// "howlong" is not "how long"; no normalization beyond lowercasing.
	_, ok := r.Match("howlong")
	require.False(t, ok)
	// Substrings inside larger words still match.
	topic, ok := r.MatchTopic("recertificates?!")
	require.True(t, ok)
	require.Equal(t, TopicCertificates, topic)
}

func TestMatch_FirstTriggerInDefinitionOrderWins(t *testing.T) {
	s := DefaultStore()
	r, err := NewRouter(s, []Trigger{
		{Phrase: "online", Topic: TopicMode},
		{Phrase: "how long", Topic: TopicDuration},
	})
	require.NoError(t, err)

	got, ok := r.Match("How long is the online course?")
	require.True(t, ok)
	require.Equal(t, mustAnswer(t, s, TopicMode), got)
}

func TestMatch_TopicIdentifierPassIsSecondary(t *testing.T) {
	s := DefaultStore()
	r, err := NewRouter(s, []Trigger{{Phrase: "coaches", Topic: TopicMentors}})
	require.NoError(t, err)

	// No trigger matches, but the topic "duration" appears literally.
	got, ok := r.Match("what about duration")
	require.True(t, ok)
	require.Equal(t, mustAnswer(t, s, TopicDuration), got)

	// A trigger hit beats an earlier topic literal.
	got, ok = r.Match("programs and coaches")
	require.True(t, ok)
	require.Equal(t, mustAnswer(t, s, TopicMentors), got)
}

func TestMatch_TopicPassFollowsStoreOrder(t *testing.T) {
	s := DefaultStore()
	r, err := NewRouter(s, nil)
	require.NoError(t, err)

	topic, ok := r.MatchTopic("mentors, mode and programs")
	require.True(t, ok)
	require.Equal(t, TopicPrograms, topic)
}

func TestMatch_OverlappingCertificateTriggers(t *testing.T) {
	r := DefaultRouter()
	topic, ok := r.MatchTopic("certificates")
	require.True(t, ok)
	require.Equal(t, TopicCertificates, topic)
}

func TestNewRouter_Validates(t *testing.T) {
	_, err := NewRouter(nil, DefaultTriggers())
	require.Error(t, err)

	_, err = NewRouter(DefaultStore(), []Trigger{{Phrase: "", Topic: TopicMode}})
	require.ErrorContains(t, err, "empty phrase")

	_, err = NewRouter(DefaultStore(), []Trigger{{Phrase: "fees", Topic: "pricing"}})
	require.ErrorContains(t, err, "unknown topic")
}

func TestLookup_ReturnsTopicAndAnswer(t *testing.T) {
	r := DefaultRouter()
	hit, ok := r.Lookup("Which programs are there?")
	require.True(t, ok)
	require.Equal(t, TopicPrograms, hit.Topic)
	require.Equal(t, mustAnswer(t, DefaultStore(), TopicPrograms), hit.Answer)

	_, ok = r.Lookup("")
	require.False(t, ok)
}
