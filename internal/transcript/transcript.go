package transcript

import "faq-agent/internal/domain"

// Greeting seeds every new transcript.
const Greeting = "Hi! I'm your Iron Lady assistant. How can I help you today?"

// Transcript is the ordered, append-only message history of one session.
// It is owned by a single conversation and is not safe for concurrent use.
type Transcript struct {
	messages []domain.Message
}

// New returns a transcript holding only the greeting.
func New() *Transcript {
	return &Transcript{messages: []domain.Message{domain.BotMessage(Greeting)}}
}

// Restore rebuilds a session transcript from the messages stored after the
// greeting.
func Restore(stored []domain.Message) *Transcript {
	t := New()
	t.messages = append(t.messages, stored...)
	return t
}

func (t *Transcript) Append(m domain.Message) {
	t.messages = append(t.messages, m)
}

// All returns a copy of the messages in insertion order.
func (t *Transcript) All() []domain.Message {
	out := make([]domain.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

func (t *Transcript) Len() int {
	return len(t.messages)
}

// Stored returns the messages after the greeting, the part a Store persists.
func (t *Transcript) Stored() []domain.Message {
	return t.All()[1:]
}
