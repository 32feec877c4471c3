package usecase

import (
	"context"

	"faq-agent/internal/domain"
	"faq-agent/internal/faq"
	"faq-agent/internal/transcript"
)

// DefaultAnswer is returned when neither the keyword router nor the fallback
// produce an answer.
const DefaultAnswer = "Sorry, I don't have that info. Please contact Iron Lady support."

// Source names the component that produced a reply.
type Source string

const (
	SourceKeyword  Source = "keyword"
	SourceFallback Source = "fallback"
	SourceDefault  Source = "default"
)

// Reply is the answer to one user utterance.
type Reply struct {
	Answer string
	Source Source
	// Topic is set only for SourceKeyword.
	Topic faq.Topic
}

// Conversation answers utterances for one session and records them in the
// session's transcript. It handles one utterance at a time.
type Conversation struct {
	router     *faq.Router
	fallback   *FallbackResponder
	transcript *transcript.Transcript
}

func NewConversation(router *faq.Router, fallback *FallbackResponder, t *transcript.Transcript) *Conversation {
	if t == nil {
		t = transcript.New()
	}
	return &Conversation{router: router, fallback: fallback, transcript: t}
}

// Respond tries the keyword router, then the fallback, then DefaultAnswer,
// and appends the user message and the reply to the transcript.
func (c *Conversation) Respond(ctx context.Context, input string) Reply {
	reply := c.answer(ctx, input)
	c.transcript.Append(domain.UserMessage(input))
	c.transcript.Append(domain.BotMessage(reply.Answer))
	return reply
}

func (c *Conversation) answer(ctx context.Context, input string) Reply {
	if c.router != nil {
		if hit, ok := c.router.Lookup(input); ok {
			return Reply{Answer: hit.Answer, Source: SourceKeyword, Topic: hit.Topic}
		}
	}
	if res := c.fallback.Complete(ctx, input); res.OK {
		return Reply{Answer: res.Answer, Source: SourceFallback}
	}
	return Reply{Answer: DefaultAnswer, Source: SourceDefault}
}

// Transcript returns the session transcript.
func (c *Conversation) Transcript() *transcript.Transcript {
	return c.transcript
}
