package faq

import (
	"errors"
	"fmt"
	"strings"
)

// Trigger is a literal phrase whose presence in user input selects a topic.
type Trigger struct {
	Phrase string
	Topic  Topic
}

// DefaultTriggers returns the trigger table in priority order. Overlapping
// phrases such as "certificate" and "certificates" are intentionally left as
// is: the first one listed wins.
func DefaultTriggers() []Trigger {
	return []Trigger{
		{Phrase: "what programs", Topic: TopicPrograms},
		{Phrase: "programs does", Topic: TopicPrograms},
		{Phrase: "which programs", Topic: TopicPrograms},
		{Phrase: "program duration", Topic: TopicDuration},
		{Phrase: "how long", Topic: TopicDuration},
		{Phrase: "duration", Topic: TopicDuration},
		{Phrase: "online or offline", Topic: TopicMode},
		{Phrase: "is the program online", Topic: TopicMode},
		{Phrase: "is it online", Topic: TopicMode},
		{Phrase: "certificate", Topic: TopicCertificates},
		{Phrase: "certificates", Topic: TopicCertificates},
		{Phrase: "who are the mentors", Topic: TopicMentors},
		{Phrase: "who are the coaches", Topic: TopicMentors},
		{Phrase: "mentors", Topic: TopicMentors},
		{Phrase: "coaches", Topic: TopicMentors},
	}
}

// Router matches free text against the trigger table, then against the topic
// identifiers themselves.
type Router struct {
	store    *Store
	triggers []Trigger
}

func NewRouter(store *Store, triggers []Trigger) (*Router, error) {
	if store == nil {
		return nil, errors.New("faq: store must not be nil")
	}
	owned := make([]Trigger, 0, len(triggers))
	for i, t := range triggers {
		if t.Phrase == "" {
			return nil, fmt.Errorf("faq: trigger %d has an empty phrase", i)
		}
		if _, ok := store.Answer(t.Topic); !ok {
			return nil, fmt.Errorf("faq: trigger %q references unknown topic %q", t.Phrase, t.Topic)
		}
		// Inputs are lowercased before matching, so phrases must be too.
		owned = append(owned, Trigger{Phrase: strings.ToLower(t.Phrase), Topic: t.Topic})
	}
	return &Router{store: store, triggers: owned}, nil
}

// DefaultRouter wires DefaultStore with DefaultTriggers.
func DefaultRouter() *Router {
	r, err := NewRouter(DefaultStore(), DefaultTriggers())
	if err != nil {
		panic(err)
	}
	return r
}

// Hit is a successful lookup.
type Hit struct {
	Topic  Topic
	Answer string
}

// Lookup scans the triggers in definition order, then the topic identifiers
// in store order, and returns the first substring hit of the lowercased input.
func (r *Router) Lookup(input string) (Hit, bool) {
	normalized := strings.ToLower(input)
	for _, t := range r.triggers {
		if strings.Contains(normalized, t.Phrase) {
			return r.hit(t.Topic), true
		}
	}
	for _, topic := range r.store.order {
		if strings.Contains(normalized, string(topic)) {
			return r.hit(topic), true
		}
	}
	return Hit{}, false
}

func (r *Router) hit(topic Topic) Hit {
	answer, _ := r.store.Answer(topic)
	return Hit{Topic: topic, Answer: answer}
}

// MatchTopic returns the topic selected for input, if any.
func (r *Router) MatchTopic(input string) (Topic, bool) {
	h, ok := r.Lookup(input)
	return h.Topic, ok
}

// Match returns the canned answer for input. A miss is reported with ok=false
// and is not an error.
func (r *Router) Match(input string) (string, bool) {
	h, ok := r.Lookup(input)
	return h.Answer, ok
}
