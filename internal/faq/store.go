package faq

import (
	"errors"
	"fmt"
	"strings"
)

// Topic is a closed-set category of FAQ question.
type Topic string

const (
	TopicPrograms     Topic = "programs"
	TopicDuration     Topic = "duration"
	TopicMode         Topic = "mode"
	TopicCertificates Topic = "certificates"
	TopicMentors      Topic = "mentors"
)

// Entry pairs a topic with its canned answer.
type Entry struct {
	Topic  Topic
	Answer string
}

// Store is an immutable topic to answer mapping. Definition order is kept
// because the router's secondary pass scans topics in that order.
type Store struct {
	order   []Topic
	answers map[Topic]string
}

func NewStore(entries []Entry) (*Store, error) {
	if len(entries) == 0 {
		return nil, errors.New("faq: store must have at least one entry")
	}
	s := &Store{
		order:   make([]Topic, 0, len(entries)),
		answers: make(map[Topic]string, len(entries)),
	}
	for _, e := range entries {
		if strings.TrimSpace(string(e.Topic)) == "" {
			return nil, errors.New("faq: topic must not be empty")
		}
		if strings.TrimSpace(e.Answer) == "" {
			return nil, fmt.Errorf("faq: topic %q has an empty answer", e.Topic)
		}
		if _, dup := s.answers[e.Topic]; dup {
			return nil, fmt.Errorf("faq: duplicate topic %q", e.Topic)
		}
		s.order = append(s.order, e.Topic)
		s.answers[e.Topic] = e.Answer
	}
	return s, nil
}

// Answer returns the canned answer for topic.
func (s *Store) Answer(topic Topic) (string, bool) {
	a, ok := s.answers[topic]
	return a, ok
}

// Topics returns the topics in definition order.
func (s *Store) Topics() []Topic {
	out := make([]Topic, len(s.order))
	copy(out, s.order)
	return out
}

// DefaultEntries is the Iron Lady FAQ.
func DefaultEntries() []Entry {
	return []Entry{
		{Topic: TopicPrograms, Answer: "Iron Lady offers leadership programs focused on women empowerment, communication, confidence building, and professional growth. Typical tracks include Leadership 101, Career Acceleration, Public Speaking for Leaders, and Mentorship Circles."},
		{Topic: TopicDuration, Answer: "Program durations vary: most curated leadership tracks run 8–12 weeks. Short workshops and masterclasses run 1–3 days."},
		{Topic: TopicMode, Answer: "Programs are primarily online for flexibility, with occasional offline workshops and city meetups."},
		{Topic: TopicCertificates, Answer: "Yes — participants receive a verified certificate after successful completion of the program requirements."},
		{Topic: TopicMentors, Answer: "Mentors and coaches are experienced industry leaders, certified leadership coaches, and Iron Lady alumni who guide participants."},
	}
}

// DefaultStore builds the store from DefaultEntries. The entries are static,
// so a construction failure is a programming error.
func DefaultStore() *Store {
	s, err := NewStore(DefaultEntries())
	if err != nil {
		panic(err)
	}
	return s
}
