package agent

import "github.com/leofalp/toolloop/providers/ai"

// ConversationState is the append-only message history of one run.
// Messages are cloned on the way in and on the way out, so no caller can
// alias or mutate what has been recorded.
type ConversationState struct {
	messages []ai.Message
}

// NewConversationState starts a history with the system message followed by
// the initial messages.
func NewConversationState(system ai.Message, initial ...ai.Message) *ConversationState {
	s := &ConversationState{messages: make([]ai.Message, 0, len(initial)+1)}
	s.Append(system)
	s.Append(initial...)
	return s
}

// Append records messages at the end of the history.
func (s *ConversationState) Append(messages ...ai.Message) {
	for _, m := range messages {
		s.messages = append(s.messages, m.Clone())
	}
}

// Messages returns a deep copy of the history.
func (s *ConversationState) Messages() []ai.Message {
	out := make([]ai.Message, len(s.messages))
	for i, m := range s.messages {
		out[i] = m.Clone()
	}
	return out
}

// Version is the number of messages appended so far. It grows by one per
// appended message and never decreases.
func (s *ConversationState) Version() int {
	return len(s.messages)
}

// Last returns a copy of the latest message.
func (s *ConversationState) Last() (ai.Message, bool) {
	if len(s.messages) == 0 {
		return ai.Message{}, false
	}
	return s.messages[len(s.messages)-1].Clone(), true
}
