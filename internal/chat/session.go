package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/Tameralinada/ai-code-reviewer/internal/llm"
)

// MaxTurns bounds the conversation context fed back into the model. A
// UI-facing transcript may keep more; the model never sees more than this.
const MaxTurns = 10

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Caller answers a conversation. It is the engine's chat surface: replies go
// through the same rate limiting, timeout, and retry as analysis calls.
type Caller interface {
	Chat(ctx context.Context, messages []llm.Message) (string, error)
}

// Turn is one message in a conversation.
type Turn struct {
	Role    string
	Content string
	At      time.Time
}

// Session holds a bounded, ordered conversation buffer and drives it through
// the model backend. Not safe for concurrent use; a session belongs to one
// conversation.
type Session struct {
	caller Caller
	turns  []Turn
	now    func() time.Time
}

// NewSession creates a chat session backed by the given caller.
func NewSession(caller Caller) *Session {
	return &Session{
		caller: caller,
		now:    time.Now,
	}
}

// Send appends the user turn, asks the model with the trimmed history as
// context, appends the assistant turn, and returns the assistant's reply.
// Failures still produce a complete assistant turn carrying a user-visible
// error message, so the session is never left in a partial state.
func (s *Session) Send(ctx context.Context, text string) string {
	s.append(Turn{Role: RoleUser, Content: text, At: s.now()})

	messages := make([]llm.Message, 0, len(s.turns))
	for _, turn := range s.turns {
		messages = append(messages, llm.Message{Role: turn.Role, Content: turn.Content})
	}

	reply, err := s.caller.Chat(ctx, messages)
	if err != nil {
		reply = fmt.Sprintf("Error generating response: %v", err)
	}

	s.append(Turn{Role: RoleAssistant, Content: reply, At: s.now()})
	return reply
}

// Turns returns a copy of the retained conversation.
func (s *Session) Turns() []Turn {
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// append adds a turn and trims the buffer to the most recent MaxTurns,
// dropping oldest first.
func (s *Session) append(t Turn) {
	s.turns = append(s.turns, t)
	if len(s.turns) > MaxTurns {
		s.turns = s.turns[len(s.turns)-MaxTurns:]
	}
}
