package chat

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tameralinada/ai-code-reviewer/internal/llm"
)

type scriptedCaller struct {
	lastMessages []llm.Message
	reply        string
	err          error
}

func (s *scriptedCaller) Chat(_ context.Context, messages []llm.Message) (string, error) {
	s.lastMessages = messages
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func TestSession_SendAppendsBothTurns(t *testing.T) {
	caller := &scriptedCaller{reply: "Use parameterized queries."}
	s := NewSession(caller)

	reply := s.Send(context.Background(), "How do I avoid SQL injection?")
	assert.Equal(t, "Use parameterized queries.", reply)

	turns := s.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, RoleUser, turns[0].Role)
	assert.Equal(t, RoleAssistant, turns[1].Role)
	assert.Equal(t, "Use parameterized queries.", turns[1].Content)
}

func TestSession_SendsHistoryAsContext(t *testing.T) {
	caller := &scriptedCaller{reply: "answer"}
	s := NewSession(caller)

	s.Send(context.Background(), "first question")
	s.Send(context.Background(), "second question")

	// Second request carries the first exchange plus the new user turn.
	require.Len(t, caller.lastMessages, 3)
	assert.Equal(t, "first question", caller.lastMessages[0].Content)
	assert.Equal(t, "answer", caller.lastMessages[1].Content)
	assert.Equal(t, "second question", caller.lastMessages[2].Content)
}

func TestSession_TrimsToMaxTurns(t *testing.T) {
	caller := &scriptedCaller{reply: "ok"}
	s := NewSession(caller)

	for i := 0; i < 20; i++ {
		s.Send(context.Background(), fmt.Sprintf("question %d", i))
	}

	turns := s.Turns()
	require.Len(t, turns, MaxTurns)

	// Oldest turns dropped first: the buffer ends with the latest exchange.
	assert.Equal(t, "question 19", turns[len(turns)-2].Content)
	assert.Equal(t, RoleAssistant, turns[len(turns)-1].Role)
}

func TestSession_ErrorBecomesAssistantTurn(t *testing.T) {
	caller := &scriptedCaller{err: errors.New("connection refused")}
	s := NewSession(caller)

	reply := s.Send(context.Background(), "hello?")
	assert.Contains(t, reply, "Error generating response")
	assert.Contains(t, reply, "connection refused")

	turns := s.Turns()
	require.Len(t, turns, 2, "failed exchange still appends a complete assistant turn")
	assert.Equal(t, reply, turns[1].Content)
}

func TestSession_TurnsReturnsCopy(t *testing.T) {
	caller := &scriptedCaller{reply: "ok"}
	s := NewSession(caller)
	s.Send(context.Background(), "q")

	turns := s.Turns()
	turns[0].Content = "mutated"
	assert.Equal(t, "q", s.Turns()[0].Content)
}
