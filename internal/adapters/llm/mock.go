package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/skysense-ai/sara-agent/internal/domain"
)

// Invocation records one call the mock runner received.
type Invocation struct {
	Agent         string
	TranscriptLen int
	Trace         domain.TraceMetadata
}

// MockRunner replays scripted responses per agent name, in order. Useful for
// local development without a credential and for tests.
type MockRunner struct {
	mu        sync.Mutex
	scripts   map[string][]string
	calls     []Invocation
	errOnCall map[string]error
}

func NewMockRunner() *MockRunner {
	return &MockRunner{
		scripts:   make(map[string][]string),
		errOnCall: make(map[string]error),
	}
}

// Script queues responses for an agent; they are consumed one per call.
func (m *MockRunner) Script(agent string, responses ...string) *MockRunner {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripts[agent] = append(m.scripts[agent], responses...)
	return m
}

// FailWith makes every invocation of the agent return err.
func (m *MockRunner) FailWith(agent string, err error) *MockRunner {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errOnCall[agent] = err
	return m
}

func (m *MockRunner) RunAgent(
	_ context.Context,
	def domain.AgentDefinition,
	transcript *domain.Transcript,
	trace domain.TraceMetadata,
) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, Invocation{
		Agent:         def.Name,
		TranscriptLen: transcript.Len(),
		Trace:         trace,
	})

	if err, ok := m.errOnCall[def.Name]; ok {
		return "", err
	}

	queued := m.scripts[def.Name]
	if len(queued) == 0 {
		return "", fmt.Errorf("mock runner: no scripted response for agent %q", def.Name)
	}
	next := queued[0]
	m.scripts[def.Name] = queued[1:]
	if next == "" {
		return "", domain.ErrAgentResultMissing
	}
	return next, nil
}

// Calls returns the invocations seen so far.
func (m *MockRunner) Calls() []Invocation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Invocation, len(m.calls))
	copy(out, m.calls)
	return out
}
