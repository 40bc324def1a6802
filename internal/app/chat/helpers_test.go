package chat

import (
	"encoding/json"
	"sync"
	"testing"

	"debatehub/internal/app/user"
)

// fakeSession records every frame it is sent.
type fakeSession struct {
	id       string
	identity user.Identity

	mu     sync.Mutex
	frames []Frame
	closed bool
	full   bool
}

func newFakeSession(id, userID, email string) *fakeSession {
	return &fakeSession{id: id, identity: user.New(userID, email)}
}

func (f *fakeSession) ID() string              { return f.id }
func (f *fakeSession) Identity() user.Identity { return f.identity }

func (f *fakeSession) Send(frame []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed || f.full {
		return false
	}

	var decoded Frame
	if err := json.Unmarshal(frame, &decoded); err != nil {
		panic(err)
	}
	f.frames = append(f.frames, decoded)
	return true
}

func (f *fakeSession) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

// take returns and clears the recorded frames.
func (f *fakeSession) take() []Frame {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := f.frames
	f.frames = nil
	return out
}

// events returns the recorded frames matching event, without clearing.
func (f *fakeSession) events(event string) []Frame {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Frame
	for _, fr := range f.frames {
		if fr.Event == event {
			out = append(out, fr)
		}
	}
	return out
}

func decodeString(t *testing.T, raw json.RawMessage) string {
	t.Helper()
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		t.Fatalf("Expected string payload, got %s: %v", raw, err)
	}
	return s
}

func decodeStrings(t *testing.T, raw json.RawMessage) []string {
	t.Helper()
	var s []string
	if err := json.Unmarshal(raw, &s); err != nil {
		t.Fatalf("Expected string list payload, got %s: %v", raw, err)
	}
	return s
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}
