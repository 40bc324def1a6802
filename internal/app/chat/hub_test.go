package chat

import "testing"

func TestEmitToScopeExclusion(t *testing.T) {
	hub := NewHub()
	a := newFakeSession("a", "ua", "A")
	b := newFakeSession("b", "ub", "B")
	hub.JoinScope(a, "r")
	hub.JoinScope(b, "r")

	if n := hub.EmitToScope("r", "ping", "x", a); n != 1 {
		t.Errorf("Expected 1 delivery when excluding sender, got %d", n)
	}
	if n := hub.EmitToScope("r", "ping", "x", nil); n != 2 {
		t.Errorf("Expected 2 deliveries including sender, got %d", n)
	}
	if len(a.take()) != 1 || len(b.take()) != 2 {
		t.Error("Unexpected frame distribution")
	}
}

func TestEmitToScopeSkipsFullQueues(t *testing.T) {
	hub := NewHub()
	slow := newFakeSession("slow", "s", "S")
	slow.full = true
	fast := newFakeSession("fast", "f", "F")
	hub.JoinScope(slow, "r")
	hub.JoinScope(fast, "r")

	if n := hub.EmitToScope("r", "ping", 1, nil); n != 1 {
		t.Errorf("Expected only the fast session to receive, got %d", n)
	}
}

func TestUnregisterLeavesAllScopes(t *testing.T) {
	hub := NewHub()
	s := newFakeSession("s", "u", "U")
	hub.Register(s)
	hub.JoinScope(s, "r1")
	hub.JoinScope(s, "r2")

	hub.Unregister(s)

	if hub.ScopeSize("r1") != 0 || hub.ScopeSize("r2") != 0 || hub.SessionCount() != 0 {
		t.Error("Expected the session to be gone from every scope")
	}
}

func TestShutdownClosesSessions(t *testing.T) {
	hub := NewHub()
	s := newFakeSession("s", "u", "U")
	hub.Register(s)
	hub.JoinScope(s, "r")

	hub.Shutdown()

	if !s.closed {
		t.Error("Expected session to be closed")
	}
	if hub.ScopeSize("r") != 0 {
		t.Error("Expected scopes to be cleared")
	}
}
