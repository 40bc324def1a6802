package chat

import (
	"reflect"
	"testing"
)

func TestRegistryJoinLeaveSymmetry(t *testing.T) {
	reg := NewRegistry()

	res := reg.Join("r1", "u1", "one@x.com")
	if !res.Created {
		t.Error("Expected first join to create the room")
	}

	left := reg.Leave("r1", "u1")
	if !left.Removed || !left.Destroyed {
		t.Errorf("Expected removal that destroys the room, got %+v", left)
	}
	if _, ok := reg.Users("r1"); ok {
		t.Error("Expected room r1 to be gone")
	}
	if rooms := reg.RoomsOf("u1"); len(rooms) != 0 {
		t.Errorf("Expected reverse index to be empty, got %v", rooms)
	}
}

func TestRegistryLeaveKeepsOtherMembers(t *testing.T) {
	reg := NewRegistry()
	reg.Join("r1", "u1", "one")
	reg.Join("r1", "u2", "two")

	left := reg.Leave("r1", "u1")
	if !left.Removed || left.Destroyed {
		t.Errorf("Unexpected leave result: %+v", left)
	}

	users, ok := reg.Users("r1")
	if !ok || !reflect.DeepEqual(users, []string{"two"}) {
		t.Errorf("Expected [two], got %v (exists=%v)", users, ok)
	}
}

func TestRegistryInsertionOrder(t *testing.T) {
	reg := NewRegistry()
	names := []string{"n1", "n2", "n3", "n4"}
	for i, name := range names {
		res := reg.Join("room", name+"-id", name)
		if !reflect.DeepEqual(res.Users, names[:i+1]) {
			t.Fatalf("Join %d: expected %v, got %v", i, names[:i+1], res.Users)
		}
		if res.Created != (i == 0) {
			t.Errorf("Join %d: unexpected Created=%v", i, res.Created)
		}
	}
}

func TestRegistryRejoinOverwritesInPlace(t *testing.T) {
	reg := NewRegistry()
	reg.Join("r", "a", "first")
	reg.Join("r", "b", "bee")
	res := reg.Join("r", "a", "second")

	if !reflect.DeepEqual(res.Users, []string{"second", "bee"}) {
		t.Errorf("Expected [second bee], got %v", res.Users)
	}
	if name, _ := reg.DisplayName("r", "a"); name != "second" {
		t.Errorf("Expected latest display name, got %q", name)
	}
}

func TestRegistryLeaveAbsent(t *testing.T) {
	reg := NewRegistry()

	if res := reg.Leave("nowhere", "u"); res.Removed || res.Destroyed {
		t.Errorf("Expected no-op on missing room, got %+v", res)
	}

	reg.Join("r", "a", "A")
	if res := reg.Leave("r", "stranger"); res.Removed || res.Destroyed {
		t.Errorf("Expected no-op for absent user, got %+v", res)
	}
	if reg.RoomCount() != 1 {
		t.Errorf("Expected room to survive, got %d rooms", reg.RoomCount())
	}
}

func TestRegistryRemoveUser(t *testing.T) {
	reg := NewRegistry()
	reg.Join("r1", "u", "U")
	reg.Join("r2", "u", "U")
	reg.Join("r2", "v", "V")
	reg.Join("r3", "v", "V")

	if got := reg.RoomsOf("u"); !reflect.DeepEqual(got, []string{"r1", "r2"}) {
		t.Fatalf("Expected [r1 r2], got %v", got)
	}

	results := reg.RemoveUser("u")
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}

	byRoom := map[string]LeaveResult{}
	for _, r := range results {
		byRoom[r.RoomID] = r
	}
	if !byRoom["r1"].Destroyed {
		t.Error("Expected r1 to be destroyed")
	}
	if byRoom["r2"].Destroyed || !byRoom["r2"].Removed {
		t.Errorf("Unexpected r2 result: %+v", byRoom["r2"])
	}

	want := []RoomSnapshot{
		{RoomID: "r2", Users: []string{"V"}},
		{RoomID: "r3", Users: []string{"V"}},
	}
	if got := reg.Snapshot(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	if again := reg.RemoveUser("u"); again != nil {
		t.Errorf("Expected nothing to remove, got %v", again)
	}
}

func TestRegistryEmptyUserIDIsAKey(t *testing.T) {
	reg := NewRegistry()
	reg.Join("r", "", "Anonymous")

	if users, ok := reg.Users("r"); !ok || !reflect.DeepEqual(users, []string{"Anonymous"}) {
		t.Errorf("Expected [Anonymous], got %v", users)
	}
	if res := reg.Leave("r", ""); !res.Destroyed {
		t.Errorf("Expected room destroyed, got %+v", res)
	}
}
