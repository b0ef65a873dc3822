package conversation

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/zulandar/quotewire/internal/extract"
)

func TestStore_PutGet(t *testing.T) {
	s := NewStore()
	if err := s.Put(NewContext("session-1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(NewContext("session-1")); err == nil {
		t.Error("duplicate Put succeeded, want error")
	}

	c, ok := s.Get("session-1")
	if !ok {
		t.Fatal("Get: session not found")
	}
	if c.Stage != StageInitial {
		t.Errorf("Stage = %q, want %q", c.Stage, StageInitial)
	}
	if _, ok := s.Get("missing"); ok {
		t.Error("Get returned a context for an unknown session")
	}
}

// Snapshots are deep copies: mutating one never touches stored state.
func TestStore_SnapshotIsolation(t *testing.T) {
	s := NewStore()
	if err := s.Put(NewContext("session-1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	err := s.Update("session-1", func(c *Context) error {
		Update(c, "Petri dishes available", extract.Fragment{Items: []string{"petri"}})
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	snap, _ := s.Get("session-1")
	snap.ItemsDiscussed[0] = "mutated"
	snap.TurnCount = 42

	fresh, _ := s.Get("session-1")
	if fresh.ItemsDiscussed[0] != "petri" || fresh.TurnCount != 1 {
		t.Errorf("snapshot mutation leaked into store: %+v", fresh)
	}
}

func TestStore_UpdateRollsBackOnError(t *testing.T) {
	s := NewStore()
	if err := s.Put(NewContext("session-1")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	boom := errors.New("boom")
	err := s.Update("session-1", func(c *Context) error {
		Update(c, "Gloves available", extract.Fragment{Items: []string{"gloves"}})
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Update error = %v, want %v", err, boom)
	}

	c, _ := s.Get("session-1")
	if c.TurnCount != 0 || len(c.ItemsDiscussed) != 0 {
		t.Errorf("failed update left partial state: %+v", c)
	}
}

func TestStore_FreezeRejectsUpdates(t *testing.T) {
	s := NewStore()
	if err := s.Put(NewContext("session-1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Freeze("session-1"); err != nil {
		t.Fatalf("Freeze: %v", err)
	}

	err := s.Update("session-1", func(c *Context) error { return nil })
	if err == nil {
		t.Error("Update on frozen session succeeded, want error")
	}

	if _, ok := s.Get("session-1"); !ok {
		t.Error("frozen session no longer readable")
	}
}

// Concurrent updates across many sessions must each see a consistent
// per-session sequence: no lost turns, no cross-session bleed.
func TestStore_ConcurrentSessions(t *testing.T) {
	const sessions = 8
	const turns = 50

	s := NewStore()
	for i := 0; i < sessions; i++ {
		if err := s.Put(NewContext(fmt.Sprintf("session-%d", i))); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	var wg sync.WaitGroup
	for i := 0; i < sessions; i++ {
		id := fmt.Sprintf("session-%d", i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < turns; j++ {
				err := s.Update(id, func(c *Context) error {
					Update(c, "vendor said something meaningful", extract.Fragment{})
					return nil
				})
				if err != nil {
					t.Errorf("Update %s: %v", id, err)
					return
				}
			}
		}()
	}
	wg.Wait()

	for i := 0; i < sessions; i++ {
		c, ok := s.Get(fmt.Sprintf("session-%d", i))
		if !ok {
			t.Fatalf("session-%d missing", i)
		}
		if c.TurnCount != turns || len(c.VendorResponses) != turns {
			t.Errorf("session-%d: turns=%d responses=%d, want %d",
				i, c.TurnCount, len(c.VendorResponses), turns)
		}
	}
}

func TestStore_DeleteAndLen(t *testing.T) {
	s := NewStore()
	_ = s.Put(NewContext("a"))
	_ = s.Put(NewContext("b"))
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
	s.Delete("a")
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
	if _, ok := s.Get("a"); ok {
		t.Error("deleted session still readable")
	}
}
