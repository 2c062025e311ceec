package session

import (
	"testing"
	"time"

	"contabil/internal/core"
)

func TestNewAndGet(t *testing.T) {
	m := NewManager(time.Hour)
	defer m.Stop()

	s := m.New()
	if s.ID == "" || s.Authenticated {
		t.Fatalf("unexpected fresh session: %+v", s)
	}
	if got := m.Get(s.ID); got == nil || got.ID != s.ID {
		t.Fatal("could not retrieve session")
	}
	if m.Get("unknown") != nil {
		t.Fatal("unknown id yielded a session")
	}
}

func TestUpdateMutatesUnderLock(t *testing.T) {
	m := NewManager(time.Hour)
	defer m.Stop()

	s := m.New()
	m.Update(s.ID, func(s *Session) {
		s.Authenticated = true
		s.CurrentFile = "cache_data/1_a.csv"
		s.Pending = append(s.Pending, core.Entry{Responsavel: "Ana"})
	})

	got := m.Get(s.ID)
	if !got.Authenticated || got.CurrentFile == "" || len(got.Pending) != 1 {
		t.Fatalf("update lost: %+v", got)
	}
}

func TestDrop(t *testing.T) {
	m := NewManager(time.Hour)
	defer m.Stop()

	s := m.New()
	m.Drop(s.ID)
	if m.Get(s.ID) != nil {
		t.Fatal("dropped session still retrievable")
	}
}

func TestExpiry(t *testing.T) {
	m := NewManager(10 * time.Millisecond)
	defer m.Stop()

	s := m.New()
	time.Sleep(30 * time.Millisecond)
	if m.Get(s.ID) != nil {
		t.Fatal("expired session still retrievable")
	}
}

func TestSessionIDsAreUnique(t *testing.T) {
	m := NewManager(time.Hour)
	defer m.Stop()

	seen := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		id := m.New().ID
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate session id %s", id)
		}
		seen[id] = struct{}{}
	}
}
