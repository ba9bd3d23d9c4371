package ledger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newQueueFixture(t *testing.T) (*Registry, *RequestQueue) {
	t.Helper()
	dir := t.TempDir()
	reg, err := OpenRegistry(filepath.Join(dir, "library.txt"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return reg, NewRequestQueue(filepath.Join(dir, "requests.txt"))
}

func TestSubmitUnknownTitle(t *testing.T) {
	reg, queue := newQueueFixture(t)
	if _, err := queue.Submit(reg, "alice", "Dune"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmitUnavailable(t *testing.T) {
	reg, queue := newQueueFixture(t)
	mustAdd(t, reg, "Dune", 2)
	if _, err := reg.Lend("Dune", 2); err != nil {
		t.Fatalf("lend: %v", err)
	}

	if _, err := queue.Submit(reg, "alice", "Dune"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	mine, err := queue.ListFor("alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 0 {
		t.Fatalf("failed submit must not append, got %v", mine)
	}
}

func TestSubmitThenListFor(t *testing.T) {
	reg, queue := newQueueFixture(t)
	mustAdd(t, reg, "Dune", 3)

	req, err := queue.Submit(reg, "alice", "dune")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if req.Title != "Dune" {
		t.Fatalf("expected canonical title, got %q", req.Title)
	}
	if _, err := queue.Submit(reg, "bob", "Dune"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	mine, err := queue.ListFor("alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected 1 request, got %d", len(mine))
	}
	if mine[0].Requester != "alice" || mine[0].Title != "Dune" {
		t.Fatalf("unexpected request: %+v", mine[0])
	}
	if mine[0].RequestedAt.IsZero() {
		t.Fatalf("timestamp not recorded")
	}
}

func TestSubmitDoesNotReserveStock(t *testing.T) {
	reg, queue := newQueueFixture(t)
	mustAdd(t, reg, "Dune", 1)

	// Many members may want the one copy.
	for _, member := range []string{"alice", "bob", "carol"} {
		if _, err := queue.Submit(reg, member, "Dune"); err != nil {
			t.Fatalf("submit %s: %v", member, err)
		}
	}
	if n, _ := reg.Available("Dune"); n != 1 {
		t.Fatalf("requests must not touch stock, available=%d", n)
	}
}

func TestListForOldestFirst(t *testing.T) {
	reg, queue := newQueueFixture(t)
	mustAdd(t, reg, "Dune", 1)
	mustAdd(t, reg, "Hobbit", 1)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.Local)
	tick := 0
	queue.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	if _, err := queue.Submit(reg, "alice", "Dune"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := queue.Submit(reg, "alice", "Hobbit"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	mine, err := queue.ListFor("alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 2 || mine[0].Title != "Dune" || mine[1].Title != "Hobbit" {
		t.Fatalf("expected oldest first, got %v", mine)
	}
	if !mine[1].RequestedAt.After(mine[0].RequestedAt) {
		t.Fatalf("timestamps out of order: %v", mine)
	}
}

func TestListRecentOrderAndLimit(t *testing.T) {
	reg, queue := newQueueFixture(t)
	mustAdd(t, reg, "Dune", 1)

	for i := 0; i < 5; i++ {
		queue.now = func() time.Time {
			return time.Date(2026, 3, 1, 10, i, 0, 0, time.Local)
		}
		if _, err := queue.Submit(reg, fmt.Sprintf("member%d", i), "Dune"); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}

	recent, err := queue.ListRecent(3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("expected 3, got %d", len(recent))
	}
	for i, want := range []string{"member4", "member3", "member2"} {
		if recent[i].Requester != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, recent[i].Requester)
		}
	}

	all, err := queue.ListRecent(100)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5, got %d", len(all))
	}
}

func TestMalformedRequestLineSkipped(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "requests.txt")
	content := "alice|Dune|2026-03-01 10:00:00\ngarbage line\nbob|Hobbit|2026-03-01 11:00:00\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	logger := &captureLogger{}
	queue := NewRequestQueue(path, WithLogger(logger))
	recent, err := queue.ListRecent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(recent))
	}
	if len(logger.msgs) != 1 {
		t.Fatalf("expected 1 warning, got %v", logger.msgs)
	}
}

func TestRequestPersistedFormat(t *testing.T) {
	dir := t.TempDir()
	reg, err := OpenRegistry(filepath.Join(dir, "library.txt"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	path := filepath.Join(dir, "requests.txt")
	queue := NewRequestQueue(path)
	queue.now = func() time.Time {
		return time.Date(2026, 3, 1, 10, 30, 0, 0, time.Local)
	}

	mustAdd(t, reg, "Dune", 1)
	if _, err := queue.Submit(reg, "alice", "Dune"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	lines, err := LoadLines(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := "alice|Dune|2026-03-01 10:30:00"
	if len(lines) != 1 || lines[0] != want {
		t.Fatalf("expected [%s], got %v", want, lines)
	}
}
