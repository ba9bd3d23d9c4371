package ledger

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newActivityLog(t *testing.T) *ActivityLog {
	t.Helper()
	log, err := OpenActivityLog(filepath.Join(t.TempDir(), "activity_log.txt"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return log
}

func TestRecordRendersEntry(t *testing.T) {
	log := newActivityLog(t)
	log.now = func() time.Time {
		return time.Date(2026, 3, 1, 9, 15, 30, 0, time.Local)
	}

	entry, err := log.Record("eldridge", "Added 3 copies of 'Dune'.")
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	want := "[2026-03-01 09:15:30] (eldridge) Added 3 copies of 'Dune'."
	if entry != want {
		t.Fatalf("expected %q, got %q", want, entry)
	}
}

func TestRecordUnknownActor(t *testing.T) {
	log := newActivityLog(t)
	entry, err := log.Record("", "Lent 1 copies of \"Dune\".")
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if !strings.Contains(entry, "(Unknown)") {
		t.Fatalf("blank actor should render as Unknown: %q", entry)
	}
}

func TestRecentReverseChronologicalAndCapped(t *testing.T) {
	log := newActivityLog(t)
	for i := 0; i < 60; i++ {
		if _, err := log.Record("mgr", fmt.Sprintf("action %d", i)); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	recent := log.Recent(0) // default window
	if len(recent) != DefaultRecentLimit {
		t.Fatalf("expected %d entries, got %d", DefaultRecentLimit, len(recent))
	}
	if !strings.HasSuffix(recent[0], "action 59") {
		t.Fatalf("expected most recent first, got %q", recent[0])
	}
	if !strings.HasSuffix(recent[len(recent)-1], "action 10") {
		t.Fatalf("unexpected oldest entry: %q", recent[len(recent)-1])
	}

	if got := log.Recent(5); len(got) != 5 || !strings.HasSuffix(got[4], "action 55") {
		t.Fatalf("explicit limit wrong: %v", got)
	}
}

func TestActivityLogReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity_log.txt")
	log, err := OpenActivityLog(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := log.Record("mgr", "first"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := log.Record("mgr", "second"); err != nil {
		t.Fatalf("record: %v", err)
	}

	reloaded, err := OpenActivityLog(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reloaded.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", reloaded.Len())
	}
	recent := reloaded.Recent(1)
	if !strings.HasSuffix(recent[0], "second") {
		t.Fatalf("unexpected latest entry: %q", recent[0])
	}
}

func TestRecentOnEmptyLog(t *testing.T) {
	log := newActivityLog(t)
	if got := log.Recent(10); len(got) != 0 {
		t.Fatalf("expected empty, got %v", got)
	}
}
