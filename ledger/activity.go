package ledger

import (
	"fmt"
	"time"
)

// DefaultRecentLimit is the dashboard window for Recent.
const DefaultRecentLimit = 50

// ActivityLog is the append-only audit trail of manager actions. Entries
// are stored pre-rendered; the file is the record and is never reparsed.
type ActivityLog struct {
	path    string
	entries []string
	now     func() time.Time
}

// OpenActivityLog loads the accumulated history from path.
func OpenActivityLog(path string) (*ActivityLog, error) {
	lines, err := LoadLines(path)
	if err != nil {
		return nil, err
	}
	return &ActivityLog{path: path, entries: lines, now: time.Now}, nil
}

// Record appends an entry for actor and returns its rendered form. A blank
// actor is recorded as Unknown.
func (l *ActivityLog) Record(actor, description string) (string, error) {
	if actor == "" {
		actor = "Unknown"
	}
	entry := fmt.Sprintf("[%s] (%s) %s", l.now().Format(TimeFormat), actor, description)
	if err := AppendLine(l.path, entry); err != nil {
		return "", err
	}
	l.entries = append(l.entries, entry)
	return entry, nil
}

// Recent returns up to limit entries, most recent first. A non-positive
// limit means DefaultRecentLimit.
func (l *ActivityLog) Recent(limit int) []string {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > len(l.entries) {
		limit = len(l.entries)
	}
	recent := make([]string, 0, limit)
	for i := len(l.entries) - 1; i >= len(l.entries)-limit; i-- {
		recent = append(recent, l.entries[i])
	}
	return recent
}

// Len reports how many entries the log holds.
func (l *ActivityLog) Len() int { return len(l.entries) }
