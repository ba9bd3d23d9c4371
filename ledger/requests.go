package ledger

import (
	"fmt"
	"time"
)

// RequestQueue is the append-only log of member requests. A request is a
// wish-list entry for the manager, not a hold: submitting one does not
// reserve stock, and many members may request the same title.
type RequestQueue struct {
	path   string
	logger Logger
	now    func() time.Time
}

// NewRequestQueue operates on the requests file at path.
func NewRequestQueue(path string, opts ...Option) *RequestQueue {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &RequestQueue{path: path, logger: o.logger, now: time.Now}
}

// Submit records that requester wants title. The title must exist in the
// supplied registry (matched ignoring case, the canonical spelling is what
// gets recorded) and have at least one copy available.
func (q *RequestQueue) Submit(reg *Registry, requester, title string) (Request, error) {
	book, ok := reg.Find(title)
	if !ok {
		return Request{}, fmt.Errorf("request %q: %w", title, ErrNotFound)
	}
	if book.Available() <= 0 {
		return Request{}, fmt.Errorf("request %q: %w", book.Title, ErrUnavailable)
	}

	req := Request{
		Requester:   requester,
		Title:       book.Title,
		RequestedAt: q.now().Truncate(time.Second),
	}
	if err := AppendLine(q.path, req.encode()); err != nil {
		return Request{}, err
	}
	return req, nil
}

// ListFor returns requester's entries in stored (oldest-first) order.
func (q *RequestQueue) ListFor(requester string) ([]Request, error) {
	all, err := q.load()
	if err != nil {
		return nil, err
	}
	var mine []Request
	for _, req := range all {
		if req.Requester == requester {
			mine = append(mine, req)
		}
	}
	return mine, nil
}

// ListRecent returns the last limit entries, most recent first.
func (q *RequestQueue) ListRecent(limit int) ([]Request, error) {
	all, err := q.load()
	if err != nil {
		return nil, err
	}
	if limit < 0 {
		limit = 0
	}
	if limit > len(all) {
		limit = len(all)
	}
	recent := make([]Request, 0, limit)
	for i := len(all) - 1; i >= len(all)-limit; i-- {
		recent = append(recent, all[i])
	}
	return recent, nil
}

func (q *RequestQueue) load() ([]Request, error) {
	lines, err := LoadLines(q.path)
	if err != nil {
		return nil, err
	}
	var requests []Request
	for _, line := range lines {
		req, ok := parseRequest(line)
		if !ok {
			q.logger.Warn("skipping malformed request line", "file", q.path, "line", line)
			continue
		}
		requests = append(requests, req)
	}
	return requests, nil
}
