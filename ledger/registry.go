package ledger

import (
	"fmt"
	"strings"
)

// Registry is the in-memory book ledger. It is loaded wholesale from its
// backing file at open and rewritten wholesale after every mutation, so the
// file always reflects the last completed operation. A Registry belongs to
// one session; sessions coordinate only through the file.
type Registry struct {
	path   string
	books  map[string]*Book
	order  []string // titles in first-add order, drives enumeration
	logger Logger
}

// OpenRegistry loads the ledger file at path. Malformed lines are skipped
// with a warning; a title appearing twice keeps the later line's counters.
func OpenRegistry(path string, opts ...Option) (*Registry, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	lines, err := LoadLines(path)
	if err != nil {
		return nil, err
	}

	r := &Registry{
		path:   path,
		books:  make(map[string]*Book),
		logger: o.logger,
	}
	for _, line := range lines {
		book, ok := parseBook(line)
		if !ok {
			r.logger.Warn("skipping malformed ledger line", "file", path, "line", line)
			continue
		}
		if _, exists := r.books[book.Title]; exists {
			r.logger.Warn("duplicate title in ledger file, keeping later line", "file", path, "title", book.Title)
		} else {
			r.order = append(r.order, book.Title)
		}
		b := book
		r.books[book.Title] = &b
	}
	return r, nil
}

// Add registers qty new copies of title, creating the record on first add.
// The updated record is persisted before it is returned.
func (r *Registry) Add(title string, qty int) (Book, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Book{}, ErrEmptyTitle
	}
	if qty < 1 {
		return Book{}, fmt.Errorf("add %q: %w", title, ErrInvalidQuantity)
	}

	book, exists := r.books[title]
	if exists {
		book.Quantity += qty
	} else {
		book = &Book{Title: title, Quantity: qty}
		r.books[title] = book
		r.order = append(r.order, title)
	}
	if err := r.persist(); err != nil {
		// Roll the in-memory change back so memory and file stay in step.
		if exists {
			book.Quantity -= qty
		} else {
			delete(r.books, title)
			r.order = r.order[:len(r.order)-1]
		}
		return Book{}, err
	}
	return *book, nil
}

// Lend hands out count copies of title.
func (r *Registry) Lend(title string, count int) (Book, error) {
	if count < 1 {
		return Book{}, fmt.Errorf("lend %q: %w", title, ErrInvalidCount)
	}
	book, ok := r.books[title]
	if !ok {
		return Book{}, fmt.Errorf("lend %q: %w", title, ErrNotFound)
	}
	if count > book.Available() {
		return Book{}, fmt.Errorf("lend %d of %q with %d available: %w",
			count, title, book.Available(), ErrInsufficientStock)
	}

	book.Lent += count
	if err := r.persist(); err != nil {
		book.Lent -= count
		return Book{}, err
	}
	return *book, nil
}

// Return takes back count previously lent copies of title.
func (r *Registry) Return(title string, count int) (Book, error) {
	if count < 1 {
		return Book{}, fmt.Errorf("return %q: %w", title, ErrInvalidCount)
	}
	book, ok := r.books[title]
	if !ok {
		return Book{}, fmt.Errorf("return %q: %w", title, ErrNotFound)
	}
	if count > book.Lent {
		return Book{}, fmt.Errorf("return %d of %q with %d lent: %w",
			count, title, book.Lent, ErrOverReturn)
	}

	book.Lent -= count
	if err := r.persist(); err != nil {
		book.Lent += count
		return Book{}, err
	}
	return *book, nil
}

// Available reports the shelf count for title.
func (r *Registry) Available(title string) (int, error) {
	book, ok := r.books[title]
	if !ok {
		return 0, fmt.Errorf("available %q: %w", title, ErrNotFound)
	}
	return book.Available(), nil
}

// List returns every record in first-add order. The slice holds copies;
// mutating them does not touch the registry.
func (r *Registry) List() []Book {
	books := make([]Book, 0, len(r.order))
	for _, title := range r.order {
		books = append(books, *r.books[title])
	}
	return books
}

// Search returns the records whose title contains query, case-insensitively,
// in first-add order. An empty query matches everything.
func (r *Registry) Search(query string) []Book {
	query = strings.ToLower(query)
	var books []Book
	for _, title := range r.order {
		if strings.Contains(strings.ToLower(title), query) {
			books = append(books, *r.books[title])
		}
	}
	return books
}

// Find looks a title up ignoring case and returns the canonical record.
func (r *Registry) Find(title string) (Book, bool) {
	title = strings.TrimSpace(title)
	if book, ok := r.books[title]; ok {
		return *book, true
	}
	for _, stored := range r.order {
		if strings.EqualFold(stored, title) {
			return *r.books[stored], true
		}
	}
	return Book{}, false
}

// TotalAvailable sums the shelf count over the whole catalog.
func (r *Registry) TotalAvailable() int {
	total := 0
	for _, book := range r.books {
		total += book.Available()
	}
	return total
}

// persist rewrites the whole ledger file in enumeration order.
func (r *Registry) persist() error {
	lines := make([]string, 0, len(r.order))
	for _, title := range r.order {
		lines = append(lines, r.books[title].encode())
	}
	return Rewrite(r.path, lines)
}
