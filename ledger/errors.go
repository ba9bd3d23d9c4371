package ledger

import (
	"errors"
	"fmt"
)

// Sentinel errors for the recoverable failure modes of ledger operations.
// Callers match with errors.Is; every mutation that returns one of these
// leaves both the in-memory state and the backing file untouched.
var (
	ErrNotFound          = errors.New("title not found")
	ErrEmptyTitle        = errors.New("title must not be empty")
	ErrInvalidQuantity   = errors.New("quantity must be a positive integer")
	ErrInvalidCount      = errors.New("count must be a positive integer")
	ErrInsufficientStock = errors.New("not enough copies available")
	ErrOverReturn        = errors.New("more copies than currently lent")
	ErrUnavailable       = errors.New("no copies currently available")
	ErrDuplicateUser     = errors.New("username already exists")
	ErrEmptyCredential   = errors.New("username and password must not be empty")
	ErrWeakCredential    = errors.New("password too weak")
	ErrBadCredentials    = errors.New("invalid credentials")
)

// StorageError reports a filesystem failure underneath the record store.
// Unlike the sentinel errors above it is not recoverable: no ledger
// operation can make progress without its backing file.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
