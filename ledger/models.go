package ledger

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeFormat is the second-resolution timestamp layout used by the request
// and activity files.
const TimeFormat = "2006-01-02 15:04:05"

// Book tracks one title's stock. Lent never leaves [0, Quantity].
type Book struct {
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
	Lent     int    `json:"lent"`
}

// Available is the number of copies on the shelf.
func (b Book) Available() int { return b.Quantity - b.Lent }

// encode renders the ledger-file form: title|quantity|lent.
func (b Book) encode() string {
	return fmt.Sprintf("%s|%d|%d", b.Title, b.Quantity, b.Lent)
}

// parseBook decodes one ledger line. Lines with the wrong field count or
// non-numeric counters are rejected.
func parseBook(line string) (Book, bool) {
	parts := strings.Split(line, "|")
	if len(parts) != 3 {
		return Book{}, false
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Book{}, false
	}
	lent, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return Book{}, false
	}
	title := strings.TrimSpace(parts[0])
	if title == "" {
		return Book{}, false
	}
	return Book{Title: title, Quantity: quantity, Lent: lent}, true
}

// Request is one member wish-list entry. It never reserves stock.
type Request struct {
	Requester   string    `json:"requester"`
	Title       string    `json:"title"`
	RequestedAt time.Time `json:"requested_at"`
}

func (r Request) encode() string {
	return fmt.Sprintf("%s|%s|%s", r.Requester, r.Title, r.RequestedAt.Format(TimeFormat))
}

func parseRequest(line string) (Request, bool) {
	parts := strings.Split(line, "|")
	if len(parts) != 3 {
		return Request{}, false
	}
	at, err := time.ParseInLocation(TimeFormat, strings.TrimSpace(parts[2]), time.Local)
	if err != nil {
		return Request{}, false
	}
	return Request{Requester: parts[0], Title: parts[1], RequestedAt: at}, true
}
