package ledger

import (
	"fmt"
	"strings"
)

// Credential pools are flat files of username,password lines, one pool for
// members and one for managers. The split is on the first comma only, so
// passwords may contain commas. Passwords are stored as submitted; these
// files are not a trust boundary and must not be treated as one.

const minPasswordLen = 6

// LoadCredentials reads the pool at path into a username -> password map.
// A missing file is an empty pool; lines without a comma are ignored.
func LoadCredentials(path string) (map[string]string, error) {
	lines, err := LoadLines(path)
	if err != nil {
		return nil, err
	}
	users := make(map[string]string, len(lines))
	for _, line := range lines {
		username, password, ok := strings.Cut(line, ",")
		if !ok {
			continue
		}
		users[username] = password
	}
	return users, nil
}

// AppendCredential adds one username,password line to the pool at path.
func AppendCredential(path, username, password string) error {
	return AppendLine(path, username+","+password)
}

// Signup validates and stores a new account in the pool at path. The
// password must be at least six characters and must differ from the
// username ignoring case.
func Signup(path, username, password string) error {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return ErrEmptyCredential
	}

	users, err := LoadCredentials(path)
	if err != nil {
		return err
	}
	if _, taken := users[username]; taken {
		return fmt.Errorf("signup %q: %w", username, ErrDuplicateUser)
	}
	if len(password) < minPasswordLen {
		return fmt.Errorf("password shorter than %d characters: %w", minPasswordLen, ErrWeakCredential)
	}
	if strings.EqualFold(username, password) {
		return fmt.Errorf("password equals username: %w", ErrWeakCredential)
	}
	return AppendCredential(path, username, password)
}

// Authenticate checks username/password against the pool at path. Unknown
// users and wrong passwords both come back as ErrBadCredentials.
func Authenticate(path, username, password string) error {
	users, err := LoadCredentials(path)
	if err != nil {
		return err
	}
	stored, ok := users[username]
	if !ok || stored != password {
		return ErrBadCredentials
	}
	return nil
}
