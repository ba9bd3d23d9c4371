package ledger

import "path/filepath"

// Config names the backing file for every store. Passing it explicitly
// (instead of package-level path constants) keeps sessions and tests
// isolated to their own directories.
type Config struct {
	BooksFile    string
	UsersFile    string
	ManagersFile string
	RequestsFile string
	ActivityFile string
}

// DefaultConfig roots the conventional file names at dir.
func DefaultConfig(dir string) Config {
	return Config{
		BooksFile:    filepath.Join(dir, "library.txt"),
		UsersFile:    filepath.Join(dir, "users.txt"),
		ManagersFile: filepath.Join(dir, "managers.txt"),
		RequestsFile: filepath.Join(dir, "requests.txt"),
		ActivityFile: filepath.Join(dir, "activity_log.txt"),
	}
}
