package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"book-lending/ledger"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var dataDir string

// stderrLogger surfaces load-time warnings (malformed lines, duplicate
// titles) that the ledger package would otherwise only skip.
type stderrLogger struct{}

func (stderrLogger) Warn(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "warning: %s", msg)
	for i := 0; i+1 < len(args); i += 2 {
		fmt.Fprintf(os.Stderr, " %v=%v", args[i], args[i+1])
	}
	fmt.Fprintln(os.Stderr)
}

func openRegistry(cfg ledger.Config) (*ledger.Registry, error) {
	return ledger.OpenRegistry(cfg.BooksFile, ledger.WithLogger(stderrLogger{}))
}

// readPassword reads a masked password from the terminal.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(bytePassword)), nil
}

func main() {
	root := &cobra.Command{
		Use:   "booklend",
		Short: "Book lending ledger",
		Long:  "Tracks book stock and lending, member requests, and manager activity.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(ledger.DefaultConfig(dataDir))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data-dir", ".", "directory holding the ledger files")

	root.AddCommand(listCmd(), searchCmd(), availableCmd(), signupCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// Direct subcommands
// ---------------------------------------------------------------------------

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := openRegistry(ledger.DefaultConfig(dataDir))
			if err != nil {
				return err
			}
			printBooks(reg.List())
			return nil
		},
	}
}

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search titles by substring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := openRegistry(ledger.DefaultConfig(dataDir))
			if err != nil {
				return err
			}
			books := reg.Search(args[0])
			if len(books) == 0 {
				fmt.Printf("No books found matching '%s'.\n", args[0])
				return nil
			}
			printBooks(books)
			return nil
		},
	}
}

func availableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "available <title>",
		Short: "Show available copies of a title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := openRegistry(ledger.DefaultConfig(dataDir))
			if err != nil {
				return err
			}
			n, err := reg.Available(args[0])
			if err != nil {
				return errors.New(userMessage(err))
			}
			fmt.Println(n)
			return nil
		},
	}
}

func signupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signup <username>",
		Short: "Create a member account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ledger.DefaultConfig(dataDir)
			password, err := readPassword(fmt.Sprintf("Password for %s: ", args[0]))
			if err != nil {
				return err
			}
			if err := ledger.Signup(cfg.UsersFile, args[0], password); err != nil {
				return errors.New(userMessage(err))
			}
			fmt.Println("Account created!")
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// Interactive session
// ---------------------------------------------------------------------------

func runSession(cfg ledger.Config) error {
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("Welcome to the Book Lending System!")
	for {
		fmt.Print("\n[login/signup/exit] > ")
		if !scanner.Scan() {
			return nil
		}
		switch strings.TrimSpace(scanner.Text()) {
		case "login":
			username, role, ok := handleLogin(scanner, cfg)
			if !ok {
				continue
			}
			if role == "manager" {
				if err := managerSession(scanner, cfg, username); err != nil {
					return err
				}
			} else {
				if err := memberSession(scanner, cfg, username); err != nil {
					return err
				}
			}
		case "signup":
			handleSignup(scanner, cfg)
		case "exit":
			fmt.Println("Goodbye!")
			return nil
		default:
			fmt.Println("Type 'login', 'signup', or 'exit'.")
		}
	}
}

// handleLogin checks the manager pool first, then the member pool, the
// same precedence the original login screen applies.
func handleLogin(sc *bufio.Scanner, cfg ledger.Config) (username, role string, ok bool) {
	fmt.Print("Username: ")
	if !sc.Scan() {
		return "", "", false
	}
	username = strings.TrimSpace(sc.Text())

	password, err := readPassword("Password: ")
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		return "", "", false
	}
	if username == "" || password == "" {
		fmt.Println("Please enter all fields.")
		return "", "", false
	}

	if err := ledger.Authenticate(cfg.ManagersFile, username, password); err == nil {
		fmt.Printf("Welcome Manager, %s!\n", username)
		return username, "manager", true
	}
	if err := ledger.Authenticate(cfg.UsersFile, username, password); err == nil {
		fmt.Printf("Welcome, %s!\n", username)
		return username, "member", true
	}
	fmt.Println("Invalid credentials.")
	return "", "", false
}

func handleSignup(sc *bufio.Scanner, cfg ledger.Config) {
	fmt.Print("Username: ")
	if !sc.Scan() {
		return
	}
	username := strings.TrimSpace(sc.Text())

	password, err := readPassword("Password: ")
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		return
	}

	if err := ledger.Signup(cfg.UsersFile, username, password); err != nil {
		fmt.Println(userMessage(err))
		return
	}
	fmt.Println("Account created!")
}

// ---------------------------------------------------------------------------
// Manager session
// ---------------------------------------------------------------------------

func managerSession(sc *bufio.Scanner, cfg ledger.Config, username string) error {
	reg, err := openRegistry(cfg)
	if err != nil {
		return err
	}
	activity, err := ledger.OpenActivityLog(cfg.ActivityFile)
	if err != nil {
		return err
	}
	requests := ledger.NewRequestQueue(cfg.RequestsFile, ledger.WithLogger(stderrLogger{}))

	fmt.Println("Manager commands: add, lend, return, list, search, requests, dashboard, logout")
	for {
		fmt.Print("\nmanager> ")
		if !sc.Scan() {
			return nil
		}
		switch strings.TrimSpace(sc.Text()) {
		case "add":
			handleAdd(sc, reg, activity, username)
		case "lend":
			handleLend(sc, reg, activity, username)
		case "return":
			handleReturn(sc, reg, activity, username)
		case "list":
			printBooks(reg.List())
		case "search":
			handleSearch(sc, reg)
		case "requests":
			handleRecentRequests(requests)
		case "dashboard":
			handleDashboard(reg, activity)
		case "logout":
			return nil
		default:
			fmt.Println("Unknown command. Type one of the commands listed above.")
		}
	}
}

func handleAdd(sc *bufio.Scanner, reg *ledger.Registry, activity *ledger.ActivityLog, username string) {
	title, ok := promptLine(sc, "Title: ")
	if !ok {
		return
	}
	qty, ok := promptInt(sc, "Quantity: ")
	if !ok {
		return
	}

	book, err := reg.Add(title, qty)
	if err != nil {
		fmt.Println(userMessage(err))
		return
	}
	logActivity(activity, username, fmt.Sprintf("Added %d copies of '%s'.", qty, book.Title))
	fmt.Printf("%d copies added. '%s' now has %d total, %d available.\n",
		qty, book.Title, book.Quantity, book.Available())
}

func handleLend(sc *bufio.Scanner, reg *ledger.Registry, activity *ledger.ActivityLog, username string) {
	title, ok := promptLine(sc, "Title: ")
	if !ok {
		return
	}
	count, ok := promptInt(sc, "Number of copies to lend: ")
	if !ok {
		return
	}

	book, err := reg.Lend(title, count)
	if err != nil {
		fmt.Println(userMessage(err))
		return
	}
	logActivity(activity, username, fmt.Sprintf("Lent %d copies of %q.", count, book.Title))
	fmt.Printf("%d copies lent. '%s' has %d available.\n", count, book.Title, book.Available())
}

func handleReturn(sc *bufio.Scanner, reg *ledger.Registry, activity *ledger.ActivityLog, username string) {
	title, ok := promptLine(sc, "Title: ")
	if !ok {
		return
	}
	count, ok := promptInt(sc, "Number of copies to return: ")
	if !ok {
		return
	}

	book, err := reg.Return(title, count)
	if err != nil {
		fmt.Println(userMessage(err))
		return
	}
	logActivity(activity, username, fmt.Sprintf("Returned %d copies of %q.", count, book.Title))
	fmt.Printf("%d copies returned. '%s' has %d available.\n", count, book.Title, book.Available())
}

func handleRecentRequests(requests *ledger.RequestQueue) {
	recent, err := requests.ListRecent(ledger.DefaultRecentLimit)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(recent) == 0 {
		fmt.Println("No customer requests found.")
		return
	}
	fmt.Printf("%-20s %-30s %s\n", "Member", "Title", "Requested")
	fmt.Println(strings.Repeat("-", 75))
	for _, req := range recent {
		fmt.Printf("%-20s %-30s %s\n",
			truncateString(req.Requester, 20),
			truncateString(req.Title, 30),
			req.RequestedAt.Format(ledger.TimeFormat))
	}
}

func handleDashboard(reg *ledger.Registry, activity *ledger.ActivityLog) {
	fmt.Printf("Total Available Books: %d\n\n", reg.TotalAvailable())
	recent := activity.Recent(ledger.DefaultRecentLimit)
	if len(recent) == 0 {
		fmt.Println("No recent activity.")
		return
	}
	for _, entry := range recent {
		fmt.Println(entry)
	}
}

func logActivity(activity *ledger.ActivityLog, username, description string) {
	if _, err := activity.Record(username, description); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not record activity: %v\n", err)
	}
}

// ---------------------------------------------------------------------------
// Member session
// ---------------------------------------------------------------------------

func memberSession(sc *bufio.Scanner, cfg ledger.Config, username string) error {
	requests := ledger.NewRequestQueue(cfg.RequestsFile, ledger.WithLogger(stderrLogger{}))

	fmt.Println("Member commands: list, search, request, myrequests, logout")
	for {
		fmt.Print("\nmember> ")
		if !sc.Scan() {
			return nil
		}
		switch strings.TrimSpace(sc.Text()) {
		case "list":
			reg, err := openRegistry(cfg)
			if err != nil {
				return err
			}
			printBooks(reg.List())
		case "search":
			reg, err := openRegistry(cfg)
			if err != nil {
				return err
			}
			handleSearch(sc, reg)
		case "request":
			reg, err := openRegistry(cfg)
			if err != nil {
				return err
			}
			handleRequest(sc, reg, requests, username)
		case "myrequests":
			handleMyRequests(requests, username)
		case "logout":
			return nil
		default:
			fmt.Println("Unknown command. Type one of the commands listed above.")
		}
	}
}

func handleRequest(sc *bufio.Scanner, reg *ledger.Registry, requests *ledger.RequestQueue, username string) {
	title, ok := promptLine(sc, "Exact title of the book: ")
	if !ok {
		return
	}
	req, err := requests.Submit(reg, username, title)
	if err != nil {
		fmt.Println(userMessage(err))
		return
	}
	fmt.Printf("You have requested '%s'. Please wait for manager approval.\n", req.Title)
}

func handleMyRequests(requests *ledger.RequestQueue, username string) {
	mine, err := requests.ListFor(username)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(mine) == 0 {
		fmt.Println("You haven't made any requests yet.")
		return
	}
	for _, req := range mine {
		fmt.Printf("%s (%s)\n", req.Title, req.RequestedAt.Format(ledger.TimeFormat))
	}
}

// ---------------------------------------------------------------------------
// Shared helpers
// ---------------------------------------------------------------------------

func handleSearch(sc *bufio.Scanner, reg *ledger.Registry) {
	query, ok := promptLine(sc, "Query: ")
	if !ok {
		return
	}
	books := reg.Search(query)
	if len(books) == 0 {
		fmt.Printf("No books found matching '%s'.\n", query)
		return
	}
	printBooks(books)
}

func printBooks(books []ledger.Book) {
	if len(books) == 0 {
		fmt.Println("No books in library.")
		return
	}
	fmt.Printf("%-30s %-10s %-10s %s\n", "Title", "Total", "Lent", "Available")
	fmt.Println(strings.Repeat("-", 60))
	for _, b := range books {
		fmt.Printf("%-30s %-10d %-10d %d\n", truncateString(b.Title, 30), b.Quantity, b.Lent, b.Available())
	}
}

func promptLine(sc *bufio.Scanner, prompt string) (string, bool) {
	fmt.Print(prompt)
	if !sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(sc.Text()), true
}

func promptInt(sc *bufio.Scanner, prompt string) (int, bool) {
	raw, ok := promptLine(sc, prompt)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Printf("Quantity must be a number: %s\n", raw)
		return 0, false
	}
	return n, true
}

// userMessage maps each error kind to its human-readable message.
func userMessage(err error) string {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return "Book not found."
	case errors.Is(err, ledger.ErrEmptyTitle):
		return "Title must not be empty."
	case errors.Is(err, ledger.ErrInvalidQuantity):
		return "Quantity must be a positive number."
	case errors.Is(err, ledger.ErrInvalidCount):
		return "Number of copies must be a positive number."
	case errors.Is(err, ledger.ErrInsufficientStock):
		return "Not enough copies available."
	case errors.Is(err, ledger.ErrOverReturn):
		return "More copies than are currently lent out."
	case errors.Is(err, ledger.ErrUnavailable):
		return "This book is currently not available."
	case errors.Is(err, ledger.ErrDuplicateUser):
		return "Username already exists."
	case errors.Is(err, ledger.ErrWeakCredential):
		return "Password must be at least 6 characters and differ from the username."
	case errors.Is(err, ledger.ErrEmptyCredential):
		return "Please enter all fields."
	case errors.Is(err, ledger.ErrBadCredentials):
		return "Invalid credentials."
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return s[:maxLength]
	}
	return s[:maxLength-3] + "..."
}
