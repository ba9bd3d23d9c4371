// Seeds the book ledger from a catalog listing file. Each line of the
// listing is `title|quantity`; quantities accumulate onto existing titles,
// so re-running the import adds stock rather than resetting it.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"book-lending/ledger"
)

type stderrLogger struct{}

func (stderrLogger) Warn(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "warning: %s", msg)
	for i := 0; i+1 < len(args); i += 2 {
		fmt.Fprintf(os.Stderr, " %v=%v", args[i], args[i+1])
	}
	fmt.Fprintln(os.Stderr)
}

func main() {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <listing-file> [data-dir]\n", os.Args[0])
		os.Exit(1)
	}
	listingPath := os.Args[1]
	dataDir := "."
	if len(os.Args) == 3 {
		dataDir = os.Args[2]
	}

	cfg := ledger.DefaultConfig(dataDir)
	reg, err := ledger.OpenRegistry(cfg.BooksFile, ledger.WithLogger(stderrLogger{}))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
		os.Exit(1)
	}

	f, err := os.Open(listingPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading listing: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	fmt.Printf("Importing catalog from %s...\n", listingPath)

	successCount := 0
	errorCount := 0

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		title, qtyStr, ok := strings.Cut(line, "|")
		if !ok {
			fmt.Printf("Warning: no quantity on line %q, skipping\n", line)
			errorCount++
			continue
		}
		qty, err := strconv.Atoi(strings.TrimSpace(qtyStr))
		if err != nil {
			fmt.Printf("Warning: bad quantity on line %q, skipping\n", line)
			errorCount++
			continue
		}

		fmt.Printf("Importing: %s (x%d)... ", strings.TrimSpace(title), qty)
		book, err := reg.Add(title, qty)
		if err != nil {
			fmt.Printf("ERROR - %v\n", err)
			errorCount++
			continue
		}
		fmt.Printf("SUCCESS (%d total, %d available)\n", book.Quantity, book.Available())
		successCount++
	}
	if err := sc.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading listing: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nImport complete!\n")
	fmt.Printf("Successfully imported: %d titles\n", successCount)
	fmt.Printf("Errors: %d\n", errorCount)

	if successCount > 0 {
		fmt.Println("\nCatalog:")
		fmt.Printf("%-50s %-10s %s\n", "Title", "Total", "Available")
		fmt.Println(strings.Repeat("-", 70))
		for _, book := range reg.List() {
			fmt.Printf("%-50s %-10d %d\n", truncateString(book.Title, 50), book.Quantity, book.Available())
		}
	}
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
