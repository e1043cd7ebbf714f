// Package symbols reads and normalizes ticker symbol lists.
package symbols

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/ndewijer/graham-screener/internal/apperrors"
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9.\-]{0,14}$`)

// Normalize upper-cases and trims a symbol and checks its shape.
func Normalize(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if !symbolPattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidSymbol, symbol)
	}
	return s, nil
}

// Read returns the symbols in r, one per line. Blank lines and lines starting
// with '#' are skipped.
func Read(r io.Reader) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FromFiles reads every file in order and returns the combined symbols,
// normalized and without duplicates.
func FromFiles(paths ...string) ([]string, error) {
	var all []string
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open symbol file: %w", err)
		}
		list, err := Read(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read symbol file %s: %w", path, err)
		}
		all = append(all, list...)
	}
	return Dedupe(all)
}

// Dedupe normalizes symbols and drops repeats, keeping first occurrence order.
func Dedupe(symbols []string) ([]string, error) {
	seen := make(map[string]bool, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, raw := range symbols {
		s, err := Normalize(raw)
		if err != nil {
			return nil, err
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out, nil
}
