// Package corpus loads the word list and embedding vectors the cousin search
// runs against, and fetches missing dataset files.
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadWordList returns the non-empty lines of r, deduplicated, in first-seen order.
func ReadWordList(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	seen := make(map[string]struct{})
	var words []string
	for scanner.Scan() {
		w := strings.TrimSpace(scanner.Text())
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}
	return words, nil
}

// LoadWordList reads a newline-delimited word list from path.
func LoadWordList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadWordList(f)
}
