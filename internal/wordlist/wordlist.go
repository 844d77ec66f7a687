// Package wordlist loads word lists for generated prompts.
package wordlist

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed words.txt
var defaultWords string

// Default returns the built-in list of common English words.
func Default() []string {
	words, err := parse(strings.NewReader(defaultWords))
	if err != nil {
		return nil
	}
	return words
}

// LoadWords reads one word per line from the provided file path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	return parse(file)
}

// Resolve loads path when set, otherwise the built-in list, and keeps only
// words accepted by filter.
func Resolve(path string, filter FilterFunc) ([]string, error) {
	words := Default()
	if path != "" {
		loaded, err := LoadWords(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load word list: %w", err)
		}
		words = loaded
	}
	words = Filter(words, filter)
	if len(words) == 0 {
		return nil, fmt.Errorf("word list has no usable words")
	}
	return words, nil
}

func parse(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}
