// internal/words/words.go
//
// Provides the dictionary the match draws secret words from.
//
// Responsibilities:
//   - Load the word list from a configured file or fall back to the embedded default.
//   - Normalize entries (uppercase, A–Z only) and drop duplicates.
//   - Index words by length for "all words of length L" queries.
//   - Answer membership checks for strict guess validation.
//
// Initialization behavior (Load):
//   1. If path is non-empty, read one word per line from that file.
//   2. Otherwise use assets/words.txt embedded in the binary.
//
// A Dictionary is immutable after Load; per-match consumption happens in Pool.

package words

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/robalobadob/wordduel/assets"
)

// ErrEmpty is returned when a word list yields no usable words.
var ErrEmpty = errors.New("words: dictionary is empty")

// Dictionary is a static, length-indexed set of candidate words.
type Dictionary struct {
	byLen map[int][]string    // words grouped by length, in load order
	set   map[string]struct{} // all words, for Contains
}

// Load reads the dictionary from path, or from the embedded default when
// path is empty.
func Load(path string) (*Dictionary, error) {
	var (
		list []string
		err  error
	)
	if path != "" {
		list, err = readWordFile(path)
		if err != nil {
			return nil, fmt.Errorf("words: read %s: %w", path, err)
		}
	} else {
		list, err = assets.WordList()
		if err != nil {
			return nil, fmt.Errorf("words: embedded list: %w", err)
		}
	}
	d := New(list)
	if d.Len() == 0 {
		return nil, ErrEmpty
	}
	return d, nil
}

// New builds a Dictionary from raw entries. Invalid entries are skipped.
func New(list []string) *Dictionary {
	d := &Dictionary{
		byLen: make(map[int][]string),
		set:   make(map[string]struct{}, len(list)),
	}
	for _, raw := range list {
		w, ok := normalize(raw)
		if !ok {
			continue
		}
		if _, dup := d.set[w]; dup {
			continue
		}
		d.set[w] = struct{}{}
		d.byLen[len(w)] = append(d.byLen[len(w)], w)
	}
	return d
}

// WordsOfLength returns a copy of every word with exactly n letters.
func (d *Dictionary) WordsOfLength(n int) []string {
	return append([]string(nil), d.byLen[n]...)
}

// Contains reports whether w (any case) is in the dictionary.
func (d *Dictionary) Contains(w string) bool {
	_, ok := d.set[strings.ToUpper(strings.TrimSpace(w))]
	return ok
}

// Len returns the total number of words.
func (d *Dictionary) Len() int { return len(d.set) }

// Lengths returns the number of words available per length.
func (d *Dictionary) Lengths() map[int]int {
	out := make(map[int]int, len(d.byLen))
	for n, ws := range d.byLen {
		out[n] = len(ws)
	}
	return out
}

// SortedLengths returns the word lengths present, ascending.
func (d *Dictionary) SortedLengths() []int {
	out := make([]int, 0, len(d.byLen))
	for n := range d.byLen {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// readWordFile loads one word per line from a file. Blank lines and
// lines starting with '#' are skipped.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, sc.Err()
}

// normalize uppercases w and reports whether it is a non-empty A–Z word.
func normalize(w string) (string, bool) {
	w = strings.ToUpper(strings.TrimSpace(w))
	if w == "" {
		return "", false
	}
	for _, r := range w {
		if r < 'A' || r > 'Z' {
			return "", false
		}
	}
	return w, true
}
