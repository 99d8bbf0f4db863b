package words

import "strings"

// Pool is the per-match supply of secret words of a single length.
// Words removed from the pool are never offered again.
//
// A Pool is not safe for concurrent use; it belongs to one match.
type Pool struct {
	length int
	words  []string
}

// NewPool copies the dictionary's words of the given length.
func NewPool(d *Dictionary, length int) *Pool {
	return &Pool{length: length, words: d.WordsOfLength(length)}
}

// Words returns the remaining words of length n. A pool only ever
// holds one length, so any other n yields nil.
func (p *Pool) Words(n int) []string {
	if n != p.length {
		return nil
	}
	return append([]string(nil), p.words...)
}

// Remove drops one instance of w from the pool. Unknown words are ignored.
func (p *Pool) Remove(w string) {
	w = strings.ToUpper(w)
	for i, x := range p.words {
		if x == w {
			p.words = append(p.words[:i], p.words[i+1:]...)
			return
		}
	}
}

// Remaining returns how many words are left.
func (p *Pool) Remaining() int { return len(p.words) }
