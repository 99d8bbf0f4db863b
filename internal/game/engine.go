// internal/game/engine.go
//
// Guess evaluation for a single row of the board.
// Responsibilities:
//   - Normalize and validate raw guesses (length, A–Z only).
//   - Score guesses with the two-pass Wordle algorithm.
//   - Derive keyboard highlight states from the rows of a round.
//
// Everything here is pure; the match package owns all state.
package game

import "strings"

// Normalize trims surrounding whitespace and uppercases the guess.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Valid reports whether s is exactly n letters A–Z.
func Valid(s string, n int) bool {
	if len(s) != n {
		return false
	}
	return isAlpha(s)
}

// Evaluate compares guess against secret and returns one LetterResult per
// position. Both inputs are uppercased first. Returns nil when the lengths
// differ.
//
// Pass 1:
//   - Mark exact matches as Correct.
//   - Count the remaining (non-correct) secret letters.
//
// Pass 2:
//   - For each remaining guess letter: if the secret still has an unconsumed
//     instance, mark Misplaced and consume it; otherwise mark Wrong.
//
// Repeated letters in either word are therefore never over-credited.
func Evaluate(secret, guess string) []LetterResult {
	secretRunes := []rune(strings.ToUpper(secret))
	guessRunes := []rune(strings.ToUpper(guess))
	n := len(guessRunes)
	if n != len(secretRunes) {
		return nil
	}
	res := make([]LetterResult, n)

	// Letter frequency for the non-correct secret slots (A–Z).
	var counts [26]int

	for i := 0; i < n; i++ {
		res[i].Letter = string(guessRunes[i])
		if guessRunes[i] == secretRunes[i] {
			res[i].Verdict = Correct
		} else if j := idx(secretRunes[i]); j >= 0 {
			counts[j]++
		}
	}

	for i := 0; i < n; i++ {
		if res[i].Verdict == Correct {
			continue
		}
		if j := idx(guessRunes[i]); j >= 0 && counts[j] > 0 {
			res[i].Verdict = Misplaced
			counts[j]--
		} else {
			res[i].Verdict = Wrong
		}
	}
	return res
}

// Solved reports whether every tile is Correct.
func Solved(row []LetterResult) bool {
	if len(row) == 0 {
		return false
	}
	for _, r := range row {
		if r.Verdict != Correct {
			return false
		}
	}
	return true
}

// KeyStates folds the rows of a round into the best verdict seen per letter.
func KeyStates(rows [][]LetterResult) map[string]Verdict {
	out := make(map[string]Verdict)
	for _, row := range rows {
		for _, r := range row {
			if r.Verdict.rank() > out[r.Letter].rank() {
				out[r.Letter] = r.Verdict
			}
		}
	}
	return out
}

// idx maps an uppercase ASCII letter to 0..25, or -1 for anything else.
func idx(r rune) int {
	if r < 'A' || r > 'Z' {
		return -1
	}
	return int(r - 'A')
}

// isAlpha checks that a string consists only of uppercase A–Z.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
