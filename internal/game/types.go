// internal/game/types.go
//
// Core type definitions for guess evaluation.
// Defines:
//   - Verdict: per-letter result of a guess (correct/misplaced/wrong).
//   - LetterResult: one evaluated tile.

package game

// Verdict represents the evaluation result for a single letter in a guess.
// Possible values:
//   - "correct":   letter is in the secret at this position.
//   - "misplaced": letter is in the secret elsewhere, within its remaining count.
//   - "wrong":     letter is absent, or every instance is already accounted for.
type Verdict string

const (
	Correct   Verdict = "correct"
	Misplaced Verdict = "misplaced"
	Wrong     Verdict = "wrong"
)

// rank orders verdicts for keyboard highlighting.
func (v Verdict) rank() int {
	switch v {
	case Correct:
		return 3
	case Misplaced:
		return 2
	case Wrong:
		return 1
	}
	return 0
}

// LetterResult is a single evaluated tile of a guess.
type LetterResult struct {
	Letter  string  `json:"letter"`
	Verdict Verdict `json:"verdict"`
}
