package match

import "errors"

var (
	ErrInvalidConfig     = errors.New("invalid match configuration")
	ErrNoWords           = errors.New("no words of the requested length")
	ErrInsufficientWords = errors.New("insufficient words for another round")
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotInWordList     = errors.New("not in word list")
	ErrMatchFinished     = errors.New("match finished")
	ErrRoundNotStarted   = errors.New("round not started")
	ErrRoundInProgress   = errors.New("round in progress")
	ErrRoundOver         = errors.New("round over, waiting to advance")
	ErrNothingPending    = errors.New("no pending transition")
)
