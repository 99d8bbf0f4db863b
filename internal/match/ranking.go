package match

import "sort"

// Rank orders players by descending score. Equal scores keep seat order.
func Rank(players []*Player) []Standing {
	sorted := append([]*Player(nil), players...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })

	out := make([]Standing, len(sorted))
	for i, p := range sorted {
		out[i] = Standing{
			Position: i + 1,
			Name:     p.Name,
			Score:    p.Score,
			Guessed:  append([]string{}, p.Guessed...),
		}
	}
	return out
}

// Decide reads the outcome off a ranking produced by Rank.
// A single leader with a positive score wins; a zero top score means no
// winner; a shared positive top score is a tie.
func Decide(ranking []Standing) (Result, string) {
	if len(ranking) == 0 || ranking[0].Score == 0 {
		return ResultNoWinner, ""
	}
	if len(ranking) > 1 && ranking[1].Score == ranking[0].Score {
		return ResultTie, ""
	}
	return ResultWinner, ranking[0].Name
}
