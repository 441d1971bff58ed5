package megasena

import (
	"slices"
	"time"
)

// DrawResult is the published result of one contest
type DrawResult struct {
	Contest int    `json:"concurso"` // Contest number
	Date    string `json:"data"`     // Draw date as published (dd/mm/yyyy)
	Numbers []int  `json:"dezenas"`  // Drawn numbers, ascending
}

// Time parses Date, returning false if it is not in the dd/mm/yyyy form
func (d *DrawResult) Time() (time.Time, bool) {
	t, err := time.Parse("02/01/2006", d.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (d *DrawResult) numberSet() map[int]struct{} {
	set := make(map[int]struct{}, len(d.Numbers))
	for _, n := range d.Numbers {
		set[n] = struct{}{}
	}
	return set
}

// GameMatch is one game and how many of its numbers were drawn
type GameMatch struct {
	Game Game `json:"combinacao"`
	Hits int  `json:"acertos"`
}

// MatchReport holds the hit count of every game against one draw
type MatchReport struct {
	Contest int         `json:"concurso"`
	Date    string      `json:"data"`
	Numbers []int       `json:"numeros"`
	Games   []GameMatch `json:"jogos"`
}

// MatchGames computes the hit count of each game against draw. Games are reported in
// ascending form and in the order given.
func MatchGames(games []Game, draw *DrawResult) *MatchReport {
	drawn := draw.numberSet()

	report := &MatchReport{
		Contest: draw.Contest,
		Date:    draw.Date,
		Numbers: slices.Clone(draw.Numbers),
		Games:   make([]GameMatch, 0, len(games)),
	}
	for _, game := range games {
		sorted := slices.Clone(game)
		slices.Sort(sorted)
		report.Games = append(report.Games, GameMatch{Game: sorted, Hits: sorted.Hits(drawn)})
	}
	return report
}

// Distribution counts games per hit count
func (r *MatchReport) Distribution() map[int]int {
	dist := make(map[int]int)
	for _, m := range r.Games {
		dist[m.Hits]++
	}
	return dist
}

// Best returns the games with the highest hit count. It returns nil for an empty report.
func (r *MatchReport) Best() []GameMatch {
	var best []GameMatch
	top := -1
	for _, m := range r.Games {
		switch {
		case m.Hits > top:
			top = m.Hits
			best = []GameMatch{m}
		case m.Hits == top:
			best = append(best, m)
		}
	}
	return best
}
