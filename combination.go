package megasena

import (
	"iter"
	"math/big"
	"slices"
	"time"
)

// Game is one ascending k-subset of a number pool
type Game []int

// Hits returns how many distinct numbers of g appear in drawn
func (g Game) Hits(drawn map[int]struct{}) int {
	hits := 0
	for i, n := range g {
		if slices.Contains(g[:i], n) {
			continue
		}
		if _, ok := drawn[n]; ok {
			hits++
		}
	}
	return hits
}

// String renders the game the way exports print it, e.g. [1, 2, 3, 4, 5, 6]
func (g Game) String() string {
	return "[" + formatNumbers(g, ", ") + "]"
}

// GameSet is every k-subset of a pool in lexicographic order
type GameSet struct {
	Pool      []int     `json:"pool"`       // Sorted source pool
	Dezenas   int       `json:"dezenas"`    // Numbers per game
	Games     []Game    `json:"games"`      // All C(len(Pool), Dezenas) games
	CreatedAt time.Time `json:"created_at"` // When the set was generated
}

// Len returns the number of games in the set
func (gs *GameSet) Len() int { return len(gs.Games) }

// Clone returns a deep copy of the set. The copied games share one backing array.
func (gs *GameSet) Clone() *GameSet {
	if gs == nil {
		return nil
	}

	c := *gs
	c.Pool = slices.Clone(gs.Pool)
	if gs.Games != nil {
		flat := make([]int, 0, len(gs.Games)*gs.Dezenas)
		c.Games = make([]Game, len(gs.Games))
		for i, g := range gs.Games {
			start := len(flat)
			flat = append(flat, g...)
			c.Games[i] = flat[start:len(flat):len(flat)]
		}
	}
	return &c
}

// All iterates the games in generation order
func (gs *GameSet) All() iter.Seq[Game] { return slices.Values(gs.Games) }

// Count returns C(n, k), the number of games a pool of n numbers yields for k dezenas
func Count(n, k int) *big.Int {
	if k < 0 || n < 0 || k > n {
		return big.NewInt(0)
	}
	return new(big.Int).Binomial(int64(n), int64(k))
}

// Generate materializes every k-combination of pool. The pool is sorted first, so
// each game is ascending and games come out in lexicographic order. pool is
// expected to have passed ValidatePool; k outside [1, len(pool)] fails with
// ErrInvalidSubsetSize and produces nothing.
func Generate(pool []int, k int) (*GameSet, error) {
	combos, err := NewCombinations(pool, k)
	if err != nil {
		return nil, err
	}

	games := make([]Game, 0, combos.capacityHint())
	for game := range combos.All() {
		games = append(games, game)
	}

	return &GameSet{
		Pool:      combos.Pool(),
		Dezenas:   k,
		Games:     games,
		CreatedAt: time.Now(),
	}, nil
}

// Combinations is a lazy, restartable sequence of the k-combinations of a pool.
// Next/Reset walk a shared cursor; All returns an independent iterator on each call.
type Combinations struct {
	pool []int
	k    int

	idx     []int
	started bool
	done    bool
}

// NewCombinations prepares a lazy combination sequence without generating anything
func NewCombinations(pool []int, k int) (*Combinations, error) {
	if err := ValidateDezenas(k, len(pool)); err != nil {
		return nil, err
	}

	sorted := slices.Clone(pool)
	slices.Sort(sorted)

	return &Combinations{
		pool: sorted,
		k:    k,
		idx:  make([]int, k),
	}, nil
}

// Pool returns a copy of the sorted source pool
func (c *Combinations) Pool() []int { return slices.Clone(c.pool) }

// Dezenas returns the game size
func (c *Combinations) Dezenas() int { return c.k }

// Len returns the total number of games in the sequence
func (c *Combinations) Len() *big.Int { return Count(len(c.pool), c.k) }

// Next returns the next game, or false once the sequence is exhausted
func (c *Combinations) Next() (Game, bool) {
	if c.done {
		return nil, false
	}

	if !c.started {
		c.started = true
		for i := range c.idx {
			c.idx[i] = i
		}
		return c.game(c.idx), true
	}

	if !advance(c.idx, len(c.pool)) {
		c.done = true
		return nil, false
	}
	return c.game(c.idx), true
}

// Reset rewinds the cursor to the first game
func (c *Combinations) Reset() {
	c.started = false
	c.done = false
}

// All iterates every game from the beginning. It does not touch the Next cursor.
func (c *Combinations) All() iter.Seq[Game] {
	return func(yield func(Game) bool) {
		idx := make([]int, c.k)
		for i := range idx {
			idx[i] = i
		}

		for {
			if !yield(c.game(idx)) {
				return
			}
			if !advance(idx, len(c.pool)) {
				return
			}
		}
	}
}

func (c *Combinations) game(idx []int) Game {
	g := make(Game, len(idx))
	for i, j := range idx {
		g[i] = c.pool[j]
	}
	return g
}

// capacityHint sizes the materialized slice, capped so a huge count does not
// reserve memory up front.
func (c *Combinations) capacityHint() int {
	const maxHint = 1 << 20
	total := c.Len()
	if !total.IsInt64() || total.Int64() > maxHint {
		return maxHint
	}
	return int(total.Int64())
}

// advance moves idx to the next combination of n indices in lexicographic order.
// It returns false when idx already holds the last combination.
func advance(idx []int, n int) bool {
	k := len(idx)
	i := k - 1
	for i >= 0 && idx[i] == n-k+i {
		i--
	}
	if i < 0 {
		return false
	}

	idx[i]++
	for j := i + 1; j < k; j++ {
		idx[j] = idx[j-1] + 1
	}
	return true
}
