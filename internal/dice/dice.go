// Package dice implements the random rolls and skill checks the game rules
// are built on.
package dice

import (
	"errors"
	"math/rand/v2"
	"sync"
)

// D20 is the die used for skill checks unless a caller asks otherwise.
const D20 = 20

// ErrInvalidDice indicates a roll with a non-positive count or side count.
var ErrInvalidDice = errors.New("dice must have positive sides and count")

// Source is the randomness provider for a Roller.
type Source interface {
	// IntN returns a random int in [0, n). n > 0.
	IntN(n int) int
	// Float64 returns a random float in [0, 1).
	Float64() float64
}

// Roller draws numbers from a Source. It is safe for concurrent use.
type Roller struct {
	mu  sync.Mutex
	src Source
}

// New returns a Roller over src.
func New(src Source) *Roller {
	return &Roller{src: src}
}

// NewSeeded returns a deterministic Roller. The same seed always yields the
// same sequence of rolls.
func NewSeeded(seed uint64) *Roller {
	return New(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// NewRandom returns a Roller seeded from the runtime's random source.
func NewRandom() *Roller {
	return NewSeeded(rand.Uint64())
}

// RollResult captures a roll of several identical dice.
type RollResult struct {
	Sides   int
	Results []int
	Total   int
}

// Roll rolls n dice with the given number of sides.
func (r *Roller) Roll(n, sides int) (RollResult, error) {
	if n <= 0 || sides <= 0 {
		return RollResult{}, ErrInvalidDice
	}

	results := make([]int, n)
	total := 0
	for i := range results {
		results[i] = r.die(sides)
		total += results[i]
	}
	return RollResult{Sides: sides, Results: results, Total: total}, nil
}

// Check is the outcome of a skill check.
//
// Success, Critical and Fumble are computed independently from the same raw
// roll: a roll of 1 is a fumble even when the total still meets the
// difficulty.
type Check struct {
	Roll       int
	Modifier   int
	Total      int
	Difficulty int
	Success    bool
	Critical   bool
	Fumble     bool
}

// SkillCheck rolls one die, adds modifier and compares the total against
// difficulty. sides <= 0 rolls a d20.
func (r *Roller) SkillCheck(modifier, difficulty, sides int) Check {
	if sides <= 0 {
		sides = D20
	}
	roll := r.die(sides)
	total := roll + modifier
	return Check{
		Roll:       roll,
		Modifier:   modifier,
		Total:      total,
		Difficulty: difficulty,
		Success:    total >= difficulty,
		Critical:   roll == sides,
		Fumble:     roll == 1,
	}
}

// Between returns a uniform int in [min, max]. Swapped bounds are tolerated.
func (r *Roller) Between(min, max int) int {
	if min == max {
		return min
	}
	if min > max {
		min, max = max, min
	}
	return min + r.intN(max-min+1)
}

// Chance reports true with probability p.
func (r *Roller) Chance(p float64) bool {
	return r.Float64() < p
}

// Float64 returns a uniform float in [0, 1).
func (r *Roller) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Float64()
}

// Index returns a uniform index into a collection of length n.
func (r *Roller) Index(n int) int {
	return r.intN(n)
}

// Pick returns a uniform element of items. items must not be empty.
func Pick[T any](r *Roller, items []T) T {
	return items[r.Index(len(items))]
}

func (r *Roller) die(sides int) int {
	return r.intN(sides) + 1
}

func (r *Roller) intN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.IntN(n)
}
