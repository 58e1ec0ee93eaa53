package pkg

import "math/rand/v2"

// Random is the source of every random choice the game makes, so tests can replace it.
type Random interface {
	// IntN returns a value in [0, n).
	IntN(n int) int
}

type mathRandom struct{}

func NewRandom() Random {
	return mathRandom{}
}

func (mathRandom) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return rand.IntN(n) //nolint: gosec // it's ok
}

// SequenceRandom returns queued values in order, then 0. Values are clamped into [0, n).
type SequenceRandom struct {
	values []int
	next   int
}

func NewSequenceRandom(values ...int) *SequenceRandom {
	return &SequenceRandom{values: values}
}

func (that *SequenceRandom) IntN(n int) int {
	if n <= 0 || that.next >= len(that.values) {
		return 0
	}

	value := that.values[that.next]
	that.next++

	if value < 0 {
		return 0
	}
	if value >= n {
		return n - 1
	}
	return value
}

// Calls - how many queued values were consumed.
func (that *SequenceRandom) Calls() int {
	return that.next
}
