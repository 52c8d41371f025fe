package selection

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidWeight is returned when a weight is negative, NaN or infinite.
var ErrInvalidWeight = errors.New("invalid weight")

// Cloner is implemented by candidate values that can deep-copy themselves.
type Cloner[T any] interface {
	Clone() T
}

// Source is the random stream consumed by Draw. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Choice pairs a candidate with its selection weight.
type Choice[T any] struct {
	Value  T
	Weight float64
}

// Weighted is an ordered set of weighted candidates supporting
// proportional random draws. Not safe for concurrent mutation; the
// population pipeline owns it on a single goroutine.
type Weighted[T Cloner[T]] struct {
	choices []Choice[T]
}

// New returns an empty selection with room for capacity choices.
func New[T Cloner[T]](capacity int) *Weighted[T] {
	return &Weighted[T]{choices: make([]Choice[T], 0, capacity)}
}

func validWeight(w float64) error {
	if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidWeight, w)
	}
	return nil
}

// AddChoice appends value with the given weight.
func (s *Weighted[T]) AddChoice(value T, weight float64) error {
	if err := validWeight(weight); err != nil {
		return err
	}
	s.choices = append(s.choices, Choice[T]{Value: value, Weight: weight})
	return nil
}

// SetWeight replaces the weight of the choice at index i.
func (s *Weighted[T]) SetWeight(i int, weight float64) error {
	if err := validWeight(weight); err != nil {
		return err
	}
	s.choices[i].Weight = weight
	return nil
}

// RemoveChoice deletes the choice at index i, preserving order.
func (s *Weighted[T]) RemoveChoice(i int) {
	s.choices = append(s.choices[:i], s.choices[i+1:]...)
}

// Clear drops every choice.
func (s *Weighted[T]) Clear() {
	s.choices = s.choices[:0]
}

// Len returns the number of choices.
func (s *Weighted[T]) Len() int {
	return len(s.choices)
}

// Choice returns the choice at index i.
func (s *Weighted[T]) Choice(i int) Choice[T] {
	return s.choices[i]
}

// Choices returns the backing slice. Callers may mutate values in place
// but must use AddChoice/SetWeight to change weights.
func (s *Weighted[T]) Choices() []Choice[T] {
	return s.choices
}

// TotalWeight sums every weight.
func (s *Weighted[T]) TotalWeight() float64 {
	var total float64
	for _, c := range s.choices {
		total += c.Weight
	}
	return total
}

// Clone returns a deep copy: each value is cloned and order is preserved.
func (s *Weighted[T]) Clone() *Weighted[T] {
	out := New[T](len(s.choices))
	for _, c := range s.choices {
		out.choices = append(out.choices, Choice[T]{Value: c.Value.Clone(), Weight: c.Weight})
	}
	return out
}

// Filter returns a new selection sharing the values for which keep is true.
// Values are not cloned.
func (s *Weighted[T]) Filter(keep func(T) bool) *Weighted[T] {
	out := New[T](len(s.choices))
	for _, c := range s.choices {
		if keep(c.Value) {
			out.choices = append(out.choices, c)
		}
	}
	return out
}

// Draw picks one value with probability proportional to its weight.
// It reports false when the selection is empty or every weight is zero.
func (s *Weighted[T]) Draw(rng Source) (T, bool) {
	var zero T
	total := s.TotalWeight()
	if total <= 0 {
		return zero, false
	}
	// finite weights can still sum past MaxFloat64; draw on weights
	// relative to the largest one
	scale := 1.0
	if math.IsInf(total, 1) {
		scale = s.maxWeight()
		total = 0
		for _, c := range s.choices {
			total += c.Weight / scale
		}
	}
	target := rng.Float64() * total
	var acc float64
	last := -1
	for i, c := range s.choices {
		if c.Weight == 0 {
			continue
		}
		acc += c.Weight / scale
		last = i
		if target < acc {
			return c.Value, true
		}
	}
	// float rounding can leave target == total
	return s.choices[last].Value, true
}

func (s *Weighted[T]) maxWeight() float64 {
	var m float64
	for _, c := range s.choices {
		m = max(m, c.Weight)
	}
	return m
}

// Equal reports whether both selections hold the same sequence of
// (value, weight) pairs, comparing values with eq.
func (s *Weighted[T]) Equal(other *Weighted[T], eq func(a, b T) bool) bool {
	if s == nil || other == nil {
		return s == other
	}
	if len(s.choices) != len(other.choices) {
		return false
	}
	for i := range s.choices {
		if s.choices[i].Weight != other.choices[i].Weight {
			return false
		}
		if !eq(s.choices[i].Value, other.choices[i].Value) {
			return false
		}
	}
	return true
}
