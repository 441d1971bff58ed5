package megasena

import (
	"fmt"
	"slices"
)

// ValidatePool checks a candidate number pool. Rules are checked in order and the
// first one that fails decides the error:
//
//  1. at least MinPoolSize numbers (ErrTooFewNumbers)
//  2. at most MaxPoolSize numbers (ErrTooManyNumbers)
//  3. every number in [MinNumber, MaxNumber] (ErrOutOfRange)
//  4. no repeated numbers (ErrDuplicateNumbers)
func ValidatePool(pool []int) error {
	if len(pool) < MinPoolSize {
		return ErrTooFewNumbers.WithDetails("got %d", len(pool))
	}
	if len(pool) > MaxPoolSize {
		return ErrTooManyNumbers.WithDetails("got %d", len(pool))
	}

	for _, n := range pool {
		if n < MinNumber || n > MaxNumber {
			return ErrOutOfRange.WithDetails("got %d", n)
		}
	}

	seen := make(map[int]struct{}, len(pool))
	for _, n := range pool {
		if _, dup := seen[n]; dup {
			return ErrDuplicateNumbers.WithDetails("%d appears more than once", n)
		}
		seen[n] = struct{}{}
	}

	return nil
}

// ValidateDezenas checks a game size against a pool of poolSize numbers
func ValidateDezenas(k, poolSize int) error {
	if k < 1 || k > poolSize {
		return ErrInvalidSubsetSize.WithDetails("dezenas must be between 1 and %d, got %d", poolSize, k)
	}
	return nil
}

// NumberPool is a validated, ascending set of numbers
type NumberPool []int

// NewNumberPool validates numbers and returns them as a sorted copy
func NewNumberPool(numbers []int) (NumberPool, error) {
	if err := ValidatePool(numbers); err != nil {
		return nil, err
	}

	pool := slices.Clone(numbers)
	slices.Sort(pool)
	return NumberPool(pool), nil
}

// Size returns the pool cardinality
func (p NumberPool) Size() int { return len(p) }

// Contains reports whether n is in the pool
func (p NumberPool) Contains(n int) bool {
	_, found := slices.BinarySearch(p, n)
	return found
}

// String renders the pool as comma-separated numbers
func (p NumberPool) String() string {
	return formatNumbers(p, ",")
}

func formatNumbers(numbers []int, sep string) string {
	b := make([]byte, 0, len(numbers)*4)
	for i, n := range numbers {
		if i > 0 {
			b = append(b, sep...)
		}
		b = fmt.Append(b, n)
	}
	return string(b)
}
