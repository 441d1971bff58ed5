package megasena

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for n := from; n <= to; n++ {
		out = append(out, n)
	}
	return out
}

func TestValidatePool(t *testing.T) {
	tests := []struct {
		name    string
		pool    []int
		wantErr *LotteryError
	}{
		{"minimum_pool", []int{1, 2, 3, 4, 5, 6, 7}, nil},
		{"unsorted_pool", []int{60, 1, 33, 12, 7, 45, 19}, nil},
		{"full_range", seq(1, 60), nil},
		{"empty_pool", nil, ErrTooFewNumbers},
		{"six_numbers", []int{1, 2, 3, 4, 5, 6}, ErrTooFewNumbers},
		{"sixty_one_numbers", append(seq(1, 60), 1), ErrTooManyNumbers},
		{"zero", []int{0, 1, 2, 3, 4, 5, 6}, ErrOutOfRange},
		{"sixty_one", []int{1, 2, 3, 4, 5, 6, 61}, ErrOutOfRange},
		{"negative", []int{-1, 2, 3, 4, 5, 6, 7}, ErrOutOfRange},
		{"duplicate_at_cardinality_seven", []int{1, 2, 3, 4, 5, 6, 6}, ErrDuplicateNumbers},
		{"duplicate_far_apart", []int{9, 2, 3, 4, 5, 6, 7, 8, 9}, ErrDuplicateNumbers},
		{"too_few_wins_over_range", []int{0, 70, 80}, ErrTooFewNumbers},
		{"range_wins_over_duplicate", []int{1, 1, 2, 3, 4, 5, 99}, ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePool(tt.pool)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsValidationError(err))
			assert.False(t, IsResultFetchError(err))
		})
	}
}

func TestValidatePool_DoesNotModifyInput(t *testing.T) {
	pool := []int{9, 3, 7, 1, 5, 2, 8}
	original := append([]int(nil), pool...)

	require.NoError(t, ValidatePool(pool))
	assert.Equal(t, original, pool)
}

func TestValidateDezenas(t *testing.T) {
	tests := []struct {
		name     string
		k        int
		poolSize int
		wantErr  bool
	}{
		{"one", 1, 7, false},
		{"equal_to_pool", 7, 7, false},
		{"typical", 6, 10, false},
		{"zero", 0, 7, true},
		{"negative", -3, 7, true},
		{"larger_than_pool", 8, 7, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDezenas(tt.k, tt.poolSize)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrInvalidSubsetSize))
			assert.False(t, IsValidationError(err))
		})
	}
}

func TestNewNumberPool(t *testing.T) {
	t.Run("sorted_copy", func(t *testing.T) {
		input := []int{30, 10, 20, 60, 1, 45, 7}
		pool, err := NewNumberPool(input)
		require.NoError(t, err)

		assert.Equal(t, NumberPool{1, 7, 10, 20, 30, 45, 60}, pool)
		assert.Equal(t, []int{30, 10, 20, 60, 1, 45, 7}, input)
		assert.Equal(t, 7, pool.Size())
		assert.True(t, pool.Contains(45))
		assert.False(t, pool.Contains(46))
		assert.Equal(t, "1,7,10,20,30,45,60", pool.String())
	})

	t.Run("invalid", func(t *testing.T) {
		pool, err := NewNumberPool([]int{1, 2, 3})
		assert.Nil(t, pool)
		assert.ErrorIs(t, err, ErrTooFewNumbers)
	})
}
