package megasena

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFetcher returns a fixed draw or error and counts calls
type stubFetcher struct {
	draw  *DrawResult
	err   error
	calls atomic.Int32
}

func (f *stubFetcher) FetchLatest(ctx context.Context) (*DrawResult, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.draw, nil
}

func sampleDraw() *DrawResult {
	return &DrawResult{Contest: 2700, Date: "28/03/2024", Numbers: []int{1, 2, 3, 10, 11, 12}}
}

func TestResultChecker_Check(t *testing.T) {
	fetcher := &stubFetcher{draw: sampleDraw()}
	checker := NewResultChecker(fetcher)

	games := []Game{
		{1, 2, 3, 4, 5, 6},
		{1, 2, 3, 10, 11, 12},
		{40, 41, 42, 43, 44, 45},
		{12, 11, 10, 7, 8, 9},
	}

	report, err := checker.Check(context.Background(), games)
	require.NoError(t, err)

	assert.Equal(t, int32(1), fetcher.calls.Load())
	assert.Equal(t, 2700, report.Contest)
	assert.Equal(t, "28/03/2024", report.Date)
	assert.Equal(t, []int{1, 2, 3, 10, 11, 12}, report.Numbers)

	require.Len(t, report.Games, 4)
	assert.Equal(t, 3, report.Games[0].Hits)
	assert.Equal(t, 6, report.Games[1].Hits)
	assert.Equal(t, 0, report.Games[2].Hits)
	assert.Equal(t, 3, report.Games[3].Hits)
	// 输出为升序
	assert.Equal(t, Game{7, 8, 9, 10, 11, 12}, report.Games[3].Game)
	assert.Equal(t, Game{12, 11, 10, 7, 8, 9}, games[3])

	assert.Equal(t, map[int]int{0: 1, 3: 2, 6: 1}, report.Distribution())
	assert.Equal(t, []GameMatch{{Game: Game{1, 2, 3, 10, 11, 12}, Hits: 6}}, report.Best())
}

func TestResultChecker_EmptyGames(t *testing.T) {
	report, err := NewResultChecker(&stubFetcher{draw: sampleDraw()}).Check(context.Background(), nil)
	require.NoError(t, err)

	assert.Empty(t, report.Games)
	assert.Nil(t, report.Best())
	assert.Empty(t, report.Distribution())
}

func TestResultChecker_FetchErrors(t *testing.T) {
	tests := []struct {
		name      string
		fetcher   *stubFetcher
		wantErr   error
		wantCause error
	}{
		{"bad_status", &stubFetcher{err: ErrBadStatus.WithDetails("HTTP 500")}, ErrBadStatus, nil},
		{"malformed_payload", &stubFetcher{err: ErrMalformedPayload}, ErrMalformedPayload, nil},
		{"plain_error_becomes_transport", &stubFetcher{err: errors.New("dial tcp: refused")}, ErrTransportFailure, nil},
		{"cancelled", &stubFetcher{err: context.Canceled}, ErrTransportFailure, context.Canceled},
		{"nil_draw", &stubFetcher{}, ErrMalformedPayload, nil},
		{"draw_without_numbers", &stubFetcher{draw: &DrawResult{Contest: 1, Date: "01/01/2000"}}, ErrMalformedPayload, nil},
		{"draw_without_date", &stubFetcher{draw: &DrawResult{Contest: 1, Numbers: []int{1}}}, ErrMalformedPayload, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := NewResultChecker(tt.fetcher).Check(context.Background(), []Game{{1, 2, 3, 4, 5, 6}})

			assert.Nil(t, report)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsResultFetchError(err))
			if tt.wantCause != nil {
				assert.ErrorIs(t, err, tt.wantCause)
			}
		})
	}
}

func TestResultChecker_CheckSet(t *testing.T) {
	gs, err := Generate(seq(1, 7), 6)
	require.NoError(t, err)

	report, err := NewResultChecker(&stubFetcher{draw: sampleDraw()}).CheckSet(context.Background(), gs)
	require.NoError(t, err)

	require.Len(t, report.Games, 7)
	// [1..6] 命中 1,2,3; 任何包含 1,2,3 的组合都是 3
	for _, m := range report.Games {
		want := 0
		for _, n := range m.Game {
			if n <= 3 {
				want++
			}
		}
		assert.Equal(t, want, m.Hits, "game %v", m.Game)
	}

	t.Run("nil_set", func(t *testing.T) {
		fetcher := &stubFetcher{draw: sampleDraw()}

		report, err := NewResultChecker(fetcher).CheckSet(context.Background(), nil)
		assert.Nil(t, report)
		assert.ErrorIs(t, err, ErrGameSetNotFound)
		assert.Equal(t, int32(0), fetcher.calls.Load())
	})
}

func TestResultChecker_RepeatedNumbersCountOnce(t *testing.T) {
	tests := []struct {
		name string
		game Game
		want int
	}{
		{"all_same_drawn", Game{1, 1, 1, 1, 1, 1}, 1},
		{"all_same_missed", Game{60, 60, 60, 60, 60, 60}, 0},
		{"pairs", Game{12, 2, 12, 2, 40, 40}, 2},
		{"unsorted_distinct", Game{12, 11, 10, 3, 2, 1}, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := NewResultChecker(&stubFetcher{draw: sampleDraw()}).Check(context.Background(), []Game{tt.game})
			require.NoError(t, err)
			require.Len(t, report.Games, 1)
			assert.Equal(t, tt.want, report.Games[0].Hits)
		})
	}
}
