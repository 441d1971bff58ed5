package megasena

import (
	"context"
	"errors"
)

// ResultChecker matches generated games against the latest draw
type ResultChecker struct {
	fetcher DrawFetcher
}

// NewResultChecker creates a checker that reads draws from fetcher
func NewResultChecker(fetcher DrawFetcher) *ResultChecker {
	return &ResultChecker{fetcher: fetcher}
}

// Check fetches the latest draw once and reports the hit count of every game.
// Any fetch failure is returned as a result fetch error and no report is produced.
func (c *ResultChecker) Check(ctx context.Context, games []Game) (*MatchReport, error) {
	draw, err := c.fetcher.FetchLatest(ctx)
	if err != nil {
		return nil, asResultFetchError(err)
	}
	if err := validateDraw(draw); err != nil {
		return nil, err
	}

	return MatchGames(games, draw), nil
}

// CheckSet is Check for a whole game set. A nil set is reported as not found
// without fetching.
func (c *ResultChecker) CheckSet(ctx context.Context, gs *GameSet) (*MatchReport, error) {
	if gs == nil {
		return nil, ErrGameSetNotFound.WithDetails("nil game set")
	}
	return c.Check(ctx, gs.Games)
}

// validateDraw rejects draws a fetcher returned without the fields a report needs
func validateDraw(draw *DrawResult) error {
	switch {
	case draw == nil:
		return ErrMalformedPayload.WithDetails("no draw returned")
	case draw.Date == "":
		return ErrMalformedPayload.WithDetails("missing date")
	case len(draw.Numbers) == 0:
		return ErrMalformedPayload.WithDetails("missing drawn numbers")
	}
	return nil
}

// asResultFetchError keeps result fetch errors as they are and wraps anything else
// as a transport failure.
func asResultFetchError(err error) error {
	if IsResultFetchError(err) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrTransportFailure.WithDetails("request cancelled").WithCause(err)
	}
	return ErrTransportFailure.WithCause(err)
}
