package megasena

import "context"

// DrawFetcher fetches the latest published draw
type DrawFetcher interface {
	// FetchLatest returns the most recent draw, or a result fetch error
	FetchLatest(ctx context.Context) (*DrawResult, error)
}

// GameSetStore keeps the game set generated for a session until it is replaced or reset
type GameSetStore interface {
	// Save stores gs for sessionID, replacing any previous set
	Save(ctx context.Context, sessionID string, gs *GameSet) error

	// Load returns the set stored for sessionID, or ErrGameSetNotFound
	Load(ctx context.Context, sessionID string) (*GameSet, error)

	// Delete drops the set stored for sessionID. Deleting a missing set is not an error.
	Delete(ctx context.Context, sessionID string) error
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
	Debug(msg string, args ...any)
}
