package ports

import (
	"context"

	"go.trai.ch/keel/internal/core/domain"
)

// Fetcher retrieves a dependency's content and returns its content identity.
// Transport, retries and timeouts live behind this boundary; the core only
// consumes the staged result.
//
//go:generate mockgen -source=fetcher.go -destination=mocks/mock_fetcher.go -package=mocks
type Fetcher interface {
	// Fetch stages the content for the given source and returns the staged
	// directory, the canonical content digest, and the resolved commit for
	// git-backed sources. A digest mismatch on a verified download is fatal
	// for that dependency and the partial artifact is deleted before the
	// error surfaces.
	Fetch(ctx context.Context, name string, source domain.Source, version domain.SemanticVersion) (domain.FetchResult, error)
}
