package ports

// ArtifactStore is the content-addressed artifact cache. Keys are lowercase
// hex digests; values are immutable artifact directories.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type ArtifactStore interface {
	// IsCached reports whether the hash is present. It is an existence check
	// only; content is not validated.
	IsCached(hash string) bool

	// Store copies srcDir into the slot for hash. Calling it again with the
	// same hash is a no-op: identical hashes denote identical content.
	Store(hash, srcDir string) error

	// Retrieve copies the cached content for hash into destDir. It fails with
	// domain.ErrNotCached when the hash is absent.
	Retrieve(hash, destDir string) error

	// Clean deletes every stored hash not present in keep and returns the
	// removed hashes. Callers must serialize Clean against active fetch
	// sessions on the same cache root.
	Clean(keep map[string]struct{}) ([]string, error)

	// Verify walks every stored file and confirms it can be read back.
	// It returns the paths that could not, and never repairs anything.
	Verify() ([]string, error)
}
