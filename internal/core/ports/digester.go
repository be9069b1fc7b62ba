package ports

// Digester computes content digests for files and directory trees.
//
//go:generate mockgen -source=digester.go -destination=mocks/mock_digester.go -package=mocks
type Digester interface {
	// DigestFile returns the lowercase hex sha256 of a file's content.
	DigestFile(path string) (string, error)

	// DigestTree returns the lowercase hex sha256 over a canonicalized walk
	// of the tree: sorted relative paths, each hashed with its content.
	DigestTree(root string) (string, error)

	// Fingerprint returns a cheap non-cryptographic probe over a path's
	// identity and modification time, for local-source change detection.
	// It is never used as a cache key.
	Fingerprint(path string) (string, error)
}
