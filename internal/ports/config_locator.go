package ports

// ConfigLocator finds the directory holding gmscraper.yaml starting from an arbitrary directory.
type ConfigLocator interface {
	FindRoot(startDir string) (string, error)
}

// WorkspaceInitializer writes a starter configuration into a directory.
type WorkspaceInitializer interface {
	Init(root string, force bool) error
}
