// Package fsworkspace prepares a directory for gmscraper: starter config,
// output directories and .gitignore entries.
package fsworkspace

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"

	"github.com/aalvaropc/gmscraper/internal/domain"
	"github.com/aalvaropc/gmscraper/internal/ports"
)

type Initializer struct {
	paths domain.PathsConfig
}

var _ ports.WorkspaceInitializer = (*Initializer)(nil)

func NewInitializer(paths domain.PathsConfig) *Initializer {
	def := domain.DefaultConfig().Paths
	if paths.DownloadDir == "" {
		paths.DownloadDir = def.DownloadDir
	}
	if paths.ReportsDir == "" {
		paths.ReportsDir = def.ReportsDir
	}
	if paths.LogDir == "" {
		paths.LogDir = def.LogDir
	}
	return &Initializer{paths: paths}
}

// Init creates the output directories and writes templates that are missing.
// With force, existing templates are overwritten.
func (i *Initializer) Init(root string, force bool) error {
	root = filepath.Clean(root)

	for _, d := range []string{i.paths.DownloadDir, i.paths.ReportsDir, i.paths.LogDir} {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return initErr(root, err)
		}
	}

	if err := ensureGitignore(root, i.gitignoreEntries()); err != nil {
		return initErr(root, err)
	}

	err := fs.WalkDir(templatesFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		dst := filepath.Join(root, strings.TrimPrefix(p, "templates/"))
		if !force {
			if _, statErr := os.Stat(dst); statErr == nil {
				return nil
			}
		}

		b, err := fs.ReadFile(templatesFS, p)
		if err != nil {
			return err
		}
		return renameio.WriteFile(dst, b, 0o644)
	})
	if err != nil {
		return initErr(root, err)
	}
	return nil
}

func (i *Initializer) gitignoreEntries() []string {
	entries := []string{
		dirEntry(i.paths.DownloadDir),
		dirEntry(i.paths.ReportsDir),
		".gmscraper/",
	}
	// A custom log dir outside .gmscraper needs its own entry.
	if !strings.HasPrefix(filepath.ToSlash(i.paths.LogDir), ".gmscraper") {
		entries = append(entries, dirEntry(i.paths.LogDir))
	}
	return entries
}

func dirEntry(p string) string {
	return strings.TrimSuffix(filepath.ToSlash(p), "/") + "/"
}

func initErr(root string, err error) error {
	return &domain.OpError{
		Op:   "fsworkspace.init",
		Kind: domain.KindExecution,
		Path: root,
		Err:  err,
	}
}

func ensureGitignore(root string, entries []string) error {
	const header = "# gmscraper"

	path := filepath.Join(root, ".gitignore")
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			lines := append([]string{header}, entries...)
			lines = append(lines, "")
			return os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
		}
		return err
	}

	existing := string(b)
	present := map[string]bool{}
	for _, line := range strings.Split(existing, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			present[trimmed] = true
		}
	}

	var missing []string
	for _, e := range entries {
		if !present[e] {
			missing = append(missing, e)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	var out strings.Builder
	out.WriteString(existing)
	if existing != "" && !strings.HasSuffix(existing, "\n") {
		out.WriteByte('\n')
	}
	out.WriteByte('\n')
	if !present[header] {
		out.WriteString(header + "\n")
	}
	for _, e := range missing {
		out.WriteString(e + "\n")
	}

	return os.WriteFile(path, []byte(out.String()), 0o644)
}
