package config

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CacheDirName is the directory under the mindtool home holding cached server data.
const CacheDirName = "cache"

const gitignoreHeader = "# mindtool local data (config.yaml stays tracked)\n"

// gitignorePatterns are the files mindtool writes next to its config that must not
// be committed: credentials, log files, the server cache and half-written cache entries.
//
//nolint:gochecknoglobals // Static table.
var gitignorePatterns = []string{
	".env",
	"*.log",
	CacheDirName + "/",
	"*.tmp",
}

// GitignorePatterns returns the patterns mindtool keeps out of git.
func GitignorePatterns() []string {
	return append([]string(nil), gitignorePatterns...)
}

// GitignoreContent returns the .gitignore written into a fresh .mindtool/ directory.
func GitignoreContent() string {
	return gitignoreHeader + strings.Join(gitignorePatterns, "\n") + "\n"
}

// GitignoreResult reports what EnsureGitignore did.
type GitignoreResult struct {
	Created bool
	Added   []string
}

// Changed reports whether the file was written.
func (r GitignoreResult) Changed() bool {
	return r.Created || len(r.Added) > 0
}

// EnsureGitignore makes dir/.gitignore ignore every mindtool pattern. A missing file
// is created; an existing one keeps its lines and gets the missing patterns appended.
func EnsureGitignore(dir string) (GitignoreResult, error) {
	path := filepath.Join(dir, ".gitignore")

	existing, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		if err = os.MkdirAll(dir, 0o750); err != nil {
			return GitignoreResult{}, fmt.Errorf("creating directory %s: %w", dir, err)
		}
		//nolint:gosec // .gitignore must be world-readable (0644).
		if err = os.WriteFile(path, []byte(GitignoreContent()), 0o644); err != nil {
			return GitignoreResult{}, fmt.Errorf("writing .gitignore at %s: %w", path, err)
		}
		return GitignoreResult{Created: true, Added: GitignorePatterns()}, nil
	case err != nil:
		return GitignoreResult{}, fmt.Errorf("reading .gitignore at %s: %w", path, err)
	}

	missing := missingPatterns(existing)
	if len(missing) == 0 {
		return GitignoreResult{}, nil
	}

	var buf bytes.Buffer
	buf.Write(existing)
	if len(existing) > 0 && !bytes.HasSuffix(existing, []byte("\n")) {
		buf.WriteByte('\n')
	}
	buf.WriteString(gitignoreHeader)
	for _, p := range missing {
		buf.WriteString(p + "\n")
	}
	//nolint:gosec // .gitignore must be world-readable (0644).
	if err = os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return GitignoreResult{}, fmt.Errorf("updating .gitignore at %s: %w", path, err)
	}
	return GitignoreResult{Added: missing}, nil
}

func missingPatterns(existing []byte) []string {
	present := make(map[string]bool)
	sc := bufio.NewScanner(bytes.NewReader(existing))
	for sc.Scan() {
		present[strings.TrimSpace(sc.Text())] = true
	}
	var missing []string
	for _, p := range gitignorePatterns {
		if !present[p] {
			missing = append(missing, p)
		}
	}
	return missing
}
