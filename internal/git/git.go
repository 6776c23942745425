package git

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// FileStatus is the git state of one file.
type FileStatus struct {
	Path    string
	InRepo  bool
	Tracked bool
	Ignored bool
}

// Exposed reports whether git could pick the file up.
func (s FileStatus) Exposed() bool {
	return s.InRepo && (s.Tracked || !s.Ignored)
}

// IsGitRepo checks if dir is inside a git work tree
func IsGitRepo(dir string) bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = dir
	return cmd.Run() == nil
}

// IsTracked checks if a file is tracked by git
func IsTracked(dir, name string) bool {
	cmd := exec.Command("git", "ls-files", "--", name)
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return false
	}
	return len(strings.TrimSpace(string(output))) > 0
}

// IsIgnored checks if a file is ignored by git (handles all .gitignore files)
func IsIgnored(dir, name string) bool {
	cmd := exec.Command("git", "check-ignore", "-q", "--", name)
	cmd.Dir = dir
	// git check-ignore returns exit code 0 if file is ignored
	return cmd.Run() == nil
}

// Check reports the git state of each path. The files need not exist yet.
func Check(paths ...string) []FileStatus {
	out := make([]FileStatus, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		dir, name := filepath.Split(filepath.Clean(p))
		if dir == "" {
			dir = "."
		}

		st := FileStatus{Path: p}
		if _, err := exec.LookPath("git"); err == nil && IsGitRepo(dir) {
			st.InRepo = true
			st.Tracked = IsTracked(dir, name)
			st.Ignored = IsIgnored(dir, name)
		}
		out = append(out, st)
	}
	return out
}

// Warnings formats one line per exposed file.
func Warnings(statuses []FileStatus) []string {
	var lines []string
	for _, s := range statuses {
		switch {
		case !s.Exposed():
		case s.Tracked:
			lines = append(lines, fmt.Sprintf("%s is tracked by git (run: git rm --cached %s)", s.Path, filepath.Base(s.Path)))
		case !s.Ignored:
			lines = append(lines, fmt.Sprintf("%s is inside a git repository but not in .gitignore", s.Path))
		}
	}
	return lines
}
