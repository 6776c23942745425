// Package git reports whether vault files are exposed to a git repository.
//
// Checks performed for each file:
//   - Whether it lies inside a git work tree
//   - Whether it is tracked by git (should not be)
//   - Whether it is ignored by git (should be)
//
// Even encrypted, a committed vault or history file hands every past
// version to anyone with access to the repository.
package git
