// Package pathutil provides the component-wise path containment check shared
// by the process walker and the breadcrumb scanner.
package pathutil

import (
	"path/filepath"
	"strings"
)

// Within reports whether path is root itself or lies underneath it.
// Comparison is component-wise: "/home/u/repo2" is not within
// "/home/u/repo", but "/home/u/repo/sub" is. A naive string-prefix check
// would get the former wrong.
func Within(path, root string) bool {
	if path == "" || root == "" {
		return false
	}
	path = filepath.Clean(path)
	root = filepath.Clean(root)

	if path == root {
		return true
	}
	sep := string(filepath.Separator)
	if root == sep {
		return strings.HasPrefix(path, sep)
	}
	return strings.HasPrefix(path, root+sep)
}
