package namespace

import (
	"path/filepath"
	"strings"
)

// Clean returns the node identity for a path: absolute and lexically clean.
func Clean(path string) string {
	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	return filepath.Clean(path)
}

// Parent returns the containing directory. The parent of the root is the root.
func Parent(path string) string {
	return filepath.Dir(path)
}

// IsRoot reports whether path has no parent.
func IsRoot(path string) bool {
	return Parent(path) == path
}

// Segments splits a cleaned path into its components. The root is the
// empty first segment, so "/a/b" yields ["", "a", "b"].
func Segments(path string) []string {
	path = filepath.Clean(path)
	if IsRoot(path) {
		return []string{strings.TrimSuffix(path, string(filepath.Separator))}
	}
	return strings.Split(path, string(filepath.Separator))
}

// Depth is the number of levels below the root.
func Depth(path string) int {
	return len(Segments(path)) - 1
}

// IsAncestor reports whether a is a strict ancestor of b.
func IsAncestor(a, b string) bool {
	a, b = filepath.Clean(a), filepath.Clean(b)
	if a == b {
		return false
	}
	if IsRoot(a) {
		return strings.HasPrefix(b, a)
	}
	return strings.HasPrefix(b, a+string(filepath.Separator))
}

// SharedPrefixDepth counts the leading segments a and b have in common.
func SharedPrefixDepth(a, b string) int {
	as, bs := Segments(a), Segments(b)
	n := 0
	for n < len(as) && n < len(bs) && as[n] == bs[n] {
		n++
	}
	return n
}

// CommonAncestor returns the deepest path that is an ancestor of (or equal
// to) both a and b. ok is false when they share no root, e.g. different
// volumes.
func CommonAncestor(a, b string) (string, bool) {
	as := Segments(a)
	n := SharedPrefixDepth(a, b)
	if n == 0 {
		return "", false
	}
	if n == 1 {
		return filepath.VolumeName(a) + string(filepath.Separator), true
	}
	return strings.Join(as[:n], string(filepath.Separator)), true
}

// WithinTwoLevels reports whether a and b are close in the hierarchy: one
// is an ancestor of the other, or their deepest common ancestor is at most
// two levels above the shallower of the two.
func WithinTwoLevels(a, b string) bool {
	if IsAncestor(a, b) || IsAncestor(b, a) {
		return true
	}
	common, ok := CommonAncestor(a, b)
	if !ok {
		return false
	}
	return Depth(common) >= min(Depth(a), Depth(b))-2
}
