//go:build !unix

package platform

// SameDevice always reports false where device identity cannot be probed,
// so moves take the streaming path instead of risking a cross-volume rename.
func SameDevice(a, b string) (bool, error) {
	return false, nil
}

// IsCrossDevice always reports false on platforms without EXDEV semantics.
func IsCrossDevice(err error) bool {
	return false
}
