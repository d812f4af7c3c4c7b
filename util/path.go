// Package util provides path and filesystem utilities.
package util

import (
	"os"
)

// IsFile returns true if path is exist and is a regular file.
func IsFile(name string) bool {
	fi, err := os.Stat(name)
	if err != nil || !fi.Mode().IsRegular() {
		return false
	}
	return true
}
