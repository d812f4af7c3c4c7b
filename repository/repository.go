// Package repository provides model for repository.
package repository

import (
	"github.com/jiangxin/goconfig"
	log "github.com/sirupsen/logrus"
)

// Repository holds repository and error.
type Repository struct {
	repository *goconfig.Repository
	error      error
}

var theRepository Repository

// Open will try to find repository in dir.
func (v *Repository) Open(dir string) error {
	v.repository, v.error = goconfig.FindRepository(dir)
	return v.error
}

// OpenRepository will try to find repository in dir. Not being inside a
// git worktree is not an error for convert_po; it only disables the
// worktree configuration file.
func OpenRepository(dir string) {
	if err := theRepository.Open(dir); err != nil {
		log.Tracef("no git repository found: %v", err)
	}
}

// Opened returns true if a repository was successfully opened.
func Opened() bool {
	return theRepository.error == nil && theRepository.repository != nil
}

// WorkDir returns root dir of worktree, or "" outside a worktree or in a
// bare repository.
func WorkDir() string {
	if !Opened() {
		return ""
	}
	return theRepository.repository.WorkDir()
}
