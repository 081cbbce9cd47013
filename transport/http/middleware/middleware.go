package middleware

import (
	"github.com/kochabonline/boot/log"
)

var mlog = log.DefaultLogger

// SetLogger replaces the logger used by all middleware in this package.
func SetLogger(logger *log.Logger) {
	mlog = logger
}
