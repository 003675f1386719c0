// Package shellerr translates OS-level errors into the one-line messages
// the shell prints to stderr. See spec.md §7.
package shellerr

import (
	"errors"
	"syscall"
)

// Message returns a human-readable description of err, preferring the
// POSIX errno name table spec.md §7 names explicitly and falling back to
// the OS's own name for any other errno, or err's own message when err
// doesn't wrap a syscall.Errno at all.
func Message(err error) string {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ENOENT:
			return "No such file or directory"
		case syscall.ENOTDIR:
			return "Not a directory"
		case syscall.EACCES:
			return "Permission denied"
		case syscall.EISDIR:
			return "Is a directory"
		case syscall.ENOSPC:
			return "No space left on device"
		default:
			return errno.Error()
		}
	}
	return err.Error()
}
