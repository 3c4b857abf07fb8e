//go:build unix

package relaunch

import "syscall"

// detachedAttr puts the child in its own process group so it survives the
// console closing.
func detachedAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}
