//go:build windows

package relaunch

import (
	"syscall"

	"golang.org/x/sys/windows"
)

// detachedAttr starts the child without a console and outside this
// console's Ctrl-C group.
func detachedAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		CreationFlags: windows.DETACHED_PROCESS | windows.CREATE_NEW_PROCESS_GROUP,
	}
}
