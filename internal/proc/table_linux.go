//go:build linux

package proc

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// commLen is the kernel's TASK_COMM_LEN minus the terminating NUL.
const commLen = 15

// procfsTable scans /proc.
type procfsTable struct {
	root string
}

// System returns the process table of the running OS.
func System() Table {
	return &procfsTable{root: "/proc"}
}

func (t *procfsTable) Find(name string) ([]int, error) {
	entries, err := os.ReadDir(t.root)
	if err != nil {
		return nil, err
	}

	var pids []int
	for _, e := range entries {
		pid, err := strconv.Atoi(e.Name())
		if err != nil || isSelf(pid) {
			continue
		}

		// Prefer the full executable name; comm is truncated
		if exe, err := t.ExePath(pid); err == nil {
			if matchImage(filepath.Base(exe), name, false) {
				pids = append(pids, pid)
			}
			continue
		}

		comm, err := os.ReadFile(filepath.Join(t.root, e.Name(), "comm"))
		if err != nil {
			continue
		}
		if strings.TrimSpace(string(comm)) == truncateComm(name) {
			pids = append(pids, pid)
		}
	}
	return pids, nil
}

func (t *procfsTable) ExePath(pid int) (string, error) {
	exe, err := os.Readlink(filepath.Join(t.root, strconv.Itoa(pid), "exe"))
	if err != nil {
		return "", err
	}
	// The link of a replaced binary reads "/path/to/bin (deleted)"
	return strings.TrimSuffix(exe, " (deleted)"), nil
}

func (t *procfsTable) Kill(pid int) error {
	return killPID(pid)
}

func truncateComm(name string) string {
	if len(name) > commLen {
		return name[:commLen]
	}
	return name
}
