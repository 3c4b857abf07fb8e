//go:build !linux && !windows

package proc

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// psTable shells out to ps(1), for macOS and the BSDs.
type psTable struct{}

// System returns the process table of the running OS.
func System() Table {
	return psTable{}
}

func (psTable) Find(name string) ([]int, error) {
	out, err := exec.Command("ps", "-axo", "pid=,comm=").Output()
	if err != nil {
		return nil, fmt.Errorf("running ps: %w", err)
	}
	var pids []int
	for _, p := range parsePS(string(out)) {
		if isSelf(p.PID) {
			continue
		}
		if matchImage(filepath.Base(p.Path), name, true) {
			pids = append(pids, p.PID)
		}
	}
	return pids, nil
}

func (psTable) ExePath(pid int) (string, error) {
	out, err := exec.Command("ps", "-o", "comm=", "-p", strconv.Itoa(pid)).Output()
	if err != nil {
		return "", fmt.Errorf("running ps: %w", err)
	}
	path := strings.TrimSpace(string(out))
	if !filepath.IsAbs(path) {
		return "", fmt.Errorf("ps reported %q, not an absolute path", path)
	}
	return path, nil
}

func (psTable) Kill(pid int) error {
	return killPID(pid)
}
