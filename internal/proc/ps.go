package proc

import (
	"strconv"
	"strings"
)

// parsePS parses `ps -axo pid=,comm=` output. The command column may
// contain spaces (macOS reports full paths), so everything after the PID
// is kept.
func parsePS(out string) []Process {
	var procs []Process
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		pidStr, rest, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		pid, err := strconv.Atoi(pidStr)
		if err != nil {
			continue
		}
		procs = append(procs, Process{PID: pid, Path: strings.TrimSpace(rest)})
	}
	return procs
}
