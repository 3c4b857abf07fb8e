package proc

import "os"

// killPID forcefully terminates a process by PID. os.Process.Kill sends
// SIGKILL on Unix and calls TerminateProcess on Windows.
func killPID(pid int) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return p.Kill()
}

// isSelf reports whether pid is this process or its parent.
func isSelf(pid int) bool {
	return pid == os.Getpid() || pid == os.Getppid()
}
