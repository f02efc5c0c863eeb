//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// setProcAttr puts the child in a new process group so the whole subtree
// a shell wrapper spawns can be signalled together later. A naive
// kill(pid) only reaches the shell, leaking its own children.
func setProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killProcess kills the child's own pid first, then its whole process
// group, so orphaned grandchildren are reaped too.
func killProcess(cmd *exec.Cmd) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	pid := cmd.Process.Pid
	_ = cmd.Process.Kill()
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
