//go:build windows

package process

import "os/exec"

// setProcAttr is a no-op on Windows; job-object based tree termination
// would be the platform equivalent of Unix process groups, but is not
// wired here.
func setProcAttr(cmd *exec.Cmd) {}

func killProcess(cmd *exec.Cmd) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	_ = cmd.Process.Kill()
}
