//go:build unix

package executor

import (
	"os/exec"
	"syscall"
)

// setProcessGroup starts the shell in its own process group and makes
// cancellation kill the whole group, so pipelines and background children
// die with it.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
