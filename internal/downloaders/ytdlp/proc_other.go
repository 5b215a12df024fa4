//go:build !unix

package ytdlp

import "os/exec"

func setProcessGroup(cmd *exec.Cmd) {
	cmd.WaitDelay = killGrace
}

func killGroup(*exec.Cmd) {}
