//go:build unix

package ytdlp

import (
	"errors"
	"os/exec"
	"syscall"

	"github.com/rs/zerolog/log"
)

// setProcessGroup puts yt-dlp and the ffmpeg it spawns in their own group so
// cancellation reaches the whole tree.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return signalGroup(cmd, syscall.SIGTERM)
	}
	cmd.WaitDelay = killGrace
}

// killGroup removes whatever is left of the group after the leader exited.
func killGroup(cmd *exec.Cmd) {
	if err := signalGroup(cmd, syscall.SIGKILL); err != nil && !errors.Is(err, syscall.ESRCH) {
		log.Debug().Str("op", "ytdlp/proc").Err(err).Msg("Error killing yt-dlp process group")
	}
}

func signalGroup(cmd *exec.Cmd, sig syscall.Signal) error {
	if cmd.Process == nil {
		return nil
	}
	return syscall.Kill(-cmd.Process.Pid, sig)
}
