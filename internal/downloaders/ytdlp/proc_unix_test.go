//go:build unix

package ytdlp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanq16/m3uget/internal/utils"
)

// processAlive treats zombies as gone; nothing in the test reaps orphans.
func processAlive(pid int) bool {
	if err := syscall.Kill(pid, 0); errors.Is(err, syscall.ESRCH) {
		return false
	}
	stat, err := os.ReadFile(filepath.Join("/proc", strconv.Itoa(pid), "stat"))
	if err != nil {
		return !os.IsNotExist(err)
	}
	fields := strings.Fields(string(stat[strings.LastIndexByte(string(stat), ')')+1:]))
	return len(fields) == 0 || fields[0] != "Z"
}

func TestInvokeTimeoutKillsGrandchildren(t *testing.T) {
	sh := lookPathOrSkip(t, "sh")
	sleep := lookPathOrSkip(t, "sleep")
	dir := t.TempDir()
	pidFile := filepath.Join(dir, "child.pid")
	script := filepath.Join(dir, "spawning-yt-dlp")
	body := "#!" + sh + "\n" + sleep + " 30 &\necho $! > " + pidFile + "\nwait\n"
	require.NoError(t, os.WriteFile(script, []byte(body), 0o755))

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	start := time.Now()
	outcome := NewRunner(script).Invoke(ctx, testJob())

	assert.Equal(t, utils.ResultProcessFailure, outcome.Result)
	assert.Equal(t, -1, outcome.ExitCode)
	assert.Less(t, time.Since(start), killGrace+5*time.Second)

	data, err := os.ReadFile(pidFile)
	require.NoError(t, err)
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return !processAlive(pid) }, 2*time.Second, 20*time.Millisecond,
		"background process %d outlived the cancelled job", pid)
}
