package output

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanq16/m3uget/internal/utils"
)

func TestManagerLines(t *testing.T) {
	var buf bytes.Buffer
	m := NewManagerWithWriter(&buf)
	job := utils.JobSpec{URL: "https://a/s01e01.m3u8", Filename: "s01e01"}

	m.JobStarted(job)
	m.JobFinished(utils.JobOutcome{Job: job, Filename: "s01e01", Result: utils.ResultSuccess, Duration: 3 * time.Second})
	m.JobFinished(utils.JobOutcome{Job: job, Filename: "s01e02", Result: utils.ResultProcessFailure, ExitCode: 2, Err: errors.New("yt-dlp failed: exit status 2")})
	m.JobFinished(utils.JobOutcome{Job: job, Filename: "s01e03", Result: utils.ResultProcessFailure, ExitCode: -1, Err: errors.New("signal: killed")})
	m.JobFinished(utils.JobOutcome{Job: job, Filename: "s01e04", Result: utils.ResultLaunchError, Err: errors.New("executable file not found")})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 5)
	assert.Contains(t, lines[0], "Downloading: s01e01")
	assert.Contains(t, lines[1], "Done: s01e01")
	assert.Contains(t, lines[2], "Failed [exit status 2]: s01e02")
	assert.Contains(t, lines[3], "Failed [killed]: s01e03")
	assert.Contains(t, lines[4], "Error running yt-dlp: executable file not found (s01e04)")
	assert.Len(t, m.errors, 3)
	assert.Equal(t, 1, m.succeeded)
}

func TestManagerSummary(t *testing.T) {
	var buf bytes.Buffer
	m := NewManagerWithWriter(&buf)
	m.JobFinished(utils.JobOutcome{Filename: "a", Result: utils.ResultSuccess})
	m.JobFinished(utils.JobOutcome{Filename: "b", Result: utils.ResultSuccess})
	m.JobFinished(utils.JobOutcome{Job: utils.JobSpec{URL: "https://a/c"}, Filename: "c", Result: utils.ResultLaunchError, Err: errors.New("boom")})
	buf.Reset()

	m.ShowSummary()
	out := buf.String()
	assert.Contains(t, out, "Completed 2 of 3")
	assert.Contains(t, out, "Failed 1 of 3")
	assert.Contains(t, out, "Errors:")
	assert.Contains(t, out, "c (https://a/c)")
	assert.Contains(t, out, "Error: boom")
}

func TestManagerSummaryAllPassed(t *testing.T) {
	var buf bytes.Buffer
	m := NewManagerWithWriter(&buf)
	m.JobFinished(utils.JobOutcome{Filename: "a", Result: utils.ResultSuccess})
	m.ShowSummary()
	assert.Contains(t, buf.String(), "Completed 1 of 1")
	assert.NotContains(t, buf.String(), "Failed")
	assert.NotContains(t, buf.String(), "Errors:")
}

func TestManagerConcurrentWritesKeepLinesWhole(t *testing.T) {
	var buf bytes.Buffer
	m := NewManagerWithWriter(&buf)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			job := utils.JobSpec{Filename: "same"}
			m.JobStarted(job)
			m.JobFinished(utils.JobOutcome{Job: job, Filename: "same", Result: utils.ResultSuccess})
		}()
	}
	wg.Wait()
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.True(t, strings.Contains(line, "Downloading: same") != strings.Contains(line, "Done: same"), line)
	}
}

func TestStartupLine(t *testing.T) {
	assert.Equal(t, "Total files: 12 | Threads: 4", StartupLine(12, 4))
}

func TestPrintStartupIsOneLine(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	stdout := os.Stdout
	os.Stdout = w
	PrintStartup(3, 2)
	os.Stdout = stdout
	require.NoError(t, w.Close())

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "Total files: 3 | Threads: 2")
}
