package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/tanq16/m3uget/internal/utils"
)

type ErrorReport struct {
	Filename string
	URL      string
	Error    error
	Time     time.Time
}

// Manager prints one line when a job starts and one when it ends. yt-dlp
// writes to the same terminal, so nothing is redrawn in place.
type Manager struct {
	mutex     sync.Mutex
	out       io.Writer
	succeeded int
	failed    int
	errors    []ErrorReport
}

func NewManager() *Manager {
	return NewManagerWithWriter(os.Stdout)
}

func NewManagerWithWriter(w io.Writer) *Manager {
	return &Manager{out: w, errors: []ErrorReport{}}
}

func (m *Manager) JobStarted(job utils.JobSpec) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	fmt.Fprintf(m.out, "%s %s\n", pendingStyle.Render(StyleSymbols["arrow"]), pendingStyle.Render("Downloading: "+job.Filename))
}

func (m *Manager) JobFinished(outcome utils.JobOutcome) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	elapsed := debugStyle.Render(outcome.Duration.Round(time.Second).String())
	switch outcome.Result {
	case utils.ResultSuccess:
		m.succeeded++
		fmt.Fprintf(m.out, "%s %s %s\n", successStyle.Render(StyleSymbols["pass"]), elapsed, successStyle.Render("Done: "+outcome.Filename))
		return
	case utils.ResultProcessFailure:
		fmt.Fprintf(m.out, "%s %s %s\n", errorStyle.Render(StyleSymbols["fail"]), elapsed,
			errorStyle.Render(fmt.Sprintf("Failed [%s]: %s", exitStatus(outcome.ExitCode), outcome.Filename)))
	default:
		fmt.Fprintf(m.out, "%s %s %s\n", errorStyle.Render(StyleSymbols["fail"]), elapsed,
			errorStyle.Render(fmt.Sprintf("Error running yt-dlp: %v (%s)", outcome.Err, outcome.Filename)))
	}
	m.failed++
	m.errors = append(m.errors, ErrorReport{
		Filename: outcome.Filename,
		URL:      outcome.Job.URL,
		Error:    outcome.Err,
		Time:     time.Now(),
	})
}

func exitStatus(code int) string {
	if code < 0 {
		return "killed"
	}
	return fmt.Sprintf("exit status %d", code)
}

func (m *Manager) displayErrors() {
	if len(m.errors) == 0 {
		return
	}
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, strings.Repeat(" ", 2)+errorStyle.Bold(true).Render("Errors:"))
	for i, err := range m.errors {
		fmt.Fprintf(m.out, "%s%s %s %s\n",
			strings.Repeat(" ", 2+2),
			errorStyle.Render(fmt.Sprintf("%d.", i+1)),
			debugStyle.Render(fmt.Sprintf("[%s]", err.Time.Format("15:04:05"))),
			errorStyle.Render(fmt.Sprintf("%s (%s)", err.Filename, err.URL)))
		fmt.Fprintf(m.out, "%s%s\n", strings.Repeat(" ", 2+4), errorStyle.Render(fmt.Sprintf("Error: %v", err.Error)))
	}
}

func (m *Manager) ShowSummary() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	fmt.Fprintln(m.out)
	total := m.succeeded + m.failed
	fmt.Fprintln(m.out, strings.Repeat(" ", 2)+success2Style.Render(fmt.Sprintf("Completed %d of %d", m.succeeded, total)))
	if m.failed > 0 {
		fmt.Fprintln(m.out, strings.Repeat(" ", 2)+errorStyle.Render(fmt.Sprintf("Failed %d of %d", m.failed, total)))
	}
	m.displayErrors()
	fmt.Fprintln(m.out)
}
