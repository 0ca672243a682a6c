package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// Reporter shows that gptsh is waiting on the model.
type Reporter interface {
	Start(message string)
	Finish(summary string)
}

// NewReporter returns a TerminalReporter when stderr is an interactive
// terminal, or a CIReporter when the CI environment variable is set or
// output is redirected.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{Out: os.Stderr}
	}
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return &CIReporter{Out: os.Stderr}
	}
	return &TerminalReporter{Out: os.Stderr}
}

// TerminalReporter displays a spinner until Finish is called.
type TerminalReporter struct {
	Out io.Writer

	mu   sync.Mutex
	bar  *progressbar.ProgressBar
	done chan struct{}
	wg   sync.WaitGroup
}

func (r *TerminalReporter) Start(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar != nil {
		r.bar.Describe(message)
		return
	}

	r.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(r.Out),
		progressbar.OptionSetDescription(message),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	r.done = make(chan struct{})
	r.wg.Add(1)
	go r.spin(r.bar, r.done)
}

func (r *TerminalReporter) spin(bar *progressbar.ProgressBar, done <-chan struct{}) {
	defer r.wg.Done()
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			_ = bar.Add(1)
		}
	}
}

func (r *TerminalReporter) Finish(summary string) {
	r.mu.Lock()
	bar, done := r.bar, r.done
	r.bar, r.done = nil, nil
	r.mu.Unlock()

	if bar != nil {
		close(done)
		r.wg.Wait()
		_ = bar.Finish()
	}
	if summary != "" {
		fmt.Fprintln(r.Out, summary)
	}
}

// CIReporter prints line-by-line progress suitable for CI logs and pipes.
type CIReporter struct {
	Out     io.Writer
	started time.Time
}

func (r *CIReporter) Start(message string) {
	r.started = time.Now()
	fmt.Fprintln(r.Out, message)
}

func (r *CIReporter) Finish(summary string) {
	if summary == "" {
		return
	}
	fmt.Fprintf(r.Out, "%s (%s)\n", summary, time.Since(r.started).Round(time.Millisecond))
}
