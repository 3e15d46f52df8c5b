package cli

import (
	"fmt"
	"io"
	"os"
	"time"
)

// progressStep reports one slow step on stderr as "label... done (12ms)".
// A nil *progressStep is a disabled step.
type progressStep struct {
	out     io.Writer
	started time.Time
}

func startProgress(label string) *progressStep {
	if !progressEnabled() {
		return nil
	}
	p := &progressStep{out: os.Stderr, started: time.Now()}
	fmt.Fprintf(p.out, "%s... ", label)
	return p
}

func (p *progressStep) Done() {
	p.finish("done (" + formatDuration(time.Since(p.startedAt())) + ")")
}

func (p *progressStep) Fail(err error) {
	if err == nil {
		p.finish("failed")
		return
	}
	p.finish("failed: " + err.Error())
}

func (p *progressStep) finish(msg string) {
	if p == nil {
		return
	}
	fmt.Fprintln(p.out, msg)
}

func (p *progressStep) startedAt() time.Time {
	if p == nil {
		return time.Now()
	}
	return p.started
}

// progressEnabled is false for machine-readable output and when
// --no-progress, SWATCH_NO_PROGRESS or NO_PROGRESS is set.
func progressEnabled() bool {
	if IsJSONOutput() || IsJSONLOutput() || noProgress {
		return false
	}
	for _, env := range []string{"SWATCH_NO_PROGRESS", "NO_PROGRESS"} {
		if _, ok := os.LookupEnv(env); ok {
			return false
		}
	}
	return true
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return d.String()
	case d < time.Second:
		return d.Round(10 * time.Millisecond).String()
	default:
		return d.Round(100 * time.Millisecond).String()
	}
}
