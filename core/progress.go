package core

import (
	"sync"
)

// Progress receives monotonically increasing completion fractions in [0,1] from a
// long-running operation, followed by a single ReportFinished call.
type Progress interface {
	ReportProgress(fraction float64)
	ReportFinished()
}

type noProgress struct{}

func (noProgress) ReportProgress(float64) {}
func (noProgress) ReportFinished()        {}

// NoProgress discards all progress reports.
var NoProgress Progress = noProgress{}

func clampFraction(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// SubProgress maps the [0,1] progress of one phase of an operation onto the
// [from,to] range of its parent.  Reports that would move backwards are dropped.
// ReportFinished only reports the end of the range to the parent; finishing the
// parent is left to its owner.
type SubProgress struct {
	parent   Progress
	from, to float64

	mu   sync.Mutex
	last float64
}

// NewSubProgress returns a phase covering [from,to] of parent.  A nil parent
// discards reports.
func NewSubProgress(parent Progress, from, to float64) *SubProgress {
	if parent == nil {
		parent = NoProgress
	}
	return &SubProgress{parent: parent, from: from, to: to, last: -1}
}

func (s *SubProgress) ReportProgress(fraction float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fraction = clampFraction(fraction)
	if fraction <= s.last {
		return
	}
	s.last = fraction
	s.parent.ReportProgress(s.from + fraction*(s.to-s.from))
}

func (s *SubProgress) ReportFinished() {
	s.ReportProgress(1)
}

// LogProgress logs the progress of a named operation every time it passes another
// step fraction, e.g., a step of 0.1 logs at 10%, 20%, ...
type LogProgress struct {
	name string
	step float64

	mu       sync.Mutex
	next     float64
	last     float64
	finished bool
	timer    TimeLog
}

// NewLogProgress returns a Progress that logs at Info level.  A step outside (0,1]
// defaults to 0.1.
func NewLogProgress(name string, step float64) *LogProgress {
	if step <= 0 || step > 1 {
		step = 0.1
	}
	return &LogProgress{name: name, step: step, next: step, timer: NewTimeLog()}
}

func (p *LogProgress) ReportProgress(fraction float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fraction = clampFraction(fraction)
	if fraction < p.last {
		return
	}
	p.last = fraction
	if fraction < p.next || fraction >= 1 {
		return
	}
	p.timer.Infof("%s: %.0f%% complete", p.name, fraction*100)
	for p.next <= fraction {
		p.next += p.step
	}
}

func (p *LogProgress) ReportFinished() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finished {
		return
	}
	p.finished = true
	p.last = 1
	p.timer.Infof("%s: finished", p.name)
}

// Fraction returns the last reported progress.
func (p *LogProgress) Fraction() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Finished returns true if ReportFinished has been called.
func (p *LogProgress) Finished() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.finished
}
