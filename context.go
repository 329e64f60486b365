package roam

import (
	"fmt"
	"time"
)

// Log categories.
// @see BuildContext
type LogCategory int

const (
	LogProgress LogCategory = 1 + iota // A progress log entry.
	LogWarning                         // A warning log entry.
	LogError                           // An error log entry.
)

// Timer labels.
type TimerLabel int

const (
	// TimerVariance measures the time to build the variance trees.
	TimerVariance TimerLabel = iota
	// TimerTessellate measures a full tessellation pass.
	TimerTessellate
	// TimerEmit measures the emission of the triangle list.
	TimerEmit

	maxTimers
)

const maxMessages = 1000

// BuildContext provides optional logging and performance tracking of the
// variance build and of the per-frame tessellation pipeline.
//
// A nil *BuildContext is valid and disables both logging and timers, so the
// zero cost path needs no branching at call sites.
type BuildContext struct {
	startTime [maxTimers]time.Time
	accTime   [maxTimers]time.Duration

	messages    [maxMessages]string
	numMessages int

	logEnabled   bool
	timerEnabled bool
}

// NewBuildContext returns a build context with logging and timers enabled or
// disabled depending on state.
func NewBuildContext(state bool) *BuildContext {
	return &BuildContext{
		logEnabled:   state,
		timerEnabled: state,
	}
}

// EnableLog enables or disables logging.
func (ctx *BuildContext) EnableLog(state bool) {
	ctx.logEnabled = state
}

// EnableTimer enables or disables the performance timers.
func (ctx *BuildContext) EnableTimer(state bool) {
	ctx.timerEnabled = state
}

// ResetLog clears all log entries.
func (ctx *BuildContext) ResetLog() {
	if ctx != nil && ctx.logEnabled {
		ctx.numMessages = 0
	}
}

// ResetTimers clears all performance timers. (Resets all to unused.)
func (ctx *BuildContext) ResetTimers() {
	if ctx != nil && ctx.timerEnabled {
		for i := range ctx.accTime {
			ctx.accTime[i] = time.Duration(0)
		}
	}
}

func (ctx *BuildContext) Progressf(format string, v ...interface{}) {
	ctx.Log(LogProgress, format, v...)
}

func (ctx *BuildContext) Warningf(format string, v ...interface{}) {
	ctx.Log(LogWarning, format, v...)
}

func (ctx *BuildContext) Errorf(format string, v ...interface{}) {
	ctx.Log(LogError, format, v...)
}

// Log stores a formatted message under the given category.
func (ctx *BuildContext) Log(category LogCategory, format string, v ...interface{}) {
	if ctx == nil || !ctx.logEnabled || ctx.numMessages >= maxMessages {
		return
	}
	switch category {
	case LogProgress:
		ctx.messages[ctx.numMessages] = "PROG " + fmt.Sprintf(format, v...)
	case LogWarning:
		ctx.messages[ctx.numMessages] = "WARN " + fmt.Sprintf(format, v...)
	case LogError:
		ctx.messages[ctx.numMessages] = "ERR " + fmt.Sprintf(format, v...)
	}
	ctx.numMessages++
}

// LogCount returns the number of stored log messages.
func (ctx *BuildContext) LogCount() int {
	if ctx == nil {
		return 0
	}
	return ctx.numMessages
}

// LogText returns the text of the i-th log message.
func (ctx *BuildContext) LogText(i int) string {
	return ctx.messages[i]
}

// StartTimer starts the specified performance timer.
func (ctx *BuildContext) StartTimer(label TimerLabel) {
	if ctx != nil && ctx.timerEnabled {
		ctx.startTime[label] = time.Now()
	}
}

// StopTimer stops the specified performance timer, accumulating the elapsed
// time under its label.
func (ctx *BuildContext) StopTimer(label TimerLabel) {
	if ctx != nil && ctx.timerEnabled {
		ctx.accTime[label] += time.Since(ctx.startTime[label])
	}
}

// AccumulatedTime returns the total accumulated time of the specified
// performance timer.
func (ctx *BuildContext) AccumulatedTime(label TimerLabel) time.Duration {
	if ctx == nil {
		return 0
	}
	return ctx.accTime[label]
}

// DumpLog dumps the log to stdout, preceded by a header.
func (ctx *BuildContext) DumpLog(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
	if ctx == nil {
		return
	}
	for i := 0; i < ctx.numMessages; i++ {
		fmt.Println(ctx.messages[i])
	}
}
