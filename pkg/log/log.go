// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/serverclone/pkg/pipeline"
)

// 🎨 Display configuration
const (
	stepIndent = 4  // spaces to indent step entries
	stepWidth  = 20 // width for the step id
)

// 🎯 Logger prints pipeline progress to a console and mirrors it into zerolog
type Logger struct {
	zlog            zerolog.Logger
	console         io.Writer
	mu              sync.Mutex
	lastDescription string
}

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatStep formats a finished step for display
func (l *Logger) formatStep(outcome pipeline.StepOutcome) string {
	var symbol rune
	var symbolColor color.Attribute
	text := outcome.Detail
	switch {
	case outcome.OK():
		symbol = '✓'
		symbolColor = color.FgGreen
	case outcome.Escalated:
		symbol = '✗'
		symbolColor = color.FgRed
		text = outcome.Message
	default:
		symbol = '⚠'
		symbolColor = color.FgYellow
		text = outcome.Message
	}

	return fmt.Sprintf("%s%s %s %s",
		fmt.Sprintf("%*s", stepIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		color.New(color.FgCyan).Sprint(fmt.Sprintf("%-*s", stepWidth, outcome.ID)),
		text)
}

// 📝 StepStarted prints the progress text of a step. Consecutive steps sharing
// the same text print it once.
func (l *Logger) StepStarted(ctx context.Context, id pipeline.StepID, description string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if description != l.lastDescription {
		fmt.Fprintf(l.console, "%s %s\n",
			color.New(color.FgMagenta).Sprint("◆"),
			color.New(color.Bold).Sprint(description))
		l.lastDescription = description
	}

	l.zlog.Debug().Str("step", string(id)).Msg(description)
}

// 📝 StepFinished prints the outcome of a step
func (l *Logger) StepFinished(ctx context.Context, outcome pipeline.StepOutcome) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, l.formatStep(outcome))

	var event *zerolog.Event
	switch {
	case outcome.OK():
		event = l.zlog.Info()
	case outcome.Escalated:
		event = l.zlog.Error().Err(outcome.Err)
	default:
		event = l.zlog.Warn().Err(outcome.Err)
	}
	event.
		Str("step", string(outcome.ID)).
		Str("detail", outcome.Detail).
		Bool("escalated", outcome.Escalated).
		Msg("step finished")
}

// 📊 Summary prints a table of every executed step followed by the terminal status
func (l *Logger) Summary(result *pipeline.Result) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	data := pterm.TableData{{"Step", "Result", "Detail"}}
	for _, s := range result.Steps {
		res, detail := "ok", s.Detail
		if !s.OK() {
			res, detail = "failed", s.Message
			if !s.Escalated {
				res = "warning"
			}
		}
		data = append(data, []string{string(s.ID), res, detail})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(l.console)
	fmt.Fprintln(l.console, table)

	if result.Failed() {
		fmt.Fprint(l.console, pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).Sprintln(string(result.Status)+": "+result.Message))
		l.zlog.Error().Err(result.Err()).Msg(result.Message)
	} else {
		fmt.Fprint(l.console, pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).Sprintln(string(result.Status)+": "+result.Message))
		l.zlog.Info().Msg(result.Message)
	}
	return nil
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("serverclone")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

var _ pipeline.Reporter = (*Logger)(nil)
