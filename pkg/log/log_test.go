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
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/serverclone/pkg/pipeline"
	"gitlab.com/tozd/go/errors"
)

func newTestLogger(t *testing.T, buf *bytes.Buffer) *Logger {
	return New(buf, zerolog.New(zerolog.NewTestWriter(t)))
}

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "step_started_dedupes_description",
			op: func(t *testing.T, logger *Logger) {
				ctx := context.Background()
				logger.StepStarted(ctx, pipeline.StepPatchConfigPath, "Updating configuration paths...")
				logger.StepStarted(ctx, pipeline.StepPatchConfigIni, "Updating configuration paths...")
				logger.StepStarted(ctx, pipeline.StepCopyLauncher, "Updating Windows batch file...")
			},
			wantLogs: []string{
				"◆ Updating configuration paths...",
				"◆ Updating Windows batch file...",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("cloning headless server")
			},
			wantLogs: []string{
				"serverclone • cloning headless server",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := newTestLogger(t, buf)

			tt.op(t, logger)

			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	logger := New(io.Discard, zerolog.Nop())

	ctx := NewContext(context.Background(), logger)

	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")

	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}

func TestStepFormatting(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name    string
		outcome pipeline.StepOutcome
		want    string
	}{
		{
			name: "succeeded",
			outcome: pipeline.StepOutcome{
				ID:     pipeline.StepCloneGame,
				Detail: "3 files, 2 directories, 1 skipped",
			},
			want: "    ✓ clone-game           3 files, 2 directories, 1 skipped",
		},
		{
			name: "failed",
			outcome: pipeline.StepOutcome{
				ID:        pipeline.StepCopyLauncher,
				Message:   "start.bat file does not exist in original server path",
				Err:       pipeline.ErrLauncherMissing,
				Escalated: true,
			},
			want: "    ✗ copy-launcher        start.bat file does not exist in original server path",
		},
		{
			name: "warned",
			outcome: pipeline.StepOutcome{
				ID:      pipeline.StepPatchLauncher,
				Message: "server-settings.json path could not be updated in start.bat",
				Err:     errors.New("boom"),
			},
			want: "    ⚠ patch-launcher       server-settings.json path could not be updated in start.bat",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := newTestLogger(t, buf)

			logger.StepFinished(context.Background(), tt.outcome)

			assert.Equal(t, tt.want, strings.TrimRight(buf.String(), "\n"), "formatted output should match")
		})
	}
}

func TestSummary(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	tests := []struct {
		name      string
		result    *pipeline.Result
		wantLines []string
	}{
		{
			name: "done",
			result: &pipeline.Result{
				Status:  pipeline.StatusDone,
				Message: "Updated Factorio server located in directory: /srv/new",
				Steps: []pipeline.StepOutcome{
					{ID: pipeline.StepCloneGame, Detail: "2 files, 2 directories, 0 skipped"},
					{ID: pipeline.StepPatchLauncher, Message: "server-settings.json path could not be updated in start.bat", Err: errors.New("boom")},
				},
			},
			wantLines: []string{
				"clone-game",
				"2 files, 2 directories, 0 skipped",
				"warning",
				"Done: Updated Factorio server located in directory: /srv/new",
			},
		},
		{
			name: "failed",
			result: &pipeline.Result{
				Status:  pipeline.StatusFailed,
				Message: "Original server path does not exist",
				Steps: []pipeline.StepOutcome{
					{ID: pipeline.StepCloneGame, Detail: "2 files, 2 directories, 0 skipped"},
					{ID: pipeline.StepCloneServer, Message: "Original server path does not exist", Err: errors.New("missing"), Escalated: true},
				},
			},
			wantLines: []string{
				"clone-server",
				"failed",
				"Failed: Original server path does not exist",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := newTestLogger(t, buf)

			require.NoError(t, logger.Summary(tt.result))

			output := buf.String()
			assert.Contains(t, output, "Step")
			for _, want := range tt.wantLines {
				assert.Contains(t, output, want)
			}
		})
	}
}
