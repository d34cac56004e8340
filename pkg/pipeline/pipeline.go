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

package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📚 Config is the immutable input of a run. Paths must already be normalized.
type Config struct {
	GameDir   string   // Local game install providing bin and data
	ServerDir string   // Existing server providing everything else
	OutputDir string   // New server directory
	Ignore    []string // Extra doublestar patterns skipped when cloning the server
}

// 🔍 Validate checks if the configuration is usable
func (c Config) Validate() error {
	if c.GameDir == "" {
		return errors.Errorf("game directory is required")
	}
	if c.ServerDir == "" {
		return errors.Errorf("server directory is required")
	}
	if c.OutputDir == "" {
		return errors.Errorf("output directory is required")
	}
	return nil
}

// 🎯 StepID identifies a pipeline step
type StepID string

const (
	StepCloneGame       StepID = "clone-game"
	StepCloneServer     StepID = "clone-server"
	StepPatchConfigPath StepID = "patch-config-path"
	StepPatchConfigIni  StepID = "patch-config-ini"
	StepCopyLauncher    StepID = "copy-launcher"
	StepPatchLauncher   StepID = "patch-launcher"
)

// 🚦 Status is the terminal status of a run
type Status string

const (
	StatusDone   Status = "Done"
	StatusFailed Status = "Failed"
)

// 📝 StepOutcome records what a single step did
type StepOutcome struct {
	ID          StepID
	Description string // Progress text shown while the step runs
	Detail      string // Short summary of the work done, empty on failure
	Message     string // Human readable failure, empty on success
	Err         error  // Underlying error, keeps its kind for errors.Is
	Escalated   bool   // Whether Err failed the run
}

// OK reports whether the step succeeded
func (o StepOutcome) OK() bool {
	return o.Err == nil
}

// 📦 Result is the structured outcome of a run
type Result struct {
	Config  Config
	Steps   []StepOutcome // Executed steps, in order
	Status  Status
	Message string // Terminal message for display
}

// Failed reports whether the run failed
func (r *Result) Failed() bool {
	return r.Status == StatusFailed
}

// Err returns the error that failed the run, or nil
func (r *Result) Err() error {
	for _, s := range r.Steps {
		if s.Err != nil && s.Escalated {
			return errors.Errorf("%s: %w", s.Message, s.Err)
		}
	}
	if r.Failed() {
		return errors.New(r.Message)
	}
	return nil
}

// Step returns the outcome of the step with the given id, if it ran
func (r *Result) Step(id StepID) (StepOutcome, bool) {
	for _, s := range r.Steps {
		if s.ID == id {
			return s, true
		}
	}
	return StepOutcome{}, false
}

// 📢 Reporter receives progress while the pipeline runs
type Reporter interface {
	StepStarted(ctx context.Context, id StepID, description string)
	StepFinished(ctx context.Context, outcome StepOutcome)
}

type nopReporter struct{}

func (nopReporter) StepStarted(context.Context, StepID, string) {}
func (nopReporter) StepFinished(context.Context, StepOutcome)   {}

// 🏃 Run executes every step in order and stops at the first escalated failure.
// Steps that already ran are not rolled back. reporter may be nil.
func Run(ctx context.Context, cfg Config, reporter Reporter) *Result {
	if reporter == nil {
		reporter = nopReporter{}
	}

	if err := cfg.Validate(); err != nil {
		return &Result{
			Config:  cfg,
			Status:  StatusFailed,
			Message: err.Error(),
		}
	}

	return execute(ctx, cfg, defaultSteps(), reporter)
}

func execute(ctx context.Context, cfg Config, steps []step, reporter Reporter) *Result {
	logger := zerolog.Ctx(ctx)

	result := &Result{
		Config:  cfg,
		Status:  StatusDone,
		Message: fmt.Sprintf("Updated Factorio server located in directory: %s", cfg.OutputDir),
	}

	for _, s := range steps {
		reporter.StepStarted(ctx, s.id, s.description)
		logger.Debug().Str("step", string(s.id)).Msg("starting step")

		detail, err := s.run(ctx, cfg)

		outcome := StepOutcome{
			ID:          s.id,
			Description: s.description,
		}
		if err != nil {
			outcome.Err = err
			outcome.Message = s.failure
			outcome.Escalated = s.escalates(err)
		} else {
			outcome.Detail = detail
		}

		result.Steps = append(result.Steps, outcome)
		reporter.StepFinished(ctx, outcome)

		if err == nil {
			continue
		}

		if !outcome.Escalated {
			logger.Warn().Err(err).Str("step", string(s.id)).Msg("step failed, continuing")
			continue
		}

		logger.Error().Err(err).Str("step", string(s.id)).Msg("step failed")
		result.Status = StatusFailed
		result.Message = s.failure
		break
	}

	return result
}
