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

package commands

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/serverclone/cmd/serverclone/opts"
	"github.com/walteh/serverclone/pkg/config"
	"github.com/walteh/serverclone/pkg/layout"
	"github.com/walteh/serverclone/pkg/log"
	"github.com/walteh/serverclone/pkg/pipeline"
	"gitlab.com/tozd/go/errors"
)

// NewCloneCmd creates a new clone command
func NewCloneCmd(rootOpts *opts.RootOpts) *cobra.Command {
	var overrides config.Config

	cmd := &cobra.Command{
		Use:   "clone",
		Short: "Build a new server directory from a game install and an old server",
		Long: `Clone builds the output directory in a fixed order:
1. Copy bin and data from the game install
2. Copy everything else from the old server
3. Point config-path.cfg at the new config directory
4. Point read-data and write-data in config/config.ini at the new directory
5. Copy bin/x64/start.bat from the old server
6. Point start.bat at the new server-settings.json

The first failing step stops the run. Steps that already ran are not undone.
Flags override values read from --config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "clone").Logger().WithContext(cmd.Context())

			cfg, err := config.Load(ctx, rootOpts.ConfigFile, overrides)
			if err != nil {
				return errors.Errorf("loading config: %w", err)
			}

			ctx = log.NewContext(ctx, log.New(cmd.OutOrStdout(), *zerolog.Ctx(ctx)))

			return runClone(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&overrides.Game, "game", "g", "", "local game install directory")
	cmd.Flags().StringVarP(&overrides.Server, "server", "s", "", "existing server directory")
	cmd.Flags().StringVarP(&overrides.Output, "output", "o", "", "new server directory")
	cmd.Flags().StringArrayVar(&overrides.Ignore, "ignore", nil, "glob pattern skipped when copying the server, may be repeated")

	return cmd
}

// 🏃 runClone runs the pipeline for cfg and prints its progress and summary
// through the logger in ctx
func runClone(ctx context.Context, cfg *config.Config) error {
	logger := log.FromContext(ctx)

	logger.Header("cloning " + cfg.String())
	if loc := cfg.Location(); loc != "" {
		logger.Infof("using config %s", loc)
	}

	result := pipeline.Run(ctx, cfg.Pipeline(), logger)

	if err := logger.Summary(result); err != nil {
		return errors.Errorf("printing summary: %w", err)
	}

	if step, ok := result.Step(pipeline.StepPatchLauncher); ok && !step.OK() {
		logger.Warningf("check %s by hand: %v", layout.Root(cfg.Output).Launcher(), step.Err)
	}

	if err := result.Err(); err != nil {
		return &ReportedError{Err: err}
	}
	return nil
}

// ReportedError wraps an error whose message was already shown to the user
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string { return e.Err.Error() }
func (e *ReportedError) Unwrap() error { return e.Err }
