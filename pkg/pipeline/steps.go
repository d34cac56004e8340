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
	"io/fs"
	"os"

	"github.com/walteh/serverclone/pkg/clone"
	"github.com/walteh/serverclone/pkg/layout"
	"github.com/walteh/serverclone/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// ErrLauncherMissing is returned when the old server has no launcher script
var ErrLauncherMissing = errors.Base("launcher script does not exist")

type step struct {
	id          StepID
	description string
	failure     string
	// tolerate is an error kind reported as a warning instead of failing the
	// run. Every other error aborts the pipeline.
	tolerate error
	run      func(ctx context.Context, cfg Config) (string, error)
}

// escalates reports whether err from this step stops the pipeline
func (s step) escalates(err error) bool {
	return s.tolerate == nil || !errors.Is(err, s.tolerate)
}

func defaultSteps() []step {
	return []step{
		{
			id:          StepCloneGame,
			description: "Cloning game files from local Factorio install...",
			failure:     "Factorio game path does not exist or is missing Factorio game files",
			run:         cloneGame,
		},
		{
			id:          StepCloneServer,
			description: "Cloning old server data...",
			failure:     "Original server path does not exist",
			run:         cloneServer,
		},
		{
			id:          StepPatchConfigPath,
			description: "Updating configuration paths...",
			failure:     "config-path.cfg file not detected in original server path",
			run:         patchConfigPath,
		},
		{
			id:          StepPatchConfigIni,
			description: "Updating configuration paths...",
			failure:     "config/config.ini file not detected in original server path",
			run:         patchConfigIni,
		},
		{
			id:          StepCopyLauncher,
			description: "Updating Windows batch file...",
			failure:     "start.bat file does not exist in original server path",
			run:         copyLauncher,
		},
		{
			id:          StepPatchLauncher,
			description: "Updating Windows batch file...",
			failure:     "server-settings.json path could not be updated in start.bat",
			tolerate:    text.ErrFileNotFound,
			run:         patchLauncher,
		},
	}
}

func cloneGame(ctx context.Context, cfg Config) (string, error) {
	stats, err := clone.Clone(ctx, clone.Spec{
		Source:      cfg.GameDir,
		Destination: cfg.OutputDir,
		Names:       layout.GameEntries,
		Mode:        clone.Whitelist,
	})
	if err != nil {
		return "", errors.Errorf("cloning game files: %w", err)
	}
	return formatStats(stats), nil
}

func cloneServer(ctx context.Context, cfg Config) (string, error) {
	stats, err := clone.Clone(ctx, clone.Spec{
		Source:      cfg.ServerDir,
		Destination: cfg.OutputDir,
		Names:       layout.GameEntries,
		Mode:        clone.Blacklist,
		Ignore:      cfg.Ignore,
	})
	if err != nil {
		return "", errors.Errorf("cloning server files: %w", err)
	}
	return formatStats(stats), nil
}

func patchConfigPath(ctx context.Context, cfg Config) (string, error) {
	out := layout.Root(cfg.OutputDir)

	result, err := text.ReplaceAfterPrefix(ctx, out.ConfigPathFile(), layout.ConfigPathKey, out.ConfigDir())
	if err != nil {
		return "", errors.Errorf("patching %s: %w", layout.ConfigPath, err)
	}
	return formatPatch(result), nil
}

// patchConfigIni rewrites read-data and write-data in a single pass, so the
// step succeeds only if both apply.
func patchConfigIni(ctx context.Context, cfg Config) (string, error) {
	out := layout.Root(cfg.OutputDir)

	result, err := text.NewPatcher(out.ConfigIniFile(),
		text.PrefixRule{Prefix: layout.ReadDataKey, Value: out.DataDir()},
		text.PrefixRule{Prefix: layout.WriteDataKey, Value: out.Dir()},
	).Patch(ctx)
	if err != nil {
		return "", errors.Errorf("patching %s: %w", layout.ConfigIni, err)
	}
	return formatPatch(result), nil
}

func copyLauncher(ctx context.Context, cfg Config) (string, error) {
	src := layout.Root(cfg.ServerDir).Launcher()
	dst := layout.Root(cfg.OutputDir).Launcher()

	if _, err := os.Stat(src); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", errors.Errorf("%w: %s", ErrLauncherMissing, src)
		}
		return "", errors.Errorf("stat launcher: %w", err)
	}

	if err := clone.CopyFile(ctx, src, dst); err != nil {
		return "", errors.Errorf("copying launcher: %w", err)
	}
	return "copied " + layout.LauncherName, nil
}

func patchLauncher(ctx context.Context, cfg Config) (string, error) {
	server := layout.Root(cfg.ServerDir)
	out := layout.Root(cfg.OutputDir)

	result, err := text.ReplaceSubstring(ctx, out.Launcher(), server.SettingsFile(), out.SettingsFile())
	if err != nil {
		return "", errors.Errorf("patching %s: %w", layout.LauncherName, err)
	}
	return formatPatch(result), nil
}

func formatStats(stats *clone.Stats) string {
	return fmt.Sprintf("%d files, %d directories, %d skipped", stats.Files, stats.Dirs, stats.Skipped)
}

func formatPatch(result *text.Result) string {
	if result.LinesRewritten == 1 {
		return "1 line rewritten"
	}
	return fmt.Sprintf("%d lines rewritten", result.LinesRewritten)
}
