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

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/serverclone/cmd/serverclone/commands"
	"github.com/walteh/serverclone/pkg/clone"
	"gitlab.com/tozd/go/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// 🧪 setupDirs creates a game install and an old server, returning their paths
// and the output path
func setupDirs(t *testing.T) (game, server, output string) {
	root := t.TempDir()
	game = filepath.Join(root, "game")
	server = filepath.Join(root, "server")
	output = filepath.Join(root, "output")

	writeFile(t, filepath.Join(game, "bin", "x64", "factorio"), "bin")
	writeFile(t, filepath.Join(game, "data", "base", "info.json"), "{}")
	writeFile(t, filepath.Join(server, "config-path.cfg"), "config-path=old\n")
	writeFile(t, filepath.Join(server, "config", "config.ini"), "read-data=old\nwrite-data=old\n")
	writeFile(t, filepath.Join(server, "bin", "x64", "start.bat"), "factorio --server-settings "+filepath.Join(server, "server-settings.json")+"\n")
	writeFile(t, filepath.Join(server, "server-settings.json"), "{}")
	return game, server, output
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	color.NoColor = true
	pterm.DisableStyling()
	t.Cleanup(func() {
		color.NoColor = false
		pterm.EnableStyling()
	})

	out := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCloneCommand(t *testing.T) {
	game, server, output := setupDirs(t)

	out, err := execute(t, "clone", "--game", game, "--server", server, "--output", output)
	require.NoError(t, err)

	assert.Contains(t, out, "Done: Updated Factorio server located in directory: "+output)
	assert.Contains(t, out, "clone-game")
	assert.Contains(t, out, "patch-launcher")

	data, err := os.ReadFile(filepath.Join(output, "config-path.cfg"))
	require.NoError(t, err)
	assert.Equal(t, "config-path="+filepath.Join(output, "config")+"\n", string(data))

	data, err = os.ReadFile(filepath.Join(output, "bin", "x64", "start.bat"))
	require.NoError(t, err)
	assert.Equal(t, "factorio --server-settings "+filepath.Join(output, "server-settings.json")+"\n", string(data))
}

func TestCloneCommandWithConfigFile(t *testing.T) {
	game, server, output := setupDirs(t)
	writeFile(t, filepath.Join(server, "factorio-current.log"), "log")

	configPath := filepath.Join(t.TempDir(), "serverclone.yaml")
	writeFile(t, configPath, "game: "+game+"\nserver: "+server+"\noutput: /somewhere/else\nignore:\n  - \"*.log\"\n")

	// flags win over the file
	out, err := execute(t, "--config", configPath, "clone", "--output", output)
	require.NoError(t, err)
	assert.Contains(t, out, "using config "+configPath)

	assert.FileExists(t, filepath.Join(output, "config", "config.ini"))
	assert.NoFileExists(t, filepath.Join(output, "factorio-current.log"))
}

func TestCloneCommandFailures(t *testing.T) {
	tests := []struct {
		name        string
		args        func(game, server, output string) []string
		setup       func(t *testing.T, game, server string)
		errContains string
		errKind     error
	}{
		{
			name: "missing_flag",
			args: func(game, server, output string) []string {
				return []string{"clone", "--game", game, "--server", server}
			},
			errContains: "output directory is required",
		},
		{
			name: "server_missing",
			args: func(game, server, output string) []string {
				return []string{"clone", "--game", game, "--server", server + "-nope", "--output", output}
			},
			errContains: "Original server path does not exist",
			errKind:     clone.ErrSourceMissing,
		},
		{
			name: "game_incomplete",
			args: func(game, server, output string) []string {
				return []string{"clone", "-g", game, "-s", server, "-o", output}
			},
			setup: func(t *testing.T, game, server string) {
				require.NoError(t, os.RemoveAll(filepath.Join(game, "data")))
			},
			errContains: "Factorio game path does not exist or is missing Factorio game files",
			errKind:     clone.ErrWhitelistEntryMissing,
		},
		{
			name: "unexpected_argument",
			args: func(game, server, output string) []string {
				return []string{"clone", "extra"}
			},
			errContains: "unknown command",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game, server, output := setupDirs(t)
			if tt.setup != nil {
				tt.setup(t, game, server)
			}

			_, err := execute(t, tt.args(game, server, output)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
			if tt.errKind != nil {
				assert.True(t, errors.Is(err, tt.errKind))
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "🚀 serverclone ")
	assert.Contains(t, out, "game entries:  bin, data")
	assert.Contains(t, out, "patched files: config-path.cfg, config/config.ini, bin/x64/start.bat")

	out, err = execute(t, "version", "--json")
	require.NoError(t, err)

	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Contains(t, info, "go_version")
	assert.Contains(t, info, "platform")
	assert.Equal(t, []any{"bin", "data"}, info["game_entries"])
	assert.Len(t, info["patched_files"], 3)
}

func TestCloneCommandFailureIsReportedOnce(t *testing.T) {
	game, server, output := setupDirs(t)
	require.NoError(t, os.RemoveAll(server))

	out, err := execute(t, "clone", "-g", game, "-s", server, "-o", output)
	require.Error(t, err)

	// the summary shows the failure, so main must not print it again
	var reported *commands.ReportedError
	require.True(t, errors.As(err, &reported))
	assert.Contains(t, out, "Failed: Original server path does not exist")
	assert.True(t, errors.Is(err, clone.ErrSourceMissing))

	// config errors never reach the summary
	_, err = execute(t, "clone", "-g", game)
	require.Error(t, err)
	assert.False(t, errors.As(err, &reported))
}
