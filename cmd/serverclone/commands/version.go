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
	"encoding/json"
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"github.com/walteh/serverclone/pkg/layout"
	"gitlab.com/tozd/go/errors"
)

// BuildInfo describes the running binary and the server layout it expects
type BuildInfo struct {
	Version     string   `json:"version"`
	Commit      string   `json:"commit,omitempty"`
	Dirty       bool     `json:"dirty,omitempty"`
	GoVersion   string   `json:"go_version"`
	Platform    string   `json:"platform"`
	GameEntries []string `json:"game_entries"`
	Patched     []string `json:"patched_files"`
}

func readBuildInfo() *BuildInfo {
	info := &BuildInfo{
		Version:     "dev",
		GoVersion:   runtime.Version(),
		Platform:    runtime.GOOS + "/" + runtime.GOARCH,
		GameEntries: layout.GameEntries,
		Patched:     layout.PatchedFiles,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		info.Version = v
	}
	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			info.Commit = setting.Value
		case "vcs.modified":
			info.Dirty = setting.Value == "true"
		}
	}
	return info
}

func (b *BuildInfo) String() string {
	version := b.Version
	if b.Commit != "" {
		version += " (" + b.Commit
		if b.Dirty {
			version += ", dirty"
		}
		version += ")"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🚀 serverclone %s %s %s\n", version, b.GoVersion, b.Platform)
	fmt.Fprintf(&sb, "game entries:  %s\n", strings.Join(b.GameEntries, ", "))
	fmt.Fprintf(&sb, "patched files: %s\n", strings.Join(b.Patched, ", "))
	return sb.String()
}

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information and the server layout serverclone expects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := readBuildInfo()
			if !asJSON {
				fmt.Fprint(cmd.OutOrStdout(), info.String())
				return nil
			}

			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return errors.Errorf("encoding build info: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}
