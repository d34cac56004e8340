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

// Package layout names the files and directories of a headless server install
// that the clone pipeline relies on.
package layout

import "path/filepath"

const (
	BinDir       = "bin"
	DataDir      = "data"
	ConfigDir    = "config"
	ConfigPath   = "config-path.cfg"
	ConfigIni    = "config.ini"
	Settings     = "server-settings.json"
	LauncherName = "start.bat"
)

// Keys rewritten in the configuration files.
const (
	ConfigPathKey = "config-path="
	ReadDataKey   = "read-data="
	WriteDataKey  = "write-data="
)

// GameEntries are the top-level entries taken from the game install. Every
// other top-level entry comes from the old server.
var GameEntries = []string{BinDir, DataDir}

// PatchedFiles are the files, relative to the output root, whose paths are
// rewritten after the clone.
var PatchedFiles = []string{
	ConfigPath,
	ConfigDir + "/" + ConfigIni,
	BinDir + "/x64/" + LauncherName,
}

// Root is the root directory of a server layout
type Root string

func (r Root) path(elem ...string) string {
	return filepath.Join(append([]string{string(r)}, elem...)...)
}

// Dir returns the root directory itself
func (r Root) Dir() string { return string(r) }

func (r Root) ConfigDir() string      { return r.path(ConfigDir) }
func (r Root) DataDir() string        { return r.path(DataDir) }
func (r Root) ConfigPathFile() string { return r.path(ConfigPath) }
func (r Root) ConfigIniFile() string  { return r.path(ConfigDir, ConfigIni) }
func (r Root) SettingsFile() string   { return r.path(Settings) }

// Launcher returns the path of the server start script, bin/x64/start.bat
func (r Root) Launcher() string {
	return r.path(BinDir, "x64", LauncherName)
}
