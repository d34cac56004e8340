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

/*
Package config loads the directories of a clone run.

	            +-------------+
	            |   Config    |
	            | game/server |
	            |   /output   |
	            +------+------+
	                   |
	     +-------------+-------------+
	     |             |             |
	+----+----+   +----+----+   +----+----+
	|  YAML   |   |   HCL   |   |  JSON   |
	| Parser  |   | Parser  |   | Parser  |
	+---------+   +---------+   +---------+

🔄 Flow:
1. Reads the optional config file, picking a parser by extension
2. Merges command line overrides on top
3. Validates required directories and ignore patterns
4. Normalizes every directory to a clean absolute path

Normalization matters: the launcher script is patched by replacing the old
server's absolute settings path, so the server directory must be spelled the
way the script spells it.

🔍 Example (.serverclone.yaml):

	game: /opt/factorio
	server: /srv/factorio-1.1
	output: /srv/factorio-2.0
	ignore:
	  - "*.log"
	  - "saves/*.tmp"

🔍 Example (.serverclone.hcl):

	game   = "${HOME}/factorio"
	server = "/srv/factorio-1.1"
	output = "/srv/factorio-2.0"
	ignore = ["*.log"]
*/
package config
