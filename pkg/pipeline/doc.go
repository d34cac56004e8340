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
Package pipeline clones a headless server into a new directory and points its
configuration at the new location.

	+-----------+     +-------------+
	| game dir  |     | server dir  |
	| bin, data |     | everything  |
	+-----+-----+     | else        |
	      |           +------+------+
	      | whitelist        | blacklist
	      v                  v
	+-----+------------------+-----+
	|          output dir          |
	+--------------+---------------+
	               |
	        patch config files

🔄 Flow:
 1. clone-game: copy bin and data from the game install
 2. clone-server: copy everything but bin and data from the old server
 3. patch-config-path: config-path= in config-path.cfg -> <output>/config
 4. patch-config-ini: read-data= -> <output>/data, write-data= -> <output>
 5. copy-launcher: bin/x64/start.bat from the old server
 6. patch-launcher: <server>/server-settings.json -> <output>/server-settings.json

Steps run one after another on the calling goroutine. The first failing step
ends the run, except a missing launcher in patch-launcher, which is recorded
in the result but does not fail the run. Any other patch-launcher error does. Nothing is rolled back; running again over the same
output directory overwrites what the previous run wrote.

🔍 Example:

	result := pipeline.Run(ctx, pipeline.Config{
		GameDir:   "/opt/factorio-game",
		ServerDir: "/srv/factorio-1.1",
		OutputDir: "/srv/factorio-2.0",
	}, nil)
	if err := result.Err(); err != nil {
		if errors.Is(err, clone.ErrSourceMissing) {
			// ...
		}
	}
*/
package pipeline
