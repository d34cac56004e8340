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

package text

import (
	"bytes"
	"context"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Patcher rewrites a file in place with an ordered set of rules
type Patcher struct {
	Path  string
	Rules []Rule
}

// NewPatcher creates a new Patcher for the file at path
func NewPatcher(path string, rules ...Rule) *Patcher {
	return &Patcher{
		Path:  path,
		Rules: rules,
	}
}

// Patch reads the whole file, rewrites it in memory and writes it back to the
// same path, truncating the old contents. All rules apply in one pass, so either
// every rule is applied or the file is left as it was.
func (p *Patcher) Patch(ctx context.Context) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	if err := ValidateRules(p.Rules); err != nil {
		return nil, errors.Errorf("patching %s: %w", p.Path, err)
	}

	info, err := os.Stat(p.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Errorf("%w: %s", ErrFileNotFound, p.Path)
		}
		return nil, errors.Errorf("stat %s: %w", p.Path, err)
	}

	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", p.Path, err)
	}

	result, err := RewriteLines(ctx, bytes.NewReader(data), p.Rules)
	if err != nil {
		return nil, errors.Errorf("rewriting %s: %w", p.Path, err)
	}
	result.Path = p.Path

	if err := ctx.Err(); err != nil {
		return nil, errors.Errorf("patching %s: %w", p.Path, err)
	}

	if err := os.WriteFile(p.Path, result.ModifiedContent, info.Mode().Perm()); err != nil {
		return nil, errors.Errorf("writing %s: %w", p.Path, err)
	}

	logger.Debug().
		Str("path", p.Path).
		Int("lines_rewritten", result.LinesRewritten).
		Bool("modified", result.WasModified).
		Msg("patched file")

	return result, nil
}

// ReplaceAfterPrefix rewrites every line of path that starts with prefix to
// prefix + value + "\n". Other lines are written back unchanged.
//
// Fails with ErrFileNotFound when path does not exist. An empty prefix is
// rejected before the file is read.
func ReplaceAfterPrefix(ctx context.Context, path, prefix, value string) (*Result, error) {
	return NewPatcher(path, PrefixRule{Prefix: prefix, Value: value}).Patch(ctx)
}

// ReplaceSubstring replaces every occurrence of needle with replacement in the
// lines of path that contain it.
//
// Fails with ErrFileNotFound when path does not exist. An empty needle is
// rejected before the file is read.
func ReplaceSubstring(ctx context.Context, path, needle, replacement string) (*Result, error) {
	return NewPatcher(path, SubstringRule{Needle: needle, Replacement: replacement}).Patch(ctx)
}
