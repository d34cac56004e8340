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

package clone

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrSourceMissing is returned when the source directory does not exist
	ErrSourceMissing = errors.Base("source directory does not exist")

	// ErrWhitelistEntryMissing is returned when a whitelisted name is absent from the source
	ErrWhitelistEntryMissing = errors.Base("whitelisted entry does not exist in source")
)

// 🎯 Mode selects how Spec.Names filters the top level of the source
type Mode int

const (
	// Blacklist copies everything except Names
	Blacklist Mode = iota
	// Whitelist copies only Names, all of which must exist
	Whitelist
)

// 📝 String returns a string representation of the mode
func (m Mode) String() string {
	switch m {
	case Blacklist:
		return "blacklist"
	case Whitelist:
		return "whitelist"
	default:
		return "unknown"
	}
}

// 📦 Spec describes a single clone invocation
type Spec struct {
	Source      string   // Directory to read from
	Destination string   // Directory to merge into, created if absent
	Names       []string // Top-level child names filtered by Mode
	Mode        Mode     // Whitelist or Blacklist
	Ignore      []string // Optional doublestar patterns skipped at any depth
}

// 📊 Stats counts what a clone did
type Stats struct {
	Files   int // Files copied
	Dirs    int // Directories merged
	Skipped int // Entries filtered out
}

// 🔍 Validate checks if the spec is usable
func (s Spec) Validate() error {
	if s.Source == "" {
		return errors.Errorf("source is required")
	}
	if s.Destination == "" {
		return errors.Errorf("destination is required")
	}
	if s.Mode != Blacklist && s.Mode != Whitelist {
		return errors.Errorf("invalid mode %d", s.Mode)
	}
	for _, pattern := range s.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid ignore pattern %q", pattern)
		}
	}
	return nil
}

// 🏃 Clone merges the filtered children of spec.Source into spec.Destination.
//
// Nothing is written when the source is missing or, in whitelist mode, when any
// whitelisted name is missing. Files copied before a later I/O failure are kept.
func Clone(ctx context.Context, spec Spec) (*Stats, error) {
	logger := zerolog.Ctx(ctx).With().
		Str("source", spec.Source).
		Str("destination", spec.Destination).
		Stringer("mode", spec.Mode).
		Logger()

	if err := spec.Validate(); err != nil {
		return nil, errors.Errorf("validating spec: %w", err)
	}

	info, err := os.Stat(spec.Source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Errorf("%w: %s", ErrSourceMissing, spec.Source)
		}
		return nil, errors.Errorf("stat source: %w", err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%w: %s is not a directory", ErrSourceMissing, spec.Source)
	}

	if spec.Mode == Whitelist {
		for _, name := range spec.Names {
			if _, err := os.Stat(filepath.Join(spec.Source, name)); err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return nil, errors.Errorf("%w: %s", ErrWhitelistEntryMissing, name)
				}
				return nil, errors.Errorf("stat whitelisted entry %s: %w", name, err)
			}
		}
	}

	sourceAbs, err := filepath.Abs(spec.Source)
	if err != nil {
		return nil, errors.Errorf("resolving source: %w", err)
	}
	destinationAbs, err := filepath.Abs(spec.Destination)
	if err != nil {
		return nil, errors.Errorf("resolving destination: %w", err)
	}

	// Listed before the destination exists so a destination inside the
	// source is not part of the listing.
	entries, err := os.ReadDir(spec.Source)
	if err != nil {
		return nil, errors.Errorf("reading source: %w", err)
	}

	if err := os.MkdirAll(spec.Destination, 0o755); err != nil {
		return nil, errors.Errorf("creating destination: %w", err)
	}

	c := &cloner{
		spec:        spec,
		source:      sourceAbs,
		destination: destinationAbs,
		logger:      &logger,
		stats:       &Stats{},
	}

	for _, entry := range entries {
		name := entry.Name()
		if !spec.selects(name) {
			logger.Debug().Str("name", name).Msg("skipped by filter")
			c.stats.Skipped++
			continue
		}

		if err := c.copyEntry(ctx, name); err != nil {
			return c.stats, errors.Errorf("copying %s: %w", name, err)
		}
	}

	logger.Debug().
		Int("files", c.stats.Files).
		Int("dirs", c.stats.Dirs).
		Int("skipped", c.stats.Skipped).
		Msg("clone complete")

	return c.stats, nil
}

// selects reports whether a top-level child passes the mode filter
func (s Spec) selects(name string) bool {
	listed := slices.Contains(s.Names, name)
	if s.Mode == Whitelist {
		return listed
	}
	return !listed
}

type cloner struct {
	spec        Spec
	source      string // absolute
	destination string // absolute
	logger      *zerolog.Logger
	stats       *Stats
}

// copyEntry copies the entry at rel (slash separated, relative to the source).
// Directories are merged recursively: source entries overwrite destination
// entries at the same path, anything else already in the destination stays.
func (c *cloner) copyEntry(ctx context.Context, rel string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if c.ignored(rel) {
		c.stats.Skipped++
		return nil
	}

	src := filepath.Join(c.spec.Source, filepath.FromSlash(rel))
	dst := filepath.Join(c.spec.Destination, filepath.FromSlash(rel))

	// A destination nested in the source would otherwise be copied into itself.
	if filepath.Join(c.source, filepath.FromSlash(rel)) == c.destination {
		c.logger.Debug().Str("path", rel).Msg("skipped destination inside source")
		c.stats.Skipped++
		return nil
	}

	// Stat follows symlinks, so links are copied as what they point at.
	info, err := os.Stat(src)
	if err != nil {
		return errors.Errorf("stat %s: %w", src, err)
	}

	if !info.IsDir() {
		if err := copyFile(src, dst, info); err != nil {
			return err
		}
		c.stats.Files++
		c.logger.Debug().Str("path", rel).Msg("copied file")
		return nil
	}

	children, err := os.ReadDir(src)
	if err != nil {
		return errors.Errorf("reading directory %s: %w", src, err)
	}

	if err := os.MkdirAll(dst, info.Mode().Perm()|0o700); err != nil {
		return errors.Errorf("creating directory %s: %w", dst, err)
	}

	for _, child := range children {
		if err := c.copyEntry(ctx, rel+"/"+child.Name()); err != nil {
			return err
		}
	}

	if err := copyMetadata(dst, info); err != nil {
		return err
	}
	c.stats.Dirs++
	return nil
}

// ignored reports whether rel matches one of the spec's ignore patterns
func (c *cloner) ignored(rel string) bool {
	for _, pattern := range c.spec.Ignore {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			c.logger.Debug().Str("pattern", pattern).Str("path", rel).Err(err).Msg("error matching pattern")
			continue
		}
		if matched {
			c.logger.Debug().Str("path", rel).Str("pattern", pattern).Msg("ignored by pattern")
			return true
		}
	}
	return false
}
