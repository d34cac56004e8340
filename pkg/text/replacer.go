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
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ErrFileNotFound is returned when the file to patch does not exist
var ErrFileNotFound = errors.Base("file not found")

// Rule rewrites a single line of text
type Rule interface {
	// Apply returns the rewritten line and whether the rule matched it.
	// The line includes its terminator, if it had one.
	Apply(line string) (string, bool)

	// Validate checks that the rule can be applied
	Validate() error
}

// PrefixRule replaces every line starting with Prefix by Prefix + Value + "\n"
type PrefixRule struct {
	// Prefix is matched byte for byte against the start of the line
	Prefix string

	// Value is written after the prefix
	Value string
}

// Apply implements Rule.Apply
func (r PrefixRule) Apply(line string) (string, bool) {
	if !strings.HasPrefix(line, r.Prefix) {
		return line, false
	}
	return r.Prefix + r.Value + "\n", true
}

// Validate implements Rule.Validate
func (r PrefixRule) Validate() error {
	if r.Prefix == "" {
		return errors.New("prefix is required")
	}
	return nil
}

// SubstringRule replaces every occurrence of Needle in a line with Replacement
type SubstringRule struct {
	// Needle is the literal text to look for
	Needle string

	// Replacement is written in place of each occurrence
	Replacement string
}

// Apply implements Rule.Apply
func (r SubstringRule) Apply(line string) (string, bool) {
	if !strings.Contains(line, r.Needle) {
		return line, false
	}
	return strings.ReplaceAll(line, r.Needle, r.Replacement), true
}

// Validate implements Rule.Validate
func (r SubstringRule) Validate() error {
	if r.Needle == "" {
		return errors.New("needle is required")
	}
	return nil
}

// Result contains the outcome of rewriting some content
type Result struct {
	// Path is the patched file, empty for in-memory rewrites
	Path string

	// LinesRewritten is the number of lines matched by at least one rule
	LinesRewritten int

	// WasModified indicates if the content changed
	WasModified bool

	// OriginalContent is the content before rewriting
	OriginalContent []byte

	// ModifiedContent is the content after rewriting
	ModifiedContent []byte
}

// ValidateRules checks that all rules are valid
func ValidateRules(rules []Rule) error {
	for i, rule := range rules {
		if rule == nil {
			return errors.Errorf("rule %d: rule is nil", i)
		}
		if err := rule.Validate(); err != nil {
			return errors.Errorf("rule %d: %w", i, err)
		}
	}
	return nil
}
