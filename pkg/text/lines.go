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
	"io"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// RewriteLines applies rules to every line of content, in order.
// Lines keep their original terminators unless a rule rewrites them.
func RewriteLines(ctx context.Context, content io.Reader, rules []Rule) (*Result, error) {
	if err := ValidateRules(rules); err != nil {
		return nil, errors.Errorf("validating rules: %w", err)
	}

	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result := &Result{
		OriginalContent: originalContent,
	}

	var out strings.Builder
	out.Grow(len(originalContent))

	for _, line := range splitLines(string(originalContent)) {
		matched := false
		for _, rule := range rules {
			var ok bool
			line, ok = rule.Apply(line)
			matched = matched || ok
		}
		if matched {
			result.LinesRewritten++
		}
		out.WriteString(line)
	}

	result.ModifiedContent = []byte(out.String())
	result.WasModified = !bytes.Equal(result.OriginalContent, result.ModifiedContent)
	return result, nil
}

// splitLines splits s after each "\n". The last line may have no terminator.
func splitLines(s string) []string {
	lines := strings.SplitAfter(s, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
