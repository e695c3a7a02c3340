/*
Copyright The Pharmer Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package lint

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func rules(issues []Issue) []string {
	out := make([]string, 0, len(issues))
	for _, i := range issues {
		out = append(out, fmt.Sprintf("%d:%s", i.Line, i.Rule))
	}
	return out
}

func TestCheckMarkdown(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "clean",
			content: "# Title\n\nSome text.\n\n```bash\necho hi\n```\n",
			want:    []string{},
		},
		{
			name:    "trailing spaces",
			content: "a   \nb  \n",
			want:    []string{"1:MD009"},
		},
		{
			name:    "heading without blank lines",
			content: "text\n# Title\nmore\n",
			want:    []string{"2:MD022", "2:MD022"},
		},
		{
			name:    "bare fence",
			content: "text\n```\ncode\n```\nafter\n",
			want:    []string{"2:MD040", "2:MD031", "4:MD031"},
		},
		{
			name:    "bare url",
			content: "see https://example.com now\nsee <https://example.com>\n",
			want:    []string{"1:MD034"},
		},
		{
			name:    "long line",
			content: strings.Repeat("a", MaxLineLength+1) + "\n",
			want:    []string{"1:MD013"},
		},
		{
			name:    "long line of multibyte characters",
			content: strings.Repeat("é", 100) + "\n",
			want:    []string{},
		},
		{
			name:    "long line counted in characters",
			content: strings.Repeat("é", MaxLineLength+1) + "\n",
			want:    []string{"1:MD013"},
		},
		{
			name:    "long line inside fence",
			content: "```text\n" + strings.Repeat("a", MaxLineLength+1) + "\n```\n",
			want:    []string{},
		},
		{
			name:    "missing final newline",
			content: "text",
			want:    []string{"0:MD047"},
		},
		{
			name:    "extra final newlines",
			content: "text\n\n",
			want:    []string{"0:MD047"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rules(CheckMarkdown(tt.content)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CheckMarkdown() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIssueString(t *testing.T) {
	i := Issue{File: "README.md", Line: 3, Rule: "MD009", Message: "Trailing spaces (1)"}
	if got, want := i.String(), "README.md: Line 3: MD009 - Trailing spaces (1)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	i = Issue{Rule: "MD047", Message: "Missing trailing newline"}
	if got, want := i.String(), "EOF: MD047 - Missing trailing newline"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestFixMarkdown(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "trailing whitespace",
			content: "# T  \n\ntext   \n\n\n",
			want:    "# T\n\ntext\n",
		},
		{
			name:    "fences",
			content: "text\n```\ncode\n```\nmore",
			want:    "text\n\n```text\ncode\n```\n\nmore\n",
		},
		{
			name:    "bare url",
			content: "see https://example.com\n",
			want:    "see <https://example.com>\n",
		},
		{
			name:    "list and link lines",
			content: "- https://example.com\n\n[x](https://example.com)\n",
			want:    "- https://example.com\n\n[x](https://example.com)\n",
		},
		{
			name:    "blank lines around headings",
			content: "intro\n# Title\ntext\n## Sub\n### Deeper\n",
			want:    "intro\n\n# Title\n\ntext\n\n## Sub\n\n### Deeper\n",
		},
		{
			name:    "heading before fence",
			content: "## Usage\n```bash\nmake\n```\n",
			want:    "## Usage\n\n```bash\nmake\n```\n",
		},
		{
			name:    "blank lines around lists",
			content: "Steps:\n- one\n  still one\n* two\n1. three\nDone.\n",
			want:    "Steps:\n\n- one\n  still one\n* two\n1. three\n\nDone.\n",
		},
		{
			name:    "empty",
			content: "\n\n",
			want:    "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FixMarkdown(tt.content)
			if got != tt.want {
				t.Errorf("FixMarkdown() = %q, want %q", got, tt.want)
			}
			if again := FixMarkdown(got); again != got {
				t.Errorf("FixMarkdown() not idempotent: %q", again)
			}
		})
	}
}
