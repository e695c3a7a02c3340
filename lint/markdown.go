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
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

const (
	MaxLineLength     = 120
	allowedLineBreaks = 2
)

// ExcludedDirs are never walked.
var ExcludedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	".venv":        true,
	"__pycache__":  true,
	".terraform":   true,
}

type Issue struct {
	File string
	// Line is 1-based; 0 means the end of the file.
	Line    int
	Rule    string
	Message string
}

func (i Issue) String() string {
	pos := "EOF"
	if i.Line > 0 {
		pos = fmt.Sprintf("Line %d", i.Line)
	}
	if i.File != "" {
		pos = i.File + ": " + pos
	}
	return fmt.Sprintf("%s: %s - %s", pos, i.Rule, i.Message)
}

var (
	urlRE     = regexp.MustCompile(`https?://[^\s)<>\]]+`)
	headingRE = regexp.MustCompile(`^#{1,6}\s`)
	listRE    = regexp.MustCompile(`^\s*([-*+]|\d+\.)\s`)
	linkRE    = regexp.MustCompile(`\[[^\]]*\]\(`)
)

func isFence(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "```")
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func isHeading(line string) bool {
	return headingRE.MatchString(line)
}

func isListItem(line string) bool {
	return listRE.MatchString(line)
}

// bareURLs returns the [start, end) offsets of URLs not already wrapped in
// <>, () or [].
func bareURLs(line string) [][]int {
	var out [][]int
	for _, loc := range urlRE.FindAllStringIndex(line, -1) {
		if loc[0] > 0 && strings.ContainsRune("(<[", rune(line[loc[0]-1])) {
			continue
		}
		if loc[1] < len(line) && strings.ContainsRune(">)]", rune(line[loc[1]])) {
			continue
		}
		out = append(out, loc)
	}
	return out
}

func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// CheckMarkdown reports MD009, MD013, MD022, MD031, MD034, MD040 and MD047
// issues.
func CheckMarkdown(content string) []Issue {
	var issues []Issue
	add := func(line int, rule, format string, args ...interface{}) {
		issues = append(issues, Issue{Line: line, Rule: rule, Message: fmt.Sprintf(format, args...)})
	}

	lines := splitLines(content)
	inFence := false
	for i, line := range lines {
		n := i + 1
		prev, next := "", ""
		if i > 0 {
			prev = lines[i-1]
		}
		if i+1 < len(lines) {
			next = lines[i+1]
		}

		if trimmed := strings.TrimRight(line, " \t"); trimmed != line {
			if spaces := len(line) - len(trimmed); spaces != allowedLineBreaks {
				add(n, "MD009", "Trailing spaces (%d)", spaces)
			}
		}

		if isFence(line) {
			if !inFence {
				if strings.TrimSpace(line) == "```" {
					add(n, "MD040", "Code fence without language")
				}
				if i > 0 && !isBlank(prev) && !isHeading(prev) {
					add(n, "MD031", "Missing blank line before code fence")
				}
			} else if i+1 < len(lines) && !isBlank(next) {
				add(n, "MD031", "Missing blank line after code fence")
			}
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}

		if width := utf8.RuneCountInString(line); width > MaxLineLength && !strings.HasPrefix(strings.TrimSpace(line), "http") {
			add(n, "MD013", "Line too long (%d > %d)", width, MaxLineLength)
		}
		if isHeading(line) {
			if i > 0 && !isBlank(prev) {
				add(n, "MD022", "Missing blank line before heading")
			}
			if i+1 < len(lines) && !isBlank(next) && !isHeading(next) {
				add(n, "MD022", "Missing blank line after heading")
			}
		}
		for _, loc := range bareURLs(line) {
			add(n, "MD034", "Bare URL: %s", line[loc[0]:loc[1]])
		}
	}

	switch {
	case content == "":
	case strings.HasSuffix(content, "\n\n"):
		add(0, "MD047", "Multiple trailing newlines")
	case !strings.HasSuffix(content, "\n"):
		add(0, "MD047", "Missing trailing newline")
	}
	return issues
}

func CheckMarkdownFile(path string) ([]Issue, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	issues := CheckMarkdown(string(data))
	for i := range issues {
		issues[i].File = path
	}
	return issues, nil
}

// FixMarkdown applies the safe markdown fixes: trailing spaces, one final
// newline, blank lines around headings, lists and fences, a text language on
// bare opening fences and <> around bare URLs. Long lines are left alone.
func FixMarkdown(content string) string {
	lines := splitLines(strings.TrimRight(content, " \t\r\n"))
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t\r")
	}

	var out []string
	blank := func() {
		if len(out) > 0 && out[len(out)-1] != "" {
			out = append(out, "")
		}
	}
	inFence, inList := false, false
	for i, line := range lines {
		if isFence(line) {
			if !inFence {
				blank()
				if strings.TrimSpace(line) == "```" {
					line = strings.Replace(line, "```", "```text", 1)
				}
				out = append(out, line)
			} else {
				out = append(out, line)
				if i+1 < len(lines) && !isBlank(lines[i+1]) {
					out = append(out, "")
				}
			}
			inFence = !inFence
			inList = false
			continue
		}
		if inFence {
			out = append(out, line)
			continue
		}

		switch {
		case isListItem(line):
			if !inList {
				blank()
			}
			inList = true
		case isBlank(line):
			inList = false
		case inList && (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")):
			// item continuation
		case inList:
			blank()
			inList = false
		}

		if isHeading(line) {
			blank()
			out = append(out, line)
			if i+1 < len(lines) && !isBlank(lines[i+1]) {
				out = append(out, "")
			}
			continue
		}
		out = append(out, wrapBareURLs(line))
	}
	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, "\n") + "\n"
}

// wrapBareURLs leaves markdown link lines and list items alone.
func wrapBareURLs(line string) string {
	if linkRE.MatchString(line) || strings.HasPrefix(strings.TrimSpace(line), "- ") {
		return line
	}
	locs := bareURLs(line)
	for i := len(locs) - 1; i >= 0; i-- {
		s, e := locs[i][0], locs[i][1]
		line = line[:s] + "<" + line[s:e] + ">" + line[e:]
	}
	return line
}

// FindFiles walks root and returns the files whose name matches one of the
// patterns, skipping ExcludedDirs.
func FindFiles(root string, patterns ...string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != root && ExcludedDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		for _, p := range patterns {
			if ok, _ := filepath.Match(p, info.Name()); ok {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	return files, errors.Wrapf(err, "failed to walk %s", root)
}
