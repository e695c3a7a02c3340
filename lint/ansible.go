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
	"regexp"
	"sort"
	"strings"
)

// FQCNMappings maps short module names to fully qualified collection names.
var FQCNMappings = map[string]string{
	"apt":        "ansible.builtin.apt",
	"copy":       "ansible.builtin.copy",
	"fetch":      "ansible.builtin.fetch",
	"file":       "ansible.builtin.file",
	"get_url":    "ansible.builtin.get_url",
	"lineinfile": "ansible.builtin.lineinfile",
	"replace":    "ansible.builtin.replace",
	"shell":      "ansible.builtin.shell",
	"systemd":    "ansible.builtin.systemd",
	"template":   "ansible.builtin.template",
	"wait_for":   "ansible.builtin.wait_for",
	"modprobe":   "community.general.modprobe",
	"sysctl":     "ansible.posix.sysctl",
	"timezone":   "community.general.timezone",
	"ufw":        "community.general.ufw",
}

var (
	fqcnRE   = regexp.MustCompile(`^(\s+(?:-\s+)?)(` + moduleAlternation() + `):(.*)$`)
	truthyRE = regexp.MustCompile(`^(\s+\w+:\s+)(yes|no|Yes|No|YES|NO)(\s*(?:#.*)?)$`)
)

func moduleAlternation() string {
	names := make([]string, 0, len(FQCNMappings))
	for k := range FQCNMappings {
		names = append(names, regexp.QuoteMeta(k))
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}

// Change describes one rewritten line.
type Change struct {
	Line int
	From string
	To   string
}

func (c Change) String() string {
	return fmt.Sprintf("Line %d: %s -> %s", c.Line, c.From, c.To)
}

// FixAnsibleYAML normalizes line endings, replaces short module names with
// their FQCN, rewrites yes/no to true/false and trims trailing spaces.
func FixAnsibleYAML(content string) (string, []Change) {
	content = strings.Replace(content, "\r\n", "\n", -1)
	content = strings.Replace(content, "\r", "\n", -1)

	var changes []Change
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if m := fqcnRE.FindStringSubmatch(line); m != nil {
			fqcn := FQCNMappings[m[2]]
			line = m[1] + fqcn + ":" + m[3]
			changes = append(changes, Change{Line: i + 1, From: m[2], To: fqcn})
		}
		if m := truthyRE.FindStringSubmatch(line); m != nil {
			to := "false"
			if strings.EqualFold(m[2], "yes") {
				to = "true"
			}
			line = m[1] + to + m[3]
			changes = append(changes, Change{Line: i + 1, From: m[2], To: to})
		}
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n"), changes
}

var jinjaRE = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// FixJinjaSpacing rewrites {{var}} as {{ var }}. Expressions already padded
// on both sides are kept as written.
func FixJinjaSpacing(content string) string {
	return jinjaRE.ReplaceAllStringFunc(content, func(m string) string {
		inner := m[2 : len(m)-2]
		if strings.HasPrefix(inner, " ") && strings.HasSuffix(inner, " ") {
			return m
		}
		return "{{ " + strings.TrimSpace(inner) + " }}"
	})
}
