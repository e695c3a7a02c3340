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
	"reflect"
	"testing"
)

func TestFixAnsibleYAML(t *testing.T) {
	in := "- name: copy file\r\n  copy:\r\n    src: a\r\n    force: yes\r\n  become: no   \r\n"
	want := "- name: copy file\n  ansible.builtin.copy:\n    src: a\n    force: true\n  become: false\n"

	got, changes := FixAnsibleYAML(in)
	if got != want {
		t.Errorf("FixAnsibleYAML() = %q, want %q", got, want)
	}
	wantChanges := []Change{
		{Line: 2, From: "copy", To: "ansible.builtin.copy"},
		{Line: 4, From: "yes", To: "true"},
		{Line: 5, From: "no", To: "false"},
	}
	if !reflect.DeepEqual(changes, wantChanges) {
		t.Errorf("changes = %v, want %v", changes, wantChanges)
	}
}

func TestFixAnsibleYAMLKeepsArguments(t *testing.T) {
	got, _ := FixAnsibleYAML("  - shell: echo hi\n  - ansible.builtin.copy:\n      dest: /tmp\n")
	want := "  - ansible.builtin.shell: echo hi\n  - ansible.builtin.copy:\n      dest: /tmp\n"
	if got != want {
		t.Errorf("FixAnsibleYAML() = %q, want %q", got, want)
	}
}

func TestFixJinjaSpacing(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: "{{var}}", want: "{{ var }}"},
		{in: "{{ var }}", want: "{{ var }}"},
		{in: "{{ var}}", want: "{{ var }}"},
		{in: "{{  x  }}", want: "{{  x  }}"},
		{in: "a: {{item.name|default('x')}}", want: "a: {{ item.name|default('x') }}"},
		{in: "no braces here", want: "no braces here"},
	}
	for _, tt := range tests {
		if got := FixJinjaSpacing(tt.in); got != tt.want {
			t.Errorf("FixJinjaSpacing(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
