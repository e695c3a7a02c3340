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
	"bytes"
	"context"
	"io/ioutil"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/util/sets"
	"pharmer.dev/rke2az/terraform"
	"pharmer.dev/rke2az/utils/exec"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := ioutil.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func statuses(results []Result) map[string]Status {
	out := map[string]Status{}
	for _, r := range results {
		out[r.Name] = r.Status
	}
	return out
}

func TestRunChecks(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "deploy.sh"), "#!/bin/sh\necho hi\n")
	writeFile(t, filepath.Join(root, "README.md"), "# rke2\n\nClean.\n")

	runner := exec.NewFake("tfsec", "gitleaks")
	runner.Results["trivy config"] = errors.New("misconfigured")
	tf := terraform.NewFake(nil)
	tf.Unformatted = []string{"main.tf"}
	var out bytes.Buffer

	results := RunChecks(context.Background(), Options{
		Root:   root,
		Runner: runner,
		Out:    &out,
		Terraform: func(dir string) (TerraformChecker, error) {
			if dir != filepath.Join(root, "terraform") {
				t.Errorf("terraform dir = %s", dir)
			}
			return tf, nil
		},
	})

	want := map[string]Status{
		TerraformFmt:      StatusFail,
		TerraformValidate: StatusPass,
		AnsibleLint:       StatusPass,
		ShellCheck:        StatusPass,
		YAMLLint:          StatusPass,
		Gitleaks:          StatusSkip,
		Security:          StatusPass,
		Trivy:             StatusFail,
		Markdown:          StatusPass,
	}
	if got := statuses(results); !reflect.DeepEqual(got, want) {
		t.Errorf("statuses = %v, want %v", got, want)
	}
	if !Failed(results) {
		t.Errorf("Failed() = false, want true")
	}
	for _, r := range results {
		if r.Name == Security && r.Tool != "checkov" {
			t.Errorf("security tool = %q, want checkov", r.Tool)
		}
		if r.Name == Gitleaks && r.Message != "gitleaks not installed" {
			t.Errorf("gitleaks message = %q", r.Message)
		}
	}

	wantCalls := []string{
		"ansible-lint ansible",
		"shellcheck deploy.sh",
		"yamllint .",
		"checkov -d terraform --quiet",
		"trivy config --exit-code 1 .",
	}
	if got := runner.Calls(); !reflect.DeepEqual(got, wantCalls) {
		t.Errorf("calls = %v, want %v", got, wantCalls)
	}
	if got, want := tf.Calls(), []string{"fmt", "init", "validate"}; !reflect.DeepEqual(got, want) {
		t.Errorf("terraform calls = %v, want %v", got, want)
	}
}

func TestRunChecksSelection(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "README.md"), "text\n# Title\n")
	runner := exec.NewFake()
	var out bytes.Buffer

	results := RunChecks(context.Background(), Options{
		Root:   root,
		Runner: runner,
		Only:   sets.NewString(Markdown),
		Out:    &out,
	})
	if len(results) != 1 || results[0].Name != Markdown || results[0].Status != StatusFail {
		t.Fatalf("results = %+v", results)
	}
	if !strings.Contains(out.String(), "README.md (1 issues):") {
		t.Errorf("output = %q", out.String())
	}
	if len(runner.Calls()) != 0 {
		t.Errorf("unexpected calls %v", runner.Calls())
	}

	results = RunChecks(context.Background(), Options{
		Root:         root,
		Runner:       runner,
		Only:         sets.NewString(Markdown),
		SkipMarkdown: true,
		Out:          &out,
	})
	if len(results) != 0 {
		t.Errorf("results = %+v, want none", results)
	}
}

func TestFixFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "README.md")
	writeFile(t, path, "text  x   \n")

	results, err := FixFiles(FixerMarkdown, []string{path}, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || !results[0].Changed {
		t.Fatalf("results = %+v", results)
	}
	data, _ := ioutil.ReadFile(path)
	if string(data) != "text  x   \n" {
		t.Errorf("dry run modified file: %q", data)
	}

	if _, err := FixFiles(FixerMarkdown, []string{path}, false); err != nil {
		t.Fatal(err)
	}
	data, _ = ioutil.ReadFile(path)
	if string(data) != "text  x\n" {
		t.Errorf("fixed file = %q", data)
	}

	results, err = FixFiles(FixerMarkdown, []string{path}, false)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Changed {
		t.Errorf("second run changed %s", path)
	}
}

func TestParseFixer(t *testing.T) {
	for _, name := range []string{"markdown", "ansible", "jinja"} {
		if f, err := ParseFixer(name); err != nil || string(f) != name {
			t.Errorf("ParseFixer(%q) = %q, %v", name, f, err)
		}
	}
	if _, err := ParseFixer("python"); err == nil {
		t.Errorf("ParseFixer(python) expected error")
	}
}

func TestFixerDefaultPaths(t *testing.T) {
	root := "/work"
	cases := []struct {
		fixer Fixer
		want  []string
	}{
		{FixerMarkdown, []string{"/work"}},
		{FixerJinja, []string{"/work/ansible"}},
		{FixerAnsible, []string{"/work/ansible", "/work/azure.yaml", "/work/terraform/azure.yaml"}},
	}
	for _, c := range cases {
		if got := c.fixer.DefaultPaths(root); !reflect.DeepEqual(got, c.want) {
			t.Errorf("%s.DefaultPaths() = %v, want %v", c.fixer, got, c.want)
		}
	}
}
