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
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

type Fixer string

const (
	FixerMarkdown Fixer = "markdown"
	FixerAnsible  Fixer = "ansible"
	FixerJinja    Fixer = "jinja"
)

// DefaultPaths are the paths under root a fixer covers when none are given.
// The YAML fixers stay inside the ansible tree and the azd manifests: their
// rewrites are only valid for playbooks.
func (f Fixer) DefaultPaths(root string) []string {
	switch f {
	case FixerMarkdown:
		return []string{root}
	case FixerJinja:
		return []string{filepath.Join(root, "ansible")}
	default:
		return []string{
			filepath.Join(root, "ansible"),
			filepath.Join(root, "azure.yaml"),
			filepath.Join(root, "terraform", "azure.yaml"),
		}
	}
}

// Patterns are the file name patterns each fixer picks while walking.
func (f Fixer) Patterns() []string {
	switch f {
	case FixerMarkdown:
		return []string{"*.md"}
	case FixerJinja:
		return []string{"*.j2", "*.yml", "*.yaml"}
	default:
		return []string{"*.yml", "*.yaml"}
	}
}

func (f Fixer) apply(content string) (string, []Change) {
	switch f {
	case FixerMarkdown:
		return FixMarkdown(content), nil
	case FixerJinja:
		return FixJinjaSpacing(content), nil
	default:
		return FixAnsibleYAML(content)
	}
}

func ParseFixer(name string) (Fixer, error) {
	switch f := Fixer(name); f {
	case FixerMarkdown, FixerAnsible, FixerJinja:
		return f, nil
	}
	return "", errors.Errorf("unknown fixer %q, expected markdown, ansible or jinja", name)
}

// FixResult is the outcome for one file.
type FixResult struct {
	File    string
	Changed bool
	Changes []Change
}

// FixFiles runs the fixer over every file. In dry-run mode files are left
// untouched and the results only report what would change.
func FixFiles(fixer Fixer, files []string, dryRun bool) ([]FixResult, error) {
	results := make([]FixResult, 0, len(files))
	for _, file := range files {
		data, err := ioutil.ReadFile(file)
		if err != nil {
			return results, errors.Wrapf(err, "failed to read %s", file)
		}
		fixed, changes := fixer.apply(string(data))
		r := FixResult{File: file, Changed: fixed != string(data), Changes: changes}
		results = append(results, r)
		if !r.Changed || dryRun {
			continue
		}
		info, err := os.Stat(file)
		if err != nil {
			return results, err
		}
		if err := ioutil.WriteFile(file, []byte(fixed), info.Mode().Perm()); err != nil {
			return results, errors.Wrapf(err, "failed to write %s", file)
		}
	}
	return results, nil
}
