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
package exec

import (
	"context"
	"strings"
	"sync"

	"k8s.io/apimachinery/pkg/util/sets"
)

// FakeRunner records commands instead of running them. Tools listed in
// Missing are reported as not found; Results maps "name arg0" prefixes to
// the error returned by Run/Output.
type FakeRunner struct {
	Missing sets.String
	Results map[string]error
	Outputs map[string][]byte

	mu    sync.Mutex
	calls []Command
}

var _ Runner = &FakeRunner{}

func NewFake(missing ...string) *FakeRunner {
	return &FakeRunner{
		Missing: sets.NewString(missing...),
		Results: map[string]error{},
		Outputs: map[string][]byte{},
	}
}

func (f *FakeRunner) LookPath(name string) (string, error) {
	if f.Missing.Has(name) {
		return "", NotFoundError{Name: name}
	}
	return "/usr/bin/" + name, nil
}

func (f *FakeRunner) Run(ctx context.Context, cmd Command) error {
	_, err := f.Output(ctx, cmd)
	return err
}

func (f *FakeRunner) Output(ctx context.Context, cmd Command) ([]byte, error) {
	if _, err := f.LookPath(cmd.Name); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, cmd)

	line := cmd.line()
	var matched string
	for prefix := range f.Results {
		if strings.HasPrefix(line, prefix) && len(prefix) > len(matched) {
			matched = prefix
		}
	}
	var out []byte
	for prefix, data := range f.Outputs {
		if strings.HasPrefix(line, prefix) {
			out = data
		}
	}
	if matched != "" {
		return out, f.Results[matched]
	}
	return out, nil
}

// Calls returns the command lines run so far.
func (f *FakeRunner) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.line())
	}
	return out
}

func (f *FakeRunner) Commands() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Command(nil), f.calls...)
}
