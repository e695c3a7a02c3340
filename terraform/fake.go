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
package terraform

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// Fake records calls in order and returns canned outputs.
type Fake struct {
	Result   *Outputs
	Failures map[string]error
	// Unformatted is returned by FormatCheck.
	Unformatted []string

	mu    sync.Mutex
	calls []string
}

var _ Interface = &Fake{}

func NewFake(out *Outputs) *Fake {
	return &Fake{Result: out, Failures: map[string]error{}}
}

func (f *Fake) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.Failures[call]
}

func (f *Fake) Init(ctx context.Context) error     { return f.record("init") }
func (f *Fake) Validate(ctx context.Context) error { return f.record("validate") }

func (f *Fake) FormatCheck(ctx context.Context) ([]string, error) {
	if err := f.record("fmt"); err != nil {
		return nil, err
	}
	return f.Unformatted, nil
}

func (f *Fake) Apply(ctx context.Context, varFile string, parallelism int) error {
	return f.record("apply")
}

func (f *Fake) Destroy(ctx context.Context, varFile string, parallelism int) error {
	return f.record("destroy")
}

func (f *Fake) Outputs(ctx context.Context) (*Outputs, error) {
	if err := f.record("output"); err != nil {
		return nil, err
	}
	if f.Result == nil {
		return nil, errors.New("no outputs")
	}
	return f.Result, nil
}

func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
