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
package ansible

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"pharmer.dev/rke2az/utils/exec"
)

// Interface is what the deployment flow needs from ansible.
type Interface interface {
	Playbook(ctx context.Context, opts PlaybookOptions) error
	Ping(ctx context.Context, inventory string) error
	Graph(ctx context.Context, inventory string) error
}

type PlaybookOptions struct {
	Inventory string
	Playbook  string
	// Forks is passed through as --forks when positive.
	Forks     int
	Limit     string
	Tags      []string
	ExtraVars map[string]string
	Verbose   int
}

func (o PlaybookOptions) Args() []string {
	args := []string{"-i", o.Inventory}
	if o.Forks > 0 {
		args = append(args, "--forks", strconv.Itoa(o.Forks))
	}
	if o.Limit != "" {
		args = append(args, "--limit", o.Limit)
	}
	if len(o.Tags) > 0 {
		args = append(args, "--tags", strings.Join(o.Tags, ","))
	}
	keys := make([]string, 0, len(o.ExtraVars))
	for k := range o.ExtraVars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "-e", k+"="+o.ExtraVars[k])
	}
	if o.Verbose > 0 {
		args = append(args, "-"+strings.Repeat("v", o.Verbose))
	}
	return append(args, o.Playbook)
}

type Driver struct {
	runner exec.Runner
	dir    string
}

var _ Interface = &Driver{}

// NewDriver runs ansible commands from dir so ansible.cfg in it is picked up.
func NewDriver(runner exec.Runner, dir string) *Driver {
	return &Driver{runner: runner, dir: dir}
}

func (d *Driver) Playbook(ctx context.Context, opts PlaybookOptions) error {
	if opts.Playbook == "" {
		return errors.New("missing playbook")
	}
	err := d.runner.Run(ctx, exec.Command{
		Name: "ansible-playbook",
		Args: opts.Args(),
		Dir:  d.dir,
	})
	return errors.Wrapf(err, "ansible-playbook %s failed", opts.Playbook)
}

func (d *Driver) Ping(ctx context.Context, inventory string) error {
	err := d.runner.Run(ctx, exec.Command{
		Name: "ansible",
		Args: []string{"all", "-i", inventory, "-m", "ping"},
		Dir:  d.dir,
	})
	return errors.Wrap(err, "ansible ping failed")
}

func (d *Driver) Graph(ctx context.Context, inventory string) error {
	err := d.runner.Run(ctx, exec.Command{
		Name: "ansible-inventory",
		Args: []string{"-i", inventory, "--graph"},
		Dir:  d.dir,
	})
	return errors.Wrap(err, "ansible-inventory --graph failed")
}
