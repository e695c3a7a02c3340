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
	"io"
	"os"
	"strings"

	"github.com/hashicorp/terraform-exec/tfexec"
	"github.com/pkg/errors"
	"pharmer.dev/rke2az/utils/exec"
)

// Interface is the subset of terraform the deployment flow drives.
type Interface interface {
	Init(ctx context.Context) error
	Validate(ctx context.Context) error
	Apply(ctx context.Context, varFile string, parallelism int) error
	Destroy(ctx context.Context, varFile string, parallelism int) error
	Outputs(ctx context.Context) (*Outputs, error)
}

type Options struct {
	Stdout io.Writer
	Stderr io.Writer
	// NoBackend runs init with -backend=false, as CI does.
	NoBackend bool
}

type Driver struct {
	dir  string
	tf   *tfexec.Terraform
	opts Options
}

var _ Interface = &Driver{}

func NewDriver(runner exec.Runner, dir string, opts Options) (*Driver, error) {
	execPath, err := runner.LookPath("terraform")
	if err != nil {
		return nil, err
	}
	tf, err := tfexec.NewTerraform(dir, execPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to prepare terraform in %s", dir)
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	tf.SetStdout(opts.Stdout)
	tf.SetStderr(opts.Stderr)
	return &Driver{dir: dir, tf: tf, opts: opts}, nil
}

func (d *Driver) Init(ctx context.Context) error {
	initOpts := []tfexec.InitOption{tfexec.Upgrade(false)}
	if d.opts.NoBackend {
		initOpts = append(initOpts, tfexec.Backend(false))
	}
	return errors.Wrap(d.tf.Init(ctx, initOpts...), "terraform init failed")
}

func (d *Driver) Validate(ctx context.Context) error {
	out, err := d.tf.Validate(ctx)
	if err != nil {
		return errors.Wrap(err, "terraform validate failed")
	}
	if !out.Valid {
		msgs := make([]string, 0, len(out.Diagnostics))
		for _, diag := range out.Diagnostics {
			msgs = append(msgs, string(diag.Severity)+": "+diag.Summary)
		}
		return errors.Errorf("terraform configuration is invalid: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// FormatCheck returns the files terraform fmt would rewrite.
func (d *Driver) FormatCheck(ctx context.Context) ([]string, error) {
	ok, files, err := d.tf.FormatCheck(ctx, tfexec.Recursive(true))
	if err != nil {
		return nil, errors.Wrap(err, "terraform fmt failed")
	}
	if ok {
		return nil, nil
	}
	return files, nil
}

func (d *Driver) Apply(ctx context.Context, varFile string, parallelism int) error {
	applyOpts := []tfexec.ApplyOption{tfexec.VarFile(varFile)}
	if parallelism > 0 {
		applyOpts = append(applyOpts, tfexec.Parallelism(parallelism))
	}
	return errors.Wrap(d.tf.Apply(ctx, applyOpts...), "terraform apply failed")
}

func (d *Driver) Destroy(ctx context.Context, varFile string, parallelism int) error {
	destroyOpts := []tfexec.DestroyOption{tfexec.VarFile(varFile)}
	if parallelism > 0 {
		destroyOpts = append(destroyOpts, tfexec.Parallelism(parallelism))
	}
	return errors.Wrap(d.tf.Destroy(ctx, destroyOpts...), "terraform destroy failed")
}

func (d *Driver) Outputs(ctx context.Context) (*Outputs, error) {
	meta, err := d.tf.Output(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "terraform output failed")
	}
	return FromOutputMeta(meta)
}
