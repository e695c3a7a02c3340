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
	"bytes"
	"context"
	"io"
	"os"
	osexec "os/exec"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Command describes one invocation of an external tool.
type Command struct {
	Name string
	Args []string
	Dir  string

	Stdout io.Writer
	Stderr io.Writer

	// Secret hides the arguments in logs and errors.
	Secret bool
}

func (c Command) String() string {
	if c.Secret {
		return c.Name + " [redacted]"
	}
	return c.line()
}

func (c Command) line() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Runner runs external tools. Everything in this module shells out through a
// Runner so tests can substitute a fake.
type Runner interface {
	LookPath(name string) (string, error)
	// Run streams the tool output to the command writers (os.Stdout/os.Stderr
	// when unset) and returns the exit error, if any.
	Run(ctx context.Context, cmd Command) error
	// Output captures stdout. Stderr is attached to the returned error.
	Output(ctx context.Context, cmd Command) ([]byte, error)
}

type NotFoundError struct {
	Name string
}

func (e NotFoundError) Error() string {
	return e.Name + " not found in PATH"
}

func IsNotFound(err error) bool {
	_, ok := errors.Cause(err).(NotFoundError)
	return ok
}

type ExitError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e ExitError) Error() string {
	msg := e.Command + " exited with code " + strconv.Itoa(e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + strings.TrimSpace(e.Stderr)
	}
	return msg
}

type osRunner struct{}

var _ Runner = osRunner{}

func New() Runner {
	return osRunner{}
}

func (osRunner) LookPath(name string) (string, error) {
	p, err := osexec.LookPath(name)
	if err != nil {
		return "", NotFoundError{Name: name}
	}
	return p, nil
}

func (r osRunner) Run(ctx context.Context, cmd Command) error {
	c, err := r.command(ctx, cmd)
	if err != nil {
		return err
	}
	c.Stdout = cmd.Stdout
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	c.Stderr = cmd.Stderr
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}
	c.Stdin = os.Stdin
	return wrapExit(cmd, c.Run(), "")
}

func (r osRunner) Output(ctx context.Context, cmd Command) ([]byte, error) {
	c, err := r.command(ctx, cmd)
	if err != nil {
		return nil, err
	}
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	err = c.Run()
	return stdout.Bytes(), wrapExit(cmd, err, stderr.String())
}

func (r osRunner) command(ctx context.Context, cmd Command) (*osexec.Cmd, error) {
	path, err := r.LookPath(cmd.Name)
	if err != nil {
		return nil, err
	}
	c := osexec.CommandContext(ctx, path, cmd.Args...)
	c.Dir = cmd.Dir
	return c, nil
}

func wrapExit(cmd Command, err error, stderr string) error {
	if err == nil {
		return nil
	}
	if ee, ok := err.(*osexec.ExitError); ok {
		return ExitError{Command: cmd.String(), ExitCode: ee.ExitCode(), Stderr: stderr}
	}
	return errors.Wrapf(err, "failed to run %s", cmd.String())
}
