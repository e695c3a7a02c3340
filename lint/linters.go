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
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/util/sets"
	"pharmer.dev/rke2az/terraform"
	"pharmer.dev/rke2az/utils/exec"
)

type Status string

const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
	StatusSkip Status = "SKIP"
)

const (
	TerraformFmt      = "terraform-fmt"
	TerraformValidate = "terraform-validate"
	AnsibleLint       = "ansible-lint"
	ShellCheck        = "shellcheck"
	YAMLLint          = "yamllint"
	Gitleaks          = "gitleaks"
	Security          = "security"
	Trivy             = "trivy"
	Markdown          = "markdown"

	maxIssuesPerFile = 5
)

// Names lists every check in the order RunChecks runs them.
var Names = []string{TerraformFmt, TerraformValidate, AnsibleLint, ShellCheck, YAMLLint, Gitleaks, Security, Trivy, Markdown}

type Result struct {
	Name    string
	Tool    string
	Status  Status
	Message string
}

// TerraformChecker is what the terraform checks need from the driver.
type TerraformChecker interface {
	Init(ctx context.Context) error
	Validate(ctx context.Context) error
	FormatCheck(ctx context.Context) ([]string, error)
}

type Options struct {
	Root   string
	Runner exec.Runner
	// Only limits the run to the named checks; empty runs all of them.
	Only         sets.String
	SkipMarkdown bool
	Out          io.Writer
	// Terraform opens the terraform directory. It defaults to the
	// terraform-exec driver without a backend.
	Terraform func(dir string) (TerraformChecker, error)
	Logger    logr.Logger
}

type checker struct {
	Options
	tfDir string
}

type check struct {
	name  string
	tools []string
	run   func(ctx context.Context, c *checker, tool string) (string, error)
}

var checks = []check{
	{name: TerraformFmt, tools: []string{"terraform"}, run: runTerraformFmt},
	{name: TerraformValidate, tools: []string{"terraform"}, run: runTerraformValidate},
	{name: AnsibleLint, tools: []string{"ansible-lint"}, run: runAnsibleLint},
	{name: ShellCheck, tools: []string{"shellcheck"}, run: runShellCheck},
	{name: YAMLLint, tools: []string{"yamllint"}, run: runYAMLLint},
	{name: Gitleaks, tools: []string{"gitleaks"}, run: runGitleaks},
	{name: Security, tools: []string{"tfsec", "checkov"}, run: runSecurity},
	{name: Trivy, tools: []string{"trivy"}, run: runTrivy},
	{name: Markdown, run: runMarkdown},
}

// RunChecks runs every selected check whose tool is installed. Missing tools
// are skipped; a failing tool does not stop the others.
func RunChecks(ctx context.Context, opts Options) []Result {
	if opts.Runner == nil {
		opts.Runner = exec.New()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Terraform == nil {
		runner := opts.Runner
		opts.Terraform = func(dir string) (TerraformChecker, error) {
			return terraform.NewDriver(runner, dir, terraform.Options{Stdout: opts.Out, Stderr: opts.Out, NoBackend: true})
		}
	}
	c := &checker{Options: opts, tfDir: filepath.Join(opts.Root, "terraform")}

	var results []Result
	for _, chk := range checks {
		if opts.Only.Len() > 0 && !opts.Only.Has(chk.name) {
			continue
		}
		if chk.name == Markdown && opts.SkipMarkdown {
			continue
		}
		results = append(results, c.run(ctx, chk))
	}
	return results
}

func (c *checker) run(ctx context.Context, chk check) Result {
	r := Result{Name: chk.name, Status: StatusSkip}
	if len(chk.tools) > 0 {
		for _, tool := range chk.tools {
			if _, err := c.Runner.LookPath(tool); err == nil {
				r.Tool = tool
				break
			}
		}
		if r.Tool == "" {
			r.Message = strings.Join(chk.tools, " or ") + " not installed"
			if c.Logger.GetSink() != nil {
				c.Logger.Info("skipping check", "check", chk.name, "reason", r.Message)
			}
			return r
		}
	}
	fmt.Fprintf(c.Out, "==> %s\n", chk.name)
	msg, err := chk.run(ctx, c, r.Tool)
	if err != nil {
		r.Status = StatusFail
		r.Message = err.Error()
		return r
	}
	r.Status = StatusPass
	r.Message = msg
	return r
}

// Failed reports whether any result failed.
func Failed(results []Result) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return true
		}
	}
	return false
}

func (c *checker) exec(ctx context.Context, name string, args ...string) error {
	return c.Runner.Run(ctx, exec.Command{
		Name:   name,
		Args:   args,
		Dir:    c.Root,
		Stdout: c.Out,
		Stderr: c.Out,
	})
}

func runTerraformFmt(ctx context.Context, c *checker, _ string) (string, error) {
	tf, err := c.Terraform(c.tfDir)
	if err != nil {
		return "", err
	}
	files, err := tf.FormatCheck(ctx)
	if err != nil {
		return "", err
	}
	if len(files) > 0 {
		return "", errors.Errorf("not formatted: %s", strings.Join(files, ", "))
	}
	return "all files formatted", nil
}

func runTerraformValidate(ctx context.Context, c *checker, _ string) (string, error) {
	tf, err := c.Terraform(c.tfDir)
	if err != nil {
		return "", err
	}
	if err := tf.Init(ctx); err != nil {
		return "", err
	}
	if err := tf.Validate(ctx); err != nil {
		return "", err
	}
	return "configuration is valid", nil
}

func runAnsibleLint(ctx context.Context, c *checker, tool string) (string, error) {
	return "", c.exec(ctx, tool, "ansible")
}

func runShellCheck(ctx context.Context, c *checker, tool string) (string, error) {
	scripts, err := FindFiles(c.Root, "*.sh")
	if err != nil {
		return "", err
	}
	if len(scripts) == 0 {
		return "no shell scripts", nil
	}
	args := make([]string, 0, len(scripts))
	for _, s := range scripts {
		if rel, err := filepath.Rel(c.Root, s); err == nil {
			s = rel
		}
		args = append(args, s)
	}
	return fmt.Sprintf("%d scripts", len(scripts)), c.exec(ctx, tool, args...)
}

func runYAMLLint(ctx context.Context, c *checker, tool string) (string, error) {
	return "", c.exec(ctx, tool, ".")
}

func runGitleaks(ctx context.Context, c *checker, tool string) (string, error) {
	return "", c.exec(ctx, tool, "detect", "--no-banner", "--source", ".")
}

func runSecurity(ctx context.Context, c *checker, tool string) (string, error) {
	if tool == "checkov" {
		return "", c.exec(ctx, tool, "-d", "terraform", "--quiet")
	}
	return "", c.exec(ctx, tool, "terraform")
}

func runTrivy(ctx context.Context, c *checker, tool string) (string, error) {
	return "", c.exec(ctx, tool, "config", "--exit-code", "1", ".")
}

func runMarkdown(ctx context.Context, c *checker, _ string) (string, error) {
	files, err := FindFiles(c.Root, "*.md")
	if err != nil {
		return "", err
	}
	total := 0
	for _, f := range files {
		issues, err := CheckMarkdownFile(f)
		if err != nil {
			return "", err
		}
		if len(issues) == 0 {
			continue
		}
		total += len(issues)
		rel := f
		if r, err := filepath.Rel(c.Root, f); err == nil {
			rel = r
		}
		fmt.Fprintf(c.Out, "%s (%d issues):\n", rel, len(issues))
		for i, issue := range issues {
			if i == maxIssuesPerFile {
				fmt.Fprintf(c.Out, "  ... and %d more\n", len(issues)-maxIssuesPerFile)
				break
			}
			issue.File = ""
			fmt.Fprintf(c.Out, "  %s\n", issue)
		}
	}
	if total > 0 {
		return "", errors.Errorf("%d issues across %d files", total, len(files))
	}
	return fmt.Sprintf("%d files checked", len(files)), nil
}
