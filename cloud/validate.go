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
package cloud

import (
	"context"
	"os"
	"path/filepath"

	"pharmer.dev/rke2az/ansible"
	"pharmer.dev/rke2az/config"
)

type CheckStatus string

const (
	CheckPass CheckStatus = "PASS"
	CheckWarn CheckStatus = "WARN"
	CheckFail CheckStatus = "FAIL"
)

type Check struct {
	Name    string
	Status  CheckStatus
	Message string
}

type Report struct {
	Checks []Check
}

func (r *Report) add(name string, status CheckStatus, msg string) {
	r.Checks = append(r.Checks, Check{Name: name, Status: status, Message: msg})
}

func (r *Report) Count(status CheckStatus) int {
	n := 0
	for _, c := range r.Checks {
		if c.Status == status {
			n++
		}
	}
	return n
}

func (r *Report) Failed() bool {
	return r.Count(CheckFail) > 0
}

var (
	RequiredTools = []string{"terraform", "ansible-playbook"}
	OptionalTools = []string{"ansible", "ansible-inventory", "az", "azd", "ansible-lint", "tflint"}
)

type ValidateOptions struct {
	EnvFile string
	// Remote also checks subscription access and the resource group.
	Remote bool
}

// Validate checks the local setup without changing anything. When the .env
// file resolves, s.Env is set so later checks can use it.
func Validate(ctx context.Context, s *Scope, opts ValidateOptions) *Report {
	r := &Report{}

	for _, tool := range RequiredTools {
		if path, err := s.Runner.LookPath(tool); err != nil {
			r.add("tool "+tool, CheckFail, "not found in PATH")
		} else {
			r.add("tool "+tool, CheckPass, path)
		}
	}
	for _, tool := range OptionalTools {
		if path, err := s.Runner.LookPath(tool); err != nil {
			r.add("tool "+tool, CheckWarn, "not found in PATH (optional)")
		} else {
			r.add("tool "+tool, CheckPass, path)
		}
	}

	validateEnv(r, s, opts.EnvFile)
	validateRepository(r, s)

	if opts.Remote {
		validateRemote(ctx, r, s)
	}
	return r
}

func validateEnv(r *Report, s *Scope, envFile string) {
	f, err := config.LoadFile(envFile)
	if err != nil {
		r.add("env file", CheckFail, err.Error())
		return
	}
	r.add("env file", CheckPass, envFile)

	env, err := config.FromFile(f)
	if err != nil {
		r.add("env variables", CheckFail, err.Error())
		return
	}
	s.Env = env
	if errs := env.Validate(); len(errs) > 0 {
		for _, e := range errs {
			r.add("env variables", CheckFail, e.Error())
		}
	} else {
		r.add("env variables", CheckPass, "all required variables set")
	}

	if _, err := os.Stat(env.SSHPrivateKeyPath); err != nil {
		r.add("ssh private key", CheckFail, env.SSHPrivateKeyPath+" not found")
	} else if _, err := LoadSigner(env.SSHPrivateKeyPath); err != nil {
		r.add("ssh private key", CheckWarn, "cannot be parsed without a passphrase")
	} else {
		r.add("ssh private key", CheckPass, env.SSHPrivateKeyPath)
	}
}

func validateRepository(r *Report, s *Scope) {
	if matches, _ := filepath.Glob(filepath.Join(s.Paths.TerraformDir, "*.tf")); len(matches) == 0 {
		r.add("terraform config", CheckFail, "no *.tf files in "+s.Paths.TerraformDir)
	} else {
		r.add("terraform config", CheckPass, s.Paths.TerraformDir)
	}

	if _, err := os.Stat(s.Paths.Playbook); err != nil {
		r.add("ansible playbook", CheckFail, s.Paths.Playbook+" not found")
	} else {
		r.add("ansible playbook", CheckPass, s.Paths.Playbook)
	}

	cfg, err := ansible.LoadConfig(s.Paths.AnsibleConfig)
	if err != nil {
		r.add("ansible.cfg", CheckWarn, s.Paths.AnsibleConfig+" not readable")
		return
	}
	var inv *ansible.Inventory
	if existing, err := ansible.ReadInventory(s.Paths.Inventory); err == nil {
		inv = existing
	}
	warnings := cfg.Check(s.Paths.Inventory, inv)
	for _, w := range warnings {
		r.add("ansible.cfg", CheckWarn, w)
	}
	if len(warnings) == 0 {
		r.add("ansible.cfg", CheckPass, s.Paths.AnsibleConfig)
	}
}

func validateRemote(ctx context.Context, r *Report, s *Scope) {
	if s.Env == nil {
		r.add("azure subscription", CheckFail, "environment not loaded")
		return
	}
	az, err := s.GetAzure(ctx)
	if err != nil {
		r.add("azure subscription", CheckFail, err.Error())
		return
	}
	name, err := az.CheckSubscription(ctx)
	if err != nil {
		r.add("azure subscription", CheckFail, err.Error())
		return
	}
	r.add("azure subscription", CheckPass, name)

	exists, err := az.ResourceGroupExists(ctx, s.Env.ResourceGroup)
	switch {
	case err != nil:
		r.add("resource group", CheckWarn, err.Error())
	case exists:
		r.add("resource group", CheckPass, s.Env.ResourceGroup+" exists")
	default:
		r.add("resource group", CheckPass, s.Env.ResourceGroup+" does not exist yet")
	}
}
