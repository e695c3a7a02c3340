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
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
	"pharmer.dev/rke2az/ansible"
	"pharmer.dev/rke2az/cloud/azure"
	"pharmer.dev/rke2az/config"
	"pharmer.dev/rke2az/store"
	"pharmer.dev/rke2az/terraform"
	"pharmer.dev/rke2az/utils/exec"
)

const (
	DefaultPlaybook  = "playbooks/site.yml"
	DefaultStateFile = "terraform.tfstate"
)

// Paths are the repository files the tool reads and generates.
type Paths struct {
	Root          string
	TerraformDir  string
	AnsibleDir    string
	Inventory     string
	TFVars        string
	State         string
	Playbook      string
	AnsibleConfig string
}

func NewPaths(root string) Paths {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	tfDir := filepath.Join(root, "terraform")
	ansibleDir := filepath.Join(root, "ansible")
	return Paths{
		Root:          root,
		TerraformDir:  tfDir,
		AnsibleDir:    ansibleDir,
		Inventory:     filepath.Join(ansibleDir, "inventory", "hosts.yml"),
		TFVars:        filepath.Join(tfDir, terraform.VarsFileName),
		State:         filepath.Join(tfDir, DefaultStateFile),
		Playbook:      filepath.Join(ansibleDir, DefaultPlaybook),
		AnsibleConfig: filepath.Join(ansibleDir, ansible.ConfigFileName),
	}
}

// Resolve joins a relative path onto Root.
func (p Paths) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.Root, path)
}

// AzureInterface is the part of the ARM connector the flows use.
type AzureInterface interface {
	CheckSubscription(ctx context.Context) (string, error)
	ResourceGroupExists(ctx context.Context, name string) (bool, error)
	ListVirtualMachines(ctx context.Context, resourceGroup string) ([]azure.VirtualMachine, error)
	DeleteResourceGroup(ctx context.Context, name string) error
}

var _ AzureInterface = &azure.Connector{}

type Scope struct {
	Env           *config.Environment
	Paths         Paths
	Runner        exec.Runner
	Terraform     terraform.Interface
	Ansible       ansible.Interface
	Azure         AzureInterface
	StoreProvider store.Interface
	SSHChecker    SSHChecker
	logr.Logger
}

type NewScopeParams struct {
	Env           *config.Environment
	Paths         Paths
	Runner        exec.Runner
	StoreProvider store.Interface
	Logger        logr.Logger
}

func NewScope(params NewScopeParams) *Scope {
	if params.Logger.GetSink() == nil {
		params.Logger = klog.NewKlogr()
		if params.Env != nil {
			params.Logger = params.Logger.WithValues("environment", params.Env.Environment)
		}
	}
	if params.Runner == nil {
		params.Runner = exec.New()
	}
	return &Scope{
		Env:           params.Env,
		Paths:         params.Paths,
		Runner:        params.Runner,
		StoreProvider: params.StoreProvider,
		Logger:        params.Logger,
	}
}

func (s *Scope) GetTerraform() (terraform.Interface, error) {
	if s.Terraform != nil {
		return s.Terraform, nil
	}
	tf, err := terraform.NewDriver(s.Runner, s.Paths.TerraformDir, terraform.Options{})
	if err != nil {
		return nil, err
	}
	s.Terraform = tf
	return tf, nil
}

func (s *Scope) GetAnsible() ansible.Interface {
	if s.Ansible == nil {
		s.Ansible = ansible.NewDriver(s.Runner, s.Paths.AnsibleDir)
	}
	return s.Ansible
}

func (s *Scope) GetAzure(ctx context.Context) (AzureInterface, error) {
	if s.Azure != nil {
		return s.Azure, nil
	}
	if s.Env == nil {
		return nil, errors.New("azure connector needs a loaded environment")
	}
	conn, err := azure.NewConnector(ctx, azure.CredentialFromEnv(s.Env))
	if err != nil {
		return nil, err
	}
	s.Azure = conn
	return conn, nil
}

func (s *Scope) GetSSHChecker() (SSHChecker, error) {
	if s.SSHChecker != nil {
		return s.SSHChecker, nil
	}
	signer, err := LoadSigner(s.Env.SSHPrivateKeyPath)
	if err != nil {
		return nil, err
	}
	s.SSHChecker = NewSSHChecker(s.Env.AdminUsername, signer)
	return s.SSHChecker, nil
}
