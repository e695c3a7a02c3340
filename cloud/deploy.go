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
	"time"

	"github.com/pkg/errors"
	"pharmer.dev/rke2az/ansible"
	api "pharmer.dev/rke2az/apis/v1alpha1"
	"pharmer.dev/rke2az/terraform"
)

type DeployOptions struct {
	SkipTerraform bool
	SkipAnsible   bool
	Parallelism   int
	Forks         int
	Limit         string
	Tags          []string
	Verbose       int
	// SSHTimeout bounds the wait for each host before ansible runs. Zero
	// skips the wait.
	SSHTimeout time.Duration
}

// Deploy provisions the infrastructure and configures the nodes. It stops at
// the first failing step and records the deployment as Failed.
func Deploy(ctx context.Context, s *Scope, opts DeployOptions) (*api.Deployment, error) {
	log := s.Logger
	if err := ValidateEnvironment(s.Env); err != nil {
		return nil, errors.Wrap(err, "invalid environment")
	}

	deployment := NewDeployment(s.Env)
	s.record(deployment, api.DeploymentProvisioning, "")
	if err := deploy(ctx, s, opts, deployment); err != nil {
		log.Error(err, "deployment failed")
		s.record(deployment, api.DeploymentFailed, err.Error())
		return deployment, err
	}
	s.record(deployment, api.DeploymentReady, "")
	log.Info("deployment is ready", "controlPlane", deployment.Status.ControlPlane.PublicIP, "workers", len(deployment.Status.Workers))
	return deployment, nil
}

func deploy(ctx context.Context, s *Scope, opts DeployOptions, deployment *api.Deployment) error {
	log := s.Logger
	if err := s.Env.ExportTerraformEnv(nil); err != nil {
		return err
	}
	if err := terraform.NewVars(s.Env).Write(s.Paths.TFVars); err != nil {
		return err
	}
	log.Info("wrote terraform variables", "path", s.Paths.TFVars)

	var out *terraform.Outputs
	var err error
	if opts.SkipTerraform {
		log.Info("skipping terraform, reading existing state", "path", s.Paths.State)
		out, err = terraform.ReadStateFile(s.Paths.State)
	} else {
		out, err = provision(ctx, s, opts.Parallelism)
	}
	if err != nil {
		return err
	}

	inv, err := writeInventory(s, out)
	if err != nil {
		return err
	}
	setNodes(deployment, inv)
	s.record(deployment, api.DeploymentConfiguring, "")

	if opts.SkipAnsible {
		log.Info("skipping ansible")
		return nil
	}
	if opts.SSHTimeout > 0 {
		check, err := s.GetSSHChecker()
		if err != nil {
			return err
		}
		hosts := make([]string, 0, deployment.NodeCount())
		for _, h := range inv.Hosts() {
			hosts = append(hosts, h.AnsibleHost)
		}
		log.Info("waiting for ssh", "hosts", len(hosts), "timeout", opts.SSHTimeout.String())
		if err := WaitForSSH(ctx, log, hosts, check, SSHRetryInterval, opts.SSHTimeout); err != nil {
			return err
		}
	}
	log.Info("running ansible playbook", "playbook", s.Paths.Playbook)
	return s.GetAnsible().Playbook(ctx, ansible.PlaybookOptions{
		Inventory: s.Paths.Inventory,
		Playbook:  s.Paths.Playbook,
		Forks:     opts.Forks,
		Limit:     opts.Limit,
		Tags:      opts.Tags,
		Verbose:   opts.Verbose,
	})
}

func provision(ctx context.Context, s *Scope, parallelism int) (*terraform.Outputs, error) {
	tf, err := s.GetTerraform()
	if err != nil {
		return nil, err
	}
	s.Logger.Info("running terraform", "dir", s.Paths.TerraformDir)
	if err := tf.Init(ctx); err != nil {
		return nil, err
	}
	if err := tf.Apply(ctx, s.Paths.TFVars, parallelism); err != nil {
		return nil, err
	}
	return tf.Outputs(ctx)
}

func writeInventory(s *Scope, out *terraform.Outputs) (*ansible.Inventory, error) {
	inv, err := ansible.NewInventory(out, ansible.InventoryOptions{PrivateKeyFile: s.Env.SSHPrivateKeyPath})
	if err != nil {
		return nil, errors.Wrap(err, "terraform outputs cannot produce an inventory")
	}
	if err := inv.Write(s.Paths.Inventory); err != nil {
		return nil, err
	}
	s.Logger.Info("wrote ansible inventory", "path", s.Paths.Inventory, "workers", len(inv.Workers))
	return inv, nil
}
