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

	"github.com/pkg/errors"
	"pharmer.dev/rke2az/ansible"
	api "pharmer.dev/rke2az/apis/v1alpha1"
	"pharmer.dev/rke2az/terraform"
)

// PreProvision runs before azd provisions the infrastructure: the environment
// must be valid and the tfvars file current.
func PreProvision(ctx context.Context, s *Scope) error {
	if err := ValidateEnvironment(s.Env); err != nil {
		return errors.Wrap(err, "invalid environment")
	}
	if err := s.Env.ExportTerraformEnv(nil); err != nil {
		return err
	}
	if err := terraform.NewVars(s.Env).Write(s.Paths.TFVars); err != nil {
		return err
	}
	s.Logger.Info("preprovision complete", "tfvars", s.Paths.TFVars)
	return nil
}

type PostProvisionOptions struct {
	// FromTerraform reads outputs with `terraform output` instead of the
	// local state file.
	FromTerraform bool
}

// PostProvision turns the terraform outputs into the ansible inventory. The
// inventory graph and ping checks that follow only log their failures.
func PostProvision(ctx context.Context, s *Scope, opts PostProvisionOptions) (*ansible.Inventory, error) {
	log := s.Logger
	out, err := ReadOutputs(ctx, s, opts.FromTerraform)
	if err != nil {
		return nil, err
	}
	inv, err := writeInventory(s, out)
	if err != nil {
		return nil, err
	}
	deployment := s.loadDeployment()
	setNodes(deployment, inv)
	s.record(deployment, api.DeploymentConfiguring, "")

	a := s.GetAnsible()
	if err := a.Graph(ctx, s.Paths.Inventory); err != nil {
		log.Error(err, "inventory graph failed, continuing")
	}
	if err := a.Ping(ctx, s.Paths.Inventory); err != nil {
		log.Error(err, "ping failed, hosts may still be booting")
	}
	return inv, nil
}

func ReadOutputs(ctx context.Context, s *Scope, fromTerraform bool) (*terraform.Outputs, error) {
	if !fromTerraform {
		return terraform.ReadStateFile(s.Paths.State)
	}
	tf, err := s.GetTerraform()
	if err != nil {
		return nil, err
	}
	return tf.Outputs(ctx)
}
