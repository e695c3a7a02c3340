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

	"github.com/pkg/errors"
	api "pharmer.dev/rke2az/apis/v1alpha1"
	"pharmer.dev/rke2az/terraform"
)

type DestroyOptions struct {
	Parallelism int
	// KeepFiles leaves the generated inventory and tfvars in place.
	KeepFiles bool
	// PurgeResourceGroup deletes the resource group through ARM after
	// terraform destroy, catching resources created outside terraform.
	PurgeResourceGroup bool
}

func Destroy(ctx context.Context, s *Scope, opts DestroyOptions) error {
	log := s.Logger
	deployment := s.loadDeployment()
	s.record(deployment, api.DeploymentDeleting, "")

	if err := destroy(ctx, s, opts); err != nil {
		log.Error(err, "destroy failed")
		s.record(deployment, api.DeploymentFailed, err.Error())
		return err
	}
	deployment.Status.ControlPlane = nil
	deployment.Status.Workers = nil
	s.record(deployment, api.DeploymentDeleted, "")
	log.Info("environment destroyed", "resourceGroup", s.Env.ResourceGroup)
	return nil
}

func destroy(ctx context.Context, s *Scope, opts DestroyOptions) error {
	log := s.Logger
	if err := s.Env.ExportTerraformEnv(nil); err != nil {
		return err
	}
	// destroy needs the same variables apply was given
	if err := terraform.NewVars(s.Env).Write(s.Paths.TFVars); err != nil {
		return err
	}
	tf, err := s.GetTerraform()
	if err != nil {
		return err
	}
	if err := tf.Init(ctx); err != nil {
		return err
	}
	if err := tf.Destroy(ctx, s.Paths.TFVars, opts.Parallelism); err != nil {
		return err
	}

	if opts.PurgeResourceGroup {
		az, err := s.GetAzure(ctx)
		if err != nil {
			return err
		}
		exists, err := az.ResourceGroupExists(ctx, s.Env.ResourceGroup)
		if err != nil {
			return err
		}
		if exists {
			log.Info("deleting resource group", "resourceGroup", s.Env.ResourceGroup)
			if err := az.DeleteResourceGroup(ctx, s.Env.ResourceGroup); err != nil {
				return err
			}
		}
	}

	if !opts.KeepFiles {
		for _, path := range []string{s.Paths.Inventory, s.Paths.TFVars} {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return errors.Wrapf(err, "failed to remove %s", path)
			}
			log.V(1).Info("removed generated file", "path", path)
		}
	}
	return nil
}
