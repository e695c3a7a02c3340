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
	api "pharmer.dev/rke2az/apis/v1alpha1"
	"pharmer.dev/rke2az/cloud/azure"
	"pharmer.dev/rke2az/store"
)

type StatusReport struct {
	// Deployment is nil when nothing was recorded for the environment.
	Deployment      *api.Deployment
	ResourceGroup   string
	GroupExists     bool
	VirtualMachines []azure.VirtualMachine
	// RemoteError is set when the live state could not be read.
	RemoteError error
}

// Status returns the stored record of the environment and, when remote is
// set, the virtual machines Azure reports for its resource group. Failing to
// reach Azure is reported in the result, not returned.
func Status(ctx context.Context, s *Scope, remote bool) (*StatusReport, error) {
	r := &StatusReport{ResourceGroup: s.Env.ResourceGroup}
	if s.StoreProvider != nil {
		d, err := s.StoreProvider.Deployments().Get(s.Env.Environment)
		switch {
		case err == nil:
			r.Deployment = d
		case !store.IsNotFound(err):
			return nil, err
		}
	}
	if !remote {
		return r, nil
	}

	r.RemoteError = func() error {
		az, err := s.GetAzure(ctx)
		if err != nil {
			return err
		}
		if r.GroupExists, err = az.ResourceGroupExists(ctx, r.ResourceGroup); err != nil || !r.GroupExists {
			return err
		}
		r.VirtualMachines, err = az.ListVirtualMachines(ctx, r.ResourceGroup)
		return errors.Wrapf(err, "failed to list virtual machines in %s", r.ResourceGroup)
	}()
	if r.RemoteError != nil {
		s.Logger.Error(r.RemoteError, "failed to read live state")
	}
	return r, nil
}
