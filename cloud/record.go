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
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"pharmer.dev/rke2az/ansible"
	api "pharmer.dev/rke2az/apis/v1alpha1"
	"pharmer.dev/rke2az/config"
	"pharmer.dev/rke2az/store"
)

// ValidateEnvironment returns every format problem of env as one error.
func ValidateEnvironment(env *config.Environment) error {
	return utilerrors.NewAggregate(env.Validate())
}

func NewDeployment(env *config.Environment) *api.Deployment {
	return &api.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name: env.Environment,
			Labels: map[string]string{
				"rke2az.pharmer.dev/project": env.ProjectName,
			},
		},
		Spec: api.DeploymentSpec{
			ResourceGroup:  env.ResourceGroup,
			Location:       env.Location,
			ProjectName:    env.ProjectName,
			VMCount:        env.VMCount,
			AdminUsername:  env.AdminUsername,
			SubscriptionID: env.SubscriptionID,
		},
	}
}

// record sets the phase and persists the deployment. The record is
// bookkeeping: store failures are logged and the flow goes on.
func (s *Scope) record(d *api.Deployment, phase api.DeploymentPhase, reason string) {
	d.SetPhase(phase, reason)
	if s.StoreProvider == nil {
		return
	}
	var err error
	if d.UID == "" {
		_, err = store.Apply(s.StoreProvider.Deployments(), d)
	} else {
		_, err = s.StoreProvider.Deployments().UpdateStatus(d)
	}
	if err != nil {
		s.Logger.Error(err, "failed to record deployment", "phase", phase)
	}
}

// loadDeployment returns the stored record for the environment, or a new one.
func (s *Scope) loadDeployment() *api.Deployment {
	if s.StoreProvider != nil {
		if d, err := s.StoreProvider.Deployments().Get(s.Env.Environment); err == nil {
			return d
		} else if !store.IsNotFound(err) {
			s.Logger.Error(err, "failed to read deployment record")
		}
	}
	return NewDeployment(s.Env)
}

func setNodes(d *api.Deployment, inv *ansible.Inventory) {
	d.Status.ControlPlane = nil
	d.Status.Workers = nil
	for _, h := range inv.ControlPlane {
		d.Status.ControlPlane = &api.NodeInfo{Name: h.Name, PublicIP: h.AnsibleHost, PrivateIP: h.PrivateIP}
	}
	for _, h := range inv.Workers {
		d.Status.Workers = append(d.Status.Workers, api.NodeInfo{Name: h.Name, PublicIP: h.AnsibleHost, PrivateIP: h.PrivateIP})
	}
}
