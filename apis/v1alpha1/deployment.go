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
package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	ResourceKindDeployment = "Deployment"
	ResourceNameDeployment = "deployment"
	ResourceTypeDeployment = "deployments"
)

type DeploymentPhase string

const (
	DeploymentPending      DeploymentPhase = "Pending"
	DeploymentProvisioning DeploymentPhase = "Provisioning"
	DeploymentConfiguring  DeploymentPhase = "Configuring"
	DeploymentReady        DeploymentPhase = "Ready"
	DeploymentFailed       DeploymentPhase = "Failed"
	DeploymentDeleting     DeploymentPhase = "Deleting"
	DeploymentDeleted      DeploymentPhase = "Deleted"
)

// Deployment records one environment provisioned by rke2az. The object name
// is the environment name.
type Deployment struct {
	metav1.TypeMeta   `json:",inline,omitempty"`
	metav1.ObjectMeta `json:"metadata,omitempty"`
	Spec              DeploymentSpec   `json:"spec,omitempty"`
	Status            DeploymentStatus `json:"status,omitempty"`
}

type DeploymentSpec struct {
	ResourceGroup string `json:"resourceGroup"`
	Location      string `json:"location"`
	ProjectName   string `json:"projectName"`
	VMCount       int    `json:"vmCount"`
	AdminUsername string `json:"adminUsername"`
	// SubscriptionID is kept so `status` can query ARM without reloading .env.
	SubscriptionID string `json:"subscriptionID,omitempty"`
}

type DeploymentStatus struct {
	Phase        DeploymentPhase `json:"phase,omitempty"`
	Reason       string          `json:"reason,omitempty"`
	ControlPlane *NodeInfo       `json:"controlPlane,omitempty"`
	Workers      []NodeInfo      `json:"workers,omitempty"`
	LastUpdate   metav1.Time     `json:"lastUpdate,omitempty"`
}

type NodeInfo struct {
	Name      string `json:"name"`
	PublicIP  string `json:"publicIP,omitempty"`
	PrivateIP string `json:"privateIP,omitempty"`
}

func (d *Deployment) SetPhase(phase DeploymentPhase, reason string) {
	d.Status.Phase = phase
	d.Status.Reason = reason
	d.Status.LastUpdate = metav1.Now()
}

func (d *Deployment) IsTerminal() bool {
	switch d.Status.Phase {
	case DeploymentReady, DeploymentFailed, DeploymentDeleted:
		return true
	}
	return false
}

// NodeCount counts the recorded nodes, control plane included.
func (d *Deployment) NodeCount() int {
	n := len(d.Status.Workers)
	if d.Status.ControlPlane != nil {
		n++
	}
	return n
}
