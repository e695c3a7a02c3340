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
package describer

import (
	"strings"
	"testing"

	"github.com/onsi/gomega"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	api "pharmer.dev/rke2az/apis/v1alpha1"
)

func TestDescribeDeployment(t *testing.T) {
	tests := []struct {
		name     string
		obj      *api.Deployment
		contains []string
	}{
		{
			name: "provisioned",
			obj: &api.Deployment{
				ObjectMeta: metav1.ObjectMeta{Name: "dev"},
				Spec:       api.DeploymentSpec{ResourceGroup: "rg-rke2-dev", Location: "eastus", VMCount: 2},
				Status: api.DeploymentStatus{
					Phase:        api.DeploymentReady,
					ControlPlane: &api.NodeInfo{Name: "vm-0", PublicIP: "20.1.2.3", PrivateIP: "10.0.1.4"},
					Workers:      []api.NodeInfo{{Name: "vm-1", PrivateIP: "10.0.1.5"}},
				},
			},
			contains: []string{"Name:", "dev", "rg-rke2-dev", "Ready", "vm-0", "server", "vm-1", "agent", "<none>"},
		},
		{
			name: "failed without nodes",
			obj: &api.Deployment{
				ObjectMeta: metav1.ObjectMeta{Name: "qa"},
				Status:     api.DeploymentStatus{Phase: api.DeploymentFailed, Reason: "terraform apply failed"},
			},
			contains: []string{"Reason:", "terraform apply failed", "No Nodes.", "<unknown>"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gomega.NewGomegaWithT(t)
			out, err := NewDescriber().Describe(tt.obj)
			g.Expect(err).NotTo(gomega.HaveOccurred())
			for _, s := range tt.contains {
				g.Expect(out).To(gomega.ContainSubstring(s))
			}
			g.Expect(strings.Contains(out, "Reason:")).To(gomega.Equal(tt.obj.Status.Reason != ""))
		})
	}
}

func TestDescribeUnsupported(t *testing.T) {
	g := gomega.NewGomegaWithT(t)
	_, err := NewDescriber().Describe(&metav1.Status{})
	g.Expect(err).To(gomega.HaveOccurred())
}
