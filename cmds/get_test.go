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
package cmds

import (
	"bytes"
	"strings"
	"testing"

	"github.com/onsi/gomega"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	api "pharmer.dev/rke2az/apis/v1alpha1"
	"pharmer.dev/rke2az/cmds/options"
	"pharmer.dev/rke2az/store"
	"pharmer.dev/rke2az/store/providers/fake"
)

func TestRunGetDeployment(t *testing.T) {
	type args struct {
		deploymentStore store.DeploymentStore
		opts            *options.DeploymentGetConfig
	}
	create := func(t *testing.T, a args) {
		g := gomega.NewGomegaWithT(t)
		_, err := a.deploymentStore.Create(&api.Deployment{
			ObjectMeta: metav1.ObjectMeta{Name: "dev"},
			Spec: api.DeploymentSpec{
				ResourceGroup: "rg-rke2-dev",
				Location:      "eastus",
				VMCount:       3,
			},
			Status: api.DeploymentStatus{Phase: api.DeploymentReady},
		})
		g.Expect(err).NotTo(gomega.HaveOccurred())
	}
	tests := []struct {
		name       string
		args       args
		wantOut    []string
		wantErr    bool
		beforeTest func(t *testing.T, a args)
	}{
		{
			name: "doesn't exist",
			args: args{
				deploymentStore: fake.New().Deployments(),
				opts:            &options.DeploymentGetConfig{Deployments: []string{"prod"}},
			},
			wantErr: true,
		},
		{
			name: "table",
			args: args{
				deploymentStore: fake.New().Deployments(),
				opts:            &options.DeploymentGetConfig{},
			},
			wantOut:    []string{"NAME", "dev", "rg-rke2-dev", "Ready"},
			beforeTest: create,
		},
		{
			name: "json",
			args: args{
				deploymentStore: fake.New().Deployments(),
				opts:            &options.DeploymentGetConfig{Deployments: []string{"dev"}, Output: "json"},
			},
			wantOut:    []string{`"name": "dev"`, `"vmCount": 3`},
			beforeTest: create,
		},
		{
			name: "unknown format",
			args: args{
				deploymentStore: fake.New().Deployments(),
				opts:            &options.DeploymentGetConfig{Output: "xml"},
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.beforeTest != nil {
				tt.beforeTest(t, tt.args)
			}
			out := &bytes.Buffer{}
			if err := runGetDeployment(tt.args.deploymentStore, tt.args.opts, out); (err != nil) != tt.wantErr {
				t.Errorf("runGetDeployment() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			for _, want := range tt.wantOut {
				if !strings.Contains(out.String(), want) {
					t.Errorf("runGetDeployment() output %q does not contain %q", out.String(), want)
				}
			}
		})
	}
}

func TestRunDescribeDeployment(t *testing.T) {
	g := gomega.NewGomegaWithT(t)
	deployments := fake.New().Deployments()
	for _, name := range []string{"dev", "qa"} {
		_, err := deployments.Create(&api.Deployment{
			ObjectMeta: metav1.ObjectMeta{Name: name},
			Spec:       api.DeploymentSpec{ResourceGroup: "rg-rke2-" + name},
		})
		g.Expect(err).NotTo(gomega.HaveOccurred())
	}

	out := &bytes.Buffer{}
	g.Expect(runDescribeDeployment(deployments, []string{"dev", "qa"}, out)).To(gomega.Succeed())
	g.Expect(out.String()).To(gomega.ContainSubstring("rg-rke2-dev"))
	g.Expect(out.String()).To(gomega.ContainSubstring("rg-rke2-qa"))

	g.Expect(runDescribeDeployment(deployments, []string{"prod"}, &bytes.Buffer{})).NotTo(gomega.Succeed())
}
