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
package fake_test

import (
	"context"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	api "pharmer.dev/rke2az/apis/v1alpha1"
	"pharmer.dev/rke2az/store"
	"pharmer.dev/rke2az/store/providers/fake"
)

var _ = Describe("Deployment", func() {
	var (
		deployments store.DeploymentStore
		deployment  *api.Deployment
	)

	BeforeEach(func() {
		s, err := store.GetProvider(context.Background(), fake.UID, store.Config{})
		Expect(err).NotTo(HaveOccurred())
		deployments = s.Deployments()
		deployment = &api.Deployment{
			ObjectMeta: metav1.ObjectMeta{Name: "dev"},
			Spec: api.DeploymentSpec{
				ResourceGroup: "rg-rke2-dev",
				Location:      "eastus",
				ProjectName:   "rke2",
				VMCount:       3,
				AdminUsername: "azureuser",
			},
		}
	})

	It("should create, get, update and delete a deployment", func() {
		By("Create deployment")
		d, err := deployments.Create(deployment)
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Kind).Should(Equal(api.ResourceKindDeployment))

		By("Get deployment")
		d, err = deployments.Get("dev")
		Expect(err).NotTo(HaveOccurred())
		Expect(d).Should(Equal(deployment))

		By("Create it again")
		_, err = deployments.Create(deployment)
		Expect(store.IsAlreadyExists(err)).Should(BeTrue())

		By("Update deployment")
		deployment.Spec.VMCount = 5
		_, err = deployments.Update(deployment)
		Expect(err).NotTo(HaveOccurred())
		d, err = deployments.Get("dev")
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Spec.VMCount).Should(Equal(5))

		By("Delete deployment")
		Expect(deployments.Delete("dev")).To(Succeed())
		_, err = deployments.Get("dev")
		Expect(store.IsNotFound(err)).Should(BeTrue())
		Expect(store.IsNotFound(deployments.Delete("dev"))).Should(BeTrue())
	})

	It("should only change the status on UpdateStatus", func() {
		_, err := deployments.Create(deployment)
		Expect(err).NotTo(HaveOccurred())

		update := deployment.DeepCopy()
		update.Spec.Location = "westeurope"
		update.SetPhase(api.DeploymentReady, "")
		update.Status.ControlPlane = &api.NodeInfo{Name: "control-plane-1", PublicIP: "20.0.0.1"}

		d, err := deployments.UpdateStatus(update)
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Spec.Location).Should(Equal("eastus"))
		Expect(d.Status.Phase).Should(Equal(api.DeploymentReady))
		Expect(d.Status.ControlPlane.PublicIP).Should(Equal("20.0.0.1"))
	})

	It("should list deployments by name", func() {
		for _, name := range []string{"prod", "dev", "staging"} {
			d := deployment.DeepCopy()
			d.Name = name
			_, err := deployments.Create(d)
			Expect(err).NotTo(HaveOccurred())
		}
		list, err := deployments.List(metav1.ListOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(list).Should(HaveLen(3))
		Expect(list[0].Name).Should(Equal("dev"))
		Expect(list[2].Name).Should(Equal("staging"))
	})

	It("should apply over an existing record", func() {
		created, err := store.Apply(deployments, deployment)
		Expect(err).NotTo(HaveOccurred())

		again := deployment.DeepCopy()
		again.UID = ""
		again.Spec.VMCount = 1
		applied, err := store.Apply(deployments, again)
		Expect(err).NotTo(HaveOccurred())
		Expect(created.UID).NotTo(BeEmpty())
		Expect(applied.UID).Should(Equal(created.UID))
		Expect(applied.Spec.VMCount).Should(Equal(1))
	})
})
