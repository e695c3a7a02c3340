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
package cloud_test

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	api "pharmer.dev/rke2az/apis/v1alpha1"
	"pharmer.dev/rke2az/cloud"
	"pharmer.dev/rke2az/cloud/azure"
	"pharmer.dev/rke2az/config"
	"pharmer.dev/rke2az/store/providers/fake"
	"pharmer.dev/rke2az/terraform"
	"pharmer.dev/rke2az/utils/exec"
)

const testPublicKey = "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh8g test@rke2az"

const testState = `{
  "version": 4,
  "outputs": {
    "admin_username": {"value": "azureuser"},
    "control_plane_private_ip": {"value": "10.0.1.4"},
    "control_plane_public_ip": {"value": "20.1.2.3"},
    "worker_private_ips": {"value": ["10.0.1.5"]},
    "worker_public_ips": {"value": ["20.1.2.4"]}
  }
}`

func testEnv() *config.Environment {
	vars := map[string]string{
		config.AzureSubscriptionID: "00000000-0000-0000-0000-000000000001",
		config.ARMClientID:         "00000000-0000-0000-0000-000000000002",
		config.ARMClientSecret:     "client-secret",
		config.SSHPublicKey:        testPublicKey,
		config.RKE2Token:           "0123456789abcdef0123",
		config.EnvironmentName:     "test",
	}
	env, err := config.FromLookup(func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	})
	Expect(err).NotTo(HaveOccurred())
	return env
}

func testOutputs() *terraform.Outputs {
	return &terraform.Outputs{
		ControlPlanePublicIP:  "20.1.2.3",
		ControlPlanePrivateIP: "10.0.1.4",
		WorkerPublicIPs:       []string{"20.1.2.4", "20.1.2.5"},
		WorkerPrivateIPs:      []string{"10.0.1.5", "10.0.1.6"},
		AdminUsername:         "azureuser",
	}
}

type fakeAzure struct {
	groups  map[string]bool
	vms     []azure.VirtualMachine
	deleted []string
}

func (f *fakeAzure) CheckSubscription(ctx context.Context) (string, error) {
	return "test subscription", nil
}

func (f *fakeAzure) ResourceGroupExists(ctx context.Context, name string) (bool, error) {
	return f.groups[name], nil
}

func (f *fakeAzure) ListVirtualMachines(ctx context.Context, resourceGroup string) ([]azure.VirtualMachine, error) {
	if !f.groups[resourceGroup] {
		return nil, errors.Errorf("resource group %s not found", resourceGroup)
	}
	return f.vms, nil
}

func (f *fakeAzure) DeleteResourceGroup(ctx context.Context, name string) error {
	f.deleted = append(f.deleted, name)
	delete(f.groups, name)
	return nil
}

type sshRecorder struct {
	mu      sync.Mutex
	checked []string
	down    map[string]bool
}

func (r *sshRecorder) check(ctx context.Context, host string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checked = append(r.checked, host)
	if r.down[host] {
		return errors.New("connection refused")
	}
	return nil
}

var _ = Describe("Deployment flow", func() {
	var (
		root   string
		scope  *cloud.Scope
		tf     *terraform.Fake
		runner *exec.FakeRunner
		ssh    *sshRecorder
		az     *fakeAzure
		ctx    = context.Background()
	)

	BeforeEach(func() {
		var err error
		root, err = ioutil.TempDir("", "rke2az-cloud")
		Expect(err).NotTo(HaveOccurred())
		Expect(os.MkdirAll(filepath.Join(root, "terraform"), 0755)).To(Succeed())

		tf = terraform.NewFake(testOutputs())
		runner = exec.NewFake()
		ssh = &sshRecorder{down: map[string]bool{}}
		az = &fakeAzure{groups: map[string]bool{"rg-rke2-test": true}}

		scope = cloud.NewScope(cloud.NewScopeParams{
			Env:           testEnv(),
			Paths:         cloud.NewPaths(root),
			Runner:        runner,
			StoreProvider: fake.New(),
			Logger:        logr.Discard(),
		})
		scope.Terraform = tf
		scope.Azure = az
		scope.SSHChecker = ssh.check
	})

	AfterEach(func() {
		os.RemoveAll(root)
	})

	record := func() *api.Deployment {
		d, err := scope.StoreProvider.Deployments().Get("test")
		Expect(err).NotTo(HaveOccurred())
		return d
	}

	Context("Deploy", func() {
		It("should provision, write files and run the playbook", func() {
			d, err := cloud.Deploy(ctx, scope, cloud.DeployOptions{Parallelism: 4, SSHTimeout: time.Second})
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Status.Phase).Should(Equal(api.DeploymentReady))

			Expect(tf.Calls()).Should(Equal([]string{"init", "apply", "output"}))
			Expect(scope.Paths.TFVars).Should(BeAnExistingFile())
			Expect(scope.Paths.Inventory).Should(BeAnExistingFile())
			Expect(ssh.checked).Should(Equal([]string{"20.1.2.3", "20.1.2.4", "20.1.2.5"}))
			Expect(runner.Calls()).Should(Equal([]string{
				"ansible-playbook -i " + scope.Paths.Inventory + " " + scope.Paths.Playbook,
			}))
			Expect(os.Getenv("TF_VAR_rke2_token")).Should(Equal("0123456789abcdef0123"))

			stored := record()
			Expect(stored.Status.Phase).Should(Equal(api.DeploymentReady))
			Expect(stored.Status.ControlPlane.PublicIP).Should(Equal("20.1.2.3"))
			Expect(stored.Status.Workers).Should(HaveLen(2))
			Expect(stored.Spec.ResourceGroup).Should(Equal("rg-rke2-test"))
		})

		It("should stop at the first failure and record it", func() {
			tf.Failures["apply"] = errors.New("quota exceeded")

			_, err := cloud.Deploy(ctx, scope, cloud.DeployOptions{})
			Expect(err).To(HaveOccurred())
			Expect(tf.Calls()).Should(Equal([]string{"init", "apply"}))
			Expect(scope.Paths.Inventory).ShouldNot(BeAnExistingFile())
			Expect(runner.Calls()).Should(BeEmpty())

			stored := record()
			Expect(stored.Status.Phase).Should(Equal(api.DeploymentFailed))
			Expect(stored.Status.Reason).Should(ContainSubstring("quota exceeded"))
		})

		It("should fail when a host never accepts ssh", func() {
			ssh.down["20.1.2.5"] = true

			_, err := cloud.Deploy(ctx, scope, cloud.DeployOptions{SSHTimeout: 200 * time.Millisecond})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).Should(ContainSubstring("20.1.2.5"))
			Expect(runner.Calls()).Should(BeEmpty())
			Expect(record().Status.Phase).Should(Equal(api.DeploymentFailed))
		})

		It("should reuse the state file when terraform is skipped", func() {
			Expect(ioutil.WriteFile(scope.Paths.State, []byte(testState), 0644)).To(Succeed())

			d, err := cloud.Deploy(ctx, scope, cloud.DeployOptions{SkipTerraform: true, SkipAnsible: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(tf.Calls()).Should(BeEmpty())
			Expect(d.Status.Workers).Should(HaveLen(1))
			Expect(runner.Calls()).Should(BeEmpty())
		})

		It("should reject an invalid environment before running anything", func() {
			scope.Env.VMCount = 0

			_, err := cloud.Deploy(ctx, scope, cloud.DeployOptions{})
			Expect(err).To(HaveOccurred())
			Expect(tf.Calls()).Should(BeEmpty())
		})
	})

	Context("Destroy", func() {
		It("should destroy, purge the group and remove generated files", func() {
			_, err := cloud.Deploy(ctx, scope, cloud.DeployOptions{SkipAnsible: true})
			Expect(err).NotTo(HaveOccurred())

			err = cloud.Destroy(ctx, scope, cloud.DestroyOptions{PurgeResourceGroup: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(tf.Calls()).Should(Equal([]string{"init", "apply", "output", "init", "destroy"}))
			Expect(az.deleted).Should(Equal([]string{"rg-rke2-test"}))
			Expect(scope.Paths.Inventory).ShouldNot(BeAnExistingFile())
			Expect(scope.Paths.TFVars).ShouldNot(BeAnExistingFile())

			stored := record()
			Expect(stored.Status.Phase).Should(Equal(api.DeploymentDeleted))
			Expect(stored.Status.Workers).Should(BeEmpty())
		})

		It("should keep files when asked", func() {
			err := cloud.Destroy(ctx, scope, cloud.DestroyOptions{KeepFiles: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(scope.Paths.TFVars).Should(BeAnExistingFile())
			Expect(az.deleted).Should(BeEmpty())
		})
	})

	Context("azd hooks", func() {
		It("should validate and write tfvars before provisioning", func() {
			Expect(cloud.PreProvision(ctx, scope)).To(Succeed())
			vars, err := terraform.ReadVars(scope.Paths.TFVars)
			Expect(err).NotTo(HaveOccurred())
			Expect(vars.VMCount).Should(Equal(3))
		})

		It("should build the inventory and tolerate diagnostic failures", func() {
			Expect(ioutil.WriteFile(scope.Paths.State, []byte(testState), 0644)).To(Succeed())
			runner.Results["ansible-inventory"] = errors.New("graph failed")
			runner.Results["ansible all"] = errors.New("unreachable")

			inv, err := cloud.PostProvision(ctx, scope, cloud.PostProvisionOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(inv.Workers).Should(HaveLen(1))
			Expect(runner.Calls()).Should(HaveLen(2))
			Expect(record().Status.Phase).Should(Equal(api.DeploymentConfiguring))
		})

		It("should fail without terraform state", func() {
			_, err := cloud.PostProvision(ctx, scope, cloud.PostProvisionOptions{})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).Should(ContainSubstring("terraform state not found"))
		})
	})

	Context("Status", func() {
		It("should report the record and the live machines", func() {
			az.vms = []azure.VirtualMachine{{Name: "control-plane-1", PowerState: "running"}}
			_, err := cloud.Deploy(ctx, scope, cloud.DeployOptions{SkipAnsible: true})
			Expect(err).NotTo(HaveOccurred())

			r, err := cloud.Status(ctx, scope, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Deployment).NotTo(BeNil())
			Expect(r.Deployment.Status.Phase).Should(Equal(api.DeploymentReady))
			Expect(r.GroupExists).Should(BeTrue())
			Expect(r.VirtualMachines).Should(HaveLen(1))
			Expect(r.RemoteError).NotTo(HaveOccurred())
		})

		It("should work without a record or a resource group", func() {
			delete(az.groups, "rg-rke2-test")

			r, err := cloud.Status(ctx, scope, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Deployment).To(BeNil())
			Expect(r.GroupExists).Should(BeFalse())
			Expect(r.VirtualMachines).Should(BeEmpty())
			Expect(r.RemoteError).NotTo(HaveOccurred())
		})
	})
})
