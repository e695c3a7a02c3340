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
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"pharmer.dev/rke2az/cloud"
	"pharmer.dev/rke2az/utils/exec"
)

func writeFile(path, content string) {
	Expect(os.MkdirAll(filepath.Dir(path), 0755)).To(Succeed())
	Expect(ioutil.WriteFile(path, []byte(content), 0600)).To(Succeed())
}

func writePrivateKey(path string) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	Expect(err).NotTo(HaveOccurred())
	data := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	writeFile(path, string(data))
}

func statusOf(r *cloud.Report, name string) []cloud.CheckStatus {
	var out []cloud.CheckStatus
	for _, c := range r.Checks {
		if c.Name == name {
			out = append(out, c.Status)
		}
	}
	return out
}

var _ = Describe("Validate", func() {
	var (
		root   string
		scope  *cloud.Scope
		runner *exec.FakeRunner
		ctx    = context.Background()
	)

	BeforeEach(func() {
		var err error
		root, err = ioutil.TempDir("", "rke2az-validate")
		Expect(err).NotTo(HaveOccurred())
		runner = exec.NewFake("az", "azd", "tflint")
		scope = cloud.NewScope(cloud.NewScopeParams{
			Paths:  cloud.NewPaths(root),
			Runner: runner,
			Logger: logr.Discard(),
		})
	})

	AfterEach(func() {
		os.RemoveAll(root)
	})

	It("should fail on an empty repository", func() {
		r := cloud.Validate(ctx, scope, cloud.ValidateOptions{EnvFile: filepath.Join(root, ".env")})
		Expect(r.Failed()).Should(BeTrue())
		Expect(statusOf(r, "tool terraform")).Should(Equal([]cloud.CheckStatus{cloud.CheckPass}))
		Expect(statusOf(r, "tool az")).Should(Equal([]cloud.CheckStatus{cloud.CheckWarn}))
		Expect(statusOf(r, "env file")).Should(Equal([]cloud.CheckStatus{cloud.CheckFail}))
		Expect(statusOf(r, "terraform config")).Should(Equal([]cloud.CheckStatus{cloud.CheckFail}))
		Expect(statusOf(r, "ansible playbook")).Should(Equal([]cloud.CheckStatus{cloud.CheckFail}))
		Expect(scope.Env).Should(BeNil())
	})

	It("should pass on a complete repository", func() {
		keyPath := filepath.Join(root, "id_rsa")
		writePrivateKey(keyPath)
		writeFile(filepath.Join(root, ".env"), `AZURE_SUBSCRIPTION_ID=00000000-0000-0000-0000-000000000001
ARM_CLIENT_ID=00000000-0000-0000-0000-000000000002
ARM_CLIENT_SECRET=secret
ARM_TENANT_ID=00000000-0000-0000-0000-000000000003
SSH_PUBLIC_KEY="`+testPublicKey+`"
RKE2_TOKEN=0123456789abcdef0123
SSH_PRIVATE_KEY_PATH=`+keyPath+`
`)
		writeFile(filepath.Join(root, "terraform", "main.tf"), "terraform {}\n")
		writeFile(scope.Paths.Playbook, "- hosts: all\n")
		writeFile(scope.Paths.AnsibleConfig, "[defaults]\ninventory = inventory/hosts.yml\nhost_key_checking = False\n")
		scope.Azure = &fakeAzure{groups: map[string]bool{}}

		r := cloud.Validate(ctx, scope, cloud.ValidateOptions{EnvFile: filepath.Join(root, ".env"), Remote: true})
		for _, c := range r.Checks {
			Expect(c.Status).ShouldNot(Equal(cloud.CheckFail), c.Name+": "+c.Message)
		}
		Expect(scope.Env).NotTo(BeNil())
		Expect(statusOf(r, "ssh private key")).Should(Equal([]cloud.CheckStatus{cloud.CheckPass}))
		Expect(statusOf(r, "ansible.cfg")).Should(Equal([]cloud.CheckStatus{cloud.CheckPass}))
		Expect(statusOf(r, "resource group")).Should(Equal([]cloud.CheckStatus{cloud.CheckPass}))
	})

	It("should report missing variables", func() {
		writeFile(filepath.Join(root, ".env"), "AZURE_LOCATION=westeurope\n")
		r := cloud.Validate(ctx, scope, cloud.ValidateOptions{EnvFile: filepath.Join(root, ".env")})
		Expect(statusOf(r, "env variables")).Should(Equal([]cloud.CheckStatus{cloud.CheckFail}))
	})
})
