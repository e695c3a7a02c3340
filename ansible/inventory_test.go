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
package ansible

import (
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"pharmer.dev/rke2az/terraform"
)

func testOutputs(workers int) *terraform.Outputs {
	out := &terraform.Outputs{
		ControlPlanePublicIP:  "20.0.0.1",
		ControlPlanePrivateIP: "10.0.0.4",
		AdminUsername:         "azureuser",
	}
	for i := 0; i < workers; i++ {
		out.WorkerPublicIPs = append(out.WorkerPublicIPs, "20.0.1."+strconv.Itoa(i+1))
		out.WorkerPrivateIPs = append(out.WorkerPrivateIPs, "10.0.1."+strconv.Itoa(i+1))
	}
	return out
}

const wantInventory = `---
all:
  vars:
    ansible_user: azureuser
    ansible_ssh_private_key_file: /home/me/.ssh/id_rsa
    ansible_ssh_common_args: -o StrictHostKeyChecking=no -o UserKnownHostsFile=/dev/null
  children:
    control_plane:
      hosts:
        control-plane-1:
          ansible_host: 20.0.0.1
          private_ip: 10.0.0.4
    workers:
      hosts:
        worker-1:
          ansible_host: 20.0.1.1
          private_ip: 10.0.1.1
        worker-2:
          ansible_host: 20.0.1.2
          private_ip: 10.0.1.2
`

func TestInventoryMarshal(t *testing.T) {
	inv, err := NewInventory(testOutputs(2), InventoryOptions{PrivateKeyFile: "/home/me/.ssh/id_rsa"})
	if err != nil {
		t.Fatal(err)
	}
	data, err := inv.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != wantInventory {
		t.Errorf("Marshal() =\n%s\nwant\n%s", data, wantInventory)
	}
}

func TestInventoryNoWorkers(t *testing.T) {
	inv, err := NewInventory(testOutputs(0), InventoryOptions{PrivateKeyFile: "id"})
	if err != nil {
		t.Fatal(err)
	}
	data, err := inv.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "    workers:\n      hosts: {}\n") {
		t.Errorf("Marshal() = %s", data)
	}
	back, err := ParseInventory(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(back.Workers) != 0 || len(back.ControlPlane) != 1 {
		t.Errorf("ParseInventory() = %+v", back)
	}
}

func TestInventoryOrderAndRoundTrip(t *testing.T) {
	dir, err := os.MkdirTemp("", "inventory")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	out := testOutputs(0)
	for i := 1; i <= 11; i++ {
		out.WorkerPublicIPs = append(out.WorkerPublicIPs, "20.0.2."+strconv.Itoa(i))
		out.WorkerPrivateIPs = append(out.WorkerPrivateIPs, "10.0.2."+strconv.Itoa(i))
	}
	inv, err := NewInventory(out, InventoryOptions{PrivateKeyFile: "id"})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "inventory", "hosts.yml")
	if err := inv.Write(path); err != nil {
		t.Fatal(err)
	}
	back, err := ReadInventory(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back, inv) {
		t.Errorf("ReadInventory() = %+v, want %+v", back, inv)
	}

	var names []string
	for _, h := range back.Hosts() {
		names = append(names, h.Name)
	}
	if names[0] != "control-plane-1" || names[2] != "worker-2" || names[10] != "worker-10" || names[11] != "worker-11" {
		t.Errorf("Hosts() order = %v", names)
	}
}

func TestNewInventoryInvalid(t *testing.T) {
	out := testOutputs(2)
	out.WorkerPrivateIPs = out.WorkerPrivateIPs[:1]
	if _, err := NewInventory(out, InventoryOptions{}); err == nil {
		t.Errorf("NewInventory() expected error for mismatched worker lists")
	}
}

func TestParseInventoryWithoutControlPlane(t *testing.T) {
	_, err := ParseInventory([]byte("all:\n  children:\n    workers:\n      hosts:\n        w1:\n"))
	if err == nil {
		t.Errorf("ParseInventory() expected error")
	}
}
