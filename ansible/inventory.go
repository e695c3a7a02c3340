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
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
	"pharmer.dev/rke2az/terraform"
)

const (
	GroupControlPlane = "control_plane"
	GroupWorkers      = "workers"

	DefaultSSHCommonArgs = "-o StrictHostKeyChecking=no -o UserKnownHostsFile=/dev/null"
)

type Host struct {
	Name        string
	AnsibleHost string
	PrivateIP   string
	Group       string
}

type InventoryVars struct {
	User           string
	PrivateKeyFile string
	SSHCommonArgs  string
}

// Inventory is the generated hosts.yml: one control plane and zero or more
// workers, in node order.
type Inventory struct {
	Vars         InventoryVars
	ControlPlane []Host
	Workers      []Host
}

type InventoryOptions struct {
	PrivateKeyFile string
	// SSHCommonArgs defaults to DefaultSSHCommonArgs.
	SSHCommonArgs string
}

func ControlPlaneName(i int) string {
	return fmt.Sprintf("control-plane-%d", i)
}

func WorkerName(i int) string {
	return fmt.Sprintf("worker-%d", i)
}

func NewInventory(out *terraform.Outputs, opts InventoryOptions) (*Inventory, error) {
	if err := out.Validate(); err != nil {
		return nil, err
	}
	if opts.SSHCommonArgs == "" {
		opts.SSHCommonArgs = DefaultSSHCommonArgs
	}
	inv := &Inventory{
		Vars: InventoryVars{
			User:           out.AdminUsername,
			PrivateKeyFile: opts.PrivateKeyFile,
			SSHCommonArgs:  opts.SSHCommonArgs,
		},
		ControlPlane: []Host{{
			Name:        ControlPlaneName(1),
			AnsibleHost: out.ControlPlanePublicIP,
			PrivateIP:   out.ControlPlanePrivateIP,
			Group:       GroupControlPlane,
		}},
	}
	for i := range out.WorkerPublicIPs {
		inv.Workers = append(inv.Workers, Host{
			Name:        WorkerName(i + 1),
			AnsibleHost: out.WorkerPublicIPs[i],
			PrivateIP:   out.WorkerPrivateIPs[i],
			Group:       GroupWorkers,
		})
	}
	return inv, nil
}

// Hosts returns every host, control plane first.
func (inv *Inventory) Hosts() []Host {
	hosts := make([]Host, 0, len(inv.ControlPlane)+len(inv.Workers))
	hosts = append(hosts, inv.ControlPlane...)
	return append(hosts, inv.Workers...)
}

func hostsSlice(hosts []Host) yaml.MapSlice {
	out := yaml.MapSlice{}
	for _, h := range hosts {
		out = append(out, yaml.MapItem{
			Key: h.Name,
			Value: yaml.MapSlice{
				{Key: "ansible_host", Value: h.AnsibleHost},
				{Key: "private_ip", Value: h.PrivateIP},
			},
		})
	}
	return out
}

func (inv *Inventory) Marshal() ([]byte, error) {
	doc := yaml.MapSlice{{
		Key: "all",
		Value: yaml.MapSlice{
			{Key: "vars", Value: yaml.MapSlice{
				{Key: "ansible_user", Value: inv.Vars.User},
				{Key: "ansible_ssh_private_key_file", Value: inv.Vars.PrivateKeyFile},
				{Key: "ansible_ssh_common_args", Value: inv.Vars.SSHCommonArgs},
			}},
			{Key: "children", Value: yaml.MapSlice{
				{Key: GroupControlPlane, Value: yaml.MapSlice{{Key: "hosts", Value: hostsSlice(inv.ControlPlane)}}},
				{Key: GroupWorkers, Value: yaml.MapSlice{{Key: "hosts", Value: hostsSlice(inv.Workers)}}},
			}},
		},
	}}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return append([]byte("---\n"), data...), nil
}

func (inv *Inventory) Write(path string) error {
	data, err := inv.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return errors.Wrapf(ioutil.WriteFile(path, data, 0644), "failed to write inventory %s", path)
}

type inventoryFile struct {
	All struct {
		Vars     map[string]string `yaml:"vars"`
		Children map[string]struct {
			Hosts yaml.MapSlice `yaml:"hosts"`
		} `yaml:"children"`
	} `yaml:"all"`
}

func ReadInventory(path string) (*Inventory, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseInventory(data)
}

func ParseInventory(data []byte) (*Inventory, error) {
	var f inventoryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "failed to parse inventory")
	}
	inv := &Inventory{
		Vars: InventoryVars{
			User:           f.All.Vars["ansible_user"],
			PrivateKeyFile: f.All.Vars["ansible_ssh_private_key_file"],
			SSHCommonArgs:  f.All.Vars["ansible_ssh_common_args"],
		},
	}
	var err error
	if inv.ControlPlane, err = parseHosts(f.All.Children[GroupControlPlane].Hosts, GroupControlPlane); err != nil {
		return nil, err
	}
	if inv.Workers, err = parseHosts(f.All.Children[GroupWorkers].Hosts, GroupWorkers); err != nil {
		return nil, err
	}
	if len(inv.ControlPlane) == 0 {
		return nil, errors.Errorf("inventory has no %s hosts", GroupControlPlane)
	}
	return inv, nil
}

func parseHosts(items yaml.MapSlice, group string) ([]Host, error) {
	var hosts []Host
	for _, item := range items {
		name, ok := item.Key.(string)
		if !ok {
			return nil, errors.Errorf("invalid host name %v in group %s", item.Key, group)
		}
		h := Host{Name: name, Group: group}
		if vars, ok := item.Value.(yaml.MapSlice); ok {
			for _, v := range vars {
				switch v.Key {
				case "ansible_host":
					h.AnsibleHost = fmt.Sprint(v.Value)
				case "private_ip":
					h.PrivateIP = fmt.Sprint(v.Value)
				}
			}
		}
		if h.AnsibleHost == "" {
			h.AnsibleHost = name
		}
		hosts = append(hosts, h)
	}
	return hosts, nil
}
