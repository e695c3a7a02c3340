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
package terraform

import (
	"encoding/json"
	"io/ioutil"
	"net"
	"os"

	"github.com/hashicorp/terraform-exec/tfexec"
	"github.com/pkg/errors"
)

const (
	OutputControlPlanePublicIP  = "control_plane_public_ip"
	OutputControlPlanePrivateIP = "control_plane_private_ip"
	OutputWorkerPublicIPs       = "worker_public_ips"
	OutputWorkerPrivateIPs      = "worker_private_ips"
	OutputAdminUsername         = "admin_username"
)

// Outputs are the terraform outputs the inventory is built from.
type Outputs struct {
	ControlPlanePublicIP  string
	ControlPlanePrivateIP string
	WorkerPublicIPs       []string
	WorkerPrivateIPs      []string
	AdminUsername         string
}

type stateFile struct {
	Version          int                    `json:"version"`
	TerraformVersion string                 `json:"terraform_version"`
	Outputs          map[string]stateOutput `json:"outputs"`
}

type stateOutput struct {
	Value     json.RawMessage `json:"value"`
	Sensitive bool            `json:"sensitive,omitempty"`
}

// ReadStateFile extracts the outputs from a local terraform state file.
func ReadStateFile(path string) (*Outputs, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Errorf("terraform state not found at %s, run terraform apply first", path)
		}
		return nil, err
	}
	return ParseState(data)
}

func ParseState(data []byte) (*Outputs, error) {
	var state stateFile
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, errors.Wrap(err, "failed to parse terraform state")
	}
	values := make(map[string]json.RawMessage, len(state.Outputs))
	for k, v := range state.Outputs {
		values[k] = v.Value
	}
	return decodeOutputs(values)
}

// FromOutputMeta converts `terraform output -json` results.
func FromOutputMeta(meta map[string]tfexec.OutputMeta) (*Outputs, error) {
	values := make(map[string]json.RawMessage, len(meta))
	for k, v := range meta {
		values[k] = v.Value
	}
	return decodeOutputs(values)
}

func decodeOutputs(values map[string]json.RawMessage) (*Outputs, error) {
	out := &Outputs{}
	for _, f := range []struct {
		name string
		into interface{}
	}{
		{OutputControlPlanePublicIP, &out.ControlPlanePublicIP},
		{OutputControlPlanePrivateIP, &out.ControlPlanePrivateIP},
		{OutputWorkerPublicIPs, &out.WorkerPublicIPs},
		{OutputWorkerPrivateIPs, &out.WorkerPrivateIPs},
		{OutputAdminUsername, &out.AdminUsername},
	} {
		raw, found := values[f.name]
		if !found || len(raw) == 0 || string(raw) == "null" {
			return nil, errors.Errorf("terraform output %s not found", f.name)
		}
		if err := json.Unmarshal(raw, f.into); err != nil {
			return nil, errors.Wrapf(err, "unexpected type for terraform output %s", f.name)
		}
	}
	return out, nil
}

func (o *Outputs) Validate() error {
	if net.ParseIP(o.ControlPlanePublicIP) == nil {
		return errors.Errorf("invalid %s %q", OutputControlPlanePublicIP, o.ControlPlanePublicIP)
	}
	if net.ParseIP(o.ControlPlanePrivateIP) == nil {
		return errors.Errorf("invalid %s %q", OutputControlPlanePrivateIP, o.ControlPlanePrivateIP)
	}
	if len(o.WorkerPublicIPs) != len(o.WorkerPrivateIPs) {
		return errors.Errorf("%s has %d entries but %s has %d", OutputWorkerPublicIPs, len(o.WorkerPublicIPs), OutputWorkerPrivateIPs, len(o.WorkerPrivateIPs))
	}
	for i := range o.WorkerPublicIPs {
		if net.ParseIP(o.WorkerPublicIPs[i]) == nil {
			return errors.Errorf("invalid %s[%d] %q", OutputWorkerPublicIPs, i, o.WorkerPublicIPs[i])
		}
		if net.ParseIP(o.WorkerPrivateIPs[i]) == nil {
			return errors.Errorf("invalid %s[%d] %q", OutputWorkerPrivateIPs, i, o.WorkerPrivateIPs[i])
		}
	}
	if o.AdminUsername == "" {
		return errors.Errorf("empty %s", OutputAdminUsername)
	}
	return nil
}
