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

	"github.com/pkg/errors"
	"pharmer.dev/rke2az/cloud"
	"pharmer.dev/rke2az/cloud/azure"
)

func TestPrintStatus(t *testing.T) {
	tests := []struct {
		name    string
		report  cloud.StatusReport
		remote  bool
		wantOut []string
	}{
		{
			name:    "nothing recorded",
			report:  cloud.StatusReport{ResourceGroup: "rg-rke2-dev"},
			wantOut: []string{"No deployment recorded"},
		},
		{
			name:    "missing group",
			report:  cloud.StatusReport{ResourceGroup: "rg-rke2-dev"},
			remote:  true,
			wantOut: []string{"Resource group rg-rke2-dev does not exist"},
		},
		{
			name:    "remote error",
			report:  cloud.StatusReport{ResourceGroup: "rg-rke2-dev", RemoteError: errors.New("unauthorized")},
			remote:  true,
			wantOut: []string{"Live state unavailable: unauthorized"},
		},
		{
			name: "machines",
			report: cloud.StatusReport{
				ResourceGroup: "rg-rke2-dev",
				GroupExists:   true,
				VirtualMachines: []azure.VirtualMachine{
					{Name: "control-plane-1", Size: "Standard_D2s_v3", ProvisioningState: "Succeeded", PowerState: "running"},
				},
			},
			remote:  true,
			wantOut: []string{"POWER", "control-plane-1", "Standard_D2s_v3", "running"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			if err := printStatus(&tt.report, tt.remote, "", out); err != nil {
				t.Fatalf("printStatus() error = %v", err)
			}
			for _, want := range tt.wantOut {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output %q does not contain %q", out.String(), want)
				}
			}
		})
	}
}
