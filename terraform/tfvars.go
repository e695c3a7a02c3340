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
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"pharmer.dev/rke2az/config"
)

const VarsFileName = "main.tfvars.json"

// Vars is the content of the generated main.tfvars.json. Secrets are passed
// through TF_VAR_* environment variables and never written here.
type Vars struct {
	ResourceGroupName string `json:"resource_group_name"`
	Location          string `json:"location"`
	Environment       string `json:"environment"`
	ProjectName       string `json:"project_name"`
	VMCount           int    `json:"vm_count"`
	AdminUsername     string `json:"admin_username"`
}

func NewVars(env *config.Environment) Vars {
	return Vars{
		ResourceGroupName: env.ResourceGroup,
		Location:          env.Location,
		Environment:       env.Environment,
		ProjectName:       env.ProjectName,
		VMCount:           env.VMCount,
		AdminUsername:     env.AdminUsername,
	}
}

func (v Vars) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (v Vars) Write(path string) error {
	data, err := v.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return errors.Wrapf(ioutil.WriteFile(path, data, 0644), "failed to write %s", path)
}

func ReadVars(path string) (*Vars, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var v Vars
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	return &v, nil
}
