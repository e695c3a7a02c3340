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
package options

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type InventoryGenerateConfig struct {
	State         string
	FromTerraform bool
	Output        string
	Graph         bool
}

func NewInventoryGenerateConfig() *InventoryGenerateConfig {
	return &InventoryGenerateConfig{}
}

func (c *InventoryGenerateConfig) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.State, "state", c.State, "Terraform state file, relative to --root (default terraform/terraform.tfstate)")
	fs.BoolVar(&c.FromTerraform, "from-terraform", c.FromTerraform, "Read outputs with terraform output instead of the state file")
	fs.StringVar(&c.Output, "output", c.Output, "Inventory path, relative to --root (default ansible/inventory/hosts.yml)")
	fs.BoolVar(&c.Graph, "graph", c.Graph, "Show the inventory graph after writing it")
}

func (c *InventoryGenerateConfig) ValidateFlags(cmd *cobra.Command, args []string) error {
	if c.State != "" && c.FromTerraform {
		return errors.New("--state and --from-terraform are mutually exclusive")
	}
	return nil
}
