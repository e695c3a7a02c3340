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

type DestroyConfig struct {
	Parallelism        int
	KeepFiles          bool
	PurgeResourceGroup bool
	Yes                bool
}

func NewDestroyConfig() *DestroyConfig {
	return &DestroyConfig{}
}

func (c *DestroyConfig) AddFlags(fs *pflag.FlagSet) {
	fs.IntVar(&c.Parallelism, "parallelism", c.Parallelism, "Terraform -parallelism, 0 keeps terraform's default")
	fs.BoolVar(&c.KeepFiles, "keep-files", c.KeepFiles, "Keep the generated inventory and tfvars")
	fs.BoolVar(&c.PurgeResourceGroup, "purge-resource-group", c.PurgeResourceGroup, "Delete the whole resource group after terraform destroy")
	fs.BoolVarP(&c.Yes, "yes", "y", c.Yes, "Do not ask for confirmation")
}

func (c *DestroyConfig) ValidateFlags(cmd *cobra.Command, args []string) error {
	if c.Parallelism < 0 {
		return errors.New("--parallelism must not be negative")
	}
	return nil
}
