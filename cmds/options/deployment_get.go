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
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type DeploymentGetConfig struct {
	Deployments []string
	Output      string
}

func NewDeploymentGetConfig() *DeploymentGetConfig {
	return &DeploymentGetConfig{
		Output: "",
	}
}

func (c *DeploymentGetConfig) AddFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.Output, "output", "o", c.Output, "Output format. One of: json|yaml|wide")
}

func (c *DeploymentGetConfig) ValidateFlags(cmd *cobra.Command, args []string) error {
	c.Deployments = func(names []string) []string {
		for i := range names {
			names[i] = strings.ToLower(names[i])
		}
		return names
	}(args)
	return nil
}

type StatusConfig struct {
	Local  bool
	Output string
}

func NewStatusConfig() *StatusConfig {
	return &StatusConfig{}
}

func (c *StatusConfig) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&c.Local, "local", c.Local, "Only show the stored record, do not query Azure")
	fs.StringVarP(&c.Output, "output", "o", c.Output, "Output format. One of: json|yaml|wide")
}
