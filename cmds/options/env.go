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

type EnvLoadConfig struct {
	NoAzd   bool
	Verbose bool
}

func NewEnvLoadConfig() *EnvLoadConfig {
	return &EnvLoadConfig{}
}

func (c *EnvLoadConfig) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&c.NoAzd, "no-azd", c.NoAzd, "Do not sync the variables into the azd environment")
	fs.BoolVar(&c.Verbose, "verbose", c.Verbose, "Print every loaded variable, secrets redacted")
}

func (c *EnvLoadConfig) ValidateFlags(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return errors.Errorf("unexpected arguments %v", args)
	}
	return nil
}

type EnvInitConfig struct {
	Force bool
}

func NewEnvInitConfig() *EnvInitConfig {
	return &EnvInitConfig{}
}

func (c *EnvInitConfig) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&c.Force, "force", c.Force, "Overwrite an existing env file")
}

type EnvShowConfig struct {
	Output string
}

func NewEnvShowConfig() *EnvShowConfig {
	return &EnvShowConfig{}
}

func (c *EnvShowConfig) AddFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.Output, "output", "o", c.Output, "Output format. One of: json|yaml")
}

func (c *EnvShowConfig) ValidateFlags(cmd *cobra.Command, args []string) error {
	switch c.Output {
	case "", "json", "yaml":
		return nil
	}
	return errors.Errorf("output format %q not recognized", c.Output)
}
