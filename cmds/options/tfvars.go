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
	"github.com/spf13/pflag"
)

type TFVarsConfig struct {
	Output string
	Print  bool
}

func NewTFVarsConfig() *TFVarsConfig {
	return &TFVarsConfig{}
}

func (c *TFVarsConfig) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Output, "output", c.Output, "Variables file path (default terraform/main.tfvars.json)")
	fs.BoolVar(&c.Print, "print", c.Print, "Print the variables instead of writing the file")
}
