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
	"io"

	"github.com/appscode/go/term"
	"github.com/spf13/cobra"
	"pharmer.dev/rke2az/cloud"
	"pharmer.dev/rke2az/cmds/options"
	"pharmer.dev/rke2az/terraform"
)

func NewCmdTFVars(g *options.GlobalConfig, out io.Writer) *cobra.Command {
	opts := options.NewTFVarsConfig()
	cmd := &cobra.Command{
		Use:               "tfvars",
		Short:             "Generate terraform/main.tfvars.json from the .env file",
		Example:           "rke2az tfvars",
		DisableAutoGenTag: true,
		Run: func(cmd *cobra.Command, args []string) {
			_, env, err := loadEnv(g)
			if err != nil {
				term.Fatalln(err)
			}
			if err := cloud.ValidateEnvironment(env); err != nil {
				term.Fatalln(err)
			}
			vars := terraform.NewVars(env)
			if opts.Print {
				data, err := vars.Marshal()
				term.ExitOnError(err)
				_, err = out.Write(data)
				term.ExitOnError(err)
				return
			}
			path := opts.Output
			if path == "" {
				path = cloud.NewPaths(g.Root).TFVars
			}
			term.ExitOnError(vars.Write(path))
			term.Successln("Wrote", path)
		},
	}
	opts.AddFlags(cmd.Flags())

	return cmd
}
