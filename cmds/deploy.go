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
	"context"

	"github.com/appscode/go/term"
	"github.com/spf13/cobra"
	"pharmer.dev/rke2az/cloud"
	"pharmer.dev/rke2az/cmds/options"
)

func NewCmdDeploy(g *options.GlobalConfig) *cobra.Command {
	opts := options.NewDeployConfig()
	cmd := &cobra.Command{
		Use:               "deploy",
		Short:             "Provision the infrastructure with terraform and configure the nodes with ansible",
		Example:           "rke2az deploy --parallelism 20 --forks 10",
		DisableAutoGenTag: true,
		Run: func(cmd *cobra.Command, args []string) {
			if err := opts.ValidateFlags(cmd, args); err != nil {
				term.Fatalln(err)
			}
			ctx := context.Background()
			s, err := newScope(ctx, g)
			if err != nil {
				term.Fatalln(err)
			}
			d, err := cloud.Deploy(ctx, s, deployOptions(opts))
			term.ExitOnError(err)
			term.Successln("Deployment", d.Name, "is", d.Status.Phase)
			if cp := d.Status.ControlPlane; cp != nil {
				term.Infoln("Control plane:", cp.PublicIP)
			}
		},
	}
	opts.AddFlags(cmd.Flags())

	return cmd
}

func deployOptions(opts *options.DeployConfig) cloud.DeployOptions {
	return cloud.DeployOptions{
		SkipTerraform: opts.SkipTerraform,
		SkipAnsible:   opts.SkipAnsible,
		Parallelism:   opts.Parallelism,
		Forks:         opts.Forks,
		Limit:         opts.Limit,
		Tags:          opts.Tags,
		Verbose:       opts.Verbose,
		SSHTimeout:    opts.SSHTimeout,
	}
}
