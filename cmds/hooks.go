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

func NewCmdHooks(g *options.GlobalConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "hooks",
		Short:             "azd lifecycle hooks",
		DisableAutoGenTag: true,
		Run:               func(cmd *cobra.Command, args []string) {},
	}
	cmd.AddCommand(NewCmdPreProvision(g))
	cmd.AddCommand(NewCmdPostProvision(g))
	return cmd
}

func NewCmdPreProvision(g *options.GlobalConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "preprovision",
		Short:             "Validate the environment and write the terraform variables",
		DisableAutoGenTag: true,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			s, err := newScope(ctx, g)
			if err != nil {
				term.Fatalln(err)
			}
			term.ExitOnError(cloud.PreProvision(ctx, s))
			term.Successln("Pre-provision complete")
		},
	}
	return cmd
}

func NewCmdPostProvision(g *options.GlobalConfig) *cobra.Command {
	opts := options.NewPostProvisionConfig()
	cmd := &cobra.Command{
		Use:               "postprovision",
		Short:             "Generate the ansible inventory from the provisioned infrastructure",
		DisableAutoGenTag: true,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			s, err := newScope(ctx, g)
			if err != nil {
				term.Fatalln(err)
			}
			inv, err := cloud.PostProvision(ctx, s, cloud.PostProvisionOptions{FromTerraform: opts.FromTerraform})
			term.ExitOnError(err)
			term.Successln("Post-provision complete,", len(inv.Hosts()), "hosts in", s.Paths.Inventory)
		},
	}
	opts.AddFlags(cmd.Flags())

	return cmd
}
