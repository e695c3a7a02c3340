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
	"io"

	"github.com/appscode/go/term"
	"github.com/spf13/cobra"
	"pharmer.dev/rke2az/ansible"
	"pharmer.dev/rke2az/cloud"
	"pharmer.dev/rke2az/cmds/options"
)

func NewCmdInventory(g *options.GlobalConfig, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "inventory",
		Short:             "Manage the generated ansible inventory",
		DisableAutoGenTag: true,
		Run:               func(cmd *cobra.Command, args []string) {},
	}
	cmd.AddCommand(NewCmdInventoryGenerate(g, out))
	return cmd
}

func NewCmdInventoryGenerate(g *options.GlobalConfig, out io.Writer) *cobra.Command {
	opts := options.NewInventoryGenerateConfig()
	cmd := &cobra.Command{
		Use:               "generate",
		Short:             "Write ansible/inventory/hosts.yml from the terraform outputs",
		Example:           "rke2az inventory generate --graph",
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
			inv, err := runInventoryGenerate(ctx, s, opts)
			term.ExitOnError(err)
			term.Successln("Wrote", s.Paths.Inventory, "with", len(inv.Hosts()), "hosts")
		},
	}
	opts.AddFlags(cmd.Flags())

	return cmd
}

func runInventoryGenerate(ctx context.Context, s *cloud.Scope, opts *options.InventoryGenerateConfig) (*ansible.Inventory, error) {
	if opts.State != "" {
		s.Paths.State = s.Paths.Resolve(opts.State)
	}
	if opts.Output != "" {
		s.Paths.Inventory = s.Paths.Resolve(opts.Output)
	}
	out, err := cloud.ReadOutputs(ctx, s, opts.FromTerraform)
	if err != nil {
		return nil, err
	}
	inv, err := ansible.NewInventory(out, ansible.InventoryOptions{PrivateKeyFile: s.Env.SSHPrivateKeyPath})
	if err != nil {
		return nil, err
	}
	if err := inv.Write(s.Paths.Inventory); err != nil {
		return nil, err
	}
	if opts.Graph {
		if err := s.GetAnsible().Graph(ctx, s.Paths.Inventory); err != nil {
			s.Logger.Error(err, "inventory graph failed, continuing")
		}
	}
	return inv, nil
}
