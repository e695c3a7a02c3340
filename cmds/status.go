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
	"fmt"
	"io"

	"github.com/appscode/go/term"
	"github.com/spf13/cobra"
	"pharmer.dev/rke2az/cloud"
	"pharmer.dev/rke2az/cmds/options"
	"pharmer.dev/rke2az/utils/printer"
)

func NewCmdStatus(g *options.GlobalConfig, out io.Writer) *cobra.Command {
	opts := options.NewStatusConfig()
	cmd := &cobra.Command{
		Use:               "status",
		Short:             "Show the recorded deployment and the virtual machines Azure reports",
		Example:           "rke2az status",
		DisableAutoGenTag: true,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			s, err := newScope(ctx, g)
			if err != nil {
				term.Fatalln(err)
			}
			r, err := cloud.Status(ctx, s, !opts.Local)
			term.ExitOnError(err)
			term.ExitOnError(printStatus(r, !opts.Local, opts.Output, out))
		},
	}
	opts.AddFlags(cmd.Flags())

	return cmd
}

func printStatus(r *cloud.StatusReport, remote bool, format string, out io.Writer) error {
	if r.Deployment == nil {
		fmt.Fprintln(out, "No deployment recorded for this environment.")
	} else {
		p, err := printer.NewPrinter(format)
		if err != nil {
			return err
		}
		if err := p.PrintObj(r.Deployment, out); err != nil {
			return err
		}
		if hp, ok := p.(*printer.HumanReadablePrinter); ok {
			if err := hp.Flush(out); err != nil {
				return err
			}
		}
	}

	switch {
	case !remote:
		return nil
	case r.RemoteError != nil:
		_, err := fmt.Fprintf(out, "\nLive state unavailable: %v\n", r.RemoteError)
		return err
	case !r.GroupExists:
		_, err := fmt.Fprintf(out, "\nResource group %s does not exist.\n", r.ResourceGroup)
		return err
	}
	rows := make([][]string, 0, len(r.VirtualMachines))
	for _, vm := range r.VirtualMachines {
		rows = append(rows, []string{vm.Name, vm.Size, vm.ProvisioningState, vm.PowerState})
	}
	fmt.Fprintf(out, "\nVirtual machines in %s:\n", r.ResourceGroup)
	return printer.PrintTable(out, []string{"NAME", "SIZE", "PROVISIONING", "POWER"}, rows)
}
