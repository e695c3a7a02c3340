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
	"k8s.io/klog/v2"
	"pharmer.dev/rke2az/cmds/options"
	"pharmer.dev/rke2az/lint"
	"pharmer.dev/rke2az/utils/printer"
)

func NewCmdCheck(g *options.GlobalConfig, out io.Writer) *cobra.Command {
	opts := options.NewCheckConfig()
	cmd := &cobra.Command{
		Use:               "check",
		Short:             "Run the CI linters that are installed",
		Example:           "rke2az check --only terraform-fmt,markdown",
		DisableAutoGenTag: true,
		Run: func(cmd *cobra.Command, args []string) {
			if err := opts.ValidateFlags(cmd, args); err != nil {
				term.Fatalln(err)
			}
			results := lint.RunChecks(context.Background(), lint.Options{
				Root:         g.Root,
				Only:         opts.Selection(),
				SkipMarkdown: opts.SkipMarkdown,
				Out:          out,
				Logger:       klog.NewKlogr(),
			})
			term.ExitOnError(printResults(results, out))
			if lint.Failed(results) {
				term.Fatalln("Some checks failed")
			}
			term.Successln("All checks passed")
		},
	}
	opts.AddFlags(cmd.Flags())

	return cmd
}

func printResults(results []lint.Result, out io.Writer) error {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{string(r.Status), r.Name, r.Tool, r.Message})
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return err
	}
	return printer.PrintTable(out, []string{"STATUS", "CHECK", "TOOL", "MESSAGE"}, rows)
}
