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

func NewCmdValidate(g *options.GlobalConfig, out io.Writer) *cobra.Command {
	opts := options.NewValidateConfig()
	cmd := &cobra.Command{
		Use:               "validate",
		Short:             "Check tools, the .env file and the repository layout",
		Example:           "rke2az validate --remote",
		DisableAutoGenTag: true,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			s := cloud.NewScope(cloud.NewScopeParams{Paths: cloud.NewPaths(g.Root)})
			r := cloud.Validate(ctx, s, cloud.ValidateOptions{EnvFile: g.EnvPath(), Remote: opts.Remote})
			term.ExitOnError(printReport(r, out))
			if r.Failed() {
				term.Fatalln(fmt.Sprintf("%d checks failed", r.Count(cloud.CheckFail)))
			}
			term.Successln("Setup is valid")
		},
	}
	opts.AddFlags(cmd.Flags())

	return cmd
}

func printReport(r *cloud.Report, out io.Writer) error {
	rows := make([][]string, 0, len(r.Checks))
	for _, c := range r.Checks {
		rows = append(rows, []string{string(c.Status), c.Name, c.Message})
	}
	if err := printer.PrintTable(out, []string{"STATUS", "CHECK", "MESSAGE"}, rows); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "\n%d passed, %d warnings, %d failed\n",
		r.Count(cloud.CheckPass), r.Count(cloud.CheckWarn), r.Count(cloud.CheckFail))
	return err
}
