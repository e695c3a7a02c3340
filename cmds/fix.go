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
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/appscode/go/term"
	"github.com/spf13/cobra"
	"pharmer.dev/rke2az/cmds/options"
	"pharmer.dev/rke2az/lint"
)

func NewCmdFix(g *options.GlobalConfig, out io.Writer) *cobra.Command {
	opts := options.NewFixConfig()
	cmd := &cobra.Command{
		Use:               "fix markdown|ansible|jinja [paths...]",
		Short:             "Apply the safe markdown, ansible YAML or jinja2 fixes",
		Example:           "rke2az fix ansible ansible/playbooks --dry-run",
		DisableAutoGenTag: true,
		Run: func(cmd *cobra.Command, args []string) {
			if err := opts.ValidateFlags(cmd, args); err != nil {
				term.Fatalln(err)
			}
			n, err := runFix(g.Root, opts, out)
			term.ExitOnError(err)
			if opts.DryRun {
				term.Infoln(n, "files would change")
				return
			}
			term.Successln("Fixed", n, "files")
		},
	}
	opts.AddFlags(cmd.Flags())

	return cmd
}

func runFix(root string, opts *options.FixConfig, out io.Writer) (int, error) {
	paths := opts.Paths
	defaults := len(paths) == 0
	if defaults {
		paths = opts.Fixer.DefaultPaths(root)
	}
	var files []string
	for _, p := range paths {
		if _, err := os.Stat(p); defaults && os.IsNotExist(err) {
			continue
		}
		found, err := lint.FindFiles(p, opts.Fixer.Patterns()...)
		if err != nil {
			return 0, err
		}
		files = append(files, found...)
	}

	results, err := lint.FixFiles(opts.Fixer, files, opts.DryRun)
	changed := 0
	for _, r := range results {
		if !r.Changed {
			continue
		}
		changed++
		name := r.File
		if rel, err := filepath.Rel(root, r.File); err == nil {
			name = rel
		}
		fmt.Fprintln(out, name)
		for _, c := range r.Changes {
			fmt.Fprintf(out, "  %s\n", c)
		}
	}
	return changed, err
}
