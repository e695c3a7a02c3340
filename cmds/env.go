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
	"os"
	"sort"

	"github.com/appscode/go/term"
	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
	"pharmer.dev/rke2az/cmds/options"
	"pharmer.dev/rke2az/config"
	"pharmer.dev/rke2az/utils/exec"
	"pharmer.dev/rke2az/utils/printer"
)

func NewCmdEnv(g *options.GlobalConfig, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "env",
		Short:             "Load, create and inspect the .env file",
		DisableAutoGenTag: true,
		Run:               func(cmd *cobra.Command, args []string) {},
	}
	cmd.AddCommand(NewCmdEnvLoad(g, out))
	cmd.AddCommand(NewCmdEnvInit(g))
	cmd.AddCommand(NewCmdEnvShow(g, out))
	return cmd
}

func NewCmdEnvLoad(g *options.GlobalConfig, out io.Writer) *cobra.Command {
	opts := options.NewEnvLoadConfig()
	cmd := &cobra.Command{
		Use:               "load",
		Short:             "Validate the .env file and sync it into the azd environment",
		Example:           "rke2az env load --env-file .env --verbose",
		DisableAutoGenTag: true,
		Run: func(cmd *cobra.Command, args []string) {
			if err := opts.ValidateFlags(cmd, args); err != nil {
				term.Fatalln(err)
			}
			if err := runEnvLoad(context.Background(), g, opts, exec.New(), out); err != nil {
				term.Fatalln(err)
			}
		},
	}
	opts.AddFlags(cmd.Flags())

	return cmd
}

func runEnvLoad(ctx context.Context, g *options.GlobalConfig, opts *options.EnvLoadConfig, runner exec.Runner, out io.Writer) error {
	f, env, err := loadEnv(g)
	if err != nil {
		return err
	}
	if opts.Verbose {
		for _, key := range f.Keys() {
			value := f.Get(key)
			if config.IsSecret(key) {
				value = config.Redact(value)
			}
			fmt.Fprintf(out, "%s=%s\n", key, value)
		}
	}
	fmt.Fprintf(out, "loaded %d variables from %s\n", f.Len(), g.EnvPath())

	if opts.NoAzd {
		return nil
	}
	synced, err := config.SyncAzd(ctx, runner, f, config.AzdSyncOptions{
		EnvName: env.AzdEnvName,
		Verbose: opts.Verbose,
	}, klog.NewKlogr())
	if err != nil {
		return err
	}
	if synced {
		fmt.Fprintln(out, "azd environment updated")
	}
	return nil
}

func NewCmdEnvInit(g *options.GlobalConfig) *cobra.Command {
	opts := options.NewEnvInitConfig()
	cmd := &cobra.Command{
		Use:               "init",
		Short:             "Write a .env template with defaults and a generated RKE2 token",
		Example:           "rke2az env init",
		DisableAutoGenTag: true,
		Run: func(cmd *cobra.Command, args []string) {
			path := g.EnvPath()
			err := runEnvInit(path, opts)
			term.ExitOnError(err)
			term.Successln("Wrote", path, "- fill in the Azure credentials and SSH_PUBLIC_KEY")
		},
	}
	opts.AddFlags(cmd.Flags())

	return cmd
}

func runEnvInit(path string, opts *options.EnvInitConfig) error {
	if _, err := os.Stat(path); err == nil && !opts.Force {
		return errors.Errorf("%s already exists, use --force to overwrite it", path)
	}
	return config.NewTemplate().Save(path)
}

func NewCmdEnvShow(g *options.GlobalConfig, out io.Writer) *cobra.Command {
	opts := options.NewEnvShowConfig()
	cmd := &cobra.Command{
		Use:               "show",
		Short:             "Print the resolved environment with secrets redacted",
		Example:           "rke2az env show -o yaml",
		DisableAutoGenTag: true,
		Run: func(cmd *cobra.Command, args []string) {
			if err := opts.ValidateFlags(cmd, args); err != nil {
				term.Fatalln(err)
			}
			_, env, err := loadEnv(g)
			if err != nil {
				term.Fatalln(err)
			}
			term.ExitOnError(printEnv(env, opts.Output, out))
		},
	}
	opts.AddFlags(cmd.Flags())

	return cmd
}

func printEnv(env *config.Environment, format string, out io.Writer) error {
	values := env.Redacted()
	switch format {
	case "json":
		return (&printer.JSONPrinter{}).PrintObj(values, out)
	case "yaml":
		data, err := yaml.Marshal(values)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, values[k]})
	}
	return printer.PrintTable(out, []string{"KEY", "VALUE"}, rows)
}
