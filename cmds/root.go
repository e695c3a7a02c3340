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
	"flag"
	"io"
	"os"

	v "github.com/appscode/go/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"
	"pharmer.dev/rke2az/cmds/options"
	_ "pharmer.dev/rke2az/store/providers/vfs"
)

func NewRootCmd(in io.Reader, out, errOut io.Writer, version string) *cobra.Command {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	opts := options.NewGlobalConfig()
	rootCmd := &cobra.Command{
		Use:               "rke2az [command]",
		Short:             `rke2az - Deploys RKE2 clusters on Azure with Terraform and Ansible`,
		Version:           version,
		DisableAutoGenTag: true,
		PersistentPreRun: func(c *cobra.Command, args []string) {
			c.Flags().VisitAll(func(flag *pflag.Flag) {
				klog.V(4).Infof("FLAG: --%s=%q", flag.Name, flag.Value)
			})
		},
	}
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	opts.AddFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	// ref: https://github.com/kubernetes/kubernetes/issues/17162#issuecomment-225596212
	flag.CommandLine.Parse([]string{})

	rootCmd.AddCommand(NewCmdEnv(opts, out))
	rootCmd.AddCommand(NewCmdTFVars(opts, out))
	rootCmd.AddCommand(NewCmdInventory(opts, out))
	rootCmd.AddCommand(NewCmdDeploy(opts))
	rootCmd.AddCommand(NewCmdDestroy(opts))
	rootCmd.AddCommand(NewCmdValidate(opts, out))
	rootCmd.AddCommand(NewCmdCheck(opts, out))
	rootCmd.AddCommand(NewCmdFix(opts, out))
	rootCmd.AddCommand(NewCmdHooks(opts))
	rootCmd.AddCommand(newCmdGet(opts, out))
	rootCmd.AddCommand(newCmdDescribe(opts, out))
	rootCmd.AddCommand(NewCmdStatus(opts, out))
	rootCmd.AddCommand(v.NewCmdVersion())

	return rootCmd
}
