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
	api "pharmer.dev/rke2az/apis/v1alpha1"
	"pharmer.dev/rke2az/cmds/options"
	"pharmer.dev/rke2az/store"
	"pharmer.dev/rke2az/utils/describer"
)

func newCmdDescribe(g *options.GlobalConfig, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "describe",
		Short:             "Describe recorded resources",
		DisableAutoGenTag: true,
		Run:               func(cmd *cobra.Command, args []string) {},
	}
	cmd.AddCommand(NewCmdDescribeDeployment(g, out))
	return cmd
}

func NewCmdDescribeDeployment(g *options.GlobalConfig, out io.Writer) *cobra.Command {
	opts := options.NewDeploymentGetConfig()
	cmd := &cobra.Command{
		Use: api.ResourceNameDeployment,
		Aliases: []string{
			api.ResourceTypeDeployment,
			api.ResourceKindDeployment,
		},
		Short:             "Describe a recorded deployment",
		Example:           "rke2az describe deployment dev",
		DisableAutoGenTag: true,
		Run: func(cmd *cobra.Command, args []string) {
			if err := opts.ValidateFlags(cmd, args); err != nil {
				term.Fatalln(err)
			}
			storeProvider, err := getStoreProvider(context.Background(), g)
			term.ExitOnError(err)
			term.ExitOnError(runDescribeDeployment(storeProvider.Deployments(), opts.Deployments, out))
		},
	}
	return cmd
}

func runDescribeDeployment(deploymentStore store.DeploymentStore, names []string, out io.Writer) error {
	rDescriber := describer.NewDescriber()
	deployments, err := getDeploymentList(deploymentStore, names)
	if err != nil {
		return err
	}
	for i, d := range deployments {
		s, err := rDescriber.Describe(d)
		if err != nil {
			return err
		}
		if i == 0 {
			fmt.Fprint(out, s)
		} else {
			fmt.Fprintf(out, "\n\n%s", s)
		}
	}
	return nil
}
