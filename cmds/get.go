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
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	api "pharmer.dev/rke2az/apis/v1alpha1"
	"pharmer.dev/rke2az/cmds/options"
	"pharmer.dev/rke2az/store"
	"pharmer.dev/rke2az/utils/printer"
)

func newCmdGet(g *options.GlobalConfig, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "get",
		DisableAutoGenTag: true,
		Run:               func(cmd *cobra.Command, args []string) {},
	}
	cmd.AddCommand(NewCmdGetDeployment(g, out))
	return cmd
}

func NewCmdGetDeployment(g *options.GlobalConfig, out io.Writer) *cobra.Command {
	opts := options.NewDeploymentGetConfig()
	cmd := &cobra.Command{
		Use: api.ResourceNameDeployment,
		Aliases: []string{
			api.ResourceTypeDeployment,
			api.ResourceKindDeployment,
		},
		Short:             "Get recorded deployments",
		Example:           "rke2az get deployments -o wide",
		DisableAutoGenTag: true,
		Run: func(cmd *cobra.Command, args []string) {
			if err := opts.ValidateFlags(cmd, args); err != nil {
				term.Fatalln(err)
			}
			storeProvider, err := getStoreProvider(context.Background(), g)
			if err != nil {
				term.Fatalln(err)
			}
			term.ExitOnError(runGetDeployment(storeProvider.Deployments(), opts, out))
		},
	}
	opts.AddFlags(cmd.Flags())

	return cmd
}

func runGetDeployment(deploymentStore store.DeploymentStore, opts *options.DeploymentGetConfig, out io.Writer) error {
	rPrinter, err := printer.NewPrinter(opts.Output)
	if err != nil {
		return err
	}
	deployments, err := getDeploymentList(deploymentStore, opts.Deployments)
	if err != nil {
		return err
	}
	for _, d := range deployments {
		if err := rPrinter.PrintObj(d, out); err != nil {
			return err
		}
	}
	if hp, ok := rPrinter.(*printer.HumanReadablePrinter); ok {
		return hp.Flush(out)
	}
	return nil
}

func getDeploymentList(deploymentStore store.DeploymentStore, names []string) ([]*api.Deployment, error) {
	if len(names) == 0 {
		return deploymentStore.List(metav1.ListOptions{})
	}
	var deployments []*api.Deployment
	for _, name := range names {
		d, err := deploymentStore.Get(name)
		if err != nil {
			return nil, err
		}
		deployments = append(deployments, d)
	}
	return deployments, nil
}
