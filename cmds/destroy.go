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

	"github.com/appscode/go/term"
	"github.com/spf13/cobra"
	"gopkg.in/AlecAivazis/survey.v1"
	"pharmer.dev/rke2az/cloud"
	"pharmer.dev/rke2az/cmds/options"
)

func NewCmdDestroy(g *options.GlobalConfig) *cobra.Command {
	opts := options.NewDestroyConfig()
	cmd := &cobra.Command{
		Use:               "destroy",
		Short:             "Destroy the infrastructure of the environment",
		Example:           "rke2az destroy --purge-resource-group --yes",
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
			if !opts.Yes {
				ok, err := confirmDestroy(s.Env.ResourceGroup, opts.PurgeResourceGroup)
				term.ExitOnError(err)
				if !ok {
					term.Infoln("Aborted")
					return
				}
			}
			err = cloud.Destroy(ctx, s, cloud.DestroyOptions{
				Parallelism:        opts.Parallelism,
				KeepFiles:          opts.KeepFiles,
				PurgeResourceGroup: opts.PurgeResourceGroup,
			})
			term.ExitOnError(err)
			term.Successln("Environment", s.Env.Environment, "destroyed")
		},
	}
	opts.AddFlags(cmd.Flags())

	return cmd
}

func confirmDestroy(resourceGroup string, purge bool) (bool, error) {
	msg := fmt.Sprintf("Destroy every terraform managed resource in %s?", resourceGroup)
	if purge {
		msg = fmt.Sprintf("Destroy and delete the resource group %s?", resourceGroup)
	}
	ok := false
	prompt := &survey.Confirm{
		Message: msg,
		Default: false,
	}
	err := survey.AskOne(prompt, &ok, nil)
	return ok, err
}
