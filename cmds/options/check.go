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
package options

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/apimachinery/pkg/util/sets"
	"pharmer.dev/rke2az/lint"
)

type CheckConfig struct {
	Only         []string
	SkipMarkdown bool
}

func NewCheckConfig() *CheckConfig {
	return &CheckConfig{}
}

func (c *CheckConfig) AddFlags(fs *pflag.FlagSet) {
	fs.StringSliceVar(&c.Only, "only", c.Only, "Run only these checks: "+strings.Join(lint.Names, ","))
	fs.BoolVar(&c.SkipMarkdown, "skip-markdown", c.SkipMarkdown, "Skip the markdown check")
}

func (c *CheckConfig) ValidateFlags(cmd *cobra.Command, args []string) error {
	if unknown := c.Selection().Difference(sets.NewString(lint.Names...)); unknown.Len() > 0 {
		return errors.Errorf("unknown checks %v", unknown.List())
	}
	return nil
}

func (c *CheckConfig) Selection() sets.String {
	return sets.NewString(c.Only...)
}

type FixConfig struct {
	Fixer  lint.Fixer
	Paths  []string
	DryRun bool
}

func NewFixConfig() *FixConfig {
	return &FixConfig{}
}

func (c *FixConfig) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&c.DryRun, "dry-run", c.DryRun, "Report what would change without writing files")
}

func (c *FixConfig) ValidateFlags(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errors.New("missing fixer name, one of markdown|ansible|jinja")
	}
	f, err := lint.ParseFixer(args[0])
	if err != nil {
		return err
	}
	c.Fixer = f
	c.Paths = args[1:]
	return nil
}
