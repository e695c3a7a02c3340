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
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"pharmer.dev/rke2az/cloud"
)

type DeployConfig struct {
	SkipTerraform bool
	SkipAnsible   bool
	Parallelism   int
	Forks         int
	Limit         string
	Tags          []string
	Verbose       int
	SSHTimeout    time.Duration
}

func NewDeployConfig() *DeployConfig {
	return &DeployConfig{
		SSHTimeout: cloud.DefaultSSHTimeout,
	}
}

func (c *DeployConfig) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&c.SkipTerraform, "skip-terraform", c.SkipTerraform, "Reuse the existing terraform state")
	fs.BoolVar(&c.SkipAnsible, "skip-ansible", c.SkipAnsible, "Only provision the infrastructure")
	fs.IntVar(&c.Parallelism, "parallelism", c.Parallelism, "Terraform -parallelism, 0 keeps terraform's default")
	fs.IntVar(&c.Forks, "forks", c.Forks, "Ansible --forks, 0 keeps ansible's default")
	fs.StringVar(&c.Limit, "limit", c.Limit, "Limit the playbook to a host pattern")
	fs.StringSliceVar(&c.Tags, "tags", c.Tags, "Only run playbook tasks with these tags")
	fs.IntVar(&c.Verbose, "ansible-verbosity", c.Verbose, "Ansible verbosity level, 1 to 4 adds -v to -vvvv")
	fs.DurationVar(&c.SSHTimeout, "ssh-timeout", c.SSHTimeout, "How long to wait for ssh on every host, 0 skips the wait")
}

func (c *DeployConfig) ValidateFlags(cmd *cobra.Command, args []string) error {
	if c.Parallelism < 0 || c.Forks < 0 {
		return errors.New("--parallelism and --forks must not be negative")
	}
	if c.Verbose < 0 || c.Verbose > 4 {
		return errors.New("--ansible-verbosity must be between 0 and 4")
	}
	if c.SSHTimeout < 0 {
		return errors.New("--ssh-timeout must not be negative")
	}
	return nil
}
