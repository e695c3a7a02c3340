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
package ansible

import (
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
)

const ConfigFileName = "ansible.cfg"

// Config is a read-only view of ansible.cfg.
type Config struct {
	path string
	file *ini.File
}

func LoadConfig(path string) (*Config, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		AllowBooleanKeys:    true,
		IgnoreInlineComment: false,
	}, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", path)
	}
	return &Config{path: path, file: f}, nil
}

func (c *Config) defaults() *ini.Section {
	return c.file.Section("defaults")
}

// Inventory returns the configured inventory path, resolved against the
// directory holding ansible.cfg.
func (c *Config) Inventory() string {
	inv := c.defaults().Key("inventory").String()
	if inv == "" || filepath.IsAbs(inv) {
		return inv
	}
	return filepath.Join(filepath.Dir(c.path), inv)
}

func (c *Config) HostKeyChecking() bool {
	return c.defaults().Key("host_key_checking").MustBool(true)
}

func (c *Config) RemoteUser() string {
	return c.defaults().Key("remote_user").String()
}

func (c *Config) Forks() int {
	return c.defaults().Key("forks").MustInt(0)
}

// Check compares ansible.cfg with the generated inventory and returns
// warnings; none of them stop a deployment.
func (c *Config) Check(inventoryPath string, inv *Inventory) []string {
	var warnings []string
	if configured := c.Inventory(); configured == "" {
		warnings = append(warnings, "ansible.cfg does not set [defaults] inventory")
	} else if abs(configured) != abs(inventoryPath) {
		warnings = append(warnings, "ansible.cfg inventory "+configured+" differs from generated "+inventoryPath)
	}
	if inv != nil {
		if c.HostKeyChecking() && inv.Vars.SSHCommonArgs == DefaultSSHCommonArgs {
			warnings = append(warnings, "ansible.cfg enables host_key_checking while the inventory disables strict host key checking")
		}
		if u := c.RemoteUser(); u != "" && u != inv.Vars.User {
			warnings = append(warnings, "ansible.cfg remote_user "+u+" differs from inventory ansible_user "+inv.Vars.User)
		}
	}
	return warnings
}

func abs(p string) string {
	if a, err := filepath.Abs(p); err == nil {
		return a
	}
	return p
}
