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
	"path/filepath"

	"github.com/spf13/pflag"
	"pharmer.dev/rke2az/store/providers/vfs"
)

const (
	DefaultEnvFile  = ".env"
	DefaultStoreDir = ".rke2az"
)

// GlobalConfig holds the persistent flags every command shares.
type GlobalConfig struct {
	Root     string
	EnvFile  string
	Store    string
	StoreDir string
}

func NewGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		Root:    ".",
		EnvFile: DefaultEnvFile,
		Store:   vfs.UID,
	}
}

func (c *GlobalConfig) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Root, "root", c.Root, "Repository root containing terraform/ and ansible/")
	fs.StringVar(&c.EnvFile, "env-file", c.EnvFile, "Path to the .env file, relative to --root")
	fs.StringVar(&c.Store, "store", c.Store, "Deployment record store provider")
	fs.StringVar(&c.StoreDir, "store-dir", c.StoreDir, "Directory for deployment records (default <root>/.rke2az)")
}

func (c *GlobalConfig) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

func (c *GlobalConfig) EnvPath() string {
	return c.resolve(c.EnvFile)
}

func (c *GlobalConfig) StorePath() string {
	if c.StoreDir == "" {
		return c.resolve(DefaultStoreDir)
	}
	return c.resolve(c.StoreDir)
}
