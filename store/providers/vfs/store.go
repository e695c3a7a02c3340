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
package vfs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/graymeta/stow"
	"github.com/graymeta/stow/local"
	"github.com/pkg/errors"
	"pharmer.dev/rke2az/store"
)

const (
	UID      = "vfs"
	pageSize = 50
)

func init() {
	store.RegisterProvider(UID, func(ctx context.Context, cfg store.Config) (store.Interface, error) {
		if cfg.Dir == "" {
			return nil, errors.New("missing store directory")
		}
		dir, err := filepath.Abs(cfg.Dir)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(dir), 0755); err != nil {
			return nil, errors.Wrapf(err, "failed to create %s", filepath.Dir(dir))
		}
		loc, err := stow.Dial(local.Kind, stow.ConfigMap{
			local.ConfigKeyPath: filepath.Dir(dir),
		})
		if err != nil {
			return nil, errors.Errorf("failed to connect to local storage. Reason: %v", err)
		}
		name := filepath.Base(dir)
		container, err := loc.Container(name)
		if err != nil {
			container, err = loc.CreateContainer(name)
			if err != nil {
				return nil, errors.Errorf("failed to open storage container `%s`. Reason: %v", name, err)
			}
		}
		return New(container, ""), nil
	})
}

type FileStore struct {
	container stow.Container
	prefix    string
}

var _ store.Interface = &FileStore{}

func New(container stow.Container, prefix string) store.Interface {
	return &FileStore{container: container, prefix: prefix}
}

func (s *FileStore) Deployments() store.DeploymentStore {
	return &deploymentFileStore{container: s.container, prefix: s.prefix}
}

func isNotExist(err error) bool {
	return err == stow.ErrNotFound || os.IsNotExist(errors.Cause(err))
}
