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
	"bytes"
	"encoding/json"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/graymeta/stow"
	"github.com/pkg/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	api "pharmer.dev/rke2az/apis/v1alpha1"
	"pharmer.dev/rke2az/store"
)

type deploymentFileStore struct {
	container stow.Container
	prefix    string
}

var _ store.DeploymentStore = &deploymentFileStore{}

func (s *deploymentFileStore) resourceHome() string {
	return path.Join(s.prefix, api.ResourceTypeDeployment)
}

func (s *deploymentFileStore) resourceID(name string) string {
	return path.Join(s.resourceHome(), name+".json")
}

func (s *deploymentFileStore) List(opts metav1.ListOptions) ([]*api.Deployment, error) {
	result := make([]*api.Deployment, 0)
	cursor := stow.CursorStart
	for {
		items, next, err := s.container.Items(s.resourceHome()+"/", cursor, pageSize)
		if isNotExist(err) {
			return result, nil
		} else if err != nil {
			return nil, errors.Errorf("failed to list deployments. Reason: %v", err)
		}
		for _, item := range items {
			if !strings.HasSuffix(item.Name(), ".json") {
				continue
			}
			obj, err := s.read(item)
			if err != nil {
				return nil, errors.Errorf("failed to list deployments. Reason: %v", err)
			}
			result = append(result, obj)
		}
		cursor = next
		if stow.IsCursorEnd(cursor) {
			break
		}
	}
	return result, nil
}

func (s *deploymentFileStore) read(item stow.Item) (*api.Deployment, error) {
	r, err := item.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var obj api.Deployment
	if err = json.NewDecoder(r).Decode(&obj); err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", item.Name())
	}
	return &obj, nil
}

func (s *deploymentFileStore) item(name string) (stow.Item, error) {
	item, err := s.container.Item(s.resourceID(name))
	if isNotExist(err) {
		return nil, errors.Wrapf(store.ErrNotFound, "deployment `%s`", name)
	}
	return item, err
}

func (s *deploymentFileStore) write(obj *api.Deployment) error {
	data, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return err
	}
	_, err = s.container.Put(s.resourceID(obj.Name), bytes.NewBuffer(data), int64(len(data)), nil)
	return err
}

func (s *deploymentFileStore) Get(name string) (*api.Deployment, error) {
	if name == "" {
		return nil, errors.New("missing deployment name")
	}
	item, err := s.item(name)
	if err != nil {
		return nil, err
	}
	return s.read(item)
}

func (s *deploymentFileStore) Create(obj *api.Deployment) (*api.Deployment, error) {
	if obj == nil {
		return nil, errors.New("missing deployment")
	} else if obj.Name == "" {
		return nil, errors.New("missing deployment name")
	}
	err := api.AssignTypeKind(obj)
	if err != nil {
		return nil, err
	}

	_, err = s.item(obj.Name)
	if err == nil {
		return nil, errors.Wrapf(store.ErrAlreadyExists, "deployment `%s`", obj.Name)
	} else if !store.IsNotFound(err) {
		return nil, err
	}

	if obj.UID == "" {
		obj.UID = types.UID(uuid.New().String())
	}
	if obj.CreationTimestamp.IsZero() {
		obj.CreationTimestamp = metav1.Now()
	}
	return obj, s.write(obj)
}

func (s *deploymentFileStore) Update(obj *api.Deployment) (*api.Deployment, error) {
	if obj == nil {
		return nil, errors.New("missing deployment")
	} else if obj.Name == "" {
		return nil, errors.New("missing deployment name")
	}
	err := api.AssignTypeKind(obj)
	if err != nil {
		return nil, err
	}

	if _, err = s.item(obj.Name); err != nil {
		return nil, err
	}
	return obj, s.write(obj)
}

func (s *deploymentFileStore) Delete(name string) error {
	if name == "" {
		return errors.New("missing deployment name")
	}
	item, err := s.item(name)
	if err != nil {
		return err
	}
	return s.container.RemoveItem(item.ID())
}

func (s *deploymentFileStore) UpdateStatus(obj *api.Deployment) (*api.Deployment, error) {
	if obj == nil {
		return nil, errors.New("missing deployment")
	} else if obj.Name == "" {
		return nil, errors.New("missing deployment name")
	}

	existing, err := s.Get(obj.Name)
	if err != nil {
		return nil, err
	}
	existing.Status = obj.Status
	return existing, s.write(existing)
}
