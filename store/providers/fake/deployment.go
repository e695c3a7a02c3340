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
package fake

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	api "pharmer.dev/rke2az/apis/v1alpha1"
	"pharmer.dev/rke2az/store"
)

type deploymentFileStore struct {
	container map[string]*api.Deployment

	mux sync.Mutex
}

var _ store.DeploymentStore = &deploymentFileStore{}

func (s *deploymentFileStore) List(opts metav1.ListOptions) ([]*api.Deployment, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	result := make([]*api.Deployment, 0, len(s.container))
	for k := range s.container {
		result = append(result, s.container[k].DeepCopy())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *deploymentFileStore) Get(name string) (*api.Deployment, error) {
	if name == "" {
		return nil, errors.New("missing deployment name")
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	existing, ok := s.container[name]
	if !ok {
		return nil, errors.Wrapf(store.ErrNotFound, "deployment `%s`", name)
	}
	return existing.DeepCopy(), nil
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

	s.mux.Lock()
	defer s.mux.Unlock()

	if _, ok := s.container[obj.Name]; ok {
		return nil, errors.Wrapf(store.ErrAlreadyExists, "deployment `%s`", obj.Name)
	}
	if obj.UID == "" {
		obj.UID = types.UID(uuid.New().String())
	}
	s.container[obj.Name] = obj.DeepCopy()
	return obj, nil
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

	s.mux.Lock()
	defer s.mux.Unlock()

	if _, ok := s.container[obj.Name]; !ok {
		return nil, errors.Wrapf(store.ErrNotFound, "deployment `%s`", obj.Name)
	}
	s.container[obj.Name] = obj.DeepCopy()
	return obj, nil
}

func (s *deploymentFileStore) Delete(name string) error {
	if name == "" {
		return errors.New("missing deployment name")
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	if _, ok := s.container[name]; !ok {
		return errors.Wrapf(store.ErrNotFound, "deployment `%s`", name)
	}
	delete(s.container, name)
	return nil
}

func (s *deploymentFileStore) UpdateStatus(obj *api.Deployment) (*api.Deployment, error) {
	if obj == nil {
		return nil, errors.New("missing deployment")
	} else if obj.Name == "" {
		return nil, errors.New("missing deployment name")
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	existing, ok := s.container[obj.Name]
	if !ok {
		return nil, errors.Wrapf(store.ErrNotFound, "deployment `%s`", obj.Name)
	}
	existing.Status = *obj.Status.DeepCopy()
	return existing.DeepCopy(), nil
}
