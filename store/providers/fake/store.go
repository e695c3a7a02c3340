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
	"context"
	"sync"

	api "pharmer.dev/rke2az/apis/v1alpha1"
	"pharmer.dev/rke2az/store"
)

const (
	UID = "fake"
)

func init() {
	store.RegisterProvider(UID, func(ctx context.Context, cfg store.Config) (store.Interface, error) {
		return New(), nil
	})
}

type FakeStore struct {
	deployments store.DeploymentStore

	mux sync.Mutex
}

var _ store.Interface = &FakeStore{}

func New() *FakeStore {
	return &FakeStore{}
}

func (s *FakeStore) Deployments() store.DeploymentStore {
	s.mux.Lock()
	defer s.mux.Unlock()

	if s.deployments == nil {
		s.deployments = &deploymentFileStore{container: map[string]*api.Deployment{}}
	}
	return s.deployments
}
