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
package store

import (
	"github.com/pkg/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	api "pharmer.dev/rke2az/apis/v1alpha1"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

func IsNotFound(err error) bool {
	return errors.Cause(err) == ErrNotFound
}

func IsAlreadyExists(err error) bool {
	return errors.Cause(err) == ErrAlreadyExists
}

type Interface interface {
	Deployments() DeploymentStore
}

type DeploymentStore interface {
	List(opts metav1.ListOptions) ([]*api.Deployment, error)
	Get(name string) (*api.Deployment, error)
	Create(obj *api.Deployment) (*api.Deployment, error)
	Update(obj *api.Deployment) (*api.Deployment, error)
	Delete(name string) error
	UpdateStatus(obj *api.Deployment) (*api.Deployment, error)
}

// Apply creates the record or replaces the existing one.
func Apply(s DeploymentStore, obj *api.Deployment) (*api.Deployment, error) {
	existing, err := s.Get(obj.Name)
	if IsNotFound(err) {
		return s.Create(obj)
	} else if err != nil {
		return nil, err
	}
	obj.UID = existing.UID
	obj.CreationTimestamp = existing.CreationTimestamp
	return s.Update(obj)
}
