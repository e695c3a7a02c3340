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
package v1alpha1

import (
	"github.com/pkg/errors"
)

const (
	GroupName  = "rke2az.pharmer.dev"
	Version    = "v1alpha1"
	APIVersion = GroupName + "/" + Version
)

func AssignTypeKind(v interface{}) error {
	switch u := v.(type) {
	case *Deployment:
		if u.APIVersion == "" {
			u.APIVersion = APIVersion
		}
		u.Kind = ResourceKindDeployment
		return nil
	}
	return errors.New("unknown api object type")
}
