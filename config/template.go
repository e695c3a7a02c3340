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
package config

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// NewTemplate returns a starting .env: required keys left empty except for a
// freshly generated RKE2_TOKEN, optional keys set to their defaults.
func NewTemplate() *File {
	f := NewFile()
	f.Set(AzureSubscriptionID, "")
	f.Set(ARMClientID, "")
	f.Set(ARMClientSecret, "")
	f.Set(ARMTenantID, "")
	f.Set(SSHPublicKey, "")
	f.Set(RKE2Token, GenerateToken())

	f.Set(AzureLocation, DefaultLocation)
	f.Set(VMCount, strconv.Itoa(DefaultVMCount))
	f.Set(ProjectName, DefaultProjectName)
	f.Set(EnvironmentName, DefaultEnvironment)
	f.Set(ResourceGroupName, DefaultResourceGroup(DefaultProjectName, DefaultEnvironment))
	f.Set(AdminUsername, DefaultAdminUsername)
	f.Set(SSHPrivateKeyPath, DefaultSSHPrivateKeyPath)
	return f
}

// GenerateToken returns a random 32 character cluster join token.
func GenerateToken() string {
	return strings.Replace(uuid.New().String(), "-", "", -1)
}
