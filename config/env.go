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
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh"
	"k8s.io/client-go/util/homedir"
)

const (
	AzureSubscriptionID = "AZURE_SUBSCRIPTION_ID"
	ARMClientID         = "ARM_CLIENT_ID"
	ARMClientSecret     = "ARM_CLIENT_SECRET"
	SSHPublicKey        = "SSH_PUBLIC_KEY"
	RKE2Token           = "RKE2_TOKEN"

	AzureLocation     = "AZURE_LOCATION"
	VMCount           = "VM_COUNT"
	ResourceGroupName = "RESOURCE_GROUP_NAME"
	ProjectName       = "PROJECT_NAME"
	AdminUsername     = "ADMIN_USERNAME"
	EnvironmentName   = "ENVIRONMENT"

	ARMTenantID       = "ARM_TENANT_ID"
	ARMSubscriptionID = "ARM_SUBSCRIPTION_ID"
	SSHPrivateKeyPath = "SSH_PRIVATE_KEY_PATH"
	AzureEnvName      = "AZURE_ENV_NAME"
)

const (
	DefaultLocation      = "eastus"
	DefaultVMCount       = 3
	DefaultProjectName   = "rke2"
	DefaultEnvironment   = "dev"
	DefaultAdminUsername = "azureuser"

	DefaultSSHPrivateKeyPath = "~/.ssh/id_rsa"

	minTokenLength = 16
)

// RequiredKeys lists the keys every .env must define, in the order they are
// reported when missing.
var RequiredKeys = []string{
	AzureSubscriptionID,
	ARMClientID,
	ARMClientSecret,
	SSHPublicKey,
	RKE2Token,
}

var secretKeys = map[string]bool{
	ARMClientSecret: true,
	RKE2Token:       true,
}

var nameRE = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

type MissingKeysError struct {
	Keys []string
}

func (e MissingKeysError) Error() string {
	return "missing required variables: " + strings.Join(e.Keys, ", ")
}

func IsMissingKeys(err error) bool {
	_, ok := errors.Cause(err).(MissingKeysError)
	return ok
}

// Environment is the resolved deployment configuration: required keys plus
// optional keys with their defaults applied.
type Environment struct {
	SubscriptionID string
	ClientID       string
	ClientSecret   string
	TenantID       string
	SSHPublicKey   string
	RKE2Token      string

	Location      string
	VMCount       int
	ResourceGroup string
	ProjectName   string
	AdminUsername string
	Environment   string

	SSHPrivateKeyPath string
	AzdEnvName        string
}

type LookupFunc func(key string) (string, bool)

// FromLookup resolves the environment. Missing required keys are reported all
// at once; an empty value counts as missing.
func FromLookup(lookup LookupFunc) (*Environment, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}
	getOr := func(key, def string) string {
		if v := get(key); v != "" {
			return v
		}
		return def
	}

	var missing []string
	for _, k := range RequiredKeys {
		if get(k) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return nil, MissingKeysError{Keys: missing}
	}

	env := &Environment{
		SubscriptionID:    get(AzureSubscriptionID),
		ClientID:          get(ARMClientID),
		ClientSecret:      get(ARMClientSecret),
		TenantID:          get(ARMTenantID),
		SSHPublicKey:      get(SSHPublicKey),
		RKE2Token:         get(RKE2Token),
		Location:          getOr(AzureLocation, DefaultLocation),
		ProjectName:       getOr(ProjectName, DefaultProjectName),
		AdminUsername:     getOr(AdminUsername, DefaultAdminUsername),
		Environment:       getOr(EnvironmentName, DefaultEnvironment),
		SSHPrivateKeyPath: expandHome(getOr(SSHPrivateKeyPath, DefaultSSHPrivateKeyPath)),
		AzdEnvName:        get(AzureEnvName),
	}
	env.ResourceGroup = getOr(ResourceGroupName, DefaultResourceGroup(env.ProjectName, env.Environment))

	count := getOr(VMCount, strconv.Itoa(DefaultVMCount))
	n, err := strconv.Atoi(count)
	if err != nil {
		return nil, errors.Errorf("%s must be an integer, found %q", VMCount, count)
	}
	env.VMCount = n
	return env, nil
}

// FromOS resolves the environment from the process environment.
func FromOS() (*Environment, error) {
	return FromLookup(os.LookupEnv)
}

// FromFile resolves the environment from a parsed .env file, falling back to
// the process environment for keys the file does not define.
func FromFile(f *File) (*Environment, error) {
	return FromLookup(func(key string) (string, bool) {
		if v, ok := f.Lookup(key); ok {
			return v, true
		}
		return os.LookupEnv(key)
	})
}

func DefaultResourceGroup(project, environment string) string {
	return fmt.Sprintf("rg-%s-%s", project, environment)
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		return filepath.Join(homedir.HomeDir(), strings.TrimPrefix(p, "~"))
	}
	return p
}

// Validate checks value formats. It returns every problem found, not just the
// first.
func (e *Environment) Validate() []error {
	var errs []error
	if e.VMCount < 1 {
		errs = append(errs, errors.Errorf("%s must be at least 1, found %d", VMCount, e.VMCount))
	}
	if _, err := uuid.Parse(e.SubscriptionID); err != nil {
		errs = append(errs, errors.Errorf("%s is not a valid UUID", AzureSubscriptionID))
	}
	if _, err := uuid.Parse(e.ClientID); err != nil {
		errs = append(errs, errors.Errorf("%s is not a valid UUID", ARMClientID))
	}
	if e.TenantID != "" {
		if _, err := uuid.Parse(e.TenantID); err != nil {
			errs = append(errs, errors.Errorf("%s is not a valid UUID", ARMTenantID))
		}
	}
	if _, _, _, _, err := ssh.ParseAuthorizedKey([]byte(e.SSHPublicKey)); err != nil {
		errs = append(errs, errors.Wrapf(err, "%s is not a valid OpenSSH public key", SSHPublicKey))
	}
	if len(e.RKE2Token) < minTokenLength {
		errs = append(errs, errors.Errorf("%s must be at least %d characters", RKE2Token, minTokenLength))
	}
	if !nameRE.MatchString(e.ProjectName) {
		errs = append(errs, errors.Errorf("%s %q must contain only lowercase letters, digits and dashes", ProjectName, e.ProjectName))
	}
	if !nameRE.MatchString(e.Environment) {
		errs = append(errs, errors.Errorf("%s %q must contain only lowercase letters, digits and dashes", EnvironmentName, e.Environment))
	}
	if e.AdminUsername == "root" || e.AdminUsername == "admin" {
		errs = append(errs, errors.Errorf("%s %q is reserved by Azure", AdminUsername, e.AdminUsername))
	}
	return errs
}

// Workers is the number of worker nodes; one VM is always the control plane.
func (e *Environment) Workers() int {
	if e.VMCount < 1 {
		return 0
	}
	return e.VMCount - 1
}

// TerraformEnv returns the variables terraform reads from the environment.
// Secrets go here instead of the generated tfvars file.
func (e *Environment) TerraformEnv() map[string]string {
	vars := map[string]string{
		ARMSubscriptionID:       e.SubscriptionID,
		ARMClientID:             e.ClientID,
		ARMClientSecret:         e.ClientSecret,
		"TF_VAR_ssh_public_key": e.SSHPublicKey,
		"TF_VAR_rke2_token":     e.RKE2Token,
	}
	if e.TenantID != "" {
		vars[ARMTenantID] = e.TenantID
	}
	return vars
}

func (e *Environment) ExportTerraformEnv(setenv func(key, value string) error) error {
	if setenv == nil {
		setenv = os.Setenv
	}
	for k, v := range e.TerraformEnv() {
		if err := setenv(k, v); err != nil {
			return errors.Wrapf(err, "failed to export %s", k)
		}
	}
	return nil
}

// Redacted returns the resolved values with secrets masked.
func (e *Environment) Redacted() map[string]string {
	return map[string]string{
		AzureSubscriptionID: e.SubscriptionID,
		ARMClientID:         e.ClientID,
		ARMClientSecret:     Redact(e.ClientSecret),
		ARMTenantID:         e.TenantID,
		SSHPublicKey:        abbreviate(e.SSHPublicKey),
		RKE2Token:           Redact(e.RKE2Token),
		AzureLocation:       e.Location,
		VMCount:             strconv.Itoa(e.VMCount),
		ResourceGroupName:   e.ResourceGroup,
		ProjectName:         e.ProjectName,
		AdminUsername:       e.AdminUsername,
		EnvironmentName:     e.Environment,
		SSHPrivateKeyPath:   e.SSHPrivateKeyPath,
	}
}

func IsSecret(key string) bool {
	return secretKeys[key]
}

func Redact(v string) string {
	if v == "" {
		return ""
	}
	return "********"
}

func abbreviate(v string) string {
	if len(v) <= 32 {
		return v
	}
	return v[:32] + "..."
}
