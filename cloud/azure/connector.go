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
package azure

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Azure/azure-sdk-for-go/services/compute/mgmt/2018-10-01/compute"
	"github.com/Azure/azure-sdk-for-go/services/resources/mgmt/2016-06-01/subscriptions"
	"github.com/Azure/azure-sdk-for-go/services/resources/mgmt/2017-05-10/resources"
	"github.com/Azure/go-autorest/autorest"
	"github.com/Azure/go-autorest/autorest/adal"
	"github.com/Azure/go-autorest/autorest/azure"
	"github.com/Azure/go-autorest/autorest/to"
	"github.com/pkg/errors"
	"pharmer.dev/rke2az/config"
)

// Credential is a service principal with access to one subscription.
type Credential struct {
	TenantID       string
	SubscriptionID string
	ClientID       string
	ClientSecret   string
}

func CredentialFromEnv(env *config.Environment) Credential {
	return Credential{
		TenantID:       env.TenantID,
		SubscriptionID: env.SubscriptionID,
		ClientID:       env.ClientID,
		ClientSecret:   env.ClientSecret,
	}
}

func (c Credential) Validate() error {
	var missing []string
	if c.TenantID == "" {
		missing = append(missing, config.ARMTenantID)
	}
	if c.SubscriptionID == "" {
		missing = append(missing, config.AzureSubscriptionID)
	}
	if c.ClientID == "" {
		missing = append(missing, config.ARMClientID)
	}
	if c.ClientSecret == "" {
		missing = append(missing, config.ARMClientSecret)
	}
	if len(missing) > 0 {
		return config.MissingKeysError{Keys: missing}
	}
	return nil
}

type VirtualMachine struct {
	Name              string
	Location          string
	Size              string
	ProvisioningState string
	PowerState        string
}

type Connector struct {
	subscriptionID string

	subscriptionsClient subscriptions.Client
	groupsClient        resources.GroupsClient
	vmClient            compute.VirtualMachinesClient
}

func NewConnector(ctx context.Context, cred Credential) (*Connector, error) {
	if err := cred.Validate(); err != nil {
		return nil, err
	}
	baseURI := azure.PublicCloud.ResourceManagerEndpoint
	oauthConfig, err := adal.NewOAuthConfig(azure.PublicCloud.ActiveDirectoryEndpoint, cred.TenantID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare azure oauth config")
	}
	spt, err := adal.NewServicePrincipalToken(*oauthConfig, cred.ClientID, cred.ClientSecret, baseURI)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create service principal token")
	}
	return newConnector(baseURI, cred.SubscriptionID, autorest.NewBearerAuthorizer(spt), nil), nil
}

func newConnector(baseURI, subscriptionID string, authorizer autorest.Authorizer, sender autorest.Sender) *Connector {
	userAgent := fmt.Sprintf("rke2az Azure-SDK-for-Go/%s", compute.Version())
	configure := func(c *autorest.Client) {
		c.Authorizer = authorizer
		if sender != nil {
			c.Sender = sender
		}
		_ = c.AddToUserAgent(userAgent)
	}

	subscriptionsClient := subscriptions.NewClientWithBaseURI(baseURI)
	configure(&subscriptionsClient.Client)

	groupsClient := resources.NewGroupsClientWithBaseURI(baseURI, subscriptionID)
	configure(&groupsClient.Client)

	vmClient := compute.NewVirtualMachinesClientWithBaseURI(baseURI, subscriptionID)
	configure(&vmClient.Client)

	return &Connector{
		subscriptionID:      subscriptionID,
		subscriptionsClient: subscriptionsClient,
		groupsClient:        groupsClient,
		vmClient:            vmClient,
	}
}

// CheckSubscription verifies the service principal can read the subscription
// and that it is enabled. It returns the subscription display name.
func (conn *Connector) CheckSubscription(ctx context.Context) (string, error) {
	sub, err := conn.subscriptionsClient.Get(ctx, conn.subscriptionID)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read subscription %s", conn.subscriptionID)
	}
	if sub.State != subscriptions.Enabled {
		return to.String(sub.DisplayName), errors.Errorf("subscription %s is %s", conn.subscriptionID, sub.State)
	}
	return to.String(sub.DisplayName), nil
}

func (conn *Connector) ResourceGroupExists(ctx context.Context, name string) (bool, error) {
	resp, err := conn.groupsClient.CheckExistence(ctx, name)
	if err != nil {
		return false, errors.Wrapf(err, "failed to check resource group %s", name)
	}
	if resp.Response == nil {
		return false, errors.Errorf("no response checking resource group %s", name)
	}
	return resp.StatusCode == http.StatusNoContent, nil
}

func (conn *Connector) ListVirtualMachines(ctx context.Context, resourceGroup string) ([]VirtualMachine, error) {
	var result []VirtualMachine
	page, err := conn.vmClient.List(ctx, resourceGroup)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list virtual machines in %s", resourceGroup)
	}
	for page.NotDone() {
		for _, vm := range page.Values() {
			item := VirtualMachine{
				Name:     to.String(vm.Name),
				Location: to.String(vm.Location),
			}
			if props := vm.VirtualMachineProperties; props != nil {
				item.ProvisioningState = to.String(props.ProvisioningState)
				if props.HardwareProfile != nil {
					item.Size = string(props.HardwareProfile.VMSize)
				}
			}
			view, err := conn.vmClient.InstanceView(ctx, resourceGroup, item.Name)
			if err == nil {
				item.PowerState = powerState(view.Statuses)
			}
			result = append(result, item)
		}
		if err := page.Next(); err != nil {
			return nil, errors.Wrapf(err, "failed to list virtual machines in %s", resourceGroup)
		}
	}
	return result, nil
}

// DeleteResourceGroup deletes the group and everything in it, waiting for ARM
// to finish.
func (conn *Connector) DeleteResourceGroup(ctx context.Context, name string) error {
	future, err := conn.groupsClient.Delete(ctx, name)
	if err != nil {
		return errors.Wrapf(err, "failed to delete resource group %s", name)
	}
	if err := future.WaitForCompletionRef(ctx, conn.groupsClient.Client); err != nil {
		return errors.Wrapf(err, "failed waiting for resource group %s deletion", name)
	}
	return nil
}

func powerState(statuses *[]compute.InstanceViewStatus) string {
	if statuses == nil {
		return ""
	}
	for _, s := range *statuses {
		code := to.String(s.Code)
		if strings.HasPrefix(code, "PowerState/") {
			return strings.TrimPrefix(code, "PowerState/")
		}
	}
	return ""
}
