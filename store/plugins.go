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
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Config selects where a provider keeps its records.
type Config struct {
	// Dir is the local directory used by the vfs provider.
	Dir string
}

// Factory is a function that returns a store.Interface.
type Factory func(ctx context.Context, cfg Config) (Interface, error)

// All registered store providers.
var (
	providersMutex sync.Mutex
	providers      = make(map[string]Factory)
)

// RegisterProvider registers a store.Factory by name. This
// is expected to happen during app startup.
func RegisterProvider(name string, factory Factory) {
	providersMutex.Lock()
	defer providersMutex.Unlock()
	if _, found := providers[name]; found {
		klog.Fatalf("Store provider %q was registered twice", name)
	}
	klog.V(1).Infof("Registered store provider %q", name)
	providers[name] = factory
}

// IsProvider returns true if name corresponds to an already registered
// store provider.
func IsProvider(name string) bool {
	providersMutex.Lock()
	defer providersMutex.Unlock()
	_, found := providers[name]
	return found
}

// Providers returns the sorted names of all registered store providers.
func Providers() []string {
	providersMutex.Lock()
	defer providersMutex.Unlock()
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetProvider creates an instance of the named store provider. Unknown names
// are an error.
func GetProvider(ctx context.Context, name string, cfg Config) (Interface, error) {
	providersMutex.Lock()
	f, found := providers[name]
	providersMutex.Unlock()
	if !found {
		return nil, errors.Errorf("unknown store provider %q", name)
	}
	return f(ctx, cfg)
}
