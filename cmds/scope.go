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
package cmds

import (
	"context"

	"pharmer.dev/rke2az/cloud"
	"pharmer.dev/rke2az/cmds/options"
	"pharmer.dev/rke2az/config"
	"pharmer.dev/rke2az/store"
)

// loadEnv reads the env file, exports its keys like `source .env` would and
// resolves the environment from it.
func loadEnv(g *options.GlobalConfig) (*config.File, *config.Environment, error) {
	f, err := config.LoadFile(g.EnvPath())
	if err != nil {
		return nil, nil, err
	}
	if err := f.Export(nil); err != nil {
		return nil, nil, err
	}
	env, err := config.FromFile(f)
	if err != nil {
		return f, nil, err
	}
	return f, env, nil
}

func getStoreProvider(ctx context.Context, g *options.GlobalConfig) (store.Interface, error) {
	return store.GetProvider(ctx, g.Store, store.Config{Dir: g.StorePath()})
}

func newScope(ctx context.Context, g *options.GlobalConfig) (*cloud.Scope, error) {
	_, env, err := loadEnv(g)
	if err != nil {
		return nil, err
	}
	storeProvider, err := getStoreProvider(ctx, g)
	if err != nil {
		return nil, err
	}
	return cloud.NewScope(cloud.NewScopeParams{
		Env:           env,
		Paths:         cloud.NewPaths(g.Root),
		StoreProvider: storeProvider,
	}), nil
}
