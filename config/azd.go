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
	"context"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"pharmer.dev/rke2az/utils/exec"
)

type AzdSyncOptions struct {
	// EnvName selects the azd environment (-e). Empty means the default one.
	EnvName string
	Verbose bool
}

// SyncAzd copies every key of the .env file into the azd environment. A
// missing azd binary is not an error: the sync is skipped with a warning.
// It reports whether the sync ran.
func SyncAzd(ctx context.Context, runner exec.Runner, file *File, opts AzdSyncOptions, log logr.Logger) (bool, error) {
	if _, err := runner.LookPath("azd"); err != nil {
		log.Info("azd not found in PATH, skipping azd environment sync")
		return false, nil
	}

	for _, key := range file.Keys() {
		args := []string{"env", "set", key, file.Get(key)}
		if opts.EnvName != "" {
			args = append(args, "-e", opts.EnvName)
		}
		if opts.Verbose {
			value := file.Get(key)
			if IsSecret(key) {
				value = Redact(value)
			}
			log.Info("azd env set", "key", key, "value", value)
		}
		// Output keeps azd's stderr on the returned ExitError.
		_, err := runner.Output(ctx, exec.Command{
			Name:   "azd",
			Args:   args,
			Secret: true,
		})
		if err != nil {
			return true, errors.Wrapf(err, "failed to set %s in azd environment", key)
		}
	}
	log.Info("synced azd environment", "keys", file.Len())
	return true, nil
}
