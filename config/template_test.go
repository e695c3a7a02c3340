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
	"testing"
)

func TestNewTemplate(t *testing.T) {
	f := NewTemplate()
	if got := f.Keys()[0]; got != AzureSubscriptionID {
		t.Errorf("first key = %s, want %s", got, AzureSubscriptionID)
	}
	if len(f.Get(RKE2Token)) < minTokenLength {
		t.Errorf("generated token %q is too short", f.Get(RKE2Token))
	}
	if f.Get(RKE2Token) == NewTemplate().Get(RKE2Token) {
		t.Errorf("tokens are not random")
	}

	_, err := FromFile(f)
	if !IsMissingKeys(err) {
		t.Fatalf("FromFile() error = %v, want missing keys", err)
	}
	missing := errorKeys(err)
	want := []string{AzureSubscriptionID, ARMClientID, ARMClientSecret, SSHPublicKey}
	if len(missing) != len(want) {
		t.Fatalf("missing = %v, want %v", missing, want)
	}
	for i := range want {
		if missing[i] != want[i] {
			t.Errorf("missing[%d] = %s, want %s", i, missing[i], want[i])
		}
	}
}

func errorKeys(err error) []string {
	if e, ok := err.(MissingKeysError); ok {
		return e.Keys
	}
	return nil
}
