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
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// File holds the key/value pairs of a .env file in the order the keys first
// appeared.
type File struct {
	keys   []string
	values map[string]string
}

func NewFile() *File {
	return &File{values: map[string]string{}}
}

func LoadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Errorf("env file %s not found", path)
		}
		return nil, err
	}
	defer f.Close()

	file, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	return file, nil
}

// Parse reads KEY=VALUE lines. Blank lines and # comments are skipped, the
// line is split on the first '=', and one pair of surrounding double quotes
// is removed from the value. There is no escaping, interpolation or
// multi-line support.
func Parse(r io.Reader) (*File, error) {
	file := NewFile()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		idx := strings.Index(line, "=")
		if idx < 0 {
			return nil, errors.Errorf("line %d: missing '='", lineNo)
		}
		key := strings.TrimSpace(line[:idx])
		if key == "" {
			return nil, errors.Errorf("line %d: empty key", lineNo)
		}
		file.Set(key, unquote(strings.TrimSpace(line[idx+1:])))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return file, nil
}

func unquote(v string) string {
	if len(v) >= 2 && strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`) {
		return v[1 : len(v)-1]
	}
	return v
}

func (f *File) Set(key, value string) {
	if _, found := f.values[key]; !found {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

func (f *File) Get(key string) string {
	return f.values[key]
}

func (f *File) Lookup(key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

func (f *File) Keys() []string {
	return append([]string(nil), f.keys...)
}

func (f *File) Len() int {
	return len(f.keys)
}

// Export sets every key in the process environment through setenv. A nil
// setenv means os.Setenv.
func (f *File) Export(setenv func(key, value string) error) error {
	if setenv == nil {
		setenv = os.Setenv
	}
	for _, k := range f.keys {
		if err := setenv(k, f.values[k]); err != nil {
			return errors.Wrapf(err, "failed to export %s", k)
		}
	}
	return nil
}

func (f *File) WriteTo(w io.Writer) (int64, error) {
	var n int64
	for _, k := range f.keys {
		c, err := fmt.Fprintf(w, "%s=\"%s\"\n", k, f.values[k])
		n += int64(c)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func (f *File) Save(path string) error {
	out, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	if _, err := f.WriteTo(out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
