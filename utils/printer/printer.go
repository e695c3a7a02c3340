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
package printer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
)

// ResourcePrinter writes records in one output format.
type ResourcePrinter interface {
	PrintObj(obj interface{}, w io.Writer) error
}

func NewPrinter(format string) (ResourcePrinter, error) {
	switch format {
	case "json":
		return &JSONPrinter{}, nil
	case "yaml":
		return &YAMLPrinter{}, nil
	case "wide":
		fallthrough
	case "":
		return NewHumanReadablePrinter(PrintOptions{Wide: format == "wide"}), nil
	default:
		return nil, errors.Errorf("output format %q not recognized", format)
	}
}

type JSONPrinter struct{}

func (p *JSONPrinter) PrintObj(obj interface{}, w io.Writer) error {
	data, err := json.MarshalIndent(obj, "", "    ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

type YAMLPrinter struct {
	printCount int
}

// PrintObj separates consecutive objects with a document marker.
func (p *YAMLPrinter) PrintObj(obj interface{}, w io.Writer) error {
	p.printCount++
	if p.printCount > 1 {
		if _, err := w.Write([]byte("---\n")); err != nil {
			return err
		}
	}
	data, err := yaml.Marshal(obj)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
