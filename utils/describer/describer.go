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
package describer

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	api "pharmer.dev/rke2az/apis/v1alpha1"
)

type Describer interface {
	Describe(object runtime.Object) (output string, err error)
}

func NewDescriber() Describer {
	return newHumanReadableDescriber()
}

type handlerEntry struct {
	describeFunc reflect.Value
}

type humanReadableDescriber struct {
	handlerMap map[reflect.Type]*handlerEntry
}

func newHumanReadableDescriber() *humanReadableDescriber {
	describer := &humanReadableDescriber{
		handlerMap: make(map[reflect.Type]*handlerEntry),
	}
	describer.addDefaultHandlers()
	return describer
}

func (h *humanReadableDescriber) addDefaultHandlers() {
	_ = h.Handler(describeDeployment)
}

func (h *humanReadableDescriber) Handler(describeFunc interface{}) error {
	describeFuncValue := reflect.ValueOf(describeFunc)
	if err := h.validateDescribeHandlerFunc(describeFuncValue); err != nil {
		return err
	}
	objType := describeFuncValue.Type().In(0)
	h.handlerMap[objType] = &handlerEntry{
		describeFunc: describeFuncValue,
	}
	return nil
}

func (h *humanReadableDescriber) validateDescribeHandlerFunc(describeFunc reflect.Value) error {
	if describeFunc.Kind() != reflect.Func {
		return errors.Errorf("invalid describe handler. %#v is not a function", describeFunc)
	}
	funcType := describeFunc.Type()
	if funcType.NumIn() != 1 || funcType.NumOut() != 2 {
		return errors.New("invalid describe handler. Must accept 1 parameter and return 2 values")
	}
	if funcType.Out(0) != reflect.TypeOf("") ||
		funcType.Out(1) != reflect.TypeOf((*error)(nil)).Elem() {
		return errors.Errorf("invalid describe handler. The expected signature is: "+
			"func handler(item %v) (string, error)", funcType.In(0))
	}
	return nil
}

func (h *humanReadableDescriber) Describe(obj runtime.Object) (string, error) {
	t := reflect.TypeOf(obj)
	if handler := h.handlerMap[t]; handler != nil {
		resultValue := handler.describeFunc.Call([]reflect.Value{reflect.ValueOf(obj)})
		if err := resultValue[1].Interface(); err != nil {
			return resultValue[0].Interface().(string), err.(error)
		}
		return resultValue[0].Interface().(string), nil
	}
	return "", errors.Errorf(`rke2az doesn't support: "%v"`, t)
}

func describeDeployment(item *api.Deployment) (string, error) {
	return tabbedString(func(out io.Writer) error {
		fmt.Fprintf(out, "Name:\t%s\n", item.Name)
		fmt.Fprintf(out, "Project:\t%s\n", item.Spec.ProjectName)
		fmt.Fprintf(out, "Resource Group:\t%s\n", item.Spec.ResourceGroup)
		fmt.Fprintf(out, "Location:\t%s\n", item.Spec.Location)
		fmt.Fprintf(out, "Admin User:\t%s\n", item.Spec.AdminUsername)
		fmt.Fprintf(out, "VM Count:\t%d\n", item.Spec.VMCount)
		fmt.Fprintf(out, "Created:\t%s\n", timeToString(item.CreationTimestamp))
		fmt.Fprintf(out, "Phase:\t%s\n", item.Status.Phase)
		if item.Status.Reason != "" {
			fmt.Fprintf(out, "Reason:\t%s\n", item.Status.Reason)
		}
		fmt.Fprintf(out, "Last Update:\t%s\n", timeToString(item.Status.LastUpdate))
		describeNodes(item, out)
		return nil
	})
}

func describeNodes(item *api.Deployment, out io.Writer) {
	if item.NodeCount() == 0 {
		fmt.Fprint(out, "No Nodes.\n")
		return
	}
	fmt.Fprint(out, "Nodes:\n")
	w := tabwriter.NewWriter(out, 10, 4, 3, ' ', 0)
	fmt.Fprint(w, "  Name\tRole\tPublic IP\tPrivate IP\n")
	fmt.Fprint(w, "  ----\t----\t---------\t----------\n")
	if cp := item.Status.ControlPlane; cp != nil {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", cp.Name, "server", orNone(cp.PublicIP), orNone(cp.PrivateIP))
	}
	for _, n := range item.Status.Workers {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", n.Name, "agent", orNone(n.PublicIP), orNone(n.PrivateIP))
	}
	w.Flush()
}

func orNone(s string) string {
	if s == "" {
		return "<none>"
	}
	return s
}

func timeToString(t metav1.Time) string {
	if t.IsZero() {
		return "<unknown>"
	}
	return t.Format(time.RFC1123Z)
}

func tabbedString(f func(io.Writer) error) (string, error) {
	out := new(tabwriter.Writer)
	buf := &bytes.Buffer{}
	out.Init(buf, 0, 8, 2, ' ', 0)

	err := f(out)
	if err != nil {
		return "", err
	}

	out.Flush()
	return buf.String(), nil
}
