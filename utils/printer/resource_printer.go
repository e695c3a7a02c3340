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
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gosuri/uitable"
	"github.com/pkg/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	api "pharmer.dev/rke2az/apis/v1alpha1"
)

const statusUnknown = "Unknown"

type PrintOptions struct {
	Wide bool
}

// HumanReadablePrinter buffers rows and renders them as one table on Flush.
type HumanReadablePrinter struct {
	options PrintOptions
	table   *uitable.Table
}

func NewHumanReadablePrinter(options PrintOptions) *HumanReadablePrinter {
	return &HumanReadablePrinter{options: options}
}

func ShortHumanDuration(d time.Duration) string {
	if seconds := int(d.Seconds()); seconds <= 0 {
		return "0s"
	} else if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	} else if minutes := int(d.Minutes()); minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	} else if hours := int(d.Hours()); hours < 24 {
		return fmt.Sprintf("%dh", hours)
	} else if hours < 24*364 {
		return fmt.Sprintf("%dd", hours/24)
	}
	return fmt.Sprintf("%dy", int(d.Hours()/24/365))
}

func TranslateTimestamp(timestamp metav1.Time) string {
	if timestamp.IsZero() {
		return "<unknown>"
	}
	return ShortHumanDuration(time.Since(timestamp.Time))
}

func columns(options PrintOptions) []interface{} {
	cols := []interface{}{"NAME", "RESOURCE GROUP", "LOCATION", "NODES", "PHASE", "AGE"}
	if options.Wide {
		cols = append(cols, "CONTROL PLANE", "WORKERS", "REASON")
	}
	return cols
}

func (h *HumanReadablePrinter) PrintObj(obj interface{}, w io.Writer) error {
	switch item := obj.(type) {
	case *api.Deployment:
		h.addDeployment(item)
	case []*api.Deployment:
		for _, d := range item {
			h.addDeployment(d)
		}
	default:
		return errors.Errorf(`rke2az doesn't support: "%T"`, obj)
	}
	return h.Flush(w)
}

func (h *HumanReadablePrinter) addDeployment(item *api.Deployment) {
	if h.table == nil {
		h.table = uitable.New()
		h.table.MaxColWidth = 60
		h.table.AddRow(columns(h.options)...)
	}
	phase := string(item.Status.Phase)
	if phase == "" {
		phase = statusUnknown
	}
	row := []interface{}{
		item.Name,
		item.Spec.ResourceGroup,
		item.Spec.Location,
		strconv.Itoa(item.NodeCount()) + "/" + strconv.Itoa(item.Spec.VMCount),
		phase,
		TranslateTimestamp(item.CreationTimestamp),
	}
	if h.options.Wide {
		cp := "<none>"
		if item.Status.ControlPlane != nil {
			cp = item.Status.ControlPlane.PublicIP
		}
		workers := make([]string, 0, len(item.Status.Workers))
		for _, n := range item.Status.Workers {
			workers = append(workers, n.PublicIP)
		}
		row = append(row, cp, strings.Join(workers, ","), item.Status.Reason)
	}
	h.table.AddRow(row...)
}

func (h *HumanReadablePrinter) Flush(w io.Writer) error {
	if h.table == nil {
		return nil
	}
	_, err := fmt.Fprintln(w, h.table.String())
	h.table = nil
	return err
}

// PrintTable renders rows under header.
func PrintTable(w io.Writer, header []string, rows [][]string) error {
	table := uitable.New()
	table.MaxColWidth = 100
	table.Wrap = true
	add := func(cells []string) {
		row := make([]interface{}, len(cells))
		for i := range cells {
			row[i] = cells[i]
		}
		table.AddRow(row...)
	}
	add(header)
	for _, r := range rows {
		add(r)
	}
	_, err := fmt.Fprintln(w, table.String())
	return err
}
