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
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/appscode/go/term"
	"github.com/spf13/cobra/doc"
	"pharmer.dev/rke2az/cmds"
)

var (
	tplFrontMatter = template.Must(template.New("index").Parse(`---
title: Reference
description: rke2az CLI Reference
menu:
  product_rke2az_{{ .Version }}:
    identifier: reference
    name: Reference
    weight: 1000
menu_name: product_rke2az_{{ .Version }}
---
`))

	_ = template.Must(tplFrontMatter.New("cmd").Parse(`---
title: {{ .Name }}
menu:
  product_rke2az_{{ .Version }}:
    identifier: {{ .ID }}
    name: {{ .Name }}
    parent: reference
{{- if .RootCmd }}
    weight: 0
{{ end }}
product_name: rke2az
menu_name: product_rke2az_{{ .Version }}
section_menu_id: reference
---
`))
)

// ref: https://github.com/spf13/cobra/blob/master/doc/md_docs.md
func main() {
	fs := flag.NewFlagSet("gendocs", flag.ExitOnError)
	dir := fs.String("dir", "docs/reference", "output directory for the markdown tree")
	version := fs.String("version", "canary", "docs version used in the front matter")
	_ = fs.Parse(os.Args[1:])

	rootCmd := cmds.NewRootCmd(os.Stdin, os.Stdout, os.Stderr, *version)
	rootCmd.DisableAutoGenTag = true
	fmt.Printf("Generating cli markdown tree in: %v\n", *dir)
	if err := os.RemoveAll(*dir); err != nil {
		term.Fatalln(err)
	}
	if err := os.MkdirAll(*dir, 0755); err != nil {
		term.Fatalln(err)
	}

	filePrepender := func(filename string) string {
		name := filepath.Base(filename)
		base := strings.TrimSuffix(name, path.Ext(name))
		data := struct {
			ID      string
			Name    string
			Version string
			RootCmd bool
		}{
			strings.Replace(base, "_", "-", -1),
			strings.Title(strings.Replace(base, "_", " ", -1)),
			*version,
			!strings.ContainsRune(base, '_'),
		}
		var buf bytes.Buffer
		if err := tplFrontMatter.ExecuteTemplate(&buf, "cmd", data); err != nil {
			term.Fatalln(err)
		}
		return buf.String()
	}

	linkHandler := func(name string) string {
		return "/docs/reference/" + name
	}
	if err := doc.GenMarkdownTreeCustom(rootCmd, *dir, filePrepender, linkHandler); err != nil {
		term.Fatalln(err)
	}

	f, err := os.OpenFile(filepath.Join(*dir, "_index.md"), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		term.Fatalln(err)
	}
	err = tplFrontMatter.ExecuteTemplate(f, "index", struct{ Version string }{*version})
	if err != nil {
		term.Fatalln(err)
	}
	if err := f.Close(); err != nil {
		term.Fatalln(err)
	}
}
