package generator

import (
	"fmt"
	"strings"
)

// Renderers append to a builder in a fixed order and never consult the
// environment. Byte-exact reproducibility is part of the pipeline contract;
// the reference corpus compares outputs with no normalization at all.

func writeHeader(b *strings.Builder, m *model) {
	b.WriteString("// Code generated by oasgen. DO NOT EDIT.\n\n")
	fmt.Fprintf(b, "package %s\n", m.Package)
}

func writeExtraImports(b *strings.Builder, m *model) {
	for _, imp := range m.ExtraImports {
		fmt.Fprintf(b, "\t_ %q\n", imp)
	}
}

func renderTypes(m *model) []byte {
	var b strings.Builder
	writeHeader(&b, m)

	if len(m.ExtraImports) > 0 {
		b.WriteString("\nimport (\n")
		writeExtraImports(&b, m)
		b.WriteString(")\n")
	}

	for _, s := range m.Schemas {
		b.WriteString("\n")
		fmt.Fprintf(&b, "// %s is generated from the %q schema.\n", s.Name, s.Original)
		if s.Alias != "" {
			fmt.Fprintf(&b, "type %s = %s\n", s.Name, s.Alias)
			continue
		}
		fmt.Fprintf(&b, "type %s struct {\n", s.Name)
		for _, f := range s.Fields {
			fmt.Fprintf(&b, "\t%s %s `json:%q`\n", f.Name, f.Type, f.Tag)
		}
		b.WriteString("}\n")
	}
	return []byte(b.String())
}

func renderClient(m *model) []byte {
	clientType := m.names.applyAccess("Client")
	ctor := m.names.applyAccess("NewClient")

	var b strings.Builder
	writeHeader(&b, m)

	b.WriteString("\nimport (\n")
	if len(m.Ops) > 0 {
		b.WriteString("\t\"context\"\n")
	}
	b.WriteString("\t\"net/http\"\n")
	writeExtraImports(&b, m)
	b.WriteString(")\n")

	fmt.Fprintf(&b, "\n// %s calls the %s API.\n", clientType, m.Title)
	fmt.Fprintf(&b, "type %s struct {\n\tBase string\n\tHTTP *http.Client\n}\n", clientType)

	fmt.Fprintf(&b, "\n// %s returns a %s rooted at base.\n", ctor, clientType)
	fmt.Fprintf(&b, "func %s(base string) *%s {\n", ctor, clientType)
	fmt.Fprintf(&b, "\treturn &%s{Base: base, HTTP: http.DefaultClient}\n}\n", clientType)

	for _, op := range m.Ops {
		fmt.Fprintf(&b, "\n// %s invokes %s %s.\n", op.Name, op.Method, op.Path)
		fmt.Fprintf(&b, "func (c *%s) %s(ctx context.Context) (*http.Response, error) {\n", clientType, op.Name)
		fmt.Fprintf(&b, "\treq, err := http.NewRequestWithContext(ctx, %q, c.Base+%q, nil)\n", op.Method, op.Path)
		b.WriteString("\tif err != nil {\n\t\treturn nil, err\n\t}\n\treturn c.HTTP.Do(req)\n}\n")
	}
	return []byte(b.String())
}

func renderServer(m *model) []byte {
	serverType := m.names.applyAccess("Server")
	register := m.names.applyAccess("Register")

	var b strings.Builder
	writeHeader(&b, m)

	b.WriteString("\nimport (\n\t\"net/http\"\n")
	writeExtraImports(&b, m)
	b.WriteString(")\n")

	fmt.Fprintf(&b, "\n// %s is implemented by handlers for the %s API.\n", serverType, m.Title)
	fmt.Fprintf(&b, "type %s interface {\n", serverType)
	for _, op := range m.Ops {
		fmt.Fprintf(&b, "\t// %s handles %s %s.\n", op.Name, op.Method, op.Path)
		fmt.Fprintf(&b, "\t%s(w http.ResponseWriter, r *http.Request)\n", op.Name)
	}
	b.WriteString("}\n")

	fmt.Fprintf(&b, "\n// %s wires every operation onto mux.\n", register)
	fmt.Fprintf(&b, "func %s(mux *http.ServeMux, s %s) {\n", register, serverType)
	for _, op := range m.Ops {
		fmt.Fprintf(&b, "\tmux.HandleFunc(%q, s.%s)\n", op.Method+" "+op.Path, op.Name)
	}
	b.WriteString("}\n")
	return []byte(b.String())
}
