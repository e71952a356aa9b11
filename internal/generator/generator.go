// Package generator is the reference implementation of the generation
// pipeline: it parses an OpenAPI description document and renders one Go
// artifact per generation mode.
//
// The harness treats this package as an opaque genpipe.Pipeline. Output is
// strictly deterministic for a given (document, configuration) pair: schema
// and operation iteration is sorted, and rendering appends no timestamps or
// environment-dependent content. The golden reference corpus depends on
// this.
package generator

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/calder/oasgen/internal/diag"
	"github.com/calder/oasgen/internal/genpipe"
)

// Generator implements genpipe.Pipeline on top of kin-openapi.
type Generator struct{}

// New returns a ready generator.
func New() *Generator {
	return &Generator{}
}

// Run parses the document, builds the generation model, and renders the
// artifact for the configured mode. Diagnostics discovered while building
// the model flow to sink; a strict sink aborts the run on the first
// non-ignored warning.
func (g *Generator) Run(ctx context.Context, doc genpipe.Document, cfg genpipe.Config, sink diag.Collector) (genpipe.Rendered, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = false
	loader.Context = ctx

	parsed, err := loader.LoadFromData(doc.Bytes())
	if err != nil {
		return genpipe.Rendered{}, fmt.Errorf("failed to parse document: %w", err)
	}

	m, err := buildModel(parsed, doc, cfg, sink)
	if err != nil {
		return genpipe.Rendered{}, err
	}

	var contents []byte
	switch cfg.Mode {
	case genpipe.ModeTypes:
		contents = renderTypes(m)
	case genpipe.ModeClient:
		contents = renderClient(m)
	case genpipe.ModeServer:
		contents = renderServer(m)
	default:
		return genpipe.Rendered{}, fmt.Errorf("unsupported generation mode %q", cfg.Mode)
	}

	return genpipe.Rendered{Name: cfg.Mode.ArtifactName(), Contents: contents}, nil
}

// model is the fully resolved, sorted input to the renderers.
type model struct {
	Package      string
	Title        string
	ExtraImports []string
	OmitEmpty    bool
	Schemas      []schemaModel
	Ops          []opModel

	names *namer
}

type schemaModel struct {
	Name     string // Go type name
	Original string // schema name in the document
	Alias    string // non-empty for non-object schemas, rendered as a type alias
	Fields   []fieldModel
}

type fieldModel struct {
	Name string
	Type string
	Tag  string // json struct tag value
}

type opModel struct {
	Name   string // Go method name
	Method string // HTTP method, uppercase
	Path   string
}

func buildModel(parsed *openapi3.T, doc genpipe.Document, cfg genpipe.Config, sink diag.Collector) (*model, error) {
	names := newNamer(cfg)

	m := &model{
		Package:      packageName(cfg, doc),
		Title:        "OpenAPI",
		ExtraImports: append([]string(nil), cfg.ExtraImports...),
		OmitEmpty:    !hasFlag(cfg, "no-omitempty"),
		names:        names,
	}
	sort.Strings(m.ExtraImports)
	if parsed.Info != nil && parsed.Info.Title != "" {
		m.Title = parsed.Info.Title
	}

	if err := buildSchemas(parsed, m, sink); err != nil {
		return nil, err
	}
	if err := buildOps(parsed, m); err != nil {
		return nil, err
	}
	return m, nil
}

func buildSchemas(parsed *openapi3.T, m *model, sink diag.Collector) error {
	if parsed.Components == nil {
		return nil
	}

	schemaNames := make([]string, 0, len(parsed.Components.Schemas))
	for name := range parsed.Components.Schemas {
		schemaNames = append(schemaNames, name)
	}
	sort.Strings(schemaNames)

	for _, name := range schemaNames {
		ref := parsed.Components.Schemas[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		schema := ref.Value

		sm := schemaModel{
			Name:     m.names.typeName(name),
			Original: name,
		}

		// Non-object schemas carry no properties of their own; they become
		// type aliases for the Go type they resolve to.
		if schema.Type != nil && !schema.Type.Is("object") {
			sm.Alias = m.names.typeFor(ref)
			m.Schemas = append(m.Schemas, sm)
			continue
		}

		propNames := make([]string, 0, len(schema.Properties))
		for prop := range schema.Properties {
			propNames = append(propNames, prop)
		}
		sort.Strings(propNames)

		for _, prop := range propNames {
			sm.Fields = append(sm.Fields, fieldModel{
				Name: m.names.fieldName(prop),
				Type: m.names.typeFor(schema.Properties[prop]),
				Tag:  jsonTag(prop, m.OmitEmpty),
			})
		}

		// A required entry with no matching property generates nothing;
		// surface it so document authors notice the dead constraint.
		required := append([]string(nil), schema.Required...)
		sort.Strings(required)
		for _, req := range required {
			if _, ok := schema.Properties[req]; ok {
				continue
			}
			if err := sink.Emit(requiredWithoutProperty(req)); err != nil {
				return err
			}
		}

		m.Schemas = append(m.Schemas, sm)
	}
	return nil
}

func buildOps(parsed *openapi3.T, m *model) error {
	if parsed.Paths == nil {
		return nil
	}

	for path, item := range parsed.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil {
				continue
			}
			name := op.OperationID
			if name == "" {
				name = strings.ToLower(method) + " " + path
			}
			m.Ops = append(m.Ops, opModel{
				Name:   m.names.methodName(name),
				Method: method,
				Path:   path,
			})
		}
	}

	sort.Slice(m.Ops, func(i, j int) bool {
		if m.Ops[i].Name != m.Ops[j].Name {
			return m.Ops[i].Name < m.Ops[j].Name
		}
		if m.Ops[i].Path != m.Ops[j].Path {
			return m.Ops[i].Path < m.Ops[j].Path
		}
		return m.Ops[i].Method < m.Ops[j].Method
	})
	return nil
}

// requiredWithoutProperty is the diagnostic compatibility scenarios most
// frequently allow-list; real-world documents hit it constantly.
func requiredWithoutProperty(prop string) diag.Diagnostic {
	return diag.Warning("A property name only appears in the required list, but not in the properties: %q", prop)
}

func packageName(cfg genpipe.Config, doc genpipe.Document) string {
	if cfg.PackageName != "" {
		return cfg.PackageName
	}

	base := doc.Name()
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 || b.String()[0] >= '0' && b.String()[0] <= '9' {
		return "generated"
	}
	return b.String()
}

func jsonTag(prop string, omitEmpty bool) string {
	if omitEmpty {
		return prop + ",omitempty"
	}
	return prop
}

func hasFlag(cfg genpipe.Config, flag string) bool {
	for _, f := range cfg.FeatureFlags {
		if f == flag {
			return true
		}
	}
	return false
}
