package generator

import (
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/calder/oasgen/internal/genpipe"
)

// namer maps document names to Go identifiers according to the configured
// naming strategy, access level, and per-name overrides.
type namer struct {
	cfg   genpipe.Config
	caser cases.Caser
}

func newNamer(cfg genpipe.Config) *namer {
	return &namer{
		cfg:   cfg,
		caser: cases.Title(language.Und, cases.NoLower),
	}
}

// typeName names a generated schema type.
func (n *namer) typeName(schema string) string {
	if override, ok := n.cfg.NameOverrides[schema]; ok {
		return n.applyAccess(override)
	}
	return n.applyAccess(n.identifier(schema))
}

// methodName names a generated client or server method.
func (n *namer) methodName(operation string) string {
	if override, ok := n.cfg.NameOverrides[operation]; ok {
		return n.applyAccess(override)
	}
	return n.applyAccess(n.identifier(operation))
}

// fieldName names a struct field. Fields stay exported regardless of the
// access level: encoding/json cannot see unexported fields.
func (n *namer) fieldName(prop string) string {
	if override, ok := n.cfg.NameOverrides[prop]; ok {
		return exportFirst(override)
	}
	return exportFirst(n.identifier(prop))
}

// typeFor resolves the Go type for a property schema.
func (n *namer) typeFor(ref *openapi3.SchemaRef) string {
	if ref == nil {
		return "any"
	}
	if ref.Ref != "" {
		parts := strings.Split(ref.Ref, "/")
		return n.typeName(parts[len(parts)-1])
	}
	v := ref.Value
	if v == nil || v.Type == nil {
		return "any"
	}
	switch {
	case v.Type.Is("string"):
		return "string"
	case v.Type.Is("integer"):
		return "int64"
	case v.Type.Is("number"):
		return "float64"
	case v.Type.Is("boolean"):
		return "bool"
	case v.Type.Is("array"):
		return "[]" + n.typeFor(v.Items)
	default:
		return "map[string]any"
	}
}

// identifier converts a document name to an exported-style Go identifier.
func (n *namer) identifier(s string) string {
	if n.cfg.Naming == genpipe.NamingVerbatim {
		return exportFirst(sanitize(s))
	}

	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.' || r == '/'
	})
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(n.caser.String(sanitize(p)))
	}
	if b.Len() == 0 {
		return "X"
	}
	return b.String()
}

func (n *namer) applyAccess(name string) string {
	if n.cfg.Access == genpipe.AccessInternal {
		return lowerFirst(name)
	}
	return exportFirst(name)
}

// sanitize keeps only runes legal in a Go identifier and guards against a
// leading digit.
func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" {
		return "X"
	}
	if unicode.IsDigit(rune(out[0])) {
		return "X" + out
	}
	return out
}

func exportFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
