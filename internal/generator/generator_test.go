package generator

import (
	"context"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calder/oasgen/internal/diag"
	"github.com/calder/oasgen/internal/genpipe"
)

func loadPetstore(t *testing.T) genpipe.Document {
	t.Helper()
	doc, err := genpipe.LoadDocument("testdata/petstore.yaml")
	require.NoError(t, err)
	return doc
}

func generate(t *testing.T, doc genpipe.Document, cfg genpipe.Config, mode genpipe.Mode, sink diag.Collector) genpipe.Rendered {
	t.Helper()
	out, err := New().Run(context.Background(), doc, cfg.WithMode(mode), sink)
	require.NoError(t, err)
	return out
}

func TestRun_PetstoreMatchesGolden(t *testing.T) {
	doc := loadPetstore(t)
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, mode := range genpipe.AllModes() {
		t.Run(string(mode), func(t *testing.T) {
			out := generate(t, doc, genpipe.DefaultConfig(), mode, diag.NewRecording())
			assert.Equal(t, mode.ArtifactName(), out.Name)
			g.Assert(t, fmt.Sprintf("petstore-%s", mode), out.Contents)
		})
	}
}

func TestRun_IsDeterministic(t *testing.T) {
	doc := loadPetstore(t)

	for _, mode := range genpipe.AllModes() {
		first := generate(t, doc, genpipe.DefaultConfig(), mode, diag.NewRecording())
		second := generate(t, doc, genpipe.DefaultConfig(), mode, diag.NewRecording())
		assert.Equal(t, first.Contents, second.Contents, "mode %s must be byte-identical across runs", mode)
	}
}

func TestRun_PetstoreEmitsNoDiagnostics(t *testing.T) {
	doc := loadPetstore(t)
	sink := diag.NewRecording()
	generate(t, doc, genpipe.DefaultConfig(), genpipe.ModeTypes, sink)
	assert.Empty(t, sink.All())
}

func TestRun_RequiredWithoutPropertyWarns(t *testing.T) {
	doc := genpipe.NewDocument("zoo.yaml", []byte(`
openapi: 3.0.0
info:
  title: Zoo
  version: 1.0.0
paths: {}
components:
  schemas:
    Cat:
      type: object
      required:
        - huntingSkill
      properties:
        name:
          type: string
`))

	sink := diag.NewRecording()
	generate(t, doc, genpipe.DefaultConfig(), genpipe.ModeTypes, sink)

	assert.Equal(t,
		[]string{`A property name only appears in the required list, but not in the properties: "huntingSkill"`},
		sink.Snapshot())
}

func TestRun_StrictSinkAbortsOnWarning(t *testing.T) {
	doc := genpipe.NewDocument("zoo.yaml", []byte(`
openapi: 3.0.0
info:
  title: Zoo
  version: 1.0.0
paths: {}
components:
  schemas:
    Cat:
      type: object
      required:
        - huntingSkill
      properties: {}
`))

	_, err := New().Run(context.Background(), doc,
		genpipe.DefaultConfig().WithMode(genpipe.ModeTypes), diag.NewStrict())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "huntingSkill")
}

func TestRun_MalformedDocumentFails(t *testing.T) {
	doc := genpipe.NewDocument("broken.yaml", []byte("{invalid: [yaml"))
	_, err := New().Run(context.Background(), doc,
		genpipe.DefaultConfig().WithMode(genpipe.ModeTypes), diag.NewRecording())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse document")
}

func TestRun_NameOverrides(t *testing.T) {
	doc := loadPetstore(t)
	cfg := genpipe.DefaultConfig()
	cfg.NameOverrides = map[string]string{"Pet": "Animal"}

	out := generate(t, doc, cfg, genpipe.ModeTypes, diag.NewRecording())
	assert.Contains(t, string(out.Contents), "type Animal struct {")
	assert.Contains(t, string(out.Contents), "type Pets = []Animal")
}

func TestRun_InternalAccessLevel(t *testing.T) {
	doc := loadPetstore(t)
	cfg := genpipe.DefaultConfig()
	cfg.Access = genpipe.AccessInternal

	out := generate(t, doc, cfg, genpipe.ModeClient, diag.NewRecording())
	assert.Contains(t, string(out.Contents), "type client struct {")
	assert.Contains(t, string(out.Contents), "func newClient(base string) *client {")
}

func TestRun_ExtraImportsAreBlankImported(t *testing.T) {
	doc := loadPetstore(t)
	cfg := genpipe.DefaultConfig()
	cfg.ExtraImports = []string{"example.com/support/runtime"}

	out := generate(t, doc, cfg, genpipe.ModeTypes, diag.NewRecording())
	assert.Contains(t, string(out.Contents), "\t_ \"example.com/support/runtime\"\n")
}

func TestRun_NoOmitEmptyFlag(t *testing.T) {
	doc := loadPetstore(t)
	cfg := genpipe.DefaultConfig()
	cfg.FeatureFlags = []string{"no-omitempty"}

	out := generate(t, doc, cfg, genpipe.ModeTypes, diag.NewRecording())
	assert.Contains(t, string(out.Contents), "`json:\"id\"`")
	assert.NotContains(t, string(out.Contents), "omitempty")
}

func TestRun_PackageNameOverride(t *testing.T) {
	doc := loadPetstore(t)
	cfg := genpipe.DefaultConfig()
	cfg.PackageName = "zoo"

	out := generate(t, doc, cfg, genpipe.ModeTypes, diag.NewRecording())
	assert.Contains(t, string(out.Contents), "package zoo\n")
}
