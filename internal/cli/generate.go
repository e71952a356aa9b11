package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/calder/oasgen/internal/diag"
	"github.com/calder/oasgen/internal/generator"
	"github.com/calder/oasgen/internal/genpipe"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	OutDir  string
	Modes   []string
	Package string
	Access  string
	Naming  string
	Flags   []string
	Imports []string
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <document>",
		Short: "Generate code from an OpenAPI document",
		Long: `Generate Go artifacts from an OpenAPI description document.

One file is written per mode. Diagnostics are printed to stderr; warnings
and errors do not stop generation.

Examples:
  oasgen generate openapi.yaml --out ./gen
  oasgen generate openapi.yaml --out ./gen --mode types --mode client
  oasgen generate openapi.yaml --out ./gen --package petstore --access internal`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.OutDir, "out", "", "output directory (required)")
	cmd.Flags().StringArrayVar(&opts.Modes, "mode", nil, "generation mode, repeatable (default all)")
	cmd.Flags().StringVar(&opts.Package, "package", "", "generated package name")
	cmd.Flags().StringVar(&opts.Access, "access", string(genpipe.AccessPublic), "access level (public|internal)")
	cmd.Flags().StringVar(&opts.Naming, "naming", string(genpipe.NamingIdiomatic), "naming strategy (idiomatic|verbatim)")
	cmd.Flags().StringArrayVar(&opts.Flags, "feature", nil, "feature flag, repeatable")
	cmd.Flags().StringArrayVar(&opts.Imports, "import", nil, "extra import, repeatable")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runGenerate(opts *GenerateOptions, docPath string, cmd *cobra.Command) error {
	doc, err := genpipe.LoadDocument(docPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load document", err)
	}

	modes, err := resolveModes(opts.Modes)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid mode", err)
	}

	cfg := genpipe.DefaultConfig()
	cfg.PackageName = opts.Package
	cfg.Access = genpipe.AccessLevel(opts.Access)
	cfg.Naming = genpipe.NamingStrategy(opts.Naming)
	cfg.FeatureFlags = opts.Flags
	cfg.ExtraImports = opts.Imports

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return WrapExitError(ExitCommandError, "failed to create output directory", err)
	}

	iv := genpipe.NewInvoker(generator.New())
	sink := diag.NewRecording()

	for _, mode := range modes {
		out, err := iv.Run(cmd.Context(), doc, mode, cfg, sink)
		if err != nil {
			return WrapExitError(ExitFailure, "generation failed", err)
		}
		target := filepath.Join(opts.OutDir, out.Name)
		if err := os.WriteFile(target, out.Contents, 0o644); err != nil {
			return WrapExitError(ExitCommandError, "failed to write artifact", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", target)
	}

	for _, d := range sink.All() {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", d)
	}
	return nil
}

func resolveModes(names []string) ([]genpipe.Mode, error) {
	if len(names) == 0 {
		return genpipe.AllModes(), nil
	}
	modes := make([]genpipe.Mode, 0, len(names))
	for _, name := range names {
		mode, err := genpipe.ParseMode(name)
		if err != nil {
			return nil, err
		}
		modes = append(modes, mode)
	}
	return modes, nil
}
