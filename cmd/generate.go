package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-hclog"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/apidocgen/apidocgen/internal/analyzer"
	"github.com/apidocgen/apidocgen/internal/annotation"
	"github.com/apidocgen/apidocgen/internal/config"
	"github.com/apidocgen/apidocgen/internal/docmodel"
	"github.com/apidocgen/apidocgen/internal/generator"
	"github.com/apidocgen/apidocgen/internal/render"
)

type generateOptions struct {
	configPath string
	flags      config.Config
	now        func() time.Time
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{now: time.Now}

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Assemble annotations into an API document",
		Long: `Load annotations from files (--input) and/or Go sources (--source),
assemble them into the document model and write it in the requested format.

Examples:
  apidocgen generate -i annotations.yaml -o docs
  apidocgen generate -s ./handlers --format markdown
  apidocgen generate -c apidoc.toml --format openapi-yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			return runGenerate(cmd.Context(), cfg, root.logger, opts.now())
		},
	}

	f := generateCmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "Path to a configuration file (.json, .yaml, .toml)")
	f.StringArrayVarP(&opts.flags.Input, "input", "i", nil, "Annotation file (YAML or JSON), repeatable")
	f.StringVarP(&opts.flags.Source, "source", "s", "", "Go source tree to extract annotations from")
	f.StringVarP(&opts.flags.Output, "output", "o", "", "Output directory")
	f.StringVarP(&opts.flags.File, "file", "f", "", "Output file name")
	f.StringVar(&opts.flags.Format, "format", "", "Output format (html|markdown|openapi-yaml|openapi-json|model-json|model-yaml)")
	f.StringVar(&opts.flags.Title, "title", "", "Document title")
	f.StringVar(&opts.flags.TemplateDir, "template-dir", "", "Directory with template overrides")
	f.IntVar(&opts.flags.Workers, "workers", 0, "Number of classes projected concurrently")
	return generateCmd
}

// resolve layers the flags that were set over the config file and applies
// defaults.
func (o *generateOptions) resolve(flags *pflag.FlagSet) (*config.Config, error) {
	cfg := &config.Config{}
	if o.configPath != "" {
		var err error
		if cfg, err = config.Read(o.configPath); err != nil {
			return nil, err
		}
	}

	if flags.Changed("input") {
		cfg.Input = o.flags.Input
	}
	if flags.Changed("source") {
		cfg.Source = o.flags.Source
	}
	if flags.Changed("output") {
		cfg.Output = o.flags.Output
	}
	if flags.Changed("file") {
		cfg.File = o.flags.File
	}
	if flags.Changed("format") {
		cfg.Format = o.flags.Format
	}
	if flags.Changed("title") {
		cfg.Title = o.flags.Title
	}
	if flags.Changed("template-dir") {
		cfg.TemplateDir = o.flags.TemplateDir
	}
	if flags.Changed("workers") {
		cfg.Workers = o.flags.Workers
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runGenerate(ctx context.Context, cfg *config.Config, logger hclog.Logger, now time.Time) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger = logger.Named("generate")

	store, err := loadStore(cfg, logger)
	if err != nil {
		return err
	}

	var doc *docmodel.Document
	if cfg.Workers > 1 {
		doc, err = docmodel.AssembleParallel(ctx, store, cfg.Workers)
	} else {
		doc, err = docmodel.Assemble(store)
	}
	if err != nil {
		return fmt.Errorf("failed to assemble document: %w", err)
	}
	logger.Debug("assembled document",
		"classes", doc.Stats.Classes,
		"methods", doc.Stats.Methods,
		"entries", doc.Stats.Entries,
		"skipped", doc.Stats.Skipped,
		"sections", doc.Stats.Sections,
	)

	// nothing touches the output path until the whole document is built
	var buf bytes.Buffer
	if err := writeDocument(ctx, &buf, cfg, doc, now); err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(cfg.Path(), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	logger.Info("wrote document",
		"path", cfg.Path(),
		"format", cfg.Format,
		"entries", doc.Stats.Entries,
		"size", humanize.Bytes(uint64(buf.Len())),
	)
	return nil
}

// loadStore reads every input file in order, then the source tree, into a
// single store.
func loadStore(cfg *config.Config, logger hclog.Logger) (*annotation.Store, error) {
	stores := make([]*annotation.Store, 0, len(cfg.Input)+1)
	for _, path := range cfg.Input {
		store, err := annotation.LoadFile(path)
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded annotations", "path", path, "classes", len(store.Classes), "methods", store.MethodCount())
		stores = append(stores, store)
	}

	if cfg.Source != "" {
		store, err := analyzer.New(cfg.Source, logger).Analyze()
		if err != nil {
			return nil, fmt.Errorf("failed to analyze %s: %w", cfg.Source, err)
		}
		stores = append(stores, store)
	}

	return (&annotation.Store{}).Merge(stores...), nil
}

func writeDocument(ctx context.Context, buf *bytes.Buffer, cfg *config.Config, doc *docmodel.Document, now time.Time) error {
	switch cfg.Format {
	case config.FormatHTML, config.FormatMarkdown:
		r, err := newRenderer(cfg)
		if err != nil {
			return err
		}
		meta := render.Meta{Title: cfg.Title, Version: cfg.Version, Date: now}
		if err := r.Render(buf, doc, meta); err != nil {
			return fmt.Errorf("failed to render document: %w", err)
		}
		return nil

	case config.FormatOpenAPIYAML, config.FormatOpenAPIJSON:
		spec, err := generator.New(generator.Config{
			Title:       cfg.Title,
			Version:     cfg.Version,
			Description: cfg.Description,
			ServerURL:   cfg.ServerURL,
		}).Generate(doc)
		if err != nil {
			return fmt.Errorf("failed to generate openapi spec: %w", err)
		}
		if err := generator.Validate(ctx, spec); err != nil {
			return err
		}
		if cfg.Format == config.FormatOpenAPIJSON {
			return encodeJSON(buf, spec)
		}
		return encodeYAML(buf, spec)

	case config.FormatModelJSON:
		return encodeJSON(buf, doc)
	case config.FormatModelYAML:
		return encodeYAML(buf, doc)
	default:
		return fmt.Errorf("unsupported format: %s", cfg.Format)
	}
}

func newRenderer(cfg *config.Config) (*render.Renderer, error) {
	format := render.FormatHTML
	if cfg.Format == config.FormatMarkdown {
		format = render.FormatMarkdown
	}

	tpls, err := render.DefaultTemplates(format)
	if err != nil {
		return nil, err
	}
	if cfg.TemplateDir != "" {
		if err := tpls.Override(cfg.TemplateDir, format); err != nil {
			return nil, err
		}
	}

	badges, err := parseBadges(cfg.Badges)
	if err != nil {
		return nil, err
	}
	return render.New(format, tpls, render.WithBadges(lo.Assign(render.DefaultBadges, badges)))
}

// parseBadges keys configured badges by verb.
func parseBadges(raw map[string]string) (map[docmodel.Verb]string, error) {
	badges := make(map[docmodel.Verb]string, len(raw))
	for verb, badge := range raw {
		v, err := docmodel.ParseVerb(verb)
		if err != nil {
			return nil, fmt.Errorf("invalid badge: %w", err)
		}
		badges[v] = badge
	}
	return badges, nil
}
