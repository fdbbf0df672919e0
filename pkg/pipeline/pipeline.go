// Package pipeline provides the diagram pipeline shared by the CLI and the
// preview server.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: extract declarations from TypeScript sources, or import a JSON model
//  2. Resolve: infer member associations (optional)
//  3. Emit: write the model in each requested notation, concurrently
//  4. Render: turn the DOT document into SVG and link its labels to sources
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.DefaultOptions()
//	opts.Glob = "src/**/*.ts"
//	opts.MemberAssociations = true
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.SVG
//
// Run individual stages:
//
//	files, err := runner.Load(ctx, opts)
//	runner.Resolve(files, opts)
//	docs, err := runner.Emit(ctx, files, opts, render.NotationMermaid)
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/typediagram/pkg/diagnostics"
	"github.com/matzehuels/typediagram/pkg/errors"
	"github.com/matzehuels/typediagram/pkg/model"
	"github.com/matzehuels/typediagram/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

// DefaultOutFile is where the SVG diagram is written when nothing else is
// configured.
const DefaultOutFile = "out.svg"

// ValidNotations is the set of supported notations.
var ValidNotations = map[string]bool{
	render.NotationNomnoml: true,
	render.NotationMermaid: true,
	render.NotationDOT:     true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the diagram pipeline.
// This struct supports JSON, TOML and YAML for requests and config files.
//
// Boolean options that default to true are set by [DefaultOptions]; start
// from it rather than from the zero value.
type Options struct {
	// Source options
	Glob         string `json:"glob,omitempty" toml:"glob" yaml:"glob"`
	Model        string `json:"model,omitempty" toml:"model" yaml:"model"` // JSON model used instead of extraction
	ExportedOnly bool   `json:"exported_only,omitempty" toml:"exported_only" yaml:"exported_only"`

	// Diagram options
	PropertyTypes      bool `json:"property_types" toml:"property_types" yaml:"property_types"`
	Modifiers          bool `json:"modifiers" toml:"modifiers" yaml:"modifiers"`
	TypeLinks          bool `json:"type_links" toml:"type_links" yaml:"type_links"`
	MemberAssociations bool `json:"member_associations" toml:"member_associations" yaml:"member_associations"`

	// Extra notation directives, written after each notation's header
	Nomnoml []string `json:"nomnoml,omitempty" toml:"nomnoml" yaml:"nomnoml"`
	Mermaid []string `json:"mermaid,omitempty" toml:"mermaid" yaml:"mermaid"`
	Dot     []string `json:"dot,omitempty" toml:"dot" yaml:"dot"`

	// Outputs
	OutFile       string   `json:"out_file,omitempty" toml:"out_file" yaml:"out_file"` // SVG
	OutDsl        string   `json:"out_dsl,omitempty" toml:"out_dsl" yaml:"out_dsl"`    // nomnoml
	OutMermaidDsl string   `json:"out_mermaid_dsl,omitempty" toml:"out_mermaid_dsl" yaml:"out_mermaid_dsl"`
	OutDot        string   `json:"out_dot,omitempty" toml:"out_dot" yaml:"out_dot"`
	Notations     []string `json:"notations,omitempty" toml:"notations" yaml:"notations"`

	// Runtime options (not serialized)
	Logger *log.Logger      `json:"-" toml:"-" yaml:"-"`
	Sink   diagnostics.Sink `json:"-" toml:"-" yaml:"-"` // defaults to a sink logging to Logger
}

// DefaultOptions returns the options used when nothing is configured:
// member types, modifiers and type links on, associations off, SVG written
// to out.svg.
func DefaultOptions() Options {
	return Options{
		PropertyTypes: true,
		Modifiers:     true,
		TypeLinks:     true,
		OutFile:       DefaultOutFile,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Files is the resolved declaration model.
	Files []*model.FileDeclaration

	// Documents contains the emitted documents keyed by notation.
	Documents map[string]string

	// SVG is the rendered, linked diagram. It is nil when no SVG was
	// requested.
	SVG []byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether the SVG came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	FileCount        int
	DeclarationCount int
	AssociationCount int
	LoadTime         time.Duration
	EmitTime         time.Duration
	RenderTime       time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateNotation checks that a notation is supported.
func ValidateNotation(notation string) error {
	if !ValidNotations[notation] {
		return errors.New(errors.ErrCodeInvalidNotation,
			"invalid notation: %q (must be one of: %s)", notation, strings.Join(render.Notations, ", "))
	}
	return nil
}

// ValidateNotations checks that all notations are supported.
func ValidateNotations(notations []string) error {
	for _, n := range notations {
		if err := ValidateNotation(n); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the source selection, notations and output
// paths and fills in the runtime defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Glob == "" && o.Model == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "glob or model is required")
	}
	if o.Glob != "" && o.Model != "" {
		return errors.New(errors.ErrCodeInvalidConfig, "glob and model are mutually exclusive")
	}
	if o.Glob != "" {
		if err := errors.ValidateGlob(o.Glob); err != nil {
			return err
		}
	}
	for _, p := range []string{o.OutFile, o.OutDsl, o.OutMermaidDsl, o.OutDot} {
		if err := errors.ValidateOutputPath(p); err != nil {
			return err
		}
	}
	if err := ValidateNotations(o.Notations); err != nil {
		return err
	}
	o.setRuntimeDefaults()
	return nil
}

func (o *Options) setRuntimeDefaults() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Sink == nil {
		o.Sink = diagnostics.NewLogSink(o.Logger)
	}
}

// RenderOptions returns the member options shared by every template.
func (o *Options) RenderOptions() render.Options {
	return render.Options{
		MemberTypes: o.PropertyTypes,
		Modifiers:   o.Modifiers,
	}
}

// RequiredNotations returns the notations a run must emit: the explicit
// Notations list, extended by whatever the configured outputs need. DOT is
// required for the SVG.
func (o *Options) RequiredNotations() []string {
	out := slices.Clone(o.Notations)
	need := func(n string, when bool) {
		if when && !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	need(render.NotationDOT, o.OutFile != "" || o.OutDot != "")
	need(render.NotationNomnoml, o.OutDsl != "")
	need(render.NotationMermaid, o.OutMermaidDsl != "")
	return out
}

// WantsSVG reports whether the run renders an SVG.
func (o *Options) WantsSVG() bool {
	return o.OutFile != ""
}
