package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/typediagram/pkg/errors"
	"github.com/matzehuels/typediagram/pkg/pipeline"
)

// loadConfig decodes the config file at path into opts. The format follows
// the extension: .toml, .yaml/.yml or .json. Keys missing from the file
// leave opts untouched.
func loadConfig(path string, opts *pipeline.Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		_, err = toml.Decode(string(data), opts)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, opts)
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(opts)
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unsupported config format %q (use .toml, .yaml or .json)", ext)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	return nil
}

// optionFlags maps generate flags to the option they set.
var optionFlags = map[string]func(dst, src *pipeline.Options){
	"glob":                func(d, s *pipeline.Options) { d.Glob = s.Glob },
	"model":               func(d, s *pipeline.Options) { d.Model = s.Model },
	"exported-only":       func(d, s *pipeline.Options) { d.ExportedOnly = s.ExportedOnly },
	"property-types":      func(d, s *pipeline.Options) { d.PropertyTypes = s.PropertyTypes },
	"modifiers":           func(d, s *pipeline.Options) { d.Modifiers = s.Modifiers },
	"type-links":          func(d, s *pipeline.Options) { d.TypeLinks = s.TypeLinks },
	"member-associations": func(d, s *pipeline.Options) { d.MemberAssociations = s.MemberAssociations },
	"nomnoml":             func(d, s *pipeline.Options) { d.Nomnoml = s.Nomnoml },
	"mermaid":             func(d, s *pipeline.Options) { d.Mermaid = s.Mermaid },
	"dot":                 func(d, s *pipeline.Options) { d.Dot = s.Dot },
	"out-file":            func(d, s *pipeline.Options) { d.OutFile = s.OutFile },
	"out-dsl":             func(d, s *pipeline.Options) { d.OutDsl = s.OutDsl },
	"out-mermaid-dsl":     func(d, s *pipeline.Options) { d.OutMermaidDsl = s.OutMermaidDsl },
	"out-dot":             func(d, s *pipeline.Options) { d.OutDot = s.OutDot },
}

// registerOptionFlags binds the generate flags to opts, using its current
// values as defaults.
func registerOptionFlags(cmd *cobra.Command, opts *pipeline.Options) {
	f := cmd.Flags()
	f.StringVarP(&opts.Glob, "glob", "g", opts.Glob, "glob of TypeScript sources (e.g. \"src/**/*.ts\")")
	f.StringVar(&opts.Model, "model", opts.Model, "JSON declaration model to draw instead of extracting sources")
	f.BoolVar(&opts.ExportedOnly, "exported-only", opts.ExportedOnly, "only draw exported declarations")
	f.BoolVar(&opts.PropertyTypes, "property-types", opts.PropertyTypes, "show property and return types")
	f.BoolVar(&opts.Modifiers, "modifiers", opts.Modifiers, "show visibility, static and abstract modifiers")
	f.BoolVar(&opts.TypeLinks, "type-links", opts.TypeLinks, "link type names in the SVG to their source files")
	f.BoolVar(&opts.MemberAssociations, "member-associations", opts.MemberAssociations, "draw associations inferred from property types")
	f.StringArrayVar(&opts.Nomnoml, "nomnoml", opts.Nomnoml, "extra nomnoml directive (repeatable)")
	f.StringArrayVar(&opts.Mermaid, "mermaid", opts.Mermaid, "extra mermaid line (repeatable)")
	f.StringArrayVar(&opts.Dot, "dot", opts.Dot, "extra DOT graph attribute (repeatable)")
	f.StringVarP(&opts.OutFile, "out-file", "o", opts.OutFile, "SVG output path (empty to skip)")
	f.StringVar(&opts.OutDsl, "out-dsl", opts.OutDsl, "nomnoml output path")
	f.StringVar(&opts.OutMermaidDsl, "out-mermaid-dsl", opts.OutMermaidDsl, "mermaid output path")
	f.StringVar(&opts.OutDot, "out-dot", opts.OutDot, "DOT output path")
}

// resolveOptions combines defaults, the config file at configPath and the
// flags explicitly set on cmd, in increasing precedence. fromFlags holds the
// values bound to the flags.
func resolveOptions(cmd *cobra.Command, configPath string, fromFlags pipeline.Options) (pipeline.Options, error) {
	if configPath == "" {
		return fromFlags, nil
	}

	opts := pipeline.DefaultOptions()
	if err := loadConfig(configPath, &opts); err != nil {
		return opts, err
	}
	for name, set := range optionFlags {
		if cmd.Flags().Changed(name) {
			set(&opts, &fromFlags)
		}
	}
	return opts, nil
}
