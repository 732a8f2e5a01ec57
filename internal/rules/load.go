package rules

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load returns the validated rule tables: the compiled-in defaults, optionally
// overlaid with a YAML file. Overlay granularity is whole tables - a file that
// defines `taxonomy:` replaces the default taxonomy entirely, so a partial
// table can never silently mix with default rows.
func Load(path string) (*Tables, error) {
	t := Defaults()

	if path != "" {
		k := koanf.New(".")
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load rules file %s: %w", path, err)
		}

		overlay := &Tables{}
		if err := k.UnmarshalWithConf("", overlay, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
			return nil, fmt.Errorf("parse rules file %s: %w", path, err)
		}
		if k.Exists("taxonomy") {
			t.Taxonomy = overlay.Taxonomy
		}
		if k.Exists("severity") {
			t.Severity = overlay.Severity
		}
		if k.Exists("routing") {
			t.Routing = overlay.Routing
		}
		if k.Exists("policies") {
			t.Policies = overlay.Policies
		}
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
