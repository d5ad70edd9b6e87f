package catalog

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Overlay augments the built-in catalog with operator-tuned keywords and
// example phrases. Overlays can only add detection signal: slots, patterns
// and priorities stay as compiled in.
//
// File format:
//
//	check_balance:
//	  keywords: ["cascalho"]
//	  examples: ["quanto de cascalho eu tenho"]
type Overlay map[Intent]OverlayEntry

// OverlayEntry holds the additions for one intent.
type OverlayEntry struct {
	Keywords []string `yaml:"keywords"`
	Examples []string `yaml:"examples"`
}

// LoadOverlay reads an overlay YAML file.
func LoadOverlay(path string) (Overlay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open catalog overlay")
	}
	defer f.Close()
	return ParseOverlay(f)
}

// ParseOverlay decodes an overlay from a reader.
func ParseOverlay(r io.Reader) (Overlay, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read catalog overlay")
	}
	var o Overlay
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, errors.Wrap(err, "parse catalog overlay")
	}
	return o, nil
}

// Apply merges the overlay into a registry. Must be called before Freeze;
// unknown intents in the overlay are rejected rather than silently created.
func (o Overlay) Apply(r *Registry) error {
	for intent, entry := range o {
		def, ok := r.Get(intent)
		if !ok {
			return errors.Errorf("overlay references unknown intent %q", intent)
		}
		def.Keywords = append(def.Keywords, entry.Keywords...)
		def.Examples = append(def.Examples, entry.Examples...)
		if err := r.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// DefaultWithOverlay builds the built-in catalog, applies the overlay file
// when path is non-empty, and freezes the result.
func DefaultWithOverlay(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}
	overlay, err := LoadOverlay(path)
	if err != nil {
		return nil, err
	}
	r := unfrozenDefaults()
	if err := overlay.Apply(r); err != nil {
		return nil, err
	}
	if err := r.Freeze(); err != nil {
		return nil, err
	}
	return r, nil
}
