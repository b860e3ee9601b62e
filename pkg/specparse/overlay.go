package specparse

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/regspec-tools/regspec-go/pkg/model"
)

// RawOverlayDoc represents a variant overlay document loaded from YAML.
type RawOverlayDoc struct {
	Variant   string       `yaml:"variant"`
	Overrides OverrideList `yaml:"overrides"`
}

// RawOverride is the body of one override entry. Instances and stride
// drive block multiplication; every other key is a scalar attribute
// override passed through to the merge engine.
type RawOverride struct {
	Target    string
	Instances int
	Stride    uint64
	Params    map[string]any
}

// OverrideList preserves the document order of the overrides mapping.
// Later overrides win on the same path, so order is semantics, not
// presentation.
type OverrideList []RawOverride

func (l *OverrideList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("overrides must be a mapping of target paths")
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]

		var target string
		if err := keyNode.Decode(&target); err != nil {
			return fmt.Errorf("decoding override target: %w", err)
		}

		var body map[string]yaml.Node
		if err := valNode.Decode(&body); err != nil {
			return fmt.Errorf("override %s: %w", target, err)
		}

		ov := RawOverride{Target: target}
		for key, n := range body {
			switch key {
			case "instances":
				if err := n.Decode(&ov.Instances); err != nil {
					return fmt.Errorf("override %s: instances: %w", target, err)
				}
			case "stride":
				var stride HexUint
				if err := n.Decode(&stride); err != nil {
					return fmt.Errorf("override %s: stride: %w", target, err)
				}
				ov.Stride = uint64(stride)
			default:
				var v any
				if err := n.Decode(&v); err != nil {
					return fmt.Errorf("override %s: %s: %w", target, key, err)
				}
				if ov.Params == nil {
					ov.Params = make(map[string]any)
				}
				ov.Params[key] = v
			}
		}
		*l = append(*l, ov)
	}
	return nil
}

// ParseOverlayDoc parses a variant overlay document from YAML bytes.
func ParseOverlayDoc(data []byte) (*RawOverlayDoc, error) {
	var doc RawOverlayDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing overlay document: %w", err)
	}
	return &doc, nil
}

// LoadOverlayDoc loads and parses a variant overlay document from a file.
func LoadOverlayDoc(path string) (*RawOverlayDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseOverlayDoc(data)
}

// ToModel converts the raw overlay document into a variant overlay.
// Target paths must parse as block, block.register, or
// block.register.field.
func (d *RawOverlayDoc) ToModel() (*model.VariantOverlay, error) {
	if d.Variant == "" {
		return nil, fmt.Errorf("overlay document has no variant")
	}

	overlay := &model.VariantOverlay{Name: d.Variant}
	for _, ro := range d.Overrides {
		target, err := model.ParsePath(ro.Target)
		if err != nil {
			return nil, fmt.Errorf("overlay %s: target %q: %w", d.Variant, ro.Target, err)
		}
		overlay.Overrides = append(overlay.Overrides, model.Override{
			Target:    target,
			Instances: ro.Instances,
			Stride:    ro.Stride,
			Params:    ro.Params,
		})
	}
	return overlay, nil
}
