package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/regspec-tools/regspec-go/pkg/model"
)

type dvConfig struct {
	Spec        string         `json:"spec"`
	Constraints []dvConstraint `json:"constraints"`
}

type dvConstraint struct {
	Name     string  `json:"name"`
	Scope    string  `json:"scope"`
	Match    dvMatch `json:"match"`
	Rule     string  `json:"rule"`
	Severity string  `json:"severity"`
}

type dvMatch struct {
	Kind    string `json:"kind"`
	Pattern string `json:"pattern,omitempty"`
	Attr    string `json:"attr,omitempty"`
	Value   string `json:"value,omitempty"`
}

// DVConstraintsJSON renders the snapshot's declarative constraints as a
// JSON config for DV environments to consume.
func DVConstraintsJSON(snap *model.SpecSnapshot) ([]byte, error) {
	cfg := dvConfig{
		Spec:        snap.Key().String(),
		Constraints: make([]dvConstraint, 0, len(snap.Constraints)),
	}

	for _, c := range snap.Constraints {
		dc := dvConstraint{
			Name:     c.Name,
			Scope:    string(c.Scope),
			Rule:     c.Rule,
			Severity: string(c.Severity),
		}
		switch c.Match.Kind {
		case model.MatchByName:
			dc.Match = dvMatch{Kind: "name", Pattern: c.Match.Pattern}
		case model.MatchByAttr:
			dc.Match = dvMatch{Kind: "attr", Attr: c.Match.Attr, Value: c.Match.Value}
		default:
			dc.Match = dvMatch{Kind: "all"}
		}
		cfg.Constraints = append(cfg.Constraints, dc)
	}

	return json.MarshalIndent(cfg, "", "  ")
}

// uvmAccess maps access tags onto the UVM access policy strings.
var uvmAccess = map[model.AccessMode]string{
	model.AccessRW:   "RW",
	model.AccessRO:   "RO",
	model.AccessWO:   "WO",
	model.AccessRW1C: "W1C",
	model.AccessRW1S: "W1S",
	model.AccessW1C:  "W1C",
}

type uvmField struct {
	Name   string
	Size   uint
	Lsb    uint
	Access string
	Reset  uint64
}

type uvmRegister struct {
	ClassName string
	Name      string
	Offset    uint64
	Width     uint
	Fields    []uvmField
}

type uvmBlock struct {
	ClassName string
	Name      string
	BaseAddr  uint64
	ByteWidth uint
	Registers []uvmRegister
}

type uvmModel struct {
	Key    string
	Blocks []uvmBlock
}

var uvmTemplate = template.Must(template.New("uvm").Parse(`// Generated register model for {{.Key}}. Do not edit.
{{range .Blocks}}{{range .Registers}}
class {{.ClassName}} extends uvm_reg;
  ` + "`uvm_object_utils({{.ClassName}})" + `
{{range .Fields}}  rand uvm_reg_field {{.Name}};
{{end}}
  function new(string name = "{{.ClassName}}");
    super.new(name, {{.Width}}, UVM_NO_COVERAGE);
  endfunction

  virtual function void build();
{{range .Fields}}    {{.Name}} = uvm_reg_field::type_id::create("{{.Name}}");
    {{.Name}}.configure(this, {{.Size}}, {{.Lsb}}, "{{.Access}}", 0, 'h{{printf "%X" .Reset}}, 1, 1, 0);
{{end}}  endfunction
endclass
{{end}}
class {{.ClassName}} extends uvm_reg_block;
  ` + "`uvm_object_utils({{.ClassName}})" + `
{{range .Registers}}  rand {{.ClassName}} {{.Name}};
{{end}}
  function new(string name = "{{.ClassName}}");
    super.new(name, UVM_NO_COVERAGE);
  endfunction

  virtual function void build();
    default_map = create_map("default_map", 'h{{printf "%X" .BaseAddr}}, {{.ByteWidth}}, UVM_LITTLE_ENDIAN);
{{range .Registers}}    {{.Name}} = {{.ClassName}}::type_id::create("{{.Name}}");
    {{.Name}}.configure(this);
    {{.Name}}.build();
    default_map.add_reg({{.Name}}, 'h{{printf "%X" .Offset}});
{{end}}  endfunction
endclass
{{end}}`))

// UVMRegModel renders a SystemVerilog UVM register model stub for the
// snapshot.
func UVMRegModel(snap *model.SpecSnapshot) (string, error) {
	key := snap.Key()
	m := uvmModel{Key: key.String()}

	for _, blk := range sortedBlocks(snap.Blocks) {
		ub := uvmBlock{
			ClassName: blk.Name + "_reg_block",
			Name:      blk.Name,
			BaseAddr:  blk.BaseAddr,
			ByteWidth: 4,
		}
		for _, reg := range sortedRegisters(blk.Registers) {
			if w := reg.Width / 8; w > ub.ByteWidth {
				ub.ByteWidth = w
			}
			ur := uvmRegister{
				ClassName: fmt.Sprintf("%s_%s_reg", blk.Name, reg.Name),
				Name:      reg.Name,
				Offset:    reg.Offset,
				Width:     reg.Width,
			}
			for _, f := range sortedFields(reg.Fields) {
				access, ok := uvmAccess[f.Access]
				if !ok {
					return "", fmt.Errorf("field %s.%s.%s: no UVM policy for access %q",
						blk.Name, reg.Name, f.Name, f.Access)
				}
				ur.Fields = append(ur.Fields, uvmField{
					Name:   f.Name,
					Size:   f.Width(),
					Lsb:    f.Lsb,
					Access: access,
					Reset:  f.Reset,
				})
			}
			ub.Registers = append(ub.Registers, ur)
		}
		m.Blocks = append(m.Blocks, ub)
	}

	var buf bytes.Buffer
	if err := uvmTemplate.Execute(&buf, m); err != nil {
		return "", fmt.Errorf("rendering uvm model: %w", err)
	}
	return buf.String(), nil
}
