package export

import (
	"encoding/xml"
	"fmt"

	"github.com/regspec-tools/regspec-go/pkg/model"
)

type xmlSpec struct {
	XMLName xml.Name   `xml:"spec"`
	Version string     `xml:"version,attr"`
	Variant string     `xml:"variant,attr"`
	Blocks  []xmlBlock `xml:"ip_block"`
}

type xmlBlock struct {
	Name      string        `xml:"name,attr"`
	BaseAddr  string        `xml:"base_addr,attr"`
	Registers []xmlRegister `xml:"reg"`
}

type xmlRegister struct {
	Name   string     `xml:"name,attr"`
	Offset string     `xml:"offset,attr"`
	Width  uint       `xml:"width,attr"`
	Fields []xmlField `xml:"field"`
}

type xmlField struct {
	Name   string    `xml:"name,attr"`
	Lsb    uint      `xml:"lsb,attr"`
	Msb    uint      `xml:"msb,attr"`
	Access string    `xml:"access,attr"`
	Reset  string    `xml:"reset,attr"`
	Enum   []xmlEnum `xml:"enum"`
}

type xmlEnum struct {
	Name  string `xml:"name,attr"`
	Value uint64 `xml:"value,attr"`
}

// RegistersXML renders the snapshot's register map as indented XML
// with an XML declaration.
func RegistersXML(snap *model.SpecSnapshot) ([]byte, error) {
	key := snap.Key()
	doc := xmlSpec{
		Version: key.Version,
		Variant: key.Variant,
	}

	for _, blk := range sortedBlocks(snap.Blocks) {
		xb := xmlBlock{
			Name:     blk.Name,
			BaseAddr: fmt.Sprintf("0x%08X", blk.BaseAddr),
		}
		for _, reg := range sortedRegisters(blk.Registers) {
			xr := xmlRegister{
				Name:   reg.Name,
				Offset: fmt.Sprintf("0x%04X", reg.Offset),
				Width:  reg.Width,
			}
			for _, f := range sortedFields(reg.Fields) {
				xf := xmlField{
					Name:   f.Name,
					Lsb:    f.Lsb,
					Msb:    f.Msb,
					Access: string(f.Access),
					Reset:  fmt.Sprintf("0x%X", f.Reset),
				}
				for _, ev := range sortedEnums(f.Enum) {
					xf.Enum = append(xf.Enum, xmlEnum{Name: ev.Name, Value: ev.Value})
				}
				xr.Fields = append(xr.Fields, xf)
			}
			xb.Registers = append(xb.Registers, xr)
		}
		doc.Blocks = append(doc.Blocks, xb)
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("rendering xml: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}
