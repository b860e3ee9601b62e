// Package export renders spec snapshots, validation findings, and
// change sets into downstream formats: JSON and XML register maps,
// Markdown reports, and DV collateral (constraint config and a UVM
// register model stub).
//
// All renderers order their output deterministically: blocks by name,
// registers by offset, fields by lsb, enums by value. Snapshot document
// order is an ingest artifact and never leaks into exports.
package export

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/regspec-tools/regspec-go/pkg/model"
)

type jsonSpec struct {
	Version string      `json:"version"`
	Variant string      `json:"variant"`
	Commit  string      `json:"commit,omitempty"`
	Blocks  []jsonBlock `json:"ip_blocks"`
}

type jsonBlock struct {
	Name      string         `json:"name"`
	BaseAddr  string         `json:"base_addr"`
	Registers []jsonRegister `json:"registers"`
}

type jsonRegister struct {
	Name   string      `json:"name"`
	Offset string      `json:"offset"`
	Width  uint        `json:"width"`
	Fields []jsonField `json:"fields"`
}

type jsonField struct {
	Name   string     `json:"name"`
	Lsb    uint       `json:"lsb"`
	Msb    uint       `json:"msb"`
	Access string     `json:"access"`
	Reset  string     `json:"reset"`
	Enum   []jsonEnum `json:"enum,omitempty"`
}

type jsonEnum struct {
	Name  string `json:"name"`
	Value uint64 `json:"value"`
}

// RegistersJSON renders the snapshot's register map as indented JSON.
// Addresses, offsets, and resets are hex strings.
func RegistersJSON(snap *model.SpecSnapshot) ([]byte, error) {
	key := snap.Key()
	doc := jsonSpec{
		Version: key.Version,
		Variant: key.Variant,
		Commit:  snap.Commit,
		Blocks:  make([]jsonBlock, 0, len(snap.Blocks)),
	}

	for _, blk := range sortedBlocks(snap.Blocks) {
		jb := jsonBlock{
			Name:      blk.Name,
			BaseAddr:  fmt.Sprintf("0x%08X", blk.BaseAddr),
			Registers: make([]jsonRegister, 0, len(blk.Registers)),
		}
		for _, reg := range sortedRegisters(blk.Registers) {
			jr := jsonRegister{
				Name:   reg.Name,
				Offset: fmt.Sprintf("0x%04X", reg.Offset),
				Width:  reg.Width,
				Fields: make([]jsonField, 0, len(reg.Fields)),
			}
			for _, f := range sortedFields(reg.Fields) {
				jf := jsonField{
					Name:   f.Name,
					Lsb:    f.Lsb,
					Msb:    f.Msb,
					Access: string(f.Access),
					Reset:  fmt.Sprintf("0x%X", f.Reset),
				}
				for _, ev := range sortedEnums(f.Enum) {
					jf.Enum = append(jf.Enum, jsonEnum{Name: ev.Name, Value: ev.Value})
				}
				jr.Fields = append(jr.Fields, jf)
			}
			jb.Registers = append(jb.Registers, jr)
		}
		doc.Blocks = append(doc.Blocks, jb)
	}

	return json.MarshalIndent(doc, "", "  ")
}

func sortedBlocks(blocks []model.IpBlock) []model.IpBlock {
	out := make([]model.IpBlock, len(blocks))
	copy(out, blocks)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func sortedRegisters(regs []model.Register) []model.Register {
	out := make([]model.Register, len(regs))
	copy(out, regs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Offset < out[j].Offset })
	return out
}

func sortedFields(fields []model.Field) []model.Field {
	out := make([]model.Field, len(fields))
	copy(out, fields)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Lsb < out[j].Lsb })
	return out
}

func sortedEnums(enums []model.EnumValue) []model.EnumValue {
	out := make([]model.EnumValue, len(enums))
	copy(out, enums)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}
