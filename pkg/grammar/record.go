// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package grammar parses one line of a lineage trace file into a structured
// record. It recognizes six forms: a literal item, a creation item, an
// instruction item, a dedup item, a patch-start marker, and a patch-end
// marker (a blank line). Field order within the representation structs is
// declared once and never reordered, since the hasher depends on
// encoding/json preserving that order for value_hash computation.
package grammar

// Kind identifies whether a line was an item, a patch-start marker, or a
// patch-end marker.
type Kind int

const (
	KindItem Kind = iota
	KindPatchStart
	KindPatchEnd
)

// Type is the one-letter item tag: L, C, I, or D.
type Type byte

const (
	TypeLiteral     Type = 'L'
	TypeCreation    Type = 'C'
	TypeInstruction Type = 'I'
	TypeDedup       Type = 'D'
)

func (t Type) String() string { return string(rune(t)) }

// LiteralRepr is the canonical JSON shape hashed for an L item's value_hash.
type LiteralRepr struct {
	Value     string `json:"value"`
	DataType  string `json:"data_type"`
	ValueType string `json:"value_type"`
	Flag      string `json:"flag"`
}

// Param is one entry of a creation's other_params list: either a nested
// literal quadruple, a distribution keyword, or a raw value token.
type Param struct {
	Value     string `json:"value,omitempty"`
	DataType  string `json:"data_type,omitempty"`
	ValueType string `json:"value_type,omitempty"`
	Flag      string `json:"flag,omitempty"`
	PDF       string `json:"pdf,omitempty"`
}

// IsPDF reports whether this parameter is a bare distribution keyword.
func (p Param) IsPDF() bool { return p.PDF != "" }

// ParamGroup holds a creation's method-specific parameter body.
type ParamGroup struct {
	Function      string  `json:"function,omitempty"`
	FileName      string  `json:"file_name,omitempty"`
	FileOverwrite string  `json:"file_overwrite,omitempty"`
	DataType      string  `json:"data_type,omitempty"`
	Format        string  `json:"format,omitempty"`
	OtherParams   []Param `json:"other_params"`
}

// CreationRepr is the canonical JSON shape hashed for a C item's value_hash.
//
// For the IN#<n> dedup-input placeholder variant, ExecutionType, CreationMethod
// and Params are all empty and only DedupIn is set; Placeholder carries the
// raw "IN#<n>" token used by the hasher's lineage_hash (excluded from the
// JSON used for value_hash, since it is redundant with DedupIn).
type CreationRepr struct {
	ExecutionType  string      `json:"execution_type,omitempty"`
	CreationMethod string      `json:"creation_method,omitempty"`
	DedupIn        *int        `json:"dedup_in,omitempty"`
	Params         *ParamGroup `json:"params,omitempty"`
	Placeholder    string      `json:"-"`
}

// IsPlaceholder reports whether this creation is an IN#<n> dedup-input marker.
func (c CreationRepr) IsPlaceholder() bool { return c.Placeholder != "" }

// InstructionRepr holds a parsed I item's fields. It is never JSON-hashed;
// value_hash and lineage_hash for instructions concatenate raw strings.
type InstructionRepr struct {
	OpCode           string
	Inputs           []int
	SpecialValueBits *int
}

// DedupRepr holds a parsed D item's fields.
type DedupRepr struct {
	DedupName string
	Inputs    []int
}

// Record is one parsed line of a trace file.
type Record struct {
	Kind Kind

	// Populated when Kind == KindPatchStart.
	PatchID string

	// Populated when Kind == KindItem.
	ID          int
	Type        Type
	Literal     *LiteralRepr
	Creation    *CreationRepr
	Instruction *InstructionRepr
	Dedup       *DedupRepr
}

// Inputs returns the ordered input ids referenced by an I or D record, or
// nil for any other kind.
func (r *Record) Inputs() []int {
	switch r.Type {
	case TypeInstruction:
		if r.Instruction != nil {
			return r.Instruction.Inputs
		}
	case TypeDedup:
		if r.Dedup != nil {
			return r.Dedup.Inputs
		}
	}
	return nil
}
