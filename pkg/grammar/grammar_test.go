// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package grammar

import "testing"

func TestParse_Literal(t *testing.T) {
	rec, err := Parse(1, "(5)(L)1·SCALAR·INT64·true")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Kind != KindItem || rec.Type != TypeLiteral {
		t.Fatalf("wrong kind/type: %+v", rec)
	}
	if rec.Literal.Value != "1" || rec.Literal.DataType != "SCALAR" || rec.Literal.ValueType != "INT64" || rec.Literal.Flag != "true" {
		t.Fatalf("wrong literal fields: %+v", rec.Literal)
	}
}

func TestParse_LiteralWrongFieldCount(t *testing.T) {
	if _, err := Parse(1, "(5)(L)1·SCALAR·INT64"); err == nil {
		t.Fatal("expected error for missing literal field")
	}
}

func TestParse_CreationPlaceholder(t *testing.T) {
	rec, err := Parse(1, "(9)(C)IN#3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rec.Creation.IsPlaceholder() {
		t.Fatalf("expected placeholder creation: %+v", rec.Creation)
	}
	if rec.Creation.DedupIn == nil || *rec.Creation.DedupIn != 3 {
		t.Fatalf("wrong dedup_in: %+v", rec.Creation.DedupIn)
	}
	if rec.Creation.Placeholder != "IN#3" {
		t.Fatalf("wrong placeholder token: %q", rec.Creation.Placeholder)
	}
}

func TestParse_CreationRandExtractsNestedLiteralAndRawFallback(t *testing.T) {
	rec, err := Parse(1, "(12)(C)CP°rand°uniform°6400·SCALAR·INT64·true°xxx·MATRIX·FP64")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	params := rec.Creation.Params.OtherParams
	if len(params) != 3 {
		t.Fatalf("expected 3 raw params (pdf stays embedded until the loader strips it): %+v", params)
	}
	if !params[0].IsPDF() || params[0].PDF != "uniform" {
		t.Fatalf("expected first param to be the pdf keyword: %+v", params[0])
	}
	if params[1].Value != "6400" || params[1].DataType != "SCALAR" || params[1].ValueType != "INT64" || params[1].Flag != "true" {
		t.Fatalf("expected second param to parse as a literal quadruple: %+v", params[1])
	}
	if params[2].Value != "xxx·MATRIX·FP64" || params[2].DataType != "" {
		t.Fatalf("expected third param to fall back to a raw 3-part value: %+v", params[2])
	}
}

func TestParse_CreationCreateVar(t *testing.T) {
	rec, err := Parse(1, "(7)(C)CP°createvar°pREADxxx°target/x°false°MATRIX°text°2000°copy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := rec.Creation.Params
	if p.Function != "pREADxxx" || p.FileName != "target/x" || p.FileOverwrite != "false" || p.DataType != "MATRIX" || p.Format != "text" {
		t.Fatalf("wrong createvar positional fields: %+v", p)
	}
	if len(p.OtherParams) != 2 || p.OtherParams[0].Value != "2000" || p.OtherParams[1].Value != "copy" {
		t.Fatalf("wrong createvar other_params: %+v", p.OtherParams)
	}
}

func TestParse_InstructionWithSpecialValueBits(t *testing.T) {
	rec, err := Parse(1, "(9)(I)op_a (7) (12) [42]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Instruction.OpCode != "op_a" {
		t.Fatalf("wrong op_code: %q", rec.Instruction.OpCode)
	}
	if len(rec.Instruction.Inputs) != 2 || rec.Instruction.Inputs[0] != 7 || rec.Instruction.Inputs[1] != 12 {
		t.Fatalf("wrong inputs: %+v", rec.Instruction.Inputs)
	}
	if rec.Instruction.SpecialValueBits == nil || *rec.Instruction.SpecialValueBits != 42 {
		t.Fatalf("wrong special_value_bits: %+v", rec.Instruction.SpecialValueBits)
	}
}

func TestParse_InstructionSpecialValueBitsMustBeLast(t *testing.T) {
	if _, err := Parse(1, "(9)(I)op_a [42] (7)"); err == nil {
		t.Fatal("expected error when special_value_bits is not the last token")
	}
}

func TestParse_InstructionRequiresAtLeastOneInput(t *testing.T) {
	if _, err := Parse(1, "(9)(I)op_a"); err == nil {
		t.Fatal("expected error for instruction with no inputs")
	}
}

func TestParse_Dedup(t *testing.T) {
	rec, err := Parse(1, "(9)(D)dd1 (100) (102)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Dedup.DedupName != "dd1" {
		t.Fatalf("wrong dedup_name: %q", rec.Dedup.DedupName)
	}
	if len(rec.Dedup.Inputs) != 2 || rec.Dedup.Inputs[0] != 100 || rec.Dedup.Inputs[1] != 102 {
		t.Fatalf("wrong inputs: %+v", rec.Dedup.Inputs)
	}
}

func TestParse_PatchStartAndEnd(t *testing.T) {
	start, err := Parse(1, "patch_p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Kind != KindPatchStart || start.PatchID != "p1" {
		t.Fatalf("wrong patch-start record: %+v", start)
	}

	end, err := Parse(2, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if end.Kind != KindPatchEnd {
		t.Fatalf("wrong patch-end record: %+v", end)
	}

	endCR, err := Parse(3, "\r")
	if err != nil {
		t.Fatalf("unexpected error for CRLF blank line: %v", err)
	}
	if endCR.Kind != KindPatchEnd {
		t.Fatalf("wrong patch-end record for CRLF blank line: %+v", endCR)
	}
}

func TestParse_InvalidTypeTag(t *testing.T) {
	if _, err := Parse(1, "(1)(X)whatever"); err == nil {
		t.Fatal("expected error for invalid type tag")
	}
}

func TestParse_MalformedHeader(t *testing.T) {
	cases := []string{
		"no parens at all",
		"(1 missing close paren",
		"(1)no type paren",
	}
	for _, c := range cases {
		if _, err := Parse(1, c); err == nil {
			t.Fatalf("expected error for malformed header %q", c)
		}
	}
}
