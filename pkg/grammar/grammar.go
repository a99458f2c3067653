// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package grammar

import (
	"fmt"
	"strconv"
	"strings"
)

var executionTypes = map[string]bool{
	"CP": true, "CP_FILE": true, "SPARK": true, "GPU": true, "FED": true,
}

var dataTypes = map[string]bool{
	"SCALAR": true, "FRAME": true, "MATRIX": true, "LIST": true,
}

var valueTypes = map[string]bool{
	"INT64": true, "FP64": true, "STRING": true, "BOOLEAN": true,
}

var distributions = map[string]bool{
	"uniform": true, "normal": true, "poisson": true,
}

// Parse parses one line of a trace file (without its line number context
// baked in; callers pass lineNum for error reporting). The trailing newline,
// if any, should already be stripped by the caller's line scanner.
func Parse(lineNum int, line string) (*Record, error) {
	trimmed := strings.TrimRight(line, "\r")

	if strings.TrimSpace(trimmed) == "" {
		return &Record{Kind: KindPatchEnd}, nil
	}

	if strings.HasPrefix(trimmed, "patch_") {
		patchID := strings.TrimSpace(strings.TrimPrefix(trimmed, "patch_"))
		if patchID == "" {
			return nil, parseErr(lineNum, line, "patch-start line missing patch id")
		}
		return &Record{Kind: KindPatchStart, PatchID: patchID}, nil
	}

	id, typ, rest, err := splitHeader(trimmed)
	if err != nil {
		return nil, parseErr(lineNum, line, "%s", err.Error())
	}

	rec := &Record{Kind: KindItem, ID: id, Type: typ}

	switch typ {
	case TypeLiteral:
		lit, err := parseLiteral(rest)
		if err != nil {
			return nil, parseErr(lineNum, line, "%s", err.Error())
		}
		rec.Literal = lit
	case TypeCreation:
		cre, err := parseCreation(rest)
		if err != nil {
			return nil, parseErr(lineNum, line, "%s", err.Error())
		}
		rec.Creation = cre
	case TypeInstruction:
		ins, err := parseInstruction(rest)
		if err != nil {
			return nil, parseErr(lineNum, line, "%s", err.Error())
		}
		rec.Instruction = ins
	case TypeDedup:
		ded, err := parseDedup(rest)
		if err != nil {
			return nil, parseErr(lineNum, line, "%s", err.Error())
		}
		rec.Dedup = ded
	default:
		return nil, parseErr(lineNum, line, "unrecognized type tag %q", string(typ))
	}

	return rec, nil
}

// splitHeader splits "(id)(type) rest" into its three parts by hand-scanning
// for the bracket pairs, in the same style the rest of this codebase uses
// for structured text rather than reaching for a combinator library.
func splitHeader(line string) (id int, typ Type, rest string, err error) {
	if !strings.HasPrefix(line, "(") {
		return 0, 0, "", errExpected("item line must start with '('")
	}
	closeID := strings.Index(line, ")")
	if closeID < 0 {
		return 0, 0, "", errExpected("unterminated item id")
	}
	idStr := line[1:closeID]
	id, convErr := strconv.Atoi(idStr)
	if convErr != nil {
		return 0, 0, "", errExpected("item id %q is not an integer", idStr)
	}

	remainder := line[closeID+1:]
	if !strings.HasPrefix(remainder, "(") {
		return 0, 0, "", errExpected("expected '(' before type tag")
	}
	closeType := strings.Index(remainder, ")")
	if closeType < 0 {
		return 0, 0, "", errExpected("unterminated type tag")
	}
	typeStr := remainder[1:closeType]
	if len(typeStr) != 1 {
		return 0, 0, "", errExpected("type tag %q must be a single character", typeStr)
	}

	typ = Type(typeStr[0])
	switch typ {
	case TypeLiteral, TypeCreation, TypeInstruction, TypeDedup:
	default:
		return 0, 0, "", errExpected("type tag must be one of L, C, I, D, got %q", typeStr)
	}

	rest = strings.TrimSpace(remainder[closeType+1:])
	return id, typ, rest, nil
}

func parseLiteral(text string) (*LiteralRepr, error) {
	parts := strings.Split(text, "·")
	if len(parts) != 4 {
		return nil, errExpected("literal must have 4 '·'-separated fields, got %d", len(parts))
	}
	value, dataType, valueType, flag := parts[0], parts[1], parts[2], parts[3]
	if !dataTypes[dataType] {
		return nil, errExpected("invalid data_type %q", dataType)
	}
	if !valueTypes[valueType] {
		return nil, errExpected("invalid value_type %q", valueType)
	}
	if flag != "true" && flag != "false" {
		return nil, errExpected("invalid boolean flag %q", flag)
	}
	return &LiteralRepr{Value: value, DataType: dataType, ValueType: valueType, Flag: flag}, nil
}

func parseCreation(text string) (*CreationRepr, error) {
	if strings.HasPrefix(text, "IN#") {
		numStr := strings.TrimPrefix(text, "IN#")
		n, convErr := strconv.Atoi(numStr)
		if convErr != nil {
			return nil, errExpected("malformed IN# placeholder %q", text)
		}
		return &CreationRepr{DedupIn: &n, Placeholder: text}, nil
	}

	fields := strings.Split(text, "°")
	if len(fields) < 2 {
		return nil, errExpected("creation must start with execution_type°method")
	}
	execType, method := fields[0], fields[1]
	if !executionTypes[execType] {
		return nil, errExpected("invalid execution_type %q", execType)
	}

	rest := fields[2:]
	switch method {
	case "rand", "seq":
		params, err := parseParams(rest)
		if err != nil {
			return nil, err
		}
		return &CreationRepr{
			ExecutionType:  execType,
			CreationMethod: method,
			Params:         &ParamGroup{OtherParams: params},
		}, nil
	case "createvar":
		if len(rest) < 5 {
			return nil, errExpected("createvar requires function, file_name, file_overwrite, data_type, format")
		}
		function, fileName, fileOverwrite, dataType, format := rest[0], rest[1], rest[2], rest[3], rest[4]
		if fileOverwrite != "true" && fileOverwrite != "false" {
			return nil, errExpected("invalid boolean file_overwrite %q", fileOverwrite)
		}
		if !dataTypes[dataType] {
			return nil, errExpected("invalid data_type %q", dataType)
		}
		extra, err := parseParams(rest[5:])
		if err != nil {
			return nil, err
		}
		return &CreationRepr{
			ExecutionType:  execType,
			CreationMethod: method,
			Params: &ParamGroup{
				Function:      function,
				FileName:      fileName,
				FileOverwrite: fileOverwrite,
				DataType:      dataType,
				Format:        format,
				OtherParams:   extra,
			},
		}, nil
	default:
		return nil, errExpected("unknown creation_method %q", method)
	}
}

// parseParams interprets a list of already °-split segments as an
// other_params list. Each segment is, in priority order: a nested literal
// quadruple (if it splits into exactly 4 valid '·'-separated fields), a bare
// distribution keyword, or a raw value token (which may itself contain '·'
// characters that didn't form a valid quadruple).
func parseParams(segments []string) ([]Param, error) {
	params := make([]Param, 0, len(segments))
	for _, seg := range segments {
		params = append(params, parseParam(seg))
	}
	return params, nil
}

func parseParam(seg string) Param {
	if parts := strings.Split(seg, "·"); len(parts) == 4 {
		dataType, valueType, flag := parts[1], parts[2], parts[3]
		if dataTypes[dataType] && valueTypes[valueType] && (flag == "true" || flag == "false") {
			return Param{Value: parts[0], DataType: dataType, ValueType: valueType, Flag: flag}
		}
	}
	if distributions[seg] {
		return Param{PDF: seg}
	}
	return Param{Value: seg}
}

func parseInstruction(text string) (*InstructionRepr, error) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return nil, errExpected("instruction requires an op_code and at least one input")
	}
	opCode := fields[0]
	rest := fields[1:]

	var inputs []int
	var specialBits *int

	for i, tok := range rest {
		switch {
		case strings.HasPrefix(tok, "(") && strings.HasSuffix(tok, ")"):
			id, convErr := strconv.Atoi(tok[1 : len(tok)-1])
			if convErr != nil {
				return nil, errExpected("invalid input reference %q", tok)
			}
			inputs = append(inputs, id)
		case strings.HasPrefix(tok, "[") && strings.HasSuffix(tok, "]"):
			if i != len(rest)-1 {
				return nil, errExpected("special_value_bits must be the last token")
			}
			bits, convErr := strconv.Atoi(tok[1 : len(tok)-1])
			if convErr != nil {
				return nil, errExpected("invalid special_value_bits %q", tok)
			}
			specialBits = &bits
		default:
			return nil, errExpected("unexpected token %q in instruction", tok)
		}
	}

	if len(inputs) == 0 {
		return nil, errExpected("instruction requires at least one input reference")
	}

	return &InstructionRepr{OpCode: opCode, Inputs: inputs, SpecialValueBits: specialBits}, nil
}

func parseDedup(text string) (*DedupRepr, error) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return nil, errExpected("dedup requires a dedup_name and at least one input")
	}
	name := fields[0]
	var inputs []int
	for _, tok := range fields[1:] {
		if !strings.HasPrefix(tok, "(") || !strings.HasSuffix(tok, ")") {
			return nil, errExpected("unexpected token %q in dedup", tok)
		}
		id, convErr := strconv.Atoi(tok[1 : len(tok)-1])
		if convErr != nil {
			return nil, errExpected("invalid input reference %q", tok)
		}
		inputs = append(inputs, id)
	}
	if len(inputs) == 0 {
		return nil, errExpected("dedup requires at least one input reference")
	}
	return &DedupRepr{DedupName: name, Inputs: inputs}, nil
}

type grammarError struct{ msg string }

func (e *grammarError) Error() string { return e.msg }

func errExpected(format string, args ...any) error {
	return &grammarError{msg: fmt.Sprintf(format, args...)}
}
