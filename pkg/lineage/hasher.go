// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package lineage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jorineg/lineagetrace/pkg/grammar"
)

// InputFingerprint is the pair of hashes an already-ingested input
// contributes when it is referenced by a later I or D record.
type InputFingerprint struct {
	ValueHash   string
	LineageHash string
}

// ValueHash computes the content fingerprint of rec given its ordered,
// already-ingested inputs (empty for L and C records).
func ValueHash(rec *grammar.Record, inputs []InputFingerprint) (string, error) {
	switch rec.Type {
	case grammar.TypeLiteral:
		data, err := json.Marshal(rec.Literal)
		if err != nil {
			return "", fmt.Errorf("marshal literal representation: %w", err)
		}
		return sha256Hex(data), nil

	case grammar.TypeCreation:
		data, err := json.Marshal(rec.Creation)
		if err != nil {
			return "", fmt.Errorf("marshal creation representation: %w", err)
		}
		return sha256Hex(data), nil

	case grammar.TypeInstruction:
		var b strings.Builder
		for _, in := range inputs {
			b.WriteString(in.ValueHash)
		}
		b.WriteString(rec.Instruction.OpCode)
		if rec.Instruction.SpecialValueBits != nil {
			b.WriteString(strconv.Itoa(*rec.Instruction.SpecialValueBits))
		}
		return sha256Hex([]byte(b.String())), nil

	case grammar.TypeDedup:
		var b strings.Builder
		for _, in := range inputs {
			b.WriteString(in.ValueHash)
		}
		b.WriteString(rec.Dedup.DedupName)
		return sha256Hex([]byte(b.String())), nil

	default:
		return "", fmt.Errorf("invalid item type %q", rec.Type)
	}
}

// LineageHash computes the derivation-shape fingerprint of rec given its
// ordered, already-ingested inputs.
func LineageHash(rec *grammar.Record, inputs []InputFingerprint) (string, error) {
	switch rec.Type {
	case grammar.TypeLiteral:
		return sha256Hex([]byte("L")), nil

	case grammar.TypeCreation:
		var b strings.Builder
		b.WriteString("C")
		if rec.Creation.IsPlaceholder() {
			b.WriteString(rec.Creation.Placeholder)
		} else {
			b.WriteString(rec.Creation.CreationMethod)
		}
		return sha256Hex([]byte(b.String())), nil

	case grammar.TypeInstruction:
		var b strings.Builder
		for _, in := range inputs {
			b.WriteString(in.LineageHash)
		}
		b.WriteString(rec.Instruction.OpCode)
		// special_value_bits is intentionally excluded, see SPEC_FULL.md §4.2.
		return sha256Hex([]byte(b.String())), nil

	case grammar.TypeDedup:
		var b strings.Builder
		for _, in := range inputs {
			b.WriteString(in.LineageHash)
		}
		b.WriteString(rec.Dedup.DedupName)
		return sha256Hex([]byte(b.String())), nil

	default:
		return "", fmt.Errorf("invalid item type %q", rec.Type)
	}
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
