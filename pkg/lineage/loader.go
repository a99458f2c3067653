// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package lineage

import (
	"fmt"

	"github.com/jorineg/lineagetrace/pkg/grammar"
)

// MissingReferenceError reports an I or D record referencing an id that has
// not been ingested yet (or ever), within the current lookup scope.
type MissingReferenceError struct {
	ID int
}

func (e *MissingReferenceError) Error() string {
	return fmt.Sprintf("reference to unknown item id %d", e.ID)
}

// InvalidBooleanError reports a literal flag or createvar file_overwrite
// field that is neither "true" nor "false". Grammar parsing already rejects
// this syntactically, so this only fires if a caller constructs a Record by
// hand.
type InvalidBooleanError struct {
	Value string
}

func (e *InvalidBooleanError) Error() string {
	return fmt.Sprintf("invalid boolean value %q", e.Value)
}

// LoadRecord applies one parsed record to db: patch-start/patch-end records
// update the dedup-patch state, and item records resolve their inputs,
// compute value_hash/lineage_hash, append a TraceItem, and route into the
// kind-specific buffer. traceID identifies the owning trace.
func (db *Database) LoadRecord(traceID int, rec *grammar.Record) (err error) {
	switch rec.Kind {
	case grammar.KindPatchStart:
		db.currentDedupPatch = rec.PatchID
		return nil
	case grammar.KindPatchEnd:
		db.currentDedupPatch = ""
		return nil
	}

	if db.metrics != nil {
		defer func() {
			if err == nil {
				db.metrics.recordsLoaded.Inc()
			}
		}()
	}

	inputIDs := rec.Inputs()
	inputs := make([]InputFingerprint, 0, len(inputIDs))
	for _, id := range inputIDs {
		ref, ok := db.itemLookup[id]
		if !ok {
			return &MissingReferenceError{ID: id}
		}
		inputs = append(inputs, InputFingerprint{ValueHash: ref.ValueHash, LineageHash: ref.LineageHash})
	}

	valueHash, err := ValueHash(rec, inputs)
	if err != nil {
		return err
	}
	lineageHash, err := LineageHash(rec, inputs)
	if err != nil {
		return err
	}

	for _, in := range inputs {
		db.lineageBuffer = append(db.lineageBuffer, LineageEdge{
			ValueHash:           in.ValueHash,
			IsInputForValueHash: valueHash,
		})
	}

	item := TraceItem{
		TraceID:        traceID,
		ID:             rec.ID,
		Type:           itemKindByTag[rec.Type],
		ValueHash:      valueHash,
		LineageHash:    lineageHash,
		DedupPatchName: db.currentDedupPatch,
		ExecutionTime:  sampleExecutionTime(db.rng),
	}
	db.traceItemBuffer = append(db.traceItemBuffer, item)
	db.itemLookup[rec.ID] = itemRef{ValueHash: valueHash, LineageHash: lineageHash}

	switch rec.Type {
	case grammar.TypeLiteral:
		return db.insertLiteral(valueHash, rec.Literal)
	case grammar.TypeCreation:
		return db.insertCreation(valueHash, rec.Creation)
	case grammar.TypeInstruction:
		db.insertInstruction(valueHash, rec.Instruction)
		return nil
	case grammar.TypeDedup:
		db.insertDedup(valueHash, rec.Dedup)
		return nil
	default:
		return fmt.Errorf("unhandled item type %q", rec.Type)
	}
}

func (db *Database) insertLiteral(valueHash string, lit *grammar.LiteralRepr) error {
	flag, err := parseBool(lit.Flag)
	if err != nil {
		return err
	}
	db.literalBuffer = append(db.literalBuffer, Literal{
		ValueHash: valueHash,
		Value:     lit.Value,
		DataType:  lit.DataType,
		ValueType: lit.ValueType,
		Flag:      flag,
	})
	return nil
}

func (db *Database) insertCreation(valueHash string, cre *grammar.CreationRepr) error {
	method := cre.CreationMethod
	if cre.IsPlaceholder() {
		method = "in"
	}
	db.creationBuffer = append(db.creationBuffer, Creation{
		ValueHash:      valueHash,
		ExecutionType:  cre.ExecutionType,
		CreationMethod: method,
		DedupIn:        cre.DedupIn,
	})

	if cre.IsPlaceholder() || cre.Params == nil {
		return nil
	}

	switch cre.CreationMethod {
	case "rand":
		pdf, others := extractPDF(cre.Params.OtherParams)
		db.randCreationBuffer = append(db.randCreationBuffer, RandCreation{
			ValueHash:   valueHash,
			PDF:         pdf,
			OtherParams: others,
		})
	case "createvar":
		overwrite, err := parseBool(cre.Params.FileOverwrite)
		if err != nil {
			return err
		}
		db.createVarCreationBuffer = append(db.createVarCreationBuffer, CreateVarCreation{
			ValueHash:     valueHash,
			Function:      cre.Params.Function,
			FileName:      cre.Params.FileName,
			FileOverwrite: overwrite,
			DataType:      cre.Params.DataType,
			Format:        cre.Params.Format,
			OtherParams:   cre.Params.OtherParams,
		})
	case "seq":
		db.seqCreationBuffer = append(db.seqCreationBuffer, SeqCreation{
			ValueHash:   valueHash,
			OtherParams: cre.Params.OtherParams,
		})
	}
	return nil
}

// extractPDF pulls the first bare distribution-keyword parameter out of
// params, per the grammar's rand-creation shape where the pdf is embedded
// positionally among other_params rather than carried as a separate field.
func extractPDF(params []grammar.Param) (pdf string, rest []grammar.Param) {
	rest = make([]grammar.Param, 0, len(params))
	found := false
	for _, p := range params {
		if !found && p.IsPDF() {
			pdf = p.PDF
			found = true
			continue
		}
		rest = append(rest, p)
	}
	return pdf, rest
}

func (db *Database) insertInstruction(valueHash string, ins *grammar.InstructionRepr) {
	db.instructionBuffer = append(db.instructionBuffer, Instruction{
		ValueHash:        valueHash,
		OpCode:           ins.OpCode,
		SpecialValueBits: ins.SpecialValueBits,
		ExecutionType:    sampleExecutionType(db.rng),
	})
}

func (db *Database) insertDedup(valueHash string, ded *grammar.DedupRepr) {
	db.dedupBuffer = append(db.dedupBuffer, Dedup{
		ValueHash: valueHash,
		DedupName: ded.DedupName,
	})
}

func parseBool(s string) (bool, error) {
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, &InvalidBooleanError{Value: s}
	}
}
