package asm

import "errors"

// Label flags. A label can be a debug-only marker (a line number or local variable boundary that
// carries no control-flow meaning), a resolved position (its bytecodeOffset is valid), a jump
// target (so the writer knows to emit a frame there), or reachable (used during abstract
// interpretation to flag dead code).
const (
	FLAG_DEBUG_ONLY = 1 << iota
	FLAG_RESOLVED
	FLAG_JUMP_TARGET
	FLAG_REACHABLE
)

// Label a symbolic position in an instruction stream, resolved to a byte offset at assembly
// time. Every label referenced by any instruction, try/catch block, or local-variable range must
// be marked (visited) exactly once in the instruction stream before the method ends (spec §3).
type Label struct {
	info             interface{}
	flags            int
	lineNumber       int
	otherLineNumbers []int
	bytecodeOffset   int
	frame            *Frame
	nextBasicBlock   *Label
	outgoingEdges    *Edge
	nextListElement  *Label
}

// NewLabel constructs a fresh, unresolved label.
func NewLabel() *Label {
	return &Label{}
}

// GetInfo returns the user-supplied payload attached to this label, if any.
func (l *Label) GetInfo() interface{} { return l.info }

// SetInfo attaches a user-supplied payload to this label.
func (l *Label) SetInfo(info interface{}) { l.info = info }

// GetOffset returns the bytecode offset of this label, once resolved. Returns an error if the
// label has not yet been resolved (i.e. visited by a writer).
func (l *Label) GetOffset() (int, error) {
	if l.flags&FLAG_RESOLVED == 0 {
		return 0, errors.New("label offset has not been resolved yet")
	}
	return l.bytecodeOffset, nil
}

// IsResolved reports whether this label has been assigned a bytecode offset.
func (l *Label) IsResolved() bool {
	return l.flags&FLAG_RESOLVED != 0
}

// IsDebugOnly reports whether this label was only ever used as a debug marker (line number or
// local-variable range boundary), never as a jump target, try/catch boundary or frame anchor.
func (l *Label) IsDebugOnly() bool {
	return l.flags&FLAG_DEBUG_ONLY != 0
}

// markJumpTarget flags this label as the target of at least one jump instruction: a stack map
// frame must be emitted here (spec §4.3, "a frame is emitted at every branch target").
func (l *Label) markJumpTarget() {
	l.flags |= FLAG_JUMP_TARGET
	l.flags &^= FLAG_DEBUG_ONLY
}

// resolve assigns this label's final bytecode offset.
func (l *Label) resolve(bytecodeOffset int) {
	l.flags |= FLAG_RESOLVED
	l.flags &^= FLAG_DEBUG_ONLY
	l.bytecodeOffset = bytecodeOffset
}

// addLineNumber records that this label's bytecode offset also starts a line-number-table entry
// for the given source line. A label may carry more than one line number (e.g. after merging
// adjacent instructions from different inlined call sites).
func (l *Label) addLineNumber(lineNumber int) {
	if len(l.otherLineNumbers) == 0 && l.lineNumber == 0 {
		l.lineNumber = lineNumber
		return
	}
	if l.lineNumber == 0 {
		l.lineNumber = lineNumber
		return
	}
	l.otherLineNumbers = append(l.otherLineNumbers, lineNumber)
}

// Accept replays this label (and, if requested, its attached line numbers) against a method
// visitor. Used by transformers that buffer and re-emit a method body (e.g. the JSR inliner,
// the local variable sorter).
func (l *Label) Accept(methodVisitor MethodVisitor, visitLineNumbers bool) {
	methodVisitor.VisitLabel(l)
	if visitLineNumbers && l.lineNumber != 0 {
		methodVisitor.VisitLineNumber(l.lineNumber, l)
		for _, ln := range l.otherLineNumbers {
			methodVisitor.VisitLineNumber(ln, l)
		}
	}
}
