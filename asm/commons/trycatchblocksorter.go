package commons

import (
	"sort"

	"github.com/jvmgo/asmkit/asm"
	"github.com/jvmgo/asmkit/asm/helper"
)

type trycatchEntry struct {
	start, end, handler *asm.Label
	typed               string
}

// TryCatchBlockSorter buffers a whole method body and, at VisitEnd, re-emits it with the
// try/catch table sorted by span length, shortest (innermost-nested) first, while preserving
// each handler's original start/end/target labels (spec §4.9). Every other code callback is
// recorded verbatim and replayed unchanged, since reordering the try/catch table is the only thing
// this transformer does. VisitInsnAnnotation and VisitTryCatchAnnotation are the exception: they
// are forwarded to the delegate as soon as they arrive, before the buffered body is replayed.
type TryCatchBlockSorter struct {
	helper.MethodVisitor
	tryCatchBlocks []trycatchEntry
	labelIndex     map[*asm.Label]int
	nextIndex      int
	replay         []func(asm.MethodVisitor)
}

// NewTryCatchBlockSorter wraps delegate, sorting its try/catch table at VisitEnd.
func NewTryCatchBlockSorter(delegate asm.MethodVisitor) *TryCatchBlockSorter {
	return &TryCatchBlockSorter{
		MethodVisitor: helper.MethodVisitor{Delegate: delegate},
		labelIndex:    make(map[*asm.Label]int),
	}
}

func (t *TryCatchBlockSorter) record(f func(asm.MethodVisitor)) {
	t.replay = append(t.replay, f)
}

func (t *TryCatchBlockSorter) VisitCode() {}

func (t *TryCatchBlockSorter) VisitLabel(label *asm.Label) {
	if _, seen := t.labelIndex[label]; !seen {
		t.labelIndex[label] = t.nextIndex
		t.nextIndex++
	}
	t.record(func(mv asm.MethodVisitor) { mv.VisitLabel(label) })
}

func (t *TryCatchBlockSorter) VisitTryCatchBlock(start, end, handler *asm.Label, typed string) {
	t.tryCatchBlocks = append(t.tryCatchBlocks, trycatchEntry{start, end, handler, typed})
}

func (t *TryCatchBlockSorter) VisitFrame(typed, nLocal int, local []asm.VerificationType, nStack int, stack []asm.VerificationType) {
	t.record(func(mv asm.MethodVisitor) { mv.VisitFrame(typed, nLocal, local, nStack, stack) })
}

func (t *TryCatchBlockSorter) VisitInsn(opcode int) {
	t.record(func(mv asm.MethodVisitor) { mv.VisitInsn(opcode) })
}

func (t *TryCatchBlockSorter) VisitIntInsn(opcode, operand int) {
	t.record(func(mv asm.MethodVisitor) { mv.VisitIntInsn(opcode, operand) })
}

func (t *TryCatchBlockSorter) VisitVarInsn(opcode, vard int) {
	t.record(func(mv asm.MethodVisitor) { mv.VisitVarInsn(opcode, vard) })
}

func (t *TryCatchBlockSorter) VisitTypeInsn(opcode int, typed string) {
	t.record(func(mv asm.MethodVisitor) { mv.VisitTypeInsn(opcode, typed) })
}

func (t *TryCatchBlockSorter) VisitFieldInsn(opcode int, owner, name, descriptor string) {
	t.record(func(mv asm.MethodVisitor) { mv.VisitFieldInsn(opcode, owner, name, descriptor) })
}

func (t *TryCatchBlockSorter) VisitMethodInsn(opcode int, owner, name, descriptor string, isInterface bool) {
	t.record(func(mv asm.MethodVisitor) { mv.VisitMethodInsn(opcode, owner, name, descriptor, isInterface) })
}

func (t *TryCatchBlockSorter) VisitInvokeDynamicInsn(name, descriptor string, bootstrapMethodHandle *asm.Handle, bootstrapMethodArguments ...interface{}) {
	t.record(func(mv asm.MethodVisitor) {
		mv.VisitInvokeDynamicInsn(name, descriptor, bootstrapMethodHandle, bootstrapMethodArguments...)
	})
}

func (t *TryCatchBlockSorter) VisitJumpInsn(opcode int, label *asm.Label) {
	t.record(func(mv asm.MethodVisitor) { mv.VisitJumpInsn(opcode, label) })
}

func (t *TryCatchBlockSorter) VisitLdcInsn(value interface{}) {
	t.record(func(mv asm.MethodVisitor) { mv.VisitLdcInsn(value) })
}

func (t *TryCatchBlockSorter) VisitIincInsn(vard, increment int) {
	t.record(func(mv asm.MethodVisitor) { mv.VisitIincInsn(vard, increment) })
}

func (t *TryCatchBlockSorter) VisitTableSwitchInsn(min, max int, dflt *asm.Label, labels ...*asm.Label) {
	t.record(func(mv asm.MethodVisitor) { mv.VisitTableSwitchInsn(min, max, dflt, labels...) })
}

func (t *TryCatchBlockSorter) VisitLookupSwitchInsn(dflt *asm.Label, keys []int, labels []*asm.Label) {
	t.record(func(mv asm.MethodVisitor) { mv.VisitLookupSwitchInsn(dflt, keys, labels) })
}

func (t *TryCatchBlockSorter) VisitMultiANewArrayInsn(descriptor string, numDimensions int) {
	t.record(func(mv asm.MethodVisitor) { mv.VisitMultiANewArrayInsn(descriptor, numDimensions) })
}

func (t *TryCatchBlockSorter) VisitInsnAnnotation(typeRef int, typePath *asm.TypePath, descriptor string, visible bool) asm.AnnotationVisitor {
	return t.Delegate.VisitInsnAnnotation(typeRef, typePath, descriptor, visible)
}

func (t *TryCatchBlockSorter) VisitTryCatchAnnotation(typeRef int, typePath *asm.TypePath, descriptor string, visible bool) asm.AnnotationVisitor {
	return t.Delegate.VisitTryCatchAnnotation(typeRef, typePath, descriptor, visible)
}

func (t *TryCatchBlockSorter) VisitLocalVariable(name, descriptor, signature string, start, end *asm.Label, index int) {
	t.record(func(mv asm.MethodVisitor) { mv.VisitLocalVariable(name, descriptor, signature, start, end, index) })
}

func (t *TryCatchBlockSorter) VisitLineNumber(line int, start *asm.Label) {
	t.record(func(mv asm.MethodVisitor) { mv.VisitLineNumber(line, start) })
}

func (t *TryCatchBlockSorter) VisitMaxs(maxStack, maxLocals int) {
	t.record(func(mv asm.MethodVisitor) { mv.VisitMaxs(maxStack, maxLocals) })
}

func (t *TryCatchBlockSorter) VisitEnd() {
	sort.SliceStable(t.tryCatchBlocks, func(i, j int) bool {
		return t.blockLength(t.tryCatchBlocks[i]) < t.blockLength(t.tryCatchBlocks[j])
	})
	t.Delegate.VisitCode()
	for _, b := range t.tryCatchBlocks {
		t.Delegate.VisitTryCatchBlock(b.start, b.end, b.handler, b.typed)
	}
	for _, f := range t.replay {
		f(t.Delegate)
	}
	t.Delegate.VisitEnd()
}

func (t *TryCatchBlockSorter) blockLength(b trycatchEntry) int {
	return t.labelIndex[b.end] - t.labelIndex[b.start]
}
