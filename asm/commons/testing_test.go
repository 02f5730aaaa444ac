package commons

import (
	"fmt"

	"github.com/jvmgo/asmkit/asm"
	"github.com/jvmgo/asmkit/asm/helper"
)

// recordingVisitor is a MethodVisitor that records a short textual trace of every callback it
// receives, for asserting the shape of a transformed method without a full writer/reader round
// trip.
type recordingVisitor struct {
	helper.MethodVisitor
	trace []string
}

func (r *recordingVisitor) VisitVarInsn(opcode, vard int) {
	r.trace = append(r.trace, fmt.Sprintf("var %d %d", opcode, vard))
}

func (r *recordingVisitor) VisitIincInsn(vard, increment int) {
	r.trace = append(r.trace, fmt.Sprintf("iinc %d %d", vard, increment))
}

func (r *recordingVisitor) VisitInsn(opcode int) {
	r.trace = append(r.trace, fmt.Sprintf("insn %d", opcode))
}

func (r *recordingVisitor) VisitJumpInsn(opcode int, label *asm.Label) {
	r.trace = append(r.trace, fmt.Sprintf("jump %d %p", opcode, label))
}

func (r *recordingVisitor) VisitLabel(label *asm.Label) {
	r.trace = append(r.trace, fmt.Sprintf("label %p", label))
}

func (r *recordingVisitor) VisitMaxs(maxStack, maxLocals int) {
	r.trace = append(r.trace, fmt.Sprintf("maxs %d %d", maxStack, maxLocals))
}

func (r *recordingVisitor) VisitLocalVariable(name, descriptor, signature string, start, end *asm.Label, index int) {
	r.trace = append(r.trace, fmt.Sprintf("localvar %s %s %d", name, descriptor, index))
}

func (r *recordingVisitor) VisitTryCatchBlock(start, end, handler *asm.Label, typed string) {
	r.trace = append(r.trace, fmt.Sprintf("trycatch %s", typed))
}

func (r *recordingVisitor) VisitFrame(typed, nLocal int, local []asm.VerificationType, nStack int, stack []asm.VerificationType) {
	r.trace = append(r.trace, fmt.Sprintf("frame nLocal=%d nStack=%d", nLocal, nStack))
}

func (r *recordingVisitor) VisitEnd() {
	r.trace = append(r.trace, "end")
}

// recordingClassVisitor is the class-level counterpart of recordingVisitor: it records a trace of
// the class-level callbacks a test cares about, and hands out a fresh recordingVisitor (or nil)
// per visited method.
type recordingClassVisitor struct {
	helper.ClassVisitor
	trace   []string
	methods []*recordingVisitor
}

func (r *recordingClassVisitor) Visit(version, access int, name, signature, superName string, interfaces []string) {
	r.trace = append(r.trace, fmt.Sprintf("visit %s super=%s", name, superName))
}

func (r *recordingClassVisitor) VisitField(access int, name, descriptor, signature string, value interface{}) asm.FieldVisitor {
	r.trace = append(r.trace, fmt.Sprintf("field %s %s %v", name, descriptor, value))
	return nil
}

func (r *recordingClassVisitor) VisitMethod(access int, name, descriptor, signature string, exceptions []string) asm.MethodVisitor {
	r.trace = append(r.trace, fmt.Sprintf("method %d %s%s", access, name, descriptor))
	mv := &recordingVisitor{}
	r.methods = append(r.methods, mv)
	return mv
}

func (r *recordingClassVisitor) VisitEnd() {
	r.trace = append(r.trace, "end")
}
