package commons

import (
	"github.com/jvmgo/asmkit/asm"
	"github.com/jvmgo/asmkit/asm/helper"
)

// stackTag distinguishes the one stack shape AdviceAdapter actually cares about (spec §4.7): an
// UNINITIALIZED_THIS value sitting on the operand stack versus everything else. Longs and doubles
// push two OTHER-tagged words; UNINITIALIZED_THIS is only ever produced by ALOAD 0 and is always
// a single word, so a word-counting stack of this one-bit tag is all the simulation needs.
type stackTag int

const (
	tagOther stackTag = iota
	tagUninitializedThis
)

// AdviceAdapter a MethodVisitor that fires OnMethodEnter/OnMethodExit around a method body (spec
// §4.7). For a constructor, OnMethodEnter is deferred until the stack simulation observes the
// INVOKESPECIAL <init> call that consumes the UNINITIALIZED_THIS value pushed by the method's
// first ALOAD 0 - the earliest point 'this' is a legal reference.
type AdviceAdapter struct {
	helper.MethodVisitor

	access     int
	name       string
	descriptor string

	isConstructor    bool
	superInitialized bool

	stack    []stackTag
	branches map[*asm.Label][]stackTag
	handlers map[*asm.Label]bool

	// Err is set to a malformed-method error (spec §7) if a return is observed inside a
	// constructor before the superclass initializer has run.
	Err error

	// OnMethodEnter fires once 'this' is a legal reference: immediately, for anything but a
	// constructor; right after the super/this() INVOKESPECIAL, for a constructor.
	OnMethodEnter func()

	// OnMethodExit fires immediately before every RETURN-family or ATHROW instruction. opcode
	// names which one triggered it.
	OnMethodExit func(opcode int)
}

// NewAdviceAdapter constructs an advice adapter for a method with the given access flags, name
// and descriptor, forwarding every event (with the two advice callbacks interleaved) to delegate.
func NewAdviceAdapter(access int, name, descriptor string, delegate asm.MethodVisitor) *AdviceAdapter {
	return &AdviceAdapter{
		MethodVisitor: helper.MethodVisitor{Delegate: delegate},
		access:        access,
		name:          name,
		descriptor:    descriptor,
		isConstructor: name == "<init>",
		branches:      make(map[*asm.Label][]stackTag),
		handlers:      make(map[*asm.Label]bool),
	}
}

func (a *AdviceAdapter) VisitCode() {
	a.Delegate.VisitCode()
	if !a.isConstructor {
		a.superInitialized = true
		if a.OnMethodEnter != nil {
			a.OnMethodEnter()
		}
	}
}

func (a *AdviceAdapter) pop(words int) {
	for words > 0 && len(a.stack) > 0 {
		a.stack = a.stack[:len(a.stack)-1]
		words--
	}
}

func (a *AdviceAdapter) push(n int, tag stackTag) {
	for i := 0; i < n; i++ {
		a.stack = append(a.stack, tag)
	}
}

func (a *AdviceAdapter) pushOther(words int) { a.push(words, tagOther) }

func descriptorWords(descriptor string) int {
	words := 0
	for _, t := range asm.GetArgumentTypes(descriptor) {
		words += t.GetSize()
	}
	return words
}

// fireEnter runs OnMethodEnter exactly once, the instant the simulation proves 'this' is fully
// constructed.
func (a *AdviceAdapter) fireEnter() {
	a.superInitialized = true
	if a.OnMethodEnter != nil {
		a.OnMethodEnter()
	}
}

func (a *AdviceAdapter) checkReturnBeforeSuper() {
	if a.isConstructor && !a.superInitialized {
		a.Err = &asm.MethodFormatError{Name: a.name, Descriptor: a.descriptor, Reason: "return before super constructor call"}
	}
}

func (a *AdviceAdapter) VisitInsn(opcode int) {
	switch opcode {
	case asm.RETURN:
		a.checkReturnBeforeSuper()
		a.fireExit(opcode)
	case asm.IRETURN, asm.FRETURN, asm.ARETURN:
		a.fireExit(opcode)
		a.pop(1)
	case asm.LRETURN, asm.DRETURN:
		a.fireExit(opcode)
		a.pop(2)
	case asm.ATHROW:
		a.fireExit(opcode)
		a.pop(1)
	case asm.NOP:
	case asm.ACONST_NULL, asm.ICONST_M1, asm.ICONST_0, asm.ICONST_1, asm.ICONST_2, asm.ICONST_3,
		asm.ICONST_4, asm.ICONST_5, asm.FCONST_0, asm.FCONST_1, asm.FCONST_2:
		a.pushOther(1)
	case asm.LCONST_0, asm.LCONST_1, asm.DCONST_0, asm.DCONST_1:
		a.pushOther(2)
	case asm.IALOAD, asm.FALOAD, asm.AALOAD, asm.BALOAD, asm.CALOAD, asm.SALOAD:
		a.pop(2)
		a.pushOther(1)
	case asm.LALOAD, asm.DALOAD:
		a.pop(2)
		a.pushOther(2)
	case asm.IASTORE, asm.FASTORE, asm.AASTORE, asm.BASTORE, asm.CASTORE, asm.SASTORE:
		a.pop(3)
	case asm.LASTORE, asm.DASTORE:
		a.pop(4)
	case asm.POP, asm.MONITORENTER, asm.MONITOREXIT:
		a.pop(1)
	case asm.POP2:
		a.pop(2)
	case asm.DUP:
		a.genDup(1, 0)
	case asm.DUP_X1:
		a.genDup(1, 1)
	case asm.DUP_X2:
		a.genDup(1, 2)
	case asm.DUP2:
		a.genDup(2, 0)
	case asm.DUP2_X1:
		a.genDup(2, 1)
	case asm.DUP2_X2:
		a.genDup(2, 2)
	case asm.SWAP:
		if n := len(a.stack); n >= 2 {
			a.stack[n-1], a.stack[n-2] = a.stack[n-2], a.stack[n-1]
		}
	case asm.IADD, asm.FADD, asm.ISUB, asm.FSUB, asm.IMUL, asm.FMUL, asm.IDIV, asm.FDIV,
		asm.IREM, asm.FREM, asm.ISHL, asm.ISHR, asm.IUSHR, asm.IAND, asm.IOR, asm.IXOR,
		asm.FCMPL, asm.FCMPG:
		a.pop(2)
		a.pushOther(1)
	case asm.LSHL, asm.LSHR, asm.LUSHR:
		a.pop(3)
		a.pushOther(2)
	case asm.LADD, asm.DADD, asm.LSUB, asm.DSUB, asm.LMUL, asm.DMUL, asm.LDIV, asm.DDIV,
		asm.LREM, asm.DREM, asm.LAND, asm.LOR, asm.LXOR:
		a.pop(4)
		a.pushOther(2)
	case asm.LCMP, asm.DCMPL, asm.DCMPG:
		a.pop(4)
		a.pushOther(1)
	case asm.INEG, asm.FNEG, asm.I2F, asm.F2I, asm.I2B, asm.I2C, asm.I2S, asm.ARRAYLENGTH:
		a.pop(1)
		a.pushOther(1)
	case asm.LNEG, asm.DNEG:
		a.pop(2)
		a.pushOther(2)
	case asm.I2L, asm.I2D, asm.F2L, asm.F2D:
		a.pop(1)
		a.pushOther(2)
	case asm.L2I, asm.L2F, asm.D2I, asm.D2F:
		a.pop(2)
		a.pushOther(1)
	case asm.L2D, asm.D2L:
		a.pop(2)
		a.pushOther(2)
	}
	a.Delegate.VisitInsn(opcode)
}

// genDup implements the DUP-family opcodes on the tag stack, same word-counting shape as
// framecomputer.go's genDup: pop group A (aWords words), then group B beneath it (bWords words),
// push back A, B, A. Since every value here is a one-word tag, aWords/bWords double as element
// counts.
func (a *AdviceAdapter) genDup(aWords, bWords int) {
	n := len(a.stack)
	if n < aWords+bWords {
		return
	}
	group := append([]stackTag(nil), a.stack[n-aWords-bWords:]...)
	aGroup := group[bWords:]
	bGroup := group[:bWords]
	base := a.stack[:n-aWords-bWords]
	result := append([]stackTag(nil), base...)
	result = append(result, aGroup...)
	result = append(result, bGroup...)
	result = append(result, aGroup...)
	a.stack = result
}

func (a *AdviceAdapter) fireExit(opcode int) {
	if a.OnMethodExit != nil {
		a.OnMethodExit(opcode)
	}
}

func (a *AdviceAdapter) VisitIntInsn(opcode, operand int) {
	if opcode == asm.NEWARRAY {
		a.pop(1)
	}
	a.pushOther(1)
	a.Delegate.VisitIntInsn(opcode, operand)
}

func (a *AdviceAdapter) VisitVarInsn(opcode, vard int) {
	switch opcode {
	case asm.ILOAD, asm.FLOAD, asm.ALOAD:
		if opcode == asm.ALOAD && vard == 0 && !a.superInitialized {
			a.push(1, tagUninitializedThis)
		} else {
			a.pushOther(1)
		}
	case asm.LLOAD, asm.DLOAD:
		a.pushOther(2)
	case asm.ISTORE, asm.FSTORE, asm.ASTORE:
		a.pop(1)
	case asm.LSTORE, asm.DSTORE:
		a.pop(2)
	case asm.RET:
		// RET never occurs once the JSR inliner has run; if it still does, it carries no stack
		// effect and is not an advice boundary.
	}
	a.Delegate.VisitVarInsn(opcode, vard)
}

func (a *AdviceAdapter) VisitTypeInsn(opcode int, typed string) {
	switch opcode {
	case asm.NEW:
		a.pushOther(1)
	case asm.ANEWARRAY, asm.CHECKCAST, asm.INSTANCEOF:
		a.pop(1)
		a.pushOther(1)
	}
	a.Delegate.VisitTypeInsn(opcode, typed)
}

func (a *AdviceAdapter) VisitFieldInsn(opcode int, owner, name, descriptor string) {
	size := asm.GetType(descriptor).GetSize()
	switch opcode {
	case asm.GETSTATIC:
		a.pushOther(size)
	case asm.PUTSTATIC:
		a.pop(size)
	case asm.GETFIELD:
		a.pop(1)
		a.pushOther(size)
	case asm.PUTFIELD:
		a.pop(1 + size)
	}
	a.Delegate.VisitFieldInsn(opcode, owner, name, descriptor)
}

func (a *AdviceAdapter) VisitMethodInsn(opcode int, owner, name, descriptor string, isInterface bool) {
	argWords := descriptorWords(descriptor)
	receiver := opcode != asm.INVOKESTATIC

	var receiverTag stackTag
	if receiver {
		if idx := len(a.stack) - argWords - 1; idx >= 0 {
			receiverTag = a.stack[idx]
		}
	}

	a.pop(argWords)
	if receiver {
		a.pop(1)
	}

	if opcode == asm.INVOKESPECIAL && name == "<init>" && receiver && receiverTag == tagUninitializedThis && !a.superInitialized {
		a.fireEnter()
	}

	retSize := asm.GetReturnType(descriptor).GetSize()
	a.pushOther(retSize)

	a.Delegate.VisitMethodInsn(opcode, owner, name, descriptor, isInterface)
}

func (a *AdviceAdapter) VisitInvokeDynamicInsn(name, descriptor string, bootstrapMethodHandle *asm.Handle, bootstrapMethodArguments ...interface{}) {
	a.pop(descriptorWords(descriptor))
	a.pushOther(asm.GetReturnType(descriptor).GetSize())
	a.Delegate.VisitInvokeDynamicInsn(name, descriptor, bootstrapMethodHandle, bootstrapMethodArguments...)
}

func (a *AdviceAdapter) VisitLdcInsn(value interface{}) {
	words := 1
	switch value.(type) {
	case int64, float64:
		words = 2
	}
	a.pushOther(words)
	a.Delegate.VisitLdcInsn(value)
}

func (a *AdviceAdapter) VisitIincInsn(vard, increment int) {
	a.Delegate.VisitIincInsn(vard, increment)
}

func (a *AdviceAdapter) VisitMultiANewArrayInsn(descriptor string, numDimensions int) {
	a.pop(numDimensions)
	a.pushOther(1)
	a.Delegate.VisitMultiANewArrayInsn(descriptor, numDimensions)
}

// snapshotBranch records the pre-branch stack under target, merging conservatively (down to
// OTHER) with any snapshot already recorded there: the JVM forbids backward jumps before the
// super call, so every label reached in the pre-super window is reached only via forward edges,
// and can be revisited by more than one of them.
func (a *AdviceAdapter) snapshotBranch(target *asm.Label) {
	if a.superInitialized {
		return
	}
	snap := append([]stackTag(nil), a.stack...)
	existing, ok := a.branches[target]
	if !ok {
		a.branches[target] = snap
		return
	}
	merged := make([]stackTag, len(existing))
	for i := range existing {
		if i < len(snap) && existing[i] == snap[i] {
			merged[i] = existing[i]
		} else {
			merged[i] = tagOther
		}
	}
	a.branches[target] = merged
}

func (a *AdviceAdapter) VisitJumpInsn(opcode int, label *asm.Label) {
	switch opcode {
	case asm.IFEQ, asm.IFNE, asm.IFLT, asm.IFGE, asm.IFGT, asm.IFLE, asm.IFNULL, asm.IFNONNULL:
		a.pop(1)
	case asm.IF_ICMPEQ, asm.IF_ICMPNE, asm.IF_ICMPLT, asm.IF_ICMPGE, asm.IF_ICMPGT, asm.IF_ICMPLE,
		asm.IF_ACMPEQ, asm.IF_ACMPNE:
		a.pop(2)
	}
	a.snapshotBranch(label)
	a.Delegate.VisitJumpInsn(opcode, label)
}

func (a *AdviceAdapter) VisitLabel(label *asm.Label) {
	if !a.superInitialized {
		if a.handlers[label] {
			a.stack = []stackTag{tagOther}
		} else if snap, ok := a.branches[label]; ok {
			a.stack = snap
		}
	}
	a.Delegate.VisitLabel(label)
}

func (a *AdviceAdapter) VisitTryCatchBlock(start, end, handler *asm.Label, typed string) {
	a.handlers[handler] = true
	a.Delegate.VisitTryCatchBlock(start, end, handler, typed)
}

func (a *AdviceAdapter) VisitTableSwitchInsn(min, max int, dflt *asm.Label, labels ...*asm.Label) {
	a.pop(1)
	a.snapshotBranch(dflt)
	for _, l := range labels {
		a.snapshotBranch(l)
	}
	a.Delegate.VisitTableSwitchInsn(min, max, dflt, labels...)
}

func (a *AdviceAdapter) VisitLookupSwitchInsn(dflt *asm.Label, keys []int, labels []*asm.Label) {
	a.pop(1)
	a.snapshotBranch(dflt)
	for _, l := range labels {
		a.snapshotBranch(l)
	}
	a.Delegate.VisitLookupSwitchInsn(dflt, keys, labels)
}
