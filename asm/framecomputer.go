package asm

import "github.com/jvmgo/asmkit/asm/typed"

// simState the abstract-interpretation state flowing between instructions during COMPUTE_MAXS/
// COMPUTE_FRAMES (spec §4.3). Locals is slot-indexed exactly as the JVM addresses them (a LONG or
// DOUBLE occupies two consecutive entries, the second a VTop placeholder); Stack is logical
// (one entry per value, matching the StackMapTable wire encoding and the VisitFrame callback this
// module already exposes - see classreader.go's emitFrame/readVerificationTypeInfo).
type simState struct {
	Locals []VerificationType
	Stack  []VerificationType
}

func cloneState(s *simState) *simState {
	return &simState{
		Locals: append([]VerificationType(nil), s.Locals...),
		Stack:  append([]VerificationType(nil), s.Stack...),
	}
}

func wordSize(v VerificationType) int {
	if v.Kind == ItemLong || v.Kind == ItemDouble {
		return 2
	}
	return 1
}

func verificationTypeFromType(t *Type) VerificationType {
	switch t.GetSort() {
	case typed.BOOLEAN, typed.CHAR, typed.BYTE, typed.SHORT, typed.INT:
		return VInteger
	case typed.FLOAT:
		return VFloat
	case typed.LONG:
		return VLong
	case typed.DOUBLE:
		return VDouble
	case typed.ARRAY:
		return VObject(t.GetDescriptor())
	default: // OBJECT
		return VObject(t.GetInternalName())
	}
}

// classOrArrayVerificationType builds the OBJECT verification type for a NEW/ANEWARRAY/CHECKCAST/
// INSTANCEOF operand string, which is already either an internal class name or (for array types) a
// full array descriptor such as "[I"/"[Ljava/lang/String;", mirroring how VisitTypeInsn's callers
// already distinguish the two forms.
func classOrArrayVerificationType(ownerOrDescriptor string) VerificationType {
	return VObject(ownerOrDescriptor)
}

// initialState builds the abstract state on entry to a method: 'this' (or UNINITIALIZED_THIS for
// a constructor), if not static, followed by the declared parameters.
func initialState(access int, owner, name, descriptor string) *simState {
	var locals []VerificationType
	if access&ACC_STATIC == 0 {
		if name == "<init>" {
			locals = append(locals, VUninitializedThis)
		} else {
			locals = append(locals, VObject(owner))
		}
	}
	for _, arg := range GetArgumentTypes(descriptor) {
		v := verificationTypeFromType(arg)
		locals = append(locals, v)
		if arg.GetSize() == 2 {
			locals = append(locals, VTop)
		}
	}
	return &simState{Locals: locals}
}

func setLocal(locals *[]VerificationType, slot int, v VerificationType) {
	width := wordSize(v)
	need := slot + width
	if len(*locals) < need {
		grown := make([]VerificationType, need)
		copy(grown, *locals)
		for i := len(*locals); i < need; i++ {
			grown[i] = VTop
		}
		*locals = grown
	}
	(*locals)[slot] = v
	if width == 2 {
		(*locals)[slot+1] = VTop
	}
}

func getLocal(locals []VerificationType, slot int) VerificationType {
	if slot < 0 || slot >= len(locals) {
		return VTop
	}
	return locals[slot]
}

func popWords(s *simState, n int) error {
	remaining := n
	for remaining > 0 {
		if len(s.Stack) == 0 {
			return ErrFrameInconsistency
		}
		v := s.Stack[len(s.Stack)-1]
		w := wordSize(v)
		if w > remaining {
			return ErrFrameInconsistency
		}
		s.Stack = s.Stack[:len(s.Stack)-1]
		remaining -= w
	}
	return nil
}

func popValues(s *simState, n int) ([]VerificationType, error) {
	if len(s.Stack) < n {
		return nil, ErrFrameInconsistency
	}
	popped := append([]VerificationType(nil), s.Stack[len(s.Stack)-n:]...)
	s.Stack = s.Stack[:len(s.Stack)-n]
	return popped, nil
}

func push(s *simState, v VerificationType) {
	s.Stack = append(s.Stack, v)
}

// genDup implements every DUP-family opcode (DUP, DUP_X1, DUP_X2, DUP2, DUP2_X1, DUP2_X2) as one
// word-counting operation: pop the top group A (summing aWords words), then group B beneath it
// (summing bWords words, 0 for the plain DUP/DUP2 forms), and push back A, B, A - the JVMS 6.5
// tables for these six opcodes are all special cases of this same shape.
func genDup(s *simState, aWords, bWords int) error {
	n := len(s.Stack)
	aCount, aw := 0, 0
	for aw < aWords {
		idx := n - aCount - 1
		if idx < 0 {
			return ErrFrameInconsistency
		}
		w := wordSize(s.Stack[idx])
		if aw+w > aWords {
			return ErrFrameInconsistency
		}
		aw += w
		aCount++
	}
	bCount, bw := 0, 0
	for bw < bWords {
		idx := n - aCount - bCount - 1
		if idx < 0 {
			return ErrFrameInconsistency
		}
		w := wordSize(s.Stack[idx])
		if bw+w > bWords {
			return ErrFrameInconsistency
		}
		bw += w
		bCount++
	}
	a := append([]VerificationType(nil), s.Stack[n-aCount:]...)
	b := append([]VerificationType(nil), s.Stack[n-aCount-bCount:n-aCount]...)
	base := append([]VerificationType(nil), s.Stack[:n-aCount-bCount]...)
	result := append(base, a...)
	result = append(result, b...)
	result = append(result, a...)
	s.Stack = result
	return nil
}

func swapTop(s *simState) error {
	n := len(s.Stack)
	if n < 2 || wordSize(s.Stack[n-1]) != 1 || wordSize(s.Stack[n-2]) != 1 {
		return ErrFrameInconsistency
	}
	s.Stack[n-1], s.Stack[n-2] = s.Stack[n-2], s.Stack[n-1]
	return nil
}

func replaceUninitialized(s *simState, old, with VerificationType) {
	for i, v := range s.Locals {
		if v.Equal(old) {
			s.Locals[i] = with
		}
	}
	for i, v := range s.Stack {
		if v.Equal(old) {
			s.Stack[i] = with
		}
	}
}

func newarrayVerificationType(operand int) VerificationType {
	switch operand {
	case T_BOOLEAN:
		return VObject("[Z")
	case T_CHAR:
		return VObject("[C")
	case T_FLOAT:
		return VObject("[F")
	case T_DOUBLE:
		return VObject("[D")
	case T_BYTE:
		return VObject("[B")
	case T_SHORT:
		return VObject("[S")
	case T_INT:
		return VObject("[I")
	default: // T_LONG
		return VObject("[J")
	}
}

// anewarrayVerificationType returns the array type produced by ANEWARRAY <owner>: owner is either
// an internal class name or, for an array-of-arrays, already a "[..." descriptor.
func anewarrayVerificationType(owner string) VerificationType {
	if len(owner) > 0 && owner[0] == '[' {
		return VObject("[" + owner)
	}
	return VObject("[L" + owner + ";")
}

func arrayElementVerificationType(arrayType VerificationType) VerificationType {
	if arrayType.Kind != ItemObject || len(arrayType.InternalName) < 2 || arrayType.InternalName[0] != '[' {
		return VObject("java/lang/Object")
	}
	elementDescriptor := arrayType.InternalName[1:]
	return verificationTypeFromType(GetType(elementDescriptor))
}

func ldcVerificationType(value interface{}) VerificationType {
	switch v := value.(type) {
	case int32, int:
		return VInteger
	case int64:
		return VLong
	case float32:
		return VFloat
	case float64:
		return VDouble
	case string:
		return VObject("java/lang/String")
	case *Type:
		if v.GetSort() == typed.METHOD {
			return VObject("java/lang/invoke/MethodType")
		}
		return VObject("java/lang/Class")
	case *Handle:
		return VObject("java/lang/invoke/MethodHandle")
	case *ConstantDynamic:
		return verificationTypeFromType(GetType(v.GetDescriptor()))
	default:
		return VObject("java/lang/Object")
	}
}

func fieldVerificationType(descriptor string) VerificationType {
	return verificationTypeFromType(GetType(descriptor))
}

// stepInstruction simulates instr's effect on s (mutated in place) and reports its successors: the
// labels it may jump to, and whether control can also fall through to the next buffered
// instruction. mw.owner, the internal name of the class the method being assembled belongs to, is
// used to resolve UNINITIALIZED_THIS on an <init> self-call (JVMS 4.10.1.9).
func (mw *MethodWriter) stepInstruction(instr *instruction, s *simState) ([]*Label, bool, error) {
	if instr.labelHere != nil {
		return nil, true, nil
	}
	switch instr.kind {
	case insnNoArg:
		return nil, stepNoArg(instr.opcode, s)
	case insnIntOperand:
		switch instr.opcode {
		case NEWARRAY:
			if err := popWords(s, 1); err != nil {
				return nil, false, err
			}
			push(s, newarrayVerificationType(instr.intOperand))
		default: // BIPUSH, SIPUSH
			push(s, VInteger)
		}
		return nil, true, nil
	case insnVar:
		return nil, true, stepVar(instr, s)
	case insnType:
		return nil, true, mw.stepType(instr, s)
	case insnField:
		return nil, true, stepField(instr, s)
	case insnMethod:
		return nil, true, mw.stepMethod(instr, s)
	case insnInvokeDynamic:
		return nil, true, stepInvokeDynamic(instr, s)
	case insnLdc:
		push(s, ldcVerificationType(instr.ldcValue))
		return nil, true, nil
	case insnJump:
		return stepJump(instr, s)
	case insnTableSwitch:
		if err := popWords(s, 1); err != nil {
			return nil, false, err
		}
		targets := append([]*Label{instr.dflt}, instr.labels...)
		return targets, false, nil
	case insnLookupSwitch:
		if err := popWords(s, 1); err != nil {
			return nil, false, err
		}
		targets := append([]*Label{instr.dflt}, instr.labels...)
		return targets, false, nil
	case insnMultiANewArray:
		if err := popWords(s, instr.numDimensions); err != nil {
			return nil, false, err
		}
		push(s, VObject(instr.owner))
		return nil, true, nil
	}
	return nil, true, nil
}

func stepNoArg(opcode int, s *simState) bool {
	switch opcode {
	case NOP:
	case ACONST_NULL:
		push(s, VNull)
	case ICONST_M1, ICONST_0, ICONST_1, ICONST_2, ICONST_3, ICONST_4, ICONST_5:
		push(s, VInteger)
	case LCONST_0, LCONST_1:
		push(s, VLong)
	case FCONST_0, FCONST_1, FCONST_2:
		push(s, VFloat)
	case DCONST_0, DCONST_1:
		push(s, VDouble)
	case IALOAD, BALOAD, CALOAD, SALOAD:
		s.Stack = s.Stack[:len(s.Stack)-2]
		push(s, VInteger)
	case LALOAD:
		s.Stack = s.Stack[:len(s.Stack)-2]
		push(s, VLong)
	case FALOAD:
		s.Stack = s.Stack[:len(s.Stack)-2]
		push(s, VFloat)
	case DALOAD:
		s.Stack = s.Stack[:len(s.Stack)-2]
		push(s, VDouble)
	case AALOAD:
		arrayType := s.Stack[len(s.Stack)-2]
		s.Stack = s.Stack[:len(s.Stack)-2]
		push(s, arrayElementVerificationType(arrayType))
	case IASTORE, LASTORE, FASTORE, DASTORE, AASTORE, BASTORE, CASTORE, SASTORE:
		s.Stack = s.Stack[:len(s.Stack)-3]
	case POP:
		_ = popWords(s, 1)
	case POP2:
		_ = popWords(s, 2)
	case DUP:
		_ = genDup(s, 1, 0)
	case DUP_X1:
		_ = genDup(s, 1, 1)
	case DUP_X2:
		_ = genDup(s, 1, 2)
	case DUP2:
		_ = genDup(s, 2, 0)
	case DUP2_X1:
		_ = genDup(s, 2, 1)
	case DUP2_X2:
		_ = genDup(s, 2, 2)
	case SWAP:
		_ = swapTop(s)
	case IADD, ISUB, IMUL, IDIV, IREM, IAND, IOR, IXOR, ISHL, ISHR, IUSHR:
		s.Stack = s.Stack[:len(s.Stack)-2]
		push(s, VInteger)
	case LADD, LSUB, LMUL, LDIV, LREM, LAND, LOR, LXOR:
		s.Stack = s.Stack[:len(s.Stack)-2]
		push(s, VLong)
	case LSHL, LSHR, LUSHR:
		s.Stack = s.Stack[:len(s.Stack)-2]
		push(s, VLong)
	case FADD, FSUB, FMUL, FDIV, FREM:
		s.Stack = s.Stack[:len(s.Stack)-2]
		push(s, VFloat)
	case DADD, DSUB, DMUL, DDIV, DREM:
		s.Stack = s.Stack[:len(s.Stack)-2]
		push(s, VDouble)
	case INEG:
		s.Stack[len(s.Stack)-1] = VInteger
	case LNEG:
		s.Stack[len(s.Stack)-1] = VLong
	case FNEG:
		s.Stack[len(s.Stack)-1] = VFloat
	case DNEG:
		s.Stack[len(s.Stack)-1] = VDouble
	case I2L:
		s.Stack[len(s.Stack)-1] = VLong
	case I2F:
		s.Stack[len(s.Stack)-1] = VFloat
	case I2D:
		s.Stack[len(s.Stack)-1] = VDouble
	case L2I:
		s.Stack = s.Stack[:len(s.Stack)-1]
		push(s, VInteger)
	case L2F:
		s.Stack = s.Stack[:len(s.Stack)-1]
		push(s, VFloat)
	case L2D:
		s.Stack = s.Stack[:len(s.Stack)-1]
		push(s, VDouble)
	case F2I:
		s.Stack[len(s.Stack)-1] = VInteger
	case F2L:
		s.Stack = s.Stack[:len(s.Stack)-1]
		push(s, VLong)
	case F2D:
		s.Stack = s.Stack[:len(s.Stack)-1]
		push(s, VDouble)
	case D2I:
		s.Stack = s.Stack[:len(s.Stack)-1]
		push(s, VInteger)
	case D2L:
		s.Stack = s.Stack[:len(s.Stack)-1]
		push(s, VLong)
	case D2F:
		s.Stack = s.Stack[:len(s.Stack)-1]
		push(s, VFloat)
	case I2B, I2C, I2S:
		s.Stack[len(s.Stack)-1] = VInteger
	case LCMP, FCMPL, FCMPG, DCMPL, DCMPG:
		s.Stack = s.Stack[:len(s.Stack)-2]
		push(s, VInteger)
	case ARRAYLENGTH:
		s.Stack[len(s.Stack)-1] = VInteger
	case ATHROW:
		s.Stack = s.Stack[:len(s.Stack)-1]
		return false
	case MONITORENTER, MONITOREXIT:
		s.Stack = s.Stack[:len(s.Stack)-1]
	case IRETURN, LRETURN, FRETURN, DRETURN, ARETURN:
		s.Stack = s.Stack[:len(s.Stack)-1]
		return false
	case RETURN:
		return false
	}
	return true
}

func stepVar(instr *instruction, s *simState) error {
	switch instr.opcode {
	case ILOAD:
		push(s, VInteger)
	case LLOAD:
		push(s, VLong)
	case FLOAD:
		push(s, VFloat)
	case DLOAD:
		push(s, VDouble)
	case ALOAD:
		v := getLocal(s.Locals, instr.varIndex)
		if v.Kind == ItemTop {
			v = VObject("java/lang/Object")
		}
		push(s, v)
	case ISTORE:
		popped, err := popValues(s, 1)
		if err != nil {
			return err
		}
		setLocal(&s.Locals, instr.varIndex, popped[0])
	case LSTORE, FSTORE, DSTORE, ASTORE:
		popped, err := popValues(s, 1)
		if err != nil {
			return err
		}
		setLocal(&s.Locals, instr.varIndex, popped[0])
	case IINC:
		setLocal(&s.Locals, instr.varIndex, VInteger)
	case RET:
		// Subroutine control flow; JSRInlinerAdapter removes JSR/RET before this ever runs on
		// real code. Treated as terminal (no statically known successor).
	}
	return nil
}

func (mw *MethodWriter) stepType(instr *instruction, s *simState) error {
	switch instr.opcode {
	case NEW:
		push(s, VUninitialized(instr.newLabel()))
	case ANEWARRAY:
		if err := popWords(s, 1); err != nil {
			return err
		}
		push(s, anewarrayVerificationType(instr.owner))
	case CHECKCAST:
		s.Stack[len(s.Stack)-1] = VObject(instr.owner)
	case INSTANCEOF:
		s.Stack[len(s.Stack)-1] = VInteger
	}
	return nil
}

func stepField(instr *instruction, s *simState) error {
	switch instr.opcode {
	case GETSTATIC:
		push(s, fieldVerificationType(instr.descriptor))
	case PUTSTATIC:
		return popWords(s, wordSize(fieldVerificationType(instr.descriptor)))
	case GETFIELD:
		if err := popWords(s, 1); err != nil {
			return err
		}
		push(s, fieldVerificationType(instr.descriptor))
	case PUTFIELD:
		valueType := fieldVerificationType(instr.descriptor)
		if err := popWords(s, wordSize(valueType)); err != nil {
			return err
		}
		return popWords(s, 1)
	}
	return nil
}

func (mw *MethodWriter) stepMethod(instr *instruction, s *simState) error {
	args := GetArgumentTypes(instr.descriptor)
	argWords := 0
	for _, a := range args {
		argWords += a.GetSize()
	}
	if err := popWords(s, argWords); err != nil {
		return err
	}
	var receiver VerificationType
	if instr.opcode != INVOKESTATIC {
		popped, err := popValues(s, 1)
		if err != nil {
			return err
		}
		receiver = popped[0]
		if instr.opcode == INVOKESPECIAL && instr.name == "<init>" &&
			(receiver.Kind == ItemUninitializedThis || receiver.Kind == ItemUninitialized) {
			initialized := VObject(mw.owner)
			if receiver.Kind == ItemUninitialized {
				initialized = VObject(instr.owner)
			}
			replaceUninitialized(s, receiver, initialized)
		}
	}
	ret := GetReturnType(instr.descriptor)
	if ret.GetSize() > 0 {
		push(s, verificationTypeFromType(ret))
	}
	return nil
}

func stepInvokeDynamic(instr *instruction, s *simState) error {
	args := GetArgumentTypes(instr.descriptor)
	argWords := 0
	for _, a := range args {
		argWords += a.GetSize()
	}
	if err := popWords(s, argWords); err != nil {
		return err
	}
	ret := GetReturnType(instr.descriptor)
	if ret.GetSize() > 0 {
		push(s, verificationTypeFromType(ret))
	}
	return nil
}

func stepJump(instr *instruction, s *simState) ([]*Label, bool, error) {
	switch instr.opcode {
	case GOTO, GOTO_W:
		return []*Label{instr.label}, false, nil
	case JSR, JSR_W:
		return []*Label{instr.label}, false, nil
	case IFEQ, IFNE, IFLT, IFGE, IFGT, IFLE, IFNULL, IFNONNULL:
		if err := popWords(s, 1); err != nil {
			return nil, false, err
		}
		return []*Label{instr.label}, true, nil
	default: // IF_ICMPxx, IF_ACMPEQ, IF_ACMPNE
		if err := popWords(s, 2); err != nil {
			return nil, false, err
		}
		return []*Label{instr.label}, true, nil
	}
}

// newLabel lazily creates the per-NEW-instruction label identifying this uninitialized object for
// VUninitialized, resolved to a real bytecode offset once layout finishes widening.
func (instr *instruction) newLabel() *Label {
	if instr.uninitLabel == nil {
		instr.uninitLabel = NewLabel()
	}
	return instr.uninitLabel
}

// computeMaxsAndFrames runs a worklist dataflow analysis over mw.instructions, producing maxStack/
// maxLocals (always) and, when COMPUTE_FRAMES is requested, one Frame per label that needs an
// explicit StackMapTable entry (every jump target and every exception handler start).
func (mw *MethodWriter) computeMaxsAndFrames() error {
	n := len(mw.instructions)
	if n == 0 {
		mw.maxStack = 0
		mw.maxLocals = initialLocalsWidth(mw)
		return nil
	}

	labelIndex := make(map[*Label]int, n)
	for i, instr := range mw.instructions {
		if instr.labelHere != nil {
			labelIndex[instr.labelHere] = i
		}
	}

	entry := make([]*simState, n+1)
	entry[0] = initialState(mw.access, mw.owner, mw.name, mw.descriptor)

	inQueue := make([]bool, n+1)
	worklist := []int{0}
	inQueue[0] = true

	handlerStarts := make(map[*Label]bool)
	for _, tcb := range mw.tryCatchBlocks {
		handlerStarts[tcb.handler] = true
	}

	mergeInto := func(idx int, s *simState) (bool, error) {
		if entry[idx] == nil {
			entry[idx] = cloneState(s)
			return true, nil
		}
		dstLocals, localsChanged, err := mergeFrames(entry[idx].Locals, s.Locals)
		if err != nil {
			return false, err
		}
		entry[idx].Locals = dstLocals
		if len(entry[idx].Stack) != len(s.Stack) {
			if len(entry[idx].Stack) == 0 {
				entry[idx].Stack = append([]VerificationType(nil), s.Stack...)
				return localsChanged || len(s.Stack) > 0, nil
			}
			return false, ErrFrameInconsistency
		}
		stackChanged := false
		for i := range entry[idx].Stack {
			merged, ch, err := mergeVerificationType(entry[idx].Stack[i], s.Stack[i])
			if err != nil {
				return false, err
			}
			if ch {
				entry[idx].Stack[i] = merged
				stackChanged = true
			}
		}
		return localsChanged || stackChanged, nil
	}

	enqueue := func(idx int) {
		if idx >= 0 && idx <= n && !inQueue[idx] {
			inQueue[idx] = true
			worklist = append(worklist, idx)
		}
	}

	for len(worklist) > 0 {
		i := worklist[0]
		worklist = worklist[1:]
		inQueue[i] = false
		if i > n || entry[i] == nil {
			continue
		}

		for _, tcb := range mw.tryCatchBlocks {
			start, hasStart := labelIndex[tcb.start]
			end, hasEnd := labelIndex[tcb.end]
			handler, hasHandler := labelIndex[tcb.handler]
			if !hasStart || !hasEnd || !hasHandler {
				continue
			}
			if i >= start && i < end {
				exceptionType := VObject("java/lang/Throwable")
				if tcb.typeName != "" {
					exceptionType = VObject(tcb.typeName)
				}
				handlerState := &simState{Locals: append([]VerificationType(nil), entry[i].Locals...), Stack: []VerificationType{exceptionType}}
				changed, err := mergeInto(handler, handlerState)
				if err != nil {
					return err
				}
				if changed {
					enqueue(handler)
				}
			}
		}

		if i == n {
			continue
		}
		instr := mw.instructions[i]
		working := cloneState(entry[i])
		targets, fallsThrough, err := mw.stepInstruction(instr, working)
		if err != nil {
			return err
		}
		if fallsThrough {
			changed, err := mergeInto(i+1, working)
			if err != nil {
				return err
			}
			if changed {
				enqueue(i + 1)
			}
		}
		for _, target := range targets {
			idx, ok := labelIndex[target]
			if !ok {
				continue
			}
			changed, err := mergeInto(idx, working)
			if err != nil {
				return err
			}
			if changed {
				enqueue(idx)
			}
		}
	}

	maxStack, maxLocals := 0, 0
	for _, s := range entry {
		if s == nil {
			continue
		}
		if len(s.Stack) > maxStack {
			maxStack = len(s.Stack)
		}
		localsWidth := 0
		for _, v := range s.Locals {
			localsWidth += wordSize(v)
		}
		if localsWidth > maxLocals {
			maxLocals = localsWidth
		}
	}
	mw.maxStack = maxStack
	mw.maxLocals = maxLocals

	if mw.compute&COMPUTE_FRAMES != 0 {
		mw.buildCompressedFrames(entry, labelIndex, handlerStarts)
	}
	return nil
}

func initialLocalsWidth(mw *MethodWriter) int {
	s := initialState(mw.access, mw.owner, mw.name, mw.descriptor)
	width := 0
	for _, v := range s.Locals {
		width += wordSize(v)
	}
	return width
}

// compactLocals converts a slot-indexed locals vector (raw JVM addressing, LONG/DOUBLE occupying
// two entries) into the logical (one-entry-per-value) form the StackMapTable wire format and
// VisitFrame callback use.
func compactLocals(raw []VerificationType) []VerificationType {
	var out []VerificationType
	for i := 0; i < len(raw); i++ {
		out = append(out, raw[i])
		if raw[i].Kind == ItemLong || raw[i].Kind == ItemDouble {
			i++
		}
	}
	return out
}

// buildCompressedFrames produces mw.compressedFrames, one entry per jump target or exception
// handler start that is actually reachable, in code order, each compressed relative to the
// previous frame's locals (JVMS 4.7.4).
func (mw *MethodWriter) buildCompressedFrames(entry []*simState, labelIndex map[*Label]int, handlerStarts map[*Label]bool) {
	prevLocals := compactLocals(initialState(mw.access, mw.owner, mw.name, mw.descriptor).Locals)
	prevOffset := 0
	var frames []*CompressedFrame
	for i, instr := range mw.instructions {
		if instr.labelHere == nil {
			continue
		}
		if entry[i] == nil {
			continue
		}
		required := instr.labelHere.flags&FLAG_JUMP_TARGET != 0 || handlerStarts[instr.labelHere]
		if !required {
			continue
		}
		locals := compactLocals(entry[i].Locals)
		f := &Frame{Locals: locals, Stack: entry[i].Stack}
		offset, _ := instr.labelHere.GetOffset()
		offsetDelta := offset - prevOffset
		if len(frames) > 0 {
			offsetDelta--
		}
		cf := f.Compress(prevLocals, offsetDelta)
		frames = append(frames, cf)
		prevLocals = locals
		prevOffset = offset
	}
	mw.compressedFrames = frames
	_ = labelIndex
}
