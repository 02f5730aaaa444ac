package asm

// layout assembles the real bytecode and the Code attribute's derived tables (StackMapTable,
// max_stack/max_locals) once the whole method body has been visited (spec §4.3): every label
// referenced by an instruction, try/catch block or local-variable range must already be resolvable
// by the time this runs, since the widening fixpoint below resolves every label's final bytecode
// offset as a side effect of measuring instruction sizes.
func (mw *MethodWriter) layout() {
	mw.laidOut = true
	mw.resolveSizesAndOffsets()
	if mw.compute&(COMPUTE_MAXS|COMPUTE_FRAMES) != 0 {
		if err := mw.computeMaxsAndFrames(); err != nil {
			panic(err)
		}
	} else {
		mw.maxStack = mw.manualMaxStack
		mw.maxLocals = mw.manualMaxLocals
	}
	mw.resolveUninitLabels()
	if mw.compute&COMPUTE_FRAMES == 0 {
		mw.gatherExplicitFrames()
	}
	mw.emitCode()
}

// resolveSizesAndOffsets assigns offset/size/wide to every buffered instruction and resolves every
// label to its final bytecode offset. A jump's width (and a TABLESWITCH/LOOKUPSWITCH's padding) can
// depend on the offset of an instruction that itself hasn't been sized yet, so this relaxes to a
// fixpoint: each pass re-measures every instruction using the previous pass's label offsets, and
// widening only ever grows an instruction, so the position deltas that matter shrink pass over pass.
func (mw *MethodWriter) resolveSizesAndOffsets() {
	for pass := 0; pass < 16; pass++ {
		offset := 0
		changed := false
		for _, instr := range mw.instructions {
			if instr.labelHere != nil {
				if instr.labelHere.bytecodeOffset != offset {
					changed = true
				}
				instr.labelHere.resolve(offset)
				instr.offset = offset
				continue
			}
			if instr.kind == insnJump {
				mw.resolveJumpWidth(instr, offset, pass)
			}
			if instr.kind == insnVar {
				wide := instr.varIndex > 255
				if instr.opcode == IINC {
					wide = instr.varIndex > 255 || instr.intOperand < -128 || instr.intOperand > 127
				}
				if wide != instr.wide {
					instr.wide = wide
					changed = true
				}
			}
			size := mw.instructionSize(instr, offset)
			if size != instr.size {
				changed = true
			}
			instr.size = size
			instr.offset = offset
			offset += size
		}
		mw.codeLength = offset
		if !changed && pass > 0 {
			break
		}
	}
}

// resolveUninitLabels resolves every NEW instruction's lazily-created identity label (allocated by
// computeMaxsAndFrames's abstract interpretation, not before) to that instruction's now-known offset.
func (mw *MethodWriter) resolveUninitLabels() {
	for _, instr := range mw.instructions {
		if instr.kind == insnType && instr.opcode == NEW && instr.uninitLabel != nil {
			instr.uninitLabel.resolve(instr.offset)
		}
	}
}

// resolveJumpWidth decides whether instr needs its wide (_W, or inverted-branch-over-GOTO_W) form.
// GOTO_W/JSR_W stay wide unconditionally (this writer never narrows an already-wide jump). Every
// other jump starts narrow on pass 0 (before any label has a known offset) and widens from pass 1
// onward once its target's previous-pass offset puts the delta outside the signed 16-bit range.
func (mw *MethodWriter) resolveJumpWidth(instr *instruction, offset, pass int) {
	switch instr.opcode {
	case GOTO_W, JSR_W:
		instr.wide = true
	default:
		if pass == 0 {
			return
		}
		targetOffset, err := instr.label.GetOffset()
		if err != nil {
			return
		}
		delta := targetOffset - offset
		instr.wide = delta < -32768 || delta > 32767
	}
}

// instructionSize returns the encoded byte length of instr once its wide/opcode choices are fixed,
// mirroring the format table instructionformat.go already uses to decode the reverse direction.
func (mw *MethodWriter) instructionSize(instr *instruction, offset int) int {
	switch instr.kind {
	case insnNoArg:
		return 1
	case insnIntOperand:
		if instr.opcode == SIPUSH {
			return 3
		}
		return 2
	case insnVar:
		if instr.opcode == IINC {
			if instr.wide {
				return 6
			}
			return 3
		}
		if instr.wide {
			return 4
		}
		return 2
	case insnType:
		return 3
	case insnField:
		return 3
	case insnMethod:
		if instr.opcode == INVOKEINTERFACE {
			return 5
		}
		return 3
	case insnInvokeDynamic:
		return 5
	case insnLdc:
		opcode, _ := mw.ldcOpcodeAndIndex(instr)
		if opcode == LDC {
			return 2
		}
		return 3
	case insnJump:
		switch instr.opcode {
		case GOTO_W, JSR_W:
			return 5
		default:
			if !instr.wide {
				return 3
			}
			if instr.opcode == GOTO || instr.opcode == JSR {
				return 5
			}
			return 8 // inverted test (3 bytes) + GOTO_W (5 bytes)
		}
	case insnTableSwitch:
		padding := (4 - (offset+1)%4) % 4
		return 1 + padding + 12 + 4*(instr.max-instr.min+1)
	case insnLookupSwitch:
		padding := (4 - (offset+1)%4) % 4
		return 1 + padding + 8 + 8*len(instr.keys)
	case insnMultiANewArray:
		return 4
	}
	return 1
}

// ldcConstantIndex interns instr's constant (idempotently - every Add* method is content-addressed,
// so re-adding at size/emit time just looks up the index VisitLdcInsn already assigned) and returns
// its constant pool index. Mirrors addConstantForDynamicArgument's type switch.
func (mw *MethodWriter) ldcConstantIndex(value interface{}) int {
	return mw.addConstantForDynamicArgument(value)
}

// ldcIsWideCategory reports whether value is a category-2 constant (JVMS 4.4.5), which must be
// loaded with LDC2_W rather than LDC/LDC_W regardless of its constant pool index.
func ldcIsWideCategory(value interface{}) bool {
	switch v := value.(type) {
	case int64, float64:
		return true
	case *ConstantDynamic:
		return v.GetSize() == 2
	default:
		return false
	}
}

// ldcOpcodeAndIndex picks LDC/LDC_W/LDC2_W for instr's constant and returns its pool index.
func (mw *MethodWriter) ldcOpcodeAndIndex(instr *instruction) (opcode, index int) {
	index = mw.ldcConstantIndex(instr.ldcValue)
	if ldcIsWideCategory(instr.ldcValue) {
		return LDC2_W, index
	}
	if index > 255 {
		return LDC_W, index
	}
	return LDC, index
}

// invertedJumpOpcode returns the logically negated form of a conditional jump opcode, used to splice
// a too-far branch into "inverted test over an inserted GOTO_W".
func invertedJumpOpcode(opcode int) int {
	switch opcode {
	case IFEQ:
		return IFNE
	case IFNE:
		return IFEQ
	case IFLT:
		return IFGE
	case IFGE:
		return IFLT
	case IFGT:
		return IFLE
	case IFLE:
		return IFGT
	case IF_ICMPEQ:
		return IF_ICMPNE
	case IF_ICMPNE:
		return IF_ICMPEQ
	case IF_ICMPLT:
		return IF_ICMPGE
	case IF_ICMPGE:
		return IF_ICMPLT
	case IF_ICMPGT:
		return IF_ICMPLE
	case IF_ICMPLE:
		return IF_ICMPGT
	case IF_ACMPEQ:
		return IF_ACMPNE
	case IF_ACMPNE:
		return IF_ACMPEQ
	case IFNULL:
		return IFNONNULL
	default: // IFNONNULL
		return IFNULL
	}
}

// emitCode serializes every non-label instruction into mw.code at its resolved offset.
func (mw *MethodWriter) emitCode() {
	mw.code = NewByteVector(mw.codeLength)
	for _, instr := range mw.instructions {
		if instr.labelHere != nil {
			continue
		}
		mw.emitInstruction(instr)
	}
}

func (mw *MethodWriter) emitInstruction(instr *instruction) {
	code := mw.code
	symbolTable := mw.symbolTable
	switch instr.kind {
	case insnNoArg:
		code.PutByte(instr.opcode)
	case insnIntOperand:
		if instr.opcode == SIPUSH {
			code.PutByte(instr.opcode).PutShort(instr.intOperand)
		} else {
			code.Put11(instr.opcode, instr.intOperand)
		}
	case insnVar:
		mw.emitVarInsn(instr)
	case insnType:
		code.Put12(instr.opcode, symbolTable.AddConstantClass(instr.owner))
	case insnField:
		code.Put12(instr.opcode, symbolTable.AddConstantFieldref(instr.owner, instr.name, instr.descriptor))
	case insnMethod:
		mw.emitMethodInsn(instr)
	case insnInvokeDynamic:
		bsmIndex := mw.addBootstrapMethod(instr.handle, instr.bsmArgs)
		idx := symbolTable.AddConstantInvokeDynamic(instr.name, instr.descriptor, bsmIndex)
		code.Put12(INVOKEDYNAMIC, idx).PutShort(0)
	case insnLdc:
		mw.emitLdcInsn(instr)
	case insnJump:
		mw.emitJumpInsn(instr)
	case insnTableSwitch:
		mw.emitTableSwitchInsn(instr)
	case insnLookupSwitch:
		mw.emitLookupSwitchInsn(instr)
	case insnMultiANewArray:
		code.Put12(instr.opcode, symbolTable.AddConstantClass(instr.owner)).PutByte(instr.numDimensions)
	}
}

func (mw *MethodWriter) emitVarInsn(instr *instruction) {
	code := mw.code
	if instr.opcode == IINC {
		if instr.wide {
			code.PutByte(WIDE).PutByte(IINC).PutShort(instr.varIndex).PutShort(instr.intOperand)
		} else {
			code.PutByte(IINC).PutByte(instr.varIndex).PutByte(instr.intOperand)
		}
		return
	}
	if instr.wide {
		code.PutByte(WIDE).PutByte(instr.opcode).PutShort(instr.varIndex)
		return
	}
	code.Put11(instr.opcode, instr.varIndex)
}

func (mw *MethodWriter) emitMethodInsn(instr *instruction) {
	code := mw.code
	symbolTable := mw.symbolTable
	if instr.opcode == INVOKEINTERFACE {
		idx := symbolTable.AddConstantMethodref(instr.owner, instr.name, instr.descriptor, true)
		argWords := 1
		for _, a := range GetArgumentTypes(instr.descriptor) {
			argWords += a.GetSize()
		}
		code.Put12(instr.opcode, idx).PutByte(argWords).PutByte(0)
		return
	}
	idx := symbolTable.AddConstantMethodref(instr.owner, instr.name, instr.descriptor, instr.isInterface)
	code.Put12(instr.opcode, idx)
}

func (mw *MethodWriter) emitLdcInsn(instr *instruction) {
	opcode, idx := mw.ldcOpcodeAndIndex(instr)
	if opcode == LDC {
		mw.code.Put11(LDC, idx)
		return
	}
	mw.code.PutByte(opcode).PutShort(idx)
}

func (mw *MethodWriter) emitJumpInsn(instr *instruction) {
	code := mw.code
	targetOffset, _ := instr.label.GetOffset()
	switch instr.opcode {
	case GOTO_W, JSR_W:
		code.PutByte(instr.opcode).PutInt(targetOffset - instr.offset)
		return
	}
	if !instr.wide {
		code.PutByte(instr.opcode).PutShort(targetOffset - instr.offset)
		return
	}
	if instr.opcode == GOTO || instr.opcode == JSR {
		wideOpcode := GOTO_W
		if instr.opcode == JSR {
			wideOpcode = JSR_W
		}
		code.PutByte(wideOpcode).PutInt(targetOffset - instr.offset)
		return
	}
	gotoOffset := instr.offset + 3
	code.PutByte(invertedJumpOpcode(instr.opcode)).PutShort(8)
	code.PutByte(GOTO_W).PutInt(targetOffset - gotoOffset)
}

func (mw *MethodWriter) emitTableSwitchInsn(instr *instruction) {
	code := mw.code
	code.PutByte(instr.opcode)
	padding := instr.size - 1 - (12 + 4*(instr.max-instr.min+1))
	for i := 0; i < padding; i++ {
		code.PutByte(0)
	}
	dfltOffset, _ := instr.dflt.GetOffset()
	code.PutInt(dfltOffset - instr.offset)
	code.PutInt(instr.min)
	code.PutInt(instr.max)
	for _, l := range instr.labels {
		off, _ := l.GetOffset()
		code.PutInt(off - instr.offset)
	}
}

func (mw *MethodWriter) emitLookupSwitchInsn(instr *instruction) {
	code := mw.code
	code.PutByte(instr.opcode)
	padding := instr.size - 1 - (8 + 8*len(instr.keys))
	for i := 0; i < padding; i++ {
		code.PutByte(0)
	}
	dfltOffset, _ := instr.dflt.GetOffset()
	code.PutInt(dfltOffset - instr.offset)
	code.PutInt(len(instr.keys))
	for i, k := range instr.keys {
		code.PutInt(k)
		off, _ := instr.labels[i].GetOffset()
		code.PutInt(off - instr.offset)
	}
}

// gatherExplicitFrames compresses the explicit frames recorded by VisitFrame (a COMPUTE_NONE or
// COMPUTE_MAXS-only caller, typically a ClassReader -> ClassWriter copy pipeline) into
// mw.compressedFrames, the same shape COMPUTE_FRAMES would have produced from scratch.
func (mw *MethodWriter) gatherExplicitFrames() {
	prevLocals := compactLocals(initialState(mw.access, mw.owner, mw.name, mw.descriptor).Locals)
	prevOffset := 0
	var frames []*CompressedFrame
	for _, instr := range mw.instructions {
		if instr.labelHere == nil || instr.labelHere.frame == nil {
			continue
		}
		f := instr.labelHere.frame
		offset, _ := instr.labelHere.GetOffset()
		offsetDelta := offset - prevOffset
		if len(frames) > 0 {
			offsetDelta--
		}
		cf := (&Frame{Locals: f.Locals, Stack: f.Stack}).Compress(prevLocals, offsetDelta)
		frames = append(frames, cf)
		prevLocals = f.Locals
		prevOffset = offset
	}
	mw.compressedFrames = frames
}
