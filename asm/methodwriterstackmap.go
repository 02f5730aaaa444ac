package asm

// verificationTypeInfoSize returns the encoded byte length of a single verification_type_info
// entry (JVMS 4.7.4): 1 byte for every simple tag, 3 for OBJECT/UNINITIALIZED (tag plus a u2).
func verificationTypeInfoSize(v VerificationType) int {
	switch v.Kind {
	case ItemObject, ItemUninitialized:
		return 3
	default:
		return 1
	}
}

// putVerificationTypeInfo writes v's wire tag (JVMS 4.7.4: 0=TOP,1=INTEGER,2=FLOAT,3=DOUBLE,
// 4=LONG,5=NULL,6=UNINITIALIZED_THIS,7=OBJECT,8=UNINITIALIZED) - a different order than this
// package's Item* enum, which the reader (classreader.go's readVerificationTypeInfo) already
// follows on the decode side.
func putVerificationTypeInfo(output *ByteVector, symbolTable *SymbolTable, v VerificationType) {
	switch v.Kind {
	case ItemTop:
		output.PutByte(0)
	case ItemInteger:
		output.PutByte(1)
	case ItemFloat:
		output.PutByte(2)
	case ItemDouble, ItemDouble2:
		output.PutByte(3)
	case ItemLong, ItemLong2:
		output.PutByte(4)
	case ItemNull:
		output.PutByte(5)
	case ItemUninitializedThis:
		output.PutByte(6)
	case ItemObject:
		output.PutByte(7).PutShort(symbolTable.AddConstantClass(v.InternalName))
	case ItemUninitialized:
		offset, _ := v.NewInsn.GetOffset()
		output.PutByte(8).PutShort(offset)
	}
}

// compressedFrameSize returns the encoded size of a single stack_map_frame entry, including the
// frame_type byte and picking the compact (offset_delta folded into frame_type, 0 extra bytes) vs.
// extended (explicit u2 offset_delta) encoding for SAME/SAME1 that Frame.Compress itself leaves open.
func compressedFrameSize(cf *CompressedFrame) int {
	switch cf.Type {
	case F_SAME:
		if cf.OffsetDelta <= 63 {
			return 1
		}
		return 3 // SAME_FRAME_EXTENDED
	case F_SAME1:
		size := 1
		if cf.OffsetDelta > 63 {
			size = 3 // SAME_LOCALS_1_STACK_ITEM_EXTENDED
		}
		return size + verificationTypeInfoSize(cf.Stack[0])
	case F_CHOP:
		return 3
	case F_APPEND:
		size := 3
		for _, l := range cf.Locals {
			size += verificationTypeInfoSize(l)
		}
		return size
	default: // F_FULL
		size := 7
		for _, l := range cf.Locals {
			size += verificationTypeInfoSize(l)
		}
		for _, s := range cf.Stack {
			size += verificationTypeInfoSize(s)
		}
		return size
	}
}

// stackMapTableSize returns the StackMapTable attribute's content size (excluding its own
// name_index/length header), or 0 if the method has no frames to record.
func (mw *MethodWriter) stackMapTableSize() int {
	if len(mw.compressedFrames) == 0 {
		return 0
	}
	size := 2 // number_of_entries
	for _, cf := range mw.compressedFrames {
		size += compressedFrameSize(cf)
	}
	return size
}

func (mw *MethodWriter) putStackMapTable(output *ByteVector) {
	output.PutShort(len(mw.compressedFrames))
	symbolTable := mw.symbolTable
	for _, cf := range mw.compressedFrames {
		switch cf.Type {
		case F_SAME:
			if cf.OffsetDelta <= 63 {
				output.PutByte(cf.OffsetDelta)
			} else {
				output.PutByte(251).PutShort(cf.OffsetDelta)
			}
		case F_SAME1:
			if cf.OffsetDelta <= 63 {
				output.PutByte(64 + cf.OffsetDelta)
			} else {
				output.PutByte(247).PutShort(cf.OffsetDelta)
			}
			putVerificationTypeInfo(output, symbolTable, cf.Stack[0])
		case F_CHOP:
			output.PutByte(251 - cf.ChopCount).PutShort(cf.OffsetDelta)
		case F_APPEND:
			output.PutByte(251 + len(cf.Locals)).PutShort(cf.OffsetDelta)
			for _, l := range cf.Locals {
				putVerificationTypeInfo(output, symbolTable, l)
			}
		default: // F_FULL
			output.PutByte(255).PutShort(cf.OffsetDelta)
			output.PutShort(len(cf.Locals))
			for _, l := range cf.Locals {
				putVerificationTypeInfo(output, symbolTable, l)
			}
			output.PutShort(len(cf.Stack))
			for _, s := range cf.Stack {
				putVerificationTypeInfo(output, symbolTable, s)
			}
		}
	}
}
