package asm

import (
	"math"

	"github.com/jvmgo/asmkit/asm/typed"
)

// insnKind classifies a buffered instruction by the operand shape it carries, mirroring the
// formatXxx families of instructionformat.go but for the writer's abstract instruction list rather
// than a decoded byte stream: MethodWriter never commits bytecode until every label in the method
// has been visited, since a jump's encoded width (2 or 4 bytes) can depend on the position of a
// label that isn't resolved yet (spec §4.3).
type insnKind int

const (
	insnNoArg insnKind = iota
	insnIntOperand       // BIPUSH, SIPUSH, NEWARRAY
	insnVar              // xLOAD, xSTORE, RET, IINC (increment stored in intOperand)
	insnType             // NEW, ANEWARRAY, CHECKCAST, INSTANCEOF
	insnField            // GETFIELD, PUTFIELD, GETSTATIC, PUTSTATIC
	insnMethod           // INVOKEVIRTUAL, INVOKESPECIAL, INVOKESTATIC, INVOKEINTERFACE
	insnInvokeDynamic
	insnJump
	insnLdc
	insnTableSwitch
	insnLookupSwitch
	insnMultiANewArray
)

// instruction one buffered bytecode instruction (or a pseudo-instruction such as a label or line
// number marker). offset and size are filled in by layout.
type instruction struct {
	kind   insnKind
	opcode int

	intOperand int    // BIPUSH/SIPUSH/NEWARRAY value, or IINC increment
	varIndex   int    // local variable slot for insnVar
	owner      string // NEW/ANEWARRAY/CHECKCAST/INSTANCEOF type, or field/method owner
	name       string
	descriptor string
	isInterface bool

	ldcValue interface{}

	handle  *Handle
	bsmArgs []interface{}

	label  *Label // jump target, or the label a line-number/pseudo marker is anchored to
	dflt   *Label
	keys   []int
	labels []*Label
	min, max int

	numDimensions int

	labelHere *Label // set on a pseudo label-marker instruction
	lineHere  int     // set on a pseudo line-number marker (0 = none)

	offset int
	size   int
	wide   bool // GOTO/JSR promoted to _W form, or an inverted-IF-over-GOTO_W splice

	uninitLabel *Label // lazily created identity label for a NEW instruction's VUninitialized type
}

func isUnconditionalJump(opcode int) bool {
	switch opcode {
	case GOTO, GOTO_W, RET, ATHROW, IRETURN, LRETURN, FRETURN, DRETURN, ARETURN, RETURN,
		TABLESWITCH, LOOKUPSWITCH:
		return true
	default:
		return false
	}
}

type tryCatchBlock struct {
	start, end, handler *Label
	typeName             string
	typeIndex            int // constant pool index of typeName, or 0 for a catch-all (finally)
}

type lineNumberEntry struct {
	line  int
	start *Label
}

type localVariableEntry struct {
	name, descriptor, signature string
	start, end                  *Label
	index                       int
}

type localVariableAnnotationEntry struct {
	typeRef            int
	typePath           *TypePath
	start, end         []*Label
	index              []int
	descriptor         string
	visible            bool
	writer             *AnnotationWriter
}

type codeAnnotationEntry struct {
	typeRef    int
	typePath   *TypePath
	descriptor string
	visible    bool
	// exactly one of the following identifies what the annotation targets
	insn          *instruction // VisitInsnAnnotation: targets the instruction just visited
	tryCatchIndex int          // VisitTryCatchAnnotation: index into tryCatchBlocks, -1 if unused
	writer        *AnnotationWriter
}

type parameterAnnotations struct {
	visible []*AnnotationWriter
	invisible []*AnnotationWriter
}

// MethodWriter a MethodVisitor that buffers a method_info structure (JVMS 4.6) and, for its Code
// attribute, an abstract instruction list that is only assembled into real bytecode once the whole
// method has been visited (see layout). Reuses the verification-type lattice and frame compression
// machinery of frame.go for the COMPUTE_FRAMES mode.
type MethodWriter struct {
	symbolTable *SymbolTable
	compute     int
	owner       string // internal name of the class this method belongs to

	access       int
	name         string
	descriptor   string
	signature    string
	hasSignature bool
	exceptions   []string

	parameters []methodParameterEntry

	hasAnnotationDefault bool
	annotationDefault     *ByteVector

	visibleAnnotationsTail       *AnnotationWriter
	invisibleAnnotationsTail     *AnnotationWriter
	visibleTypeAnnotationsTail   *AnnotationWriter
	invisibleTypeAnnotationsTail *AnnotationWriter

	visibleAnnotableParameterCount   int
	invisibleAnnotableParameterCount int
	numParameters                    int
	parameterAnnotationsTail         map[int]*parameterAnnotations

	firstAttribute *Attribute

	hasCode      bool
	instructions []*instruction
	lastInsn     *instruction

	manualMaxStack  int
	manualMaxLocals int

	tryCatchBlocks []*tryCatchBlock
	lineNumbers    []lineNumberEntry
	localVariables []localVariableEntry
	localVarAnnotations []localVariableAnnotationEntry
	codeAnnotations []codeAnnotationEntry

	// filled in by layout()
	code           *ByteVector
	codeLength     int
	maxStack       int
	maxLocals      int
	compressedFrames []*CompressedFrame // one per jump target / handler start, in code order
	laidOut        bool
}

type methodParameterEntry struct {
	name   string
	access int
}

// NewMethodWriter constructs a writer for a single method being visited. compute combines
// COMPUTE_MAXS/COMPUTE_FRAMES.
func NewMethodWriter(symbolTable *SymbolTable, owner string, access int, name, descriptor, signature string, exceptions []string, compute int) *MethodWriter {
	mw := &MethodWriter{symbolTable: symbolTable, compute: compute, owner: owner, access: access, name: name, descriptor: descriptor, exceptions: exceptions}
	symbolTable.AddConstantUtf8(name)
	symbolTable.AddConstantUtf8(descriptor)
	if signature != "" {
		mw.hasSignature = true
		mw.signature = signature
		symbolTable.AddConstantUtf8(signature)
	}
	for _, e := range exceptions {
		symbolTable.AddConstantClass(e)
	}
	return mw
}

func (mw *MethodWriter) VisitParameter(name string, access int) {
	mw.parameters = append(mw.parameters, methodParameterEntry{name, access})
	if name != "" {
		mw.symbolTable.AddConstantUtf8(name)
	}
}

func (mw *MethodWriter) VisitAnnotationDefault() AnnotationVisitor {
	mw.hasAnnotationDefault = true
	mw.annotationDefault = NewByteVector(32)
	w := NewAnnotationWriter(mw.symbolTable, false, mw.annotationDefault, nil)
	return w
}

func (mw *MethodWriter) VisitAnnotation(descriptor string, visible bool) AnnotationVisitor {
	annotation := NewByteVector(32)
	annotation.PutShort(mw.symbolTable.AddConstantUtf8(descriptor)).PutShort(0)
	var prev *AnnotationWriter
	if visible {
		prev = mw.visibleAnnotationsTail
	} else {
		prev = mw.invisibleAnnotationsTail
	}
	w := NewAnnotationWriter(mw.symbolTable, true, annotation, prev)
	w.numElementValuePairsOffset = annotation.Len() - 2
	if visible {
		mw.visibleAnnotationsTail = w
	} else {
		mw.invisibleAnnotationsTail = w
	}
	return w
}

func (mw *MethodWriter) VisitTypeAnnotation(typeRef int, typePath *TypePath, descriptor string, visible bool) AnnotationVisitor {
	annotation := NewByteVector(32)
	putTarget(annotation, typeRef, typePath)
	annotation.PutShort(mw.symbolTable.AddConstantUtf8(descriptor)).PutShort(0)
	var prev *AnnotationWriter
	if visible {
		prev = mw.visibleTypeAnnotationsTail
	} else {
		prev = mw.invisibleTypeAnnotationsTail
	}
	w := NewAnnotationWriter(mw.symbolTable, true, annotation, prev)
	w.numElementValuePairsOffset = annotation.Len() - 2
	if visible {
		mw.visibleTypeAnnotationsTail = w
	} else {
		mw.invisibleTypeAnnotationsTail = w
	}
	return w
}

func (mw *MethodWriter) VisitAnnotableParameterCount(parameterCount int, visible bool) {
	if visible {
		mw.visibleAnnotableParameterCount = parameterCount
	} else {
		mw.invisibleAnnotableParameterCount = parameterCount
	}
}

func (mw *MethodWriter) VisitParameterAnnotation(parameter int, descriptor string, visible bool) AnnotationVisitor {
	if mw.parameterAnnotationsTail == nil {
		mw.parameterAnnotationsTail = make(map[int]*parameterAnnotations)
	}
	if parameter+1 > mw.numParameters {
		mw.numParameters = parameter + 1
	}
	pa := mw.parameterAnnotationsTail[parameter]
	if pa == nil {
		pa = &parameterAnnotations{}
		mw.parameterAnnotationsTail[parameter] = pa
	}
	annotation := NewByteVector(32)
	annotation.PutShort(mw.symbolTable.AddConstantUtf8(descriptor)).PutShort(0)
	var prev *AnnotationWriter
	if visible {
		if len(pa.visible) > 0 {
			prev = pa.visible[len(pa.visible)-1]
		}
	} else {
		if len(pa.invisible) > 0 {
			prev = pa.invisible[len(pa.invisible)-1]
		}
	}
	w := NewAnnotationWriter(mw.symbolTable, true, annotation, prev)
	w.numElementValuePairsOffset = annotation.Len() - 2
	if visible {
		pa.visible = append(pa.visible, w)
	} else {
		pa.invisible = append(pa.invisible, w)
	}
	return w
}

func (mw *MethodWriter) VisitAttribute(attribute *Attribute) {
	if mw.firstAttribute == nil {
		mw.firstAttribute = attribute
	} else {
		mw.firstAttribute.Append(attribute)
	}
}

func (mw *MethodWriter) VisitCode() {
	mw.hasCode = true
}

// VisitFrame records an explicit frame from a COMPUTE_NONE caller (typically a ClassReader ->
// ClassWriter copy pipeline that already carries StackMapTable entries). COMPUTE_FRAMES recomputes
// frames from scratch and ignores these.
func (mw *MethodWriter) VisitFrame(typed, nLocal int, local []VerificationType, nStack int, stack []VerificationType) {
	if mw.compute&COMPUTE_FRAMES != 0 {
		return
	}
	if mw.lastInsn != nil && mw.lastInsn.labelHere != nil {
		f := NewFrame(mw.lastInsn.labelHere)
		f.SetLocals(append([]VerificationType(nil), local[:nLocal]...))
		f.SetStack(append([]VerificationType(nil), stack[:nStack]...))
		mw.lastInsn.labelHere.frame = f
	}
}

func (mw *MethodWriter) append(insn *instruction) {
	mw.instructions = append(mw.instructions, insn)
	mw.lastInsn = insn
}

func (mw *MethodWriter) VisitInsn(opcode int) {
	mw.append(&instruction{kind: insnNoArg, opcode: opcode})
}

func (mw *MethodWriter) VisitIntInsn(opcode, operand int) {
	mw.append(&instruction{kind: insnIntOperand, opcode: opcode, intOperand: operand})
}

func (mw *MethodWriter) VisitVarInsn(opcode, vard int) {
	mw.append(&instruction{kind: insnVar, opcode: opcode, varIndex: vard})
}

func (mw *MethodWriter) VisitTypeInsn(opcode int, typed string) {
	mw.symbolTable.AddConstantClass(typed)
	mw.append(&instruction{kind: insnType, opcode: opcode, owner: typed})
}

func (mw *MethodWriter) VisitFieldInsn(opcode int, owner, name, descriptor string) {
	mw.symbolTable.AddConstantFieldref(owner, name, descriptor)
	mw.append(&instruction{kind: insnField, opcode: opcode, owner: owner, name: name, descriptor: descriptor})
}

func (mw *MethodWriter) VisitMethodInsn(opcode int, owner, name, descriptor string, isInterface bool) {
	mw.symbolTable.AddConstantMethodref(owner, name, descriptor, isInterface)
	mw.append(&instruction{kind: insnMethod, opcode: opcode, owner: owner, name: name, descriptor: descriptor, isInterface: isInterface})
}

func (mw *MethodWriter) VisitInvokeDynamicInsn(name, descriptor string, bootstrapMethodHandle *Handle, bootstrapMethodArguments ...interface{}) {
	bsmIndex := mw.addBootstrapMethod(bootstrapMethodHandle, bootstrapMethodArguments)
	mw.symbolTable.AddConstantInvokeDynamic(name, descriptor, bsmIndex)
	mw.append(&instruction{kind: insnInvokeDynamic, opcode: INVOKEDYNAMIC, name: name, descriptor: descriptor, handle: bootstrapMethodHandle, bsmArgs: bootstrapMethodArguments})
}

func (mw *MethodWriter) addBootstrapMethod(handle *Handle, arguments []interface{}) int {
	methodHandleIndex := mw.symbolTable.AddConstantMethodHandle(handle.GetTag(), handle.GetOwner(), handle.GetName(), handle.GetDesc(), handle.IsInterface())
	argumentIndices := make([]int, len(arguments))
	for i, arg := range arguments {
		argumentIndices[i] = mw.addConstantForDynamicArgument(arg)
	}
	return mw.symbolTable.AddBootstrapMethod(methodHandleIndex, argumentIndices)
}

func (mw *MethodWriter) addConstantForDynamicArgument(value interface{}) int {
	switch v := value.(type) {
	case int32:
		return mw.symbolTable.AddConstantInteger(v)
	case int:
		return mw.symbolTable.AddConstantInteger(int32(v))
	case int64:
		return mw.symbolTable.AddConstantLong(v)
	case float32:
		return mw.symbolTable.AddConstantFloat(int32(math.Float32bits(v)))
	case float64:
		return mw.symbolTable.AddConstantDouble(int64(math.Float64bits(v)))
	case string:
		return mw.symbolTable.AddConstantString(v)
	case *Type:
		if v.GetSort() == typed.METHOD {
			return mw.symbolTable.AddConstantMethodType(v.GetDescriptor())
		}
		return mw.symbolTable.AddConstantClass(v.GetInternalName())
	case *Handle:
		return mw.symbolTable.AddConstantMethodHandle(v.GetTag(), v.GetOwner(), v.GetName(), v.GetDesc(), v.IsInterface())
	case *ConstantDynamic:
		bsmIndex := mw.addBootstrapMethodForConstant(v)
		return mw.symbolTable.AddConstantDynamic(v.GetName(), v.GetDescriptor(), bsmIndex)
	default:
		panic("bad dynamic constant argument type")
	}
}

func (mw *MethodWriter) addBootstrapMethodForConstant(c *ConstantDynamic) int {
	handle := c.GetBootstrapMethod()
	arguments := make([]interface{}, c.GetBootstrapMethodArgumentCount())
	for i := range arguments {
		arguments[i] = c.GetBootstrapMethodArgument(i)
	}
	return mw.addBootstrapMethod(handle, arguments)
}

func (mw *MethodWriter) VisitJumpInsn(opcode int, label *Label) {
	label.markJumpTarget()
	mw.append(&instruction{kind: insnJump, opcode: opcode, label: label})
}

func (mw *MethodWriter) VisitLabel(label *Label) {
	mw.append(&instruction{kind: insnNoArg, opcode: -1, labelHere: label})
}

func (mw *MethodWriter) VisitLdcInsn(value interface{}) {
	switch v := value.(type) {
	case int32:
		mw.symbolTable.AddConstantInteger(v)
	case int:
		mw.symbolTable.AddConstantInteger(int32(v))
	case int64:
		mw.symbolTable.AddConstantLong(v)
	case float32:
		mw.symbolTable.AddConstantFloat(int32(math.Float32bits(v)))
	case float64:
		mw.symbolTable.AddConstantDouble(int64(math.Float64bits(v)))
	case string:
		mw.symbolTable.AddConstantString(v)
	case *Type:
		if v.GetSort() == typed.METHOD {
			mw.symbolTable.AddConstantMethodType(v.GetDescriptor())
		} else {
			mw.symbolTable.AddConstantClass(v.GetInternalName())
		}
	case *Handle:
		mw.symbolTable.AddConstantMethodHandle(v.GetTag(), v.GetOwner(), v.GetName(), v.GetDesc(), v.IsInterface())
	case *ConstantDynamic:
		bsmIndex := mw.addBootstrapMethodForConstant(v)
		mw.symbolTable.AddConstantDynamic(v.GetName(), v.GetDescriptor(), bsmIndex)
	default:
		panic("bad ldc value type")
	}
	mw.append(&instruction{kind: insnLdc, opcode: LDC, ldcValue: value})
}

func (mw *MethodWriter) VisitIincInsn(vard, increment int) {
	mw.append(&instruction{kind: insnVar, opcode: IINC, varIndex: vard, intOperand: increment})
}

func (mw *MethodWriter) VisitTableSwitchInsn(min, max int, dflt *Label, labels ...*Label) {
	dflt.markJumpTarget()
	for _, l := range labels {
		l.markJumpTarget()
	}
	mw.append(&instruction{kind: insnTableSwitch, opcode: TABLESWITCH, min: min, max: max, dflt: dflt, labels: labels})
}

func (mw *MethodWriter) VisitLookupSwitchInsn(dflt *Label, keys []int, labels []*Label) {
	dflt.markJumpTarget()
	for _, l := range labels {
		l.markJumpTarget()
	}
	mw.append(&instruction{kind: insnLookupSwitch, opcode: LOOKUPSWITCH, dflt: dflt, keys: keys, labels: labels})
}

func (mw *MethodWriter) VisitMultiANewArrayInsn(descriptor string, numDimensions int) {
	mw.symbolTable.AddConstantClass(descriptor)
	mw.append(&instruction{kind: insnMultiANewArray, opcode: MULTIANEWARRAY, owner: descriptor, numDimensions: numDimensions})
}

// codeAnnotationPlaceholder returns an AnnotationVisitor that buffers only the element values: the
// real target_info for a code-context type annotation (an instruction offset or a try/catch table
// index) is rebuilt from codeAnnotations once bytecode offsets are known (see
// buildCodeTypeAnnotations), since VisitInsnAnnotation/VisitTryCatchAnnotation/
// VisitLocalVariableAnnotation can be called long before their referenced labels are resolved.
func (mw *MethodWriter) codeAnnotationPlaceholder(descriptor string) *AnnotationWriter {
	annotation := NewByteVector(32)
	annotation.PutShort(mw.symbolTable.AddConstantUtf8(descriptor)).PutShort(0)
	w := NewAnnotationWriter(mw.symbolTable, true, annotation, nil)
	w.numElementValuePairsOffset = annotation.Len() - 2
	return w
}

func (mw *MethodWriter) VisitInsnAnnotation(typeRef int, typePath *TypePath, descriptor string, visible bool) AnnotationVisitor {
	w := mw.codeAnnotationPlaceholder(descriptor)
	entry := codeAnnotationEntry{typeRef: typeRef, typePath: typePath, descriptor: descriptor, visible: visible, insn: mw.lastInsn, tryCatchIndex: -1, writer: w}
	mw.codeAnnotations = append(mw.codeAnnotations, entry)
	return w
}

func (mw *MethodWriter) VisitTryCatchBlock(start, end, handler *Label, typed string) {
	block := &tryCatchBlock{start: start, end: end, handler: handler, typeName: typed}
	if typed != "" {
		block.typeIndex = mw.symbolTable.AddConstantClass(typed)
	}
	mw.tryCatchBlocks = append(mw.tryCatchBlocks, block)
}

func (mw *MethodWriter) VisitTryCatchAnnotation(typeRef int, typePath *TypePath, descriptor string, visible bool) AnnotationVisitor {
	w := mw.codeAnnotationPlaceholder(descriptor)
	entry := codeAnnotationEntry{typeRef: typeRef, typePath: typePath, descriptor: descriptor, visible: visible, tryCatchIndex: len(mw.tryCatchBlocks) - 1, writer: w}
	mw.codeAnnotations = append(mw.codeAnnotations, entry)
	return w
}

func (mw *MethodWriter) VisitLocalVariable(name, descriptor, signature string, start, end *Label, index int) {
	mw.symbolTable.AddConstantUtf8(name)
	mw.symbolTable.AddConstantUtf8(descriptor)
	if signature != "" {
		mw.symbolTable.AddConstantUtf8(signature)
	}
	mw.localVariables = append(mw.localVariables, localVariableEntry{name, descriptor, signature, start, end, index})
}

func (mw *MethodWriter) VisitLocalVariableAnnotation(typeRef int, typePath *TypePath, start, end []*Label, index []int, descriptor string, visible bool) AnnotationVisitor {
	w := mw.codeAnnotationPlaceholder(descriptor)
	mw.localVarAnnotations = append(mw.localVarAnnotations, localVariableAnnotationEntry{typeRef, typePath, start, end, index, descriptor, visible, w})
	return w
}

func (mw *MethodWriter) VisitLineNumber(line int, start *Label) {
	mw.lineNumbers = append(mw.lineNumbers, lineNumberEntry{line, start})
}

func (mw *MethodWriter) VisitMaxs(maxStack, maxLocals int) {
	mw.manualMaxStack = maxStack
	mw.manualMaxLocals = maxLocals
	if mw.hasCode {
		mw.layout()
	}
}

func (mw *MethodWriter) VisitEnd() {
	if mw.hasCode && !mw.laidOut {
		mw.layout()
	}
}
