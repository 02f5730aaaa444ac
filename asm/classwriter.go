package asm

// Writer option flags, combinable with each other (spec §4.3 "optional mode", SPEC_FULL.md §4):
// COMPUTE_MAXS runs the cheaper conservative max-stack/max-locals traversal; COMPUTE_FRAMES runs
// the full abstract interpreter of framecomputer.go and implies COMPUTE_MAXS.
const (
	COMPUTE_NONE   = 0
	COMPUTE_MAXS   = 1
	COMPUTE_FRAMES = 2
)

// ClassWriter a ClassVisitor that builds a JVMS ClassFile structure in memory and serializes it to
// bytes on ToByteArray. Accepts the same visitor events a ClassReader fires (spec §4.1's grammar),
// so a reader -> [transformer chain ->] writer pipeline round-trips or rewrites a class file
// without ever materializing an intermediate tree (spec §2, "data flows in one direction per
// pass").
type ClassWriter struct {
	symbolTable *SymbolTable
	compute     int

	version     int
	accessFlags int
	thisClass   int
	thisName    string
	superClass  int
	interfaces  []int

	hasSourceFile    bool
	sourceFile       string
	debugExtension   string
	hasDebugExtension bool

	hasModule bool
	module    *ModuleWriter

	hasNestHost   bool
	nestHostClass int

	hasOuterClass        bool
	outerClassOwner      string
	outerClassName       string
	outerClassDescriptor string

	hasSignature  bool
	signatureIndex int

	visibleAnnotationsTail       *AnnotationWriter
	invisibleAnnotationsTail     *AnnotationWriter
	visibleTypeAnnotationsTail   *AnnotationWriter
	invisibleTypeAnnotationsTail *AnnotationWriter

	firstAttribute *Attribute

	innerClasses         []innerClassEntry
	nestMembers          []string
	permittedSubclasses  []string
	recordComponents     []*RecordComponentWriter

	fields  []*FieldWriter
	methods []*MethodWriter
}

type innerClassEntry struct {
	name, outerName, innerName string
	access                     int
}

// NewClassWriter constructs an empty writer for a class being built from scratch. compute is a
// combination of COMPUTE_MAXS/COMPUTE_FRAMES.
func NewClassWriter(compute int) *ClassWriter {
	cw := &ClassWriter{compute: compute}
	cw.symbolTable = NewSymbolTable(cw)
	return cw
}

// NewClassWriterFromReader constructs a writer whose SymbolTable is pre-populated from an existing
// ClassReader's constant pool, enabling COMPUTE_NONE callers to re-emit untouched methods via the
// copy-on-match optimization (spec §4.3). compute is a combination of COMPUTE_MAXS/COMPUTE_FRAMES.
func NewClassWriterFromReader(classReader *ClassReader, compute int) *ClassWriter {
	cw := &ClassWriter{compute: compute}
	cw.symbolTable = NewSymbolTableFromReader(cw, classReader)
	return cw
}

func (cw *ClassWriter) Visit(version, access int, name, signature, superName string, interfaces []string) {
	cw.version = version
	cw.accessFlags = access
	cw.thisName = name
	cw.thisClass = cw.symbolTable.AddConstantClass(name)
	if signature != "" {
		cw.hasSignature = true
		cw.signatureIndex = cw.symbolTable.AddConstantUtf8(signature)
	}
	if superName != "" {
		cw.superClass = cw.symbolTable.AddConstantClass(superName)
	}
	cw.interfaces = make([]int, len(interfaces))
	for i, itf := range interfaces {
		cw.interfaces[i] = cw.symbolTable.AddConstantClass(itf)
	}
}

func (cw *ClassWriter) VisitSource(source, debug string) {
	if source != "" {
		cw.hasSourceFile = true
		cw.sourceFile = source
	}
	if debug != "" {
		cw.hasDebugExtension = true
		cw.debugExtension = debug
	}
}

func (cw *ClassWriter) VisitModule(name string, access int, version string) ModuleVisitor {
	cw.hasModule = true
	cw.module = NewModuleWriter(cw.symbolTable, name, access, version)
	return cw.module
}

func (cw *ClassWriter) VisitNestHost(nestHost string) {
	cw.hasNestHost = true
	cw.nestHostClass = cw.symbolTable.AddConstantClass(nestHost)
}

func (cw *ClassWriter) VisitOuterClass(owner, name, descriptor string) {
	cw.hasOuterClass = true
	cw.outerClassOwner = owner
	cw.outerClassName = name
	cw.outerClassDescriptor = descriptor
}

func (cw *ClassWriter) VisitAnnotation(descriptor string, visible bool) AnnotationVisitor {
	annotation := NewByteVector(32)
	annotation.PutShort(cw.symbolTable.AddConstantUtf8(descriptor)).PutShort(0)
	var prev *AnnotationWriter
	if visible {
		prev = cw.visibleAnnotations()
	} else {
		prev = cw.invisibleAnnotations()
	}
	w := NewAnnotationWriter(cw.symbolTable, true, annotation, prev)
	w.numElementValuePairsOffset = annotation.Len() - 2
	if visible {
		cw.visibleAnnotationsTail = w
	} else {
		cw.invisibleAnnotationsTail = w
	}
	return w
}

// visibleAnnotations/invisibleAnnotations/visitTypeAnnotation share the same tail-tracking shape
// as the method/field writers; since ClassWriter only ever needs one of each, the tails are kept
// as plain fields rather than threading through a shared annotation-holder struct.
func (cw *ClassWriter) visibleAnnotations() *AnnotationWriter   { return cw.visibleAnnotationsTail }
func (cw *ClassWriter) invisibleAnnotations() *AnnotationWriter { return cw.invisibleAnnotationsTail }

func (cw *ClassWriter) VisitTypeAnnotation(typeRef int, typePath *TypePath, descriptor string, visible bool) AnnotationVisitor {
	annotation := NewByteVector(32)
	putTarget(annotation, typeRef, typePath)
	annotation.PutShort(cw.symbolTable.AddConstantUtf8(descriptor)).PutShort(0)
	var prev *AnnotationWriter
	if visible {
		prev = cw.visibleTypeAnnotationsTail
	} else {
		prev = cw.invisibleTypeAnnotationsTail
	}
	w := NewAnnotationWriter(cw.symbolTable, true, annotation, prev)
	w.numElementValuePairsOffset = annotation.Len() - 2
	if visible {
		cw.visibleTypeAnnotationsTail = w
	} else {
		cw.invisibleTypeAnnotationsTail = w
	}
	return w
}

func (cw *ClassWriter) VisitAttribute(attribute *Attribute) {
	if cw.firstAttribute == nil {
		cw.firstAttribute = attribute
	} else {
		cw.firstAttribute.Append(attribute)
	}
}

func (cw *ClassWriter) VisitInnerClass(name, outerName, innerName string, access int) {
	cw.symbolTable.AddConstantClass(name)
	if outerName != "" {
		cw.symbolTable.AddConstantClass(outerName)
	}
	if innerName != "" {
		cw.symbolTable.AddConstantUtf8(innerName)
	}
	cw.innerClasses = append(cw.innerClasses, innerClassEntry{name, outerName, innerName, access})
}

func (cw *ClassWriter) VisitNestMember(nestMember string) {
	cw.nestMembers = append(cw.nestMembers, nestMember)
}

func (cw *ClassWriter) VisitPermittedSubclass(permittedSubclass string) {
	cw.permittedSubclasses = append(cw.permittedSubclasses, permittedSubclass)
}

func (cw *ClassWriter) VisitRecordComponent(name, descriptor, signature string) RecordComponentVisitor {
	rc := NewRecordComponentWriter(cw.symbolTable, name, descriptor, signature)
	cw.recordComponents = append(cw.recordComponents, rc)
	return rc
}

func (cw *ClassWriter) VisitField(access int, name, descriptor, signature string, value interface{}) FieldVisitor {
	fw := NewFieldWriter(cw.symbolTable, access, name, descriptor, signature, value)
	cw.fields = append(cw.fields, fw)
	return fw
}

func (cw *ClassWriter) VisitMethod(access int, name, descriptor, signature string, exceptions []string) MethodVisitor {
	mw := NewMethodWriter(cw.symbolTable, cw.thisName, access, name, descriptor, signature, exceptions, cw.compute)
	cw.methods = append(cw.methods, mw)
	return mw
}

func (cw *ClassWriter) VisitEnd() {}

// ToByteArray serializes the fully-visited class into a JVMS ClassFile byte array.
func (cw *ClassWriter) ToByteArray() []byte {
	symbolTable := cw.symbolTable

	attributeCount := 0
	attributesSize := 0

	if cw.hasSignature {
		attributeCount++
		attributesSize += 8
		symbolTable.AddConstantUtf8("Signature")
	}
	if cw.hasSourceFile {
		attributeCount++
		attributesSize += 6 + len(utf8Bytes(cw.sourceFile))
		symbolTable.AddConstantUtf8("SourceFile")
		symbolTable.AddConstantUtf8(cw.sourceFile)
	}
	if cw.hasDebugExtension {
		attributeCount++
		debugExtensionBytes := NewByteVector(len(cw.debugExtension) + 8)
		debugExtensionBytes.PutModifiedUTF8(cw.debugExtension)
		attributesSize += 6 + debugExtensionBytes.Len()
		symbolTable.AddConstantUtf8("SourceDebugExtension")
	}
	if cw.hasOuterClass {
		attributeCount++
		attributesSize += 10
		symbolTable.AddConstantUtf8("EnclosingMethod")
		symbolTable.AddConstantClass(cw.outerClassOwner)
		if cw.outerClassName != "" {
			symbolTable.AddConstantNameAndType(cw.outerClassName, cw.outerClassDescriptor)
		}
	}
	if cw.accessFlags&ACC_DEPRECATED != 0 {
		attributeCount++
		attributesSize += 6
		symbolTable.AddConstantUtf8("Deprecated")
	}
	if cw.accessFlags&ACC_SYNTHETIC != 0 && (cw.version&0xFFFF) < V1_5 {
		attributeCount++
		attributesSize += 6
		symbolTable.AddConstantUtf8("Synthetic")
	}
	var innerClassesSize int
	if len(cw.innerClasses) > 0 {
		attributeCount++
		innerClassesSize = 8 + len(cw.innerClasses)*8
		attributesSize += innerClassesSize
		symbolTable.AddConstantUtf8("InnerClasses")
	}
	if cw.hasNestHost {
		attributeCount++
		attributesSize += 8
		symbolTable.AddConstantUtf8("NestHost")
	}
	var nestMembersSize int
	if len(cw.nestMembers) > 0 {
		attributeCount++
		nestMembersSize = 8 + 2*len(cw.nestMembers)
		attributesSize += nestMembersSize
		symbolTable.AddConstantUtf8("NestMembers")
		for _, m := range cw.nestMembers {
			symbolTable.AddConstantClass(m)
		}
	}
	var permittedSubclassesSize int
	if len(cw.permittedSubclasses) > 0 {
		attributeCount++
		permittedSubclassesSize = 8 + 2*len(cw.permittedSubclasses)
		attributesSize += permittedSubclassesSize
		symbolTable.AddConstantUtf8("PermittedSubclasses")
		for _, p := range cw.permittedSubclasses {
			symbolTable.AddConstantClass(p)
		}
	}
	var recordSize int
	var hasRecord bool
	if cw.recordComponents != nil || cw.accessFlags&ACC_RECORD != 0 {
		hasRecord = true
		attributeCount++
		recordSize = 8
		for _, rc := range cw.recordComponents {
			recordSize += rc.computeSize()
		}
		attributesSize += recordSize
		symbolTable.AddConstantUtf8("Record")
	}
	if cw.hasModule {
		attributeCount++
		attributesSize += cw.module.computeModuleAttributeSize()
		symbolTable.AddConstantUtf8("Module")
	}
	if annotationsAttributeSize(cw.visibleAnnotationsTail) > 0 {
		attributeCount++
		attributesSize += 6 + annotationsAttributeSize(cw.visibleAnnotationsTail)
		symbolTable.AddConstantUtf8("RuntimeVisibleAnnotations")
	}
	if annotationsAttributeSize(cw.invisibleAnnotationsTail) > 0 {
		attributeCount++
		attributesSize += 6 + annotationsAttributeSize(cw.invisibleAnnotationsTail)
		symbolTable.AddConstantUtf8("RuntimeInvisibleAnnotations")
	}
	if annotationsAttributeSize(cw.visibleTypeAnnotationsTail) > 0 {
		attributeCount++
		attributesSize += 6 + annotationsAttributeSize(cw.visibleTypeAnnotationsTail)
		symbolTable.AddConstantUtf8("RuntimeVisibleTypeAnnotations")
	}
	if annotationsAttributeSize(cw.invisibleTypeAnnotationsTail) > 0 {
		attributeCount++
		attributesSize += 6 + annotationsAttributeSize(cw.invisibleTypeAnnotationsTail)
		symbolTable.AddConstantUtf8("RuntimeInvisibleTypeAnnotations")
	}
	if cw.firstAttribute != nil {
		attributeCount += cw.firstAttribute.GetAttributeCount()
		attributesSize += cw.firstAttribute.ComputeAttributesSize(symbolTable)
	}

	fieldsSize := 0
	for _, f := range cw.fields {
		fieldsSize += f.computeSize()
	}
	methodsSize := 0
	for _, m := range cw.methods {
		methodsSize += m.computeSize()
	}

	bootstrapMethods := symbolTable.GetBootstrapMethods()
	if bootstrapMethods != nil {
		attributeCount++
		attributesSize += 8 + bootstrapMethods.Len()
		symbolTable.AddConstantUtf8("BootstrapMethods")
	}

	size := 24 + 2*len(cw.interfaces) + fieldsSize + methodsSize + attributesSize
	result := NewByteVector(size + symbolTable.GetConstantPoolCount()*3 + symbolTable.GetConstantPool().Len())
	result.PutInt(0xCAFEBABE).PutInt(cw.version)
	result.PutShort(symbolTable.GetConstantPoolCount())
	result.PutByteVector(symbolTable.GetConstantPool())
	result.PutShort(cw.accessFlags &^ (ACC_DEPRECATED | ACC_RECORD)).PutShort(cw.thisClass).PutShort(cw.superClass)
	result.PutShort(len(cw.interfaces))
	for _, itf := range cw.interfaces {
		result.PutShort(itf)
	}
	result.PutShort(len(cw.fields))
	for _, f := range cw.fields {
		f.put(result)
	}
	result.PutShort(len(cw.methods))
	for _, m := range cw.methods {
		m.put(result)
	}

	result.PutShort(attributeCount)
	if cw.hasSignature {
		result.PutShort(symbolTable.AddConstantUtf8("Signature")).PutInt(2).PutShort(cw.signatureIndex)
	}
	if cw.hasSourceFile {
		result.PutShort(symbolTable.AddConstantUtf8("SourceFile")).PutInt(2).PutShort(symbolTable.AddConstantUtf8(cw.sourceFile))
	}
	if cw.hasDebugExtension {
		debugExtensionBytes := NewByteVector(len(cw.debugExtension) + 8)
		debugExtensionBytes.PutModifiedUTF8(cw.debugExtension)
		result.PutShort(symbolTable.AddConstantUtf8("SourceDebugExtension")).PutInt(debugExtensionBytes.Len())
		result.PutByteVector(debugExtensionBytes)
	}
	if cw.hasOuterClass {
		result.PutShort(symbolTable.AddConstantUtf8("EnclosingMethod")).PutInt(4)
		result.PutShort(symbolTable.AddConstantClass(cw.outerClassOwner))
		if cw.outerClassName != "" {
			result.PutShort(symbolTable.AddConstantNameAndType(cw.outerClassName, cw.outerClassDescriptor))
		} else {
			result.PutShort(0)
		}
	}
	if cw.accessFlags&ACC_DEPRECATED != 0 {
		result.PutShort(symbolTable.AddConstantUtf8("Deprecated")).PutInt(0)
	}
	if cw.accessFlags&ACC_SYNTHETIC != 0 && (cw.version&0xFFFF) < V1_5 {
		result.PutShort(symbolTable.AddConstantUtf8("Synthetic")).PutInt(0)
	}
	if len(cw.innerClasses) > 0 {
		result.PutShort(symbolTable.AddConstantUtf8("InnerClasses")).PutInt(2 + 8*len(cw.innerClasses)).PutShort(len(cw.innerClasses))
		for _, ic := range cw.innerClasses {
			result.PutShort(symbolTable.AddConstantClass(ic.name))
			if ic.outerName != "" {
				result.PutShort(symbolTable.AddConstantClass(ic.outerName))
			} else {
				result.PutShort(0)
			}
			if ic.innerName != "" {
				result.PutShort(symbolTable.AddConstantUtf8(ic.innerName))
			} else {
				result.PutShort(0)
			}
			result.PutShort(ic.access)
		}
	}
	if cw.hasNestHost {
		result.PutShort(symbolTable.AddConstantUtf8("NestHost")).PutInt(2).PutShort(cw.nestHostClass)
	}
	if len(cw.nestMembers) > 0 {
		result.PutShort(symbolTable.AddConstantUtf8("NestMembers")).PutInt(2 + 2*len(cw.nestMembers)).PutShort(len(cw.nestMembers))
		for _, m := range cw.nestMembers {
			result.PutShort(symbolTable.AddConstantClass(m))
		}
	}
	if len(cw.permittedSubclasses) > 0 {
		result.PutShort(symbolTable.AddConstantUtf8("PermittedSubclasses")).PutInt(2 + 2*len(cw.permittedSubclasses)).PutShort(len(cw.permittedSubclasses))
		for _, p := range cw.permittedSubclasses {
			result.PutShort(symbolTable.AddConstantClass(p))
		}
	}
	if hasRecord {
		result.PutShort(symbolTable.AddConstantUtf8("Record")).PutInt(recordSize - 6).PutShort(len(cw.recordComponents))
		for _, rc := range cw.recordComponents {
			rc.put(result)
		}
	}
	if cw.hasModule {
		cw.module.put(result)
	}
	if annotationsAttributeSize(cw.visibleAnnotationsTail) > 0 {
		result.PutShort(symbolTable.AddConstantUtf8("RuntimeVisibleAnnotations")).PutInt(annotationsAttributeSize(cw.visibleAnnotationsTail))
		putAnnotations(cw.visibleAnnotationsTail, result)
	}
	if annotationsAttributeSize(cw.invisibleAnnotationsTail) > 0 {
		result.PutShort(symbolTable.AddConstantUtf8("RuntimeInvisibleAnnotations")).PutInt(annotationsAttributeSize(cw.invisibleAnnotationsTail))
		putAnnotations(cw.invisibleAnnotationsTail, result)
	}
	if annotationsAttributeSize(cw.visibleTypeAnnotationsTail) > 0 {
		result.PutShort(symbolTable.AddConstantUtf8("RuntimeVisibleTypeAnnotations")).PutInt(annotationsAttributeSize(cw.visibleTypeAnnotationsTail))
		putAnnotations(cw.visibleTypeAnnotationsTail, result)
	}
	if annotationsAttributeSize(cw.invisibleTypeAnnotationsTail) > 0 {
		result.PutShort(symbolTable.AddConstantUtf8("RuntimeInvisibleTypeAnnotations")).PutInt(annotationsAttributeSize(cw.invisibleTypeAnnotationsTail))
		putAnnotations(cw.invisibleTypeAnnotationsTail, result)
	}
	if bootstrapMethods != nil {
		result.PutShort(symbolTable.AddConstantUtf8("BootstrapMethods")).PutInt(2 + bootstrapMethods.Len())
		result.PutShort(symbolTable.GetBootstrapMethodCount())
		result.PutByteVector(bootstrapMethods)
	}
	if cw.firstAttribute != nil {
		cw.firstAttribute.PutAttributes(symbolTable, result)
	}

	return result.Bytes()
}

func utf8Bytes(s string) []byte {
	return NewByteVector(len(s) + 8).PutUTF8(s).Bytes()[2:]
}

// typeAnnotationTargetInfoSize returns the number of target_info bytes (excluding the leading
// target_type tag byte) that follow a JVMS 4.7.20.1 target_type tag, mirroring the byte-advance
// classreader.go's readTypeAnnotationTarget performs for the same tag. 0x40/0x41 (localvar_target)
// never reach here: those have their own table-shaped encoding, handled by the Code attribute
// writer rather than this generic path.
func typeAnnotationTargetInfoSize(targetType byte) int {
	switch targetType {
	case 0x00, 0x01, 0x10, 0x11, 0x12, 0x16, 0x17:
		return 1
	case 0x42, 0x43, 0x44, 0x45, 0x46, 0x47, 0x48, 0x49, 0x4A, 0x4B:
		return 2
	default: // 0x13, 0x14, 0x15 (empty_target) and any unrecognized tag
		return 0
	}
}

// putTarget serializes typeRef (in the packed target_type/target_info form ClassReader hands
// VisitTypeAnnotation via context.currentTypeAnnotationTarget) followed by its type_path, mirroring
// classreader.go's readTypeAnnotationTarget byte-for-byte so the two stay symmetric.
func putTarget(output *ByteVector, typeRef int, typePath *TypePath) {
	targetType := byte(typeRef >> 24)
	output.PutByte(int(targetType))
	switch typeAnnotationTargetInfoSize(targetType) {
	case 1:
		switch targetType {
		case 0x00, 0x01, 0x10:
			output.PutByte((typeRef >> 16) & 0xFF)
		default: // 0x11, 0x12, 0x16, 0x17
			output.PutByte(typeRef & 0xFF)
		}
	case 2:
		if targetType == 0x42 {
			output.PutShort(typeRef & 0xFFFF)
		} else { // 0x43-0x4B
			output.PutByte(0).PutByte(typeRef & 0xFF)
		}
	}
	putTypePath(output, typePath)
}

func putTypePath(output *ByteVector, typePath *TypePath) {
	if typePath == nil {
		output.PutByte(0)
		return
	}
	output.PutByteArray(typePath.typePathContainer, typePath.typePathOffset, 2*typePath.GetLength()+1)
}
