package asm

import "math"

// FieldWriter a FieldVisitor that builds a field_info structure (JVMS 4.5) in memory, mirroring the
// buffer-then-serialize shape ClassWriter uses for the class itself.
type FieldWriter struct {
	symbolTable *SymbolTable

	access       int
	name         string
	descriptor   string
	signature    string
	hasSignature bool

	hasConstantValue   bool
	constantValueIndex int

	visibleAnnotationsTail       *AnnotationWriter
	invisibleAnnotationsTail     *AnnotationWriter
	visibleTypeAnnotationsTail   *AnnotationWriter
	invisibleTypeAnnotationsTail *AnnotationWriter

	firstAttribute *Attribute
}

// NewFieldWriter constructs a writer for a single field being visited. value, if non-nil, is the
// field's ConstantValue (only legal for a static final field of a primitive or String type).
func NewFieldWriter(symbolTable *SymbolTable, access int, name, descriptor, signature string, value interface{}) *FieldWriter {
	fw := &FieldWriter{symbolTable: symbolTable, access: access, name: name, descriptor: descriptor}
	symbolTable.AddConstantUtf8(name)
	symbolTable.AddConstantUtf8(descriptor)
	if signature != "" {
		fw.hasSignature = true
		fw.signature = signature
		symbolTable.AddConstantUtf8(signature)
	}
	if value != nil {
		fw.hasConstantValue = true
		fw.constantValueIndex = addConstantValue(symbolTable, value)
		symbolTable.AddConstantUtf8("ConstantValue")
	}
	return fw
}

// addConstantValue interns value (a bool/byte/int16/Char/int32/int, stored as an Integer constant,
// or an int64/float32/float64/string, per JVMS 4.5's ConstantValue attribute) and returns its
// constant pool index. Any other type panics.
func addConstantValue(symbolTable *SymbolTable, value interface{}) int {
	switch v := value.(type) {
	case bool:
		n := int32(0)
		if v {
			n = 1
		}
		return symbolTable.AddConstantInteger(n)
	case byte:
		return symbolTable.AddConstantInteger(int32(v))
	case int16:
		return symbolTable.AddConstantInteger(int32(v))
	case Char:
		return symbolTable.AddConstantInteger(int32(v))
	case int32:
		return symbolTable.AddConstantInteger(v)
	case int:
		return symbolTable.AddConstantInteger(int32(v))
	case int64:
		return symbolTable.AddConstantLong(v)
	case float32:
		return symbolTable.AddConstantFloat(int32(math.Float32bits(v)))
	case float64:
		return symbolTable.AddConstantDouble(int64(math.Float64bits(v)))
	case string:
		return symbolTable.AddConstantString(v)
	default:
		panic("bad constant value type")
	}
}

func (fw *FieldWriter) VisitAnnotation(descriptor string, visible bool) AnnotationVisitor {
	annotation := NewByteVector(32)
	annotation.PutShort(fw.symbolTable.AddConstantUtf8(descriptor)).PutShort(0)
	var prev *AnnotationWriter
	if visible {
		prev = fw.visibleAnnotationsTail
	} else {
		prev = fw.invisibleAnnotationsTail
	}
	w := NewAnnotationWriter(fw.symbolTable, true, annotation, prev)
	w.numElementValuePairsOffset = annotation.Len() - 2
	if visible {
		fw.visibleAnnotationsTail = w
	} else {
		fw.invisibleAnnotationsTail = w
	}
	return w
}

func (fw *FieldWriter) VisitTypeAnnotation(typeRef int, typePath *TypePath, descriptor string, visible bool) AnnotationVisitor {
	annotation := NewByteVector(32)
	putTarget(annotation, typeRef, typePath)
	annotation.PutShort(fw.symbolTable.AddConstantUtf8(descriptor)).PutShort(0)
	var prev *AnnotationWriter
	if visible {
		prev = fw.visibleTypeAnnotationsTail
	} else {
		prev = fw.invisibleTypeAnnotationsTail
	}
	w := NewAnnotationWriter(fw.symbolTable, true, annotation, prev)
	w.numElementValuePairsOffset = annotation.Len() - 2
	if visible {
		fw.visibleTypeAnnotationsTail = w
	} else {
		fw.invisibleTypeAnnotationsTail = w
	}
	return w
}

func (fw *FieldWriter) VisitAttribute(attribute *Attribute) {
	if fw.firstAttribute == nil {
		fw.firstAttribute = attribute
	} else {
		fw.firstAttribute.Append(attribute)
	}
}

func (fw *FieldWriter) VisitEnd() {}

// computeSize returns the serialized size, in bytes, of this field_info structure.
func (fw *FieldWriter) computeSize() int {
	size := 8 // access_flags, name_index, descriptor_index, attributes_count
	if fw.hasConstantValue {
		size += 8
	}
	if fw.hasSignature {
		size += 8
	}
	if fw.access&ACC_DEPRECATED != 0 {
		size += 6
	}
	if fw.access&ACC_SYNTHETIC != 0 {
		size += 6
	}
	size += annotationsSize(fw.visibleAnnotationsTail)
	size += annotationsSize(fw.invisibleAnnotationsTail)
	size += annotationsSize(fw.visibleTypeAnnotationsTail)
	size += annotationsSize(fw.invisibleTypeAnnotationsTail)
	if fw.firstAttribute != nil {
		size += fw.firstAttribute.ComputeAttributesSize(fw.symbolTable)
	}
	return size
}

// annotationsSize returns the full 6-byte-header-included size of an annotations attribute, or 0 if
// empty.
func annotationsSize(last *AnnotationWriter) int {
	n := annotationsAttributeSize(last)
	if n == 0 {
		return 0
	}
	return 6 + n
}

func (fw *FieldWriter) put(output *ByteVector) {
	symbolTable := fw.symbolTable
	attributeCount := 0
	if fw.hasConstantValue {
		attributeCount++
	}
	if fw.hasSignature {
		attributeCount++
	}
	if fw.access&ACC_DEPRECATED != 0 {
		attributeCount++
	}
	if fw.access&ACC_SYNTHETIC != 0 {
		attributeCount++
	}
	if annotationsAttributeSize(fw.visibleAnnotationsTail) > 0 {
		attributeCount++
	}
	if annotationsAttributeSize(fw.invisibleAnnotationsTail) > 0 {
		attributeCount++
	}
	if annotationsAttributeSize(fw.visibleTypeAnnotationsTail) > 0 {
		attributeCount++
	}
	if annotationsAttributeSize(fw.invisibleTypeAnnotationsTail) > 0 {
		attributeCount++
	}
	if fw.firstAttribute != nil {
		attributeCount += fw.firstAttribute.GetAttributeCount()
	}

	output.PutShort(fw.access).PutShort(symbolTable.AddConstantUtf8(fw.name)).PutShort(symbolTable.AddConstantUtf8(fw.descriptor))
	output.PutShort(attributeCount)
	if fw.hasConstantValue {
		output.PutShort(symbolTable.AddConstantUtf8("ConstantValue")).PutInt(2).PutShort(fw.constantValueIndex)
	}
	if fw.hasSignature {
		output.PutShort(symbolTable.AddConstantUtf8("Signature")).PutInt(2).PutShort(symbolTable.AddConstantUtf8(fw.signature))
	}
	if fw.access&ACC_DEPRECATED != 0 {
		output.PutShort(symbolTable.AddConstantUtf8("Deprecated")).PutInt(0)
	}
	if fw.access&ACC_SYNTHETIC != 0 {
		output.PutShort(symbolTable.AddConstantUtf8("Synthetic")).PutInt(0)
	}
	if annotationsAttributeSize(fw.visibleAnnotationsTail) > 0 {
		output.PutShort(symbolTable.AddConstantUtf8("RuntimeVisibleAnnotations")).PutInt(annotationsAttributeSize(fw.visibleAnnotationsTail))
		putAnnotations(fw.visibleAnnotationsTail, output)
	}
	if annotationsAttributeSize(fw.invisibleAnnotationsTail) > 0 {
		output.PutShort(symbolTable.AddConstantUtf8("RuntimeInvisibleAnnotations")).PutInt(annotationsAttributeSize(fw.invisibleAnnotationsTail))
		putAnnotations(fw.invisibleAnnotationsTail, output)
	}
	if annotationsAttributeSize(fw.visibleTypeAnnotationsTail) > 0 {
		output.PutShort(symbolTable.AddConstantUtf8("RuntimeVisibleTypeAnnotations")).PutInt(annotationsAttributeSize(fw.visibleTypeAnnotationsTail))
		putAnnotations(fw.visibleTypeAnnotationsTail, output)
	}
	if annotationsAttributeSize(fw.invisibleTypeAnnotationsTail) > 0 {
		output.PutShort(symbolTable.AddConstantUtf8("RuntimeInvisibleTypeAnnotations")).PutInt(annotationsAttributeSize(fw.invisibleTypeAnnotationsTail))
		putAnnotations(fw.invisibleTypeAnnotationsTail, output)
	}
	if fw.firstAttribute != nil {
		fw.firstAttribute.PutAttributes(symbolTable, output)
	}
}
