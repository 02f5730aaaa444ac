package asm

// RecordComponentWriter a RecordComponentVisitor that builds a record_component_info structure
// (JEP 395, JVMS 4.7.30) in memory.
type RecordComponentWriter struct {
	symbolTable *SymbolTable

	name         string
	descriptor   string
	signature    string
	hasSignature bool

	visibleAnnotationsTail       *AnnotationWriter
	invisibleAnnotationsTail     *AnnotationWriter
	visibleTypeAnnotationsTail   *AnnotationWriter
	invisibleTypeAnnotationsTail *AnnotationWriter

	firstAttribute *Attribute
}

// NewRecordComponentWriter constructs a writer for a single record component.
func NewRecordComponentWriter(symbolTable *SymbolTable, name, descriptor, signature string) *RecordComponentWriter {
	rc := &RecordComponentWriter{symbolTable: symbolTable, name: name, descriptor: descriptor}
	symbolTable.AddConstantUtf8(name)
	symbolTable.AddConstantUtf8(descriptor)
	if signature != "" {
		rc.hasSignature = true
		rc.signature = signature
		symbolTable.AddConstantUtf8(signature)
	}
	return rc
}

func (rc *RecordComponentWriter) VisitAnnotation(descriptor string, visible bool) AnnotationVisitor {
	annotation := NewByteVector(32)
	annotation.PutShort(rc.symbolTable.AddConstantUtf8(descriptor)).PutShort(0)
	var prev *AnnotationWriter
	if visible {
		prev = rc.visibleAnnotationsTail
	} else {
		prev = rc.invisibleAnnotationsTail
	}
	w := NewAnnotationWriter(rc.symbolTable, true, annotation, prev)
	w.numElementValuePairsOffset = annotation.Len() - 2
	if visible {
		rc.visibleAnnotationsTail = w
	} else {
		rc.invisibleAnnotationsTail = w
	}
	return w
}

func (rc *RecordComponentWriter) VisitTypeAnnotation(typeRef int, typePath *TypePath, descriptor string, visible bool) AnnotationVisitor {
	annotation := NewByteVector(32)
	putTarget(annotation, typeRef, typePath)
	annotation.PutShort(rc.symbolTable.AddConstantUtf8(descriptor)).PutShort(0)
	var prev *AnnotationWriter
	if visible {
		prev = rc.visibleTypeAnnotationsTail
	} else {
		prev = rc.invisibleTypeAnnotationsTail
	}
	w := NewAnnotationWriter(rc.symbolTable, true, annotation, prev)
	w.numElementValuePairsOffset = annotation.Len() - 2
	if visible {
		rc.visibleTypeAnnotationsTail = w
	} else {
		rc.invisibleTypeAnnotationsTail = w
	}
	return w
}

func (rc *RecordComponentWriter) VisitAttribute(attribute *Attribute) {
	if rc.firstAttribute == nil {
		rc.firstAttribute = attribute
	} else {
		rc.firstAttribute.Append(attribute)
	}
}

func (rc *RecordComponentWriter) VisitEnd() {}

// computeSize returns the serialized size, in bytes, of this record_component_info structure.
func (rc *RecordComponentWriter) computeSize() int {
	size := 6 // name_index, descriptor_index, attributes_count
	if rc.hasSignature {
		size += 8
	}
	size += annotationsSize(rc.visibleAnnotationsTail)
	size += annotationsSize(rc.invisibleAnnotationsTail)
	size += annotationsSize(rc.visibleTypeAnnotationsTail)
	size += annotationsSize(rc.invisibleTypeAnnotationsTail)
	if rc.firstAttribute != nil {
		size += rc.firstAttribute.ComputeAttributesSize(rc.symbolTable)
	}
	return size
}

func (rc *RecordComponentWriter) put(output *ByteVector) {
	symbolTable := rc.symbolTable
	attributeCount := 0
	if rc.hasSignature {
		attributeCount++
	}
	if annotationsAttributeSize(rc.visibleAnnotationsTail) > 0 {
		attributeCount++
	}
	if annotationsAttributeSize(rc.invisibleAnnotationsTail) > 0 {
		attributeCount++
	}
	if annotationsAttributeSize(rc.visibleTypeAnnotationsTail) > 0 {
		attributeCount++
	}
	if annotationsAttributeSize(rc.invisibleTypeAnnotationsTail) > 0 {
		attributeCount++
	}
	if rc.firstAttribute != nil {
		attributeCount += rc.firstAttribute.GetAttributeCount()
	}

	output.PutShort(symbolTable.AddConstantUtf8(rc.name)).PutShort(symbolTable.AddConstantUtf8(rc.descriptor))
	output.PutShort(attributeCount)
	if rc.hasSignature {
		output.PutShort(symbolTable.AddConstantUtf8("Signature")).PutInt(2).PutShort(symbolTable.AddConstantUtf8(rc.signature))
	}
	if annotationsAttributeSize(rc.visibleAnnotationsTail) > 0 {
		output.PutShort(symbolTable.AddConstantUtf8("RuntimeVisibleAnnotations")).PutInt(annotationsAttributeSize(rc.visibleAnnotationsTail))
		putAnnotations(rc.visibleAnnotationsTail, output)
	}
	if annotationsAttributeSize(rc.invisibleAnnotationsTail) > 0 {
		output.PutShort(symbolTable.AddConstantUtf8("RuntimeInvisibleAnnotations")).PutInt(annotationsAttributeSize(rc.invisibleAnnotationsTail))
		putAnnotations(rc.invisibleAnnotationsTail, output)
	}
	if annotationsAttributeSize(rc.visibleTypeAnnotationsTail) > 0 {
		output.PutShort(symbolTable.AddConstantUtf8("RuntimeVisibleTypeAnnotations")).PutInt(annotationsAttributeSize(rc.visibleTypeAnnotationsTail))
		putAnnotations(rc.visibleTypeAnnotationsTail, output)
	}
	if annotationsAttributeSize(rc.invisibleTypeAnnotationsTail) > 0 {
		output.PutShort(symbolTable.AddConstantUtf8("RuntimeInvisibleTypeAnnotations")).PutInt(annotationsAttributeSize(rc.invisibleTypeAnnotationsTail))
		putAnnotations(rc.invisibleTypeAnnotationsTail, output)
	}
	if rc.firstAttribute != nil {
		rc.firstAttribute.PutAttributes(symbolTable, output)
	}
}
