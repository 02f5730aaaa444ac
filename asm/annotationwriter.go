package asm

import "math"

// AnnotationWriter an AnnotationVisitor that serializes the visited annotation (or type
// annotation) into the wire form of JVMS 4.7.16's annotation structure: a descriptor index, an
// element_value_pairs count, and the element_value_pairs themselves. Mirrors the Code/line-number
// writer split in methodwriter.go: ClassWriter, FieldWriter and MethodWriter each buffer their
// RuntimeVisible/InvisibleAnnotations (and ...TypeAnnotations, ...ParameterAnnotations) as a chain
// of these, interning everything lazily against the owning SymbolTable only when the attribute is
// finally serialized.
type AnnotationWriter struct {
	symbolTable *SymbolTable

	// numElementValuePairsOffset is the offset, within annotation, of the two bytes that must be
	// patched with the final element_value_pairs count once Visit/VisitEnum/... has finished being
	// called an unknown number of times.
	numElementValuePairsOffset int
	numElementValuePairs       int
	annotation                 *ByteVector

	// useNamedValues is false for the elements of an array element value, which carries bare
	// element_values with no name index.
	useNamedValues bool

	previousAnnotation *AnnotationWriter
}

// NewAnnotationWriter constructs a writer appending into annotation (which may already carry a
// target_info/type_path/descriptor prefix written by the caller for a type annotation).
// previousAnnotation, if non-nil, is the writer for the annotation declared just before this one
// on the same owner, forming a newest-first linked list that putAnnotations walks in reverse to
// serialize in declaration order.
func NewAnnotationWriter(symbolTable *SymbolTable, useNamedValues bool, annotation *ByteVector, previousAnnotation *AnnotationWriter) *AnnotationWriter {
	return &AnnotationWriter{
		symbolTable:        symbolTable,
		useNamedValues:     useNamedValues,
		annotation:         annotation,
		previousAnnotation: previousAnnotation,
	}
}

func (w *AnnotationWriter) putElementName(name string) {
	if w.useNamedValues {
		w.annotation.PutShort(w.symbolTable.AddConstantUtf8(name))
	}
}

// Char wraps a rune so Visit can tell a JVM CHAR element value apart from an INT one: Go's `rune`
// is a plain alias for int32, so the two are indistinguishable in a type switch without this.
type Char rune

func (w *AnnotationWriter) Visit(name string, value interface{}) {
	w.numElementValuePairs++
	w.putElementName(name)
	switch v := value.(type) {
	case bool:
		n := int32(0)
		if v {
			n = 1
		}
		w.annotation.PutByte('Z').PutShort(w.symbolTable.AddConstantInteger(n))
	case byte:
		w.annotation.PutByte('B').PutShort(w.symbolTable.AddConstantInteger(int32(v)))
	case int16:
		w.annotation.PutByte('S').PutShort(w.symbolTable.AddConstantInteger(int32(v)))
	case Char:
		w.annotation.PutByte('C').PutShort(w.symbolTable.AddConstantInteger(int32(v)))
	case int32:
		w.annotation.PutByte('I').PutShort(w.symbolTable.AddConstantInteger(v))
	case int:
		w.annotation.PutByte('I').PutShort(w.symbolTable.AddConstantInteger(int32(v)))
	case int64:
		w.annotation.PutByte('J').PutShort(w.symbolTable.AddConstantLong(v))
	case float32:
		w.annotation.PutByte('F').PutShort(w.symbolTable.AddConstantFloat(int32(math.Float32bits(v))))
	case float64:
		w.annotation.PutByte('D').PutShort(w.symbolTable.AddConstantDouble(int64(math.Float64bits(v))))
	case string:
		w.annotation.PutByte('s').PutShort(w.symbolTable.AddConstantUtf8(v))
	case *Type:
		w.annotation.PutByte('c').PutShort(w.symbolTable.AddConstantUtf8(v.GetDescriptor()))
	case []byte:
		w.visitPrimitiveArray('B', len(v), func(i int) { w.annotation.PutShort(w.symbolTable.AddConstantInteger(int32(v[i]))) })
	case []bool:
		w.visitPrimitiveArray('Z', len(v), func(i int) {
			n := int32(0)
			if v[i] {
				n = 1
			}
			w.annotation.PutShort(w.symbolTable.AddConstantInteger(n))
		})
	case []int16:
		w.visitPrimitiveArray('S', len(v), func(i int) { w.annotation.PutShort(w.symbolTable.AddConstantInteger(int32(v[i]))) })
	case []Char:
		w.visitPrimitiveArray('C', len(v), func(i int) { w.annotation.PutShort(w.symbolTable.AddConstantInteger(int32(v[i]))) })
	case []int32:
		w.visitPrimitiveArray('I', len(v), func(i int) { w.annotation.PutShort(w.symbolTable.AddConstantInteger(v[i])) })
	case []int64:
		w.visitPrimitiveArray('J', len(v), func(i int) { w.annotation.PutShort(w.symbolTable.AddConstantLong(v[i])) })
	case []float32:
		w.visitPrimitiveArray('F', len(v), func(i int) { w.annotation.PutShort(w.symbolTable.AddConstantFloat(int32(math.Float32bits(v[i])))) })
	case []float64:
		w.visitPrimitiveArray('D', len(v), func(i int) { w.annotation.PutShort(w.symbolTable.AddConstantDouble(int64(math.Float64bits(v[i])))) })
	default:
		panic("bad annotation value type")
	}
}

func (w *AnnotationWriter) visitPrimitiveArray(elementTag byte, length int, putOne func(i int)) {
	w.annotation.PutByte('[').PutShort(length)
	for i := 0; i < length; i++ {
		w.annotation.PutByte(int(elementTag))
		putOne(i)
	}
}

func (w *AnnotationWriter) VisitEnum(name, descriptor, value string) {
	w.numElementValuePairs++
	w.putElementName(name)
	w.annotation.PutByte('e').PutShort(w.symbolTable.AddConstantUtf8(descriptor)).PutShort(w.symbolTable.AddConstantUtf8(value))
}

func (w *AnnotationWriter) VisitAnnotation(name, descriptor string) AnnotationVisitor {
	w.numElementValuePairs++
	w.putElementName(name)
	w.annotation.PutByte('@').PutShort(w.symbolTable.AddConstantUtf8(descriptor)).PutShort(0)
	pairsOffset := w.annotation.Len() - 2
	nested := NewAnnotationWriter(w.symbolTable, true, w.annotation, nil)
	nested.numElementValuePairsOffset = pairsOffset
	return nested
}

func (w *AnnotationWriter) VisitArray(name string) AnnotationVisitor {
	w.numElementValuePairs++
	w.putElementName(name)
	w.annotation.PutByte('[').PutShort(0)
	pairsOffset := w.annotation.Len() - 2
	array := NewAnnotationWriter(w.symbolTable, false, w.annotation, nil)
	array.numElementValuePairsOffset = pairsOffset
	return array
}

func (w *AnnotationWriter) VisitEnd() {
	if w.numElementValuePairsOffset != 0 {
		data := w.annotation.data
		data[w.numElementValuePairsOffset] = byte(w.numElementValuePairs >> 8)
		data[w.numElementValuePairsOffset+1] = byte(w.numElementValuePairs)
	}
}

// annotationsAttributeSize returns the size, in bytes, of the RuntimeVisible/InvisibleAnnotations
// (or ...TypeAnnotations) attribute content that would hold the chain of annotations starting at
// last (newest-declared first), or 0 if last is nil.
func annotationsAttributeSize(last *AnnotationWriter) int {
	if last == nil {
		return 0
	}
	size := 2 // num_annotations
	for a := last; a != nil; a = a.previousAnnotation {
		size += a.annotation.Len()
	}
	return size
}

// putAnnotations serializes the chain starting at last, reversing it so annotations are emitted in
// declaration order.
func putAnnotations(last *AnnotationWriter, output *ByteVector) {
	count := 0
	chain := make([]*AnnotationWriter, 0, 4)
	for a := last; a != nil; a = a.previousAnnotation {
		count++
		chain = append(chain, a)
	}
	output.PutShort(count)
	for i := len(chain) - 1; i >= 0; i-- {
		output.PutByteVector(chain[i].annotation)
	}
}
