package asm

// noopClassVisitor discards everything it sees. It exists so Fuzz can drive a full class visit
// without depending on the helper package (which itself depends on asm).
type noopClassVisitor struct{}

func (noopClassVisitor) Visit(version, access int, name, signature, superName string, interfaces []string) {
}
func (noopClassVisitor) VisitSource(source, debug string) {}
func (noopClassVisitor) VisitModule(name string, access int, version string) ModuleVisitor {
	return nil
}
func (noopClassVisitor) VisitOuterClass(owner, name, descriptor string) {}
func (noopClassVisitor) VisitAnnotation(descriptor string, visible bool) AnnotationVisitor {
	return nil
}
func (noopClassVisitor) VisitTypeAnnotation(typeRef int, typePath *TypePath, descriptor string, visible bool) AnnotationVisitor {
	return nil
}
func (noopClassVisitor) VisitAttribute(attribute *Attribute)                      {}
func (noopClassVisitor) VisitNestHost(nestHost string)                            {}
func (noopClassVisitor) VisitInnerClass(name, outerName, innerName string, access int) {}
func (noopClassVisitor) VisitNestMember(nestMember string)                        {}
func (noopClassVisitor) VisitPermittedSubclass(permittedSubclass string)          {}
func (noopClassVisitor) VisitField(access int, name, descriptor, signature string, value interface{}) FieldVisitor {
	return nil
}
func (noopClassVisitor) VisitMethod(access int, name, descriptor, signature string, exceptions []string) MethodVisitor {
	return nil
}
func (noopClassVisitor) VisitRecordComponent(name, descriptor, signature string) RecordComponentVisitor {
	return nil
}
func (noopClassVisitor) VisitEnd() {}

// Fuzz feeds data to ClassReader as a candidate class file and drives a full, no-op visit over
// whatever it parses. It exists as a corpus entry point for fuzz testing the reader's bounds
// checking and attribute parsing against malformed and truncated input; it never panics on
// malformed input, only returns 0.
func Fuzz(data []byte) int {
	reader, err := NewClassReader(data)
	if err != nil {
		return 0
	}
	if err := reader.Accept(noopClassVisitor{}, EXPAND_FRAMES); err != nil {
		return 0
	}
	return 1
}
