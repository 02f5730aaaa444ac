package asm

// RecordComponentVisitor a visitor to visit a record component (JEP 395, class file version >=
// V16). The methods of this interface must be called in the following order: ( VisitAnnotation |
// VisitTypeAnnotation | VisitAttribute )* VisitEnd.
type RecordComponentVisitor interface {
	VisitAnnotation(descriptor string, visible bool) AnnotationVisitor
	VisitTypeAnnotation(typeRef int, typePath *TypePath, descriptor string, visible bool) AnnotationVisitor
	VisitAttribute(attribute *Attribute)
	VisitEnd()
}
