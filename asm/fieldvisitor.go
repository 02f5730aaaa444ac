package asm

// FieldVisitor a visitor to visit a Java field. The methods of this interface must be called in
// the following order: ( VisitAnnotation | VisitTypeAnnotation | VisitAttribute )* VisitEnd.
type FieldVisitor interface {
	VisitAnnotation(descriptor string, visible bool) AnnotationVisitor
	VisitTypeAnnotation(typeRef int, typePath *TypePath, descriptor string, visible bool) AnnotationVisitor
	VisitAttribute(attribute *Attribute)
	VisitEnd()
}
