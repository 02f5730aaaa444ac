package asm

// ClassVisitor a visitor to visit a Java class. The methods of this interface must be called in
// the following order: Visit [ VisitSource ] [ VisitModule ] [ VisitNestHost ] [ VisitOuterClass ]
// ( VisitAnnotation | VisitTypeAnnotation | VisitAttribute )* ( VisitNestMember |
// VisitPermittedSubclass | VisitInnerClass | VisitRecordComponent | VisitField | VisitMethod )*
// VisitEnd.
type ClassVisitor interface {
	Visit(version, access int, name, signature, superName string, interfaces []string)
	VisitSource(source, debug string)
	VisitModule(name string, access int, version string) ModuleVisitor
	VisitOuterClass(owner, name, descriptor string)
	VisitAnnotation(descriptor string, visible bool) AnnotationVisitor
	VisitTypeAnnotation(typeRef int, typePath *TypePath, descriptor string, visible bool) AnnotationVisitor
	VisitAttribute(attribute *Attribute)
	VisitNestHost(nestHost string)
	VisitInnerClass(name, outerName, innerName string, access int)
	VisitNestMember(nestMember string)
	VisitPermittedSubclass(permittedSubclass string)
	VisitField(access int, name, descriptor, signature string, value interface{}) FieldVisitor
	VisitMethod(access int, name, descriptor, signature string, exceptions []string) MethodVisitor
	VisitRecordComponent(name, descriptor, signature string) RecordComponentVisitor
	VisitEnd()
}
