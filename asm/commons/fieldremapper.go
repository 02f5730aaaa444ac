package commons

import "github.com/jvmgo/asmkit/asm"

// FieldRemapper a FieldVisitor that routes annotation descriptors through a Remapper before
// forwarding to Delegate (spec §4.8). The field's own name/descriptor/signature/value are already
// remapped by ClassRemapper.VisitField before this is constructed.
type FieldRemapper struct {
	Delegate asm.FieldVisitor
	Remapper *Remapper
}

// NewFieldRemapper wraps delegate with remapper.
func NewFieldRemapper(remapper *Remapper, delegate asm.FieldVisitor) *FieldRemapper {
	return &FieldRemapper{Delegate: delegate, Remapper: remapper}
}

func (f *FieldRemapper) VisitAnnotation(descriptor string, visible bool) asm.AnnotationVisitor {
	av := f.Delegate.VisitAnnotation(f.Remapper.MapDesc(descriptor), visible)
	if av == nil {
		return nil
	}
	return NewAnnotationRemapper(descriptor, f.Remapper, av)
}

func (f *FieldRemapper) VisitTypeAnnotation(typeRef int, typePath *asm.TypePath, descriptor string, visible bool) asm.AnnotationVisitor {
	av := f.Delegate.VisitTypeAnnotation(typeRef, typePath, f.Remapper.MapDesc(descriptor), visible)
	if av == nil {
		return nil
	}
	return NewAnnotationRemapper(descriptor, f.Remapper, av)
}

func (f *FieldRemapper) VisitAttribute(attribute *asm.Attribute) {
	f.Delegate.VisitAttribute(attribute)
}

func (f *FieldRemapper) VisitEnd() {
	f.Delegate.VisitEnd()
}
