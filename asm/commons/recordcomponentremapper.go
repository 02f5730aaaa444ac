package commons

import "github.com/jvmgo/asmkit/asm"

// RecordComponentRemapper a RecordComponentVisitor that routes annotation descriptors through a
// Remapper before forwarding to Delegate (spec §4.8). The component's own name/descriptor/
// signature are already remapped by ClassRemapper.VisitRecordComponent.
type RecordComponentRemapper struct {
	Delegate asm.RecordComponentVisitor
	Remapper *Remapper
}

// NewRecordComponentRemapper wraps delegate with remapper.
func NewRecordComponentRemapper(remapper *Remapper, delegate asm.RecordComponentVisitor) *RecordComponentRemapper {
	return &RecordComponentRemapper{Delegate: delegate, Remapper: remapper}
}

func (r *RecordComponentRemapper) VisitAnnotation(descriptor string, visible bool) asm.AnnotationVisitor {
	av := r.Delegate.VisitAnnotation(r.Remapper.MapDesc(descriptor), visible)
	if av == nil {
		return nil
	}
	return NewAnnotationRemapper(descriptor, r.Remapper, av)
}

func (r *RecordComponentRemapper) VisitTypeAnnotation(typeRef int, typePath *asm.TypePath, descriptor string, visible bool) asm.AnnotationVisitor {
	av := r.Delegate.VisitTypeAnnotation(typeRef, typePath, r.Remapper.MapDesc(descriptor), visible)
	if av == nil {
		return nil
	}
	return NewAnnotationRemapper(descriptor, r.Remapper, av)
}

func (r *RecordComponentRemapper) VisitAttribute(attribute *asm.Attribute) {
	r.Delegate.VisitAttribute(attribute)
}

func (r *RecordComponentRemapper) VisitEnd() {
	r.Delegate.VisitEnd()
}
