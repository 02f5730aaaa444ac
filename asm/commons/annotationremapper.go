package commons

import "github.com/jvmgo/asmkit/asm"

// AnnotationRemapper an AnnotationVisitor that routes element names and values through a Remapper
// before forwarding to Delegate (spec §4.8). descriptor is the annotation's own descriptor, passed
// to MapAnnotationAttributeName for every element name it sees.
type AnnotationRemapper struct {
	Delegate   asm.AnnotationVisitor
	descriptor string
	remapper   *Remapper
}

// NewAnnotationRemapper wraps delegate with remapper. descriptor may be "" (e.g. for an annotation
// default value, which has no owning annotation descriptor).
func NewAnnotationRemapper(descriptor string, remapper *Remapper, delegate asm.AnnotationVisitor) *AnnotationRemapper {
	return &AnnotationRemapper{Delegate: delegate, descriptor: descriptor, remapper: remapper}
}

func (a *AnnotationRemapper) Visit(name string, value interface{}) {
	a.Delegate.Visit(a.mapName(name), a.remapper.MapValue(value))
}

func (a *AnnotationRemapper) VisitEnum(name, descriptor, value string) {
	a.Delegate.VisitEnum(a.mapName(name), a.remapper.MapDesc(descriptor), value)
}

func (a *AnnotationRemapper) VisitAnnotation(name, descriptor string) asm.AnnotationVisitor {
	av := a.Delegate.VisitAnnotation(a.mapName(name), a.remapper.MapDesc(descriptor))
	if av == nil {
		return nil
	}
	return NewAnnotationRemapper(descriptor, a.remapper, av)
}

func (a *AnnotationRemapper) VisitArray(name string) asm.AnnotationVisitor {
	av := a.Delegate.VisitArray(a.mapName(name))
	if av == nil {
		return nil
	}
	return NewAnnotationRemapper(a.descriptor, a.remapper, av)
}

func (a *AnnotationRemapper) VisitEnd() {
	a.Delegate.VisitEnd()
}

func (a *AnnotationRemapper) mapName(name string) string {
	if a.descriptor == "" {
		return name
	}
	return a.remapper.MapAnnotationAttributeName(a.descriptor, name)
}
