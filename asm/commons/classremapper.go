package commons

import (
	"github.com/jvmgo/asmkit/asm"
	"github.com/jvmgo/asmkit/asm/helper"
)

// ClassRemapper a ClassVisitor that routes every internal name, descriptor and signature through
// a Remapper before forwarding to Delegate (spec §4.8). Construct one per class.
type ClassRemapper struct {
	helper.ClassVisitor
	Remapper *Remapper

	className string
}

// NewClassRemapper wraps delegate with remapper.
func NewClassRemapper(remapper *Remapper, delegate asm.ClassVisitor) *ClassRemapper {
	return &ClassRemapper{ClassVisitor: helper.ClassVisitor{Delegate: delegate}, Remapper: remapper}
}

func (c *ClassRemapper) Visit(version, access int, name, signature, superName string, interfaces []string) {
	c.className = name
	mappedInterfaces := make([]string, len(interfaces))
	for i, itf := range interfaces {
		mappedInterfaces[i] = c.Remapper.Map(itf)
	}
	c.Delegate.Visit(version, access, c.Remapper.Map(name), c.Remapper.MapSignature(signature, false), c.Remapper.Map(superName), mappedInterfaces)
}

func (c *ClassRemapper) VisitModule(name string, access int, version string) asm.ModuleVisitor {
	mv := c.Delegate.VisitModule(c.Remapper.MapModuleName(name), access, version)
	if mv == nil {
		return nil
	}
	return NewModuleRemapper(c.Remapper, mv)
}

func (c *ClassRemapper) VisitOuterClass(owner, name, descriptor string) {
	mappedName := name
	mappedDescriptor := descriptor
	if name != "" {
		mappedName = c.Remapper.MapMethodName(owner, name, descriptor)
	}
	if descriptor != "" {
		mappedDescriptor = c.Remapper.MapMethodDesc(descriptor)
	}
	c.Delegate.VisitOuterClass(c.Remapper.Map(owner), mappedName, mappedDescriptor)
}

func (c *ClassRemapper) VisitAnnotation(descriptor string, visible bool) asm.AnnotationVisitor {
	av := c.Delegate.VisitAnnotation(c.Remapper.MapDesc(descriptor), visible)
	if av == nil {
		return nil
	}
	return NewAnnotationRemapper(descriptor, c.Remapper, av)
}

func (c *ClassRemapper) VisitTypeAnnotation(typeRef int, typePath *asm.TypePath, descriptor string, visible bool) asm.AnnotationVisitor {
	av := c.Delegate.VisitTypeAnnotation(typeRef, typePath, c.Remapper.MapDesc(descriptor), visible)
	if av == nil {
		return nil
	}
	return NewAnnotationRemapper(descriptor, c.Remapper, av)
}

func (c *ClassRemapper) VisitNestHost(nestHost string) {
	c.Delegate.VisitNestHost(c.Remapper.Map(nestHost))
}

func (c *ClassRemapper) VisitInnerClass(name, outerName, innerName string, access int) {
	mappedOuter := outerName
	if outerName != "" {
		mappedOuter = c.Remapper.Map(outerName)
	}
	mappedInner := innerName
	if innerName != "" {
		mappedInner = c.Remapper.Map(innerName)
	}
	c.Delegate.VisitInnerClass(c.Remapper.Map(name), mappedOuter, mappedInner, access)
}

func (c *ClassRemapper) VisitNestMember(nestMember string) {
	c.Delegate.VisitNestMember(c.Remapper.Map(nestMember))
}

func (c *ClassRemapper) VisitPermittedSubclass(permittedSubclass string) {
	c.Delegate.VisitPermittedSubclass(c.Remapper.Map(permittedSubclass))
}

func (c *ClassRemapper) VisitRecordComponent(name, descriptor, signature string) asm.RecordComponentVisitor {
	rv := c.Delegate.VisitRecordComponent(c.Remapper.MapRecordComponentName(c.className, name, descriptor), c.Remapper.MapDesc(descriptor), c.Remapper.MapSignature(signature, true))
	if rv == nil {
		return nil
	}
	return NewRecordComponentRemapper(c.Remapper, rv)
}

func (c *ClassRemapper) VisitField(access int, name, descriptor, signature string, value interface{}) asm.FieldVisitor {
	mappedValue := value
	if value != nil {
		mappedValue = c.Remapper.MapValue(value)
	}
	fv := c.Delegate.VisitField(access, c.Remapper.MapFieldName(c.className, name, descriptor), c.Remapper.MapDesc(descriptor), c.Remapper.MapSignature(signature, true), mappedValue)
	if fv == nil {
		return nil
	}
	return NewFieldRemapper(c.Remapper, fv)
}

func (c *ClassRemapper) VisitMethod(access int, name, descriptor, signature string, exceptions []string) asm.MethodVisitor {
	mappedDescriptor := c.Remapper.MapMethodDesc(descriptor)
	mappedExceptions := make([]string, len(exceptions))
	for i, e := range exceptions {
		mappedExceptions[i] = c.Remapper.Map(e)
	}
	mv := c.Delegate.VisitMethod(access, c.Remapper.MapMethodName(c.className, name, descriptor), mappedDescriptor, c.Remapper.MapSignature(signature, false), mappedExceptions)
	if mv == nil {
		return nil
	}
	return NewMethodRemapper(c.Remapper, mv)
}
