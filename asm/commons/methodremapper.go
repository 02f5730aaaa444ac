package commons

import (
	"github.com/jvmgo/asmkit/asm"
	"github.com/jvmgo/asmkit/asm/helper"
)

// MethodRemapper a MethodVisitor that routes every owner/name/descriptor/signature it sees
// through a Remapper before forwarding to Delegate (spec §4.8).
type MethodRemapper struct {
	helper.MethodVisitor
	Remapper *Remapper
}

// NewMethodRemapper wraps delegate with remapper.
func NewMethodRemapper(remapper *Remapper, delegate asm.MethodVisitor) *MethodRemapper {
	return &MethodRemapper{MethodVisitor: helper.MethodVisitor{Delegate: delegate}, Remapper: remapper}
}

func (m *MethodRemapper) VisitAnnotationDefault() asm.AnnotationVisitor {
	av := m.Delegate.VisitAnnotationDefault()
	if av == nil {
		return nil
	}
	return NewAnnotationRemapper("", m.Remapper, av)
}

func (m *MethodRemapper) VisitAnnotation(descriptor string, visible bool) asm.AnnotationVisitor {
	av := m.Delegate.VisitAnnotation(m.Remapper.MapDesc(descriptor), visible)
	if av == nil {
		return nil
	}
	return NewAnnotationRemapper(descriptor, m.Remapper, av)
}

func (m *MethodRemapper) VisitTypeAnnotation(typeRef int, typePath *asm.TypePath, descriptor string, visible bool) asm.AnnotationVisitor {
	av := m.Delegate.VisitTypeAnnotation(typeRef, typePath, m.Remapper.MapDesc(descriptor), visible)
	if av == nil {
		return nil
	}
	return NewAnnotationRemapper(descriptor, m.Remapper, av)
}

func (m *MethodRemapper) VisitParameterAnnotation(parameter int, descriptor string, visible bool) asm.AnnotationVisitor {
	av := m.Delegate.VisitParameterAnnotation(parameter, m.Remapper.MapDesc(descriptor), visible)
	if av == nil {
		return nil
	}
	return NewAnnotationRemapper(descriptor, m.Remapper, av)
}

func (m *MethodRemapper) VisitFrame(typed, nLocal int, local []asm.VerificationType, nStack int, stack []asm.VerificationType) {
	m.Delegate.VisitFrame(typed, nLocal, m.mapTypes(local), nStack, m.mapTypes(stack))
}

func (m *MethodRemapper) mapTypes(types []asm.VerificationType) []asm.VerificationType {
	mapped := make([]asm.VerificationType, len(types))
	for i, t := range types {
		if t.Kind == asm.ItemObject {
			mapped[i] = asm.VObject(m.Remapper.Map(t.InternalName))
		} else {
			mapped[i] = t
		}
	}
	return mapped
}

func (m *MethodRemapper) VisitTypeInsn(opcode int, typed string) {
	m.Delegate.VisitTypeInsn(opcode, m.Remapper.Map(typed))
}

func (m *MethodRemapper) VisitFieldInsn(opcode int, owner, name, descriptor string) {
	m.Delegate.VisitFieldInsn(opcode, m.Remapper.Map(owner), m.Remapper.MapFieldName(owner, name, descriptor), m.Remapper.MapDesc(descriptor))
}

func (m *MethodRemapper) VisitMethodInsn(opcode int, owner, name, descriptor string, isInterface bool) {
	mappedName := name
	if name != "<init>" {
		mappedName = m.Remapper.MapMethodName(owner, name, descriptor)
	}
	m.Delegate.VisitMethodInsn(opcode, m.Remapper.Map(owner), mappedName, m.Remapper.MapMethodDesc(descriptor), isInterface)
}

func (m *MethodRemapper) VisitInvokeDynamicInsn(name, descriptor string, bootstrapMethodHandle *asm.Handle, bootstrapMethodArguments ...interface{}) {
	mappedArgs := make([]interface{}, len(bootstrapMethodArguments))
	for i, a := range bootstrapMethodArguments {
		mappedArgs[i] = m.Remapper.MapValue(a)
	}
	mappedHandle := m.Remapper.MapValue(bootstrapMethodHandle).(*asm.Handle)
	m.Delegate.VisitInvokeDynamicInsn(m.Remapper.MapInvokeDynamicMethodName(name, descriptor), m.Remapper.MapMethodDesc(descriptor), mappedHandle, mappedArgs...)
}

func (m *MethodRemapper) VisitLdcInsn(value interface{}) {
	m.Delegate.VisitLdcInsn(m.Remapper.MapValue(value))
}

func (m *MethodRemapper) VisitMultiANewArrayInsn(descriptor string, numDimensions int) {
	m.Delegate.VisitMultiANewArrayInsn(m.Remapper.MapDesc(descriptor), numDimensions)
}

func (m *MethodRemapper) VisitInsnAnnotation(typeRef int, typePath *asm.TypePath, descriptor string, visible bool) asm.AnnotationVisitor {
	av := m.Delegate.VisitInsnAnnotation(typeRef, typePath, m.Remapper.MapDesc(descriptor), visible)
	if av == nil {
		return nil
	}
	return NewAnnotationRemapper(descriptor, m.Remapper, av)
}

func (m *MethodRemapper) VisitTryCatchBlock(start, end, handler *asm.Label, typed string) {
	mappedType := typed
	if typed != "" {
		mappedType = m.Remapper.Map(typed)
	}
	m.Delegate.VisitTryCatchBlock(start, end, handler, mappedType)
}

func (m *MethodRemapper) VisitTryCatchAnnotation(typeRef int, typePath *asm.TypePath, descriptor string, visible bool) asm.AnnotationVisitor {
	av := m.Delegate.VisitTryCatchAnnotation(typeRef, typePath, m.Remapper.MapDesc(descriptor), visible)
	if av == nil {
		return nil
	}
	return NewAnnotationRemapper(descriptor, m.Remapper, av)
}

func (m *MethodRemapper) VisitLocalVariable(name, descriptor, signature string, start, end *asm.Label, index int) {
	m.Delegate.VisitLocalVariable(name, m.Remapper.MapDesc(descriptor), m.Remapper.MapSignature(signature, true), start, end, index)
}

func (m *MethodRemapper) VisitLocalVariableAnnotation(typeRef int, typePath *asm.TypePath, start, end []*asm.Label, index []int, descriptor string, visible bool) asm.AnnotationVisitor {
	av := m.Delegate.VisitLocalVariableAnnotation(typeRef, typePath, start, end, index, m.Remapper.MapDesc(descriptor), visible)
	if av == nil {
		return nil
	}
	return NewAnnotationRemapper(descriptor, m.Remapper, av)
}
