// Package helper provides base visitor adapters with the "forward to delegate if non-nil"
// behavior described in spec §9: a concrete transformer embeds one of these and overrides only
// the callbacks it cares about, instead of hand-writing every pass-through method.
package helper

import "github.com/jvmgo/asmkit/asm"

// ClassVisitor forwards every callback to Delegate when set, and is itself a valid asm.ClassVisitor
// when embedded with no overrides (a no-op pass that changes nothing).
type ClassVisitor struct {
	Delegate asm.ClassVisitor
}

func (c *ClassVisitor) Visit(version, access int, name, signature, superName string, interfaces []string) {
	if c.Delegate != nil {
		c.Delegate.Visit(version, access, name, signature, superName, interfaces)
	}
}

func (c *ClassVisitor) VisitSource(source, debug string) {
	if c.Delegate != nil {
		c.Delegate.VisitSource(source, debug)
	}
}

func (c *ClassVisitor) VisitModule(name string, access int, version string) asm.ModuleVisitor {
	if c.Delegate != nil {
		return c.Delegate.VisitModule(name, access, version)
	}
	return nil
}

func (c *ClassVisitor) VisitOuterClass(owner, name, descriptor string) {
	if c.Delegate != nil {
		c.Delegate.VisitOuterClass(owner, name, descriptor)
	}
}

func (c *ClassVisitor) VisitAnnotation(descriptor string, visible bool) asm.AnnotationVisitor {
	if c.Delegate != nil {
		return c.Delegate.VisitAnnotation(descriptor, visible)
	}
	return nil
}

func (c *ClassVisitor) VisitTypeAnnotation(typeRef int, typePath *asm.TypePath, descriptor string, visible bool) asm.AnnotationVisitor {
	if c.Delegate != nil {
		return c.Delegate.VisitTypeAnnotation(typeRef, typePath, descriptor, visible)
	}
	return nil
}

func (c *ClassVisitor) VisitAttribute(attribute *asm.Attribute) {
	if c.Delegate != nil {
		c.Delegate.VisitAttribute(attribute)
	}
}

func (c *ClassVisitor) VisitNestHost(nestHost string) {
	if c.Delegate != nil {
		c.Delegate.VisitNestHost(nestHost)
	}
}

func (c *ClassVisitor) VisitInnerClass(name, outerName, innerName string, access int) {
	if c.Delegate != nil {
		c.Delegate.VisitInnerClass(name, outerName, innerName, access)
	}
}

func (c *ClassVisitor) VisitNestMember(nestMember string) {
	if c.Delegate != nil {
		c.Delegate.VisitNestMember(nestMember)
	}
}

func (c *ClassVisitor) VisitPermittedSubclass(permittedSubclass string) {
	if c.Delegate != nil {
		c.Delegate.VisitPermittedSubclass(permittedSubclass)
	}
}

func (c *ClassVisitor) VisitRecordComponent(name, descriptor, signature string) asm.RecordComponentVisitor {
	if c.Delegate != nil {
		return c.Delegate.VisitRecordComponent(name, descriptor, signature)
	}
	return nil
}

func (c *ClassVisitor) VisitField(access int, name, descriptor, signature string, value interface{}) asm.FieldVisitor {
	if c.Delegate != nil {
		return c.Delegate.VisitField(access, name, descriptor, signature, value)
	}
	return nil
}

func (c *ClassVisitor) VisitMethod(access int, name, descriptor, signature string, exceptions []string) asm.MethodVisitor {
	if c.Delegate != nil {
		return c.Delegate.VisitMethod(access, name, descriptor, signature, exceptions)
	}
	return nil
}

func (c *ClassVisitor) VisitEnd() {
	if c.Delegate != nil {
		c.Delegate.VisitEnd()
	}
}

// MethodVisitor forwards every callback to Delegate when set.
type MethodVisitor struct {
	Delegate asm.MethodVisitor
}

func (m *MethodVisitor) VisitParameter(name string, access int) {
	if m.Delegate != nil {
		m.Delegate.VisitParameter(name, access)
	}
}

func (m *MethodVisitor) VisitAnnotationDefault() asm.AnnotationVisitor {
	if m.Delegate != nil {
		return m.Delegate.VisitAnnotationDefault()
	}
	return nil
}

func (m *MethodVisitor) VisitAnnotation(descriptor string, visible bool) asm.AnnotationVisitor {
	if m.Delegate != nil {
		return m.Delegate.VisitAnnotation(descriptor, visible)
	}
	return nil
}

func (m *MethodVisitor) VisitTypeAnnotation(typeRef int, typePath *asm.TypePath, descriptor string, visible bool) asm.AnnotationVisitor {
	if m.Delegate != nil {
		return m.Delegate.VisitTypeAnnotation(typeRef, typePath, descriptor, visible)
	}
	return nil
}

func (m *MethodVisitor) VisitAnnotableParameterCount(parameterCount int, visible bool) {
	if m.Delegate != nil {
		m.Delegate.VisitAnnotableParameterCount(parameterCount, visible)
	}
}

func (m *MethodVisitor) VisitParameterAnnotation(parameter int, descriptor string, visible bool) asm.AnnotationVisitor {
	if m.Delegate != nil {
		return m.Delegate.VisitParameterAnnotation(parameter, descriptor, visible)
	}
	return nil
}

func (m *MethodVisitor) VisitAttribute(attribute *asm.Attribute) {
	if m.Delegate != nil {
		m.Delegate.VisitAttribute(attribute)
	}
}

func (m *MethodVisitor) VisitCode() {
	if m.Delegate != nil {
		m.Delegate.VisitCode()
	}
}

func (m *MethodVisitor) VisitFrame(typed, nLocal int, local []asm.VerificationType, nStack int, stack []asm.VerificationType) {
	if m.Delegate != nil {
		m.Delegate.VisitFrame(typed, nLocal, local, nStack, stack)
	}
}

func (m *MethodVisitor) VisitInsn(opcode int) {
	if m.Delegate != nil {
		m.Delegate.VisitInsn(opcode)
	}
}

func (m *MethodVisitor) VisitIntInsn(opcode, operand int) {
	if m.Delegate != nil {
		m.Delegate.VisitIntInsn(opcode, operand)
	}
}

func (m *MethodVisitor) VisitVarInsn(opcode, vard int) {
	if m.Delegate != nil {
		m.Delegate.VisitVarInsn(opcode, vard)
	}
}

func (m *MethodVisitor) VisitTypeInsn(opcode int, typed string) {
	if m.Delegate != nil {
		m.Delegate.VisitTypeInsn(opcode, typed)
	}
}

func (m *MethodVisitor) VisitFieldInsn(opcode int, owner, name, descriptor string) {
	if m.Delegate != nil {
		m.Delegate.VisitFieldInsn(opcode, owner, name, descriptor)
	}
}

func (m *MethodVisitor) VisitMethodInsn(opcode int, owner, name, descriptor string, isInterface bool) {
	if m.Delegate != nil {
		m.Delegate.VisitMethodInsn(opcode, owner, name, descriptor, isInterface)
	}
}

func (m *MethodVisitor) VisitInvokeDynamicInsn(name, descriptor string, bootstrapMethodHandle *asm.Handle, bootstrapMethodArguments ...interface{}) {
	if m.Delegate != nil {
		m.Delegate.VisitInvokeDynamicInsn(name, descriptor, bootstrapMethodHandle, bootstrapMethodArguments...)
	}
}

func (m *MethodVisitor) VisitJumpInsn(opcode int, label *asm.Label) {
	if m.Delegate != nil {
		m.Delegate.VisitJumpInsn(opcode, label)
	}
}

func (m *MethodVisitor) VisitLabel(label *asm.Label) {
	if m.Delegate != nil {
		m.Delegate.VisitLabel(label)
	}
}

func (m *MethodVisitor) VisitLdcInsn(value interface{}) {
	if m.Delegate != nil {
		m.Delegate.VisitLdcInsn(value)
	}
}

func (m *MethodVisitor) VisitIincInsn(vard, increment int) {
	if m.Delegate != nil {
		m.Delegate.VisitIincInsn(vard, increment)
	}
}

func (m *MethodVisitor) VisitTableSwitchInsn(min, max int, dflt *asm.Label, labels ...*asm.Label) {
	if m.Delegate != nil {
		m.Delegate.VisitTableSwitchInsn(min, max, dflt, labels...)
	}
}

func (m *MethodVisitor) VisitLookupSwitchInsn(dflt *asm.Label, keys []int, labels []*asm.Label) {
	if m.Delegate != nil {
		m.Delegate.VisitLookupSwitchInsn(dflt, keys, labels)
	}
}

func (m *MethodVisitor) VisitMultiANewArrayInsn(descriptor string, numDimensions int) {
	if m.Delegate != nil {
		m.Delegate.VisitMultiANewArrayInsn(descriptor, numDimensions)
	}
}

func (m *MethodVisitor) VisitInsnAnnotation(typeRef int, typePath *asm.TypePath, descriptor string, visible bool) asm.AnnotationVisitor {
	if m.Delegate != nil {
		return m.Delegate.VisitInsnAnnotation(typeRef, typePath, descriptor, visible)
	}
	return nil
}

func (m *MethodVisitor) VisitTryCatchBlock(start, end, handler *asm.Label, typed string) {
	if m.Delegate != nil {
		m.Delegate.VisitTryCatchBlock(start, end, handler, typed)
	}
}

func (m *MethodVisitor) VisitTryCatchAnnotation(typeRef int, typePath *asm.TypePath, descriptor string, visible bool) asm.AnnotationVisitor {
	if m.Delegate != nil {
		return m.Delegate.VisitTryCatchAnnotation(typeRef, typePath, descriptor, visible)
	}
	return nil
}

func (m *MethodVisitor) VisitLocalVariable(name, descriptor, signature string, start, end *asm.Label, index int) {
	if m.Delegate != nil {
		m.Delegate.VisitLocalVariable(name, descriptor, signature, start, end, index)
	}
}

func (m *MethodVisitor) VisitLocalVariableAnnotation(typeRef int, typePath *asm.TypePath, start, end []*asm.Label, index []int, descriptor string, visible bool) asm.AnnotationVisitor {
	if m.Delegate != nil {
		return m.Delegate.VisitLocalVariableAnnotation(typeRef, typePath, start, end, index, descriptor, visible)
	}
	return nil
}

func (m *MethodVisitor) VisitLineNumber(line int, start *asm.Label) {
	if m.Delegate != nil {
		m.Delegate.VisitLineNumber(line, start)
	}
}

func (m *MethodVisitor) VisitMaxs(maxStack, maxLocals int) {
	if m.Delegate != nil {
		m.Delegate.VisitMaxs(maxStack, maxLocals)
	}
}

func (m *MethodVisitor) VisitEnd() {
	if m.Delegate != nil {
		m.Delegate.VisitEnd()
	}
}
