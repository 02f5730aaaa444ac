package commons

import (
	"github.com/jvmgo/asmkit/asm"
	"github.com/jvmgo/asmkit/asm/helper"
)

// CodeSizeEvaluator tracks a [min, max] byte-size range for the method body it observes: most
// instructions contribute a fixed number of bytes, but a few (jumps that may widen to goto_w/jsr_w
// or need a goto_w after negation, LDC that may need to widen to LDC_W, switches with their
// alignment padding) contribute a range instead, since the final encoding isn't known until the
// writer lays out real offsets (spec §4.9). IINC is fixed: 3 bytes, or 6 in its WIDE form when
// the slot or increment is out of byte range. Useful to pre-size buffers or bail out early when a method
// threatens to exceed the 64 KiB code-attribute limit.
type CodeSizeEvaluator struct {
	helper.MethodVisitor
	minSize, maxSize int
}

// NewCodeSizeEvaluator wraps delegate, accumulating size as callbacks pass through.
func NewCodeSizeEvaluator(delegate asm.MethodVisitor) *CodeSizeEvaluator {
	return &CodeSizeEvaluator{MethodVisitor: helper.MethodVisitor{Delegate: delegate}}
}

// MinSize returns the minimum possible size in bytes of the code observed so far.
func (c *CodeSizeEvaluator) MinSize() int { return c.minSize }

// MaxSize returns the maximum possible size in bytes of the code observed so far.
func (c *CodeSizeEvaluator) MaxSize() int { return c.maxSize }

func (c *CodeSizeEvaluator) add(n int) { c.minSize += n; c.maxSize += n }

func (c *CodeSizeEvaluator) addRange(min, max int) { c.minSize += min; c.maxSize += max }

func (c *CodeSizeEvaluator) VisitInsn(opcode int) {
	c.add(1)
	c.Delegate.VisitInsn(opcode)
}

func (c *CodeSizeEvaluator) VisitIntInsn(opcode, operand int) {
	if opcode == asm.SIPUSH {
		c.add(3)
	} else {
		c.add(2)
	}
	c.Delegate.VisitIntInsn(opcode, operand)
}

func (c *CodeSizeEvaluator) VisitVarInsn(opcode, vard int) {
	switch {
	case vard < 4 && opcode != asm.RET:
		c.add(1)
	case vard >= 256:
		c.add(4) // wide prefix + 2-byte operand
	default:
		c.add(2)
	}
	c.Delegate.VisitVarInsn(opcode, vard)
}

func (c *CodeSizeEvaluator) VisitTypeInsn(opcode int, typed string) {
	c.add(3)
	c.Delegate.VisitTypeInsn(opcode, typed)
}

func (c *CodeSizeEvaluator) VisitFieldInsn(opcode int, owner, name, descriptor string) {
	c.add(3)
	c.Delegate.VisitFieldInsn(opcode, owner, name, descriptor)
}

func (c *CodeSizeEvaluator) VisitMethodInsn(opcode int, owner, name, descriptor string, isInterface bool) {
	if opcode == asm.INVOKEINTERFACE {
		c.add(5)
	} else {
		c.add(3)
	}
	c.Delegate.VisitMethodInsn(opcode, owner, name, descriptor, isInterface)
}

func (c *CodeSizeEvaluator) VisitInvokeDynamicInsn(name, descriptor string, bootstrapMethodHandle *asm.Handle, bootstrapMethodArguments ...interface{}) {
	c.add(5)
	c.Delegate.VisitInvokeDynamicInsn(name, descriptor, bootstrapMethodHandle, bootstrapMethodArguments...)
}

func (c *CodeSizeEvaluator) VisitJumpInsn(opcode int, label *asm.Label) {
	if opcode == asm.GOTO || opcode == asm.JSR {
		c.addRange(3, 5) // may widen to goto_w/jsr_w
	} else {
		c.addRange(3, 8) // conditional jump may need negation + goto_w
	}
	c.Delegate.VisitJumpInsn(opcode, label)
}

func (c *CodeSizeEvaluator) VisitLdcInsn(value interface{}) {
	if isWideConstant(value) {
		c.add(3)
	} else {
		c.addRange(2, 3) // ldc may need to widen to ldc_w once the constant pool index is known
	}
	c.Delegate.VisitLdcInsn(value)
}

func isWideConstant(value interface{}) bool {
	switch v := value.(type) {
	case int64, float64:
		return true
	case *asm.ConstantDynamic:
		return v.GetSize() == 2
	default:
		return false
	}
}

func (c *CodeSizeEvaluator) VisitIincInsn(vard, increment int) {
	if vard > 255 || increment > 127 || increment < -128 {
		c.add(6) // wide prefix + 2-byte var + 2-byte increment
	} else {
		c.add(3)
	}
	c.Delegate.VisitIincInsn(vard, increment)
}

func (c *CodeSizeEvaluator) VisitTableSwitchInsn(min, max int, dflt *asm.Label, labels ...*asm.Label) {
	n := max - min + 1
	fixed := 1 + 4 + 4 + 4 + 4*n // opcode + default + low + high + n offsets, before alignment padding
	c.addRange(fixed, fixed+3)
	c.Delegate.VisitTableSwitchInsn(min, max, dflt, labels...)
}

func (c *CodeSizeEvaluator) VisitLookupSwitchInsn(dflt *asm.Label, keys []int, labels []*asm.Label) {
	fixed := 1 + 4 + 4 + 8*len(keys) // opcode + default + npairs + n (key, offset) pairs
	c.addRange(fixed, fixed+3)
	c.Delegate.VisitLookupSwitchInsn(dflt, keys, labels)
}

func (c *CodeSizeEvaluator) VisitMultiANewArrayInsn(descriptor string, numDimensions int) {
	c.add(4)
	c.Delegate.VisitMultiANewArrayInsn(descriptor, numDimensions)
}
