// Package commons holds the control-flow-aware bytecode transformers that operate inside the
// visitor pipeline: the local-variable sorter, the JSR inliner, the constructor advice adapter,
// the remapper framework, and the auxiliary transformers (static-initializer merger, try/catch
// sorter, SVUID computer, code-size evaluator). Every transformer here is itself a MethodVisitor
// or ClassVisitor that wraps a delegate, consistent with spec §2's "visitor chain is a linear
// pipeline: each node receives an event, mutates it (possibly), and forwards it to the next."
package commons

import (
	"github.com/jvmgo/asmkit/asm"
	"github.com/jvmgo/asmkit/asm/helper"
)

// LocalVariablesSorter a MethodVisitor that renumbers local variable slots in first-use order and
// allows new locals to be allocated past whatever the method already declared (spec §4.5). The
// slots of 'this' (if any) and of the declared parameters keep their identity; every other
// slot is assigned a fresh new slot the first time it is referenced, and that assignment is then
// reused consistently by every later reference to the same old slot.
type LocalVariablesSorter struct {
	helper.MethodVisitor

	firstLocal int
	paramsEnd  int
	nextLocal  int
	mapping    map[int]int
}

// NewLocalVariablesSorter constructs a sorter for a method with the given access flags and
// descriptor (from which the identity-mapped parameter slots are computed), forwarding remapped
// events to delegate.
func NewLocalVariablesSorter(access int, descriptor string, delegate asm.MethodVisitor) *LocalVariablesSorter {
	firstLocal := 0
	if access&asm.ACC_STATIC == 0 {
		firstLocal = 1
	}
	nextLocal := firstLocal
	for _, argumentType := range asm.GetArgumentTypes(descriptor) {
		nextLocal += argumentType.GetSize()
	}
	return &LocalVariablesSorter{
		MethodVisitor: helper.MethodVisitor{Delegate: delegate},
		firstLocal:    firstLocal,
		paramsEnd:     nextLocal,
		nextLocal:     nextLocal,
		mapping:       make(map[int]int),
	}
}

// NewLocal allocates a fresh local variable slot of the given type, past every slot assigned so
// far (whether by remapping or by an earlier NewLocal call), and returns its new index.
func (s *LocalVariablesSorter) NewLocal(typ *asm.Type) int {
	local := s.nextLocal
	s.nextLocal += typ.GetSize()
	return local
}

// GetFirstLocal returns the index of the first slot past 'this': 0 for a static method, 1
// otherwise. The declared parameters start at this slot.
func (s *LocalVariablesSorter) GetFirstLocal() int { return s.firstLocal }

// remap returns the new slot for oldVar (of the given size in slots), assigning one the first
// time oldVar is seen.
func (s *LocalVariablesSorter) remap(oldVar, size int) int {
	if oldVar < s.paramsEnd {
		return oldVar
	}
	if newVar, ok := s.mapping[oldVar]; ok {
		return newVar
	}
	newVar := s.nextLocal
	s.nextLocal += size
	s.mapping[oldVar] = newVar
	return newVar
}

func varInsnSize(opcode int) int {
	switch opcode {
	case asm.LLOAD, asm.LSTORE, asm.DLOAD, asm.DSTORE:
		return 2
	default:
		return 1
	}
}

func (s *LocalVariablesSorter) VisitVarInsn(opcode, vard int) {
	s.Delegate.VisitVarInsn(opcode, s.remap(vard, varInsnSize(opcode)))
}

func (s *LocalVariablesSorter) VisitIincInsn(vard, increment int) {
	s.Delegate.VisitIincInsn(s.remap(vard, 1), increment)
}

func (s *LocalVariablesSorter) VisitMaxs(maxStack, maxLocals int) {
	s.Delegate.VisitMaxs(maxStack, s.nextLocal)
}

func (s *LocalVariablesSorter) VisitLocalVariable(name, descriptor, signature string, start, end *asm.Label, index int) {
	newIndex := s.remap(index, asm.GetType(descriptor).GetSize())
	s.Delegate.VisitLocalVariable(name, descriptor, signature, start, end, newIndex)
}

func (s *LocalVariablesSorter) VisitLocalVariableAnnotation(typeRef int, typePath *asm.TypePath, start, end []*asm.Label, index []int, descriptor string, visible bool) asm.AnnotationVisitor {
	size := asm.GetType(descriptor).GetSize()
	remapped := make([]int, len(index))
	for i, idx := range index {
		remapped[i] = s.remap(idx, size)
	}
	return s.Delegate.VisitLocalVariableAnnotation(typeRef, typePath, start, end, remapped, descriptor, visible)
}

// frameEntrySize returns the slot width (1 or 2) of a single StackMapTable verification-type-info
// entry; only LONG and DOUBLE occupy two slots, and (per JVMS 4.7.4 and this module's reader/
// writer, see classreader.go's emitFrame) the second slot is never itself represented by its own
// entry, so the entry count in a VisitFrame call already equals the logical (not raw-slot) local
// count.
func frameEntrySize(v asm.VerificationType) int {
	switch v.Kind {
	case asm.ItemLong, asm.ItemDouble:
		return 2
	default:
		return 1
	}
}

// setFrameLocal places v at index in newLocal, growing the vector with TOP padding as needed, and
// (for a wide entry) reserving the following slot as TOP too - the second half of a long/double is
// never itself represented by its own entry (see frameEntrySize).
func setFrameLocal(newLocal []asm.VerificationType, index int, v asm.VerificationType) []asm.VerificationType {
	for len(newLocal) <= index {
		newLocal = append(newLocal, asm.VTop)
	}
	newLocal[index] = v
	if v.Kind == asm.ItemLong || v.Kind == asm.ItemDouble {
		for len(newLocal) <= index+1 {
			newLocal = append(newLocal, asm.VTop)
		}
		newLocal[index+1] = asm.VTop
	}
	return newLocal
}

// VisitFrame reconstructs the local-vector for the new slot layout (spec §4.5): iterates the
// original frame's locals with oldVar bookkeeping, remaps each non-TOP local to its new slot
// through the sparse map, and writes it into a freshly built vector sized to the highest new slot
// touched - trailing and wide TOPs fall out of setFrameLocal's padding rather than being appended
// separately. Encounter order is old-slot order, but new-slot order need not match it: a method
// that references old slot 7 before old slot 5 maps 7 and then 5 to the first two free slots past
// the parameters, so a later
// frame listing old slots {5,7} must be emitted in ascending new-slot order, not old-slot order.
func (s *LocalVariablesSorter) VisitFrame(typed, nLocal int, local []asm.VerificationType, nStack int, stack []asm.VerificationType) {
	if typed != asm.F_NEW {
		panic("LocalVariablesSorter only accepts expanded (asm.F_NEW) frames")
	}
	var newLocal []asm.VerificationType
	oldVar := 0
	for i := 0; i < nLocal; i++ {
		v := local[i]
		size := frameEntrySize(v)
		if v.Kind != asm.ItemTop {
			newVar := s.remap(oldVar, size)
			newLocal = setFrameLocal(newLocal, newVar, v)
		}
		oldVar += size
	}
	s.Delegate.VisitFrame(typed, len(newLocal), newLocal, nStack, stack)
}
