package commons

import (
	"fmt"

	"github.com/jvmgo/asmkit/asm"
	"github.com/jvmgo/asmkit/asm/helper"
)

// StaticInitMerger renames every incoming <clinit> to prefix+N with private static access, then
// at VisitEnd synthesizes one unifying <clinit> that calls each renamed method in declaration
// order (spec §4.9). Useful when merging several class visitors into one, each carrying its own
// static initializer.
type StaticInitMerger struct {
	helper.ClassVisitor
	prefix    string
	num       int
	className string
}

// NewStaticInitMerger wraps delegate, renaming merged clinits to prefix+N.
func NewStaticInitMerger(prefix string, delegate asm.ClassVisitor) *StaticInitMerger {
	return &StaticInitMerger{ClassVisitor: helper.ClassVisitor{Delegate: delegate}, prefix: prefix}
}

func (s *StaticInitMerger) Visit(version, access int, name, signature, superName string, interfaces []string) {
	s.className = name
	s.Delegate.Visit(version, access, name, signature, superName, interfaces)
}

func (s *StaticInitMerger) VisitMethod(access int, name, descriptor, signature string, exceptions []string) asm.MethodVisitor {
	if name != "<clinit>" {
		return s.Delegate.VisitMethod(access, name, descriptor, signature, exceptions)
	}
	mergedAccess := (access &^ (asm.ACC_PUBLIC | asm.ACC_PROTECTED)) | asm.ACC_PRIVATE | asm.ACC_STATIC
	mergedName := fmt.Sprintf("%s%d", s.prefix, s.num)
	s.num++
	return s.Delegate.VisitMethod(mergedAccess, mergedName, descriptor, signature, exceptions)
}

func (s *StaticInitMerger) VisitEnd() {
	if s.num > 0 {
		mv := s.Delegate.VisitMethod(asm.ACC_STATIC, "<clinit>", "()V", "", nil)
		if mv != nil {
			mv.VisitCode()
			for i := 0; i < s.num; i++ {
				mv.VisitMethodInsn(asm.INVOKESTATIC, s.className, fmt.Sprintf("%s%d", s.prefix, i), "()V", false)
			}
			mv.VisitInsn(asm.RETURN)
			mv.VisitMaxs(0, 0)
			mv.VisitEnd()
		}
	}
	s.Delegate.VisitEnd()
}
