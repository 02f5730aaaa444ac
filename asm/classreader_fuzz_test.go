package asm

import "testing"

// minimalClassBytes builds the bytes of the smallest valid class file this module can write: a
// public class extending java/lang/Object with a single trivial constructor. Used to seed the fuzz
// corpus with a well-formed starting point for the mutator to work from.
func minimalClassBytes() []byte {
	cw := NewClassWriter(COMPUTE_NONE)
	cw.Visit(V17, ACC_PUBLIC|ACC_SUPER, "pkg/Minimal", "", "java/lang/Object", nil)
	mv := cw.VisitMethod(ACC_PUBLIC, "<init>", "()V", "", nil)
	mv.VisitCode()
	mv.VisitVarInsn(ALOAD, 0)
	mv.VisitMethodInsn(INVOKESPECIAL, "java/lang/Object", "<init>", "()V", false)
	mv.VisitInsn(RETURN)
	mv.VisitMaxs(1, 1)
	mv.VisitEnd()
	cw.VisitEnd()
	return cw.ToByteArray()
}

func TestMinimalClassBytesParse(t *testing.T) {
	if Fuzz(minimalClassBytes()) != 1 {
		t.Fatal("expected a well-formed class file to parse and visit cleanly")
	}
}

func FuzzClassReader(f *testing.F) {
	f.Add(minimalClassBytes())
	f.Add([]byte{})
	f.Add([]byte{0xCA, 0xFE, 0xBA, 0xBE})
	f.Fuzz(func(t *testing.T, data []byte) {
		Fuzz(data)
	})
}
