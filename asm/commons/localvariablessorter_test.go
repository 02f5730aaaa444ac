package commons

import (
	"testing"

	"github.com/jvmgo/asmkit/asm"
)

func TestLocalVariablesSorterRemapsInEncounterOrder(t *testing.T) {
	rec := &recordingVisitor{}
	sorter := NewLocalVariablesSorter(0, "(I)V", rec)

	if got, want := sorter.GetFirstLocal(), 1; got != want {
		t.Fatalf("GetFirstLocal() = %d, want %d", got, want)
	}

	// Slot 0 ('this') and slot 1 (the declared int parameter) keep their identity.
	sorter.VisitVarInsn(asm.ALOAD, 0)
	sorter.VisitVarInsn(asm.ILOAD, 1)

	// Two distinct "compiler" slots beyond the declared ones, first-seen order 7 then 5.
	sorter.VisitVarInsn(asm.ASTORE, 7)
	sorter.VisitVarInsn(asm.ASTORE, 5)
	sorter.VisitVarInsn(asm.ALOAD, 7) // must reuse the same new slot as the first ASTORE 7
	sorter.VisitIincInsn(5, 1)

	sorter.VisitMaxs(2, 10)

	want := []string{
		"var 25 0", // ALOAD
		"var 21 1", // ILOAD
		"var 58 2", // ASTORE 7 -> new slot 2
		"var 58 3", // ASTORE 5 -> new slot 3
		"var 25 2", // ALOAD 7 -> slot 2 again
		"iinc 3 1",
		"maxs 2 4",
	}
	if len(rec.trace) != len(want) {
		t.Fatalf("trace = %v, want %v", rec.trace, want)
	}
	for i, w := range want {
		if rec.trace[i] != w {
			t.Errorf("trace[%d] = %q, want %q", i, rec.trace[i], w)
		}
	}
}

func TestLocalVariablesSorterNewLocal(t *testing.T) {
	rec := &recordingVisitor{}
	sorter := NewLocalVariablesSorter(asm.ACC_STATIC, "(I)V", rec)

	if got, want := sorter.GetFirstLocal(), 0; got != want {
		t.Fatalf("GetFirstLocal() = %d, want %d (static method has no 'this')", got, want)
	}

	first := sorter.NewLocal(asm.LongType)
	second := sorter.NewLocal(asm.IntType)
	if first != 1 {
		t.Errorf("first NewLocal = %d, want 1 (slot 0 is the declared int parameter)", first)
	}
	if second != 3 {
		t.Errorf("second NewLocal = %d, want 3 (long occupies two slots)", second)
	}
}
