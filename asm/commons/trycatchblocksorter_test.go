package commons

import (
	"fmt"
	"testing"

	"github.com/jvmgo/asmkit/asm"
)

func TestTryCatchBlockSorterOrdersShortestSpanFirst(t *testing.T) {
	rec := &recordingVisitor{}
	sorter := NewTryCatchBlockSorter(rec)

	outerStart, innerStart := asm.NewLabel(), asm.NewLabel()
	innerEnd, outerEnd := asm.NewLabel(), asm.NewLabel()
	outerHandler, innerHandler := asm.NewLabel(), asm.NewLabel()

	// Declared outer-first, inner-second: the sorter must still emit the shorter (inner) span first.
	sorter.VisitTryCatchBlock(outerStart, outerEnd, outerHandler, "java/lang/Exception")
	sorter.VisitTryCatchBlock(innerStart, innerEnd, innerHandler, "java/lang/RuntimeException")

	sorter.VisitLabel(outerStart)
	sorter.VisitLabel(innerStart)
	sorter.VisitInsn(1)
	sorter.VisitLabel(innerEnd)
	sorter.VisitLabel(outerEnd)
	sorter.VisitMaxs(1, 1)
	sorter.VisitEnd()

	want := []string{
		"trycatch java/lang/RuntimeException",
		"trycatch java/lang/Exception",
		fmt.Sprintf("label %p", outerStart),
		fmt.Sprintf("label %p", innerStart),
		"insn 1",
		fmt.Sprintf("label %p", innerEnd),
		fmt.Sprintf("label %p", outerEnd),
		"maxs 1 1",
		"end",
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
