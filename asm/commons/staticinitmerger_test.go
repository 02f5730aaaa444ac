package commons

import (
	"testing"

	"github.com/jvmgo/asmkit/asm"
)

func TestStaticInitMergerRenamesAndSynthesizes(t *testing.T) {
	rec := &recordingClassVisitor{}
	merger := NewStaticInitMerger("clinit$", rec)

	merger.Visit(52, 0, "pkg/Merged", "", "java/lang/Object", nil)
	merger.VisitMethod(asm.ACC_STATIC, "<clinit>", "()V", "", nil)
	merger.VisitMethod(asm.ACC_STATIC, "<clinit>", "()V", "", nil)
	merger.VisitEnd()

	if len(rec.methods) != 3 {
		t.Fatalf("got %d visited methods, want 3 (2 renamed + 1 synthesized)", len(rec.methods))
	}
	wantNames := []string{"method 10 clinit$0()V", "method 10 clinit$1()V", "method 8 <clinit>()V"}
	for i, want := range wantNames {
		if rec.trace[i+1] != want {
			t.Errorf("trace[%d] = %q, want %q", i+1, rec.trace[i+1], want)
		}
	}

	synthesized := rec.methods[2]
	wantTrace := []string{"insn 177", "maxs 0 0", "end"}
	if len(synthesized.trace) != len(wantTrace) {
		t.Fatalf("synthesized clinit trace = %v, want %v", synthesized.trace, wantTrace)
	}
	for i, w := range wantTrace {
		if synthesized.trace[i] != w {
			t.Errorf("synthesized trace[%d] = %q, want %q", i, synthesized.trace[i], w)
		}
	}
}
