package commons

import (
	"testing"

	"github.com/jvmgo/asmkit/asm"
)

func TestCodeSizeEvaluatorAccumulatesFixedAndRangedCosts(t *testing.T) {
	rec := &recordingVisitor{}
	eval := NewCodeSizeEvaluator(rec)

	eval.VisitVarInsn(asm.ALOAD, 0)    // 1 byte (slot < 4)
	eval.VisitInsn(asm.RETURN)         // 1 byte
	eval.VisitJumpInsn(asm.GOTO, nil)  // 3..5 bytes
	eval.VisitLdcInsn("hello")         // 2..3 bytes
	eval.VisitIincInsn(300, 1)         // wide, 6 bytes (var > 255)

	wantMin := 1 + 1 + 3 + 2 + 6
	wantMax := 1 + 1 + 5 + 3 + 6
	if eval.MinSize() != wantMin {
		t.Errorf("MinSize() = %d, want %d", eval.MinSize(), wantMin)
	}
	if eval.MaxSize() != wantMax {
		t.Errorf("MaxSize() = %d, want %d", eval.MaxSize(), wantMax)
	}
}

func TestCodeSizeEvaluatorForwardsToDelegate(t *testing.T) {
	rec := &recordingVisitor{}
	eval := NewCodeSizeEvaluator(rec)

	eval.VisitInsn(asm.NOP)
	if len(rec.trace) != 1 || rec.trace[0] != "insn 0" {
		t.Fatalf("delegate did not receive the forwarded instruction, trace = %v", rec.trace)
	}
}
