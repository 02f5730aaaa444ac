package commons

import (
	"testing"

	"github.com/jvmgo/asmkit/asm"
)

// buildTryFinally feeds the adapter the classic javac try/finally shape:
//
//	L0: <try body>
//	L1: JSR L3
//	L2: RETURN
//	L3: ASTORE 1 ; <finally body> ; RET 1
//	L4: ASTORE 2 ; JSR L3
//	L5: ALOAD 2 ; ATHROW
//	try { start=L0 end=L1 handler=L4 }
//
// which calls the single finally subroutine from two distinct call sites.
func buildTryFinally(j *JSRInlinerAdapter) {
	l0, l1, l2, l3, l4, l5 := asm.NewLabel(), asm.NewLabel(), asm.NewLabel(), asm.NewLabel(), asm.NewLabel(), asm.NewLabel()

	j.VisitTryCatchBlock(l0, l1, l4, "")
	j.VisitCode()
	j.VisitLabel(l0)
	j.VisitInsn(asm.NOP)
	j.VisitLabel(l1)
	j.VisitJumpInsn(asm.JSR, l3)
	j.VisitLabel(l2)
	j.VisitInsn(asm.RETURN)
	j.VisitLabel(l4)
	j.VisitVarInsn(asm.ASTORE, 2)
	j.VisitJumpInsn(asm.JSR, l3)
	j.VisitLabel(l5)
	j.VisitVarInsn(asm.ALOAD, 2)
	j.VisitInsn(asm.ATHROW)
	j.VisitLabel(l3)
	j.VisitVarInsn(asm.ASTORE, 1)
	j.VisitInsn(asm.NOP)
	j.VisitVarInsn(asm.RET, 1)
	j.VisitMaxs(2, 3)
	j.VisitEnd()
}

func TestJSRInlinerAdapterDuplicatesSubroutinePerCallSite(t *testing.T) {
	rec := &recordingVisitor{}
	j := NewJSRInlinerAdapter(0, "m", "()V", rec)
	buildTryFinally(j)

	if j.Err != nil {
		t.Fatalf("unexpected error: %v", j.Err)
	}

	var gotos, labels, astore1, nops, jsrs, rets int
	for _, s := range rec.trace {
		switch {
		case s == "insn 167" || hasPrefix(s, "jump 167"):
			gotos++
		case hasPrefix(s, "jump 168"):
			jsrs++
		case hasPrefix(s, "var 169"):
			rets++
		case hasPrefix(s, "var 58 1"):
			astore1++
		case s == "insn 0":
			nops++
		case hasPrefix(s, "label"):
			labels++
		}
	}

	if jsrs != 0 {
		t.Errorf("JSR opcode (168) leaked into output: %d occurrences", jsrs)
	}
	if rets != 0 {
		t.Errorf("RET opcode (169) leaked into output: %d occurrences", rets)
	}
	// the finally body (ASTORE 1; NOP) must appear once per call site.
	if astore1 != 2 {
		t.Errorf("ASTORE 1 occurred %d times, want 2 (once per JSR call site)", astore1)
	}
	if nops != 3 { // 1 in the try body + 2 duplicated finally bodies
		t.Errorf("NOP occurred %d times, want 3", nops)
	}
	// each inlined call site contributes a GOTO to the subroutine entry plus a GOTO replacing the
	// RET, so 2 call sites * 2 = 4.
	if gotos != 4 {
		t.Errorf("GOTO occurred %d times, want 4", gotos)
	}

	foundEnd := false
	foundTryCatch := false
	for _, s := range rec.trace {
		if s == "end" {
			foundEnd = true
		}
		if hasPrefix(s, "trycatch") {
			foundTryCatch = true
		}
	}
	if !foundEnd {
		t.Error("VisitEnd was never forwarded to the delegate")
	}
	if !foundTryCatch {
		t.Error("the try/catch block covering the try body was never re-emitted")
	}
}

func TestJSRInlinerAdapterRejectsRetOutsideSubroutine(t *testing.T) {
	rec := &recordingVisitor{}
	j := NewJSRInlinerAdapter(0, "m", "()V", rec)

	j.VisitCode()
	j.VisitVarInsn(asm.RET, 1) // never reached via any JSR
	j.VisitMaxs(1, 2)
	j.VisitEnd()

	if j.Err == nil {
		t.Fatal("expected an error for a RET unreachable from any subroutine")
	}
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
