package commons

import (
	"testing"

	"github.com/jvmgo/asmkit/asm"
)

// TestAdviceAdapterNonConstructorFiresEnterImmediately mirrors spec §4.7's non-constructor case:
// OnMethodEnter fires at VisitCode, OnMethodExit fires right before the RETURN.
func TestAdviceAdapterNonConstructorFiresEnterImmediately(t *testing.T) {
	rec := &recordingVisitor{}
	var trace []string
	adv := NewAdviceAdapter(0, "doStuff", "()V", rec)
	adv.OnMethodEnter = func() { trace = append(trace, "enter") }
	adv.OnMethodExit = func(opcode int) { trace = append(trace, "exit") }

	adv.VisitCode()
	adv.VisitInsn(asm.RETURN)
	adv.VisitMaxs(0, 1)
	adv.VisitEnd()

	if adv.Err != nil {
		t.Fatalf("unexpected Err: %v", adv.Err)
	}
	want := []string{"enter", "exit"}
	if len(trace) != len(want) {
		t.Fatalf("trace = %v, want %v", trace, want)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Errorf("trace[%d] = %q, want %q", i, trace[i], want[i])
		}
	}
}

// TestAdviceAdapterConstructorFiresEnterAfterSuperCall models "super(cond ? 1 : 2);" from spec §8
// scenario 5: on_method_enter must fire exactly once, after the super call, on either branch of
// the argument expression - the branch itself carries no UNINITIALIZED_THIS value (only the
// int condition result), so ALOAD 0 still sees the receiver at the same depth however the jump
// was taken.
func TestAdviceAdapterConstructorFiresEnterAfterSuperCall(t *testing.T) {
	rec := &recordingVisitor{}
	enterCount := 0
	adv := NewAdviceAdapter(0, "<init>", "(I)V", rec)
	adv.OnMethodEnter = func() { enterCount++ }

	elseLabel := asm.NewLabel()
	endLabel := asm.NewLabel()

	adv.VisitCode()
	adv.VisitVarInsn(asm.ALOAD, 0) // push UNINITIALIZED_THIS
	adv.VisitVarInsn(asm.ILOAD, 1)
	adv.VisitJumpInsn(asm.IFEQ, elseLabel)
	adv.VisitInsn(asm.ICONST_1)
	adv.VisitJumpInsn(asm.GOTO, endLabel)
	adv.VisitLabel(elseLabel)
	adv.VisitInsn(asm.ICONST_2)
	adv.VisitLabel(endLabel)
	adv.VisitMethodInsn(asm.INVOKESPECIAL, "java/lang/Object", "<init>", "(I)V", false)
	adv.VisitInsn(asm.RETURN)
	adv.VisitMaxs(2, 2)
	adv.VisitEnd()

	if adv.Err != nil {
		t.Fatalf("unexpected Err: %v", adv.Err)
	}
	if enterCount != 1 {
		t.Fatalf("OnMethodEnter fired %d times, want 1", enterCount)
	}
	if !adv.superInitialized {
		t.Fatalf("superInitialized = false after <init> call")
	}
}

func TestAdviceAdapterReturnBeforeSuperIsMalformed(t *testing.T) {
	rec := &recordingVisitor{}
	adv := NewAdviceAdapter(0, "<init>", "()V", rec)

	adv.VisitCode()
	adv.VisitVarInsn(asm.ALOAD, 0)
	adv.VisitInsn(asm.RETURN) // no super call yet: malformed

	if adv.Err == nil {
		t.Fatalf("expected malformed-method Err, got nil")
	}
}

func TestAdviceAdapterSimpleConstructorEntersAfterSuper(t *testing.T) {
	rec := &recordingVisitor{}
	var order []string
	adv := NewAdviceAdapter(0, "<init>", "()V", rec)
	adv.OnMethodEnter = func() { order = append(order, "enter") }

	adv.VisitCode()
	adv.VisitVarInsn(asm.ALOAD, 0)
	adv.VisitMethodInsn(asm.INVOKESPECIAL, "java/lang/Object", "<init>", "()V", false)
	order = append(order, "after-super")
	adv.VisitInsn(asm.RETURN)
	adv.VisitMaxs(1, 1)
	adv.VisitEnd()

	if adv.Err != nil {
		t.Fatalf("unexpected Err: %v", adv.Err)
	}
	want := []string{"enter", "after-super"}
	if len(order) != len(want) || order[0] != want[0] || order[1] != want[1] {
		t.Fatalf("order = %v, want %v", order, want)
	}
}
