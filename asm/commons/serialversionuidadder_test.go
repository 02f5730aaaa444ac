package commons

import (
	"testing"

	"github.com/jvmgo/asmkit/asm"
)

func TestSerialVersionUIDAdderInjectsFieldWhenMissing(t *testing.T) {
	rec := &recordingClassVisitor{}
	adder := NewSerialVersionUIDAdder(rec)

	adder.Visit(52, asm.ACC_PUBLIC, "pkg/Plain", "", "java/lang/Object", nil)
	adder.VisitMethod(asm.ACC_PUBLIC, "<init>", "()V", "", nil)
	adder.VisitEnd()

	if len(rec.trace) < 2 {
		t.Fatalf("trace too short: %v", rec.trace)
	}
	last := rec.trace[len(rec.trace)-2]
	if last[:len("field serialVersionUID J")] != "field serialVersionUID J" {
		t.Fatalf("expected an injected serialVersionUID field, trace = %v", rec.trace)
	}
}

func TestSerialVersionUIDAdderSkipsWhenAlreadyPresent(t *testing.T) {
	rec := &recordingClassVisitor{}
	adder := NewSerialVersionUIDAdder(rec)

	adder.Visit(52, asm.ACC_PUBLIC, "pkg/HasOne", "", "java/lang/Object", nil)
	adder.VisitField(asm.ACC_PRIVATE|asm.ACC_STATIC|asm.ACC_FINAL, "serialVersionUID", "J", "", int64(42))
	adder.VisitEnd()

	for _, entry := range rec.trace {
		if entry != "visit pkg/HasOne super=java/lang/Object" &&
			entry != "field serialVersionUID J 42" &&
			entry != "end" {
			t.Errorf("unexpected extra trace entry: %q", entry)
		}
	}
	if len(rec.trace) != 3 {
		t.Fatalf("expected no injected field, trace = %v", rec.trace)
	}
}

func TestSerialVersionUIDAdderSkipsEnums(t *testing.T) {
	rec := &recordingClassVisitor{}
	adder := NewSerialVersionUIDAdder(rec)

	adder.Visit(52, asm.ACC_PUBLIC|asm.ACC_ENUM, "pkg/Color", "", "java/lang/Enum", nil)
	adder.VisitEnd()

	if len(rec.trace) != 2 {
		t.Fatalf("expected no injected field for an enum, trace = %v", rec.trace)
	}
}

func TestSerialVersionUIDAdderIsDeterministic(t *testing.T) {
	build := func() int64 {
		rec := &recordingClassVisitor{}
		adder := NewSerialVersionUIDAdder(rec)
		adder.Visit(52, asm.ACC_PUBLIC, "pkg/Stable", "", "java/lang/Object", []string{"java/io/Serializable"})
		adder.VisitField(asm.ACC_PUBLIC, "count", "I", "", nil)
		adder.VisitMethod(asm.ACC_PUBLIC, "doIt", "()V", "", nil)
		return adder.computeSVUID()
	}
	first := build()
	second := build()
	if first != second {
		t.Fatalf("computeSVUID is not deterministic: %d != %d", first, second)
	}
}
