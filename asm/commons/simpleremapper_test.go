package commons

import (
	"testing"

	"github.com/jvmgo/asmkit/asm"
)

func TestSimpleRemapperMapsClassAndMethodAndField(t *testing.T) {
	r := NewSimpleRemapper(map[string]string{
		"old/Foo":          "new/Bar",
		"old/Foo.doIt(I)V": "doItRenamed",
		"old/Foo.count":    "tally",
		"oldpkg":           "newpkg",
	})

	if got := r.Map("old/Foo"); got != "new/Bar" {
		t.Fatalf("Map = %q, want new/Bar", got)
	}
	if got := r.Map("untouched/Baz"); got != "untouched/Baz" {
		t.Fatalf("Map of unmapped name changed: %q", got)
	}
	if got := r.MapMethodName("old/Foo", "doIt", "(I)V"); got != "doItRenamed" {
		t.Fatalf("MapMethodName = %q, want doItRenamed", got)
	}
	if got := r.MapMethodName("old/Foo", "other", "()V"); got != "other" {
		t.Fatalf("MapMethodName of unmapped method changed: %q", got)
	}
	if got := r.MapFieldName("old/Foo", "count", "I"); got != "tally" {
		t.Fatalf("MapFieldName = %q, want tally", got)
	}
	if got := r.MapPackageName("oldpkg"); got != "newpkg" {
		t.Fatalf("MapPackageName = %q, want newpkg", got)
	}
}

func TestRemapperMapDescAndMethodDesc(t *testing.T) {
	r := NewSimpleRemapper(map[string]string{"old/Foo": "new/Bar"})

	if got := r.MapDesc("Lold/Foo;"); got != "Lnew/Bar;" {
		t.Fatalf("MapDesc = %q, want Lnew/Bar;", got)
	}
	if got := r.MapDesc("[Lold/Foo;"); got != "[Lnew/Bar;" {
		t.Fatalf("MapDesc of array type = %q, want [Lnew/Bar;", got)
	}
	if got := r.MapDesc("I"); got != "I" {
		t.Fatalf("MapDesc of primitive changed: %q", got)
	}

	if got := r.MapMethodDesc("(Lold/Foo;I)Lold/Foo;"); got != "(Lnew/Bar;I)Lnew/Bar;" {
		t.Fatalf("MapMethodDesc = %q, want (Lnew/Bar;I)Lnew/Bar;", got)
	}
}

func TestRemapperMapSignature(t *testing.T) {
	r := NewSimpleRemapper(map[string]string{"old/Foo": "new/Bar"})

	got := r.MapSignature("Lold/Foo;", true)
	if got != "Lnew/Bar;" {
		t.Fatalf("MapSignature(type) = %q, want Lnew/Bar;", got)
	}

	got = r.MapSignature("", true)
	if got != "" {
		t.Fatalf("MapSignature of empty signature should stay empty, got %q", got)
	}
}

func TestRemapperMapValueHandle(t *testing.T) {
	r := NewSimpleRemapper(map[string]string{
		"old/Foo":          "new/Bar",
		"old/Foo.doIt(I)V": "doItRenamed",
	})

	h := asm.NewHandle(asm.H_INVOKEVIRTUAL, "old/Foo", "doIt", "(I)V", false)
	mapped := r.MapValue(h)
	handle, ok := mapped.(*asm.Handle)
	if !ok {
		t.Fatalf("MapValue of a handle did not return *asm.Handle")
	}
	if handle.GetOwner() != "new/Bar" {
		t.Fatalf("mapped handle owner = %q, want new/Bar", handle.GetOwner())
	}
	if handle.GetName() != "doItRenamed" {
		t.Fatalf("mapped handle name = %q, want doItRenamed", handle.GetName())
	}
}
