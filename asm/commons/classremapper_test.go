package commons

import "testing"

func TestClassRemapperRenamesClassFieldAndMethod(t *testing.T) {
	r := NewSimpleRemapper(map[string]string{
		"old/Foo":          "new/Bar",
		"old/Foo.value":    "amount",
		"old/Foo.doIt(I)V": "doItRenamed",
	})
	rec := &recordingClassVisitor{}
	cr := NewClassRemapper(r, rec)

	cr.Visit(52, 0, "old/Foo", "", "java/lang/Object", nil)
	cr.VisitField(0, "value", "I", "", nil)
	mv := cr.VisitMethod(0, "doIt", "(I)V", "", nil)
	if mv == nil {
		t.Fatal("VisitMethod returned nil")
	}
	cr.VisitEnd()

	want := []string{
		"visit new/Bar super=java/lang/Object",
		"field amount I <nil>",
		"method 0 doItRenamed(I)V",
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
