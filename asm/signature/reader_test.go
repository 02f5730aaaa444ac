package signature

import "testing"

func TestRoundTrip(t *testing.T) {
	tests := []string{
		"Ljava/lang/Object;",
		"TT;",
		"[Ljava/lang/String;",
		"<T:Ljava/lang/Object;>Ljava/lang/Object;Ljava/lang/Comparable<TT;>;",
		"(TT;[I)Ljava/util/List<+Ljava/lang/Number;>;^Ljava/lang/Exception;",
		"Ljava/util/Map<Ljava/lang/String;Ljava/util/List<-Ljava/lang/Integer;>;>.Entry;",
	}

	for _, sig := range tests {
		t.Run(sig, func(t *testing.T) {
			w := NewWriter()
			NewReader(sig).Accept(w)
			if got := w.String(); got != sig {
				t.Errorf("round-trip mismatch: got %q, want %q", got, sig)
			}
		})
	}
}

func TestAcceptType(t *testing.T) {
	w := NewWriter()
	NewReader("Ljava/util/List<*>;").AcceptType(w)
	if got, want := w.String(), "Ljava/util/List<*>;"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
