package signature

import "strings"

// Writer a Visitor that builds the textual form of a signature as it is visited; the standard way
// to re-emit a signature after running it through a transformer (e.g. the remapper framework's
// SignatureRemapper in asm/commons). argumentStack tracks, two bits per nesting level, whether a
// '<' has been opened for the current class/inner-class type's type arguments and needs a
// matching '>' when that type ends - mirrors the compact encoding every ASM-family implementation
// uses instead of an explicit stack of booleans.
type Writer struct {
	b             strings.Builder
	hasFormals    bool
	hasParameters bool
	argumentStack uint64
}

// NewWriter constructs an empty signature writer.
func NewWriter() *Writer {
	return &Writer{}
}

// String returns the signature built so far.
func (w *Writer) String() string {
	return w.b.String()
}

func (w *Writer) VisitFormalTypeParameter(name string) {
	if !w.hasFormals {
		w.hasFormals = true
		w.b.WriteByte('<')
	}
	w.b.WriteString(name)
	w.b.WriteByte(':')
}

func (w *Writer) VisitClassBound() Visitor {
	return w
}

func (w *Writer) VisitInterfaceBound() Visitor {
	w.b.WriteByte(':')
	return w
}

func (w *Writer) VisitSuperclass() Visitor {
	w.endFormals()
	return w
}

func (w *Writer) VisitInterface() Visitor {
	return w
}

func (w *Writer) VisitParameterType() Visitor {
	w.endFormals()
	if !w.hasParameters {
		w.hasParameters = true
		w.b.WriteByte('(')
	}
	return w
}

func (w *Writer) VisitReturnType() Visitor {
	w.endFormals()
	if !w.hasParameters {
		w.b.WriteByte('(')
	}
	w.b.WriteByte(')')
	return w
}

func (w *Writer) VisitExceptionType() Visitor {
	w.b.WriteByte('^')
	return w
}

func (w *Writer) VisitBaseType(descriptor byte) {
	w.b.WriteByte(descriptor)
}

func (w *Writer) VisitTypeVariable(name string) {
	w.b.WriteByte('T')
	w.b.WriteString(name)
	w.b.WriteByte(';')
}

func (w *Writer) VisitArrayType() Visitor {
	w.b.WriteByte('[')
	return w
}

func (w *Writer) VisitClassType(name string) {
	w.b.WriteByte('L')
	w.b.WriteString(name)
	w.argumentStack *= 2
}

func (w *Writer) VisitInnerClassType(name string) {
	w.endArguments()
	w.b.WriteByte('.')
	w.b.WriteString(name)
	w.argumentStack *= 2
}

func (w *Writer) VisitTypeArgument() {
	if w.argumentStack%2 == 0 {
		w.argumentStack++
		w.b.WriteByte('<')
	}
	w.b.WriteByte('*')
}

func (w *Writer) VisitTypeArgumentWildcard(wildcard byte) Visitor {
	if w.argumentStack%2 == 0 {
		w.argumentStack++
		w.b.WriteByte('<')
	}
	if wildcard != '=' {
		w.b.WriteByte(wildcard)
	}
	return w
}

func (w *Writer) VisitEnd() {
	w.endArguments()
	w.b.WriteByte(';')
}

func (w *Writer) endFormals() {
	if w.hasFormals {
		w.hasFormals = false
		w.b.WriteByte('>')
	}
}

func (w *Writer) endArguments() {
	if w.argumentStack%2 != 0 {
		w.b.WriteByte('>')
	}
	w.argumentStack /= 2
}
