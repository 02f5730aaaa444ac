// Package signature implements the parser/emitter pair for JVM generic signatures (spec §4.4): a
// descriptor-superset syntax that additionally encodes formal type parameters, bounds, wildcards
// and type-variable references. Grounded on the same recursive-descent, visitor-mirrored design
// the rest of this module uses for the class-file grammar itself.
package signature

// Visitor a visitor to visit a generic signature. The methods of this interface must be called in
// one of the three following orders (depending on the kind of signature that is visited):
//
//   - Class signature: ( VisitFormalTypeParameter VisitClassBound? VisitInterfaceBound* )*
//     VisitSuperclass VisitInterface*
//   - Method signature: ( VisitFormalTypeParameter VisitClassBound? VisitInterfaceBound* )*
//     VisitParameterType* VisitReturnType VisitExceptionType*
//   - Type signature: VisitBaseType | VisitTypeVariable | VisitArrayType | ( VisitClassType
//     VisitTypeArgument* ( VisitInnerClassType VisitTypeArgument* )* VisitEnd )
type Visitor interface {
	VisitFormalTypeParameter(name string)
	VisitClassBound() Visitor
	VisitInterfaceBound() Visitor
	VisitSuperclass() Visitor
	VisitInterface() Visitor
	VisitParameterType() Visitor
	VisitReturnType() Visitor
	VisitExceptionType() Visitor
	VisitBaseType(descriptor byte)
	VisitTypeVariable(name string)
	VisitArrayType() Visitor
	VisitClassType(name string)
	VisitInnerClassType(name string)
	VisitTypeArgument()
	VisitTypeArgumentWildcard(wildcard byte) Visitor
	VisitEnd()
}
