package commons

import (
	"strings"

	"github.com/jvmgo/asmkit/asm"
	"github.com/jvmgo/asmkit/asm/signature"
	"github.com/jvmgo/asmkit/asm/typed"
)

// Remapper a uniform rewrite rule for internal names, member names, package/module names and
// (optionally) generic signatures and constant values (spec §4.8). Every func field defaults to
// the identity transformation; a concrete remapping sets only the ones it needs. This is the
// "explicit pluggable hooks" shape spec §9's open question asks for in place of an overridable
// base class: MapDesc/MapMethodDesc/MapType/MapSignature/MapValue are ordinary methods derived
// from the func fields below, not virtual calls a subclass could intercept, so there is nothing
// to get wrong by embedding one Remapper inside another.
type Remapper struct {
	MapFunc                       func(internalName string) string
	MapMethodNameFunc              func(owner, name, descriptor string) string
	MapFieldNameFunc               func(owner, name, descriptor string) string
	MapInvokeDynamicMethodNameFunc func(name, descriptor string) string
	MapRecordComponentNameFunc     func(owner, name, descriptor string) string
	MapPackageNameFunc             func(name string) string
	MapModuleNameFunc              func(name string) string
	MapAnnotationAttributeNameFunc func(descriptor, name string) string
}

// Map renames an internal class name (spec's `map(internal_name)`).
func (r *Remapper) Map(internalName string) string {
	if r.MapFunc != nil {
		return r.MapFunc(internalName)
	}
	return internalName
}

// MapMethodName renames a method.
func (r *Remapper) MapMethodName(owner, name, descriptor string) string {
	if r.MapMethodNameFunc != nil {
		return r.MapMethodNameFunc(owner, name, descriptor)
	}
	return name
}

// MapFieldName renames a field.
func (r *Remapper) MapFieldName(owner, name, descriptor string) string {
	if r.MapFieldNameFunc != nil {
		return r.MapFieldNameFunc(owner, name, descriptor)
	}
	return name
}

// MapInvokeDynamicMethodName renames the name half of an invokedynamic call site.
func (r *Remapper) MapInvokeDynamicMethodName(name, descriptor string) string {
	if r.MapInvokeDynamicMethodNameFunc != nil {
		return r.MapInvokeDynamicMethodNameFunc(name, descriptor)
	}
	return name
}

// MapRecordComponentName renames a record component.
func (r *Remapper) MapRecordComponentName(owner, name, descriptor string) string {
	if r.MapRecordComponentNameFunc != nil {
		return r.MapRecordComponentNameFunc(owner, name, descriptor)
	}
	return name
}

// MapPackageName renames a package (slash-separated, no trailing "/").
func (r *Remapper) MapPackageName(name string) string {
	if r.MapPackageNameFunc != nil {
		return r.MapPackageNameFunc(name)
	}
	return name
}

// MapModuleName renames a module.
func (r *Remapper) MapModuleName(name string) string {
	if r.MapModuleNameFunc != nil {
		return r.MapModuleNameFunc(name)
	}
	return name
}

// MapAnnotationAttributeName renames an annotation element name. Defaults to unchanged: element
// names are not type- or member-addressed, so there is nothing to look up without a custom func.
func (r *Remapper) MapAnnotationAttributeName(descriptor, name string) string {
	if r.MapAnnotationAttributeNameFunc != nil {
		return r.MapAnnotationAttributeNameFunc(descriptor, name)
	}
	return name
}

// MapType rewrites every internal name a single field/array type descriptor mentions.
func (r *Remapper) MapType(t *asm.Type) *asm.Type {
	switch t.GetSort() {
	case typed.ARRAY:
		elem := r.MapType(t.GetElementType())
		return asm.GetType(strings.Repeat("[", t.GetDimensions()) + elem.GetDescriptor())
	case typed.OBJECT:
		return asm.GetObjectType(r.Map(t.GetInternalName()))
	default:
		return t
	}
}

// MapDesc rewrites every internal name a field descriptor mentions.
func (r *Remapper) MapDesc(descriptor string) string {
	return r.MapType(asm.GetType(descriptor)).GetDescriptor()
}

// MapMethodDesc rewrites every internal name a method descriptor's arguments and return type
// mention.
func (r *Remapper) MapMethodDesc(methodDescriptor string) string {
	args := asm.GetArgumentTypes(methodDescriptor)
	mappedArgs := make([]*asm.Type, len(args))
	for i, a := range args {
		mappedArgs[i] = r.MapType(a)
	}
	mappedReturn := r.MapType(asm.GetReturnType(methodDescriptor))
	return asm.GetMethodTypeOf(mappedReturn, mappedArgs...).GetDescriptor()
}

// MapSignature replays a class/method/type signature through SignatureRemapper, rewriting every
// class and inner-class type name it mentions. typeSignature selects the type-signature grammar
// (a local variable's generic signature) over the full class/method grammar.
func (r *Remapper) MapSignature(sig string, typeSignature bool) string {
	if sig == "" {
		return sig
	}
	reader := signature.NewReader(sig)
	sigRemapper := NewSignatureRemapper(r)
	if typeSignature {
		reader.AcceptType(sigRemapper)
	} else {
		reader.Accept(sigRemapper)
	}
	return sigRemapper.String()
}

// MapValue rewrites a constant-pool constant: a Type's internal name, a Handle's owner/name/
// descriptor, or a ConstantDynamic's descriptor and (recursively) its bootstrap method and
// bootstrap arguments. Any other value (primitive, string) passes through unchanged.
func (r *Remapper) MapValue(value interface{}) interface{} {
	switch v := value.(type) {
	case *asm.Type:
		return r.MapType(v)
	case *asm.Handle:
		return r.mapHandle(v)
	case *asm.ConstantDynamic:
		return r.mapConstantDynamic(v)
	default:
		return value
	}
}

func (r *Remapper) mapHandle(h *asm.Handle) *asm.Handle {
	owner := r.Map(h.GetOwner())
	switch h.GetTag() {
	case asm.H_GETFIELD, asm.H_PUTFIELD:
		return asm.NewHandle(h.GetTag(), owner, r.MapFieldName(h.GetOwner(), h.GetName(), h.GetDesc()), r.MapDesc(h.GetDesc()), h.IsInterface())
	case asm.H_GETSTATIC, asm.H_PUTSTATIC:
		return asm.NewHandle(h.GetTag(), owner, r.MapFieldName(h.GetOwner(), h.GetName(), h.GetDesc()), r.MapDesc(h.GetDesc()), h.IsInterface())
	default: // method handle kinds
		name := h.GetName()
		if name != "<init>" {
			name = r.MapMethodName(h.GetOwner(), h.GetName(), h.GetDesc())
		}
		return asm.NewHandle(h.GetTag(), owner, name, r.MapMethodDesc(h.GetDesc()), h.IsInterface())
	}
}

func (r *Remapper) mapConstantDynamic(c *asm.ConstantDynamic) *asm.ConstantDynamic {
	args := make([]interface{}, c.GetBootstrapMethodArgumentCount())
	for i := range args {
		args[i] = r.MapValue(c.GetBootstrapMethodArgument(i))
	}
	bsm := r.mapHandle(c.GetBootstrapMethod())
	return asm.NewConstantDynamic(r.MapInvokeDynamicMethodName(c.GetName(), c.GetDescriptor()), r.MapDesc(c.GetDescriptor()), bsm, args...)
}
