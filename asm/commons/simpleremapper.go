package commons

// NewSimpleRemapper builds a Remapper backed by an explicit name mapping: the upstream-ASM
// "common case" of the remapper framework (spec §4.8 leaves Remapper as an interface/shape;
// SimpleRemapper is the map-backed implementation every consumer reaches for first). mapping maps
//   - an internal class name to its new internal name,
//   - owner + "." + name + descriptor (method or field, e.g. "old/Foo.doIt(I)V") to its new
//     simple name (the descriptor disambiguates overloads); a field is also looked up as
//     owner + "." + name when no descriptor-qualified key matches,
//   - a bare package name to its new package name.
//
// Any key absent from mapping passes through unchanged.
func NewSimpleRemapper(mapping map[string]string) *Remapper {
	lookup := func(key, fallback string) string {
		if v, ok := mapping[key]; ok {
			return v
		}
		return fallback
	}
	r := &Remapper{}
	r.MapFunc = func(internalName string) string {
		return lookup(internalName, internalName)
	}
	r.MapMethodNameFunc = func(owner, name, descriptor string) string {
		return lookup(owner+"."+name+descriptor, name)
	}
	r.MapFieldNameFunc = func(owner, name, descriptor string) string {
		if v, ok := mapping[owner+"."+name+descriptor]; ok {
			return v
		}
		return lookup(owner+"."+name, name)
	}
	r.MapPackageNameFunc = func(name string) string {
		return lookup(name, name)
	}
	return r
}
