package commons

import "github.com/jvmgo/asmkit/asm"

// ModuleRemapper a ModuleVisitor that routes package and module names through a Remapper before
// forwarding to Delegate (spec §4.8).
type ModuleRemapper struct {
	Delegate asm.ModuleVisitor
	Remapper *Remapper
}

// NewModuleRemapper wraps delegate with remapper.
func NewModuleRemapper(remapper *Remapper, delegate asm.ModuleVisitor) *ModuleRemapper {
	return &ModuleRemapper{Delegate: delegate, Remapper: remapper}
}

func (m *ModuleRemapper) VisitMainClass(mainClass string) {
	m.Delegate.VisitMainClass(m.Remapper.Map(mainClass))
}

func (m *ModuleRemapper) VisitPackage(packaze string) {
	m.Delegate.VisitPackage(m.Remapper.MapPackageName(packaze))
}

func (m *ModuleRemapper) VisitRequire(module string, access int, version string) {
	m.Delegate.VisitRequire(m.Remapper.MapModuleName(module), access, version)
}

func (m *ModuleRemapper) VisitExport(packaze string, access int, modules ...string) {
	mapped := make([]string, len(modules))
	for i, mod := range modules {
		mapped[i] = m.Remapper.MapModuleName(mod)
	}
	m.Delegate.VisitExport(m.Remapper.MapPackageName(packaze), access, mapped...)
}

func (m *ModuleRemapper) VisitOpen(packaze string, access int, modules ...string) {
	mapped := make([]string, len(modules))
	for i, mod := range modules {
		mapped[i] = m.Remapper.MapModuleName(mod)
	}
	m.Delegate.VisitOpen(m.Remapper.MapPackageName(packaze), access, mapped...)
}

func (m *ModuleRemapper) VisitUse(service string) {
	m.Delegate.VisitUse(m.Remapper.Map(service))
}

func (m *ModuleRemapper) VisitProvide(service string, providers ...string) {
	mapped := make([]string, len(providers))
	for i, p := range providers {
		mapped[i] = m.Remapper.Map(p)
	}
	m.Delegate.VisitProvide(m.Remapper.Map(service), mapped...)
}

func (m *ModuleRemapper) VisitEnd() {
	m.Delegate.VisitEnd()
}
