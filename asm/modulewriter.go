package asm

// ModuleWriter a ModuleVisitor that builds a Module attribute (JVMS 4.7.25) in memory.
type ModuleWriter struct {
	symbolTable *SymbolTable

	name    string
	access  int
	version string

	mainClass string

	packages []string

	requires []moduleRequire
	exports  []moduleExportsOrOpens
	opens    []moduleExportsOrOpens
	uses     []string
	provides []moduleProvides
}

type moduleRequire struct {
	module  string
	access  int
	version string
}

type moduleExportsOrOpens struct {
	packaze string
	access  int
	modules []string
}

type moduleProvides struct {
	service   string
	providers []string
}

// NewModuleWriter constructs a writer for a single Module attribute.
func NewModuleWriter(symbolTable *SymbolTable, name string, access int, version string) *ModuleWriter {
	symbolTable.AddConstantModule(name)
	if version != "" {
		symbolTable.AddConstantUtf8(version)
	}
	return &ModuleWriter{symbolTable: symbolTable, name: name, access: access, version: version}
}

func (mw *ModuleWriter) VisitMainClass(mainClass string) {
	mw.mainClass = mainClass
	mw.symbolTable.AddConstantClass(mainClass)
}

func (mw *ModuleWriter) VisitPackage(packaze string) {
	mw.packages = append(mw.packages, packaze)
	mw.symbolTable.AddConstantPackage(packaze)
}

func (mw *ModuleWriter) VisitRequire(module string, access int, version string) {
	mw.requires = append(mw.requires, moduleRequire{module, access, version})
	mw.symbolTable.AddConstantModule(module)
	if version != "" {
		mw.symbolTable.AddConstantUtf8(version)
	}
}

func (mw *ModuleWriter) VisitExport(packaze string, access int, modules ...string) {
	mw.exports = append(mw.exports, moduleExportsOrOpens{packaze, access, modules})
	mw.symbolTable.AddConstantPackage(packaze)
	for _, m := range modules {
		mw.symbolTable.AddConstantModule(m)
	}
}

func (mw *ModuleWriter) VisitOpen(packaze string, access int, modules ...string) {
	mw.opens = append(mw.opens, moduleExportsOrOpens{packaze, access, modules})
	mw.symbolTable.AddConstantPackage(packaze)
	for _, m := range modules {
		mw.symbolTable.AddConstantModule(m)
	}
}

func (mw *ModuleWriter) VisitUse(service string) {
	mw.uses = append(mw.uses, service)
	mw.symbolTable.AddConstantClass(service)
}

func (mw *ModuleWriter) VisitProvide(service string, providers ...string) {
	mw.provides = append(mw.provides, moduleProvides{service, providers})
	mw.symbolTable.AddConstantClass(service)
	for _, p := range providers {
		mw.symbolTable.AddConstantClass(p)
	}
}

func (mw *ModuleWriter) VisitEnd() {}

// computeModuleAttributeSize returns the total size, 6-byte header included, of the Module
// attribute plus (if non-empty) the separate ModulePackages and ModuleMainClass attributes.
func (mw *ModuleWriter) computeModuleAttributeSize() int {
	size := 6 + 6 // attribute header + module_name_index/module_flags/module_version_index
	size += 2
	for range mw.requires {
		size += 6
	}
	size += 2
	for _, e := range mw.exports {
		size += 4 + 2*len(e.modules)
	}
	size += 2
	for _, o := range mw.opens {
		size += 4 + 2*len(o.modules)
	}
	size += 2 + 2*len(mw.uses)
	size += 2
	for _, p := range mw.provides {
		size += 4 + 2*len(p.providers)
	}
	if mw.mainClass != "" {
		size += 8
	}
	if len(mw.packages) > 0 {
		size += 8 + 2*len(mw.packages)
	}
	return size
}

func (mw *ModuleWriter) put(output *ByteVector) {
	symbolTable := mw.symbolTable

	moduleAttributeLength := 2 + 2 + 2 // name, flags, version
	moduleAttributeLength += 2 + 6*len(mw.requires)
	exportsLength := 2
	for _, e := range mw.exports {
		exportsLength += 4 + 2*len(e.modules)
	}
	moduleAttributeLength += exportsLength
	opensLength := 2
	for _, o := range mw.opens {
		opensLength += 4 + 2*len(o.modules)
	}
	moduleAttributeLength += opensLength
	moduleAttributeLength += 2 + 2*len(mw.uses)
	providesLength := 2
	for _, p := range mw.provides {
		providesLength += 4 + 2*len(p.providers)
	}
	moduleAttributeLength += providesLength

	output.PutShort(symbolTable.AddConstantUtf8("Module")).PutInt(moduleAttributeLength)
	output.PutShort(symbolTable.AddConstantModule(mw.name)).PutShort(mw.access)
	if mw.version != "" {
		output.PutShort(symbolTable.AddConstantUtf8(mw.version))
	} else {
		output.PutShort(0)
	}

	output.PutShort(len(mw.requires))
	for _, r := range mw.requires {
		output.PutShort(symbolTable.AddConstantModule(r.module)).PutShort(r.access)
		if r.version != "" {
			output.PutShort(symbolTable.AddConstantUtf8(r.version))
		} else {
			output.PutShort(0)
		}
	}

	output.PutShort(len(mw.exports))
	for _, e := range mw.exports {
		output.PutShort(symbolTable.AddConstantPackage(e.packaze)).PutShort(e.access).PutShort(len(e.modules))
		for _, m := range e.modules {
			output.PutShort(symbolTable.AddConstantModule(m))
		}
	}

	output.PutShort(len(mw.opens))
	for _, o := range mw.opens {
		output.PutShort(symbolTable.AddConstantPackage(o.packaze)).PutShort(o.access).PutShort(len(o.modules))
		for _, m := range o.modules {
			output.PutShort(symbolTable.AddConstantModule(m))
		}
	}

	output.PutShort(len(mw.uses))
	for _, u := range mw.uses {
		output.PutShort(symbolTable.AddConstantClass(u))
	}

	output.PutShort(len(mw.provides))
	for _, p := range mw.provides {
		output.PutShort(symbolTable.AddConstantClass(p.service)).PutShort(len(p.providers))
		for _, pr := range p.providers {
			output.PutShort(symbolTable.AddConstantClass(pr))
		}
	}

	if mw.mainClass != "" {
		output.PutShort(symbolTable.AddConstantUtf8("ModuleMainClass")).PutInt(2).PutShort(symbolTable.AddConstantClass(mw.mainClass))
	}
	if len(mw.packages) > 0 {
		output.PutShort(symbolTable.AddConstantUtf8("ModulePackages")).PutInt(2 + 2*len(mw.packages)).PutShort(len(mw.packages))
		for _, p := range mw.packages {
			output.PutShort(symbolTable.AddConstantPackage(p))
		}
	}
}
