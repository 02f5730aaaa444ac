package asm

import (
	"github.com/jvmgo/asmkit/asm/symbol"
)

// Symbol an entry of a class's constant pool, or of its BootstrapMethods attribute (spec §4.2's
// "content-addressed" constant pool - structurally identical entries are interned to the same
// index). A Symbol is identified by (tag, name, owner, value, info/hashCode); entries are hashed
// into SymbolTable's bucket table for expected O(1) lookup and insertion.
type Symbol struct {
	index           int
	tag             int
	owner           string
	name            string
	value           string
	data            int64
	info            []interface{}
	hashCode        int
	next            *Symbol // next entry in the same hash bucket
}

const (
	symConstantClass             = symbol.CONSTANT_CLASS_TAG
	symConstantFieldref          = symbol.CONSTANT_FIELDREF_TAG
	symConstantMethodref         = symbol.CONSTANT_METHODREF_TAG
	symConstantInterfaceMethodref = symbol.CONSTANT_INTERFACE_METHODREF_TAG
	symConstantString            = symbol.CONSTANT_STRING_TAG
	symConstantInteger           = symbol.CONSTANT_INTEGER_TAG
	symConstantFloat             = symbol.CONSTANT_FLOAT_TAG
	symConstantLong              = symbol.CONSTANT_LONG_TAG
	symConstantDouble            = symbol.CONSTANT_DOUBLE_TAG
	symConstantNameAndType       = symbol.CONSTANT_NAME_AND_TYPE_TAG
	symConstantUtf8              = symbol.CONSTANT_UTF8_TAG
	symConstantMethodHandle      = symbol.CONSTANT_METHOD_HANDLE_TAG
	symConstantMethodType        = symbol.CONSTANT_METHOD_TYPE_TAG
	symConstantDynamic           = symbol.CONSTANT_DYNAMIC_TAG
	symConstantInvokeDynamic     = symbol.CONSTANT_INVOKE_DYNAMIC_TAG
	symConstantModule            = symbol.CONSTANT_MODULE_TAG
	symConstantPackage           = symbol.CONSTANT_PACKAGE_TAG
	symBootstrapMethod           = symbol.BOOTSTRAP_METHOD_TAG
)

func hashString(s string) int {
	h := 0
	for i := 0; i < len(s); i++ {
		h = 31*h + int(s[i])
	}
	if h < 0 {
		h = -h
	}
	return h
}

func symbolHash(tag int, value string, owner string, name string, data int64) int {
	h := tag*31 + hashString(value)
	if owner != "" {
		h = h*31 + hashString(owner)
	}
	if name != "" {
		h = h*31 + hashString(name)
	}
	h = h*31 + int(data)
	if h < 0 {
		h = -h
	}
	return h
}

// SymbolTable the constant pool and bootstrap-method table of a class being written (or copied
// from a ClassReader), with content-addressed interning: re-adding an equal entry returns the
// existing index instead of growing the pool (spec §4.2).
type SymbolTable struct {
	classWriter *ClassWriter
	sourceReader *ClassReader

	entries    map[int]*Symbol // bucket head by hash
	entryCount int

	constantPool    *ByteVector
	constantPoolCount int

	bootstrapMethods     *ByteVector
	bootstrapMethodCount int
	bootstrapMethodIndex map[string]int
}

// NewSymbolTable constructs an empty table for a class being built from scratch.
func NewSymbolTable(classWriter *ClassWriter) *SymbolTable {
	return &SymbolTable{
		classWriter:       classWriter,
		entries:           make(map[int]*Symbol),
		constantPool:      NewByteVector(256),
		constantPoolCount: 1, // index 0 is unused, per JVMS 4.1
	}
}

// NewSymbolTableFromReader constructs a table pre-populated by copying an existing class's
// constant pool verbatim, used when a ClassWriter is built with COPY_POOL semantics so that
// untouched classes can be re-emitted byte-for-byte without re-interning every entry.
func NewSymbolTableFromReader(classWriter *ClassWriter, classReader *ClassReader) *SymbolTable {
	t := NewSymbolTable(classWriter)
	t.sourceReader = classReader
	if classReader != nil {
		t.constantPoolCount = classReader.GetItemCount()
		t.constantPool = NewByteVector(classReader.GetConstantPoolSize())
		t.constantPool.PutByteArray(classReader.classFileBuffer, classReader.GetConstantPoolStart(), classReader.GetConstantPoolSize())
	}
	return t
}

// addSymbol interns s by structural identity and returns the canonical Symbol for it: either an
// existing equal entry (with its real constant pool index already set), or s itself, freshly
// linked into its hash bucket with index left at its zero value for the caller to fill in once it
// has emitted the wire bytes and knows the real constant pool index. Index 0 is never valid (JVMS
// 4.1 reserves it), so "cached.index != 0" is a safe freshly-added-vs-already-present test.
func (t *SymbolTable) addSymbol(s *Symbol) *Symbol {
	s.hashCode = symbolHash(s.tag, s.value, s.owner, s.name, s.data)
	bucket := s.hashCode % 64
	if existing := t.find(bucket, s); existing != nil {
		return existing
	}
	s.next = t.entries[bucket]
	t.entries[bucket] = s
	t.entryCount++
	return s
}

func (t *SymbolTable) find(bucket int, want *Symbol) *Symbol {
	for e := t.entries[bucket]; e != nil; e = e.next {
		if e.tag == want.tag && e.hashCode == want.hashCode && e.value == want.value &&
			e.owner == want.owner && e.name == want.name && e.data == want.data {
			return e
		}
	}
	return nil
}

// AddConstantUtf8 interns a CONSTANT_Utf8_info entry and returns its constant pool index.
func (t *SymbolTable) AddConstantUtf8(value string) int {
	s := &Symbol{tag: symConstantUtf8, value: value}
	s.hashCode = symbolHash(s.tag, s.value, "", "", 0)
	bucket := s.hashCode % 64
	if existing := t.find(bucket, s); existing != nil {
		return existing.index
	}
	index := t.constantPoolCount
	t.constantPoolCount++
	s.index = index
	s.next = t.entries[bucket]
	t.entries[bucket] = s
	t.entryCount++
	t.constantPool.PutByte(symConstantUtf8).PutUTF8(value)
	return index
}

// AddConstantClass interns a CONSTANT_Class_info entry for the given internal name.
func (t *SymbolTable) AddConstantClass(internalName string) int {
	return t.addIndirectConstant(symConstantClass, internalName, "", "", 0)
}

// AddConstantString interns a CONSTANT_String_info entry.
func (t *SymbolTable) AddConstantString(value string) int {
	return t.addIndirectConstant(symConstantString, value, "", "", 0)
}

// AddConstantNameAndType interns a CONSTANT_NameAndType_info entry.
func (t *SymbolTable) AddConstantNameAndType(name, descriptor string) int {
	s := &Symbol{tag: symConstantNameAndType, name: name, value: descriptor}
	cached := t.addSymbol(s)
	if cached.index == 0 {
		nameIdx := t.AddConstantUtf8(name)
		descIdx := t.AddConstantUtf8(descriptor)
		index := t.constantPoolCount
		t.constantPoolCount++
		cached.index = index
		t.constantPool.PutByte(symConstantNameAndType).PutShort(nameIdx).PutShort(descIdx)
	}
	return cached.index
}

// addIndirectConstant handles the CONSTANT kinds whose wire form is a single UTF8/class reference
// (Class, String, MethodType, Module, Package). Index 0 is never a valid constant pool index
// (JVMS 4.1), so a freshly-allocated Symbol is distinguished from a cache hit by that.
func (t *SymbolTable) addIndirectConstant(tag int, value, owner, name string, data int64) int {
	s := &Symbol{tag: tag, value: value, owner: owner, name: name, data: data}
	cached := t.addSymbol(s)
	if cached.index != 0 {
		return cached.index
	}
	utf8Index := t.AddConstantUtf8(value)
	index := t.constantPoolCount
	t.constantPoolCount++
	cached.index = index
	t.constantPool.PutByte(tag).PutShort(utf8Index)
	return index
}

// AddConstantFieldref interns a CONSTANT_Fieldref_info entry.
func (t *SymbolTable) AddConstantFieldref(owner, name, descriptor string) int {
	return t.addConstantMemberRef(symConstantFieldref, owner, name, descriptor)
}

// AddConstantMethodref interns a CONSTANT_Methodref_info or CONSTANT_InterfaceMethodref_info
// entry.
func (t *SymbolTable) AddConstantMethodref(owner, name, descriptor string, isInterface bool) int {
	tag := symConstantMethodref
	if isInterface {
		tag = symConstantInterfaceMethodref
	}
	return t.addConstantMemberRef(tag, owner, name, descriptor)
}

func (t *SymbolTable) addConstantMemberRef(tag int, owner, name, descriptor string) int {
	s := &Symbol{tag: tag, owner: owner, name: name, value: descriptor}
	cached := t.addSymbol(s)
	if cached.index != 0 {
		return cached.index
	}
	classIndex := t.AddConstantClass(owner)
	natIndex := t.AddConstantNameAndType(name, descriptor)
	index := t.constantPoolCount
	t.constantPoolCount++
	cached.index = index
	t.constantPool.PutByte(tag).PutShort(classIndex).PutShort(natIndex)
	return index
}

// AddConstantInteger interns a CONSTANT_Integer_info entry.
func (t *SymbolTable) AddConstantInteger(value int32) int {
	return t.addConstant32(symConstantInteger, int64(value))
}

// AddConstantFloat interns a CONSTANT_Float_info entry (value passed as its IEEE-754 bit pattern).
func (t *SymbolTable) AddConstantFloat(bits int32) int {
	return t.addConstant32(symConstantFloat, int64(bits))
}

func (t *SymbolTable) addConstant32(tag int, bits int64) int {
	s := &Symbol{tag: tag, data: bits}
	cached := t.addSymbol(s)
	if cached.index != 0 {
		return cached.index
	}
	index := t.constantPoolCount
	t.constantPoolCount++
	cached.index = index
	t.constantPool.PutByte(tag).PutInt(int(int32(bits)))
	return index
}

// AddConstantLong interns a CONSTANT_Long_info entry, which occupies two constant pool slots.
func (t *SymbolTable) AddConstantLong(value int64) int {
	return t.addConstant64(symConstantLong, value)
}

// AddConstantDouble interns a CONSTANT_Double_info entry (value passed as its IEEE-754 bit
// pattern), which occupies two constant pool slots.
func (t *SymbolTable) AddConstantDouble(bits int64) int {
	return t.addConstant64(symConstantDouble, bits)
}

func (t *SymbolTable) addConstant64(tag int, bits int64) int {
	s := &Symbol{tag: tag, data: bits}
	cached := t.addSymbol(s)
	if cached.index != 0 {
		return cached.index
	}
	index := t.constantPoolCount
	t.constantPoolCount += 2 // long/double occupy two constant pool entries, JVMS 4.4.5
	cached.index = index
	t.constantPool.PutByte(tag).PutLong(bits)
	return index
}

// AddConstantMethodHandle interns a CONSTANT_MethodHandle_info entry.
func (t *SymbolTable) AddConstantMethodHandle(referenceKind int, owner, name, descriptor string, isInterface bool) int {
	s := &Symbol{tag: symConstantMethodHandle, owner: owner, name: name, value: descriptor, data: int64(referenceKind)}
	cached := t.addSymbol(s)
	if cached.index != 0 {
		return cached.index
	}
	refIndex := t.addConstantMemberRef(memberRefTagForHandle(referenceKind, isInterface), owner, name, descriptor)
	index := t.constantPoolCount
	t.constantPoolCount++
	cached.index = index
	t.constantPool.PutByte(symConstantMethodHandle).PutByte(referenceKind).PutShort(refIndex)
	return index
}

func memberRefTagForHandle(referenceKind int, isInterface bool) int {
	switch referenceKind {
	case opcodesH_INVOKEINTERFACE:
		return symConstantInterfaceMethodref
	default:
		if isInterface {
			return symConstantInterfaceMethodref
		}
		return symConstantMethodref
	}
}

const opcodesH_INVOKEINTERFACE = 9

// AddConstantModule interns a CONSTANT_Module_info entry.
func (t *SymbolTable) AddConstantModule(name string) int {
	return t.addIndirectConstant(symConstantModule, name, "", "", 0)
}

// AddConstantPackage interns a CONSTANT_Package_info entry.
func (t *SymbolTable) AddConstantPackage(name string) int {
	return t.addIndirectConstant(symConstantPackage, name, "", "", 0)
}

// AddConstantMethodType interns a CONSTANT_MethodType_info entry.
func (t *SymbolTable) AddConstantMethodType(methodDescriptor string) int {
	return t.addIndirectConstant(symConstantMethodType, methodDescriptor, "", "", 0)
}

// AddConstantDynamic interns a CONSTANT_Dynamic_info entry, registering its bootstrap method in
// the BootstrapMethods attribute.
func (t *SymbolTable) AddConstantDynamic(name, descriptor string, bootstrapMethodIndex int) int {
	return t.addConstantDynamicLike(symConstantDynamic, name, descriptor, bootstrapMethodIndex)
}

// AddConstantInvokeDynamic interns a CONSTANT_InvokeDynamic_info entry.
func (t *SymbolTable) AddConstantInvokeDynamic(name, descriptor string, bootstrapMethodIndex int) int {
	return t.addConstantDynamicLike(symConstantInvokeDynamic, name, descriptor, bootstrapMethodIndex)
}

func (t *SymbolTable) addConstantDynamicLike(tag int, name, descriptor string, bootstrapMethodIndex int) int {
	s := &Symbol{tag: tag, name: name, value: descriptor, data: int64(bootstrapMethodIndex)}
	cached := t.addSymbol(s)
	if cached.index != 0 {
		return cached.index
	}
	natIndex := t.AddConstantNameAndType(name, descriptor)
	index := t.constantPoolCount
	t.constantPoolCount++
	cached.index = index
	t.constantPool.PutByte(tag).PutShort(bootstrapMethodIndex).PutShort(natIndex)
	return index
}

// AddBootstrapMethod interns a bootstrap_methods[] entry (the method handle plus its already-
// interned argument constant pool indices) and returns its index into that table. Bootstrap
// method index 0 is a legal index (unlike constant pool index 0), so interning uses its own
// key->index map rather than the generic Symbol zero-index sentinel.
func (t *SymbolTable) AddBootstrapMethod(methodHandleIndex int, argumentIndices []int) int {
	if t.bootstrapMethods == nil {
		t.bootstrapMethods = NewByteVector(64)
		t.bootstrapMethodIndex = make(map[string]int)
	}
	key := bootstrapArgKey(methodHandleIndex, argumentIndices)
	if index, ok := t.bootstrapMethodIndex[key]; ok {
		return index
	}
	index := t.bootstrapMethodCount
	t.bootstrapMethodCount++
	t.bootstrapMethodIndex[key] = index
	t.bootstrapMethods.PutShort(methodHandleIndex).PutShort(len(argumentIndices))
	for _, arg := range argumentIndices {
		t.bootstrapMethods.PutShort(arg)
	}
	return index
}

func bootstrapArgKey(methodHandleIndex int, args []int) string {
	b := make([]byte, 0, 2+len(args)*2)
	b = append(b, byte(methodHandleIndex>>8), byte(methodHandleIndex))
	for _, a := range args {
		b = append(b, byte(a>>8), byte(a))
	}
	return string(b)
}

// GetConstantPoolCount returns the current constant_pool_count (including the unused slot 0).
func (t *SymbolTable) GetConstantPoolCount() int {
	return t.constantPoolCount
}

// GetConstantPool returns the raw interned constant pool bytes (excluding the constant_pool_count
// field itself).
func (t *SymbolTable) GetConstantPool() *ByteVector {
	return t.constantPool
}

// GetBootstrapMethods returns the raw interned bootstrap_methods[] bytes, or nil if none were
// added.
func (t *SymbolTable) GetBootstrapMethods() *ByteVector {
	return t.bootstrapMethods
}

// GetBootstrapMethodCount returns the number of interned bootstrap methods.
func (t *SymbolTable) GetBootstrapMethodCount() int {
	return t.bootstrapMethodCount
}
