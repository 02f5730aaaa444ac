package asm

// Attribute an opaque, unrecognized class file attribute (spec §4.2's "malformed-attribute"
// fallback: any attribute this module does not model explicitly is read back byte-for-byte and
// re-emitted unchanged). Recognized attributes (Code, StackMapTable, LineNumberTable, Signature,
// and the rest named in SPEC_FULL.md §4) are parsed into their own dedicated fields on ClassReader/
// MethodWriter and never flow through this type; Attribute exists purely for forward-compatible
// round-tripping of whatever this module does not yet understand.
type Attribute struct {
	Type          string
	Content       []byte
	nextAttribute *Attribute
}

// NewAttribute constructs an empty attribute of the given type name.
func NewAttribute(attributeType string) *Attribute {
	return &Attribute{Type: attributeType}
}

// IsUnknown reports whether this attribute type is unknown to this module. Since Attribute is
// only ever constructed for attributes this module does not parse natively, it is always true;
// kept as a method (rather than inlined away) so a future attribute prototype mechanism can
// override it per spec §4.2's "attribute prototypes" extension point.
func (a *Attribute) IsUnknown() bool {
	return true
}

// IsCodeAttribute reports whether this attribute must be parsed in the context of a Code
// attribute (i.e. it can reference bytecode offsets as Labels). Opaque attributes never need this;
// it exists so the attribute-prototype list threaded through ClassReader can ask each candidate
// before falling back to this generic behavior.
func (a *Attribute) IsCodeAttribute() bool {
	return false
}

// GetLabels returns the labels referenced by a code attribute's content, so a writer can track
// the method's labels when an opaque Code sub-attribute refers to one. The generic Attribute has
// none.
func (a *Attribute) GetLabels() []*Label {
	return nil
}

// Read parses length bytes starting at offset in classReader's buffer into the attribute's
// content, verbatim. Concrete attribute kinds override this to interpret their bytes instead of
// copying them; this is the fallback used by ReadAttribute for anything unrecognized.
func (a *Attribute) Read(classReader *ClassReader, offset, length int, charBuffer []rune, codeAttributeOffset int, labels []*Label) *Attribute {
	attribute := NewAttribute(a.Type)
	attribute.Content = make([]byte, length)
	copy(attribute.Content, classReader.classFileBuffer[offset:offset+length])
	return attribute
}

// Write returns the byte content to emit for this attribute. The generic Attribute simply
// replays what it was constructed with.
func (a *Attribute) Write(classWriter *ClassWriter, code []byte, codeLength, maxStack, maxLocals int) *ByteVector {
	return NewByteVector(len(a.Content)).PutByteArray(a.Content, 0, len(a.Content))
}

// GetAttributeCount returns the number of attributes in the linked list starting at a, inclusive.
func (a *Attribute) GetAttributeCount() int {
	count := 0
	for attribute := a; attribute != nil; attribute = attribute.nextAttribute {
		count++
	}
	return count
}

// ComputeAttributesSize returns the total serialized size (6-byte header plus content, per
// attribute) of the linked list starting at a, interning each attribute's name in symbolTable as
// it goes.
func (a *Attribute) ComputeAttributesSize(symbolTable *SymbolTable) int {
	return a.computeAttributesSize(symbolTable, nil, 0, -1, -1)
}

func (a *Attribute) computeAttributesSize(symbolTable *SymbolTable, code []byte, codeLength, maxStack, maxLocals int) int {
	size := 0
	for attribute := a; attribute != nil; attribute = attribute.nextAttribute {
		symbolTable.AddConstantUtf8(attribute.Type)
		size += 6 + attribute.Write(symbolTable.classWriter, code, codeLength, maxStack, maxLocals).Len()
	}
	return size
}

// PutAttributes serializes the linked list starting at a into output, in the wire form
// attribute_name_index(2) attribute_length(4) info(attribute_length).
func (a *Attribute) PutAttributes(symbolTable *SymbolTable, output *ByteVector) {
	a.putAttributes(symbolTable, nil, 0, -1, -1, output)
}

func (a *Attribute) putAttributes(symbolTable *SymbolTable, code []byte, codeLength, maxStack, maxLocals int, output *ByteVector) {
	for attribute := a; attribute != nil; attribute = attribute.nextAttribute {
		content := attribute.Write(symbolTable.classWriter, code, codeLength, maxStack, maxLocals)
		output.PutShort(symbolTable.AddConstantUtf8(attribute.Type)).PutInt(content.Len())
		output.PutByteVector(content)
	}
}

// Append links next onto the end of the attribute chain starting at a.
func (a *Attribute) Append(next *Attribute) {
	last := a
	for last.nextAttribute != nil {
		last = last.nextAttribute
	}
	last.nextAttribute = next
}

// Next returns the next attribute in the chain, or nil.
func (a *Attribute) Next() *Attribute {
	return a.nextAttribute
}
