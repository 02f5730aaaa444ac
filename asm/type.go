package asm

import (
	"strings"

	"github.com/jvmgo/asmkit/asm/typed"
)

// Type a JVM field descriptor, method descriptor, or the type of a single argument or return
// value. See spec §4.4: sort, internal name, element type, argument types, return type and
// size-in-slots are all pure functions of the descriptor string.
type Type struct {
	sort        int
	valueBuffer string
	valueBegin  int
	valueEnd    int
}

// Primitive type singletons, mirroring the ones upstream ASM exposes as public constants.
var (
	VoidType    = &Type{sort: typed.VOID, valueBuffer: "V", valueBegin: 0, valueEnd: 1}
	BooleanType = &Type{sort: typed.BOOLEAN, valueBuffer: "Z", valueBegin: 0, valueEnd: 1}
	CharType    = &Type{sort: typed.CHAR, valueBuffer: "C", valueBegin: 0, valueEnd: 1}
	ByteType    = &Type{sort: typed.BYTE, valueBuffer: "B", valueBegin: 0, valueEnd: 1}
	ShortType   = &Type{sort: typed.SHORT, valueBuffer: "S", valueBegin: 0, valueEnd: 1}
	IntType     = &Type{sort: typed.INT, valueBuffer: "I", valueBegin: 0, valueEnd: 1}
	FloatType   = &Type{sort: typed.FLOAT, valueBuffer: "F", valueBegin: 0, valueEnd: 1}
	LongType    = &Type{sort: typed.LONG, valueBuffer: "J", valueBegin: 0, valueEnd: 1}
	DoubleType  = &Type{sort: typed.DOUBLE, valueBuffer: "D", valueBegin: 0, valueEnd: 1}
)

// GetType returns the Type corresponding to the given field or method descriptor.
func GetType(typeDescriptor string) *Type {
	return getTypeInternal(typeDescriptor, 0)
}

func getTypeInternal(buffer string, offset int) *Type {
	return newType(buffer, offset, getTypeEnd(buffer, offset))
}

func newType(buffer string, begin, end int) *Type {
	return &Type{sort: sortFromChar(buffer, begin), valueBuffer: buffer, valueBegin: begin, valueEnd: end}
}

func sortFromChar(buffer string, begin int) int {
	switch buffer[begin] {
	case 'V':
		return typed.VOID
	case 'Z':
		return typed.BOOLEAN
	case 'C':
		return typed.CHAR
	case 'B':
		return typed.BYTE
	case 'S':
		return typed.SHORT
	case 'I':
		return typed.INT
	case 'F':
		return typed.FLOAT
	case 'J':
		return typed.LONG
	case 'D':
		return typed.DOUBLE
	case '[':
		return typed.ARRAY
	case 'L':
		return typed.OBJECT
	case '(':
		return typed.METHOD
	default:
		return -1
	}
}

// getTypeEnd returns the index just past the descriptor substring starting at begin.
func getTypeEnd(buffer string, begin int) int {
	switch buffer[begin] {
	case 'V', 'Z', 'C', 'B', 'S', 'I', 'F', 'J', 'D':
		return begin + 1
	case '[':
		i := begin
		for buffer[i] == '[' {
			i++
		}
		return getTypeEnd(buffer, i)
	case 'L':
		return strings.IndexByte(buffer[begin:], ';') + begin + 1
	case '(':
		return strings.IndexByte(buffer[begin:], ')') + begin + 1
	default:
		return begin + 1
	}
}

// GetObjectType returns the Type corresponding to the given internal name, e.g. "java/lang/Object".
// Also accepts array descriptors ("[Ljava/lang/String;").
func GetObjectType(internalName string) *Type {
	sort := typed.INTERNAL
	if len(internalName) > 0 && internalName[0] == '[' {
		sort = typed.ARRAY
	}
	return &Type{sort: sort, valueBuffer: internalName, valueBegin: 0, valueEnd: len(internalName)}
}

// GetMethodType returns the Type corresponding to the given method descriptor.
func GetMethodType(methodDescriptor string) *Type {
	return &Type{sort: typed.METHOD, valueBuffer: methodDescriptor, valueBegin: 0, valueEnd: len(methodDescriptor)}
}

// GetMethodTypeOf builds a method Type from a return type and argument types.
func GetMethodTypeOf(returnType *Type, argumentTypes ...*Type) *Type {
	return GetMethodType(getMethodDescriptor(returnType, argumentTypes))
}

func getMethodDescriptor(returnType *Type, argumentTypes []*Type) string {
	var b strings.Builder
	b.WriteByte('(')
	for _, a := range argumentTypes {
		b.WriteString(a.GetDescriptor())
	}
	b.WriteByte(')')
	b.WriteString(returnType.GetDescriptor())
	return b.String()
}

// GetArgumentTypes returns the argument types of the given method descriptor.
func GetArgumentTypes(methodDescriptor string) []*Type {
	buffer := methodDescriptor
	argumentTypes := make([]*Type, 0, 4)
	currentOffset := 1
	for buffer[currentOffset] != ')' {
		currentArgumentStart := currentOffset
		for buffer[currentOffset] == '[' {
			currentOffset++
		}
		if buffer[currentOffset] == 'L' {
			currentOffset = strings.IndexByte(buffer[currentOffset:], ';') + currentOffset + 1
		} else {
			currentOffset++
		}
		argumentTypes = append(argumentTypes, newType(buffer, currentArgumentStart, currentOffset))
	}
	return argumentTypes
}

// GetReturnType returns the return type of the given method descriptor.
func GetReturnType(methodDescriptor string) *Type {
	return getTypeInternal(methodDescriptor, strings.IndexByte(methodDescriptor, ')')+1)
}

// GetArgumentsAndReturnSizes packs the total argument slot count (including the implicit `this`
// slot) into the high bits and the return slot count into the low 2 bits, the same compact
// encoding upstream ASM uses to seed max-locals.
func GetArgumentsAndReturnSizes(methodDescriptor string) int {
	numSlots := 1
	currentOffset := 1
	currentChar := methodDescriptor[currentOffset]
	for currentChar != ')' {
		if currentChar == 'J' || currentChar == 'D' {
			currentOffset++
			numSlots += 2
		} else {
			numSlots++
		}
		for methodDescriptor[currentOffset] == '[' {
			currentOffset++
		}
		if methodDescriptor[currentOffset] == 'L' {
			currentOffset = strings.IndexByte(methodDescriptor[currentOffset:], ';') + currentOffset
		}
		currentOffset++
		currentChar = methodDescriptor[currentOffset]
	}
	returnChar := methodDescriptor[currentOffset+1]
	if returnChar == 'V' {
		return numSlots << 2
	}
	if returnChar == 'J' || returnChar == 'D' {
		return (numSlots << 2) | 2
	}
	return (numSlots << 2) | 1
}

// GetSort returns the sort of this type: one of the typed.* constants. The internal-name-only
// sort (typed.INTERNAL) reads back as typed.OBJECT, matching upstream ASM's public API.
func (t *Type) GetSort() int {
	if t.sort == typed.INTERNAL {
		return typed.OBJECT
	}
	return t.sort
}

// GetDimensions returns the number of dimensions of this array type, or 0 if this is not an array.
func (t *Type) GetDimensions() int {
	i := t.valueBegin
	for t.valueBuffer[i] == '[' {
		i++
	}
	return i - t.valueBegin
}

// GetElementType returns the type of the elements of this array type.
func (t *Type) GetElementType() *Type {
	return getTypeInternal(t.valueBuffer, t.valueBegin+t.GetDimensions())
}

// GetInternalName returns the internal name of the class for this object or array type, using
// '/' as the package separator.
func (t *Type) GetInternalName() string {
	if t.sort == typed.INTERNAL {
		return t.valueBuffer[t.valueBegin:t.valueEnd]
	}
	return t.valueBuffer[t.valueBegin+1 : t.valueEnd-1]
}

// GetArgumentTypes returns the argument types of this method type.
func (t *Type) GetArgumentTypes() []*Type {
	return GetArgumentTypes(t.GetDescriptor())
}

// GetReturnType returns the return type of this method type.
func (t *Type) GetReturnType() *Type {
	return GetReturnType(t.GetDescriptor())
}

// GetArgumentsAndReturnSizes returns the packed argument/return size of this method type.
func (t *Type) GetArgumentsAndReturnSizes() int {
	return GetArgumentsAndReturnSizes(t.GetDescriptor())
}

// GetSize returns the size in slots of values of this type: 0 for void, 2 for long/double, 1 for
// everything else.
func (t *Type) GetSize() int {
	switch t.sort {
	case typed.VOID:
		return 0
	case typed.LONG, typed.DOUBLE:
		return 2
	default:
		return 1
	}
}

// GetOpcode returns the typed opcode for the given family-base opcode: the §4.4 "typed opcode
// shift", opcode_for(base, type) = base + typeOffset(sort). opcode must be one of ILOAD, ISTORE,
// IALOAD, IASTORE, IADD/ISUB/IMUL/IDIV/IREM/INEG/ISHL/ISHR/IUSHR/IAND/IOR/IXOR, or IRETURN.
func (t *Type) GetOpcode(opcode int) int {
	if opcode == ILOAD || opcode == ISTORE {
		switch t.sort {
		case typed.BOOLEAN, typed.BYTE, typed.CHAR, typed.SHORT, typed.INT:
			return opcode
		case typed.FLOAT:
			return opcode + (FLOAD - ILOAD)
		case typed.LONG:
			return opcode + (LLOAD - ILOAD)
		case typed.DOUBLE:
			return opcode + (DLOAD - ILOAD)
		default:
			return opcode + (ALOAD - ILOAD)
		}
	}

	if opcode == IALOAD || opcode == IASTORE {
		switch t.sort {
		case typed.BOOLEAN, typed.BYTE:
			return opcode + (BALOAD - IALOAD)
		case typed.CHAR:
			return opcode + (CALOAD - IALOAD)
		case typed.SHORT:
			return opcode + (SALOAD - IALOAD)
		case typed.INT:
			return opcode
		case typed.FLOAT:
			return opcode + (FALOAD - IALOAD)
		case typed.LONG:
			return opcode + (LALOAD - IALOAD)
		case typed.DOUBLE:
			return opcode + (DALOAD - IALOAD)
		default:
			return opcode + (AALOAD - IALOAD)
		}
	}

	// Arithmetic and xRETURN opcodes follow the same I,L,F,D,A delta pattern.
	switch t.sort {
	case typed.VOID:
		return RETURN
	case typed.BOOLEAN, typed.BYTE, typed.CHAR, typed.SHORT, typed.INT:
		return opcode
	case typed.FLOAT:
		return opcode + (FRETURN - IRETURN)
	case typed.LONG:
		return opcode + (LRETURN - IRETURN)
	case typed.DOUBLE:
		return opcode + (DRETURN - IRETURN)
	default:
		return opcode + (ARETURN - IRETURN)
	}
}

// GetDescriptor returns the descriptor corresponding to this type.
func (t *Type) GetDescriptor() string {
	if t.sort == typed.INTERNAL {
		return "L" + t.valueBuffer[t.valueBegin:t.valueEnd] + ";"
	}
	return t.valueBuffer[t.valueBegin:t.valueEnd]
}

// GetClassName returns a Java-style (dotted) class name for an OBJECT/ARRAY sort, or the
// primitive's Java name otherwise. Purely informational: the wire format only ever uses
// GetDescriptor/GetInternalName.
func (t *Type) GetClassName() string {
	switch t.sort {
	case typed.VOID:
		return "void"
	case typed.BOOLEAN:
		return "boolean"
	case typed.CHAR:
		return "char"
	case typed.BYTE:
		return "byte"
	case typed.SHORT:
		return "short"
	case typed.INT:
		return "int"
	case typed.FLOAT:
		return "float"
	case typed.LONG:
		return "long"
	case typed.DOUBLE:
		return "double"
	case typed.ARRAY:
		return t.GetElementType().GetClassName() + strings.Repeat("[]", t.GetDimensions())
	case typed.OBJECT, typed.INTERNAL:
		return strings.ReplaceAll(t.GetInternalName(), "/", ".")
	default:
		return ""
	}
}

// String returns the descriptor of this type.
func (t *Type) String() string {
	return t.GetDescriptor()
}

// Equal reports whether two types denote the same descriptor.
func (t *Type) Equal(o *Type) bool {
	if t == o {
		return true
	}
	if o == nil {
		return false
	}
	return t.GetDescriptor() == o.GetDescriptor()
}
