package asm

import (
	"strconv"
	"strings"
)

// Step kinds for a type path, JVMS 4.7.20.2 table 4.7.20.2-A.
const (
	ARRAY_ELEMENT = 0
	INNER_TYPE    = 1
	WILDCARD_BOUND = 2
	TYPE_ARGUMENT = 3
)

// TypePath the path to a type argument, wildcard bound, array element type, or static inner type
// within an enclosing type, as used by type annotations (JVMS 4.7.20.2). Backed by the raw
// type_path structure bytes: one length byte followed by (path_kind, type_argument_index) pairs.
type TypePath struct {
	typePathContainer []byte
	typePathOffset    int
}

// NewTypePath wraps an existing raw type_path byte range (as produced by a ClassReader).
func NewTypePath(b []byte, offset int) *TypePath {
	return &TypePath{typePathContainer: b, typePathOffset: offset}
}

// NewTypePathFromString parses the string form of a type path, e.g. "[.[*0;" meaning
// array -> inner class -> array -> wildcard bound -> type argument 0. Returns nil for "".
func NewTypePathFromString(typePath string) *TypePath {
	if len(typePath) == 0 {
		return nil
	}

	typePathLength := len(typePath)
	output := NewByteVector(typePathLength)
	output.PutByte(0)
	i := 0
	for i < typePathLength {
		c := typePath[i]
		i++
		switch c {
		case '[':
			output.Put11(ARRAY_ELEMENT, 0)
		case '.':
			output.Put11(INNER_TYPE, 0)
		case '*':
			output.Put11(WILDCARD_BOUND, 0)
		default:
			if c >= '0' && c <= '9' {
				typeArg := int(c - '0')
				for i < typePathLength && typePath[i] >= '0' && typePath[i] <= '9' {
					typeArg = typeArg*10 + int(typePath[i]-'0')
					i++
				}
				if i < typePathLength && typePath[i] == ';' {
					i++
				}
				output.Put11(TYPE_ARGUMENT, typeArg)
			}
		}
	}
	output.data[0] = byte(output.length / 2)
	return &TypePath{typePathContainer: output.data, typePathOffset: 0}
}

// GetLength returns the number of steps in this path.
func (t *TypePath) GetLength() int {
	return int(t.typePathContainer[t.typePathOffset])
}

// GetStep returns the kind of the index-th step of this path: one of ARRAY_ELEMENT, INNER_TYPE,
// WILDCARD_BOUND or TYPE_ARGUMENT.
func (t *TypePath) GetStep(index int) int {
	return int(t.typePathContainer[t.typePathOffset+2*index+1])
}

// GetStepArgument returns the index of the type argument that the index-th step of this path
// steps into. Undefined unless GetStep(index) == TYPE_ARGUMENT.
func (t *TypePath) GetStepArgument(index int) int {
	return int(t.typePathContainer[t.typePathOffset+2*index+2])
}

// String returns the string form of this type path (the inverse of NewTypePathFromString).
func (t *TypePath) String() string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	length := t.GetLength()
	for i := 0; i < length; i++ {
		switch t.GetStep(i) {
		case ARRAY_ELEMENT:
			b.WriteByte('[')
		case INNER_TYPE:
			b.WriteByte('.')
		case WILDCARD_BOUND:
			b.WriteByte('*')
		case TYPE_ARGUMENT:
			b.WriteString(strconv.Itoa(t.GetStepArgument(i)))
			b.WriteByte(';')
		}
	}
	return b.String()
}
