package signature

import "strings"

// Reader a parser for signature strings, firing events into a Visitor in the grammar order
// documented there. Signatures never use an offset-carrying error (spec §7 "bad-descriptor"):
// malformed input panics with a recovered error the same way a slice index out of range would,
// since (unlike class-file bytes) a signature is always produced by a trusted compiler or by this
// module's own Writer.
type Reader struct {
	signature string
}

// NewReader wraps the given signature string.
func NewReader(signature string) *Reader {
	return &Reader{signature: signature}
}

// Accept parses the whole signature, deciding class/method grammar from its shape: after any
// leading formal type parameters, a '(' means a method signature and anything else is parsed as a
// class signature (a superclass followed by interfaces). A lone type signature is therefore
// reported through VisitSuperclass.
func (r *Reader) Accept(v Visitor) {
	signature := r.signature
	length := len(signature)
	offset := 0

	if len(signature) > 0 && signature[0] == '<' {
		offset = 1
		for {
			classBoundStart := strings.IndexByte(signature[offset:], ':') + offset
			v.VisitFormalTypeParameter(signature[offset:classBoundStart])
			offset = classBoundStart + 1
			c := signature[offset]
			if c == 'L' || c == '[' || c == 'T' {
				offset = parseType(signature, offset, v.VisitClassBound())
			}
			for signature[offset] == ':' {
				offset = parseType(signature, offset+1, v.VisitInterfaceBound())
			}
			if signature[offset] == '>' {
				break
			}
		}
		offset++
	}

	if offset < length && signature[offset] == '(' {
		offset++
		for signature[offset] != ')' {
			offset = parseType(signature, offset, v.VisitParameterType())
		}
		offset = parseType(signature, offset+1, v.VisitReturnType())
		for offset < length {
			offset = parseType(signature, offset+1, v.VisitExceptionType())
		}
	} else {
		offset = parseType(signature, offset, v.VisitSuperclass())
		for offset < length {
			offset = parseType(signature, offset, v.VisitInterface())
		}
	}
}

// AcceptType parses this signature as a single type signature (spec §4.4's "type signature"
// grammar), e.g. for a local variable's signature attribute entry.
func (r *Reader) AcceptType(v Visitor) {
	parseType(r.signature, 0, v)
}

// parseType parses a single type signature (JVMS 4.7.9.1 FieldTypeSignature | BaseType) starting
// at offset, firing the matching callback on v, and returns the offset just past it.
func parseType(signature string, startOffset int, v Visitor) int {
	offset := startOffset
	c := signature[offset]
	offset++
	switch c {
	case 'Z', 'C', 'B', 'S', 'I', 'F', 'J', 'D', 'V':
		v.VisitBaseType(c)
		return offset
	case '[':
		return parseType(signature, offset, v.VisitArrayType())
	case 'T':
		end := strings.IndexByte(signature[offset:], ';') + offset
		v.VisitTypeVariable(signature[offset:end])
		return end + 1
	default: // 'L'
		startClassName := offset
		visited := false
		inner := false
		for {
			c = signature[offset]
			offset++
			switch {
			case c == '.' || c == ';':
				if !visited {
					name := signature[startClassName : offset-1]
					if inner {
						v.VisitInnerClassType(name)
					} else {
						v.VisitClassType(name)
					}
				}
				if c == ';' {
					v.VisitEnd()
					return offset
				}
				startClassName = offset
				visited = false
				inner = true
			case c == '<':
				name := signature[startClassName : offset-1]
				if inner {
					v.VisitInnerClassType(name)
				} else {
					v.VisitClassType(name)
				}
				visited = true
				for signature[offset] != '>' {
					switch signature[offset] {
					case '*':
						offset++
						v.VisitTypeArgument()
					case '+', '-':
						offset = parseType(signature, offset+1, v.VisitTypeArgumentWildcard(signature[offset]))
					default:
						offset = parseType(signature, offset, v.VisitTypeArgumentWildcard('='))
					}
				}
				offset++
			default:
				// consume and continue scanning the class name
			}
		}
	}
}
