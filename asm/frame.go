package asm

import "fmt"

// Verification type kinds: the closed lattice spec §9 calls for ("TOP, INTEGER, FLOAT, LONG,
// DOUBLE, NULL, UNINITIALIZED_THIS, OBJECT(internal_name), UNINITIALIZED(label)"), plus two
// internal markers for the padding slot that follows a LONG or DOUBLE local/stack entry.
// Represented as a tagged variant (VerificationType) with structural equality, rather than reusing
// opcode-shaped int constants.
const (
	ItemTop = iota
	ItemInteger
	ItemFloat
	ItemLong
	ItemDouble
	ItemNull
	ItemUninitializedThis
	ItemObject
	ItemUninitialized
	ItemLong2
	ItemDouble2
)

// VerificationType one entry of a stack map frame's local-variable or operand-stack vector.
type VerificationType struct {
	Kind         int
	InternalName string // valid when Kind == ItemObject
	NewInsn      *Label // valid when Kind == ItemUninitialized: the label at the NEW instruction
}

var (
	VTop               = VerificationType{Kind: ItemTop}
	VInteger           = VerificationType{Kind: ItemInteger}
	VFloat             = VerificationType{Kind: ItemFloat}
	VLong              = VerificationType{Kind: ItemLong}
	VDouble            = VerificationType{Kind: ItemDouble}
	VNull              = VerificationType{Kind: ItemNull}
	VUninitializedThis = VerificationType{Kind: ItemUninitializedThis}
	VLong2             = VerificationType{Kind: ItemLong2}
	VDouble2           = VerificationType{Kind: ItemDouble2}
)

// VObject constructs an OBJECT verification type for the given internal class name.
func VObject(internalName string) VerificationType {
	return VerificationType{Kind: ItemObject, InternalName: internalName}
}

// VUninitialized constructs an UNINITIALIZED verification type for an object under construction,
// anchored at the label of the NEW instruction that created it.
func VUninitialized(newInsn *Label) VerificationType {
	return VerificationType{Kind: ItemUninitialized, NewInsn: newInsn}
}

// Equal reports structural equality between two verification types.
func (v VerificationType) Equal(o VerificationType) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case ItemObject:
		return v.InternalName == o.InternalName
	case ItemUninitialized:
		return v.NewInsn == o.NewInsn
	default:
		return true
	}
}

// Size returns the number of local-variable/stack slots this entry occupies on its own: 1 for
// everything except the LONG2/DOUBLE2 padding markers, which report 0 since callers never count
// them independently of the LONG/DOUBLE entry they follow.
func (v VerificationType) Size() int {
	switch v.Kind {
	case ItemLong2, ItemDouble2:
		return 0
	default:
		return 1
	}
}

func (v VerificationType) String() string {
	switch v.Kind {
	case ItemTop:
		return "TOP"
	case ItemInteger:
		return "INTEGER"
	case ItemFloat:
		return "FLOAT"
	case ItemLong:
		return "LONG"
	case ItemDouble:
		return "DOUBLE"
	case ItemNull:
		return "NULL"
	case ItemUninitializedThis:
		return "UNINITIALIZED_THIS"
	case ItemObject:
		return fmt.Sprintf("OBJECT(%s)", v.InternalName)
	case ItemUninitialized:
		return "UNINITIALIZED"
	case ItemLong2:
		return "LONG2"
	case ItemDouble2:
		return "DOUBLE2"
	default:
		return "?"
	}
}

func isReference(v VerificationType) bool {
	switch v.Kind {
	case ItemObject, ItemUninitialized, ItemUninitializedThis, ItemNull:
		return true
	default:
		return false
	}
}

// trimTrailingTop drops trailing TOP entries from a locals vector: the compressed frame encodings
// (SAME/APPEND/CHOP) are all defined relative to the "real" local count, which excludes any unused
// tail.
func trimTrailingTop(locals []VerificationType) []VerificationType {
	n := len(locals)
	for n > 0 && locals[n-1].Kind == ItemTop {
		n--
	}
	return locals[:n]
}

// mergeVerificationType merges two verification types flowing into the same program point from
// different predecessor basic blocks (spec §4.3's join rule). Equal types merge to themselves.
// NULL merges into any reference type without widening it. Two different reference types merge to
// java/lang/Object: this module has no classpath oracle to compute the true common superclass (the
// role ClassWriter.getCommonSuperClass plays upstream), so it falls back conservatively, matching
// upstream ASM's own default when that method isn't overridden. Merging a reference with a
// primitive, or two different primitives, has no sound result and is reported as a frame
// inconsistency. Returns (merged, changed).
func mergeVerificationType(dst, src VerificationType) (VerificationType, bool, error) {
	if src.Kind == ItemTop {
		return dst, false, nil
	}
	if dst.Equal(src) {
		return dst, false, nil
	}
	if dst.Kind == ItemTop {
		return src, true, nil
	}
	if dst.Kind == ItemNull && isReference(src) {
		return src, true, nil
	}
	if src.Kind == ItemNull && isReference(dst) {
		return dst, false, nil
	}
	if isReference(dst) && isReference(src) {
		merged := VObject("java/lang/Object")
		if dst.Equal(merged) {
			return dst, false, nil
		}
		return merged, true, nil
	}
	return VerificationType{}, false, ErrFrameInconsistency
}

// mergeFrames merges src into dst in place, growing dst with TOP padding if src is longer. Returns
// the (possibly reallocated) dst slice and whether any entry changed; used by the fixpoint
// worklist that drives frame computation.
func mergeFrames(dst, src []VerificationType) ([]VerificationType, bool, error) {
	maxLen := len(dst)
	if len(src) > maxLen {
		maxLen = len(src)
	}
	if len(dst) < maxLen {
		grown := make([]VerificationType, maxLen)
		copy(grown, dst)
		dst = grown
	}
	changed := false
	for i := 0; i < maxLen; i++ {
		var s VerificationType
		if i < len(src) {
			s = src[i]
		}
		merged, ch, err := mergeVerificationType(dst[i], s)
		if err != nil {
			return dst, false, err
		}
		if ch {
			dst[i] = merged
			changed = true
		}
	}
	return dst, changed, nil
}

// Frame a snapshot of the local variable and operand stack types at a specific program point
// (spec §3 glossary), anchored to the Label of the instruction it precedes. ClassReader attaches
// one to every label that needs an explicit StackMapTable entry when reading; the frame computer
// (see methodwriter.go) derives one for every jump target and exception handler start when
// COMPUTE_FRAMES is requested.
type Frame struct {
	Owner  *Label
	Locals []VerificationType
	Stack  []VerificationType
}

// NewFrame constructs a frame snapshot owned by the given label.
func NewFrame(owner *Label) *Frame {
	return &Frame{Owner: owner}
}

// SetLocals replaces this frame's local variable vector.
func (f *Frame) SetLocals(locals []VerificationType) {
	f.Locals = locals
}

// SetStack replaces this frame's operand stack vector.
func (f *Frame) SetStack(stack []VerificationType) {
	f.Stack = stack
}

// Merge merges another frame (flowing in from a newly discovered predecessor) into this one.
// Locals are padded/merged up to the longer of the two; the operand stack, by contrast, must have
// exactly matching depth at every true join point per the JVM verifier's rules, so a depth
// mismatch there is always a genuine frame inconsistency, never something to widen away.
func (f *Frame) Merge(other *Frame) (bool, error) {
	locals, localsChanged, err := mergeFrames(f.Locals, other.Locals)
	if err != nil {
		return false, err
	}
	f.Locals = locals

	if f.Stack == nil {
		f.Stack = append([]VerificationType(nil), other.Stack...)
		return localsChanged || len(other.Stack) > 0, nil
	}
	if len(f.Stack) != len(other.Stack) {
		return false, ErrFrameInconsistency
	}
	stackChanged := false
	for i := range f.Stack {
		merged, ch, err := mergeVerificationType(f.Stack[i], other.Stack[i])
		if err != nil {
			return false, err
		}
		if ch {
			f.Stack[i] = merged
			stackChanged = true
		}
	}
	return localsChanged || stackChanged, nil
}

// CompressedFrame the wire-ready form of a Frame: a frame type tag (F_SAME, F_SAME1, F_APPEND,
// F_CHOP or F_FULL) plus only the deltas that tag requires, matching the StackMapTable compressed
// encodings of JVMS 4.7.4. Produced by Compress, by diffing a Frame against the locals vector in
// force at the previous frame.
type CompressedFrame struct {
	Type        int
	Locals      []VerificationType // full vector for F_FULL; appended tail for F_APPEND; unused otherwise
	Stack       []VerificationType // full vector for F_FULL and F_SAME1; unused otherwise
	ChopCount   int                // only for F_CHOP
	OffsetDelta int
}

// Compress diffs this frame's (trimmed) locals against the previous frame's locals and picks the
// smallest compressed encoding that expresses the result, mirroring the StackMapTable writer logic
// every ASM-family implementation shares.
func (f *Frame) Compress(previousLocals []VerificationType, offsetDelta int) *CompressedFrame {
	locals := trimTrailingTop(f.Locals)
	prev := trimTrailingTop(previousLocals)

	commonPrefix := 0
	for commonPrefix < len(locals) && commonPrefix < len(prev) && locals[commonPrefix].Equal(prev[commonPrefix]) {
		commonPrefix++
	}

	switch {
	case len(locals) == len(prev) && commonPrefix == len(locals) && len(f.Stack) == 0:
		return &CompressedFrame{Type: F_SAME, OffsetDelta: offsetDelta}
	case len(locals) == len(prev) && commonPrefix == len(locals) && len(f.Stack) == 1:
		return &CompressedFrame{Type: F_SAME1, Stack: f.Stack, OffsetDelta: offsetDelta}
	case len(locals) > len(prev) && commonPrefix == len(prev) && len(locals)-len(prev) <= 3 && len(f.Stack) == 0:
		return &CompressedFrame{Type: F_APPEND, Locals: locals[len(prev):], OffsetDelta: offsetDelta}
	case len(locals) < len(prev) && commonPrefix == len(locals) && len(prev)-len(locals) <= 3 && len(f.Stack) == 0:
		return &CompressedFrame{Type: F_CHOP, ChopCount: len(prev) - len(locals), OffsetDelta: offsetDelta}
	default:
		return &CompressedFrame{Type: F_FULL, Locals: locals, Stack: f.Stack, OffsetDelta: offsetDelta}
	}
}
