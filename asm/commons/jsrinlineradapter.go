package commons

import (
	"github.com/jvmgo/asmkit/asm"
	"github.com/jvmgo/asmkit/asm/helper"
)

// insnKind discriminates the shape of a buffered instruction node; JSRInlinerAdapter buffers a
// whole method body itself (spec §1: the tree representation proper is an external collaborator,
// so a transformer that must hold a full method in memory - like this one - buffers it privately).
type insnKind int

const (
	kInsn insnKind = iota
	kIntInsn
	kVarInsn
	kTypeInsn
	kFieldInsn
	kMethodInsn
	kInvokeDynamicInsn
	kJumpInsn
	kLabelMarker
	kLdcInsn
	kIincInsn
	kTableSwitchInsn
	kLookupSwitchInsn
	kMultiANewArrayInsn
	kLineNumber
)

type jsrInsn struct {
	kind insnKind

	opcode  int
	operand int // IntInsn operand, or IincInsn increment
	vard    int // VarInsn / IincInsn variable slot

	typeOperand string
	owner, name, descriptor string
	isInterface bool

	bsmHandle *asm.Handle
	bsmArgs   []interface{}

	target *asm.Label // jump target
	label  *asm.Label // label marker

	ldcValue interface{}

	tsMin, tsMax int
	tsDflt       *asm.Label
	tsLabels     []*asm.Label

	lsDflt   *asm.Label
	lsKeys   []int
	lsLabels []*asm.Label

	line int
}

type jsrTryCatch struct {
	start, end, handler *asm.Label
	typed                string
}

type jsrLocalVar struct {
	name, descriptor, signature string
	start, end                  *asm.Label
	index                       int
}

// JSRInlinerAdapter a MethodVisitor that eliminates JSR/RET by duplicating each subroutine's body
// once per call site (spec §4.6). Construct one per method, feed it the method's events, then read
// Err after VisitEnd to see whether the transformation succeeded; on success the fully inlined
// method has already been replayed to Delegate.
type JSRInlinerAdapter struct {
	helper.MethodVisitor

	access               int
	name, descriptor     string

	instructions   []*jsrInsn
	labelIndex     map[*asm.Label]int
	idxLabel       map[int]*asm.Label
	tryCatchBlocks []jsrTryCatch
	localVariables []jsrLocalVar

	maxStack, maxLocals int

	// Err is set if the method could not be inlined (a RET reachable outside any subroutine, or
	// a recursive JSR). Check it after the visitor chain finishes.
	Err error
}

// NewJSRInlinerAdapter constructs an inliner for a method with the given access flags, name and
// descriptor (used only to label a malformed-method error), forwarding the transformed method to
// delegate.
func NewJSRInlinerAdapter(access int, name, descriptor string, delegate asm.MethodVisitor) *JSRInlinerAdapter {
	return &JSRInlinerAdapter{
		MethodVisitor: helper.MethodVisitor{Delegate: delegate},
		access:        access,
		name:          name,
		descriptor:    descriptor,
		labelIndex:    make(map[*asm.Label]int),
		idxLabel:      make(map[int]*asm.Label),
	}
}

func (j *JSRInlinerAdapter) append(insn *jsrInsn) {
	j.instructions = append(j.instructions, insn)
}

func (j *JSRInlinerAdapter) VisitCode() {}

func (j *JSRInlinerAdapter) VisitInsn(opcode int) {
	j.append(&jsrInsn{kind: kInsn, opcode: opcode})
}

func (j *JSRInlinerAdapter) VisitIntInsn(opcode, operand int) {
	j.append(&jsrInsn{kind: kIntInsn, opcode: opcode, operand: operand})
}

func (j *JSRInlinerAdapter) VisitVarInsn(opcode, vard int) {
	j.append(&jsrInsn{kind: kVarInsn, opcode: opcode, vard: vard})
}

func (j *JSRInlinerAdapter) VisitTypeInsn(opcode int, typed string) {
	j.append(&jsrInsn{kind: kTypeInsn, opcode: opcode, typeOperand: typed})
}

func (j *JSRInlinerAdapter) VisitFieldInsn(opcode int, owner, name, descriptor string) {
	j.append(&jsrInsn{kind: kFieldInsn, opcode: opcode, owner: owner, name: name, descriptor: descriptor})
}

func (j *JSRInlinerAdapter) VisitMethodInsn(opcode int, owner, name, descriptor string, isInterface bool) {
	j.append(&jsrInsn{kind: kMethodInsn, opcode: opcode, owner: owner, name: name, descriptor: descriptor, isInterface: isInterface})
}

func (j *JSRInlinerAdapter) VisitInvokeDynamicInsn(name, descriptor string, bootstrapMethodHandle *asm.Handle, bootstrapMethodArguments ...interface{}) {
	j.append(&jsrInsn{kind: kInvokeDynamicInsn, name: name, descriptor: descriptor, bsmHandle: bootstrapMethodHandle, bsmArgs: bootstrapMethodArguments})
}

func (j *JSRInlinerAdapter) VisitJumpInsn(opcode int, label *asm.Label) {
	j.append(&jsrInsn{kind: kJumpInsn, opcode: opcode, target: label})
}

func (j *JSRInlinerAdapter) VisitLabel(label *asm.Label) {
	idx := len(j.instructions)
	j.labelIndex[label] = idx
	j.idxLabel[idx] = label
	j.append(&jsrInsn{kind: kLabelMarker, label: label})
}

func (j *JSRInlinerAdapter) VisitLdcInsn(value interface{}) {
	j.append(&jsrInsn{kind: kLdcInsn, ldcValue: value})
}

func (j *JSRInlinerAdapter) VisitIincInsn(vard, increment int) {
	j.append(&jsrInsn{kind: kIincInsn, vard: vard, operand: increment})
}

func (j *JSRInlinerAdapter) VisitTableSwitchInsn(min, max int, dflt *asm.Label, labels ...*asm.Label) {
	j.append(&jsrInsn{kind: kTableSwitchInsn, tsMin: min, tsMax: max, tsDflt: dflt, tsLabels: labels})
}

func (j *JSRInlinerAdapter) VisitLookupSwitchInsn(dflt *asm.Label, keys []int, labels []*asm.Label) {
	j.append(&jsrInsn{kind: kLookupSwitchInsn, lsDflt: dflt, lsKeys: keys, lsLabels: labels})
}

func (j *JSRInlinerAdapter) VisitMultiANewArrayInsn(descriptor string, numDimensions int) {
	j.append(&jsrInsn{kind: kMultiANewArrayInsn, descriptor: descriptor, operand: numDimensions})
}

func (j *JSRInlinerAdapter) VisitLineNumber(line int, start *asm.Label) {
	j.append(&jsrInsn{kind: kLineNumber, line: line, target: start})
}

func (j *JSRInlinerAdapter) VisitTryCatchBlock(start, end, handler *asm.Label, typed string) {
	j.tryCatchBlocks = append(j.tryCatchBlocks, jsrTryCatch{start, end, handler, typed})
}

func (j *JSRInlinerAdapter) VisitLocalVariable(name, descriptor, signature string, start, end *asm.Label, index int) {
	j.localVariables = append(j.localVariables, jsrLocalVar{name, descriptor, signature, start, end, index})
}

func (j *JSRInlinerAdapter) VisitMaxs(maxStack, maxLocals int) {
	j.maxStack, j.maxLocals = maxStack, maxLocals
}

// VisitEnd runs the inlining transformation and, on success, replays the transformed method
// (try/catch blocks, then instructions, then local variables, then maxs) to Delegate. On failure
// Err is set and nothing is replayed.
func (j *JSRInlinerAdapter) VisitEnd() {
	output, outTcb, outLv, err := j.inline()
	if err != nil {
		j.Err = err
		return
	}

	j.Delegate.VisitCode()
	for _, t := range outTcb {
		j.Delegate.VisitTryCatchBlock(t.start, t.end, t.handler, t.typed)
	}
	for _, insn := range output {
		switch insn.kind {
		case kInsn:
			j.Delegate.VisitInsn(insn.opcode)
		case kIntInsn:
			j.Delegate.VisitIntInsn(insn.opcode, insn.operand)
		case kVarInsn:
			j.Delegate.VisitVarInsn(insn.opcode, insn.vard)
		case kTypeInsn:
			j.Delegate.VisitTypeInsn(insn.opcode, insn.typeOperand)
		case kFieldInsn:
			j.Delegate.VisitFieldInsn(insn.opcode, insn.owner, insn.name, insn.descriptor)
		case kMethodInsn:
			j.Delegate.VisitMethodInsn(insn.opcode, insn.owner, insn.name, insn.descriptor, insn.isInterface)
		case kInvokeDynamicInsn:
			j.Delegate.VisitInvokeDynamicInsn(insn.name, insn.descriptor, insn.bsmHandle, insn.bsmArgs...)
		case kJumpInsn:
			j.Delegate.VisitJumpInsn(insn.opcode, insn.target)
		case kLabelMarker:
			j.Delegate.VisitLabel(insn.label)
		case kLdcInsn:
			j.Delegate.VisitLdcInsn(insn.ldcValue)
		case kIincInsn:
			j.Delegate.VisitIincInsn(insn.vard, insn.operand)
		case kTableSwitchInsn:
			j.Delegate.VisitTableSwitchInsn(insn.tsMin, insn.tsMax, insn.tsDflt, insn.tsLabels...)
		case kLookupSwitchInsn:
			j.Delegate.VisitLookupSwitchInsn(insn.lsDflt, insn.lsKeys, insn.lsLabels)
		case kMultiANewArrayInsn:
			j.Delegate.VisitMultiANewArrayInsn(insn.descriptor, insn.operand)
		case kLineNumber:
			j.Delegate.VisitLineNumber(insn.line, insn.target)
		}
	}
	for _, lv := range outLv {
		j.Delegate.VisitLocalVariable(lv.name, lv.descriptor, lv.signature, lv.start, lv.end, lv.index)
	}
	j.Delegate.VisitMaxs(j.maxStack, j.maxLocals)
	j.Delegate.VisitEnd()
}

// subroutine one discovered subroutine: entry is the instruction index its JSR targets (0 for the
// main "subroutine", i.e. the method body outside of any JSR), insns the bitset (as a set) of
// instruction indices reachable from entry without crossing a JSR "call" edge.
type subroutine struct {
	entry int
	insns map[int]bool
}

// instantiation one emitted copy of a subroutine's body (spec §4.6 step 2): main has no parent and
// no returnLabel; every JSR creates a child instantiation of the subroutine it targets.
type instantiation struct {
	sub         *subroutine
	parent      *instantiation
	returnLabel *asm.Label
	remap       map[*asm.Label]*asm.Label

	clonedTryCatch  []jsrTryCatch
	clonedLocalVars []jsrLocalVar
}

func (inst *instantiation) label(orig *asm.Label) *asm.Label {
	if orig == nil {
		return nil
	}
	if l, ok := inst.remap[orig]; ok {
		return l
	}
	l := asm.NewLabel()
	inst.remap[orig] = l
	return l
}

// ownerOf determines, per spec §4.6 step 3, which instantiation in inst's own parent chain emits
// instruction i: the oldest ancestor (closest to main) whose subroutine bitset contains i. This is
// a structural property of the chain alone, not of which instantiation happened to reach i first -
// two sibling instantiations of the same subroutine (e.g. one JSR'd from the normal fall-through,
// another from an exception handler) are not each other's ancestor, so each is its own owner and
// duplicates the body; only a shared instruction that a *parent* subroutine also reaches is
// redirected to that parent's copy.
func ownerOf(inst *instantiation, i int) *instantiation {
	chain := make([]*instantiation, 0, 4)
	for a := inst; a != nil; a = a.parent {
		chain = append(chain, a)
	}
	for k := len(chain) - 1; k >= 0; k-- {
		if chain[k].sub.insns[i] {
			return chain[k]
		}
	}
	return inst
}

func (j *JSRInlinerAdapter) successors(i int) []int {
	insn := j.instructions[i]
	switch insn.kind {
	case kJumpInsn:
		switch insn.opcode {
		case asm.GOTO:
			return []int{j.labelIndex[insn.target]}
		case asm.JSR:
			// the call edge into the subroutine is deliberately excluded: subroutine membership
			// is discovered by seeding a fresh walk at the JSR's target, not by following it here.
			return []int{i + 1}
		default:
			return []int{i + 1, j.labelIndex[insn.target]}
		}
	case kTableSwitchInsn:
		succ := make([]int, 0, len(insn.tsLabels)+1)
		succ = append(succ, j.labelIndex[insn.tsDflt])
		for _, l := range insn.tsLabels {
			succ = append(succ, j.labelIndex[l])
		}
		return succ
	case kLookupSwitchInsn:
		succ := make([]int, 0, len(insn.lsLabels)+1)
		succ = append(succ, j.labelIndex[insn.lsDflt])
		for _, l := range insn.lsLabels {
			succ = append(succ, j.labelIndex[l])
		}
		return succ
	case kInsn:
		switch insn.opcode {
		case asm.ATHROW, asm.IRETURN, asm.LRETURN, asm.FRETURN, asm.DRETURN, asm.ARETURN, asm.RETURN:
			return nil
		}
		return []int{i + 1}
	case kVarInsn:
		if insn.opcode == asm.RET {
			return nil
		}
		return []int{i + 1}
	default:
		return []int{i + 1}
	}
}

func (j *JSRInlinerAdapter) markFrom(sub *subroutine, start int) {
	n := len(j.instructions)
	stack := []int{start}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if i < 0 || i >= n || sub.insns[i] {
			continue
		}
		sub.insns[i] = true
		stack = append(stack, j.successors(i)...)
	}
}

// discoverSubroutines computes the main bitset and one bitset per distinct JSR target, then grows
// each with the exception handlers whose try-range intersects it, to a fixpoint (spec §4.6 step 1).
func (j *JSRInlinerAdapter) discoverSubroutines() []*subroutine {
	main := &subroutine{entry: 0, insns: map[int]bool{}}
	subroutinesByEntry := map[int]*subroutine{0: main}
	order := []*subroutine{main}

	for _, insn := range j.instructions {
		if insn.kind == kJumpInsn && insn.opcode == asm.JSR {
			target := j.labelIndex[insn.target]
			if _, ok := subroutinesByEntry[target]; !ok {
				sub := &subroutine{entry: target, insns: map[int]bool{}}
				subroutinesByEntry[target] = sub
				order = append(order, sub)
			}
		}
	}

	for _, sub := range order {
		j.markFrom(sub, sub.entry)
	}

	changed := true
	for changed {
		changed = false
		for _, t := range j.tryCatchBlocks {
			startIdx, endIdx, handlerIdx := j.labelIndex[t.start], j.labelIndex[t.end], j.labelIndex[t.handler]
			for _, sub := range order {
				if sub.insns[handlerIdx] {
					continue
				}
				intersects := false
				for k := startIdx; k < endIdx; k++ {
					if sub.insns[k] {
						intersects = true
						break
					}
				}
				if intersects {
					j.markFrom(sub, handlerIdx)
					changed = true
				}
			}
		}
	}

	return order
}

// inline runs the full discovery + instantiation-queue algorithm and returns the flattened,
// JSR/RET-free instruction stream plus the re-projected try/catch and local-variable records.
func (j *JSRInlinerAdapter) inline() ([]*jsrInsn, []jsrTryCatch, []jsrLocalVar, error) {
	subroutines := j.discoverSubroutines()
	main := subroutines[0]
	subroutineByEntry := map[int]*subroutine{}
	for _, s := range subroutines {
		subroutineByEntry[s.entry] = s
	}

	for i, insn := range j.instructions {
		if insn.kind == kVarInsn && insn.opcode == asm.RET && main.insns[i] {
			return nil, nil, nil, &asm.MethodFormatError{Owner: "", Name: j.name, Descriptor: j.descriptor,
				Reason: "RET instruction outside of any subroutine"}
		}
	}

	var output []*jsrInsn
	var instantiations []*instantiation

	mainInst := &instantiation{sub: main, remap: make(map[*asm.Label]*asm.Label)}
	queue := []*instantiation{mainInst}

	n := len(j.instructions)
	for len(queue) > 0 {
		inst := queue[0]
		queue = queue[1:]

		for i := 0; i < n; i++ {
			if !inst.sub.insns[i] {
				continue
			}
			if owner := ownerOf(inst, i); owner != inst {
				output = append(output, &jsrInsn{kind: kJumpInsn, opcode: asm.GOTO, target: owner.label(j.idxLabel[i])})
				continue
			}
			insn := j.instructions[i]

			switch {
			case insn.kind == kLabelMarker:
				output = append(output, &jsrInsn{kind: kLabelMarker, label: inst.label(insn.label)})

			case insn.kind == kJumpInsn && insn.opcode == asm.JSR:
				targetIdx := j.labelIndex[insn.target]
				childSub := subroutineByEntry[targetIdx]
				for a := inst; a != nil; a = a.parent {
					if a.sub == childSub {
						return nil, nil, nil, &asm.MethodFormatError{Name: j.name, Descriptor: j.descriptor,
							Reason: "recursive JSR"}
					}
				}
				returnLabel := asm.NewLabel()
				child := &instantiation{sub: childSub, parent: inst, returnLabel: returnLabel, remap: make(map[*asm.Label]*asm.Label)}
				queue = append(queue, child)
				entryLabel := child.label(j.idxLabel[targetIdx])
				output = append(output, &jsrInsn{kind: kInsn, opcode: asm.ACONST_NULL})
				output = append(output, &jsrInsn{kind: kJumpInsn, opcode: asm.GOTO, target: entryLabel})
				output = append(output, &jsrInsn{kind: kLabelMarker, label: returnLabel})

			case insn.kind == kVarInsn && insn.opcode == asm.RET:
				output = append(output, &jsrInsn{kind: kJumpInsn, opcode: asm.GOTO, target: inst.returnLabel})

			default:
				output = append(output, remapInsn(insn, inst))
			}
		}

		outOwnsRange := func(startIdx, endIdx int) bool {
			for k := startIdx; k < endIdx; k++ {
				if !inst.sub.insns[k] || ownerOf(inst, k) != inst {
					return false
				}
			}
			return true
		}
		for _, t := range j.tryCatchBlocks {
			startIdx, endIdx := j.labelIndex[t.start], j.labelIndex[t.end]
			if outOwnsRange(startIdx, endIdx) {
				inst.clonedTryCatch = append(inst.clonedTryCatch, jsrTryCatch{inst.label(t.start), inst.label(t.end), inst.label(t.handler), t.typed})
			}
		}
		for _, lv := range j.localVariables {
			startIdx, endIdx := j.labelIndex[lv.start], j.labelIndex[lv.end]
			if outOwnsRange(startIdx, endIdx) {
				inst.clonedLocalVars = append(inst.clonedLocalVars, jsrLocalVar{lv.name, lv.descriptor, lv.signature, inst.label(lv.start), inst.label(lv.end), lv.index})
			}
		}

		instantiations = append(instantiations, inst)
	}

	var outTcb []jsrTryCatch
	var outLv []jsrLocalVar
	for _, inst := range instantiations {
		outTcb = append(outTcb, inst.clonedTryCatch...)
		outLv = append(outLv, inst.clonedLocalVars...)
	}

	return output, outTcb, outLv, nil
}

// remapInsn deep-copies insn, translating every label it references through inst's per-
// instantiation remap table.
func remapInsn(insn *jsrInsn, inst *instantiation) *jsrInsn {
	clone := *insn
	clone.target = inst.label(insn.target)
	if insn.tsDflt != nil {
		clone.tsDflt = inst.label(insn.tsDflt)
	}
	if insn.tsLabels != nil {
		clone.tsLabels = make([]*asm.Label, len(insn.tsLabels))
		for i, l := range insn.tsLabels {
			clone.tsLabels[i] = inst.label(l)
		}
	}
	if insn.lsDflt != nil {
		clone.lsDflt = inst.label(insn.lsDflt)
	}
	if insn.lsLabels != nil {
		clone.lsLabels = make([]*asm.Label, len(insn.lsLabels))
		for i, l := range insn.lsLabels {
			clone.lsLabels[i] = inst.label(l)
		}
	}
	return &clone
}
