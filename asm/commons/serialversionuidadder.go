package commons

import (
	"bytes"
	"crypto/sha1"
	"encoding/binary"
	"sort"
	"strings"

	"github.com/jvmgo/asmkit/asm"
	"github.com/jvmgo/asmkit/asm/helper"
)

type suidField struct {
	access           int
	name, descriptor string
}

type suidMethod struct {
	access           int
	name, descriptor string
}

// SerialVersionUIDAdder computes a class's default serialVersionUID using the algorithm published
// in the Java Object Serialization Specification (the one java.io.ObjectStreamClass falls back to
// when a class declares no explicit serialVersionUID) and injects it as a
// `static final long serialVersionUID` field, unless the class already declares one or is an enum
// (spec §4.9).
type SerialVersionUIDAdder struct {
	helper.ClassVisitor

	name          string
	access        int
	interfaces    []string
	hasClinit     bool
	hasSerialUID  bool
	hasRecordComp bool
	fields        []suidField
	methods       []suidMethod
}

// NewSerialVersionUIDAdder wraps delegate, injecting a computed serialVersionUID at VisitEnd.
func NewSerialVersionUIDAdder(delegate asm.ClassVisitor) *SerialVersionUIDAdder {
	return &SerialVersionUIDAdder{ClassVisitor: helper.ClassVisitor{Delegate: delegate}}
}

func (s *SerialVersionUIDAdder) Visit(version, access int, name, signature, superName string, interfaces []string) {
	s.access = access
	s.name = name
	s.interfaces = interfaces
	s.Delegate.Visit(version, access, name, signature, superName, interfaces)
}

func (s *SerialVersionUIDAdder) VisitField(access int, name, descriptor, signature string, value interface{}) asm.FieldVisitor {
	if name == "serialVersionUID" {
		s.hasSerialUID = true
	} else if access&asm.ACC_PRIVATE == 0 || access&(asm.ACC_STATIC|asm.ACC_TRANSIENT) == 0 {
		s.fields = append(s.fields, suidField{access, name, descriptor})
	}
	return s.Delegate.VisitField(access, name, descriptor, signature, value)
}

func (s *SerialVersionUIDAdder) VisitRecordComponent(name, descriptor, signature string) asm.RecordComponentVisitor {
	s.hasRecordComp = true
	return s.Delegate.VisitRecordComponent(name, descriptor, signature)
}

func (s *SerialVersionUIDAdder) VisitMethod(access int, name, descriptor, signature string, exceptions []string) asm.MethodVisitor {
	switch {
	case name == "<clinit>":
		s.hasClinit = true
	case access&asm.ACC_PRIVATE == 0:
		s.methods = append(s.methods, suidMethod{access, name, descriptor})
	}
	return s.Delegate.VisitMethod(access, name, descriptor, signature, exceptions)
}

func (s *SerialVersionUIDAdder) VisitEnd() {
	if !s.hasSerialUID && !s.hasRecordComp && s.access&asm.ACC_ENUM == 0 {
		fv := s.Delegate.VisitField(asm.ACC_STATIC|asm.ACC_FINAL, "serialVersionUID", "J", "", s.computeSVUID())
		if fv != nil {
			fv.VisitEnd()
		}
	}
	s.Delegate.VisitEnd()
}

func (s *SerialVersionUIDAdder) computeSVUID() int64 {
	buf := &bytes.Buffer{}
	writeUTF(buf, strings.ReplaceAll(s.name, "/", "."))
	writeInt(buf, s.classModifiers())

	interfaces := append([]string(nil), s.interfaces...)
	sort.Strings(interfaces)
	for _, itf := range interfaces {
		writeUTF(buf, strings.ReplaceAll(itf, "/", "."))
	}

	fields := append([]suidField(nil), s.fields...)
	sort.Slice(fields, func(i, j int) bool { return fields[i].name < fields[j].name })
	fieldModsMask := asm.ACC_PUBLIC | asm.ACC_PRIVATE | asm.ACC_PROTECTED | asm.ACC_STATIC |
		asm.ACC_FINAL | asm.ACC_VOLATILE | asm.ACC_TRANSIENT
	for _, f := range fields {
		writeUTF(buf, f.name)
		writeInt(buf, f.access&fieldModsMask)
		writeUTF(buf, f.descriptor)
	}

	if s.hasClinit {
		writeUTF(buf, "<clinit>")
		writeInt(buf, asm.ACC_STATIC)
		writeUTF(buf, "()V")
	}

	methods := append([]suidMethod(nil), s.methods...)
	sort.Slice(methods, func(i, j int) bool {
		if methods[i].name != methods[j].name {
			return methods[i].name < methods[j].name
		}
		return methods[i].descriptor < methods[j].descriptor
	})
	methodModsMask := asm.ACC_PUBLIC | asm.ACC_PRIVATE | asm.ACC_PROTECTED | asm.ACC_STATIC |
		asm.ACC_FINAL | asm.ACC_SYNCHRONIZED | asm.ACC_NATIVE | asm.ACC_ABSTRACT | asm.ACC_STRICT
	for _, m := range methods {
		writeUTF(buf, m.name)
		writeInt(buf, m.access&methodModsMask)
		writeUTF(buf, strings.ReplaceAll(m.descriptor, "/", "."))
	}

	digest := sha1.Sum(buf.Bytes())
	var hash int64
	for i := 7; i >= 0; i-- {
		hash = (hash << 8) | int64(digest[i])
	}
	return hash
}

func (s *SerialVersionUIDAdder) classModifiers() int {
	mods := s.access & (asm.ACC_PUBLIC | asm.ACC_FINAL | asm.ACC_INTERFACE | asm.ACC_ABSTRACT)
	if s.access&asm.ACC_INTERFACE != 0 {
		if len(s.methods) > 0 {
			mods |= asm.ACC_ABSTRACT
		} else {
			mods &^= asm.ACC_ABSTRACT
		}
	}
	return mods
}

func writeUTF(buf *bytes.Buffer, s string) {
	var length [2]byte
	binary.BigEndian.PutUint16(length[:], uint16(len(s)))
	buf.Write(length[:])
	buf.WriteString(s)
}

func writeInt(buf *bytes.Buffer, v int) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	buf.Write(b[:])
}
