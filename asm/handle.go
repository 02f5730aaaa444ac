package asm

import "fmt"

// Handle a constant pool entry for a method handle (tag CONSTANT_MethodHandle_info, JVMS 4.4.8).
// A handle is a reference kind (one of the H_* constants in opcodes) plus the field or method
// it refers to.
type Handle struct {
	tag         int
	owner       string
	name        string
	descriptor  string
	isInterface bool
}

// NewHandle constructs a new method handle.
func NewHandle(tag int, owner, name, descriptor string, isInterface bool) *Handle {
	return &Handle{
		tag:         tag,
		owner:       owner,
		name:        name,
		descriptor:  descriptor,
		isInterface: isInterface,
	}
}

// GetTag returns the kind of this handle, one of opcodes.H_*.
func (h *Handle) GetTag() int { return h.tag }

// GetOwner returns the internal name of the field or method owner class.
func (h *Handle) GetOwner() string { return h.owner }

// GetName returns the name of the field or method.
func (h *Handle) GetName() string { return h.name }

// GetDesc returns the descriptor of the field or method.
func (h *Handle) GetDesc() string { return h.descriptor }

// IsInterface returns whether the owner is an interface.
func (h *Handle) IsInterface() bool { return h.isInterface }

func (h *Handle) String() string {
	return fmt.Sprintf("%d %s.%s%s%s", h.tag, h.owner, h.name, h.descriptor, interfaceMarker(h.isInterface))
}

func interfaceMarker(isInterface bool) string {
	if isInterface {
		return " (itf)"
	}
	return ""
}

// Equal reports whether two handles refer to the same member with the same kind.
func (h *Handle) Equal(o *Handle) bool {
	if h == o {
		return true
	}
	if o == nil {
		return false
	}
	return h.tag == o.tag && h.isInterface == o.isInterface && h.owner == o.owner && h.name == o.name && h.descriptor == o.descriptor
}

// ConstantDynamic a constant pool entry for a dynamically computed constant (tag CONSTANT_Dynamic_info,
// JVMS 4.4.10), produced by invoking a bootstrap method.
type ConstantDynamic struct {
	name                     string
	descriptor               string
	bootstrapMethod          *Handle
	bootstrapMethodArguments []interface{}
}

// NewConstantDynamic constructs a new dynamic constant reference.
func NewConstantDynamic(name, descriptor string, bootstrapMethod *Handle, bootstrapMethodArguments ...interface{}) *ConstantDynamic {
	return &ConstantDynamic{
		name:                     name,
		descriptor:               descriptor,
		bootstrapMethod:          bootstrapMethod,
		bootstrapMethodArguments: bootstrapMethodArguments,
	}
}

// GetName returns the name of this dynamic constant.
func (c *ConstantDynamic) GetName() string { return c.name }

// GetDescriptor returns the type descriptor of this dynamic constant.
func (c *ConstantDynamic) GetDescriptor() string { return c.descriptor }

// GetBootstrapMethod returns the bootstrap method used to produce this constant.
func (c *ConstantDynamic) GetBootstrapMethod() *Handle { return c.bootstrapMethod }

// GetBootstrapMethodArgumentCount returns the number of arguments passed to the bootstrap method.
func (c *ConstantDynamic) GetBootstrapMethodArgumentCount() int {
	return len(c.bootstrapMethodArguments)
}

// GetBootstrapMethodArgument returns the index-th argument passed to the bootstrap method.
func (c *ConstantDynamic) GetBootstrapMethodArgument(index int) interface{} {
	return c.bootstrapMethodArguments[index]
}

// GetSize returns the size in slots (1, or 2 for a long/double constant) of this dynamic constant.
func (c *ConstantDynamic) GetSize() int {
	switch c.descriptor[0] {
	case 'J', 'D':
		return 2
	default:
		return 1
	}
}
