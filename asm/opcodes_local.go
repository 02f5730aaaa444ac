package asm

import "github.com/jvmgo/asmkit/asm/opcodes"

// Local, unqualified aliases for the opcodes package's constants. Upstream ASM's ClassReader,
// ClassWriter and MethodWriter all "implement Opcodes" so every opcode constant is visible
// unqualified; Go has no such inheritance, so this file reproduces the same ergonomics for the
// core codec package without forcing opcodes.XXX everywhere a literal opcode is compared.
const (
	ASM4 = opcodes.ASM4
	ASM5 = opcodes.ASM5
	ASM6 = opcodes.ASM6
	ASM7 = opcodes.ASM7
	ASM8 = opcodes.ASM8
	ASM9 = opcodes.ASM9

	V1_1 = opcodes.V1_1
	V1_2 = opcodes.V1_2
	V1_3 = opcodes.V1_3
	V1_4 = opcodes.V1_4
	V1_5 = opcodes.V1_5
	V1_6 = opcodes.V1_6
	V1_7 = opcodes.V1_7
	V1_8 = opcodes.V1_8
	V9   = opcodes.V9
	V10  = opcodes.V10
	V11  = opcodes.V11
	V12  = opcodes.V12
	V13  = opcodes.V13
	V14  = opcodes.V14
	V15  = opcodes.V15
	V16  = opcodes.V16
	V17  = opcodes.V17
	V18  = opcodes.V18
	V19  = opcodes.V19
	V20  = opcodes.V20
	V21  = opcodes.V21

	ACC_PUBLIC       = opcodes.ACC_PUBLIC
	ACC_PRIVATE      = opcodes.ACC_PRIVATE
	ACC_PROTECTED    = opcodes.ACC_PROTECTED
	ACC_STATIC       = opcodes.ACC_STATIC
	ACC_FINAL        = opcodes.ACC_FINAL
	ACC_SUPER        = opcodes.ACC_SUPER
	ACC_SYNCHRONIZED = opcodes.ACC_SYNCHRONIZED
	ACC_OPEN         = opcodes.ACC_OPEN
	ACC_TRANSITIVE   = opcodes.ACC_TRANSITIVE
	ACC_VOLATILE     = opcodes.ACC_VOLATILE
	ACC_BRIDGE       = opcodes.ACC_BRIDGE
	ACC_STATIC_PHASE = opcodes.ACC_STATIC_PHASE
	ACC_VARARGS      = opcodes.ACC_VARARGS
	ACC_TRANSIENT    = opcodes.ACC_TRANSIENT
	ACC_NATIVE       = opcodes.ACC_NATIVE
	ACC_INTERFACE    = opcodes.ACC_INTERFACE
	ACC_ABSTRACT     = opcodes.ACC_ABSTRACT
	ACC_STRICT       = opcodes.ACC_STRICT
	ACC_SYNTHETIC    = opcodes.ACC_SYNTHETIC
	ACC_ANNOTATION   = opcodes.ACC_ANNOTATION
	ACC_ENUM         = opcodes.ACC_ENUM
	ACC_MANDATED     = opcodes.ACC_MANDATED
	ACC_MODULE       = opcodes.ACC_MODULE
	ACC_DEPRECATED   = opcodes.ACC_DEPRECATED

	ACC_RECORD = 0x10000

	T_BOOLEAN = opcodes.T_BOOLEAN
	T_CHAR    = opcodes.T_CHAR
	T_FLOAT   = opcodes.T_FLOAT
	T_DOUBLE  = opcodes.T_DOUBLE
	T_BYTE    = opcodes.T_BYTE
	T_SHORT   = opcodes.T_SHORT
	T_INT     = opcodes.T_INT
	T_LONG    = opcodes.T_LONG

	H_GETFIELD         = opcodes.H_GETFIELD
	H_GETSTATIC        = opcodes.H_GETSTATIC
	H_PUTFIELD         = opcodes.H_PUTFIELD
	H_PUTSTATIC        = opcodes.H_PUTSTATIC
	H_INVOKEVIRTUAL    = opcodes.H_INVOKEVIRTUAL
	H_INVOKESTATIC     = opcodes.H_INVOKESTATIC
	H_INVOKESPECIAL    = opcodes.H_INVOKESPECIAL
	H_NEWINVOKESPECIAL = opcodes.H_NEWINVOKESPECIAL
	H_INVOKEINTERFACE  = opcodes.H_INVOKEINTERFACE

	F_NEW    = opcodes.F_NEW
	F_FULL   = opcodes.F_FULL
	F_APPEND = opcodes.F_APPEND
	F_CHOP   = opcodes.F_CHOP
	F_SAME   = opcodes.F_SAME
	F_SAME1  = opcodes.F_SAME1

	NOP             = opcodes.NOP
	ACONST_NULL     = opcodes.ACONST_NULL
	ICONST_M1       = opcodes.ICONST_M1
	ICONST_0        = opcodes.ICONST_0
	ICONST_1        = opcodes.ICONST_1
	ICONST_2        = opcodes.ICONST_2
	ICONST_3        = opcodes.ICONST_3
	ICONST_4        = opcodes.ICONST_4
	ICONST_5        = opcodes.ICONST_5
	LCONST_0        = opcodes.LCONST_0
	LCONST_1        = opcodes.LCONST_1
	FCONST_0        = opcodes.FCONST_0
	FCONST_1        = opcodes.FCONST_1
	FCONST_2        = opcodes.FCONST_2
	DCONST_0        = opcodes.DCONST_0
	DCONST_1        = opcodes.DCONST_1
	BIPUSH          = opcodes.BIPUSH
	SIPUSH          = opcodes.SIPUSH
	LDC             = opcodes.LDC
	LDC_W           = opcodes.LDC_W
	LDC2_W          = opcodes.LDC2_W
	ILOAD           = opcodes.ILOAD
	LLOAD           = opcodes.LLOAD
	FLOAD           = opcodes.FLOAD
	DLOAD           = opcodes.DLOAD
	ALOAD           = opcodes.ALOAD
	IALOAD          = opcodes.IALOAD
	LALOAD          = opcodes.LALOAD
	FALOAD          = opcodes.FALOAD
	DALOAD          = opcodes.DALOAD
	AALOAD          = opcodes.AALOAD
	BALOAD          = opcodes.BALOAD
	CALOAD          = opcodes.CALOAD
	SALOAD          = opcodes.SALOAD
	ISTORE          = opcodes.ISTORE
	LSTORE          = opcodes.LSTORE
	FSTORE          = opcodes.FSTORE
	DSTORE          = opcodes.DSTORE
	ASTORE          = opcodes.ASTORE
	IASTORE         = opcodes.IASTORE
	LASTORE         = opcodes.LASTORE
	FASTORE         = opcodes.FASTORE
	DASTORE         = opcodes.DASTORE
	AASTORE         = opcodes.AASTORE
	BASTORE         = opcodes.BASTORE
	CASTORE         = opcodes.CASTORE
	SASTORE         = opcodes.SASTORE
	POP             = opcodes.POP
	POP2            = opcodes.POP2
	DUP             = opcodes.DUP
	DUP_X1          = opcodes.DUP_X1
	DUP_X2          = opcodes.DUP_X2
	DUP2            = opcodes.DUP2
	DUP2_X1         = opcodes.DUP2_X1
	DUP2_X2         = opcodes.DUP2_X2
	SWAP            = opcodes.SWAP
	IADD            = opcodes.IADD
	LADD            = opcodes.LADD
	FADD            = opcodes.FADD
	DADD            = opcodes.DADD
	ISUB            = opcodes.ISUB
	LSUB            = opcodes.LSUB
	FSUB            = opcodes.FSUB
	DSUB            = opcodes.DSUB
	IMUL            = opcodes.IMUL
	LMUL            = opcodes.LMUL
	FMUL            = opcodes.FMUL
	DMUL            = opcodes.DMUL
	IDIV            = opcodes.IDIV
	LDIV            = opcodes.LDIV
	FDIV            = opcodes.FDIV
	DDIV            = opcodes.DDIV
	IREM            = opcodes.IREM
	LREM            = opcodes.LREM
	FREM            = opcodes.FREM
	DREM            = opcodes.DREM
	INEG            = opcodes.INEG
	LNEG            = opcodes.LNEG
	FNEG            = opcodes.FNEG
	DNEG            = opcodes.DNEG
	ISHL            = opcodes.ISHL
	LSHL            = opcodes.LSHL
	ISHR            = opcodes.ISHR
	LSHR            = opcodes.LSHR
	IUSHR           = opcodes.IUSHR
	LUSHR           = opcodes.LUSHR
	IAND            = opcodes.IAND
	LAND            = opcodes.LAND
	IOR             = opcodes.IOR
	LOR             = opcodes.LOR
	IXOR            = opcodes.IXOR
	LXOR            = opcodes.LXOR
	IINC            = opcodes.IINC
	I2L             = opcodes.I2L
	I2F             = opcodes.I2F
	I2D             = opcodes.I2D
	L2I             = opcodes.L2I
	L2F             = opcodes.L2F
	L2D             = opcodes.L2D
	F2I             = opcodes.F2I
	F2L             = opcodes.F2L
	F2D             = opcodes.F2D
	D2I             = opcodes.D2I
	D2L             = opcodes.D2L
	D2F             = opcodes.D2F
	I2B             = opcodes.I2B
	I2C             = opcodes.I2C
	I2S             = opcodes.I2S
	LCMP            = opcodes.LCMP
	FCMPL           = opcodes.FCMPL
	FCMPG           = opcodes.FCMPG
	DCMPL           = opcodes.DCMPL
	DCMPG           = opcodes.DCMPG
	IFEQ            = opcodes.IFEQ
	IFNE            = opcodes.IFNE
	IFLT            = opcodes.IFLT
	IFGE            = opcodes.IFGE
	IFGT            = opcodes.IFGT
	IFLE            = opcodes.IFLE
	IF_ICMPEQ       = opcodes.IF_ICMPEQ
	IF_ICMPNE       = opcodes.IF_ICMPNE
	IF_ICMPLT       = opcodes.IF_ICMPLT
	IF_ICMPGE       = opcodes.IF_ICMPGE
	IF_ICMPGT       = opcodes.IF_ICMPGT
	IF_ICMPLE       = opcodes.IF_ICMPLE
	IF_ACMPEQ       = opcodes.IF_ACMPEQ
	IF_ACMPNE       = opcodes.IF_ACMPNE
	GOTO            = opcodes.GOTO
	JSR             = opcodes.JSR
	RET             = opcodes.RET
	TABLESWITCH     = opcodes.TABLESWITCH
	LOOKUPSWITCH    = opcodes.LOOKUPSWITCH
	IRETURN         = opcodes.IRETURN
	LRETURN         = opcodes.LRETURN
	FRETURN         = opcodes.FRETURN
	DRETURN         = opcodes.DRETURN
	ARETURN         = opcodes.ARETURN
	RETURN          = opcodes.RETURN
	GETSTATIC       = opcodes.GETSTATIC
	PUTSTATIC       = opcodes.PUTSTATIC
	GETFIELD        = opcodes.GETFIELD
	PUTFIELD        = opcodes.PUTFIELD
	INVOKEVIRTUAL   = opcodes.INVOKEVIRTUAL
	INVOKESPECIAL   = opcodes.INVOKESPECIAL
	INVOKESTATIC    = opcodes.INVOKESTATIC
	INVOKEINTERFACE = opcodes.INVOKEINTERFACE
	INVOKEDYNAMIC   = opcodes.INVOKEDYNAMIC
	NEW             = opcodes.NEW
	NEWARRAY        = opcodes.NEWARRAY
	ANEWARRAY       = opcodes.ANEWARRAY
	ARRAYLENGTH     = opcodes.ARRAYLENGTH
	ATHROW          = opcodes.ATHROW
	CHECKCAST       = opcodes.CHECKCAST
	INSTANCEOF      = opcodes.INSTANCEOF
	MONITORENTER    = opcodes.MONITORENTER
	MONITOREXIT     = opcodes.MONITOREXIT
	MULTIANEWARRAY  = opcodes.MULTIANEWARRAY
	IFNULL          = opcodes.IFNULL
	IFNONNULL       = opcodes.IFNONNULL
	WIDE            = opcodes.WIDE
	GOTO_W          = opcodes.GOTO_W
	JSR_W           = opcodes.JSR_W
)
