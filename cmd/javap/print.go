package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/chazu/javelin/classfile"
	"github.com/chazu/javelin/pkg/bytecode"
)

type printOptions struct {
	Code bool // disassemble method bodies
	Pool bool // print the constant pool
}

type flagName struct {
	flag uint16
	name string
}

var classFlags = []flagName{
	{classfile.AccPublic, "ACC_PUBLIC"},
	{classfile.AccFinal, "ACC_FINAL"},
	{classfile.AccSuper, "ACC_SUPER"},
	{classfile.AccInterface, "ACC_INTERFACE"},
	{classfile.AccAbstract, "ACC_ABSTRACT"},
	{classfile.AccSynthetic, "ACC_SYNTHETIC"},
	{classfile.AccAnnotation, "ACC_ANNOTATION"},
	{classfile.AccEnum, "ACC_ENUM"},
}

var fieldFlags = []flagName{
	{classfile.AccPublic, "ACC_PUBLIC"},
	{classfile.AccPrivate, "ACC_PRIVATE"},
	{classfile.AccProtected, "ACC_PROTECTED"},
	{classfile.AccStatic, "ACC_STATIC"},
	{classfile.AccFinal, "ACC_FINAL"},
	{classfile.AccVolatile, "ACC_VOLATILE"},
	{classfile.AccTransient, "ACC_TRANSIENT"},
	{classfile.AccSynthetic, "ACC_SYNTHETIC"},
	{classfile.AccEnum, "ACC_ENUM"},
}

var methodFlags = []flagName{
	{classfile.AccPublic, "ACC_PUBLIC"},
	{classfile.AccPrivate, "ACC_PRIVATE"},
	{classfile.AccProtected, "ACC_PROTECTED"},
	{classfile.AccStatic, "ACC_STATIC"},
	{classfile.AccFinal, "ACC_FINAL"},
	{classfile.AccSynchronized, "ACC_SYNCHRONIZED"},
	{classfile.AccBridge, "ACC_BRIDGE"},
	{classfile.AccVarargs, "ACC_VARARGS"},
	{classfile.AccNative, "ACC_NATIVE"},
	{classfile.AccAbstract, "ACC_ABSTRACT"},
	{classfile.AccStrict, "ACC_STRICT"},
	{classfile.AccSynthetic, "ACC_SYNTHETIC"},
}

// describeFlags renders flags as "0x0021 (ACC_PUBLIC, ACC_SUPER)".
func describeFlags(flags uint16, names []flagName) string {
	var set []string
	for _, n := range names {
		if flags&n.flag != 0 {
			set = append(set, n.name)
		}
	}
	return fmt.Sprintf("0x%04x (%s)", flags, strings.Join(set, ", "))
}

// printClass writes a javap-style description of cf.
func printClass(w io.Writer, cf *classfile.ClassFile, opts printOptions) error {
	cp := cf.ConstantPool
	name, err := cf.ThisClassName()
	if err != nil {
		return err
	}
	super, err := cf.SuperClassName()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "  version %s\n", cf.Version())
	fmt.Fprintf(w, "  flags: %s\n", describeFlags(cf.AccessFlags, classFlags))
	fmt.Fprintf(w, "class %s", name)
	if super != "" {
		fmt.Fprintf(w, " extends %s", super)
	}
	if len(cf.Interfaces) > 0 {
		names := make([]string, len(cf.Interfaces))
		for i, idx := range cf.Interfaces {
			names[i] = cp.Describe(idx)
		}
		fmt.Fprintf(w, " implements %s", strings.Join(names, ", "))
	}
	fmt.Fprintln(w)

	if opts.Pool {
		fmt.Fprintln(w, "Constant pool:")
		for i := 1; i < cp.Count(); i++ {
			c := cp.Entries[i]
			if c.Tag == classfile.TagUnusable {
				continue
			}
			fmt.Fprintf(w, "%6s = %-18s %s\n", fmt.Sprintf("#%d", i), c.Tag, cp.Describe(uint16(i)))
		}
	}

	fmt.Fprintln(w, "{")
	for i := range cf.Fields {
		f := &cf.Fields[i]
		fname, err := cf.FieldName(f)
		if err != nil {
			return err
		}
		desc, err := cf.FieldDescriptor(f)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %s %s;\n", fname, desc)
		fmt.Fprintf(w, "    flags: %s\n\n", describeFlags(f.AccessFlags, fieldFlags))
	}

	for i := range cf.Methods {
		m := &cf.Methods[i]
		mname, err := cf.MethodName(m)
		if err != nil {
			return err
		}
		desc, err := cf.MethodDescriptor(m)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %s%s;\n", mname, desc)
		fmt.Fprintf(w, "    flags: %s\n", describeFlags(m.AccessFlags, methodFlags))
		if opts.Code && m.Code != nil {
			if err := printCode(w, m.Code, cp); err != nil {
				return fmt.Errorf("%s%s: %w", mname, desc, err)
			}
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "}")
	return nil
}

func printCode(w io.Writer, code *classfile.CodeAttribute, cp *classfile.ConstantPool) error {
	instrs, err := bytecode.Decode(code.Code)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "    Code:")
	fmt.Fprintf(w, "      stack=%d, locals=%d\n", code.MaxStack, code.MaxLocals)
	for _, line := range strings.SplitAfter(bytecode.Listing(instrs, cp), "\n") {
		if line != "" {
			fmt.Fprintf(w, "    %s", line)
		}
	}
	if len(code.ExceptionTable) > 0 {
		fmt.Fprintln(w, "      Exception table:")
		fmt.Fprintln(w, "         from    to  target type")
		for _, h := range code.ExceptionTable {
			kind := "any"
			if h.CatchType != 0 {
				kind = cp.Describe(h.CatchType)
			}
			fmt.Fprintf(w, "        %5d %5d %5d   %s\n", h.StartPC, h.EndPC, h.HandlerPC, kind)
		}
	}
	return nil
}
