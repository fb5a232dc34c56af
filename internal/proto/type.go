package proto

import (
	"slices"
	"strings"
)

//go:generate go tool stringer -type=TypeKind -output=kind_string.go

// TypeKind is the coarse classification of a C type string.
type TypeKind int

const (
	KindUnknown TypeKind = iota

	// KindPrimitive covers plain C types such as "int" or "unsigned long long".
	KindPrimitive
	// KindStruct covers tagged struct types such as "struct ibv_mr *".
	KindStruct
	// KindVoid covers the exact type string "void" (no pointer suffix).
	KindVoid
)

// TypeDesc is the classified form of one C type string. Classification is
// best-effort: shapes the generator does not understand (pointer depth above
// two, function pointers, arrays) yield a descriptor with all flags false
// rather than an error. Callers must not assume validation occurred.
type TypeDesc struct {
	// Raw is the original type string, components separated by single spaces.
	Raw string
	// Kind is the coarse classification of Raw.
	Kind TypeKind
	// StructTag is the struct tag name. Set iff Kind == KindStruct.
	StructTag string
	// PointerDepth is 1 for "*", 2 for "**", otherwise 0.
	PointerDepth int

	tokens []string
}

// ParseType classifies a raw C type string whose components are separated by
// single spaces, e.g. "struct ibv_mr *", "unsigned long long", "void".
func ParseType(raw string) TypeDesc {
	d := TypeDesc{Raw: raw, tokens: strings.Split(raw, " ")}

	switch {
	case raw == "void":
		d.Kind = KindVoid
	case d.tokens[0] == "struct":
		d.Kind = KindStruct
		if len(d.tokens) > 1 {
			d.StructTag = d.tokens[1]
		}
	case strings.TrimSpace(raw) != "":
		d.Kind = KindPrimitive
	}

	switch d.tokens[len(d.tokens)-1] {
	case "*":
		d.PointerDepth = 1
	case "**":
		d.PointerDepth = 2
	}

	return d
}

// IsStruct returns true if the type is a tagged struct type.
func (d TypeDesc) IsStruct() bool {
	return d.Kind == KindStruct
}

// IsVoid returns true if the full type string is exactly "void".
func (d TypeDesc) IsVoid() bool {
	return d.Kind == KindVoid
}

// IsPointer returns true for singly-indirected types ("... *").
func (d TypeDesc) IsPointer() bool {
	return d.PointerDepth == 1
}

// IsPointerPointer returns true for doubly-indirected types ("... **").
// These cannot be marshaled automatically across the guest/host boundary;
// emitters generate a manual-completion placeholder for them.
func (d TypeDesc) IsPointerPointer() bool {
	return d.PointerDepth == 2
}

// IsCharArray returns true for singly-indirected char data ("char *",
// "const char *"). The pointee length is not part of the type, so generated
// code passes these as raw pointers.
func (d TypeDesc) IsCharArray() bool {
	return d.IsPointer() && slices.Contains(d.tokens, "char")
}
