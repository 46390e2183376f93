package swiftast

import (
	"strings"

	"github.com/teranos/jsongen/errors"
	"github.com/teranos/jsongen/sexp"
)

// Tags of the dump forms the extractor reads.
const (
	tagStruct      = "struct_decl"
	tagEnum        = "enum_decl"
	tagExtension   = "extension_decl"
	tagVar         = "var_decl"
	tagFunc        = "func_decl"
	tagConstructor = "constructor_decl"
	tagTypeAlias   = "typealias"
	tagParamList   = "parameter_list"
	tagParam       = "parameter"
)

// VarDecl is one stored property.
type VarDecl struct {
	Name string
	Type Type
}

// Struct is a record declaration with its stored properties.
type Struct struct {
	QualifiedName  string
	TypeParameters []string
	Fields         []VarDecl
}

// IsGeneric reports whether the struct declares type parameters.
func (s Struct) IsGeneric() bool {
	return len(s.TypeParameters) > 0
}

// HasTypeParameter reports whether name is one of the struct's own type parameters.
func (s Struct) HasTypeParameter(name string) bool {
	for _, p := range s.TypeParameters {
		if p == name {
			return true
		}
	}
	return false
}

// Enum is an enumeration with a raw backing type.
type Enum struct {
	QualifiedName string
	RawTypeName   string
}

// Declarations holds what one file declares, each list in traversal order.
type Declarations struct {
	Structs []Struct
	Enums   []Enum
}

// Extract walks one parsed source_file tree. Nested declarations are
// flattened with dot-qualified names, parents before children.
// Enums without a raw backing type are not returned.
func Extract(file *sexp.Node, aliases map[string]string) (*Declarations, error) {
	decls := &Declarations{}
	if err := decls.walk(file, "", aliases); err != nil {
		return nil, err
	}
	return decls, nil
}

func (d *Declarations) walk(container *sexp.Node, prefix string, aliases map[string]string) error {
	for _, child := range container.AllChildren() {
		switch child.Tag() {
		case tagStruct:
			s, err := newStruct(child, prefix, aliases)
			if err != nil {
				return err
			}
			d.Structs = append(d.Structs, s)
			if err := d.walk(child, s.QualifiedName, aliases); err != nil {
				return err
			}

		case tagEnum:
			header, err := declName(child)
			if err != nil {
				return err
			}
			name := qualify(prefix, baseName(header))
			if raw := rawType(child); raw != "" {
				d.Enums = append(d.Enums, Enum{QualifiedName: name, RawTypeName: raw})
			}
			if err := d.walk(child, name, aliases); err != nil {
				return err
			}
		}
	}
	return nil
}

func newStruct(n *sexp.Node, prefix string, aliases map[string]string) (Struct, error) {
	header, err := declName(n)
	if err != nil {
		return Struct{}, err
	}

	s := Struct{
		QualifiedName:  qualify(prefix, baseName(header)),
		TypeParameters: typeParameters(header),
	}

	for _, v := range n.Children(tagVar) {
		if !isStored(v) {
			continue
		}
		name, err := declName(v)
		if err != nil {
			return Struct{}, err
		}
		raw, err := v.MustAttr("type")
		if err != nil {
			return Struct{}, err
		}
		t, err := Resolve(raw, aliases)
		if err != nil {
			return Struct{}, errors.Wrapf(err, "field %s.%s", s.QualifiedName, name)
		}
		s.Fields = append(s.Fields, VarDecl{Name: name, Type: t})
	}

	return s, nil
}

// isStored reports whether a var_decl is backed by storage. Older dumps say
// storage_kind=stored; newer ones only record readImpl=stored.
func isStored(v *sexp.Node) bool {
	if v.HasFlag("static") || v.HasFlag("type_static") {
		return false
	}
	if kind, ok := v.Attr("storage_kind"); ok {
		return kind == "stored"
	}
	read, ok := v.Attr("readImpl")
	return ok && read == "stored"
}

// rawType returns the first type after "inherits:", e.g. String for
// (enum_decl "Color" type='Color.Type' inherits: String, Equatable).
func rawType(n *sexp.Node) string {
	values := n.Values()
	for i, v := range values {
		if v.String() != "inherits:" || i+1 >= len(values) {
			continue
		}
		return strings.TrimSuffix(sexp.Unquote(values[i+1].String()), ",")
	}
	return ""
}

// declName returns the declaration's name: the first quoted positional
// value, falling back to the first positional value. Newer dumps put flags
// such as "implicit" before the name.
func declName(n *sexp.Node) (string, error) {
	for _, v := range n.Values() {
		if s := v.String(); strings.HasPrefix(s, `"`) {
			return sexp.Unquote(s), nil
		}
	}
	return n.Name(0)
}

// baseName strips every <...> group: "Pair<A, B>" becomes "Pair".
func baseName(header string) string {
	var b strings.Builder
	depth := 0
	for _, r := range header {
		switch {
		case r == '<':
			depth++
		case r == '>' && depth > 0:
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// typeParameters returns the generic parameter names of a declaration
// header, without constraints: "Box<T: Equatable, U>" gives [T U].
func typeParameters(header string) []string {
	open := strings.IndexByte(header, '<')
	end := strings.LastIndexByte(header, '>')
	if open < 0 || end < open {
		return nil
	}
	var params []string
	for _, part := range splitArgs(header[open+1 : end]) {
		if i := strings.IndexByte(part, ':'); i >= 0 {
			part = part[:i]
		}
		if part = strings.TrimSpace(part); part != "" {
			params = append(params, part)
		}
	}
	return params
}

func qualify(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
