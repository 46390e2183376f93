package swiftast

import (
	"strings"

	"github.com/teranos/jsongen/errors"
	"github.com/teranos/jsongen/sexp"
)

// Names of hand-written functions that count as overrides.
const (
	DecoderFunc = "decodeJson"
	EncoderFunc = "encodeJson"
)

// GlobalAttrs is what the whole input set declares, built once per run.
// An override in one file suppresses generation for that type everywhere.
type GlobalAttrs struct {
	TypeAliases      map[string]string
	TypesWithDecoder map[string]bool
	TypesWithEncoder map[string]bool
	// ConstructorSignatures maps a qualified type name to the signature
	// keys of its hand-written initializers.
	ConstructorSignatures map[string]map[string]bool
	// EnumRawTypes maps every raw-value enum to its backing type.
	EnumRawTypes map[string]string
}

// BuildGlobals scans every parsed file. Aliases are collected first since
// constructor signatures and field types resolve through them.
func BuildGlobals(files []*sexp.Node) (*GlobalAttrs, error) {
	g := &GlobalAttrs{
		TypeAliases:           make(map[string]string),
		TypesWithDecoder:      make(map[string]bool),
		TypesWithEncoder:      make(map[string]bool),
		ConstructorSignatures: make(map[string]map[string]bool),
		EnumRawTypes:          make(map[string]string),
	}

	for _, f := range files {
		if err := g.collectAliases(f); err != nil {
			return nil, err
		}
	}

	for _, f := range files {
		if err := g.collectMembers(f, ""); err != nil {
			return nil, err
		}
		for _, ext := range f.Children(tagExtension) {
			name, err := extensionName(ext)
			if err != nil {
				return nil, err
			}
			if err := g.record(name, ext); err != nil {
				return nil, err
			}
		}

		decls, err := Extract(f, g.TypeAliases)
		if err != nil {
			return nil, err
		}
		for _, e := range decls.Enums {
			g.EnumRawTypes[e.QualifiedName] = e.RawTypeName
		}
	}

	return g, nil
}

// NeedsDecoder reports whether no hand-written decoder exists for name.
func (g *GlobalAttrs) NeedsDecoder(name string) bool {
	return !g.TypesWithDecoder[name]
}

// NeedsEncoder reports whether no hand-written encoder exists for name.
func (g *GlobalAttrs) NeedsEncoder(name string) bool {
	return !g.TypesWithEncoder[name]
}

// NeedsConstructor reports whether the memberwise initializer is missing.
// A struct without fields and without initializers is already satisfied.
func (g *GlobalAttrs) NeedsConstructor(s Struct) bool {
	existing := g.ConstructorSignatures[s.QualifiedName]
	if len(s.Fields) == 0 && len(existing) == 0 {
		return false
	}
	return !existing[SignatureKey(s.Fields)]
}

// IsStringKeyed reports whether t may be used as a JSON object key:
// String itself or an enum backed by String.
func (g *GlobalAttrs) IsStringKeyed(t Type) bool {
	if t.BaseName == "String" {
		return true
	}
	return g.EnumRawTypes[t.Name()] == "String" || g.EnumRawTypes[t.BaseName] == "String"
}

// SignatureKey identifies an initializer by its labels and parameter types,
// e.g. "name:age:||String, Int".
func SignatureKey(params []VarDecl) string {
	var labels strings.Builder
	types := make([]string, len(params))
	for i, p := range params {
		labels.WriteString(p.Name)
		labels.WriteByte(':')
		types[i] = p.Type.String()
	}
	return labels.String() + "||" + strings.Join(types, ", ")
}

func (g *GlobalAttrs) collectAliases(file *sexp.Node) error {
	for _, alias := range file.Children(tagTypeAlias) {
		name, err := declName(alias)
		if err != nil {
			return err
		}
		// Dumps print the alias' own metatype first and the aliased type second.
		targets := alias.AttrValues("type")
		switch len(targets) {
		case 0:
			return &sexp.ShapeError{Tag: tagTypeAlias, Want: "attribute type"}
		case 1:
			g.TypeAliases[name] = targets[0]
		default:
			g.TypeAliases[name] = targets[1]
		}
	}
	return nil
}

// collectMembers records overrides declared inside struct and enum bodies,
// recursing into nested declarations.
func (g *GlobalAttrs) collectMembers(container *sexp.Node, prefix string) error {
	for _, child := range container.AllChildren() {
		if child.Tag() != tagStruct && child.Tag() != tagEnum {
			continue
		}
		header, err := declName(child)
		if err != nil {
			return err
		}
		name := qualify(prefix, baseName(header))
		if err := g.record(name, child); err != nil {
			return err
		}
		if err := g.collectMembers(child, name); err != nil {
			return err
		}
	}
	return nil
}

func (g *GlobalAttrs) record(typeName string, body *sexp.Node) error {
	for _, fn := range body.Children(tagFunc) {
		name, err := declName(fn)
		if err != nil {
			return err
		}
		if i := strings.IndexByte(name, '('); i >= 0 {
			name = name[:i]
		}
		switch name {
		case DecoderFunc:
			g.TypesWithDecoder[typeName] = true
		case EncoderFunc:
			g.TypesWithEncoder[typeName] = true
		}
	}

	for _, ctor := range body.Children(tagConstructor) {
		if ctor.HasFlag("implicit") {
			continue
		}
		key, err := g.constructorKey(ctor)
		if err != nil {
			return errors.Wrapf(err, "initializer of %s", typeName)
		}
		if g.ConstructorSignatures[typeName] == nil {
			g.ConstructorSignatures[typeName] = make(map[string]bool)
		}
		g.ConstructorSignatures[typeName][key] = true
	}
	return nil
}

const unlabeled = "_"

// constructorKey reads the last parameter list; older dumps put an
// implicit self list before it.
func (g *GlobalAttrs) constructorKey(ctor *sexp.Node) (string, error) {
	lists := ctor.Children(tagParamList)
	if len(lists) == 0 {
		return SignatureKey(nil), nil
	}

	var params []VarDecl
	for _, p := range lists[len(lists)-1].Children(tagParam) {
		if _, err := declName(p); err != nil {
			return "", err
		}
		// The key holds argument labels. A parameter declared as
		// `_ name: T` has no apiName and is called without a label.
		name := unlabeled
		if label, ok := p.Attr("apiName"); ok && label != "" {
			name = label
		}
		raw, err := p.MustAttr("type")
		if err != nil {
			return "", err
		}
		t, err := Resolve(raw, g.TypeAliases)
		if err != nil {
			return "", err
		}
		params = append(params, VarDecl{Name: name, Type: t})
	}
	return SignatureKey(params), nil
}

// extensionName returns the extended type's base name. Unquoted generic
// headers arrive split over several tokens, e.g. Box<T, and U>, and are
// re-joined until the angle brackets balance.
func extensionName(ext *sexp.Node) (string, error) {
	values := ext.Values()
	if len(values) == 0 {
		return "", &sexp.ShapeError{Tag: tagExtension, Want: "extended type"}
	}

	full := sexp.Unquote(values[0].String())
	for i := 1; i < len(values) && strings.Count(full, "<") > strings.Count(full, ">"); i++ {
		full += " " + sexp.Unquote(values[i].String())
	}
	return baseName(full), nil
}
