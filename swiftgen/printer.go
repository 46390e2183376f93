// Package swiftgen renders Swift extensions with JSON decoders, encoders
// and memberwise initializers for the declarations that lack them.
//
// Generated code targets the Statham runtime (JsonDecoder, JsonDecodeError).
package swiftgen

import (
	"fmt"
	"strings"
	"time"

	"github.com/teranos/jsongen/swiftast"
)

// HeaderLines is the size of the provenance banner. It carries a timestamp
// and is ignored when comparing against existing files.
const HeaderLines = 6

// ProjectURL is linked from every generated header.
const ProjectURL = "https://github.com/teranos/jsongen"

const stringKeyWarning = "/* WARNING: Json only supports Strings as keys in dictionaries */"

// Unit is one declaration that needs at least one generated member.
type Unit struct {
	Struct      *swiftast.Struct
	Enum        *swiftast.Enum
	Decoder     bool
	Encoder     bool
	Constructor bool
}

// Name returns the qualified name of the declaration.
func (u Unit) Name() string {
	if u.Enum != nil {
		return u.Enum.QualifiedName
	}
	return u.Struct.QualifiedName
}

// Plan decides what each declaration is missing. Enums are listed before
// structs; declarations that need nothing are left out.
func Plan(decls *swiftast.Declarations, g *swiftast.GlobalAttrs) []Unit {
	var units []Unit
	for i := range decls.Enums {
		e := &decls.Enums[i]
		u := Unit{
			Enum:    e,
			Decoder: g.NeedsDecoder(e.QualifiedName),
			Encoder: g.NeedsEncoder(e.QualifiedName),
		}
		if u.Decoder || u.Encoder {
			units = append(units, u)
		}
	}
	for i := range decls.Structs {
		s := &decls.Structs[i]
		u := Unit{
			Struct:      s,
			Decoder:     g.NeedsDecoder(s.QualifiedName),
			Encoder:     g.NeedsEncoder(s.QualifiedName),
			Constructor: g.NeedsConstructor(*s),
		}
		if u.Decoder || u.Encoder || u.Constructor {
			units = append(units, u)
		}
	}
	return units
}

// Header returns the provenance banner for a generated file.
func Header(outbase string, at time.Time) string {
	lines := []string{
		"//",
		"//  " + outbase,
		"//",
		"//  Auto generated by jsongen on " + at.UTC().Format(time.RFC1123),
		"//  See for details: " + ProjectURL,
		"//",
	}
	return strings.Join(lines, "\n")
}

// Body renders the units. It is empty when there is nothing to generate.
func Body(units []Unit, g *swiftast.GlobalAttrs) string {
	if len(units) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\nimport Foundation\nimport Statham\n")

	for _, u := range units {
		var members []string
		if u.Enum != nil {
			if u.Decoder {
				members = append(members, enumDecoder(u.Enum))
			}
			if u.Encoder {
				members = append(members, enumEncoder(u.Enum))
			}
		} else {
			if u.Decoder {
				members = append(members, structDecoder(u.Struct))
			}
			if u.Constructor {
				members = append(members, structConstructor(u.Struct))
			}
			if u.Encoder {
				members = append(members, structEncoder(u.Struct, g))
			}
		}

		sb.WriteString(fmt.Sprintf("\nextension %s {\n", Escape(u.Name())))
		sb.WriteString(strings.Join(members, "\n\n"))
		sb.WriteString("\n}\n")
	}

	return sb.String()
}

// RenderFile renders the complete companion file for one source file.
func RenderFile(outbase string, at time.Time, decls *swiftast.Declarations, g *swiftast.GlobalAttrs) (string, []Unit) {
	units := Plan(decls, g)
	header := Header(outbase, at)
	body := Body(units, g)
	if body == "" {
		return header, units
	}
	return header + "\n" + body, units
}

func enumDecoder(e *swiftast.Enum) string {
	name := Escape(e.QualifiedName)
	return lines(1,
		fmt.Sprintf("static func decodeJson(json: Any) throws -> %s {", name),
		fmt.Sprintf("  guard let rawValue = json as? %s else {", Escape(e.RawTypeName)),
		fmt.Sprintf("    throw JsonDecodeError.wrongType(rawValue: json, expectedType: %q)", e.RawTypeName),
		"  }",
		fmt.Sprintf("  guard let value = %s(rawValue: rawValue) else {", name),
		fmt.Sprintf("    throw JsonDecodeError.wrongEnumRawValue(rawValue: rawValue, enumType: %q)", e.QualifiedName),
		"  }",
		"",
		"  return value",
		"}",
	)
}

func enumEncoder(e *swiftast.Enum) string {
	return lines(1,
		fmt.Sprintf("func encodeJson() -> %s {", Escape(e.RawTypeName)),
		"  return rawValue",
		"}",
	)
}

func structConstructor(s *swiftast.Struct) string {
	params := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		params[i] = f.Name + ": " + f.Type.String()
	}

	out := []string{fmt.Sprintf("init(%s) {", strings.Join(params, ", "))}
	for _, f := range s.Fields {
		out = append(out, fmt.Sprintf("  self.%s = %s", f.Name, Escape(f.Name)))
	}
	out = append(out, "}")
	return lines(1, out...)
}

func structDecoder(s *swiftast.Struct) string {
	name := Escape(s.QualifiedName)
	body := decoderBody(s)

	if !s.IsGeneric() {
		out := []string{fmt.Sprintf("static func decodeJson(json: Any) throws -> %s {", name)}
		out = append(out, indent(1, body)...)
		out = append(out, "}")
		return lines(1, out...)
	}

	// Generic records take one decoder per type parameter and return the
	// concrete decoder.
	params := make([]string, len(s.TypeParameters))
	for i, p := range s.TypeParameters {
		params[i] = fmt.Sprintf("_ decode%s: @escaping (Any) throws -> %s", p, Escape(p))
	}
	out := []string{
		fmt.Sprintf("static func decodeJson(%s) -> (Any) throws -> %s {", strings.Join(params, ", "), name),
		"  return { json in",
	}
	out = append(out, indent(2, body)...)
	out = append(out, "  }", "}")
	return lines(1, out...)
}

func decoderBody(s *swiftast.Struct) []string {
	if len(s.Fields) == 0 {
		return []string{fmt.Sprintf("return %s()", Escape(s.QualifiedName))}
	}

	out := []string{"let decoder = try JsonDecoder(json: json)", ""}
	for _, f := range s.Fields {
		out = append(out, fmt.Sprintf("let _%s = try decoder.decode(%q, decoder: %s)",
			f.Name, f.Name, decodeFunction(f.Type, s)))
	}
	out = append(out, "")

	bindings := make([]string, len(s.Fields))
	args := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		bindings[i] = fmt.Sprintf("let %s = _%s", Escape(f.Name), f.Name)
		args[i] = f.Name + ": " + Escape(f.Name)
	}

	if len(bindings) == 1 {
		out = append(out, fmt.Sprintf("guard %s else {", bindings[0]))
	} else {
		out = append(out, "guard")
		out = append(out, indent(1, []string{strings.Join(bindings, ",\n")})...)
		out = append(out, "else {")
	}
	out = append(out,
		fmt.Sprintf("  throw JsonDecodeError.structErrors(type: %q, errors: decoder.errors)", s.QualifiedName),
		"}",
		"",
		fmt.Sprintf("return %s(%s)", Escape(s.QualifiedName), strings.Join(args, ", ")),
	)
	return out
}

// decodeFunction returns the decoder expression for a field type: opaque
// values pass through, type parameters use the caller-supplied decoder,
// everything else its own decodeJson applied to its arguments' decoders.
func decodeFunction(t swiftast.Type, s *swiftast.Struct) string {
	if t.IsOpaque() {
		return "{ $0 }"
	}

	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = decodeFunction(a, s)
	}
	argList := ""
	if len(args) > 0 {
		argList = "(" + strings.Join(args, ", ") + ")"
	}

	name := t.Name()
	if s.HasTypeParameter(name) {
		return "decode" + name + argList
	}
	return name + ".decodeJson" + argList
}

func structEncoder(s *swiftast.Struct, g *swiftast.GlobalAttrs) string {
	params := make([]string, len(s.TypeParameters))
	for i, p := range s.TypeParameters {
		params[i] = fmt.Sprintf("_ encode%s: (%s) -> Any", p, Escape(p))
	}

	out := []string{fmt.Sprintf("func encodeJson(%s) -> [String: Any] {", strings.Join(params, ", "))}

	if len(s.Fields) == 0 {
		out = append(out, "  return [:]", "}")
		return lines(1, out...)
	}

	body := []string{"var dict: [String: Any] = [:]", ""}
	for _, f := range s.Fields {
		if isDictionary(f.Type) && !g.IsStringKeyed(f.Type.Args[0]) {
			body = append(body, stringKeyWarning)
		}
		body = append(body, fmt.Sprintf("dict[%q] = %s", f.Name, encodeFunction(Escape(f.Name), f.Type, s)))
	}
	body = append(body, "", "return dict")

	out = append(out, indent(1, body)...)
	out = append(out, "}")
	return lines(1, out...)
}

func encodeFunction(value string, t swiftast.Type, s *swiftast.Struct) string {
	if t.IsOpaque() {
		return value
	}
	if s.HasTypeParameter(t.BaseName) {
		return fmt.Sprintf("encode%s(%s)", t.BaseName, value)
	}

	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = "{ " + encodeFunction("$0", a, s) + " }"
	}
	return fmt.Sprintf("%s.encodeJson(%s)", value, strings.Join(args, ", "))
}

func isDictionary(t swiftast.Type) bool {
	return t.BaseName == swiftast.Dictionary && len(t.Args) == 2
}

// indent prefixes every non-empty line with level*2 spaces. Entries may
// hold several lines separated by newlines.
func indent(level int, in []string) []string {
	pad := strings.Repeat("  ", level)
	var out []string
	for _, entry := range in {
		for _, l := range strings.Split(entry, "\n") {
			if l != "" {
				l = pad + l
			}
			out = append(out, l)
		}
	}
	return out
}

func lines(level int, in ...string) string {
	return strings.Join(indent(level, in), "\n")
}
