package swiftgen

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qjtest "github.com/teranos/jsongen/internal/testing"
	"github.com/teranos/jsongen/sexp"
	"github.com/teranos/jsongen/swiftast"
)

var fixedTime = time.Date(2026, 10, 19, 12, 30, 0, 0, time.UTC)

// load parses dumps, builds globals over all of them and extracts the
// declarations of the first one.
func load(t *testing.T, dumps ...string) (*swiftast.Declarations, *swiftast.GlobalAttrs) {
	t.Helper()
	files := make([]*sexp.Node, len(dumps))
	for i, d := range dumps {
		n, err := sexp.Parse(d)
		require.NoError(t, err)
		files[i] = n
	}
	g, err := swiftast.BuildGlobals(files)
	require.NoError(t, err)
	decls, err := swiftast.Extract(files[0], g.TypeAliases)
	require.NoError(t, err)
	return decls, g
}

func TestRenderFile_EmptyRecord(t *testing.T) {
	decls, g := load(t, `(source_file
  (struct_decl "Empty" type='Empty.Type' access=internal))`)

	text, units := RenderFile("Empty+JsonGen.swift", fixedTime, decls, g)
	require.Len(t, units, 1)
	assert.True(t, units[0].Decoder)
	assert.True(t, units[0].Encoder)
	assert.False(t, units[0].Constructor, "zero fields and no initializers counts as satisfied")

	want := `//
//  Empty+JsonGen.swift
//
//  Auto generated by jsongen on Mon, 19 Oct 2026 12:30:00 UTC
//  See for details: https://github.com/teranos/jsongen
//

import Foundation
import Statham

extension Empty {
  static func decodeJson(json: Any) throws -> Empty {
    return Empty()
  }

  func encodeJson() -> [String: Any] {
    return [:]
  }
}
`
	assert.Equal(t, want, text)
}

func TestRenderFile_EmptyRecordWithOtherInitializer(t *testing.T) {
	decls, g := load(t, `(source_file
  (struct_decl "Empty" type='Empty.Type' access=internal
    (constructor_decl "init(seed:)" type='Empty.Type -> (seed: Int) -> Empty' access=internal designated
      (parameter_list
        (parameter "self" type='inout Empty' mutable))
      (parameter_list
        (parameter "seed" apiName=seed type='Int' interface type='Int')))))`)

	body := Body(Plan(decls, g), g)
	assert.Contains(t, body, "  init() {\n  }\n")
}

func TestRenderFile_GenericBox(t *testing.T) {
	decls, g := load(t, `(source_file
  (struct_decl "Box"<T> interface type='Box<T>.Type' access=internal
    (var_decl "value" type='T' interface type='T' access=internal readImpl=stored immutable)))`)

	_, units := RenderFile("Box+JsonGen.swift", fixedTime, decls, g)
	want := `
import Foundation
import Statham

extension Box {
  static func decodeJson(_ decodeT: @escaping (Any) throws -> T) -> (Any) throws -> Box {
    return { json in
      let decoder = try JsonDecoder(json: json)

      let _value = try decoder.decode("value", decoder: decodeT)

      guard let value = _value else {
        throw JsonDecodeError.structErrors(type: "Box", errors: decoder.errors)
      }

      return Box(value: value)
    }
  }

  init(value: T) {
    self.value = value
  }

  func encodeJson(_ encodeT: (T) -> Any) -> [String: Any] {
    var dict: [String: Any] = [:]

    dict["value"] = encodeT(value)

    return dict
  }
}
`
	assert.Equal(t, want, Body(units, g))
}

func TestBody_ModelsWithCrossFileOverrides(t *testing.T) {
	decls, g := load(t, qjtest.DumpModels, qjtest.DumpOverrides)
	units := Plan(decls, g)

	require.Len(t, units, 3)
	assert.Equal(t, "Color", units[0].Name(), "enums come first")
	assert.Equal(t, "Person", units[1].Name())
	assert.Equal(t, "Person.Address", units[2].Name())

	assert.True(t, units[0].Decoder)
	assert.False(t, units[0].Encoder, "encoder written by hand in another file")
	assert.False(t, units[1].Decoder, "decoder written by hand in another file")
	assert.True(t, units[1].Constructor)
	assert.True(t, units[1].Encoder)
	assert.False(t, units[2].Constructor, "explicit init(street:) matches")

	body := Body(units, g)
	assert.NotContains(t, body, "func decodeJson(json: Any) throws -> Person {")
	assert.NotContains(t, body, "func encodeJson() -> String")

	wantColor := `extension Color {
  static func decodeJson(json: Any) throws -> Color {
    guard let rawValue = json as? String else {
      throw JsonDecodeError.wrongType(rawValue: json, expectedType: "String")
    }
    guard let value = Color(rawValue: rawValue) else {
      throw JsonDecodeError.wrongEnumRawValue(rawValue: rawValue, enumType: "Color")
    }

    return value
  }
}
`
	assert.Contains(t, body, wantColor)

	wantPerson := `extension Person {
  init(id: ID, name: String, tags: [String], nick: String?, favorites: [Color : Int]) {
    self.id = id
    self.name = name
    self.tags = tags
    self.nick = nick
    self.favorites = favorites
  }

  func encodeJson() -> [String: Any] {
    var dict: [String: Any] = [:]

    dict["id"] = id.encodeJson()
    dict["name"] = name.encodeJson()
    dict["tags"] = tags.encodeJson({ $0.encodeJson() })
    dict["nick"] = nick.encodeJson({ $0.encodeJson() })
    dict["favorites"] = favorites.encodeJson({ $0.encodeJson() }, { $0.encodeJson() })

    return dict
  }
}
`
	assert.Contains(t, body, wantPerson)
	assert.NotContains(t, body, stringKeyWarning, "String-backed enum keys are allowed")
}

func TestBody_StructDecoderWithSeveralFields(t *testing.T) {
	decls, g := load(t, qjtest.DumpModels)
	units := Plan(decls, g)
	require.Len(t, units, 3)

	want := `  static func decodeJson(json: Any) throws -> Person {
    let decoder = try JsonDecoder(json: json)

    let _id = try decoder.decode("id", decoder: ID.decodeJson)
    let _name = try decoder.decode("name", decoder: String.decodeJson)
    let _tags = try decoder.decode("tags", decoder: Array.decodeJson(String.decodeJson))
    let _nick = try decoder.decode("nick", decoder: Optional.decodeJson(String.decodeJson))
    let _favorites = try decoder.decode("favorites", decoder: Dictionary.decodeJson(Color.decodeJson, Int.decodeJson))

    guard
      let id = _id,
      let name = _name,
      let tags = _tags,
      let nick = _nick,
      let favorites = _favorites
    else {
      throw JsonDecodeError.structErrors(type: "Person", errors: decoder.errors)
    }

    return Person(id: id, name: name, tags: tags, nick: nick, favorites: favorites)
  }`
	assert.Contains(t, Body(units, g), want)
}

func TestBody_NestedStructUsesQualifiedName(t *testing.T) {
	decls, g := load(t, qjtest.DumpModels)
	body := Body(Plan(decls, g), g)

	assert.Contains(t, body, "extension Person.Address {\n  static func decodeJson(json: Any) throws -> Person.Address {")
	assert.Contains(t, body, `throw JsonDecodeError.structErrors(type: "Person.Address", errors: decoder.errors)`)
	assert.NotContains(t, body, "init(street: String)")
}

func TestBody_DictionaryKeyWarning(t *testing.T) {
	decls, g := load(t, `(source_file
  (enum_decl "Level" type='Level.Type' access=internal inherits: Int)
  (struct_decl "Stats" type='Stats.Type' access=internal
    (var_decl "byLevel" type='[Level : Int]' access=internal let storage_kind=stored)
    (var_decl "byName" type='[String : Int]' access=internal let storage_kind=stored)
    (var_decl "raw" type='[String : AnyJson]' access=internal let storage_kind=stored)))`)

	body := Body(Plan(decls, g), g)
	assert.Equal(t, 1, strings.Count(body, stringKeyWarning))
	assert.Contains(t, body, "    "+stringKeyWarning+"\n    dict[\"byLevel\"] = byLevel.encodeJson({ $0.encodeJson() }, { $0.encodeJson() })")
	assert.Contains(t, body, `dict["raw"] = raw.encodeJson({ $0.encodeJson() }, { $0 })`)
	assert.Contains(t, body, `decoder.decode("raw", decoder: Dictionary.decodeJson(String.decodeJson, { $0 }))`)
}

func TestBody_GenericPairWithKeywordField(t *testing.T) {
	decls, g := load(t, qjtest.DumpGeneric)
	units := Plan(decls, g)

	var pair Unit
	for _, u := range units {
		if u.Name() == "Pair" {
			pair = u
		}
	}
	require.NotNil(t, pair.Struct)

	body := Body([]Unit{pair}, g)
	assert.Contains(t, body,
		"static func decodeJson(_ decodeA: @escaping (Any) throws -> A, _ decodeB: @escaping (Any) throws -> B) -> (Any) throws -> Pair {")
	assert.Contains(t, body, `let _default = try decoder.decode("default", decoder: Array.decodeJson(decodeB))`)
	assert.Contains(t, body, "let `default` = _default")
	assert.Contains(t, body, "return Pair(first: first, default: `default`)")
	assert.Contains(t, body, "init(first: A, default: [B]) {")
	assert.Contains(t, body, "self.default = `default`")
	assert.Contains(t, body, "func encodeJson(_ encodeA: (A) -> Any, _ encodeB: (B) -> Any) -> [String: Any] {")
	assert.Contains(t, body, `dict["default"] = `+"`default`"+`.encodeJson({ encodeB($0) })`)
}

func TestRenderFile_NothingToGenerate(t *testing.T) {
	decls, g := load(t, qjtest.DumpEmpty)

	text, units := RenderFile("Empty+JsonGen.swift", fixedTime, decls, g)
	assert.Empty(t, units)
	assert.Equal(t, Header("Empty+JsonGen.swift", fixedTime), text)
	assert.Len(t, strings.Split(text, "\n"), HeaderLines)
}

func TestRenderFile_Deterministic(t *testing.T) {
	decls, g := load(t, qjtest.DumpModels, qjtest.DumpGeneric)

	first, _ := RenderFile("Models+JsonGen.swift", fixedTime, decls, g)
	second, _ := RenderFile("Models+JsonGen.swift", fixedTime.Add(time.Hour), decls, g)

	strip := func(s string) string {
		return strings.Join(strings.Split(s, "\n")[HeaderLines:], "\n")
	}
	assert.NotEqual(t, first, second)
	assert.Equal(t, strip(first), strip(second))
}

func TestEscape(t *testing.T) {
	assert.Equal(t, "`default`", Escape("default"))
	assert.Equal(t, "`self`", Escape("self"))
	assert.Equal(t, "`Self`", Escape("Self"))
	assert.Equal(t, "name", Escape("name"))
	assert.Equal(t, "Default", Escape("Default"))
}
