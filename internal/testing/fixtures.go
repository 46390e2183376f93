package testing

// Canned `swiftc -dump-ast` output shared by package tests, so no test
// needs a Swift toolchain. Older (storage_kind=) and newer (readImpl=,
// range=) dump dialects are both represented.

// DumpModels declares an alias, a raw-value enum, a record with a nested
// record, and a computed property that must be ignored.
const DumpModels = `(source_file
  (import_decl 'Foundation')
  (typealias "ID" type='ID.Type' interface type='Int' access=internal)
  (enum_decl "Color" type='Color.Type' access=internal inherits: String
    (enum_case_decl
      (enum_element_decl "red" type='(Color.Type) -> Color' access=internal))
    (enum_element_decl "red" type='(Color.Type) -> Color' access=internal))
  (struct_decl "Person" type='Person.Type' access=internal
    (var_decl "id" type='ID' access=internal let storage_kind=stored)
    (var_decl "name" type='String' access=internal let storage_kind=stored)
    (var_decl "tags" type='[String]' access=internal let storage_kind=stored)
    (var_decl "nick" type='String?' access=internal let storage_kind=stored)
    (var_decl "favorites" type='[Color : Int]' access=internal let storage_kind=stored)
    (var_decl "display" type='String' access=internal storage_kind=computed
      (func_decl "<getter for display>" type='Person -> () -> String' access=internal getter_for=display))
    (struct_decl "Address" type='Person.Address.Type' access=internal
      (var_decl "street" type='String' access=internal let storage_kind=stored)
      (constructor_decl "init(street:)" type='Person.Address.Type -> (street: String) -> Person.Address' access=internal designated
        (parameter_list
          (parameter "self" type='inout Person.Address' mutable))
        (parameter_list
          (parameter "street" apiName=street type='String' interface type='String'))))
    (constructor_decl implicit "init(id:name:tags:nick:favorites:)" type='Person.Type -> (id: ID, name: String, tags: [String], nick: String?, favorites: [Color : Int]) -> Person' access=internal designated
      (parameter_list
        (parameter "self" type='inout Person' mutable))
      (parameter_list
        (parameter "id" apiName=id type='ID' interface type='Int')
        (parameter "name" apiName=name type='String' interface type='String')
        (parameter "tags" apiName=tags type='[String]' interface type='[String]')
        (parameter "nick" apiName=nick type='String?' interface type='Optional<String>')
        (parameter "favorites" apiName=favorites type='[Color : Int]' interface type='Dictionary<Color, Int>')))))`

// DumpGeneric declares a generic record and an empty record in the newer
// dump dialect.
const DumpGeneric = `(source_file "/tmp/src/Box.swift"
  (struct_decl range=[/tmp/src/Box.swift:1:1 - line:3:1] "Box"<T> interface type='Box<T>.Type' access=internal non-resilient
    (var_decl range=[/tmp/src/Box.swift:2:7 - line:2:7] "value" type='T' interface type='T' access=internal readImpl=stored immutable))
  (struct_decl range=[/tmp/src/Box.swift:5:1 - line:5:16] "Empty" interface type='Empty.Type' access=internal non-resilient)
  (struct_decl range=[/tmp/src/Box.swift:7:1 - line:10:1] "Pair"<A: Equatable, B> interface type='Pair<A, B>.Type' access=internal non-resilient
    (var_decl range=[/tmp/src/Box.swift:8:7 - line:8:7] "first" type='A' interface type='A' access=internal readImpl=stored immutable)
    (var_decl range=[/tmp/src/Box.swift:9:7 - line:9:7] "default" type='[B]' interface type='[B]' access=internal readImpl=stored immutable)))`

// DumpOverrides hand-writes a decoder for Person and an encoder for Color
// in a different file than the declarations.
const DumpOverrides = `(source_file
  (import_decl 'Foundation')
  (extension_decl 'Person'
    (func_decl "decodeJson(json:)" type='Person.Type -> (json: Any) throws -> Person' access=internal type
      (parameter_list
        (parameter "self" type='Person.Type'))
      (parameter_list
        (parameter "json" apiName=json type='Any' interface type='Any'))))
  (extension_decl Color
    (func_decl "encodeJson()" type='Color -> () -> String' access=internal
      (parameter_list
        (parameter "self" type='Color')))))`

// DumpEmpty has no declarations at all.
const DumpEmpty = `(source_file
  (import_decl 'Foundation'))`

// DiagnosticMissingRuntime is compiler output for a file using the JSON
// runtime types without the runtime module on the search path.
const DiagnosticMissingRuntime = `/tmp/src/Models.swift:4:14: error: use of undeclared type 'AnyJson'
  let raw: AnyJson
           ^~~~~~~`
