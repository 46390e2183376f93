package swiftgen

// keywords are Swift reserved words that need backticks when used as
// identifiers.
var keywords = map[string]bool{
	// declarations
	"associatedtype": true, "class": true, "deinit": true, "enum": true,
	"extension": true, "fileprivate": true, "func": true, "import": true,
	"init": true, "inout": true, "internal": true, "let": true, "open": true,
	"operator": true, "private": true, "protocol": true, "public": true,
	"static": true, "struct": true, "subscript": true, "typealias": true,
	"var": true,

	// statements
	"break": true, "case": true, "continue": true, "default": true,
	"defer": true, "do": true, "else": true, "fallthrough": true, "for": true,
	"guard": true, "if": true, "in": true, "repeat": true, "return": true,
	"switch": true, "where": true, "while": true,

	// expressions and types
	"as": true, "catch": true, "false": true, "is": true,
	"nil": true, "rethrows": true, "super": true, "self": true, "Self": true,
	"throw": true, "throws": true, "true": true, "try": true,
	"__COLUMN__": true, "__FILE__": true, "__FUNCTION__": true, "__LINE__": true,
}

// Escape wraps name in backticks when it is a reserved word.
func Escape(name string) string {
	if keywords[name] {
		return "`" + name + "`"
	}
	return name
}
