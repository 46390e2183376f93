// Package swiftast reconstructs Swift declarations from parsed -dump-ast
// trees: stored-property records, raw-value enums, and the table of
// hand-written overrides that suppress generation.
package swiftast

import (
	"regexp"
	"strings"

	"github.com/teranos/jsongen/errors"
)

// ErrAliasCycle is returned when type aliases refer back to themselves.
var ErrAliasCycle = errors.New("type alias cycle")

// ErrEmptyType is returned when a type string, or any part of it such as
// an array element or generic argument, is empty.
var ErrEmptyType = errors.New("empty type name")

// Base names the resolver produces for sugared types.
const (
	Optional   = "Optional"
	Array      = "Array"
	Dictionary = "Dictionary"
)

// opaqueNames hold any JSON-compatible value and are passed through untouched.
var opaqueNames = map[string]bool{
	"Any":       true,
	"AnyObject": true,
	"AnyJson":   true,
}

var genericPattern = regexp.MustCompile(`^([^<>]+)<(.*)>$`)

// Type is a resolved type reference.
type Type struct {
	BaseName string
	// Alias is the alias name the type was written as, if any.
	// Rendering prefers it over the expansion.
	Alias string
	Args  []Type
}

// Name returns the alias if set, otherwise the base name.
func (t Type) Name() string {
	if t.Alias != "" {
		return t.Alias
	}
	return t.BaseName
}

// Equal compares by rendered name and arguments.
func (t Type) Equal(other Type) bool {
	if t.Name() != other.Name() || len(t.Args) != len(other.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equal(other.Args[i]) {
			return false
		}
	}
	return true
}

// IsOpaque reports whether values of this type are passed through as-is.
func (t Type) IsOpaque() bool {
	return opaqueNames[t.Alias] || opaqueNames[t.BaseName]
}

// String renders the type the way Swift source spells it, restoring sugar
// for optionals, arrays and dictionaries.
func (t Type) String() string {
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}

	name := t.Name()
	switch {
	case name == Optional && len(args) == 1:
		return args[0] + "?"
	case name == Array && len(args) == 1:
		return "[" + args[0] + "]"
	case name == Dictionary && len(args) == 2:
		return "[" + args[0] + " : " + args[1] + "]"
	case t.Alias != "":
		return t.Alias
	case len(args) > 0:
		return name + "<" + strings.Join(args, ", ") + ">"
	default:
		return name
	}
}

// Resolve converts a type string from the dump into a Type, expanding
// aliases from the given table. The first matching rule wins: alias,
// dictionary, array, optional, generic, plain name.
func Resolve(raw string, aliases map[string]string) (Type, error) {
	t, err := resolve(strings.TrimSpace(raw), aliases, nil)
	if errors.Is(err, ErrEmptyType) {
		return Type{}, errors.Wrapf(err, "cannot resolve %q", raw)
	}
	return t, err
}

func resolve(s string, aliases map[string]string, chain []string) (Type, error) {
	if s == "" {
		return Type{}, ErrEmptyType
	}
	if target, ok := aliases[s]; ok {
		for _, seen := range chain {
			if seen == s {
				return Type{}, errors.Wrapf(ErrAliasCycle, "%s -> %s", strings.Join(chain, " -> "), s)
			}
		}
		t, err := resolve(strings.TrimSpace(target), aliases, append(chain, s))
		if err != nil {
			return Type{}, err
		}
		t.Alias = s
		return t, nil
	}

	// The chain is carried into arguments too: typealias List = [List]
	// would otherwise never terminate.
	if inner, ok := bracketed(s); ok {
		if key, value, ok := splitTopLevel(inner, ':'); ok {
			k, err := resolve(strings.TrimSpace(key), aliases, chain)
			if err != nil {
				return Type{}, err
			}
			v, err := resolve(strings.TrimSpace(value), aliases, chain)
			if err != nil {
				return Type{}, err
			}
			return Type{BaseName: Dictionary, Args: []Type{k, v}}, nil
		}
		elem, err := resolve(strings.TrimSpace(inner), aliases, chain)
		if err != nil {
			return Type{}, err
		}
		return Type{BaseName: Array, Args: []Type{elem}}, nil
	}

	if strings.HasSuffix(s, "?") {
		wrapped, err := resolve(strings.TrimSpace(strings.TrimSuffix(s, "?")), aliases, chain)
		if err != nil {
			return Type{}, err
		}
		return Type{BaseName: Optional, Args: []Type{wrapped}}, nil
	}

	if m := genericPattern.FindStringSubmatch(s); m != nil {
		t := Type{BaseName: strings.TrimSpace(m[1])}
		if t.BaseName == "" || strings.TrimSpace(m[2]) == "" {
			return Type{}, ErrEmptyType
		}
		for _, part := range splitArgs(m[2]) {
			arg, err := resolve(part, aliases, chain)
			if err != nil {
				return Type{}, err
			}
			t.Args = append(t.Args, arg)
		}
		return t, nil
	}

	return Type{BaseName: s}, nil
}

// bracketed returns the interior of s when s is a single [...] group.
func bracketed(s string) (string, bool) {
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return "", false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 && i != len(s)-1 {
				return "", false
			}
		}
	}
	return s[1 : len(s)-1], true
}

// splitTopLevel splits s at the first sep found outside any brackets.
func splitTopLevel(s string, sep byte) (string, string, bool) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '<' || c == '[' || c == '(':
			depth++
		case c == '>' || c == ']' || c == ')':
			depth--
		case c == sep && depth == 0:
			return s[:i], s[i+1:], true
		}
	}
	return "", "", false
}

// splitArgs splits a generic argument list on commas at depth zero.
func splitArgs(s string) []string {
	var parts []string
	for {
		head, tail, ok := splitTopLevel(s, ',')
		if !ok {
			break
		}
		parts = append(parts, strings.TrimSpace(head))
		s = tail
	}
	return append(parts, strings.TrimSpace(s))
}
