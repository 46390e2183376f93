package swiftast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/jsongen/errors"
)

func leaf(name string) Type {
	return Type{BaseName: name}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		aliases map[string]string
		want    Type
	}{
		{
			name: "plain",
			raw:  "Int",
			want: leaf("Int"),
		},
		{
			name: "optional",
			raw:  "Int?",
			want: Type{BaseName: Optional, Args: []Type{leaf("Int")}},
		},
		{
			name: "array",
			raw:  "[Int]",
			want: Type{BaseName: Array, Args: []Type{leaf("Int")}},
		},
		{
			name: "dictionary without spaces",
			raw:  "[String:Int]",
			want: Type{BaseName: Dictionary, Args: []Type{leaf("String"), leaf("Int")}},
		},
		{
			name: "dictionary with spaces",
			raw:  "[String : [Int]]",
			want: Type{BaseName: Dictionary, Args: []Type{
				leaf("String"),
				{BaseName: Array, Args: []Type{leaf("Int")}},
			}},
		},
		{
			name: "array of dictionaries",
			raw:  "[[String : Int]]",
			want: Type{BaseName: Array, Args: []Type{
				{BaseName: Dictionary, Args: []Type{leaf("String"), leaf("Int")}},
			}},
		},
		{
			name: "generic",
			raw:  "Box<Int>",
			want: Type{BaseName: "Box", Args: []Type{leaf("Int")}},
		},
		{
			name: "nested generic arguments split at depth zero",
			raw:  "Either<Box<Int>, [String : Int]>",
			want: Type{BaseName: "Either", Args: []Type{
				{BaseName: "Box", Args: []Type{leaf("Int")}},
				{BaseName: Dictionary, Args: []Type{leaf("String"), leaf("Int")}},
			}},
		},
		{
			name: "optional array",
			raw:  "[Int]?",
			want: Type{BaseName: Optional, Args: []Type{
				{BaseName: Array, Args: []Type{leaf("Int")}},
			}},
		},
		{
			name:    "alias",
			raw:     "ID",
			aliases: map[string]string{"ID": "Int"},
			want:    Type{BaseName: "Int", Alias: "ID"},
		},
		{
			name:    "alias chain keeps the outermost name",
			raw:     "UserID",
			aliases: map[string]string{"UserID": "ID", "ID": "Int"},
			want:    Type{BaseName: "Int", Alias: "UserID"},
		},
		{
			name:    "alias inside sugar",
			raw:     "[ID]",
			aliases: map[string]string{"ID": "Int"},
			want:    Type{BaseName: Array, Args: []Type{{BaseName: "Int", Alias: "ID"}}},
		},
		{
			name:    "alias to a sugared type",
			raw:     "Names",
			aliases: map[string]string{"Names": "[String]"},
			want:    Type{BaseName: Array, Alias: "Names", Args: []Type{leaf("String")}},
		},
		{
			name: "surrounding whitespace",
			raw:  "  String ",
			want: leaf("String"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.raw, tt.aliases)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_AliasCycle(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		aliases map[string]string
	}{
		{name: "self", raw: "A", aliases: map[string]string{"A": "A"}},
		{name: "pair", raw: "A", aliases: map[string]string{"A": "B", "B": "A"}},
		{name: "through sugar", raw: "List", aliases: map[string]string{"List": "[List]"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.raw, tt.aliases)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrAliasCycle))
		})
	}
}

func TestResolve_EmptyComponents(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		aliases map[string]string
	}{
		{name: "empty", raw: ""},
		{name: "blank", raw: "   "},
		{name: "array without element", raw: "[]"},
		{name: "dictionary without key or value", raw: "[:]"},
		{name: "dictionary without value", raw: "[String: ]"},
		{name: "bare optional", raw: "?"},
		{name: "generic without arguments", raw: "Box<>"},
		{name: "generic with empty argument", raw: "Pair<Int, >"},
		{name: "alias to nothing", raw: "Empty", aliases: map[string]string{"Empty": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.raw, tt.aliases)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrEmptyType))
			assert.Contains(t, err.Error(), "cannot resolve")
		})
	}
}

func TestResolve_SharedAliasIsNotACycle(t *testing.T) {
	got, err := Resolve("Pair", map[string]string{"Pair": "[ID : ID]", "ID": "String"})
	require.NoError(t, err)
	assert.Equal(t, "Pair", got.String())
	assert.Equal(t, "[ID : ID]", Type{BaseName: Dictionary, Args: got.Args}.String())
}

func TestType_String(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "Int", want: "Int"},
		{raw: "Int?", want: "Int?"},
		{raw: "[Int]", want: "[Int]"},
		{raw: "[String:Int]", want: "[String : Int]"},
		{raw: "Box<Int>", want: "Box<Int>"},
		{raw: "Either<Int,String>", want: "Either<Int, String>"},
		{raw: "Dictionary<String, Int>", want: "[String : Int]"},
		{raw: "ID?", want: "ID?"},
	}

	aliases := map[string]string{"ID": "Int"}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := Resolve(tt.raw, aliases)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestType_Equal(t *testing.T) {
	aliased := Type{BaseName: "Int", Alias: "ID"}

	assert.True(t, leaf("Int").Equal(leaf("Int")))
	assert.False(t, aliased.Equal(leaf("Int")), "alias name takes part in equality")
	assert.True(t, aliased.Equal(Type{BaseName: "Int64", Alias: "ID"}))
	assert.False(t, Type{BaseName: Array, Args: []Type{leaf("Int")}}.Equal(Type{BaseName: Array}))
	assert.False(t,
		Type{BaseName: Array, Args: []Type{leaf("Int")}}.Equal(Type{BaseName: Array, Args: []Type{leaf("String")}}))
}

func TestType_IsOpaque(t *testing.T) {
	assert.True(t, leaf("Any").IsOpaque())
	assert.True(t, leaf("AnyObject").IsOpaque())
	assert.True(t, Type{BaseName: "[String : Any]", Alias: "AnyJson"}.IsOpaque())
	assert.False(t, leaf("Int").IsOpaque())
	assert.False(t, Type{BaseName: Optional, Args: []Type{leaf("Any")}}.IsOpaque())
}
