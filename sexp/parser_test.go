package sexp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/jsongen/errors"
)

func TestParse_VarDecl(t *testing.T) {
	n, err := Parse(`(var_decl "name" type='String' access=internal let storage_kind=stored)`)
	require.NoError(t, err)

	assert.Equal(t, "var_decl", n.Tag())
	name, err := n.Name(0)
	require.NoError(t, err)
	assert.Equal(t, "name", name)

	typ, ok := n.Attr("type")
	require.True(t, ok)
	assert.Equal(t, "String", typ)

	kind, ok := n.Attr("storage_kind")
	require.True(t, ok)
	assert.Equal(t, "stored", kind)
	assert.True(t, n.HasFlag("let"))
	assert.False(t, n.HasFlag("var"))
}

func TestParse_ProtectedRegions(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantName string
		wantType string
	}{
		{
			name:     "single quoted attribute with spaces",
			input:    `(var_decl "scores" type='[String : Int]' access=internal)`,
			wantName: "scores",
			wantType: "[String : Int]",
		},
		{
			name:     "generic annotation after quoted name",
			input:    `(struct_decl "Pair"<A, B> type='Pair<A, B>.Type' access=internal)`,
			wantName: "Pair<A, B>",
			wantType: "Pair<A, B>.Type",
		},
		{
			name:     "source range before the name",
			input:    `(struct_decl range=[/tmp/a.swift:1:1 - line:3:1] "Foo" type='Foo.Type')`,
			wantName: "Foo",
			wantType: "Foo.Type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Parse(tt.input)
			require.NoError(t, err)

			name, err := n.Name(0)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)

			typ, err := n.MustAttr("type")
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, typ)
		})
	}
}

func TestParse_Children(t *testing.T) {
	input := `(source_file
  (struct_decl "A" type='A.Type'
    (var_decl "x" type='Int' storage_kind=stored)
    (func_decl "f()" type='A -> () -> ()')
    (var_decl "y" type='Int' storage_kind=computed))
  (enum_decl "B" type='B.Type' inherits: String))`

	n, err := Parse(input)
	require.NoError(t, err)

	assert.Equal(t, "source_file", n.Tag())
	require.Len(t, n.AllChildren(), 2)

	structs := n.Children("struct_decl")
	require.Len(t, structs, 1)

	vars := structs[0].Children("var_decl")
	require.Len(t, vars, 2)
	first, _ := vars[0].Name(0)
	second, _ := vars[1].Name(0)
	assert.Equal(t, []string{"x", "y"}, []string{first, second})

	funcs := structs[0].Children("func_decl")
	require.Len(t, funcs, 1)
	fnType, _ := funcs[0].Attr("type")
	assert.Equal(t, "A -> () -> ()", fnType)

	enums := n.Children("enum_decl")
	require.Len(t, enums, 1)
	assert.True(t, enums[0].HasFlag("inherits:"))
	assert.Empty(t, n.Children("class_decl"))
}

func TestParse_Numbers(t *testing.T) {
	n, err := Parse(`(literal 42 -1.5 abc 1e3 NaN)`)
	require.NoError(t, err)
	require.Equal(t, 5, n.Len())

	v, _ := n.Value(0)
	num, ok := v.Number()
	assert.True(t, ok)
	assert.Equal(t, 42.0, num)

	v, _ = n.Value(1)
	num, ok = v.Number()
	assert.True(t, ok)
	assert.Equal(t, -1.5, num)

	v, _ = n.Value(2)
	assert.False(t, v.IsNumber())
	assert.Equal(t, "abc", v.String())

	v, _ = n.Value(3)
	assert.True(t, v.IsNumber())
	assert.Equal(t, "1e3", v.String())

	v, _ = n.Value(4)
	assert.False(t, v.IsNumber(), "NaN stays a string token")

	_, ok = n.Value(5)
	assert.False(t, ok)
}

func TestParse_QuotedStrings(t *testing.T) {
	n, err := Parse(`(string_literal_expr value="a \"b c\" d" encoding=utf8)`)
	require.NoError(t, err)

	value, ok := n.Attr("value")
	require.True(t, ok)
	assert.Equal(t, `"a \"b c\" d"`, value)

	enc, _ := n.Attr("encoding")
	assert.Equal(t, "utf8", enc)
}

func TestParse_DuplicateAttributes(t *testing.T) {
	n, err := Parse(`(typealias "ID" type='ID.Type' interface type='Int' access=internal)`)
	require.NoError(t, err)

	first, ok := n.Attr("type")
	require.True(t, ok)
	assert.Equal(t, "ID.Type", first)
	assert.Equal(t, []string{"ID.Type", "Int"}, n.AttrValues("type"))
	assert.True(t, n.HasFlag("interface"))
	assert.Nil(t, n.AttrValues("missing"))
}

func TestParse_Unbalanced(t *testing.T) {
	tests := []struct {
		name  string
		input string
		multi bool
	}{
		{name: "unmatched open", input: "(a (b)"},
		{name: "unmatched open multi", input: "(a) (b (c)", multi: true},
		{name: "unmatched close", input: "(a b))"},
		{name: "unmatched close multi", input: "(a b))", multi: true},
		{name: "unterminated string", input: `(a "b c)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			if tt.multi {
				_, err = ParseAll(tt.input)
			} else {
				_, err = Parse(tt.input)
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrParse))

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, "unbalanced parentheses", perr.Message)
		})
	}
}

func TestParse_TrailingInput(t *testing.T) {
	_, err := Parse("(a b) c")
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "unexpected input after form", perr.Message)
	assert.Equal(t, 6, perr.Offset)
}

func TestParseAll(t *testing.T) {
	nodes, err := ParseAll("(a 1)(b 2)\n(c (d))\n")
	require.NoError(t, err)
	require.Len(t, nodes, 3)

	tags := make([]string, len(nodes))
	for i, n := range nodes {
		tags[i] = n.Tag()
	}
	assert.Equal(t, []string{"a", "b", "c"}, tags)

	nodes, err = ParseAll("   ")
	require.NoError(t, err)
	assert.Empty(t, nodes)

	_, err = ParseAll("(a) stray (b)")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrParse))
}

func TestParse_OpaqueLeaf(t *testing.T) {
	n, err := Parse("  error: no such module 'Statham'\n")
	require.NoError(t, err)
	assert.True(t, n.IsLeaf())
	assert.Equal(t, "error: no such module 'Statham'", n.Text())
	assert.Equal(t, "", n.Tag())

	nodes, err := ParseAll("plain text")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.True(t, nodes[0].IsLeaf())
}

func TestParse_TokenCountMatchesInput(t *testing.T) {
	inputs := []string{
		"(a b c (d e) f=g (h (i j)))",
		"(source_file (struct_decl S access=internal (var_decl x storage_kind=stored) (var_decl y)))",
		"(one)",
		"(a (b (c (d (e f g)))) h i 42 -7)",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			n, err := Parse(input)
			require.NoError(t, err)

			flat := strings.NewReplacer("(", " ", ")", " ").Replace(input)
			assert.Equal(t, len(strings.Fields(flat)), n.TokenCount())
		})
	}
}

func TestNode_Name_MissingPosition(t *testing.T) {
	n, err := Parse("(source_file)")
	require.NoError(t, err)

	_, err = n.Name(0)
	require.Error(t, err)

	var shape *ShapeError
	require.True(t, errors.As(err, &shape))
	assert.Equal(t, "source_file", shape.Tag)

	_, err = n.MustAttr("type")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "attribute type")
}

func TestUnquote(t *testing.T) {
	assert.Equal(t, "Foo", Unquote(`"Foo"`))
	assert.Equal(t, "Box<T>", Unquote(`"Box"<T>`))
	assert.Equal(t, "Box<T,", Unquote(`'Box<T,`))
	assert.Equal(t, "plain", Unquote("plain"))
}
