package sexp

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/teranos/jsongen/errors"
)

// sentinel stands in for spaces inside protected regions while tokenizing.
// It is a single byte so error offsets stay aligned with the input.
const sentinel = "\x1f"

var protectedRegions = []*regexp.Regexp{
	regexp.MustCompile(`='[^'\n]*'`),    // type='[String : Int]'
	regexp.MustCompile(`"<[^>\n]*>`),    // "Pair"<A, B>
	regexp.MustCompile(`=\[[^\]\n]*\]`), // range=[a.swift:1:1 - line:3:1]
}

// ParseError reports a malformed dump chunk.
type ParseError struct {
	Message string
	Offset  int    // byte offset into the chunk
	Depth   int    // open forms at the point of failure
	Context string // excerpt around Offset
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%s at offset %d", e.Message, e.Offset)
	if e.Depth > 0 {
		msg += fmt.Sprintf(" (depth %d)", e.Depth)
	}
	if e.Context != "" {
		msg += fmt.Sprintf(": %q", e.Context)
	}
	return msg
}

// Is makes errors.Is(err, errors.ErrParse) true for parse failures.
func (e *ParseError) Is(target error) bool {
	return target == errors.ErrParse
}

// Parse parses a single form. Input that does not start with '(' is
// returned verbatim as a leaf node rather than rejected.
func Parse(text string) (*Node, error) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "(") {
		return &Node{leaf: true, values: []Value{{text: trimmed}}}, nil
	}
	nodes, err := parse(text, false)
	if err != nil {
		return nil, err
	}
	return nodes[0], nil
}

// ParseAll parses a stream of top-level forms written back to back.
func ParseAll(text string) ([]*Node, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, nil
	}
	if !strings.HasPrefix(trimmed, "(") {
		return []*Node{{leaf: true, values: []Value{{text: trimmed}}}}, nil
	}
	return parse(text, true)
}

type item struct {
	token string
	child *Node
}

type frame struct {
	items []item
}

func parse(text string, multi bool) ([]*Node, error) {
	text = protect(text)

	var (
		stack   []*frame
		current *frame
		results []*Node
		token   strings.Builder
		quote   byte
	)

	fail := func(msg string, at int) error {
		depth := len(stack)
		if current != nil {
			depth++
		}
		return &ParseError{Message: msg, Offset: at, Depth: depth, Context: excerpt(text, at)}
	}

	flush := func(at int) error {
		if token.Len() == 0 {
			return nil
		}
		tok := token.String()
		token.Reset()
		if current == nil {
			return fail("token outside of a form", at-len(tok))
		}
		current.items = append(current.items, item{token: tok})
		return nil
	}

	for i := 0; i < len(text); i++ {
		c := text[i]

		if quote != 0 {
			token.WriteByte(c)
			if quote == '"' && c == '\\' && i+1 < len(text) {
				i++
				token.WriteByte(text[i])
			} else if c == quote {
				quote = 0
			}
			continue
		}

		switch {
		case c == '"':
			quote = c
			token.WriteByte(c)

		// Single quotes open a literal only at the start of a token or an
		// attribute value, so apostrophes elsewhere stay ordinary characters.
		case c == '\'' && (token.Len() == 0 || strings.HasSuffix(token.String(), "=")):
			quote = c
			token.WriteByte(c)

		case c == '(':
			if err := flush(i); err != nil {
				return nil, err
			}
			if current != nil {
				stack = append(stack, current)
			}
			current = &frame{}

		case c == ')':
			if err := flush(i); err != nil {
				return nil, err
			}
			if current == nil {
				return nil, fail("unbalanced parentheses", i)
			}
			node := current.build()
			if len(stack) == 0 {
				results = append(results, node)
				current = nil
				if !multi {
					if rest := strings.TrimSpace(text[i+1:]); rest != "" {
						at := i + 1 + strings.Index(text[i+1:], rest[:1])
						if rest[0] == ')' {
							return nil, fail("unbalanced parentheses", at)
						}
						return nil, fail("unexpected input after form", at)
					}
					return results, nil
				}
				continue
			}
			parent := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			parent.items = append(parent.items, item{child: node})
			current = parent

		case isSpace(c):
			if err := flush(i); err != nil {
				return nil, err
			}

		default:
			token.WriteByte(c)
		}
	}

	if err := flush(len(text)); err != nil {
		return nil, err
	}
	if current != nil || quote != 0 {
		return nil, fail("unbalanced parentheses", len(text))
	}
	return results, nil
}

func (f *frame) build() *Node {
	n := &Node{}
	for i, it := range f.items {
		if it.child != nil {
			n.children = append(n.children, it.child)
			continue
		}
		tok := restore(it.token)
		if i == 0 {
			n.tag = tok
			continue
		}
		if key, value, ok := splitAttr(tok); ok {
			n.attrs = append(n.attrs, attr{key: key, value: value})
			continue
		}
		n.values = append(n.values, newValue(tok))
	}
	return n
}

// splitAttr recognises key=value tokens. Quoted tokens are never attributes.
func splitAttr(tok string) (string, string, bool) {
	if tok == "" || tok[0] == '"' || tok[0] == '\'' {
		return "", "", false
	}
	i := strings.IndexByte(tok, '=')
	if i <= 0 {
		return "", "", false
	}
	value := tok[i+1:]
	if len(value) >= 2 && value[0] == '\'' && value[len(value)-1] == '\'' {
		value = value[1 : len(value)-1]
	}
	return tok[:i], value, true
}

func newValue(tok string) Value {
	if isNumeric(tok) {
		f, _ := strconv.ParseFloat(tok, 64)
		return Value{text: tok, number: f, isNum: true}
	}
	return Value{text: tok}
}

func isNumeric(tok string) bool {
	switch tok[0] {
	case '-', '+', '.', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
	default:
		return false
	}
	f, err := strconv.ParseFloat(tok, 64)
	return err == nil && !math.IsInf(f, 0) && !math.IsNaN(f)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r' || c == '\v' || c == '\f'
}

func protect(text string) string {
	replace := func(m string) string {
		return strings.ReplaceAll(m, " ", sentinel)
	}
	for _, re := range protectedRegions {
		text = re.ReplaceAllStringFunc(text, replace)
	}
	return text
}

func restore(tok string) string {
	return strings.ReplaceAll(tok, sentinel, " ")
}

func excerpt(text string, at int) string {
	const radius = 24
	start := max(at-radius, 0)
	end := min(at+radius, len(text))
	if start >= end {
		return ""
	}
	return restore(text[start:end])
}
