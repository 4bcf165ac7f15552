// Package pyast holds syntax predicates shared by the built-in rules.
package pyast

import (
	"strings"

	"github.com/leapstack-labs/leapup/pkg/rewrite"
	"github.com/leapstack-labs/leapup/pkg/syntax"
)

// Unparen strips redundant parentheses around an expression.
func Unparen(n *syntax.Node) *syntax.Node {
	for n != nil && n.Kind == syntax.KindParenthesizedExpression {
		inner := n.NamedChildren()
		if len(inner) != 1 {
			return n
		}
		n = inner[0]
	}
	return n
}

// DottedName returns "a.b.c" for identifiers and attribute chains, including
// the member_type form used inside annotations. It returns "" otherwise.
func DottedName(n *syntax.Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case syntax.KindType:
		if kids := n.NamedChildren(); len(kids) == 1 {
			return DottedName(kids[0])
		}
		return ""
	case syntax.KindMemberType:
		kids := n.NamedChildren()
		if len(kids) != 2 || kids[1].Kind != syntax.KindIdentifier {
			return ""
		}
		head := DottedName(kids[0])
		if head == "" {
			return ""
		}
		return head + "." + kids[1].Text
	case syntax.KindAttribute:
		obj, attr := n.Child("object"), n.Child("attribute")
		if obj == nil || attr == nil {
			return ""
		}
		head := DottedName(obj)
		if head == "" {
			return ""
		}
		return head + "." + attr.Text
	}
	return n.DottedName()
}

// SplitAttr splits a two-part dotted name into its module and attribute.
func SplitAttr(n *syntax.Node) (mod, attr string, ok bool) {
	if n.Kind != syntax.KindAttribute && n.Kind != syntax.KindMemberType {
		return "", "", false
	}
	name := DottedName(n)
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return "", "", false
	}
	return name[:i], name[i+1:], true
}

// IsNameAttr reports whether n refers to one of names, either as a bare name
// imported from one of mods or as mod.name.
func IsNameAttr(n *syntax.Node, imports *rewrite.FromImports, mods []string, names map[string]bool) bool {
	switch n.Kind {
	case syntax.KindIdentifier:
		if !names[n.Text] {
			return false
		}
		for _, mod := range mods {
			if imports.Has(mod, n.Text) {
				return true
			}
		}
		return false
	case syntax.KindAttribute, syntax.KindMemberType:
		mod, attr, ok := SplitAttr(n)
		if !ok || !names[attr] {
			return false
		}
		for _, m := range mods {
			if m == mod {
				return true
			}
		}
	}
	return false
}

// IsReference reports whether the identifier n, a child of parent, reads a
// name rather than binding or spelling one.
func IsReference(n, parent *syntax.Node) bool {
	switch parent.Kind {
	case syntax.KindAttribute:
		return parent.Child("object") == n
	case syntax.KindMemberType:
		return parent.NamedChildren()[0] == n
	case syntax.KindKeywordArgument, syntax.KindDefaultParameter, syntax.KindTypedDefaultParameter:
		return parent.Child("value") == n
	case syntax.KindFunctionDefinition, syntax.KindClassDefinition:
		return parent.Child("name") != n
	case syntax.KindAssignment, syntax.KindAugmentedAssignment:
		return parent.Child("left") != n
	case syntax.KindTypedParameter, syntax.KindParameters, syntax.KindLambdaParameters,
		syntax.KindListSplatPattern, syntax.KindDictionarySplatPattern,
		syntax.KindDottedName, syntax.KindAliasedImport, syntax.KindAsPatternTarget,
		syntax.KindGlobalStatement, syntax.KindNonlocalStatement, syntax.KindKeywordPattern:
		return false
	}
	return true
}

// Arguments splits the arguments of a call. ok is false when the call uses
// star arguments or a bare generator argument.
func Arguments(call *syntax.Node) (positional []*syntax.Node, keywords map[string]*syntax.Node, ok bool) {
	args := call.Child("arguments")
	if args == nil || args.Kind != syntax.KindArgumentList {
		return nil, nil, false
	}
	keywords = make(map[string]*syntax.Node)
	for _, a := range args.NamedChildren() {
		switch a.Kind {
		case syntax.KindListSplat, syntax.KindDictionarySplat, syntax.KindParenthesizedListSplat:
			return nil, nil, false
		case syntax.KindKeywordArgument:
			if name := a.Child("name"); name != nil {
				keywords[name.Text] = a.Child("value")
			}
		default:
			positional = append(positional, a)
		}
	}
	return positional, keywords, true
}

// StringLiteral is a single, non-concatenated Python string literal.
type StringLiteral struct {
	Prefix string
	Quote  string
	Body   string
}

// ParseString splits a plain string literal. ok is false for bytes,
// f-strings, literals with escapes and implicit concatenations.
func ParseString(n *syntax.Node) (StringLiteral, bool) {
	if n == nil || n.Kind != syntax.KindString {
		return StringLiteral{}, false
	}
	text := n.Text
	i := strings.IndexAny(text, `'"`)
	if i < 0 {
		return StringLiteral{}, false
	}
	prefix := text[:i]
	if strings.ContainsAny(strings.ToLower(prefix), "bf") {
		return StringLiteral{}, false
	}
	rest := text[i:]
	quote := rest[:1]
	if strings.HasPrefix(rest, strings.Repeat(quote, 3)) && len(rest) >= 6 {
		quote = strings.Repeat(quote, 3)
	}
	if !strings.HasSuffix(rest, quote) || len(rest) < 2*len(quote) {
		return StringLiteral{}, false
	}
	body := rest[len(quote) : len(rest)-len(quote)]
	if strings.ContainsAny(body, `\`+quote[:1]) {
		return StringLiteral{}, false
	}
	return StringLiteral{Prefix: prefix, Quote: quote, Body: body}, true
}

// String reassembles the literal.
func (s StringLiteral) String() string {
	return s.Prefix + s.Quote + s.Body + s.Quote
}
