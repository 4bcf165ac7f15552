package syntax

import "strings"

// ImportedName is one entry of an import-from statement.
type ImportedName struct {
	Name   string
	AsName string // empty when not aliased
}

// ImportFrom is a decoded "from module import names" statement.
type ImportFrom struct {
	Module string // without leading dots; empty for "from . import x"
	Level  int    // number of leading dots; 0 for absolute imports
	Names  []ImportedName
}

// ImportFromOf decodes n if it is an import-from statement. A wildcard import
// decodes as the single name "*".
func ImportFromOf(n *Node) (ImportFrom, bool) {
	var imp ImportFrom
	switch n.Kind {
	case KindFutureImportStatement:
		imp.Module = "__future__"
	case KindImportFromStatement:
		mod := n.Child("module_name")
		if mod == nil {
			return imp, false
		}
		if mod.Kind == KindRelativeImport {
			for _, c := range mod.NamedChildren() {
				switch c.Kind {
				case KindImportPrefix:
					imp.Level = strings.Count(c.Text, ".")
				case KindDottedName:
					imp.Module = c.DottedName()
				}
			}
		} else {
			imp.Module = mod.DottedName()
		}
	default:
		return imp, false
	}

	for _, c := range n.Children("") {
		if c.Kind == KindWildcardImport {
			imp.Names = append(imp.Names, ImportedName{Name: "*"})
		}
	}
	for _, c := range n.Children("name") {
		switch c.Kind {
		case KindDottedName, KindIdentifier:
			imp.Names = append(imp.Names, ImportedName{Name: c.DottedName()})
		case KindAliasedImport:
			name, alias := c.Child("name"), c.Child("alias")
			if name == nil || alias == nil {
				continue
			}
			imp.Names = append(imp.Names, ImportedName{Name: name.DottedName(), AsName: alias.Text})
		}
	}
	return imp, true
}

// NewImportFrom assembles the node the parser produces for
// "from <dots><module> import <names>" written on one line at (line, col).
func NewImportFrom(line, col int, module string, level int, names ...ImportedName) *Node {
	text := "from " + strings.Repeat(".", level) + module + " import "
	for i, name := range names {
		if i > 0 {
			text += ", "
		}
		text += name.Name
		if name.AsName != "" {
			text += " as " + name.AsName
		}
	}
	stmt := NewNode(KindImportFromStatement, text, line, col)

	at := col + len("from ")
	var modNode *Node
	if level > 0 {
		modNode = NewNode(KindRelativeImport, strings.Repeat(".", level)+module, line, at)
		modNode.Add("", NewNode(KindImportPrefix, strings.Repeat(".", level), line, at))
		if module != "" {
			modNode.Add("", dotted(module, line, at+level))
		}
	} else {
		modNode = dotted(module, line, at)
	}
	stmt.Add("module_name", modNode)

	at += level + len(module) + len(" import ")
	for _, name := range names {
		if name.Name == "*" {
			stmt.Add("", NewNode(KindWildcardImport, "*", line, at))
			continue
		}
		if name.AsName == "" {
			stmt.Add("name", dotted(name.Name, line, at))
			at += len(name.Name) + len(", ")
			continue
		}
		text := name.Name + " as " + name.AsName
		aliased := NewNode(KindAliasedImport, text, line, at)
		aliased.Add("name", dotted(name.Name, line, at))
		aliased.Add("alias", NewNode(KindIdentifier, name.AsName, line, at+len(name.Name)+len(" as ")))
		stmt.Add("name", aliased)
		at += len(text) + len(", ")
	}
	return stmt
}

func dotted(name string, line, col int) *Node {
	n := NewNode(KindDottedName, name, line, col)
	for _, part := range strings.Split(name, ".") {
		n.Add("", NewNode(KindIdentifier, part, line, col))
		col += len(part) + 1
	}
	return n
}
