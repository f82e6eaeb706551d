package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

func init() {
	Languages["java"] = &Language{
		Name:        "java",
		Extensions:  []string{".java"},
		lang:        java.GetLanguage(),
		PackageName: javaPackageName,
	}
}

// javaPackageName reads the package_declaration of a compilation unit.
// Navigates: program → package_declaration → scoped_identifier | identifier.
func javaPackageName(root *sitter.Node, source []byte) string {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() != "package_declaration" {
			continue
		}
		for j := 0; j < int(child.NamedChildCount()); j++ {
			name := child.NamedChild(j)
			switch name.Type() {
			case "scoped_identifier", "identifier":
				return CollapseWhitespace(NodeText(name, source))
			}
		}
	}
	return ""
}
