package gql

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// WalkIdentifiers 解析query文本并遍历AST，把遇到的操作名、变量名、字段名、参数名、
// fragment名、具名类型名逐个交给visit回调，query解析不了就返回错误（调用方一般直接忽略）
func WalkIdentifiers(query string, visit func(string)) error {
	doc, err := parser.ParseQuery(&ast.Source{Input: query})
	if err != nil {
		return err
	}
	for _, op := range doc.Operations {
		if op.Name != "" {
			visit(op.Name)
		}
		for _, vd := range op.VariableDefinitions {
			visit(vd.Variable)
			walkType(vd.Type, visit)
		}
		walkSelectionSet(op.SelectionSet, visit)
	}
	for _, frag := range doc.Fragments {
		visit(frag.Name)
		if frag.TypeCondition != "" {
			visit(frag.TypeCondition)
		}
		walkSelectionSet(frag.SelectionSet, visit)
	}
	return nil
}

func walkType(t *ast.Type, visit func(string)) {
	if t == nil {
		return
	}
	if t.NamedType != "" {
		visit(t.NamedType)
	}
	walkType(t.Elem, visit)
}

func walkSelectionSet(set ast.SelectionSet, visit func(string)) {
	for _, sel := range set {
		switch s := sel.(type) {
		case *ast.Field:
			visit(s.Name)
			for _, arg := range s.Arguments {
				visit(arg.Name)
			}
			walkSelectionSet(s.SelectionSet, visit)
		case *ast.FragmentSpread:
			visit(s.Name)
		case *ast.InlineFragment:
			if s.TypeCondition != "" {
				visit(s.TypeCondition)
			}
			walkSelectionSet(s.SelectionSet, visit)
		}
	}
}
