package ast

// Inspect visits every node of tree depth-first, including nodes nested in
// loop, function, branch, try and class bodies. Returning false from fn skips
// the children of that node.
func Inspect(tree Tree, fn func(Node) bool) {
	for _, n := range tree {
		if !fn(n) {
			continue
		}
		for _, child := range Children(n) {
			Inspect(child, fn)
		}
	}
}

// Children returns the nested statement bodies of n.
func Children(n Node) []Tree {
	switch n := n.(type) {
	case *Loop:
		return []Tree{n.Body}
	case *Function:
		return []Tree{n.Body}
	case *TryCatch:
		return []Tree{n.Try, n.Catch}
	case *Class:
		return []Tree{n.Body}
	case *If:
		out := make([]Tree, 0, len(n.Branches)+1)
		for _, b := range n.Branches {
			out = append(out, b.Body)
		}
		if n.Else != nil {
			out = append(out, n.Else)
		}
		return out
	}
	return nil
}
