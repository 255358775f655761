package syntax

// Inspect traverses n in depth-first order.  It calls f(n); if f
// returns true, Inspect visits each of n's children in source order.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	switch x := n.(type) {
	case *Unary:
		Inspect(x.Operand, f)
	case *Binary:
		Inspect(x.Left, f)
		Inspect(x.Right, f)
	case *Conditional:
		Inspect(x.Condition, f)
		Inspect(x.Then, f)
		Inspect(x.Else, f)
	case *InputReference:
		Inspect(x.Operand, f)
	case *Enabled:
		Inspect(x.Operand, f)
	case *Assignment:
		Inspect(x.Target, f)
		Inspect(x.Expression, f)
	case *If:
		Inspect(x.Condition, f)
		Inspect(x.Then, f)
		Inspect(x.Else, f)
	case *Sequence:
		Inspect(x.Left, f)
		Inspect(x.Right, f)
	case *VariableDeclaration:
		Inspect(x.Initial, f)
	case *Piece:
		Inspect(x.Guard, f)
		Inspect(x.Effect, f)
	case *Soup:
		for _, v := range x.Variables {
			Inspect(v, f)
		}
		for _, p := range x.Pieces {
			Inspect(p, f)
		}
	}
}
