package syntax

// Operator identifies a unary or binary operator.
type Operator int

const (
	Not Operator = iota
	Minus
	Plus
	Paren

	Mul
	Div
	Mod
	Add
	Sub

	Lt
	Le
	Gt
	Ge

	Eq
	Ne

	And
	Or
	Xor
	Implies
	Equiv
)

// Family groups operators by the runtime rules that apply to them.
type Family int

const (
	Arithmetic    Family = iota // Integer first, then double.
	Relational                  // Like Arithmetic, but yields a boolean.
	Equality                    // Tag-strict value equality.
	Propositional               // Booleans only, no short-circuit.
	Grouping                    // Parentheses.
)

var operatorSymbols = map[Operator]string{
	Not:     "!",
	Minus:   "-",
	Plus:    "+",
	Paren:   "()",
	Mul:     "*",
	Div:     "/",
	Mod:     "%",
	Add:     "+",
	Sub:     "-",
	Lt:      "<",
	Le:      "<=",
	Gt:      ">",
	Ge:      ">=",
	Eq:      "==",
	Ne:      "!=",
	And:     "&&",
	Or:      "||",
	Xor:     "xor",
	Implies: "->",
	Equiv:   "<->",
}

// String returns the operator's source symbol.
func (op Operator) String() string {
	if s, have := operatorSymbols[op]; have {
		return s
	}
	return "?"
}

// Family returns the operator's family.
func (op Operator) Family() Family {
	switch op {
	case Minus, Plus, Mul, Div, Mod, Add, Sub:
		return Arithmetic
	case Lt, Le, Gt, Ge:
		return Relational
	case Eq, Ne:
		return Equality
	case Paren:
		return Grouping
	default:
		return Propositional
	}
}

// IsUnary reports whether the operator is a prefix operator.
func (op Operator) IsUnary() bool {
	return op <= Paren
}
