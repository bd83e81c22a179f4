package ast

type (
	BoolOp struct {
		Loc
		Op     BoolOpKind
		Values []Expr
	}

	// NamedExpr is the walrus "target := value".
	NamedExpr struct {
		Loc
		Target Expr
		Value  Expr
	}

	BinOp struct {
		Loc
		Left  Expr
		Op    BinOpKind
		Right Expr
	}

	UnaryOp struct {
		Loc
		Op      UnaryOpKind
		Operand Expr
	}

	Lambda struct {
		Loc
		Args *Arguments
		Body Expr
	}

	IfExp struct {
		Loc
		Test   Expr
		Body   Expr
		Orelse Expr
	}

	// Dict keeps keys and values in parallel; a nil key is a "**m" unpack.
	Dict struct {
		Loc
		Keys   []Expr
		Values []Expr
	}

	Set struct {
		Loc
		Elts []Expr
	}

	ListComp struct {
		Loc
		Elt        Expr
		Generators []*Comprehension
	}

	SetComp struct {
		Loc
		Elt        Expr
		Generators []*Comprehension
	}

	DictComp struct {
		Loc
		Key        Expr
		Value      Expr
		Generators []*Comprehension
	}

	GeneratorExp struct {
		Loc
		Elt        Expr
		Generators []*Comprehension
	}

	Await struct {
		Loc
		Value Expr
	}

	Yield struct {
		Loc
		Value Expr // может быть nil
	}

	YieldFrom struct {
		Loc
		Value Expr
	}

	// Compare is a chain "left op1 c1 op2 c2 ...".
	Compare struct {
		Loc
		Left        Expr
		Ops         []CmpOpKind
		Comparators []Expr
	}

	Call struct {
		Loc
		Func     Expr
		Args     []Expr
		Keywords []*Keyword
	}

	// FormattedValue is one replacement field of an f-string. Conversion is
	// 0 or one of 's', 'r', 'a'.
	FormattedValue struct {
		Loc
		Value      Expr
		Conversion byte
		FormatSpec *JoinedStr // может быть nil
	}

	// JoinedStr is an f-string; Values are Constant strings and FormattedValues.
	JoinedStr struct {
		Loc
		Values []Expr
	}

	Constant struct {
		Loc
		Kind ConstKind
		Bool bool
		// Text is the literal source of a number with '_' removed.
		Text string
		// Str holds decoded str contents, or raw bytes for ConstBytes.
		Str string
	}

	Attribute struct {
		Loc
		Value Expr
		Attr  string
		Ctx   ExprContext
	}

	Subscript struct {
		Loc
		Value Expr
		Slice Expr
		Ctx   ExprContext
	}

	Starred struct {
		Loc
		Value Expr
		Ctx   ExprContext
	}

	Name struct {
		Loc
		ID  string
		Ctx ExprContext
	}

	List struct {
		Loc
		Elts []Expr
		Ctx  ExprContext
	}

	Tuple struct {
		Loc
		Elts []Expr
		Ctx  ExprContext
	}

	Slice struct {
		Loc
		Lower Expr
		Upper Expr
		Step  Expr
	}
)

type ConstKind uint8

const (
	ConstNone ConstKind = iota
	ConstBool
	ConstEllipsis
	ConstInt
	ConstFloat
	ConstComplex
	ConstStr
	ConstBytes
)

var constNames = [...]string{"None", "bool", "Ellipsis", "int", "float", "complex", "str", "bytes"}

func (k ConstKind) String() string { return constNames[k] }

func (*BoolOp) node()         {}
func (*NamedExpr) node()      {}
func (*BinOp) node()          {}
func (*UnaryOp) node()        {}
func (*Lambda) node()         {}
func (*IfExp) node()          {}
func (*Dict) node()           {}
func (*Set) node()            {}
func (*ListComp) node()       {}
func (*SetComp) node()        {}
func (*DictComp) node()       {}
func (*GeneratorExp) node()   {}
func (*Await) node()          {}
func (*Yield) node()          {}
func (*YieldFrom) node()      {}
func (*Compare) node()        {}
func (*Call) node()           {}
func (*FormattedValue) node() {}
func (*JoinedStr) node()      {}
func (*Constant) node()       {}
func (*Attribute) node()      {}
func (*Subscript) node()      {}
func (*Starred) node()        {}
func (*Name) node()           {}
func (*List) node()           {}
func (*Tuple) node()          {}
func (*Slice) node()          {}

func (*BoolOp) exprNode()         {}
func (*NamedExpr) exprNode()      {}
func (*BinOp) exprNode()          {}
func (*UnaryOp) exprNode()        {}
func (*Lambda) exprNode()         {}
func (*IfExp) exprNode()          {}
func (*Dict) exprNode()           {}
func (*Set) exprNode()            {}
func (*ListComp) exprNode()       {}
func (*SetComp) exprNode()        {}
func (*DictComp) exprNode()       {}
func (*GeneratorExp) exprNode()   {}
func (*Await) exprNode()          {}
func (*Yield) exprNode()          {}
func (*YieldFrom) exprNode()      {}
func (*Compare) exprNode()        {}
func (*Call) exprNode()           {}
func (*FormattedValue) exprNode() {}
func (*JoinedStr) exprNode()      {}
func (*Constant) exprNode()       {}
func (*Attribute) exprNode()      {}
func (*Subscript) exprNode()      {}
func (*Starred) exprNode()        {}
func (*Name) exprNode()           {}
func (*List) exprNode()           {}
func (*Tuple) exprNode()          {}
func (*Slice) exprNode()          {}
