package ast

type BoolOpKind uint8

const (
	And BoolOpKind = iota
	Or
)

type BinOpKind uint8

const (
	Add BinOpKind = iota
	Sub
	Mult
	MatMult
	Div
	Mod
	Pow
	LShift
	RShift
	BitOr
	BitXor
	BitAnd
	FloorDiv
)

type UnaryOpKind uint8

const (
	Invert UnaryOpKind = iota
	Not
	UAdd
	USub
)

type CmpOpKind uint8

const (
	Eq CmpOpKind = iota
	NotEq
	Lt
	LtE
	Gt
	GtE
	Is
	IsNot
	In
	NotIn
)

type ExprContext uint8

const (
	Load ExprContext = iota
	Store
	Del
)

var boolOpNames = [...]string{"And", "Or"}
var binOpNames = [...]string{"Add", "Sub", "Mult", "MatMult", "Div", "Mod", "Pow", "LShift", "RShift", "BitOr", "BitXor", "BitAnd", "FloorDiv"}
var unaryOpNames = [...]string{"Invert", "Not", "UAdd", "USub"}
var cmpOpNames = [...]string{"Eq", "NotEq", "Lt", "LtE", "Gt", "GtE", "Is", "IsNot", "In", "NotIn"}
var ctxNames = [...]string{"Load", "Store", "Del"}

func (k BoolOpKind) String() string  { return boolOpNames[k] }
func (k BinOpKind) String() string   { return binOpNames[k] }
func (k UnaryOpKind) String() string { return unaryOpNames[k] }
func (k CmpOpKind) String() string   { return cmpOpNames[k] }
func (c ExprContext) String() string { return ctxNames[c] }
