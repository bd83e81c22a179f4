package ast

type (
	FunctionDef struct {
		Loc
		Async      bool
		Name       string
		Args       *Arguments
		Body       []Stmt
		Decorators []Expr
		Returns    Expr // может быть nil
		TypeParams []TypeParam
	}

	ClassDef struct {
		Loc
		Name       string
		Bases      []Expr
		Keywords   []*Keyword
		Body       []Stmt
		Decorators []Expr
		TypeParams []TypeParam
	}

	Return struct {
		Loc
		Value Expr
	}

	Delete struct {
		Loc
		Targets []Expr
	}

	// Assign is "a = b = value".
	Assign struct {
		Loc
		Targets []Expr
		Value   Expr
	}

	TypeAlias struct {
		Loc
		Name       *Name
		TypeParams []TypeParam
		Value      Expr
	}

	AugAssign struct {
		Loc
		Target Expr
		Op     BinOpKind
		Value  Expr
	}

	AnnAssign struct {
		Loc
		Target     Expr
		Annotation Expr
		Value      Expr
		Simple     bool
	}

	For struct {
		Loc
		Async  bool
		Target Expr
		Iter   Expr
		Body   []Stmt
		Orelse []Stmt
	}

	While struct {
		Loc
		Test   Expr
		Body   []Stmt
		Orelse []Stmt
	}

	If struct {
		Loc
		Test   Expr
		Body   []Stmt
		Orelse []Stmt
	}

	With struct {
		Loc
		Async bool
		Items []*WithItem
		Body  []Stmt
	}

	Match struct {
		Loc
		Subject Expr
		Cases   []*MatchCase
	}

	Raise struct {
		Loc
		Exc   Expr
		Cause Expr
	}

	// Try covers both try and try/except* (Star).
	Try struct {
		Loc
		Star      bool
		Body      []Stmt
		Handlers  []*ExceptHandler
		Orelse    []Stmt
		Finalbody []Stmt
	}

	Assert struct {
		Loc
		Test Expr
		Msg  Expr
	}

	Import struct {
		Loc
		Names []*Alias
	}

	// ImportFrom is "from ..mod import a". Module is empty for "from . import a".
	ImportFrom struct {
		Loc
		Module string
		Names  []*Alias
		Level  int
	}

	Global struct {
		Loc
		Names []string
	}

	Nonlocal struct {
		Loc
		Names []string
	}

	ExprStmt struct {
		Loc
		Value Expr
	}

	Pass     struct{ Loc }
	Break    struct{ Loc }
	Continue struct{ Loc }
)

func (*FunctionDef) node() {}
func (*ClassDef) node()    {}
func (*Return) node()      {}
func (*Delete) node()      {}
func (*Assign) node()      {}
func (*TypeAlias) node()   {}
func (*AugAssign) node()   {}
func (*AnnAssign) node()   {}
func (*For) node()         {}
func (*While) node()       {}
func (*If) node()          {}
func (*With) node()        {}
func (*Match) node()       {}
func (*Raise) node()       {}
func (*Try) node()         {}
func (*Assert) node()      {}
func (*Import) node()      {}
func (*ImportFrom) node()  {}
func (*Global) node()      {}
func (*Nonlocal) node()    {}
func (*ExprStmt) node()    {}
func (*Pass) node()        {}
func (*Break) node()       {}
func (*Continue) node()    {}

func (*FunctionDef) stmtNode() {}
func (*ClassDef) stmtNode()    {}
func (*Return) stmtNode()      {}
func (*Delete) stmtNode()      {}
func (*Assign) stmtNode()      {}
func (*TypeAlias) stmtNode()   {}
func (*AugAssign) stmtNode()   {}
func (*AnnAssign) stmtNode()   {}
func (*For) stmtNode()         {}
func (*While) stmtNode()       {}
func (*If) stmtNode()          {}
func (*With) stmtNode()        {}
func (*Match) stmtNode()       {}
func (*Raise) stmtNode()       {}
func (*Try) stmtNode()         {}
func (*Assert) stmtNode()      {}
func (*Import) stmtNode()      {}
func (*ImportFrom) stmtNode()  {}
func (*Global) stmtNode()      {}
func (*Nonlocal) stmtNode()    {}
func (*ExprStmt) stmtNode()    {}
func (*Pass) stmtNode()        {}
func (*Break) stmtNode()       {}
func (*Continue) stmtNode()    {}
