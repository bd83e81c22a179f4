package ast

type (
	// Arguments is a function or lambda signature. KwDefaults is parallel to
	// KwOnly with nil for parameters without a default; Defaults belong to
	// the last len(Defaults) positional parameters.
	Arguments struct {
		PosOnly    []*Arg
		Args       []*Arg
		Vararg     *Arg
		KwOnly     []*Arg
		KwDefaults []Expr
		Kwarg      *Arg
		Defaults   []Expr
	}

	Arg struct {
		Loc
		Name       string
		Annotation Expr
	}

	// Keyword is "name=value" in a call, or "**value" when Name is empty.
	Keyword struct {
		Loc
		Name  string
		Value Expr
	}

	Alias struct {
		Loc
		Name   string
		AsName string
	}

	Comprehension struct {
		Target  Expr
		Iter    Expr
		Ifs     []Expr
		IsAsync bool
	}

	ExceptHandler struct {
		Loc
		Type Expr
		Name string
		Body []Stmt
	}

	WithItem struct {
		ContextExpr  Expr
		OptionalVars Expr
	}

	MatchCase struct {
		Pattern Pattern
		Guard   Expr
		Body    []Stmt
	}
)

func (*Arguments) node()     {}
func (*Arg) node()           {}
func (*Keyword) node()       {}
func (*Alias) node()         {}
func (*Comprehension) node() {}
func (*ExceptHandler) node() {}
func (*WithItem) node()      {}
func (*MatchCase) node()     {}

type (
	MatchValue struct {
		Loc
		Value Expr
	}

	// MatchSingleton matches None, True or False.
	MatchSingleton struct {
		Loc
		Value *Constant
	}

	MatchSequence struct {
		Loc
		Patterns []Pattern
	}

	MatchMapping struct {
		Loc
		Keys     []Expr
		Patterns []Pattern
		Rest     string
	}

	MatchClass struct {
		Loc
		Cls         Expr
		Patterns    []Pattern
		KwdAttrs    []string
		KwdPatterns []Pattern
	}

	MatchStar struct {
		Loc
		Name string // "" for *_
	}

	// MatchAs is "pattern as name", a capture ("name") or the wildcard "_"
	// (both fields empty).
	MatchAs struct {
		Loc
		Pattern Pattern
		Name    string
	}

	MatchOr struct {
		Loc
		Patterns []Pattern
	}
)

func (*MatchValue) node()     {}
func (*MatchSingleton) node() {}
func (*MatchSequence) node()  {}
func (*MatchMapping) node()   {}
func (*MatchClass) node()     {}
func (*MatchStar) node()      {}
func (*MatchAs) node()        {}
func (*MatchOr) node()        {}

func (*MatchValue) patternNode()     {}
func (*MatchSingleton) patternNode() {}
func (*MatchSequence) patternNode()  {}
func (*MatchMapping) patternNode()   {}
func (*MatchClass) patternNode()     {}
func (*MatchStar) patternNode()      {}
func (*MatchAs) patternNode()        {}
func (*MatchOr) patternNode()        {}

type (
	TypeVar struct {
		Loc
		Name  string
		Bound Expr
	}

	ParamSpec struct {
		Loc
		Name string
	}

	TypeVarTuple struct {
		Loc
		Name string
	}
)

func (*TypeVar) node()      {}
func (*ParamSpec) node()    {}
func (*TypeVarTuple) node() {}

func (*TypeVar) typeParamNode()      {}
func (*ParamSpec) typeParamNode()    {}
func (*TypeVarTuple) typeParamNode() {}
