package hir

import (
	"chad/internal/source"
	"chad/internal/types"
)

// StmtKind enumerates typed statement kinds.
type StmtKind uint8

const (
	// StmtIf represents an if/elif/else chain.
	StmtIf StmtKind = iota
	StmtWhile
	// StmtForIn iterates through the next protocol.
	StmtForIn
	// StmtFieldLoop iterates over struct fields at compile time. It never
	// survives monomorphization.
	StmtFieldLoop
	StmtBreak
	StmtContinue
	StmtReturn
	StmtDeclare
	StmtAssign
	StmtExpr
	// StmtInclude is a verbatim foreign code block.
	StmtInclude
	// StmtBlock is a nested scope (an unrolled reflection iteration).
	StmtBlock
)

func (k StmtKind) String() string {
	switch k {
	case StmtIf:
		return "If"
	case StmtWhile:
		return "While"
	case StmtForIn:
		return "ForIn"
	case StmtFieldLoop:
		return "FieldLoop"
	case StmtBreak:
		return "Break"
	case StmtContinue:
		return "Continue"
	case StmtReturn:
		return "Return"
	case StmtDeclare:
		return "Declare"
	case StmtAssign:
		return "Assign"
	case StmtExpr:
		return "Expr"
	case StmtInclude:
		return "Include"
	case StmtBlock:
		return "Block"
	default:
		return "Unknown"
	}
}

// Stmt is a typed statement.
type Stmt struct {
	Kind StmtKind
	Span source.Span
	Data StmtData
}

// StmtData is the interface for statement-specific data.
type StmtData interface {
	stmtData()
}

// IfBranch is one arm of a chain; Cond is nil for else.
type IfBranch struct {
	Cond *Expr
	Body []*Stmt
}

type IfData struct {
	Branches []IfBranch
}

func (IfData) stmtData() {}

type WhileData struct {
	Cond *Expr
	Body []*Stmt
}

func (WhileData) stmtData() {}

// ForInData holds data for StmtForIn. Iter is evaluated once into the
// iterator slot; Next is next(&slot) and yields a pointer, null stops.
type ForInData struct {
	Var     string
	VarType types.TypeID
	Iter    *Expr
	Next    *Expr
	Body    []*Stmt
}

func (ForInData) stmtData() {}

// FieldLoopData holds data for StmtFieldLoop.
type FieldLoopData struct {
	Depth  int
	Target *Expr
	Body   []*Stmt
}

func (FieldLoopData) stmtData() {}

type ReturnData struct {
	Value *Expr // nil for a bare return
}

func (ReturnData) stmtData() {}

type DeclareData struct {
	Name    string
	Type    types.TypeID
	Value   *Expr
	Mutable bool
}

func (DeclareData) stmtData() {}

// AssignData holds data for StmtAssign. Op is =, += or -= on basic operands;
// compound operators on other types are lowered to = with a trait op.
type AssignData struct {
	Target *Expr
	Op     string
	Value  *Expr
}

func (AssignData) stmtData() {}

type ExprStmtData struct {
	Expr *Expr
}

func (ExprStmtData) stmtData() {}

// IncludeData holds data for StmtInclude. Types fill the %N placeholders.
type IncludeData struct {
	Code  string
	Types []types.TypeID
}

func (IncludeData) stmtData() {}

type BlockData struct {
	Body []*Stmt
}

func (BlockData) stmtData() {}
