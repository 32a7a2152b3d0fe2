package lox

import (
	"fmt"
	"io"
)

// returnUnwind carries a `return` statement's value up through however many
// nested exec/eval frames separate it from the LoxFunction.Call that started
// the current function body. It satisfies error so it can travel along the
// same return-value channel every other statement/expression uses; only
// LoxFunction.Call ever inspects it instead of propagating it further.
type returnUnwind struct {
	value interface{}
}

func (r *returnUnwind) Error() string {
	return fmt.Sprintf("return %s", stringify(r.value))
}

// Interpreter walks a resolved syntax tree, evaluating expressions and
// executing statements against a chain of lexical environments. It
// implements both ExprVisitor and StmtVisitor.
type Interpreter struct {
	globals     *Environment
	environment *Environment
	locals      map[Expr]int
	output      io.Writer
	reporter    Reporter
	isREPL      bool
}

// NewInterpreter creates an interpreter that writes `print` output to
// output and reports runtime errors through reporter. isREPL controls
// whether a bare expression statement echoes its value, the way the REPL
// does.
func NewInterpreter(output io.Writer, reporter Reporter, isREPL bool) *Interpreter {
	globals := NewEnvironment(nil)
	globals.Define("clock", clockFn)
	return &Interpreter{
		globals:     globals,
		environment: globals,
		locals:      make(map[Expr]int),
		output:      output,
		reporter:    reporter,
		isREPL:      isREPL,
	}
}

// Interpret executes statements in order against the interpreter's current
// environment, reporting the first runtime error and stopping there.
// Because the interpreter is long-lived across REPL lines, global bindings
// made by one line remain visible to the next.
func (in *Interpreter) Interpret(statements []Stmt) {
	for _, stmt := range statements {
		if _, err := in.exec(stmt); err != nil {
			in.reporter.Report(err)
			return
		}
	}
}

// resolve records that expr's variable reference is `distance` enclosing
// frames away from wherever it's evaluated. Called by the resolver; absent
// entries mean "look up in globals at run time".
func (in *Interpreter) resolve(expr Expr, distance int) {
	in.locals[expr] = distance
}

func (in *Interpreter) VisitBlockStmt(stmt *BlockStmt) (interface{}, error) {
	return nil, in.executeBlock(stmt.Stmts, NewEnvironment(in.environment))
}

func (in *Interpreter) VisitClassStmt(stmt *ClassStmt) (interface{}, error) {
	// Two-stage binding: the class name exists (bound to nil) before the
	// superclass expression or method bodies are evaluated.
	in.environment.Define(stmt.Name.Lexeme, nil)

	var superclass *LoxClass
	if stmt.Superclass != nil {
		val, err := in.eval(stmt.Superclass)
		if err != nil {
			return nil, err
		}
		sc, ok := val.(*LoxClass)
		if !ok {
			return nil, NewRuntimeError(stmt.Superclass.Name, "Superclass must be a class.")
		}
		superclass = sc
	}

	if stmt.Superclass != nil {
		in.environment = NewEnvironment(in.environment)
		in.environment.Define("super", superclass)
	}

	methods := make(map[string]*LoxFunction, len(stmt.Methods))
	for _, method := range stmt.Methods {
		fn := NewLoxFunction(method, in.environment, method.Name.Lexeme == "init")
		methods[method.Name.Lexeme] = fn
	}

	class := NewLoxClass(stmt.Name.Lexeme, superclass, methods)

	if stmt.Superclass != nil {
		in.environment = in.environment.enclosing
	}

	return nil, in.environment.Assign(stmt.Name, class)
}

func (in *Interpreter) VisitExprStmt(stmt *ExprStmt) (interface{}, error) {
	val, err := in.eval(stmt.Expr)
	if err != nil {
		return nil, err
	}
	if in.isREPL {
		if _, ok := stmt.Expr.(*AssignExpr); !ok {
			fmt.Fprintln(in.output, stringify(val))
		}
	}
	return nil, nil
}

func (in *Interpreter) VisitFunctionStmt(stmt *FunctionStmt) (interface{}, error) {
	fn := NewLoxFunction(stmt, in.environment, false)
	in.environment.Define(stmt.Name.Lexeme, fn)
	return nil, nil
}

func (in *Interpreter) VisitIfStmt(stmt *IfStmt) (interface{}, error) {
	cond, err := in.eval(stmt.Cond)
	if err != nil {
		return nil, err
	}
	if isTruthy(cond) {
		return in.exec(stmt.ThenBranch)
	}
	if stmt.ElseBranch != nil {
		return in.exec(stmt.ElseBranch)
	}
	return nil, nil
}

func (in *Interpreter) VisitPrintStmt(stmt *PrintStmt) (interface{}, error) {
	val, err := in.eval(stmt.Expr)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(in.output, stringify(val))
	return nil, nil
}

func (in *Interpreter) VisitReturnStmt(stmt *ReturnStmt) (interface{}, error) {
	var val interface{}
	if stmt.Val != nil {
		v, err := in.eval(stmt.Val)
		if err != nil {
			return nil, err
		}
		val = v
	}
	return nil, &returnUnwind{val}
}

func (in *Interpreter) VisitVarStmt(stmt *VarStmt) (interface{}, error) {
	var initVal interface{}
	if stmt.Init != nil {
		var err error
		initVal, err = in.eval(stmt.Init)
		if err != nil {
			return nil, err
		}
	}
	in.environment.Define(stmt.Name.Lexeme, initVal)
	return nil, nil
}

func (in *Interpreter) VisitWhileStmt(stmt *WhileStmt) (interface{}, error) {
	for {
		cond, err := in.eval(stmt.Cond)
		if err != nil {
			return nil, err
		}
		if !isTruthy(cond) {
			return nil, nil
		}
		if _, err := in.exec(stmt.Body); err != nil {
			return nil, err
		}
	}
}

func (in *Interpreter) VisitAssignExpr(expr *AssignExpr) (interface{}, error) {
	val, err := in.eval(expr.Val)
	if err != nil {
		return nil, err
	}

	if distance, ok := in.locals[expr]; ok {
		in.environment.AssignAt(distance, expr.Name, val)
		return val, nil
	}
	if err := in.globals.Assign(expr.Name, val); err != nil {
		return nil, err
	}
	return val, nil
}

func (in *Interpreter) VisitBinaryExpr(expr *BinaryExpr) (interface{}, error) {
	lhs, err := in.eval(expr.Lhs)
	if err != nil {
		return nil, err
	}
	rhs, err := in.eval(expr.Rhs)
	if err != nil {
		return nil, err
	}

	switch expr.Op.Typ {
	case BANG_EQUAL:
		return !isEqual(lhs, rhs), nil
	case EQUAL_EQUAL:
		return isEqual(lhs, rhs), nil
	case GREATER:
		l, r, err := numberOperands(expr.Op, lhs, rhs)
		if err != nil {
			return nil, err
		}
		return l > r, nil
	case GREATER_EQUAL:
		l, r, err := numberOperands(expr.Op, lhs, rhs)
		if err != nil {
			return nil, err
		}
		return l >= r, nil
	case LESS:
		l, r, err := numberOperands(expr.Op, lhs, rhs)
		if err != nil {
			return nil, err
		}
		return l < r, nil
	case LESS_EQUAL:
		l, r, err := numberOperands(expr.Op, lhs, rhs)
		if err != nil {
			return nil, err
		}
		return l <= r, nil
	case MINUS:
		l, r, err := numberOperands(expr.Op, lhs, rhs)
		if err != nil {
			return nil, err
		}
		return l - r, nil
	case PLUS:
		if lstr, ok := lhs.(string); ok {
			if rstr, ok := rhs.(string); ok {
				return lstr + rstr, nil
			}
		}
		if lnum, ok := lhs.(float64); ok {
			if rnum, ok := rhs.(float64); ok {
				return lnum + rnum, nil
			}
		}
		return nil, NewRuntimeError(expr.Op, "Operands must be two numbers or two strings.")
	case SLASH:
		l, r, err := numberOperands(expr.Op, lhs, rhs)
		if err != nil {
			return nil, err
		}
		return l / r, nil
	case STAR:
		l, r, err := numberOperands(expr.Op, lhs, rhs)
		if err != nil {
			return nil, err
		}
		return l * r, nil
	}
	panic("unreachable binary operator " + expr.Op.Typ.String())
}

func numberOperands(op *Token, lhs, rhs interface{}) (float64, float64, error) {
	l, lok := lhs.(float64)
	r, rok := rhs.(float64)
	if !lok || !rok {
		return 0, 0, NewRuntimeError(op, "Operands must be numbers.")
	}
	return l, r, nil
}

func (in *Interpreter) VisitCallExpr(expr *CallExpr) (interface{}, error) {
	callee, err := in.eval(expr.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]interface{}, len(expr.Args))
	for i, arg := range expr.Args {
		val, err := in.eval(arg)
		if err != nil {
			return nil, err
		}
		args[i] = val
	}

	fn, ok := callee.(loxCallable)
	if !ok {
		return nil, NewRuntimeError(expr.Paren, "Can only call functions and classes.")
	}
	if len(args) != fn.Arity() {
		return nil, NewRuntimeError(
			expr.Paren,
			fmt.Sprintf("Expected %d arguments but got %d.", fn.Arity(), len(args)),
		)
	}
	return fn.Call(in, args)
}

func (in *Interpreter) VisitGetExpr(expr *GetExpr) (interface{}, error) {
	obj, err := in.eval(expr.Obj)
	if err != nil {
		return nil, err
	}
	instance, ok := obj.(*LoxInstance)
	if !ok {
		return nil, NewRuntimeError(expr.Name, "Only instances have properties.")
	}
	return instance.Get(expr.Name)
}

func (in *Interpreter) VisitSetExpr(expr *SetExpr) (interface{}, error) {
	obj, err := in.eval(expr.Obj)
	if err != nil {
		return nil, err
	}
	instance, ok := obj.(*LoxInstance)
	if !ok {
		return nil, NewRuntimeError(expr.Name, "Only instances have fields.")
	}
	val, err := in.eval(expr.Val)
	if err != nil {
		return nil, err
	}
	instance.Set(expr.Name, val)
	return val, nil
}

func (in *Interpreter) VisitSuperExpr(expr *SuperExpr) (interface{}, error) {
	distance := in.locals[expr]
	superclass := in.environment.GetAt(distance, "super").(*LoxClass)
	instance := in.environment.GetAt(distance-1, "this").(*LoxInstance)

	method := superclass.findMethod(expr.Method.Lexeme)
	if method == nil {
		return nil, NewRuntimeError(expr.Method, fmt.Sprintf("Undefined property '%s'.", expr.Method.Lexeme))
	}
	return method.bind(instance), nil
}

func (in *Interpreter) VisitThisExpr(expr *ThisExpr) (interface{}, error) {
	return in.lookupVariable(expr.Keyword, expr)
}

func (in *Interpreter) VisitGroupExpr(expr *GroupExpr) (interface{}, error) {
	return in.eval(expr.Expr)
}

func (in *Interpreter) VisitLiteralExpr(expr *LiteralExpr) (interface{}, error) {
	return expr.Val, nil
}

func (in *Interpreter) VisitLogicalExpr(expr *LogicalExpr) (interface{}, error) {
	lhs, err := in.eval(expr.Lhs)
	if err != nil {
		return nil, err
	}

	switch expr.Op.Typ {
	case OR:
		if isTruthy(lhs) {
			return lhs, nil
		}
	case AND:
		if !isTruthy(lhs) {
			return lhs, nil
		}
	}
	return in.eval(expr.Rhs)
}

func (in *Interpreter) VisitUnaryExpr(expr *UnaryExpr) (interface{}, error) {
	val, err := in.eval(expr.Expr)
	if err != nil {
		return nil, err
	}

	switch expr.Op.Typ {
	case BANG:
		return !isTruthy(val), nil
	case MINUS:
		num, ok := val.(float64)
		if !ok {
			return nil, NewRuntimeError(expr.Op, "Operand must be a number.")
		}
		return -num, nil
	}
	panic("unreachable unary operator " + expr.Op.Typ.String())
}

func (in *Interpreter) VisitVarExpr(expr *VarExpr) (interface{}, error) {
	return in.lookupVariable(expr.Name, expr)
}

// lookupVariable resolves name either through the distance recorded by the
// resolver, or - for names the resolver left unrecorded - directly against
// globals.
func (in *Interpreter) lookupVariable(name *Token, expr Expr) (interface{}, error) {
	if distance, ok := in.locals[expr]; ok {
		return in.environment.GetAt(distance, name.Lexeme), nil
	}
	return in.globals.Get(name)
}

// executeBlock runs stmts against env, always restoring the interpreter's
// previous environment on the way out - whether stmts ran to completion, a
// return unwound through it, or a runtime error did.
func (in *Interpreter) executeBlock(stmts []Stmt, env *Environment) error {
	previous := in.environment
	in.environment = env
	defer func() { in.environment = previous }()

	for _, stmt := range stmts {
		if _, err := in.exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) exec(stmt Stmt) (interface{}, error) {
	return stmt.Accept(in)
}

func (in *Interpreter) eval(expr Expr) (interface{}, error) {
	return expr.Accept(in)
}
