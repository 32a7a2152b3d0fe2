package lox

import (
	"fmt"
	"time"
)

// loxCallable is anything that can appear on the left of a call expression:
// user-defined functions and methods, classes (called to construct an
// instance), and native functions supplied by the runtime.
type loxCallable interface {
	Arity() int
	Call(interp *Interpreter, args []interface{}) (interface{}, error)
	String() string
}

// nativeFn adapts a plain Go function into a loxCallable so the interpreter
// can seed its global environment with built-ins.
type nativeFn struct {
	arity int
	name  string
	fn    func(interp *Interpreter, args []interface{}) (interface{}, error)
}

func (n *nativeFn) Arity() int { return n.arity }

func (n *nativeFn) Call(interp *Interpreter, args []interface{}) (interface{}, error) {
	return n.fn(interp, args)
}

func (n *nativeFn) String() string { return "<native fn>" }

// clockFn returns the number of seconds since the Unix epoch. It exists so
// programs can measure elapsed time without the language needing any I/O.
var clockFn = &nativeFn{
	arity: 0,
	name:  "clock",
	fn: func(interp *Interpreter, args []interface{}) (interface{}, error) {
		return float64(time.Now().UnixNano()) / float64(time.Second), nil
	},
}

// LoxFunction is a user-defined function or method: its declaration plus the
// environment that was live when it was declared. Capturing that
// environment (rather than the one active at call time) is what gives Lox
// closures their behavior.
type LoxFunction struct {
	declaration   *FunctionStmt
	closure       *Environment
	isInitializer bool
}

// NewLoxFunction wraps declaration as a callable value, closing over closure.
func NewLoxFunction(declaration *FunctionStmt, closure *Environment, isInitializer bool) *LoxFunction {
	return &LoxFunction{declaration, closure, isInitializer}
}

func (f *LoxFunction) Arity() int {
	return len(f.declaration.Params)
}

// bind returns a new LoxFunction whose closure is a fresh environment
// wrapping f's, with "this" bound to instance. It's how a method lookup
// turns an unbound method declaration into a callable that knows its
// receiver.
func (f *LoxFunction) bind(instance *LoxInstance) *LoxFunction {
	env := NewEnvironment(f.closure)
	env.Define("this", instance)
	return NewLoxFunction(f.declaration, env, f.isInitializer)
}

// Call runs the function body in a fresh environment nested in its closure.
// A `return` statement anywhere in the body unwinds back here as a
// returnUnwind error rather than an ordinary error, carrying the value out;
// a body that runs to completion without one returns nil (or, for an
// initializer, the receiver).
func (f *LoxFunction) Call(interp *Interpreter, args []interface{}) (interface{}, error) {
	env := NewEnvironment(f.closure)
	for i, param := range f.declaration.Params {
		env.Define(param.Lexeme, args[i])
	}

	err := interp.executeBlock(f.declaration.Body, env)
	if ret, ok := err.(*returnUnwind); ok {
		if f.isInitializer {
			return f.closure.GetAt(0, "this"), nil
		}
		return ret.value, nil
	}
	if err != nil {
		return nil, err
	}
	if f.isInitializer {
		return f.closure.GetAt(0, "this"), nil
	}
	return nil, nil
}

func (f *LoxFunction) String() string {
	return fmt.Sprintf("<fn %s>", f.declaration.Name.Lexeme)
}

// LoxClass is a callable that constructs LoxInstance values. Calling it runs
// "init" (if the class or one of its ancestors defines one) against the new,
// still-empty instance.
type LoxClass struct {
	Name       string
	Superclass *LoxClass
	Methods    map[string]*LoxFunction
}

// NewLoxClass creates a class named name, inheriting from superclass (nil
// for a root class), with its own methods (not including inherited ones).
func NewLoxClass(name string, superclass *LoxClass, methods map[string]*LoxFunction) *LoxClass {
	return &LoxClass{name, superclass, methods}
}

// findMethod looks up name on the class itself, then its superclass chain.
func (c *LoxClass) findMethod(name string) *LoxFunction {
	if method, ok := c.Methods[name]; ok {
		return method
	}
	if c.Superclass != nil {
		return c.Superclass.findMethod(name)
	}
	return nil
}

func (c *LoxClass) Arity() int {
	if init := c.findMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

func (c *LoxClass) Call(interp *Interpreter, args []interface{}) (interface{}, error) {
	instance := NewLoxInstance(c)
	if init := c.findMethod("init"); init != nil {
		if _, err := init.bind(instance).Call(interp, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

func (c *LoxClass) String() string {
	return c.Name
}

// LoxInstance is a runtime object: a class plus its own mutable field
// bindings. Fields shadow methods of the same name.
type LoxInstance struct {
	class  *LoxClass
	fields map[string]interface{}
}

// NewLoxInstance creates a fresh instance of class with no fields set.
func NewLoxInstance(class *LoxClass) *LoxInstance {
	return &LoxInstance{class: class, fields: make(map[string]interface{})}
}

// Get looks up name as a field first, then as a method bound to this
// instance. It fails if name is neither.
func (i *LoxInstance) Get(name *Token) (interface{}, error) {
	if value, ok := i.fields[name.Lexeme]; ok {
		return value, nil
	}
	if method := i.class.findMethod(name.Lexeme); method != nil {
		return method.bind(i), nil
	}
	return nil, NewRuntimeError(name, fmt.Sprintf("Undefined property '%s'.", name.Lexeme))
}

// Set assigns a field on this instance, creating it if it doesn't already
// exist. Lox has no notion of a fixed field set per class.
func (i *LoxInstance) Set(name *Token, value interface{}) {
	i.fields[name.Lexeme] = value
}

func (i *LoxInstance) String() string {
	return fmt.Sprintf("%s instance", i.class.Name)
}
