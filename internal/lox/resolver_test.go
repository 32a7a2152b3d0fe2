package lox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func resolveSource(t *testing.T, src string) (*Interpreter, *mockReporter) {
	t.Helper()
	reporter := newMockReporter()
	scanner := NewScanner([]rune(src), reporter)
	parser := NewParser(scanner.Scan(), reporter)
	stmts := parser.Parse()
	assert.False(t, reporter.HadError(), "unexpected parse error")

	var out strings.Builder
	interp := NewInterpreter(&out, reporter, false)
	resolver := NewResolver(interp, reporter)
	resolver.Resolve(stmts)
	return interp, reporter
}

func TestResolverGlobalSelfReferenceIsNotStaticError(t *testing.T) {
	_, reporter := resolveSource(t, "var a = a;")
	assert.False(t, reporter.HadError())
}

func TestResolverLocalSelfReferenceIsStaticError(t *testing.T) {
	_, reporter := resolveSource(t, "{ var a = a; }")
	assert.True(t, reporter.HadError())
	assert.Equal(t, "Can't read local variable in its own initializer.",
		reporter.errors[0].(*ParseError).message)
}

func TestResolverDuplicateLocalDeclaration(t *testing.T) {
	_, reporter := resolveSource(t, "{ var a = 1; var a = 2; }")
	assert.True(t, reporter.HadError())
	assert.Equal(t, "Already a variable with this name in this scope.",
		reporter.errors[0].(*ParseError).message)
}

func TestResolverReturnOutsideFunction(t *testing.T) {
	_, reporter := resolveSource(t, "return 1;")
	assert.True(t, reporter.HadError())
	assert.Equal(t, "Can't return from top-level code.",
		reporter.errors[0].(*ParseError).message)
}

func TestResolverReturnValueFromInitializer(t *testing.T) {
	_, reporter := resolveSource(t, `
		class Foo {
			init() { return 1; }
		}
	`)
	assert.True(t, reporter.HadError())
	assert.Equal(t, "Can't return a value from an initializer.",
		reporter.errors[0].(*ParseError).message)
}

func TestResolverThisOutsideClass(t *testing.T) {
	_, reporter := resolveSource(t, "print this;")
	assert.True(t, reporter.HadError())
	assert.Equal(t, "Can't use 'this' outside of a class.",
		reporter.errors[0].(*ParseError).message)
}

func TestResolverSuperWithoutSuperclass(t *testing.T) {
	_, reporter := resolveSource(t, `
		class Foo {
			bar() { super.bar(); }
		}
	`)
	assert.True(t, reporter.HadError())
	assert.Equal(t, "Can't use 'super' in a class with no superclass.",
		reporter.errors[0].(*ParseError).message)
}

func TestResolverClassCannotInheritFromItself(t *testing.T) {
	_, reporter := resolveSource(t, "class Foo < Foo {}")
	assert.True(t, reporter.HadError())
	assert.Equal(t, "A class can't inherit from itself.",
		reporter.errors[0].(*ParseError).message)
}

func TestResolverRecordsDistanceForLocalVariable(t *testing.T) {
	interp, reporter := resolveSource(t, `
		var a = "global";
		{
			fun show() { print a; }
			show();
		}
	`)
	assert.False(t, reporter.HadError())
	// "show" is declared in the block, so the callee of show() resolves at
	// distance 0; "a" inside show() resolves to globals and gets no entry.
	assert.Len(t, interp.locals, 1)
	for _, distance := range interp.locals {
		assert.Equal(t, 0, distance)
	}
}
