package lox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvironmentDefineAndGet(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("a", 1.0)

	val, err := env.Get(NewToken(IDENTIFIER, "a", nil, 1))
	assert.NoError(t, err)
	assert.Equal(t, 1.0, val)
}

func TestEnvironmentGetUndefinedFails(t *testing.T) {
	env := NewEnvironment(nil)
	_, err := env.Get(NewToken(IDENTIFIER, "missing", nil, 1))
	assert.Error(t, err)
	assert.Equal(t, "Undefined variable 'missing'.\n[line 1]", err.Error())
}

func TestEnvironmentGetSearchesEnclosing(t *testing.T) {
	outer := NewEnvironment(nil)
	outer.Define("a", "outer")
	inner := NewEnvironment(outer)

	val, err := inner.Get(NewToken(IDENTIFIER, "a", nil, 1))
	assert.NoError(t, err)
	assert.Equal(t, "outer", val)
}

func TestEnvironmentAssignUpdatesNearestBinding(t *testing.T) {
	outer := NewEnvironment(nil)
	outer.Define("a", "outer")
	inner := NewEnvironment(outer)

	err := inner.Assign(NewToken(IDENTIFIER, "a", nil, 1), "updated")
	assert.NoError(t, err)

	val, _ := outer.Get(NewToken(IDENTIFIER, "a", nil, 1))
	assert.Equal(t, "updated", val)
}

func TestEnvironmentAssignUndefinedFails(t *testing.T) {
	env := NewEnvironment(nil)
	err := env.Assign(NewToken(IDENTIFIER, "missing", nil, 1), 1.0)
	assert.Error(t, err)
}

func TestEnvironmentGetAtAndAssignAt(t *testing.T) {
	global := NewEnvironment(nil)
	middle := NewEnvironment(global)
	inner := NewEnvironment(middle)

	global.Define("a", "global-value")

	assert.Equal(t, "global-value", inner.GetAt(2, "a"))

	inner.AssignAt(2, NewToken(IDENTIFIER, "a", nil, 1), "changed")
	assert.Equal(t, "changed", global.values["a"])
}

func TestEnvironmentDefineShadowsInInnerFrameOnly(t *testing.T) {
	outer := NewEnvironment(nil)
	outer.Define("a", "outer")
	inner := NewEnvironment(outer)
	inner.Define("a", "inner")

	innerVal, _ := inner.Get(NewToken(IDENTIFIER, "a", nil, 1))
	outerVal, _ := outer.Get(NewToken(IDENTIFIER, "a", nil, 1))
	assert.Equal(t, "inner", innerVal)
	assert.Equal(t, "outer", outerVal)
}
