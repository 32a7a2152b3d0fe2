package lox

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimpleReporterInit(t *testing.T) {
	var out strings.Builder
	r := NewSimpleReporter(&out)

	assert.False(t, r.HadError())
	assert.False(t, r.HadRuntimeError())
}

func TestSimpleReporterTracksErrorKinds(t *testing.T) {
	var out strings.Builder
	r := NewSimpleReporter(&out)

	assert.False(t, r.HadError())
	assert.False(t, r.HadRuntimeError())

	staticErr := errors.New("static problem")
	r.Report(staticErr)
	assert.True(t, r.HadError())
	assert.False(t, r.HadRuntimeError())

	runtimeErr := NewRuntimeError(NewToken(MINUS, "-", nil, 1), "Operand must be a number.")
	r.Report(runtimeErr)
	assert.True(t, r.HadRuntimeError())

	assert.Equal(t, fmt.Sprintf("%s\n%s\n", staticErr.Error(), runtimeErr.Error()), out.String())
}

func TestSimpleReporterReset(t *testing.T) {
	var out strings.Builder
	r := NewSimpleReporter(&out)

	r.Report(errors.New("boom"))
	assert.True(t, r.HadError())

	r.Reset()
	assert.False(t, r.HadError())
	assert.False(t, r.HadRuntimeError())
	assert.Nil(t, r.Errors())
}

func TestSimpleReporterErrorsCombinesReports(t *testing.T) {
	var out strings.Builder
	r := NewSimpleReporter(&out)

	r.Report(errors.New("first"))
	r.Report(errors.New("second"))

	combined := r.Errors()
	assert.Error(t, combined)
	assert.Contains(t, combined.Error(), "first")
	assert.Contains(t, combined.Error(), "second")
}
