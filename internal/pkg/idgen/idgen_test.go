package idgen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/certquest/internal/pkg/idgen"
)

func TestSequentialGenerator(t *testing.T) {
	gen := idgen.NewSequential("battle")

	assert.Equal(t, "battle_1", gen.Generate())
	assert.Equal(t, "battle_2", gen.Generate())

	bare := idgen.NewSequential("")
	assert.Equal(t, "1", bare.Generate())
}

func TestUUIDGenerator(t *testing.T) {
	gen := idgen.NewUUID("session")

	first := gen.Generate()
	second := gen.Generate()

	assert.True(t, strings.HasPrefix(first, "session_"))
	assert.NotEqual(t, first, second)
}

func TestFuncGenerator(t *testing.T) {
	var gen idgen.Generator = idgen.Func(func() string { return "fixed" })
	assert.Equal(t, "fixed", gen.Generate())
}
