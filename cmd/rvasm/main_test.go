package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/rv32i/cpu"
)

func writeSource(t *testing.T, dir string, lines ...string) (path string) {
	t.Helper()

	path = filepath.Join(dir, "input.s")
	err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
	if err != nil {
		t.Fatalf("%v", err)
	}

	return
}

func TestAssemble(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	input := writeSource(t, dir,
		"addi a0, zero, BIAS",
		"halt",
	)
	output := filepath.Join(dir, "output.txt")

	err := assemble(input, output, defineList{"BIAS": "5"}, false)
	assert.NoError(err)

	data, err := os.ReadFile(output)
	assert.NoError(err)
	assert.Equal("00000000010100000000010100010011\n00000000000000000000000001100011\n", string(data))
}

func TestAssemble_LineErrors(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	input := writeSource(t, dir,
		"addi a0, zero, 5",
		"bogus a0",
		"add a0, a1",
		"halt",
	)
	output := filepath.Join(dir, "output.txt")

	// Bad lines are reported and skipped; the run still succeeds.
	err := assemble(input, output, defineList{}, false)
	assert.NoError(err)

	data, err := os.ReadFile(output)
	assert.NoError(err)
	assert.Equal("00000000010100000000010100010011\n00000000000000000000000001100011\n", string(data))
}

func TestAssemble_Empty(t *testing.T) {
	assert := assert.New(t)

	for _, lines := range [][]string{
		{"# nothing here", ""},
		{"bogus a0", "add a0, a1"},
	} {
		dir := t.TempDir()
		input := writeSource(t, dir, lines...)
		output := filepath.Join(dir, "output.txt")

		err := assemble(input, output, defineList{}, false)
		assert.ErrorIs(err, cpu.ErrProgramEmpty)

		_, err = os.Stat(output)
		assert.True(os.IsNotExist(err), "output must not be created")
	}
}

func TestAssemble_Missing(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	output := filepath.Join(dir, "output.txt")

	err := assemble(filepath.Join(dir, "missing.s"), output, defineList{}, false)
	assert.ErrorIs(err, os.ErrNotExist)

	_, err = os.Stat(output)
	assert.True(os.IsNotExist(err))
}

func TestDefineList(t *testing.T) {
	assert := assert.New(t)

	dl := defineList{}
	assert.NoError(dl.Set("A=1"))
	assert.NoError(dl.Set("B="))
	assert.ErrorIs(dl.Set("C"), cpu.ErrEquateSyntax)
	assert.ErrorIs(dl.Set("=2"), cpu.ErrEquateSyntax)
	assert.Equal(defineList{"A": "1", "B": ""}, dl)
}
