package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text     string
		wantName string
		wantArgs string
		wantOK   bool
	}{
		{text: "s!add foo: a: b", wantName: "add", wantArgs: "foo: a: b", wantOK: true},
		{text: "s!help", wantName: "help", wantArgs: "", wantOK: true},
		{text: "s!remove  a,  b", wantName: "remove", wantArgs: " a,  b", wantOK: true},
		{text: "s!", wantName: "", wantArgs: "", wantOK: true},
		{text: "hello s!add", wantOK: false},
		{text: "S!add foo: bar", wantOK: false},
	}

	for _, tt := range tests {
		name, args, ok := Parse("s!", tt.text)
		assert.Equal(t, tt.wantOK, ok, tt.text)
		assert.Equal(t, tt.wantName, name, tt.text)
		assert.Equal(t, tt.wantArgs, args, tt.text)
	}
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b c", "d"}, SplitList(" a, b c ,, d ,"))
	assert.Nil(t, SplitList("   "))
}

func TestLookup(t *testing.T) {
	t.Parallel()

	cmd, ok := Lookup(Clone)
	assert.True(t, ok)
	assert.True(t, cmd.Mutating)

	_, ok = Lookup("edit")
	assert.False(t, ok)
}
