package printer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDocumentInitializes(t *testing.T) {
	doc := NewDocument(32)
	assert.True(t, bytes.HasPrefix(doc.Bytes(), []byte{ESC, '@'}))
}

func TestKeyValueAlignment(t *testing.T) {
	doc := NewDocument(32)
	doc.KeyValue("Total:", "$100.00")

	out := doc.Bytes()
	// Strip the init sequence, drop the trailing LF
	line := string(out[2 : len(out)-1])
	assert.Len(t, line, 32)
	assert.Equal(t, "Total:", line[:6])
	assert.Equal(t, "$100.00", line[len(line)-7:])
}

func TestKeyValueOverflowKeepsOneSpace(t *testing.T) {
	doc := NewDocument(10)
	doc.KeyValue("Very long key", "value")

	out := doc.Bytes()
	line := string(out[2 : len(out)-1])
	assert.Equal(t, "Very long key value", line)
}

func TestSeparatorMatchesWidth(t *testing.T) {
	doc := NewDocument(48)
	doc.Separator('-')

	out := doc.Bytes()
	line := out[2 : len(out)-1]
	assert.Len(t, line, 48)
	for _, b := range line {
		assert.Equal(t, byte('-'), b)
	}
}

func TestCutCommands(t *testing.T) {
	full := NewDocument(32).Cut().Bytes()
	assert.True(t, bytes.HasSuffix(full, []byte{GS, 'V', 0x00}))

	partial := NewDocument(32).PartialCut().Bytes()
	assert.True(t, bytes.HasSuffix(partial, []byte{GS, 'V', 0x01}))
}

func TestResetClearsBuffer(t *testing.T) {
	doc := NewDocument(32)
	doc.Text("hello").Reset()
	assert.Equal(t, []byte{ESC, '@'}, doc.Bytes())
}
