package protocol

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeToString(t *testing.T, r Reply) string {
	t.Helper()
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	require.NoError(t, Encode(w, r))
	return buf.String()
}

func TestEncodeSimpleString(t *testing.T) {
	assert.Equal(t, "+OK\r\n", encodeToString(t, SimpleString("OK")))
}

func TestEncodeError(t *testing.T) {
	assert.Equal(t, "-WRONGTYPE wrong kind of value\r\n", encodeToString(t, Err{Message: "WRONGTYPE wrong kind of value"}))
}

func TestEncodeInteger(t *testing.T) {
	assert.Equal(t, ":42\r\n", encodeToString(t, Integer(42)))
	assert.Equal(t, ":-1\r\n", encodeToString(t, Integer(-1)))
}

func TestEncodeBulkString(t *testing.T) {
	assert.Equal(t, "$5\r\nhello\r\n", encodeToString(t, NewBulkString("hello")))
	assert.Equal(t, "$0\r\n\r\n", encodeToString(t, NewBulkString("")))
}

func TestEncodeNullBulkDistinctFromEmpty(t *testing.T) {
	assert.Equal(t, "$-1\r\n", encodeToString(t, NilBulk()))
	assert.NotEqual(t, encodeToString(t, NilBulk()), encodeToString(t, NewBulkString("")))
}

func TestEncodeArray(t *testing.T) {
	got := encodeToString(t, StringArray([]string{"a", "b"}))
	assert.Equal(t, "*2\r\n$1\r\na\r\n$1\r\nb\r\n", got)
}

func TestEncodeEmptyArrayDistinctFromNullArray(t *testing.T) {
	assert.Equal(t, "*0\r\n", encodeToString(t, NewArray()))
	assert.Equal(t, "*-1\r\n", encodeToString(t, NilArray()))
}
