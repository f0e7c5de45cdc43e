package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParserMultibulkWholeFrame(t *testing.T) {
	p := NewParser()
	p.Feed([]byte("*2\r\n$3\r\nGET\r\n$3\r\nfoo\r\n"))

	args, ok, err := p.TryTake()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"GET", "foo"}, args)
	assert.Equal(t, 0, p.Buffered())
}

func TestParserSurvivesSplitAcrossFeeds(t *testing.T) {
	p := NewParser()
	p.Feed([]byte("*2\r\n$3\r\nGET\r\n$3\r\nfo"))

	args, ok, err := p.TryTake()
	require.NoError(t, err)
	require.False(t, ok)
	assert.Nil(t, args)

	p.Feed([]byte("o\r\n"))
	args, ok, err = p.TryTake()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"GET", "foo"}, args)
}

func TestParserByteAtATime(t *testing.T) {
	p := NewParser()
	frame := []byte("*1\r\n$4\r\nPING\r\n")
	for i := 0; i < len(frame)-1; i++ {
		p.Feed(frame[i : i+1])
		_, ok, err := p.TryTake()
		require.NoError(t, err)
		require.False(t, ok, "frame should be incomplete at byte %d", i)
	}
	p.Feed(frame[len(frame)-1:])
	args, ok, err := p.TryTake()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"PING"}, args)
}

func TestParserPipelinedCommands(t *testing.T) {
	p := NewParser()
	p.Feed([]byte("*1\r\n$4\r\nPING\r\n*1\r\n$4\r\nPING\r\n"))

	_, ok, err := p.TryTake()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Greater(t, p.Buffered(), 0)

	_, ok, err = p.TryTake()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0, p.Buffered())
}

func TestParserInlineCommand(t *testing.T) {
	p := NewParser()
	p.Feed([]byte("PING\r\n"))
	args, ok, err := p.TryTake()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"PING"}, args)
}

func TestParserInlineQuotedArgument(t *testing.T) {
	p := NewParser()
	p.Feed([]byte("SET key \"hello world\"\r\n"))
	args, ok, err := p.TryTake()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"SET", "key", "hello world"}, args)
}

func TestParserRejectsBadMultibulkLength(t *testing.T) {
	p := NewParser()
	p.Feed([]byte("*xx\r\n"))
	_, ok, err := p.TryTake()
	require.False(t, ok)
	var protoErr *ProtocolError
	require.ErrorAs(t, err, &protoErr)
}

func TestParserRejectsOversizedBulkLength(t *testing.T) {
	p := NewParser()
	p.Feed([]byte("*1\r\n$999999999999\r\n"))
	_, ok, err := p.TryTake()
	require.False(t, ok)
	require.Error(t, err)
}

func TestParserZeroArgMultibulk(t *testing.T) {
	p := NewParser()
	p.Feed([]byte("*0\r\n"))
	args, ok, err := p.TryTake()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, args)
}
