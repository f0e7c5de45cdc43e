package protocol

import (
	"strconv"
	"strings"
)

// maxBulkLength matches Redis's own bulk-string size ceiling; a declared
// length at or above this is a protocol violation, not a "wait for more
// data" condition.
const maxBulkLength = 512 * 1024 * 1024

// ProtocolError means the byte stream itself is malformed (bad length,
// missing CRLF, oversized bulk). The connection loop closes the socket on
// this, unlike a validation error from a handler, which just replies.
type ProtocolError struct {
	Message string
}

func (e *ProtocolError) Error() string { return e.Message }

func protoErr(msg string) error {
	return &ProtocolError{Message: msg}
}

// Parser is a stateful RESP2 frame parser. Feed appends newly read bytes;
// TryTake attempts to pull one complete command out of the accumulated
// buffer. If the buffer holds less than one full frame, TryTake leaves it
// completely untouched and reports ok=false so the caller can read more
// and try again — this is what lets a command frame split arbitrarily
// across TCP reads.
type Parser struct {
	buf []byte
}

// NewParser creates an empty parser.
func NewParser() *Parser {
	return &Parser{}
}

// Feed appends data to the internal buffer. data is copied; the caller's
// slice may be reused immediately after Feed returns.
func (p *Parser) Feed(data []byte) {
	p.buf = append(p.buf, data...)
}

// Buffered returns the number of unconsumed bytes currently held.
func (p *Parser) Buffered() int {
	return len(p.buf)
}

// TryTake consumes and returns one complete command as its argument
// words, if the buffer holds one. ok is false (with err nil) if more
// data is needed; err is non-nil if the buffered bytes are malformed
// RESP2/inline syntax.
func (p *Parser) TryTake() (args []string, ok bool, err error) {
	if len(p.buf) == 0 {
		return nil, false, nil
	}
	if p.buf[0] == '*' {
		return p.tryTakeMultibulk()
	}
	return p.tryTakeInline()
}

func findCRLF(buf []byte, from int) int {
	for i := from; i+1 < len(buf); i++ {
		if buf[i] == '\r' && buf[i+1] == '\n' {
			return i
		}
	}
	return -1
}

func (p *Parser) tryTakeInline() (args []string, ok bool, err error) {
	end := findCRLF(p.buf, 0)
	if end == -1 {
		if len(p.buf) > maxBulkLength {
			return nil, false, protoErr("Protocol error: too big inline request")
		}
		return nil, false, nil
	}
	line := string(p.buf[:end])
	p.buf = p.buf[end+2:]
	words, splitErr := splitInline(line)
	if splitErr != nil {
		return nil, false, protoErr("Protocol error: unbalanced quotes in request")
	}
	return words, true, nil
}

// splitInline tokenizes a line on whitespace, honoring single and double
// quoted spans the way redis-cli's inline protocol does.
func splitInline(line string) ([]string, error) {
	var words []string
	var cur strings.Builder
	inWord := false
	i := 0
	for i < len(line) {
		c := line[i]
		switch {
		case c == '"' || c == '\'':
			quote := c
			i++
			start := i
			for i < len(line) && line[i] != quote {
				i++
			}
			if i >= len(line) {
				return nil, protoErr("unbalanced quotes")
			}
			cur.WriteString(line[start:i])
			i++
			inWord = true
		case c == ' ' || c == '\t':
			if inWord {
				words = append(words, cur.String())
				cur.Reset()
				inWord = false
			}
			i++
		default:
			cur.WriteByte(c)
			inWord = true
			i++
		}
	}
	if inWord {
		words = append(words, cur.String())
	}
	return words, nil
}

func (p *Parser) tryTakeMultibulk() (args []string, ok bool, err error) {
	pos := 1
	lineEnd := findCRLF(p.buf, pos)
	if lineEnd == -1 {
		return nil, false, nil
	}
	count, perr := strconv.Atoi(string(p.buf[pos:lineEnd]))
	if perr != nil {
		return nil, false, protoErr("Protocol error: invalid multibulk length")
	}
	pos = lineEnd + 2

	if count <= 0 {
		p.buf = p.buf[pos:]
		return []string{}, true, nil
	}

	words := make([]string, 0, count)
	for i := 0; i < count; i++ {
		if pos >= len(p.buf) {
			return nil, false, nil
		}
		if p.buf[pos] != '$' {
			return nil, false, protoErr("Protocol error: expected '$', got something else")
		}
		lenLineEnd := findCRLF(p.buf, pos+1)
		if lenLineEnd == -1 {
			return nil, false, nil
		}
		length, lerr := strconv.Atoi(string(p.buf[pos+1 : lenLineEnd]))
		if lerr != nil || length < 0 {
			return nil, false, protoErr("Protocol error: invalid bulk length")
		}
		if length >= maxBulkLength {
			return nil, false, protoErr("Protocol error: invalid bulk length")
		}
		dataStart := lenLineEnd + 2
		dataEnd := dataStart + length
		if dataEnd+2 > len(p.buf) {
			return nil, false, nil
		}
		if p.buf[dataEnd] != '\r' || p.buf[dataEnd+1] != '\n' {
			return nil, false, protoErr("Protocol error: missing CRLF after bulk payload")
		}
		words = append(words, string(p.buf[dataStart:dataEnd]))
		pos = dataEnd + 2
	}

	p.buf = p.buf[pos:]
	return words, true, nil
}
