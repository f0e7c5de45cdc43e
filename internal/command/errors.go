package command

import "redgo/internal/protocol"

// Reply constructors for the fixed error vocabulary spec.md §7 defines.
// Handlers build these directly rather than wrapping store.Err* sentinels
// in fmt.Errorf chains, since the wire message text is itself part of the
// observable contract.

func errWrongType() protocol.Reply {
	return protocol.Err{Message: "WRONGTYPE Operation against a key holding the wrong kind of value"}
}

func errNotInteger() protocol.Reply {
	return protocol.Err{Message: "ERR value is not an integer or out of range"}
}

func errNotFloat() protocol.Reply {
	return protocol.Err{Message: "ERR value is not a valid float"}
}

func errSyntax() protocol.Reply {
	return protocol.Err{Message: "ERR syntax error"}
}

func errOverflow() protocol.Reply {
	return protocol.Err{Message: "ERR increment or decrement would overflow"}
}

func errIndexOutOfRange() protocol.Reply {
	return protocol.Err{Message: "ERR index out of range"}
}

func errNoSuchKey() protocol.Reply {
	return protocol.Err{Message: "ERR no such key"}
}

func errGeneric(msg string) protocol.Reply {
	return protocol.Err{Message: "ERR " + msg}
}

var okReply = protocol.SimpleString("OK")
