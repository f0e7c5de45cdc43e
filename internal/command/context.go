package command

import (
	"strings"

	"redgo/internal/protocol"
	"redgo/internal/store"
)

// Context is everything a handler needs, threaded through on every call.
// It carries no socket directly: incoming PUBLISH messages reach a
// subscribed connection through the Subscriber's Deliver channel, which
// the connection loop drains independently of command dispatch.
type Context struct {
	Keyspace *store.Keyspace
	PubSub   *store.PubSub
	Client   *store.Subscriber

	// InSubscribeMode is set by the connection loop once Client has at
	// least one subscription, restricting which commands may run (spec's
	// pub/sub restricted-command-set rule).
	InSubscribeMode bool

	// Send, when set by the connection loop, lets a handler write more
	// than one reply frame for a single command — SUBSCRIBE and its
	// siblings reply once per channel argument. A handler that uses Send
	// returns nil from Dispatch's perspective (no further reply is sent).
	Send func(protocol.Reply) error
}

// commandsAllowedWhileSubscribed is the restricted command set spec.md
// §4.11 permits once a connection has at least one subscription.
var commandsAllowedWhileSubscribed = map[string]bool{
	"SUBSCRIBE": true, "UNSUBSCRIBE": true,
	"PSUBSCRIBE": true, "PUNSUBSCRIBE": true,
	"PING": true, "QUIT": true, "RESET": true,
}

// AllowedWhileSubscribed reports whether name may run given the
// connection's current subscribe-mode restriction.
func AllowedWhileSubscribed(name string) bool {
	return commandsAllowedWhileSubscribed[strings.ToUpper(name)]
}
