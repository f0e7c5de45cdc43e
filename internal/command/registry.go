// Package command implements the command dispatcher: an arity-checked
// registry of handlers, each a pure function from (keyspace, pub/sub,
// args) to a protocol reply. Handlers never touch a socket.
package command

import (
	"fmt"
	"strings"

	"redgo/internal/protocol"
)

// HandlerFunc executes one command. args includes the command name at
// index 0, matching how it arrives off the wire.
type HandlerFunc func(ctx *Context, args []string) protocol.Reply

// Spec describes one registered command: its handler and the argument
// count bounds the dispatcher validates before calling it. MaxArgs of -1
// means unbounded.
type Spec struct {
	Name        string
	Handler     HandlerFunc
	MinArgs     int
	MaxArgs     int
	Description string
}

// Registry is the name→Spec lookup table the connection loop dispatches
// through, mirroring the retrieved Python original's CommandRegistry
// rather than a bare unchecked map: arity is validated once, centrally,
// before any handler runs.
type Registry struct {
	commands map[string]*Spec
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]*Spec)}
}

// Register adds a command under name (case-insensitive on lookup).
// minArgs/maxArgs count the full wire argument list including the
// command name itself (so PING is min=1 max=2, SET key value is min=3).
func (r *Registry) Register(name string, handler HandlerFunc, minArgs, maxArgs int, description string) {
	r.commands[strings.ToUpper(name)] = &Spec{
		Name:        strings.ToUpper(name),
		Handler:     handler,
		MinArgs:     minArgs,
		MaxArgs:     maxArgs,
		Description: description,
	}
}

// Lookup returns the Spec for name, if registered.
func (r *Registry) Lookup(name string) (*Spec, bool) {
	spec, ok := r.commands[strings.ToUpper(name)]
	return spec, ok
}

// Dispatch runs the four-step execution pipeline: lookup, arity check,
// handler call, reply — the handler never sees a malformed call.
func (r *Registry) Dispatch(ctx *Context, args []string) protocol.Reply {
	if len(args) == 0 {
		return nil
	}
	name := strings.ToUpper(args[0])
	spec, ok := r.commands[name]
	if !ok {
		return protocol.Err{Message: fmt.Sprintf("ERR unknown command '%s'", args[0])}
	}
	if len(args) < spec.MinArgs || (spec.MaxArgs >= 0 && len(args) > spec.MaxArgs) {
		return protocol.Err{Message: fmt.Sprintf("ERR wrong number of arguments for '%s' command", strings.ToLower(args[0]))}
	}
	return spec.Handler(ctx, args)
}
