package command

import "redgo/internal/protocol"

func cmdQuit(ctx *Context, args []string) protocol.Reply {
	return okReply
}

func cmdReset(ctx *Context, args []string) protocol.Reply {
	if ctx.PubSub != nil && ctx.Client != nil {
		ctx.PubSub.UnsubscribeAll(ctx.Client)
	}
	return protocol.SimpleString("RESET")
}
