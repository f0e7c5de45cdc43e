package command

import "redgo/internal/protocol"

func cmdSubscribe(ctx *Context, args []string) protocol.Reply {
	for _, channel := range args[1:] {
		count := ctx.PubSub.Subscribe(channel, ctx.Client)
		sendSubReply(ctx, "subscribe", channel, count)
	}
	return nil
}

func cmdUnsubscribe(ctx *Context, args []string) protocol.Reply {
	channels := args[1:]
	if len(channels) == 0 {
		channels = ctx.Client.Channels()
		if len(channels) == 0 {
			sendSubReply(ctx, "unsubscribe", "", ctx.Client.SubscriptionCount())
			return nil
		}
	}
	for _, channel := range channels {
		count := ctx.PubSub.Unsubscribe(channel, ctx.Client)
		sendSubReply(ctx, "unsubscribe", channel, count)
	}
	return nil
}

func cmdPSubscribe(ctx *Context, args []string) protocol.Reply {
	for _, pattern := range args[1:] {
		count := ctx.PubSub.PSubscribe(pattern, ctx.Client)
		sendSubReply(ctx, "psubscribe", pattern, count)
	}
	return nil
}

func cmdPUnsubscribe(ctx *Context, args []string) protocol.Reply {
	patterns := args[1:]
	if len(patterns) == 0 {
		patterns = ctx.Client.Patterns()
		if len(patterns) == 0 {
			sendSubReply(ctx, "punsubscribe", "", ctx.Client.SubscriptionCount())
			return nil
		}
	}
	for _, pattern := range patterns {
		count := ctx.PubSub.PUnsubscribe(pattern, ctx.Client)
		sendSubReply(ctx, "punsubscribe", pattern, count)
	}
	return nil
}

func sendSubReply(ctx *Context, kind, channelOrPattern string, count int) {
	if ctx.Send == nil {
		return
	}
	var channelReply protocol.Reply = protocol.NilBulk()
	if channelOrPattern != "" {
		channelReply = protocol.NewBulkString(channelOrPattern)
	}
	_ = ctx.Send(protocol.NewArray(
		protocol.NewBulkString(kind),
		channelReply,
		protocol.Integer(count),
	))
}

func cmdPublish(ctx *Context, args []string) protocol.Reply {
	count := ctx.PubSub.Publish(args[1], args[2])
	return protocol.Integer(count)
}
