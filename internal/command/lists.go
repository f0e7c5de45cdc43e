package command

import (
	"strings"

	"redgo/internal/protocol"
)

func cmdLPush(ctx *Context, args []string) protocol.Reply {
	return pushHelper(ctx, args[1], args[2:], true, false)
}

func cmdRPush(ctx *Context, args []string) protocol.Reply {
	return pushHelper(ctx, args[1], args[2:], false, false)
}

func cmdLPushX(ctx *Context, args []string) protocol.Reply {
	return pushHelper(ctx, args[1], args[2:], true, true)
}

func cmdRPushX(ctx *Context, args []string) protocol.Reply {
	return pushHelper(ctx, args[1], args[2:], false, true)
}

func pushHelper(ctx *Context, key string, values []string, front, onlyIfExists bool) protocol.Reply {
	var length int
	var wrongType, skip bool
	ctx.Keyspace.WithLock(func() {
		if onlyIfExists && ctx.Keyspace.ExistsLocked(key) == 0 {
			skip = true
			return
		}
		list, wt := ctx.Keyspace.GetOrCreateListLocked(key)
		if wt {
			wrongType = true
			return
		}
		for _, v := range values {
			if front {
				list.PushFront(v)
			} else {
				list.PushBack(v)
			}
		}
		length = list.Len()
	})
	if wrongType {
		return errWrongType()
	}
	if skip {
		return protocol.Integer(0)
	}
	return protocol.Integer(length)
}

func cmdLLen(ctx *Context, args []string) protocol.Reply {
	var length int
	var ok, wrongType bool
	ctx.Keyspace.WithLock(func() {
		list, o, wt := ctx.Keyspace.GetListLocked(args[1])
		ok, wrongType = o, wt
		if ok {
			length = list.Len()
		}
	})
	if wrongType {
		return errWrongType()
	}
	if !ok {
		return protocol.Integer(0)
	}
	return protocol.Integer(length)
}

func cmdLPop(ctx *Context, args []string) protocol.Reply {
	return popHelper(ctx, args, true)
}

func cmdRPop(ctx *Context, args []string) protocol.Reply {
	return popHelper(ctx, args, false)
}

func popHelper(ctx *Context, args []string, front bool) protocol.Reply {
	key := args[1]
	hasCount := len(args) > 2
	count := 1
	if hasCount {
		n, ok := parseIndex(args[2])
		if !ok || n < 0 {
			return errNotInteger()
		}
		count = n
	}

	var wrongType bool
	var popped []string
	ctx.Keyspace.WithLock(func() {
		list, ok, wt := ctx.Keyspace.GetListLocked(key)
		if wt {
			wrongType = true
			return
		}
		if !ok {
			return
		}
		for i := 0; i < count; i++ {
			var v string
			var exists bool
			if front {
				v, exists = list.PopFront()
			} else {
				v, exists = list.PopBack()
			}
			if !exists {
				break
			}
			popped = append(popped, v)
		}
		ctx.Keyspace.DeleteIfEmptyListLocked(key)
	})
	if wrongType {
		return errWrongType()
	}
	if !hasCount {
		if len(popped) == 0 {
			return protocol.NilBulk()
		}
		return protocol.NewBulkString(popped[0])
	}
	if popped == nil {
		return protocol.NilArray()
	}
	return protocol.StringArray(popped)
}

func cmdLRange(ctx *Context, args []string) protocol.Reply {
	start, ok1 := parseIndex(args[2])
	stop, ok2 := parseIndex(args[3])
	if !ok1 || !ok2 {
		return errNotInteger()
	}
	var result []string
	var ok, wrongType bool
	ctx.Keyspace.WithLock(func() {
		list, o, wt := ctx.Keyspace.GetListLocked(args[1])
		ok, wrongType = o, wt
		if ok {
			result = list.Range(start, stop)
		}
	})
	if wrongType {
		return errWrongType()
	}
	if !ok {
		return protocol.NewArray()
	}
	return protocol.StringArray(result)
}

func cmdLIndex(ctx *Context, args []string) protocol.Reply {
	idx, ok := parseIndex(args[2])
	if !ok {
		return errNotInteger()
	}
	var value string
	var found, exists, wrongType bool
	ctx.Keyspace.WithLock(func() {
		list, o, wt := ctx.Keyspace.GetListLocked(args[1])
		exists, wrongType = o, wt
		if exists {
			value, found = list.Index(idx)
		}
	})
	if wrongType {
		return errWrongType()
	}
	if !exists || !found {
		return protocol.NilBulk()
	}
	return protocol.NewBulkString(value)
}

func cmdLSet(ctx *Context, args []string) protocol.Reply {
	idx, ok := parseIndex(args[2])
	if !ok {
		return errNotInteger()
	}
	var exists, set, wrongType bool
	ctx.Keyspace.WithLock(func() {
		list, o, wt := ctx.Keyspace.GetListLocked(args[1])
		exists, wrongType = o, wt
		if exists {
			set = list.Set(idx, args[3])
		}
	})
	if wrongType {
		return errWrongType()
	}
	if !exists {
		return errNoSuchKey()
	}
	if !set {
		return errIndexOutOfRange()
	}
	return okReply
}

func cmdLInsert(ctx *Context, args []string) protocol.Reply {
	where := strings.ToUpper(args[2])
	if where != "BEFORE" && where != "AFTER" {
		return errSyntax()
	}
	var exists, wrongType, inserted bool
	var length int
	ctx.Keyspace.WithLock(func() {
		list, o, wt := ctx.Keyspace.GetListLocked(args[1])
		exists, wrongType = o, wt
		if !exists {
			return
		}
		if where == "BEFORE" {
			inserted = list.InsertBefore(args[3], args[4])
		} else {
			inserted = list.InsertAfter(args[3], args[4])
		}
		length = list.Len()
	})
	if wrongType {
		return errWrongType()
	}
	if !exists {
		return protocol.Integer(0)
	}
	if !inserted {
		return protocol.Integer(-1)
	}
	return protocol.Integer(length)
}

func cmdLRem(ctx *Context, args []string) protocol.Reply {
	count, ok := parseIndex(args[2])
	if !ok {
		return errNotInteger()
	}
	key := args[1]
	var removed int
	var wrongType bool
	ctx.Keyspace.WithLock(func() {
		list, ok, wt := ctx.Keyspace.GetListLocked(key)
		if wt {
			wrongType = true
			return
		}
		if !ok {
			return
		}
		removed = list.Remove(count, args[3])
		ctx.Keyspace.DeleteIfEmptyListLocked(key)
	})
	if wrongType {
		return errWrongType()
	}
	return protocol.Integer(removed)
}

func cmdLTrim(ctx *Context, args []string) protocol.Reply {
	start, ok1 := parseIndex(args[2])
	stop, ok2 := parseIndex(args[3])
	if !ok1 || !ok2 {
		return errNotInteger()
	}
	key := args[1]
	var wrongType bool
	ctx.Keyspace.WithLock(func() {
		list, ok, wt := ctx.Keyspace.GetListLocked(key)
		if wt {
			wrongType = true
			return
		}
		if !ok {
			return
		}
		list.Trim(start, stop)
		ctx.Keyspace.DeleteIfEmptyListLocked(key)
	})
	if wrongType {
		return errWrongType()
	}
	return okReply
}

func cmdLPos(ctx *Context, args []string) protocol.Reply {
	rank := 1
	count := 0
	maxLen := 0
	hasCount := false
	i := 3
	for i < len(args) {
		opt := strings.ToUpper(args[i])
		switch opt {
		case "RANK":
			n, ok := parseIndex(args[i+1])
			if !ok || n == 0 {
				return errSyntax()
			}
			rank = n
			i += 2
		case "COUNT":
			n, ok := parseIndex(args[i+1])
			if !ok || n < 0 {
				return errSyntax()
			}
			count = n
			hasCount = true
			i += 2
		case "MAXLEN":
			n, ok := parseIndex(args[i+1])
			if !ok || n < 0 {
				return errSyntax()
			}
			maxLen = n
			i += 2
		default:
			return errSyntax()
		}
	}

	var exists, wrongType bool
	var positions []int
	var pos int
	ctx.Keyspace.WithLock(func() {
		list, o, wt := ctx.Keyspace.GetListLocked(args[1])
		exists, wrongType = o, wt
		if !exists {
			return
		}
		if hasCount {
			positions = list.PosAll(args[2], rank, count, maxLen)
		} else {
			pos = list.Pos(args[2], rank, maxLen)
		}
	})
	if wrongType {
		return errWrongType()
	}
	if !exists {
		return protocol.NilBulk()
	}

	if hasCount {
		items := make([]protocol.Reply, len(positions))
		for i, p := range positions {
			items[i] = protocol.Integer(p)
		}
		return protocol.NewArray(items...)
	}
	if pos == -1 {
		return protocol.NilBulk()
	}
	return protocol.Integer(pos)
}

func cmdRPopLPush(ctx *Context, args []string) protocol.Reply {
	return moveHelper(ctx, args[1], args[2], false, false)
}

func cmdLMove(ctx *Context, args []string) protocol.Reply {
	fromLeft := strings.ToUpper(args[3]) == "LEFT"
	toLeft := strings.ToUpper(args[4]) == "LEFT"
	return moveHelper(ctx, args[1], args[2], fromLeft, !toLeft)
}

// moveHelper pops from source (popFromLeft chooses which end) and pushes
// onto destination (pushToRight chooses which end), atomically.
func moveHelper(ctx *Context, source, destination string, popFromLeft, pushToRight bool) protocol.Reply {
	var value string
	var found, wrongType bool
	ctx.Keyspace.WithLock(func() {
		src, ok, wt := ctx.Keyspace.GetListLocked(source)
		if wt {
			wrongType = true
			return
		}
		if !ok {
			return
		}
		if popFromLeft {
			value, found = src.PopFront()
		} else {
			value, found = src.PopBack()
		}
		if !found {
			return
		}
		dst, wt2 := ctx.Keyspace.GetOrCreateListLocked(destination)
		if wt2 {
			wrongType = true
			if popFromLeft {
				src.PushFront(value)
			} else {
				src.PushBack(value)
			}
			return
		}
		if pushToRight {
			dst.PushBack(value)
		} else {
			dst.PushFront(value)
		}
		ctx.Keyspace.DeleteIfEmptyListLocked(source)
	})
	if wrongType {
		return errWrongType()
	}
	if !found {
		return protocol.NilBulk()
	}
	return protocol.NewBulkString(value)
}
