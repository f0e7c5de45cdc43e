package command

import (
	"strconv"
	"strings"
	"time"

	"redgo/internal/protocol"
)

func cmdGet(ctx *Context, args []string) protocol.Reply {
	value, ok, wrongType := ctx.Keyspace.GetString(args[1])
	if wrongType {
		return errWrongType()
	}
	if !ok {
		return protocol.NilBulk()
	}
	return protocol.NewBulkString(value)
}

// setOptions captures the SET command's option matrix.
type setOptions struct {
	nx, xx       bool
	keepTTL      bool
	getOld       bool
	hasExpiry    bool
	expiresAtMs  int64
}

func cmdSet(ctx *Context, args []string) protocol.Reply {
	key, value := args[1], args[2]
	opts := setOptions{}

	i := 3
	for i < len(args) {
		opt := strings.ToUpper(args[i])
		switch opt {
		case "NX":
			opts.nx = true
			i++
		case "XX":
			opts.xx = true
			i++
		case "GET":
			opts.getOld = true
			i++
		case "KEEPTTL":
			opts.keepTTL = true
			i++
		case "EX", "PX", "EXAT", "PXAT":
			if i+1 >= len(args) {
				return errSyntax()
			}
			n, ok := parseIndex(args[i+1])
			if !ok {
				return errNotInteger()
			}
			switch opt {
			case "EX":
				opts.expiresAtMs = time.Now().Add(time.Duration(n) * time.Second).UnixMilli()
			case "PX":
				opts.expiresAtMs = time.Now().Add(time.Duration(n) * time.Millisecond).UnixMilli()
			case "EXAT":
				opts.expiresAtMs = int64(n) * 1000
			case "PXAT":
				opts.expiresAtMs = int64(n)
			}
			opts.hasExpiry = true
			i += 2
		default:
			return errSyntax()
		}
	}
	if opts.nx && opts.xx {
		return errSyntax()
	}
	if opts.hasExpiry && opts.keepTTL {
		return errSyntax()
	}

	var oldValue protocol.Reply = protocol.NilBulk()
	applied := true

	ctx.Keyspace.WithLock(func() {
		old, existed, wrongType := ctx.Keyspace.GetStringLocked(key)
		if opts.getOld {
			if wrongType {
				oldValue = nil // signalled below
				return
			}
			if existed {
				oldValue = protocol.NewBulkString(old)
			}
		}
		if opts.nx && ctx.Keyspace.ExistsLocked(key) > 0 {
			applied = false
			return
		}
		if opts.xx && ctx.Keyspace.ExistsLocked(key) == 0 {
			applied = false
			return
		}
		ctx.Keyspace.SetStringLocked(key, value, opts.keepTTL)
		if opts.hasExpiry {
			ctx.Keyspace.ExpireAtLocked(key, opts.expiresAtMs)
		}
	})

	if opts.getOld && oldValue == nil {
		return errWrongType()
	}
	if !applied {
		if opts.getOld {
			return oldValue
		}
		return protocol.NilBulk()
	}
	if opts.getOld {
		return oldValue
	}
	return okReply
}

func cmdGetSet(ctx *Context, args []string) protocol.Reply {
	var result protocol.Reply = protocol.NilBulk()
	wrongType := ctx.Keyspace.MutateString(args[1], func(current string, existed bool) string {
		if existed {
			result = protocol.NewBulkString(current)
		}
		return args[2]
	})
	if wrongType {
		return errWrongType()
	}
	return result
}

func cmdGetDel(ctx *Context, args []string) protocol.Reply {
	var value string
	var ok, wrongType bool
	ctx.Keyspace.WithLock(func() {
		value, ok, wrongType = ctx.Keyspace.GetStringLocked(args[1])
		if ok {
			ctx.Keyspace.DeleteLocked(args[1])
		}
	})
	if wrongType {
		return errWrongType()
	}
	if !ok {
		return protocol.NilBulk()
	}
	return protocol.NewBulkString(value)
}

func cmdGetEx(ctx *Context, args []string) protocol.Reply {
	value, ok, wrongType := ctx.Keyspace.GetString(args[1])
	if wrongType {
		return errWrongType()
	}
	if !ok {
		return protocol.NilBulk()
	}

	i := 2
	for i < len(args) {
		opt := strings.ToUpper(args[i])
		switch opt {
		case "PERSIST":
			ctx.Keyspace.Persist(args[1])
			i++
		case "EX", "PX", "EXAT", "PXAT":
			if i+1 >= len(args) {
				return errSyntax()
			}
			n, ok := parseIndex(args[i+1])
			if !ok {
				return errNotInteger()
			}
			switch opt {
			case "EX":
				ctx.Keyspace.ExpireIn(args[1], time.Duration(n)*time.Second)
			case "PX":
				ctx.Keyspace.ExpireIn(args[1], time.Duration(n)*time.Millisecond)
			case "EXAT":
				ctx.Keyspace.ExpireAt(args[1], int64(n)*1000)
			case "PXAT":
				ctx.Keyspace.ExpireAt(args[1], int64(n))
			}
			i += 2
		default:
			return errSyntax()
		}
	}
	return protocol.NewBulkString(value)
}

func cmdAppend(ctx *Context, args []string) protocol.Reply {
	var newLen int
	wrongType := ctx.Keyspace.MutateString(args[1], func(current string, existed bool) string {
		result := current + args[2]
		newLen = len(result)
		return result
	})
	if wrongType {
		return errWrongType()
	}
	return protocol.Integer(newLen)
}

func cmdStrlen(ctx *Context, args []string) protocol.Reply {
	value, ok, wrongType := ctx.Keyspace.GetString(args[1])
	if wrongType {
		return errWrongType()
	}
	if !ok {
		return protocol.Integer(0)
	}
	return protocol.Integer(len(value))
}

func cmdGetRange(ctx *Context, args []string) protocol.Reply {
	value, ok, wrongType := ctx.Keyspace.GetString(args[1])
	if wrongType {
		return errWrongType()
	}
	if !ok {
		return protocol.NewBulkString("")
	}
	start, ok1 := parseIndex(args[2])
	stop, ok2 := parseIndex(args[3])
	if !ok1 || !ok2 {
		return errNotInteger()
	}
	length := len(value)
	if start < 0 {
		start += length
	}
	if stop < 0 {
		stop += length
	}
	if start < 0 {
		start = 0
	}
	if stop >= length {
		stop = length - 1
	}
	if start > stop || length == 0 {
		return protocol.NewBulkString("")
	}
	return protocol.NewBulkString(value[start : stop+1])
}

func cmdSetRange(ctx *Context, args []string) protocol.Reply {
	offset, ok := parseIndex(args[2])
	if !ok || offset < 0 {
		return errOffsetOutOfRange()
	}
	patch := args[3]
	var newLen int
	wrongType := ctx.Keyspace.MutateString(args[1], func(current string, existed bool) string {
		if len(patch) == 0 {
			newLen = len(current)
			return current
		}
		buf := []byte(current)
		needed := offset + len(patch)
		if len(buf) < needed {
			grown := make([]byte, needed)
			copy(grown, buf)
			buf = grown
		}
		copy(buf[offset:], patch)
		newLen = len(buf)
		return string(buf)
	})
	if wrongType {
		return errWrongType()
	}
	return protocol.Integer(newLen)
}

func errOffsetOutOfRange() protocol.Reply {
	return protocol.Err{Message: "ERR offset is out of range"}
}

func cmdIncr(ctx *Context, args []string) protocol.Reply {
	return incrByHelper(ctx, args[1], 1)
}

func cmdDecr(ctx *Context, args []string) protocol.Reply {
	return incrByHelper(ctx, args[1], -1)
}

func cmdIncrBy(ctx *Context, args []string) protocol.Reply {
	delta, ok := parseIndex(args[2])
	if !ok {
		return errNotInteger()
	}
	return incrByHelper(ctx, args[1], int64(delta))
}

func cmdDecrBy(ctx *Context, args []string) protocol.Reply {
	delta, ok := parseIndex(args[2])
	if !ok {
		return errNotInteger()
	}
	return incrByHelper(ctx, args[1], -int64(delta))
}

func incrByHelper(ctx *Context, key string, delta int64) protocol.Reply {
	var result int64
	var failure protocol.Reply
	wrongType := ctx.Keyspace.MutateString(key, func(current string, existed bool) string {
		var base int64
		if existed {
			n, ok := parseStoredInt(current)
			if !ok {
				failure = errNotInteger()
				return current
			}
			base = n
		}
		sum, ok := addInt64Checked(base, delta)
		if !ok {
			failure = errOverflow()
			return current
		}
		result = sum
		return strconv.FormatInt(sum, 10)
	})
	if wrongType {
		return errWrongType()
	}
	if failure != nil {
		return failure
	}
	return protocol.Integer(result)
}

func cmdIncrByFloat(ctx *Context, args []string) protocol.Reply {
	delta, ok := parseStoredFloat(args[2])
	if !ok {
		return errNotFloat()
	}
	var result string
	var failure protocol.Reply
	wrongType := ctx.Keyspace.MutateString(args[1], func(current string, existed bool) string {
		var base float64
		if existed {
			n, ok := parseStoredFloat(current)
			if !ok {
				failure = errNotFloat()
				return current
			}
			base = n
		}
		sum := base + delta
		result = formatFloatReply(sum)
		return result
	})
	if wrongType {
		return errWrongType()
	}
	if failure != nil {
		return failure
	}
	return protocol.NewBulkString(result)
}

func formatFloatReply(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	return s
}

func cmdMGet(ctx *Context, args []string) protocol.Reply {
	items := make([]protocol.Reply, 0, len(args)-1)
	for _, key := range args[1:] {
		value, ok, wrongType := ctx.Keyspace.GetString(key)
		if !ok || wrongType {
			items = append(items, protocol.NilBulk())
			continue
		}
		items = append(items, protocol.NewBulkString(value))
	}
	return protocol.NewArray(items...)
}

func cmdMSet(ctx *Context, args []string) protocol.Reply {
	if (len(args)-1)%2 != 0 {
		return errGeneric("wrong number of arguments for 'mset' command")
	}
	ctx.Keyspace.WithLock(func() {
		for i := 1; i < len(args); i += 2 {
			ctx.Keyspace.SetStringLocked(args[i], args[i+1], false)
		}
	})
	return okReply
}

func cmdMSetNX(ctx *Context, args []string) protocol.Reply {
	if (len(args)-1)%2 != 0 {
		return errGeneric("wrong number of arguments for 'msetnx' command")
	}
	applied := false
	ctx.Keyspace.WithLock(func() {
		for i := 1; i < len(args); i += 2 {
			if ctx.Keyspace.ExistsLocked(args[i]) > 0 {
				return
			}
		}
		applied = true
		for i := 1; i < len(args); i += 2 {
			ctx.Keyspace.SetStringLocked(args[i], args[i+1], false)
		}
	})
	if applied {
		return protocol.Integer(1)
	}
	return protocol.Integer(0)
}
