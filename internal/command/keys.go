package command

import (
	"strconv"
	"strings"
	"time"

	"redgo/internal/protocol"
	"redgo/internal/store"
)

func cmdDel(ctx *Context, args []string) protocol.Reply {
	return protocol.Integer(ctx.Keyspace.Delete(args[1:]...))
}

func cmdExists(ctx *Context, args []string) protocol.Reply {
	return protocol.Integer(ctx.Keyspace.Exists(args[1:]...))
}

func cmdType(ctx *Context, args []string) protocol.Reply {
	return protocol.SimpleString(ctx.Keyspace.Type(args[1]))
}

func cmdRename(ctx *Context, args []string) protocol.Reply {
	if !ctx.Keyspace.Rename(args[1], args[2]) {
		return errNoSuchKey()
	}
	return okReply
}

func cmdRenameNX(ctx *Context, args []string) protocol.Reply {
	applied := false
	ctx.Keyspace.WithLock(func() {
		if ctx.Keyspace.ExistsLocked(args[1]) == 0 {
			return
		}
		if ctx.Keyspace.ExistsLocked(args[2]) > 0 {
			return
		}
		applied = ctx.Keyspace.RenameLocked(args[1], args[2])
	})
	if !applied {
		return protocol.Integer(0)
	}
	return protocol.Integer(1)
}

func cmdKeys(ctx *Context, args []string) protocol.Reply {
	return protocol.StringArray(ctx.Keyspace.Keys(args[1]))
}

func cmdScan(ctx *Context, args []string) protocol.Reply {
	cursor, ok := parseIndex(args[1])
	if !ok || cursor < 0 {
		return errGeneric("invalid cursor")
	}
	pattern := "*"
	count := 10
	i := 2
	for i < len(args) {
		opt := strings.ToUpper(args[i])
		switch opt {
		case "MATCH":
			if i+1 >= len(args) {
				return errSyntax()
			}
			pattern = args[i+1]
			i += 2
		case "COUNT":
			if i+1 >= len(args) {
				return errSyntax()
			}
			n, ok := parseIndex(args[i+1])
			if !ok || n <= 0 {
				return errNotInteger()
			}
			count = n
			i += 2
		default:
			return errSyntax()
		}
	}
	next, batch := ctx.Keyspace.Scan(cursor, count, pattern)
	return protocol.NewArray(
		protocol.NewBulkString(strconv.Itoa(next)),
		protocol.StringArray(batch),
	)
}

func cmdDBSize(ctx *Context, args []string) protocol.Reply {
	return protocol.Integer(ctx.Keyspace.DBSize())
}

func cmdFlushDB(ctx *Context, args []string) protocol.Reply {
	ctx.Keyspace.FlushDB()
	return okReply
}

func cmdRandomKey(ctx *Context, args []string) protocol.Reply {
	key, ok := ctx.Keyspace.RandomKey()
	if !ok {
		return protocol.NilBulk()
	}
	return protocol.NewBulkString(key)
}

func cmdExpire(ctx *Context, args []string) protocol.Reply {
	return expireHelper(ctx, args[1], args[2], time.Second)
}

func cmdPExpire(ctx *Context, args []string) protocol.Reply {
	return expireHelper(ctx, args[1], args[2], time.Millisecond)
}

func expireHelper(ctx *Context, key, amountStr string, unit time.Duration) protocol.Reply {
	n, ok := parseIndex(amountStr)
	if !ok {
		return errNotInteger()
	}
	if !ctx.Keyspace.ExpireIn(key, time.Duration(n)*unit) {
		return protocol.Integer(0)
	}
	return protocol.Integer(1)
}

func cmdExpireAt(ctx *Context, args []string) protocol.Reply {
	return expireAtHelper(ctx, args[1], args[2], 1000)
}

func cmdPExpireAt(ctx *Context, args []string) protocol.Reply {
	return expireAtHelper(ctx, args[1], args[2], 1)
}

func expireAtHelper(ctx *Context, key, amountStr string, msPerUnit int64) protocol.Reply {
	n, ok := parseIndex(amountStr)
	if !ok {
		return errNotInteger()
	}
	if !ctx.Keyspace.ExpireAt(key, int64(n)*msPerUnit) {
		return protocol.Integer(0)
	}
	return protocol.Integer(1)
}

func cmdTTL(ctx *Context, args []string) protocol.Reply {
	return protocol.Integer(ctx.Keyspace.TTL(args[1]))
}

func cmdPTTL(ctx *Context, args []string) protocol.Reply {
	return protocol.Integer(ctx.Keyspace.PTTL(args[1]))
}

func cmdPersist(ctx *Context, args []string) protocol.Reply {
	if !ctx.Keyspace.Persist(args[1]) {
		return protocol.Integer(0)
	}
	return protocol.Integer(1)
}

func cmdTouch(ctx *Context, args []string) protocol.Reply {
	return protocol.Integer(ctx.Keyspace.Touch(args[1:]...))
}

// cmdCopy implements the supplemented COPY source destination [REPLACE]
// command (see SUPPLEMENTED FEATURES in SPEC_FULL.md).
func cmdCopy(ctx *Context, args []string) protocol.Reply {
	replace := false
	if len(args) > 3 {
		if strings.ToUpper(args[3]) != "REPLACE" {
			return errSyntax()
		}
		replace = true
	}
	if !ctx.Keyspace.Copy(args[1], args[2], replace) {
		return protocol.Integer(0)
	}
	return protocol.Integer(1)
}

// cmdObject implements the supplemented OBJECT ENCODING/REFCOUNT/
// IDLETIME/FREQ subcommands as fixed stubs, per spec.md §9's note that
// OBJECT ENCODING should stay stubbed.
func cmdObject(ctx *Context, args []string) protocol.Reply {
	sub := strings.ToUpper(args[1])
	switch sub {
	case "ENCODING":
		if len(args) < 3 {
			return errSyntax()
		}
		t := ctx.Keyspace.Type(args[2])
		if t == "none" {
			return errNoSuchKey()
		}
		return protocol.NewBulkString(objectEncodingFor(t))
	case "REFCOUNT", "FREQ":
		if len(args) < 3 || ctx.Keyspace.Exists(args[2]) == 0 {
			return errNoSuchKey()
		}
		return protocol.Integer(1)
	case "IDLETIME":
		if len(args) < 3 || ctx.Keyspace.Exists(args[2]) == 0 {
			return errNoSuchKey()
		}
		return protocol.Integer(0)
	default:
		return errGeneric("unknown OBJECT subcommand")
	}
}

func objectEncodingFor(valueType string) string {
	switch valueType {
	case store.TypeString.String():
		return "raw"
	case store.TypeList.String():
		return "linkedlist"
	case store.TypeHash.String():
		return "hashtable"
	case store.TypeSet.String():
		return "hashtable"
	case store.TypeZSet.String():
		return "skiplist"
	default:
		return "raw"
	}
}

func cmdPing(ctx *Context, args []string) protocol.Reply {
	if len(args) > 1 {
		return protocol.NewBulkString(args[1])
	}
	return protocol.SimpleString("PONG")
}

func cmdEcho(ctx *Context, args []string) protocol.Reply {
	return protocol.NewBulkString(args[1])
}
