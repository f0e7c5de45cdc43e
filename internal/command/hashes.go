package command

import (
	"strconv"

	"redgo/internal/protocol"
)

func cmdHSet(ctx *Context, args []string) protocol.Reply {
	if (len(args)-2)%2 != 0 || len(args) < 4 {
		return errGeneric("wrong number of arguments for 'hset' command")
	}
	var added int
	wrongType := false
	ctx.Keyspace.WithLock(func() {
		hash, wt := ctx.Keyspace.GetOrCreateHashLocked(args[1])
		if wt {
			wrongType = true
			return
		}
		for i := 2; i < len(args); i += 2 {
			if hash.Set(args[i], args[i+1]) {
				added++
			}
		}
	})
	if wrongType {
		return errWrongType()
	}
	return protocol.Integer(added)
}

func cmdHSetNX(ctx *Context, args []string) protocol.Reply {
	var applied bool
	var wrongType bool
	ctx.Keyspace.WithLock(func() {
		hash, wt := ctx.Keyspace.GetOrCreateHashLocked(args[1])
		if wt {
			wrongType = true
			return
		}
		applied = hash.SetNX(args[2], args[3])
	})
	if wrongType {
		return errWrongType()
	}
	if applied {
		return protocol.Integer(1)
	}
	return protocol.Integer(0)
}

func cmdHGet(ctx *Context, args []string) protocol.Reply {
	var value string
	var found, ok, wrongType bool
	ctx.Keyspace.WithLock(func() {
		hash, o, wt := ctx.Keyspace.GetHashLocked(args[1])
		ok, wrongType = o, wt
		if ok {
			value, found = hash.Get(args[2])
		}
	})
	if wrongType {
		return errWrongType()
	}
	if !ok || !found {
		return protocol.NilBulk()
	}
	return protocol.NewBulkString(value)
}

func cmdHMGet(ctx *Context, args []string) protocol.Reply {
	var items []protocol.Reply
	var wrongType bool
	ctx.Keyspace.WithLock(func() {
		hash, ok, wt := ctx.Keyspace.GetHashLocked(args[1])
		wrongType = wt
		items = make([]protocol.Reply, 0, len(args)-2)
		for _, field := range args[2:] {
			if !ok {
				items = append(items, protocol.NilBulk())
				continue
			}
			v, found := hash.Get(field)
			if !found {
				items = append(items, protocol.NilBulk())
				continue
			}
			items = append(items, protocol.NewBulkString(v))
		}
	})
	if wrongType {
		return errWrongType()
	}
	return protocol.NewArray(items...)
}

func cmdHDel(ctx *Context, args []string) protocol.Reply {
	key := args[1]
	var removed int
	var wrongType bool
	ctx.Keyspace.WithLock(func() {
		hash, ok, wt := ctx.Keyspace.GetHashLocked(key)
		if wt {
			wrongType = true
			return
		}
		if !ok {
			return
		}
		for _, field := range args[2:] {
			if hash.Delete(field) {
				removed++
			}
		}
		ctx.Keyspace.DeleteIfEmptyHashLocked(key)
	})
	if wrongType {
		return errWrongType()
	}
	return protocol.Integer(removed)
}

func cmdHExists(ctx *Context, args []string) protocol.Reply {
	var found bool
	var ok, wrongType bool
	ctx.Keyspace.WithLock(func() {
		hash, o, wt := ctx.Keyspace.GetHashLocked(args[1])
		ok, wrongType = o, wt
		if ok {
			_, found = hash.Get(args[2])
		}
	})
	if wrongType {
		return errWrongType()
	}
	if !ok || !found {
		return protocol.Integer(0)
	}
	return protocol.Integer(1)
}

func cmdHLen(ctx *Context, args []string) protocol.Reply {
	var length int
	var ok, wrongType bool
	ctx.Keyspace.WithLock(func() {
		hash, o, wt := ctx.Keyspace.GetHashLocked(args[1])
		ok, wrongType = o, wt
		if ok {
			length = hash.Len()
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

func cmdHStrLen(ctx *Context, args []string) protocol.Reply {
	var value string
	var found, ok, wrongType bool
	ctx.Keyspace.WithLock(func() {
		hash, o, wt := ctx.Keyspace.GetHashLocked(args[1])
		ok, wrongType = o, wt
		if ok {
			value, found = hash.Get(args[2])
		}
	})
	if wrongType {
		return errWrongType()
	}
	if !ok || !found {
		return protocol.Integer(0)
	}
	return protocol.Integer(len(value))
}

func cmdHKeys(ctx *Context, args []string) protocol.Reply {
	var keys []string
	var ok, wrongType bool
	ctx.Keyspace.WithLock(func() {
		hash, o, wt := ctx.Keyspace.GetHashLocked(args[1])
		ok, wrongType = o, wt
		if ok {
			keys = hash.Keys()
		}
	})
	if wrongType {
		return errWrongType()
	}
	if !ok {
		return protocol.NewArray()
	}
	return protocol.StringArray(keys)
}

func cmdHVals(ctx *Context, args []string) protocol.Reply {
	var vals []string
	var ok, wrongType bool
	ctx.Keyspace.WithLock(func() {
		hash, o, wt := ctx.Keyspace.GetHashLocked(args[1])
		ok, wrongType = o, wt
		if ok {
			vals = hash.Values()
		}
	})
	if wrongType {
		return errWrongType()
	}
	if !ok {
		return protocol.NewArray()
	}
	return protocol.StringArray(vals)
}

func cmdHGetAll(ctx *Context, args []string) protocol.Reply {
	var all []string
	var ok, wrongType bool
	ctx.Keyspace.WithLock(func() {
		hash, o, wt := ctx.Keyspace.GetHashLocked(args[1])
		ok, wrongType = o, wt
		if ok {
			all = hash.All()
		}
	})
	if wrongType {
		return errWrongType()
	}
	if !ok {
		return protocol.NewArray()
	}
	return protocol.StringArray(all)
}

func cmdHIncrBy(ctx *Context, args []string) protocol.Reply {
	delta, ok := parseIndex(args[3])
	if !ok {
		return errNotInteger()
	}
	var result int64
	var failure protocol.Reply
	var wrongType bool
	ctx.Keyspace.WithLock(func() {
		hash, wt := ctx.Keyspace.GetOrCreateHashLocked(args[1])
		if wt {
			wrongType = true
			return
		}
		current, exists := hash.Get(args[2])
		var base int64
		if exists {
			n, ok := parseStoredInt(current)
			if !ok {
				failure = errNotInteger()
				return
			}
			base = n
		}
		sum, ok := addInt64Checked(base, int64(delta))
		if !ok {
			failure = errOverflow()
			return
		}
		result = sum
		hash.Set(args[2], strconv.FormatInt(sum, 10))
	})
	if wrongType {
		return errWrongType()
	}
	if failure != nil {
		return failure
	}
	return protocol.Integer(result)
}

func cmdHIncrByFloat(ctx *Context, args []string) protocol.Reply {
	delta, ok := parseStoredFloat(args[3])
	if !ok {
		return errNotFloat()
	}
	var result string
	var failure protocol.Reply
	var wrongType bool
	ctx.Keyspace.WithLock(func() {
		hash, wt := ctx.Keyspace.GetOrCreateHashLocked(args[1])
		if wt {
			wrongType = true
			return
		}
		current, exists := hash.Get(args[2])
		var base float64
		if exists {
			n, ok := parseStoredFloat(current)
			if !ok {
				failure = errNotFloat()
				return
			}
			base = n
		}
		result = formatFloatReply(base + delta)
		hash.Set(args[2], result)
	})
	if wrongType {
		return errWrongType()
	}
	if failure != nil {
		return failure
	}
	return protocol.NewBulkString(result)
}

func cmdHRandField(ctx *Context, args []string) protocol.Reply {
	var ok, wrongType, hasArg, withValues bool
	var single string
	var singleFound bool
	var fields []string
	var pairs []protocol.Reply

	hasArg = len(args) > 2
	if hasArg {
		_, convOK := parseIndex(args[2])
		if !convOK {
			return errNotInteger()
		}
	}

	ctx.Keyspace.WithLock(func() {
		hash, o, wt := ctx.Keyspace.GetHashLocked(args[1])
		ok, wrongType = o, wt
		if !ok {
			return
		}
		if !hasArg {
			keys := hash.Keys()
			if len(keys) > 0 {
				single, singleFound = keys[fastRandIndex(len(keys))], true
			}
			return
		}
		count, _ := parseIndex(args[2])
		withValues = len(args) > 3 && args[3] == "WITHVALUES"
		fields = hash.RandomFields(count)
		if withValues {
			pairs = make([]protocol.Reply, 0, len(fields)*2)
			for _, f := range fields {
				v, _ := hash.Get(f)
				pairs = append(pairs, protocol.NewBulkString(f), protocol.NewBulkString(v))
			}
		}
	})
	if wrongType {
		return errWrongType()
	}
	if !ok {
		if hasArg {
			return protocol.NewArray()
		}
		return protocol.NilBulk()
	}
	if !hasArg {
		if !singleFound {
			return protocol.NilBulk()
		}
		return protocol.NewBulkString(single)
	}
	if withValues {
		return protocol.NewArray(pairs...)
	}
	return protocol.StringArray(fields)
}

func cmdHScan(ctx *Context, args []string) protocol.Reply {
	var ok, wrongType bool
	var items []protocol.Reply
	ctx.Keyspace.WithLock(func() {
		hash, o, wt := ctx.Keyspace.GetHashLocked(args[1])
		ok, wrongType = o, wt
		if !ok {
			return
		}
		pattern, _ := parseScanOptions(args[2:])
		all := hash.All()
		items = make([]protocol.Reply, 0, len(all))
		for i := 0; i+1 < len(all); i += 2 {
			if pattern != "" && !matchGlob(pattern, all[i]) {
				continue
			}
			items = append(items, protocol.NewBulkString(all[i]), protocol.NewBulkString(all[i+1]))
		}
	})
	if wrongType {
		return errWrongType()
	}
	if !ok {
		return protocol.NewArray(protocol.NewBulkString("0"), protocol.NewArray())
	}
	return protocol.NewArray(protocol.NewBulkString("0"), protocol.NewArray(items...))
}
