package command

import (
	"redgo/internal/protocol"
	"redgo/internal/store"
)

func cmdSAdd(ctx *Context, args []string) protocol.Reply {
	var added int
	var wrongType bool
	ctx.Keyspace.WithLock(func() {
		set, wt := ctx.Keyspace.GetOrCreateSetLocked(args[1])
		if wt {
			wrongType = true
			return
		}
		for _, m := range args[2:] {
			if set.Add(m) {
				added++
			}
		}
	})
	if wrongType {
		return errWrongType()
	}
	return protocol.Integer(added)
}

func cmdSRem(ctx *Context, args []string) protocol.Reply {
	key := args[1]
	var removed int
	var wrongType bool
	ctx.Keyspace.WithLock(func() {
		set, ok, wt := ctx.Keyspace.GetSetLocked(key)
		if wt {
			wrongType = true
			return
		}
		if !ok {
			return
		}
		for _, m := range args[2:] {
			if set.Remove(m) {
				removed++
			}
		}
		ctx.Keyspace.DeleteIfEmptySetLocked(key)
	})
	if wrongType {
		return errWrongType()
	}
	return protocol.Integer(removed)
}

func cmdSIsMember(ctx *Context, args []string) protocol.Reply {
	var isMember, ok, wrongType bool
	ctx.Keyspace.WithLock(func() {
		set, o, wt := ctx.Keyspace.GetSetLocked(args[1])
		ok, wrongType = o, wt
		if ok {
			isMember = set.IsMember(args[2])
		}
	})
	if wrongType {
		return errWrongType()
	}
	if !ok || !isMember {
		return protocol.Integer(0)
	}
	return protocol.Integer(1)
}

func cmdSMIsMember(ctx *Context, args []string) protocol.Reply {
	var items []protocol.Reply
	var wrongType bool
	ctx.Keyspace.WithLock(func() {
		set, ok, wt := ctx.Keyspace.GetSetLocked(args[1])
		wrongType = wt
		items = make([]protocol.Reply, 0, len(args)-2)
		for _, m := range args[2:] {
			if ok && set.IsMember(m) {
				items = append(items, protocol.Integer(1))
			} else {
				items = append(items, protocol.Integer(0))
			}
		}
	})
	if wrongType {
		return errWrongType()
	}
	return protocol.NewArray(items...)
}

func cmdSMembers(ctx *Context, args []string) protocol.Reply {
	var members []string
	var ok, wrongType bool
	ctx.Keyspace.WithLock(func() {
		set, o, wt := ctx.Keyspace.GetSetLocked(args[1])
		ok, wrongType = o, wt
		if ok {
			members = set.Members()
		}
	})
	if wrongType {
		return errWrongType()
	}
	if !ok {
		return protocol.NewArray()
	}
	return protocol.StringArray(members)
}

func cmdSCard(ctx *Context, args []string) protocol.Reply {
	var length int
	var ok, wrongType bool
	ctx.Keyspace.WithLock(func() {
		set, o, wt := ctx.Keyspace.GetSetLocked(args[1])
		ok, wrongType = o, wt
		if ok {
			length = set.Len()
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

func cmdSMove(ctx *Context, args []string) protocol.Reply {
	source, destination, member := args[1], args[2], args[3]
	var moved, wrongType bool
	ctx.Keyspace.WithLock(func() {
		src, ok, wt := ctx.Keyspace.GetSetLocked(source)
		if wt {
			wrongType = true
			return
		}
		if !ok || !src.IsMember(member) {
			return
		}
		dst, wt2 := ctx.Keyspace.GetOrCreateSetLocked(destination)
		if wt2 {
			wrongType = true
			return
		}
		src.Remove(member)
		dst.Add(member)
		moved = true
		ctx.Keyspace.DeleteIfEmptySetLocked(source)
	})
	if wrongType {
		return errWrongType()
	}
	if !moved {
		return protocol.Integer(0)
	}
	return protocol.Integer(1)
}

func cmdSPop(ctx *Context, args []string) protocol.Reply {
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
	var popped []string
	var wrongType bool
	ctx.Keyspace.WithLock(func() {
		set, ok, wt := ctx.Keyspace.GetSetLocked(key)
		if wt {
			wrongType = true
			return
		}
		if !ok {
			return
		}
		for i := 0; i < count; i++ {
			m, found := set.Pop()
			if !found {
				break
			}
			popped = append(popped, m)
		}
		ctx.Keyspace.DeleteIfEmptySetLocked(key)
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
	return protocol.StringArray(popped)
}

func cmdSRandMember(ctx *Context, args []string) protocol.Reply {
	hasArg := len(args) > 2
	count := 0
	if hasArg {
		n, ok := parseIndex(args[2])
		if !ok {
			return errNotInteger()
		}
		count = n
	}

	var ok, wrongType bool
	var single string
	var singleFound bool
	var many []string
	ctx.Keyspace.WithLock(func() {
		set, o, wt := ctx.Keyspace.GetSetLocked(args[1])
		ok, wrongType = o, wt
		if !ok {
			return
		}
		if !hasArg {
			members := set.Members()
			if len(members) > 0 {
				single, singleFound = members[fastRandIndex(len(members))], true
			}
			return
		}
		many = set.RandomMembers(count)
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
	return protocol.StringArray(many)
}

// setOperands gathers an independent copy of each key's set (or an empty
// set for absent keys), materialized entirely while the keyspace lock is
// held, so the algebra helpers below can safely run outside the lock.
func setOperands(ctx *Context, keys []string) ([]*store.Set, bool) {
	var sets []*store.Set
	var wrongType bool
	ctx.Keyspace.WithLock(func() {
		sets = make([]*store.Set, 0, len(keys))
		for _, k := range keys {
			set, ok, wt := ctx.Keyspace.GetSetLocked(k)
			if wt {
				wrongType = true
				return
			}
			if ok {
				sets = append(sets, set.Clone())
			} else {
				sets = append(sets, store.NewSet())
			}
		}
	})
	if wrongType {
		return nil, true
	}
	return sets, false
}

func cmdSUnion(ctx *Context, args []string) protocol.Reply {
	return setAlgebraReply(ctx, args[1:], unionAll)
}

func cmdSInter(ctx *Context, args []string) protocol.Reply {
	return setAlgebraReply(ctx, args[1:], intersectAll)
}

func cmdSDiff(ctx *Context, args []string) protocol.Reply {
	return setAlgebraReply(ctx, args[1:], diffAll)
}

func setAlgebraReply(ctx *Context, keys []string, op func([]*store.Set) *store.Set) protocol.Reply {
	sets, wrongType := setOperands(ctx, keys)
	if wrongType {
		return errWrongType()
	}
	return protocol.StringArray(op(sets).Members())
}

func cmdSUnionStore(ctx *Context, args []string) protocol.Reply {
	return setAlgebraStore(ctx, args[1], args[2:], unionAll)
}

func cmdSInterStore(ctx *Context, args []string) protocol.Reply {
	return setAlgebraStore(ctx, args[1], args[2:], intersectAll)
}

func cmdSDiffStore(ctx *Context, args []string) protocol.Reply {
	return setAlgebraStore(ctx, args[1], args[2:], diffAll)
}

func setAlgebraStore(ctx *Context, destination string, keys []string, op func([]*store.Set) *store.Set) protocol.Reply {
	sets, wrongType := setOperands(ctx, keys)
	if wrongType {
		return errWrongType()
	}
	result := op(sets)
	if result.Len() == 0 {
		ctx.Keyspace.Delete(destination)
		return protocol.Integer(0)
	}
	var length int
	var wt bool
	ctx.Keyspace.WithLock(func() {
		ctx.Keyspace.DeleteLocked(destination)
		dst, w := ctx.Keyspace.GetOrCreateSetLocked(destination)
		wt = w
		if wt {
			return
		}
		for _, m := range result.Members() {
			dst.Add(m)
		}
		length = dst.Len()
	})
	if wt {
		return errWrongType()
	}
	return protocol.Integer(length)
}

func unionAll(sets []*store.Set) *store.Set {
	result := store.NewSet()
	for _, s := range sets {
		result = result.Union(s)
	}
	return result
}

func intersectAll(sets []*store.Set) *store.Set {
	if len(sets) == 0 {
		return store.NewSet()
	}
	result := sets[0]
	for _, s := range sets[1:] {
		result = result.Intersect(s)
		if result.Len() == 0 {
			break
		}
	}
	return result
}

func diffAll(sets []*store.Set) *store.Set {
	if len(sets) == 0 {
		return store.NewSet()
	}
	result := sets[0]
	for _, s := range sets[1:] {
		result = result.Diff(s)
	}
	return result
}

func cmdSInterCard(ctx *Context, args []string) protocol.Reply {
	numKeys, ok := parseIndex(args[1])
	if !ok || numKeys <= 0 || 2+numKeys > len(args) {
		return errSyntax()
	}
	keys := args[2 : 2+numKeys]
	limit := 0
	rest := args[2+numKeys:]
	if len(rest) > 0 {
		if len(rest) != 2 || rest[0] != "LIMIT" {
			return errSyntax()
		}
		n, ok := parseIndex(rest[1])
		if !ok || n < 0 {
			return errSyntax()
		}
		limit = n
	}
	sets, wrongType := setOperands(ctx, keys)
	if wrongType {
		return errWrongType()
	}
	if len(sets) == 0 {
		return protocol.Integer(0)
	}
	result := sets[0]
	for _, s := range sets[1:] {
		result = result.Intersect(s)
	}
	count := result.Len()
	if limit > 0 && count > limit {
		count = limit
	}
	return protocol.Integer(count)
}

func cmdSScan(ctx *Context, args []string) protocol.Reply {
	var ok, wrongType bool
	var matched []string
	ctx.Keyspace.WithLock(func() {
		set, o, wt := ctx.Keyspace.GetSetLocked(args[1])
		ok, wrongType = o, wt
		if !ok {
			return
		}
		pattern, _ := parseScanOptions(args[2:])
		for _, m := range set.Members() {
			if matchGlob(pattern, m) {
				matched = append(matched, m)
			}
		}
	})
	if wrongType {
		return errWrongType()
	}
	if !ok {
		return protocol.NewArray(protocol.NewBulkString("0"), protocol.NewArray())
	}
	return protocol.NewArray(protocol.NewBulkString("0"), protocol.StringArray(matched))
}
