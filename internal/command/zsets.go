package command

import (
	"strings"

	"redgo/internal/protocol"
	"redgo/internal/store"
)

func cmdZAdd(ctx *Context, args []string) protocol.Reply {
	flags := store.ZAddFlags{}
	i := 2
	incr := false
parseFlags:
	for i < len(args) {
		switch strings.ToUpper(args[i]) {
		case "NX":
			flags.NX = true
			i++
		case "XX":
			flags.XX = true
			i++
		case "GT":
			flags.GT = true
			i++
		case "LT":
			flags.LT = true
			i++
		case "CH":
			flags.CH = true
			i++
		case "INCR":
			incr = true
			i++
		default:
			break parseFlags
		}
	}
	if flags.NX && flags.XX {
		return errSyntax()
	}
	if flags.NX && (flags.GT || flags.LT) {
		return errSyntax()
	}
	if flags.GT && flags.LT {
		return errSyntax()
	}
	if (len(args)-i)%2 != 0 || len(args) == i {
		return errSyntax()
	}
	if incr && len(args)-i != 2 {
		return errGeneric("INCR option supports a single increment-element pair")
	}

	type pair struct {
		score  float64
		member string
	}
	pairs := make([]pair, 0, (len(args)-i)/2)
	for j := i; j < len(args); j += 2 {
		score, ok := parseScore(args[j])
		if !ok {
			return errNotFloat()
		}
		pairs = append(pairs, pair{score: score, member: args[j+1]})
	}

	var added, changed int
	var wrongType bool
	var incrResult float64
	var incrApplied bool
	ctx.Keyspace.WithLock(func() {
		zset, wt := ctx.Keyspace.GetOrCreateZSetLocked(args[1])
		if wt {
			wrongType = true
			return
		}
		for _, p := range pairs {
			if incr {
				before, existed := zset.Score(p.member)
				ok, chg := zset.Add(p.member, p.score, flags)
				if !ok {
					return
				}
				if !existed {
					incrResult = p.score
				} else {
					incrResult = before + p.score
				}
				incrApplied = true
				_ = chg
				return
			}
			_, existed := zset.Score(p.member)
			ok, chg := zset.Add(p.member, p.score, flags)
			if ok && !existed {
				added++
			}
			if chg {
				changed++
			}
		}
	})
	if wrongType {
		return errWrongType()
	}
	if incr {
		if !incrApplied {
			return protocol.NilBulk()
		}
		return protocol.NewBulkString(formatFloatReply(incrResult))
	}
	if flags.CH {
		return protocol.Integer(changed)
	}
	return protocol.Integer(added)
}

func cmdZRem(ctx *Context, args []string) protocol.Reply {
	key := args[1]
	var removed int
	var wrongType bool
	ctx.Keyspace.WithLock(func() {
		zset, ok, wt := ctx.Keyspace.GetZSetLocked(key)
		if wt {
			wrongType = true
			return
		}
		if !ok {
			return
		}
		for _, m := range args[2:] {
			if zset.Remove(m) {
				removed++
			}
		}
		ctx.Keyspace.DeleteIfEmptyZSetLocked(key)
	})
	if wrongType {
		return errWrongType()
	}
	return protocol.Integer(removed)
}

func cmdZScore(ctx *Context, args []string) protocol.Reply {
	var score float64
	var found, ok, wrongType bool
	ctx.Keyspace.WithLock(func() {
		zset, o, wt := ctx.Keyspace.GetZSetLocked(args[1])
		ok, wrongType = o, wt
		if ok {
			score, found = zset.Score(args[2])
		}
	})
	if wrongType {
		return errWrongType()
	}
	if !ok || !found {
		return protocol.NilBulk()
	}
	return protocol.NewBulkString(formatFloatReply(score))
}

func cmdZMScore(ctx *Context, args []string) protocol.Reply {
	var items []protocol.Reply
	var wrongType bool
	ctx.Keyspace.WithLock(func() {
		zset, ok, wt := ctx.Keyspace.GetZSetLocked(args[1])
		wrongType = wt
		items = make([]protocol.Reply, 0, len(args)-2)
		for _, m := range args[2:] {
			if !ok {
				items = append(items, protocol.NilBulk())
				continue
			}
			score, found := zset.Score(m)
			if !found {
				items = append(items, protocol.NilBulk())
				continue
			}
			items = append(items, protocol.NewBulkString(formatFloatReply(score)))
		}
	})
	if wrongType {
		return errWrongType()
	}
	return protocol.NewArray(items...)
}

func cmdZCard(ctx *Context, args []string) protocol.Reply {
	var length int
	var ok, wrongType bool
	ctx.Keyspace.WithLock(func() {
		zset, o, wt := ctx.Keyspace.GetZSetLocked(args[1])
		ok, wrongType = o, wt
		if ok {
			length = zset.Len()
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

func cmdZRank(ctx *Context, args []string) protocol.Reply {
	return rankHelper(ctx, args, false)
}

func cmdZRevRank(ctx *Context, args []string) protocol.Reply {
	return rankHelper(ctx, args, true)
}

func rankHelper(ctx *Context, args []string, reverse bool) protocol.Reply {
	withScore := len(args) > 3 && strings.ToUpper(args[3]) == "WITHSCORE"
	var ok, wrongType bool
	var rank int
	var score float64
	ctx.Keyspace.WithLock(func() {
		zset, o, wt := ctx.Keyspace.GetZSetLocked(args[1])
		ok, wrongType = o, wt
		if !ok {
			return
		}
		if reverse {
			rank = zset.RevRank(args[2])
		} else {
			rank = zset.Rank(args[2])
		}
		if rank != -1 {
			score, _ = zset.Score(args[2])
		}
	})
	if wrongType {
		return errWrongType()
	}
	if !ok || rank == -1 {
		if withScore {
			return protocol.NilArray()
		}
		return protocol.NilBulk()
	}
	if withScore {
		return protocol.NewArray(protocol.Integer(rank), protocol.NewBulkString(formatFloatReply(score)))
	}
	return protocol.Integer(rank)
}

func cmdZIncrBy(ctx *Context, args []string) protocol.Reply {
	delta, ok := parseScore(args[2])
	if !ok {
		return errNotFloat()
	}
	var result float64
	var wrongType bool
	ctx.Keyspace.WithLock(func() {
		zset, wt := ctx.Keyspace.GetOrCreateZSetLocked(args[1])
		if wt {
			wrongType = true
			return
		}
		result = zset.IncrBy(args[3], delta)
	})
	if wrongType {
		return errWrongType()
	}
	return protocol.NewBulkString(formatFloatReply(result))
}

func cmdZCount(ctx *Context, args []string) protocol.Reply {
	min, minEx, ok1 := parseScoreBound(args[2])
	max, maxEx, ok2 := parseScoreBound(args[3])
	if !ok1 || !ok2 {
		return errNotFloat()
	}
	var count int
	var ok, wrongType bool
	ctx.Keyspace.WithLock(func() {
		zset, o, wt := ctx.Keyspace.GetZSetLocked(args[1])
		ok, wrongType = o, wt
		if ok {
			count = zset.CountByScore(min, max, minEx, maxEx)
		}
	})
	if wrongType {
		return errWrongType()
	}
	if !ok {
		return protocol.Integer(0)
	}
	return protocol.Integer(count)
}

func membersToReply(members []store.ZSetMember, withScores bool) protocol.Reply {
	if !withScores {
		values := make([]string, len(members))
		for i, m := range members {
			values[i] = m.Member
		}
		return protocol.StringArray(values)
	}
	items := make([]protocol.Reply, 0, len(members)*2)
	for _, m := range members {
		items = append(items, protocol.NewBulkString(m.Member), protocol.NewBulkString(formatFloatReply(m.Score)))
	}
	return protocol.NewArray(items...)
}

func cmdZPopMin(ctx *Context, args []string) protocol.Reply {
	return zPopHelper(ctx, args, false)
}

func cmdZPopMax(ctx *Context, args []string) protocol.Reply {
	return zPopHelper(ctx, args, true)
}

func zPopHelper(ctx *Context, args []string, fromMax bool) protocol.Reply {
	count := 1
	if len(args) > 2 {
		n, ok := parseIndex(args[2])
		if !ok || n < 0 {
			return errNotInteger()
		}
		count = n
	}
	key := args[1]
	var popped []store.ZSetMember
	var wrongType bool
	ctx.Keyspace.WithLock(func() {
		zset, ok, wt := ctx.Keyspace.GetZSetLocked(key)
		if wt {
			wrongType = true
			return
		}
		if !ok {
			return
		}
		if fromMax {
			popped = zset.PopMax(count)
		} else {
			popped = zset.PopMin(count)
		}
		ctx.Keyspace.DeleteIfEmptyZSetLocked(key)
	})
	if wrongType {
		return errWrongType()
	}
	return membersToReply(popped, true)
}

// cmdZRange implements the unified ZRANGE with BYSCORE/BYLEX/REV/LIMIT.
// ZRANGEBYSCORE/ZREVRANGEBYSCORE have their own handler,
// zRangeByScoreGeneric.
func cmdZRange(ctx *Context, args []string) protocol.Reply {
	return zRangeGeneric(ctx, args[1], args[2], args[3], args[4:], false)
}

func cmdZRevRange(ctx *Context, args []string) protocol.Reply {
	withScores := len(args) > 4 && strings.ToUpper(args[4]) == "WITHSCORES"
	start, ok1 := parseIndex(args[2])
	stop, ok2 := parseIndex(args[3])
	if !ok1 || !ok2 {
		return errNotInteger()
	}
	var ok, wrongType bool
	var members []store.ZSetMember
	ctx.Keyspace.WithLock(func() {
		zset, o, wt := ctx.Keyspace.GetZSetLocked(args[1])
		ok, wrongType = o, wt
		if !ok {
			return
		}
		s, e := resolveRank(start, stop, zset.Len())
		members = zset.RangeByRank(s, e, true)
	})
	if wrongType {
		return errWrongType()
	}
	if !ok {
		return protocol.NewArray()
	}
	return membersToReply(members, withScores)
}

func resolveRank(start, stop, length int) (int, int) {
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
	return start, stop
}

func cmdZRangeByScore(ctx *Context, args []string) protocol.Reply {
	return zRangeByScoreGeneric(ctx, args[1], args[2], args[3], args[4:], false)
}

func cmdZRevRangeByScore(ctx *Context, args []string) protocol.Reply {
	return zRangeByScoreGeneric(ctx, args[1], args[3], args[2], args[4:], true)
}

func zRangeByScoreGeneric(ctx *Context, key, minArg, maxArg string, rest []string, reverse bool) protocol.Reply {
	min, minEx, ok1 := parseScoreBound(minArg)
	max, maxEx, ok2 := parseScoreBound(maxArg)
	if !ok1 || !ok2 {
		return errNotFloat()
	}
	withScores := false
	offset, count := 0, -1
	i := 0
	for i < len(rest) {
		switch strings.ToUpper(rest[i]) {
		case "WITHSCORES":
			withScores = true
			i++
		case "LIMIT":
			if i+2 >= len(rest) {
				return errSyntax()
			}
			o, ok := parseIndex(rest[i+1])
			c, ok2 := parseIndex(rest[i+2])
			if !ok || !ok2 {
				return errNotInteger()
			}
			offset, count = o, c
			i += 3
		default:
			return errSyntax()
		}
	}
	var ok, wrongType bool
	var members []store.ZSetMember
	ctx.Keyspace.WithLock(func() {
		zset, o, wt := ctx.Keyspace.GetZSetLocked(key)
		ok, wrongType = o, wt
		if ok {
			members = zset.RangeByScore(min, max, minEx, maxEx, offset, count, reverse)
		}
	})
	if wrongType {
		return errWrongType()
	}
	if !ok {
		return protocol.NewArray()
	}
	return membersToReply(members, withScores)
}

// zRangeCompute implements the shared ZRANGE key start stop
// [BYSCORE|BYLEX] [REV] [LIMIT offset count] [WITHSCORES] parsing and
// evaluation, returning the resolved members so both cmdZRange and
// cmdZRangeStore can reuse it without re-deriving scores from an already
// rendered reply. The whole lookup-and-evaluate sequence runs under one
// keyspace lock so the members it returns reflect one consistent state of
// the sorted set.
func zRangeCompute(ctx *Context, key, startArg, stopArg string, rest []string) (members []store.ZSetMember, withScores bool, errReply protocol.Reply) {
	byScore, byLex, reverse := false, false, false
	offset, count := 0, -1
	i := 0
	for i < len(rest) {
		switch strings.ToUpper(rest[i]) {
		case "BYSCORE":
			byScore = true
			i++
		case "BYLEX":
			byLex = true
			i++
		case "REV":
			reverse = true
			i++
		case "WITHSCORES":
			withScores = true
			i++
		case "LIMIT":
			if i+2 >= len(rest) {
				errReply = errSyntax()
				return
			}
			o, ok := parseIndex(rest[i+1])
			c, ok2 := parseIndex(rest[i+2])
			if !ok || !ok2 {
				errReply = errNotInteger()
				return
			}
			offset, count = o, c
			i += 3
		default:
			errReply = errSyntax()
			return
		}
	}
	if byScore && byLex {
		errReply = errSyntax()
		return
	}

	var min, max float64
	var minEx, maxEx bool
	if byScore {
		var ok1, ok2 bool
		min, minEx, ok1 = parseScoreBound(startArg)
		max, maxEx, ok2 = parseScoreBound(stopArg)
		if !ok1 || !ok2 {
			errReply = errNotFloat()
			return
		}
		if reverse {
			min, max = max, min
			minEx, maxEx = maxEx, minEx
		}
	}
	lexMin, lexMax := startArg, stopArg
	if byLex && reverse {
		lexMin, lexMax = lexMax, lexMin
	}
	var rankStart, rankStop int
	var rankOK1, rankOK2 bool
	if !byScore && !byLex {
		rankStart, rankOK1 = parseIndex(startArg)
		rankStop, rankOK2 = parseIndex(stopArg)
		if !rankOK1 || !rankOK2 {
			errReply = errNotInteger()
			return
		}
	}

	ctx.Keyspace.WithLock(func() {
		zset, ok, wt := ctx.Keyspace.GetZSetLocked(key)
		if wt {
			errReply = errWrongType()
			return
		}
		if !ok {
			return
		}
		switch {
		case byScore:
			members = zset.RangeByScore(min, max, minEx, maxEx, offset, count, reverse)
		case byLex:
			members = zset.RangeByLex(lexMin, lexMax, offset, count, reverse)
		default:
			s, e := resolveRank(rankStart, rankStop, zset.Len())
			members = zset.RangeByRank(s, e, reverse)
		}
	})
	return
}

func zRangeGeneric(ctx *Context, key, startArg, stopArg string, rest []string, _ bool) protocol.Reply {
	members, withScores, errReply := zRangeCompute(ctx, key, startArg, stopArg, rest)
	if errReply != nil {
		return errReply
	}
	return membersToReply(members, withScores)
}

func cmdZRangeStore(ctx *Context, args []string) protocol.Reply {
	destination := args[1]
	members, _, errReply := zRangeCompute(ctx, args[2], args[3], args[4], args[5:])
	if errReply != nil {
		return errReply
	}
	if len(members) == 0 {
		ctx.Keyspace.Delete(destination)
		return protocol.Integer(0)
	}
	var length int
	var wrongType bool
	ctx.Keyspace.WithLock(func() {
		ctx.Keyspace.DeleteLocked(destination)
		dst, wt := ctx.Keyspace.GetOrCreateZSetLocked(destination)
		if wt {
			wrongType = true
			return
		}
		for _, m := range members {
			dst.Add(m.Member, m.Score, store.ZAddFlags{})
		}
		length = dst.Len()
	})
	if wrongType {
		return errWrongType()
	}
	return protocol.Integer(length)
}

func cmdZScan(ctx *Context, args []string) protocol.Reply {
	var ok, wrongType bool
	var items []protocol.Reply
	ctx.Keyspace.WithLock(func() {
		zset, o, wt := ctx.Keyspace.GetZSetLocked(args[1])
		ok, wrongType = o, wt
		if !ok {
			return
		}
		pattern, _ := parseScanOptions(args[2:])
		items = make([]protocol.Reply, 0)
		for _, m := range zset.All() {
			if !matchGlob(pattern, m.Member) {
				continue
			}
			items = append(items, protocol.NewBulkString(m.Member), protocol.NewBulkString(formatFloatReply(m.Score)))
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
