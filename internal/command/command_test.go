package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redgo/internal/protocol"
	"redgo/internal/store"
)

func newTestContext() *Context {
	return &Context{
		Keyspace: store.New(),
		PubSub:   store.NewPubSub(),
	}
}

func run(t *testing.T, ctx *Context, r *Registry, parts ...string) protocol.Reply {
	t.Helper()
	return r.Dispatch(ctx, parts)
}

func TestSetGetRoundTrip(t *testing.T) {
	ctx := newTestContext()
	r := Default()

	assert.Equal(t, okReply, run(t, ctx, r, "SET", "foo", "bar"))
	assert.Equal(t, protocol.NewBulkString("bar"), run(t, ctx, r, "GET", "foo"))
}

func TestSetNXDoesNotOverwrite(t *testing.T) {
	ctx := newTestContext()
	r := Default()

	run(t, ctx, r, "SET", "foo", "bar")
	got := run(t, ctx, r, "SET", "foo", "baz", "NX")
	assert.Equal(t, protocol.NilBulk(), got)
	assert.Equal(t, protocol.NewBulkString("bar"), run(t, ctx, r, "GET", "foo"))
}

func TestSetWithGetReturnsOldValue(t *testing.T) {
	ctx := newTestContext()
	r := Default()

	run(t, ctx, r, "SET", "foo", "bar")
	got := run(t, ctx, r, "SET", "foo", "baz", "GET")
	assert.Equal(t, protocol.NewBulkString("bar"), got)
	assert.Equal(t, protocol.NewBulkString("baz"), run(t, ctx, r, "GET", "foo"))
}

func TestWrongTypeError(t *testing.T) {
	ctx := newTestContext()
	r := Default()

	run(t, ctx, r, "LPUSH", "mylist", "a")
	got := run(t, ctx, r, "GET", "mylist")
	assert.Equal(t, errWrongType(), got)
}

func TestIncrOnNonIntegerFails(t *testing.T) {
	ctx := newTestContext()
	r := Default()

	run(t, ctx, r, "SET", "foo", "not-a-number")
	assert.Equal(t, errNotInteger(), run(t, ctx, r, "INCR", "foo"))
}

func TestIncrCreatesAndIncrements(t *testing.T) {
	ctx := newTestContext()
	r := Default()

	assert.Equal(t, protocol.Integer(1), run(t, ctx, r, "INCR", "counter"))
	assert.Equal(t, protocol.Integer(2), run(t, ctx, r, "INCR", "counter"))
	assert.Equal(t, protocol.Integer(12), run(t, ctx, r, "INCRBY", "counter", "10"))
}

func TestListPushPopOrder(t *testing.T) {
	ctx := newTestContext()
	r := Default()

	run(t, ctx, r, "RPUSH", "mylist", "a", "b", "c")
	assert.Equal(t, protocol.Integer(3), run(t, ctx, r, "LLEN", "mylist"))
	assert.Equal(t, protocol.StringArray([]string{"a", "b", "c"}), run(t, ctx, r, "LRANGE", "mylist", "0", "-1"))
	assert.Equal(t, protocol.NewBulkString("a"), run(t, ctx, r, "LPOP", "mylist"))
}

func TestEmptyListIsDeleted(t *testing.T) {
	ctx := newTestContext()
	r := Default()

	run(t, ctx, r, "RPUSH", "mylist", "a")
	run(t, ctx, r, "LPOP", "mylist")
	assert.Equal(t, protocol.Integer(0), run(t, ctx, r, "EXISTS", "mylist"))
}

func TestHashOperations(t *testing.T) {
	ctx := newTestContext()
	r := Default()

	run(t, ctx, r, "HSET", "h", "f1", "v1", "f2", "v2")
	assert.Equal(t, protocol.NewBulkString("v1"), run(t, ctx, r, "HGET", "h", "f1"))
	assert.Equal(t, protocol.Integer(2), run(t, ctx, r, "HLEN", "h"))
}

func TestSetAlgebra(t *testing.T) {
	ctx := newTestContext()
	r := Default()

	run(t, ctx, r, "SADD", "s1", "a", "b", "c")
	run(t, ctx, r, "SADD", "s2", "b", "c", "d")
	inter := run(t, ctx, r, "SINTER", "s1", "s2").(protocol.Array)
	require.Len(t, inter.Items, 2)
}

func TestZAddAndRangeByScore(t *testing.T) {
	ctx := newTestContext()
	r := Default()

	run(t, ctx, r, "ZADD", "z", "1", "a", "2", "b", "3", "c")
	got := run(t, ctx, r, "ZRANGEBYSCORE", "z", "(1", "3")
	assert.Equal(t, protocol.StringArray([]string{"b", "c"}), got)
}

func TestZAddGTOnlyRaisesScore(t *testing.T) {
	ctx := newTestContext()
	r := Default()

	run(t, ctx, r, "ZADD", "z", "5", "m")
	run(t, ctx, r, "ZADD", "z", "GT", "3", "m")
	assert.Equal(t, protocol.NewBulkString("5"), run(t, ctx, r, "ZSCORE", "z", "m"))
	run(t, ctx, r, "ZADD", "z", "GT", "9", "m")
	assert.Equal(t, protocol.NewBulkString("9"), run(t, ctx, r, "ZSCORE", "z", "m"))
}

func TestExpireAndTTL(t *testing.T) {
	ctx := newTestContext()
	r := Default()

	run(t, ctx, r, "SET", "foo", "bar")
	run(t, ctx, r, "EXPIRE", "foo", "100")
	ttl := run(t, ctx, r, "TTL", "foo").(protocol.Integer)
	assert.True(t, ttl > 0 && ttl <= 100)
}

func TestPersistRemovesTTL(t *testing.T) {
	ctx := newTestContext()
	r := Default()

	run(t, ctx, r, "SET", "foo", "bar")
	run(t, ctx, r, "EXPIRE", "foo", "100")
	assert.Equal(t, protocol.Integer(1), run(t, ctx, r, "PERSIST", "foo"))
	assert.Equal(t, protocol.Integer(-1), run(t, ctx, r, "TTL", "foo"))
}

func TestUnknownCommand(t *testing.T) {
	ctx := newTestContext()
	r := Default()

	got := run(t, ctx, r, "NOTACOMMAND")
	errReply, ok := got.(protocol.Err)
	require.True(t, ok)
	assert.Contains(t, errReply.Message, "unknown command")
}

func TestArityError(t *testing.T) {
	ctx := newTestContext()
	r := Default()

	got := run(t, ctx, r, "GET")
	errReply, ok := got.(protocol.Err)
	require.True(t, ok)
	assert.Contains(t, errReply.Message, "wrong number of arguments")
}

func TestPublishDeliversToSubscriber(t *testing.T) {
	ks := store.New()
	ps := store.NewPubSub()
	r := Default()

	sub := store.NewSubscriber()
	subCtx := &Context{Keyspace: ks, PubSub: ps, Client: sub}
	run(t, subCtx, r, "SUBSCRIBE", "news")

	pubCtx := &Context{Keyspace: ks, PubSub: ps}
	got := run(t, pubCtx, r, "PUBLISH", "news", "hello")
	assert.Equal(t, protocol.Integer(1), got)

	msg := <-sub.Deliver
	assert.Equal(t, "hello", msg.Payload)
	assert.Equal(t, "news", msg.Channel)
}
