package command

// Default builds the registry with every command this store implements.
// Grouped the way spec.md §4.3–§4.7 groups them.
func Default() *Registry {
	r := NewRegistry()

	// Strings (spec.md §4.3)
	r.Register("GET", cmdGet, 2, 2, "get the string value of a key")
	r.Register("SET", cmdSet, 3, -1, "set the string value of a key, with options")
	r.Register("GETSET", cmdGetSet, 3, 3, "set a key and return its old value")
	r.Register("GETDEL", cmdGetDel, 2, 2, "get a key and delete it")
	r.Register("GETEX", cmdGetEx, 2, -1, "get a key and optionally alter its TTL")
	r.Register("APPEND", cmdAppend, 3, 3, "append to the string value of a key")
	r.Register("STRLEN", cmdStrlen, 2, 2, "get the length of the string value of a key")
	r.Register("GETRANGE", cmdGetRange, 4, 4, "get a substring of the string value of a key")
	r.Register("SETRANGE", cmdSetRange, 4, 4, "overwrite part of a string at key starting at offset")
	r.Register("INCR", cmdIncr, 2, 2, "increment the integer value of a key by one")
	r.Register("DECR", cmdDecr, 2, 2, "decrement the integer value of a key by one")
	r.Register("INCRBY", cmdIncrBy, 3, 3, "increment the integer value of a key by the given amount")
	r.Register("DECRBY", cmdDecrBy, 3, 3, "decrement the integer value of a key by the given amount")
	r.Register("INCRBYFLOAT", cmdIncrByFloat, 3, 3, "increment the float value of a key by the given amount")
	r.Register("MGET", cmdMGet, 2, -1, "get the values of all given keys")
	r.Register("MSET", cmdMSet, 3, -1, "set multiple keys to multiple values")
	r.Register("MSETNX", cmdMSetNX, 3, -1, "set multiple keys, only if none exist")

	// Keyspace and server (spec.md §4.2, §6)
	r.Register("DEL", cmdDel, 2, -1, "delete one or more keys")
	r.Register("EXISTS", cmdExists, 2, -1, "count how many of the given keys exist")
	r.Register("TYPE", cmdType, 2, 2, "get the type stored at key")
	r.Register("RENAME", cmdRename, 3, 3, "rename a key")
	r.Register("RENAMENX", cmdRenameNX, 3, 3, "rename a key, only if the new name does not exist")
	r.Register("KEYS", cmdKeys, 2, 2, "find all keys matching a pattern")
	r.Register("SCAN", cmdScan, 2, -1, "incrementally iterate the keyspace")
	r.Register("DBSIZE", cmdDBSize, 1, 1, "return the number of keys")
	r.Register("FLUSHDB", cmdFlushDB, 1, 1, "remove all keys")
	r.Register("RANDOMKEY", cmdRandomKey, 1, 1, "return a random key")
	r.Register("EXPIRE", cmdExpire, 3, 3, "set a key's time to live in seconds")
	r.Register("PEXPIRE", cmdPExpire, 3, 3, "set a key's time to live in milliseconds")
	r.Register("EXPIREAT", cmdExpireAt, 3, 3, "set the expiration as a unix timestamp")
	r.Register("PEXPIREAT", cmdPExpireAt, 3, 3, "set the expiration as a unix timestamp in milliseconds")
	r.Register("TTL", cmdTTL, 2, 2, "get the time to live for a key in seconds")
	r.Register("PTTL", cmdPTTL, 2, 2, "get the time to live for a key in milliseconds")
	r.Register("PERSIST", cmdPersist, 2, 2, "remove the expiration from a key")
	r.Register("TOUCH", cmdTouch, 2, -1, "alter the last access time of a key")
	r.Register("COPY", cmdCopy, 3, 4, "copy a key")
	r.Register("OBJECT", cmdObject, 2, 3, "inspect internal details of a key")
	r.Register("PING", cmdPing, 1, 2, "ping the server")
	r.Register("ECHO", cmdEcho, 2, 2, "echo the given message")
	r.Register("QUIT", cmdQuit, 1, 1, "close the connection")
	r.Register("RESET", cmdReset, 1, 1, "reset the connection's subscription state")

	// Lists (spec.md §4.4)
	r.Register("LPUSH", cmdLPush, 3, -1, "prepend values to a list")
	r.Register("RPUSH", cmdRPush, 3, -1, "append values to a list")
	r.Register("LPUSHX", cmdLPushX, 3, -1, "prepend values to a list, only if it exists")
	r.Register("RPUSHX", cmdRPushX, 3, -1, "append values to a list, only if it exists")
	r.Register("LLEN", cmdLLen, 2, 2, "get the length of a list")
	r.Register("LPOP", cmdLPop, 2, 3, "remove and return the first elements of a list")
	r.Register("RPOP", cmdRPop, 2, 3, "remove and return the last elements of a list")
	r.Register("LRANGE", cmdLRange, 4, 4, "get a range of elements from a list")
	r.Register("LINDEX", cmdLIndex, 3, 3, "get an element from a list by its index")
	r.Register("LSET", cmdLSet, 4, 4, "set the value of an element in a list by its index")
	r.Register("LINSERT", cmdLInsert, 5, 5, "insert an element before or after another element in a list")
	r.Register("LREM", cmdLRem, 4, 4, "remove elements from a list")
	r.Register("LTRIM", cmdLTrim, 4, 4, "trim a list to the given range")
	r.Register("LPOS", cmdLPos, 3, -1, "find the position of elements in a list")
	r.Register("RPOPLPUSH", cmdRPopLPush, 3, 3, "pop from one list and push onto another")
	r.Register("LMOVE", cmdLMove, 5, 5, "move an element between two lists")

	// Hashes (spec.md §4.5)
	r.Register("HSET", cmdHSet, 4, -1, "set fields in a hash")
	r.Register("HSETNX", cmdHSetNX, 4, 4, "set a field in a hash, only if it does not exist")
	r.Register("HGET", cmdHGet, 3, 3, "get a field's value from a hash")
	r.Register("HMGET", cmdHMGet, 3, -1, "get multiple fields' values from a hash")
	r.Register("HDEL", cmdHDel, 3, -1, "delete fields from a hash")
	r.Register("HEXISTS", cmdHExists, 3, 3, "check whether a field exists in a hash")
	r.Register("HLEN", cmdHLen, 2, 2, "get the number of fields in a hash")
	r.Register("HSTRLEN", cmdHStrLen, 3, 3, "get the string length of a field's value")
	r.Register("HKEYS", cmdHKeys, 2, 2, "get all field names in a hash")
	r.Register("HVALS", cmdHVals, 2, 2, "get all values in a hash")
	r.Register("HGETALL", cmdHGetAll, 2, 2, "get all fields and values in a hash")
	r.Register("HINCRBY", cmdHIncrBy, 4, 4, "increment the integer value of a hash field")
	r.Register("HINCRBYFLOAT", cmdHIncrByFloat, 4, 4, "increment the float value of a hash field")
	r.Register("HRANDFIELD", cmdHRandField, 2, 4, "get one or more random fields from a hash")
	r.Register("HSCAN", cmdHScan, 3, -1, "incrementally iterate a hash")

	// Sets (spec.md §4.6)
	r.Register("SADD", cmdSAdd, 3, -1, "add members to a set")
	r.Register("SREM", cmdSRem, 3, -1, "remove members from a set")
	r.Register("SISMEMBER", cmdSIsMember, 3, 3, "check set membership")
	r.Register("SMISMEMBER", cmdSMIsMember, 3, -1, "check membership of multiple members")
	r.Register("SMEMBERS", cmdSMembers, 2, 2, "get all members of a set")
	r.Register("SCARD", cmdSCard, 2, 2, "get the number of members in a set")
	r.Register("SMOVE", cmdSMove, 4, 4, "move a member between two sets")
	r.Register("SPOP", cmdSPop, 2, 3, "remove and return random members of a set")
	r.Register("SRANDMEMBER", cmdSRandMember, 2, 3, "get random members of a set")
	r.Register("SUNION", cmdSUnion, 2, -1, "union multiple sets")
	r.Register("SINTER", cmdSInter, 2, -1, "intersect multiple sets")
	r.Register("SDIFF", cmdSDiff, 2, -1, "diff multiple sets")
	r.Register("SUNIONSTORE", cmdSUnionStore, 3, -1, "union multiple sets into a destination key")
	r.Register("SINTERSTORE", cmdSInterStore, 3, -1, "intersect multiple sets into a destination key")
	r.Register("SDIFFSTORE", cmdSDiffStore, 3, -1, "diff multiple sets into a destination key")
	r.Register("SINTERCARD", cmdSInterCard, 3, -1, "count the intersection of multiple sets")
	r.Register("SSCAN", cmdSScan, 3, -1, "incrementally iterate a set")

	// Sorted sets (spec.md §4.7)
	r.Register("ZADD", cmdZAdd, 4, -1, "add members with scores to a sorted set")
	r.Register("ZREM", cmdZRem, 3, -1, "remove members from a sorted set")
	r.Register("ZSCORE", cmdZScore, 3, 3, "get the score of a member")
	r.Register("ZMSCORE", cmdZMScore, 3, -1, "get the scores of multiple members")
	r.Register("ZCARD", cmdZCard, 2, 2, "get the number of members in a sorted set")
	r.Register("ZRANK", cmdZRank, 3, 4, "get the ascending rank of a member")
	r.Register("ZREVRANK", cmdZRevRank, 3, 4, "get the descending rank of a member")
	r.Register("ZINCRBY", cmdZIncrBy, 4, 4, "increment the score of a member")
	r.Register("ZCOUNT", cmdZCount, 4, 4, "count members within a score range")
	r.Register("ZPOPMIN", cmdZPopMin, 2, 3, "remove and return the lowest-scoring members")
	r.Register("ZPOPMAX", cmdZPopMax, 2, 3, "remove and return the highest-scoring members")
	r.Register("ZRANGE", cmdZRange, 4, -1, "get a range of members from a sorted set")
	r.Register("ZREVRANGE", cmdZRevRange, 4, -1, "get a descending range of members")
	r.Register("ZRANGEBYSCORE", cmdZRangeByScore, 4, -1, "get members within a score range, ascending")
	r.Register("ZREVRANGEBYSCORE", cmdZRevRangeByScore, 4, -1, "get members within a score range, descending")
	r.Register("ZRANGESTORE", cmdZRangeStore, 5, -1, "store a range query's result in a destination key")
	r.Register("ZSCAN", cmdZScan, 3, -1, "incrementally iterate a sorted set")

	// Pub/sub (spec.md §4.11)
	r.Register("SUBSCRIBE", cmdSubscribe, 2, -1, "listen for messages on channels")
	r.Register("UNSUBSCRIBE", cmdUnsubscribe, 1, -1, "stop listening on channels")
	r.Register("PSUBSCRIBE", cmdPSubscribe, 2, -1, "listen for messages on channel patterns")
	r.Register("PUNSUBSCRIBE", cmdPUnsubscribe, 1, -1, "stop listening on channel patterns")
	r.Register("PUBLISH", cmdPublish, 3, 3, "publish a message to a channel")

	return r
}
