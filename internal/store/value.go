package store

// ValueType tags which of the five variants a keyspace entry holds.
type ValueType int

const (
	TypeString ValueType = iota
	TypeList
	TypeHash
	TypeSet
	TypeZSet
)

// String returns the wire name used by the TYPE command.
func (t ValueType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeList:
		return "list"
	case TypeHash:
		return "hash"
	case TypeSet:
		return "set"
	case TypeZSet:
		return "zset"
	default:
		return "none"
	}
}

// entry is one keyspace record: a typed value plus an optional absolute
// expiration instant, stored in milliseconds since the epoch.
type entry struct {
	valueType ValueType
	str       string
	list      *List
	hash      *Hash
	set       *Set
	zset      *ZSet
	expiresAt int64 // unix millis; only meaningful when hasTTL is set
	hasTTL    bool
}
