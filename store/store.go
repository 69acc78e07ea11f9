package store

type Store interface {
	DropTable(table string) (err error)
	SetKV(table string, kvs []KV) (err error)
	GetKV(table, key string) (kv KV, err error)
	ScanKV(table, prefix string, handle func(key string, value []byte) bool) (err error)
	Close() error
}

// KV is a single entry. SetKV deletes keys whose Value is empty.
type KV struct {
	Key   string
	Value []byte
}

func (c KV) IsExist() bool {
	return len(c.Key) > 0 && len(c.Value) > 0
}
