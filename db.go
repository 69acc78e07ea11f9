package staffdb

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dpwgc/staffdb/store"
)

const primaryKey = "_id"

// indexed criteria get a secondary key <field>/<lower value>/<lower id>.
var indexed = []SortCriterion{ByName, ByDepartment, BySubtype}

func isIndexed(c SortCriterion) bool {
	for _, v := range indexed {
		if v == c {
			return true
		}
	}
	return false
}

type DB struct {
	store  store.Store
	mutex  *sync.Mutex
	engine *Engine
	logger zerolog.Logger
}

// Open creates or opens a bolt file at path.
func Open(path string, opts ...Option) (*DB, error) {
	bolt, err := store.NewBolt(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return NewDB(bolt, opts...), nil
}

func NewDB(s store.Store, opts ...Option) *DB {
	engine := NewEngine(opts...)
	return &DB{
		store:  s,
		mutex:  &sync.Mutex{},
		engine: engine,
		logger: engine.logger,
	}
}

func (c *DB) Engine() *Engine {
	return c.engine
}

func (c *DB) Close() error {
	return c.store.Close()
}

func (c *DB) Drop(table string) error {
	return c.store.DropTable(table)
}

func (c *DB) Bulk(table string) *Bulk {
	return &Bulk{
		db:    c,
		table: table,
	}
}

// Add stores r and returns its id. Records without an id get a generated one.
func (c *DB) Add(table string, r Record) (id string, err error) {
	ids, err := c.Bulk(table).Add(r).Exec()
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// Edit replaces the record stored under id. An empty r.ID keeps id.
func (c *DB) Edit(table, id string, r Record) error {
	_, err := c.Bulk(table).Edit(id, r).Exec()
	return err
}

func (c *DB) Delete(table, id string) error {
	_, err := c.Bulk(table).Delete(id).Exec()
	return err
}

func (c *DB) Get(table, id string) (Record, bool, error) {
	return c.get(table, strings.ToLower(id))
}

// All returns every record of table ordered by lower-cased id.
func (c *DB) All(table string) ([]Record, error) {
	rows := make([]Record, 0)
	var decodeErr error
	err := c.store.ScanKV(table, toPath(primaryKey, ""), func(key string, value []byte) bool {
		r, err := FromBytes(value)
		if err != nil {
			decodeErr = fmt.Errorf("decode %s: %w", key, err)
			return false
		}
		rows = append(rows, r)
		return true
	})
	if err != nil {
		return nil, err
	}
	return rows, decodeErr
}

// SetRating updates the performance rating of the record under id.
func (c *DB) SetRating(table, id string, rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: %d", ErrInvalidRating, rating)
	}
	return c.update(table, id, func(r *Record) {
		r.PerformanceRating = rating
	})
}

// AdjustCompensation adds delta to the base compensation of the record
// under id; fines pass a negative delta. The result never drops below 0.
func (c *DB) AdjustCompensation(table, id string, delta float64) error {
	return c.update(table, id, func(r *Record) {
		r.BaseCompensation = max(r.BaseCompensation+delta, 0)
	})
}

func (c *DB) update(table, id string, fn func(r *Record)) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	r, ok, err := c.get(table, strings.ToLower(id))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	fn(&r)
	tx := newStaging(c, table)
	if err := tx.edit(id, r); err != nil {
		return err
	}
	return c.store.SetKV(table, tx.kvs)
}

func (c *DB) get(table, key string) (Record, bool, error) {
	kv, err := c.store.GetKV(table, toPath(primaryKey, key))
	if err != nil {
		return Record{}, false, err
	}
	if !kv.IsExist() {
		return Record{}, false, nil
	}
	r, err := FromBytes(kv.Value)
	if err != nil {
		return Record{}, false, fmt.Errorf("decode %s: %w", key, err)
	}
	return r, true, nil
}

// scanIndex returns the records whose indexed field value starts with
// prefix (already lower-cased), in index order.
func (c *DB) scanIndex(table string, field SortCriterion, prefix string) ([]Record, error) {
	var keys []string
	err := c.store.ScanKV(table, toPath(field.String(), prefix), func(key string, value []byte) bool {
		keys = append(keys, string(value))
		return true
	})
	if err != nil {
		return nil, err
	}
	rows := make([]Record, 0, len(keys))
	for _, k := range keys {
		r, ok, err := c.get(table, k)
		if err != nil {
			return nil, err
		}
		if ok {
			rows = append(rows, r)
		}
	}
	return rows, nil
}

// staging layers the pending writes of one batch over the store so that
// later actions in the batch see earlier ones.
type staging struct {
	db      *DB
	table   string
	pending map[string]*Record
	kvs     []store.KV
}

func newStaging(db *DB, table string) *staging {
	return &staging{
		db:      db,
		table:   table,
		pending: make(map[string]*Record),
	}
}

func (c *staging) lookup(key string) (Record, bool, error) {
	if r, ok := c.pending[key]; ok {
		if r == nil {
			return Record{}, false, nil
		}
		return *r, true, nil
	}
	return c.db.get(c.table, key)
}

func (c *staging) put(r Record) error {
	value, err := r.ToBytes()
	if err != nil {
		return fmt.Errorf("encode %s: %w", r.ID, err)
	}
	key := r.Key()
	c.pending[key] = &r
	c.kvs = append(c.kvs, store.KV{
		Key:   toPath(primaryKey, key),
		Value: value,
	})
	c.kvs = append(c.kvs, indexKVs(r, []byte(key))...)
	return nil
}

func (c *staging) remove(r Record) {
	key := r.Key()
	c.pending[key] = nil
	c.kvs = append(c.kvs, store.KV{Key: toPath(primaryKey, key)})
	c.kvs = append(c.kvs, indexKVs(r, nil)...)
}

func (c *staging) add(r Record) (id string, err error) {
	if err := r.validate(); err != nil {
		return "", err
	}
	if r.IsEmpty() {
		for {
			r.ID = genID()
			_, exist, err := c.lookup(r.Key())
			if err != nil {
				return "", err
			}
			if !exist {
				break
			}
		}
	} else {
		_, exist, err := c.lookup(r.Key())
		if err != nil {
			return "", err
		}
		if exist {
			return "", fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
		}
	}
	if err := c.put(r); err != nil {
		return "", err
	}
	return r.ID, nil
}

func (c *staging) edit(id string, r Record) error {
	if len(id) <= 0 {
		return ErrEmptyID
	}
	old, exist, err := c.lookup(strings.ToLower(id))
	if err != nil {
		return err
	}
	if !exist {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if r.IsEmpty() {
		r.ID = old.ID
	}
	if err := r.validate(); err != nil {
		return err
	}
	if r.Key() != old.Key() {
		_, taken, err := c.lookup(r.Key())
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
		}
	}
	c.remove(old)
	return c.put(r)
}

func (c *staging) delete(id string) error {
	old, exist, err := c.lookup(strings.ToLower(id))
	if err != nil {
		return err
	}
	if exist {
		c.remove(old)
	}
	return nil
}

func indexKVs(r Record, value []byte) []store.KV {
	kvs := make([]store.KV, 0, len(indexed))
	for _, field := range indexed {
		kvs = append(kvs, store.KV{
			Key:   toPath(field.String(), strings.ToLower(std.Project(r, field)), r.Key()),
			Value: value,
		})
	}
	return kvs
}

func genID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
}

func toPath(s ...string) string {
	return strings.Join(s, "/")
}
