package store

import (
	"bytes"
	"errors"
	"time"

	"github.com/boltdb/bolt"
)

type Bolt struct {
	db *bolt.DB
}

func NewBolt(path string) (*Bolt, error) {
	// 创建或者打开数据库
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	return &Bolt{
		db: db,
	}, nil
}

func (c *Bolt) Close() error {
	return c.db.Close()
}

func (c *Bolt) DropTable(table string) (err error) {
	if len(table) <= 0 {
		return nil
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		err := tx.DeleteBucket([]byte(table))
		if errors.Is(err, bolt.ErrBucketNotFound) {
			return nil
		}
		return err
	})
}

func (c *Bolt) SetKV(table string, kvs []KV) error {
	if len(table) <= 0 || len(kvs) <= 0 {
		return nil
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(table))
		if err != nil {
			return err
		}
		for _, v := range kvs {
			if len(v.Value) <= 0 {
				if err := bucket.Delete([]byte(v.Key)); err != nil {
					return err
				}
				continue
			}
			if err := bucket.Put([]byte(v.Key), v.Value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *Bolt) GetKV(table, key string) (kv KV, err error) {
	if len(table) <= 0 || len(key) <= 0 {
		return KV{}, nil
	}
	err = c.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(table))
		if bucket == nil {
			return nil
		}
		// bolt 返回的切片只在事务内有效
		if v := bucket.Get([]byte(key)); len(v) > 0 {
			kv = KV{
				Key:   key,
				Value: bytes.Clone(v),
			}
		}
		return nil
	})
	return kv, err
}

func (c *Bolt) ScanKV(table, prefix string, handle func(key string, value []byte) bool) error {
	if len(table) <= 0 || handle == nil {
		return nil
	}
	return c.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(table))
		if bucket == nil {
			return nil
		}
		cur := bucket.Cursor()
		pbs := []byte(prefix)
		for k, v := cur.Seek(pbs); k != nil && bytes.HasPrefix(k, pbs); k, v = cur.Next() {
			if !handle(string(k), bytes.Clone(v)) {
				return nil
			}
		}
		return nil
	})
}
