package staffdb

type Bulk struct {
	db      *DB
	table   string
	actions []action
}

type action struct {
	Id     string
	Record Record
	Type   int
}

const (
	add = iota
	edit
	del
)

func (c *Bulk) Add(r Record) *Bulk {
	c.actions = append(c.actions, action{
		Record: r,
		Type:   add,
	})
	return c
}

func (c *Bulk) Edit(id string, r Record) *Bulk {
	c.actions = append(c.actions, action{
		Id:     id,
		Record: r,
		Type:   edit,
	})
	return c
}

func (c *Bulk) Delete(id string) *Bulk {
	c.actions = append(c.actions, action{
		Id:   id,
		Type: del,
	})
	return c
}

// Exec applies every action in one store write. Nothing is written if
// any action fails.
func (c *Bulk) Exec() (ids []string, err error) {

	c.db.mutex.Lock()
	defer c.db.mutex.Unlock()

	tx := newStaging(c.db, c.table)
	for _, v := range c.actions {
		switch v.Type {
		case add:
			id, err := tx.add(v.Record)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		case edit:
			if err := tx.edit(v.Id, v.Record); err != nil {
				return nil, err
			}
			ids = append(ids, v.Id)
		case del:
			if err := tx.delete(v.Id); err != nil {
				return nil, err
			}
			ids = append(ids, v.Id)
		}
	}
	err = c.db.store.SetKV(c.table, tx.kvs)
	if err != nil {
		return nil, err
	}
	c.db.logger.Debug().
		Str("table", c.table).
		Int("actions", len(c.actions)).
		Int("keys", len(tx.kvs)).
		Msg("bulk applied")
	return ids, nil
}
