package staffdb

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const table = "employees"

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "staff.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seed(t *testing.T, db *DB) {
	t.Helper()
	bulk := db.Bulk(table)
	for _, r := range staff() {
		bulk.Add(r)
	}
	_, err := bulk.Exec()
	require.NoError(t, err)
}

func TestDBAddGet(t *testing.T) {
	db := openTestDB(t)

	id, err := db.Add(table, staff()[0])
	require.NoError(t, err)
	assert.Equal(t, "M001", id)

	r, ok, err := db.Get(table, "m001")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, staff()[0], r)

	_, err = db.Add(table, Record{ID: "m001", Name: "Other"})
	assert.ErrorIs(t, err, ErrDuplicateID, "ids are unique ignoring case")

	_, ok, err = db.Get(table, "nobody")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDBAddGeneratesID(t *testing.T) {
	db := openTestDB(t)
	id, err := db.Add(table, Record{Name: "Anon"})
	require.NoError(t, err)
	assert.Len(t, id, 32)

	r, ok, err := db.Get(table, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Anon", r.Name)
	assert.Equal(t, id, r.ID)
}

func TestDBAll(t *testing.T) {
	db := openTestDB(t)
	seed(t, db)

	rows, err := db.All(table)
	require.NoError(t, err)
	assert.Equal(t, []string{"I001", "M001", "R001", "R002"}, ids(rows))

	empty, err := db.All("missing")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDBEdit(t *testing.T) {
	db := openTestDB(t)
	seed(t, db)

	bob := staff()[2]
	bob.ID = ""
	bob.Department = "Research"
	require.NoError(t, db.Edit(table, "r001", bob))

	r, ok, err := db.Get(table, "R001")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "R001", r.ID, "an empty id keeps the stored one")
	assert.Equal(t, "Research", r.Department)

	eng, err := db.Query(table).Eq(ByDepartment, "engineering").List()
	require.NoError(t, err)
	assert.Equal(t, []string{"M001"}, ids(eng), "old index entry is gone")

	research, err := db.Query(table).Eq(ByDepartment, "research").List()
	require.NoError(t, err)
	assert.Equal(t, []string{"R001"}, ids(research))

	assert.ErrorIs(t, db.Edit(table, "X999", bob), ErrNotFound)

	bob.ID = "M001"
	assert.ErrorIs(t, db.Edit(table, "R001", bob), ErrDuplicateID)
}

func TestDBEditRenames(t *testing.T) {
	db := openTestDB(t)
	seed(t, db)

	alice := staff()[3]
	alice.ID = "R100"
	require.NoError(t, db.Edit(table, "R002", alice))

	_, ok, err := db.Get(table, "R002")
	require.NoError(t, err)
	assert.False(t, ok)

	hr, err := db.Query(table).Eq(ByDepartment, "HR").List()
	require.NoError(t, err)
	assert.Equal(t, []string{"R100"}, ids(hr))
}

func TestDBDelete(t *testing.T) {
	db := openTestDB(t)
	seed(t, db)

	require.NoError(t, db.Delete(table, "i001"))
	require.NoError(t, db.Delete(table, "i001"), "deleting twice is a no-op")

	rows, err := db.All(table)
	require.NoError(t, err)
	assert.Equal(t, []string{"M001", "R001", "R002"}, ids(rows))

	sales, err := db.Query(table).Eq(ByDepartment, "sales").List()
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestBulkIsAtomic(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Bulk(table).
		Add(Record{ID: "A1", Name: "First"}).
		Add(Record{ID: "a1", Name: "Clash"}).
		Exec()
	assert.ErrorIs(t, err, ErrDuplicateID)

	rows, err := db.All(table)
	require.NoError(t, err)
	assert.Empty(t, rows)

	got, err := db.Bulk(table).
		Add(Record{ID: "A1", Name: "First"}).
		Edit("A1", Record{Name: "Renamed"}).
		Add(Record{ID: "B1", Name: "Second"}).
		Delete("B1").
		Exec()
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "A1", "B1", "B1"}, got)

	rows, err = db.All(table)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, Record{ID: "A1", Name: "Renamed"}, rows[0])
}

func TestDBPerformance(t *testing.T) {
	db := openTestDB(t)
	seed(t, db)

	require.NoError(t, db.SetRating(table, "R002", 5))
	assert.ErrorIs(t, db.SetRating(table, "R002", 6), ErrInvalidRating)
	assert.ErrorIs(t, db.SetRating(table, "R002", 0), ErrInvalidRating)
	assert.ErrorIs(t, db.SetRating(table, "nobody", 3), ErrNotFound)

	require.NoError(t, db.AdjustCompensation(table, "R002", 5000))
	r, _, err := db.Get(table, "R002")
	require.NoError(t, err)
	assert.Equal(t, 5, r.PerformanceRating)
	assert.Equal(t, 50000.0, r.BaseCompensation)

	require.NoError(t, db.AdjustCompensation(table, "R002", -1e6))
	r, _, err = db.Get(table, "R002")
	require.NoError(t, err)
	assert.Zero(t, r.BaseCompensation)
}

func TestDBFind(t *testing.T) {
	db := openTestDB(t)
	seed(t, db)

	r, ok, err := db.Find(table, ByName, "ALICE")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "R002", r.ID)

	_, ok, err = db.Find(table, ByName, "mallory")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDBDrop(t *testing.T) {
	db := openTestDB(t)
	seed(t, db)
	require.NoError(t, db.Drop(table))
	require.NoError(t, db.Drop(table))

	rows, err := db.All(table)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDBRejectsNonFiniteCompensation(t *testing.T) {
	db := openTestDB(t)
	seed(t, db)

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := db.Add(table, Record{ID: "X1", Name: "Ghost", BaseCompensation: v})
		assert.ErrorIs(t, err, ErrInvalidCompensation)
	}
	_, ok, err := db.Get(table, "X1")
	require.NoError(t, err)
	assert.False(t, ok)

	ghosts, err := db.Query(table).Eq(ByName, "ghost").List()
	require.NoError(t, err)
	assert.Empty(t, ghosts, "no index entry is left behind")

	id, err := db.Add(table, Record{ID: "X1", Name: "Ghost", BaseCompensation: 1})
	require.NoError(t, err)
	assert.Equal(t, "X1", id)

	bob := staff()[2]
	bob.BaseCompensation = math.NaN()
	assert.ErrorIs(t, db.Edit(table, "R001", bob), ErrInvalidCompensation)
	assert.ErrorIs(t, db.AdjustCompensation(table, "R001", math.Inf(1)), ErrInvalidCompensation)

	r, _, err := db.Get(table, "R001")
	require.NoError(t, err)
	assert.Equal(t, staff()[2], r)
}
