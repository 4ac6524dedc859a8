// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb_test

import (
	"testing"

	"github.com/meterio/prize-auction/lvldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPut(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Get([]byte("missing"))
	assert.True(t, db.IsNotFound(err))

	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	v, err := db.Get([]byte("k"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	has, err := db.Has([]byte("k"))
	assert.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, db.Delete([]byte("k")))
	has, _ = db.Has([]byte("k"))
	assert.False(t, has)
}

func TestBatchIsInvisibleUntilWrite(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	batch := db.NewBatch()
	batch.Put([]byte("a"), []byte("1"))
	batch.Put([]byte("b"), []byte("2"))
	assert.Equal(t, 2, batch.Len())

	_, err = db.Get([]byte("a"))
	assert.True(t, db.IsNotFound(err), "batch should not be visible before write")

	require.NoError(t, batch.Write())
	v, err := db.Get([]byte("b"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("2"), v)
}

func TestPersistent(t *testing.T) {
	dir := t.TempDir()
	db, err := lvldb.New(dir, lvldb.Options{})
	require.NoError(t, err)
	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	require.NoError(t, db.Close())

	db, err = lvldb.New(dir, lvldb.Options{CacheSize: 32})
	require.NoError(t, err)
	defer db.Close()
	v, err := db.Get([]byte("k"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
}
