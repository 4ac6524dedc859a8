// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb_test

import (
	"context"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/meterio/prize-auction/logdb"
	"github.com/meterio/prize-auction/meter"
	"github.com/meterio/prize-auction/tx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvents(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	txEvent := &tx.Event{
		Address: meter.BytesToAddress([]byte("addr")),
		Topics:  []meter.Bytes32{meter.BytesToBytes32([]byte("topic0")), meter.BytesToBytes32([]byte("topic1"))},
		Data:    []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 97, 48},
	}

	for i := 1; i <= 100; i++ {
		header := &logdb.Header{Seq: uint64(i), Time: uint64(1000 + i)}
		require.NoError(t, db.Prepare(header).ForTransaction(meter.BytesToBytes32([]byte("txID")), meter.BytesToAddress([]byte("txOrigin"))).
			Insert(tx.Events{txEvent}, nil).Commit())
	}

	limit := 5
	t0 := meter.BytesToBytes32([]byte("topic0"))
	t1 := meter.BytesToBytes32([]byte("topic1"))
	other := meter.BytesToBytes32([]byte("other"))
	addr := meter.BytesToAddress([]byte("addr"))
	es, err := db.FilterEvents(context.Background(), &logdb.EventFilter{
		Range: &logdb.Range{
			Unit: logdb.Seq,
			From: 0,
			To:   10,
		},
		Options: &logdb.Options{
			Offset: 0,
			Limit:  uint64(limit),
		},
		Order: logdb.DESC,
		CriteriaSet: []*logdb.EventCriteria{
			{Address: &addr},
			{Address: &addr, Topics: [5]*meter.Bytes32{&t0, &t1}},
		},
	})
	require.NoError(t, err)
	require.Len(t, es, limit)
	assert.Equal(t, uint64(10), es[0].Seq)
	assert.Equal(t, t1, *es[0].Topics[1])
	assert.Nil(t, es[0].Topics[2])
	assert.Equal(t, txEvent.Data, es[0].Data)

	es, err = db.FilterEvents(context.Background(), &logdb.EventFilter{
		Range:       &logdb.Range{Unit: logdb.Time, From: 1050, To: 1059},
		CriteriaSet: []*logdb.EventCriteria{{Topics: [5]*meter.Bytes32{&t0}}},
	})
	require.NoError(t, err)
	assert.Len(t, es, 10)
	assert.Equal(t, uint64(1050), es[0].Time)

	es, err = db.FilterEvents(context.Background(), &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{{Topics: [5]*meter.Bytes32{&other}}},
	})
	require.NoError(t, err)
	assert.Empty(t, es)

	all, err := db.FilterEvents(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 100)
}

func TestTransfers(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	from := meter.BytesToAddress([]byte("from"))
	to := meter.BytesToAddress([]byte("to"))
	value := big.NewInt(10)
	count := 100
	for i := 1; i <= count; i++ {
		transLog := &tx.Transfer{
			Sender:    from,
			Recipient: to,
			Amount:    value,
			Token:     meter.NativeToken,
		}
		txID := meter.BytesToBytes32([]byte{byte(i)})
		require.NoError(t, db.Prepare(&logdb.Header{Seq: uint64(i)}).ForTransaction(txID, from).Insert(nil, tx.Transfers{transLog}).Commit())
	}

	tf := &logdb.TransferFilter{
		CriteriaSet: []*logdb.TransferCriteria{
			{
				TxOrigin:  &from,
				Recipient: &to,
			},
		},
		Range: &logdb.Range{
			Unit: logdb.Seq,
			From: 0,
			To:   1000,
		},
		Options: &logdb.Options{
			Offset: 0,
			Limit:  uint64(count),
		},
		Order: logdb.DESC,
	}
	ts, err := db.FilterTransfers(context.Background(), tf)
	require.NoError(t, err)
	assert.Equal(t, count, len(ts), "transfers searched")
	assert.Equal(t, value, ts[0].Amount)
	assert.Equal(t, uint64(count), ts[0].Seq)

	txID := meter.BytesToBytes32([]byte{7})
	ts, err = db.FilterTransfers(context.Background(), &logdb.TransferFilter{TxID: &txID})
	require.NoError(t, err)
	require.Len(t, ts, 1)
	assert.Equal(t, uint64(7), ts[0].Seq)

	prize := uint32(meter.PrizeToken)
	ts, err = db.FilterTransfers(context.Background(), &logdb.TransferFilter{
		CriteriaSet: []*logdb.TransferCriteria{{Token: &prize}},
	})
	require.NoError(t, err)
	assert.Empty(t, ts)
}

func TestPersistent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs.db")
	db, err := logdb.New(path)
	require.NoError(t, err)
	ev := &tx.Event{Address: meter.AuctionModuleAddr, Topics: []meter.Bytes32{meter.Blake2b([]byte("e"))}}
	require.NoError(t, db.Prepare(&logdb.Header{Seq: 1}).ForTransaction(meter.Bytes32{}, meter.Address{}).Insert(tx.Events{ev}, nil).Commit())
	db.Close()

	db, err = logdb.New(path)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, path, db.Path())
	es, err := db.FilterEvents(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, es, 1)
	assert.Equal(t, meter.AuctionModuleAddr, es[0].Address)
}

func BenchmarkLog(b *testing.B) {
	db, err := logdb.New(filepath.Join(b.TempDir(), "log.db"))
	if err != nil {
		b.Fatal(err)
	}
	defer db.Close()
	l := &tx.Event{
		Address: meter.BytesToAddress([]byte("addr")),
		Topics:  []meter.Bytes32{meter.BytesToBytes32([]byte("topic0")), meter.BytesToBytes32([]byte("topic1"))},
		Data:    []byte("data"),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		batch := db.Prepare(&logdb.Header{Seq: uint64(i)})
		txBatch := batch.ForTransaction(meter.BytesToBytes32([]byte("txID")), meter.BytesToAddress([]byte("txOrigin")))
		for j := 0; j < 100; j++ {
			txBatch.Insert(tx.Events{l}, nil)
		}

		if err := batch.Commit(); err != nil {
			b.Fatal(err)
		}
	}
}
