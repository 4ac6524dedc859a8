// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/meterio/prize-auction/api/transfers"
	"github.com/meterio/prize-auction/logdb"
	"github.com/meterio/prize-auction/meter"
	"github.com/meterio/prize-auction/tx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	from = meter.BytesToAddress([]byte("from"))
	to   = meter.BytesToAddress([]byte("to"))
)

func TestTransfers(t *testing.T) {
	ts := initLogServer(t)
	defer ts.Close()

	limit := 5
	tf := &transfers.TransferFilter{
		CriteriaSet: []*logdb.TransferCriteria{{
			TxOrigin:  &from,
			Recipient: &to,
		}},
		Range: &logdb.Range{
			Unit: logdb.Seq,
			From: 0,
			To:   1000,
		},
		Options: &logdb.Options{
			Offset: 0,
			Limit:  uint64(limit),
		},
		Order: logdb.DESC,
	}
	var tLogs []*transfers.FilteredTransfer
	require.NoError(t, json.Unmarshal(httpPost(t, ts.URL+"/logs/transfer", tf), &tLogs))
	require.Equal(t, limit, len(tLogs), "should be `limit` transfers")
	assert.Equal(t, uint64(100), tLogs[0].Meta.Seq)
	assert.Equal(t, to, tLogs[0].Recipient)
	assert.Equal(t, 0, big.NewInt(10).Cmp((*big.Int)(tLogs[0].Amount)))

	token := uint32(meter.PrizeToken)
	tf = &transfers.TransferFilter{
		CriteriaSet: []*logdb.TransferCriteria{{Token: &token}},
	}
	require.NoError(t, json.Unmarshal(httpPost(t, ts.URL+"/logs/transfer", tf), &tLogs))
	assert.Len(t, tLogs, 1)
}

func initLogServer(t *testing.T) *httptest.Server {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	for i := 1; i <= 100; i++ {
		transLog := &tx.Transfer{
			Sender:    from,
			Recipient: to,
			Amount:    big.NewInt(10),
		}
		if i == 1 {
			transLog = &tx.Transfer{Sender: from, Recipient: to, Amount: big.NewInt(1), Token: meter.PrizeToken}
		}
		err := db.Prepare(&logdb.Header{Seq: uint64(i), Time: uint64(i)}).
			ForTransaction(meter.Bytes32{}, from).
			Insert(nil, tx.Transfers{transLog}).Commit()
		require.NoError(t, err)
	}

	router := mux.NewRouter()
	transfers.New(db).Mount(router, "/logs/transfer")
	return httptest.NewServer(router)
}

func httpPost(t *testing.T, url string, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	r, err := io.ReadAll(res.Body)
	res.Body.Close()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode, string(r))
	return r
}
