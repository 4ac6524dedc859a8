// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api_test

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/prize-auction/api"
	"github.com/meterio/prize-auction/api/accounts"
	apiauction "github.com/meterio/prize-auction/api/auction"
	"github.com/meterio/prize-auction/api/node"
	"github.com/meterio/prize-auction/api/transactions"
	"github.com/meterio/prize-auction/logdb"
	"github.com/meterio/prize-auction/lvldb"
	"github.com/meterio/prize-auction/meter"
	"github.com/meterio/prize-auction/script"
	"github.com/meterio/prize-auction/script/auction"
	"github.com/meterio/prize-auction/state"
	"github.com/meterio/prize-auction/tx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chainTag = 0x27

type fixture struct {
	ts       *httptest.Server
	opKey    *ecdsa.PrivateKey
	bidKey   *ecdsa.PrivateKey
	operator meter.Address
	bidder   meter.Address
	nonce    uint64
}

func newFixture(t *testing.T) *fixture {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	ldb, err := logdb.NewMem()
	require.NoError(t, err)

	opKey, _ := crypto.GenerateKey()
	bidKey, _ := crypto.GenerateKey()
	f := &fixture{
		opKey:    opKey,
		bidKey:   bidKey,
		operator: meter.Address(crypto.PubkeyToAddress(opKey.PublicKey)),
		bidder:   meter.Address(crypto.PubkeyToAddress(bidKey.PublicKey)),
	}
	se := script.NewScriptEngine(state.NewCreator(db), ldb, auction.NewOperatorGuard(f.operator), script.Options{ChainTag: chainTag})
	require.NoError(t, se.ApplyGenesis(map[meter.Address]*big.Int{f.bidder: big.NewInt(1e18)}))

	handler, closeAPI := api.New(se, ldb, node.Info{ID: "test-node", Version: "test"}, api.Options{AllowedOrigins: "*", BacktraceLimit: 100, Metrics: true})
	f.ts = httptest.NewServer(handler)
	t.Cleanup(func() {
		f.ts.Close()
		closeAPI()
		se.Close()
		ldb.Close()
		db.Close()
	})
	return f
}

func (f *fixture) rawTx(t *testing.T, key *ecdsa.PrivateKey, value *big.Int, body *auction.AuctionBody) string {
	data, err := script.EncodeScriptData(body)
	require.NoError(t, err)
	f.nonce++
	trx, err := new(tx.Builder).ChainTag(chainTag).Nonce(f.nonce).Value(value).Data(data).Build().Sign(key)
	require.NoError(t, err)
	raw, err := rlp.EncodeToBytes(trx)
	require.NoError(t, err)
	return hexutil.Encode(raw)
}

func (f *fixture) send(t *testing.T, key *ecdsa.PrivateKey, value *big.Int, body *auction.AuctionBody, status int) []byte {
	return httpPost(t, f.ts.URL+"/transactions", &transactions.RawTx{Raw: f.rawTx(t, key, value, body)}, status)
}

func TestAuctionOverHTTP(t *testing.T) {
	f := newFixture(t)

	var receipt transactions.Receipt
	res := f.send(t, f.opKey, nil, &auction.AuctionBody{Opcode: meter.OP_CREATE, Name: "Prize", StartingPrice: big.NewInt(100)}, http.StatusOK)
	require.NoError(t, json.Unmarshal(res, &receipt))
	assert.Equal(t, "0x0000000000000001", receipt.Output)
	require.NotNil(t, receipt.UniteHash)
	assert.False(t, receipt.UniteHash.IsZero())
	require.Len(t, receipt.Events, 1)
	assert.Equal(t, "PrizeCreated", receipt.Events[0].Name)

	// rejections
	f.send(t, f.bidKey, nil, &auction.AuctionBody{Opcode: meter.OP_CREATE, Name: "Other", StartingPrice: big.NewInt(1)}, http.StatusForbidden)
	res = f.send(t, f.bidKey, big.NewInt(50), &auction.AuctionBody{Opcode: meter.OP_BID, PrizeID: 1, Amount: big.NewInt(50)}, http.StatusBadRequest)
	assert.Contains(t, string(res), auction.ErrBidTooLow.Error())

	f.send(t, f.bidKey, big.NewInt(500), &auction.AuctionBody{Opcode: meter.OP_BID, PrizeID: 1, Amount: big.NewInt(500)}, http.StatusOK)

	var prize apiauction.Prize
	require.NoError(t, json.Unmarshal(httpGet(t, f.ts.URL+"/auction/prizes/1", http.StatusOK), &prize))
	assert.Equal(t, "Prize", prize.Name)
	assert.Equal(t, f.bidder, prize.HighestBidder)
	assert.Equal(t, "bidding", prize.Status)
	assert.Equal(t, 0, big.NewInt(500).Cmp((*big.Int)(prize.HighestBid)))

	var field map[string]bool
	require.NoError(t, json.Unmarshal(httpGet(t, f.ts.URL+"/auction/prizes/1/sold", http.StatusOK), &field))
	assert.False(t, field["sold"])
	httpGet(t, f.ts.URL+"/auction/prizes/1/bogus", http.StatusNotFound)
	httpGet(t, f.ts.URL+"/auction/prizes/x", http.StatusBadRequest)

	var unknown apiauction.Prize
	require.NoError(t, json.Unmarshal(httpGet(t, f.ts.URL+"/auction/prizes/42", http.StatusOK), &unknown))
	assert.Equal(t, "unknown", unknown.Status)
	assert.True(t, unknown.Winner.IsZero())

	f.send(t, f.opKey, nil, &auction.AuctionBody{Opcode: meter.OP_CLOSE, PrizeID: 1}, http.StatusOK)
	f.send(t, f.bidKey, big.NewInt(500), &auction.AuctionBody{Opcode: meter.OP_CLAIM, PrizeID: 1}, http.StatusOK)

	var status apiauction.Status
	require.NoError(t, json.Unmarshal(httpGet(t, f.ts.URL+"/auction/status", http.StatusOK), &status))
	assert.Equal(t, uint64(0), status.OpenPrizeID)
	assert.Equal(t, uint64(1), status.PrizeCount)
	assert.Equal(t, f.operator, status.Operator)
	assert.Equal(t, 0, big.NewInt(1000).Cmp((*big.Int)(status.Balance)))

	var owner map[string]meter.Address
	require.NoError(t, json.Unmarshal(httpGet(t, f.ts.URL+"/assets/1/owner", http.StatusOK), &owner))
	assert.Equal(t, f.bidder, owner["owner"])

	var acc accounts.Account
	require.NoError(t, json.Unmarshal(httpGet(t, f.ts.URL+"/accounts/"+f.bidder.String(), http.StatusOK), &acc))
	assert.Equal(t, uint64(1), acc.Assets)
	assert.Equal(t, 0, big.NewInt(1e18-1000).Cmp((*big.Int)(&acc.Balance)))
	httpGet(t, f.ts.URL+"/accounts/0x01", http.StatusBadRequest)

	var st node.Status
	require.NoError(t, json.Unmarshal(httpGet(t, f.ts.URL+"/node/status", http.StatusOK), &st))
	assert.Equal(t, uint64(4), st.Seq)
	assert.Equal(t, uint8(chainTag), st.ChainTag)
	assert.Equal(t, "test-node", st.ID)

	assert.Contains(t, string(httpGet(t, f.ts.URL+"/metrics", http.StatusOK)), "auction_ops_total")
}

func TestTransactionErrors(t *testing.T) {
	f := newFixture(t)

	httpPost(t, f.ts.URL+"/transactions", &transactions.RawTx{Raw: "0xzz"}, http.StatusBadRequest)
	httpPost(t, f.ts.URL+"/transactions", &transactions.RawTx{Raw: "0x0102"}, http.StatusBadRequest)

	raw := f.rawTx(t, f.opKey, nil, &auction.AuctionBody{Opcode: meter.OP_CREATE, Name: "Prize", StartingPrice: big.NewInt(100)})
	httpPost(t, f.ts.URL+"/transactions", &transactions.RawTx{Raw: raw}, http.StatusOK)
	res := httpPost(t, f.ts.URL+"/transactions", &transactions.RawTx{Raw: raw}, http.StatusBadRequest)
	assert.Contains(t, string(res), script.ErrKnownTx.Error())

	trx, err := new(tx.Builder).ChainTag(chainTag).Data([]byte("not a script")).Build().Sign(f.opKey)
	require.NoError(t, err)
	data, _ := rlp.EncodeToBytes(trx)
	httpPost(t, f.ts.URL+"/transactions", &transactions.RawTx{Raw: hexutil.Encode(data)}, http.StatusBadRequest)

	// unsigned bodies get their signing hash back
	var m map[string]string
	res = httpPost(t, f.ts.URL+"/transactions", &transactions.UnSignedTx{ChainTag: chainTag, Data: "0x01"}, http.StatusOK)
	require.NoError(t, json.Unmarshal(res, &m))
	expected := new(tx.Builder).ChainTag(chainTag).Data([]byte{1}).Build().SigningHash()
	assert.Equal(t, expected.String(), m["signingHash"])
}

func TestSimulateAndReceipt(t *testing.T) {
	f := newFixture(t)

	body := &auction.AuctionBody{Opcode: meter.OP_CREATE, Name: "Prize", StartingPrice: big.NewInt(100)}
	var receipt transactions.Receipt
	res := httpPost(t, f.ts.URL+"/transactions/simulate", &transactions.RawTx{Raw: f.rawTx(t, f.opKey, nil, body)}, http.StatusOK)
	require.NoError(t, json.Unmarshal(res, &receipt))
	assert.Equal(t, uint64(1), receipt.Meta.Seq)

	var status apiauction.Status
	require.NoError(t, json.Unmarshal(httpGet(t, f.ts.URL+"/auction/status", http.StatusOK), &status))
	assert.Equal(t, uint64(0), status.PrizeCount)

	raw := f.rawTx(t, f.opKey, nil, body)
	res = httpPost(t, f.ts.URL+"/transactions", &transactions.RawTx{Raw: raw}, http.StatusOK)
	require.NoError(t, json.Unmarshal(res, &receipt))

	var stored transactions.Receipt
	require.NoError(t, json.Unmarshal(httpGet(t, f.ts.URL+"/transactions/"+receipt.Meta.TxID.String()+"/receipt", http.StatusOK), &stored))
	assert.Equal(t, receipt.Meta.Seq, stored.Meta.Seq)
	assert.Equal(t, f.operator, stored.Meta.TxOrigin)
	require.Len(t, stored.Events, 1)
	assert.Equal(t, "PrizeCreated", stored.Events[0].Name)
	assert.Len(t, stored.Transfers, 1)

	assert.Equal(t, "null", strings.TrimSpace(string(httpGet(t, f.ts.URL+"/transactions/"+meter.Bytes32{1}.String()+"/receipt", http.StatusOK))))
}

func TestCORS(t *testing.T) {
	f := newFixture(t)
	req, _ := http.NewRequest("GET", f.ts.URL+"/auction/status", nil)
	req.Header.Set("Origin", "http://example.org")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.NotEmpty(t, res.Header.Get("Access-Control-Allow-Origin"))
}

func httpGet(t *testing.T, url string, status int) []byte {
	res, err := http.Get(url)
	require.NoError(t, err)
	r, err := io.ReadAll(res.Body)
	res.Body.Close()
	require.NoError(t, err)
	require.Equal(t, status, res.StatusCode, string(r))
	return r
}

func httpPost(t *testing.T, url string, obj interface{}, status int) []byte {
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	r, err := io.ReadAll(res.Body)
	res.Body.Close()
	require.NoError(t, err)
	require.Equal(t, status, res.StatusCode, string(r))
	return r
}
