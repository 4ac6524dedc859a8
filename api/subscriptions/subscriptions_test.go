// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions_test

import (
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/meterio/prize-auction/api/subscriptions"
	"github.com/meterio/prize-auction/logdb"
	"github.com/meterio/prize-auction/lvldb"
	"github.com/meterio/prize-auction/meter"
	"github.com/meterio/prize-auction/script"
	"github.com/meterio/prize-auction/script/auction"
	"github.com/meterio/prize-auction/state"
	"github.com/meterio/prize-auction/xenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	operator = meter.BytesToAddress([]byte("operator"))
	bidder   = meter.BytesToAddress([]byte("bidder"))
)

type env struct {
	se   *script.ScriptEngine
	subs *subscriptions.Subscriptions
	ts   *httptest.Server
}

func newEnv(t *testing.T) *env {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	ldb, err := logdb.NewMem()
	require.NoError(t, err)
	se := script.NewScriptEngine(state.NewCreator(db), ldb, auction.NewOperatorGuard(operator), script.Options{})
	require.NoError(t, se.ApplyGenesis(map[meter.Address]*big.Int{bidder: big.NewInt(1e18)}))

	subs := subscriptions.New(se, ldb, []string{"*"}, 10)
	router := mux.NewRouter()
	subs.Mount(router, "/subscriptions")
	e := &env{se, subs, httptest.NewServer(router)}
	t.Cleanup(func() {
		ldb.Close()
		db.Close()
	})
	return e
}

func (e *env) close() {
	e.ts.Close()
	e.subs.Close()
	e.se.Close()
}

func (e *env) exec(t *testing.T, origin meter.Address, value *big.Int, body *auction.AuctionBody) {
	data, err := script.EncodeScriptData(body)
	require.NoError(t, err)
	_, err = e.se.Execute(xenv.NewTransactionContext(meter.Bytes32{}, origin, value, 0, uint64(time.Now().Unix())), data)
	require.NoError(t, err)
}

func (e *env) dial(t *testing.T, path string) *websocket.Conn {
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(e.ts.URL, "http")+path, nil)
	require.NoError(t, err)
	return conn
}

func TestEventSubscription(t *testing.T) {
	defer leaktest.Check(t)()
	e := newEnv(t)
	defer e.close()

	e.exec(t, operator, nil, &auction.AuctionBody{Opcode: meter.OP_CREATE, Name: "Prize", StartingPrice: big.NewInt(10)})
	e.exec(t, bidder, big.NewInt(20), &auction.AuctionBody{Opcode: meter.OP_BID, PrizeID: 1, Amount: big.NewInt(20)})

	conn := e.dial(t, "/subscriptions/event?pos=0&t0="+auction.BidPlacedEvent.String())
	defer conn.Close()

	// backlog
	var msg subscriptions.EventMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "BidPlaced", msg.Name)
	assert.Equal(t, uint64(2), msg.Meta.Seq)
	assert.Equal(t, bidder, msg.Meta.TxOrigin)

	// live
	e.exec(t, bidder, big.NewInt(30), &auction.AuctionBody{Opcode: meter.OP_BID, PrizeID: 1, Amount: big.NewInt(30)})
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, uint64(3), msg.Meta.Seq)
}

func TestTransferSubscription(t *testing.T) {
	defer leaktest.Check(t)()
	e := newEnv(t)
	defer e.close()

	e.exec(t, operator, nil, &auction.AuctionBody{Opcode: meter.OP_CREATE, Name: "Prize", StartingPrice: big.NewInt(10)})
	conn := e.dial(t, "/subscriptions/transfer?pos=0&sender="+bidder.String())
	defer conn.Close()

	e.exec(t, bidder, big.NewInt(20), &auction.AuctionBody{Opcode: meter.OP_BID, PrizeID: 1, Amount: big.NewInt(20)})
	var msg subscriptions.TransferMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, meter.AuctionModuleAddr, msg.Recipient)
	assert.Equal(t, uint32(meter.NativeToken), msg.Token)
	assert.Equal(t, 0, big.NewInt(20).Cmp((*big.Int)(msg.Amount)))
}

func TestIdleSubscriberDoesNotStallLedger(t *testing.T) {
	defer leaktest.Check(t)()
	e := newEnv(t)
	defer e.close()

	// subscribed to everything, never reading
	conn := e.dial(t, "/subscriptions/event")
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 1; i <= 300; i++ {
			data, _ := script.EncodeScriptData(&auction.AuctionBody{Opcode: meter.OP_CREATE, Name: "Prize", StartingPrice: big.NewInt(10)})
			if _, err := e.se.Execute(xenv.NewTransactionContext(meter.Bytes32{}, operator, nil, 0, 0), data); err != nil {
				return
			}
			data, _ = script.EncodeScriptData(&auction.AuctionBody{Opcode: meter.OP_CANCEL, PrizeID: uint64(i)})
			if _, err := e.se.Execute(xenv.NewTransactionContext(meter.Bytes32{}, operator, nil, 0, 0), data); err != nil {
				return
			}
		}
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("executions stalled behind an idle subscriber")
	}
	assert.Equal(t, uint64(600), e.se.Seq())
}

func TestBadSubscriptions(t *testing.T) {
	defer leaktest.Check(t)()
	e := newEnv(t)
	defer e.close()

	for i := 0; i < 12; i++ {
		e.exec(t, operator, nil, &auction.AuctionBody{Opcode: meter.OP_CREATE, Name: "Prize", StartingPrice: big.NewInt(10)})
		e.exec(t, operator, nil, &auction.AuctionBody{Opcode: meter.OP_CANCEL, PrizeID: uint64(i + 1)})
	}

	tests := []struct {
		path   string
		status int
	}{
		{"/subscriptions/block", http.StatusNotFound},
		{"/subscriptions/event?pos=x", http.StatusBadRequest},
		{"/subscriptions/event?pos=1000", http.StatusBadRequest},
		{"/subscriptions/event?pos=0", http.StatusForbidden},
		{"/subscriptions/event?addr=0x12", http.StatusBadRequest},
		{"/subscriptions/transfer?recipient=zz", http.StatusBadRequest},
	}
	for _, tt := range tests {
		_, res, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(e.ts.URL, "http")+tt.path, nil)
		assert.Error(t, err, tt.path)
		require.NotNil(t, res, tt.path)
		assert.Equal(t, tt.status, res.StatusCode, tt.path)
		res.Body.Close()
	}
}

func TestCloseEndsSubscriptions(t *testing.T) {
	defer leaktest.Check(t)()
	e := newEnv(t)

	conn := e.dial(t, "/subscriptions/event")
	defer conn.Close()

	e.subs.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "%v", err)

	// late arrivals are turned away instead of racing the shutdown
	_, res, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(e.ts.URL, "http")+"/subscriptions/event", nil)
	assert.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	res.Body.Close()
	e.subs.Close()

	e.ts.Close()
	e.se.Close()
}
