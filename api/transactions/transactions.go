// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/meterio/prize-auction/api/utils"
	"github.com/meterio/prize-auction/logdb"
	"github.com/meterio/prize-auction/meter"
	"github.com/meterio/prize-auction/script"
	"github.com/meterio/prize-auction/script/auction"
	"github.com/meterio/prize-auction/tx"
	"github.com/pkg/errors"
)

type Transactions struct {
	se    *script.ScriptEngine
	logDB *logdb.LogDB
}

func New(se *script.ScriptEngine, logDB *logdb.LogDB) *Transactions {
	return &Transactions{
		se,
		logDB,
	}
}

// classify maps an execution error to its http status.
func classify(err error) error {
	switch {
	case errors.Is(err, auction.ErrUnauthorized):
		return utils.Forbidden(err)
	case auction.IsRejection(err), script.IsBadScript(err):
		return utils.BadRequest(err)
	default:
		return err
	}
}

func (t *Transactions) handleSendTransaction(w http.ResponseWriter, req *http.Request) error {
	data, err := io.ReadAll(req.Body)
	if err != nil {
		return err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if m == nil {
		return utils.BadRequest(errors.New("body: empty body"))
	}
	reader := bytes.NewReader(data)
	if _, ok := m["raw"]; ok {
		var rawTx *RawTx
		if err := utils.ParseJSON(reader, &rawTx); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "body"))
		}
		trx, err := rawTx.decode()
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "raw"))
		}
		receipt, err := t.se.ExecuteTx(trx)
		if err != nil {
			return classify(err)
		}
		return utils.WriteJSON(w, ConvertReceipt(receipt, auction.EventName))
	}

	var ustx *UnSignedTx
	if err := utils.ParseJSON(reader, &ustx); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	trx, err := ustx.decode()
	if err != nil {
		return utils.BadRequest(err)
	}
	return utils.WriteJSON(w, map[string]string{
		"signingHash": trx.SigningHash().String(),
	})
}

// handleSimulate dry-runs a signed tx without committing it.
func (t *Transactions) handleSimulate(w http.ResponseWriter, req *http.Request) error {
	var rawTx *RawTx
	if err := utils.ParseJSON(req.Body, &rawTx); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if rawTx == nil {
		return utils.BadRequest(errors.New("body: empty body"))
	}
	trx, err := rawTx.decode()
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "raw"))
	}
	receipt, err := t.se.SimulateTx(trx)
	if err != nil {
		return classify(err)
	}
	return utils.WriteJSON(w, ConvertReceipt(receipt, auction.EventName))
}

func (t *Transactions) handleGetTransactionReceiptByID(w http.ResponseWriter, req *http.Request) error {
	txID, err := meter.ParseBytes32(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	seq := t.se.TxSeq(txID)
	if seq == 0 {
		return utils.WriteJSON(w, nil)
	}
	receipt := &Receipt{
		Meta:      LogMeta{Seq: seq, TxID: txID},
		Events:    []*Event{},
		Transfers: []*Transfer{},
	}
	if t.logDB != nil {
		events, err := t.logDB.FilterEvents(req.Context(), &logdb.EventFilter{TxID: &txID})
		if err != nil {
			return err
		}
		for _, ev := range events {
			receipt.Meta.Time, receipt.Meta.TxOrigin = ev.Time, ev.TxOrigin
			topics := make([]meter.Bytes32, 0, len(ev.Topics))
			for _, topic := range ev.Topics {
				if topic != nil {
					topics = append(topics, *topic)
				}
			}
			var name string
			if len(topics) > 0 {
				name = auction.EventName(topics[0])
			}
			receipt.Events = append(receipt.Events, convertEvent(&tx.Event{Address: ev.Address, Topics: topics, Data: ev.Data}, name))
		}
		transfers, err := t.logDB.FilterTransfers(req.Context(), &logdb.TransferFilter{TxID: &txID})
		if err != nil {
			return err
		}
		for _, tr := range transfers {
			receipt.Transfers = append(receipt.Transfers, convertTransfer(&tx.Transfer{
				Sender:    tr.Sender,
				Recipient: tr.Recipient,
				Amount:    tr.Amount,
				Token:     byte(tr.Token),
			}))
		}
	}
	return utils.WriteJSON(w, receipt)
}

func (t *Transactions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods("POST").HandlerFunc(utils.WrapHandlerFunc(t.handleSendTransaction))
	sub.Path("/simulate").Methods("POST").HandlerFunc(utils.WrapHandlerFunc(t.handleSimulate))
	sub.Path("/{id}/receipt").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(t.handleGetTransactionReceiptByID))
}
