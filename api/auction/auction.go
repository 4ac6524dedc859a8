// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/meterio/prize-auction/api/utils"
	"github.com/meterio/prize-auction/script"
	"github.com/meterio/prize-auction/script/auction"
	"github.com/meterio/prize-auction/state"
	"github.com/pkg/errors"
)

type Auction struct {
	se *script.ScriptEngine
}

func New(se *script.ScriptEngine) *Auction {
	return &Auction{se}
}

func (at *Auction) read(fn func(r *auction.Reader)) {
	at.se.View(func(st *state.State) {
		fn(at.se.Auction().Reader(st))
	})
}

func parseID(req *http.Request) (uint64, error) {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 64)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, "id"))
	}
	return id, nil
}

func (at *Auction) handleGetStatus(w http.ResponseWriter, req *http.Request) error {
	var status Status
	at.read(func(r *auction.Reader) {
		balance := math.HexOrDecimal256(*r.Balance())
		status = Status{
			OpenPrizeID: r.OpenPrizeID(),
			PrizeCount:  r.PrizeCount(),
			Balance:     &balance,
			Operator:    r.Operator(),
		}
	})
	return utils.WriteJSON(w, &status)
}

// handleGetPrize returns the zero record for unknown ids, like the read accessors.
func (at *Auction) handleGetPrize(w http.ResponseWriter, req *http.Request) error {
	id, err := parseID(req)
	if err != nil {
		return err
	}
	var prize *Prize
	at.read(func(r *auction.Reader) {
		prize = convertPrize(r.Prize(id))
	})
	return utils.WriteJSON(w, prize)
}

func (at *Auction) handleGetPrizeField(w http.ResponseWriter, req *http.Request) error {
	id, err := parseID(req)
	if err != nil {
		return err
	}
	field := mux.Vars(req)["field"]
	var value interface{}
	at.read(func(r *auction.Reader) {
		switch field {
		case "name":
			value = r.Name(id)
		case "startingPrice":
			v := math.HexOrDecimal256(*r.StartingPrice(id))
			value = &v
		case "highestBid":
			v := math.HexOrDecimal256(*r.HighestBid(id))
			value = &v
		case "highestBidder":
			v := r.HighestBidder(id)
			value = &v
		case "sold":
			value = r.SoldStatus(id)
		case "claimed":
			value = r.ClaimStatus(id)
		case "winner":
			v := r.Winner(id)
			value = &v
		case "canceled":
			value = r.CancelStatus(id)
		}
	})
	if value == nil {
		return utils.NotFound(errors.Errorf("unknown field %q", field))
	}
	return utils.WriteJSON(w, map[string]interface{}{field: value})
}

func (at *Auction) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/status").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(at.handleGetStatus))
	sub.Path("/prizes/{id}").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(at.handleGetPrize))
	sub.Path("/prizes/{id}/{field}").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(at.handleGetPrizeField))
}
