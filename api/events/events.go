// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/meterio/prize-auction/api/utils"
	"github.com/meterio/prize-auction/logdb"
	"github.com/meterio/prize-auction/meter"
	"github.com/pkg/errors"
)

// MaxLimit is the largest page a single query may return.
const MaxLimit = 1000

const slowQuery = time.Second

var log = slog.Default().With("pkg", "events")

type Events struct {
	db *logdb.LogDB
}

func New(db *logdb.LogDB) *Events {
	return &Events{db}
}

func (e *Events) query(w http.ResponseWriter, req *http.Request, filter *EventFilter) error {
	start := time.Now()
	f, err := convertEventFilter(filter)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	events, err := e.db.FilterEvents(req.Context(), f)
	if err != nil {
		return err
	}
	fes := make([]*FilteredEvent, len(events))
	for i, ev := range events {
		fes[i] = convertEvent(ev)
	}
	if elapsed := time.Since(start); elapsed > slowQuery {
		q, _ := json.Marshal(filter)
		log.Info("slow event query", "query", string(q), "hits", len(fes), "elapsed", meter.PrettyDuration(elapsed))
	}
	return utils.WriteJSON(w, fes)
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var filter EventFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return e.query(w, req, &filter)
}

// handlePrizeHistory lists every event of one prize in execution order.
func (e *Events) handlePrizeHistory(w http.ResponseWriter, req *http.Request) error {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 64)
	if err != nil || id == 0 {
		return utils.BadRequest(errors.New("id: invalid prize id"))
	}
	addr := meter.AuctionModuleAddr
	return e.query(w, req, &EventFilter{
		CriteriaSet: []*EventCriteria{{Address: &addr, PrizeID: &id}},
		Order:       logdb.ASC,
	})
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods("POST").HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
	sub.Path("/prizes/{id}").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(e.handlePrizeHistory))
}
