// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/meterio/prize-auction/api/accounts"
	"github.com/meterio/prize-auction/api/assets"
	"github.com/meterio/prize-auction/api/auction"
	"github.com/meterio/prize-auction/api/events"
	"github.com/meterio/prize-auction/api/node"
	"github.com/meterio/prize-auction/api/subscriptions"
	"github.com/meterio/prize-auction/api/transactions"
	"github.com/meterio/prize-auction/api/transfers"
	"github.com/meterio/prize-auction/logdb"
	"github.com/meterio/prize-auction/script"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Options struct {
	AllowedOrigins string
	BacktraceLimit uint64
	Metrics        bool
}

// New return api router
func New(se *script.ScriptEngine, logDB *logdb.LogDB, info node.Info, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	accounts.New(se).
		Mount(router, "/accounts")
	auction.New(se).
		Mount(router, "/auction")
	assets.New(se).
		Mount(router, "/assets")
	transactions.New(se, logDB).
		Mount(router, "/transactions")
	events.New(logDB).
		Mount(router, "/logs/event")
	transfers.New(logDB).
		Mount(router, "/logs/transfer")
	node.New(se, info).
		Mount(router, "/node")
	subs := subscriptions.New(se, logDB, origins, opts.BacktraceLimit)
	subs.Mount(router, "/subscriptions")
	if opts.Metrics {
		router.Path("/metrics").Methods("GET").Handler(promhttp.Handler())
	}

	return handlers.CORS(
			handlers.AllowedOrigins(origins),
			handlers.AllowedHeaders([]string{"content-type"}))(router).ServeHTTP,
		subs.Close // subscriptions handles hijacked conns, which need to be closed
}
