// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/meterio/prize-auction/api/utils"
	"github.com/meterio/prize-auction/script"
)

type Node struct {
	se   *script.ScriptEngine
	info Info
}

func New(se *script.ScriptEngine, info Info) *Node {
	return &Node{
		se,
		info,
	}
}

func (n *Node) handleStatus(w http.ResponseWriter, req *http.Request) error {
	return utils.WriteJSON(w, &Status{
		Info:     n.info,
		ChainTag: n.se.ChainTag(),
		Seq:      n.se.Seq(),
	})
}

func (n *Node) handleModules(w http.ResponseWriter, req *http.Request) error {
	mods := n.se.Modules()
	names := make(map[uint32]string, len(mods))
	for _, m := range mods {
		names[m.ID()] = m.Name()
	}
	return utils.WriteJSON(w, names)
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/status").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(n.handleStatus))
	sub.Path("/modules").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(n.handleModules))
}
