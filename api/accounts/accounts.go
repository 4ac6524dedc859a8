// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/meterio/prize-auction/api/utils"
	"github.com/meterio/prize-auction/meter"
	"github.com/meterio/prize-auction/script"
	"github.com/meterio/prize-auction/state"
	"github.com/pkg/errors"
)

type Accounts struct {
	se *script.ScriptEngine
}

func New(se *script.ScriptEngine) *Accounts {
	return &Accounts{
		se,
	}
}

func (a *Accounts) getAccount(addr meter.Address) (*Account, error) {
	var (
		acc Account
		err error
	)
	a.se.View(func(st *state.State) {
		b := st.GetBalance(addr)
		assets := a.se.Registry().BalanceOf(st, addr)
		if err = st.Err(); err != nil {
			return
		}
		acc = Account{
			Balance: math.HexOrDecimal256(*b),
			Assets:  assets,
		}
	})
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := meter.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	acc, err := a.getAccount(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, acc)
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
}
