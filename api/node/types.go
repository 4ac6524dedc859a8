// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

// Info describes the running node.
type Info struct {
	ID      string `json:"id"`
	Version string `json:"version"`
}

type Status struct {
	Info
	ChainTag uint8  `json:"chainTag"`
	Seq      uint64 `json:"seq"`
}
