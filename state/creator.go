// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/meterio/prize-auction/kv"
)

const defaultCacheSize = 4096

// Creator state creator to cut-off kv dependency.
// States created by the same Creator share one read cache.
type Creator struct {
	kv    kv.GetPutter
	cache *valueCache
}

// NewCreator create a new state creator.
func NewCreator(kv kv.GetPutter) *Creator {
	return &Creator{kv: kv, cache: newValueCache(defaultCacheSize)}
}

// NewState create a new state object.
func (c *Creator) NewState() *State {
	return newState(c.kv, c.cache)
}
