// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	lru "github.com/hashicorp/golang-lru"
)

// valueCache caches committed values by raw key. Empty values mark deleted keys.
type valueCache struct {
	cache *lru.Cache
}

func newValueCache(size int) *valueCache {
	cache, _ := lru.New(size)
	return &valueCache{cache}
}

func (vc *valueCache) get(key []byte) ([]byte, bool) {
	v, ok := vc.cache.Get(string(key))
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

func (vc *valueCache) add(key, value []byte) {
	vc.cache.Add(string(key), append([]byte(nil), value...))
}
