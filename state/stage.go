// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"log/slog"
	"time"

	"github.com/meterio/prize-auction/kv"
	"github.com/meterio/prize-auction/meter"
	"github.com/pkg/errors"
)

var log = slog.Default().With("pkg", "state")

type change struct {
	key   []byte
	value []byte // empty means delete
}

// Stage abstracts changes on the main accounts trie.
type Stage struct {
	kv      kv.GetPutter
	cache   *valueCache
	changes []change
	err     error
}

func newStage(kv kv.GetPutter, cache *valueCache, changes []change, err error) *Stage {
	return &Stage{kv: kv, cache: cache, changes: changes, err: err}
}

// Hash computes the digest of the staged changes.
func (s *Stage) Hash() meter.Bytes32 {
	h := meter.NewBlake2b()
	for _, c := range s.changes {
		h.Write(c.key)
		h.Write(c.value)
	}
	var b32 meter.Bytes32
	h.Sum(b32[:0])
	return b32
}

// Len returns the number of changed keys.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Commit writes all changes in one batch. Either every change lands or none does.
func (s *Stage) Commit() (meter.Bytes32, error) {
	if s.err != nil {
		return meter.Bytes32{}, s.err
	}
	start := time.Now()
	batch := s.kv.NewBatch()
	for _, c := range s.changes {
		var err error
		if len(c.value) == 0 {
			err = batch.Delete(c.key)
		} else {
			err = batch.Put(c.key, c.value)
		}
		if err != nil {
			return meter.Bytes32{}, errors.Wrap(err, "stage batch")
		}
	}
	if err := batch.Write(); err != nil {
		return meter.Bytes32{}, errors.Wrap(err, "stage write")
	}
	if s.cache != nil {
		for _, c := range s.changes {
			s.cache.add(c.key, c.value)
		}
	}
	hash := s.Hash()
	log.Debug("committed stage", "hash", hash, "keys", len(s.changes), "elapsed", meter.PrettyDuration(time.Since(start)))
	return hash, nil
}
