// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/meterio/prize-auction/api/transactions"
	"github.com/meterio/prize-auction/logdb"
	"github.com/meterio/prize-auction/meter"
	"github.com/meterio/prize-auction/script/auction"
)

type TopicSet struct {
	Topic0 *meter.Bytes32 `json:"topic0"`
	Topic1 *meter.Bytes32 `json:"topic1"`
	Topic2 *meter.Bytes32 `json:"topic2"`
	Topic3 *meter.Bytes32 `json:"topic3"`
	Topic4 *meter.Bytes32 `json:"topic4"`
}

// FilteredEvent only comes from one module
type FilteredEvent struct {
	Address meter.Address        `json:"address"`
	Name    string               `json:"name,omitempty"`
	Topics  []*meter.Bytes32     `json:"topics"`
	Data    string               `json:"data"`
	Meta    transactions.LogMeta `json:"meta"`
}

//convert a logdb.Event into a json format Event
func convertEvent(event *logdb.Event) *FilteredEvent {
	fe := FilteredEvent{
		Address: event.Address,
		Data:    hexutil.Encode(event.Data),
		Meta: transactions.LogMeta{
			Seq:      event.Seq,
			Time:     event.Time,
			TxID:     event.TxID,
			TxOrigin: event.TxOrigin,
		},
	}
	if event.Topics[0] != nil {
		fe.Name = auction.EventName(*event.Topics[0])
	}
	fe.Topics = make([]*meter.Bytes32, 0)
	for i := 0; i < 5; i++ {
		if event.Topics[i] != nil {
			fe.Topics = append(fe.Topics, event.Topics[i])
		}
	}
	return &fe
}

func (e *FilteredEvent) String() string {
	return fmt.Sprintf(`
		Event(
			address: 	   %v,
			name:          %v,
			topics:        %v,
			data:          %v,
			meta: (seq     %v,
				time       %v),
				txID     %v,
				txOrigin %v)
			)`,
		e.Address,
		e.Name,
		e.Topics,
		e.Data,
		e.Meta.Seq,
		e.Meta.Time,
		e.Meta.TxID,
		e.Meta.TxOrigin,
	)
}

// EventCriteria matches events of one module. Event and PrizeID are shorthands
// for Topic0 and Topic1.
type EventCriteria struct {
	Address *meter.Address `json:"address"`
	Event   string         `json:"event"`
	PrizeID *uint64        `json:"prizeID"`
	TopicSet
}

type EventFilter struct {
	TxID        *meter.Bytes32   `json:"txID"`
	CriteriaSet []*EventCriteria `json:"criteriaSet"`
	Range       *logdb.Range     `json:"range"`
	Options     *logdb.Options   `json:"options"`
	Order       logdb.Order      `json:"order"`
}

func (c *EventCriteria) topics() ([5]*meter.Bytes32, error) {
	topics := [5]*meter.Bytes32{c.Topic0, c.Topic1, c.Topic2, c.Topic3, c.Topic4}
	if c.Event != "" {
		sig, ok := auction.EventSignature(c.Event)
		if !ok {
			return topics, fmt.Errorf("unknown event %q", c.Event)
		}
		if c.Topic0 != nil && *c.Topic0 != sig {
			return topics, fmt.Errorf("event %q conflicts with topic0", c.Event)
		}
		topics[0] = &sig
	}
	if c.PrizeID != nil {
		t := auction.PrizeTopic(*c.PrizeID)
		if c.Topic1 != nil && *c.Topic1 != t {
			return topics, fmt.Errorf("prizeID %v conflicts with topic1", *c.PrizeID)
		}
		topics[1] = &t
	}
	return topics, nil
}

func convertEventFilter(filter *EventFilter) (*logdb.EventFilter, error) {
	options, err := limitOptions(filter.Options)
	if err != nil {
		return nil, err
	}
	f := &logdb.EventFilter{
		TxID:    filter.TxID,
		Range:   filter.Range,
		Options: options,
		Order:   filter.Order,
	}
	for i, c := range filter.CriteriaSet {
		if c == nil {
			continue
		}
		topics, err := c.topics()
		if err != nil {
			return nil, fmt.Errorf("criteriaSet[%d]: %v", i, err)
		}
		f.CriteriaSet = append(f.CriteriaSet, &logdb.EventCriteria{
			Address: c.Address,
			Topics:  topics,
		})
	}
	return f, nil
}

// limitOptions bounds the page size of a query.
func limitOptions(opts *logdb.Options) (*logdb.Options, error) {
	if opts == nil {
		return &logdb.Options{Limit: MaxLimit}, nil
	}
	if opts.Limit > MaxLimit {
		return nil, fmt.Errorf("options.limit exceeds %v", MaxLimit)
	}
	return opts, nil
}
