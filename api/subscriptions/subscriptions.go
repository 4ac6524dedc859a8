// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/meterio/prize-auction/api/utils"
	"github.com/meterio/prize-auction/logdb"
	"github.com/meterio/prize-auction/meter"
	"github.com/meterio/prize-auction/script"
	"github.com/pkg/errors"
)

var log = slog.Default().With("pkg", "subscriptions")

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10

	// Receipts a subscriber may lag behind before it is dropped.
	maxPending = 256
)

var errTooSlow = errors.New("subscriber too slow")

type Subscriptions struct {
	se             *script.ScriptEngine
	logDB          *logdb.LogDB
	backtraceLimit uint64
	upgrader       *websocket.Upgrader
	done           chan struct{}
	wg             sync.WaitGroup
	mu             sync.Mutex
	closed         bool
}

func New(se *script.ScriptEngine, logDB *logdb.LogDB, allowedOrigins []string, backtraceLimit uint64) *Subscriptions {
	return &Subscriptions{
		se:             se,
		logDB:          logDB,
		backtraceLimit: backtraceLimit,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				origin = strings.ToLower(origin)
				for _, allowed := range allowedOrigins {
					if allowed == "*" || allowed == origin {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

func parseAddress(req *http.Request, key string) (*meter.Address, error) {
	s := req.URL.Query().Get(key)
	if s == "" {
		return nil, nil
	}
	addr, err := meter.ParseAddress(s)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, key))
	}
	return &addr, nil
}

func parseTopic(req *http.Request, key string) (*meter.Bytes32, error) {
	s := req.URL.Query().Get(key)
	if s == "" {
		return nil, nil
	}
	topic, err := meter.ParseBytes32(s)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, key))
	}
	return &topic, nil
}

func parseEventFilter(req *http.Request) (*EventFilter, error) {
	var (
		filter EventFilter
		err    error
	)
	if filter.Address, err = parseAddress(req, "addr"); err != nil {
		return nil, err
	}
	topics := []**meter.Bytes32{&filter.Topic0, &filter.Topic1, &filter.Topic2, &filter.Topic3, &filter.Topic4}
	for i, topic := range topics {
		if *topic, err = parseTopic(req, "t"+strconv.Itoa(i)); err != nil {
			return nil, err
		}
	}
	return &filter, nil
}

func parseTransferFilter(req *http.Request) (*TransferFilter, error) {
	var (
		filter TransferFilter
		err    error
	)
	if filter.TxOrigin, err = parseAddress(req, "txorigin"); err != nil {
		return nil, err
	}
	if filter.Sender, err = parseAddress(req, "sender"); err != nil {
		return nil, err
	}
	if filter.Recipient, err = parseAddress(req, "recipient"); err != nil {
		return nil, err
	}
	return &filter, nil
}

// parsePosition returns the seq after which messages are delivered, the current head by default.
func (s *Subscriptions) parsePosition(req *http.Request) (uint64, error) {
	head := s.se.Seq()
	posStr := req.URL.Query().Get("pos")
	if posStr == "" {
		return head, nil
	}
	pos, err := strconv.ParseUint(posStr, 10, 64)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, "pos"))
	}
	if pos > head {
		return 0, utils.BadRequest(errors.New("pos: out of range"))
	}
	if head-pos > s.backtraceLimit {
		return 0, utils.Forbidden(errors.New("pos: backtrace limit exceeded"))
	}
	return pos, nil
}

// enter registers a handler unless Close has begun.
func (s *Subscriptions) enter() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.wg.Add(1)
	return true
}

func (s *Subscriptions) handleSubject(w http.ResponseWriter, req *http.Request) error {
	if !s.enter() {
		return utils.HTTPError(errors.New("subscriptions closed"), http.StatusServiceUnavailable)
	}
	defer s.wg.Done()

	pos, err := s.parsePosition(req)
	if err != nil {
		return err
	}
	var reader msgReader
	switch mux.Vars(req)["subject"] {
	case "event":
		filter, err := parseEventFilter(req)
		if err != nil {
			return err
		}
		reader = newEventReader(s.logDB, pos, filter)
	case "transfer":
		filter, err := parseTransferFilter(req)
		if err != nil {
			return err
		}
		reader = newTransferReader(s.logDB, pos, filter)
	default:
		return utils.HTTPError(errors.New("not found"), http.StatusNotFound)
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader already replied
		log.Debug("upgrade failed", "err", err)
		return nil
	}
	defer conn.Close()

	if err := s.pipe(req.Context(), conn, reader); err != nil {
		log.Debug("subscription closed", "remote", conn.RemoteAddr(), "err", err)
		msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
		conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	}
	return nil
}

func (s *Subscriptions) pipe(ctx context.Context, conn *websocket.Conn, reader msgReader) error {
	// the engine waits on every subscriber, so receipts are always taken
	// from it and queued here; a full queue drops the subscriber
	incoming := make(chan *script.Receipt)
	receipts := make(chan *script.Receipt, maxPending)
	overflow := make(chan struct{})
	stop := make(chan struct{})
	defer close(stop)
	sub := s.se.SubscribeReceipts(incoming)
	defer sub.Unsubscribe()
	go func() {
		dropped := false
		for {
			select {
			case r := <-incoming:
				if dropped {
					continue
				}
				select {
				case receipts <- r:
				default:
					dropped = true
					close(overflow)
				}
			case <-stop:
				return
			}
		}
	}()

	closed := make(chan struct{})
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	write := func(msgs []interface{}) error {
		for _, msg := range msgs {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				return err
			}
		}
		return nil
	}

	head := s.se.Seq()
	for {
		msgs, more, err := reader.Read(ctx, head)
		if err != nil {
			return err
		}
		if err := write(msgs); err != nil {
			return err
		}
		if !more {
			break
		}
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case r := <-receipts:
			if err := write(reader.Match(r)); err != nil {
				return err
			}
		case err := <-sub.Err():
			return err
		case <-overflow:
			return errTooSlow
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		case <-closed:
			return nil
		case <-s.done:
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "")
			conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			return nil
		}
	}
}

// Close ends all subscriptions and waits for their handlers to return.
func (s *Subscriptions) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.done)
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{subject}").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(s.handleSubject))
}
