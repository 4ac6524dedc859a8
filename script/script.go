// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package script

import (
	"encoding/binary"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/meterio/prize-auction/logdb"
	"github.com/meterio/prize-auction/meter"
	"github.com/meterio/prize-auction/registry"
	"github.com/meterio/prize-auction/script/auction"
	setypes "github.com/meterio/prize-auction/script/types"
	"github.com/meterio/prize-auction/state"
	"github.com/meterio/prize-auction/tx"
	"github.com/meterio/prize-auction/xenv"
	"github.com/pkg/errors"
)

var log = slog.Default().With("pkg", "se")

var (
	ErrNotScript        = errors.New("not script data")
	ErrUnknownModule    = errors.New("unknown module")
	ErrKnownTx          = errors.New("tx already executed")
	ErrChainTagMismatch = errors.New("chain tag mismatch")
	ErrGenesisApplied   = errors.New("genesis already applied")
	ErrInvalidSignature = errors.New("invalid signature")
)

type Options struct {
	ChainTag byte
}

// Receipt is the outcome of a committed execution.
type Receipt struct {
	Seq       uint64
	TxID      meter.Bytes32
	UniteHash meter.Bytes32 // request identity without timestamp and nonce
	Origin    meter.Address
	Time      uint64
	Output    []byte
	Events    tx.Events
	Transfers tx.Transfers
}

// ScriptEngine executes script data one request at a time.
// Every execution runs on a fresh state and is committed only if the module accepts it.
type ScriptEngine struct {
	mu           sync.RWMutex
	stateCreator *state.Creator
	logDB        *logdb.LogDB
	modReg       Registry
	registry     *registry.Registry
	auction      *auction.Auction
	options      Options
	logger       *slog.Logger

	feed  event.Feed
	scope event.SubscriptionScope

	// receipts are published outside mu, in seq order
	pubMu     sync.Mutex
	pubCond   *sync.Cond
	published uint64
}

// NewScriptEngine creates the engine and starts its modules. logDB may be nil.
func NewScriptEngine(creator *state.Creator, logDB *logdb.LogDB, guard auction.Guard, opts Options) *ScriptEngine {
	se := &ScriptEngine{
		stateCreator: creator,
		logDB:        logDB,
		registry:     registry.New(),
		options:      opts,
		logger:       slog.Default().With("pkg", "se"),
	}

	se.pubCond = sync.NewCond(&se.pubMu)

	// start all sub modules
	se.auction = ModuleAuctionInit(se, guard)
	se.published = se.Seq()
	return se
}

func (se *ScriptEngine) Auction() *auction.Auction    { return se.auction }
func (se *ScriptEngine) Registry() *registry.Registry { return se.registry }
func (se *ScriptEngine) ChainTag() byte               { return se.options.ChainTag }
func (se *ScriptEngine) Modules() []Module            { return se.modReg.All() }

func (se *ScriptEngine) txContext(trx *tx.Transaction) (*xenv.TransactionContext, error) {
	if trx.ChainTag() != se.options.ChainTag {
		return nil, ErrChainTagMismatch
	}
	origin, err := trx.Signer()
	if err != nil {
		if err == tx.ErrUnsigned {
			return nil, err
		}
		return nil, errors.Wrap(ErrInvalidSignature, err.Error())
	}
	return xenv.NewTransactionContext(trx.ID(), origin, trx.Value(), trx.Nonce(), uint64(time.Now().Unix())), nil
}

// ExecuteTx authenticates trx and executes the script data it carries.
func (se *ScriptEngine) ExecuteTx(trx *tx.Transaction) (*Receipt, error) {
	txCtx, err := se.txContext(trx)
	if err != nil {
		return nil, err
	}
	return se.Execute(txCtx, trx.Data())
}

// SimulateTx is ExecuteTx without the commit.
func (se *ScriptEngine) SimulateTx(trx *tx.Transaction) (*Receipt, error) {
	txCtx, err := se.txContext(trx)
	if err != nil {
		return nil, err
	}
	return se.Simulate(txCtx, trx.Data())
}

// Execute runs data in the name of txCtx.Origin. A failed execution changes nothing.
func (se *ScriptEngine) Execute(txCtx *xenv.TransactionContext, data []byte) (*Receipt, error) {
	se.mu.Lock()
	start := time.Now()
	receipt, err := se.execute(txCtx, data, true)
	se.mu.Unlock()
	if err != nil {
		se.logger.Debug("execution rejected", "txCtx", txCtx, "err", err, "elapsed", meter.PrettyDuration(time.Since(start)))
		return nil, err
	}
	se.logger.Debug("execution committed", "seq", receipt.Seq, "tx", receipt.TxID.AbbrevString(), "unite", receipt.UniteHash.AbbrevString(), "events", len(receipt.Events), "elapsed", meter.PrettyDuration(time.Since(start)))
	se.publish(receipt)
	return receipt, nil
}

// publish hands r to the subscribers once every earlier receipt is delivered.
// Subscribers may be slow, so it never runs under mu.
func (se *ScriptEngine) publish(r *Receipt) {
	se.pubMu.Lock()
	for se.published+1 != r.Seq {
		se.pubCond.Wait()
	}
	se.pubMu.Unlock()

	se.feed.Send(r)

	se.pubMu.Lock()
	se.published = r.Seq
	se.pubCond.Broadcast()
	se.pubMu.Unlock()
}

// Simulate runs data against the committed state and discards the result.
func (se *ScriptEngine) Simulate(txCtx *xenv.TransactionContext, data []byte) (*Receipt, error) {
	se.mu.RLock()
	defer se.mu.RUnlock()
	return se.execute(txCtx, data, false)
}

func (se *ScriptEngine) execute(txCtx *xenv.TransactionContext, data []byte, commit bool) (*Receipt, error) {
	script, err := DecodeScriptData(data)
	if err != nil {
		return nil, err
	}
	mod, find := se.modReg.Find(script.Header.GetModID())
	if !find {
		return nil, errors.Wrapf(ErrUnknownModule, "module %v", script.Header.GetModID())
	}

	st := se.stateCreator.NewState()
	if !txCtx.ID.IsZero() && len(st.GetRawStorage(meter.ScriptEngineAddr, meter.TxKey(txCtx.ID))) > 0 {
		return nil, ErrKnownTx
	}

	env := setypes.NewScriptEnv(st, txCtx)
	output, err := mod.modHandler(env, script.Payload)
	if err != nil {
		return nil, err
	}

	seq := st.GetUint64(meter.ScriptEngineAddr, meter.KeyExecSeq) + 1
	st.SetUint64(meter.ScriptEngineAddr, meter.KeyExecSeq, seq)
	if !txCtx.ID.IsZero() {
		st.SetRawStorage(meter.ScriptEngineAddr, meter.TxKey(txCtx.ID), meter.Uint64Bytes(seq))
	}
	if err := st.Err(); err != nil {
		return nil, err
	}

	receipt := &Receipt{
		Seq:       seq,
		TxID:      txCtx.ID,
		UniteHash: script.UniteHash(),
		Origin:    txCtx.Origin,
		Time:      txCtx.Time,
		Output:    output.GetData(),
		Events:    output.GetEvents(),
		Transfers: output.GetTransfers(),
	}
	if !commit {
		return receipt, nil
	}
	if _, err := st.Stage().Commit(); err != nil {
		return nil, errors.WithMessage(err, "commit state")
	}
	se.auction.UpdateGauges(st)
	if se.logDB != nil {
		// state is already committed, a logdb failure only loses the index entry
		err := se.logDB.Prepare(&logdb.Header{Seq: seq, Time: txCtx.Time}).
			ForTransaction(txCtx.ID, txCtx.Origin).
			Insert(receipt.Events, receipt.Transfers).
			Commit()
		if err != nil {
			se.logger.Error("write logdb failed", "seq", seq, "err", err)
		}
	}
	return receipt, nil
}

// Seq returns the sequence number of the last committed execution.
func (se *ScriptEngine) Seq() uint64 {
	var seq uint64
	se.View(func(st *state.State) {
		seq = st.GetUint64(meter.ScriptEngineAddr, meter.KeyExecSeq)
	})
	return seq
}

// TxSeq returns the sequence number a tx was committed at, 0 if it never was.
func (se *ScriptEngine) TxSeq(id meter.Bytes32) uint64 {
	var seq uint64
	se.View(func(st *state.State) {
		if raw := st.GetRawStorage(meter.ScriptEngineAddr, meter.TxKey(id)); len(raw) == 8 {
			seq = binary.BigEndian.Uint64(raw)
		}
	})
	return seq
}

// IsBadScript reports whether err was caused by the request itself rather than by the ledger.
func IsBadScript(err error) bool {
	for _, e := range []error{ErrNotScript, ErrUnknownModule, ErrKnownTx, ErrChainTagMismatch, ErrInvalidSignature, tx.ErrUnsigned} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// View runs fn against the committed state under the read lock.
func (se *ScriptEngine) View(fn func(st *state.State)) {
	se.mu.RLock()
	defer se.mu.RUnlock()
	fn(se.stateCreator.NewState())
}

// SubscribeReceipts delivers every committed receipt to ch.
func (se *ScriptEngine) SubscribeReceipts(ch chan<- *Receipt) event.Subscription {
	return se.scope.Track(se.feed.Subscribe(ch))
}

// ApplyGenesis credits the initial balances. It can only happen once per database.
func (se *ScriptEngine) ApplyGenesis(alloc map[meter.Address]*big.Int) error {
	se.mu.Lock()
	defer se.mu.Unlock()

	st := se.stateCreator.NewState()
	if st.GetUint64(meter.ScriptEngineAddr, meter.KeyGenesisApplied) != 0 {
		return ErrGenesisApplied
	}
	for addr, amount := range alloc {
		if amount.Sign() < 0 {
			return errors.Errorf("negative genesis balance for %v", addr)
		}
		st.AddBalance(addr, amount)
	}
	st.SetUint64(meter.ScriptEngineAddr, meter.KeyGenesisApplied, 1)
	if _, err := st.Stage().Commit(); err != nil {
		return errors.WithMessage(err, "commit genesis")
	}
	se.logger.Info("genesis applied", "accounts", len(alloc))
	return nil
}

// Close unsubscribes all receipt subscribers.
func (se *ScriptEngine) Close() {
	se.scope.Close()
}
