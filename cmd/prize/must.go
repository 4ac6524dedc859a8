// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/beevik/ntp"
	"github.com/google/uuid"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/meterio/prize-auction/co"
	"github.com/meterio/prize-auction/genesis"
	"github.com/meterio/prize-auction/logdb"
	"github.com/meterio/prize-auction/lvldb"
	"github.com/meterio/prize-auction/meter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	cli "gopkg.in/urfave/cli.v1"
)

// maxClockOffset is how far the local clock may drift before a warning.
const maxClockOffset = 5 * time.Second

func logLevel(verbosity int) slog.Level {
	switch {
	case verbosity >= 4:
		return slog.LevelDebug
	case verbosity == 3:
		return slog.LevelInfo
	case verbosity == 2:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

func initLogger(ctx *cli.Context) {
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      logLevel(ctx.Int(verbosityFlag.Name)),
		TimeFormat: "01-02|15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})
	slog.SetDefault(slog.New(handler))
	log = slog.Default().With("pkg", "main")
}

func loadGenesis(ctx *cli.Context) *genesis.Genesis {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return genesis.NewDevnet()
	}
	gene, err := genesis.Load(path)
	if err != nil {
		fatal(fmt.Sprintf("load genesis [%v]: %v", path, err))
	}
	return gene
}

// resolveOperator applies the --operator override.
func resolveOperator(ctx *cli.Context, operator meter.Address) meter.Address {
	s := ctx.String(operatorFlag.Name)
	if s == "" {
		return operator
	}
	addr, err := meter.ParseAddress(s)
	if err != nil || addr.IsZero() {
		fatal(fmt.Sprintf("invalid -%s [%v]", operatorFlag.Name, s))
	}
	return addr
}

func makeDataDir(ctx *cli.Context) string {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		fatal(fmt.Sprintf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name))
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		fatal(fmt.Sprintf("create data dir [%v]: %v", dataDir, err))
	}
	return dataDir
}

func makeInstanceDir(ctx *cli.Context, gene *genesis.Genesis) string {
	dataDir := makeDataDir(ctx)

	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", gene.ID().Bytes()[24:]))
	if err := os.MkdirAll(instanceDir, 0700); err != nil {
		fatal(fmt.Sprintf("create instance dir [%v]: %v", instanceDir, err))
	}
	return instanceDir
}

func openMainDB(dataDir string) *lvldb.LevelDB {
	dir := filepath.Join(dataDir, "main.db")
	db, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: 512,
	})
	if err != nil {
		fatal(fmt.Sprintf("open main database [%v]: %v", dir, err))
	}
	return db
}

func openLogDB(dataDir string) *logdb.LogDB {
	dir := filepath.Join(dataDir, "logs.db")
	db, err := logdb.New(dir)
	if err != nil {
		fatal(fmt.Sprintf("open log database [%v]: %v", dir, err))
	}
	return db
}

// loadOrCreateNodeID keeps a random node id across restarts.
func loadOrCreateNodeID(instanceDir string) string {
	path := filepath.Join(instanceDir, "node.id")
	if data, err := os.ReadFile(path); err == nil {
		if id, err := uuid.ParseBytes([]byte(strings.TrimSpace(string(data)))); err == nil {
			return id.String()
		}
		log.Warn("invalid node id, regenerating", "path", path)
	}
	id := uuid.New().String()
	if err := os.WriteFile(path, []byte(id+"\n"), 0600); err != nil {
		fatal(fmt.Sprintf("write node id [%v]: %v", path, err))
	}
	return id
}

func serve(addr string, handler http.Handler, goes *co.Goes) (string, func()) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fatal(fmt.Sprintf("listen [%v]: %v", addr, err))
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	goes.Go(func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("http server stopped", "addr", addr, "err", err)
		}
	})
	return "http://" + listener.Addr().String() + "/", func() {
		srv.Close()
	}
}

func startAPIServer(ctx *cli.Context, handler http.Handler, genesisID meter.Bytes32, goes *co.Goes) (string, func()) {
	timeout := ctx.Int(apiTimeoutFlag.Name)
	if timeout > 0 {
		handler = handleAPITimeout(handler, time.Duration(timeout)*time.Millisecond)
	}
	handler = handleXGenesisID(handler, genesisID.String())
	handler = handleXVersion(handler)
	handler = requestBodyLimit(handler)
	return serve(ctx.String(apiAddrFlag.Name), handler, goes)
}

func startMetricsServer(addr string, goes *co.Goes) (string, func()) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return serve(addr, mux, goes)
}

func checkClockOffset() {
	resp, err := ntp.Query("pool.ntp.org")
	if err != nil {
		log.Debug("failed to access NTP", "err", err)
		return
	}
	if resp.ClockOffset > maxClockOffset || resp.ClockOffset < -maxClockOffset {
		log.Warn("clock offset detected", "offset", meter.PrettyDuration(resp.ClockOffset))
	}
}
