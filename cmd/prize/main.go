// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/prize-auction/api"
	"github.com/meterio/prize-auction/api/node"
	"github.com/meterio/prize-auction/co"
	"github.com/meterio/prize-auction/meter"
	"github.com/meterio/prize-auction/script"
	"github.com/meterio/prize-auction/script/auction"
	"github.com/meterio/prize-auction/state"
	"github.com/meterio/prize-auction/tx"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
)

var (
	version   string
	gitCommit string
	gitTag    string
	log       = slog.Default().With("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Prize",
		Usage:     "Prize auction ledger node",
		Copyright: "2020 Meter Foundation <https://meter.io/>",
		Flags: []cli.Flag{
			dataDirFlag,
			genesisFlag,
			operatorFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiBacktraceLimitFlag,
			metricsAddrFlag,
			verbosityFlag,
			ntpCheckFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "account",
				Usage: "manage account keys",
				Subcommands: []cli.Command{
					{
						Name:   "new",
						Usage:  "generate a key file and print its address",
						Flags:  []cli.Flag{keyFileFlag},
						Action: accountNewAction,
					},
					{
						Name:   "address",
						Usage:  "print the address of a key file",
						Flags:  []cli.Flag{keyFileFlag},
						Action: accountAddressAction,
					},
				},
			},
			{
				Name:  "tx",
				Usage: "build and sign an auction request, print the raw tx",
				Flags: []cli.Flag{
					keyFileFlag,
					genesisFlag,
					chainTagFlag,
					nonceFlag,
					opFlag,
					prizeFlag,
					nameFlag,
					priceFlag,
					amountFlag,
					valueFlag,
				},
				Action: txAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func accountNewAction(ctx *cli.Context) error {
	path := ctx.String(keyFileFlag.Name)
	if path == "" {
		return errors.Errorf("-%s is required", keyFileFlag.Name)
	}
	if _, err := os.Stat(path); err == nil {
		return errors.Errorf("key file [%v] already exists", path)
	}
	key, err := loadOrGeneratePrivateKey(path)
	if err != nil {
		return errors.Wrap(err, "generate key")
	}
	fmt.Println(meter.Address(crypto.PubkeyToAddress(key.PublicKey)).String())
	return nil
}

func accountAddressAction(ctx *cli.Context) error {
	key, err := crypto.LoadECDSA(ctx.String(keyFileFlag.Name))
	if err != nil {
		return errors.Wrap(err, "load key")
	}
	fmt.Println(meter.Address(crypto.PubkeyToAddress(key.PublicKey)).String())
	return nil
}

func txAction(ctx *cli.Context) error {
	key, err := crypto.LoadECDSA(ctx.String(keyFileFlag.Name))
	if err != nil {
		return errors.Wrap(err, "load key")
	}
	req := &request{
		op:     ctx.String(opFlag.Name),
		prize:  ctx.Uint64(prizeFlag.Name),
		name:   ctx.String(nameFlag.Name),
		price:  ctx.String(priceFlag.Name),
		amount: ctx.String(amountFlag.Name),
		value:  ctx.String(valueFlag.Name),
	}
	body, value, err := req.body()
	if err != nil {
		return err
	}
	data, err := script.EncodeScriptData(body)
	if err != nil {
		return err
	}

	chainTag := ctx.Int(chainTagFlag.Name)
	if chainTag < 0 {
		chainTag = int(loadGenesis(ctx).ChainTag)
	}
	nonce := ctx.Uint64(nonceFlag.Name)
	if nonce == 0 {
		var b [8]byte
		if _, err := rand.Read(b[:]); err != nil {
			return err
		}
		nonce = binary.BigEndian.Uint64(b[:])
	}

	trx, err := new(tx.Builder).
		ChainTag(byte(chainTag)).
		Nonce(nonce).
		Value(value).
		Data(data).
		Build().
		Sign(key)
	if err != nil {
		return err
	}
	raw, err := rlp.EncodeToBytes(trx)
	if err != nil {
		return err
	}
	fmt.Println(hexutil.Encode(raw))
	return nil
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()

	defer func() { log.Info("exited") }()

	initLogger(ctx)

	gene := loadGenesis(ctx)
	instanceDir := makeInstanceDir(ctx, gene)
	operator, alloc, err := gene.Build()
	if err != nil {
		fatal("build genesis:", err)
	}
	operator = resolveOperator(ctx, operator)

	mainDB := openMainDB(instanceDir)
	defer func() { log.Info("closing main database..."); mainDB.Close() }()

	logDB := openLogDB(instanceDir)
	defer func() { log.Info("closing log database..."); logDB.Close() }()

	se := script.NewScriptEngine(state.NewCreator(mainDB), logDB, auction.NewOperatorGuard(operator), script.Options{ChainTag: gene.ChainTag})
	defer func() { log.Info("closing script engine..."); se.Close() }()
	if err := se.ApplyGenesis(alloc); err != nil && err != script.ErrGenesisApplied {
		fatal("apply genesis:", err)
	}

	if ctx.Bool(ntpCheckFlag.Name) {
		go checkClockOffset()
	}

	var goes co.Goes
	defer goes.Wait()

	metricsAddr := ctx.String(metricsAddrFlag.Name)
	apiHandler, apiCloser := api.New(se, logDB,
		node.Info{ID: loadOrCreateNodeID(instanceDir), Version: fullVersion()},
		api.Options{
			AllowedOrigins: ctx.String(apiCorsFlag.Name),
			BacktraceLimit: uint64(ctx.Int(apiBacktraceLimitFlag.Name)),
			Metrics:        metricsAddr == "",
		})
	defer func() { log.Info("closing API..."); apiCloser() }()

	apiURL, srvCloser := startAPIServer(ctx, apiHandler, gene.ID(), &goes)
	defer func() { log.Info("stopping API server..."); srvCloser() }()

	if metricsAddr != "" {
		metricsURL, metricsCloser := startMetricsServer(metricsAddr, &goes)
		defer func() { log.Info("stopping metrics server..."); metricsCloser() }()
		log.Info("metrics started", "url", metricsURL)
	}

	log.Info("ledger started",
		"version", fullVersion(),
		"genesis", gene.Name,
		"chainTag", gene.ChainTag,
		"operator", operator,
		"seq", se.Seq(),
		"api", apiURL,
		"dir", instanceDir)

	<-exitSignal.Done()
	return nil
}
