// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for ledger databases",
	}
	genesisFlag = cli.StringFlag{
		Name:  "genesis",
		Usage: "path to a YAML genesis file (dev ledger if not set)",
	}
	operatorFlag = cli.StringFlag{
		Name:  "operator",
		Usage: "override the operator address of the genesis",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8669",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiTimeoutFlag = cli.IntFlag{
		Name:  "api-timeout",
		Value: 10000,
		Usage: "API request timeout value in milliseconds",
	}
	apiBacktraceLimitFlag = cli.IntFlag{
		Name:  "api-backtrace-limit",
		Value: 1000,
		Usage: "limit the distance between 'pos' and the latest execution for subscriptions APIs",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Usage: "prometheus metrics listening address (served on the API when not set)",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-4)",
	}
	ntpCheckFlag = cli.BoolFlag{
		Name:  "ntp-check",
		Usage: "warn on local clock offset against NTP",
	}

	keyFileFlag = cli.StringFlag{
		Name:  "key-file",
		Usage: "path of the account key file",
	}
	opFlag = cli.StringFlag{
		Name:  "op",
		Usage: "auction operation (create|bid|close|claim|cancel|withdraw)",
	}
	prizeFlag = cli.Uint64Flag{
		Name:  "prize",
		Usage: "prize id",
	}
	nameFlag = cli.StringFlag{
		Name:  "name",
		Usage: "prize name",
	}
	priceFlag = cli.StringFlag{
		Name:  "price",
		Usage: "starting price, decimal or hex",
	}
	amountFlag = cli.StringFlag{
		Name:  "amount",
		Usage: "bid amount, decimal or hex",
	}
	valueFlag = cli.StringFlag{
		Name:  "value",
		Usage: "native amount attached to the tx, defaults to amount for bids",
	}
	chainTagFlag = cli.IntFlag{
		Name:  "chain-tag",
		Value: -1,
		Usage: "chain tag of the target ledger (genesis chain tag if not set)",
	}
	nonceFlag = cli.Uint64Flag{
		Name:  "nonce",
		Usage: "tx nonce (random if not set)",
	}
)
