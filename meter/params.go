// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter

// Tokens carried by transfer logs.
const (
	NativeToken = byte(0) // the bid currency
	PrizeToken  = byte(1) // unique prize assets
)

// Well-known accounts. Their state is owned by the modules, nobody holds a key.
var (
	AuctionModuleAddr  = BytesToAddress([]byte("prize-auction-module-acc"))
	RegistryModuleAddr = BytesToAddress([]byte("prize-assets-registry-acc"))
	ScriptEngineAddr   = BytesToAddress([]byte("prize-script-engine-acc"))
)

// Storage keys under AuctionModuleAddr.
var (
	KeyOpenPrizeID = Blake2b([]byte("auction-open-prize-key"))
	KeyPrizeCount  = Blake2b([]byte("auction-prize-count-key"))
	prizePrefix    = []byte("auction-prize-")
)

// Storage keys under RegistryModuleAddr.
var (
	KeyAssetSupply = Blake2b([]byte("registry-asset-supply-key"))
	assetPrefix    = []byte("registry-asset-owner-")
	holdingPrefix  = []byte("registry-holding-")
)

// Storage keys under ScriptEngineAddr.
var (
	KeyExecSeq        = Blake2b([]byte("engine-exec-seq-key"))
	KeyGenesisApplied = Blake2b([]byte("engine-genesis-key"))
	txPrefix          = []byte("engine-tx-")
)

// TxKey marks an executed tx id.
func TxKey(id Bytes32) Bytes32 {
	return Blake2b(txPrefix, id.Bytes())
}

// PrizeKey is the storage key of a prize record.
func PrizeKey(id uint64) Bytes32 {
	return Blake2b(prizePrefix, Uint64Bytes(id))
}

// AssetOwnerKey is the storage key of the owner of an asset.
func AssetOwnerKey(assetID uint64) Bytes32 {
	return Blake2b(assetPrefix, Uint64Bytes(assetID))
}

// HoldingKey is the storage key of the number of assets held by owner.
func HoldingKey(owner Address) Bytes32 {
	return Blake2b(holdingPrefix, owner.Bytes())
}
