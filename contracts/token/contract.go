package token

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/omnitoken-dev/omnitoken-contract/common"
)

// BridgeLimit is the single mutable minting record kept per bridge. MintMax
// caps the outstanding minted amount, Outstanding tracks it. Burns reduce
// Outstanding instead of drawing from a burn budget; BurnMax is kept for the
// interface but a zero value means unlimited and that is the only value the
// factory ever provisions.
type BridgeLimit struct {
	MintMax     int
	Outstanding int
	BurnMax     int
}

const (
	decimals = 8

	nameKey    = 'n'
	symbolKey  = 's'
	supplyKey  = 't'
	ownerKey   = 'o'
	lockboxKey = 'x'

	balancePrefix = 'b'
	limitPrefix   = 'l'
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		panic("token contract is not updatable")
	}

	args := data.([]any)
	if len(args) != 3 {
		panic("invalid deploy data: expected name, symbol, controller")
	}
	name := args[0].(string)
	symbol := args[1].(string)
	controller := args[2].(interop.Hash160)
	if len(name) == 0 || len(symbol) == 0 {
		panic("empty name or symbol")
	}
	if len(controller) != interop.Hash160Len {
		panic("invalid controller")
	}

	ctx := storage.GetContext()
	storage.Put(ctx, nameKey, name)
	storage.Put(ctx, symbolKey, symbol)
	storage.Put(ctx, supplyKey, 0)
	storage.Put(ctx, ownerKey, controller)

	runtime.Log("token contract initialized")
}

// Name returns the human-readable token name. The manifest name of the
// contract is its deployment salt fingerprint, so the name lives here.
func Name() string {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, nameKey).(string)
}

// Symbol is a NEP-17 standard method that returns the token symbol.
func Symbol() string {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, symbolKey).(string)
}

// Decimals is a NEP-17 standard method that returns the token precision.
func Decimals() int {
	return decimals
}

// TotalSupply is a NEP-17 standard method that returns the amount of minted
// and not yet burned tokens.
func TotalSupply() int {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, supplyKey).(int)
}

// BalanceOf is a NEP-17 standard method that returns the token balance of
// the specified account.
func BalanceOf(account interop.Hash160) int {
	checkHash160(account, "invalid account")
	ctx := storage.GetReadOnlyContext()
	return balanceOf(ctx, account)
}

// Transfer is a NEP-17 standard method that moves tokens between accounts.
// It can be invoked only with the witness of from.
//
// It produces a Transfer notification.
func Transfer(from, to interop.Hash160, amount int, data any) bool {
	checkHash160(from, "invalid sender")
	checkHash160(to, "invalid receiver")
	if amount < 0 {
		panic("negative amount")
	}
	if !runtime.CheckWitness(from) {
		return false
	}

	ctx := storage.GetContext()
	if !reduceBalance(ctx, from, amount) {
		return false
	}
	addBalance(ctx, to, amount)
	postTransfer(from, to, amount, data)
	return true
}

// Mint issues amount tokens to the to account on behalf of the given bridge.
// The transaction must be witnessed by bridge (a calling bridge contract
// witnesses itself). The linked lockbox mints without limit; any other
// bridge must stay within the minting headroom provisioned for it, and its
// outstanding exposure grows by amount.
//
// It produces a Transfer notification with empty sender.
func Mint(bridge, to interop.Hash160, amount int) {
	checkHash160(bridge, "invalid bridge")
	checkHash160(to, "invalid receiver")
	if amount < 0 {
		panic("negative amount")
	}
	common.CheckWitness(bridge)

	ctx := storage.GetContext()
	if !isLockbox(ctx, bridge) {
		limit := getLimit(ctx, bridge)
		if amount > limit.MintMax-limit.Outstanding {
			panic("mint limit exceeded")
		}
		limit.Outstanding += amount
		common.SetSerialized(ctx, limitKey(bridge), limit)
	}

	addBalance(ctx, to, amount)
	storage.Put(ctx, supplyKey, storage.Get(ctx, supplyKey).(int)+amount)
	postTransfer(nil, to, amount, nil)
}

// Burn destroys amount tokens of the from account on behalf of the given
// bridge. The transaction must be witnessed by bridge and, unless they are
// the same account, by from. Burning reduces the bridge's outstanding minted
// exposure; there is no separate burn budget.
//
// It produces a Transfer notification with empty receiver.
func Burn(bridge, from interop.Hash160, amount int) {
	checkHash160(bridge, "invalid bridge")
	checkHash160(from, "invalid account")
	if amount < 0 {
		panic("negative amount")
	}
	common.CheckWitness(bridge)
	if !bridge.Equals(from) {
		common.CheckOwnerWitness(from)
	}

	ctx := storage.GetContext()
	if !reduceBalance(ctx, from, amount) {
		panic("insufficient balance")
	}

	if !isLockbox(ctx, bridge) {
		limit := getLimit(ctx, bridge)
		limit.Outstanding -= amount
		if limit.Outstanding < 0 {
			limit.Outstanding = 0
		}
		common.SetSerialized(ctx, limitKey(bridge), limit)
	}

	supply := storage.Get(ctx, supplyKey).(int)
	if supply < amount {
		panic("negative supply after burn")
	}
	storage.Put(ctx, supplyKey, supply-amount)
	postTransfer(from, nil, amount, nil)
}

// SetLimits overwrites the minting limit record of the given bridge. It can
// be invoked only with the witness of the current administrative owner. The
// previous limit is not read or combined with: every call is a full
// overwrite, last write wins. Outstanding exposure already minted by the
// bridge is preserved.
func SetLimits(bridge interop.Hash160, mintLimit, burnLimit int) {
	checkHash160(bridge, "invalid bridge")
	if mintLimit < 0 || burnLimit < 0 {
		panic("negative limit")
	}

	ctx := storage.GetContext()
	common.CheckOwnerWitness(getOwner(ctx))

	limit := getLimit(ctx, bridge)
	limit.MintMax = mintLimit
	limit.BurnMax = burnLimit
	common.SetSerialized(ctx, limitKey(bridge), limit)
}

// SetLockbox registers the given lockbox contract as the single active
// lockbox of this token, replacing any previous registration. It can be
// invoked only with the witness of the current administrative owner. The
// active lockbox mints and burns without limits.
func SetLockbox(lockbox interop.Hash160) {
	checkHash160(lockbox, "invalid lockbox")

	ctx := storage.GetContext()
	common.CheckOwnerWitness(getOwner(ctx))
	storage.Put(ctx, lockboxKey, lockbox)
}

// TransferOwnership reassigns administrative rights over the token to the
// given account. It can be invoked only with the witness of the current
// administrative owner.
func TransferOwnership(newOwner interop.Hash160) {
	checkHash160(newOwner, "invalid new owner")

	ctx := storage.GetContext()
	common.CheckOwnerWitness(getOwner(ctx))
	storage.Put(ctx, ownerKey, newOwner)
}

// Owner returns the current administrative owner of the token.
func Owner() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getOwner(ctx)
}

// Lockbox returns the active lockbox of the token or an empty value if none
// was registered.
func Lockbox() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	lockbox := storage.Get(ctx, lockboxKey)
	if lockbox == nil {
		return nil
	}
	return lockbox.(interop.Hash160)
}

// MintingMaxLimitOf returns the provisioned minting limit of the given
// bridge, zero if none was set.
func MintingMaxLimitOf(bridge interop.Hash160) int {
	checkHash160(bridge, "invalid bridge")
	ctx := storage.GetReadOnlyContext()
	return getLimit(ctx, bridge).MintMax
}

// MintingCurrentLimitOf returns the remaining minting headroom of the given
// bridge: its limit minus its outstanding minted exposure.
func MintingCurrentLimitOf(bridge interop.Hash160) int {
	checkHash160(bridge, "invalid bridge")
	ctx := storage.GetReadOnlyContext()
	limit := getLimit(ctx, bridge)
	headroom := limit.MintMax - limit.Outstanding
	if headroom < 0 {
		headroom = 0
	}
	return headroom
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func checkHash160(h interop.Hash160, panicMsg string) {
	if len(h) != interop.Hash160Len {
		panic(panicMsg)
	}
}

func getOwner(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, ownerKey).(interop.Hash160)
}

func isLockbox(ctx storage.Context, account interop.Hash160) bool {
	lockbox := storage.Get(ctx, lockboxKey)
	return lockbox != nil && account.Equals(lockbox.(interop.Hash160))
}

func limitKey(bridge interop.Hash160) []byte {
	return append([]byte{limitPrefix}, bridge...)
}

func getLimit(ctx storage.Context, bridge interop.Hash160) BridgeLimit {
	data := storage.Get(ctx, limitKey(bridge))
	if data == nil {
		return BridgeLimit{}
	}
	return std.Deserialize(data.([]byte)).(BridgeLimit)
}

func balanceKey(account interop.Hash160) []byte {
	return append([]byte{balancePrefix}, account...)
}

func balanceOf(ctx storage.Context, account interop.Hash160) int {
	balance := storage.Get(ctx, balanceKey(account))
	if balance == nil {
		return 0
	}
	return balance.(int)
}

func addBalance(ctx storage.Context, account interop.Hash160, amount int) {
	storage.Put(ctx, balanceKey(account), balanceOf(ctx, account)+amount)
}

func reduceBalance(ctx storage.Context, account interop.Hash160, amount int) bool {
	balance := balanceOf(ctx, account)
	if balance < amount {
		return false
	}
	if balance == amount {
		storage.Delete(ctx, balanceKey(account))
		return true
	}
	storage.Put(ctx, balanceKey(account), balance-amount)
	return true
}

// postTransfer sends a Transfer notification and calls onNEP17Payment on a
// receiving contract.
func postTransfer(from, to interop.Hash160, amount int, data any) {
	runtime.Notify("Transfer", from, to, amount)
	if len(to) == interop.Hash160Len && management.GetContract(to) != nil {
		contract.Call(to, "onNEP17Payment", contract.All, from, amount, data)
	}
}
