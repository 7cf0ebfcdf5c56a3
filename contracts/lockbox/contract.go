package lockbox

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/omnitoken-dev/omnitoken-contract/common"
)

const (
	tokenKey  = 't'
	assetKey  = 'a'
	nativeKey = 'n'
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		panic("lockbox contract is not updatable")
	}

	args := data.([]any)
	if len(args) != 3 {
		panic("invalid deploy data: expected token, base asset, native flag")
	}
	token := args[0].(interop.Hash160)
	baseAsset := args[1].(interop.Hash160)
	isNative := args[2].(bool)
	if len(token) != interop.Hash160Len {
		panic("invalid token address")
	}
	if isNative {
		if len(baseAsset) != 0 {
			panic(common.ErrBadAssetConfig)
		}
	} else if len(baseAsset) != interop.Hash160Len {
		panic(common.ErrBadAssetConfig)
	}

	ctx := storage.GetContext()
	storage.Put(ctx, tokenKey, token)
	storage.Put(ctx, assetKey, baseAsset)
	storage.Put(ctx, nativeKey, isNative)

	runtime.Log("lockbox contract initialized")
}

// OnNEP17Payment is a deposit callback: receiving the base asset (the native
// GAS contract in native mode, the configured NEP-17 contract otherwise)
// mints the same amount of the token to the depositor. Payments in any other
// asset are aborted.
//
// It produces a Deposit notification.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	ctx := storage.GetReadOnlyContext()

	caller := runtime.GetCallingScriptHash()
	if IsNative() {
		if !caller.Equals(gas.Hash) {
			common.AbortWithMessage("lockbox accepts GAS only")
		}
	} else if !caller.Equals(storage.Get(ctx, assetKey).(interop.Hash160)) {
		common.AbortWithMessage("lockbox accepts its base asset only")
	}
	if len(from) != interop.Hash160Len {
		common.AbortWithMessage("lockbox cannot credit an unknown sender")
	}

	token := storage.Get(ctx, tokenKey).(interop.Hash160)
	contract.Call(token, "mint", contract.All, runtime.GetExecutingScriptHash(), from, amount)
	runtime.Notify("Deposit", from, amount)
}

// Withdraw burns amount of the token from the from account and releases the
// same amount of the custodied base asset to the to account. The transaction
// must be witnessed by from.
//
// It produces a Withdraw notification.
func Withdraw(from, to interop.Hash160, amount int) {
	if len(from) != interop.Hash160Len {
		panic("invalid account")
	}
	if len(to) != interop.Hash160Len {
		panic("invalid receiver")
	}
	if amount <= 0 {
		panic("non-positive amount")
	}
	common.CheckOwnerWitness(from)

	ctx := storage.GetReadOnlyContext()
	self := runtime.GetExecutingScriptHash()

	token := storage.Get(ctx, tokenKey).(interop.Hash160)
	contract.Call(token, "burn", contract.All, self, from, amount)

	asset := interop.Hash160(gas.Hash)
	if !storage.Get(ctx, nativeKey).(bool) {
		asset = storage.Get(ctx, assetKey).(interop.Hash160)
	}
	ok := contract.Call(asset, "transfer", contract.All, self, to, amount, nil).(bool)
	if !ok {
		panic("base asset transfer failed")
	}
	runtime.Notify("Withdraw", from, to, amount)
}

// Token returns the token this lockbox custodies the base asset against.
func Token() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, tokenKey).(interop.Hash160)
}

// BaseAsset returns the custodied NEP-17 contract, empty in native mode.
func BaseAsset() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, assetKey).(interop.Hash160)
}

// IsNative returns true if the lockbox custodies the native gas asset.
func IsNative() bool {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, nativeKey).(bool)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}
