package tests

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"

	"github.com/omnitoken-dev/omnitoken-contract/rpc/factory"
)

// newLockboxEnv provisions a token with a linked lockbox through the factory.
// The zero baseAsset selects native GAS custody.
func newLockboxEnv(t *testing.T, baseAsset util.Uint160, isNative bool) (env *factoryEnv, token, lockbox util.Uint160) {
	env = newFactoryEnv(t)
	c := env.committeeInvoker()
	owner := env.executor.CommitteeHash

	token, err := factory.DeriveToken(env.executor.CommitteeHash, env.tokenChecksum,
		owner, make([]byte, factory.SaltLen), testTokenName, testTokenSymbol)
	require.NoError(t, err)
	lockbox, err = factory.DeriveLockbox(env.executor.CommitteeHash, env.lockboxChecksum, token, baseAsset, isNative)
	require.NoError(t, err)

	c.Invoke(t, stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(token.BytesBE()),
		stackitem.NewByteArray(lockbox.BytesBE()),
	}), "deployTokenWithLockbox", testTokenName, testTokenSymbol, owner,
		[]any{}, []any{}, baseAsset, isNative)

	return env, token, lockbox
}

func TestLockboxDepositNative(t *testing.T) {
	env, token, lockbox := newLockboxEnv(t, util.Uint160{}, true)
	e := env.executor

	gasInv := e.CommitteeInvoker(e.NativeHash(t, nativenames.Gas))
	tokenInv := e.CommitteeInvoker(token)

	h := gasInv.Invoke(t, true, "transfer", e.CommitteeHash, lockbox, 500, nil)
	aer := gasInv.CheckHalt(t, h)

	evs := contractEvents(aer, lockbox)
	require.Len(t, evs, 1)
	require.Equal(t, "Deposit", evs[0].Name)
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(e.CommitteeHash.BytesBE()),
		stackitem.Make(500),
	}), evs[0].Item)

	tokenInv.Invoke(t, 500, "balanceOf", e.CommitteeHash)
	tokenInv.Invoke(t, 500, "totalSupply")
}

func TestLockboxDepositWrongAsset(t *testing.T) {
	env, _, lockbox := newLockboxEnv(t, util.Uint160{}, true)
	e := env.executor

	neoInv := e.CommitteeInvoker(e.NativeHash(t, nativenames.Neo))
	neoInv.InvokeFail(t, "ABORT", "transfer", e.CommitteeHash, lockbox, 1, nil)
}

func TestLockboxDepositAssetMode(t *testing.T) {
	env := newFactoryEnv(t)
	gasHash := env.executor.NativeHash(t, nativenames.Gas)

	// GAS as an explicitly configured NEP-17 base asset rather than via the
	// native mode
	c := env.committeeInvoker()
	owner := env.executor.CommitteeHash

	token, err := factory.DeriveToken(env.executor.CommitteeHash, env.tokenChecksum,
		owner, make([]byte, factory.SaltLen), testTokenName, testTokenSymbol)
	require.NoError(t, err)
	lockbox, err := factory.DeriveLockbox(env.executor.CommitteeHash, env.lockboxChecksum, token, gasHash, false)
	require.NoError(t, err)

	c.Invoke(t, stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(token.BytesBE()),
		stackitem.NewByteArray(lockbox.BytesBE()),
	}), "deployTokenWithLockbox", testTokenName, testTokenSymbol, owner,
		[]any{}, []any{}, gasHash, false)

	e := env.executor
	gasInv := e.CommitteeInvoker(gasHash)
	gasInv.Invoke(t, true, "transfer", e.CommitteeHash, lockbox, 123, nil)

	e.CommitteeInvoker(token).Invoke(t, 123, "balanceOf", e.CommitteeHash)

	neoInv := e.CommitteeInvoker(e.NativeHash(t, nativenames.Neo))
	neoInv.InvokeFail(t, "ABORT", "transfer", e.CommitteeHash, lockbox, 1, nil)
}

func TestLockboxWithdraw(t *testing.T) {
	env, token, lockbox := newLockboxEnv(t, util.Uint160{}, true)
	e := env.executor

	gasHash := e.NativeHash(t, nativenames.Gas)
	gasInv := e.CommitteeInvoker(gasHash)
	tokenInv := e.CommitteeInvoker(token)
	lockboxInv := e.CommitteeInvoker(lockbox)

	gasInv.Invoke(t, true, "transfer", e.CommitteeHash, lockbox, 500, nil)

	// a bare address with no prior GAS so the released amount is exact
	recipient := util.Uint160{0xaa, 0xbb}

	h := lockboxInv.Invoke(t, stackitem.Null{}, "withdraw", e.CommitteeHash, recipient, 200)
	aer := lockboxInv.CheckHalt(t, h)

	evs := contractEvents(aer, lockbox)
	require.Len(t, evs, 1)
	require.Equal(t, "Withdraw", evs[0].Name)

	tokenInv.Invoke(t, 300, "balanceOf", e.CommitteeHash)
	tokenInv.Invoke(t, 300, "totalSupply")
	gasInv.Invoke(t, 200, "balanceOf", recipient)

	lockboxInv.InvokeFail(t, "insufficient balance", "withdraw", e.CommitteeHash, recipient, 301)
	lockboxInv.InvokeFail(t, "non-positive amount", "withdraw", e.CommitteeHash, recipient, 0)

	stranger := lockboxInv.NewAccount(t)
	lockboxInv.WithSigners(stranger).InvokeFail(t, "owner witness check failed",
		"withdraw", e.CommitteeHash, recipient, 1)
}

func TestLockboxViews(t *testing.T) {
	env, token, lockbox := newLockboxEnv(t, util.Uint160{}, true)
	e := env.executor

	c := e.CommitteeInvoker(lockbox)
	invokeBytes(t, c, token.BytesBE(), "token")
	c.Invoke(t, true, "isNative")
	invokeBytes(t, c, []byte{}, "baseAsset")
	c.Invoke(t, 1_000, "version")

	// the token knows its lockbox back
	invokeBytes(t, e.CommitteeInvoker(token), lockbox.BytesBE(), "lockbox")
}
