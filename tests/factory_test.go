package tests

import (
	"bytes"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"

	"github.com/omnitoken-dev/omnitoken-contract/rpc/factory"
)

const (
	testTokenName   = "Wrapped Thing"
	testTokenSymbol = "WTHG"
)

func contractEvents(aer *state.AppExecResult, contract util.Uint160) []state.NotificationEvent {
	var out []state.NotificationEvent
	for _, ev := range aer.Events {
		if ev.ScriptHash.Equals(contract) {
			out = append(out, ev)
		}
	}
	return out
}

func requireHashEvent(t *testing.T, ev state.NotificationEvent, name string, h util.Uint160) {
	require.Equal(t, name, ev.Name)
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(h.BytesBE()),
	}), ev.Item)
}

func TestFactoryVersion(t *testing.T) {
	env := newFactoryEnv(t)
	env.committeeInvoker().Invoke(t, 1_000, "version")
}

func TestDeployToken(t *testing.T) {
	env := newFactoryEnv(t)
	c := env.committeeInvoker()
	e := env.executor

	owner := e.CommitteeHash
	salt := saltOf(0x01)

	expected, err := factory.DeriveToken(env.executor.CommitteeHash, env.tokenChecksum, owner, salt, testTokenName, testTokenSymbol)
	require.NoError(t, err)

	// the address is predictable before anything is deployed, and the
	// dry-run has no side effects
	for i := 0; i < 2; i++ {
		res, err := c.TestInvoke(t, "tokenAddress", testTokenName, testTokenSymbol, owner, salt)
		require.NoError(t, err)
		require.Equal(t, expected.BytesBE(), res.Top().Bytes())
	}
	require.Nil(t, e.Chain.GetContractState(expected))

	h := c.Invoke(t, expected.BytesBE(), "deployToken", testTokenName, testTokenSymbol, owner, salt)
	aer := c.CheckHalt(t, h)

	evs := contractEvents(aer, env.factoryHash)
	require.Len(t, evs, 1)
	requireHashEvent(t, evs[0], "TokenDeployed", expected)

	require.NotNil(t, e.Chain.GetContractState(expected))

	token := e.CommitteeInvoker(expected)
	token.Invoke(t, testTokenName, "name")
	token.Invoke(t, testTokenSymbol, "symbol")
	token.Invoke(t, 0, "totalSupply")
	invokeBytes(t, token, owner.BytesBE(), "owner")
}

func TestDeployTokenDeterministicAcrossChains(t *testing.T) {
	var deployed []util.Uint160

	for i := 0; i < 2; i++ {
		env := newFactoryEnv(t)
		c := env.committeeInvoker()

		salt := saltOf(0x42)
		expected, err := factory.DeriveToken(env.executor.CommitteeHash, env.tokenChecksum,
			env.executor.CommitteeHash, salt, testTokenName, testTokenSymbol)
		require.NoError(t, err)

		c.Invoke(t, expected.BytesBE(), "deployToken", testTokenName, testTokenSymbol, env.executor.CommitteeHash, salt)
		deployed = append(deployed, expected)
	}

	require.Equal(t, deployed[0], deployed[1])
}

func TestDeployTokenSenderAnchored(t *testing.T) {
	env := newFactoryEnv(t)
	c := env.committeeInvoker()
	e := env.executor

	owner := e.CommitteeHash
	salt := saltOf(0x33)

	other := c.NewAccount(t)

	// the management native anchors contract hashes on the transaction
	// sender, so the same parameters sent by two accounts land at two
	// distinct addresses
	committeeAddr, err := factory.DeriveToken(e.CommitteeHash, env.tokenChecksum, owner, salt, testTokenName, testTokenSymbol)
	require.NoError(t, err)
	otherAddr, err := factory.DeriveToken(other.ScriptHash(), env.tokenChecksum, owner, salt, testTokenName, testTokenSymbol)
	require.NoError(t, err)
	require.NotEqual(t, committeeAddr, otherAddr)

	c.Invoke(t, committeeAddr.BytesBE(), "deployToken", testTokenName, testTokenSymbol, owner, salt)
	c.WithSigners(other).Invoke(t, otherAddr.BytesBE(), "deployToken", testTokenName, testTokenSymbol, owner, salt)

	require.NotNil(t, e.Chain.GetContractState(committeeAddr))
	require.NotNil(t, e.Chain.GetContractState(otherAddr))
}

func TestFactoryDeployBadTemplate(t *testing.T) {
	e := newExecutor(t)

	factoryCtr := neotest.CompileFile(t, e.CommitteeHash, factoryPath, factoryPath+"/config.yml")
	tokenCtr := neotest.CompileFile(t, e.CommitteeHash, tokenPath, tokenPath+"/config.yml")
	lockboxCtr := neotest.CompileFile(t, e.CommitteeHash, lockboxPath, lockboxPath+"/config.yml")

	// a full-size compiled manifest with its name fixed in place has no
	// placeholder to substitute
	broken := bytes.ReplaceAll(marshalManifest(t, tokenCtr), []byte(factory.NamePlaceholder), []byte("fixed-name"))

	e.DeployContractCheckFAULT(t, factoryCtr, []any{
		marshalNEF(t, tokenCtr), broken,
		marshalNEF(t, lockboxCtr), marshalManifest(t, lockboxCtr),
	}, "manifest template misses the name placeholder")
}

func TestDeployTokenParameterSensitivity(t *testing.T) {
	env := newFactoryEnv(t)
	c := env.committeeInvoker()
	owner := env.executor.CommitteeHash

	base, err := factory.DeriveToken(env.executor.CommitteeHash, env.tokenChecksum, owner, saltOf(1), testTokenName, testTokenSymbol)
	require.NoError(t, err)

	otherSalt, err := factory.DeriveToken(env.executor.CommitteeHash, env.tokenChecksum, owner, saltOf(2), testTokenName, testTokenSymbol)
	require.NoError(t, err)
	require.NotEqual(t, base, otherSalt)

	otherName, err := factory.DeriveToken(env.executor.CommitteeHash, env.tokenChecksum, owner, saltOf(1), "Other", testTokenSymbol)
	require.NoError(t, err)
	require.NotEqual(t, base, otherName)

	otherOwner := util.Uint160{0xde, 0xad}
	otherOwnerHash, err := factory.DeriveToken(env.executor.CommitteeHash, env.tokenChecksum, otherOwner, saltOf(1), testTokenName, testTokenSymbol)
	require.NoError(t, err)
	require.NotEqual(t, base, otherOwnerHash)

	// the distinct addresses really are all deployable
	c.Invoke(t, base.BytesBE(), "deployToken", testTokenName, testTokenSymbol, owner, saltOf(1))
	c.Invoke(t, otherSalt.BytesBE(), "deployToken", testTokenName, testTokenSymbol, owner, saltOf(2))
	c.Invoke(t, otherName.BytesBE(), "deployToken", "Other", testTokenSymbol, owner, saltOf(1))
	c.Invoke(t, otherOwnerHash.BytesBE(), "deployToken", testTokenName, testTokenSymbol, otherOwner, saltOf(1))
}

func TestDeployTokenBadArgs(t *testing.T) {
	env := newFactoryEnv(t)
	c := env.committeeInvoker()
	owner := env.executor.CommitteeHash

	c.InvokeFail(t, "invalid salt length", "deployToken", testTokenName, testTokenSymbol, owner, []byte{1, 2, 3})
	c.InvokeFail(t, "invalid salt length", "deployToken", testTokenName, testTokenSymbol, owner, append(saltOf(1), 0xff))
	c.InvokeFail(t, "invalid owner", "deployToken", testTokenName, testTokenSymbol, []byte{1, 2, 3}, saltOf(1))
	c.InvokeFail(t, "empty name or symbol", "deployToken", "", testTokenSymbol, owner, saltOf(1))

	c.InvokeFail(t, "invalid salt length", "tokenAddress", testTokenName, testTokenSymbol, owner, []byte{1, 2, 3})
}

func TestDeployTokenCollision(t *testing.T) {
	env := newFactoryEnv(t)
	c := env.committeeInvoker()
	owner := env.executor.CommitteeHash
	salt := saltOf(0x07)

	expected, err := factory.DeriveToken(env.executor.CommitteeHash, env.tokenChecksum, owner, salt, testTokenName, testTokenSymbol)
	require.NoError(t, err)

	c.Invoke(t, expected.BytesBE(), "deployToken", testTokenName, testTokenSymbol, owner, salt)
	c.InvokeFail(t, "deployment collision", "deployToken", testTokenName, testTokenSymbol, owner, salt)

	// a different discriminator still works
	other, err := factory.DeriveToken(env.executor.CommitteeHash, env.tokenChecksum, owner, saltOf(0x08), testTokenName, testTokenSymbol)
	require.NoError(t, err)
	c.Invoke(t, other.BytesBE(), "deployToken", testTokenName, testTokenSymbol, owner, saltOf(0x08))
}

func TestDeployTokenFor(t *testing.T) {
	env := newFactoryEnv(t)
	c := env.committeeInvoker()
	e := env.executor
	owner := e.CommitteeHash

	bridge1 := c.NewAccount(t).ScriptHash()
	bridge2 := c.NewAccount(t).ScriptHash()

	expected, err := factory.DeriveToken(env.executor.CommitteeHash, env.tokenChecksum,
		owner, make([]byte, factory.SaltLen), testTokenName, testTokenSymbol)
	require.NoError(t, err)

	h := c.Invoke(t, expected.BytesBE(), "deployTokenFor", testTokenName, testTokenSymbol, owner,
		[]any{100, 200}, []any{bridge1, bridge2})
	aer := c.CheckHalt(t, h)

	evs := contractEvents(aer, env.factoryHash)
	require.Len(t, evs, 1)
	requireHashEvent(t, evs[0], "TokenDeployed", expected)

	token := e.CommitteeInvoker(expected)
	invokeBytes(t, token, owner.BytesBE(), "owner")
	token.Invoke(t, 100, "mintingMaxLimitOf", bridge1)
	token.Invoke(t, 200, "mintingMaxLimitOf", bridge2)
	token.Invoke(t, 100, "mintingCurrentLimitOf", bridge1)
}

func TestDeployTokenForLengthMismatch(t *testing.T) {
	env := newFactoryEnv(t)
	c := env.committeeInvoker()
	e := env.executor
	owner := e.CommitteeHash

	bridge := c.NewAccount(t).ScriptHash()

	c.InvokeFail(t, "length mismatch", "deployTokenFor", testTokenName, testTokenSymbol, owner,
		[]any{100, 200}, []any{bridge})

	// the whole transaction is rolled back, nothing was created
	expected, err := factory.DeriveToken(env.executor.CommitteeHash, env.tokenChecksum,
		owner, make([]byte, factory.SaltLen), testTokenName, testTokenSymbol)
	require.NoError(t, err)
	require.Nil(t, e.Chain.GetContractState(expected))
}

func TestDeployTokenForLastLimitWins(t *testing.T) {
	env := newFactoryEnv(t)
	c := env.committeeInvoker()
	owner := env.executor.CommitteeHash

	bridge := c.NewAccount(t).ScriptHash()

	expected, err := factory.DeriveToken(env.executor.CommitteeHash, env.tokenChecksum,
		owner, make([]byte, factory.SaltLen), testTokenName, testTokenSymbol)
	require.NoError(t, err)

	c.Invoke(t, expected.BytesBE(), "deployTokenFor", testTokenName, testTokenSymbol, owner,
		[]any{100, 200}, []any{bridge, bridge})

	token := env.executor.CommitteeInvoker(expected)
	token.Invoke(t, 200, "mintingMaxLimitOf", bridge)
}

func TestDeployTokenForWitness(t *testing.T) {
	env := newFactoryEnv(t)
	c := env.committeeInvoker()

	ownerAcc := c.NewAccount(t)
	owner := ownerAcc.ScriptHash()

	// committee signature does not substitute for the owner's
	c.InvokeFail(t, "owner witness check failed", "deployTokenFor", testTokenName, testTokenSymbol, owner,
		[]any{}, []any{})

	// the owner also sends the transaction, so the address anchors on it
	expected, err := factory.DeriveToken(owner, env.tokenChecksum,
		owner, make([]byte, factory.SaltLen), testTokenName, testTokenSymbol)
	require.NoError(t, err)

	c.WithSigners(ownerAcc).Invoke(t, expected.BytesBE(), "deployTokenFor", testTokenName, testTokenSymbol, owner,
		[]any{}, []any{})
}

func TestDeployLockbox(t *testing.T) {
	env := newFactoryEnv(t)
	c := env.committeeInvoker()
	e := env.executor

	token := deployTokenDirectly(t, e, testTokenName, testTokenSymbol)
	baseAsset := c.NewAccount(t).ScriptHash() // any NEP-17-shaped address works for derivation

	t.Run("bad asset configuration", func(t *testing.T) {
		c.InvokeFail(t, "bad base asset configuration", "deployLockbox", token, baseAsset, true)
		c.InvokeFail(t, "bad base asset configuration", "deployLockbox", token, util.Uint160{}, false)
		c.InvokeFail(t, "bad base asset configuration", "lockboxAddress", token, baseAsset, true)
		c.InvokeFail(t, "bad base asset configuration", "lockboxAddress", token, util.Uint160{}, false)
	})

	t.Run("native mode", func(t *testing.T) {
		expected, err := factory.DeriveLockbox(env.executor.CommitteeHash, env.lockboxChecksum, token, util.Uint160{}, true)
		require.NoError(t, err)

		res, err := c.TestInvoke(t, "lockboxAddress", token, util.Uint160{}, true)
		require.NoError(t, err)
		require.Equal(t, expected.BytesBE(), res.Top().Bytes())

		h := c.Invoke(t, expected.BytesBE(), "deployLockbox", token, util.Uint160{}, true)
		aer := c.CheckHalt(t, h)

		evs := contractEvents(aer, env.factoryHash)
		require.Len(t, evs, 1)
		requireHashEvent(t, evs[0], "LockboxDeployed", expected)

		lockbox := e.CommitteeInvoker(expected)
		invokeBytes(t, lockbox, token.BytesBE(), "token")
		lockbox.Invoke(t, true, "isNative")
		invokeBytes(t, lockbox, []byte{}, "baseAsset")
	})

	t.Run("asset mode", func(t *testing.T) {
		expected, err := factory.DeriveLockbox(env.executor.CommitteeHash, env.lockboxChecksum, token, baseAsset, false)
		require.NoError(t, err)

		c.Invoke(t, expected.BytesBE(), "deployLockbox", token, baseAsset, false)

		lockbox := e.CommitteeInvoker(expected)
		invokeBytes(t, lockbox, token.BytesBE(), "token")
		lockbox.Invoke(t, false, "isNative")
		invokeBytes(t, lockbox, baseAsset.BytesBE(), "baseAsset")
	})

	t.Run("collision", func(t *testing.T) {
		c.InvokeFail(t, "deployment collision", "deployLockbox", token, util.Uint160{}, true)
	})
}

func TestDeployTokenWithLockbox(t *testing.T) {
	env := newFactoryEnv(t)
	c := env.committeeInvoker()
	e := env.executor
	owner := e.CommitteeHash

	bridge := c.NewAccount(t).ScriptHash()

	expectedToken, err := factory.DeriveToken(env.executor.CommitteeHash, env.tokenChecksum,
		owner, make([]byte, factory.SaltLen), testTokenName, testTokenSymbol)
	require.NoError(t, err)
	expectedLockbox, err := factory.DeriveLockbox(env.executor.CommitteeHash, env.lockboxChecksum,
		expectedToken, util.Uint160{}, true)
	require.NoError(t, err)

	h := c.Invoke(t, stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(expectedToken.BytesBE()),
		stackitem.NewByteArray(expectedLockbox.BytesBE()),
	}), "deployTokenWithLockbox", testTokenName, testTokenSymbol, owner,
		[]any{100}, []any{bridge}, util.Uint160{}, true)
	aer := c.CheckHalt(t, h)

	// the full provisioning yields exactly two factory notifications, token
	// first
	evs := contractEvents(aer, env.factoryHash)
	require.Len(t, evs, 2)
	requireHashEvent(t, evs[0], "TokenDeployed", expectedToken)
	requireHashEvent(t, evs[1], "LockboxDeployed", expectedLockbox)

	token := e.CommitteeInvoker(expectedToken)
	invokeBytes(t, token, owner.BytesBE(), "owner")
	invokeBytes(t, token, expectedLockbox.BytesBE(), "lockbox")
	token.Invoke(t, 100, "mintingMaxLimitOf", bridge)

	lockbox := e.CommitteeInvoker(expectedLockbox)
	invokeBytes(t, lockbox, expectedToken.BytesBE(), "token")
	lockbox.Invoke(t, true, "isNative")
}

func TestDeployTokenWithLockboxBadAssetConfig(t *testing.T) {
	env := newFactoryEnv(t)
	c := env.committeeInvoker()
	e := env.executor
	owner := e.CommitteeHash

	baseAsset := c.NewAccount(t).ScriptHash()

	// the configuration contradiction is caught before anything is created
	c.InvokeFail(t, "bad base asset configuration", "deployTokenWithLockbox",
		testTokenName, testTokenSymbol, owner, []any{}, []any{}, baseAsset, true)

	expectedToken, err := factory.DeriveToken(env.executor.CommitteeHash, env.tokenChecksum,
		owner, make([]byte, factory.SaltLen), testTokenName, testTokenSymbol)
	require.NoError(t, err)
	require.Nil(t, e.Chain.GetContractState(expectedToken))
}

func TestFactoryUpdateAccess(t *testing.T) {
	env := newFactoryEnv(t)
	c := env.committeeInvoker()

	stranger := c.NewAccount(t)
	c.WithSigners(stranger).InvokeFail(t, "only the factory admin can update the contract",
		"update", []byte{}, []byte{}, nil)
}
