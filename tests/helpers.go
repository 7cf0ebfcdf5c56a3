package tests

import (
	"encoding/json"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"

	"github.com/omnitoken-dev/omnitoken-contract/rpc/factory"
)

const (
	factoryPath = "../contracts/factory"
	tokenPath   = "../contracts/token"
	lockboxPath = "../contracts/lockbox"
)

func newExecutor(t *testing.T) *neotest.Executor {
	bc, acc := chain.NewSingle(t)
	return neotest.NewExecutor(t, bc, acc, acc)
}

// factoryEnv is a test chain with the factory contract deployed on it along
// with everything needed to derive the addresses of its children off-chain.
type factoryEnv struct {
	executor *neotest.Executor

	factoryHash     util.Uint160
	tokenChecksum   uint32
	lockboxChecksum uint32
}

// newFactoryEnv compiles the factory, token and lockbox contracts and deploys
// the factory with the child build artifacts as its deployment data.
func newFactoryEnv(t *testing.T) *factoryEnv {
	e := newExecutor(t)

	factoryCtr := neotest.CompileFile(t, e.CommitteeHash, factoryPath, factoryPath+"/config.yml")
	tokenCtr := neotest.CompileFile(t, e.CommitteeHash, tokenPath, tokenPath+"/config.yml")
	lockboxCtr := neotest.CompileFile(t, e.CommitteeHash, lockboxPath, lockboxPath+"/config.yml")

	e.DeployContract(t, factoryCtr, []any{
		marshalNEF(t, tokenCtr), marshalManifest(t, tokenCtr),
		marshalNEF(t, lockboxCtr), marshalManifest(t, lockboxCtr),
	})

	return &factoryEnv{
		executor:        e,
		factoryHash:     factoryCtr.Hash,
		tokenChecksum:   tokenCtr.NEF.Checksum,
		lockboxChecksum: lockboxCtr.NEF.Checksum,
	}
}

func (env *factoryEnv) committeeInvoker() *neotest.ContractInvoker {
	return env.executor.CommitteeInvoker(env.factoryHash)
}

func marshalNEF(t *testing.T, ctr *neotest.Contract) []byte {
	b, err := ctr.NEF.Bytes()
	require.NoError(t, err)
	return b
}

func marshalManifest(t *testing.T, ctr *neotest.Contract) []byte {
	b, err := json.Marshal(ctr.Manifest)
	require.NoError(t, err)
	return b
}

// deployTokenDirectly deploys the token contract bypassing the factory with
// the committee as its administrative controller.
func deployTokenDirectly(t *testing.T, e *neotest.Executor, name, symbol string) util.Uint160 {
	tokenCtr := neotest.CompileFile(t, e.CommitteeHash, tokenPath, tokenPath+"/config.yml")
	e.DeployContract(t, tokenCtr, []any{name, symbol, e.CommitteeHash})
	return tokenCtr.Hash
}

// invokeBytes checks a safe method invocation result by its raw bytes.
// Compiled contracts return byte slice values as Buffer stack items, which
// never compare equal to the ByteString expectations of strict Invoke.
func invokeBytes(t *testing.T, c *neotest.ContractInvoker, expected []byte, method string, args ...any) {
	res, err := c.TestInvoke(t, method, args...)
	require.NoError(t, err)
	if len(expected) == 0 {
		require.Empty(t, res.Top().Bytes())
		return
	}
	require.Equal(t, expected, res.Top().Bytes())
}

// saltOf returns a deployment discriminator filled with the given byte.
func saltOf(fill byte) []byte {
	s := make([]byte, factory.SaltLen)
	for i := range s {
		s[i] = fill
	}
	return s
}
