// Package deploy provides Omnitoken factory deployment procedure.
package deploy

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"

	"github.com/omnitoken-dev/omnitoken-contract/contracts"
	"github.com/omnitoken-dev/omnitoken-contract/rpc/factory"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for the factory deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions to the
	// blockchain.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by its
	// address. GetContractStateByHash returns error with 'Unknown contract'
	// substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// CommonDeployPrm groups common deployment parameters of the smart contract.
type CommonDeployPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// FactoryPrm groups deployment parameters of the Omnitoken factory contract.
type FactoryPrm struct {
	Common CommonDeployPrm
}

// ChildContractPrm groups build artifacts of a contract the factory instantiates
// itself. The manifest is used as a template: its name is replaced with the
// factory's name placeholder before it is handed over.
type ChildContractPrm struct {
	Common CommonDeployPrm
}

// Prm groups all parameters of the factory deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy to.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	LocalAccount *wallet.Account

	Factory FactoryPrm
	Token   ChildContractPrm
	Lockbox ChildContractPrm
}

// SetContracts fills the contract artifact parameters from the compiled
// contract set, see contracts.Read.
func (x *Prm) SetContracts(set contracts.Set) {
	x.Factory.Common = CommonDeployPrm(set.Factory)
	x.Token.Common = CommonDeployPrm(set.Token)
	x.Lockbox.Common = CommonDeployPrm(set.Lockbox)
}

// Deploy deploys the Omnitoken factory contract with the token and lockbox
// build artifacts passed as its deployment data, and returns its on-chain
// address. If a contract already exists at the address the factory would get,
// Deploy verifies it is the factory and succeeds without deploying.
//
// The factory address is a function of the sender account and the factory
// artifacts only, so repeating Deploy with the same parameters is idempotent.
func Deploy(ctx context.Context, prm Prm) (util.Uint160, error) {
	sender := prm.LocalAccount.ScriptHash()
	expected := state.CreateContractHash(sender, prm.Factory.Common.NEF.Checksum, prm.Factory.Common.Manifest.Name)

	onChainState, err := prm.Blockchain.GetContractStateByHash(expected)
	if err != nil && !isErrContractNotFound(err) {
		return util.Uint160{}, fmt.Errorf("read factory contract state: %w", err)
	}

	if onChainState != nil {
		if onChainState.Manifest.Name != prm.Factory.Common.Manifest.Name {
			return util.Uint160{}, fmt.Errorf("contract at %s is not the factory: unexpected name %q",
				expected, onChainState.Manifest.Name)
		}

		prm.Logger.Info("factory contract is already on the chain", zap.Stringer("address", expected))
		return expected, nil
	}

	deployData, err := makeDeployData(prm.Token.Common, prm.Lockbox.Common)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("prepare factory deployment data: %w", err)
	}

	localActor, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("init transaction sender from local account: %w", err)
	}

	prm.Logger.Info("deploying factory contract...", zap.Stringer("address", expected))

	mgmt := management.New(localActor)

	txHash, vub, err := mgmt.Deploy(&prm.Factory.Common.NEF, &prm.Factory.Common.Manifest, deployData)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("send factory deployment transaction: %w", err)
	}

	prm.Logger.Info("factory deployment transaction sent, waiting for persistence...",
		zap.Stringer("tx", txHash), zap.Uint32("vub", vub))

	res, err := localActor.Wait(txHash, vub, nil)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("wait for factory deployment transaction: %w", err)
	}
	if res.VMState != vmstate.Halt {
		return util.Uint160{}, fmt.Errorf("factory deployment transaction faulted: %s", res.FaultException)
	}

	prm.Logger.Info("factory contract successfully deployed", zap.Stringer("address", expected))

	return expected, nil
}

// makeDeployData packs token and lockbox artifacts into the deployment data
// item expected by the factory contract: serialized NEF and manifest template
// of the token followed by those of the lockbox.
func makeDeployData(token, lockbox CommonDeployPrm) ([]any, error) {
	tokenNEF, tokenManifest, err := marshalChildArtifacts(token)
	if err != nil {
		return nil, fmt.Errorf("token artifacts: %w", err)
	}

	lockboxNEF, lockboxManifest, err := marshalChildArtifacts(lockbox)
	if err != nil {
		return nil, fmt.Errorf("lockbox artifacts: %w", err)
	}

	return []any{tokenNEF, tokenManifest, lockboxNEF, lockboxManifest}, nil
}

func marshalChildArtifacts(prm CommonDeployPrm) ([]byte, []byte, error) {
	bNEF, err := prm.NEF.Bytes()
	if err != nil {
		return nil, nil, fmt.Errorf("encode NEF into binary: %w", err)
	}

	// the factory substitutes the placeholder with the per-instance name on
	// each deployment
	m := prm.Manifest
	m.Name = factory.NamePlaceholder

	jManifest, err := json.Marshal(m)
	if err != nil {
		return nil, nil, fmt.Errorf("encode manifest template into JSON: %w", err)
	}

	return bNEF, jManifest, nil
}

// isErrContractNotFound checks if given error means missing contract on the
// chain.
func isErrContractNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Unknown contract")
}
