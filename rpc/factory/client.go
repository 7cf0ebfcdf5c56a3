// Package factory contains RPC wrappers for the Omnitoken Factory contract.
package factory

import (
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// TokenAddress performs a dry run of the token address derivation: it
// returns the address DeployToken would deploy at for the same arguments,
// without creating anything. The derivation is anchored on the transaction
// sender, so the dry run must be signed by the account that will send the
// deployment. See also DeriveToken for the same computation done fully
// off-chain.
func (c *ContractReader) TokenAddress(name, symbol string, owner util.Uint160, salt []byte) (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "tokenAddress", name, symbol, owner, salt))
}

// LockboxAddress performs a dry run of the lockbox address derivation. The
// zero base asset together with isNative=true selects native mode.
func (c *ContractReader) LockboxAddress(token, baseAsset util.Uint160, isNative bool) (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "lockboxAddress", token, baseAsset, isNative))
}

// DeployToken creates a transaction invoking `deployToken` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) DeployToken(name, symbol string, owner util.Uint160, salt []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "deployToken", name, symbol, owner, salt)
}

// DeployTokenTransaction creates a transaction invoking `deployToken` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) DeployTokenTransaction(name, symbol string, owner util.Uint160, salt []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "deployToken", name, symbol, owner, salt)
}

// DeployTokenUnsigned creates a transaction invoking `deployToken` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) DeployTokenUnsigned(name, symbol string, owner util.Uint160, salt []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "deployToken", nil, name, symbol, owner, salt)
}

// DeployTokenFor creates a transaction invoking `deployTokenFor` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) DeployTokenFor(name, symbol string, owner util.Uint160, minterLimits []*big.Int, bridges []util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "deployTokenFor", name, symbol, owner, minterLimits, bridges)
}

// DeployTokenForTransaction creates a transaction invoking `deployTokenFor` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) DeployTokenForTransaction(name, symbol string, owner util.Uint160, minterLimits []*big.Int, bridges []util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "deployTokenFor", name, symbol, owner, minterLimits, bridges)
}

// DeployTokenForUnsigned creates a transaction invoking `deployTokenFor` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) DeployTokenForUnsigned(name, symbol string, owner util.Uint160, minterLimits []*big.Int, bridges []util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "deployTokenFor", nil, name, symbol, owner, minterLimits, bridges)
}

// DeployLockbox creates a transaction invoking `deployLockbox` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) DeployLockbox(token, baseAsset util.Uint160, isNative bool) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "deployLockbox", token, baseAsset, isNative)
}

// DeployLockboxTransaction creates a transaction invoking `deployLockbox` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) DeployLockboxTransaction(token, baseAsset util.Uint160, isNative bool) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "deployLockbox", token, baseAsset, isNative)
}

// DeployLockboxUnsigned creates a transaction invoking `deployLockbox` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) DeployLockboxUnsigned(token, baseAsset util.Uint160, isNative bool) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "deployLockbox", nil, token, baseAsset, isNative)
}

// DeployTokenWithLockbox creates a transaction invoking `deployTokenWithLockbox` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) DeployTokenWithLockbox(name, symbol string, owner util.Uint160, minterLimits []*big.Int, bridges []util.Uint160, baseAsset util.Uint160, isNative bool) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "deployTokenWithLockbox", name, symbol, owner, minterLimits, bridges, baseAsset, isNative)
}

// DeployTokenWithLockboxTransaction creates a transaction invoking `deployTokenWithLockbox` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) DeployTokenWithLockboxTransaction(name, symbol string, owner util.Uint160, minterLimits []*big.Int, bridges []util.Uint160, baseAsset util.Uint160, isNative bool) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "deployTokenWithLockbox", name, symbol, owner, minterLimits, bridges, baseAsset, isNative)
}

// DeployTokenWithLockboxUnsigned creates a transaction invoking `deployTokenWithLockbox` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) DeployTokenWithLockboxUnsigned(name, symbol string, owner util.Uint160, minterLimits []*big.Int, bridges []util.Uint160, baseAsset util.Uint160, isNative bool) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "deployTokenWithLockbox", nil, name, symbol, owner, minterLimits, bridges, baseAsset, isNative)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(nefFile []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, nefFile, manifest, data)
}
