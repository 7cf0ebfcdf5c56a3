package factory

import (
	"crypto/sha256"
	"errors"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

const (
	// SaltLen is the length of the caller-supplied deployment
	// discriminator in bytes. Together with the 20-byte owner account it
	// forms the 32-byte deployment salt.
	SaltLen = 12

	// NamePlaceholder is the value of the manifest name field in the
	// token and lockbox manifest templates handed to the factory at its
	// deployment. The factory substitutes it with the derived
	// per-deployment contract name.
	NamePlaceholder = "@contract.name@"
)

// ErrInvalidSaltLen is returned on salt of length other than SaltLen.
var ErrInvalidSaltLen = errors.New("invalid salt length")

// TokenContractName returns the manifest name the factory assigns to a token
// deployed with the given parameters. The name is a fingerprint of the
// 32-byte deployment salt (owner high, discriminator low) and the token
// name/symbol pair.
func TokenContractName(owner util.Uint160, salt []byte, name, symbol string) (string, error) {
	if len(salt) != SaltLen {
		return "", ErrInvalidSaltLen
	}

	raw, err := stackitem.Serialize(stackitem.NewArray([]stackitem.Item{
		stackitem.Make(name),
		stackitem.Make(symbol),
	}))
	if err != nil {
		return "", err
	}

	material := make([]byte, 0, util.Uint160Size+SaltLen+len(raw))
	material = append(material, owner.BytesBE()...)
	material = append(material, salt...)
	material = append(material, raw...)
	seed := sha256.Sum256(material)
	return "t" + base58.Encode(seed[:]), nil
}

// LockboxContractName returns the manifest name the factory assigns to a
// lockbox deployed with the given parameters. The zero baseAsset selects
// native mode; no owner component is involved.
func LockboxContractName(token, baseAsset util.Uint160, isNative bool) (string, error) {
	var assetBytes []byte
	if !baseAsset.Equals(util.Uint160{}) {
		assetBytes = baseAsset.BytesBE()
	}

	raw, err := stackitem.Serialize(stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(token.BytesBE()),
		stackitem.NewByteArray(assetBytes),
		stackitem.Make(isNative),
	}))
	if err != nil {
		return "", err
	}

	seed := sha256.Sum256(raw)
	return "l" + base58.Encode(seed[:]), nil
}

// DeriveToken computes, fully off-chain, the address at which the factory
// creates the token for the given parameters. sender is the account sending
// the deployment transaction: the management native anchors contract hashes
// on the transaction sender, never on the calling contract, so using one
// deployer account on every chain is what makes the addresses match across
// chains. tokenChecksum is the checksum of the token NEF artifact the factory
// was deployed with.
func DeriveToken(sender util.Uint160, tokenChecksum uint32, owner util.Uint160, salt []byte, name, symbol string) (util.Uint160, error) {
	contractName, err := TokenContractName(owner, salt, name, symbol)
	if err != nil {
		return util.Uint160{}, err
	}
	return state.CreateContractHash(sender, tokenChecksum, contractName), nil
}

// DeriveLockbox is the lockbox counterpart of DeriveToken. lockboxChecksum
// is the checksum of the lockbox NEF artifact the factory was deployed with.
func DeriveLockbox(sender util.Uint160, lockboxChecksum uint32, token, baseAsset util.Uint160, isNative bool) (util.Uint160, error) {
	contractName, err := LockboxContractName(token, baseAsset, isNative)
	if err != nil {
		return util.Uint160{}, err
	}
	return state.CreateContractHash(sender, lockboxChecksum, contractName), nil
}
