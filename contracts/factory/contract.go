package factory

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/convert"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/omnitoken-dev/omnitoken-contract/common"
)

const (
	tokenNEFKey        = 'n'
	tokenManifestKey   = 'm'
	lockboxNEFKey      = 'f'
	lockboxManifestKey = 'g'
	adminKey           = 'a'

	// SaltLen is the length of the caller-supplied deployment
	// discriminator, in bytes. Together with the 20-byte owner account it
	// forms the 32-byte deployment salt.
	SaltLen = 12

	// NamePlaceholder is the value of the "name" field in the token and
	// lockbox manifest templates stored by the factory. It is substituted
	// with the derived per-deployment contract name.
	NamePlaceholder = "@contract.name@"

	// nefChecksumLen is the size of the checksum trailer of a serialized
	// NEF file.
	nefChecksumLen = 4
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.([]any)
	if len(args) != 4 {
		panic("invalid deploy data: expected token NEF, token manifest, lockbox NEF, lockbox manifest")
	}

	ctx := storage.GetContext()
	storage.Put(ctx, tokenNEFKey, checkedNEF(args[0].([]byte)))
	storage.Put(ctx, tokenManifestKey, checkedManifestTemplate(args[1].([]byte)))
	storage.Put(ctx, lockboxNEFKey, checkedNEF(args[2].([]byte)))
	storage.Put(ctx, lockboxManifestKey, checkedManifestTemplate(args[3].([]byte)))

	tx := runtime.GetScriptContainer()
	storage.Put(ctx, adminKey, tx.Sender)

	runtime.Log("factory contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the factory admin (the account that deployed it).
func Update(nefFile, manifest []byte, data any) {
	ctx := storage.GetReadOnlyContext()
	admin := storage.Get(ctx, adminKey).(interop.Hash160)
	if !runtime.CheckWitness(admin) {
		panic("only the factory admin can update the contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("factory contract updated")
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// DeployToken creates a token contract at the deterministic address derived
// from the given owner/salt pair and the token name and symbol. The salt must
// be exactly SaltLen bytes. The token is constructed under the factory's
// temporary control and administrative ownership is explicitly handed to
// owner before the method returns.
//
// It panics with common.ErrCollision if a contract already occupies the
// derived address: the salt has been used before and must not be retried.
//
// On success a TokenDeployed notification is produced.
func DeployToken(name, symbol string, owner interop.Hash160, salt []byte) interop.Hash160 {
	checkHash160(owner, "invalid owner")
	if len(salt) != SaltLen {
		panic("invalid salt length")
	}

	ctx := storage.GetReadOnlyContext()
	token := deployTokenContract(ctx, name, symbol, owner, salt)
	transferOwnership(token, owner)
	runtime.Notify("TokenDeployed", token)
	return token
}

// DeployTokenFor creates a token contract for the given owner with the zero
// discriminator, so there is exactly one such address per (owner, name,
// symbol). The transaction must be witnessed by owner. Minter limits for the
// given bridges are provisioned while the factory still controls the token,
// then ownership is transferred to owner and a TokenDeployed notification is
// produced.
//
// minterLimits and bridges must have equal length, otherwise the whole
// deployment fails with common.ErrLengthMismatch and nothing persists.
// Duplicate bridges are allowed, the last entry wins.
func DeployTokenFor(name, symbol string, owner interop.Hash160, minterLimits []int, bridges []interop.Hash160) interop.Hash160 {
	checkHash160(owner, "invalid owner")
	common.CheckOwnerWitness(owner)

	ctx := storage.GetReadOnlyContext()
	token := deployTokenContract(ctx, name, symbol, owner, zeroSalt())
	provisionLimits(token, minterLimits, bridges)
	transferOwnership(token, owner)
	runtime.Notify("TokenDeployed", token)
	return token
}

// DeployLockbox creates a lockbox contract custodying the given base asset
// against the given token. Exactly one of "zero base asset" and isNative may
// hold, otherwise the method panics with common.ErrBadAssetConfig before any
// side effect. The lockbox is not registered on the token.
//
// On success a LockboxDeployed notification is produced.
func DeployLockbox(token, baseAsset interop.Hash160, isNative bool) interop.Hash160 {
	checkHash160(token, "invalid token address")
	baseAsset = checkAssetConfig(baseAsset, isNative)

	ctx := storage.GetReadOnlyContext()
	lockbox := deployLockboxContract(ctx, token, baseAsset, isNative)
	runtime.Notify("LockboxDeployed", lockbox)
	return lockbox
}

// DeployTokenWithLockbox composes DeployTokenFor and DeployLockbox with
// linkage: the base asset configuration is validated before anything is
// created, then the token is deployed and provisioned with minter limits,
// then the lockbox is deployed and registered on the token as its single
// active lockbox. Ownership of the token is transferred to owner last, so the
// factory keeps administrative rights throughout provisioning and linkage.
//
// The transaction must be witnessed by owner. TokenDeployed and
// LockboxDeployed notifications are produced, in that order. The resulting
// pair of addresses is returned as [token, lockbox].
func DeployTokenWithLockbox(name, symbol string, owner interop.Hash160, minterLimits []int, bridges []interop.Hash160, baseAsset interop.Hash160, isNative bool) []interop.Hash160 {
	checkHash160(owner, "invalid owner")
	common.CheckOwnerWitness(owner)
	baseAsset = checkAssetConfig(baseAsset, isNative)

	ctx := storage.GetReadOnlyContext()
	token := deployTokenContract(ctx, name, symbol, owner, zeroSalt())
	provisionLimits(token, minterLimits, bridges)
	runtime.Notify("TokenDeployed", token)

	lockbox := deployLockboxContract(ctx, token, baseAsset, isNative)
	runtime.Notify("LockboxDeployed", lockbox)

	contract.Call(token, "setLockbox", contract.All, lockbox)
	transferOwnership(token, owner)
	return []interop.Hash160{token, lockbox}
}

// TokenAddress derives the address DeployToken would deploy the token at,
// without creating anything. The result depends on the transaction sender,
// the stored token code and all four arguments, and on nothing else: sending
// the deployment from the same account on every chain yields the same
// address everywhere. The dry run must be signed by that same account.
func TokenAddress(name, symbol string, owner interop.Hash160, salt []byte) interop.Hash160 {
	checkHash160(owner, "invalid owner")
	if len(salt) != SaltLen {
		panic("invalid salt length")
	}

	ctx := storage.GetReadOnlyContext()
	nef := storage.Get(ctx, tokenNEFKey).([]byte)
	return contractAddress(nefChecksum(nef), tokenContractName(name, symbol, owner, salt))
}

// LockboxAddress derives the address DeployLockbox would deploy the lockbox
// at, without creating anything.
func LockboxAddress(token, baseAsset interop.Hash160, isNative bool) interop.Hash160 {
	checkHash160(token, "invalid token address")
	baseAsset = checkAssetConfig(baseAsset, isNative)

	ctx := storage.GetReadOnlyContext()
	nef := storage.Get(ctx, lockboxNEFKey).([]byte)
	return contractAddress(nefChecksum(nef), lockboxContractName(token, baseAsset, isNative))
}

func deployTokenContract(ctx storage.Context, name, symbol string, owner interop.Hash160, salt []byte) interop.Hash160 {
	nef := storage.Get(ctx, tokenNEFKey).([]byte)
	template := storage.Get(ctx, tokenManifestKey).([]byte)
	contractName := tokenContractName(name, symbol, owner, salt)
	data := []any{name, symbol, runtime.GetExecutingScriptHash()}
	return deployContract(nef, template, contractName, data)
}

func deployLockboxContract(ctx storage.Context, token, baseAsset interop.Hash160, isNative bool) interop.Hash160 {
	nef := storage.Get(ctx, lockboxNEFKey).([]byte)
	template := storage.Get(ctx, lockboxManifestKey).([]byte)
	contractName := lockboxContractName(token, baseAsset, isNative)
	data := []any{token, baseAsset, isNative}
	return deployContract(nef, template, contractName, data)
}

// deployContract creates a contract from the stored artifacts under the
// derived per-deployment name. The address is derived up front to report
// collisions distinctly from other management failures; the management native
// is then expected to arrive at the very same address.
func deployContract(nef, template []byte, contractName string, data []any) interop.Hash160 {
	expected := contractAddress(nefChecksum(nef), contractName)
	if management.GetContract(expected) != nil {
		panic(common.ErrCollision)
	}

	manifest := manifestWithName(template, contractName)
	deployed := contract.Call(interop.Hash160(management.Hash), "deploy",
		contract.All, nef, manifest, data).(*management.Contract)
	if !deployed.Hash.Equals(expected) {
		panic("derived and deployed addresses differ")
	}
	return deployed.Hash
}

// provisionLimits applies the parallel (bridge, mint limit) sequences on a
// freshly created token. Each pair is an independent full overwrite with the
// burn limit slot fixed at zero: burns are unlimited and reduce outstanding
// minted exposure instead of drawing from a separate budget.
func provisionLimits(token interop.Hash160, minterLimits []int, bridges []interop.Hash160) {
	if len(minterLimits) != len(bridges) {
		panic(common.ErrLengthMismatch)
	}
	for i := range bridges {
		checkHash160(bridges[i], "invalid bridge address")
		if minterLimits[i] < 0 {
			panic("negative mint limit")
		}
		contract.Call(token, "setLimits", contract.All, bridges[i], minterLimits[i], 0)
	}
}

func transferOwnership(token, owner interop.Hash160) {
	contract.Call(token, "transferOwnership", contract.All, owner)
}

// tokenContractName folds the 32-byte deployment salt (owner in the
// high-order bytes, discriminator in the low-order ones) and the token
// name/symbol into the manifest name of the deployed contract. The platform
// includes the manifest name in contract address derivation, which makes the
// address a pure function of (sender, owner, salt, name, symbol).
func tokenContractName(name, symbol string, owner interop.Hash160, salt []byte) string {
	material := append([]byte(nil), owner...)
	material = append(material, salt...)
	material = append(material, std.Serialize([]any{name, symbol})...)
	return "t" + std.Base58Encode(crypto.Sha256(material))
}

// lockboxContractName is the lockbox counterpart of tokenContractName. The
// salt here is the (token, base asset, native flag) triple with no owner
// component: a lockbox is non-administrable pure logic and needs no
// per-deployer address diversity.
func lockboxContractName(token, baseAsset interop.Hash160, isNative bool) string {
	material := std.Serialize([]any{token, baseAsset, isNative})
	return "l" + std.Base58Encode(crypto.Sha256(material))
}

// contractAddress reproduces the platform's contract address derivation for a
// contract deployed by this factory: RIPEMD160(SHA256()) over the script
//
//	ABORT, PUSHDATA <sender>, PUSHINT <NEF checksum>, PUSHDATA <name>
//
// which is exactly what the management native computes on deployment. The
// management native anchors the hash on the sender of the deploying
// transaction even when the deploy call comes from a contract, never on the
// calling contract itself.
func contractAddress(checksum int, contractName string) interop.Hash160 {
	tx := runtime.GetScriptContainer()
	script := []byte{0x38} // ABORT
	script = append(script, pushData(tx.Sender)...)
	script = append(script, pushInt(checksum)...)
	script = append(script, pushData([]byte(contractName))...)
	return crypto.Ripemd160(crypto.Sha256(script))
}

// pushData encodes a PUSHDATA1 instruction. Both operands of the address
// script (a Hash160 and a base58 name) are shorter than 256 bytes.
func pushData(b []byte) []byte {
	prefix := []byte{0x0C, byte(len(b))}
	return append(prefix, b...)
}

// pushInt encodes a PUSHINT instruction for a non-negative integer the way
// the platform's emitter does: values up to 16 become dedicated opcodes,
// anything else is the minimal two's complement little-endian representation
// zero-padded to the next of 1, 2, 4 or 8 bytes.
func pushInt(v int) []byte {
	if v < 0 {
		panic("negative NEF checksum")
	}
	if v <= 16 {
		return []byte{byte(0x10 + v)} // PUSH0..PUSH16
	}

	b := convert.ToBytes(v)
	var op byte
	var size int
	switch {
	case len(b) == 1:
		op, size = 0x00, 1 // PUSHINT8
	case len(b) == 2:
		op, size = 0x01, 2 // PUSHINT16
	case len(b) <= 4:
		op, size = 0x02, 4 // PUSHINT32
	case len(b) <= 8:
		op, size = 0x03, 8 // PUSHINT64
	default:
		panic("NEF checksum out of range")
	}
	for len(b) < size {
		b = append(b, 0)
	}
	return append([]byte{op}, b...)
}

// manifestWithName substitutes NamePlaceholder in the stored manifest
// template with the derived contract name. Names are base58 strings with a
// one-letter prefix, so no JSON escaping can be needed.
func manifestWithName(template []byte, contractName string) []byte {
	i := placeholderIndex(template)
	if i < 0 {
		panic("manifest template misses the name placeholder")
	}
	manifest := append([]byte(nil), template[:i]...)
	manifest = append(manifest, []byte(contractName)...)
	return append(manifest, template[i+len(NamePlaceholder):]...)
}

// placeholderIndex locates NamePlaceholder in a manifest template. The StdLib
// memorySearch native caps its inputs at 1024 bytes while compiled manifests
// are several KB, so the scan is performed in contract code. The placeholder
// occupies the leading "name" field of the template, so the scan terminates
// after a handful of bytes on well-formed input.
func placeholderIndex(template []byte) int {
	placeholder := []byte(NamePlaceholder)
	limit := len(template) - len(placeholder)
	for i := 0; i <= limit; i++ {
		match := true
		for j := 0; j < len(placeholder); j++ {
			if template[i+j] != placeholder[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// nefChecksum extracts the checksum trailer of a serialized NEF file as a
// non-negative integer.
func nefChecksum(nef []byte) int {
	trailer := nef[len(nef)-nefChecksumLen:]
	// the extra zero byte keeps the conversion unsigned
	return convert.ToInteger(append(append([]byte(nil), trailer...), 0))
}

// checkAssetConfig validates mutual exclusivity of the native mode and an
// explicit base asset, and normalizes the zero address to the empty one so
// that both spellings derive the same lockbox address.
func checkAssetConfig(baseAsset interop.Hash160, isNative bool) interop.Hash160 {
	zero := isZeroAddress(baseAsset)
	if isNative {
		if !zero {
			panic(common.ErrBadAssetConfig)
		}
		return []byte{}
	}
	if zero {
		panic(common.ErrBadAssetConfig)
	}
	checkHash160(baseAsset, "invalid base asset address")
	return baseAsset
}

func isZeroAddress(h interop.Hash160) bool {
	if len(h) == 0 {
		return true
	}
	if len(h) != interop.Hash160Len {
		return false
	}
	for i := range h {
		if h[i] != 0 {
			return false
		}
	}
	return true
}

func checkHash160(h interop.Hash160, panicMsg string) {
	if len(h) != interop.Hash160Len {
		panic(panicMsg)
	}
}

func checkedNEF(nef []byte) []byte {
	if len(nef) <= nefChecksumLen {
		panic("invalid NEF artifact")
	}
	return nef
}

func checkedManifestTemplate(template []byte) []byte {
	if placeholderIndex(template) < 0 {
		panic("manifest template misses the name placeholder")
	}
	return template
}

func zeroSalt() []byte {
	return make([]byte, SaltLen)
}
