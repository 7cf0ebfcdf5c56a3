// Derive prints the deterministic on-chain address of a token or lockbox
// contract instantiated by the Omnitoken factory, computed locally from the
// build artifacts without touching the network.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"

	"github.com/omnitoken-dev/omnitoken-contract/rpc/factory"
)

func main() {
	mode := flag.String("mode", "token", "What to derive: 'token' or 'lockbox'")
	senderAddr := flag.String("sender", "", "Address of the account sending the deployment transaction")
	nefPath := flag.String("nef", "", "Path to the compiled NEF of the contract being derived")

	ownerAddr := flag.String("owner", "", "Token owner address (token mode)")
	saltHex := flag.String("salt", "", "Hex-encoded 12-byte deployment discriminator, zero if omitted (token mode)")
	name := flag.String("name", "", "Token name (token mode)")
	symbol := flag.String("symbol", "", "Token symbol (token mode)")

	tokenAddr := flag.String("token", "", "Token contract address (lockbox mode)")
	assetAddr := flag.String("asset", "", "Base asset contract address, empty in native mode (lockbox mode)")
	native := flag.Bool("native", false, "Lockbox custodies the native GAS asset (lockbox mode)")

	flag.Parse()

	switch {
	case *senderAddr == "":
		log.Fatal("missing sender address")
	case *nefPath == "":
		log.Fatal("missing NEF path")
	}

	sender, err := address.StringToUint160(*senderAddr)
	if err != nil {
		log.Fatal(fmt.Errorf("decode sender address: %w", err))
	}

	checksum, err := readNEFChecksum(*nefPath)
	if err != nil {
		log.Fatal(fmt.Errorf("read NEF: %w", err))
	}

	var derived util.Uint160

	switch *mode {
	case "token":
		derived, err = deriveToken(sender, checksum, *ownerAddr, *saltHex, *name, *symbol)
	case "lockbox":
		derived, err = deriveLockbox(sender, checksum, *tokenAddr, *assetAddr, *native)
	default:
		log.Fatalf("unsupported mode '%s'", *mode)
	}
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(address.Uint160ToString(derived))
}

func deriveToken(sender util.Uint160, checksum uint32, ownerAddr, saltHex, name, symbol string) (util.Uint160, error) {
	switch {
	case ownerAddr == "":
		return util.Uint160{}, fmt.Errorf("missing owner address")
	case name == "":
		return util.Uint160{}, fmt.Errorf("missing token name")
	case symbol == "":
		return util.Uint160{}, fmt.Errorf("missing token symbol")
	}

	owner, err := address.StringToUint160(ownerAddr)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("decode owner address: %w", err)
	}

	salt := make([]byte, factory.SaltLen)
	if saltHex != "" {
		salt, err = hex.DecodeString(saltHex)
		if err != nil {
			return util.Uint160{}, fmt.Errorf("decode salt: %w", err)
		}
	}

	return factory.DeriveToken(sender, checksum, owner, salt, name, symbol)
}

func deriveLockbox(sender util.Uint160, checksum uint32, tokenAddr, assetAddr string, native bool) (util.Uint160, error) {
	if tokenAddr == "" {
		return util.Uint160{}, fmt.Errorf("missing token address")
	}

	token, err := address.StringToUint160(tokenAddr)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("decode token address: %w", err)
	}

	var baseAsset util.Uint160

	switch {
	case native && assetAddr != "":
		return util.Uint160{}, fmt.Errorf("base asset must be omitted in native mode")
	case !native && assetAddr == "":
		return util.Uint160{}, fmt.Errorf("missing base asset address")
	case !native:
		baseAsset, err = address.StringToUint160(assetAddr)
		if err != nil {
			return util.Uint160{}, fmt.Errorf("decode base asset address: %w", err)
		}
	}

	return factory.DeriveLockbox(sender, checksum, token, baseAsset, native)
}

func readNEFChecksum(path string) (uint32, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	f, err := nef.FileFromBytes(raw)
	if err != nil {
		return 0, fmt.Errorf("decode NEF file: %w", err)
	}

	return f.Checksum, nil
}
