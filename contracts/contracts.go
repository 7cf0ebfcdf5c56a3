/*
Package contracts provides access to compiled Omnitoken contracts.

Unlike the factory itself, the token and lockbox contracts are never
deployed directly: their compiled artifacts are handed to the factory at its
deployment and instantiated by it on demand under per-deployment names.
*/
package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
)

const (
	factoryDir = "factory"
	tokenDir   = "token"
	lockboxDir = "lockbox"

	nefName      = "contract.nef"
	manifestName = "manifest.json"
)

// Contract groups information about a compiled Neo contract.
type Contract struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// Set is the full set of compiled Omnitoken contracts.
type Set struct {
	Factory Contract
	Token   Contract
	Lockbox Contract
}

var (
	errInvalidNEF      = errors.New("invalid NEF")
	errInvalidManifest = errors.New("invalid manifest")
)

// Read reads the compiled contracts from the given file system, e.g.
// os.DirFS over the build directory. Every contract is expected in its own
// directory as a contract.nef/manifest.json pair, the way neo-go compiler
// writes them.
func Read(_fs fs.FS) (Set, error) {
	var (
		res Set
		err error
	)

	if res.Factory, err = readContractFromDir(_fs, factoryDir); err != nil {
		return res, fmt.Errorf("read contract %s: %w", factoryDir, err)
	}
	if res.Token, err = readContractFromDir(_fs, tokenDir); err != nil {
		return res, fmt.Errorf("read contract %s: %w", tokenDir, err)
	}
	if res.Lockbox, err = readContractFromDir(_fs, lockboxDir); err != nil {
		return res, fmt.Errorf("read contract %s: %w", lockboxDir, err)
	}

	return res, nil
}

func readContractFromDir(_fs fs.FS, dir string) (Contract, error) {
	var c Contract

	// fs.FS uses "/" even on Windows, so filepath.Join() is not applicable.
	fNEF, err := _fs.Open(dir + "/" + nefName)
	if err != nil {
		return c, fmt.Errorf("open NEF: %w", err)
	}
	defer fNEF.Close()

	fManifest, err := _fs.Open(dir + "/" + manifestName)
	if err != nil {
		return c, fmt.Errorf("open manifest: %w", err)
	}
	defer fManifest.Close()

	bReader := io.NewBinReaderFromIO(fNEF)
	c.NEF.DecodeBinary(bReader)
	if bReader.Err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidNEF, bReader.Err)
	}

	err = json.NewDecoder(fManifest).Decode(&c.Manifest)
	if err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidManifest, err)
	}

	return c, nil
}
