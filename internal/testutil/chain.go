// Package testutil provides in-memory fakes shared by package tests.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"slices"
	"sync"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// FakeERC721 is an in-memory ERC-721 contract answering eth_call through bind.ContractCaller.
// Calls listed in Unsupported revert, mimicking contracts without ERC721Enumerable.
type FakeERC721 struct {
	ABI         abi.ABI
	Owners      map[int64]common.Address
	URIs        map[int64]string
	Unsupported map[string]bool

	mu    sync.Mutex
	calls []string
}

// NewFakeERC721 creates an empty contract speaking the given ABI
func NewFakeERC721(contractABI abi.ABI) *FakeERC721 {
	return &FakeERC721{
		ABI:         contractABI,
		Owners:      map[int64]common.Address{},
		URIs:        map[int64]string{},
		Unsupported: map[string]bool{},
	}
}

// Mint assigns tokenID to owner with a metadata uri
func (f *FakeERC721) Mint(tokenID int64, owner common.Address, uri string) {
	f.Owners[tokenID] = owner
	f.URIs[tokenID] = uri
}

// Calls returns the method names called so far
func (f *FakeERC721) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// CodeAt reports non-empty code so bound calls proceed
func (f *FakeERC721) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return []byte{0x60, 0x80}, nil
}

// CallContract decodes the selector and answers from the in-memory state
func (f *FakeERC721) CallContract(_ context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if len(call.Data) < 4 {
		return nil, errors.New("short calldata")
	}
	method, err := f.ABI.MethodById(call.Data[:4])
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.calls = append(f.calls, method.Name)
	f.mu.Unlock()

	if f.Unsupported[method.Name] {
		return nil, errors.New("execution reverted")
	}
	args, err := method.Inputs.Unpack(call.Data[4:])
	if err != nil {
		return nil, err
	}

	ids := f.sortedIDs()
	switch method.Name {
	case "balanceOf":
		owner := args[0].(common.Address)
		n := 0
		for _, id := range ids {
			if f.Owners[id] == owner {
				n++
			}
		}
		return method.Outputs.Pack(big.NewInt(int64(n)))
	case "tokenOfOwnerByIndex":
		owner, index := args[0].(common.Address), args[1].(*big.Int).Int64()
		for _, id := range ids {
			if f.Owners[id] != owner {
				continue
			}
			if index == 0 {
				return method.Outputs.Pack(big.NewInt(id))
			}
			index--
		}
		return nil, errors.New("execution reverted: owner index out of bounds")
	case "totalSupply":
		return method.Outputs.Pack(big.NewInt(int64(len(ids))))
	case "tokenByIndex":
		index := args[0].(*big.Int).Int64()
		if index < 0 || index >= int64(len(ids)) {
			return nil, errors.New("execution reverted: global index out of bounds")
		}
		return method.Outputs.Pack(big.NewInt(ids[index]))
	case "ownerOf":
		owner, ok := f.Owners[args[0].(*big.Int).Int64()]
		if !ok {
			return nil, errors.New("execution reverted: nonexistent token")
		}
		return method.Outputs.Pack(owner)
	case "tokenURI":
		uri, ok := f.URIs[args[0].(*big.Int).Int64()]
		if !ok {
			return nil, errors.New("execution reverted: nonexistent token")
		}
		return method.Outputs.Pack(uri)
	}
	return nil, fmt.Errorf("unexpected method %s", method.Name)
}

func (f *FakeERC721) sortedIDs() []int64 {
	ids := make([]int64, 0, len(f.Owners))
	for id := range f.Owners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
