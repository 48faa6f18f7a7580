package client

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// erc721ABI covers the read-only calls the gallery uses
const erc721ABI = `[
 {"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
 {"type":"function","name":"ownerOf","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"address"}]},
 {"type":"function","name":"tokenURI","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"string"}]},
 {"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
 {"type":"function","name":"tokenByIndex","stateMutability":"view","inputs":[{"name":"index","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
 {"type":"function","name":"tokenOfOwnerByIndex","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"index","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]}
]`

var parsedERC721ABI = mustParseABI(erc721ABI)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}

// ERC721ABI exposes the parsed interface, tests use it to fake a chain
func ERC721ABI() abi.ABI {
	return parsedERC721ABI
}

// ERC721Client performs read-only ERC-721 calls against one contract
type ERC721Client struct {
	address  common.Address
	contract *bind.BoundContract
}

// DialEthereum connects to an Ethereum JSON-RPC endpoint
func DialEthereum(ctx context.Context, rpcURL string) (*ethclient.Client, error) {
	c, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", rpcURL, err)
	}
	return c, nil
}

// NewERC721Client binds a contract address to a chain backend
func NewERC721Client(address string, caller bind.ContractCaller) (*ERC721Client, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("invalid contract address: %q", address)
	}
	addr := common.HexToAddress(address)
	return &ERC721Client{
		address:  addr,
		contract: bind.NewBoundContract(addr, parsedERC721ABI, caller, nil, nil),
	}, nil
}

// Address returns the bound contract address
func (c *ERC721Client) Address() common.Address {
	return c.address
}

// BalanceOf returns the number of tokens held by owner
func (c *ERC721Client) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	return c.callBigInt(ctx, "balanceOf", owner)
}

// TokenOfOwnerByIndex returns owner's index-th token id (ERC721Enumerable)
func (c *ERC721Client) TokenOfOwnerByIndex(ctx context.Context, owner common.Address, index *big.Int) (*big.Int, error) {
	return c.callBigInt(ctx, "tokenOfOwnerByIndex", owner, index)
}

// TotalSupply returns the number of tokens in existence (ERC721Enumerable)
func (c *ERC721Client) TotalSupply(ctx context.Context) (*big.Int, error) {
	return c.callBigInt(ctx, "totalSupply")
}

// TokenByIndex returns the index-th token id of the whole collection (ERC721Enumerable)
func (c *ERC721Client) TokenByIndex(ctx context.Context, index *big.Int) (*big.Int, error) {
	return c.callBigInt(ctx, "tokenByIndex", index)
}

// OwnerOf returns the holder of tokenID
func (c *ERC721Client) OwnerOf(ctx context.Context, tokenID *big.Int) (common.Address, error) {
	var out []interface{}
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "ownerOf", tokenID); err != nil {
		return common.Address{}, fmt.Errorf("ownerOf(%s) failed: %w", tokenID, err)
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

// TokenURI returns the metadata URI of tokenID
func (c *ERC721Client) TokenURI(ctx context.Context, tokenID *big.Int) (string, error) {
	var out []interface{}
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "tokenURI", tokenID); err != nil {
		return "", fmt.Errorf("tokenURI(%s) failed: %w", tokenID, err)
	}
	return *abi.ConvertType(out[0], new(string)).(*string), nil
}

func (c *ERC721Client) callBigInt(ctx context.Context, method string, params ...interface{}) (*big.Int, error) {
	var out []interface{}
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, method, params...); err != nil {
		return nil, fmt.Errorf("%s failed: %w", method, err)
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}
