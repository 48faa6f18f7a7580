// Package nft renders the ERC-721 tokens an address owns.
package nft

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/AlexZinkM/nftvault/internal/client"
	"github.com/AlexZinkM/nftvault/internal/model"
)

// InputError is returned for malformed contract or owner addresses
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

// IsInputError checks if error is InputError
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

// maxScan caps the totalSupply fallback so a huge collection cannot pin a request
const maxScan = 10_000

// Gallery lists tokens and resolves their metadata through a gateway
type Gallery struct {
	caller   bind.ContractCaller
	metadata *client.MetadataClient
}

// NewGallery creates a gallery reading contracts through caller
func NewGallery(caller bind.ContractCaller, metadata *client.MetadataClient) *Gallery {
	return &Gallery{caller: caller, metadata: metadata}
}

// ListOwned returns one card per token owner holds in contract.
// Enumeration uses tokenOfOwnerByIndex; contracts without it are scanned with
// totalSupply/tokenByIndex/ownerOf. Metadata failures are reported per card.
func (g *Gallery) ListOwned(ctx context.Context, contract, owner string) (*model.GalleryResponse, error) {
	if !common.IsHexAddress(owner) {
		return nil, &InputError{Message: fmt.Sprintf("invalid owner address: %q", owner)}
	}
	ownerAddr := common.HexToAddress(owner)

	erc721, err := client.NewERC721Client(contract, g.caller)
	if err != nil {
		return nil, &InputError{Message: err.Error()}
	}

	balance, err := erc721.BalanceOf(ctx, ownerAddr)
	if err != nil {
		return nil, err
	}

	resp := &model.GalleryResponse{
		Contract:   erc721.Address().Hex(),
		Owner:      ownerAddr.Hex(),
		Balance:    balance.String(),
		Enumerated: true,
		Cards:      []model.NFTCard{},
	}
	if balance.Sign() == 0 {
		return resp, nil
	}

	ids, err := ownedByIndex(ctx, erc721, ownerAddr, balance)
	if err != nil {
		slog.DebugContext(ctx, "owner enumeration unavailable, scanning supply", "contract", contract, "error", err)
		resp.Enumerated = false
		ids, err = ownedByScan(ctx, erc721, ownerAddr, balance)
		if err != nil {
			return nil, err
		}
	}

	for _, id := range ids {
		resp.Cards = append(resp.Cards, g.card(ctx, erc721, id))
	}
	return resp, nil
}

func ownedByIndex(ctx context.Context, c *client.ERC721Client, owner common.Address, balance *big.Int) ([]*big.Int, error) {
	n := capped(balance)
	ids := make([]*big.Int, 0, n)
	for i := int64(0); i < n; i++ {
		id, err := c.TokenOfOwnerByIndex(ctx, owner, big.NewInt(i))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func ownedByScan(ctx context.Context, c *client.ERC721Client, owner common.Address, balance *big.Int) ([]*big.Int, error) {
	supply, err := c.TotalSupply(ctx)
	if err != nil {
		return nil, fmt.Errorf("contract supports neither owner nor supply enumeration: %w", err)
	}
	limit, want := capped(supply), capped(balance)

	var ids []*big.Int
	for i := int64(0); i < limit && int64(len(ids)) < want; i++ {
		id, err := c.TokenByIndex(ctx, big.NewInt(i))
		if err != nil {
			return nil, err
		}
		holder, err := c.OwnerOf(ctx, id)
		if err != nil {
			continue
		}
		if holder == owner {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func capped(n *big.Int) int64 {
	if !n.IsInt64() || n.Int64() > maxScan {
		return maxScan
	}
	return n.Int64()
}

func (g *Gallery) card(ctx context.Context, c *client.ERC721Client, id *big.Int) model.NFTCard {
	card := model.NFTCard{TokenID: id.String()}

	uri, err := c.TokenURI(ctx, id)
	if err != nil {
		card.Error = err.Error()
		return card
	}
	card.TokenURI = uri
	card.MetadataURL = g.metadata.ResolveURL(uri)

	meta, err := g.metadata.Fetch(ctx, uri)
	if err != nil {
		card.Error = err.Error()
		return card
	}
	card.Name = meta.Name
	card.Description = meta.Description
	card.Attributes = meta.Attributes
	if src := meta.ImageSource(); src != "" {
		card.Image = g.metadata.ResolveURL(src)
	}
	return card
}
