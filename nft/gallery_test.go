package nft

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/AlexZinkM/nftvault/internal/client"
	"github.com/AlexZinkM/nftvault/internal/testutil"
)

const contract = "0x00000000000000000000000000000000000000c0"

var (
	alice = common.HexToAddress("0x52908400098527886E0F7030069857D2E4169EE7")
	bob   = common.HexToAddress("0x8617E340B3D01FA5F11F306F4090FD50E238070D")
)

func newMetadataServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ipfs/bafymeta/1.json":
			_, _ = w.Write([]byte(`{"name":"One","image":"ipfs://bafyimg/1.png"}`))
		case "/ipfs/bafymeta/3.json":
			_, _ = w.Write([]byte(`{"name":"Three","image_url":"https://cdn.example/3.png","attributes":[]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newChain() *testutil.FakeERC721 {
	chain := testutil.NewFakeERC721(client.ERC721ABI())
	chain.Mint(1, alice, "ipfs://bafymeta/1.json")
	chain.Mint(2, bob, "ipfs://bafymeta/2.json")
	chain.Mint(3, alice, "ipfs://bafymeta/3.json")
	chain.Mint(4, alice, "ipfs://bafymeta/missing.json")
	return chain
}

func TestListOwnedEnumerable(t *testing.T) {
	srv := newMetadataServer(t)
	g := NewGallery(newChain(), client.NewMetadataClient(srv.URL+"/ipfs/"))

	resp, err := g.ListOwned(context.Background(), contract, alice.Hex())
	require.NoError(t, err)
	require.True(t, resp.Enumerated)
	require.Equal(t, "3", resp.Balance)
	require.Len(t, resp.Cards, 3)

	require.Equal(t, "One", resp.Cards[0].Name)
	require.Equal(t, srv.URL+"/ipfs/bafyimg/1.png", resp.Cards[0].Image)
	require.Equal(t, srv.URL+"/ipfs/bafymeta/1.json", resp.Cards[0].MetadataURL)

	require.Equal(t, "Three", resp.Cards[1].Name)
	require.Equal(t, "https://cdn.example/3.png", resp.Cards[1].Image)

	require.Equal(t, "4", resp.Cards[2].TokenID)
	require.Contains(t, resp.Cards[2].Error, "status 404")
}

func TestListOwnedFallsBackToSupplyScan(t *testing.T) {
	srv := newMetadataServer(t)
	chain := newChain()
	chain.Unsupported["tokenOfOwnerByIndex"] = true
	g := NewGallery(chain, client.NewMetadataClient(srv.URL+"/ipfs/"))

	resp, err := g.ListOwned(context.Background(), contract, bob.Hex())
	require.NoError(t, err)
	require.False(t, resp.Enumerated)
	require.Len(t, resp.Cards, 1)
	require.Equal(t, "2", resp.Cards[0].TokenID)
	require.Contains(t, chain.Calls(), "tokenByIndex")
}

func TestListOwnedNoEnumeration(t *testing.T) {
	chain := newChain()
	chain.Unsupported["tokenOfOwnerByIndex"] = true
	chain.Unsupported["totalSupply"] = true
	g := NewGallery(chain, client.NewMetadataClient("https://ipfs.io/ipfs/"))

	_, err := g.ListOwned(context.Background(), contract, alice.Hex())
	require.ErrorContains(t, err, "neither owner nor supply enumeration")
}

func TestListOwnedEmptyAndInvalid(t *testing.T) {
	g := NewGallery(newChain(), client.NewMetadataClient("https://ipfs.io/ipfs/"))

	resp, err := g.ListOwned(context.Background(), contract, "0x000000000000000000000000000000000000dEaD")
	require.NoError(t, err)
	require.Equal(t, "0", resp.Balance)
	require.Empty(t, resp.Cards)

	_, err = g.ListOwned(context.Background(), contract, "bob")
	require.ErrorContains(t, err, "invalid owner address")

	_, err = g.ListOwned(context.Background(), "0x1", alice.Hex())
	require.ErrorContains(t, err, "invalid contract address")
}
