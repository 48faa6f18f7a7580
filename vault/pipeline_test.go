package vault

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/AlexZinkM/nftvault/internal/auth"
	"github.com/AlexZinkM/nftvault/internal/client"
	"github.com/AlexZinkM/nftvault/internal/crypto"
	"github.com/AlexZinkM/nftvault/internal/model"
	"github.com/AlexZinkM/nftvault/internal/session"
	"github.com/AlexZinkM/nftvault/internal/signer"
	"github.com/AlexZinkM/nftvault/internal/testutil"
)

var fixedNow = time.UnixMilli(1_760_000_000_123)

type fixture struct {
	signer  *testutil.CountingSigner
	policy  *auth.Policy
	session *session.State
	hits    *atomic.Int32
	gateway *httptest.Server
	payload map[string]string
}

func newFixture(t *testing.T, authorized bool) *fixture {
	t.Helper()
	key, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	local := signer.NewLocalSigner(key)

	allowed := "0x8617E340B3D01FA5F11F306F4090FD50E238070D"
	if authorized {
		allowed = local.Address().Hex()
	}
	policy, err := auth.NewPolicy([]string{allowed})
	require.NoError(t, err)

	f := &fixture{
		signer:  &testutil.CountingSigner{Inner: local},
		policy:  policy,
		session: session.New(),
		hits:    &atomic.Int32{},
		payload: map[string]string{},
	}
	f.gateway = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		body, ok := f.payload[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(f.gateway.Close)
	f.session.Connect(f.signer)
	return f
}

func (f *fixture) pipeline(opts ...Option) *Pipeline {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewPipeline(f.policy, f.gateway.URL+"/ipfs/", opts...)
}

func TestDownloadRoundTrip(t *testing.T) {
	f := newFixture(t, true)
	dir := t.TempDir()
	p := f.pipeline(WithSaver(FileSaver{Dir: dir}))
	token := model.Token{ID: "7", Name: "Seven", CID: "0xbafyseven", FileName: "seven.txt"}

	sealed, err := p.Seal(context.Background(), f.session, token, []byte("hello vault"), fixedNow)
	require.NoError(t, err)
	f.payload["/ipfs/bafyseven"] = sealed + "\n"

	plaintext, err := p.Download(context.Background(), f.session, token)
	require.NoError(t, err)
	require.Equal(t, "hello vault", string(plaintext))

	saved, err := os.ReadFile(filepath.Join(dir, "seven.txt"))
	require.NoError(t, err)
	require.Equal(t, "hello vault", string(saved))

	require.Equal(t, BuildChallenge("7", fixedNow), f.signer.Messages[len(f.signer.Messages)-1])
	require.Contains(t, f.session.Logs()[len(f.session.Logs())-1], "Saved seven.txt")
}

func TestDownloadUnauthorizedNeverSignsOrFetches(t *testing.T) {
	f := newFixture(t, false)
	p := f.pipeline()

	_, err := p.Download(context.Background(), f.session, model.Token{ID: "1", CID: "bafy", FileName: "a"})
	require.ErrorIs(t, err, ErrUnauthorized)
	require.Zero(t, f.signer.Count())
	require.Zero(t, f.hits.Load())
	require.Contains(t, f.session.Logs()[len(f.session.Logs())-1], "Error: address is not authorized")
}

func TestDownloadNoSigner(t *testing.T) {
	f := newFixture(t, true)
	f.session.Disconnect()

	_, err := f.pipeline().Download(context.Background(), f.session, model.Token{ID: "1", CID: "bafy", FileName: "a"})
	require.ErrorIs(t, err, ErrNoSigner)
	require.Zero(t, f.signer.Count())
}

func TestDownloadEmptyCID(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.pipeline().Download(context.Background(), f.session, model.Token{ID: "1", FileName: "a"})
	require.ErrorIs(t, err, ErrEmptyCID)
	require.Zero(t, f.hits.Load())
}

func TestDownloadFetchFailure(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.pipeline().Download(context.Background(), f.session, model.Token{ID: "1", CID: "missing", FileName: "a"})
	require.ErrorIs(t, err, ErrFetch)
	require.Equal(t, int32(1), f.hits.Load())
}

func TestDownloadPayloadTooShort(t *testing.T) {
	f := newFixture(t, true)
	f.payload["/ipfs/short"] = base64.StdEncoding.EncodeToString(make([]byte, 12))

	_, err := f.pipeline().Download(context.Background(), f.session, model.Token{ID: "1", CID: "short", FileName: "a"})
	require.ErrorIs(t, err, crypto.ErrPayloadTooShort)
}

func TestDownloadWrongTimestampFailsAuthentication(t *testing.T) {
	f := newFixture(t, true)
	p := f.pipeline()
	token := model.Token{ID: "1", CID: "bafy", FileName: "a"}

	sealed, err := p.Seal(context.Background(), f.session, token, []byte("x"), fixedNow.Add(time.Millisecond))
	require.NoError(t, err)
	f.payload["/ipfs/bafy"] = sealed

	_, err = p.Download(context.Background(), f.session, token)
	require.ErrorIs(t, err, crypto.ErrDecrypt)
}

type fetcherFunc func(ctx context.Context, id string) (string, error)

func (f fetcherFunc) Name() string { return "func" }

func (f fetcherFunc) FetchByIdentifier(ctx context.Context, id string) (string, error) {
	return f(ctx, id)
}

func TestDownloadStrategiesBeforeGateway(t *testing.T) {
	f := newFixture(t, true)
	token := model.Token{ID: "2", CID: "bafytwo", FileName: "b"}
	sealed, err := f.pipeline().Seal(context.Background(), f.session, token, []byte("from storage"), fixedNow)
	require.NoError(t, err)

	storage := fetcherFunc(func(_ context.Context, id string) (string, error) {
		require.Equal(t, "bafytwo", id)
		return sealed, nil
	})
	plaintext, err := f.pipeline(WithStrategies(nil, storage)).Download(context.Background(), f.session, token)
	require.NoError(t, err)
	require.Equal(t, "from storage", string(plaintext))
	require.Zero(t, f.hits.Load())

	broken := fetcherFunc(func(context.Context, string) (string, error) { return "", errors.New("sdk down") })
	f.payload["/ipfs/bafytwo"] = sealed
	plaintext, err = f.pipeline(WithStrategies(broken)).Download(context.Background(), f.session, token)
	require.NoError(t, err)
	require.Equal(t, "from storage", string(plaintext))
	require.Equal(t, int32(1), f.hits.Load())
}

func TestDownloadSessionGatewayOverride(t *testing.T) {
	f := newFixture(t, true)
	token := model.Token{ID: "3", CID: "bafythree", FileName: "c"}
	p := NewPipeline(f.policy, "http://127.0.0.1:1/unreachable/", WithClock(func() time.Time { return fixedNow }))

	sealed, err := p.Seal(context.Background(), f.session, token, []byte("override"), fixedNow)
	require.NoError(t, err)
	f.payload["/ipfs/bafythree"] = sealed

	f.session.SetGateway(f.gateway.URL + "/ipfs/")
	plaintext, err := p.Download(context.Background(), f.session, token)
	require.NoError(t, err)
	require.Equal(t, "override", string(plaintext))
}

func TestSealRequiresAuthorization(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.pipeline().Seal(context.Background(), f.session, model.Token{ID: "1"}, []byte("x"), fixedNow)
	require.ErrorIs(t, err, ErrUnauthorized)
}

var _ client.Fetcher = fetcherFunc(nil)
