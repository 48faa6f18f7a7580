package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/AlexZinkM/nftvault/internal/auth"
	"github.com/AlexZinkM/nftvault/internal/model"
	"github.com/AlexZinkM/nftvault/internal/session"
	"github.com/AlexZinkM/nftvault/internal/signer"
	"github.com/AlexZinkM/nftvault/vault"
)

var handlerNow = time.UnixMilli(1_760_000_000_000)

type vaultFixture struct {
	handler  *VaultHandler
	pipeline *vault.Pipeline
	session  *session.State
	local    *signer.LocalSigner
	payloads map[string]string
}

func newVaultFixture(t *testing.T) *vaultFixture {
	t.Helper()
	key, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	local := signer.NewLocalSigner(key)

	f := &vaultFixture{local: local, session: session.New(), payloads: map[string]string{}}
	gw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := f.payloads[strings.TrimPrefix(r.URL.Path, "/ipfs/")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(gw.Close)

	policy, err := auth.NewPolicy([]string{local.Address().Hex()})
	require.NoError(t, err)
	f.pipeline = vault.NewPipeline(policy, gw.URL+"/ipfs/", vault.WithClock(func() time.Time { return handlerNow }))

	catalog, err := vault.NewCatalog([]model.Token{
		{ID: "1", Name: "One", CID: "bafyone", FileName: "one.txt"},
		{ID: "2", Name: "Two", CID: "bafymissing", FileName: "two.txt"},
		{ID: "3", Name: "Three", FileName: "three.txt"},
	})
	require.NoError(t, err)

	connect := func(context.Context) (signer.Signer, error) { return local, nil }
	f.handler = NewVaultHandler(f.pipeline, catalog, f.session, connect)
	return f
}

func (f *vaultFixture) download(id string) *httptest.ResponseRecorder {
	req := mux.SetURLVars(httptest.NewRequest(http.MethodPost, "/vault/tokens/"+id+"/download", nil), map[string]string{"id": id})
	rec := httptest.NewRecorder()
	f.handler.Download(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) model.ErrorResponse {
	t.Helper()
	var resp model.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestVaultDownloadAttachment(t *testing.T) {
	f := newVaultFixture(t)
	f.session.Connect(f.local)
	token := model.Token{ID: "1", CID: "bafyone", FileName: "one.txt"}
	sealed, err := f.pipeline.Seal(context.Background(), f.session, token, []byte("secret file"), handlerNow)
	require.NoError(t, err)
	f.payloads["bafyone"] = sealed

	rec := f.download("1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "secret file", rec.Body.String())
	require.Equal(t, "attachment; filename*=UTF-8''one.txt", rec.Header().Get("Content-Disposition"))
}

func TestVaultDownloadErrors(t *testing.T) {
	f := newVaultFixture(t)

	rec := f.download("9")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.download("1")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, model.CodeNoSigner, decodeError(t, rec).Code)

	f.session.Connect(f.local)

	rec = f.download("2")
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Equal(t, model.CodeFetchFailed, decodeError(t, rec).Code)

	rec = f.download("3")
	require.Equal(t, http.StatusNotFound, rec.Code)

	f.payloads["bafyone"] = "AAAA"
	rec = f.download("1")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, model.CodeDecrypt, decodeError(t, rec).Code)
}

func TestVaultDownloadUnauthorized(t *testing.T) {
	f := newVaultFixture(t)
	key, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	f.session.Connect(signer.NewLocalSigner(key))

	rec := f.download("1")
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, model.CodeUnauthorized, decodeError(t, rec).Code)
}

func TestVaultSessionLifecycle(t *testing.T) {
	f := newVaultFixture(t)

	rec := httptest.NewRecorder()
	f.handler.Connect(rec, httptest.NewRequest(http.MethodPost, "/vault/session", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var logs model.LogResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&logs))
	require.Equal(t, f.local.Address().Hex(), logs.Address)
	require.Len(t, logs.Lines, 1)

	rec = httptest.NewRecorder()
	f.handler.Disconnect(rec, httptest.NewRequest(http.MethodDelete, "/vault/session", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Nil(t, f.session.Signer())
}

func TestVaultConnectFailure(t *testing.T) {
	f := newVaultFixture(t)
	f.handler.connect = func(context.Context) (signer.Signer, error) { return nil, errors.New("wallet locked") }

	rec := httptest.NewRecorder()
	f.handler.Connect(rec, httptest.NewRequest(http.MethodPost, "/vault/session", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Contains(t, f.session.Logs()[0], "wallet locked")
}

func TestVaultSetGateway(t *testing.T) {
	f := newVaultFixture(t)

	rec := httptest.NewRecorder()
	f.handler.SetGateway(rec, httptest.NewRequest(http.MethodPut, "/vault/gateway", strings.NewReader(`{"gateway":"https://dweb.link/ipfs/"}`)))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "https://dweb.link/ipfs/", f.session.Gateway())

	rec = httptest.NewRecorder()
	f.handler.SetGateway(rec, httptest.NewRequest(http.MethodPut, "/vault/gateway", strings.NewReader(`{"gateway":"ftp://x"}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVaultListTokens(t *testing.T) {
	f := newVaultFixture(t)

	rec := httptest.NewRecorder()
	f.handler.ListTokens(rec, httptest.NewRequest(http.MethodGet, "/vault/tokens", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.TokenListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Tokens, 3)
}
