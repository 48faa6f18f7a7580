package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/AlexZinkM/nftvault/internal/crypto"
	"github.com/AlexZinkM/nftvault/internal/model"
	"github.com/AlexZinkM/nftvault/internal/session"
	"github.com/AlexZinkM/nftvault/internal/signer"
	"github.com/AlexZinkM/nftvault/vault"
)

// ConnectFunc produces the wallet a session connects to
type ConnectFunc func(ctx context.Context) (signer.Signer, error)

// VaultHandler serves the token catalog and the download pipeline
type VaultHandler struct {
	pipeline *vault.Pipeline
	catalog  *vault.Catalog
	session  *session.State
	connect  ConnectFunc
}

// NewVaultHandler creates a VaultHandler; connect may be nil when no wallet is configured
func NewVaultHandler(pipeline *vault.Pipeline, catalog *vault.Catalog, st *session.State, connect ConnectFunc) *VaultHandler {
	return &VaultHandler{pipeline: pipeline, catalog: catalog, session: st, connect: connect}
}

// ListTokens handles GET /vault/tokens
// @Summary      List downloadable tokens
// @Tags         vault
// @Produce      json
// @Success      200  {object}  model.TokenListResponse
// @Router       /vault/tokens [get]
func (h *VaultHandler) ListTokens(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.TokenListResponse{Tokens: h.catalog.Tokens()})
}

// Download handles POST /vault/tokens/{id}/download
// @Summary      Unlock and download a token's file
// @Description  Signs a challenge with the connected wallet, derives the key, fetches the payload by CID, decrypts it and returns it as an attachment
// @Tags         vault
// @Produce      octet-stream
// @Param        id   path      string  true  "Token id"
// @Success      200  {file}    binary
// @Failure      403  {object}  model.ErrorResponse
// @Failure      404  {object}  model.ErrorResponse
// @Failure      502  {object}  model.ErrorResponse
// @Router       /vault/tokens/{id}/download [post]
func (h *VaultHandler) Download(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	token, ok := h.catalog.Lookup(id)
	if !ok {
		writeError(w, http.StatusNotFound, model.CodeNotFound, fmt.Sprintf("unknown token %s", id))
		return
	}

	attachment := vault.SaverFunc(func(_ context.Context, fileName string, data []byte) error {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(fileName))
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.WriteHeader(http.StatusOK)
		_, err := w.Write(data)
		return err
	})

	if _, err := h.pipeline.DownloadTo(r.Context(), h.session, token, attachment); err != nil {
		status, code := downloadStatus(err)
		if status == 0 {
			// the attachment was already written, nothing left to report
			return
		}
		writeError(w, status, code, err.Error())
	}
}

// downloadStatus maps pipeline failures to HTTP; 0 means the response is already committed
func downloadStatus(err error) (int, string) {
	switch {
	case errors.Is(err, vault.ErrNoSigner):
		return http.StatusServiceUnavailable, model.CodeNoSigner
	case errors.Is(err, vault.ErrUnauthorized):
		return http.StatusForbidden, model.CodeUnauthorized
	case errors.Is(err, vault.ErrEmptyCID):
		return http.StatusNotFound, model.CodeNotFound
	case errors.Is(err, vault.ErrFetch):
		return http.StatusBadGateway, model.CodeFetchFailed
	case errors.Is(err, crypto.ErrPayloadTooShort), errors.Is(err, crypto.ErrDecrypt):
		return http.StatusUnprocessableEntity, model.CodeDecrypt
	case errors.Is(err, vault.ErrSave):
		return 0, ""
	default:
		return http.StatusInternalServerError, model.CodeInternal
	}
}

// Logs handles GET /vault/logs
// @Summary      Session log
// @Tags         vault
// @Produce      json
// @Success      200  {object}  model.LogResponse
// @Router       /vault/logs [get]
func (h *VaultHandler) Logs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.LogResponse{
		SessionID: h.session.ID(),
		Address:   h.session.Address(),
		Lines:     h.session.Logs(),
	})
}

// Connect handles POST /vault/session
// @Summary      Connect the configured wallet
// @Tags         vault
// @Produce      json
// @Success      200  {object}  model.LogResponse
// @Failure      503  {object}  model.ErrorResponse
// @Router       /vault/session [post]
func (h *VaultHandler) Connect(w http.ResponseWriter, r *http.Request) {
	if h.connect == nil {
		writeError(w, http.StatusServiceUnavailable, model.CodeNoSigner, "no wallet configured")
		return
	}
	sg, err := h.connect(r.Context())
	if err != nil {
		h.session.Logf("Error: %v", err)
		writeError(w, http.StatusServiceUnavailable, model.CodeNoSigner, err.Error())
		return
	}
	h.session.Connect(sg)
	h.Logs(w, r)
}

// Disconnect handles DELETE /vault/session
// @Summary      Disconnect the wallet and drop the session log
// @Tags         vault
// @Success      204
// @Router       /vault/session [delete]
func (h *VaultHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	h.session.Disconnect()
	w.WriteHeader(http.StatusNoContent)
}

// GatewayRequest is the body of PUT /vault/gateway
type GatewayRequest struct {
	Gateway string `json:"gateway"`
}

// SetGateway handles PUT /vault/gateway
// @Summary      Override the payload gateway for this session
// @Tags         vault
// @Accept       json
// @Param        request  body  GatewayRequest  true  "Gateway base URL, empty to reset"
// @Success      204
// @Failure      400  {object}  model.ErrorResponse
// @Router       /vault/gateway [put]
func (h *VaultHandler) SetGateway(w http.ResponseWriter, r *http.Request) {
	var req GatewayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.CodeBadRequest, err.Error())
		return
	}
	if req.Gateway != "" {
		u, err := url.Parse(req.Gateway)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			writeError(w, http.StatusBadRequest, model.CodeBadRequest, "gateway must be an http(s) URL")
			return
		}
	}
	h.session.SetGateway(req.Gateway)
	h.session.Logf("Gateway set to %q", req.Gateway)
	w.WriteHeader(http.StatusNoContent)
}
