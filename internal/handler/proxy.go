package handler

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/ipfs/go-cid"

	"github.com/AlexZinkM/nftvault/internal/common"
)

const (
	proxyErrorBody     = "Proxy error"
	defaultContentType = "application/octet-stream"
)

// ProxyHandler relays gateway fetches so browsers avoid CORS restrictions
type ProxyHandler struct {
	gateway string
	client  *http.Client
}

// NewProxyHandler creates a proxy in front of gateway (e.g. https://ipfs.io/ipfs/)
func NewProxyHandler(gateway string, client *http.Client) *ProxyHandler {
	if client == nil {
		client = &http.Client{}
	}
	return &ProxyHandler{gateway: gateway, client: client}
}

// Fetch handles GET /ipfs/{cid}
// @Summary      Relay an IPFS gateway fetch
// @Description  Fetches {IPFS_GATEWAY}{cid} and relays the content type and body. Any upstream failure becomes 500 "Proxy error".
// @Tags         proxy
// @Produce      octet-stream
// @Param        cid  path  string  true  "Content identifier, optionally followed by a path"
// @Success      200  {file}    binary
// @Failure      500  {string}  string
// @Router       /ipfs/{cid} [get]
func (h *ProxyHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Access-Control-Allow-Origin", "*")

	path := canonicalPath(mux.Vars(r)["cid"])

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, common.GatewayURL(h.gateway, path), nil)
	if err != nil {
		h.fail(w, path, err)
		return
	}

	resp, err := h.client.Do(req)
	if err != nil {
		h.fail(w, path, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		h.fail(w, path, &upstreamStatusError{code: resp.StatusCode})
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultContentType
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, resp.Body); err != nil {
		// headers are gone already, only the log can tell
		slog.Warn("proxy body copy interrupted", "cid", path, "error", err)
	}
}

func (h *ProxyHandler) fail(w http.ResponseWriter, path string, err error) {
	slog.Error("proxy upstream failed", "cid", path, "error", err)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = io.WriteString(w, proxyErrorBody)
}

// canonicalPath re-encodes a parsable root CID in its canonical string form.
// Anything else is relayed untouched and left for the gateway to reject.
func canonicalPath(path string) string {
	root, rest, hasRest := strings.Cut(path, "/")
	c, err := cid.Parse(root)
	if err != nil {
		slog.Warn("proxy path does not start with a valid CID", "path", path, "error", err)
		return path
	}
	if hasRest {
		return c.String() + "/" + rest
	}
	return c.String()
}

type upstreamStatusError struct {
	code int
}

func (e *upstreamStatusError) Error() string {
	return "upstream returned " + http.StatusText(e.code)
}
