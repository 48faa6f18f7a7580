package api

import (
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/AlexZinkM/nftvault/docs" // swagger spec
	"github.com/AlexZinkM/nftvault/internal/handler"
)

// Handlers groups everything the router mounts. Nil handlers leave their routes out.
type Handlers struct {
	Proxy   *handler.ProxyHandler
	Vault   *handler.VaultHandler
	NFT     *handler.NFTHandler
	Limiter *RateLimiter
}

// SetupRouter sets up router with handlers
func SetupRouter(h Handlers) http.Handler {
	r := mux.NewRouter()

	// Swagger UI
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	if h.Proxy != nil {
		var proxy http.Handler = http.HandlerFunc(h.Proxy.Fetch)
		if h.Limiter != nil {
			proxy = h.Limiter.Middleware(proxy)
		}
		r.Handle("/ipfs/{cid:.+}", proxy).Methods(http.MethodGet)
	}

	if h.Vault != nil {
		v := r.PathPrefix("/vault").Subrouter()
		v.HandleFunc("/tokens", h.Vault.ListTokens).Methods(http.MethodGet)
		v.HandleFunc("/tokens/{id}/download", h.Vault.Download).Methods(http.MethodPost)
		v.HandleFunc("/logs", h.Vault.Logs).Methods(http.MethodGet)
		v.HandleFunc("/session", h.Vault.Connect).Methods(http.MethodPost)
		v.HandleFunc("/session", h.Vault.Disconnect).Methods(http.MethodDelete)
		v.HandleFunc("/gateway", h.Vault.SetGateway).Methods(http.MethodPut)
	}

	if h.NFT != nil {
		r.HandleFunc("/nft/{contract}/owners/{owner}", h.NFT.Owned).Methods(http.MethodGet)
	}

	return r
}
