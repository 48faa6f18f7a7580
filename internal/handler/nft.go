package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/AlexZinkM/nftvault/internal/model"
	"github.com/AlexZinkM/nftvault/nft"
)

// NFTHandler serves ERC-721 galleries
type NFTHandler struct {
	gallery *nft.Gallery
}

// NewNFTHandler creates a new NFTHandler
func NewNFTHandler(gallery *nft.Gallery) *NFTHandler {
	return &NFTHandler{gallery: gallery}
}

// Owned handles GET /nft/{contract}/owners/{owner}
// @Summary      List an owner's tokens
// @Description  Enumerates ERC-721 tokens of owner in contract and resolves their metadata and images through the IPFS gateway
// @Tags         nft
// @Produce      json
// @Param        contract  path      string  true  "ERC-721 contract address"
// @Param        owner     path      string  true  "Owner address"
// @Success      200       {object}  model.GalleryResponse
// @Failure      400       {object}  model.ErrorResponse
// @Failure      502       {object}  model.ErrorResponse
// @Router       /nft/{contract}/owners/{owner} [get]
func (h *NFTHandler) Owned(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	resp, err := h.gallery.ListOwned(r.Context(), vars["contract"], vars["owner"])
	if err != nil {
		if nft.IsInputError(err) {
			writeError(w, http.StatusBadRequest, model.CodeBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusBadGateway, model.CodeInternal, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
