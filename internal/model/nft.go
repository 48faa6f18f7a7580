package model

import "encoding/json"

// TokenMetadata is the ERC-721 metadata JSON document.
// Only the commonly used fields are decoded; attributes are kept raw.
type TokenMetadata struct {
	Name        string          `json:"name,omitempty"`
	Description string          `json:"description,omitempty"`
	Image       string          `json:"image,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
	Attributes  json.RawMessage `json:"attributes,omitempty"`
}

// ImageSource returns image, falling back to image_url.
func (m *TokenMetadata) ImageSource() string {
	if m.Image != "" {
		return m.Image
	}
	return m.ImageURL
}

// NFTCard is one rendered token of a gallery
type NFTCard struct {
	TokenID     string          `json:"tokenId"`
	TokenURI    string          `json:"tokenUri,omitempty"`
	MetadataURL string          `json:"metadataUrl,omitempty"`
	Name        string          `json:"name,omitempty"`
	Description string          `json:"description,omitempty"`
	Image       string          `json:"image,omitempty"`
	Attributes  json.RawMessage `json:"attributes,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// GalleryResponse represents response for GET /nft/{contract}/owners/{owner}
type GalleryResponse struct {
	Contract   string    `json:"contract"`
	Owner      string    `json:"owner"`
	Balance    string    `json:"balance"`
	Enumerated bool      `json:"enumerated"` // false when the owner index was unavailable and a supply scan was used
	Cards      []NFTCard `json:"cards"`
}
