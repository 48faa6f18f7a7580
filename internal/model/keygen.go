package model

// KeygenResponse is printed by `nftvault keygen`
type KeygenResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Address string `json:"address,omitempty"`
	Path    string `json:"path,omitempty"`
}
