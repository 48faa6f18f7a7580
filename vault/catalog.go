package vault

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AlexZinkM/nftvault/internal/model"
)

// Catalog is the immutable list of downloadable tokens
type Catalog struct {
	tokens []model.Token
	byID   map[string]model.Token
}

// DefaultTokens is the built-in catalog used when no TOKENS_FILE is configured
var DefaultTokens = []model.Token{
	{ID: "1", Name: "Genesis Key", CID: "", FileName: "genesis.bin"},
}

type catalogFile struct {
	Tokens []model.Token `yaml:"tokens"`
}

// NewCatalog validates tokens and indexes them by id
func NewCatalog(tokens []model.Token) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]model.Token, len(tokens))}
	for _, t := range tokens {
		t.CID = strings.TrimSpace(t.CID)
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate token id %s", t.ID)
		}
		c.byID[t.ID] = t
		c.tokens = append(c.tokens, t)
	}
	return c, nil
}

// LoadCatalog reads a YAML catalog:
//
//	tokens:
//	  - id: "1"
//	    name: Genesis Key
//	    cid: bafy...
//	    fileName: genesis.bin
//
// An empty path returns the built-in catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return NewCatalog(DefaultTokens)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return NewCatalog(f.Tokens)
}

// Tokens returns a copy of the catalog in file order
func (c *Catalog) Tokens() []model.Token {
	return append([]model.Token(nil), c.tokens...)
}

// Lookup finds a token by id
func (c *Catalog) Lookup(id string) (model.Token, bool) {
	t, ok := c.byID[id]
	return t, ok
}
