// Package docs holds the swagger spec served under /swagger/.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/ipfs/{cid}": {
            "get": {
                "description": "Fetches {IPFS_GATEWAY}{cid} and relays the content type and body. Any upstream failure becomes 500 \"Proxy error\".",
                "produces": ["application/octet-stream"],
                "tags": ["proxy"],
                "summary": "Relay an IPFS gateway fetch",
                "parameters": [
                    {"type": "string", "description": "Content identifier, optionally followed by a path", "name": "cid", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "string"}}
                }
            }
        },
        "/nft/{contract}/owners/{owner}": {
            "get": {
                "description": "Enumerates ERC-721 tokens of owner in contract and resolves their metadata and images through the IPFS gateway",
                "produces": ["application/json"],
                "tags": ["nft"],
                "summary": "List an owner's tokens",
                "parameters": [
                    {"type": "string", "description": "ERC-721 contract address", "name": "contract", "in": "path", "required": true},
                    {"type": "string", "description": "Owner address", "name": "owner", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.GalleryResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/vault/gateway": {
            "put": {
                "consumes": ["application/json"],
                "tags": ["vault"],
                "summary": "Override the payload gateway for this session",
                "parameters": [
                    {"description": "Gateway base URL, empty to reset", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.GatewayRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/vault/logs": {
            "get": {
                "produces": ["application/json"],
                "tags": ["vault"],
                "summary": "Session log",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.LogResponse"}}
                }
            }
        },
        "/vault/session": {
            "post": {
                "produces": ["application/json"],
                "tags": ["vault"],
                "summary": "Connect the configured wallet",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.LogResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["vault"],
                "summary": "Disconnect the wallet and drop the session log",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/vault/tokens": {
            "get": {
                "produces": ["application/json"],
                "tags": ["vault"],
                "summary": "List downloadable tokens",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.TokenListResponse"}}
                }
            }
        },
        "/vault/tokens/{id}/download": {
            "post": {
                "description": "Signs a challenge with the connected wallet, derives the key, fetches the payload by CID, decrypts it and returns it as an attachment",
                "produces": ["application/octet-stream"],
                "tags": ["vault"],
                "summary": "Unlock and download a token's file",
                "parameters": [
                    {"type": "string", "description": "Token id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.GatewayRequest": {
            "type": "object",
            "properties": {"gateway": {"type": "string"}}
        },
        "model.ErrorResponse": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "error": {"type": "string"}}
        },
        "model.GalleryResponse": {
            "type": "object",
            "properties": {
                "balance": {"type": "string"},
                "cards": {"type": "array", "items": {"$ref": "#/definitions/model.NFTCard"}},
                "contract": {"type": "string"},
                "enumerated": {"type": "boolean"},
                "owner": {"type": "string"}
            }
        },
        "model.LogResponse": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "lines": {"type": "array", "items": {"type": "string"}},
                "sessionId": {"type": "string"}
            }
        },
        "model.NFTCard": {
            "type": "object",
            "properties": {
                "attributes": {"type": "array", "items": {"type": "object"}},
                "description": {"type": "string"},
                "error": {"type": "string"},
                "image": {"type": "string"},
                "metadataUrl": {"type": "string"},
                "name": {"type": "string"},
                "tokenId": {"type": "string"},
                "tokenUri": {"type": "string"}
            }
        },
        "model.Token": {
            "type": "object",
            "properties": {
                "cid": {"type": "string"},
                "fileName": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "model.TokenListResponse": {
            "type": "object",
            "properties": {"tokens": {"type": "array", "items": {"$ref": "#/definitions/model.Token"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "nftvault API",
	Description:      "IPFS proxy, token-gated file vault and ERC-721 gallery.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
