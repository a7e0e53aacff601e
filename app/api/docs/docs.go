// Package docs serves the swagger document of the annotated handlers
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
        "/activities": {
            "get": {
                "produces": ["application/json"],
                "tags": ["activities"],
                "summary": "List auction activities",
                "parameters": [
                    {"type": "integer", "example": 0, "description": "paging offset", "name": "offset", "in": "query"},
                    {"type": "integer", "example": 20, "description": "paging size", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "auction id", "name": "auctionId", "in": "query"},
                    {"type": "string", "description": "account address", "name": "account", "in": "query"},
                    {
                        "type": "array",
                        "items": {
                            "enum": ["createAuction", "placeBid", "bidRefunded", "resultAuction", "wonAuction", "cancelAuction"],
                            "type": "string"
                        },
                        "collectionFormat": "csv",
                        "description": "activity types",
                        "name": "types",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/activity.SearchResult"}},
                    "400": {"description": "Bad Request"},
                    "500": {"description": "Internal Server Error"}
                }
            }
        },
        "/auctions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auctions"],
                "summary": "List auctions",
                "parameters": [
                    {"type": "integer", "example": 0, "description": "paging offset", "name": "offset", "in": "query"},
                    {"type": "integer", "example": 20, "description": "paging size", "name": "limit", "in": "query"},
                    {"type": "string", "description": "seller address", "name": "seller", "in": "query"},
                    {"type": "string", "description": "current highest bidder", "name": "bidder", "in": "query"},
                    {"type": "string", "description": "nft contract address", "name": "nftContract", "in": "query"},
                    {"enum": ["normal", "ended", "canceled"], "type": "string", "description": "auction status", "name": "status", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/auction.Auction"}}},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/auctions/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auctions"],
                "summary": "Get auction",
                "parameters": [
                    {"type": "integer", "example": 0, "description": "auction id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/auction.Auction"}},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/auctions/{id}/bid": {
            "post": {
                "description": "the native currency auction attaches amount as the transaction value",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auctions"],
                "summary": "Place a bid",
                "parameters": [
                    {"type": "integer", "example": 0, "description": "auction id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ledger.Receipt"}},
                    "400": {"description": "Bad Request"}
                }
            }
        }
    },
    "definitions": {
        "activity.Activity": {
            "type": "object",
            "properties": {
                "chainId": {"type": "integer"},
                "contractAddress": {"type": "string"},
                "auctionId": {"type": "integer"},
                "nftContract": {"type": "string"},
                "itemId": {"type": "string"},
                "type": {"type": "string"},
                "account": {"type": "string"},
                "price": {"type": "string"},
                "displayPrice": {"type": "string"},
                "blockNumber": {"type": "integer"},
                "txHash": {"type": "string"},
                "logIndex": {"type": "integer"},
                "time": {"type": "string"}
            }
        },
        "activity.SearchResult": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/activity.Activity"}}
            }
        },
        "auction.Auction": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "seller": {"type": "string"},
                "nftContract": {"type": "string"},
                "itemId": {"type": "integer"},
                "start": {"type": "integer"},
                "end": {"type": "integer"},
                "price": {"type": "integer"},
                "bidder": {"type": "string"},
                "status": {"type": "integer", "description": "0 normal, 1 ended, 2 canceled"}
            }
        },
        "ledger.Receipt": {
            "type": "object",
            "properties": {
                "txHash": {"type": "string"},
                "blockNumber": {"type": "integer"},
                "blockTime": {"type": "integer"},
                "from": {"type": "string"},
                "to": {"type": "string"},
                "logs": {"type": "array", "items": {"type": "object"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "",
	Schemes:          []string{},
	Title:            "NFT Auction API",
	Description:      "HTTP surface of the in-process auction ledger.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
