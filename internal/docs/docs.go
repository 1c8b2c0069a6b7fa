// Package docs holds the OpenAPI document for the gateway, generated from the
// handler annotations with swag.
package docs

import (
	"net/http"

	"github.com/swaggo/swag"
)

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/flights/orders": {
            "post": {
                "description": "Books the first offer for the travelers, stores one row per traveler and segment, and renders a ticket.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["flights"],
                "summary": "Create a flight order",
                "parameters": [
                    {"description": "Offers and travelers", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateOrderRequest"}}
                ],
                "responses": {
                    "200": {"description": "Order booked", "schema": {"$ref": "#/definitions/rest.APIResponse"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/rest.APIResponse"}},
                    "401": {"description": "Inventory authentication failed", "schema": {"$ref": "#/definitions/rest.APIResponse"}},
                    "500": {"description": "Contract or persistence failure, order_data attached when booked", "schema": {"$ref": "#/definitions/rest.APIResponse"}}
                }
            }
        },
        "/api/v1/flights/start-booking": {
            "post": {
                "description": "Checks passport details for international offers and returns the amount in minor units.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["flights"],
                "summary": "Start a booking",
                "parameters": [
                    {"description": "Offer and travelers", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.StartBookingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/rest.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/rest.APIResponse"}}
                }
            }
        },
        "/api/v1/flights/price": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["flights"],
                "summary": "Price flight offers",
                "parameters": [
                    {"description": "Offers to price", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.PriceOffersRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/rest.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/rest.APIResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/rest.APIResponse"}}
                }
            }
        },
        "/api/v1/flight-orders/{orderID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["flight-orders"],
                "summary": "Get a flight order",
                "parameters": [
                    {"type": "string", "description": "Inventory order id", "name": "orderID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/rest.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/rest.APIResponse"}}
                }
            }
        },
        "/api/v1/airports/{iataCode}/country": {
            "get": {
                "produces": ["application/json"],
                "tags": ["airports"],
                "summary": "Airport country",
                "parameters": [
                    {"type": "string", "description": "IATA airport code", "name": "iataCode", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/rest.APIResponse"}}
                }
            }
        },
        "/api/v1/flights/search": {
            "get": {
                "description": "Runs a shopping search and adds airline and city names to every offer. Multicity searches take a JSON array of {from,to,date} in segments.",
                "produces": ["application/json"],
                "tags": ["search"],
                "summary": "Search flights",
                "parameters": [
                    {"type": "string", "default": "oneway", "description": "oneway, roundtrip or multicity", "name": "tripType", "in": "query"},
                    {"type": "string", "description": "Origin IATA code", "name": "from", "in": "query"},
                    {"type": "string", "description": "Destination IATA code", "name": "to", "in": "query"},
                    {"type": "string", "description": "Departure date, YYYY-MM-DD", "name": "date", "in": "query"},
                    {"type": "string", "description": "Return date for round trips", "name": "returnDate", "in": "query"},
                    {"type": "integer", "default": 1, "description": "Adult travelers", "name": "adults", "in": "query"},
                    {"type": "integer", "description": "Maximum offers per search", "name": "max", "in": "query"},
                    {"type": "string", "description": "Multicity legs as JSON", "name": "segments", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/rest.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/rest.APIResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/rest.APIResponse"}}
                }
            }
        },
        "/api/v1/flights/seat-map": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["search"],
                "summary": "Seat map",
                "parameters": [
                    {"description": "Offer to fetch seats for", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.SeatMapRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/rest.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/rest.APIResponse"}}
                }
            }
        },
        "/api/v1/locations": {
            "get": {
                "produces": ["application/json"],
                "tags": ["locations"],
                "summary": "Search locations",
                "parameters": [
                    {"type": "string", "description": "City or airport name, or an IATA code", "name": "keyword", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/rest.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/rest.APIResponse"}}
                }
            }
        },
        "/api/v1/locations/{locationID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["locations"],
                "summary": "Get a location",
                "parameters": [
                    {"type": "string", "description": "Inventory location id", "name": "locationID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/rest.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/rest.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.SeatMapRequest": {
            "type": "object",
            "properties": {
                "flightOffer": {"type": "object", "additionalProperties": true}
            }
        },
        "handlers.CreateOrderRequest": {
            "type": "object",
            "required": ["flightOffers", "travelers"],
            "properties": {
                "flightOffers": {"type": "array", "minItems": 1, "items": {"type": "object", "additionalProperties": true}},
                "travelers": {"type": "array", "minItems": 1, "items": {"type": "object", "additionalProperties": true}}
            }
        },
        "handlers.StartBookingRequest": {
            "type": "object",
            "required": ["flightOffer", "travelers"],
            "properties": {
                "flightOffer": {"type": "object", "additionalProperties": true},
                "travelers": {"type": "array", "minItems": 1, "items": {"type": "object", "additionalProperties": true}}
            }
        },
        "handlers.PriceOffersRequest": {
            "type": "object",
            "required": ["flightOffers"],
            "properties": {
                "flightOffers": {"type": "array", "minItems": 1, "items": {"type": "object", "additionalProperties": true}}
            }
        },
        "rest.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "PERSISTENCE_ERROR"},
                "message": {"type": "string"},
                "order_data": {"type": "object", "additionalProperties": true},
                "details": {"type": "object", "additionalProperties": true}
            }
        },
        "rest.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "error": {"$ref": "#/definitions/rest.APIError"}
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Skybook Gateway API",
	Description:      "Flight booking gateway in front of the Amadeus self-service APIs.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// RegisterRoutes serves the document at /swagger/doc.json.
func RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))
	})
}
