// Package api embeds the console's OpenAPI document.
package api

import _ "embed"

//go:embed openapi.json
var OpenAPISpec []byte
