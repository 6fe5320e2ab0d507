// Package schemas holds the JSON Schema documents shipped with the binary.
package schemas

import _ "embed"

// CV is the JSON Schema of a CV document.
//
//go:embed cv.schema.json
var CV []byte
