// Package schemas embeds the JSON Schema documents of the Twitter streams.
package schemas

import (
	"embed"
	"fmt"
)

//go:embed *.schema.json
var files embed.FS

// Load returns the schema document for a stream.
func Load(stream string) ([]byte, error) {
	data, err := files.ReadFile(stream + ".schema.json")
	if err != nil {
		return nil, fmt.Errorf("load schema %s: %w", stream, err)
	}
	return data, nil
}

// MustLoad is Load for the streams compiled into this package.
func MustLoad(stream string) []byte {
	data, err := Load(stream)
	if err != nil {
		panic(err)
	}
	return data
}
