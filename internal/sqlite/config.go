package sqlite

import (
	"net/url"
	"strings"
)

type Config struct {
	file   string
	params url.Values
}

type ConfigFunc = func(c *Config)

// WithURI sets the database location: a file path, optionally followed by
// driver query parameters, or ":memory:".
func WithURI(uri string) ConfigFunc {
	uri = strings.TrimSpace(uri)

	file, query, _ := strings.Cut(uri, "?")
	if file == "" {
		panic("URI can't be blank")
	}

	params, err := url.ParseQuery(query)
	if err != nil {
		panic("URI query is invalid")
	}

	return func(c *Config) {
		c.file = file
		c.params = params
	}
}
