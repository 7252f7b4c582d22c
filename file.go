package deq

import (
	"net/url"
	"strings"
)

// FileConfig describes the SQLite file backing a persistent buffer.
type FileConfig struct {
	path    string
	durable bool
}

// File returns a FileConfig for the given path.
func File(file string) *FileConfig {
	return &FileConfig{path: strings.TrimSpace(file)}
}

// Durable makes every snapshot write wait for a full fsync at the cost of
// slower saves. Maps to SQLite synchronous=FULL.
func (c *FileConfig) Durable(durable bool) *FileConfig {
	c.durable = durable
	return c
}

func (c *FileConfig) uri() string {
	query := url.Values{}
	if c.durable {
		query.Set("_sync", "full")
	}

	uri, err := url.Parse(c.path)
	if err != nil {
		return c.path + "?" + query.Encode()
	}

	uri.RawQuery = query.Encode()

	return uri.String()
}
