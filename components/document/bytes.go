package document

import (
	"bytes"
	"strconv"
)

// Bytes is an in-memory source, typically an uploaded file.
type Bytes struct {
	*bytes.Reader
	Content
}

var _ Source = (*Bytes)(nil)

func NewBytes(name string, data []byte) *Bytes {
	return &Bytes{
		Reader: bytes.NewReader(data),
		Content: Content{
			name: name,
			meta: map[string]string{
				"source":   "upload",
				"filename": name,
				"size":     strconv.Itoa(len(data)),
			},
		},
	}
}

