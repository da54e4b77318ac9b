package document

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
)

// ErrIsDirectory is returned by NewFile for directories.
var ErrIsDirectory = errors.New("document source is a directory")

// File is a document read from the local filesystem. The size is taken when
// the file is opened.
type File struct {
	*os.File
	Content
	size int64
}

var (
	_ Source  = (*File)(nil)
	_ fs.File = (*File)(nil)
)

func NewFile(path string) (*File, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := fp.Stat()
	if err == nil && info.IsDir() {
		err = ErrIsDirectory
	}
	if err != nil {
		fp.Close()
		return nil, err
	}
	return &File{
		File: fp,
		size: info.Size(),
		Content: Content{
			name: info.Name(),
			meta: map[string]string{
				"source":   "file",
				"filename": info.Name(),
				"path":     path,
				"modtime":  strconv.FormatInt(info.ModTime().Unix(), 10),
			},
		},
	}, nil
}

// Name returns the base name of the file.
func (f *File) Name() string {
	return f.Content.Name()
}

func (f *File) Size() int64 {
	return f.size
}
