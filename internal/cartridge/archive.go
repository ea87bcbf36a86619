package cartridge

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"

	"github.com/bodgit/sevenzip"

	"gbxcore/internal/corerr"
)

// LoadROM reads filename and, if its extension names a supported
// archive or compression format, decompresses the first contained
// entry rather than the container itself. Plain .gb/.gbc/.bin/.agb
// images pass through untouched.
func LoadROM(filename string) ([]byte, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, corerr.HostIO(true, err, "opening ROM file %q", filename)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, corerr.HostIO(true, err, "reading ROM file %q", filename)
	}

	switch filepath.Ext(filename) {
	case ".gz":
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, corerr.BadROM(true, "invalid gzip archive: %v", err)
		}
		return io.ReadAll(r)
	case ".zip":
		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, corerr.BadROM(true, "invalid zip archive: %v", err)
		}
		if len(zr.File) == 0 {
			return nil, corerr.BadROM(true, "zip archive contains no files")
		}
		rc, err := zr.File[0].Open()
		if err != nil {
			return nil, corerr.BadROM(true, "opening first zip entry: %v", err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	case ".7z":
		zr, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, corerr.BadROM(true, "invalid 7z archive: %v", err)
		}
		if len(zr.File) == 0 {
			return nil, corerr.BadROM(true, "7z archive contains no files")
		}
		rc, err := zr.File[0].Open()
		if err != nil {
			return nil, corerr.BadROM(true, "opening first 7z entry: %v", err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	default:
		return data, nil
	}
}
