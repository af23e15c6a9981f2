package rustdoc

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/viant/afs"
	"golang.org/x/crypto/blake2b"

	"pubcrates/internal/errors"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Artifact is a decoded rustdoc JSON document together with where it came from.
type Artifact struct {
	Crate    *Crate
	Location string
	// Fingerprint is the hex BLAKE2b-256 digest of the uncompressed JSON.
	Fingerprint string
	Size        int
}

// Loader reads artifacts through an afs service, so locations may be local
// paths, file:// URLs or any scheme afs has registered.
type Loader struct {
	fs afs.Service
}

// NewLoader creates a Loader backed by the default afs service.
func NewLoader() *Loader {
	return &Loader{fs: afs.New()}
}

// Load is shorthand for NewLoader().Load.
func Load(ctx context.Context, location string) (*Artifact, error) {
	return NewLoader().Load(ctx, location)
}

// Load downloads, decompresses and decodes the document at location.
func (l *Loader) Load(ctx context.Context, location string) (*Artifact, error) {
	if !strings.Contains(location, "://") {
		if abs, err := filepath.Abs(location); err == nil {
			location = abs
		}
	}
	exists, err := l.fs.Exists(ctx, location)
	if err != nil || !exists {
		return nil, errors.New(errors.ArtifactNotFound,
			fmt.Sprintf("rustdoc JSON not found at %s", location), err, nil)
	}
	data, err := l.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, errors.New(errors.ArtifactNotFound,
			fmt.Sprintf("failed to read %s", location), err, nil)
	}
	data, err = decompress(location, data)
	if err != nil {
		return nil, errors.New(errors.ArtifactInvalid,
			fmt.Sprintf("failed to decompress %s", location), err, nil)
	}
	crate, err := Decode(data)
	if err != nil {
		return nil, errors.New(errors.ArtifactInvalid,
			fmt.Sprintf("failed to decode %s", location), err, nil)
	}
	return &Artifact{
		Crate:       crate,
		Location:    location,
		Fingerprint: Fingerprint(data),
		Size:        len(data),
	}, nil
}

// Decode parses an uncompressed rustdoc JSON document.
func Decode(data []byte) (*Crate, error) {
	var crate Crate
	if err := json.Unmarshal(data, &crate); err != nil {
		return nil, err
	}
	if crate.Index == nil {
		return nil, fmt.Errorf("document has no index")
	}
	return &crate, nil
}

// Fingerprint returns the hex BLAKE2b-256 digest of data.
func Fingerprint(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func decompress(location string, data []byte) ([]byte, error) {
	switch {
	case strings.HasSuffix(location, ".gz") || bytes.HasPrefix(data, gzipMagic):
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	case strings.HasSuffix(location, ".zst") || bytes.HasPrefix(data, zstdMagic):
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return dec.DecodeAll(data, nil)
	}
	return data, nil
}
