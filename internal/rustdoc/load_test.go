package rustdoc

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pubcrates/internal/errors"
	"pubcrates/internal/testutil"
)

func TestLoad_Fixture(t *testing.T) {
	fixture := testutil.LoadFixture(t, "basic")

	artifact, err := Load(context.Background(), fixture.DocJSONPath)
	require.NoError(t, err)

	crate := artifact.Crate
	assert.Equal(t, "foo", crate.Name())
	assert.Equal(t, 24, crate.FormatVersion)
	assert.Len(t, crate.ExternalCrates, 3)
	assert.Equal(t, Fingerprint(fixture.ReadDocJSON(t)), artifact.Fingerprint)
	assert.Len(t, artifact.Fingerprint, 64)

	name, ok := crate.ExternalCrateName(1)
	require.True(t, ok)
	assert.Equal(t, "bar", name)

	path, ok := crate.DisplayPath("1:6")
	require.True(t, ok)
	assert.Equal(t, "bar::inner::Other", path)

	_, ok = crate.DisplayPath("9:9")
	assert.False(t, ok)
}

func TestLoad_Compressed(t *testing.T) {
	fixture := testutil.LoadFixture(t, "basic")
	raw := fixture.ReadDocJSON(t)
	dir := t.TempDir()

	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	_, err := zw.Write(raw)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	gzPath := filepath.Join(dir, "foo.json.gz")
	require.NoError(t, os.WriteFile(gzPath, gz.Bytes(), 0o644))

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	zstPath := filepath.Join(dir, "foo.json.zst")
	require.NoError(t, os.WriteFile(zstPath, enc.EncodeAll(raw, nil), 0o644))
	require.NoError(t, enc.Close())

	for _, path := range []string{gzPath, zstPath} {
		artifact, err := Load(context.Background(), path)
		require.NoError(t, err, path)
		assert.Equal(t, "foo", artifact.Crate.Name())
		assert.Equal(t, Fingerprint(raw), artifact.Fingerprint, "fingerprint covers the uncompressed document")
		assert.Equal(t, len(raw), artifact.Size)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(context.Background(), filepath.Join(dir, "missing.json"))
	assert.True(t, errors.HasCode(err, errors.ArtifactNotFound), "got %v", err)

	garbage := filepath.Join(dir, "garbage.json")
	require.NoError(t, os.WriteFile(garbage, []byte(`{"index": `), 0o644))
	_, err = Load(context.Background(), garbage)
	assert.True(t, errors.HasCode(err, errors.ArtifactInvalid), "got %v", err)

	noIndex := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(noIndex, []byte(`{"root": "0:0"}`), 0o644))
	_, err = Load(context.Background(), noIndex)
	assert.True(t, errors.HasCode(err, errors.ArtifactInvalid), "got %v", err)
}

func TestCrate_LocalItems(t *testing.T) {
	fixture := testutil.LoadFixture(t, "basic")
	crate, err := Decode(fixture.ReadDocJSON(t))
	require.NoError(t, err)

	var ids []ID
	for _, item := range crate.LocalItems() {
		ids = append(ids, item.ID)
	}

	assert.Equal(t, []ID{"0:0", "0:1", "0:2", "0:3", "0:4", "0:5", "0:6", "0:7"}, ids)
	assert.True(t, crate.IsExternal(1))
	assert.False(t, crate.IsExternal(0))
}

func TestSpan_Less(t *testing.T) {
	at := func(file string, bl, bc, el, ec int) Span {
		return Span{Filename: file, Begin: Position{bl, bc}, End: Position{el, ec}}
	}

	ordered := []Span{
		at("a.rs", 1, 1, 1, 5),
		at("a.rs", 1, 1, 2, 1),
		at("a.rs", 1, 2, 1, 3),
		at("a.rs", 10, 1, 10, 2),
		at("b.rs", 1, 1, 1, 1),
	}

	for i := 0; i+1 < len(ordered); i++ {
		assert.True(t, ordered[i].Less(ordered[i+1]), "%v < %v", ordered[i], ordered[i+1])
		assert.False(t, ordered[i+1].Less(ordered[i]))
	}
	assert.False(t, ordered[0].Less(ordered[0]))
}
