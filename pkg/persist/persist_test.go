package persist

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string         `json:"name"`
	Count int            `json:"count"`
	Items map[int]int    `json:"items,omitempty"`
	Tags  map[string]int `json:"tags,omitempty"`
}

func testPayload() payload {
	return payload{
		Name:  "Alice",
		Count: 3,
		Items: map[int]int{100: 2, 205: 1},
		Tags:  map[string]int{"level": 60},
	}
}

func TestCodecs_RoundTrip(t *testing.T) {
	t.Parallel()

	codecs := []Codec{NewJSONCodec(), NewGzipJSONCodec(), NewLZ4JSONCodec()}

	for _, codec := range codecs {
		var buf bytes.Buffer

		err := codec.Encode(&buf, testPayload())
		require.NoError(t, err, "codec %s", codec.Extension())

		var restored payload

		err = codec.Decode(bytes.NewReader(buf.Bytes()), &restored)
		require.NoError(t, err, "codec %s", codec.Extension())

		assert.Equal(t, testPayload(), restored, "codec %s", codec.Extension())
	}
}

func TestGzipJSONCodec_Deterministic(t *testing.T) {
	t.Parallel()

	codec := NewGzipJSONCodec()

	var first, second bytes.Buffer

	require.NoError(t, codec.Encode(&first, testPayload()))
	require.NoError(t, codec.Encode(&second, testPayload()))

	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestFSStore_PutGetHas(t *testing.T) {
	t.Parallel()

	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	defer store.Close()

	ok, err := store.Has("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = store.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put("k", []byte("v1")))
	require.NoError(t, store.Put("k", []byte("v2")))

	data, err := store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), data)

	ok, err = store.Has("k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBadgerStore_PutGetHas(t *testing.T) {
	t.Parallel()

	store, err := NewBadgerStoreInMemory()
	require.NoError(t, err)

	defer store.Close()

	_, err = store.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put("k", []byte("v")))

	data, err := store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), data)

	ok, err := store.Has("k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSaveLoadState(t *testing.T) {
	t.Parallel()

	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	codec := NewGzipJSONCodec()

	require.NoError(t, SaveState(store, "baseline_master", codec, testPayload()))

	var restored payload

	require.NoError(t, LoadState(store, "baseline_master", codec, &restored))
	assert.Equal(t, testPayload(), restored)

	size, err := Size(store, "baseline_master", codec)
	require.NoError(t, err)
	assert.Positive(t, size)

	err = LoadState(store, "absent", codec, &restored)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadState_Corrupt(t *testing.T) {
	t.Parallel()

	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Put("bad.json.gz", []byte("not gzip at all")))

	var restored payload

	err = LoadState(store, "bad", NewGzipJSONCodec(), &restored)
	assert.ErrorIs(t, err, ErrCorruptData)
}

func TestLoadFirst_PrefersEarlierSource(t *testing.T) {
	t.Parallel()

	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	gz := NewGzipJSONCodec()
	plain := NewJSONCodec()

	legacy := testPayload()
	legacy.Count = 1
	require.NoError(t, SaveState(store, "delta_daily_2026-02-06", plain, legacy))

	sources := []Source{
		{Basename: "delta_daily_2026-02-06", Codec: gz},
		{Basename: "delta_daily_2026-02-06", Codec: plain},
	}

	var got payload

	src, err := LoadFirst(store, sources, &got)
	require.NoError(t, err)
	assert.Equal(t, plain.Extension(), src.Codec.Extension())
	assert.Equal(t, 1, got.Count)

	// Once the current format exists it wins.
	current := testPayload()
	current.Count = 2
	require.NoError(t, SaveState(store, "delta_daily_2026-02-06", gz, current))

	got = payload{}

	src, err = LoadFirst(store, sources, &got)
	require.NoError(t, err)
	assert.Equal(t, gz.Extension(), src.Codec.Extension())
	assert.Equal(t, 2, got.Count)
}

func TestLoadFirst_NothingPresent(t *testing.T) {
	t.Parallel()

	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	var got payload

	_, err = LoadFirst(store, []Source{{Basename: "nope", Codec: NewJSONCodec()}}, &got)
	assert.ErrorIs(t, err, ErrNotFound)
}
