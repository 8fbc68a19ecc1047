package conversion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassthroughConverter(t *testing.T) {
	dir := t.TempDir()
	pdfPath := filepath.Join(dir, "caja.pdf")
	cdrPath := filepath.Join(dir, "caja.cdr")
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF-1.7\n%%EOF\n"), 0o600))
	require.NoError(t, os.WriteFile(cdrPath, []byte("RIFF....CDR"), 0o600))

	out, err := PassthroughConverter{}.Convert(context.Background(), pdfPath)
	require.NoError(t, err)
	assert.Equal(t, pdfPath, out)

	_, err = PassthroughConverter{}.Convert(context.Background(), cdrPath)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.True(t, IsPermanent(err))

	_, err = PassthroughConverter{}.Convert(context.Background(), filepath.Join(dir, "missing.pdf"))
	assert.True(t, IsPermanent(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = PassthroughConverter{}.Convert(ctx, pdfPath)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPermanent(t *testing.T) {
	assert.NoError(t, Permanent(nil))

	inner := errors.New("bad input")
	err := Permanent(inner)
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "bad input", err.Error())
	assert.False(t, IsPermanent(inner))
}

func TestResolver_Resolve(t *testing.T) {
	media := t.TempDir()
	legacy := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(media, "cdr_files"), 0o755))
	inMedia := filepath.Join(media, "cdr_files", "nuevo.cdr")
	inLegacy := filepath.Join(legacy, "viejo.cdr")
	require.NoError(t, os.WriteFile(inMedia, []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(inLegacy, []byte("x"), 0o600))

	r := Resolver{MediaRoot: media, LegacyDir: legacy}

	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "relative under media root", src: "cdr_files/nuevo.cdr", want: inMedia},
		{name: "relative only in legacy dir", src: "cdr_files/viejo.cdr", want: inLegacy},
		{name: "absolute existing", src: inMedia, want: inMedia},
		{name: "absolute moved to legacy", src: "/old/server/cdr_files/viejo.cdr", want: inLegacy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := r.Resolve("cdr_files/none.cdr")
	assert.ErrorIs(t, err, ErrSourceNotFound)
	assert.Contains(t, err.Error(), filepath.Join(media, "cdr_files", "none.cdr"))

	_, err = r.Resolve("")
	assert.ErrorIs(t, err, ErrSourceNotFound)
}
