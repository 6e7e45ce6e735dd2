package local_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legalextract/internal/port"
	"legalextract/internal/storage/local"
)

func TestStorage_Upload(t *testing.T) {
	dir := t.TempDir()
	s, err := local.NewStorage(dir)
	require.NoError(t, err)

	out, err := s.Upload(context.Background(), port.UploadInput{
		Key:         "batch-1/extracted_data_case.pdf.csv",
		Body:        strings.NewReader("a,b\n1,2\n"),
		ContentType: "text/csv",
	})
	require.NoError(t, err)

	path := filepath.Join(dir, "batch-1", "extracted_data_case.pdf.csv")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(data))
	assert.Equal(t, "file://"+filepath.ToSlash(path), out.Location)

	url, err := s.GetPresignedURL(context.Background(), "", "batch-1/extracted_data_case.pdf.csv", 60)
	require.NoError(t, err)
	assert.Equal(t, out.Location, url)
}

func TestStorage_RejectsEscapingKey(t *testing.T) {
	s, err := local.NewStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Upload(context.Background(), port.UploadInput{
		Key:  "../outside.csv",
		Body: strings.NewReader("x"),
	})

	assert.Error(t, err)
}
