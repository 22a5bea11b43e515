package storage

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type fakeObjects struct {
	puts    []*s3.PutObjectInput
	deletes []string
	err     error
}

func (f *fakeObjects) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func newStore(objects ObjectAPI) *ImageStore {
	s := NewImageStore(objects, "ads-bucket", "https://cdn.example.com/", DefaultPolicy())
	s.now = func() time.Time { return time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC) }
	return s
}

func TestPutStoresValidImage(t *testing.T) {
	objects := &fakeObjects{}
	up, err := newStore(objects).Put(context.Background(), "image/png", int64(len(pngHeader)), bytes.NewReader(pngHeader))
	require.NoError(t, err)

	require.Len(t, objects.puts, 1)
	assert.Equal(t, "ads-bucket", aws.ToString(objects.puts[0].Bucket))
	assert.Equal(t, "image/png", aws.ToString(objects.puts[0].ContentType))
	assert.True(t, strings.HasPrefix(up.Key, "ads/2026/02/"))
	assert.True(t, strings.HasSuffix(up.Key, ".png"))
	assert.Equal(t, "https://cdn.example.com/"+up.Key, up.URL)
}

func TestPutRejectsBeforeAnyNetworkCall(t *testing.T) {
	big := append(append([]byte{}, pngHeader...), make([]byte, MaxImageSize)...)
	cases := []struct {
		name     string
		declared string
		size     int64
		body     []byte
	}{
		{"declared too large", "image/png", MaxImageSize + 1, pngHeader},
		{"actual too large", "image/png", 0, big},
		{"declared gif", "image/gif", 10, pngHeader},
		{"content not an image", "image/png", 0, []byte("plain text pretending")},
		{"empty", "image/png", 0, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			objects := &fakeObjects{}
			_, err := newStore(objects).Put(context.Background(), tc.declared, tc.size, bytes.NewReader(tc.body))
			var perr *PolicyError
			require.ErrorAs(t, err, &perr)
			assert.Empty(t, objects.puts)
		})
	}
}

func TestPutWrapsStorageErrors(t *testing.T) {
	boom := errors.New("r2 unavailable")
	_, err := newStore(&fakeObjects{err: boom}).Put(context.Background(), "", 0, bytes.NewReader(pngHeader))
	assert.ErrorIs(t, err, boom)
}

func TestDeleteOnlyWithinPrefix(t *testing.T) {
	objects := &fakeObjects{}
	s := newStore(objects)

	require.NoError(t, s.Delete(context.Background(), "/ads/2026/02/a.png"))
	assert.Equal(t, []string{"ads/2026/02/a.png"}, objects.deletes)

	var perr *PolicyError
	assert.ErrorAs(t, s.Delete(context.Background(), "avatars/x.png"), &perr)
}

func TestPolicyAcceptsJPGAlias(t *testing.T) {
	jpeg := []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01")
	mime, err := DefaultPolicy().Check("image/jpg", jpeg)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mime.String())
}

func TestNewR2ImageStoreRequiresConfig(t *testing.T) {
	_, err := NewR2ImageStore(nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}
