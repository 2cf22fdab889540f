package blob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/roadwise/roadwise/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesystemBlobStore(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "files")
	store, err := NewFilesystemBlobStore(dir)
	require.NoError(t, err)

	url, err := store.Put(ctx, []byte("jpeg bytes"), "image/jpeg", "licenses/abc.jpg")
	require.NoError(t, err)
	assert.Equal(t, "file://"+filepath.Join(dir, "licenses", "abc.jpg"), url)

	data, err := store.Get(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))

	// Keys cannot escape the directory.
	url, err = store.Put(ctx, []byte("x"), "text/plain", "../../escape.txt")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "file://"+dir), url)

	_, err = store.Get(ctx, "file:///etc/passwd")
	assert.Error(t, err)
	_, err = store.Get(ctx, "s3://bucket/key")
	assert.Error(t, err)

	url, err = store.Put(ctx, []byte("anon"), "", "")
	require.NoError(t, err)
	assert.Contains(t, url, "blob-")
}

type fakeS3 struct {
	objects map[string][]byte
	err     error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, _ := io.ReadAll(in.Body)
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestS3BlobStore(t *testing.T) {
	ctx := context.Background()
	fake := &fakeS3{objects: map[string][]byte{}}
	store := &S3BlobStore{client: fake, bucket: "licences"}

	url, err := store.Put(ctx, []byte("png"), "image/png", "licenses/x.png")
	require.NoError(t, err)
	assert.Equal(t, "s3://licences/licenses/x.png", url)

	data, err := store.Get(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	_, err = store.Get(ctx, "s3://other/licenses/x.png")
	assert.Error(t, err)
	_, err = store.Get(ctx, "file:///tmp/x")
	assert.Error(t, err)

	fake.err = errors.New("denied")
	_, err = store.Put(ctx, []byte("png"), "image/png", "k")
	assert.ErrorContains(t, err, "denied")
}

func TestNew(t *testing.T) {
	ctx := context.Background()
	store, err := New(ctx, config.BlobConfig{Directory: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FilesystemBlobStore{}, store)

	_, err = New(ctx, config.BlobConfig{Driver: "s3"})
	assert.Error(t, err)

	_, err = New(ctx, config.BlobConfig{Driver: "ftp"})
	assert.Error(t, err)
}

func TestLicenseKey(t *testing.T) {
	key := LicenseKey("scan.JPG", "image/jpeg")
	assert.True(t, strings.HasPrefix(key, "licenses/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))

	assert.True(t, strings.HasSuffix(LicenseKey("blob", "image/png"), ".png"))
	assert.NotEqual(t, LicenseKey("a.png", ""), LicenseKey("a.png", ""))
}
