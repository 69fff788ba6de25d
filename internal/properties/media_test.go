package properties

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Marser321/punta-360-sub001/pkg/logging"
)

type fakeS3 struct {
	puts []s3.PutObjectInput
	err  error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.puts = append(f.puts, *params)
	return &s3.PutObjectOutput{}, nil
}

func TestMediaUploadRecordsURL(t *testing.T) {
	repo := NewInMemoryRepository()
	property := seedProperty(t, repo, "Casa", true)

	s3c := &fakeS3{}
	store := NewMediaStore(s3c, "punta360-media", "https://media.punta360.uy/", repo, logging.Default())

	url, err := store.Upload(context.Background(), property.ID, "frente.jpg", "image/jpeg", strings.NewReader("img"))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if len(s3c.puts) != 1 {
		t.Fatalf("expected one put, got %d", len(s3c.puts))
	}
	put := s3c.puts[0]
	if *put.Bucket != "punta360-media" {
		t.Errorf("bucket = %q", *put.Bucket)
	}
	if !strings.HasPrefix(*put.Key, "properties/"+property.ID+"/") || !strings.HasSuffix(*put.Key, ".jpg") {
		t.Errorf("key = %q", *put.Key)
	}
	if !strings.HasPrefix(url, "https://media.punta360.uy/properties/") {
		t.Errorf("url = %q", url)
	}

	stored, _ := repo.GetByID(context.Background(), property.ID)
	if len(stored.MediaURLs) != 1 || stored.MediaURLs[0] != url {
		t.Errorf("media urls = %v, want [%s]", stored.MediaURLs, url)
	}
}

func TestMediaUploadUnknownProperty(t *testing.T) {
	store := NewMediaStore(&fakeS3{}, "punta360-media", "https://media.punta360.uy", NewInMemoryRepository(), logging.Default())

	if _, err := store.Upload(context.Background(), "nope", "a.jpg", "image/jpeg", strings.NewReader("x")); !errors.Is(err, ErrPropertyNotFound) {
		t.Fatalf("expected ErrPropertyNotFound, got %v", err)
	}
}

func TestMediaUploadDisabled(t *testing.T) {
	store := NewMediaStore(nil, "", "", NewInMemoryRepository(), logging.Default())

	if _, err := store.Upload(context.Background(), "id", "a.jpg", "image/jpeg", strings.NewReader("x")); !errors.Is(err, ErrMediaDisabled) {
		t.Fatalf("expected ErrMediaDisabled, got %v", err)
	}
}
