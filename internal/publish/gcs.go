package publish

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"cloud.google.com/go/storage"
)

// UploadArtifacts copies local files into gs://bucket/prefix/<basename>,
// one object per file. A single storage client is shared across the
// batch. Assumes Application Default Credentials.
func UploadArtifacts(ctx context.Context, bucket, prefix string, paths []string) error {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("UploadArtifacts: storage client: %w", err)
	}
	defer client.Close()

	bkt := client.Bucket(bucket)
	for _, p := range paths {
		object := path.Join(prefix, filepath.Base(p))
		if err := uploadFile(ctx, bkt, object, p); err != nil {
			return err
		}
	}
	return nil
}

func uploadFile(ctx context.Context, bkt *storage.BucketHandle, object, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open %s: %w", filePath, err)
	}
	defer f.Close()

	w := bkt.Object(object).NewWriter(ctx)
	if _, err := io.Copy(w, f); err != nil {
		w.Close()
		return fmt.Errorf("upload %s to %s: %w", filePath, object, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize upload of %s: %w", object, err)
	}
	return nil
}
