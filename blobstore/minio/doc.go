// Package minio provides a blobstore.Store implementation using the MinIO
// client, for publishing filesystem snapshots to MinIO and other
// S3-compatible storage systems (Ceph, Garage, SeaweedFS).
//
// # Basic Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "my-bucket", "volumes/root/")
//	err = fsys.SaveToStore(ctx, store, "snap-1")
package minio
