// Package s3 implements blobstore.Store for Amazon S3, plus a DynamoDB
// backed snapshot catalog for atomic publication of new images.
package s3
