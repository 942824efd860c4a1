// Package file stores user uploads.
//
// S3Storage writes objects to an S3 (or S3-compatible) bucket under random
// "<uuid>.<ext>" keys using aws-sdk-go-v2. LocalStorage keeps the same keys in
// a directory for development setups without a bucket. Open sniffs the
// content type of a multipart upload and ValidateImage enforces the avatar constraints:
//
//	u, closer, err := file.Open(fh)
//	if err != nil {
//		return err
//	}
//	defer closer.Close()
//	if err := file.ValidateImage(u, file.MaxAvatarSize); err != nil {
//		return err
//	}
//	key, err := storage.Upload(ctx, u)
package file
