package filestorage

import "mime/multipart"

// UploadResult describes where a stored object landed.
type UploadResult struct {
	URL  string // public URL the object is served from
	Path string // storage-relative path, e.g. <ownerID>/<uuid>.jpg
}

// PhotoStorage is the object-storage boundary for check-in photos. Uploads
// are not transactionally linked to ledger writes: a ledger failure after a
// successful upload orphans the object (logged by the caller, not hidden).
type PhotoStorage interface {
	// Upload stores a photo under the owner's prefix and returns its
	// public URL and storage path.
	Upload(fileHeader *multipart.FileHeader, ownerID string) (*UploadResult, error)

	// Delete removes a stored object by its storage path. Deleting a
	// missing object is not an error.
	Delete(path string) error
}

// Upload constraints for check-in photos.
const (
	MaxPhotoSize = 5 * 1024 * 1024 // 5MB
)

// AllowedPhotoTypes are the accepted content types for check-in photos.
var AllowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}
