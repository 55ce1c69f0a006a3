package models

// UploadedAsset describes a file accepted by the upload gate. It is not
// persisted in the database; the caller stores URL in a content section.
type UploadedAsset struct {
	StoredFilename string
	OriginalName   string
	SizeBytes      int64
	MimeType       string
	URL            string
}
