package common

const (
	// AuthorizationHeaderName carries the bearer token on admin requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the token in the Authorization header.
	BearerPrefix = "Bearer "

	// UploadFormField is the multipart field holding the uploaded file.
	UploadFormField = "file"
)
