package photo

import "errors"

var (
	ErrPhotoNotFound = errors.New("photo not found")
	ErrTooManyPhotos = errors.New("photo limit reached for listing")
	ErrInvalidImage  = errors.New("invalid or unsupported image")
)
