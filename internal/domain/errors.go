package domain

import "errors"

var (
	ErrNotFound               = errors.New("check record not found")
	ErrMissingImage           = errors.New("no image data provided")
	ErrInvalidImageEncoding   = errors.New("image data is not valid base64")
	ErrUnsupportedContentType = errors.New("unsupported image content type")
	ErrGatewayFailure         = errors.New("model gateway call failed")
	ErrParseFailure           = errors.New("no parseable JSON object in model response")
	ErrPersistenceFailure     = errors.New("check record store operation failed")
)
