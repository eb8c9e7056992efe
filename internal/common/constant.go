package common

// ImagesURLPrefix is the public path prefix under which bound images are served.
const ImagesURLPrefix = "/images/"

// MaxImageSize is the largest accepted avatar upload, in bytes.
const MaxImageSize int64 = 5 * 1024 * 1024
