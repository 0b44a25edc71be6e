// Package imaging turns page files into the binary masks the detection
// package segments, and renders segmentation results back onto pixels.
//
// The flow for one page is:
//
//	img, _ := cache.Load(path)          // decode, native pixel type
//	gray, _ := imaging.Normalize(img)    // flatten alpha on white, 8-bit gray
//	mask, _ := imaging.Binarize(gray, t) // true where intensity > t
//
// followed, after segmentation, by Annotate and SaveVariants.
//
// # Coordinate System
//
// Pixel operations use image.Point (X = column, Y = row). Boxes coming from
// the detection package use inclusive row/column bounds and are converted
// with BoundingBox.Rect. Masks always start at (0, 0) even if the source
// image bounds do not.
//
// # Pixel Formats
//
// Gray (1 channel), YCbCr (3 channels) and the RGBA family (4 channels) are
// accepted. Alpha is composited over white before grayscale conversion so
// transparent margins read as paper. Anything else fails with
// segerr.UnsupportedPixelFormat.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Individual image operations
// are stateless and can be called concurrently on different images. DrawBox
// mutates its target and must not race with readers of that image.
//
// # Performance Considerations
//
// For repeated operations on the same image, use ImageCache to avoid redundant
// disk reads. Large images may consume significant memory when cached.
// Consider using Evict() or Clear() to manage memory for long-running processes.
package imaging
