// Package detection segments a binarized page into text lines and, within
// each line, into words or characters.
//
// # Algorithm Overview
//
// Everything is driven by one projection-profile scanner (Segment):
//
//  1. Profile: for each row (or column) of a band, the fraction of text pixels
//  2. Runs: consecutive positions at or above a density threshold form a run;
//     a run shorter than MinRun is treated as noise
//  3. Intervals: surviving runs are reported as inclusive index ranges in
//     absolute mask coordinates
//
// BuildLines scans rows over the whole page. BuildWordsOrChars scans columns
// restricted to one line's rows, with looser thresholds for words and tighter
// ones for characters.
//
// # Polarity
//
// A Mask is just booleans. DetectPolarity decides which value is ink by
// sampling the perimeter inset one pixel from the border: the majority value
// is taken to be paper. The result is computed once per page and shared by
// every pass.
//
// # Gap Bridging
//
// Bridge dilates text pixels with a flat 1 x width (or width x 1) element so
// that close strokes fuse before a scan. Lines typically get wide horizontal
// bridging, words narrower bridging, characters none. A Document keeps the
// bridged masks next to the source mask and picks the right one per pass.
//
// # Coordinate System
//
// Masks are indexed (row, column) from the top-left corner. BoundingBox edges
// are inclusive on all four sides; use BoundingBox.Rect to get an
// image.Rectangle.
//
// # Thread Safety
//
// Masks are immutable. Once Document.Lines has returned, distinct lines can be
// passed to Document.Segment from separate goroutines.
package detection
