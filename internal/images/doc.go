// Package images resolves scan image keys to short-lived display URLs,
// caching presigned results and discarding lookups for scans the user has
// already navigated away from.
package images
