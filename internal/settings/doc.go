// Package settings persists small named values between runs.
//
// The window orchestrator and the recent-file tracker read and write through
// the Store interface only. Keys are slash-separated names such as
// "InitialWindowPlacement/geometry"; values are opaque byte blobs or ordered
// string lists. An absent key reads as nil and is never an error.
//
// FileStore keeps the values in one JSON document:
//
//	{
//	  "InitialWindowPlacement/geometry": "AAAA...",   // base64 blob
//	  "recentFiles": ["/usr/bin/true", "/tmp/a.out"]
//	}
//
// Writes are buffered in memory until Sync, which replaces the file
// atomically.
package settings
