// Package reference loads the music reference database: a plain-text file
// read once at startup and shared read-only for the lifetime of the process.
//
// The text is passed verbatim to the metadata lookup as context. Lines of the
// form
//
//	LIBRARY <CODE> <Publisher name>
//
// declare production music libraries. A clip whose display name starts with
// "<CODE>_" is treated as library music from that publisher.
package reference
