// Package metadata derives custom metadata entries for files before upload:
// universal file properties, structured tokens parsed from the filename, and
// optionally AI-extracted keywords and title for plain-text content.
package metadata
