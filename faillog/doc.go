// Package faillog defines durable storage for upload failure records, so
// operators can review what went wrong after a batch without scraping logs.
package faillog
