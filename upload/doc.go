// Package upload provides the resilient concurrent upload orchestrator.
//
// A batch of candidate files is reduced by content-based duplicate
// detection, then dispatched across a bounded worker pool. Each task runs a
// bounded retry loop with exponential backoff and jitter, guarded against
// duplicate in-flight submissions of the same store/file pair, and reports
// into a race-free status tracker that presentation layers may poll at any
// rate. Terminal conditions never escape as errors: every submitted task
// produces exactly one UploadResult.
package upload
