package constants

// JobStatus is the canonical status for asynchronous extraction jobs.
type JobStatus string

// Stable values (reported verbatim over the API).
const (
	JobStatusQueued  JobStatus = "QUEUED"  // waiting for a worker
	JobStatusRunning JobStatus = "RUNNING" // in progress
	JobStatusOK      JobStatus = "OK"      // record assembled
	JobStatusFailed  JobStatus = "FAILED"  // terminal failure
)
