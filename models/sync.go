package models

// SyncStatus tells whether a sync operation ran or why it was skipped.
type SyncStatus string

const (
	SyncCompleted              SyncStatus = "completed"
	SyncSkippedUnauthenticated SyncStatus = "skipped_unauthenticated"
	SyncSkippedInFlight        SyncStatus = "skipped_in_flight"
)

// SyncReport summarizes one push, pull or full sync run.
type SyncReport struct {
	Status SyncStatus `json:"status"`

	MedicationsPushed int `json:"medications_pushed"`
	MedicationsFailed int `json:"medications_failed"`
	LogsPushed        int `json:"logs_pushed"`
	LogsFailed        int `json:"logs_failed"`

	MedicationsPulled int `json:"medications_pulled"`
	LogsPulled        int `json:"logs_pulled"`
	OrphansRemoved    int `json:"orphans_removed"`
}

// Skipped reports whether the operation did not run at all.
func (r SyncReport) Skipped() bool {
	return r.Status != SyncCompleted
}

// Merge adds the counters of other to r. The status of r is kept.
func (r SyncReport) Merge(other SyncReport) SyncReport {
	r.MedicationsPushed += other.MedicationsPushed
	r.MedicationsFailed += other.MedicationsFailed
	r.LogsPushed += other.LogsPushed
	r.LogsFailed += other.LogsFailed
	r.MedicationsPulled += other.MedicationsPulled
	r.LogsPulled += other.LogsPulled
	r.OrphansRemoved += other.OrphansRemoved
	return r
}
