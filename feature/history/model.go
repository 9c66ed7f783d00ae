package history

import "time"

// TableName is the table holding runs.
const TableName = "sync_runs"

// Run is the outcome of one sync run.
type Run struct {
	ID         string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	Sync       string    `gorm:"column:sync;size:64;index" json:"sync"`
	StartedAt  time.Time `gorm:"column:started_at;index" json:"started_at"`
	FinishedAt time.Time `gorm:"column:finished_at" json:"finished_at"`
	DryRun     bool      `gorm:"column:dry_run" json:"dry_run"`
	Pushed     int       `gorm:"column:pushed" json:"pushed"`
	Created    int       `gorm:"column:created" json:"created"`
	Deleted    int       `gorm:"column:deleted" json:"deleted"`
	Merged     int       `gorm:"column:merged" json:"merged"`
	Ignored    int       `gorm:"column:ignored" json:"ignored"`
	Executed   int       `gorm:"column:executed" json:"executed"`
	Conflicts  int       `gorm:"column:conflicts" json:"conflicts"`
	Error      string    `gorm:"column:error;type:text" json:"error"`
}

// TableName implements gorm's tabler.
func (Run) TableName() string { return TableName }

// Columns lists the columns Migrate verifies.
var Columns = []string{
	"id", "sync", "started_at", "finished_at", "dry_run", "pushed", "created",
	"deleted", "merged", "ignored", "executed", "conflicts", "error",
}

// Duration returns how long the run took.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Failed reports whether the run stopped on an error.
func (r Run) Failed() bool {
	return r.Error != ""
}
