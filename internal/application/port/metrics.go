package port

// Recorder receives operational counters from the use cases.
// The prometheus adapter implements it; tests use NopRecorder.
type Recorder interface {
	SessionsStored(local, synced int)
	SyncedWriteSkipped(reason string)
	TierWriteFailed(tier string)
	TabSuspended()
	TabRestored()
	OrphansSwept(n int)
	SearchPerformed(results int)
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) SessionsStored(int, int)   {}
func (NopRecorder) SyncedWriteSkipped(string) {}
func (NopRecorder) TierWriteFailed(string)    {}
func (NopRecorder) TabSuspended()             {}
func (NopRecorder) TabRestored()              {}
func (NopRecorder) OrphansSwept(int)          {}
func (NopRecorder) SearchPerformed(int)       {}
