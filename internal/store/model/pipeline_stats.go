package model

// PipelineStats is a point in time view of the record store.
type PipelineStats struct {
	JobsByStatus      map[string]int64
	CandidatesByStage map[string]int64
	SubmissionsTotal  int64
	AssessmentsTotal  int64
}
