package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/talentflow/talentflow/internal/store"
	"go.uber.org/zap"
)

type pipelineStatsCollector struct {
	store             store.Store
	jobsByStatus      *prometheus.Desc
	candidatesByStage *prometheus.Desc
	submissions       *prometheus.Desc
	assessments       *prometheus.Desc
}

// NewPipelineStatsCollector reads the record store on every scrape.
func NewPipelineStatsCollector(s store.Store) prometheus.Collector {
	fqName := func(name string) string {
		return fmt.Sprintf("%s_pipeline_%s", talentflow, name)
	}

	return &pipelineStatsCollector{
		store: s,
		jobsByStatus: prometheus.NewDesc(
			fqName("jobs_total"),
			"Total number of jobs by status.",
			[]string{"status"},
			prometheus.Labels{},
		),
		candidatesByStage: prometheus.NewDesc(
			fqName("candidates_total"),
			"Total number of candidates by pipeline stage.",
			[]string{"stage"},
			prometheus.Labels{},
		),
		submissions: prometheus.NewDesc(
			fqName("submissions_total"),
			"Total number of assessment submissions.",
			nil,
			prometheus.Labels{},
		),
		assessments: prometheus.NewDesc(
			fqName("assessments_total"),
			"Total number of assessments.",
			nil,
			prometheus.Labels{},
		),
	}
}

func (c *pipelineStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.jobsByStatus
	ch <- c.candidatesByStage
	ch <- c.submissions
	ch <- c.assessments
}

// Collect implements Collector.
func (c *pipelineStatsCollector) Collect(ch chan<- prometheus.Metric) {
	stats, err := c.store.Statistics(context.Background())
	if err != nil {
		zap.S().Named("pipeline_collector").Errorf("failed to collect pipeline statistics: %s", err)
		return
	}

	for status, total := range stats.JobsByStatus {
		ch <- prometheus.MustNewConstMetric(c.jobsByStatus, prometheus.GaugeValue, float64(total), status)
	}
	for stage, total := range stats.CandidatesByStage {
		ch <- prometheus.MustNewConstMetric(c.candidatesByStage, prometheus.GaugeValue, float64(total), stage)
	}
	ch <- prometheus.MustNewConstMetric(c.submissions, prometheus.GaugeValue, float64(stats.SubmissionsTotal))
	ch <- prometheus.MustNewConstMetric(c.assessments, prometheus.GaugeValue, float64(stats.AssessmentsTotal))
}
