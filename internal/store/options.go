package store

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BaseQuerier struct {
	QueryFn []func(tx *gorm.DB) *gorm.DB
}

func apply(tx *gorm.DB, fns []func(*gorm.DB) *gorm.DB) *gorm.DB {
	for _, fn := range fns {
		tx = fn(tx)
	}
	return tx
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// likePattern matches term as a literal substring; use it with likeEscape.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(term))) + "%"
}

const likeEscape = ` ESCAPE '\'`

type JobQueryFilter BaseQuerier

func NewJobQueryFilter() *JobQueryFilter {
	return &JobQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (f *JobQueryFilter) ByStatus(status string) *JobQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("status = ?", status)
	})
	return f
}

// BySearch matches title, description or any tag, case-insensitively.
func (f *JobQueryFilter) BySearch(term string) *JobQueryFilter {
	pattern := likePattern(term)
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("LOWER(title) LIKE ?"+likeEscape+" OR LOWER(description) LIKE ?"+likeEscape+" OR LOWER(tags) LIKE ?"+likeEscape, pattern, pattern, pattern)
	})
	return f
}

func (f *JobQueryFilter) BySlug(slug string) *JobQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("slug = ?", slug)
	})
	return f
}

func (f *JobQueryFilter) BySlugPrefix(prefix string) *JobQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("slug = ? OR slug LIKE ?"+likeEscape, prefix, likeEscaper.Replace(prefix)+"-%")
	})
	return f
}

func (f *JobQueryFilter) WithoutID(id uuid.UUID) *JobQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("id != ?", id)
	})
	return f
}

func (f *JobQueryFilter) ByOrderRange(from, to int) *JobQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("position BETWEEN ? AND ?", from, to)
	})
	return f
}

type JobSort string

const (
	JobSortByOrder         JobSort = "order"
	JobSortByTitle         JobSort = "title"
	JobSortByTitleDesc     JobSort = "-title"
	JobSortByCreatedAt     JobSort = "createdAt"
	JobSortByCreatedAtDesc JobSort = "-createdAt"
)

type JobQueryOptions BaseQuerier

func NewJobQueryOptions() *JobQueryOptions {
	return &JobQueryOptions{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (o *JobQueryOptions) WithSort(sort JobSort) *JobQueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		switch sort {
		case JobSortByTitle:
			return tx.Order("title").Order("position")
		case JobSortByTitleDesc:
			return tx.Order("title DESC").Order("position")
		case JobSortByCreatedAt:
			return tx.Order("created_at").Order("position")
		case JobSortByCreatedAtDesc:
			return tx.Order("created_at DESC").Order("position")
		default:
			return tx.Order("position").Order("created_at")
		}
	})
	return o
}

func (o *JobQueryOptions) WithLimit(limit int) *JobQueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Limit(limit)
	})
	return o
}

func (o *JobQueryOptions) WithOffset(offset int) *JobQueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Offset(offset)
	})
	return o
}

type CandidateQueryFilter BaseQuerier

func NewCandidateQueryFilter() *CandidateQueryFilter {
	return &CandidateQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (f *CandidateQueryFilter) ByStage(stage string) *CandidateQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("stage = ?", stage)
	})
	return f
}

func (f *CandidateQueryFilter) ByJobID(jobID uuid.UUID) *CandidateQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("job_id = ?", jobID)
	})
	return f
}

// BySearch matches name, email or phone, case-insensitively.
func (f *CandidateQueryFilter) BySearch(term string) *CandidateQueryFilter {
	pattern := likePattern(term)
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("LOWER(name) LIKE ?"+likeEscape+" OR LOWER(email) LIKE ?"+likeEscape+" OR LOWER(phone) LIKE ?"+likeEscape, pattern, pattern, pattern)
	})
	return f
}

type CandidateSort string

const (
	CandidateSortByAppliedAt CandidateSort = "appliedAt"
	CandidateSortByName      CandidateSort = "name"
	CandidateSortByStage     CandidateSort = "stage"
)

type CandidateQueryOptions BaseQuerier

func NewCandidateQueryOptions() *CandidateQueryOptions {
	return &CandidateQueryOptions{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (o *CandidateQueryOptions) WithSort(sort CandidateSort, desc bool) *CandidateQueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		column := "applied_at"
		switch sort {
		case CandidateSortByName:
			column = "name"
		case CandidateSortByStage:
			column = "stage"
		}
		if desc {
			column += " DESC"
		}
		return tx.Order(column).Order("id")
	})
	return o
}

func (o *CandidateQueryOptions) WithLimit(limit int) *CandidateQueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Limit(limit)
	})
	return o
}

func (o *CandidateQueryOptions) WithOffset(offset int) *CandidateQueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Offset(offset)
	})
	return o
}

type ApplicationQueryFilter BaseQuerier

func NewApplicationQueryFilter() *ApplicationQueryFilter {
	return &ApplicationQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (f *ApplicationQueryFilter) ByJobID(jobID uuid.UUID) *ApplicationQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("job_id = ?", jobID)
	})
	return f
}

func (f *ApplicationQueryFilter) ByCandidateID(candidateID uuid.UUID) *ApplicationQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("candidate_id = ?", candidateID)
	})
	return f
}

type SubmissionQueryFilter BaseQuerier

func NewSubmissionQueryFilter() *SubmissionQueryFilter {
	return &SubmissionQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (f *SubmissionQueryFilter) ByJobID(jobID uuid.UUID) *SubmissionQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("job_id = ?", jobID)
	})
	return f
}

func (f *SubmissionQueryFilter) ByCandidateID(candidateID uuid.UUID) *SubmissionQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("candidate_id = ?", candidateID)
	})
	return f
}
