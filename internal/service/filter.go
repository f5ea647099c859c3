package service

import (
	"github.com/google/uuid"
	"github.com/talentflow/talentflow/internal/store"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page is a 1-based page request. Zero values fall back to the defaults.
type Page struct {
	Number int
	Size   int
}

func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// TotalPages is ceil(total / size).
func (p Page) TotalPages(total int64) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(p.Size) - 1) / int64(p.Size))
}

type JobFilter struct {
	Search string
	Status string
	Sort   store.JobSort
	Page   Page
}

type CandidateFilter struct {
	Search    string
	Stage     string
	JobID     *uuid.UUID
	SortBy    store.CandidateSort
	SortOrder string
	Page      Page
}

// Descending defaults to true: newest candidates first.
func (f CandidateFilter) Descending() bool {
	return f.SortOrder != "asc"
}
