// Package repository stores session buckets: the submissions accumulated
// under one session key for one job context.
package repository

import (
	"context"
	"slices"

	"github.com/okian/screener/internal/domain/model"
)

// Bucket is the accumulated state of one session.
type Bucket struct {
	JobText     string             `json:"job_text"`
	HardSkills  []string           `json:"hard_skills"`
	NiceSkills  []string           `json:"nice_skills"`
	Submissions []model.Submission `json:"submissions"`
}

// SameContext reports whether the bucket was built for this job text and
// these skill lists.
func (b *Bucket) SameContext(jobText string, hard, nice []string) bool {
	return b.JobText == jobText &&
		slices.Equal(b.HardSkills, hard) &&
		slices.Equal(b.NiceSkills, nice)
}

// Upsert replaces the submission with the same filename or appends s.
func (b *Bucket) Upsert(s model.Submission) {
	for i := range b.Submissions {
		if b.Submissions[i].Filename == s.Filename {
			b.Submissions[i] = s
			return
		}
	}
	b.Submissions = append(b.Submissions, s)
}

// Clone returns a copy that shares no slices with b.
func (b *Bucket) Clone() Bucket {
	return Bucket{
		JobText:     b.JobText,
		HardSkills:  slices.Clone(b.HardSkills),
		NiceSkills:  slices.Clone(b.NiceSkills),
		Submissions: slices.Clone(b.Submissions),
	}
}

// Store provides read/write access to session buckets.
type Store interface {
	// Get returns the bucket for key, or ErrNotFound.
	Get(ctx context.Context, key string) (Bucket, error)

	// Put creates or replaces the bucket for key.
	Put(ctx context.Context, key string, b Bucket) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Count returns the number of live buckets.
	Count(ctx context.Context) int
}
