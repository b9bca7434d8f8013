// Package runner drives the corpus through the codec and collects one
// HashResult per (protocol, category, test).
//
// Execution is sequential: protocols ascend from 0, categories run in
// corpus order, and tests run in the order their category builds them.
// Every category is rebuilt for each protocol so no graph state carries
// over between iterations.
//
// A *codec.SerializationError is an expected outcome and is recorded as an
// ErrorMarker. Any other error is a defect in the harness and aborts the
// run.
package runner

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/hashdrift/internal/codec"
	"github.com/roach88/hashdrift/internal/corpus"
	"github.com/roach88/hashdrift/internal/graph"
	"github.com/roach88/hashdrift/internal/results"
)

// HashFunc serializes and hashes one graph.
type HashFunc func(v graph.Value, p codec.Protocol) (string, error)

// Runner executes the corpus across a protocol range.
type Runner struct {
	identity   results.SystemIdentity
	protocols  int
	categories []corpus.Category
	hash       HashFunc
	logger     *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithProtocols sets the protocol range to [0, k). Protocols above
// codec.MaxProtocol are attempted and recorded as errors.
func WithProtocols(k int) Option {
	return func(r *Runner) {
		r.protocols = k
	}
}

// WithCategories replaces the default corpus.
func WithCategories(cats []corpus.Category) Option {
	return func(r *Runner) {
		r.categories = cats
	}
}

// WithLogger sets the logger for progress output.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithHasher overrides codec.Hash.
func WithHasher(h HashFunc) Option {
	return func(r *Runner) {
		r.hash = h
	}
}

// New creates a Runner that labels its results with identity.
func New(identity results.SystemIdentity, opts ...Option) *Runner {
	r := &Runner{
		identity:   identity,
		protocols:  codec.DefaultProtocols,
		categories: corpus.Default(),
		hash:       codec.Hash,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Summary counts the outcomes of a run.
type Summary struct {
	Protocols int
	Digests   int
	Errors    int
}

// Total returns the number of results recorded.
func (s Summary) Total() int {
	return s.Digests + s.Errors
}

// Run executes the corpus and returns the frozen ResultSet.
func (r *Runner) Run() (*results.ResultSet, error) {
	rs, _, err := r.RunWithSummary()
	return rs, err
}

// RunWithSummary is like Run and also returns outcome counts.
func (r *Runner) RunWithSummary() (*results.ResultSet, Summary, error) {
	b := results.NewBuilder(r.identity)
	var sum Summary

	for _, p := range codec.Range(r.protocols) {
		r.logger.Info("testing protocol", "protocol", int(p))
		errs := 0
		for _, cat := range r.categories {
			for _, tc := range cat.Build() {
				coord := results.Coordinate{Protocol: int(p), Category: cat.Name, Test: tc.Name}
				res, err := r.hashOne(tc.Value, p)
				if err != nil {
					return nil, sum, fmt.Errorf("hashing %s: %w", coord, err)
				}
				if err := b.Add(coord, res); err != nil {
					return nil, sum, err
				}
				if res.IsError() {
					sum.Errors++
					errs++
					r.logger.Debug("serialization failed", "coordinate", coord.String(), "error", res.Marker().String())
				} else {
					sum.Digests++
				}
			}
		}
		sum.Protocols++
		r.logger.Debug("protocol done", "protocol", int(p), "errors", errs)
	}

	return b.Freeze(), sum, nil
}

func (r *Runner) hashOne(v graph.Value, p codec.Protocol) (results.HashResult, error) {
	digest, err := r.hash(v, p)
	if err == nil {
		return results.Digest(digest), nil
	}
	var se *codec.SerializationError
	if errors.As(err, &se) {
		return results.Failed(string(se.Kind), se.Message), nil
	}
	return results.HashResult{}, err
}
