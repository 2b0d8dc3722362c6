package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"contact-dedup/internal/dedup"
	"contact-dedup/internal/logger"
	"contact-dedup/internal/matching"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type contactSource interface {
	ListContactsByScope(ctx context.Context, scopeID uuid.UUID) ([]*dedup.Contact, error)
	ListScopes(ctx context.Context) ([]uuid.UUID, error)
}

type pairCreator interface {
	CreateIfAbsent(ctx context.Context, pair *dedup.DuplicatePair, allowReevaluation bool) (*dedup.DuplicatePair, bool, error)
}

// DetectionOptions tunes a detection run.
type DetectionOptions struct {
	Workers           int
	Threshold         int
	AllowReevaluation bool
	Classifier        matching.Classifier
}

// DetectionReport summarizes one scope's detection run.
type DetectionReport struct {
	ScopeID     uuid.UUID     `json:"scope_id"`
	Contacts    int           `json:"contacts"`
	Skipped     int           `json:"skipped"`
	PairsScored int           `json:"pairs_scored"`
	Candidates  int           `json:"candidates"`
	Created     int           `json:"created"`
	Existing    int           `json:"existing"`
	Failed      int           `json:"failed"`
	Duration    time.Duration `json:"duration"`
}

// DetectionService finds duplicate candidates within a scope and records them as pending pairs.
type DetectionService struct {
	contacts contactSource
	pairs    pairCreator
	opts     DetectionOptions
	now      func() time.Time
}

// NewDetectionService creates a detection service. Zero options fall back to defaults.
func NewDetectionService(contacts contactSource, pairs pairCreator, opts DetectionOptions) *DetectionService {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Threshold <= 0 {
		opts.Threshold = matching.DefaultDuplicateThreshold
	}
	if opts.Classifier == (matching.Classifier{}) {
		opts.Classifier = matching.DefaultClassifier()
	}
	return &DetectionService{
		contacts: contacts,
		pairs:    pairs,
		opts:     opts,
		now:      time.Now,
	}
}

type scoredPair struct {
	contact1 *dedup.Contact
	contact2 *dedup.Contact
	result   matching.Result
}

// DetectScope scores every pair of valid contacts in the scope and stores
// those at or above the threshold. Pairs that already exist are left alone,
// so repeated runs are idempotent.
func (s *DetectionService) DetectScope(ctx context.Context, scopeID uuid.UUID) (*DetectionReport, error) {
	log := logger.Component("detection").With().Str("scope_id", scopeID.String()).Logger()
	started := s.now()

	all, err := s.contacts.ListContactsByScope(ctx, scopeID)
	if err != nil {
		return nil, fmt.Errorf("list contacts for scope %s: %w", scopeID, err)
	}

	report := &DetectionReport{ScopeID: scopeID, Contacts: len(all)}
	contacts := make([]*dedup.Contact, 0, len(all))
	for _, c := range all {
		if err := dedup.ValidateContact(c); err != nil {
			log.Warn().Err(err).Str("contact_id", c.ID.String()).Msg("skipping invalid contact")
			report.Skipped++
			continue
		}
		contacts = append(contacts, c)
	}

	candidates, scored, err := s.scorePairs(ctx, contacts)
	if err != nil {
		return nil, err
	}
	report.PairsScored = scored
	report.Candidates = len(candidates)

	now := s.now()
	for _, cand := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pair, err := dedup.NewDuplicatePair(scopeID, cand.contact1.ID, cand.contact2.ID, cand.result, now)
		if err != nil {
			log.Warn().Err(err).Msg("skipping malformed candidate")
			report.Failed++
			continue
		}

		_, created, err := s.pairs.CreateIfAbsent(ctx, pair, s.opts.AllowReevaluation)
		if err != nil {
			log.Error().Err(err).
				Str("contact_id_1", pair.ContactID1.String()).
				Str("contact_id_2", pair.ContactID2.String()).
				Msg("failed to record duplicate pair")
			report.Failed++
			continue
		}
		if created {
			report.Created++
		} else {
			report.Existing++
		}
	}

	report.Duration = s.now().Sub(started)
	log.Info().
		Int("contacts", report.Contacts).
		Int("skipped", report.Skipped).
		Int("scored", report.PairsScored).
		Int("created", report.Created).
		Int("existing", report.Existing).
		Int("failed", report.Failed).
		Dur("duration", report.Duration).
		Msg("duplicate detection finished")

	return report, nil
}

// scorePairs classifies every i<j pair. Each worker owns one row of the
// triangle and writes only to its own slot, so results keep (i, j) order.
func (s *DetectionService) scorePairs(ctx context.Context, contacts []*dedup.Contact) ([]scoredPair, int, error) {
	rows := make([][]scoredPair, len(contacts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)

	for i := range contacts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			a := contacts[i].Candidate()
			for j := i + 1; j < len(contacts); j++ {
				result := s.opts.Classifier.Classify(a, contacts[j].Candidate())
				if result.Score >= s.opts.Threshold {
					rows[i] = append(rows[i], scoredPair{contact1: contacts[i], contact2: contacts[j], result: result})
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	var out []scoredPair
	for _, row := range rows {
		out = append(out, row...)
	}
	n := len(contacts)
	return out, n * (n - 1) / 2, nil
}

// DetectAll runs DetectScope for every scope. A failing scope is logged and
// does not stop the others; the combined error is returned.
func (s *DetectionService) DetectAll(ctx context.Context) ([]*DetectionReport, error) {
	scopes, err := s.contacts.ListScopes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list scopes: %w", err)
	}

	var (
		reports []*DetectionReport
		errs    []error
	)
	for _, scopeID := range scopes {
		report, err := s.DetectScope(ctx, scopeID)
		if err != nil {
			if ctx.Err() != nil {
				return reports, ctx.Err()
			}
			logger.Error().Err(err).Str("scope_id", scopeID.String()).Msg("duplicate detection failed")
			errs = append(errs, err)
			continue
		}
		reports = append(reports, report)
	}
	return reports, errors.Join(errs...)
}

// CheckResult is the classification of an ad-hoc pair of contacts.
type CheckResult struct {
	Score           int                      `json:"score"`
	MatchType       matching.MatchType       `json:"match_type"`
	MatchTypeLabel  string                   `json:"match_type_label"`
	ConfidenceLevel matching.ConfidenceLevel `json:"confidence_level"`
	ConfidenceLabel string                   `json:"confidence_label"`
	Color           string                   `json:"color"`
	Threshold       int                      `json:"threshold"`
	IsDuplicate     bool                     `json:"is_duplicate"`
}

// Check classifies two contacts without persisting anything. A nil
// threshold uses the configured one.
func (s *DetectionService) Check(a, b matching.Candidate, threshold *int) (*CheckResult, error) {
	for i, c := range []matching.Candidate{a, b} {
		if err := validateCandidate(c); err != nil {
			return nil, fmt.Errorf("contact %d: %w", i+1, err)
		}
	}

	limit := s.opts.Threshold
	if threshold != nil {
		if *threshold < 0 || *threshold > 100 {
			return nil, fmt.Errorf("%w: threshold %d out of range", dedup.ErrInvalidInput, *threshold)
		}
		limit = *threshold
	}

	result := s.opts.Classifier.Classify(a, b)
	level := s.opts.Classifier.Level(result.Score)
	return &CheckResult{
		Score:           result.Score,
		MatchType:       result.MatchType,
		MatchTypeLabel:  result.MatchType.Label(),
		ConfidenceLevel: level,
		ConfidenceLabel: level.Label(),
		Color:           level.Color(),
		Threshold:       limit,
		IsDuplicate:     result.Score >= limit,
	}, nil
}

// validateCandidate rejects candidates whose email or names are blank once
// whitespace is trimmed. Two blank emails would otherwise score as an exact
// match.
func validateCandidate(c matching.Candidate) error {
	var blank []string
	if strings.TrimSpace(c.Email) == "" {
		blank = append(blank, "email")
	}
	if strings.TrimSpace(c.FirstName) == "" {
		blank = append(blank, "first_name")
	}
	if strings.TrimSpace(c.LastName) == "" {
		blank = append(blank, "last_name")
	}
	if len(blank) > 0 {
		return fmt.Errorf("%w: blank %s", dedup.ErrInvalidInput, strings.Join(blank, ", "))
	}
	return nil
}
