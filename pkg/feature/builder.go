package feature

import (
	"errors"
	"time"

	"github.com/autobid-ai/winpredict/pkg/model"
)

// Raw feature column names. The numeric columns appear in this order after
// the one-hot industry block, and the order must match between training
// and inference for a given tenant's model.
const (
	ColIndustry       = "industry"
	ColBudget         = "budget"
	ColTechnicalScore = "technical_score"
	ColDaysDeadline   = "days_deadline"
)

// Neutral defaults substituted for missing input attributes
const (
	DefaultIndustry       = "Other"
	DefaultBudget         = 0.0
	DefaultTechnicalScore = 50.0
	DefaultDeadlineDays   = 30.0
)

// ErrNoRecords is returned when a training set cannot be built because
// there is nothing to build it from. Callers treat it as "skip training".
var ErrNoRecords = errors.New("no records to build features from")

// Row is a single fixed-shape feature row before encoding and scaling
type Row struct {
	Industry       string
	Budget         float64
	TechnicalScore float64
	DaysDeadline   float64
}

// NumericValues returns the numeric features in canonical column order
func (r Row) NumericValues() []float64 {
	return []float64{r.Budget, r.TechnicalScore, r.DaysDeadline}
}

// TenderInput carries the candidate tender attributes for scoring. Nil
// fields are substituted with neutral defaults here; the builder is the
// single place where noisy upstream extraction is normalized, so callers
// never reject a tender for missing attributes.
type TenderInput struct {
	Industry       *string
	Budget         *float64
	TechnicalScore *float64
	Deadline       *time.Time
}

// Builder turns bid records and tender inputs into feature rows.
// It is a pure transform; the clock is injectable for tests.
type Builder struct {
	now func() time.Time
}

// NewBuilder creates a feature builder using the wall clock
func NewBuilder() *Builder {
	return &Builder{now: time.Now}
}

// WithClock overrides the clock used for inference urgency
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// TrainingRows converts bid records into feature rows and 0/1 labels.
// Urgency is measured from each record's creation time, so a training row
// reflects the lead time the tender had when it entered the system.
func (b *Builder) TrainingRows(records []model.Bid) ([]Row, []int, error) {
	if len(records) == 0 {
		return nil, nil, ErrNoRecords
	}

	rows := make([]Row, 0, len(records))
	labels := make([]int, 0, len(records))
	for i := range records {
		rec := &records[i]
		rows = append(rows, Row{
			Industry:       industryOrDefault(rec.Industry),
			Budget:         clampBudget(rec.Budget),
			TechnicalScore: scoreOrDefault(rec.TechnicalScore),
			DaysDeadline:   daysUntil(rec.Deadline, rec.CreatedAt),
		})
		labels = append(labels, rec.Label())
	}
	return rows, labels, nil
}

// InferenceRow builds a single row for a candidate tender. Urgency is
// measured from the current clock: at scoring time the model should see the
// remaining runway, not the historical lead time.
func (b *Builder) InferenceRow(in TenderInput) Row {
	row := Row{
		Industry:       DefaultIndustry,
		Budget:         DefaultBudget,
		TechnicalScore: DefaultTechnicalScore,
		DaysDeadline:   daysUntil(in.Deadline, b.now()),
	}
	if in.Industry != nil {
		row.Industry = industryOrDefault(*in.Industry)
	}
	if in.Budget != nil {
		row.Budget = clampBudget(*in.Budget)
	}
	if in.TechnicalScore != nil {
		row.TechnicalScore = *in.TechnicalScore
	}
	return row
}

// ParseDeadline parses an upstream deadline string in YYYY-MM-DD form.
// Anything unparsable yields nil, which maps to the neutral default.
func ParseDeadline(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

// daysUntil returns the whole days from ref to deadline, floored at zero.
// A past or same-day deadline contributes zero urgency, never a negative
// value. Missing deadline or reference yields the 30-day neutral default.
func daysUntil(deadline *time.Time, ref time.Time) float64 {
	if deadline == nil || ref.IsZero() {
		return DefaultDeadlineDays
	}
	days := int(deadline.Sub(ref).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return float64(days)
}

func industryOrDefault(industry string) string {
	if industry == "" {
		return DefaultIndustry
	}
	return industry
}

func scoreOrDefault(score *float64) float64 {
	if score == nil {
		return DefaultTechnicalScore
	}
	return *score
}

func clampBudget(budget float64) float64 {
	if budget < 0 {
		return 0
	}
	return budget
}
