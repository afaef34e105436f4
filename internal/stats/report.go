package stats

import (
	"context"
	"time"

	"github.com/verte-zerg/tuizen/internal/model"
	"github.com/verte-zerg/tuizen/internal/store"
)

// Report contains precomputed data for history rendering.
type Report struct {
	Records    []model.ActivityRecord
	Aggregates []model.ActivityAggregate
	BestBubble int
}

// BuildReport loads the local history. since may be nil.
func BuildReport(ctx context.Context, st *store.Store, since *time.Time) (Report, error) {
	recs, err := st.ListActivities(ctx, since)
	if err != nil {
		return Report{}, err
	}
	aggs, err := st.Aggregate(ctx, since)
	if err != nil {
		return Report{}, err
	}
	best, err := st.BestScore(ctx, model.GameBubble)
	if err != nil {
		return Report{}, err
	}
	return Report{Records: recs, Aggregates: aggs, BestBubble: best}, nil
}

// ForActivity narrows the report to one activity. An empty name keeps
// everything.
func (r Report) ForActivity(name string) Report {
	if name == "" {
		return r
	}
	out := Report{BestBubble: r.BestBubble}
	for _, rec := range r.Records {
		if rec.Activity == name {
			out.Records = append(out.Records, rec)
		}
	}
	for _, agg := range r.Aggregates {
		if agg.Activity == name {
			out.Aggregates = append(out.Aggregates, agg)
		}
	}
	return out
}
