// Package analytics computes read-side statistics, trends, and per-record
// insights over persisted analysis data.
package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/cv-insight/internal/store"
	"github.com/jonathan/cv-insight/internal/types"
)

const (
	topSkillsLimit = 20
	topRolesLimit  = 15
)

// AggregationError wraps a failure while folding records into a statistic
type AggregationError struct {
	Op    string
	Cause error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("aggregation %s failed: %v", e.Op, e.Cause)
}

func (e *AggregationError) Unwrap() error {
	return e.Cause
}

// Aggregator computes analytics over a Store. All methods are read-only and
// safe to run concurrently with pipeline writes; within one dashboard build
// the sub-queries may observe slightly different snapshots.
type Aggregator struct {
	store store.Store
	now   func() time.Time
}

// New creates an Aggregator over the given store
func New(s store.Store) *Aggregator {
	return &Aggregator{store: s, now: time.Now}
}

func windowFilter(now time.Time, days int, userID *uuid.UUID) store.Filter {
	return store.Filter{
		Since:  now.AddDate(0, 0, -days),
		UserID: userID,
	}
}

// Dashboard builds the combined overview payload for the trailing window.
// The three store reads run concurrently.
func (a *Aggregator) Dashboard(ctx context.Context, days int, userID *uuid.UUID) (*DashboardData, error) {
	now := a.now()
	f := windowFilter(now, days, userID)

	var (
		analyses []*types.AnalysisRecord
		sessions []*types.InterviewSession
		metrics  []*types.MetricSample
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		analyses, err = a.store.QueryAnalyses(gctx, f)
		return err
	})
	g.Go(func() error {
		var err error
		sessions, err = a.store.QuerySessions(gctx, f)
		return err
	})
	g.Go(func() error {
		var err error
		metrics, err = a.store.QueryMetrics(gctx, f.Since)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, &AggregationError{Op: "dashboard", Cause: err}
	}

	cvStats := cvStatistics(analyses)
	interviewStats := interviewStatistics(sessions)

	return &DashboardData{
		Period: Period{
			StartDate: f.Since,
			EndDate:   now,
			Days:      days,
		},
		CVAnalytics:        cvStats,
		InterviewAnalytics: interviewStats,
		SkillTrends:        skillTrends(analyses),
		CareerTrends:       careerTrends(analyses),
		PerformanceMetrics: performanceMetrics(metrics),
		Summary: DashboardSummary{
			TotalProcessed:    cvStats.TotalCVsProcessed,
			SuccessRate:       cvStats.SuccessRate,
			TotalInterviews:   interviewStats.TotalInterviewSessions,
			AvgProcessingTime: cvStats.AverageProcessingTime,
			HealthScore:       round1((cvStats.SuccessRate + interviewStats.CompletionRate) / 2),
		},
	}, nil
}

// CVStats computes CV processing statistics for the trailing window
func (a *Aggregator) CVStats(ctx context.Context, days int, userID *uuid.UUID) (*CVStatistics, error) {
	analyses, err := a.store.QueryAnalyses(ctx, windowFilter(a.now(), days, userID))
	if err != nil {
		return nil, &AggregationError{Op: "cv statistics", Cause: err}
	}
	stats := cvStatistics(analyses)
	return &stats, nil
}

// InterviewStats computes interview session statistics for the trailing window
func (a *Aggregator) InterviewStats(ctx context.Context, days int, userID *uuid.UUID) (*InterviewStatistics, error) {
	sessions, err := a.store.QuerySessions(ctx, windowFilter(a.now(), days, userID))
	if err != nil {
		return nil, &AggregationError{Op: "interview statistics", Cause: err}
	}
	stats := interviewStatistics(sessions)
	return &stats, nil
}

// SkillTrendData computes monthly skill trends for the trailing window
func (a *Aggregator) SkillTrendData(ctx context.Context, days int, userID *uuid.UUID) (*SkillTrends, error) {
	analyses, err := a.store.QueryAnalyses(ctx, windowFilter(a.now(), days, userID))
	if err != nil {
		return nil, &AggregationError{Op: "skill trends", Cause: err}
	}
	trends := skillTrends(analyses)
	return &trends, nil
}

// CareerTrendData computes monthly role trends for the trailing window
func (a *Aggregator) CareerTrendData(ctx context.Context, days int, userID *uuid.UUID) (*CareerTrends, error) {
	analyses, err := a.store.QueryAnalyses(ctx, windowFilter(a.now(), days, userID))
	if err != nil {
		return nil, &AggregationError{Op: "career trends", Cause: err}
	}
	trends := careerTrends(analyses)
	return &trends, nil
}

// Performance computes per-metric-name statistics for the trailing window
func (a *Aggregator) Performance(ctx context.Context, days int) (map[string]MetricSummary, error) {
	metrics, err := a.store.QueryMetrics(ctx, a.now().AddDate(0, 0, -days))
	if err != nil {
		return nil, &AggregationError{Op: "performance metrics", Cause: err}
	}
	return performanceMetrics(metrics), nil
}

// Skills computes the skill frequency payload. No time window: the whole
// store (optionally one user's slice) is in scope.
func (a *Aggregator) Skills(ctx context.Context, userID *uuid.UUID) (*SkillAnalytics, error) {
	analyses, err := a.store.QueryAnalyses(ctx, store.Filter{UserID: userID})
	if err != nil {
		return nil, &AggregationError{Op: "skill analytics", Cause: err}
	}

	frequency := map[string]int{}
	categories := map[string]map[string]int{}
	gapSet := map[string]struct{}{}

	for _, rec := range analyses {
		for _, skill := range rec.Skills {
			frequency[strings.ToLower(skill)]++
		}
		for category, skills := range rec.SkillCategories() {
			if categories[category] == nil {
				categories[category] = map[string]int{}
			}
			for _, skill := range skills {
				categories[category][strings.ToLower(skill)]++
			}
		}
		if rec.Recommendation != nil {
			if gaps, ok := rec.Recommendation["skill_gaps"].([]any); ok {
				for _, g := range gaps {
					if s, ok := g.(string); ok && s != "" {
						gapSet[strings.ToLower(s)] = struct{}{}
					}
				}
			}
		}
	}

	mentions := 0
	for _, count := range frequency {
		mentions += count
	}

	return &SkillAnalytics{
		TotalUniqueSkills:  len(frequency),
		TotalSkillMentions: mentions,
		TopSkills:          rankSkills(frequency, topSkillsLimit),
		SkillCategories:    categories,
		SkillDistribution:  skillDistribution(categories),
		SkillGaps:          sortedKeys(gapSet),
	}, nil
}

// Careers computes the recommendation frequency payload. No time window.
func (a *Aggregator) Careers(ctx context.Context, userID *uuid.UUID) (*CareerAnalytics, error) {
	analyses, err := a.store.QueryAnalyses(ctx, store.Filter{UserID: userID})
	if err != nil {
		return nil, &AggregationError{Op: "career analytics", Cause: err}
	}

	roles := map[string]int{}
	var scores []float64
	for _, rec := range analyses {
		if role := rec.PrimaryRole(); role != "" {
			roles[role]++
		}
		if rec.Recommendation != nil {
			scores = append(scores, rec.ConfidenceScore())
		}
	}

	avg := 0.0
	if len(scores) > 0 {
		sum := 0.0
		for _, s := range scores {
			sum += s
		}
		avg = sum / float64(len(scores))
	}

	return &CareerAnalytics{
		TotalRecommendations:   len(analyses),
		UniqueRoles:            len(roles),
		AverageConfidenceScore: round2(avg),
		TopRecommendedRoles:    rankRoles(roles, topRolesLimit),
		ConfidenceDistribution: confidenceDistribution(scores),
	}, nil
}

// cvStatistics folds analysis records into the CV statistics block
func cvStatistics(analyses []*types.AnalysisRecord) CVStatistics {
	total := len(analyses)
	completed := 0
	fileTypes := map[string]int{}
	durationSum := 0.0
	durationCount := 0

	for _, rec := range analyses {
		if rec.ProcessingStatus == types.StatusCompleted {
			completed++
		}
		fileType := rec.FileType
		if fileType == "" {
			fileType = "unknown"
		}
		fileTypes[fileType]++
		if rec.ProcessingTime != nil {
			durationSum += *rec.ProcessingTime
			durationCount++
		}
	}

	successRate := 0.0
	if total > 0 {
		successRate = float64(completed) / float64(total) * 100
	}
	avgDuration := 0.0
	if durationCount > 0 {
		avgDuration = durationSum / float64(durationCount)
	}

	return CVStatistics{
		TotalCVsProcessed:     total,
		SuccessfulAnalyses:    completed,
		SuccessRate:           successRate,
		AverageProcessingTime: round2(avgDuration),
		FileTypes:             fileTypes,
	}
}

// interviewStatistics folds sessions into the interview statistics block
func interviewStatistics(sessions []*types.InterviewSession) InterviewStatistics {
	total := len(sessions)
	difficulties := map[string]int{}
	questionSum, durationSum := 0, 0
	completed := 0

	for _, sess := range sessions {
		difficulty := sess.DifficultyLevel
		if difficulty == "" {
			difficulty = "intermediate"
		}
		difficulties[difficulty]++
		questionSum += sess.TotalQuestions
		durationSum += sess.EstimatedDuration
		if sess.CompletionStatus == types.SessionCompleted {
			completed++
		}
	}

	avgQuestions, avgDuration, completionRate := 0.0, 0.0, 0.0
	if total > 0 {
		avgQuestions = round1(float64(questionSum) / float64(total))
		avgDuration = round1(float64(durationSum) / float64(total))
		completionRate = round2(float64(completed) / float64(total) * 100)
	}

	return InterviewStatistics{
		TotalInterviewSessions:     total,
		AverageQuestionsPerSession: avgQuestions,
		AverageEstimatedDuration:   avgDuration,
		DifficultyDistribution:     difficulties,
		CompletionRate:             completionRate,
	}
}

// skillTrends buckets skill mentions by creation month and derives the
// two-bucket trending lists.
func skillTrends(analyses []*types.AnalysisRecord) SkillTrends {
	monthly := map[string]map[string]int{}
	for _, rec := range analyses {
		month := rec.CreatedAt.Format("2006-01")
		if monthly[month] == nil {
			monthly[month] = map[string]int{}
		}
		for _, skill := range rec.Skills {
			monthly[month][strings.ToLower(skill)]++
		}
	}

	up, down := compareRecentBuckets(monthly)
	return SkillTrends{
		MonthlyTrends: monthly,
		TrendingUp:    up,
		TrendingDown:  down,
	}
}

// careerTrends buckets primary roles by creation month
func careerTrends(analyses []*types.AnalysisRecord) CareerTrends {
	monthly := map[string]map[string]int{}
	totals := map[string]int{}
	for _, rec := range analyses {
		role := rec.PrimaryRole()
		if role == "" {
			continue
		}
		month := rec.CreatedAt.Format("2006-01")
		if monthly[month] == nil {
			monthly[month] = map[string]int{}
		}
		monthly[month][role]++
		totals[role]++
	}

	return CareerTrends{
		MonthlyRoleTrends: monthly,
		PopularRoles:      rankRoles(totals, 0),
		EmergingRoles:     emergingRoles(monthly),
	}
}

// compareRecentBuckets compares the two most recent month buckets and
// returns the keys with strictly higher / strictly lower recent counts.
// Ties and single-bucket histories produce empty lists.
func compareRecentBuckets(monthly map[string]map[string]int) (up, down []string) {
	months := make([]string, 0, len(monthly))
	for m := range monthly {
		months = append(months, m)
	}
	if len(months) < 2 {
		return nil, nil
	}
	sort.Strings(months)

	recent := monthly[months[len(months)-1]]
	previous := monthly[months[len(months)-2]]

	seen := map[string]struct{}{}
	for key := range recent {
		seen[key] = struct{}{}
	}
	for key := range previous {
		seen[key] = struct{}{}
	}

	for key := range seen {
		switch {
		case recent[key] > previous[key]:
			up = append(up, key)
		case recent[key] < previous[key]:
			down = append(down, key)
		}
	}
	sort.Strings(up)
	sort.Strings(down)
	return up, down
}

// emergingRoles returns roles present in the most recent bucket that never
// appeared in any earlier bucket.
func emergingRoles(monthly map[string]map[string]int) []string {
	months := make([]string, 0, len(monthly))
	for m := range monthly {
		months = append(months, m)
	}
	if len(months) == 0 {
		return nil
	}
	sort.Strings(months)

	recent := monthly[months[len(months)-1]]
	var emerging []string
	for role, count := range recent {
		if count == 0 {
			continue
		}
		previouslySeen := false
		for _, month := range months[:len(months)-1] {
			if monthly[month][role] > 0 {
				previouslySeen = true
				break
			}
		}
		if !previouslySeen {
			emerging = append(emerging, role)
		}
	}
	sort.Strings(emerging)
	return emerging
}

// performanceMetrics groups samples by name and computes per-name statistics
func performanceMetrics(metrics []*types.MetricSample) map[string]MetricSummary {
	grouped := map[string][]float64{}
	for _, m := range metrics {
		grouped[m.Name] = append(grouped[m.Name], m.Value)
	}

	stats := map[string]MetricSummary{}
	for name, values := range grouped {
		sum, min, max := 0.0, values[0], values[0]
		for _, v := range values {
			sum += v
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		stats[name] = MetricSummary{
			Average: round2(sum / float64(len(values))),
			Min:     round2(min),
			Max:     round2(max),
			Count:   len(values),
		}
	}
	return stats
}

// confidenceDistribution buckets scores as high >= 0.8, medium in
// [0.5, 0.8), low < 0.5. Out-of-range scores clamp into the edge buckets.
func confidenceDistribution(scores []float64) map[string]int {
	dist := map[string]int{"high": 0, "medium": 0, "low": 0}
	for _, s := range scores {
		switch {
		case s >= 0.8:
			dist["high"]++
		case s >= 0.5:
			dist["medium"]++
		default:
			dist["low"]++
		}
	}
	return dist
}

// skillDistribution gives each category's share of total categorized
// mentions, as a percentage rounded to 2 decimals.
func skillDistribution(categories map[string]map[string]int) map[string]float64 {
	total := 0
	for _, skills := range categories {
		for _, count := range skills {
			total += count
		}
	}

	dist := map[string]float64{}
	if total == 0 {
		return dist
	}
	for category, skills := range categories {
		categoryTotal := 0
		for _, count := range skills {
			categoryTotal += count
		}
		dist[category] = round2(float64(categoryTotal) / float64(total) * 100)
	}
	return dist
}

// rankSkills returns skills ordered by descending frequency, ties broken
// alphabetically so repeated runs yield identical rankings.
func rankSkills(frequency map[string]int, limit int) []RankedSkill {
	keys := rankKeys(frequency, limit)
	ranked := make([]RankedSkill, len(keys))
	for i, key := range keys {
		ranked[i] = RankedSkill{Skill: key, Frequency: frequency[key]}
	}
	return ranked
}

func rankRoles(frequency map[string]int, limit int) []RankedRole {
	keys := rankKeys(frequency, limit)
	ranked := make([]RankedRole, len(keys))
	for i, key := range keys {
		ranked[i] = RankedRole{Role: key, Frequency: frequency[key]}
	}
	return ranked
}

func rankKeys(frequency map[string]int, limit int) []string {
	keys := make([]string, 0, len(frequency))
	for key := range frequency {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if frequency[keys[i]] != frequency[keys[j]] {
			return frequency[keys[i]] > frequency[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}
	return keys
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
