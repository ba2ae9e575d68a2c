package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/JairoProDev/mitube-go/internal/model"
)

const (
	// Daily buckets retained per record; the oldest are dropped after
	// every insertion that exceeds the cap.
	bucketRetentionDays = 90

	// Trailing window for the channel summary report.
	summaryWindowDays = 28

	mostViewedLimit = 5
)

// VideoLookup resolves videos from the catalog.
type VideoLookup interface {
	FindByID(ctx context.Context, id string) (*model.Video, error)
	FindByOwner(ctx context.Context, userID string) ([]model.Video, error)
}

// UserLookup resolves users/channels.
type UserLookup interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// StatsStore persists StatsRecord documents. Find returns model.ErrNotFound
// when no record exists for the subject.
type StatsStore interface {
	Find(ctx context.Context, subjectID string, kind model.StatsKind) (*model.StatsRecord, error)
	Insert(ctx context.Context, rec *model.StatsRecord) error
	Save(ctx context.Context, rec *model.StatsRecord) error
}

// StatsService ingests view and subscription events into per-video and
// per-channel StatsRecords and derives the channel summary report. Totals
// are cumulative since record creation; daily buckets are a bounded sliding
// window and trimming them never touches the totals.
type StatsService struct {
	store  StatsStore
	videos VideoLookup
	users  UserLookup
	logger zerolog.Logger
	now    func() time.Time
}

func NewStatsService(store StatsStore, videos VideoLookup, users UserLookup, logger zerolog.Logger) *StatsService {
	return &StatsService{
		store:  store,
		videos: videos,
		users:  users,
		logger: logger,
		now:    time.Now,
	}
}

// RecordVideoView ingests a single view of a video: bumps the video record's
// totals, today's bucket and demographics, then cascades a channel-level
// view update for the owner. The cascade is best-effort — a failure there is
// logged and swallowed, and the already persisted video update stands.
func (s *StatsService) RecordVideoView(ctx context.Context, videoID string, view *model.ViewContext) (*model.StatsRecord, error) {
	video, err := s.videos.FindByID(ctx, videoID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := midnight(now)
	duration := viewDuration(view)

	rec, err := s.store.Find(ctx, videoID, model.KindVideo)
	switch {
	case errors.Is(err, model.ErrNotFound):
		rec = &model.StatsRecord{
			SubjectID:        videoID,
			Kind:             model.KindVideo,
			TotalViews:       1,
			WatchTimeMinutes: duration,
			DailyBuckets:     []model.DailyBucket{{Date: today, Views: 1}},
			LastUpdated:      now,
		}
		applyDemographics(rec, view)
		if err := s.store.Insert(ctx, rec); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		rec.TotalViews++
		rec.WatchTimeMinutes += duration
		upsertBucket(rec, today, func(b *model.DailyBucket) { b.Views++ })
		trimBuckets(rec)
		applyDemographics(rec, view)
		rec.LastUpdated = now
		if err := s.store.Save(ctx, rec); err != nil {
			return nil, err
		}
	}

	// Channel cascade: not transactional with the video update above.
	if _, err := s.RecordChannelView(ctx, video.UserID, today); err != nil {
		s.logger.Warn().Err(err).
			Str("videoId", videoID).
			Str("channelId", video.UserID).
			Msg("channel view cascade failed")
	}

	return rec, nil
}

// RecordChannelView ingests one channel-level view for the given date,
// lazily creating the channel record seeded from the user's current
// subscriber count.
func (s *StatsService) RecordChannelView(ctx context.Context, channelID string, date time.Time) (*model.StatsRecord, error) {
	date = midnight(date)

	rec, err := s.store.Find(ctx, channelID, model.KindChannel)
	switch {
	case errors.Is(err, model.ErrNotFound):
		user, err := s.users.FindByID(ctx, channelID)
		if err != nil {
			return nil, err
		}
		rec = &model.StatsRecord{
			SubjectID:        channelID,
			Kind:             model.KindChannel,
			TotalViews:       1,
			TotalSubscribers: user.SubscriberCount(),
			DailyBuckets:     []model.DailyBucket{{Date: date, Views: 1}},
			LastUpdated:      s.now(),
		}
		if err := s.store.Insert(ctx, rec); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		rec.TotalViews++
		upsertBucket(rec, date, func(b *model.DailyBucket) { b.Views++ })
		trimBuckets(rec)
		rec.LastUpdated = s.now()
		if err := s.store.Save(ctx, rec); err != nil {
			return nil, err
		}
	}

	return rec, nil
}

// RecordSubscriptionEvent ingests a new subscription to a channel.
// TotalSubscribers is re-read from the authoritative subscriber list rather
// than incremented, so externally mutated subscriptions cannot drift it.
// The day's subscribers bucket is a plain event counter and is allowed to
// diverge from the snapshot under concurrent subscribe/unsubscribe.
func (s *StatsService) RecordSubscriptionEvent(ctx context.Context, channelID string) (*model.StatsRecord, error) {
	user, err := s.users.FindByID(ctx, channelID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := midnight(now)

	rec, err := s.store.Find(ctx, channelID, model.KindChannel)
	switch {
	case errors.Is(err, model.ErrNotFound):
		rec = &model.StatsRecord{
			SubjectID:        channelID,
			Kind:             model.KindChannel,
			TotalSubscribers: user.SubscriberCount(),
			DailyBuckets:     []model.DailyBucket{{Date: today, Subscribers: 1}},
			LastUpdated:      now,
		}
		if err := s.store.Insert(ctx, rec); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		rec.TotalSubscribers = user.SubscriberCount()
		upsertBucket(rec, today, func(b *model.DailyBucket) { b.Subscribers++ })
		rec.LastUpdated = now
		if err := s.store.Save(ctx, rec); err != nil {
			return nil, err
		}
	}

	return rec, nil
}

// GetVideoStats returns the video's record, lazily creating it seeded from
// the video's current denormalized counters.
func (s *StatsService) GetVideoStats(ctx context.Context, videoID string) (*model.StatsRecord, error) {
	return s.GetOrCreateRecord(ctx, videoID, model.KindVideo)
}

// GetChannelStats returns the channel's record, lazily creating it seeded
// from the user's current subscriber count.
func (s *StatsService) GetChannelStats(ctx context.Context, channelID string) (*model.StatsRecord, error) {
	return s.GetOrCreateRecord(ctx, channelID, model.KindChannel)
}

// GetOrCreateRecord is the idempotent lookup-or-seed used by the read
// accessors. It fails with model.ErrNotFound when the subject itself does
// not exist.
func (s *StatsService) GetOrCreateRecord(ctx context.Context, subjectID string, kind model.StatsKind) (*model.StatsRecord, error) {
	rec, err := s.store.Find(ctx, subjectID, kind)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	rec = &model.StatsRecord{
		SubjectID:   subjectID,
		Kind:        kind,
		LastUpdated: s.now(),
	}
	switch kind {
	case model.KindVideo:
		video, err := s.videos.FindByID(ctx, subjectID)
		if err != nil {
			return nil, err
		}
		rec.TotalViews = video.Views
		rec.TotalLikes = int64(len(video.Likes))
		rec.TotalDislikes = int64(len(video.Dislikes))
	case model.KindChannel:
		user, err := s.users.FindByID(ctx, subjectID)
		if err != nil {
			return nil, err
		}
		rec.TotalSubscribers = user.SubscriberCount()
	}

	if err := s.store.Insert(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// GetSummaryReport derives the channel dashboard over a trailing 28-day
// window. Pure read: it requires an existing channel record (at least one
// prior event) and never mutates anything.
func (s *StatsService) GetSummaryReport(ctx context.Context, channelID string) (*model.SummaryReport, error) {
	rec, err := s.store.Find(ctx, channelID, model.KindChannel)
	if err != nil {
		return nil, err
	}

	today := midnight(s.now())
	cutoff := today.AddDate(0, 0, -summaryWindowDays)
	recent := bucketsSince(rec.DailyBuckets, cutoff)
	period := sumBuckets(recent)

	videos, err := s.videos.FindByOwner(ctx, channelID)
	if err != nil {
		return nil, err
	}

	return &model.SummaryReport{
		ChannelStats: model.ChannelSummary{
			TotalSubscribers:  rec.TotalSubscribers,
			TotalViews:        rec.TotalViews,
			SubscribersGained: period.Subscribers,
			ViewsGained:       period.Views,
		},
		VideoStats:   summarizeVideos(videos),
		RecentTrends: model.RecentTrends{DailyData: dailyTrends(recent)},
	}, nil
}

// --- pure helpers -----------------------------------------------------------

// midnight truncates a timestamp to the start of its calendar day in the
// caller's location. No timezone conversion happens here.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// viewDuration extracts a usable duration from optional view metadata.
// Negative or absent values count as zero.
func viewDuration(view *model.ViewContext) float64 {
	if view == nil || view.DurationSeconds < 0 {
		return 0
	}
	return view.DurationSeconds
}

// upsertBucket applies a mutation to the bucket for the given date,
// appending a zero-valued bucket first if none exists for that day.
func upsertBucket(rec *model.StatsRecord, date time.Time, apply func(*model.DailyBucket)) {
	for i := range rec.DailyBuckets {
		if sameDay(rec.DailyBuckets[i].Date, date) {
			apply(&rec.DailyBuckets[i])
			return
		}
	}
	b := model.DailyBucket{Date: date}
	apply(&b)
	rec.DailyBuckets = append(rec.DailyBuckets, b)
}

// trimBuckets enforces the retention cap: when the record holds more than
// 90 buckets, only the 90 most recent by date are kept.
func trimBuckets(rec *model.StatsRecord) {
	if len(rec.DailyBuckets) <= bucketRetentionDays {
		return
	}
	sort.SliceStable(rec.DailyBuckets, func(i, j int) bool {
		return rec.DailyBuckets[i].Date.After(rec.DailyBuckets[j].Date)
	})
	rec.DailyBuckets = rec.DailyBuckets[:bucketRetentionDays]
}

func applyDemographics(rec *model.StatsRecord, view *model.ViewContext) {
	if view == nil {
		return
	}
	if view.Country != "" {
		rec.Demographics.AddCountry(view.Country)
	}
	if view.Device != "" {
		rec.Demographics.AddDevice(view.Device)
	}
}

// bucketsSince returns the buckets dated on or after the cutoff, in their
// stored order.
func bucketsSince(buckets []model.DailyBucket, cutoff time.Time) []model.DailyBucket {
	var recent []model.DailyBucket
	for _, b := range buckets {
		if !b.Date.Before(cutoff) {
			recent = append(recent, b)
		}
	}
	return recent
}

// sumBuckets reduces a bucket slice into period totals.
func sumBuckets(buckets []model.DailyBucket) model.DailyBucket {
	var total model.DailyBucket
	for _, b := range buckets {
		total.Views += b.Views
		total.Likes += b.Likes
		total.Dislikes += b.Dislikes
		total.Comments += b.Comments
		total.Subscribers += b.Subscribers
	}
	return total
}

// summarizeVideos aggregates the channel's current catalog and picks the
// five most viewed. The sort is stable so ties keep retrieval order.
func summarizeVideos(videos []model.Video) model.VideoSummary {
	summary := model.VideoSummary{
		TotalVideos:      len(videos),
		MostViewedVideos: []model.VideoHighlight{},
	}

	var totalLikes int64
	for _, v := range videos {
		summary.TotalVideoViews += v.Views
		totalLikes += int64(len(v.Likes))
	}
	if len(videos) > 0 {
		summary.AvgViewsPerVideo = float64(summary.TotalVideoViews) / float64(len(videos))
		summary.AvgLikesPerVideo = float64(totalLikes) / float64(len(videos))
	}

	ranked := make([]model.Video, len(videos))
	copy(ranked, videos)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Views > ranked[j].Views })
	if len(ranked) > mostViewedLimit {
		ranked = ranked[:mostViewedLimit]
	}
	for _, v := range ranked {
		summary.MostViewedVideos = append(summary.MostViewedVideos, model.VideoHighlight{
			ID:    v.ID,
			Title: v.Title,
			Views: v.Views,
			Likes: len(v.Likes),
		})
	}
	return summary
}

func dailyTrends(buckets []model.DailyBucket) []model.DailyTrend {
	trends := make([]model.DailyTrend, 0, len(buckets))
	for _, b := range buckets {
		trends = append(trends, model.DailyTrend{
			Date:        b.Date,
			Views:       b.Views,
			Subscribers: b.Subscribers,
		})
	}
	return trends
}
