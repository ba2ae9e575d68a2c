package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/JairoProDev/mitube-go/internal/model"
)

// --- in-memory fakes --------------------------------------------------------

type fakeStatsStore struct {
	records map[string]*model.StatsRecord
	saveErr error
	saves   int
	inserts int
}

func newFakeStatsStore() *fakeStatsStore {
	return &fakeStatsStore{records: make(map[string]*model.StatsRecord)}
}

func statsKey(subjectID string, kind model.StatsKind) string {
	return subjectID + "/" + string(kind)
}

func cloneRecord(rec *model.StatsRecord) *model.StatsRecord {
	c := *rec
	c.DailyBuckets = append([]model.DailyBucket(nil), rec.DailyBuckets...)
	c.Demographics = model.Demographics{
		Countries: cloneCounts(rec.Demographics.Countries),
		Devices:   cloneCounts(rec.Demographics.Devices),
	}
	return &c
}

func cloneCounts(m map[string]int64) map[string]int64 {
	if m == nil {
		return nil
	}
	out := make(map[string]int64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *fakeStatsStore) Find(_ context.Context, subjectID string, kind model.StatsKind) (*model.StatsRecord, error) {
	rec, ok := s.records[statsKey(subjectID, kind)]
	if !ok {
		return nil, model.ErrNotFound
	}
	return cloneRecord(rec), nil
}

func (s *fakeStatsStore) Insert(_ context.Context, rec *model.StatsRecord) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.inserts++
	key := statsKey(rec.SubjectID, rec.Kind)
	if _, ok := s.records[key]; !ok {
		s.records[key] = cloneRecord(rec)
	}
	return nil
}

func (s *fakeStatsStore) Save(_ context.Context, rec *model.StatsRecord) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.records[statsKey(rec.SubjectID, rec.Kind)] = cloneRecord(rec)
	return nil
}

type fakeVideoLookup struct {
	videos map[string]*model.Video
}

func (l *fakeVideoLookup) FindByID(_ context.Context, id string) (*model.Video, error) {
	v, ok := l.videos[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return v, nil
}

func (l *fakeVideoLookup) FindByOwner(_ context.Context, userID string) ([]model.Video, error) {
	var out []model.Video
	for _, v := range l.videos {
		if v.UserID == userID {
			out = append(out, *v)
		}
	}
	return out, nil
}

type orderedVideoLookup struct {
	fakeVideoLookup
	order []string
}

func (l *orderedVideoLookup) FindByOwner(_ context.Context, userID string) ([]model.Video, error) {
	var out []model.Video
	for _, id := range l.order {
		if v := l.videos[id]; v != nil && v.UserID == userID {
			out = append(out, *v)
		}
	}
	return out, nil
}

type fakeUserLookup struct {
	users map[string]*model.User
	err   error
}

func (l *fakeUserLookup) FindByID(_ context.Context, id string) (*model.User, error) {
	if l.err != nil {
		return nil, l.err
	}
	u, ok := l.users[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return u, nil
}

// --- harness ----------------------------------------------------------------

type statsFixture struct {
	svc    *StatsService
	store  *fakeStatsStore
	videos *fakeVideoLookup
	users  *fakeUserLookup
}

func newStatsFixture() *statsFixture {
	store := newFakeStatsStore()
	videos := &fakeVideoLookup{videos: map[string]*model.Video{
		"v1": {ID: "v1", UserID: "ch1", Title: "first", Views: 10},
	}}
	users := &fakeUserLookup{users: map[string]*model.User{
		"ch1": {ID: "ch1", Name: "channel-one", Subscribers: []string{"u1", "u2"}},
	}}
	svc := NewStatsService(store, videos, users, zerolog.Nop())
	return &statsFixture{svc: svc, store: store, videos: videos, users: users}
}

func (f *statsFixture) at(t time.Time) {
	f.svc.now = func() time.Time { return t }
}

// --- view events ------------------------------------------------------------

func TestRecordVideoView_FreshSubjectCountsEveryCall(t *testing.T) {
	f := newStatsFixture()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if _, err := f.svc.RecordVideoView(ctx, "v1", nil); err != nil {
			t.Fatalf("view %d: unexpected error: %v", i+1, err)
		}
	}

	rec, _ := f.store.Find(ctx, "v1", model.KindVideo)
	if rec.TotalViews != 4 {
		t.Errorf("totalViews = %d, want 4", rec.TotalViews)
	}
	if len(rec.DailyBuckets) != 1 {
		t.Fatalf("buckets = %d, want 1", len(rec.DailyBuckets))
	}
	if rec.DailyBuckets[0].Views != 4 {
		t.Errorf("today's bucket views = %d, want 4", rec.DailyBuckets[0].Views)
	}
}

func TestRecordVideoView_SeededRecordScenario(t *testing.T) {
	// Video with seed views=10, then 3 views of 60 seconds each on the same
	// day: totals 13 / 180, exactly one bucket for today with views=3.
	f := newStatsFixture()
	ctx := context.Background()

	if _, err := f.svc.GetVideoStats(ctx, "v1"); err != nil {
		t.Fatalf("seed record: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := f.svc.RecordVideoView(ctx, "v1", &model.ViewContext{DurationSeconds: 60}); err != nil {
			t.Fatalf("view %d: %v", i+1, err)
		}
	}

	rec, _ := f.store.Find(ctx, "v1", model.KindVideo)
	if rec.TotalViews != 13 {
		t.Errorf("totalViews = %d, want 13", rec.TotalViews)
	}
	if rec.WatchTimeMinutes != 180 {
		t.Errorf("watchTimeMinutes = %v, want 180", rec.WatchTimeMinutes)
	}
	if len(rec.DailyBuckets) != 1 {
		t.Fatalf("buckets = %d, want 1", len(rec.DailyBuckets))
	}
	if rec.DailyBuckets[0].Views != 3 {
		t.Errorf("today's bucket views = %d, want 3", rec.DailyBuckets[0].Views)
	}
}

func TestRecordVideoView_UnknownVideo(t *testing.T) {
	f := newStatsFixture()

	_, err := f.svc.RecordVideoView(context.Background(), "missing", nil)
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRecordVideoView_CascadesToChannel(t *testing.T) {
	f := newStatsFixture()
	ctx := context.Background()

	if _, err := f.svc.RecordVideoView(ctx, "v1", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ch, err := f.store.Find(ctx, "ch1", model.KindChannel)
	if err != nil {
		t.Fatalf("channel record not created: %v", err)
	}
	if ch.TotalViews != 1 {
		t.Errorf("channel totalViews = %d, want 1", ch.TotalViews)
	}
	if ch.TotalSubscribers != 2 {
		t.Errorf("channel totalSubscribers = %d, want 2 (seeded)", ch.TotalSubscribers)
	}
	if len(ch.DailyBuckets) != 1 || ch.DailyBuckets[0].Views != 1 {
		t.Errorf("channel buckets = %+v, want one bucket with views=1", ch.DailyBuckets)
	}
}

func TestRecordVideoView_CascadeFailureIsSwallowed(t *testing.T) {
	f := newStatsFixture()
	f.users.err = errors.New("user store down")
	ctx := context.Background()

	rec, err := f.svc.RecordVideoView(ctx, "v1", nil)
	if err != nil {
		t.Fatalf("cascade failure must not surface: %v", err)
	}
	if rec.TotalViews != 1 {
		t.Errorf("video totalViews = %d, want 1", rec.TotalViews)
	}

	// Video update persisted even though the channel update failed.
	stored, err := f.store.Find(ctx, "v1", model.KindVideo)
	if err != nil {
		t.Fatalf("video record missing: %v", err)
	}
	if stored.TotalViews != 1 {
		t.Errorf("persisted video totalViews = %d, want 1", stored.TotalViews)
	}
	if _, err := f.store.Find(ctx, "ch1", model.KindChannel); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("channel record should not exist, got err = %v", err)
	}
}

func TestRecordVideoView_Demographics(t *testing.T) {
	f := newStatsFixture()
	ctx := context.Background()

	views := []*model.ViewContext{
		{Country: "MX", Device: "mobile"},
		{Country: "MX"},
		{Country: "US", Device: "desktop"},
	}
	for i, v := range views {
		if _, err := f.svc.RecordVideoView(ctx, "v1", v); err != nil {
			t.Fatalf("view %d: %v", i+1, err)
		}
	}

	rec, _ := f.store.Find(ctx, "v1", model.KindVideo)
	if got := rec.Demographics.Countries["MX"]; got != 2 {
		t.Errorf("countries[MX] = %d, want 2", got)
	}
	if got := rec.Demographics.Countries["US"]; got != 1 {
		t.Errorf("countries[US] = %d, want 1", got)
	}
	if got := rec.Demographics.Devices["mobile"]; got != 1 {
		t.Errorf("devices[mobile] = %d, want 1", got)
	}
	if got := rec.Demographics.Devices["desktop"]; got != 1 {
		t.Errorf("devices[desktop] = %d, want 1", got)
	}
}

func TestRecordVideoView_NegativeDurationCountsAsZero(t *testing.T) {
	f := newStatsFixture()
	ctx := context.Background()

	if _, err := f.svc.RecordVideoView(ctx, "v1", &model.ViewContext{DurationSeconds: -30}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec, _ := f.store.Find(ctx, "v1", model.KindVideo)
	if rec.WatchTimeMinutes != 0 {
		t.Errorf("watchTimeMinutes = %v, want 0", rec.WatchTimeMinutes)
	}
}

// --- bucket retention -------------------------------------------------------

func TestRecordChannelView_OneBucketPerDay(t *testing.T) {
	f := newStatsFixture()
	ctx := context.Background()
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	// Mixed hours on the same calendar day collapse into one bucket.
	for _, h := range []int{1, 9, 23} {
		if _, err := f.svc.RecordChannelView(ctx, "ch1", day.Add(time.Duration(h)*time.Hour)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	rec, _ := f.store.Find(ctx, "ch1", model.KindChannel)
	if len(rec.DailyBuckets) != 1 {
		t.Fatalf("buckets = %d, want 1", len(rec.DailyBuckets))
	}
	if rec.DailyBuckets[0].Views != 3 {
		t.Errorf("bucket views = %d, want 3", rec.DailyBuckets[0].Views)
	}
}

func TestRecordChannelView_RetentionCapsAt90Days(t *testing.T) {
	f := newStatsFixture()
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	const days = 95
	for i := 0; i < days; i++ {
		if _, err := f.svc.RecordChannelView(ctx, "ch1", start.AddDate(0, 0, i)); err != nil {
			t.Fatalf("day %d: %v", i, err)
		}
	}

	rec, _ := f.store.Find(ctx, "ch1", model.KindChannel)
	if len(rec.DailyBuckets) != 90 {
		t.Fatalf("buckets = %d, want 90", len(rec.DailyBuckets))
	}

	// Retained dates must be exactly the 90 most recent.
	oldest := start.AddDate(0, 0, days-90)
	for _, b := range rec.DailyBuckets {
		if b.Date.Before(oldest) {
			t.Errorf("bucket dated %s survived the trim; oldest allowed is %s",
				b.Date.Format("2006-01-02"), oldest.Format("2006-01-02"))
		}
	}

	// Totals are cumulative and untouched by trimming.
	if rec.TotalViews != days {
		t.Errorf("totalViews = %d, want %d (trim must not change totals)", rec.TotalViews, days)
	}
}

func TestTrimBuckets_KeepsMostRecent(t *testing.T) {
	rec := &model.StatsRecord{}
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 93; i++ {
		rec.DailyBuckets = append(rec.DailyBuckets, model.DailyBucket{Date: base.AddDate(0, 0, i)})
	}

	trimBuckets(rec)

	if len(rec.DailyBuckets) != 90 {
		t.Fatalf("buckets = %d, want 90", len(rec.DailyBuckets))
	}
	// After the trim the slice is ordered newest first.
	if !rec.DailyBuckets[0].Date.Equal(base.AddDate(0, 0, 92)) {
		t.Errorf("newest bucket = %s, want %s",
			rec.DailyBuckets[0].Date, base.AddDate(0, 0, 92))
	}
	if !rec.DailyBuckets[89].Date.Equal(base.AddDate(0, 0, 3)) {
		t.Errorf("oldest retained = %s, want %s",
			rec.DailyBuckets[89].Date, base.AddDate(0, 0, 3))
	}
}

func TestTrimBuckets_NoopUnderCap(t *testing.T) {
	rec := &model.StatsRecord{DailyBuckets: []model.DailyBucket{
		{Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)},
		{Date: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
	}}

	trimBuckets(rec)

	if len(rec.DailyBuckets) != 2 {
		t.Errorf("buckets = %d, want 2 (no trim under the cap)", len(rec.DailyBuckets))
	}
}

// --- subscriptions ----------------------------------------------------------

func TestRecordSubscriptionEvent_SnapshotNotIncrement(t *testing.T) {
	f := newStatsFixture()
	ctx := context.Background()

	// The channel's authoritative list has 2 subscribers throughout;
	// however many events fire, the total reflects the list.
	for i := 0; i < 3; i++ {
		if _, err := f.svc.RecordSubscriptionEvent(ctx, "ch1"); err != nil {
			t.Fatalf("event %d: %v", i+1, err)
		}
	}

	rec, _ := f.store.Find(ctx, "ch1", model.KindChannel)
	if rec.TotalSubscribers != 2 {
		t.Errorf("totalSubscribers = %d, want 2 (snapshot of list length)", rec.TotalSubscribers)
	}
	// The daily bucket is an independent event counter and may diverge.
	if len(rec.DailyBuckets) != 1 || rec.DailyBuckets[0].Subscribers != 3 {
		t.Errorf("today's subscribers bucket = %+v, want one bucket with subscribers=3", rec.DailyBuckets)
	}
}

func TestRecordSubscriptionEvent_UnknownChannel(t *testing.T) {
	f := newStatsFixture()

	_, err := f.svc.RecordSubscriptionEvent(context.Background(), "ghost")
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// --- lazy creation ----------------------------------------------------------

func TestGetOrCreateRecord_SeedsVideoFromDenormalizedCounts(t *testing.T) {
	f := newStatsFixture()
	f.videos.videos["v2"] = &model.Video{
		ID: "v2", UserID: "ch1", Views: 42,
		Likes: []string{"a", "b", "c"}, Dislikes: []string{"d"},
	}

	rec, err := f.svc.GetOrCreateRecord(context.Background(), "v2", model.KindVideo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.TotalViews != 42 {
		t.Errorf("totalViews = %d, want 42", rec.TotalViews)
	}
	if rec.TotalLikes != 3 || rec.TotalDislikes != 1 {
		t.Errorf("likes/dislikes = %d/%d, want 3/1", rec.TotalLikes, rec.TotalDislikes)
	}
}

func TestGetOrCreateRecord_Idempotent(t *testing.T) {
	f := newStatsFixture()
	ctx := context.Background()

	first, err := f.svc.GetOrCreateRecord(ctx, "ch1", model.KindChannel)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	// Mutate the authoritative list; an existing record must not be reseeded.
	f.users.users["ch1"].Subscribers = append(f.users.users["ch1"].Subscribers, "u3")

	second, err := f.svc.GetOrCreateRecord(ctx, "ch1", model.KindChannel)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if second.TotalSubscribers != first.TotalSubscribers {
		t.Errorf("totalSubscribers changed from %d to %d on repeat lookup",
			first.TotalSubscribers, second.TotalSubscribers)
	}
}

func TestGetOrCreateRecord_UnknownSubject(t *testing.T) {
	f := newStatsFixture()

	if _, err := f.svc.GetOrCreateRecord(context.Background(), "nope", model.KindVideo); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("video err = %v, want ErrNotFound", err)
	}
	if _, err := f.svc.GetOrCreateRecord(context.Background(), "nope", model.KindChannel); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("channel err = %v, want ErrNotFound", err)
	}
}

// --- summary report ---------------------------------------------------------

func TestGetSummaryReport_RequiresExistingRecord(t *testing.T) {
	f := newStatsFixture()

	_, err := f.svc.GetSummaryReport(context.Background(), "ch1")
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestGetSummaryReport_WindowBoundaries(t *testing.T) {
	f := newStatsFixture()
	ctx := context.Background()
	today := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	f.at(today.Add(15 * time.Hour))

	// One view 29 days ago (outside), one exactly 28 days ago (inside),
	// one today (inside).
	for _, d := range []time.Time{
		today.AddDate(0, 0, -29),
		today.AddDate(0, 0, -28),
		today,
	} {
		if _, err := f.svc.RecordChannelView(ctx, "ch1", d); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	report, err := f.svc.GetSummaryReport(ctx, "ch1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.ChannelStats.ViewsGained != 2 {
		t.Errorf("viewsGained = %d, want 2 (29-day-old bucket excluded)", report.ChannelStats.ViewsGained)
	}
	if report.ChannelStats.TotalViews != 3 {
		t.Errorf("totalViews = %d, want 3 (lifetime counter keeps all)", report.ChannelStats.TotalViews)
	}
	if len(report.RecentTrends.DailyData) != 2 {
		t.Errorf("dailyData points = %d, want 2", len(report.RecentTrends.DailyData))
	}
}

func TestGetSummaryReport_VideoAggregates(t *testing.T) {
	// Channel with 5 videos viewed [100,50,30,10,5]:
	// totalVideoViews=195, avgViewsPerVideo=39, most viewed in that order.
	store := newFakeStatsStore()
	users := &fakeUserLookup{users: map[string]*model.User{
		"ch1": {ID: "ch1", Subscribers: []string{"u1"}},
	}}
	videos := &orderedVideoLookup{
		fakeVideoLookup: fakeVideoLookup{videos: map[string]*model.Video{}},
	}
	viewCounts := []int64{100, 50, 30, 10, 5}
	for i, n := range viewCounts {
		id := fmt.Sprintf("v%d", i+1)
		videos.videos[id] = &model.Video{ID: id, UserID: "ch1", Title: id, Views: n}
		videos.order = append(videos.order, id)
	}
	svc := NewStatsService(store, videos, users, zerolog.Nop())

	ctx := context.Background()
	if _, err := svc.RecordSubscriptionEvent(ctx, "ch1"); err != nil {
		t.Fatalf("seed channel record: %v", err)
	}

	report, err := svc.GetSummaryReport(ctx, "ch1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vs := report.VideoStats
	if vs.TotalVideos != 5 {
		t.Errorf("totalVideos = %d, want 5", vs.TotalVideos)
	}
	if vs.TotalVideoViews != 195 {
		t.Errorf("totalVideoViews = %d, want 195", vs.TotalVideoViews)
	}
	if vs.AvgViewsPerVideo != 39 {
		t.Errorf("avgViewsPerVideo = %v, want 39", vs.AvgViewsPerVideo)
	}
	if len(vs.MostViewedVideos) != 5 {
		t.Fatalf("mostViewedVideos = %d entries, want 5", len(vs.MostViewedVideos))
	}
	for i, want := range viewCounts {
		if vs.MostViewedVideos[i].Views != want {
			t.Errorf("mostViewedVideos[%d].views = %d, want %d", i, vs.MostViewedVideos[i].Views, want)
		}
	}
}

func TestSummarizeVideos_TopFiveAndStableTies(t *testing.T) {
	videos := []model.Video{
		{ID: "a", Views: 10},
		{ID: "b", Views: 50},
		{ID: "c", Views: 50}, // tie with b; must stay after it
		{ID: "d", Views: 5},
		{ID: "e", Views: 70},
		{ID: "f", Views: 1},
		{ID: "g", Views: 0},
	}

	summary := summarizeVideos(videos)

	if len(summary.MostViewedVideos) != 5 {
		t.Fatalf("entries = %d, want 5", len(summary.MostViewedVideos))
	}
	gotOrder := ""
	for _, h := range summary.MostViewedVideos {
		gotOrder += h.ID
	}
	if gotOrder != "ebcad" {
		t.Errorf("order = %q, want %q (stable sort keeps b before c)", gotOrder, "ebcad")
	}
}

func TestSummarizeVideos_EmptyCatalog(t *testing.T) {
	summary := summarizeVideos(nil)

	if summary.AvgViewsPerVideo != 0 || summary.AvgLikesPerVideo != 0 {
		t.Errorf("averages = %v/%v, want 0/0 for empty catalog",
			summary.AvgViewsPerVideo, summary.AvgLikesPerVideo)
	}
	if summary.MostViewedVideos == nil || len(summary.MostViewedVideos) != 0 {
		t.Errorf("mostViewedVideos = %v, want empty non-nil slice", summary.MostViewedVideos)
	}
}

func TestSumBuckets_MissingFieldsAreZero(t *testing.T) {
	total := sumBuckets([]model.DailyBucket{
		{Views: 3},
		{Subscribers: 2},
		{Views: 1, Comments: 4},
	})

	if total.Views != 4 || total.Subscribers != 2 || total.Comments != 4 || total.Likes != 0 {
		t.Errorf("totals = %+v, want views=4 subscribers=2 comments=4 likes=0", total)
	}
}
