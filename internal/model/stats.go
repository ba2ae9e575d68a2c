package model

import "time"

// StatsKind discriminates between channel-level and video-level records.
type StatsKind string

const (
	KindChannel StatsKind = "channel"
	KindVideo   StatsKind = "video"
)

// DailyBucket holds one calendar day's incremental counts. At most one
// bucket exists per distinct date within a record.
type DailyBucket struct {
	Date        time.Time `json:"date"`
	Views       int64     `json:"views"`
	Likes       int64     `json:"likes"`
	Dislikes    int64     `json:"dislikes"`
	Comments    int64     `json:"comments"`
	Subscribers int64     `json:"subscribers"`
}

// Demographics tracks viewer breakdowns as label → running count per
// dimension. Age ranges and genders are reserved; no current event type
// populates them.
type Demographics struct {
	AgeRanges map[string]int64 `json:"ageRanges,omitempty"`
	Genders   map[string]int64 `json:"genders,omitempty"`
	Countries map[string]int64 `json:"countries,omitempty"`
	Devices   map[string]int64 `json:"devices,omitempty"`
}

// AddCountry increments the running count for a country label,
// creating the mapping on first use.
func (d *Demographics) AddCountry(label string) {
	if d.Countries == nil {
		d.Countries = make(map[string]int64)
	}
	d.Countries[label]++
}

// AddDevice increments the running count for a device label.
func (d *Demographics) AddDevice(label string) {
	if d.Devices == nil {
		d.Devices = make(map[string]int64)
	}
	d.Devices[label]++
}

// StatsRecord is the aggregated statistics document for a single subject
// (one channel or one video). Totals are cumulative since record creation;
// DailyBuckets is a bounded sliding window and trimming it never changes
// the totals.
type StatsRecord struct {
	SubjectID        string        `json:"subjectId"`
	Kind             StatsKind     `json:"kind"`
	TotalViews       int64         `json:"totalViews"`
	TotalLikes       int64         `json:"totalLikes"`
	TotalDislikes    int64         `json:"totalDislikes"`
	TotalComments    int64         `json:"totalComments"`
	TotalSubscribers int64         `json:"totalSubscribers"`
	WatchTimeMinutes float64       `json:"watchTimeMinutes"`
	DailyBuckets     []DailyBucket `json:"dailyStats"`
	Demographics     Demographics  `json:"demographics"`
	LastUpdated      time.Time     `json:"lastUpdated"`
}

// ViewContext is optional metadata attached to a view event. Absent or
// invalid numeric fields are treated as zero, never rejected.
type ViewContext struct {
	DurationSeconds float64 `json:"durationSeconds"`
	Country         string  `json:"country,omitempty"`
	Device          string  `json:"device,omitempty"`
}

// SummaryReport is the derived channel dashboard payload.
type SummaryReport struct {
	ChannelStats ChannelSummary `json:"channelStats"`
	VideoStats   VideoSummary   `json:"videoStats"`
	RecentTrends RecentTrends   `json:"recentTrends"`
}

// ChannelSummary holds lifetime totals plus gains over the report window.
type ChannelSummary struct {
	TotalSubscribers  int64 `json:"totalSubscribers"`
	TotalViews        int64 `json:"totalViews"`
	SubscribersGained int64 `json:"subscribersGained"`
	ViewsGained       int64 `json:"viewsGained"`
}

// VideoSummary aggregates the channel's current video catalog.
type VideoSummary struct {
	TotalVideos      int              `json:"totalVideos"`
	TotalVideoViews  int64            `json:"totalVideoViews"`
	AvgViewsPerVideo float64          `json:"avgViewsPerVideo"`
	AvgLikesPerVideo float64          `json:"avgLikesPerVideo"`
	MostViewedVideos []VideoHighlight `json:"mostViewedVideos"`
}

// VideoHighlight is a most-viewed-videos projection.
type VideoHighlight struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Views int64  `json:"views"`
	Likes int    `json:"likes"`
}

// RecentTrends carries the windowed per-day data points for charting.
type RecentTrends struct {
	DailyData []DailyTrend `json:"dailyData"`
}

// DailyTrend is a single chart point.
type DailyTrend struct {
	Date        time.Time `json:"date"`
	Views       int64     `json:"views"`
	Subscribers int64     `json:"subscribers"`
}
