// internal/service/analysis/analyzer.go

package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	domain "github.com/jessicalanggg/trendlytics/internal/domain/analysis"
	"github.com/jessicalanggg/trendlytics/internal/domain/media"
)

// ReportStore defines storage for finished reports.
type ReportStore interface {
	SaveReport(ctx context.Context, r domain.Report) error
	SaveChannelReport(ctx context.Context, r domain.ChannelReport) error
	GetReport(ctx context.Context, id string) (*domain.Report, error)
	ListReports(ctx context.Context, platform string, limit int) ([]domain.Report, error)
}

// AnalyzerConfig contains configuration for the analysis pipeline.
type AnalyzerConfig struct {
	ViewMultiplier int
	TopClips       int
	IdeaCount      int
	EventsTopic    string
	Extractor      ExtractorConfig
	Distiller      DistillerConfig
}

// DefaultAnalyzerConfig returns the pipeline defaults.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		ViewMultiplier: DefaultViewMultiplier,
		TopClips:       3,
		IdeaCount:      8,
		EventsTopic:    "trendlytics",
		Extractor:      DefaultExtractorConfig(),
		Distiller:      DefaultDistillerConfig(),
	}
}

// Analyzer runs the full content analysis pipeline: tag extraction,
// keyword distillation, trending lookup, engagement metrics,
// recommendations and idea generation.
type Analyzer struct {
	extractor *TagExtractor
	channel   *ChannelAnalyzer
	ideas     *IdeaGenerator
	trending  *TrendingClient
	filter    *WordFilter
	store     ReportStore
	eventBus  *nats.Conn
	config    AnalyzerConfig
}

// NewAnalyzer creates an analyzer. The event bus and store may be nil;
// progress publishing and persistence are then skipped.
func NewAnalyzer(
	gen domain.TextGenerator,
	filter *WordFilter,
	store ReportStore,
	eventBus *nats.Conn,
	config AnalyzerConfig,
) *Analyzer {
	return &Analyzer{
		extractor: NewTagExtractor(gen, filter, config.Extractor),
		channel:   NewChannelAnalyzer(gen),
		ideas:     NewIdeaGenerator(gen),
		trending:  NewTrendingClient(),
		filter:    filter,
		store:     store,
		eventBus:  eventBus,
		config:    config,
	}
}

// AnalyzeProfile runs the TikTok pipeline over scraped posts and returns
// a persisted report.
func (a *Analyzer) AnalyzeProfile(ctx context.Context, platform, handle string, posts []media.VideoPost) (*domain.Report, error) {
	if len(posts) == 0 {
		return nil, fmt.Errorf("no videos found for %s", handle)
	}

	runID := uuid.New().String()
	a.publishProgress(runID, "extracting", fmt.Sprintf("%d videos", len(posts)))

	descriptions := make([]string, len(posts))
	for i, p := range posts {
		descriptions[i] = p.Text
	}
	tagSets := a.extractor.ExtractAll(ctx, descriptions)

	a.publishProgress(runID, "distilling", "")
	coreKeywords := DistillCoreKeywords(tagSets, a.filter, a.config.Distiller)

	a.publishProgress(runID, "trending", "")
	trending := a.trending.Lookup(ctx, coreKeywords, 0)

	a.publishProgress(runID, "scoring", "")
	metrics := Engagement(posts, a.config.ViewMultiplier)
	top, bottom := RankClips(posts, a.config.TopClips)
	recommendations := Recommendations(metrics, tagSets)

	a.publishProgress(runID, "generating", "")
	topics := TopTopics(tagSets, 5)
	plan := a.ideas.Generate(ctx, topics, trending, a.config.IdeaCount)

	report := &domain.Report{
		ID:               runID,
		Platform:         platform,
		Handle:           handle,
		Metrics:          metrics,
		Recommendations:  recommendations,
		ContentPlan:      plan,
		TopClips:         top,
		BottomClips:      bottom,
		CoreKeywords:     coreKeywords,
		TrendingKeywords: trending,
		CreatedAt:        time.Now().UTC(),
	}

	if a.store != nil {
		if err := a.store.SaveReport(ctx, *report); err != nil {
			log.Printf("Error saving report %s: %v", runID, err)
		}
	}
	a.publishProgress(runID, "completed", "")
	a.publishCompleted(runID, report)
	return report, nil
}

// AnalyzeChannel runs the YouTube pipeline over a channel's video titles.
func (a *Analyzer) AnalyzeChannel(ctx context.Context, channelID string, titles []string) (*domain.ChannelReport, error) {
	if len(titles) == 0 {
		return nil, fmt.Errorf("no video titles found for %s", channelID)
	}

	runID := uuid.New().String()
	a.publishProgress(runID, "signature", fmt.Sprintf("%d titles", len(titles)))
	sig := a.channel.Signature(ctx, titles)

	a.publishProgress(runID, "generating", "")
	ideas := a.channel.VideoIdeas(ctx, sig.Topics, sig.Vibes, 8)
	tips := a.channel.GrowthTips(ctx, sig.Topics, sig.Vibes, 5)

	report := &domain.ChannelReport{
		ID:         runID,
		ChannelID:  channelID,
		Signature:  sig,
		VideoIdeas: ideas,
		GrowthTips: tips,
		VideoCount: len(titles),
		CreatedAt:  time.Now().UTC(),
	}

	if a.store != nil {
		if err := a.store.SaveChannelReport(ctx, *report); err != nil {
			log.Printf("Error saving channel report %s: %v", runID, err)
		}
	}
	a.publishProgress(runID, "completed", "")
	a.publishCompleted(runID, report)
	return report, nil
}

// publishProgress publishes a pipeline stage notification for a run.
func (a *Analyzer) publishProgress(runID, stage, detail string) {
	if a.eventBus == nil {
		return
	}
	data, err := json.Marshal(domain.Progress{
		RunID:  runID,
		Stage:  stage,
		Detail: detail,
		Time:   time.Now().UTC(),
	})
	if err != nil {
		return
	}
	subject := fmt.Sprintf("%s.runs.%s.progress", a.config.EventsTopic, runID)
	if err := a.eventBus.Publish(subject, data); err != nil {
		log.Printf("Error publishing progress event: %v", err)
	}
}

// publishCompleted publishes the finished report for a run.
func (a *Analyzer) publishCompleted(runID string, report interface{}) {
	if a.eventBus == nil {
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		return
	}
	subject := fmt.Sprintf("%s.runs.%s.completed", a.config.EventsTopic, runID)
	if err := a.eventBus.Publish(subject, data); err != nil {
		log.Printf("Error publishing completion event: %v", err)
	}
}
