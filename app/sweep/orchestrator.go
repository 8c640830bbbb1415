package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pressradar/pressradar/app/classify"
	"github.com/pressradar/pressradar/app/cluster"
	"github.com/pressradar/pressradar/app/database"
	"github.com/pressradar/pressradar/app/discovery"
	"github.com/pressradar/pressradar/app/extract"
	"github.com/pressradar/pressradar/app/outlet"
	"github.com/pressradar/pressradar/app/query"
	"github.com/pressradar/pressradar/app/topic"
)

const (
	// Scraped pages with less readable text than this are persisted from
	// the search snippet alone; there is not enough content to gate on.
	minArticleTextLen = 300
	excerptMaxLen     = 500
	defaultSweepLimit = 50
)

// Orchestrator runs the full sweep pipeline for one topic: query building,
// provider discovery, outlet filtering, dedup, persistence, story clustering,
// journalist attribution and sentiment scoring. A candidate that survives the
// filters is always persisted; failures in the enrichment steps are recorded
// and never discard the mention.
type Orchestrator struct {
	topics      database.TopicRepository
	mentions    database.MentionRepository
	journalists database.JournalistRepository
	clusters    *cluster.Engine

	structured discovery.StructuredSearcher
	sources    []discovery.URLSource
	scraper    discovery.Scraper

	relevance classify.RelevanceClassifier
	sentiment classify.SentimentClassifier
}

func NewOrchestrator(
	topics database.TopicRepository,
	mentions database.MentionRepository,
	journalists database.JournalistRepository,
	clusters *cluster.Engine,
	structured discovery.StructuredSearcher,
	sources []discovery.URLSource,
	scraper discovery.Scraper,
	relevance classify.RelevanceClassifier,
	sentiment classify.SentimentClassifier,
) *Orchestrator {
	return &Orchestrator{
		topics:      topics,
		mentions:    mentions,
		journalists: journalists,
		clusters:    clusters,
		structured:  structured,
		sources:     sources,
		scraper:     scraper,
		relevance:   relevance,
		sentiment:   sentiment,
	}
}

// Sweep runs the pipeline for one topic and always returns a report; errors
// that stop the sweep are carried in the report rather than returned.
func (o *Orchestrator) Sweep(ctx context.Context, topicConfig *topic.Config) *Report {
	report := &Report{
		Topic:     topicConfig.Name,
		State:     StateIdle,
		StartedAt: time.Now().UTC(),
	}
	defer func() { report.FinishedAt = time.Now().UTC() }()

	slog.Info("Starting sweep", "topic", topicConfig.Name)

	if !topicConfig.HasSearchableTerms() {
		return o.failPermanent(report, fmt.Errorf("topic has no keywords or bill ids to search for"))
	}
	report.State = StateQueryBuilt

	topicRow, err := o.topics.GetTopic(topicConfig.Name)
	if err != nil {
		return o.fail(report, fmt.Errorf("failed to load topic: %w", err))
	}
	if topicRow == nil {
		return o.fail(report, fmt.Errorf("topic %s is not registered", topicConfig.Name))
	}

	known, err := o.mentions.KnownURLs(topicRow.ID)
	if err != nil {
		return o.fail(report, fmt.Errorf("failed to load known urls: %w", err))
	}
	seen := newURLSet(known)

	limit := topicConfig.Settings.MaxMentions
	if limit <= 0 {
		limit = defaultSweepLimit
	}
	opts := discovery.SearchOptions{Limit: limit}
	if topicRow.LastSweptAt != nil {
		opts.Since = *topicRow.LastSweptAt
	}

	report.State = StateDiscovering
	o.sweepStructured(ctx, topicConfig, topicRow, opts, seen, report)
	o.sweepWeb(ctx, topicConfig, topicRow, opts, seen, report)

	report.State = StateDone
	slog.Info("Sweep finished",
		"topic", topicConfig.Name,
		"searched", report.Searched,
		"skipped", report.Skipped,
		"new_mentions", report.NewMentions)

	return report
}

// sweepStructured ingests the structured provider's fully parsed articles.
// Its candidates arrive pre-filtered for relevance and carry clustering and
// sentiment signals, so they skip the scrape and the relevance gate.
func (o *Orchestrator) sweepStructured(ctx context.Context, topicConfig *topic.Config, topicRow *database.Topic, opts discovery.SearchOptions, seen *urlSet, report *Report) {
	if o.structured == nil {
		return
	}

	searchQuery := query.BuildStructuredQuery(topicConfig)
	candidates, err := o.structured.SearchStructured(ctx, searchQuery, opts)
	if err != nil {
		o.stepError(report, fmt.Errorf("%s search failed: %w", o.structured.Name(), err))
		return
	}
	report.Searched += len(candidates)

	report.State = StateFiltering
	for i := range candidates {
		candidate := &candidates[i]

		domain := outlet.Domain(candidate.URL)
		if !outlet.IsNewsOutlet(domain) {
			report.Skipped++
			continue
		}
		if !seen.claim(candidate.URL) {
			report.Skipped++
			continue
		}

		candidate.Excerpt = extract.Excerpt(firstNonEmpty(candidate.Excerpt, candidate.Content), excerptMaxLen)
		o.persist(ctx, topicConfig, topicRow, candidate, domain, report)
	}
}

// sweepWeb runs every URL-returning source through the cheap filters first
// and only then pays for the scrape. Scraped pages face the relevance gate
// before persistence.
func (o *Orchestrator) sweepWeb(ctx context.Context, topicConfig *topic.Config, topicRow *database.Topic, opts discovery.SearchOptions, seen *urlSet, report *Report) {
	if len(o.sources) == 0 || o.scraper == nil {
		return
	}

	searchQuery := query.BuildWebQuery(topicConfig)

	for _, source := range o.sources {
		results, err := source.SearchWeb(ctx, searchQuery, opts)
		if err != nil {
			o.stepError(report, fmt.Errorf("%s search failed: %w", source.Name(), err))
			continue
		}
		report.Searched += len(results)

		report.State = StateFiltering
		for _, result := range results {
			domain := outlet.Domain(result.URL)
			if !outlet.IsNewsOutlet(domain) {
				report.Skipped++
				continue
			}
			if !seen.claim(result.URL) {
				report.Skipped++
				continue
			}

			candidate, skip := o.scrapeCandidate(ctx, topicConfig, source.Name(), result, report)
			if candidate == nil {
				continue
			}
			if skip {
				report.Skipped++
				continue
			}

			o.persist(ctx, topicConfig, topicRow, candidate, domain, report)
		}
	}
}

// scrapeCandidate fetches and extracts one web result. It returns (nil, false)
// when the scrape itself failed, and (candidate, true) when the article was
// fetched but judged off-topic.
func (o *Orchestrator) scrapeCandidate(ctx context.Context, topicConfig *topic.Config, sourceName string, result discovery.URLResult, report *Report) (*discovery.Candidate, bool) {
	scraped, err := o.scraper.Scrape(ctx, result.URL)
	if err != nil {
		o.stepError(report, fmt.Errorf("failed to scrape %s: %w", result.URL, err))
		return nil, false
	}

	candidate := &discovery.Candidate{
		URL:         result.URL,
		Title:       firstNonEmpty(scraped.Title, result.Title),
		Excerpt:     extract.Excerpt(result.Snippet, excerptMaxLen),
		RawHTML:     scraped.HTML,
		PublishedAt: scraped.PublishedAt,
		Source:      sourceName,
	}
	if scraped.Author != "" {
		candidate.Authors = []string{scraped.Author}
	}

	content, err := extract.FromHTML(scraped.HTML, result.URL)
	if err != nil || len(content.Text) < minArticleTextLen {
		// Too little readable text to judge relevance. The search hit
		// itself is evidence enough; keep the snippet as the excerpt.
		slog.Debug("Keeping mention without extracted content", "url", result.URL)
		return candidate, false
	}

	candidate.Content = content.Text
	candidate.Excerpt = extract.Excerpt(content.Text, excerptMaxLen)
	if candidate.Title == "" {
		candidate.Title = content.Title
	}
	if len(candidate.Authors) == 0 && content.Byline != "" {
		candidate.Authors = []string{content.Byline}
	}

	if !o.relevance.IsRelevant(ctx, topicDescription(topicConfig), candidate.Title, candidate.Excerpt) {
		slog.Debug("Dropping off-topic article", "url", result.URL, "topic", topicConfig.Name)
		return candidate, true
	}

	return candidate, false
}

// persist inserts the mention and runs the enrichment steps. Clustering,
// attribution and scoring failures are logged and recorded but the mention
// stays.
func (o *Orchestrator) persist(ctx context.Context, topicConfig *topic.Config, topicRow *database.Topic, candidate *discovery.Candidate, domain string, report *Report) {
	report.State = StatePersisting

	mention := &database.Mention{
		TopicID:   topicRow.ID,
		URL:       candidate.URL,
		Title:     candidate.Title,
		Outlet:    domain,
		Excerpt:   candidate.Excerpt,
		Content:   candidate.Content,
		EventID:   candidate.Hint.EventID,
		Sentiment: string(classify.SentimentUnscored),
	}
	if candidate.PublishedAt != nil {
		mention.PublishedAt = *candidate.PublishedAt
	}

	inserted, err := o.mentions.Insert(mention)
	if err != nil {
		o.stepError(report, fmt.Errorf("failed to persist %s: %w", candidate.URL, err))
		return
	}
	if !inserted {
		report.Skipped++
		return
	}
	report.NewMentions++

	if _, _, err := o.clusters.Assign(mention, candidate.Hint); err != nil {
		o.stepError(report, fmt.Errorf("failed to cluster %s: %w", candidate.URL, err))
	}

	// Sentiment is resolved before attribution so the journalist's running
	// mean can fold in this article.
	sentiment, sentimentValue := o.resolveSentiment(ctx, topicConfig, candidate)

	report.State = StateAttributing
	o.attribute(candidate, mention, domain, topicConfig, sentimentValue, report)

	report.State = StateScoring
	if err := o.mentions.UpdateSentiment(mention.ID, string(sentiment)); err != nil {
		o.stepError(report, fmt.Errorf("failed to score %s: %w", candidate.URL, err))
	}
	mention.Sentiment = string(sentiment)
}

// attribute resolves the mention's author and updates the journalist record.
func (o *Orchestrator) attribute(candidate *discovery.Candidate, mention *database.Mention, domain string, topicConfig *topic.Config, sentimentValue *float64, report *Report) {
	metaAuthor := ""
	if len(candidate.Authors) > 0 {
		metaAuthor = candidate.Authors[0]
	}

	byline := extract.ExtractByline(candidate.RawHTML, candidate.Content, domain, metaAuthor)
	if byline == nil {
		return
	}

	beat := firstNonEmpty(topicConfig.DisplayName, topicConfig.Name)
	journalistID, err := o.journalists.Upsert(database.JournalistUpdate{
		Name:           byline.Name,
		Outlet:         domain,
		Email:          byline.Email,
		Phone:          byline.Phone,
		Twitter:        byline.Twitter,
		LinkedIn:       byline.LinkedIn,
		SentimentValue: sentimentValue,
		Beats:          []string{beat},
		ArticleAt:      mention.PublishedAt,
	})
	if err != nil {
		o.stepError(report, fmt.Errorf("failed to record journalist %s: %w", byline.Name, err))
		return
	}

	if err := o.mentions.UpdateJournalist(mention.ID, journalistID); err != nil {
		o.stepError(report, fmt.Errorf("failed to attribute %s: %w", candidate.URL, err))
	}
}

// resolveSentiment settles the mention's tone and its numeric value for the
// journalist's running mean. A provider score is used as-is; classified
// enums map to the unit interval endpoints.
func (o *Orchestrator) resolveSentiment(ctx context.Context, topicConfig *topic.Config, candidate *discovery.Candidate) (classify.Sentiment, *float64) {
	if candidate.SentimentScore != nil {
		return classify.SentimentFromScore(*candidate.SentimentScore), candidate.SentimentScore
	}

	text := firstNonEmpty(candidate.Content, candidate.Excerpt)
	sentiment := o.sentiment.Classify(ctx, topicConfig.Name, candidate.Title, text)

	switch sentiment {
	case classify.SentimentPositive:
		value := 1.0
		return sentiment, &value
	case classify.SentimentNegative:
		value := -1.0
		return sentiment, &value
	case classify.SentimentNeutral:
		value := 0.0
		return sentiment, &value
	default:
		return sentiment, nil
	}
}

func (o *Orchestrator) fail(report *Report, err error) *Report {
	report.Retryable = true
	return o.failPermanent(report, err)
}

// failPermanent is for failures that only a configuration change can heal;
// retrying them would just burn the task's retry budget.
func (o *Orchestrator) failPermanent(report *Report, err error) *Report {
	slog.Error("Sweep failed", "topic", report.Topic, "error", err)
	report.State = StateFailed
	report.Err = err.Error()
	return report
}

func (o *Orchestrator) stepError(report *Report, err error) {
	slog.Warn("Sweep step failed", "topic", report.Topic, "error", err)
	report.StepErrors = append(report.StepErrors, err.Error())
}

func topicDescription(topicConfig *topic.Config) string {
	description := firstNonEmpty(topicConfig.DisplayName, topicConfig.Name)
	if topicConfig.State != "" {
		if stateName := query.StateName(topicConfig.State); stateName != "" {
			description += " in " + stateName
		}
	}
	return description
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
