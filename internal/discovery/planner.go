package discovery

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/streamsage/streamsage/internal/catalog"
	"github.com/streamsage/streamsage/internal/catalog/tmdb"
	"github.com/streamsage/streamsage/internal/config"
)

// PlanResult is the planner's output: the ordered result list plus any
// secondary lookups that enrich the reply.
type PlanResult struct {
	Results     []SearchResult
	PersonInfo  *PersonInfo
	ContentInfo *ContentInfo

	// RelaxationSteps counts ladder rungs applied for observability.
	RelaxationSteps int
}

// Planner turns a QueryIntent into catalog calls, paginating and
// relaxing constraints until enough results exist.
type Planner struct {
	catalog *catalog.Service
	filters *FilterTables
	cfg     config.DiscoveryConfig
	logger  zerolog.Logger

	now func() time.Time
}

// NewPlanner creates a planner.
func NewPlanner(catalogSvc *catalog.Service, filters *FilterTables, cfg config.DiscoveryConfig, logger zerolog.Logger) *Planner {
	return &Planner{
		catalog: catalogSvc,
		filters: filters,
		cfg:     cfg,
		logger:  logger.With().Str("component", "planner").Logger(),
		now:     time.Now,
	}
}

// Plan dispatches to exactly one handler per intent variant, in fixed
// precedence order.
func (p *Planner) Plan(ctx context.Context, intent *QueryIntent) (*PlanResult, error) {
	switch {
	case intent.UseTrendingAPI:
		return p.handleTrending(ctx, intent)
	case intent.SpecificTitle != "" && !intent.IsContentInfoQuery:
		return p.handleSpecificTitle(ctx, intent)
	case intent.PersonName != "" && !intent.IsPersonInfoQuery:
		return p.handlePersonCredits(ctx, intent)
	case intent.IsPersonInfoQuery:
		return p.handlePersonInfo(ctx, intent)
	case intent.IsContentInfoQuery:
		return p.handleContentInfo(ctx, intent)
	default:
		return p.handleDiscovery(ctx, intent)
	}
}

// handleTrending serves trending/popular and vague conversation-starter
// requests.
func (p *Planner) handleTrending(ctx context.Context, intent *QueryIntent) (*PlanResult, error) {
	var results []SearchResult
	var lastErr error

	for _, ct := range contentTypes(intent.ContentType) {
		resp, err := p.catalog.Trending(ctx, catalogType(ct), 1)
		if err != nil {
			p.logger.Warn().Err(err).Str("contentType", string(ct)).Msg("Trending lookup failed")
			lastErr = err
			continue
		}
		results = append(results, normalizeResults(resp.Results, ct)...)
	}

	if len(results) == 0 && lastErr != nil {
		return nil, fmt.Errorf("trending lookup failed: %w", lastErr)
	}

	return &PlanResult{Results: capResults(results, p.cfg.ResultCap)}, nil
}

// handleSpecificTitle resolves an exact-title lookup. A stated provider
// filter is applied as a hard filter on the matches, never relaxed.
func (p *Planner) handleSpecificTitle(ctx context.Context, intent *QueryIntent) (*PlanResult, error) {
	var results []SearchResult
	var lastErr error

	for _, ct := range contentTypes(intent.ContentType) {
		resp, err := p.catalog.SearchContent(ctx, catalogType(ct), intent.SpecificTitle, intent.YearStart)
		if err != nil {
			p.logger.Warn().Err(err).Str("title", intent.SpecificTitle).Str("contentType", string(ct)).Msg("Title search failed")
			lastErr = err
			continue
		}
		results = append(results, normalizeResults(resp.Results, ct)...)
	}

	if len(results) == 0 && lastErr != nil {
		return nil, fmt.Errorf("title lookup failed: %w", lastErr)
	}

	if len(intent.Providers) > 0 {
		results = p.filterByProviders(ctx, results, intent.Providers, intent.CountryCode)
	}

	return &PlanResult{Results: capResults(results, p.cfg.ResultCap)}, nil
}

// handlePersonCredits returns a person's filmography, narrowed by role
// and content type. Providers are a hard filter here too.
func (p *Planner) handlePersonCredits(ctx context.Context, intent *QueryIntent) (*PlanResult, error) {
	person, err := p.catalog.ResolvePerson(ctx, intent.PersonName)
	if err != nil {
		if errors.Is(err, catalog.ErrPersonNotFound) {
			// Degrade to general discovery rather than failing.
			p.logger.Debug().Str("person", intent.PersonName).Msg("Person not found, falling back to discovery")
			fallback := intent.Clone()
			fallback.PersonName = ""
			return p.handleDiscovery(ctx, fallback)
		}
		return nil, fmt.Errorf("person lookup failed: %w", err)
	}

	credits, err := p.catalog.PersonCredits(ctx, person.ID)
	if err != nil {
		return nil, fmt.Errorf("person credits lookup failed: %w", err)
	}

	results := p.creditsToResults(credits, intent)

	if len(intent.Providers) > 0 {
		results = p.filterByProviders(ctx, results, intent.Providers, intent.CountryCode)
	}

	return &PlanResult{Results: capResults(results, p.cfg.ResultCap)}, nil
}

// handlePersonInfo answers a biographical question, with the person's
// best-known work as related results.
func (p *Planner) handlePersonInfo(ctx context.Context, intent *QueryIntent) (*PlanResult, error) {
	person, err := p.catalog.ResolvePerson(ctx, intent.PersonName)
	if err != nil {
		if errors.Is(err, catalog.ErrPersonNotFound) {
			return &PlanResult{}, nil
		}
		return nil, fmt.Errorf("person lookup failed: %w", err)
	}

	details, err := p.catalog.PersonDetails(ctx, person.ID)
	if err != nil {
		p.logger.Warn().Err(err).Int("personId", person.ID).Msg("Person details lookup failed")
		return &PlanResult{}, nil
	}

	info := &PersonInfo{
		ID:           details.ID,
		Name:         details.Name,
		Biography:    details.Biography,
		Birthday:     details.Birthday,
		Deathday:     details.Deathday,
		PlaceOfBirth: details.PlaceOfBirth,
		Department:   details.KnownForDepartment,
		ProfilePath:  details.ProfilePath,
	}

	var results []SearchResult
	if credits, err := p.catalog.PersonCredits(ctx, person.ID); err == nil {
		related := intent.Clone()
		related.PersonRole = RoleAny
		results = p.creditsToResults(credits, related)
		if len(results) > 10 {
			results = results[:10]
		}
	} else {
		p.logger.Warn().Err(err).Int("personId", person.ID).Msg("Related credits lookup failed")
	}

	return &PlanResult{Results: results, PersonInfo: info}, nil
}

// handleContentInfo answers a title-fact question, with similar titles
// as related results.
func (p *Planner) handleContentInfo(ctx context.Context, intent *QueryIntent) (*PlanResult, error) {
	match, ct, err := p.findTitle(ctx, intent)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return &PlanResult{}, nil
	}

	info := p.lookupContentInfo(ctx, match, ct)

	var results []SearchResult
	if resp, err := p.catalog.Similar(ctx, catalogType(ct), match.ID); err == nil {
		results = capResults(normalizeResults(resp.Results, ct), 10)
	} else {
		p.logger.Warn().Err(err).Int("id", match.ID).Msg("Similar-content lookup failed")
	}

	return &PlanResult{Results: results, ContentInfo: info}, nil
}

// handleDiscovery runs the general filtered search: pre-emptive filter
// guard, then the reactive relaxation ladder.
func (p *Planner) handleDiscovery(ctx context.Context, intent *QueryIntent) (*PlanResult, error) {
	guarded := p.applyFilterGuard(intent)

	results, err := p.runDiscovery(ctx, guarded)
	if err != nil {
		return nil, err
	}

	if len(results) >= p.cfg.MinResults {
		return &PlanResult{Results: results}, nil
	}

	return p.relax(ctx, guarded, results)
}

// runDiscovery executes one rung: a paginated discover call per
// requested content type. A single content type's failure is logged and
// skipped; the call fails only when nothing succeeded.
func (p *Planner) runDiscovery(ctx context.Context, intent *QueryIntent) ([]SearchResult, error) {
	var results []SearchResult
	var lastErr error
	seen := make(map[string]bool)

	for _, ct := range contentTypes(intent.ContentType) {
		pageResults, err := p.discoverPages(ctx, intent, ct)
		if err != nil {
			p.logger.Warn().Err(err).Str("contentType", string(ct)).Msg("Discovery search failed")
			lastErr = err
			continue
		}
		for _, r := range pageResults {
			key := fmt.Sprintf("%s:%d", r.ContentType, r.ID)
			if !seen[key] {
				results = append(results, r)
				seen[key] = true
			}
		}
	}

	if len(results) == 0 && lastErr != nil {
		return nil, fmt.Errorf("discovery search failed: %w", lastErr)
	}

	return capResults(results, p.cfg.ResultCap), nil
}

// discoverPages fetches page 1 and up to MaxPages-1 further pages while
// the accumulated count stays under the cap, pausing between pages to
// respect upstream rate limits.
func (p *Planner) discoverPages(ctx context.Context, intent *QueryIntent, ct ContentType) ([]SearchResult, error) {
	query, err := p.buildDiscoverQuery(ctx, intent, ct)
	if err != nil {
		return nil, err
	}

	var results []SearchResult

	resp, err := p.catalog.Discover(ctx, catalogType(ct), query)
	if err != nil {
		return nil, err
	}
	results = append(results, normalizeResults(resp.Results, ct)...)

	delay := time.Duration(p.cfg.PageDelayMs) * time.Millisecond
	for page := 2; page <= resp.TotalPages && page <= p.cfg.MaxPages && len(results) < p.cfg.ResultCap; page++ {
		if delay > 0 {
			select {
			case <-ctx.Done():
				return results, ctx.Err()
			case <-time.After(delay):
			}
		}

		query.Page = page
		next, err := p.catalog.Discover(ctx, catalogType(ct), query)
		if err != nil {
			p.logger.Warn().Err(err).Int("page", page).Msg("Discovery page fetch failed")
			break
		}
		results = append(results, normalizeResults(next.Results, ct)...)
	}

	return results, nil
}

// buildDiscoverQuery encodes an intent as one catalog discover call for
// a content type.
func (p *Planner) buildDiscoverQuery(ctx context.Context, intent *QueryIntent, ct ContentType) (tmdb.DiscoverQuery, error) {
	q := tmdb.DiscoverQuery{
		Page:   1,
		SortBy: sortParam(intent.SortOrder, ct),
	}

	genres := intent.Genres
	if len(intent.genreNames) > 0 {
		genres = p.filters.ResolveGenres(intent.genreNames, ct)
	}
	q.Genres = genres

	if len(intent.Providers) > 0 {
		q.Providers = intent.Providers
		q.WatchRegion = intent.CountryCode
	}

	if intent.MinRating > 0 {
		q.VoteAverageGTE = intent.MinRating
		q.VoteCountGTE = p.cfg.VoteFloor(intent.MinRating)
	}
	if intent.MaxRating > 0 {
		q.VoteAverageLTE = intent.MaxRating
	}

	q.DateFrom, q.DateTo = p.yearRange(intent.YearStart, intent.YearEnd)

	// Free-text keywords resolve to catalog keyword IDs; unresolvable
	// terms are dropped silently.
	for _, term := range append(append([]string{}, intent.Keywords...), intent.LocationKeywords...) {
		id, err := p.catalog.ResolveKeyword(ctx, term)
		if err != nil {
			p.logger.Debug().Err(err).Str("term", term).Msg("Keyword resolution failed")
			continue
		}
		if id > 0 {
			q.Keywords = append(q.Keywords, id)
		}
	}

	if err := p.resolvePeople(ctx, intent, &q); err != nil {
		return q, err
	}

	if len(intent.ProductionCountries) > 0 {
		// Filter by the country's primary language when known: strict
		// origin-country matching misses co-productions. Unknown
		// countries fall back to the origin-country constraint.
		country := intent.ProductionCountries[0]
		if lang := p.filters.PrimaryLanguage(country); lang != "" {
			q.OriginalLanguage = lang
		} else {
			q.OriginCountry = country
		}
	} else if len(intent.SpokenLanguages) > 0 {
		q.OriginalLanguage = intent.SpokenLanguages[0]
	}

	if ct == ContentTypeMovie {
		q.RuntimeGTE = intent.MinRuntime
		q.RuntimeLTE = intent.MaxRuntime
		if intent.Certification != "" {
			q.Certification = intent.Certification
			q.CertificationCountry = intent.CountryCode
		}
	}

	// The catalog's discover endpoint has no season-count dimension;
	// season bounds are accepted but cannot be pushed down.
	if ct == ContentTypeTV && (intent.MinSeasons > 0 || intent.MaxSeasons > 0) {
		p.logger.Debug().Int("minSeasons", intent.MinSeasons).Int("maxSeasons", intent.MaxSeasons).
			Msg("Season bounds not supported by catalog, skipped")
	}

	return q, nil
}

// resolvePeople turns person names into catalog person-ID constraints.
// Unresolvable names degrade to no constraint.
func (p *Planner) resolvePeople(ctx context.Context, intent *QueryIntent, q *tmdb.DiscoverQuery) error {
	resolve := func(name string) int {
		person, err := p.catalog.ResolvePerson(ctx, name)
		if err != nil {
			p.logger.Debug().Err(err).Str("name", name).Msg("Person resolution failed")
			return 0
		}
		return person.ID
	}

	if intent.DirectorName != "" {
		if id := resolve(intent.DirectorName); id > 0 {
			q.Crew = append(q.Crew, id)
		}
	}
	for _, name := range intent.ActorNames {
		if id := resolve(name); id > 0 {
			q.Cast = append(q.Cast, id)
		}
	}
	if intent.PersonName != "" {
		if id := resolve(intent.PersonName); id > 0 {
			switch intent.PersonRole {
			case RoleDirector:
				q.Crew = append(q.Crew, id)
			case RoleActor:
				q.Cast = append(q.Cast, id)
			default:
				q.People = append(q.People, id)
			}
		}
	}

	return nil
}

// yearRange converts year bounds to date bounds, capping open or future
// upper bounds at today.
func (p *Planner) yearRange(yearStart, yearEnd int) (string, string) {
	today := p.now().Format("2006-01-02")

	var from, to string
	if yearStart > 0 {
		from = fmt.Sprintf("%04d-01-01", yearStart)
	}
	if yearEnd > 0 {
		to = fmt.Sprintf("%04d-12-31", yearEnd)
		if to > today {
			to = today
		}
	} else if yearStart > 0 {
		to = today
	}

	return from, to
}

// applyFilterGuard is the pre-emptive precision/recall tradeoff: with
// more than MaxActiveFilters dimensions active, the query is narrowed
// before the first catalog call rather than after a miss.
func (p *Planner) applyFilterGuard(intent *QueryIntent) *QueryIntent {
	active := countActiveFilters(intent)
	if active <= p.cfg.MaxActiveFilters {
		return intent
	}

	guarded := intent.Clone()

	if len(guarded.ProductionCountries) > 0 {
		guarded.SpokenLanguages = nil
	}
	if guarded.MinRating > 0 && guarded.MinRating < 7.0 {
		guarded.MinRating = 0
	}
	if len(guarded.Genres) > p.cfg.GenreCap {
		guarded.Genres = guarded.Genres[:p.cfg.GenreCap]
	}
	if len(guarded.genreNames) > p.cfg.GenreCap {
		guarded.genreNames = guarded.genreNames[:p.cfg.GenreCap]
	}
	guarded.Keywords = nil
	guarded.LocationKeywords = nil

	p.logger.Debug().Int("activeFilters", active).Msg("Filter guard narrowed query")

	return guarded
}

// countActiveFilters counts constrained dimensions: genre, provider,
// rating, country, language, year range, keywords.
func countActiveFilters(intent *QueryIntent) int {
	count := 0
	if len(intent.Genres) > 0 || len(intent.genreNames) > 0 {
		count++
	}
	if len(intent.Providers) > 0 {
		count++
	}
	if intent.MinRating > 0 || intent.MaxRating > 0 {
		count++
	}
	if len(intent.ProductionCountries) > 0 {
		count++
	}
	if len(intent.SpokenLanguages) > 0 {
		count++
	}
	if intent.YearStart > 0 || intent.YearEnd > 0 {
		count++
	}
	if len(intent.Keywords) > 0 || len(intent.LocationKeywords) > 0 {
		count++
	}
	return count
}

// findTitle searches for a specific title across the requested content
// types and returns the best match.
func (p *Planner) findTitle(ctx context.Context, intent *QueryIntent) (*tmdb.ContentResult, ContentType, error) {
	var lastErr error
	for _, ct := range contentTypes(intent.ContentType) {
		resp, err := p.catalog.SearchContent(ctx, catalogType(ct), intent.SpecificTitle, intent.YearStart)
		if err != nil {
			p.logger.Warn().Err(err).Str("title", intent.SpecificTitle).Msg("Title search failed")
			lastErr = err
			continue
		}
		if len(resp.Results) > 0 {
			return &resp.Results[0], ct, nil
		}
	}
	if lastErr != nil {
		return nil, "", fmt.Errorf("title lookup failed: %w", lastErr)
	}
	return nil, "", nil
}

// lookupContentInfo fetches title details, degrading to the search
// result's own fields when the details call fails.
func (p *Planner) lookupContentInfo(ctx context.Context, match *tmdb.ContentResult, ct ContentType) *ContentInfo {
	info := &ContentInfo{
		ID:          match.ID,
		Title:       resultTitle(match),
		ContentType: ct,
		Overview:    match.Overview,
		Rating:      match.VoteAverage,
		ReleaseDate: resultDate(match, ct),
	}

	if ct == ContentTypeMovie {
		details, err := p.catalog.MovieDetails(ctx, match.ID)
		if err != nil {
			p.logger.Warn().Err(err).Int("id", match.ID).Msg("Movie details lookup failed")
			return info
		}
		info.Runtime = details.Runtime
		info.Genres = genreNames(details.Genres)
		if details.Credits != nil {
			info.Director = directorName(details.Credits.Crew)
			info.Cast = castNames(details.Credits.Cast, 5)
		}
		return info
	}

	details, err := p.catalog.SeriesDetails(ctx, match.ID)
	if err != nil {
		p.logger.Warn().Err(err).Int("id", match.ID).Msg("Series details lookup failed")
		return info
	}
	info.Seasons = details.NumberOfSeasons
	info.Genres = genreNames(details.Genres)
	if details.Credits != nil {
		info.Cast = castNames(details.Credits.Cast, 5)
	}
	return info
}

// creditsToResults converts combined credits to results, narrowed by
// role and content type and ordered by popularity.
func (p *Planner) creditsToResults(credits *tmdb.CombinedCreditsResponse, intent *QueryIntent) []SearchResult {
	var entries []tmdb.CreditEntry

	if intent.PersonRole != RoleDirector {
		entries = append(entries, credits.Cast...)
	}
	if intent.PersonRole == RoleDirector || intent.PersonRole == RoleAny {
		for _, entry := range credits.Crew {
			if entry.Job == "Director" {
				entries = append(entries, entry)
			}
		}
	}

	var results []SearchResult
	seen := make(map[string]bool)
	for _, entry := range entries {
		ct := ContentTypeMovie
		if entry.MediaType == "tv" {
			ct = ContentTypeTV
		}
		if intent.ContentType != ContentTypeBoth && intent.ContentType != ct {
			continue
		}

		key := fmt.Sprintf("%s:%d", ct, entry.ID)
		if seen[key] {
			continue
		}
		seen[key] = true
		results = append(results, normalizeResult(entry.ContentResult, ct))
	}

	sortByPopularity(results)
	return results
}

// filterByProviders keeps only results carried by one of the requested
// providers in the viewer's region. Availability lookups that fail leave
// the result in place rather than dropping it on missing data.
func (p *Planner) filterByProviders(ctx context.Context, results []SearchResult, providers []int, region string) []SearchResult {
	if region == "" {
		region = "US"
	}

	wanted := make(map[int]bool, len(providers))
	for _, id := range providers {
		wanted[id] = true
	}

	// Availability is checked only for the head of the list; provider
	// lookups are one call per title.
	limit := len(results)
	if limit > 10 {
		limit = 10
	}

	var kept []SearchResult
	for _, r := range results[:limit] {
		resp, err := p.catalog.WatchProviders(ctx, catalogType(r.ContentType), r.ID)
		if err != nil {
			p.logger.Debug().Err(err).Int("id", r.ID).Msg("Provider availability lookup failed")
			kept = append(kept, r)
			continue
		}

		regionProviders, ok := resp.Results[region]
		if !ok {
			continue
		}
		for _, provider := range regionProviders.Flatrate {
			if wanted[provider.ProviderID] {
				kept = append(kept, r)
				break
			}
		}
	}

	return kept
}

// contentTypes expands "both" into the sequential search order.
func contentTypes(ct ContentType) []ContentType {
	if ct == ContentTypeBoth {
		return []ContentType{ContentTypeMovie, ContentTypeTV}
	}
	return []ContentType{ct}
}

// catalogType maps the discovery content type onto the catalog client's.
func catalogType(ct ContentType) tmdb.ContentType {
	if ct == ContentTypeTV {
		return tmdb.ContentTypeTV
	}
	return tmdb.ContentTypeMovie
}

// sortParam maps the sort order to the catalog's parameter for a type.
func sortParam(order SortOrder, ct ContentType) string {
	switch order {
	case SortRating:
		return "vote_average.desc"
	case SortReleaseDate:
		if ct == ContentTypeTV {
			return "first_air_date.desc"
		}
		return "primary_release_date.desc"
	default:
		return "popularity.desc"
	}
}

func normalizeResult(r tmdb.ContentResult, ct ContentType) SearchResult {
	return SearchResult{
		ID:           r.ID,
		Title:        resultTitle(&r),
		ContentType:  ct,
		Overview:     r.Overview,
		PosterPath:   r.PosterPath,
		BackdropPath: r.BackdropPath,
		VoteAverage:  r.VoteAverage,
		ReleaseDate:  r.ReleaseDate,
		FirstAirDate: r.FirstAirDate,
		Popularity:   r.Popularity,
	}
}

func normalizeResults(items []tmdb.ContentResult, ct ContentType) []SearchResult {
	results := make([]SearchResult, 0, len(items))
	for _, item := range items {
		results = append(results, normalizeResult(item, ct))
	}
	return results
}

func resultTitle(r *tmdb.ContentResult) string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

func resultDate(r *tmdb.ContentResult, ct ContentType) string {
	if ct == ContentTypeTV {
		return r.FirstAirDate
	}
	return r.ReleaseDate
}

func capResults(results []SearchResult, limit int) []SearchResult {
	if limit > 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}

func sortByPopularity(results []SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Popularity > results[j].Popularity
	})
}

func genreNames(genres []tmdb.Genre) []string {
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return names
}

func directorName(crew []tmdb.CrewMember) string {
	for _, member := range crew {
		if member.Job == "Director" {
			return member.Name
		}
	}
	return ""
}

func castNames(cast []tmdb.CastMember, limit int) []string {
	names := make([]string, 0, limit)
	for _, member := range cast {
		if len(names) >= limit {
			break
		}
		names = append(names, member.Name)
	}
	return names
}
