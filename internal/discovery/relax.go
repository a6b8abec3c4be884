package discovery

import "context"

// relaxStrategy is one rung of the relaxation ladder. Each rung mutates
// the working intent in place, so later rungs build on earlier ones and
// every rung strictly weakens the query.
type relaxStrategy struct {
	name       string
	applicable func(*QueryIntent) bool
	apply      func(*QueryIntent)
}

// relaxStrategies returns the ladder in its fixed order.
func (p *Planner) relaxStrategies() []relaxStrategy {
	return []relaxStrategy{
		{
			name: "drop rating floor",
			applicable: func(q *QueryIntent) bool {
				return q.MinRating > 0 || q.MaxRating > 0
			},
			apply: func(q *QueryIntent) {
				q.MinRating = 0
				q.MaxRating = 0
			},
		},
		{
			name: "drop keywords",
			applicable: func(q *QueryIntent) bool {
				return len(q.Keywords) > 0 || len(q.LocationKeywords) > 0
			},
			apply: func(q *QueryIntent) {
				q.Keywords = nil
				q.LocationKeywords = nil
			},
		},
		{
			name: "single genre",
			applicable: func(q *QueryIntent) bool {
				return len(q.Genres) > 1 || len(q.genreNames) > 1
			},
			apply: p.reduceToPrimaryGenre,
		},
		{
			name: "drop providers",
			applicable: func(q *QueryIntent) bool {
				return len(q.Providers) > 0
			},
			apply: func(q *QueryIntent) {
				q.Providers = nil
			},
		},
		{
			name: "drop year range",
			applicable: func(q *QueryIntent) bool {
				return q.YearStart > 0 || q.YearEnd > 0
			},
			apply: func(q *QueryIntent) {
				q.YearStart = 0
				q.YearEnd = 0
			},
		},
		{
			name: "country and popularity only",
			applicable: func(q *QueryIntent) bool {
				return len(q.ProductionCountries) > 0
			},
			apply: func(q *QueryIntent) {
				country := q.ProductionCountries[0]
				clearFilters(q)
				q.ProductionCountries = []string{country}
				q.SortOrder = SortPopularity
			},
		},
		{
			name: "content type and popularity only",
			applicable: func(q *QueryIntent) bool {
				return true
			},
			apply: func(q *QueryIntent) {
				clearFilters(q)
				q.ProductionCountries = nil
				q.SortOrder = SortPopularity
			},
		},
	}
}

// relax walks the ladder until a rung yields enough results or the
// strategies are exhausted. The best rung seen so far is kept, so the
// outcome is never smaller than the unrelaxed result set.
func (p *Planner) relax(ctx context.Context, intent *QueryIntent, initial []SearchResult) (*PlanResult, error) {
	best := initial
	current := intent.Clone()
	steps := 0

	for _, strategy := range p.relaxStrategies() {
		if !strategy.applicable(current) {
			continue
		}

		strategy.apply(current)
		steps++

		p.logger.Debug().Str("strategy", strategy.name).Int("step", steps).Msg("Relaxing query")

		results, err := p.runDiscovery(ctx, current)
		if err != nil {
			p.logger.Warn().Err(err).Str("strategy", strategy.name).Msg("Relaxed search failed")
			continue
		}

		if len(results) > len(best) {
			best = results
		}
		if len(results) >= p.cfg.MinResults {
			return &PlanResult{Results: results, RelaxationSteps: steps}, nil
		}
	}

	return &PlanResult{Results: best, RelaxationSteps: steps}, nil
}

// reduceToPrimaryGenre keeps only the highest-priority genre.
func (p *Planner) reduceToPrimaryGenre(q *QueryIntent) {
	if len(q.genreNames) > 1 {
		ids := p.filters.ResolveGenres(q.genreNames, ContentTypeMovie)
		primary := p.filters.PrimaryGenre(ids)
		for _, name := range q.genreNames {
			resolved := p.filters.ResolveGenres([]string{name}, ContentTypeMovie)
			if len(resolved) == 1 && resolved[0] == primary {
				q.genreNames = []string{name}
				break
			}
		}
		if len(q.genreNames) > 1 {
			q.genreNames = q.genreNames[:1]
		}
	}
	if len(q.Genres) > 1 {
		q.Genres = []int{p.filters.PrimaryGenre(q.Genres)}
	}
}

// clearFilters strips every dimension except content type and country.
func clearFilters(q *QueryIntent) {
	q.Genres = nil
	q.genreNames = nil
	q.Providers = nil
	q.MinRating = 0
	q.MaxRating = 0
	q.YearStart = 0
	q.YearEnd = 0
	q.Keywords = nil
	q.LocationKeywords = nil
	q.SpokenLanguages = nil
	q.MinRuntime = 0
	q.MaxRuntime = 0
	q.MinSeasons = 0
	q.MaxSeasons = 0
	q.Certification = ""
	q.DirectorName = ""
	q.ActorNames = nil
	q.PersonName = ""
}
