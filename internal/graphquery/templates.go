package graphquery

import "financial-graphrag/internal/models"

const (
	TemplateCompanyBySymbol    models.TemplateID = "company_by_symbol"
	TemplateCompanyByName      models.TemplateID = "company_by_name"
	TemplateTopCompanies       models.TemplateID = "top_companies"
	TemplateCompanyNews        models.TemplateID = "company_news"
	TemplateRecentNews         models.TemplateID = "recent_news"
	TemplateCompanyEvents      models.TemplateID = "company_events"
	TemplateRecentEvents       models.TemplateID = "recent_events"
	TemplateSectorCompanies    models.TemplateID = "sector_companies"
	TemplateSectorCounts       models.TemplateID = "sector_counts"
	TemplateCompanyPeers       models.TemplateID = "company_peers"
	TemplateRelationships      models.TemplateID = "relationships"
	TemplateCompanySentiment   models.TemplateID = "company_sentiment"
	TemplateSentimentByCompany models.TemplateID = "sentiment_by_company"
	TemplateMarketOverview     models.TemplateID = "market_overview"
	TemplateTrendingNews       models.TemplateID = "trending_news"
)

// Template is a fixed Cypher statement. Values derived from the query are only ever
// supplied as parameters; Limit mirrors the LIMIT clause in the statement.
type Template struct {
	ID     models.TemplateID
	Cypher string
	Limit  int
}

var Templates = map[models.TemplateID]Template{
	TemplateCompanyBySymbol: {TemplateCompanyBySymbol, `
MATCH (c:Company {symbol: $symbol})
OPTIONAL MATCH (c)-[:BELONGS_TO]->(s:Sector)
RETURN c.symbol AS symbol, c.name AS name, c.sector AS sector,
       c.industry AS industry, c.price AS price,
       c.price_change AS price_change, c.price_change_pct AS price_change_pct,
       c.volume AS volume, c.market_cap AS market_cap,
       c.website AS website, c.description AS description,
       s.name AS sector_name
LIMIT 10`, 10},

	TemplateCompanyByName: {TemplateCompanyByName, `
MATCH (c:Company)
WHERE toLower(c.name) CONTAINS toLower($company_name)
   OR toLower(c.symbol) CONTAINS toLower($company_name)
OPTIONAL MATCH (c)-[:BELONGS_TO]->(s:Sector)
RETURN c.symbol AS symbol, c.name AS name, c.sector AS sector,
       c.industry AS industry, c.price AS price,
       c.price_change AS price_change, c.price_change_pct AS price_change_pct,
       c.volume AS volume, c.market_cap AS market_cap,
       c.website AS website, c.description AS description,
       s.name AS sector_name
LIMIT 10`, 10},

	TemplateTopCompanies: {TemplateTopCompanies, `
MATCH (c:Company)
OPTIONAL MATCH (c)-[:BELONGS_TO]->(s:Sector)
RETURN c.symbol AS symbol, c.name AS name, c.sector AS sector,
       c.price AS price, c.price_change_pct AS price_change_pct,
       c.market_cap AS market_cap
ORDER BY c.market_cap DESC
LIMIT 10`, 10},

	TemplateCompanyNews: {TemplateCompanyNews, `
MATCH (n:News)-[r:MENTIONS]->(c:Company {symbol: $symbol})
RETURN n.headline AS headline, n.summary AS summary,
       n.source AS source, n.published_at AS published_at,
       n.sentiment_label AS sentiment, r.sentiment AS mention_sentiment,
       n.url AS url, c.name AS company_name
ORDER BY n.published_at DESC
LIMIT 20`, 20},

	TemplateRecentNews: {TemplateRecentNews, `
MATCH (n:News)
RETURN n.headline AS headline, n.summary AS summary,
       n.source AS source, n.published_at AS published_at,
       n.sentiment_label AS sentiment, n.url AS url
ORDER BY n.published_at DESC
LIMIT 20`, 20},

	TemplateCompanyEvents: {TemplateCompanyEvents, `
MATCH (e:Event)-[:IMPACTS]->(c:Company {symbol: $symbol})
RETURN e.type AS event_type, e.description AS description,
       e.timestamp AS timestamp, e.impact AS impact,
       c.name AS company_name
ORDER BY e.timestamp DESC
LIMIT 20`, 20},

	TemplateRecentEvents: {TemplateRecentEvents, `
MATCH (e:Event)
OPTIONAL MATCH (e)-[:IMPACTS]->(c:Company)
RETURN e.type AS event_type, e.description AS description,
       e.timestamp AS timestamp, e.impact AS impact,
       c.name AS company_name
ORDER BY e.timestamp DESC
LIMIT 20`, 20},

	TemplateSectorCompanies: {TemplateSectorCompanies, `
MATCH (s:Sector)<-[:BELONGS_TO]-(c:Company)
WHERE s.name CONTAINS $sector
RETURN c.symbol AS symbol, c.name AS name, c.price AS price,
       c.price_change_pct AS price_change_pct, c.market_cap AS market_cap,
       s.name AS sector
ORDER BY c.market_cap DESC
LIMIT 20`, 20},

	TemplateSectorCounts: {TemplateSectorCounts, `
MATCH (s:Sector)<-[:BELONGS_TO]-(c:Company)
RETURN s.name AS sector, count(c) AS company_count
ORDER BY company_count DESC
LIMIT 30`, 30},

	TemplateCompanyPeers: {TemplateCompanyPeers, `
MATCH (c:Company {symbol: $symbol})-[:BELONGS_TO]->(s:Sector)<-[:BELONGS_TO]-(other:Company)
WHERE other.symbol <> $symbol
RETURN other.symbol AS symbol, other.name AS name,
       other.price AS price, other.price_change_pct AS price_change_pct,
       other.market_cap AS market_cap, s.name AS sector
ORDER BY other.market_cap DESC
LIMIT 10`, 10},

	TemplateRelationships: {TemplateRelationships, `
MATCH (c1:Company)-[r]->(c2:Company)
RETURN c1.symbol AS source, c1.name AS source_name,
       type(r) AS relationship,
       c2.symbol AS target, c2.name AS target_name
LIMIT 20`, 20},

	TemplateCompanySentiment: {TemplateCompanySentiment, `
MATCH (n:News)-[:MENTIONS]->(c:Company {symbol: $symbol})
RETURN c.name AS company_name, n.sentiment_label AS sentiment,
       count(n) AS count, avg(n.sentiment_score) AS avg_score
ORDER BY count DESC
LIMIT 10`, 10},

	TemplateSentimentByCompany: {TemplateSentimentByCompany, `
MATCH (n:News)-[:MENTIONS]->(c:Company)
RETURN c.symbol AS symbol, c.name AS company_name,
       n.sentiment_label AS sentiment,
       count(n) AS count, avg(n.sentiment_score) AS avg_score
ORDER BY count DESC
LIMIT 20`, 20},

	TemplateMarketOverview: {TemplateMarketOverview, `
MATCH (c:Company)
OPTIONAL MATCH (c)-[:BELONGS_TO]->(s:Sector)
RETURN s.name AS sector,
       count(c) AS company_count,
       avg(c.price_change_pct) AS avg_change,
       sum(c.market_cap) AS total_market_cap
ORDER BY total_market_cap DESC
LIMIT 30`, 30},

	TemplateTrendingNews: {TemplateTrendingNews, `
MATCH (n:News)-[:MENTIONS]->(c:Company)
WITH c, count(n) AS mention_count, collect(n) AS news_items
ORDER BY mention_count DESC
LIMIT 5
UNWIND news_items AS n
RETURN c.symbol AS symbol, c.name AS company_name, mention_count,
       n.headline AS headline, n.source AS source,
       n.published_at AS published_at, n.sentiment_label AS sentiment
ORDER BY mention_count DESC, n.published_at DESC
LIMIT 20`, 20},
}
