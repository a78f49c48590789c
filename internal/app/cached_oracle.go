package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"time"

	"feedback_analyzer/internal/domain"
)

// CachedOracle memoises another oracle's scores. Scores depend only on the
// oracle and the text, so a hit returns exactly what the inner oracle would.
// Keys are namespaced by oracleID: oracles sharing one Redis never see each
// other's entries.
type CachedOracle struct {
	inner    domain.SentimentOracle
	oracleID string
	cache    domain.Cache
	cacheTTL time.Duration
}

// NewCachedOracle wraps inner. oracleID must change whenever inner would
// score the same text differently (e.g. "lexicon" or "remote:<url>").
func NewCachedOracle(inner domain.SentimentOracle, oracleID string, c domain.Cache, ttl time.Duration) *CachedOracle {
	return &CachedOracle{inner: inner, oracleID: oracleID, cache: c, cacheTTL: ttl}
}

func scoreKey(oracleID, text string) string {
	sum := sha1.Sum([]byte(text))
	return "sentiment:v1:" + oracleID + ":" + hex.EncodeToString(sum[:])
}

// Score implements domain.SentimentOracle. Cache failures fall through to
// the inner oracle.
func (o *CachedOracle) Score(ctx context.Context, text string) (domain.Score, error) {
	key := scoreKey(o.oracleID, text)
	var sc domain.Score
	if ok, _ := o.cache.Get(ctx, key, &sc); ok {
		return sc, nil
	}
	sc, err := o.inner.Score(ctx, text)
	if err != nil {
		return domain.Score{}, err
	}
	_ = o.cache.Set(ctx, key, sc, int(o.cacheTTL.Seconds()))
	return sc, nil
}
