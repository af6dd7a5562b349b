// internal/audit/indexer.go

// Package audit writes the append-only scoring trail (risk factor
// observations and rating-change alerts) into Elasticsearch, where the
// reporting views search it.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	errs "ariofinance/internal/common/errors"
	"ariofinance/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ScoringRun is one audit document per scoring of one loan.
type ScoringRun struct {
	LoanID       string              `json:"loanId"`
	Rating       models.Rating       `json:"rating"`
	PrevRating   models.Rating       `json:"prevRating,omitempty"`
	Observations []models.RiskFactor `json:"observations"`
	Alert        *models.Alert       `json:"alert,omitempty"`
	ScoredAt     time.Time           `json:"scoredAt"`
}

type Indexer struct {
	client *elasticsearch.Client
	index  string
}

func NewIndexer(client *elasticsearch.Client, index string) *Indexer {
	return &Indexer{client: client, index: index}
}

// IndexScoringRun writes one scoring-run document. The document id is
// loanId plus the scoring timestamp, so re-indexing the same run is
// idempotent.
func (i *Indexer) IndexScoringRun(ctx context.Context, run *ScoringRun) error {
	body, err := json.Marshal(run)
	if err != nil {
		return errs.NewAuditIndexFailedError(err)
	}

	req := esapi.IndexRequest{
		Index:      i.index,
		DocumentID: fmt.Sprintf("%s-%d", run.LoanID, run.ScoredAt.UnixNano()),
		Body:       bytes.NewReader(body),
	}

	res, err := req.Do(ctx, i.client)
	if err != nil {
		return errs.NewAuditIndexFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return errs.NewAuditIndexFailedError(fmt.Errorf("index %s: %s", i.index, res.Status()))
	}

	return nil
}
