package application

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/bharosahq/trust-network/internal/domain/entity"
	repo "github.com/bharosahq/trust-network/internal/domain/repository"
	"github.com/bharosahq/trust-network/pkg/advisory"
	"github.com/bharosahq/trust-network/pkg/helpers"
)

// DirectoryService backs the merchant lookup screen: search, profile
// display with advisory copy, and shop media uploads.
type DirectoryService struct {
	Merchants        repo.MerchantRepository
	Reputation       *ReputationService
	Advisory         *advisory.Client
	GCS              *storage.Client
	GCSBucket        string
	ES               *elasticsearch.Client
	ESMerchantsIndex string
	Logger           *logrus.Logger
}

func NewDirectoryService(merchants repo.MerchantRepository, reputation *ReputationService,
	adv *advisory.Client, gcs *storage.Client, gcsBucket string,
	es *elasticsearch.Client, esIndex string, logger *logrus.Logger) *DirectoryService {
	return &DirectoryService{
		Merchants:        merchants,
		Reputation:       reputation,
		Advisory:         adv,
		GCS:              gcs,
		GCSBucket:        gcsBucket,
		ES:               es,
		ESMerchantsIndex: esIndex,
		Logger:           logger,
	}
}

// MerchantStanding is a directory entry: the public view of a merchant
// with the locally derived advisory label.
type MerchantStanding struct {
	MerchantID   string   `json:"merchant_id"`
	Name         string   `json:"name"`
	Location     string   `json:"location"`
	TrustScore   int      `json:"trust_score"`
	AvgRating    float64  `json:"avg_rating"`
	TotalRatings int      `json:"total_ratings"`
	Suggestion   string   `json:"suggestion"`
	MediaURLs    []string `json:"media_urls,omitempty"`
}

// Search resolves a query to directory entries. Elasticsearch serves the
// query when configured; otherwise the store scan covers exact IDs and
// name substrings.
func (s *DirectoryService) Search(ctx context.Context, q string) ([]MerchantStanding, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []MerchantStanding{}, nil
	}

	if s.ES != nil && s.ESMerchantsIndex != "" {
		hits, err := s.searchES(ctx, q)
		if err == nil {
			return hits, nil
		}
		helpers.LogError(s.Logger, "es search failed, falling back to store scan", err, logrus.Fields{"query": q})
	}

	merchants, err := s.Merchants.Search(q)
	if err != nil {
		return nil, err
	}
	out := make([]MerchantStanding, 0, len(merchants))
	for _, m := range merchants {
		out = append(out, s.standingOf(m))
	}
	return out, nil
}

// Standing returns one merchant's directory entry.
func (s *DirectoryService) Standing(merchantID string) (*MerchantStanding, error) {
	m, err := s.Merchants.FindByID(merchantID)
	if err != nil {
		return nil, err
	}
	st := s.standingOf(m)
	return &st, nil
}

func (s *DirectoryService) standingOf(m *entity.Merchant) MerchantStanding {
	avg, total := m.AvgRating, m.TotalRatings
	if s.Reputation != nil {
		if a, n, err := s.Reputation.AverageRating(m.MerchantID); err == nil && n > 0 {
			avg, total = a, n
		}
	}
	name := m.PANName
	if name == "" {
		name = m.OwnerName
	}
	return MerchantStanding{
		MerchantID:   m.MerchantID,
		Name:         name,
		Location:     m.Location,
		TrustScore:   m.TrustScore,
		AvgRating:    avg,
		TotalRatings: total,
		Suggestion:   advisory.SuggestionFor(avg),
		MediaURLs:    m.MediaURLs,
	}
}

// Report produces the narrative advisory paragraph for a merchant. Always
// returns printable copy; the advisory client degrades internally.
func (s *DirectoryService) Report(ctx context.Context, merchantID string) (string, error) {
	st, err := s.Standing(merchantID)
	if err != nil {
		return "", err
	}
	if s.Advisory == nil {
		return advisory.FallbackReport, nil
	}
	prompt := fmt.Sprintf(
		"Write a short trust report for merchant %s in %s with trust score %d and average rating %.1f over %d audits.",
		st.Name, st.Location, st.TrustScore, st.AvgRating, st.TotalRatings,
	)
	return s.Advisory.Generate(ctx, prompt), nil
}

// UploadMedia stores a shop photo in GCS and attaches its public URL to
// the merchant record.
func (s *DirectoryService) UploadMedia(ctx context.Context, merchantID, filename, contentType string, r io.Reader) (string, error) {
	m, err := s.Merchants.FindByID(merchantID)
	if err != nil {
		return "", err
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", fmt.Errorf("media storage not configured")
	}

	object := fmt.Sprintf("merchants/%s/%s%s", m.MerchantID, uuid.NewString(), filepath.Ext(filename))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, object, contentType, r)
	if err != nil {
		return "", err
	}
	if err := s.Merchants.AddMedia(m.MerchantID, url); err != nil {
		return "", err
	}
	return url, nil
}

// IndexMerchant mirrors a merchant's public fields into Elasticsearch.
// Best effort: a missing or failing cluster never blocks registration.
func (s *DirectoryService) IndexMerchant(ctx context.Context, m *entity.Merchant) {
	if s.ES == nil || s.ESMerchantsIndex == "" {
		return
	}
	doc := map[string]any{
		"merchant_id": m.MerchantID,
		"reference":   m.Reference,
		"name":        m.PANName,
		"owner_name":  m.OwnerName,
		"location":    m.Location,
		"trust_score": m.TrustScore,
		"created_at":  m.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESMerchantsIndex, DocumentID: m.MerchantID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("merchant_id", m.MerchantID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("merchant_id", m.MerchantID).Warn("es index response error")
	}
}

func (s *DirectoryService) searchES(ctx context.Context, q string) ([]MerchantStanding, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"merchant_id^2", "name", "owner_name", "location"},
			},
		},
		"size": 20,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESMerchantsIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]MerchantStanding, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		m, err := s.Merchants.FindByID(h.ID)
		if err != nil {
			continue
		}
		out = append(out, s.standingOf(m))
	}
	return out, nil
}
