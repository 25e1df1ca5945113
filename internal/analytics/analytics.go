package analytics

import (
	"context"
	"log"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"lammastore/internal/store"
)

const (
	visitsCollection = "analytics"
	ordersCollection = "orders"
)

// Stats is the operator dashboard summary. Visitors is best effort; the
// order figures are not.
type Stats struct {
	Visitors    int64   `json:"visitors"`
	TotalOrders int     `json:"totalOrders"`
	Revenue     float64 `json:"revenue"`
}

// Service maintains the per-day visit counters and aggregates order totals.
// Dates resolve against a fixed UTC reference clock.
type Service struct {
	store store.DocumentStore
	now   func() time.Time
}

func NewService(st store.DocumentStore) *Service {
	return &Service{store: st, now: time.Now}
}

// RecordVisit bumps today's counter inside a single transactional
// read-modify-write: the first visitor of a day creates the document at 1,
// everyone after increments, and concurrent visitors never lose an update.
// The operation is best effort by contract; it reports whether the visit
// was counted and never fails the visitor-facing flow.
func (s *Service) RecordVisit(ctx context.Context) bool {
	date := s.today()
	err := s.store.Mutate(ctx, visitsCollection, date, func(current bson.M, exists bool) (bson.M, error) {
		if !exists {
			return bson.M{"count": int64(1)}, nil
		}
		return bson.M{"count": countValue(current["count"]) + 1}, nil
	})
	if err != nil {
		log.Println("[ANALYTICS] visit tracking failed:", err)
		return false
	}
	return true
}

// Stats reads today's visitor count (0 when absent or on error) and the
// order aggregates. An order-fetch failure propagates so a broken store is
// never reported as zero revenue.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var out Stats

	raw, err := s.store.GetOne(ctx, visitsCollection, s.today())
	switch {
	case err == nil:
		out.Visitors = countValue(raw["count"])
	case err != store.ErrNotFound:
		log.Println("[ANALYTICS] visitor count unavailable:", err)
	}

	docs, err := s.store.GetAll(ctx, ordersCollection)
	if err != nil {
		return Stats{}, err
	}
	out.TotalOrders = len(docs)

	year, month, _ := s.now().UTC().Date()
	for _, doc := range docs {
		created, ok := timeValue(doc.Data["created_at"])
		if !ok {
			continue
		}
		created = created.UTC()
		if created.Year() == year && created.Month() == month {
			out.Revenue += totalValue(doc.Data["total"])
		}
	}
	return out, nil
}

func (s *Service) today() string {
	return s.now().UTC().Format("2006-01-02")
}

func countValue(value any) int64 {
	switch v := value.(type) {
	case int32:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return 0
	}
}

// totalValue mirrors the tolerant parsing the storefront always had: numeric
// strings count, anything else contributes 0.
func totalValue(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
		return 0
	default:
		return 0
	}
}

func timeValue(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case primitive.DateTime:
		return v.Time(), true
	default:
		return time.Time{}, false
	}
}
