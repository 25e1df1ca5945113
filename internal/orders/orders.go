package orders

import (
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"lammastore/internal/models"
	"lammastore/internal/store"
)

const (
	ordersCollection = "orders"
	proofPrefix      = "payment_proofs"
)

// Draft is everything the buyer submits for a new order.
type Draft struct {
	Items         []models.CartItem
	Total         float64
	Customer      models.OrderCustomer
	PaymentMethod string
}

// Attachment is a payment-proof image streamed from the request.
type Attachment struct {
	Name   string
	Reader io.Reader
}

// Service composes the optional proof upload with the order document write.
type Service struct {
	store   store.DocumentStore
	objects store.ObjectStore
	now     func() time.Time
}

func NewService(st store.DocumentStore, objects store.ObjectStore) *Service {
	return &Service{store: st, objects: objects, now: time.Now}
}

// Create uploads the proof first when one is supplied; if that upload fails
// the order is not written, so no document ever carries a dangling proof
// reference. The stored document gets status pending and a server-assigned
// creation timestamp. The new order id is returned.
func (s *Service) Create(ctx context.Context, draft Draft, proof *Attachment) (string, error) {
	if len(draft.Items) == 0 {
		return "", fmt.Errorf("order needs at least one item")
	}

	proofURL := ""
	if proof != nil {
		name := fmt.Sprintf("%s/%d_%s", proofPrefix, s.now().UnixMilli(), safeFilename(proof.Name))
		url, err := s.objects.Put(ctx, name, proof.Reader)
		if err != nil {
			return "", fmt.Errorf("upload payment proof: %w", err)
		}
		proofURL = url
	}

	order := models.Order{
		Items:           draft.Items,
		Total:           draft.Total,
		Customer:        draft.Customer,
		PaymentMethod:   draft.PaymentMethod,
		PaymentProofURL: proofURL,
		Status:          models.StatusPending,
		CreatedAt:       s.now().UTC(),
	}

	data, err := bson.Marshal(order)
	if err != nil {
		return "", err
	}
	var doc bson.M
	if err := bson.Unmarshal(data, &doc); err != nil {
		return "", err
	}
	delete(doc, "_id")

	id, err := s.store.Insert(ctx, ordersCollection, doc)
	if err != nil {
		return "", fmt.Errorf("write order: %w", err)
	}
	return id, nil
}

// List returns every order, most recent first. Unlike catalog reads there is
// no fallback: a failure here must stay distinguishable from an empty list.
func (s *Service) List(ctx context.Context) ([]models.Order, error) {
	docs, err := s.store.GetAll(ctx, ordersCollection)
	if err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(docs))
	for _, doc := range docs {
		order, err := decodeOrder(doc)
		if err != nil {
			return nil, fmt.Errorf("decode order %s: %w", doc.ID, err)
		}
		orders = append(orders, order)
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

// UpdateStatus writes the single status field. Status values are not
// validated here; that belongs to the caller.
func (s *Service) UpdateStatus(ctx context.Context, orderID, status string) error {
	return s.store.Update(ctx, ordersCollection, orderID, bson.M{"status": status})
}

// Delete removes the order document and, best effort, its proof object.
func (s *Service) Delete(ctx context.Context, orderID string) error {
	raw, err := s.store.GetOne(ctx, ordersCollection, orderID)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, ordersCollection, orderID); err != nil {
		return err
	}

	if proofURL, ok := raw["payment_proof_url"].(string); ok && proofURL != "" {
		if err := s.objects.Remove(ctx, proofURL); err != nil {
			log.Printf("[ORDER] leaving orphaned proof %s: %v", proofURL, err)
		}
	}
	return nil
}

func decodeOrder(doc store.Doc) (models.Order, error) {
	data, err := bson.Marshal(doc.Data)
	if err != nil {
		return models.Order{}, err
	}

	var order models.Order
	if err := bson.Unmarshal(data, &order); err != nil {
		return models.Order{}, err
	}
	order.ID = doc.ID
	return order, nil
}

// safeFilename keeps the original name readable while stripping anything
// that could escape the upload prefix.
func safeFilename(name string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if base == "" || base == "." || base == ".." {
		return "proof"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, base)
}
