package orders

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lammastore/internal/models"
	"lammastore/internal/store"
)

type fakeObjects struct {
	err     error
	puts    []string
	removed []string
}

func (o *fakeObjects) Put(ctx context.Context, name string, r io.Reader) (string, error) {
	if o.err != nil {
		return "", o.err
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	o.puts = append(o.puts, name)
	return "/public/" + name, nil
}

func (o *fakeObjects) Remove(ctx context.Context, name string) error {
	o.removed = append(o.removed, name)
	return nil
}

func draftWithOneItem() Draft {
	return Draft{
		Items: []models.CartItem{{
			CartID:    1,
			PackageID: "1",
			Title:     "وجبة",
			Category:  models.CategoryFood,
			Price:     models.FixedPrice(25),
		}},
		Total:         25,
		Customer:      models.OrderCustomer{Name: "أحمد", Phone: "0953644710", Address: "دمشق"},
		PaymentMethod: "mtn",
	}
}

func TestCreateRejectsEmptyDraft(t *testing.T) {
	svc := NewService(store.NewMemory(), &fakeObjects{})

	_, err := svc.Create(context.Background(), Draft{}, nil)
	require.Error(t, err)
}

func TestCreateWithoutProofLeavesURLEmpty(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	svc := NewService(mem, &fakeObjects{})

	id, err := svc.Create(ctx, draftWithOneItem(), nil)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc, err := mem.GetOne(ctx, ordersCollection, id)
	require.NoError(t, err)
	require.Equal(t, "", doc["payment_proof_url"])
	require.Equal(t, models.StatusPending, doc["status"])
	require.NotNil(t, doc["created_at"])
}

func TestCreateStoresResolvedProofURL(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	objects := &fakeObjects{}
	svc := NewService(mem, objects)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000).UTC() }

	proof := &Attachment{Name: "../evil/pro:of.png", Reader: strings.NewReader("img")}
	id, err := svc.Create(ctx, draftWithOneItem(), proof)
	require.NoError(t, err)

	require.Len(t, objects.puts, 1)
	require.Equal(t, "payment_proofs/1700000000000_pro_of.png", objects.puts[0])

	doc, err := mem.GetOne(ctx, ordersCollection, id)
	require.NoError(t, err)
	require.Equal(t, "/public/payment_proofs/1700000000000_pro_of.png", doc["payment_proof_url"])
}

func TestCreateWritesNoOrderWhenUploadFails(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	svc := NewService(mem, &fakeObjects{err: errors.New("disk full")})

	proof := &Attachment{Name: "proof.png", Reader: strings.NewReader("img")}
	_, err := svc.Create(ctx, draftWithOneItem(), proof)
	require.Error(t, err)

	docs, err := mem.GetAll(ctx, ordersCollection)
	require.NoError(t, err)
	require.Empty(t, docs)
}

func TestListReturnsNewestFirst(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	svc := NewService(mem, &fakeObjects{})

	times := []time.Time{
		time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	}
	for _, at := range times {
		at := at
		svc.now = func() time.Time { return at }
		_, err := svc.Create(ctx, draftWithOneItem(), nil)
		require.NoError(t, err)
	}

	listed, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	require.True(t, listed[0].CreatedAt.After(listed[1].CreatedAt))
	require.True(t, listed[1].CreatedAt.After(listed[2].CreatedAt))
}

func TestListEmptyStoreIsEmptyNotNilError(t *testing.T) {
	svc := NewService(store.NewMemory(), &fakeObjects{})

	listed, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, listed)
}

func TestUpdateStatusWritesSingleField(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	svc := NewService(mem, &fakeObjects{})

	id, err := svc.Create(ctx, draftWithOneItem(), nil)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(ctx, id, models.StatusConfirmed))

	doc, err := mem.GetOne(ctx, ordersCollection, id)
	require.NoError(t, err)
	require.Equal(t, models.StatusConfirmed, doc["status"])
	require.Equal(t, "mtn", doc["paymentMethod"])
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	svc := NewService(store.NewMemory(), &fakeObjects{})
	err := svc.UpdateStatus(context.Background(), "missing", models.StatusConfirmed)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteRemovesOrderAndProofObject(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	objects := &fakeObjects{}
	svc := NewService(mem, objects)

	proof := &Attachment{Name: "proof.png", Reader: strings.NewReader("img")}
	id, err := svc.Create(ctx, draftWithOneItem(), proof)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, id))

	_, err = mem.GetOne(ctx, ordersCollection, id)
	require.ErrorIs(t, err, store.ErrNotFound)
	require.Len(t, objects.removed, 1)
	require.Contains(t, objects.removed[0], "payment_proofs/")
}
