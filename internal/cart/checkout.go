package cart

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"lammastore/internal/models"
	"lammastore/internal/orders"
)

// State names the checkout machine's position. CustomDetailsPending and
// ReadyToAdd are the two refinements of having a package selected.
type State int

const (
	StateIdle State = iota
	StateCustomDetailsPending
	StateReadyToAdd
	StateCartNonEmpty
	StateSubmitting
	StateSubmitted
	StateSubmitFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCustomDetailsPending:
		return "custom_details_pending"
	case StateReadyToAdd:
		return "ready_to_add"
	case StateCartNonEmpty:
		return "cart_non_empty"
	case StateSubmitting:
		return "submitting"
	case StateSubmitted:
		return "submitted"
	case StateSubmitFailed:
		return "submit_failed"
	default:
		return "unknown"
	}
}

// ValidationError carries the user-facing message for a rejected input.
// A rejection never mutates the cart.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

const (
	msgCustomFieldsRequired = "يرجى إدخال تفاصيل الطلب والمبلغ"
	msgNothingSelected      = "لم يتم اختيار باقة"
	msgCartEmpty            = "السلة فارغة"
)

// OrderPlacer is the slice of the order service checkout submits through.
type OrderPlacer interface {
	Create(ctx context.Context, draft orders.Draft, proof *orders.Attachment) (string, error)
}

// AddInput is what the buyer typed into the package form. CustomDetails and
// CustomPrice only matter for custom packages; CustomPrice arrives as raw
// text and must parse as a positive number.
type AddInput struct {
	OrderMessage  string
	CustomDetails string
	CustomPrice   string
}

// Checkout turns user events into cart mutations and order submissions.
// Each instance serves one session, but one session can still issue
// concurrent requests (two tabs, a double-click), so every operation runs
// under the machine's mutex.
type Checkout struct {
	slot   Slot
	placer OrderPlacer

	mu         sync.Mutex
	state      State
	selected   *models.Package
	items      []models.CartItem
	lastCartID int64

	nowMillis func() int64
}

// NewCheckout loads whatever cart the slot held from a previous page load.
func NewCheckout(slot Slot, placer OrderPlacer) (*Checkout, error) {
	items, err := slot.Load()
	if err != nil {
		return nil, err
	}

	c := &Checkout{
		slot:      slot,
		placer:    placer,
		state:     StateIdle,
		items:     items,
		nowMillis: func() int64 { return time.Now().UnixMilli() },
	}
	if len(items) > 0 {
		c.state = StateCartNonEmpty
		for _, item := range items {
			if item.CartID > c.lastCartID {
				c.lastCartID = item.CartID
			}
		}
	}
	return c, nil
}

func (c *Checkout) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Select makes pkg the candidate line item. Custom packages park in
// CustomDetailsPending until the buyer supplies a description and a price;
// everything else is ready to add with its stored price.
func (c *Checkout) Select(pkg models.Package) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectLocked(pkg)
}

func (c *Checkout) selectLocked(pkg models.Package) State {
	c.selected = &pkg
	if pkg.IsCustom() {
		c.state = StateCustomDetailsPending
	} else {
		c.state = StateReadyToAdd
	}
	return c.state
}

// Add appends a snapshot of the selected package to the cart and persists
// immediately. For custom packages the description and a positive numeric
// price are required; a rejected add changes nothing.
func (c *Checkout) Add(input AddInput) (models.CartItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addLocked(input)
}

// AddPackage selects and adds in one critical section, so a concurrent
// request can never swap the selection between the two steps.
func (c *Checkout) AddPackage(pkg models.Package, input AddInput) (models.CartItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selectLocked(pkg)
	return c.addLocked(input)
}

func (c *Checkout) addLocked(input AddInput) (models.CartItem, error) {
	if c.selected == nil {
		return models.CartItem{}, &ValidationError{Message: msgNothingSelected}
	}
	pkg := *c.selected

	item := models.CartItem{
		CartID:       c.nextCartID(),
		PackageID:    pkg.ID,
		Title:        pkg.Title,
		Category:     pkg.Category,
		Price:        pkg.Price,
		Description:  pkg.Description,
		Image:        pkg.Image,
		OrderMessage: strings.TrimSpace(input.OrderMessage),
	}

	if pkg.IsCustom() {
		details := strings.TrimSpace(input.CustomDetails)
		price, err := strconv.ParseFloat(strings.TrimSpace(input.CustomPrice), 64)
		if details == "" || err != nil || price <= 0 {
			return models.CartItem{}, &ValidationError{Message: msgCustomFieldsRequired}
		}
		item.Title = "طلب خاص: " + pkg.Title
		item.Price = models.FixedPrice(price)
		item.CustomDetails = details
	}

	c.items = append(c.items, item)
	if err := c.slot.Save(c.items); err != nil {
		c.items = c.items[:len(c.items)-1]
		return models.CartItem{}, err
	}

	c.selected = nil
	c.state = StateCartNonEmpty
	return item, nil
}

// Remove drops the line item with the given cartId. Removing an absent id
// is a no-op; an emptied cart stays in CartNonEmpty.
func (c *Checkout) Remove(cartID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := make([]models.CartItem, 0, len(c.items))
	for _, item := range c.items {
		if item.CartID != cartID {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(c.items) {
		return nil
	}

	if err := c.slot.Save(kept); err != nil {
		return err
	}
	c.items = kept
	return nil
}

// Items returns a copy of the cart in insertion order.
func (c *Checkout) Items() []models.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.itemsLocked()
}

func (c *Checkout) itemsLocked() []models.CartItem {
	out := make([]models.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Checkout) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Total sums the numeric-priced lines; quote-pending items contribute 0.
func (c *Checkout) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.CartTotal(c.items)
}

// Submit sends the cart snapshot to the order service. Success clears the
// cart and its persisted copy; failure leaves everything intact for retry.
// The machine stays locked for the duration, so a concurrent add cannot
// slip an item in between the snapshot and the clear.
func (c *Checkout) Submit(ctx context.Context, customer models.OrderCustomer, paymentMethod string, proof *orders.Attachment) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.items) == 0 {
		return "", &ValidationError{Message: msgCartEmpty}
	}

	c.state = StateSubmitting
	draft := orders.Draft{
		Items:         c.itemsLocked(),
		Total:         models.CartTotal(c.items),
		Customer:      customer,
		PaymentMethod: paymentMethod,
	}

	orderID, err := c.placer.Create(ctx, draft, proof)
	if err != nil {
		c.state = StateSubmitFailed
		return "", err
	}

	c.items = nil
	if err := c.slot.Clear(); err != nil {
		// The order is already placed; a stale slot only resurfaces an old
		// cart on the next load.
		c.state = StateSubmitted
		return orderID, nil
	}
	c.state = StateSubmitted
	return orderID, nil
}

// nextCartID is a millisecond timestamp forced strictly above the previous
// id, so two quick adds in the same millisecond never collide.
func (c *Checkout) nextCartID() int64 {
	id := c.nowMillis()
	if id <= c.lastCartID {
		id = c.lastCartID + 1
	}
	c.lastCartID = id
	return id
}
