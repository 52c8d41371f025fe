package director

import (
	"sync/atomic"

	"github.com/l1jgo/stagespawn/internal/data"
)

// interactableIDCounter generates unique object IDs for placed interactables.
var interactableIDCounter atomic.Int32

func init() {
	interactableIDCounter.Store(800_000_000)
}

// NextInteractableID returns a unique object ID for a placed interactable.
func NextInteractableID() int32 {
	return interactableIDCounter.Add(1)
}

// Placed is an object the director instantiated. A nil Placed means the
// placement failed.
type Placed interface {
	PlacedID() int32
}

// PurchaseInteraction is the price tag of a purchasable interactable.
type PurchaseInteraction struct {
	CostType    data.CostType
	Cost        int // base price
	NetworkCost int // price replicated to clients
}

// Interactable is a spawned interactable object. Not persisted.
type Interactable struct {
	ID         int32
	Card       *data.DirectorCard
	Anchor     data.Anchor
	Purchase   *PurchaseInteraction // nil for free interactables
	Unbudgeted bool
}

func (i *Interactable) PlacedID() int32 { return i.ID }

// CostType returns the purchase currency, CostNone when not purchasable.
func (i *Interactable) CostType() data.CostType {
	if i.Purchase == nil {
		return data.CostNone
	}
	return i.Purchase.CostType
}

// BaseCost returns the unscaled purchase price.
func (i *Interactable) BaseCost() int {
	if i.Purchase == nil {
		return 0
	}
	return i.Purchase.Cost
}

// MarkUnbudgeted flags the interactable as spawned outside the credit budget.
func (i *Interactable) MarkUnbudgeted() { i.Unbudgeted = true }

// SetNetworkCost rewrites the replicated price.
func (i *Interactable) SetNetworkCost(cost int) {
	if i.Purchase != nil {
		i.Purchase.NetworkCost = cost
	}
}
