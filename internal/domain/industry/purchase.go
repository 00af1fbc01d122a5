package industry

import "fmt"

// PurchaseSource distinguishes hand-entered purchases from ones linked to an
// observed wallet transaction.
type PurchaseSource string

const (
	PurchaseSourceManual            PurchaseSource = "MANUAL"
	PurchaseSourceLinkedTransaction PurchaseSource = "LINKED_TRANSACTION"
)

// Purchase is a quantity of some type bought for the plan, either against a
// specific step or as loose stock.
type Purchase struct {
	id         string
	typeID     int64
	typeName   string
	quantity   int64
	unitPrice  float64
	totalPrice float64
	source     PurchaseSource
}

// NewPurchase creates a purchase; totalPrice is derived when zero.
func NewPurchase(id string, typeID int64, typeName string, quantity int64, unitPrice float64, totalPrice float64, source PurchaseSource) *Purchase {
	if totalPrice == 0 {
		totalPrice = unitPrice * float64(quantity)
	}
	return &Purchase{
		id:         id,
		typeID:     typeID,
		typeName:   typeName,
		quantity:   quantity,
		unitPrice:  unitPrice,
		totalPrice: totalPrice,
		source:     source,
	}
}

func (p *Purchase) ID() string             { return p.id }
func (p *Purchase) TypeID() int64          { return p.typeID }
func (p *Purchase) TypeName() string       { return p.typeName }
func (p *Purchase) Quantity() int64        { return p.quantity }
func (p *Purchase) UnitPrice() float64     { return p.unitPrice }
func (p *Purchase) TotalPrice() float64    { return p.totalPrice }
func (p *Purchase) Source() PurchaseSource { return p.source }

func (p *Purchase) String() string {
	return fmt.Sprintf("Purchase[%s x%d @ %.2f]", p.typeName, p.quantity, p.unitPrice)
}
