package cart

// Item is one cart line in an order-placement request. Items are input-only:
// they are embedded into the order as a priced snapshot and never persisted
// on their own.
type Item struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"qty"`
}
