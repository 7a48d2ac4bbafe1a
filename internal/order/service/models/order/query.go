package order

// QueryOrdersModel filters order listing.
type QueryOrdersModel struct {
	Ids     []int64
	UserIds []int64
	Limit   int
	Offset  int
}
