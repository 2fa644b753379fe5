package domain

// Table names, used to scope change notifications
const (
	TableUsers      = "users"
	TableCategories = "categories"
	TableProducts   = "products"
	TableReviews    = "reviews"
	TableWishlists  = "wishlists"
	TableAddresses  = "addresses"
	TableCarts      = "carts"
	TableOrders     = "orders"
	TableOrderItems = "order_items"
)
