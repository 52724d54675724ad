// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Sessions
	KeySessionRequired = "session.required"
	KeySessionInvalid  = "session.invalid"
	KeySessionExpired  = "session.expired"
	KeySessionCreated  = "session.created"

	// Catalog
	KeyCatalogUnavailable = "catalog.unavailable"
	KeyCatalogReloaded    = "catalog.reloaded"
	KeyProductNotFound    = "product.not_found"

	// Cart
	KeyCartItemAdded   = "cart.item_added"
	KeyCartItemRemoved = "cart.item_removed"
	KeyCartEmpty       = "cart.empty"
	KeyCartLocked      = "cart.locked"

	// Checkout
	KeyCheckoutStarted   = "checkout.started"
	KeyCheckoutCancelled = "checkout.cancelled"
	KeyCheckoutNotFound  = "checkout.not_found"
	KeyPaymentFailed     = "payment.failed"

	// Orders
	KeyOrderPlaced          = "order.placed"
	KeyOrderNotFound        = "order.not_found"
	KeyOrderHistoryEmpty    = "order.history_empty"
	KeyOrderTrackingPending = "order.tracking_pending"

	// Location
	KeyLocationUnresolved = "location.unresolved"

	// Validation
	KeyValidationInvalid = "validation.invalid"
)
