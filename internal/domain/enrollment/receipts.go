package enrollment

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/medplus/academy-api/internal/domain/user"
)

// Mailer is the slice of the email service receipts need
type Mailer interface {
	Queue(to, toName, templateName, subject string, data interface{})
}

// UserGetter looks up the buyer for the receipt email
type UserGetter interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

// Receipts emails purchase confirmations. Runs after the purchase
// transaction commits; the purchase never depends on it.
type Receipts struct {
	store  *Store
	users  UserGetter
	mailer Mailer
}

// NewReceipts creates the receipt sender
func NewReceipts(store *Store, users UserGetter, mailer Mailer) *Receipts {
	return &Receipts{store: store, users: users, mailer: mailer}
}

// Send queues the receipt for a committed purchase. Best effort, failures
// are logged and swallowed.
func (r *Receipts) Send(ctx context.Context, userID int64, item Item) {
	u, err := r.users.GetByID(ctx, userID)
	if err != nil || u == nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("receipt skipped, buyer lookup failed")
		return
	}

	title, price, err := r.store.ItemInfo(ctx, item)
	if err != nil {
		log.Warn().Err(err).Str("kind", string(item.Kind)).Int64("item_id", item.ID).
			Msg("receipt skipped, item lookup failed")
		return
	}

	r.mailer.Queue(u.Email, u.Name, "purchase_receipt", "Your purchase receipt", map[string]interface{}{
		"UserName":  u.Name,
		"ItemTitle": title,
		"Amount":    price,
		"Balance":   u.WalletBalance,
	})
}
