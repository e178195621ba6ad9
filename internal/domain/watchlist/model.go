package watchlist

import (
	ierr "github.com/shariahscreen/shariahscreen/internal/errors"
	"github.com/shariahscreen/shariahscreen/internal/types"
)

// Item is one stored watchlist entry for a user. Watchlist storage is capped
// per plan tier; the cap is enforced by the entitlement gate, not here.
type Item struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Symbol      string `json:"symbol"`
	CompanyName string `json:"company_name,omitempty"`

	types.BaseModel
}

// Validate validates the watchlist item
func (i *Item) Validate() error {
	if i.UserID == "" {
		return ierr.NewError("user_id is required").
			WithHint("Watchlist item requires a user").
			Mark(ierr.ErrValidation)
	}
	if i.Symbol == "" {
		return ierr.NewError("symbol is required").
			WithHint("Watchlist item requires a symbol").
			Mark(ierr.ErrValidation)
	}
	return nil
}
