package dto

import (
	"context"
	"time"

	"github.com/shariahscreen/shariahscreen/internal/domain/watchlist"
	"github.com/shariahscreen/shariahscreen/internal/types"
	"github.com/shariahscreen/shariahscreen/internal/validator"
)

// AddWatchlistItemRequest represents the request to add a symbol to the
// caller's watchlist
type AddWatchlistItemRequest struct {
	Symbol      string `json:"symbol" validate:"required"`
	CompanyName string `json:"company_name,omitempty"`
}

// Validate validates the add watchlist item request
func (r *AddWatchlistItemRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToItem converts the request to a watchlist item domain model
func (r *AddWatchlistItemRequest) ToItem(ctx context.Context, userID string) *watchlist.Item {
	return &watchlist.Item{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_WATCHLIST_ITEM),
		UserID:      userID,
		Symbol:      r.Symbol,
		CompanyName: r.CompanyName,
		BaseModel:   types.GetDefaultBaseModel(ctx),
	}
}

// WatchlistItemResponse represents one watchlist entry
type WatchlistItemResponse struct {
	ID          string    `json:"id"`
	Symbol      string    `json:"symbol"`
	CompanyName string    `json:"company_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewWatchlistItemResponse builds the response from a watchlist item
func NewWatchlistItemResponse(item *watchlist.Item) *WatchlistItemResponse {
	return &WatchlistItemResponse{
		ID:          item.ID,
		Symbol:      item.Symbol,
		CompanyName: item.CompanyName,
		CreatedAt:   item.CreatedAt,
	}
}

// ListWatchlistResponse represents the response for listing a watchlist
type ListWatchlistResponse struct {
	Items []*WatchlistItemResponse `json:"items"`
	Total int                      `json:"total"`
	Limit int                      `json:"limit"`
}
