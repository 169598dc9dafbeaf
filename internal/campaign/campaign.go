// Package campaign serves the marketing banners shown on the storefront,
// including countdowns for time-boxed promotions.
package campaign

import (
	"net/http"
	"time"

	"github.com/threadline/workwear-api/internal/common"
)

// Campaign is a marketing banner, optionally time-boxed and optionally
// tied to a discount code.
type Campaign struct {
	Slug     string     `json:"slug"`
	Title    string     `json:"title"`
	Body     string     `json:"body"`
	Code     string     `json:"code,omitempty"`
	StartsAt *time.Time `json:"starts_at,omitempty"`
	EndsAt   *time.Time `json:"ends_at,omitempty"`
}

// Active reports whether the campaign is running at the given time.
func (c Campaign) Active(now time.Time) bool {
	if c.StartsAt != nil && now.Before(*c.StartsAt) {
		return false
	}
	if c.EndsAt != nil && !now.Before(*c.EndsAt) {
		return false
	}
	return true
}

// Remaining returns how long the campaign keeps running, zero for
// campaigns without an end or already over.
func (c Campaign) Remaining(now time.Time) time.Duration {
	if c.EndsAt == nil || !c.Active(now) {
		return 0
	}
	return c.EndsAt.Sub(now)
}

// Board holds the configured campaigns.
type Board struct {
	Campaigns []Campaign
	Now       func() time.Time
}

func (b *Board) now() time.Time {
	if b != nil && b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

// Active returns the currently running campaigns.
func (b *Board) Active() []Campaign {
	if b == nil {
		return nil
	}
	now := b.now()
	out := make([]Campaign, 0, len(b.Campaigns))
	for _, c := range b.Campaigns {
		if c.Active(now) {
			out = append(out, c)
		}
	}
	return out
}

type campaignView struct {
	Campaign
	RemainingSeconds int64 `json:"remaining_seconds,omitempty"`
}

// List handles GET /campaigns.
func (b *Board) List(w http.ResponseWriter, r *http.Request) {
	now := b.now()
	active := b.Active()
	out := make([]campaignView, 0, len(active))
	for _, c := range active {
		view := campaignView{Campaign: c}
		if remaining := c.Remaining(now); remaining > 0 {
			view.RemainingSeconds = int64(remaining.Seconds())
		}
		out = append(out, view)
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": out})
}

// DefaultBoard returns the storefront's configured campaigns.
func DefaultBoard() *Board {
	return &Board{
		Campaigns: []Campaign{
			{
				Slug:  "new-crew",
				Title: "Kitting out a new crew?",
				Body:  "Take 20% off your first team order with NEWCREW20.",
				Code:  "NEWCREW20",
			},
			{
				Slug:  "free-shipping",
				Title: "Free shipping on us",
				Body:  "Use FREESHIP at checkout and we cover standard shipping.",
				Code:  "FREESHIP",
			},
			{
				Slug:  "hi-vis-season",
				Title: "Hi-vis season",
				Body:  "15% off hi-vis and safety wear with HIVIS15.",
				Code:  "HIVIS15",
			},
		},
	}
}
