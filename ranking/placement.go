package ranking

import "github.com/miramar-experience/api-go/models"

type SlotKind string

const (
	SlotFeatured SlotKind = "featured"
	SlotStandard SlotKind = "standard"
	SlotPromo    SlotKind = "promo"
)

// featured cells take a 2x2 block, standard cells a single one.
const (
	standardPerFeatured = 2
	featuredSpan        = 2
)

type Slot struct {
	Kind    SlotKind   `json:"kind"`
	ColSpan int        `json:"col_span"`
	RowSpan int        `json:"row_span"`
	Ad      *models.Ad `json:"ad,omitempty"`
}

// Grid is the bento layout. An Empty grid has no ad slots; Promo tells the
// renderer whether to show the promotional card on its own.
type Grid struct {
	Empty bool   `json:"empty"`
	Promo bool   `json:"promo"`
	Slots []Slot `json:"slots"`
}

// Ads returns the ads in slot order, without the promo card.
func (g Grid) Ads() []models.Ad {
	out := make([]models.Ad, 0, len(g.Slots))
	for _, s := range g.Slots {
		if s.Ad != nil {
			out = append(out, *s.Ad)
		}
	}
	return out
}

// Arrange interleaves a ranked list into the grid pattern: one featured slot
// followed by up to two standard slots, repeating until both pools run out.
// Hero ads belong to the carousel and are skipped.
func Arrange(ranked []models.Ad, withPromo bool) Grid {
	pools := Partition(ranked)
	featured, standard := pools[models.TierFeatured], pools[models.TierStandard]

	if len(featured)+len(standard) == 0 {
		return Grid{Empty: true, Promo: withPromo}
	}

	slots := make([]Slot, 0, len(featured)+len(standard)+1)
	fi, si := 0, 0
	for fi < len(featured) || si < len(standard) {
		if fi < len(featured) {
			ad := featured[fi]
			slots = append(slots, Slot{Kind: SlotFeatured, ColSpan: featuredSpan, RowSpan: featuredSpan, Ad: &ad})
			fi++
		}
		for n := 0; n < standardPerFeatured && si < len(standard); n++ {
			ad := standard[si]
			slots = append(slots, Slot{Kind: SlotStandard, ColSpan: 1, RowSpan: 1, Ad: &ad})
			si++
		}
	}

	if withPromo {
		slots = append(slots, Slot{Kind: SlotPromo, ColSpan: 1, RowSpan: 1})
	}
	return Grid{Promo: withPromo, Slots: slots}
}
