package ranking

import (
	"time"

	"github.com/miramar-experience/api-go/models"
)

const DefaultCarouselInterval = 5000 * time.Millisecond

type CarouselOptions struct {
	Loop     bool
	Interval time.Duration
}

// Carousel is the hero slider state. Controls and auto-advance are only
// enabled with more than one slide; Index always stays in [0, len-1].
type Carousel struct {
	Slides      []models.Ad `json:"slides"`
	Fallback    bool        `json:"fallback"`
	Controls    bool        `json:"controls"`
	AutoAdvance bool        `json:"auto_advance"`
	IntervalMS  int64       `json:"interval_ms"`
	Loop        bool        `json:"loop"`
	Index       int         `json:"index"`
}

func NewCarousel(heroes []models.Ad, opts CarouselOptions) *Carousel {
	if opts.Interval <= 0 {
		opts.Interval = DefaultCarouselInterval
	}
	multiple := len(heroes) > 1
	c := &Carousel{
		Slides:      heroes,
		Fallback:    len(heroes) == 0,
		Controls:    multiple,
		AutoAdvance: multiple,
		Loop:        multiple && opts.Loop,
	}
	if multiple {
		c.IntervalMS = opts.Interval.Milliseconds()
	}
	return c
}

func (c *Carousel) Len() int { return len(c.Slides) }

func (c *Carousel) CanPrev() bool {
	return c.Controls && (c.Loop || c.Index > 0)
}

func (c *Carousel) CanNext() bool {
	return c.Controls && (c.Loop || c.Index < c.Len()-1)
}

func (c *Carousel) Next() int {
	if c.CanNext() {
		c.GoTo(c.Index + 1)
	}
	return c.Index
}

func (c *Carousel) Prev() int {
	if c.CanPrev() {
		c.GoTo(c.Index - 1)
	}
	return c.Index
}

// GoTo moves to i, wrapping when looping and clamping otherwise. It is a
// no-op without controls.
func (c *Carousel) GoTo(i int) int {
	n := c.Len()
	if !c.Controls || n == 0 {
		c.Index = 0
		return c.Index
	}
	switch {
	case c.Loop:
		c.Index = ((i % n) + n) % n
	case i < 0:
		c.Index = 0
	case i >= n:
		c.Index = n - 1
	default:
		c.Index = i
	}
	return c.Index
}
