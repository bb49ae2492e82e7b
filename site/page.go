package site

import (
	"errors"
	"sync"
	"time"

	"github.com/adammarchelino/portfolio/contact"
)

var ErrUnknownSection = errors.New("unknown section")

// Page is the root composer of one visitor: it owns the mobile menu toggle.
type Page struct {
	mu       sync.Mutex
	menuOpen bool
}

func (p *Page) MenuOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.menuOpen
}

func (p *Page) ToggleMenu() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.menuOpen = !p.menuOpen
	return p.menuOpen
}

// ScrollToSection returns the anchor of section id. Entries of the mobile menu also close it.
func (p *Page) ScrollToSection(id string, fromMobile bool) (string, error) {
	if !IsSection(id) {
		return "", ErrUnknownSection
	}
	if fromMobile {
		p.mu.Lock()
		p.menuOpen = false
		p.mu.Unlock()
	}
	return "#" + id, nil
}

func IsSection(id string) bool {
	for _, item := range NavItems {
		if item.Id == id {
			return true
		}
	}
	return false
}

type View struct {
	Portfolio
	Nav      []NavItem
	MenuOpen bool
	Contact  contact.State
	Year     int
}

// Compose assembles everything the page template needs.
func (p *Page) Compose(portfolio Portfolio, state contact.State, now time.Time) View {
	return View{
		Portfolio: portfolio,
		Nav:       NavItems,
		MenuOpen:  p.MenuOpen(),
		Contact:   state,
		Year:      now.Year(),
	}
}
