package site

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/adammarchelino/portfolio/contact"
	"github.com/adammarchelino/portfolio/model"
	"github.com/adammarchelino/portfolio/store"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, view View) string {
	t.Helper()
	templates, err := LoadTemplates()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, templates.Render(&buf, PageTemplate, view))
	return buf.String()
}

func view(state contact.State, menuOpen bool) View {
	page := &Page{}
	if menuOpen {
		page.ToggleMenu()
	}
	return page.Compose(Default, state, time.Now())
}

func TestRender_SectionOrder(t *testing.T) {
	html := render(t, view(contact.State{}, false))

	last := -1
	for _, marker := range []string{`class="navbar"`, `id="hero"`, `id="about"`, `id="skills"`, `id="projects"`, `id="contact"`, "<footer>"} {
		idx := strings.Index(html, marker)
		require.Greater(t, idx, last, "section %s out of order", marker)
		last = idx
	}
}

func TestRender_StaticContent(t *testing.T) {
	html := render(t, view(contact.State{}, false))

	for _, skill := range Default.Skills {
		require.Contains(t, html, skill.Name)
	}
	for _, project := range Default.Projects {
		require.Contains(t, html, project.Title)
	}
	for _, social := range Default.Socials {
		require.Contains(t, html, social.Url)
	}
}

func TestRender_MobileMenu(t *testing.T) {
	closed := render(t, view(contact.State{}, false))
	require.NotContains(t, closed, `class="nav-mobile"`)

	open := render(t, view(contact.State{}, true))
	require.Contains(t, open, `class="nav-mobile"`)
	require.Contains(t, open, `/section/about?mobile=1`)
}

func TestRender_FeedHiddenWithoutIdentity(t *testing.T) {
	html := render(t, view(contact.State{}, false))

	require.Contains(t, html, `<div id="feed" data-empty="Belum ada pesan." hidden>`)
}

func TestRender_EmptyFeed(t *testing.T) {
	html := render(t, view(contact.State{Identity: "uid", FeedVisible: true, Messages: store.Snapshot{}}, false))

	require.Contains(t, html, `<p class="empty">Belum ada pesan.</p>`)
	require.NotContains(t, html, `class="messages"`)
}

func TestRender_Messages(t *testing.T) {
	messages := store.Snapshot{
		{Id: "m2", Name: "siti", Email: "siti@example.com", Message: "<b>halo</b>", Timestamp: time.Now()},
		{Id: "m1", Name: "Joko", Email: "joko@example.com", Message: "pending"},
	}
	html := render(t, view(contact.State{Identity: "uid", FeedVisible: true, Messages: messages}, false))

	require.Less(t, strings.Index(html, `data-id="m2"`), strings.Index(html, `data-id="m1"`))
	require.Contains(t, html, `<span class="initial">S</span>`)
	require.Contains(t, html, "&lt;b&gt;halo&lt;/b&gt;")
	require.Contains(t, html, `<p class="time">...</p>`)
	require.NotContains(t, html, "uid", "identity is never rendered")
}

func TestRender_InFlight(t *testing.T) {
	state := contact.State{
		Fields:   contact.Fields{Name: "Rina", Email: "rina@example.com", Message: "Halo"},
		InFlight: true,
		Status:   contact.Status{Text: contact.StatusSending, Kind: contact.KindInfo},
	}

	html := render(t, view(state, false))

	require.Contains(t, html, `class="button button-busy" disabled>Mengirim...</button>`)
	require.Contains(t, html, `<div id="status" class="status status-info">Mengirim...</div>`)
	require.Contains(t, html, `value="Rina"`)
}

func TestRender_StatusHiddenWhenEmpty(t *testing.T) {
	html := render(t, view(contact.State{}, false))

	require.Contains(t, html, `<div id="status" hidden></div>`)
	require.Contains(t, html, `class="button">💌 Kirim Pesan</button>`)
}

func TestFuncs(t *testing.T) {
	require.Equal(t, "A", initial("  adam"))
	require.Equal(t, "?", initial(""))
	require.Equal(t, "...", when(model.Message{}))
	require.Equal(t, "status status-error", statusClass(contact.KindError))
	require.Equal(t, "status status-success", statusClass(contact.KindSuccess))
}

func TestAssets(t *testing.T) {
	css, err := Assets.ReadFile("assets/style.css")
	require.NoError(t, err)
	require.Contains(t, string(css), "scroll-behavior: smooth")

	_, err = Assets.ReadFile("assets/feed.js")
	require.NoError(t, err)
}
