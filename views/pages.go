package views

import (
	"context"
	"embed"
	"html/template"
	"io"
	"strings"

	"github.com/MarcEnDev/trackanddecker/internal/catalog"
	"github.com/MarcEnDev/trackanddecker/internal/group"
	"github.com/MarcEnDev/trackanddecker/internal/service"
	users "github.com/MarcEnDev/trackanddecker/internal/user"
	"github.com/a-h/templ"
	"github.com/google/uuid"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("pages").Funcs(template.FuncMap{
	"scryfall": catalog.ScryfallURL,
	"join":     strings.Join,
	"deckList": newDeckList,
	// replaced per render, see page
	"currentUser": func() *users.User { return nil },
}).ParseFS(templateFS, "templates/*.html"))

// GroupPageData is everything the group page shows. ActiveMember is the
// member picked with "This is me" in this session; ProfileMember is the
// member whose profile dialog is open.
type GroupPageData struct {
	Group         *group.Group
	ActiveMember  *group.Member
	ProfileMember *group.Member
	Leaders       map[uuid.UUID]bool
	Bracket       BracketData
	Decks         []group.Deck
	Alerts        []group.MatchAlert
	Editable      bool
}

// NewGroupPageData resolves the page state. Profiles are editable only by the
// member they belong to and only while the group is running.
func NewGroupPageData(g *group.Group, activeID, profileID uuid.UUID, decks []group.Deck, alerts []group.MatchAlert) GroupPageData {
	data := GroupPageData{
		Group:   g,
		Leaders: make(map[uuid.UUID]bool),
		Bracket: PrepareBracketData(g),
		Decks:   decks,
		Alerts:  alerts,
	}
	for _, m := range g.Leaders() {
		data.Leaders[m.ID] = true
	}
	if m, ok := g.Member(activeID); ok {
		data.ActiveMember = m
	}
	if m, ok := g.Member(profileID); ok {
		data.ProfileMember = m
		data.Editable = !g.Finished && data.ActiveMember != nil && data.ActiveMember.ID == m.ID
	}
	return data
}

type deckListData struct {
	Title    string
	List     string
	Decks    []group.Deck
	All      []group.Deck
	Editable bool
	GroupID  uuid.UUID
	MemberID uuid.UUID
}

func newDeckList(page GroupPageData, title, list string, decks []group.Deck) deckListData {
	return deckListData{
		Title:    title,
		List:     list,
		Decks:    decks,
		All:      page.Decks,
		Editable: page.Editable,
		GroupID:  page.Group.ID,
		MemberID: page.ProfileMember.ID,
	}
}

func page(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		tmpl, err := pages.Clone()
		if err != nil {
			return err
		}
		tmpl.Funcs(template.FuncMap{
			"currentUser": func() *users.User { return GetUser(ctx) },
		})
		return tmpl.ExecuteTemplate(w, name, data)
	})
}

func LoginPage(providers []string) templ.Component {
	return page("login", struct{ Providers []string }{providers})
}

func Index(groups *service.GroupList) templ.Component {
	return page("index", groups)
}

func GroupPage(data GroupPageData) templ.Component {
	return page("group", data)
}

// MemberField is one more name input for the create group form.
func MemberField(index int) templ.Component {
	return page("member_field", index)
}
