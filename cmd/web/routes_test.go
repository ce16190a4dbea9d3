package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/MarcEnDev/trackanddecker/internal/catalog"
	"github.com/MarcEnDev/trackanddecker/internal/config"
	"github.com/MarcEnDev/trackanddecker/internal/db"
	"github.com/MarcEnDev/trackanddecker/internal/group"
	"github.com/alexedwards/scs/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type keepOrder struct{}

func (keepOrder) Shuffle(int, func(i, j int)) {}

type testClient struct {
	t      *testing.T
	server *httptest.Server
	client *http.Client
}

func newTestServer(t *testing.T) *testClient {
	t.Helper()

	database, err := db.Open("file::memory:")
	require.NoError(t, err)
	database.SetMaxOpenConns(1)
	require.NoError(t, db.RunMigrations(database.DB))
	t.Cleanup(func() { database.Close() })

	decks := catalog.New([]group.Deck{
		{ID: "edgar", Name: "Edgar Markov"},
		{ID: "atraxa", Name: "Atraxa, Praetors' Voice"},
	})
	cfg := config.Config{StaticDir: t.TempDir(), CORSOrigins: []string{"*"}}

	app := newApplication(database, scs.New(), decks, cfg)
	app.groups.WithShuffler(keepOrder{})

	server := httptest.NewServer(app.routes())
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &testClient{t: t, server: server, client: client}
}

func (c *testClient) get(path string) (*http.Response, string) {
	c.t.Helper()
	resp, err := c.client.Get(c.server.URL + path)
	require.NoError(c.t, err)
	return resp, readBody(c.t, resp)
}

func (c *testClient) post(path string, form url.Values) (*http.Response, string) {
	c.t.Helper()
	resp, err := c.client.PostForm(c.server.URL+path, form)
	require.NoError(c.t, err)
	return resp, readBody(c.t, resp)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func (c *testClient) login() {
	c.t.Helper()
	resp, _ := c.post("/auth/guest", nil)
	require.Equal(c.t, http.StatusFound, resp.StatusCode)
}

func (c *testClient) createGroup(name string, groupType group.Type, members ...string) *group.Group {
	c.t.Helper()
	form := url.Values{"name": {name}, "type": {string(groupType)}}
	for i, m := range members {
		form.Set(memberFieldPrefix+strconv.Itoa(i), m)
	}
	resp, _ := c.post("/groups", form)
	require.Equal(c.t, http.StatusSeeOther, resp.StatusCode)

	parts := strings.Split(resp.Header.Get("Location"), "/")
	require.Len(c.t, parts, 4)
	return c.groupJSON(parts[2])
}

func (c *testClient) groupJSON(id string) *group.Group {
	c.t.Helper()
	resp, body := c.get("/api/groups/" + id)
	require.Equal(c.t, http.StatusOK, resp.StatusCode)
	var g group.Group
	require.NoError(c.t, json.Unmarshal([]byte(body), &g))
	return &g
}

func TestRequireAuthRedirectsToLogin(t *testing.T) {
	c := newTestServer(t)

	resp, _ := c.get("/")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp, body := c.get("/login")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Continue as guest")
}

func TestLeagueRoutes(t *testing.T) {
	c := newTestServer(t)
	c.login()

	g := c.createGroup("Friday Night", group.League, "Ana", "Bo")
	assert.Equal(t, "friday-night", g.Slug)
	require.Len(t, g.Members, 2)
	ana := g.Members[0]

	resp, _ := c.post("/groups/"+g.ID.String()+"/members/"+ana.ID.String()+"/wins", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, body := c.get("/groups/" + g.ID.String() + "/" + g.Slug)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Score: 1")
	assert.Contains(t, body, "Winner")

	resp, _ = c.post("/groups/"+g.ID.String()+"/finish", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, _ = c.post("/groups/"+g.ID.String()+"/members/"+ana.ID.String()+"/wins", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = c.get("/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Finished Tournaments")
}

func TestCreateGroupRejectsBadInput(t *testing.T) {
	c := newTestServer(t)
	c.login()

	resp, _ := c.post("/groups", url.Values{"name": {"Solo"}, "type": {"league"}, "member_name_0": {"Ana"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = c.post("/groups", url.Values{"name": {strings.Repeat("x", 51)}, "type": {"league"}, "member_name_0": {"A"}, "member_name_1": {"B"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEliminatoryRoutes(t *testing.T) {
	c := newTestServer(t)
	c.login()

	g := c.createGroup("Cup", group.Eliminatory, "A", "B", "C", "D")
	require.NotNil(t, g.Bracket)

	resp, body := c.get("/groups/" + g.ID.String())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Round 1")
	assert.Contains(t, body, "Set as Winner")

	round1 := g.Bracket.Round(1)
	require.Len(t, round1, 2)

	resp, _ = c.post("/groups/"+g.ID.String()+"/matches/"+round1[0].ID.String()+"/winner",
		url.Values{"winner_id": {g.Members[2].ID.String()}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = c.post("/groups/"+g.ID.String()+"/members/"+g.Members[0].ID.String()+"/delete", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	for i, m := range round1 {
		resp, _ = c.post("/groups/"+g.ID.String()+"/matches/"+m.ID.String()+"/winner",
			url.Values{"winner_id": {g.Members[i*2].ID.String()}})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	}

	g = c.groupJSON(g.ID.String())
	final := g.Bracket.Round(2)
	require.Len(t, final, 1)

	resp, _ = c.post("/groups/"+g.ID.String()+"/matches/"+final[0].ID.String()+"/winner",
		url.Values{"winner_id": {g.Members[2].ID.String()}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	_, body = c.get("/groups/" + g.ID.String())
	assert.Contains(t, body, "Tournament Winner")
	assert.True(t, c.groupJSON(g.ID.String()).Finished)
}

func TestProfileEditsNeedSessionMember(t *testing.T) {
	c := newTestServer(t)
	c.login()

	g := c.createGroup("League", group.League, "Ana", "Bo")
	ana, bo := g.Members[0], g.Members[1]
	groupPath := "/groups/" + g.ID.String()

	resp, _ := c.post(groupPath+"/members/"+bo.ID.String()+"/profile", url.Values{"add_want": {"edgar"}})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = c.post(groupPath+"/session", url.Values{"member_id": {bo.ID.String()}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	resp, _ = c.post(groupPath+"/members/"+bo.ID.String()+"/profile", url.Values{"add_want": {"edgar"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, _ = c.post(groupPath+"/members/"+bo.ID.String()+"/profile", url.Values{"add_have": {"no-such-deck"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = c.post(groupPath+"/session", url.Values{"member_id": {""}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	resp, _ = c.post(groupPath+"/session", url.Values{"member_id": {ana.ID.String()}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	resp, _ = c.post(groupPath+"/members/"+ana.ID.String()+"/profile", url.Values{"add_want": {"edgar"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	_, body := c.get(groupPath + "?profile=" + ana.ID.String())
	assert.Contains(t, body, "Deck Match Found!")
	assert.Contains(t, body, "Edgar Markov")

	_, body = c.get(groupPath)
	assert.NotContains(t, body, "Deck Match Found!")
}

func TestMemberFieldNumbersAfterHighest(t *testing.T) {
	c := newTestServer(t)
	c.login()

	resp, body := c.post("/groups/member-field", url.Values{"member_name_0": {""}, "member_name_4": {""}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `name="member_name_5"`)
}

func TestDeckSearchAPI(t *testing.T) {
	c := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, c.server.URL+"/api/decks?q=edg", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://example.com")
	resp, err := c.client.Do(req)
	require.NoError(t, err)
	body := readBody(t, resp)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	var decks []group.Deck
	require.NoError(t, json.Unmarshal([]byte(body), &decks))
	assert.Equal(t, []group.Deck{{ID: "edgar", Name: "Edgar Markov"}}, decks)
}

func TestDeleteGroupRoute(t *testing.T) {
	owner := newTestServer(t)
	owner.login()
	g := owner.createGroup("Mine", group.League, "Ana", "Bo")

	resp, _ := owner.get("/groups/not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = owner.post("/groups/"+g.ID.String()+"/delete", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, _ = owner.get("/groups/" + g.ID.String())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
