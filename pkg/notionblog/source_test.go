package notionblog_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amatsuka/notion-blog/pkg/notionblog"
	"github.com/amatsuka/notion-blog/pkg/notionblog/notion"
)

// fakeNotionClient serves canned pages keyed by database id.
type fakeNotionClient struct {
	pages  map[string][]notion.Page
	blocks map[string][]notion.Block
}

func (c *fakeNotionClient) QueryDatabase(ctx context.Context, databaseID string, q *notion.DatabaseQuery) ([]notion.Page, error) {
	return c.pages[databaseID], nil
}

func (c *fakeNotionClient) GetPage(ctx context.Context, pageID string) (*notion.Page, error) {
	for _, pages := range c.pages {
		for i := range pages {
			if pages[i].ID == pageID {
				return &pages[i], nil
			}
		}
	}
	return nil, &notion.APIError{Status: 404, Code: "object_not_found", Message: "page not found"}
}

func (c *fakeNotionClient) GetBlockChildren(ctx context.Context, blockID string) ([]notion.Block, error) {
	return c.blocks[blockID], nil
}

func rich(text string) []notion.RichText {
	return []notion.RichText{{PlainText: text}}
}

func postPage() notion.Page {
	checked := true
	return notion.Page{
		ID:             "11111111-2222-3333-4444-555555555555",
		LastEditedTime: time.Date(2024, time.July, 2, 12, 0, 0, 0, time.UTC),
		Properties: map[string]notion.Property{
			"Title":    {Type: "title", Title: rich("Learning Go")},
			"Slug":     {Type: "rich_text", RichText: rich("learning-go")},
			"Status":   {Type: "status", Status: &notion.SelectOption{Name: "Published"}},
			"Date":     {Type: "date", Date: &notion.DateValue{Start: "2024-07-01"}},
			"Category": {Type: "select", Select: &notion.SelectOption{Name: "dev"}},
			"Tags": {Type: "multi_select", MultiSelect: []notion.SelectOption{
				{Name: "go"}, {Name: "rust"},
			}},
			"Summary":  {Type: "rich_text", RichText: rich("A field report")},
			"Featured": {Type: "checkbox", Checkbox: &checked},
		},
		Cover: &notion.File{External: &notion.FileLink{URL: "https://cdn.example.com/cover.jpg"}},
	}
}

func TestNotionSourceMapsPosts(t *testing.T) {
	client := &fakeNotionClient{pages: map[string][]notion.Page{
		"posts-db": {postPage()},
	}}
	src := notionblog.NewNotionSource(client, "posts-db", "friends-db")

	posts, err := src.AllPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 1)

	post := posts[0]
	assert.Equal(t, "Learning Go", post.Title)
	assert.Equal(t, "learning-go", post.Slug)
	assert.Equal(t, notionblog.PostStatusPublished, post.Status)
	assert.Equal(t, "dev", post.Category)
	assert.Equal(t, []string{"go", "rust"}, post.Tags)
	assert.Equal(t, "A field report", post.Description)
	assert.True(t, post.Featured)
	assert.Equal(t, "https://cdn.example.com/cover.jpg", post.Cover)
	require.NotNil(t, post.PublishedAt)
	assert.Equal(t, 1, post.PublishedAt.Day())
	require.NotNil(t, post.UpdatedAt)
	assert.Equal(t, 2, post.UpdatedAt.Day())
}

func TestNotionSourceStatusAsSelect(t *testing.T) {
	// Some workspaces model status as a plain select property.
	page := postPage()
	page.Properties["Status"] = notion.Property{
		Type:   "select",
		Select: &notion.SelectOption{Name: "Draft"},
	}
	client := &fakeNotionClient{pages: map[string][]notion.Page{"posts-db": {page}}}
	src := notionblog.NewNotionSource(client, "posts-db", "friends-db")

	posts, err := src.AllPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, notionblog.PostStatusDraft, posts[0].Status)
}

func TestNotionSourceMissingPropertiesDefault(t *testing.T) {
	client := &fakeNotionClient{pages: map[string][]notion.Page{
		"posts-db": {{ID: "bare-page", Properties: map[string]notion.Property{}}},
	}}
	src := notionblog.NewNotionSource(client, "posts-db", "friends-db")

	posts, err := src.AllPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 1)

	post := posts[0]
	assert.Equal(t, "", post.Title)
	assert.Equal(t, "", post.Slug)
	assert.Equal(t, []string{}, post.Tags)
	assert.False(t, post.Featured)
	assert.Nil(t, post.PublishedAt)
}

func TestNotionSourceMapsFriends(t *testing.T) {
	link := "https://friend.example.com"
	avatar := "https://friend.example.com/me.png"
	client := &fakeNotionClient{pages: map[string][]notion.Page{
		"friends-db": {{
			ID: "f-1",
			Properties: map[string]notion.Property{
				"Name":        {Type: "title", Title: rich("Friend Site")},
				"URL":         {Type: "url", URL: &link},
				"Avatar":      {Type: "url", URL: &avatar},
				"Description": {Type: "rich_text", RichText: rich("An old friend")},
				"Status":      {Type: "status", Status: &notion.SelectOption{Name: "Active"}},
				"Group":       {Type: "select", Select: &notion.SelectOption{Name: "tech"}},
			},
		}},
	}}
	src := notionblog.NewNotionSource(client, "posts-db", "friends-db")

	friends, err := src.AllFriends(context.Background())
	require.NoError(t, err)
	require.Len(t, friends, 1)

	friend := friends[0]
	assert.Equal(t, "Friend Site", friend.Name)
	assert.Equal(t, link, friend.URL)
	assert.Equal(t, avatar, friend.Avatar)
	assert.Equal(t, notionblog.FriendStatusActive, friend.Status)
	assert.Equal(t, "tech", friend.Group)
}

func TestNotionSourcePostBySlugNotFound(t *testing.T) {
	client := &fakeNotionClient{pages: map[string][]notion.Page{}}
	src := notionblog.NewNotionSource(client, "posts-db", "friends-db")

	_, err := src.PostBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, notionblog.ErrPostNotFound)
}
