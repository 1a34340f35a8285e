package notionblog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/amatsuka/notion-blog/pkg/notionblog/notion"
)

// Schema names the database properties the source reads. The defaults match
// the conventional blog database layout; override individual names when a
// workspace deviates.
type Schema struct {
	// Post properties
	Title          string
	Slug           string
	Status         string
	Date           string
	Category       string
	Tags           string
	Summary        string
	Cover          string
	Featured       string
	SEOTitle       string
	SEODescription string

	// Friend properties
	Name        string
	URL         string
	Avatar      string
	Description string
	Group       string
}

// DefaultSchema returns the conventional property names.
func DefaultSchema() Schema {
	return Schema{
		Title:          "Title",
		Slug:           "Slug",
		Status:         "Status",
		Date:           "Date",
		Category:       "Category",
		Tags:           "Tags",
		Summary:        "Summary",
		Cover:          "Cover",
		Featured:       "Featured",
		SEOTitle:       "SEO Title",
		SEODescription: "SEO Description",

		Name:        "Name",
		URL:         "URL",
		Avatar:      "Avatar",
		Description: "Description",
		Group:       "Group",
	}
}

// notionSource adapts the Notion API client into the Source interface,
// converting raw pages into normalized records.
type notionSource struct {
	client    notion.Client
	postsDB   string
	friendsDB string
	schema    Schema
	logger    *slog.Logger
}

// SourceOption configures the Notion-backed source.
type SourceOption func(*notionSource)

// WithSchema overrides the database property names.
func WithSchema(schema Schema) SourceOption {
	return func(s *notionSource) {
		s.schema = schema
	}
}

// WithSourceLogger sets the structured logger.
func WithSourceLogger(logger *slog.Logger) SourceOption {
	return func(s *notionSource) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewNotionSource creates a Source backed by the Notion API client and the
// two collection identifiers from configuration.
func NewNotionSource(client notion.Client, postsDB, friendsDB string, opts ...SourceOption) Source {
	s := &notionSource{
		client:    client,
		postsDB:   postsDB,
		friendsDB: friendsDB,
		schema:    DefaultSchema(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *notionSource) AllPosts(ctx context.Context) ([]*Post, error) {
	pages, err := s.client.QueryDatabase(ctx, s.postsDB, &notion.DatabaseQuery{
		Sorts: []notion.Sort{{Property: s.schema.Date, Direction: "descending"}},
	})
	if err != nil {
		return nil, err
	}

	posts := make([]*Post, 0, len(pages))
	for i := range pages {
		posts = append(posts, s.pageToPost(&pages[i]))
	}
	return posts, nil
}

func (s *notionSource) PostBySlug(ctx context.Context, slug string) (*Post, error) {
	pages, err := s.client.QueryDatabase(ctx, s.postsDB, &notion.DatabaseQuery{
		Filter:   notion.FilterRichTextEquals(s.schema.Slug, slug),
		PageSize: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, ErrPostNotFound
	}
	return s.pageToPost(&pages[0]), nil
}

func (s *notionSource) AllFriends(ctx context.Context) ([]*Friend, error) {
	pages, err := s.client.QueryDatabase(ctx, s.friendsDB, nil)
	if err != nil {
		return nil, err
	}

	friends := make([]*Friend, 0, len(pages))
	for i := range pages {
		friends = append(friends, s.pageToFriend(&pages[i]))
	}
	return friends, nil
}

func (s *notionSource) Blocks(ctx context.Context, blockID string) ([]notion.Block, error) {
	return s.client.GetBlockChildren(ctx, blockID)
}

func (s *notionSource) pageToPost(page *notion.Page) *Post {
	post := &Post{
		ID:             page.ID,
		Title:          s.text(page, s.schema.Title, PropertyTitle),
		Slug:           s.text(page, s.schema.Slug, PropertyRichText),
		Status:         PostStatus(s.statusText(page, s.schema.Status)),
		PublishedAt:    s.date(page, s.schema.Date),
		Category:       s.selectText(page, s.schema.Category),
		Tags:           s.list(page, s.schema.Tags, PropertyMultiSelect),
		Description:    s.text(page, s.schema.Summary, PropertyRichText),
		Featured:       mapBool(prop(page, s.schema.Featured)),
		SEOTitle:       s.text(page, s.schema.SEOTitle, PropertyRichText),
		SEODescription: s.text(page, s.schema.SEODescription, PropertyRichText),
	}

	if t := page.LastEditedTime; !t.IsZero() {
		updated := t
		post.UpdatedAt = &updated
	}

	// Page cover wins over a files property of the same meaning.
	if url := page.Cover.FileURL(); url != "" {
		post.Cover = url
	} else if files := s.list(page, s.schema.Cover, PropertyFiles); len(files) > 0 {
		post.Cover = files[0]
	}

	return post
}

func (s *notionSource) pageToFriend(page *notion.Page) *Friend {
	return &Friend{
		ID:          page.ID,
		Name:        s.text(page, s.schema.Name, PropertyTitle),
		URL:         s.text(page, s.schema.URL, PropertyURL),
		Avatar:      s.text(page, s.schema.Avatar, PropertyURL),
		Description: s.text(page, s.schema.Description, PropertyRichText),
		Status:      FriendStatus(s.statusText(page, s.schema.Status)),
		Group:       s.selectText(page, s.schema.Group),
	}
}

// statusText tolerates databases that model status as a plain select.
func (s *notionSource) statusText(page *notion.Page, name string) string {
	p := prop(page, name)
	if p != nil && p.Type == string(PropertySelect) {
		return s.text(page, name, PropertySelect)
	}
	return s.text(page, name, PropertyStatus)
}

// selectText tolerates select properties modeled as multi-select with a
// single option.
func (s *notionSource) selectText(page *notion.Page, name string) string {
	p := prop(page, name)
	if p != nil && p.Type == string(PropertyMultiSelect) {
		if names := s.list(page, name, PropertyMultiSelect); len(names) > 0 {
			return names[0]
		}
		return ""
	}
	return s.text(page, name, PropertySelect)
}

func (s *notionSource) text(page *notion.Page, name string, t PropertyType) string {
	v, err := MapProperty(prop(page, name), t)
	if err != nil {
		s.warnUnsupported(page, name, err)
		return ""
	}
	str, _ := v.(string)
	return str
}

func (s *notionSource) list(page *notion.Page, name string, t PropertyType) []string {
	v, err := MapProperty(prop(page, name), t)
	if err != nil {
		s.warnUnsupported(page, name, err)
		return []string{}
	}
	l, _ := v.([]string)
	if l == nil {
		l = []string{}
	}
	return l
}

func (s *notionSource) date(page *notion.Page, name string) *time.Time {
	return mapTime(prop(page, name), PropertyDate)
}

func (s *notionSource) warnUnsupported(page *notion.Page, name string, err error) {
	var unsupported *UnsupportedPropertyError
	if errors.As(err, &unsupported) {
		s.logger.Warn("unsupported property type, using default",
			"page", page.ID, "property", name, "type", unsupported.Tag)
	}
}

func prop(page *notion.Page, name string) *notion.Property {
	if name == "" {
		return nil
	}
	if p, ok := page.Properties[name]; ok {
		return &p
	}
	return nil
}
