package notion

import (
	"strings"
	"time"
)

// Page is a single record returned from a database query. Properties are keyed
// by the property name configured in the Notion database schema.
type Page struct {
	ID             string              `json:"id"`
	CreatedTime    time.Time           `json:"created_time"`
	LastEditedTime time.Time           `json:"last_edited_time"`
	Archived       bool                `json:"archived"`
	Cover          *File               `json:"cover,omitempty"`
	Properties     map[string]Property `json:"properties"`
	URL            string              `json:"url,omitempty"`
}

// Property is the raw, heterogeneous property value as returned by the API.
// Exactly one of the typed fields is populated, selected by Type.
type Property struct {
	ID   string `json:"id,omitempty"`
	Type string `json:"type"`

	Title          []RichText    `json:"title,omitempty"`
	RichText       []RichText    `json:"rich_text,omitempty"`
	Status         *SelectOption `json:"status,omitempty"`
	Select         *SelectOption `json:"select,omitempty"`
	MultiSelect    []SelectOption `json:"multi_select,omitempty"`
	Date           *DateValue    `json:"date,omitempty"`
	Checkbox       *bool         `json:"checkbox,omitempty"`
	Number         *float64      `json:"number,omitempty"`
	URL            *string       `json:"url,omitempty"`
	Email          *string       `json:"email,omitempty"`
	PhoneNumber    *string       `json:"phone_number,omitempty"`
	Files          []File        `json:"files,omitempty"`
	People         []User        `json:"people,omitempty"`
	CreatedTime    *time.Time    `json:"created_time,omitempty"`
	LastEditedTime *time.Time    `json:"last_edited_time,omitempty"`
}

// RichText is a fragment of styled text. Only the plain text and link are
// carried through to the normalized records.
type RichText struct {
	PlainText string `json:"plain_text"`
	Href      string `json:"href,omitempty"`
}

// SelectOption is a select, multi-select, or status option.
type SelectOption struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// DateValue is a date property value. End is set for ranges only.
type DateValue struct {
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

// File is an externally or internally hosted file reference.
type File struct {
	Name     string     `json:"name,omitempty"`
	Type     string     `json:"type,omitempty"`
	External *FileLink  `json:"external,omitempty"`
	Internal *HostedFile `json:"file,omitempty"`
}

// FileLink is an external file URL.
type FileLink struct {
	URL string `json:"url"`
}

// HostedFile is a Notion-hosted file with an expiring URL.
type HostedFile struct {
	URL        string    `json:"url"`
	ExpiryTime time.Time `json:"expiry_time,omitempty"`
}

// User is a workspace member referenced by a people property.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Block is a content node of a page. Heading and text-bearing block types
// carry their rich text under the field matching Type.
type Block struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	HasChildren bool       `json:"has_children"`

	Paragraph        *BlockText `json:"paragraph,omitempty"`
	Heading1         *BlockText `json:"heading_1,omitempty"`
	Heading2         *BlockText `json:"heading_2,omitempty"`
	Heading3         *BlockText `json:"heading_3,omitempty"`
	BulletedListItem *BlockText `json:"bulleted_list_item,omitempty"`
	NumberedListItem *BlockText `json:"numbered_list_item,omitempty"`
	Quote            *BlockText `json:"quote,omitempty"`
	Callout          *BlockText `json:"callout,omitempty"`
	ToDo             *BlockText `json:"to_do,omitempty"`
	Code             *BlockText `json:"code,omitempty"`
}

// BlockText is the rich-text payload shared by text-bearing block types.
type BlockText struct {
	RichText []RichText `json:"rich_text"`
}

// PlainText concatenates the plain text of all fragments.
func PlainText(rt []RichText) string {
	if len(rt) == 0 {
		return ""
	}
	var b strings.Builder
	for _, t := range rt {
		b.WriteString(t.PlainText)
	}
	return b.String()
}

// Text returns the rich text carried by the block, or nil for block types
// that have none (dividers, images, embeds).
func (b *Block) Text() []RichText {
	switch b.Type {
	case "paragraph":
		if b.Paragraph != nil {
			return b.Paragraph.RichText
		}
	case "heading_1":
		if b.Heading1 != nil {
			return b.Heading1.RichText
		}
	case "heading_2":
		if b.Heading2 != nil {
			return b.Heading2.RichText
		}
	case "heading_3":
		if b.Heading3 != nil {
			return b.Heading3.RichText
		}
	case "bulleted_list_item":
		if b.BulletedListItem != nil {
			return b.BulletedListItem.RichText
		}
	case "numbered_list_item":
		if b.NumberedListItem != nil {
			return b.NumberedListItem.RichText
		}
	case "quote":
		if b.Quote != nil {
			return b.Quote.RichText
		}
	case "callout":
		if b.Callout != nil {
			return b.Callout.RichText
		}
	case "to_do":
		if b.ToDo != nil {
			return b.ToDo.RichText
		}
	case "code":
		if b.Code != nil {
			return b.Code.RichText
		}
	}
	return nil
}

// HeadingLevel returns 1-3 for heading blocks and 0 for everything else.
func (b *Block) HeadingLevel() int {
	switch b.Type {
	case "heading_1":
		return 1
	case "heading_2":
		return 2
	case "heading_3":
		return 3
	}
	return 0
}

// FileURL extracts the usable URL from a file reference, preferring the
// external link over the expiring hosted one.
func (f *File) FileURL() string {
	if f == nil {
		return ""
	}
	if f.External != nil {
		return f.External.URL
	}
	if f.Internal != nil {
		return f.Internal.URL
	}
	return ""
}
