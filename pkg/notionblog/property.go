package notionblog

import (
	"time"

	"github.com/amatsuka/notion-blog/pkg/notionblog/notion"
)

// PropertyType is the closed set of recognized property type tags.
type PropertyType string

// Recognized property type tags.
const (
	PropertyTitle          PropertyType = "title"
	PropertyRichText       PropertyType = "rich_text"
	PropertyStatus         PropertyType = "status"
	PropertySelect         PropertyType = "select"
	PropertyMultiSelect    PropertyType = "multi_select"
	PropertyDate           PropertyType = "date"
	PropertyCheckbox       PropertyType = "checkbox"
	PropertyNumber         PropertyType = "number"
	PropertyURL            PropertyType = "url"
	PropertyEmail          PropertyType = "email"
	PropertyPhoneNumber    PropertyType = "phone_number"
	PropertyFiles          PropertyType = "files"
	PropertyPeople         PropertyType = "people"
	PropertyCreatedTime    PropertyType = "created_time"
	PropertyLastEditedTime PropertyType = "last_edited_time"
)

// MapProperty normalizes a raw property value into the target type declared
// by the tag:
//
//	title, rich_text, status, select, url, email, phone_number -> string
//	multi_select, files, people                                -> []string
//	checkbox                                                   -> bool
//	number                                                     -> *float64
//	date, created_time, last_edited_time                       -> *time.Time
//
// A nil or absent raw value yields the type's default (empty string, empty
// list, false, or nil) and never an error. An unrecognized tag yields an
// empty string together with *UnsupportedPropertyError so callers can choose
// to log, default, or fail.
func MapProperty(p *notion.Property, t PropertyType) (any, error) {
	switch t {
	case PropertyTitle:
		if p == nil {
			return "", nil
		}
		return notion.PlainText(p.Title), nil
	case PropertyRichText:
		if p == nil {
			return "", nil
		}
		return notion.PlainText(p.RichText), nil
	case PropertyStatus:
		if p == nil || p.Status == nil {
			return "", nil
		}
		return p.Status.Name, nil
	case PropertySelect:
		if p == nil || p.Select == nil {
			return "", nil
		}
		return p.Select.Name, nil
	case PropertyMultiSelect:
		if p == nil {
			return []string{}, nil
		}
		names := make([]string, 0, len(p.MultiSelect))
		for _, opt := range p.MultiSelect {
			names = append(names, opt.Name)
		}
		return names, nil
	case PropertyDate:
		if p == nil || p.Date == nil || p.Date.Start == "" {
			return (*time.Time)(nil), nil
		}
		return parseDate(p.Date.Start), nil
	case PropertyCheckbox:
		if p == nil || p.Checkbox == nil {
			return false, nil
		}
		return *p.Checkbox, nil
	case PropertyNumber:
		if p == nil {
			return (*float64)(nil), nil
		}
		return p.Number, nil
	case PropertyURL:
		return optionalString(p, func(p *notion.Property) *string { return p.URL }), nil
	case PropertyEmail:
		return optionalString(p, func(p *notion.Property) *string { return p.Email }), nil
	case PropertyPhoneNumber:
		return optionalString(p, func(p *notion.Property) *string { return p.PhoneNumber }), nil
	case PropertyFiles:
		if p == nil {
			return []string{}, nil
		}
		urls := make([]string, 0, len(p.Files))
		for i := range p.Files {
			if u := p.Files[i].FileURL(); u != "" {
				urls = append(urls, u)
			}
		}
		return urls, nil
	case PropertyPeople:
		if p == nil {
			return []string{}, nil
		}
		names := make([]string, 0, len(p.People))
		for _, u := range p.People {
			names = append(names, u.Name)
		}
		return names, nil
	case PropertyCreatedTime:
		if p == nil {
			return (*time.Time)(nil), nil
		}
		return p.CreatedTime, nil
	case PropertyLastEditedTime:
		if p == nil {
			return (*time.Time)(nil), nil
		}
		return p.LastEditedTime, nil
	default:
		return "", &UnsupportedPropertyError{Tag: string(t)}
	}
}

func optionalString(p *notion.Property, get func(*notion.Property) *string) string {
	if p == nil {
		return ""
	}
	if v := get(p); v != nil {
		return *v
	}
	return ""
}

// parseDate accepts both the date-only and timestamp forms Notion emits.
func parseDate(s string) *time.Time {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return &ts
	}
	if ts, err := time.Parse("2006-01-02", s); err == nil {
		return &ts
	}
	return nil
}

// mapBool is a convenience for accessors that expect a checkbox property.
func mapBool(p *notion.Property) bool {
	v, _ := MapProperty(p, PropertyCheckbox)
	b, _ := v.(bool)
	return b
}

// mapTime is a convenience for accessors that expect a date property.
func mapTime(p *notion.Property, t PropertyType) *time.Time {
	v, _ := MapProperty(p, t)
	ts, _ := v.(*time.Time)
	return ts
}
