package notionblog_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amatsuka/notion-blog/pkg/notionblog"
	"github.com/amatsuka/notion-blog/pkg/notionblog/notion"
)

func TestMapPropertyDefaults(t *testing.T) {
	tests := []struct {
		tag  notionblog.PropertyType
		want any
	}{
		{notionblog.PropertyTitle, ""},
		{notionblog.PropertyRichText, ""},
		{notionblog.PropertyStatus, ""},
		{notionblog.PropertySelect, ""},
		{notionblog.PropertyMultiSelect, []string{}},
		{notionblog.PropertyDate, (*time.Time)(nil)},
		{notionblog.PropertyCheckbox, false},
		{notionblog.PropertyNumber, (*float64)(nil)},
		{notionblog.PropertyURL, ""},
		{notionblog.PropertyEmail, ""},
		{notionblog.PropertyPhoneNumber, ""},
		{notionblog.PropertyFiles, []string{}},
		{notionblog.PropertyPeople, []string{}},
		{notionblog.PropertyCreatedTime, (*time.Time)(nil)},
		{notionblog.PropertyLastEditedTime, (*time.Time)(nil)},
	}

	for _, tt := range tests {
		t.Run(string(tt.tag), func(t *testing.T) {
			got, err := notionblog.MapProperty(nil, tt.tag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMapPropertyValues(t *testing.T) {
	published := "2024-03-01T09:00:00Z"
	checked := true
	number := 42.0
	link := "https://example.com"

	tests := []struct {
		name string
		prop *notion.Property
		tag  notionblog.PropertyType
		want any
	}{
		{
			name: "title concatenates fragments",
			prop: &notion.Property{Type: "title", Title: []notion.RichText{
				{PlainText: "Hello, "}, {PlainText: "world"},
			}},
			tag:  notionblog.PropertyTitle,
			want: "Hello, world",
		},
		{
			name: "multi_select yields option names",
			prop: &notion.Property{Type: "multi_select", MultiSelect: []notion.SelectOption{
				{Name: "go"}, {Name: "rust"},
			}},
			tag:  notionblog.PropertyMultiSelect,
			want: []string{"go", "rust"},
		},
		{
			name: "status yields option name",
			prop: &notion.Property{Type: "status", Status: &notion.SelectOption{Name: "Published"}},
			tag:  notionblog.PropertyStatus,
			want: "Published",
		},
		{
			name: "checkbox",
			prop: &notion.Property{Type: "checkbox", Checkbox: &checked},
			tag:  notionblog.PropertyCheckbox,
			want: true,
		},
		{
			name: "number keeps pointer",
			prop: &notion.Property{Type: "number", Number: &number},
			tag:  notionblog.PropertyNumber,
			want: &number,
		},
		{
			name: "url",
			prop: &notion.Property{Type: "url", URL: &link},
			tag:  notionblog.PropertyURL,
			want: link,
		},
		{
			name: "files prefer external url",
			prop: &notion.Property{Type: "files", Files: []notion.File{
				{External: &notion.FileLink{URL: "https://cdn.example.com/a.png"}},
			}},
			tag:  notionblog.PropertyFiles,
			want: []string{"https://cdn.example.com/a.png"},
		},
		{
			name: "people yields names",
			prop: &notion.Property{Type: "people", People: []notion.User{{ID: "u1", Name: "Rin"}}},
			tag:  notionblog.PropertyPeople,
			want: []string{"Rin"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := notionblog.MapProperty(tt.prop, tt.tag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("date parses timestamps", func(t *testing.T) {
		got, err := notionblog.MapProperty(&notion.Property{
			Type: "date",
			Date: &notion.DateValue{Start: published},
		}, notionblog.PropertyDate)
		require.NoError(t, err)
		ts, ok := got.(*time.Time)
		require.True(t, ok)
		require.NotNil(t, ts)
		assert.Equal(t, 2024, ts.Year())
		assert.Equal(t, time.March, ts.Month())
	})

	t.Run("date parses date-only values", func(t *testing.T) {
		got, err := notionblog.MapProperty(&notion.Property{
			Type: "date",
			Date: &notion.DateValue{Start: "2023-12-24"},
		}, notionblog.PropertyDate)
		require.NoError(t, err)
		ts, ok := got.(*time.Time)
		require.True(t, ok)
		require.NotNil(t, ts)
		assert.Equal(t, 24, ts.Day())
	})
}

func TestMapPropertyUnsupportedTag(t *testing.T) {
	got, err := notionblog.MapProperty(&notion.Property{Type: "rollup"}, notionblog.PropertyType("rollup"))

	assert.Equal(t, "", got)
	var unsupported *notionblog.UnsupportedPropertyError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "rollup", unsupported.Tag)
}
