package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProfile() *Profile {
	p := NewProfile("psf", "https://api.github.com/repos/psf/requests")
	p.NPyFiles = 3
	p.CodeLines = 120
	p.CommentLines = 12
	p.NCommits = 2
	p.CommitsPerTime = 10
	p.CommitHistory = []time.Time{
		time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	p.StyleErrors["E5"] = 4
	return p
}

func TestProfileMessageRoundTrip(t *testing.T) {
	p := sampleProfile()

	data, err := json.Marshal(NewProfileMessage(p))
	require.NoError(t, err)

	var msg ProfileMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	got := msg.ToProfile()

	assert.Equal(t, p.URL, got.URL)
	assert.Equal(t, p.CodeLines, got.CodeLines)
	assert.Equal(t, p.StyleErrors, got.StyleErrors)
	assert.Len(t, got.CommitHistory, 2)
	assert.True(t, p.CommitHistory[0].Equal(got.CommitHistory[0]))
}

func TestToProfileDropsUnknownCategories(t *testing.T) {
	msg := NewProfileMessage(sampleProfile())
	msg.StyleErrors["C9"] = 3

	got := msg.ToProfile()
	assert.NoError(t, got.Validate())
	assert.NotContains(t, got.StyleErrors, "C9")
}

func TestMessageDoesNotAliasProfile(t *testing.T) {
	p := sampleProfile()
	msg := NewProfileMessage(p)
	msg.StyleErrors["E5"] = 100
	assert.Equal(t, 4, p.StyleErrors["E5"])
}

func TestFromProfile(t *testing.T) {
	rec := FromProfile(sampleProfile())
	assert.Equal(t, "https://api.github.com/repos/psf/requests", rec.Url)
	assert.Equal(t, "psf", rec.User)
	assert.Equal(t, 120, rec.CodeLines)
	assert.Equal(t, 4, rec.StyleErrors["E5"])
	assert.Equal(t, "profiles", rec.TableName())
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "abc", TruncateString("abcdef", 3))
	assert.Equal(t, "ab", TruncateString("ab", 3))
}
