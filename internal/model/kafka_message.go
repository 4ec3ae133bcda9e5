package model

import "time"

// ProfileMessage is the Profile payload published to Kafka
type ProfileMessage struct {
	User           string         `json:"user"`
	Url            string         `json:"url"`
	NPyFiles       int            `json:"n_pyfiles"`
	CodeLines      int            `json:"code_lines"`
	CommentLines   int            `json:"comment_lines"`
	DocstringLines int            `json:"docstring_lines"`
	TestLines      int            `json:"test_lines"`
	ReadmeLines    int            `json:"readme_lines"`
	NCommits       int            `json:"n_commits"`
	CommitsPerTime float64        `json:"commits_per_time"`
	CommitHistory  []time.Time    `json:"commit_history"`
	NStars         int            `json:"n_stars"`
	NForks         int            `json:"n_forks"`
	StyleErrors    map[string]int `json:"style_errors"`
}

func NewProfileMessage(p *Profile) ProfileMessage {
	styleErrors := make(map[string]int, len(p.StyleErrors))
	for code, n := range p.StyleErrors {
		styleErrors[code] = n
	}
	return ProfileMessage{
		User:           p.User,
		Url:            p.URL,
		NPyFiles:       p.NPyFiles,
		CodeLines:      p.CodeLines,
		CommentLines:   p.CommentLines,
		DocstringLines: p.DocstringLines,
		TestLines:      p.TestLines,
		ReadmeLines:    p.ReadmeLines,
		NCommits:       p.NCommits,
		CommitsPerTime: p.CommitsPerTime,
		CommitHistory:  append([]time.Time(nil), p.CommitHistory...),
		NStars:         p.NStars,
		NForks:         p.NForks,
		StyleErrors:    styleErrors,
	}
}

// ToProfile rebuilds a profile, style categories outside StyleCodes are dropped
func (m ProfileMessage) ToProfile() *Profile {
	p := NewProfile(m.User, m.Url)
	p.NPyFiles = m.NPyFiles
	p.CodeLines = m.CodeLines
	p.CommentLines = m.CommentLines
	p.DocstringLines = m.DocstringLines
	p.TestLines = m.TestLines
	p.ReadmeLines = m.ReadmeLines
	p.NCommits = m.NCommits
	p.CommitsPerTime = m.CommitsPerTime
	p.CommitHistory = append(p.CommitHistory, m.CommitHistory...)
	p.NStars = m.NStars
	p.NForks = m.NForks
	for code, n := range m.StyleErrors {
		if IsStyleCode(code) {
			p.StyleErrors[code] = n
		}
	}
	return p
}
