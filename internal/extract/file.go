package extract

import (
	"context"
	"fmt"

	"github.com/thep200/repo-profiler/internal/model"
)

// File adds the features of one source file to p. On error p may hold a
// partial contribution, callers pass a scratch profile and drop it.
func File(ctx context.Context, name, text string, style StyleChecker, p *model.Profile) error {
	p.CommentLines += CountRegionLines(text, InlineComment)
	p.DocstringLines += CountRegionLines(text, Docstring)

	tally, err := style.Tally(ctx, text)
	if err != nil {
		return fmt.Errorf("style check of %s: %w", name, err)
	}
	if err := p.AddStyle(tally); err != nil {
		return fmt.Errorf("style check of %s: %w", name, err)
	}

	codeLines := CountLines(text)
	p.CodeLines += codeLines
	if IsTestFile(name, text) {
		p.TestLines += codeLines
	}
	return nil
}
