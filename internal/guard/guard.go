// Package guard flags questions and ideas that fall outside the topics the
// assistant is willing to work on.
package guard

import (
	"regexp"

	"github.com/pkg/errors"
)

// ErrInappropriateContent is reported when a question is rejected by the guard
var ErrInappropriateContent = errors.New("inappropriate content")

// DefaultPatterns covers explicit sexual content, violence/terror and illegal drugs.
var DefaultPatterns = []string{
	`\b(sex|porn|nude|explicit|nsfw)\b`,
	`\b(terrorist|bomb|attack plans)\b`,
	`\b(illegal drugs|cocaine|heroin)\b`,
}

// ContentGuard is a coarse, pattern based classifier. It is safe to share once built.
type ContentGuard struct {
	patterns []*regexp.Regexp
}

// New compiles the given patterns case-insensitively. An empty list falls back to DefaultPatterns.
func New(patterns []string) (*ContentGuard, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}

	g := &ContentGuard{}
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid guard pattern %q", p)
		}
		g.patterns = append(g.patterns, re)
	}

	return g, nil
}

// Default returns a guard built from DefaultPatterns
func Default() *ContentGuard {
	g, err := New(DefaultPatterns)
	if err != nil {
		// DefaultPatterns are constant and known to compile
		panic(err)
	}
	return g
}

// IsInappropriate reports whether any pattern matches text
func (g *ContentGuard) IsInappropriate(text string) bool {
	for _, re := range g.patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
