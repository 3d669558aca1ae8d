package assemble

import (
	"fmt"
	"maps"
	"regexp"
	"strconv"
	"strings"
)

// HeadingConfig maps element names and paragraph classes to heading levels.
// Each class pattern must have one capture group holding the level digit.
type HeadingConfig struct {
	Tags          map[string]int
	ClassPatterns []string
}

// DefaultHeadingConfig recognises h1..h9 and the Heading_N / 标题_N
// paragraph classes produced for styled word-processor headings.
func DefaultHeadingConfig() HeadingConfig {
	tags := make(map[string]int, 9)
	for i := 1; i <= 9; i++ {
		tags["h"+strconv.Itoa(i)] = i
	}
	return HeadingConfig{
		Tags: tags,
		ClassPatterns: []string{
			`(?i)^标题_(\d)$`,
			`(?i)^heading_(\d)$`,
		},
	}
}

// Classifier decides whether an element starts a heading. It is immutable
// once built and safe for concurrent use.
type Classifier struct {
	tags     map[string]int
	patterns []*regexp.Regexp
}

// NewClassifier compiles cfg. The config is copied.
func NewClassifier(cfg HeadingConfig) (*Classifier, error) {
	c := &Classifier{tags: maps.Clone(cfg.Tags)}
	if c.tags == nil {
		c.tags = map[string]int{}
	}
	for _, p := range cfg.ClassPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid heading pattern %q: %w", p, err)
		}
		if re.NumSubexp() < 1 {
			return nil, fmt.Errorf("heading pattern %q has no capture group", p)
		}
		c.patterns = append(c.patterns, re)
	}
	return c, nil
}

// Classify returns the heading level for an element, or false when the
// element is not a heading.
func (c *Classifier) Classify(name string, attrs map[string]string) (int, bool) {
	if level, ok := c.tags[strings.ToLower(name)]; ok && level > 0 {
		return level, true
	}
	for _, class := range strings.Fields(attrs["class"]) {
		for _, re := range c.patterns {
			m := re.FindStringSubmatch(class)
			if m == nil {
				continue
			}
			if level, err := strconv.Atoi(m[1]); err == nil && level > 0 {
				return level, true
			}
		}
	}
	return 0, false
}

// Prefix returns the markdown marker for a heading level.
func Prefix(level int) string {
	return strings.Repeat("#", level)
}
