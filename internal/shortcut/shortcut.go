// Package shortcut turns quick-entry text such as "Finalize layout @Budi p1 tomorrow"
// into structured task fields.
package shortcut

import (
	"regexp"
	"strings"
	"time"

	"github.com/tgienger/archidraw/internal/models"
)

var (
	priorityPattern = regexp.MustCompile(`(?i)\bp([1-3])\b`)
	mentionPattern  = regexp.MustCompile(`@([\w.-]+)`)
)

// dateKeywords are scanned in this order; the first one present wins
var dateKeywords = []struct {
	pattern *regexp.Regexp
	resolve func(today time.Time) time.Time
}{
	{regexp.MustCompile(`(?i)\btoday\b`), func(d time.Time) time.Time { return d }},
	{regexp.MustCompile(`(?i)\btomorrow\b`), func(d time.Time) time.Time { return d.AddDate(0, 0, 1) }},
	{regexp.MustCompile(`(?i)\bnext week\b`), func(d time.Time) time.Time { return d.AddDate(0, 0, 7) }},
	{regexp.MustCompile(`(?i)\bmid week\b`), nextWednesday},
}

// Options selects which shortcuts are recognised
type Options struct {
	Priority  bool
	Mention   bool
	Date      bool
	AutoClean bool
}

// OptionsFrom maps persisted shortcut settings onto parser options
func OptionsFrom(s models.ShortcutSettings) Options {
	return Options{
		Priority:  s.EnablePriority,
		Mention:   s.EnableMention,
		Date:      s.EnableDate,
		AutoClean: s.AutoClean,
	}
}

// AllEnabled turns every shortcut on
func AllEnabled() Options {
	return Options{Priority: true, Mention: true, Date: true, AutoClean: true}
}

// Result holds the fields extracted from the input. Zero values mean "not found".
type Result struct {
	CleanTitle         string
	Priority           models.Priority
	StakeholderID      string
	NewStakeholderName string
	DueDate            *time.Time
}

// Parse extracts priority, mention and due date shortcuts from input. It never
// modifies stakeholders: an unknown mention comes back as NewStakeholderName.
func Parse(input string, stakeholders []models.Stakeholder, opts Options, now time.Time) Result {
	var res Result
	text := input

	if opts.Priority {
		if loc := priorityPattern.FindStringSubmatchIndex(text); loc != nil {
			res.Priority = models.Priority(text[loc[2]] - '0')
			if opts.AutoClean {
				text = cut(text, loc[0], loc[1])
			}
		}
	}

	if opts.Mention {
		if loc := mentionPattern.FindStringSubmatchIndex(text); loc != nil {
			mention := text[loc[2]:loc[3]]
			if s, ok := Resolve(mention, stakeholders); ok {
				res.StakeholderID = s.ID
			} else {
				res.NewStakeholderName = mention
			}
			if opts.AutoClean {
				text = cut(text, loc[0], loc[1])
			}
		}
	}

	if opts.Date {
		today := midnight(now)
		for _, kw := range dateKeywords {
			loc := kw.pattern.FindStringIndex(text)
			if loc == nil {
				continue
			}
			due := kw.resolve(today)
			res.DueDate = &due
			if opts.AutoClean {
				text = cut(text, loc[0], loc[1])
			}
			break
		}
	}

	res.CleanTitle = strings.Join(strings.Fields(text), " ")
	return res
}

// Resolve finds a stakeholder by case-insensitive exact name, falling back to the
// first case-insensitive prefix match in directory order.
func Resolve(mention string, stakeholders []models.Stakeholder) (models.Stakeholder, bool) {
	needle := strings.ToLower(strings.TrimSpace(mention))
	if needle == "" {
		return models.Stakeholder{}, false
	}
	for _, s := range stakeholders {
		if strings.ToLower(s.Name) == needle {
			return s, true
		}
	}
	for _, s := range stakeholders {
		if strings.HasPrefix(strings.ToLower(s.Name), needle) {
			return s, true
		}
	}
	return models.Stakeholder{}, false
}

func cut(s string, start, end int) string {
	return s[:start] + s[end:]
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// nextWednesday is strictly after d: a Wednesday maps to the following week's.
func nextWednesday(d time.Time) time.Time {
	diff := (int(time.Wednesday) + 7 - int(d.Weekday())) % 7
	if diff == 0 {
		diff = 7
	}
	return d.AddDate(0, 0, diff)
}
