package tracker

import (
	"context"
	"regexp"
	"strings"

	"github.com/crolabs/lpqa/internal/config"
	"github.com/crolabs/lpqa/pkg/models"
)

var urlRe = regexp.MustCompile(`https?://[^\s<>"'\)\]]+`)

func extractURLs(text string) []string {
	return urlRe.FindAllString(text, -1)
}

func findSection(sections []TaskRef, name string) *TaskRef {
	for i, s := range sections {
		if strings.Contains(strings.ToLower(s.Name), strings.ToLower(name)) {
			return &sections[i]
		}
	}
	return nil
}

// findURLByPattern returns the first URL containing any of the patterns.
func findURLByPattern(urls, patterns []string) string {
	for _, u := range urls {
		lower := strings.ToLower(u)
		for _, p := range patterns {
			if strings.Contains(lower, p) {
				return u
			}
		}
	}
	return ""
}

// BuildContext reads a task and derives the QA run context from its name,
// notes, and custom fields. The landing page URL is the first URL on a
// known landing-page builder domain, falling back to the first URL that is
// not an internal tool.
func (c *Client) BuildContext(ctx context.Context, taskGID string) (*models.QAContext, error) {
	task, err := c.GetTask(ctx, taskGID)
	if err != nil {
		return nil, err
	}

	urls := extractURLs(task.Name + "\n" + task.Notes)
	lpURL := findURLByPattern(urls, config.LandingPageDomains)
	if lpURL == "" {
	outer:
		for _, u := range urls {
			lower := strings.ToLower(u)
			for _, internal := range config.InternalToolDomains {
				if strings.Contains(lower, internal) {
					continue outer
				}
			}
			lpURL = u
			break
		}
	}

	qa := &models.QAContext{
		LandingPageURL: lpURL,
		DesignURL:      findURLByPattern(urls, []string{"figma.com"}),
		CopyDocURL:     findURLByPattern(urls, []string{"docs.google.com"}),
		TaskID:         taskGID,
	}

	for _, cf := range task.CustomFields {
		name := strings.ToLower(cf.Name)
		val := cf.DisplayValue
		if val == "" {
			val = cf.TextValue
		}
		switch {
		case strings.Contains(name, "client"):
			qa.ClientName = val
		case strings.Contains(name, "campaign"), strings.Contains(name, "project"):
			qa.CampaignName = val
		}
	}
	if qa.CampaignName == "" {
		if task.Parent != nil && task.Parent.Name != "" {
			qa.CampaignName = task.Parent.Name
		} else {
			qa.CampaignName = task.Name
		}
	}
	return qa, nil
}
