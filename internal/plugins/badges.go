package plugins

import (
	"context"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/quantmind-br/repolens/internal/domain"
	"github.com/quantmind-br/repolens/internal/report"
)

var (
	linkedImageRegex = regexp.MustCompile(`\[!\[([^\]]*)\]\(\s*([^)\s]+)[^)]*\)\]\(\s*([^)\s]+)[^)]*\)`)
	imageOnlyRegex   = regexp.MustCompile(`!\[([^\]]*)\]\(\s*([^)\s]+)[^)]*\)`)
)

// Hosts that only serve status badges
var badgeHosts = []string{
	"img.shields.io",
	"shields.io",
	"badge.fury.io",
	"badgen.net",
	"travis-ci.org",
	"travis-ci.com",
	"circleci.com",
	"ci.appveyor.com",
	"codecov.io",
	"coveralls.io",
	"goreportcard.com",
	"api.codeclimate.com",
	"snyk.io",
	"app.fossa.com",
	"api.netlify.com",
	"readthedocs.org",
	"deepsource.io",
	"bestpractices.coreinfrastructure.org",
}

type badge struct {
	name  string
	image string
	link  string
}

// extractBadges collects status badges from the README, both markdown
// images and HTML img elements, in document order, markdown first.
func extractBadges(ctx context.Context, b domain.Backend) (report.Report, error) {
	content, _, err := readFirst(ctx, b, readmeFiles...)
	if err != nil {
		return nil, err
	}
	if content == "" {
		content, _, err = readFirst(ctx, b, readmeHTMLFiles...)
		if err != nil {
			return nil, err
		}
	}
	if content == "" {
		return report.New(), nil
	}

	seen := make(map[string]bool)
	var badges []any
	add := func(bd badge) {
		if bd.image == "" || seen[bd.image] || !isBadge(bd.image) {
			return
		}
		seen[bd.image] = true
		entry := map[string]any{
			"name":  badgeName(bd),
			"image": bd.image,
		}
		if bd.link != "" {
			entry["link"] = bd.link
		}
		badges = append(badges, entry)
	}

	for _, bd := range markdownBadges(content) {
		add(bd)
	}
	for _, bd := range htmlBadges(content) {
		add(bd)
	}

	if len(badges) == 0 {
		return report.New(), nil
	}
	return report.Report{NameBadges: badges}, nil
}

func markdownBadges(content string) []badge {
	var badges []badge
	linked := make(map[string]bool)
	for _, m := range linkedImageRegex.FindAllStringSubmatch(content, -1) {
		badges = append(badges, badge{name: m[1], image: m[2], link: m[3]})
		linked[m[2]] = true
	}
	for _, m := range imageOnlyRegex.FindAllStringSubmatch(content, -1) {
		if !linked[m[2]] {
			badges = append(badges, badge{name: m[1], image: m[2]})
		}
	}
	return badges
}

// htmlBadges reads img elements, markdown READMEs often embed HTML for
// centered badge rows
func htmlBadges(content string) []badge {
	if !strings.Contains(content, "<img") {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil
	}

	var badges []badge
	doc.Find("img[src]").Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		bd := badge{image: strings.TrimSpace(src)}
		bd.name, _ = img.Attr("alt")
		if bd.name == "" {
			bd.name, _ = img.Attr("title")
		}
		if href, ok := img.Closest("a[href]").Attr("href"); ok {
			bd.link = strings.TrimSpace(href)
		}
		badges = append(badges, bd)
	})
	return badges
}

func isBadge(image string) bool {
	u, err := url.Parse(image)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, h := range badgeHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	lowerPath := strings.ToLower(u.Path)
	return strings.Contains(lowerPath, "badge") || strings.Contains(lowerPath, "/workflows/")
}

// badgeName uses the alt text, or derives a name from the image URL
func badgeName(bd badge) string {
	if name := strings.TrimSpace(bd.name); name != "" {
		return name
	}
	u, err := url.Parse(bd.image)
	if err != nil {
		return bd.image
	}
	if strings.HasSuffix(u.Hostname(), "shields.io") {
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) > 1 && parts[0] == "badge" {
			label, _, _ := strings.Cut(parts[1], "-")
			if label != "" {
				return label
			}
		}
		if len(parts) > 0 && parts[0] != "" {
			return parts[0]
		}
	}
	name := strings.TrimSuffix(path.Base(u.Path), path.Ext(u.Path))
	if name == "" || name == "." || name == "/" || name == "badge" {
		return u.Hostname()
	}
	return name
}
