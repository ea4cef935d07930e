package extract

import (
	"net/url"
	"strings"
)

// socialPlatforms maps host suffixes to platform names.
var socialPlatforms = map[string]string{
	"facebook.com":  "facebook",
	"instagram.com": "instagram",
	"linkedin.com":  "linkedin",
	"twitter.com":   "twitter",
	"x.com":         "twitter",
	"youtube.com":   "youtube",
	"youtu.be":      "youtube",
}

// socialLinks picks hrefs pointing at known platforms, deduplicated by
// (platform, URL). Share/intent links are skipped.
func socialLinks(hrefs []string) []SocialLink {
	var out []SocialLink
	seen := make(map[string]bool)

	for _, href := range hrefs {
		u, err := url.Parse(href)
		if err != nil || u.Host == "" {
			continue
		}
		host := strings.ToLower(strings.TrimPrefix(u.Host, "www."))

		platform := ""
		for suffix, name := range socialPlatforms {
			if host == suffix || strings.HasSuffix(host, "."+suffix) {
				platform = name
				break
			}
		}
		if platform == "" {
			continue
		}

		path := strings.ToLower(u.Path)
		if strings.Contains(path, "/share") || strings.Contains(path, "/intent") || path == "" || path == "/" {
			continue
		}

		u.Fragment = ""
		u.RawQuery = ""
		link := SocialLink{Platform: platform, URL: u.String()}
		key := link.Platform + "|" + link.URL
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, link)
	}

	return out
}
