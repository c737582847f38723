package config

// Site is one tracked URL of the configuration file.
type Site struct {
	// URL is the scanned URL, written exactly as the scanners received it.
	URL string `yaml:"url"`

	// Title is a display name used in reports.
	Title string `yaml:"title,omitempty"`

	// Tags are free-form labels, for example the team owning the site.
	Tags []string `yaml:"tags,omitempty"`
}

// File represents the structure of the .urlreport configuration file.
type File struct {
	// ResultsDir overrides the default results directory.
	ResultsDir string `yaml:"resultsDir,omitempty"`

	// ScreenshotFile overrides the screenshot file name.
	ScreenshotFile string `yaml:"screenshotFile,omitempty"`

	// Concurrency overrides the default number of URLs processed at once.
	Concurrency int `yaml:"concurrency,omitempty"`

	// DBDir overrides the history database directory.
	DBDir string `yaml:"dbDir,omitempty"`

	// URLs lists the tracked sites.
	URLs []Site `yaml:"urls,omitempty"`
}

// Apply copies the non-zero settings of the file into cfg.
// Command line flags are applied afterwards and win over the file.
func (cf *File) Apply(cfg *Config) {
	if cf.ResultsDir != "" {
		cfg.ResultsDir = cf.ResultsDir
	}
	if cf.ScreenshotFile != "" {
		cfg.ScreenshotFile = cf.ScreenshotFile
	}
	if cf.Concurrency > 0 {
		cfg.Concurrency = cf.Concurrency
	}
	if cf.DBDir != "" {
		cfg.DBDir = cf.DBDir
	}
}

// URLList returns the URLs of the file in order, without duplicates.
func (cf *File) URLList() []string {
	seen := make(map[string]bool, len(cf.URLs))
	urls := make([]string, 0, len(cf.URLs))
	for _, s := range cf.URLs {
		if seen[s.URL] {
			continue
		}
		seen[s.URL] = true
		urls = append(urls, s.URL)
	}
	return urls
}

// Site returns the entry of a URL. The match is exact, like the mapping
// from URL to results directory.
func (cf *File) Site(url string) (Site, bool) {
	for _, s := range cf.URLs {
		if s.URL == url {
			return s, true
		}
	}
	return Site{}, false
}

// Title returns the display title of a URL, or the URL itself.
func (cf *File) Title(url string) string {
	if s, ok := cf.Site(url); ok && s.Title != "" {
		return s.Title
	}
	return url
}
