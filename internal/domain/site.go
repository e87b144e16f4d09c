package domain

// Theme is a named color and typography set applied to the whole site.
type Theme struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	Description        string            `json:"description,omitempty"`
	Tags               []string          `json:"tags,omitempty"`
	Colors             map[string]string `json:"colors"`
	Typography         map[string]string `json:"typography"`
	BrowserColorScheme string            `json:"browserColorScheme,omitempty"`
}

// Datasource describes a schema of records bricks can bind to.
type Datasource struct {
	ID          string           `json:"id"`
	Label       string           `json:"label"`
	Provider    string           `json:"provider"`
	Description string           `json:"description,omitempty"`
	Schema      map[string]any   `json:"schema,omitempty"`
	Sample      []map[string]any `json:"sample,omitempty"`
}

// Datarecord describes a destination for submitted data (forms).
type Datarecord struct {
	ID       string         `json:"id"`
	Label    string         `json:"label"`
	Provider string         `json:"provider"`
	Schema   map[string]any `json:"schema,omitempty"`
}

// Site aggregates everything shared by the pages of one website.
type Site struct {
	ID           string         `json:"id"`
	Label        string         `json:"label"`
	Hostname     string         `json:"hostname,omitempty"`
	Sitemap      []PageSummary  `json:"sitemap"`
	Theme        Theme          `json:"theme"`
	PreviewTheme *Theme         `json:"previewTheme,omitempty"`
	Themes       []Theme        `json:"themes"`
	Datasources  []Datasource   `json:"datasources"`
	Datarecords  []Datarecord   `json:"datarecords"`
	Attributes   map[string]any `json:"attributes"`
	SitePrompt   string         `json:"sitePrompt,omitempty"`
}
