package toolcall

import (
	"errors"
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-viper/mapstructure/v2"

	"pagebuilder/internal/domain"
)

// decode maps a loose tool output onto dst and validates it.
func decode(output map[string]any, dst validation.Validatable) error {
	if output == nil {
		return errors.New("missing output")
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           dst,
	})
	if err != nil {
		return fmt.Errorf("build decoder: %w", err)
	}
	if err := dec.Decode(output); err != nil {
		return fmt.Errorf("decode output: %w", err)
	}
	if err := dst.Validate(); err != nil {
		return fmt.Errorf("invalid output: %w", err)
	}
	return nil
}

var pathPattern = regexp.MustCompile(`^/[A-Za-z0-9/_\-.]*$`)

// ── Page ───────────────────────────────────────────────────

type createPagePayload struct {
	Page map[string]any `json:"page"`
}

func (p *createPagePayload) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Page, validation.Required),
	)
}

type editPagePayload struct {
	Label      string         `json:"label"`
	Path       string         `json:"path"`
	Attributes map[string]any `json:"attributes"`
}

func (p *editPagePayload) Validate() error {
	if p.Label == "" && p.Path == "" && len(p.Attributes) == 0 {
		return errors.New("nothing to edit")
	}
	return validation.ValidateStruct(p,
		validation.Field(&p.Label, validation.Length(1, 200)),
		validation.Field(&p.Path, validation.Match(pathPattern)),
	)
}

// ── Sections ───────────────────────────────────────────────

type createSectionPayload struct {
	Section        map[string]any `json:"section"`
	AfterSectionID string         `json:"afterSectionId"`
}

func (p *createSectionPayload) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Section, validation.Required),
	)
}

type editSectionPayload struct {
	SectionID string         `json:"sectionId"`
	Label     *string        `json:"label"`
	Props     map[string]any `json:"props"`
}

func (p *editSectionPayload) Validate() error {
	if p.Label == nil && len(p.Props) == 0 {
		return errors.New("nothing to edit")
	}
	return validation.ValidateStruct(p,
		validation.Field(&p.SectionID, validation.Required),
	)
}

type sectionRef struct {
	SectionID string `json:"sectionId"`
}

func (p *sectionRef) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.SectionID, validation.Required),
	)
}

type moveSectionPayload struct {
	SectionID string `json:"sectionId"`
	Direction string `json:"direction"`
}

func (p *moveSectionPayload) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.SectionID, validation.Required),
		validation.Field(&p.Direction, validation.Required, validation.In("up", "down")),
	)
}

type reorderSectionsPayload struct {
	SectionIDs []string `json:"sectionIds"`
}

func (p *reorderSectionsPayload) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.SectionIDs, validation.Required),
	)
}

// ── Bricks ─────────────────────────────────────────────────

type createBrickPayload struct {
	Brick     map[string]any `json:"brick"`
	SectionID string         `json:"sectionId"`
	ParentID  string         `json:"parentId"`
	Index     *int           `json:"index"`
}

func (p *createBrickPayload) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Brick, validation.Required),
		validation.Field(&p.SectionID, validation.Required),
	)
}

type editBrickPayload struct {
	BrickID     string         `json:"brickId"`
	Type        string         `json:"type"`
	Props       map[string]any `json:"props"`
	MobileProps map[string]any `json:"mobileProps"`
}

func (p *editBrickPayload) Validate() error {
	if p.Type == "" && len(p.Props) == 0 && len(p.MobileProps) == 0 {
		return errors.New("nothing to edit")
	}
	return validation.ValidateStruct(p,
		validation.Field(&p.BrickID, validation.Required),
	)
}

type brickRef struct {
	BrickID string `json:"brickId"`
}

func (p *brickRef) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.BrickID, validation.Required),
	)
}

// moveBrickPayload is a sibling swap when Direction is set, otherwise a
// move into ParentID or to SectionID's top level.
type moveBrickPayload struct {
	BrickID   string `json:"brickId"`
	Direction string `json:"direction"`
	SectionID string `json:"sectionId"`
	ParentID  string `json:"parentId"`
	Index     *int   `json:"index"`
}

func (p *moveBrickPayload) Validate() error {
	if p.Direction == "" && p.SectionID == "" && p.ParentID == "" {
		return errors.New("one of direction, sectionId or parentId is required")
	}
	return validation.ValidateStruct(p,
		validation.Field(&p.BrickID, validation.Required),
		validation.Field(&p.Direction, validation.In(string(domain.DirectionPrevious), string(domain.DirectionNext))),
	)
}

// ── Site ───────────────────────────────────────────────────

type themePayload struct {
	Theme  domain.Theme `json:"theme"`
	Select bool         `json:"select"`
}

func (p *themePayload) Validate() error {
	return validation.ValidateStruct(&p.Theme,
		validation.Field(&p.Theme.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&p.Theme.BrowserColorScheme, validation.In("light", "dark")),
	)
}

type editThemePayload struct {
	Theme domain.Theme `json:"theme"`
}

func (p *editThemePayload) Validate() error {
	return validation.ValidateStruct(&p.Theme,
		validation.Field(&p.Theme.ID, validation.Required),
		validation.Field(&p.Theme.BrowserColorScheme, validation.In("light", "dark")),
	)
}

type datasourcePayload struct {
	Datasource domain.Datasource `json:"datasource"`
}

func (p *datasourcePayload) Validate() error {
	return validation.ValidateStruct(&p.Datasource,
		validation.Field(&p.Datasource.Label, validation.Required),
		validation.Field(&p.Datasource.Provider, validation.Required),
	)
}

type datarecordPayload struct {
	Datarecord domain.Datarecord `json:"datarecord"`
}

func (p *datarecordPayload) Validate() error {
	return validation.ValidateStruct(&p.Datarecord,
		validation.Field(&p.Datarecord.Label, validation.Required),
		validation.Field(&p.Datarecord.Provider, validation.Required),
	)
}

type siteAttributesPayload struct {
	Attributes map[string]any `json:"attributes"`
	SitePrompt *string        `json:"sitePrompt"`
}

func (p *siteAttributesPayload) Validate() error {
	if len(p.Attributes) == 0 && p.SitePrompt == nil {
		return errors.New("nothing to edit")
	}
	return nil
}
