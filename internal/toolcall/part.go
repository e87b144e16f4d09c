package toolcall

import "strings"

// State is the lifecycle stage of a streamed tool call.
type State string

const (
	StateInputAvailable  State = "input-available"
	StateOutputAvailable State = "output-available"
	StateOutputError     State = "output-error"
)

// Part is one tool-call entry of an assistant message stream.
type Part struct {
	Type       string         `json:"type"`
	ToolCallID string         `json:"toolCallId"`
	State      State          `json:"state"`
	Input      map[string]any `json:"input,omitempty"`
	Output     map[string]any `json:"output,omitempty"`
}

// ToolName identifies the operation a part carries.
type ToolName string

const (
	ToolCreatePage         ToolName = "createPage"
	ToolEditPage           ToolName = "editPage"
	ToolCreateSection      ToolName = "createSection"
	ToolEditSection        ToolName = "editSection"
	ToolDeleteSection      ToolName = "deleteSection"
	ToolMoveSection        ToolName = "moveSection"
	ToolReorderSections    ToolName = "reorderSections"
	ToolCreateBrick        ToolName = "createBrick"
	ToolEditBrick          ToolName = "editBrick"
	ToolDeleteBrick        ToolName = "deleteBrick"
	ToolMoveBrick          ToolName = "moveBrick"
	ToolDuplicateBrick     ToolName = "duplicateBrick"
	ToolCreateTheme        ToolName = "createTheme"
	ToolEditTheme          ToolName = "editTheme"
	ToolSetPreviewTheme    ToolName = "setPreviewTheme"
	ToolCreateDatasource   ToolName = "createDatasource"
	ToolCreateDatarecord   ToolName = "createDatarecord"
	ToolEditSiteAttributes ToolName = "editSiteAttributes"
	ToolUndo               ToolName = "undo"
	ToolRedo               ToolName = "redo"
)

// ToolName strips the "tool-" prefix from the part type.
func (p Part) ToolName() ToolName {
	return ToolName(strings.TrimPrefix(p.Type, "tool-"))
}

// NewPart builds a completed part, as produced once a tool has returned.
func NewPart(name ToolName, callID string, output map[string]any) Part {
	return Part{
		Type:       "tool-" + string(name),
		ToolCallID: callID,
		State:      StateOutputAvailable,
		Output:     output,
	}
}
