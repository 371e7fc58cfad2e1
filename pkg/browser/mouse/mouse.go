// Package mouse maps terminal mouse events onto rectangular screen regions.
package mouse

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DoubleClickWindow is the maximum gap between two presses on the same
// region for them to count as a double click.
const DoubleClickWindow = 400 * time.Millisecond

// Rect is a screen rectangle. W and H are exclusive bounds.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region is a named hit target.
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap holds regions in insertion order. Later regions win on overlap.
type HitMap struct {
	regions []Region
}

func NewHitMap() *HitMap {
	return &HitMap{}
}

// AddRect registers a region.
func (hm *HitMap) AddRect(id string, x, y, w, h int, data any) {
	hm.regions = append(hm.regions, Region{ID: id, Rect: Rect{X: x, Y: y, W: w, H: h}, Data: data})
}

// Test returns the topmost region containing (x, y), or nil.
func (hm *HitMap) Test(x, y int) *Region {
	for i := len(hm.regions) - 1; i >= 0; i-- {
		if hm.regions[i].Rect.Contains(x, y) {
			return &hm.regions[i]
		}
	}
	return nil
}

func (hm *HitMap) Regions() []Region {
	return hm.regions
}

func (hm *HitMap) Clear() {
	hm.regions = hm.regions[:0]
}

// ActionType classifies a mouse message.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionClick
	ActionDoubleClick
	ActionHover
	ActionScrollUp
	ActionScrollDown
)

func (a ActionType) String() string {
	switch a {
	case ActionClick:
		return "click"
	case ActionDoubleClick:
		return "dblclick"
	case ActionHover:
		return "hover"
	case ActionScrollUp:
		return "scroll-up"
	case ActionScrollDown:
		return "scroll-down"
	default:
		return "none"
	}
}

// Action is the interpreted result of a mouse message.
type Action struct {
	Type   ActionType
	Region *Region
	X, Y   int
}

// ClickResult is returned by HandleClick.
type ClickResult struct {
	Region        *Region
	IsDoubleClick bool
}

// Handler tracks click timing across messages.
type Handler struct {
	HitMap *HitMap

	now       func() time.Time
	lastID    string
	lastClick time.Time
}

func NewHandler() *Handler {
	return &Handler{HitMap: NewHitMap(), now: time.Now}
}

// HandleClick resolves a press at (x, y). A second press on the same
// region inside DoubleClickWindow is a double click; the pair is then
// consumed so a third press starts over.
func (h *Handler) HandleClick(x, y int) ClickResult {
	region := h.HitMap.Test(x, y)
	now := h.now()

	if region == nil {
		h.lastID = ""
		return ClickResult{}
	}

	double := h.lastID == region.ID && now.Sub(h.lastClick) <= DoubleClickWindow
	if double {
		h.lastID = ""
	} else {
		h.lastID = region.ID
		h.lastClick = now
	}
	return ClickResult{Region: region, IsDoubleClick: double}
}

// HandleMouse interprets a bubbletea mouse message.
func (h *Handler) HandleMouse(msg tea.MouseMsg) Action {
	action := Action{X: msg.X, Y: msg.Y}

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		action.Type = ActionScrollUp
	case msg.Button == tea.MouseButtonWheelDown:
		action.Type = ActionScrollDown
	case msg.Action == tea.MouseActionMotion:
		action.Type = ActionHover
		action.Region = h.HitMap.Test(msg.X, msg.Y)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		res := h.HandleClick(msg.X, msg.Y)
		action.Region = res.Region
		action.Type = ActionClick
		if res.IsDoubleClick {
			action.Type = ActionDoubleClick
		}
	}
	return action
}

// Clear drops all regions. Called before each render.
func (h *Handler) Clear() {
	h.HitMap.Clear()
}
