package diagram

import (
	"github.com/google/uuid"
)

// Node type tags understood by the canvas.
const (
	NodeTypeService = "azureService"
	NodeTypeGroup   = "azure.group"

	// ExtentParent confines a child node to its parent's box.
	ExtentParent = "parent"

	StatusInactive = "inactive"
)

// Node is a positioned visual node: a service card or a group box. Positions of
// nodes with a ParentID are relative to the parent's top-left corner.
type Node struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Position Position `json:"position"`
	Size     *Size    `json:"size,omitempty"`
	Data     NodeData `json:"data"`
	ParentID string   `json:"parentId,omitempty"`
	Extent   string   `json:"extent,omitempty"`
}

// Position holds x,y coordinates (used by the diagram UI).
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is the width and height of a group box.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NodeData is the payload rendered inside a node. Service cards use the title
// fields; group boxes use Label, GroupType and Metadata.
type NodeData struct {
	Title      string `json:"title,omitempty"`
	Subtitle   string `json:"subtitle,omitempty"`
	IconPath   string `json:"iconPath,omitempty"`
	Status     string `json:"status,omitempty"`
	ServiceRef string `json:"serviceRef,omitempty"`

	Label     string         `json:"label,omitempty"`
	GroupType GroupType      `json:"groupType,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Edge represents a relationship between two nodes.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
}

var edgeNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://archdiagram/edge"))

// EdgeID derives a stable id for the directed pair from->to.
func EdgeID(from, to string) string {
	return "edge-" + uuid.NewSHA1(edgeNamespace, []byte(from+"\x00"+to)).String()
}
