package caseforge

import (
	"context"
	"fmt"
	"strings"

	"github.com/yjnoh/caseforge/figma"
)

// FigmaSource implements DesignSource over a Figma client. The text content
// of the shared node becomes the work-item description.
type FigmaSource struct {
	client *figma.Client
}

// NewFigmaSource wraps an existing Figma client.
func NewFigmaSource(client *figma.Client) *FigmaSource {
	return &FigmaSource{client: client}
}

// FetchByURL resolves a share URL to a node and maps it to a WorkItem. A URL
// without a node id imports the whole file's top-level text.
func (s *FigmaSource) FetchByURL(ctx context.Context, shareURL string) (*WorkItem, error) {
	link, err := figma.ParseShareURL(shareURL)
	if err != nil {
		return nil, err
	}

	var (
		node     *figma.Node
		fileName string
	)
	if link.NodeID != "" {
		node, fileName, err = s.client.GetNode(ctx, link.FileKey, link.NodeID)
	} else {
		node, fileName, err = s.client.GetFileRoot(ctx, link.FileKey)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch figma node: %w", err)
	}

	summary := figmaSummary(link, node, fileName)
	description := node.CollectText()

	return &WorkItem{
		Key:                figmaKey(link),
		Summary:            summary,
		Description:        description,
		Priority:           "Medium",
		IssueType:          "Design",
		AcceptanceCriteria: ExtractAcceptanceCriteria(description),
		Source:             "figma",
	}, nil
}

// figmaSummary builds "<file> - <node>", degrading to whichever name is
// present, then to the node id.
func figmaSummary(link figma.Link, node *figma.Node, fileName string) string {
	name := strings.TrimSpace(node.Name)
	file := strings.TrimSpace(fileName)

	switch {
	case file != "" && name != "" && file != name:
		return file + " - " + name
	case name != "":
		return name
	case file != "":
		return file
	case link.NodeID != "":
		return "Node " + link.NodeID
	default:
		return "Node " + link.FileKey
	}
}

func figmaKey(link figma.Link) string {
	if link.NodeID != "" {
		return "FIGMA-" + strings.ReplaceAll(link.NodeID, ":", "-")
	}
	return "FIGMA-" + link.FileKey
}
