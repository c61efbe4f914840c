package api

import (
	"context"
	"fmt"
	"maps"
	"slices"
)

// GetProjectInfo retrieves a project's testables and test cases.
func (c *Client) GetProjectInfo(ctx context.Context, projectID int) (*ProjectInfo, error) {
	data, err := c.get(ctx, fmt.Sprintf("/project/%d/info", projectID))
	if err != nil {
		return nil, err
	}
	return decodeOne[ProjectInfo](data)
}

// ProjectEditURL is the page a project's testables are managed from.
func ProjectEditURL(projectID int) string {
	return fmt.Sprintf("/project/%d/edit", projectID)
}

// TestableNames returns the project's testable names, sorted.
func (p *ProjectInfo) TestableNames() []string {
	return slices.Sorted(maps.Keys(p.Testables))
}
