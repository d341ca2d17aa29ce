package api

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// DefaultServerConstraint is the range of server versions this client speaks to.
const DefaultServerConstraint = ">= 1.0.0, < 2.0.0"

type versionResponse struct {
	Version string `json:"version"`
}

// ServerVersion asks the server for its version.
func (c *Client) ServerVersion(ctx context.Context) (*semver.Version, error) {
	var resp versionResponse
	if err := c.getJSON(ctx, "version", nil, "version", &resp); err != nil {
		return nil, err
	}
	v, err := semver.NewVersion(resp.Version)
	if err != nil {
		return nil, fmt.Errorf("%w: server reported %q: %w", ErrIncompatibleServer, resp.Version, err)
	}
	return v, nil
}

// CheckCompatible returns ErrIncompatibleServer unless v satisfies constraint.
func CheckCompatible(v *semver.Version, constraint string) error {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("parsing constraint %q: %w", constraint, err)
	}
	if v == nil || !c.Check(v) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrIncompatibleServer, v, constraint)
	}
	return nil
}
