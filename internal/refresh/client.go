// Package refresh asks the backend to re-collect a group's commits.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/naka-gawa/commit-streaks/internal/route"
	"github.com/sirupsen/logrus"
)

// ErrRefreshFailed is returned when the refresh endpoint does not accept
// the request.
var ErrRefreshFailed = errors.New("refresh failed")

// Client posts to the refresh endpoint of the group a page belongs to.
type Client struct {
	httpClient *http.Client
	logger     logrus.FieldLogger
}

// NewClient creates a Client. A nil httpClient means http.DefaultClient.
func NewClient(httpClient *http.Client, logger logrus.FieldLogger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient, logger: logger}
}

// Endpoint returns the refresh URL for the group page at pageURL.
func Endpoint(pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse page url: %w", err)
	}
	id, err := route.GroupID(u.Path)
	if err != nil {
		return "", err
	}
	ref := &url.URL{Path: route.RefreshPath(id)}
	return u.ResolveReference(ref).String(), nil
}

// Refresh posts to the refresh endpoint for pageURL. The caller reloads
// the page on success. Failures are logged here and returned; nothing is
// rolled back because nothing was changed beforehand.
func (c *Client) Refresh(ctx context.Context, pageURL string) error {
	endpoint, err := Endpoint(pageURL)
	if err != nil {
		c.logger.WithError(err).WithField("page", pageURL).Warn("cannot refresh group")
		return err
	}
	c.logger.WithField("endpoint", endpoint).Info("Refreshing group data.")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build refresh request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrRefreshFailed, err)
		c.logger.WithError(err).WithField("endpoint", endpoint).Error("error refreshing data")
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err = fmt.Errorf("%w: %s", ErrRefreshFailed, resp.Status)
		c.logger.WithError(err).WithField("endpoint", endpoint).Error("error refreshing data")
		return err
	}
	return nil
}
