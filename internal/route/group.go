// Package route builds and parses group page paths.
package route

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrMissingGroupID is returned when a path does not name a group.
var ErrMissingGroupID = errors.New("missing group id")

var groupIDPattern = regexp.MustCompile(`/group/(\d+)`)

// GroupID extracts the numeric id following /group/ in path.
func GroupID(path string) (int, error) {
	m := groupIDPattern.FindStringSubmatch(path)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrMissingGroupID, path)
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrMissingGroupID, path, err)
	}
	return id, nil
}

// GroupPath returns the path of the group page.
func GroupPath(id int) string {
	return "/group/" + strconv.Itoa(id)
}

// RefreshPath returns the path of the group's refresh endpoint.
func RefreshPath(id int) string {
	return GroupPath(id) + "/refresh"
}
