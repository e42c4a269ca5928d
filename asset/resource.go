package asset

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// The Resource type wraps a streamable file or remote resource.
type Resource struct {
	io.ReadCloser
	url *url.URL
}

// Returns the path to this resource.
func (r *Resource) Path() string {
	return r.url.String()
}

// Returns true if the resource is streamed over http/https.
func (r *Resource) IsRemote() bool {
	return r.url.Scheme != ""
}

// Create a new resource data stream. If relTo is specified and pathToResource
// does not define a scheme, the path to the new resource is resolved relative
// to relTo's directory; material libraries referenced by a mesh file resolve
// this way.
//
// http/https URLs are delegated to the net/http package. The caller must
// close the returned resource.
func NewResource(pathToResource string, relTo *Resource) (*Resource, error) {
	parsed, err := url.Parse(strings.Replace(pathToResource, `\`, `/`, -1))
	if err != nil {
		return nil, err
	}

	if parsed.Scheme == "" && relTo != nil {
		path := parsed.Path
		parsed, _ = url.Parse(relTo.url.String())
		prefix := parsed.Path
		if parsed.Scheme == "" {
			prefix, err = filepath.Abs(relTo.url.String())
			if err != nil {
				return nil, fmt.Errorf("resource: could not detect abs path for %s; %s", relTo.url.String(), err.Error())
			}
		}
		parsed.Path = filepath.Dir(prefix) + "/" + path
	}

	var reader io.ReadCloser
	switch parsed.Scheme {
	case "":
		reader, err = os.Open(filepath.Clean(parsed.Path))
		if err != nil {
			return nil, err
		}
	case "http", "https":
		resp, err := http.Get(parsed.String())
		if err != nil {
			return nil, fmt.Errorf("resource: could not fetch '%s': %s", parsed.String(), err)
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, fmt.Errorf("resource: could not fetch '%s': status %d", parsed.String(), resp.StatusCode)
		}
		reader = resp.Body
	default:
		return nil, fmt.Errorf("resource: unsupported scheme %q", parsed.Scheme)
	}

	return &Resource{
		ReadCloser: reader,
		url:        parsed,
	}, nil
}
