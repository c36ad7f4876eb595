// Package api binds the search engine's REST endpoints. Each binding builds
// its path and query from the caller's arguments and hands the request to a
// Performer.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/mycelian/mycelian-search/client/internal/esutil"
	"github.com/mycelian/mycelian-search/client/internal/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// HTTPClient interface for dependency injection
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Performer executes one request against the cluster. *Requester is the
// production implementation.
type Performer interface {
	Perform(ctx context.Context, method, path string, params esutil.Params, body []byte, contentType string) (*types.Response, error)
}

const (
	contentTypeJSON   = "application/json"
	contentTypeNDJSON = "application/x-ndjson"
)

// encodeBody serializes a request body. Strings and byte slices are sent as
// given; anything else is marshalled to JSON. A nil body yields nil.
func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case string:
		return []byte(b), nil
	default:
		out, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		return out, nil
	}
}

func decode[T any](resp *types.Response) (*T, error) {
	var out T
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

// indexOrAll keeps a type-scoped path from reading the type as an index name.
func indexOrAll(index, docType string) string {
	if strings.TrimSpace(index) == "" && strings.TrimSpace(docType) != "" {
		return "_all"
	}
	return index
}

func documentType(t string) string {
	if t == "" {
		return types.DefaultDocumentType
	}
	return t
}
