package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mycelian/mycelian-search/client/internal/esutil"
	"github.com/mycelian/mycelian-search/client/internal/types"
)

// Bulk sends several index, create, update or delete operations in one
// newline-delimited request. A 200 reply can still carry failed items; see
// BulkResponse.Failed.
func Bulk(ctx context.Context, p Performer, req types.BulkRequest) (*types.BulkResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	payload, err := req.Body.Encode()
	if err != nil {
		return nil, fmt.Errorf("bulk: %w", err)
	}
	if payload == "" {
		return nil, fmt.Errorf("bulk: body has no operations")
	}
	params := esutil.FilterParams(req.Arguments(), esutil.BulkParams...)
	path := esutil.Pathify(indexOrAll(req.Index, req.DocumentType), req.DocumentType, "_bulk")

	resp, err := p.Perform(ctx, http.MethodPost, path, params, []byte(payload), contentTypeNDJSON)
	if err != nil {
		return nil, err
	}
	out, err := decode[types.BulkResponse](resp)
	if err != nil {
		return nil, err
	}
	failed := len(out.Failed())
	bulkItemsTotal.WithLabelValues("ok").Add(float64(len(out.Items) - failed))
	bulkItemsTotal.WithLabelValues("failed").Add(float64(failed))
	return out, nil
}
