package api

import (
	"context"
	"net/http"

	"github.com/mycelian/mycelian-search/client/internal/esutil"
	"github.com/mycelian/mycelian-search/client/internal/types"
)

// Search queries the listed indices and types; none means all of them.
func Search(ctx context.Context, p Performer, req types.SearchRequest) (*types.SearchResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}
	method := http.MethodGet
	if body != nil {
		method = http.MethodPost
	}
	path := esutil.Pathify(indexOrAll(esutil.Listify(req.Index), esutil.Listify(req.DocumentType)),
		esutil.Listify(req.DocumentType), "_search")
	params := esutil.FilterParams(req.Arguments(), esutil.SearchParams...)

	resp, err := p.Perform(ctx, method, path, params, body, contentTypeJSON)
	if err != nil {
		return nil, err
	}
	return decode[types.SearchResponse](resp)
}
