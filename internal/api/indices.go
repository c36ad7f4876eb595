package api

import (
	"context"
	"net/http"

	"github.com/mycelian/mycelian-search/client/internal/esutil"
	"github.com/mycelian/mycelian-search/client/internal/types"
)

// Refresh makes every write acknowledged so far visible to search on the
// listed indices, or on all indices when none are given.
func Refresh(ctx context.Context, p Performer, req types.RefreshRequest) (*types.RefreshResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := esutil.Pathify(esutil.Listify(req.Index), "_refresh")
	params := esutil.FilterParams(req.Arguments(), esutil.RefreshParams...)

	resp, err := p.Perform(ctx, http.MethodPost, path, params, nil, "")
	if err != nil {
		return nil, err
	}
	return decode[types.RefreshResponse](resp)
}

// Info returns the name and version of the node that answered.
func Info(ctx context.Context, p Performer) (*types.InfoResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, err := p.Perform(ctx, http.MethodGet, "", nil, nil, "")
	if err != nil {
		return nil, err
	}
	return decode[types.InfoResponse](resp)
}
