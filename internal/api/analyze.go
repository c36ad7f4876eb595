package api

import (
	"context"
	"net/http"

	"github.com/mycelian/mycelian-search/client/internal/esutil"
	"github.com/mycelian/mycelian-search/client/internal/types"
)

// Analyze runs text through an analyzer, or through the tokenizer and filters
// named in the request. The request is sent as GET, or as POST when it
// carries a body.
func Analyze(ctx context.Context, p Performer, req types.AnalyzeRequest) (*types.AnalyzeResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	params := esutil.FilterParams(req.Arguments(), esutil.AnalyzeParams...)
	body, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}
	method := http.MethodGet
	if body != nil {
		method = http.MethodPost
	}

	resp, err := p.Perform(ctx, method, esutil.Pathify(req.Index, "_analyze"), params, body, contentTypeJSON)
	if err != nil {
		return nil, err
	}
	return decode[types.AnalyzeResponse](resp)
}
