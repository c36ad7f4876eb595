package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mycelian/mycelian-search/client/internal/esutil"
	"github.com/mycelian/mycelian-search/client/internal/job"
	"github.com/mycelian/mycelian-search/client/internal/types"
)

// Index stores a document. With an ID it is PUT at that ID, otherwise POSTed
// and the cluster assigns one.
func Index(ctx context.Context, p Performer, req types.IndexRequest) (*types.DocumentResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	method, path, params, body, err := prepareIndex(req)
	if err != nil {
		return nil, err
	}
	resp, err := p.Perform(ctx, method, path, params, body, contentTypeJSON)
	if err != nil {
		return nil, err
	}
	return decode[types.DocumentResponse](resp)
}

// IndexAsync validates and encodes the document, then hands the write to exec
// keyed by index so writes to one index are applied in submission order.
func IndexAsync(ctx context.Context, exec types.Executor, p Performer, req types.IndexRequest) (*types.EnqueueAck, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	method, path, params, body, err := prepareIndex(req)
	if err != nil {
		return nil, err
	}
	indexJob := job.New("index", req.Index, func(jobCtx context.Context) error {
		_, err := p.Perform(jobCtx, method, path, params, body, contentTypeJSON)
		return err
	})
	if err := exec.Submit(ctx, req.Index, indexJob); err != nil {
		return nil, err
	}
	return &types.EnqueueAck{Index: req.Index, ID: req.ID, Status: "enqueued"}, nil
}

func prepareIndex(req types.IndexRequest) (method, path string, params esutil.Params, body []byte, err error) {
	if err = types.ValidateIndexName(req.Index); err != nil {
		return
	}
	if req.Document == nil {
		err = fmt.Errorf("document is required")
		return
	}
	if body, err = encodeBody(req.Document); err != nil {
		return
	}
	method = http.MethodPost
	if req.ID != "" {
		method = http.MethodPut
	}
	path = esutil.Pathify(req.Index, documentType(req.DocumentType), req.ID)
	params = esutil.FilterParams(req.Arguments(), esutil.IndexParams...)
	return
}

// Get fetches a document. A missing document yields an error matching
// types.ErrNotFound.
func Get(ctx context.Context, p Performer, req types.GetRequest) (*types.GetResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(req.Index, "index"); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(req.ID, "id"); err != nil {
		return nil, err
	}
	path := esutil.Pathify(req.Index, documentType(req.DocumentType), req.ID)
	params := esutil.FilterParams(req.Arguments(), esutil.GetParams...)

	resp, err := p.Perform(ctx, http.MethodGet, path, params, nil, "")
	if err != nil {
		return nil, err
	}
	return decode[types.GetResponse](resp)
}

// Delete removes a document.
func Delete(ctx context.Context, p Performer, req types.DeleteRequest) (*types.DocumentResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, params, err := prepareDelete(req)
	if err != nil {
		return nil, err
	}
	resp, err := p.Perform(ctx, http.MethodDelete, path, params, nil, "")
	if err != nil {
		return nil, err
	}
	return decode[types.DocumentResponse](resp)
}

// DeleteAsync enqueues a delete behind any pending writes to the same index.
func DeleteAsync(ctx context.Context, exec types.Executor, p Performer, req types.DeleteRequest) (*types.EnqueueAck, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, params, err := prepareDelete(req)
	if err != nil {
		return nil, err
	}
	deleteJob := job.New("delete", req.Index, func(jobCtx context.Context) error {
		_, err := p.Perform(jobCtx, http.MethodDelete, path, params, nil, "")
		return err
	})
	if err := exec.Submit(ctx, req.Index, deleteJob); err != nil {
		return nil, err
	}
	return &types.EnqueueAck{Index: req.Index, ID: req.ID, Status: "enqueued"}, nil
}

func prepareDelete(req types.DeleteRequest) (string, esutil.Params, error) {
	if err := types.ValidateIDPresent(req.Index, "index"); err != nil {
		return "", nil, err
	}
	if err := types.ValidateIDPresent(req.ID, "id"); err != nil {
		return "", nil, err
	}
	path := esutil.Pathify(req.Index, documentType(req.DocumentType), req.ID)
	return path, esutil.FilterParams(req.Arguments(), esutil.DeleteParams...), nil
}
