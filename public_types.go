package client

import (
	"github.com/mycelian/mycelian-search/client/internal/esutil"
	"github.com/mycelian/mycelian-search/client/internal/types"
)

// Public type aliases so SDK consumers can import only the client package.
// Requests
type (
	AnalyzeRequest = types.AnalyzeRequest
	BulkRequest    = types.BulkRequest
	IndexRequest   = types.IndexRequest
	GetRequest     = types.GetRequest
	DeleteRequest  = types.DeleteRequest
	SearchRequest  = types.SearchRequest
	RefreshRequest = types.RefreshRequest
	Arguments      = esutil.Arguments

	// Bulk bodies
	BulkShape     = esutil.BulkShape
	BulkBody      = esutil.BulkBody
	BulkOperation = esutil.BulkOperation

	// Responses
	Response         = types.Response
	AnalyzeResponse  = types.AnalyzeResponse
	AnalyzeToken     = types.AnalyzeToken
	BulkResponse     = types.BulkResponse
	BulkResponseItem = types.BulkResponseItem
	DocumentResponse = types.DocumentResponse
	GetResponse      = types.GetResponse
	SearchResponse   = types.SearchResponse
	SearchHit        = types.SearchHit
	RefreshResponse  = types.RefreshResponse
	InfoResponse     = types.InfoResponse
	EnqueueAck       = types.EnqueueAck
	ErrorCause       = types.ErrorCause
)

// Bulk body shapes.
const (
	BulkWithData = esutil.BulkWithData
	BulkRaw      = esutil.BulkRaw
	BulkGeneric  = esutil.BulkGeneric
)

// DetectBulk classifies loosely typed bulk items, as decoded from JSON, into
// a BulkBody. Batches mixing shapes return ErrMixedBulkShape.
func DetectBulk(items []any) (BulkBody, error) { return esutil.DetectBulk(items) }

// EncodeBulk renders loosely typed bulk items as newline-delimited JSON.
func EncodeBulk(items []any) (string, error) { return esutil.EncodeBulk(items) }
