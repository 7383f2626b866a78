package models

import "encoding/json"

// Mashup request/response envelope for the MAST discovery portal.
// The portal accepts a single JSON document posted as the `request`
// form field and answers with a status-wrapped row set.

const (
	MashupStatusComplete  = "COMPLETE"
	MashupStatusExecuting = "EXECUTING"
	MashupStatusError     = "ERROR"
)

type MashupRequest struct {
	Service        string         `json:"service"`
	Params         map[string]any `json:"params"`
	Format         string         `json:"format,omitempty"`
	Data           string         `json:"data,omitempty"`
	FileName       string         `json:"filename,omitempty"`
	Page           int            `json:"page,omitempty"`
	PageSize       int            `json:"pagesize,omitempty"`
	TimeoutSeconds int            `json:"timeout,omitempty"`
	ClientRequest  string         `json:"clientRequestID,omitempty"`
}

func NewMashupRequest(service string, params map[string]any) *MashupRequest {
	if params == nil {
		params = make(map[string]any)
	}
	return &MashupRequest{
		Service: service,
		Params:  params,
		Format:  "json",
	}
}

// Encode renders the request as the JSON document the portal expects.
func (r *MashupRequest) Encode() (string, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

type MashupField struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type MashupResponse struct {
	Status  string           `json:"status"`
	Message string           `json:"msg,omitempty"`
	Percent float64          `json:"percent complete,omitempty"`
	Data    []map[string]any `json:"data"`
	Fields  []MashupField    `json:"fields,omitempty"`
	Paging  *MashupPaging    `json:"paging,omitempty"`
}

type MashupPaging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	PagesFiltered int `json:"pagesFiltered"`
	Rows          int `json:"rows"`
	RowsFiltered  int `json:"rowsFiltered"`
	RowsTotal     int `json:"rowsTotal"`
}

func (r *MashupResponse) IsComplete() bool {
	return r.Status == MashupStatusComplete
}

func (r *MashupResponse) IsExecuting() bool {
	return r.Status == MashupStatusExecuting
}

func (r *MashupResponse) IsError() bool {
	return r.Status == MashupStatusError
}
