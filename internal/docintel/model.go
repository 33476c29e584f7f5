package docintel

import (
	"fmt"
	"strings"
	"time"
)

// Operation statuses reported by the analyze operation.
const (
	StatusNotStarted = "notStarted"
	StatusRunning    = "running"
	StatusSucceeded  = "succeeded"
	StatusFailed     = "failed"
	StatusCanceled   = "canceled"
)

// Field types reported by the service.
const (
	FieldTypeString = "string"
	FieldTypeNumber = "number"
	FieldTypeArray  = "array"
	FieldTypeObject = "object"
)

// Job is the handle of a submitted analyze operation.
type Job struct {
	OperationURL string
	ModelID      string
	SubmittedAt  time.Time
}

// AnalyzeResult is the analyzeResult payload of a succeeded operation.
type AnalyzeResult struct {
	APIVersion string     `json:"apiVersion,omitempty"`
	ModelID    string     `json:"modelId,omitempty"`
	Content    string     `json:"content,omitempty"`
	Documents  []Document `json:"documents,omitempty"`
}

// Document is one labelled document extracted by a custom model.
type Document struct {
	DocType    string           `json:"docType,omitempty"`
	Confidence *float64         `json:"confidence,omitempty"`
	Fields     map[string]Field `json:"fields,omitempty"`
}

// Field is either a scalar (ValueString / ValueNumber) or a repeating table
// (ValueArray of object fields, each holding named columns in ValueObject).
type Field struct {
	Type        string           `json:"type,omitempty"`
	ValueString *string          `json:"valueString,omitempty"`
	ValueNumber *float64         `json:"valueNumber,omitempty"`
	ValueArray  []Field          `json:"valueArray,omitempty"`
	ValueObject map[string]Field `json:"valueObject,omitempty"`
	Content     string           `json:"content,omitempty"`
	Confidence  *float64         `json:"confidence,omitempty"`
}

type operation struct {
	Status        string         `json:"status"`
	AnalyzeResult *AnalyzeResult `json:"analyzeResult,omitempty"`
	Error         *errorBody     `json:"error,omitempty"`
}

type errorBody struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Target     string      `json:"target,omitempty"`
	InnerError *innerError `json:"innererror,omitempty"`
}

type innerError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error *errorBody `json:"error"`
}

// Error is the error payload returned by the service, either when a
// submission is rejected or when the operation ends failed or canceled.
type Error struct {
	Status  int
	Code    string
	Message string
	Inner   string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		return msg
	}
	return fmt.Sprintf("document intelligence error (code=%s status=%d)", e.Code, e.Status)
}

func newError(status int, body *errorBody) *Error {
	if body == nil {
		return &Error{Status: status, Code: "Unknown"}
	}
	out := &Error{
		Status:  status,
		Code:    body.Code,
		Message: body.Message,
	}
	if body.InnerError != nil {
		out.Inner = strings.TrimSpace(body.InnerError.Message)
	}
	return out
}
