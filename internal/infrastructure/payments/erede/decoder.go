package erede

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"erede_gateway/internal/domain/entities"

	"github.com/shopspring/decimal"
)

// Layouts accepted for e.Rede timestamps. time.RFC3339 also parses fractional seconds.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
}

// returnFields are request-level attributes; some replies leave them out.
type returnFields struct {
	ReturnCode    *string `json:"returnCode"`
	ReturnMessage *string `json:"returnMessage"`
}

func (r returnFields) toReturnCode() entities.ReturnCode {
	message := ""
	if r.ReturnMessage != nil {
		message = *r.ReturnMessage
	}
	return entities.NewReturnCode(r.ReturnCode, message)
}

type transactionReply struct {
	returnFields
	Reference         *flexString `json:"reference"`
	TID               *string     `json:"tid"`
	NSU               *string     `json:"nsu"`
	DateTime          *string     `json:"dateTime"`
	AuthorizationCode *string     `json:"authorizationCode"`
	Amount            *int64      `json:"amount"`
	Status            *string     `json:"status"`
}

// flexString accepts a JSON string or number; e.Rede echoes references in
// whichever form the merchant sent them.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func (f *flexString) ptr() *string {
	if f == nil {
		return nil
	}
	s := string(*f)
	return &s
}

type captureInfoReply struct {
	DateTime *string `json:"dateTime"`
	NSU      *string `json:"nsu"`
	Amount   *int64  `json:"amount"`
}

type refundInfoReply struct {
	RefundID       string  `json:"refundId"`
	Status         string  `json:"status"`
	Amount         int64   `json:"amount"`
	RefundDateTime *string `json:"refundDateTime"`
}

type consultReply struct {
	returnFields
	Authorization *transactionReply `json:"authorization"`
	Capture       *captureInfoReply `json:"capture"`
	Refunds       []refundInfoReply `json:"refunds"`
}

type refundReply struct {
	returnFields
	RefundID       *string `json:"refundId"`
	TID            *string `json:"tid"`
	NSU            *string `json:"nsu"`
	RefundDateTime *string `json:"refundDateTime"`
	Amount         *int64  `json:"amount"`
}

// DecodeAuthorization decodes the reply of POST /transactions.
func DecodeAuthorization(raw []byte, status int) (entities.AuthorizationResponse, error) {
	d := decoder{op: OperationAuthorize, status: status}
	var reply transactionReply
	if err := d.unmarshal(raw, &reply); err != nil {
		return entities.AuthorizationResponse{}, err
	}

	base, err := d.paymentResponse(reply)
	if err != nil {
		return entities.AuthorizationResponse{}, err
	}
	return entities.AuthorizationResponse{
		PaymentResponse:   base,
		AuthorizationCode: reply.AuthorizationCode,
		Amount:            optionalAmount(reply.Amount),
	}, nil
}

// DecodeCapture decodes the reply of PUT /transactions/{tid}.
func DecodeCapture(raw []byte, status int) (entities.CaptureResponse, error) {
	d := decoder{op: OperationCapture, status: status}
	var reply transactionReply
	if err := d.unmarshal(raw, &reply); err != nil {
		return entities.CaptureResponse{}, err
	}

	base, err := d.paymentResponse(reply)
	if err != nil {
		return entities.CaptureResponse{}, err
	}
	return entities.CaptureResponse{PaymentResponse: base}, nil
}

// DecodeConsult decodes the reply of GET /transactions/{tid}. The transaction
// itself lives in the "authorization" container.
func DecodeConsult(raw []byte, status int) (entities.ConsultResponse, error) {
	d := decoder{op: OperationConsult, status: status}
	var reply consultReply
	if err := d.unmarshal(raw, &reply); err != nil {
		return entities.ConsultResponse{}, err
	}
	if reply.Authorization == nil {
		return entities.ConsultResponse{}, d.missing("authorization")
	}

	base, err := d.paymentResponse(*reply.Authorization)
	if err != nil {
		return entities.ConsultResponse{}, err
	}
	if base.Return.Code == nil && reply.ReturnCode != nil {
		base.Return = reply.toReturnCode()
	}
	out := entities.ConsultResponse{
		PaymentResponse: base,
		Status:          reply.Authorization.Status,
		Amount:          optionalAmount(reply.Authorization.Amount),
	}

	if reply.Capture != nil {
		capture, err := d.captureInfo(*reply.Capture)
		if err != nil {
			return entities.ConsultResponse{}, err
		}
		out.Capture = &capture
	}

	for _, r := range reply.Refunds {
		info := entities.RefundInfo{
			RefundID: r.RefundID,
			Status:   r.Status,
			Amount:   FromMinorUnits(r.Amount),
		}
		if r.RefundDateTime != nil {
			ts, err := d.timestamp("refunds.refundDateTime", *r.RefundDateTime)
			if err != nil {
				return entities.ConsultResponse{}, err
			}
			info.DateTime = &ts
		}
		out.Refunds = append(out.Refunds, info)
	}
	return out, nil
}

// DecodeCancel decodes the reply of POST /transactions/{tid}/refunds.
func DecodeCancel(raw []byte, status int) (entities.CancelResponse, error) {
	d := decoder{op: OperationCancel, status: status}
	var reply refundReply
	if err := d.unmarshal(raw, &reply); err != nil {
		return entities.CancelResponse{}, err
	}

	refundID, err := d.required("refundId", reply.RefundID)
	if err != nil {
		return entities.CancelResponse{}, err
	}
	nsu, err := d.required("nsu", reply.NSU)
	if err != nil {
		return entities.CancelResponse{}, err
	}
	rawTS, err := d.required("refundDateTime", reply.RefundDateTime)
	if err != nil {
		return entities.CancelResponse{}, err
	}
	ts, err := d.timestamp("refundDateTime", rawTS)
	if err != nil {
		return entities.CancelResponse{}, err
	}

	return entities.CancelResponse{
		PaymentResponse: entities.PaymentResponse{
			TransactionID: reply.TID,
			NSU:           nsu,
			DateTime:      ts,
			Return:        reply.toReturnCode(),
			HTTPStatus:    d.status,
		},
		CancellationID: refundID,
		Amount:         optionalAmount(reply.Amount),
	}, nil
}

type decoder struct {
	op     Operation
	status int
}

func (d decoder) unmarshal(raw []byte, into any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return &DecodingError{Operation: d.op, HTTPStatus: d.status, Err: errors.New("reply is not a JSON object")}
	}
	if err := json.Unmarshal(trimmed, into); err != nil {
		return &DecodingError{Operation: d.op, HTTPStatus: d.status, Err: err}
	}
	return nil
}

func (d decoder) paymentResponse(reply transactionReply) (entities.PaymentResponse, error) {
	nsu, err := d.required("nsu", reply.NSU)
	if err != nil {
		return entities.PaymentResponse{}, err
	}
	rawTS, err := d.required("dateTime", reply.DateTime)
	if err != nil {
		return entities.PaymentResponse{}, err
	}
	ts, err := d.timestamp("dateTime", rawTS)
	if err != nil {
		return entities.PaymentResponse{}, err
	}

	return entities.PaymentResponse{
		Reference:     reply.Reference.ptr(),
		TransactionID: reply.TID,
		NSU:           nsu,
		DateTime:      ts,
		Return:        reply.toReturnCode(),
		HTTPStatus:    d.status,
	}, nil
}

func (d decoder) captureInfo(reply captureInfoReply) (entities.CaptureInfo, error) {
	nsu, err := d.required("capture.nsu", reply.NSU)
	if err != nil {
		return entities.CaptureInfo{}, err
	}
	rawTS, err := d.required("capture.dateTime", reply.DateTime)
	if err != nil {
		return entities.CaptureInfo{}, err
	}
	ts, err := d.timestamp("capture.dateTime", rawTS)
	if err != nil {
		return entities.CaptureInfo{}, err
	}

	info := entities.CaptureInfo{NSU: nsu, DateTime: ts}
	if reply.Amount != nil {
		info.Amount = FromMinorUnits(*reply.Amount)
	}
	return info, nil
}

func (d decoder) required(field string, v *string) (string, error) {
	if v == nil {
		return "", d.missing(field)
	}
	return *v, nil
}

func (d decoder) missing(field string) error {
	return &DecodingError{Operation: d.op, Field: field, HTTPStatus: d.status, Err: errMissingField}
}

func (d decoder) timestamp(field, raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		ts, err := time.Parse(layout, raw)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, &DecodingError{Operation: d.op, Field: field, HTTPStatus: d.status, Err: lastErr}
}

func optionalAmount(v *int64) *decimal.Decimal {
	if v == nil {
		return nil
	}
	amount := FromMinorUnits(*v)
	return &amount
}
