// Package qr encodes the compliance QR payload: a fixed-order TLV byte
// sequence (1-byte tag, 1-byte length, UTF-8 value), base64 encoded.
package qr

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Tags in mandated order. The decoder preserves order, so an encoded
// payload always round-trips to the exact field list that produced it.
const (
	TagSellerName      byte = 1
	TagSellerTRN       byte = 2
	TagTimestamp       byte = 3
	TagInvoiceTotal    byte = 4
	TagVATTotal        byte = 5
	TagXMLHash         byte = 6
)

var (
	ErrFieldTooLong     = errors.New("qr_field_too_long")
	ErrTruncatedPayload = errors.New("qr_payload_truncated")
)

// Field is one tagged value. Values are UTF-8 strings; the single length
// byte caps each value at 255 encoded bytes.
type Field struct {
	Tag   byte
	Value string
}

// Fields assembles the mandated field list for an invoice document.
// Timestamp is rendered ISO-8601 in UTC; amounts with 2 decimal places.
func Fields(sellerName, sellerTRN string, issuedAt time.Time, invoiceTotal, vatTotal decimal.Decimal, xmlHash string) []Field {
	return []Field{
		{Tag: TagSellerName, Value: sellerName},
		{Tag: TagSellerTRN, Value: sellerTRN},
		{Tag: TagTimestamp, Value: issuedAt.UTC().Format(time.RFC3339)},
		{Tag: TagInvoiceTotal, Value: invoiceTotal.StringFixed(2)},
		{Tag: TagVATTotal, Value: vatTotal.StringFixed(2)},
		{Tag: TagXMLHash, Value: xmlHash},
	}
}

// Encode serializes the fields as TLV and base64-encodes the result.
// A value longer than 255 UTF-8 bytes is a hard error, never truncated.
func Encode(fields []Field) (string, error) {
	size := 0
	for _, f := range fields {
		if len(f.Value) > 255 {
			return "", fmt.Errorf("tag %d: %w", f.Tag, ErrFieldTooLong)
		}
		size += 2 + len(f.Value)
	}

	buf := make([]byte, 0, size)
	for _, f := range fields {
		buf = append(buf, f.Tag, byte(len(f.Value)))
		buf = append(buf, f.Value...)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// Decode reverses Encode, recovering the exact ordered field list.
func Decode(payload string) ([]Field, error) {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, err
	}

	var fields []Field
	for i := 0; i < len(raw); {
		if i+2 > len(raw) {
			return nil, ErrTruncatedPayload
		}
		tag := raw[i]
		length := int(raw[i+1])
		i += 2
		if i+length > len(raw) {
			return nil, ErrTruncatedPayload
		}
		fields = append(fields, Field{Tag: tag, Value: string(raw[i : i+length])})
		i += length
	}
	return fields, nil
}

// Value returns the first field with the given tag.
func Value(fields []Field, tag byte) (string, bool) {
	for _, f := range fields {
		if f.Tag == tag {
			return f.Value, true
		}
	}
	return "", false
}
